package testutil

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sync"
	"testing"

	"hrflow_backend/internal/clients/workflowengine"
	"hrflow_backend/internal/email"

	"github.com/stretchr/testify/require"
)

// RecordingNotifier запоминает письма; InviteErr имитирует сбой почты
type RecordingNotifier struct {
	mu            sync.Mutex
	Invites       []email.InviteData
	Confirmations []email.ConfirmationData
	InviteErr     error
}

func (n *RecordingNotifier) SendInterviewInvite(ctx context.Context, data email.InviteData) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.InviteErr != nil {
		return n.InviteErr
	}
	n.Invites = append(n.Invites, data)
	return nil
}

func (n *RecordingNotifier) SendApplicationConfirmation(ctx context.Context, data email.ConfirmationData) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Confirmations = append(n.Confirmations, data)
}

// ConfirmationsSent - копия отправленных подтверждений; отправка идет в фоне
func (n *RecordingNotifier) ConfirmationsSent() []email.ConfirmationData {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]email.ConfirmationData(nil), n.Confirmations...)
}

func (n *RecordingNotifier) InviteCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Invites)
}

// FakeEngine - движок планирования с заранее заданным ответом
type FakeEngine struct {
	Disabled bool
	Link     string
	Err      error
	Calls    []workflowengine.TriggerRequest
}

func (e *FakeEngine) Enabled() bool { return !e.Disabled }

func (e *FakeEngine) Trigger(ctx context.Context, req workflowengine.TriggerRequest) (*workflowengine.TriggerResponse, error) {
	e.Calls = append(e.Calls, req)
	if e.Err != nil {
		return nil, e.Err
	}
	return &workflowengine.TriggerResponse{ScheduleLink: e.Link}, nil
}

// FakeScorer возвращает Answer как ответ модели
type FakeScorer struct {
	Answer  string
	Err     error
	Prompts []string
}

func (s *FakeScorer) ScoreDocument(ctx context.Context, prompt string, document []byte, mimeType string) (string, error) {
	s.Prompts = append(s.Prompts, prompt)
	return s.Answer, s.Err
}

// FileHeader собирает настоящий multipart.FileHeader, как его отдает gin
func FileHeader(t *testing.T, field, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, "/", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	files := req.MultipartForm.File[field]
	require.Len(t, files, 1)
	return files[0]
}
