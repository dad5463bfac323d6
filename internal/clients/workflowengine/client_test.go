package workflowengine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriggerPostsPayloadAndReadsLink(t *testing.T) {
	var got TriggerRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"schedule_link":"https://cal.example.com/b/123"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	resp, err := c.Trigger(context.Background(), TriggerRequest{
		ApplicationID: "app-1",
		FullName:      "Jane",
		Email:         "jane@example.com",
		Status:        "HIRED",
		Position:      "Backend Intern",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cal.example.com/b/123", resp.ScheduleLink)
	assert.Equal(t, "app-1", got.ApplicationID)
	assert.Equal(t, "HIRED", got.Status)
}

func TestTriggerNonJSONBodyIsAccepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Workflow was started"))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, time.Second).Trigger(context.Background(), TriggerRequest{})
	require.NoError(t, err)
	assert.Empty(t, resp.ScheduleLink)
}

func TestTriggerErrors(t *testing.T) {
	_, err := NewClient("", time.Second).Trigger(context.Background(), TriggerRequest{})
	assert.ErrorIs(t, err, ErrDisabled)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err = NewClient(srv.URL, time.Second).Trigger(context.Background(), TriggerRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
