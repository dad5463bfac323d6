// Package workflowengine - клиент внешнего движка планирования (n8n/Zapier-подобный webhook)
package workflowengine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrDisabled = errors.New("workflow engine webhook is not configured")

// TriggerRequest - тело запроса на webhook
type TriggerRequest struct {
	ApplicationID string `json:"application_id"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Status        string `json:"status"`
	Position      string `json:"position"`
}

// TriggerResponse - ответ движка; ссылка на бронирование может отсутствовать
type TriggerResponse struct {
	ScheduleLink string `json:"schedule_link"`
}

type Client struct {
	webhookURL string
	httpClient *http.Client
}

func NewClient(webhookURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Enabled() bool {
	return c.webhookURL != ""
}

// Trigger запускает сценарий планирования для кандидата
func (c *Client) Trigger(ctx context.Context, req TriggerRequest) (*TriggerResponse, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("webhook call failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read webhook response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	out := &TriggerResponse{}
	if len(bytes.TrimSpace(raw)) > 0 {
		// тело не JSON - не ошибка, просто без ссылки
		_ = json.Unmarshal(raw, out)
	}
	return out, nil
}
