package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hrflow_backend/internal/logger"

	"github.com/google/generative-ai-go/genai"
	"github.com/samber/lo"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

type Model string

const (
	// Model15Flash - быстрая мультимодальная модель, читает PDF напрямую
	Model15Flash Model = "gemini-1.5-flash"
	Model15Pro   Model = "gemini-1.5-pro"
)

type Client struct {
	client            *genai.Client
	model             *genai.GenerativeModel
	minuteRateLimiter *rate.Limiter
	dayRateLimiter    *rate.Limiter
}

func NewClient(ctx context.Context, apiKey string, model Model) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	genModel := client.GenerativeModel(string(model))
	genModel.ResponseMIMEType = "application/json"
	genModel.SetTemperature(0.2)

	return &Client{
		client: client,
		model:  genModel,
	}, nil
}

func (c *Client) SetMinuteRateLimit(maxRequestsPerMinute float32) {
	c.minuteRateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerMinute/60), 1)
}

func (c *Client) SetDayRateLimit(maxRequestsPerDay float32) {
	c.dayRateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerDay/86400), int(maxRequestsPerDay))
}

func (c *Client) Close() error {
	return c.client.Close()
}

// ScoreDocument отправляет промпт и документ (CV) и возвращает JSON-ответ модели
func (c *Client) ScoreDocument(ctx context.Context, prompt string, document []byte, mimeType string) (string, error) {
	parts := []genai.Part{genai.Text(prompt)}
	if len(document) > 0 {
		parts = append(parts, genai.Blob{MIMEType: mimeType, Data: document})
	}

	var resp string
	var err error

	_, _, _ = lo.AttemptWhileWithDelay(3, 2*time.Second, func(i int, _ time.Duration) (error, bool) {
		if i > 0 {
			logger.Warn("gemini api returned 500 error, retrying...", "attempt", i+1)
		}
		resp, err = c.waitAndGenerate(ctx, parts)
		return err, isInternalError(err)
	})

	return resp, err
}

func (c *Client) waitAndGenerate(ctx context.Context, parts []genai.Part) (string, error) {
	limiters := []*rate.Limiter{c.minuteRateLimiter, c.dayRateLimiter}
	for _, limiter := range limiters {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return "", err
			}
		}
	}

	response, err := c.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", err
	}
	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil ||
		len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("response part is not text")
	}
	return sb.String(), nil
}

func isInternalError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "Error 500")
}
