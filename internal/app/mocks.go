package app

import (
	"context"
	"strings"

	"hrflow_backend/internal/email"
	"hrflow_backend/internal/logger"
)

// MockEmailProvider используется для локальной разработки: письма только логируются.
type MockEmailProvider struct{}

func (m *MockEmailProvider) Send(ctx context.Context, msg *email.Email) error {
	logger.CtxInfo(ctx, "📧 [mock] email not sent",
		"to", strings.Join(msg.To, ","),
		"subject", msg.Subject,
		"attachments", len(msg.Attachments),
	)
	return nil
}

func (m *MockEmailProvider) Name() string { return "mock" }
