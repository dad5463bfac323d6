package email

import (
	"context"
	"fmt"
)

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет готовое сообщение
	Send(ctx context.Context, email *Email) error

	// Name - имя провайдера для логов и метрик
	Name() string
}

// TemplateRenderer определяет интерфейс для рендеринга шаблонов
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
}

// ProviderConfig - все, что нужно любому из провайдеров
type ProviderConfig struct {
	Provider     string // smtp, mailjet
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	UseTLS       bool
	APIKey       string
	APISecret    string
}

// NewProvider создает реальный провайдер по имени. mock собирается в app.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch cfg.Provider {
	case "smtp":
		return NewSMTPProvider(cfg)
	case "mailjet":
		return NewMailjetProvider(cfg.APIKey, cfg.APISecret)
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.Provider)
	}
}
