package email

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/mailjet/mailjet-apiv3-go/v4"
)

// MailjetProvider - транзакционный API Mailjet (Send API v3.1)
type MailjetProvider struct {
	client *mailjet.Client
}

func NewMailjetProvider(apiKey, apiSecret string) (*MailjetProvider, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("mailjet api key and secret are required")
	}
	return &MailjetProvider{client: mailjet.NewMailjetClient(apiKey, apiSecret)}, nil
}

func (p *MailjetProvider) Name() string { return "mailjet" }

func (p *MailjetProvider) Send(ctx context.Context, email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	to := make(mailjet.RecipientsV31, 0, len(email.To))
	for _, addr := range email.To {
		to = append(to, mailjet.RecipientV31{Email: addr})
	}

	msg := mailjet.InfoMessagesV31{
		From:     &mailjet.RecipientV31{Email: email.From, Name: email.FromName},
		To:       &to,
		Subject:  email.Subject,
		TextPart: email.Body,
		HTMLPart: email.HTMLBody,
	}
	if len(email.Attachments) > 0 {
		attachments := make(mailjet.AttachmentsV31, 0, len(email.Attachments))
		for _, a := range email.Attachments {
			attachments = append(attachments, mailjet.AttachmentV31{
				ContentType:   a.ContentType,
				Filename:      a.Name,
				Base64Content: base64.StdEncoding.EncodeToString(a.Content),
			})
		}
		msg.Attachments = &attachments
	}

	messages := mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{msg}}
	if _, err := p.client.SendMailV31(&messages); err != nil {
		return fmt.Errorf("mailjet send failed: %w", err)
	}
	return nil
}
