package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hrflow_backend/internal/logger"
)

// Notifier - письма кандидатам.
// Приглашение - жесткая ошибка для вызывающего; подтверждение - best effort.
type Notifier interface {
	SendInterviewInvite(ctx context.Context, data InviteData) error
	SendApplicationConfirmation(ctx context.Context, data ConfirmationData)
}

type MailNotifier struct {
	provider Provider
	renderer TemplateRenderer
	from     string
	fromName string
	now      func() time.Time
}

func NewNotifier(provider Provider, renderer TemplateRenderer, from, fromName string) *MailNotifier {
	return &MailNotifier{
		provider: provider,
		renderer: renderer,
		from:     from,
		fromName: fromName,
		now:      time.Now,
	}
}

const inviteTimeLayout = "Mon, 02 Jan 2006 15:04 MST"

func (n *MailNotifier) SendInterviewInvite(ctx context.Context, data InviteData) error {
	if data.CandidateMail == "" {
		return fmt.Errorf("candidate email is empty")
	}

	html, err := n.renderer.Render(TemplateInterviewInvite, TemplateData{
		"CandidateName": data.CandidateName,
		"PositionName":  data.PositionName,
		"Intro":         inviteIntro(data.Stage),
		"Start":         data.Start.Format(inviteTimeLayout),
		"End":           data.End.Format(inviteTimeLayout),
		"Location":      data.Location,
		"Notes":         data.Notes,
		"SenderName":    n.fromName,
	})
	if err != nil {
		return err
	}

	msg := &Email{
		From:     n.from,
		FromName: n.fromName,
		To:       []string{data.CandidateMail},
		Subject:  data.Subject,
		HTMLBody: html,
		Attachments: []Attachment{{
			Name:        "invite.ics",
			ContentType: "text/calendar; charset=utf-8; method=REQUEST",
			Content:     []byte(buildICS(data, n.from, n.now())),
		}},
	}

	start := time.Now()
	err = n.provider.Send(ctx, msg)
	logger.ExternalCallLog(n.provider.Name(), "send_interview_invite", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("send interview invite: %w", err)
	}
	return nil
}

func (n *MailNotifier) SendApplicationConfirmation(ctx context.Context, data ConfirmationData) {
	html, err := n.renderer.Render(TemplateApplicationConfirmation, TemplateData{
		"CandidateName": data.CandidateName,
		"PositionName":  data.PositionName,
		"ApplicationID": data.ApplicationID,
		"SenderName":    n.fromName,
	})
	if err != nil {
		logger.CtxWithError(ctx, "Failed to render confirmation email", err, "application_id", data.ApplicationID)
		return
	}

	start := time.Now()
	err = n.provider.Send(ctx, &Email{
		From:     n.from,
		FromName: n.fromName,
		To:       []string{data.CandidateMail},
		Subject:  "We received your application: " + data.PositionName,
		HTMLBody: html,
	})
	logger.ExternalCallLog(n.provider.Name(), "send_application_confirmation", time.Since(start), err)
	if err != nil {
		logger.CtxWarn(ctx, "Confirmation email not delivered", "application_id", data.ApplicationID, "error", err.Error())
	}
}

func inviteIntro(stage string) string {
	switch stage {
	case "FINAL_INTERVIEW":
		return "We would like to invite you to a final interview"
	case "ONBOARDING":
		return "Welcome aboard! Your onboarding session is scheduled"
	default:
		return "We would like to invite you to an interview"
	}
}

// buildICS - минимальный VEVENT (RFC 5545), чтобы почтовые клиенты предлагали добавить в календарь
func buildICS(data InviteData, organizer string, now time.Time) string {
	const layout = "20060102T150405Z"
	escape := strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//hrflow//interview//EN",
		"METHOD:REQUEST",
		"BEGIN:VEVENT",
		fmt.Sprintf("UID:%s-%s@hrflow", data.ApplicationID, strings.ToLower(data.Stage)),
		"DTSTAMP:" + now.UTC().Format(layout),
		"DTSTART:" + data.Start.UTC().Format(layout),
		"DTEND:" + data.End.UTC().Format(layout),
		"SUMMARY:" + escape.Replace(data.Subject),
		"ORGANIZER:mailto:" + organizer,
		"ATTENDEE;RSVP=TRUE:mailto:" + data.CandidateMail,
	}
	if data.Location != "" {
		lines = append(lines, "LOCATION:"+escape.Replace(data.Location))
	}
	lines = append(lines, "END:VEVENT", "END:VCALENDAR")
	return strings.Join(lines, "\r\n") + "\r\n"
}
