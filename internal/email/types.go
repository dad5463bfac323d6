package email

import "time"

// Attachment представляет вложение в email
type Attachment struct {
	Name        string
	Content     []byte
	ContentType string
}

// Email представляет структуру email сообщения
type Email struct {
	From        string
	FromName    string
	To          []string
	Subject     string
	Body        string
	HTMLBody    string
	Attachments []Attachment
}

// TemplateData представляет данные для шаблонов писем
type TemplateData map[string]interface{}

// InviteData - приглашение кандидата на интервью/онбординг
type InviteData struct {
	ApplicationID string
	CandidateName string
	CandidateMail string
	PositionName  string
	Subject       string
	Stage         string // MANAGER_INTERVIEW, FINAL_INTERVIEW, ONBOARDING
	Start         time.Time
	End           time.Time
	Location      string
	Notes         string
}

// ConfirmationData - подтверждение получения заявки
type ConfirmationData struct {
	ApplicationID string
	CandidateName string
	CandidateMail string
	PositionName  string
}
