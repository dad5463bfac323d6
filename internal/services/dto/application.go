package dto

import (
	"encoding/json"
	"time"

	"hrflow_backend/internal/models"
)

// PublicApplicationRequest - публичная анкета кандидата (multipart/form-data)
type PublicApplicationRequest struct {
	FullName          string `form:"full_name" validate:"required,min=2,max=255"`
	Email             string `form:"email" validate:"required,email,max=255"`
	Qualification     string `form:"qualification" validate:"max=10000"`
	AgreeTerms        bool   `form:"agree_terms" validate:"eqtrue"`
	AppliedPositionID string `form:"applied_position_id" validate:"required,uuid"`
}

type ApplicationResponse struct {
	ID                    string                     `json:"id"`
	FullName              string                     `json:"full_name"`
	Email                 string                     `json:"email"`
	CvFileName            string                     `json:"cv_file_name"`
	Qualification         string                     `json:"qualification"`
	AgreeTerms            bool                       `json:"agree_terms"`
	Status                models.ApplicationStatus   `json:"status"`
	Score                 *float64                   `json:"score"`
	Justification         string                     `json:"justification"`
	SimilarityScore       *float64                   `json:"similarity_score"`
	PassedHardGate        *bool                      `json:"passed_hard_gate"`
	QualitativeAssessment json.RawMessage            `json:"qualitative_assessment,omitempty" swaggertype:"object"`
	CvData                json.RawMessage            `json:"cv_data,omitempty" swaggertype:"object"`
	RequirementData       json.RawMessage            `json:"requirement_data,omitempty" swaggertype:"object"`
	ScoredAt              *time.Time                 `json:"scored_at,omitempty"`
	InterviewNotes        models.InterviewNotes      `json:"interview_notes"`
	IsArchived            bool                       `json:"is_archived"`
	AppliedPositionID     *string                    `json:"applied_position_id"`
	AppliedPositionName   string                     `json:"applied_position_name,omitempty"`
	AllowedNext           []models.ApplicationStatus `json:"allowed_next"`
	CreatedAt             time.Time                  `json:"created_at"`
	UpdatedAt             time.Time                  `json:"updated_at"`
}

type ApplicationListResponse struct {
	Applications []ApplicationResponse `json:"applications"`
	Total        int64                 `json:"total"`
	Page         int                   `json:"page"`
	PageSize     int                   `json:"page_size"`
	TotalPages   int                   `json:"total_pages"`
}

type ApplicationFilter struct {
	Status     models.ApplicationStatus `form:"status" json:"status" validate:"omitempty,is-application-status"`
	PositionID string                   `form:"position_id" json:"position_id" validate:"omitempty,max=36"`
	IsArchived *bool                    `form:"archived" json:"archived"`
	Search     string                   `form:"search" json:"search" validate:"omitempty,max=100"`
}

// UpdateStatusRequest - смена статуса и/или дописывание заметок
type UpdateStatusRequest struct {
	Status         models.ApplicationStatus `json:"status" validate:"required,is-application-status"`
	InterviewNotes *models.InterviewNotes   `json:"interview_notes"`
	Comment        string                   `json:"comment" validate:"max=2000"`
}

// ScheduleInterviewRequest - слот из календаря. Этап определяется текущим статусом заявки.
type ScheduleInterviewRequest struct {
	Start    time.Time `json:"start" validate:"required"`
	End      time.Time `json:"end" validate:"required,gtfield=Start"`
	Title    string    `json:"title" validate:"max=255"`
	Location string    `json:"location" validate:"max=255"`
	Notes    string    `json:"notes" validate:"max=2000"`
}

type ManagerFeedbackRequest struct {
	Decision string `json:"decision" validate:"required,is-manager-decision"`
	Feedback string `json:"feedback" validate:"max=10000"`
}

type FinalDecisionRequest struct {
	Decision string `json:"decision" validate:"required,is-final-decision"`
	Feedback string `json:"feedback" validate:"max=10000"`
}

type ArchiveRequest struct {
	IsArchived *bool `json:"is_archived" validate:"required"`
}

type HistoryEntryResponse struct {
	ID         string                   `json:"id"`
	FromStatus models.ApplicationStatus `json:"from_status"`
	ToStatus   models.ApplicationStatus `json:"to_status"`
	ActorID    *string                  `json:"actor_id,omitempty"`
	ActorRole  models.UserRole          `json:"actor_role"`
	Comment    string                   `json:"comment,omitempty"`
	CreatedAt  time.Time                `json:"created_at"`
}

// SubmitApplicationResponse - ответ кандидату, без внутренних полей
type SubmitApplicationResponse struct {
	ID        string                   `json:"id"`
	Status    models.ApplicationStatus `json:"status"`
	CreatedAt time.Time                `json:"created_at"`
}

// TriggerScheduleResponse - результат вызова внешнего движка
type TriggerScheduleResponse struct {
	Application  ApplicationResponse `json:"application"`
	ScheduleLink string              `json:"schedule_link,omitempty"`
}

// ScheduleInterviewResponse - заявка после планирования и созданная запись календаря
type ScheduleInterviewResponse struct {
	Application ApplicationResponse `json:"application"`
	Schedule    ScheduleResponse    `json:"schedule"`
}

func NewApplicationResponse(a *models.CvApplication, allowed []models.ApplicationStatus) ApplicationResponse {
	resp := ApplicationResponse{
		ID:                    a.ID,
		FullName:              a.FullName,
		Email:                 a.Email,
		CvFileName:            a.CvFileName,
		Qualification:         a.Qualification,
		AgreeTerms:            a.AgreeTerms,
		Status:                a.Status,
		Score:                 a.Score,
		Justification:         a.Justification,
		SimilarityScore:       a.SimilarityScore,
		PassedHardGate:        a.PassedHardGate,
		QualitativeAssessment: json.RawMessage(a.QualitativeAssessment),
		CvData:                json.RawMessage(a.CvData),
		RequirementData:       json.RawMessage(a.RequirementData),
		ScoredAt:              a.ScoredAt,
		InterviewNotes:        a.Notes(),
		IsArchived:            a.IsArchived,
		AppliedPositionID:     a.AppliedPositionID,
		AllowedNext:           allowed,
		CreatedAt:             a.CreatedAt,
		UpdatedAt:             a.UpdatedAt,
	}
	if a.AppliedPosition != nil {
		resp.AppliedPositionName = a.AppliedPosition.Name
	}
	if resp.AllowedNext == nil {
		resp.AllowedNext = []models.ApplicationStatus{}
	}
	return resp
}

func NewHistoryEntryResponse(h *models.ApplicationStatusHistory) HistoryEntryResponse {
	return HistoryEntryResponse{
		ID:         h.ID,
		FromStatus: h.FromStatus,
		ToStatus:   h.ToStatus,
		ActorID:    h.ActorID,
		ActorRole:  h.ActorRole,
		Comment:    h.Comment,
		CreatedAt:  h.CreatedAt,
	}
}
