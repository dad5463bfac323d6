package dto

import (
	"time"

	"hrflow_backend/internal/models"
)

// CreateJobPositionRequest - заявка на вакансию. Статус из тела игнорируется: всегда DRAFT.
type CreateJobPositionRequest struct {
	Name                  string     `json:"name" validate:"required,min=2,max=255"`
	Location              string     `json:"location" validate:"max=255"`
	RegistrationStartDate *time.Time `json:"registration_start_date"`
	RegistrationEndDate   *time.Time `json:"registration_end_date"`
	SpecificRequirements  string     `json:"specific_requirements" validate:"max=20000"`
	AvailableSlots        int        `json:"available_slots" validate:"min=0,max=1000"`
	Announcement          string     `json:"announcement" validate:"max=20000"`
	Status                string     `json:"status"`
}

type UpdateJobPositionRequest struct {
	Name                  *string                `json:"name" validate:"omitempty,min=2,max=255"`
	Location              *string                `json:"location" validate:"omitempty,max=255"`
	RegistrationStartDate *time.Time             `json:"registration_start_date"`
	RegistrationEndDate   *time.Time             `json:"registration_end_date"`
	SpecificRequirements  *string                `json:"specific_requirements" validate:"omitempty,max=20000"`
	AvailableSlots        *int                   `json:"available_slots" validate:"omitempty,min=0,max=1000"`
	Announcement          *string                `json:"announcement" validate:"omitempty,max=20000"`
	Status                *models.PositionStatus `json:"status" validate:"omitempty,is-position-status"`
	RejectionReason       *string                `json:"rejection_reason" validate:"omitempty,max=5000"`
	IsArchived            *bool                  `json:"is_archived"`
}

// HasFieldEdits - в запросе есть правки кроме статуса и архивации
func (r *UpdateJobPositionRequest) HasFieldEdits() bool {
	return r.Name != nil || r.Location != nil || r.RegistrationStartDate != nil ||
		r.RegistrationEndDate != nil || r.SpecificRequirements != nil ||
		r.AvailableSlots != nil || r.Announcement != nil
}

type JobPositionFilter struct {
	Status        models.PositionStatus `form:"status" json:"status" validate:"omitempty,is-position-status"`
	IsArchived    *bool                 `form:"archived" json:"archived"`
	RequestedByID string                `form:"requested_by" json:"requested_by" validate:"omitempty,max=36"`
	Search        string                `form:"search" json:"search" validate:"omitempty,max=100"`
}

type JobPositionResponse struct {
	ID                    string                `json:"id"`
	Name                  string                `json:"name"`
	Location              string                `json:"location"`
	RegistrationStartDate *time.Time            `json:"registration_start_date"`
	RegistrationEndDate   *time.Time            `json:"registration_end_date"`
	SpecificRequirements  string                `json:"specific_requirements"`
	AvailableSlots        int                   `json:"available_slots"`
	Status                models.PositionStatus `json:"status"`
	Announcement          string                `json:"announcement"`
	RejectionReason       string                `json:"rejection_reason,omitempty"`
	IsArchived            bool                  `json:"is_archived"`
	RequestedByID         *string               `json:"requested_by_id"`
	RequestedBy           *UserSummary          `json:"requested_by,omitempty"`
	AcceptsApplications   bool                  `json:"accepts_applications"`
	CreatedAt             time.Time             `json:"created_at"`
	UpdatedAt             time.Time             `json:"updated_at"`
}

// PublicJobPositionResponse - то, что видит кандидат
type PublicJobPositionResponse struct {
	ID                    string     `json:"id"`
	Name                  string     `json:"name"`
	Location              string     `json:"location"`
	RegistrationStartDate *time.Time `json:"registration_start_date"`
	RegistrationEndDate   *time.Time `json:"registration_end_date"`
	SpecificRequirements  string     `json:"specific_requirements"`
	AvailableSlots        int        `json:"available_slots"`
	Announcement          string     `json:"announcement"`
}

type JobPositionListResponse struct {
	JobPositions []JobPositionResponse `json:"job_positions"`
	Total        int64                 `json:"total"`
	Page         int                   `json:"page"`
	PageSize     int                   `json:"page_size"`
	TotalPages   int                   `json:"total_pages"`
}

func NewJobPositionResponse(p *models.JobPosition, now time.Time) JobPositionResponse {
	return JobPositionResponse{
		ID:                    p.ID,
		Name:                  p.Name,
		Location:              p.Location,
		RegistrationStartDate: p.RegistrationStartDate,
		RegistrationEndDate:   p.RegistrationEndDate,
		SpecificRequirements:  p.SpecificRequirements,
		AvailableSlots:        p.AvailableSlots,
		Status:                p.Status,
		Announcement:          p.Announcement,
		RejectionReason:       p.RejectionReason,
		IsArchived:            p.IsArchived,
		RequestedByID:         p.RequestedByID,
		RequestedBy:           NewUserSummary(p.RequestedBy),
		AcceptsApplications:   p.AcceptsApplications(now),
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

func NewPublicJobPositionResponse(p *models.JobPosition) PublicJobPositionResponse {
	return PublicJobPositionResponse{
		ID:                    p.ID,
		Name:                  p.Name,
		Location:              p.Location,
		RegistrationStartDate: p.RegistrationStartDate,
		RegistrationEndDate:   p.RegistrationEndDate,
		SpecificRequirements:  p.SpecificRequirements,
		AvailableSlots:        p.AvailableSlots,
		Announcement:          p.Announcement,
	}
}
