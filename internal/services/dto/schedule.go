package dto

import (
	"time"

	"hrflow_backend/internal/models"
)

type CreateScheduleRequest struct {
	Title       string    `json:"title" validate:"required,min=1,max=255"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	Description string    `json:"description" validate:"max=5000"`
}

type UpdateScheduleRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=255"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
}

type ScheduleFilter struct {
	From *time.Time          `form:"from" json:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To   *time.Time          `form:"to" json:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Kind models.ScheduleKind `form:"kind" json:"kind" validate:"omitempty,oneof=MANAGER_INTERVIEW FINAL_INTERVIEW ONBOARDING MANUAL"`
}

type ScheduleResponse struct {
	ID            string              `json:"id"`
	Title         string              `json:"title"`
	StartDate     time.Time           `json:"start_date"`
	EndDate       time.Time           `json:"end_date"`
	Description   string              `json:"description"`
	Kind          models.ScheduleKind `json:"kind"`
	ApplicationID *string             `json:"application_id"`
	CreatedByID   *string             `json:"created_by_id,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

func NewScheduleResponse(s *models.Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:            s.ID,
		Title:         s.Title,
		StartDate:     s.StartDate,
		EndDate:       s.EndDate,
		Description:   s.Description,
		Kind:          s.Kind,
		ApplicationID: s.ApplicationID,
		CreatedByID:   s.CreatedByID,
		CreatedAt:     s.CreatedAt,
	}
}
