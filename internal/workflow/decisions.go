package workflow

import (
	"hrflow_backend/internal/models"
	"hrflow_backend/pkg/apperrors"
)

// Решения, которые приходят из форм менеджера и head_hr
const (
	ManagerDecisionHire   = "Hire"
	ManagerDecisionReject = "Reject"

	FinalDecisionHired    = "Hired"
	FinalDecisionNotHired = "Not Hired"
)

// NextAfterManagerDecision: Hire -> PENDING_FINAL_DECISION, Reject -> STAFF_REJECTED
func NextAfterManagerDecision(decision string) (models.ApplicationStatus, error) {
	switch decision {
	case ManagerDecisionHire:
		return models.ApplicationStatusPendingFinalDecision, nil
	case ManagerDecisionReject:
		return models.ApplicationStatusStaffRejected, nil
	default:
		return "", apperrors.ErrInvalidOperation("workflow", "decision must be Hire or Reject")
	}
}

// NextAfterFinalDecision: Hired -> HIRED, Not Hired -> NOT_HIRED
func NextAfterFinalDecision(decision string) (models.ApplicationStatus, error) {
	switch decision {
	case FinalDecisionHired:
		return models.ApplicationStatusHired, nil
	case FinalDecisionNotHired:
		return models.ApplicationStatusNotHired, nil
	default:
		return "", apperrors.ErrInvalidOperation("workflow", "decision must be Hired or Not Hired")
	}
}

// ScheduleStage описывает, что делает "назначить время" в текущем статусе заявки
type ScheduleStage struct {
	Kind models.ScheduleKind
	// Next - целевой статус; пустой, если статус не меняется (финальное интервью)
	Next          models.ApplicationStatus
	InviteSubject string
}

// StageForScheduling возвращает этап планирования для статуса заявки
func StageForScheduling(status models.ApplicationStatus) (ScheduleStage, bool) {
	switch status {
	case models.ApplicationStatusInterviewQueued:
		return ScheduleStage{
			Kind:          models.ScheduleKindManagerInterview,
			Next:          models.ApplicationStatusInterviewScheduled,
			InviteSubject: "Interview invitation",
		}, true
	case models.ApplicationStatusPendingFinalDecision:
		return ScheduleStage{
			Kind:          models.ScheduleKindFinalInterview,
			InviteSubject: "Final interview invitation",
		}, true
	case models.ApplicationStatusHired:
		return ScheduleStage{
			Kind:          models.ScheduleKindOnboarding,
			Next:          models.ApplicationStatusOnboarding,
			InviteSubject: "Welcome aboard: onboarding session",
		}, true
	default:
		return ScheduleStage{}, false
	}
}
