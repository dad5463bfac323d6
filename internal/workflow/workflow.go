// Package workflow хранит таблицы переходов статусов вакансий и заявок.
// Любая запись статуса на сервере проходит через эти таблицы.
package workflow

import (
	"hrflow_backend/internal/models"
	"hrflow_backend/pkg/apperrors"
)

type positionEdge struct {
	from models.PositionStatus
	to   models.PositionStatus
}

type applicationEdge struct {
	from models.ApplicationStatus
	to   models.ApplicationStatus
}

type roleSet map[models.UserRole]struct{}

func roles(rs ...models.UserRole) roleSet {
	set := make(roleSet, len(rs))
	for _, r := range rs {
		set[r] = struct{}{}
	}
	return set
}

// PositionTransitions: DRAFT -> APPROVED|REJECTED (head_hr), APPROVED -> OPEN (staff_hr),
// OPEN -> CLOSED (staff_hr или воркер по окончании регистрации)
var PositionTransitions = map[positionEdge]roleSet{
	{models.PositionStatusDraft, models.PositionStatusApproved}: roles(models.UserRoleHeadHR),
	{models.PositionStatusDraft, models.PositionStatusRejected}: roles(models.UserRoleHeadHR),
	{models.PositionStatusApproved, models.PositionStatusOpen}:  roles(models.UserRoleStaffHR),
	{models.PositionStatusOpen, models.PositionStatusClosed}:    roles(models.UserRoleStaffHR, models.RoleSystem),
}

// ApplicationTransitions - конвейер найма от подачи до онбординга
var ApplicationTransitions = map[applicationEdge]roleSet{
	// AI-скоринг; staff_hr может отметить вручную, если скоринг недоступен
	{models.ApplicationStatusSubmitted, models.ApplicationStatusReviewed}: roles(models.RoleSystem, models.UserRoleStaffHR),

	{models.ApplicationStatusReviewed, models.ApplicationStatusStaffApproved}: roles(models.UserRoleStaffHR),
	{models.ApplicationStatusReviewed, models.ApplicationStatusStaffRejected}: roles(models.UserRoleStaffHR),

	{models.ApplicationStatusStaffApproved, models.ApplicationStatusInterviewQueued}:    roles(models.UserRoleStaffHR),
	{models.ApplicationStatusInterviewQueued, models.ApplicationStatusInterviewScheduled}: roles(models.UserRoleStaffHR),

	{models.ApplicationStatusInterviewScheduled, models.ApplicationStatusPendingFinalDecision}: roles(models.UserRoleManager),
	{models.ApplicationStatusInterviewScheduled, models.ApplicationStatusStaffRejected}:        roles(models.UserRoleManager),

	{models.ApplicationStatusPendingFinalDecision, models.ApplicationStatusHired}:    roles(models.UserRoleHeadHR),
	{models.ApplicationStatusPendingFinalDecision, models.ApplicationStatusNotHired}: roles(models.UserRoleHeadHR),

	{models.ApplicationStatusHired, models.ApplicationStatusOnboarding}: roles(models.UserRoleStaffHR),
}

// CheckPosition возвращает nil, ErrInvalidTransition или ErrTransitionForbidden
func CheckPosition(from, to models.PositionStatus, role models.UserRole) error {
	allowed, ok := PositionTransitions[positionEdge{from, to}]
	if !ok {
		return apperrors.ErrInvalidTransition.WithDetails(map[string]string{
			"entity": "job_position",
			"from":   string(from),
			"to":     string(to),
		})
	}
	if _, ok := allowed[role]; !ok {
		return apperrors.ErrTransitionForbidden.WithDetails(map[string]string{
			"from": string(from),
			"to":   string(to),
			"role": string(role),
		})
	}
	return nil
}

// CheckApplication - то же для заявок кандидатов
func CheckApplication(from, to models.ApplicationStatus, role models.UserRole) error {
	allowed, ok := ApplicationTransitions[applicationEdge{from, to}]
	if !ok {
		return apperrors.ErrInvalidTransition.WithDetails(map[string]string{
			"entity": "cv_application",
			"from":   string(from),
			"to":     string(to),
		})
	}
	if _, ok := allowed[role]; !ok {
		return apperrors.ErrTransitionForbidden.WithDetails(map[string]string{
			"from": string(from),
			"to":   string(to),
			"role": string(role),
		})
	}
	return nil
}

func CanTransitionPosition(from, to models.PositionStatus, role models.UserRole) bool {
	return CheckPosition(from, to, role) == nil
}

func CanTransitionApplication(from, to models.ApplicationStatus, role models.UserRole) bool {
	return CheckApplication(from, to, role) == nil
}

// AllowedNext - статусы, в которые роль может перевести заявку (для UI)
func AllowedNext(from models.ApplicationStatus, role models.UserRole) []models.ApplicationStatus {
	var next []models.ApplicationStatus
	for _, to := range models.ApplicationStatuses {
		if CanTransitionApplication(from, to, role) {
			next = append(next, to)
		}
	}
	return next
}

// IsTerminal - из статуса нет исходящих переходов
func IsTerminal(status models.ApplicationStatus) bool {
	for edge := range ApplicationTransitions {
		if edge.from == status {
			return false
		}
	}
	return true
}
