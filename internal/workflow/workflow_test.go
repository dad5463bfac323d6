package workflow

import (
	"errors"
	"testing"

	"hrflow_backend/internal/models"
	"hrflow_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestPositionTransitions(t *testing.T) {
	cases := []struct {
		from, to models.PositionStatus
		role     models.UserRole
		want     error
	}{
		{models.PositionStatusDraft, models.PositionStatusApproved, models.UserRoleHeadHR, nil},
		{models.PositionStatusDraft, models.PositionStatusRejected, models.UserRoleHeadHR, nil},
		{models.PositionStatusApproved, models.PositionStatusOpen, models.UserRoleStaffHR, nil},
		{models.PositionStatusOpen, models.PositionStatusClosed, models.UserRoleStaffHR, nil},
		{models.PositionStatusOpen, models.PositionStatusClosed, models.RoleSystem, nil},

		{models.PositionStatusDraft, models.PositionStatusApproved, models.UserRoleManager, apperrors.ErrTransitionForbidden},
		{models.PositionStatusDraft, models.PositionStatusApproved, models.UserRoleStaffHR, apperrors.ErrTransitionForbidden},
		// публикует и закрывает только staff_hr
		{models.PositionStatusApproved, models.PositionStatusOpen, models.UserRoleHeadHR, apperrors.ErrTransitionForbidden},
		{models.PositionStatusApproved, models.PositionStatusOpen, models.UserRoleManager, apperrors.ErrTransitionForbidden},
		{models.PositionStatusOpen, models.PositionStatusClosed, models.UserRoleHeadHR, apperrors.ErrTransitionForbidden},
		{models.PositionStatusOpen, models.PositionStatusClosed, models.UserRoleManager, apperrors.ErrTransitionForbidden},
		{models.PositionStatusDraft, models.PositionStatusOpen, models.UserRoleHeadHR, apperrors.ErrInvalidTransition},
		{models.PositionStatusClosed, models.PositionStatusOpen, models.UserRoleStaffHR, apperrors.ErrInvalidTransition},
		{models.PositionStatusRejected, models.PositionStatusApproved, models.UserRoleHeadHR, apperrors.ErrInvalidTransition},
		{models.PositionStatusApproved, models.PositionStatusClosed, models.UserRoleStaffHR, apperrors.ErrInvalidTransition},
	}

	for _, tc := range cases {
		err := CheckPosition(tc.from, tc.to, tc.role)
		if tc.want == nil {
			assert.NoError(t, err, "%s -> %s by %s", tc.from, tc.to, tc.role)
			continue
		}
		assert.True(t, errors.Is(err, tc.want), "%s -> %s by %s: got %v", tc.from, tc.to, tc.role, err)
	}
}

func TestApplicationTransitionsOnlyFollowTable(t *testing.T) {
	allowed := map[[2]models.ApplicationStatus]bool{
		{models.ApplicationStatusSubmitted, models.ApplicationStatusReviewed}:                  true,
		{models.ApplicationStatusReviewed, models.ApplicationStatusStaffApproved}:              true,
		{models.ApplicationStatusReviewed, models.ApplicationStatusStaffRejected}:              true,
		{models.ApplicationStatusStaffApproved, models.ApplicationStatusInterviewQueued}:       true,
		{models.ApplicationStatusInterviewQueued, models.ApplicationStatusInterviewScheduled}:  true,
		{models.ApplicationStatusInterviewScheduled, models.ApplicationStatusPendingFinalDecision}: true,
		{models.ApplicationStatusInterviewScheduled, models.ApplicationStatusStaffRejected}:    true,
		{models.ApplicationStatusPendingFinalDecision, models.ApplicationStatusHired}:          true,
		{models.ApplicationStatusPendingFinalDecision, models.ApplicationStatusNotHired}:       true,
		{models.ApplicationStatusHired, models.ApplicationStatusOnboarding}:                    true,
	}

	allRoles := append(append([]models.UserRole{}, models.UserRoles...), models.RoleSystem)

	for _, from := range models.ApplicationStatuses {
		for _, to := range models.ApplicationStatuses {
			anyRole := false
			for _, role := range allRoles {
				if CanTransitionApplication(from, to, role) {
					anyRole = true
				}
			}
			assert.Equal(t, allowed[[2]models.ApplicationStatus{from, to}], anyRole, "%s -> %s", from, to)
		}
	}
}

func TestApplicationTransitionActors(t *testing.T) {
	assert.True(t, CanTransitionApplication(models.ApplicationStatusInterviewScheduled, models.ApplicationStatusPendingFinalDecision, models.UserRoleManager))
	assert.False(t, CanTransitionApplication(models.ApplicationStatusInterviewScheduled, models.ApplicationStatusPendingFinalDecision, models.UserRoleStaffHR))
	assert.True(t, CanTransitionApplication(models.ApplicationStatusPendingFinalDecision, models.ApplicationStatusHired, models.UserRoleHeadHR))
	assert.False(t, CanTransitionApplication(models.ApplicationStatusPendingFinalDecision, models.ApplicationStatusHired, models.UserRoleManager))
	assert.True(t, CanTransitionApplication(models.ApplicationStatusSubmitted, models.ApplicationStatusReviewed, models.RoleSystem))

	err := CheckApplication(models.ApplicationStatusReviewed, models.ApplicationStatusStaffApproved, models.UserRoleManager)
	assert.ErrorIs(t, err, apperrors.ErrTransitionForbidden)

	err = CheckApplication(models.ApplicationStatusSubmitted, models.ApplicationStatusHired, models.UserRoleHeadHR)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, IsTerminal(models.ApplicationStatusStaffRejected))
	assert.True(t, IsTerminal(models.ApplicationStatusNotHired))
	assert.True(t, IsTerminal(models.ApplicationStatusOnboarding))
	assert.False(t, IsTerminal(models.ApplicationStatusHired))
	assert.False(t, IsTerminal(models.ApplicationStatusSubmitted))
}

func TestAllowedNext(t *testing.T) {
	assert.ElementsMatch(t,
		[]models.ApplicationStatus{models.ApplicationStatusStaffApproved, models.ApplicationStatusStaffRejected},
		AllowedNext(models.ApplicationStatusReviewed, models.UserRoleStaffHR))
	assert.Empty(t, AllowedNext(models.ApplicationStatusReviewed, models.UserRoleManager))
}

func TestDecisions(t *testing.T) {
	next, err := NextAfterManagerDecision("Hire")
	assert.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPendingFinalDecision, next)

	next, err = NextAfterManagerDecision("Reject")
	assert.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusStaffRejected, next)

	_, err = NextAfterManagerDecision("Maybe")
	assert.Error(t, err)

	next, err = NextAfterFinalDecision("Not Hired")
	assert.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusNotHired, next)
}

func TestStageForScheduling(t *testing.T) {
	stage, ok := StageForScheduling(models.ApplicationStatusInterviewQueued)
	assert.True(t, ok)
	assert.Equal(t, models.ScheduleKindManagerInterview, stage.Kind)
	assert.Equal(t, models.ApplicationStatusInterviewScheduled, stage.Next)

	stage, ok = StageForScheduling(models.ApplicationStatusPendingFinalDecision)
	assert.True(t, ok)
	assert.Equal(t, models.ScheduleKindFinalInterview, stage.Kind)
	assert.Empty(t, stage.Next)

	_, ok = StageForScheduling(models.ApplicationStatusReviewed)
	assert.False(t, ok)
}
