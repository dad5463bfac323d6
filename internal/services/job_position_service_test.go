package services

import (
	"testing"
	"time"

	"hrflow_backend/internal/events"
	"hrflow_backend/internal/models"
	"hrflow_backend/internal/services/dto"
	"hrflow_backend/internal/testutil"
	"hrflow_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePositionIsAlwaysDraft(t *testing.T) {
	f := newFixture(t)
	manager := testutil.CreateUser(t, f.db, models.UserRoleManager, "mgr@example.com")

	resp, err := f.positions.Create(f.ctx, f.db, actorOf(manager), &dto.CreateJobPositionRequest{
		Name:           "Backend Engineer",
		AvailableSlots: 2,
		Status:         "OPEN",
	})
	require.NoError(t, err)

	assert.Equal(t, models.PositionStatusDraft, resp.Status)
	require.NotNil(t, resp.RequestedByID)
	assert.Equal(t, manager.ID, *resp.RequestedByID)
	assert.False(t, resp.AcceptsApplications)
}

func TestCreatePositionRejectsInvertedWindow(t *testing.T) {
	f := newFixture(t)
	hr := testutil.CreateUser(t, f.db, models.UserRoleHeadHR, "head@example.com")

	start := time.Now().Add(48 * time.Hour)
	end := time.Now()
	_, err := f.positions.Create(f.ctx, f.db, actorOf(hr), &dto.CreateJobPositionRequest{
		Name:                  "QA",
		RegistrationStartDate: &start,
		RegistrationEndDate:   &end,
	})
	assert.Equal(t, apperrors.CodeValidationFailed, mustAppErr(t, err).Code)
}

func TestPositionLifecycle(t *testing.T) {
	f := newFixture(t)
	manager := testutil.CreateUser(t, f.db, models.UserRoleManager, "mgr@example.com")
	head := testutil.CreateUser(t, f.db, models.UserRoleHeadHR, "head@example.com")
	staff := testutil.CreateUser(t, f.db, models.UserRoleStaffHR, "staff@example.com")

	var published []events.PositionStatusChanged
	require.NoError(t, f.bus.Subscribe(events.PositionStatusChangedTopic, func(e events.PositionStatusChanged) {
		published = append(published, e)
	}))

	created, err := f.positions.Create(f.ctx, f.db, actorOf(manager), &dto.CreateJobPositionRequest{Name: "Designer", AvailableSlots: 1})
	require.NoError(t, err)

	status := func(s models.PositionStatus) *dto.UpdateJobPositionRequest {
		return &dto.UpdateJobPositionRequest{Status: &s}
	}

	// менеджер не утверждает
	_, err = f.positions.Update(f.ctx, f.db, actorOf(manager), created.ID, status(models.PositionStatusApproved))
	assert.ErrorIs(t, err, apperrors.ErrTransitionForbidden)

	// DRAFT -> OPEN минуя утверждение
	_, err = f.positions.Update(f.ctx, f.db, actorOf(head), created.ID, status(models.PositionStatusOpen))
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	resp, err := f.positions.Update(f.ctx, f.db, actorOf(head), created.ID, status(models.PositionStatusApproved))
	require.NoError(t, err)
	assert.Equal(t, models.PositionStatusApproved, resp.Status)

	// менеджер больше не правит не-черновик
	name := "Senior Designer"
	_, err = f.positions.Update(f.ctx, f.db, actorOf(manager), created.ID, &dto.UpdateJobPositionRequest{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	// публикует staff_hr, не head_hr
	_, err = f.positions.Update(f.ctx, f.db, actorOf(head), created.ID, status(models.PositionStatusOpen))
	assert.ErrorIs(t, err, apperrors.ErrTransitionForbidden)

	resp, err = f.positions.Update(f.ctx, f.db, actorOf(staff), created.ID, status(models.PositionStatusOpen))
	require.NoError(t, err)
	assert.Equal(t, models.PositionStatusOpen, resp.Status)
	assert.True(t, resp.AcceptsApplications)

	resp, err = f.positions.Update(f.ctx, f.db, actorOf(staff), created.ID, status(models.PositionStatusClosed))
	require.NoError(t, err)
	assert.Equal(t, models.PositionStatusClosed, resp.Status)

	// закрытая позиция заблокирована
	_, err = f.positions.Update(f.ctx, f.db, actorOf(head), created.ID, &dto.UpdateJobPositionRequest{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrPositionLocked)

	require.Len(t, published, 3)
	assert.Equal(t, models.PositionStatusClosed, published[2].To)
}

func TestOpenRequiresSlots(t *testing.T) {
	f := newFixture(t)
	staff := testutil.CreateUser(t, f.db, models.UserRoleStaffHR, "staff@example.com")
	position := testutil.CreatePosition(t, f.db, "Intern", models.PositionStatusApproved, nil)
	require.NoError(t, f.db.Model(position).Update("available_slots", 0).Error)

	open := models.PositionStatusOpen
	_, err := f.positions.Update(f.ctx, f.db, actorOf(staff), position.ID, &dto.UpdateJobPositionRequest{Status: &open})
	assert.Equal(t, apperrors.CodeInvalidOperation, mustAppErr(t, err).Code)
}

func TestRejectStoresReason(t *testing.T) {
	f := newFixture(t)
	head := testutil.CreateUser(t, f.db, models.UserRoleHeadHR, "head@example.com")
	position := testutil.CreatePosition(t, f.db, "Sales", models.PositionStatusDraft, nil)

	rejected := models.PositionStatusRejected
	reason := " no budget "
	resp, err := f.positions.Update(f.ctx, f.db, actorOf(head), position.ID, &dto.UpdateJobPositionRequest{
		Status:          &rejected,
		RejectionReason: &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, "no budget", resp.RejectionReason)
}

func TestManagerSeesOnlyOwnPositions(t *testing.T) {
	f := newFixture(t)
	alice := testutil.CreateUser(t, f.db, models.UserRoleManager, "alice@example.com")
	bob := testutil.CreateUser(t, f.db, models.UserRoleManager, "bob@example.com")
	own := testutil.CreatePosition(t, f.db, "Alice role", models.PositionStatusDraft, alice)
	foreign := testutil.CreatePosition(t, f.db, "Bob role", models.PositionStatusDraft, bob)

	list, err := f.positions.List(f.ctx, f.db, actorOf(alice), dto.JobPositionFilter{RequestedByID: bob.ID}, 1, 20)
	require.NoError(t, err)
	require.Len(t, list.JobPositions, 1)
	assert.Equal(t, own.ID, list.JobPositions[0].ID)

	_, err = f.positions.Get(f.ctx, f.db, actorOf(alice), foreign.ID)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	archived := true
	_, err = f.positions.Update(f.ctx, f.db, actorOf(alice), own.ID, &dto.UpdateJobPositionRequest{IsArchived: &archived})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
}

func TestPublicPositionHidesClosed(t *testing.T) {
	f := newFixture(t)
	open := testutil.CreatePosition(t, f.db, "Open role", models.PositionStatusOpen, nil)
	closed := testutil.CreatePosition(t, f.db, "Closed role", models.PositionStatusClosed, nil)

	list, err := f.positions.ListPublic(f.ctx, f.db)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, open.ID, list[0].ID)

	_, err = f.positions.GetPublic(f.ctx, f.db, closed.ID)
	assert.Equal(t, apperrors.CodeNotFound, mustAppErr(t, err).Code)
}

func TestCloseExpired(t *testing.T) {
	f := newFixture(t)
	expired := testutil.CreatePosition(t, f.db, "Expired", models.PositionStatusOpen, nil)
	past := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, f.db.Model(expired).Update("registration_end_date", past).Error)
	fresh := testutil.CreatePosition(t, f.db, "Fresh", models.PositionStatusOpen, nil)

	closed, err := f.positions.CloseExpired(f.ctx, f.db, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	head := testutil.CreateUser(t, f.db, models.UserRoleHeadHR, "head@example.com")
	got, err := f.positions.Get(f.ctx, f.db, actorOf(head), expired.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PositionStatusClosed, got.Status)

	got, err = f.positions.Get(f.ctx, f.db, actorOf(head), fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PositionStatusOpen, got.Status)
}

func mustAppErr(t *testing.T, err error) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	return appErr
}
