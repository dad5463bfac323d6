package repositories_test

import (
	"testing"
	"time"

	"hrflow_backend/internal/models"
	"hrflow_backend/internal/repositories"
	"hrflow_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepositoryDeleteKeepsRequestedPositions(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewUserRepository()

	manager := testutil.CreateUser(t, db, models.UserRoleManager, "mgr@example.com")
	position := testutil.CreatePosition(t, db, "Data Intern", models.PositionStatusDraft, manager)

	require.NoError(t, repo.Delete(db, manager.ID))

	var reloaded models.JobPosition
	require.NoError(t, db.First(&reloaded, "id = ?", position.ID).Error)
	assert.Nil(t, reloaded.RequestedByID)

	_, err := repo.FindByID(db, manager.ID)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
	assert.ErrorIs(t, repo.Delete(db, manager.ID), repositories.ErrUserNotFound)
}

func TestUserRepositoryCreateRejectsDuplicateEmailCaseInsensitive(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewUserRepository()
	testutil.CreateUser(t, db, models.UserRoleStaffHR, "staff@example.com")

	err := repo.Create(db, &models.User{Name: "Dup", Email: " Staff@Example.com ", PasswordHash: "x", Role: models.UserRoleStaffHR})
	assert.ErrorIs(t, err, repositories.ErrUserAlreadyExists)
}

func TestUserRepositoryFilter(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewUserRepository()
	testutil.CreateUser(t, db, models.UserRoleStaffHR, "anna@example.com")
	testutil.CreateUser(t, db, models.UserRoleManager, "boris@example.com")
	testutil.CreateUser(t, db, models.UserRoleManager, "carl@example.com")

	users, total, err := repo.FindWithFilter(db, repositories.UserFilter{Role: models.UserRoleManager, Page: 1, PageSize: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, users, 1)

	users, total, err = repo.FindWithFilter(db, repositories.UserFilter{Search: "ANNA"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "anna@example.com", users[0].Email)
}

func TestPositionUpdateStatusIsConditional(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewJobPositionRepository()
	position := testutil.CreatePosition(t, db, "QA Intern", models.PositionStatusDraft, nil)

	require.NoError(t, repo.UpdateStatus(db, position.ID, models.PositionStatusDraft, models.PositionStatusApproved, nil))

	err := repo.UpdateStatus(db, position.ID, models.PositionStatusDraft, models.PositionStatusRejected, nil)
	assert.ErrorIs(t, err, repositories.ErrStatusChanged)

	reloaded, err := repo.FindByID(db, position.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PositionStatusApproved, reloaded.Status)
}

func TestPositionNameUnique(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewJobPositionRepository()
	testutil.CreatePosition(t, db, "Backend Intern", models.PositionStatusDraft, nil)

	err := repo.Create(db, &models.JobPosition{Name: "backend intern"})
	assert.ErrorIs(t, err, repositories.ErrPositionNameTaken)
}

func TestFindPublicAndExpired(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewJobPositionRepository()
	now := time.Now().UTC()
	past := now.Add(-48 * time.Hour)
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	open := testutil.CreatePosition(t, db, "Open", models.PositionStatusOpen, nil)
	require.NoError(t, db.Model(open).Updates(map[string]interface{}{
		"registration_start_date": past, "registration_end_date": tomorrow,
	}).Error)

	expired := testutil.CreatePosition(t, db, "Expired", models.PositionStatusOpen, nil)
	require.NoError(t, db.Model(expired).Updates(map[string]interface{}{
		"registration_start_date": past, "registration_end_date": yesterday,
	}).Error)

	testutil.CreatePosition(t, db, "Unbounded", models.PositionStatusOpen, nil)
	testutil.CreatePosition(t, db, "Draft", models.PositionStatusDraft, nil)

	public, err := repo.FindPublic(db, now)
	require.NoError(t, err)
	names := make([]string, 0, len(public))
	for _, p := range public {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"Open", "Unbounded"}, names)

	stale, err := repo.FindExpiredOpen(db, now)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, expired.ID, stale[0].ID)
}

func TestApplicationFilterScopesManager(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewApplicationRepository()

	mgrA := testutil.CreateUser(t, db, models.UserRoleManager, "a@example.com")
	mgrB := testutil.CreateUser(t, db, models.UserRoleManager, "b@example.com")
	posA := testutil.CreatePosition(t, db, "A", models.PositionStatusOpen, mgrA)
	posB := testutil.CreatePosition(t, db, "B", models.PositionStatusOpen, mgrB)
	appA := testutil.CreateApplication(t, db, posA, models.ApplicationStatusSubmitted)
	testutil.CreateApplication(t, db, posB, models.ApplicationStatusSubmitted)

	apps, total, err := repo.FindWithFilter(db, repositories.ApplicationFilter{ManagerID: mgrA.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, apps, 1)
	assert.Equal(t, appA.ID, apps[0].ID)
	require.NotNil(t, apps[0].AppliedPosition)
	assert.Equal(t, "A", apps[0].AppliedPosition.Name)

	_, total, err = repo.FindWithFilter(db, repositories.ApplicationFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestApplicationUpdateStatusStoresNotes(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewApplicationRepository()
	app := testutil.CreateApplication(t, db, nil, models.ApplicationStatusInterviewScheduled)

	notes := app.Notes().Merge(models.InterviewNotes{ManagerDecision: "Hire", ManagerFeedback: "strong"})
	require.NoError(t, repo.UpdateStatus(db, app.ID,
		models.ApplicationStatusInterviewScheduled, models.ApplicationStatusPendingFinalDecision, notes, nil))

	reloaded, err := repo.FindByID(db, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPendingFinalDecision, reloaded.Status)
	assert.Equal(t, "Hire", reloaded.Notes().ManagerDecision)
	assert.Equal(t, "strong", reloaded.Notes().ManagerFeedback)

	err = repo.UpdateStatus(db, app.ID,
		models.ApplicationStatusInterviewScheduled, models.ApplicationStatusStaffRejected, notes, nil)
	assert.ErrorIs(t, err, repositories.ErrStatusChanged)
}

func TestDashboardAggregates(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewApplicationRepository()
	pos := testutil.CreatePosition(t, db, "Ops", models.PositionStatusOpen, nil)
	testutil.CreateApplication(t, db, pos, models.ApplicationStatusSubmitted)
	testutil.CreateApplication(t, db, pos, models.ApplicationStatusSubmitted)
	testutil.CreateApplication(t, db, nil, models.ApplicationStatusReviewed)

	counts, err := repo.CountByStatus(db, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[models.ApplicationStatusSubmitted])
	assert.EqualValues(t, 1, counts[models.ApplicationStatusReviewed])
	assert.EqualValues(t, 0, counts[models.ApplicationStatusHired])

	since := time.Now().UTC().Add(-time.Hour)
	times, err := repo.CreatedSince(db, since)
	require.NoError(t, err)
	assert.Len(t, times, 3)

	byPosition, err := repo.CountByPosition(db, since)
	require.NoError(t, err)
	require.Len(t, byPosition, 2)
	assert.EqualValues(t, 2, byPosition[0].Count)
	require.NotNil(t, byPosition[0].PositionName)
	assert.Equal(t, "Ops", *byPosition[0].PositionName)
}

func TestScheduleOverlap(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewScheduleRepository()
	base := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

	existing := &models.Schedule{Title: "Interview", StartDate: base, EndDate: base.Add(time.Hour), Kind: models.ScheduleKindManual}
	require.NoError(t, repo.Create(db, existing))

	hits, err := repo.FindOverlapping(db, base.Add(30*time.Minute), base.Add(90*time.Minute), "")
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	// соседние интервалы не пересекаются
	hits, err = repo.FindOverlapping(db, base.Add(time.Hour), base.Add(2*time.Hour), "")
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = repo.FindOverlapping(db, base, base.Add(time.Hour), existing.ID)
	require.NoError(t, err)
	assert.Empty(t, hits)

	count, err := repo.CountUpcoming(db, base.Add(-time.Hour), base.Add(24*time.Hour), "", models.ScheduleKindManual)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
