package services

import (
	"testing"
	"time"

	"hrflow_backend/internal/models"
	"hrflow_backend/internal/services/dto"
	"hrflow_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardSummaryIsCachedUntilEvent(t *testing.T) {
	f := newFixture(t)
	staff := testutil.CreateUser(t, f.db, models.UserRoleStaffHR, "staff@example.com")
	position := testutil.CreatePosition(t, f.db, "Ops", models.PositionStatusOpen, nil)
	app := testutil.CreateApplication(t, f.db, position, models.ApplicationStatusReviewed)

	summary, err := f.dashboard.Summary(f.ctx, f.db, actorOf(staff))
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.TotalApplications)
	assert.Equal(t, int64(1), summary.OpenPositions)

	// запись в обход сервисов - кеш не знает
	testutil.CreateApplication(t, f.db, position, models.ApplicationStatusSubmitted)
	summary, err = f.dashboard.Summary(f.ctx, f.db, actorOf(staff))
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.TotalApplications)

	// переход статуса публикует событие и сбрасывает кеш
	_, err = f.applications.UpdateStatus(f.ctx, f.db, actorOf(staff), app.ID, &dto.UpdateStatusRequest{Status: models.ApplicationStatusStaffApproved})
	require.NoError(t, err)

	summary, err = f.dashboard.Summary(f.ctx, f.db, actorOf(staff))
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalApplications)
	assert.Equal(t, int64(1), summary.ApplicationsByStatus[models.ApplicationStatusStaffApproved])
}

func TestDashboardCountsUpcomingInterviewsAndHires(t *testing.T) {
	f := newFixture(t)
	staff := testutil.CreateUser(t, f.db, models.UserRoleStaffHR, "staff@example.com")
	head := testutil.CreateUser(t, f.db, models.UserRoleHeadHR, "head@example.com")
	queued := testutil.CreateApplication(t, f.db, nil, models.ApplicationStatusInterviewQueued)
	pending := testutil.CreateApplication(t, f.db, nil, models.ApplicationStatusPendingFinalDecision)

	start, end := slotAt(1, 9)
	_, err := f.applications.ScheduleInterview(f.ctx, f.db, actorOf(staff), queued.ID, &dto.ScheduleInterviewRequest{Start: start, End: end})
	require.NoError(t, err)
	_, err = f.applications.ScheduleInterview(f.ctx, f.db, actorOf(staff), pending.ID, &dto.ScheduleInterviewRequest{Start: end, End: end.Add(time.Hour)})
	require.NoError(t, err)
	_, err = f.applications.FinalDecision(f.ctx, f.db, actorOf(head), pending.ID, &dto.FinalDecisionRequest{Decision: "Hired"})
	require.NoError(t, err)

	summary, err := f.dashboard.Summary(f.ctx, f.db, actorOf(head))
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.UpcomingInterviews)
	assert.Equal(t, int64(1), summary.HiresThisMonth)
}

func TestDashboardSummaryScopedForManager(t *testing.T) {
	// 1. Подготовка
	f := newFixture(t)
	staff := testutil.CreateUser(t, f.db, models.UserRoleStaffHR, "staff@example.com")
	manager := testutil.CreateUser(t, f.db, models.UserRoleManager, "mgr@example.com")
	own := testutil.CreatePosition(t, f.db, "Own", models.PositionStatusOpen, manager)
	other := testutil.CreatePosition(t, f.db, "Other", models.PositionStatusOpen, nil)
	testutil.CreatePosition(t, f.db, "Other draft", models.PositionStatusDraft, nil)
	ownQueued := testutil.CreateApplication(t, f.db, own, models.ApplicationStatusInterviewQueued)
	otherQueued := testutil.CreateApplication(t, f.db, other, models.ApplicationStatusInterviewQueued)
	testutil.CreateApplication(t, f.db, other, models.ApplicationStatusSubmitted)

	start, end := slotAt(1, 9)
	_, err := f.applications.ScheduleInterview(f.ctx, f.db, actorOf(staff), ownQueued.ID, &dto.ScheduleInterviewRequest{Start: start, End: end})
	require.NoError(t, err)
	_, err = f.applications.ScheduleInterview(f.ctx, f.db, actorOf(staff), otherQueued.ID, &dto.ScheduleInterviewRequest{Start: end, End: end.Add(time.Hour)})
	require.NoError(t, err)

	// 2. Действие
	mine, err := f.dashboard.Summary(f.ctx, f.db, actorOf(manager))
	require.NoError(t, err)
	all, err := f.dashboard.Summary(f.ctx, f.db, actorOf(staff))
	require.NoError(t, err)

	// 3. Проверка: менеджер видит только свою вакансию и ее заявки
	assert.Equal(t, int64(1), mine.OpenPositions)
	assert.Equal(t, int64(0), mine.PositionsByStatus[models.PositionStatusDraft])
	assert.Equal(t, int64(1), mine.TotalApplications)
	assert.Equal(t, int64(1), mine.UpcomingInterviews)

	assert.Equal(t, int64(2), all.OpenPositions)
	assert.Equal(t, int64(1), all.PositionsByStatus[models.PositionStatusDraft])
	assert.Equal(t, int64(3), all.TotalApplications)
	assert.Equal(t, int64(2), all.UpcomingInterviews)

	// кеш у менеджера свой, повторный запрос не отдает общую сводку
	mine, err = f.dashboard.Summary(f.ctx, f.db, actorOf(manager))
	require.NoError(t, err)
	assert.Equal(t, int64(1), mine.TotalApplications)
}

func TestDashboardCharts(t *testing.T) {
	f := newFixture(t)
	position := testutil.CreatePosition(t, f.db, "Support", models.PositionStatusOpen, nil)
	testutil.CreateApplication(t, f.db, position, models.ApplicationStatusSubmitted)
	testutil.CreateApplication(t, f.db, position, models.ApplicationStatusSubmitted)

	charts, err := f.dashboard.Charts(f.ctx, f.db, 0)
	require.NoError(t, err)

	assert.Equal(t, DefaultChartDays, charts.Days)
	require.Len(t, charts.ApplicationsPerDay, DefaultChartDays)
	today := time.Now().UTC().Format("2006-01-02")
	last := charts.ApplicationsPerDay[len(charts.ApplicationsPerDay)-1]
	assert.Equal(t, today, last.Date)
	assert.Equal(t, int64(2), last.Count)

	require.Len(t, charts.ApplicationsPerPosition, 1)
	assert.Equal(t, "Support", charts.ApplicationsPerPosition[0].PositionName)
	assert.Len(t, charts.StatusFunnel, len(models.ApplicationStatuses))
}

func TestDashboardRecentScopedForManager(t *testing.T) {
	f := newFixture(t)
	manager := testutil.CreateUser(t, f.db, models.UserRoleManager, "mgr@example.com")
	head := testutil.CreateUser(t, f.db, models.UserRoleHeadHR, "head@example.com")
	own := testutil.CreatePosition(t, f.db, "Own", models.PositionStatusOpen, manager)
	other := testutil.CreatePosition(t, f.db, "Other", models.PositionStatusOpen, nil)
	testutil.CreateApplication(t, f.db, own, models.ApplicationStatusSubmitted)
	testutil.CreateApplication(t, f.db, other, models.ApplicationStatusSubmitted)

	recent, err := f.dashboard.RecentApplications(f.ctx, f.db, actorOf(manager), 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	recent, err = f.dashboard.RecentApplications(f.ctx, f.db, actorOf(head), 10)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestBucketByDay(t *testing.T) {
	since := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	created := []time.Time{
		since.Add(2 * time.Hour),
		since.Add(26 * time.Hour),
		since.Add(27 * time.Hour),
	}
	days := bucketByDay(created, since, 3)
	assert.Equal(t, []dto.DayCount{
		{Date: "2025-03-01", Count: 1},
		{Date: "2025-03-02", Count: 2},
		{Date: "2025-03-03", Count: 0},
	}, days)
}
