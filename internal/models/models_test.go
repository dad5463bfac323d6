package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInterviewNotesMergeKeepsExistingValues(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	stored := InterviewNotes{
		Preference:    "morning",
		ScheduledTime: &at,
		Extra:         map[string]interface{}{"room": "A"},
	}

	merged := stored.Merge(InterviewNotes{
		ManagerDecision: "Hire",
		Extra:           map[string]interface{}{"panel": "2"},
	})

	assert.Equal(t, "morning", merged.Preference)
	assert.Equal(t, &at, merged.ScheduledTime)
	assert.Equal(t, "Hire", merged.ManagerDecision)
	assert.Equal(t, map[string]interface{}{"room": "A", "panel": "2"}, merged.Extra)
	// исходный мешок не изменился
	assert.Len(t, stored.Extra, 1)
}

func TestAcceptsApplications(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	open := JobPosition{Status: PositionStatusOpen}
	assert.True(t, open.AcceptsApplications(now))

	window := JobPosition{Status: PositionStatusOpen, RegistrationStartDate: &past, RegistrationEndDate: &future}
	assert.True(t, window.AcceptsApplications(now))

	expired := JobPosition{Status: PositionStatusOpen, RegistrationEndDate: &past}
	assert.False(t, expired.AcceptsApplications(now))

	notYet := JobPosition{Status: PositionStatusOpen, RegistrationStartDate: &future}
	assert.False(t, notYet.AcceptsApplications(now))

	draft := JobPosition{Status: PositionStatusDraft}
	assert.False(t, draft.AcceptsApplications(now))

	archived := JobPosition{Status: PositionStatusOpen, IsArchived: true}
	assert.False(t, archived.AcceptsApplications(now))
}

func TestScheduleOverlaps(t *testing.T) {
	base := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	s := Schedule{StartDate: base, EndDate: base.Add(time.Hour)}

	assert.True(t, s.Overlaps(base.Add(30*time.Minute), base.Add(90*time.Minute)))
	assert.False(t, s.Overlaps(base.Add(time.Hour), base.Add(2*time.Hour)), "back-to-back events do not overlap")
	assert.False(t, s.Overlaps(base.Add(-time.Hour), base))
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, UserRoleManager.Valid())
	assert.False(t, RoleSystem.Valid())
	assert.True(t, PositionStatusOpen.Valid())
	assert.False(t, PositionStatus("open").Valid())
	assert.True(t, ApplicationStatusOnboarding.Valid())
	assert.False(t, ApplicationStatus("ARCHIVED").Valid())
}
