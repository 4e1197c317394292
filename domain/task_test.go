package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskIsOverdue(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	tests := []struct {
		name     string
		deadline *time.Time
		status   TaskStatus
		want     bool
	}{
		{"no deadline", nil, TaskStatusTodo, false},
		{"future deadline", &future, TaskStatusInProgress, false},
		{"past deadline open", &past, TaskStatusTodo, true},
		{"past deadline blocked", &past, TaskStatusBlocked, true},
		{"past deadline completed", &past, TaskStatusCompleted, false},
		{"future deadline completed", &future, TaskStatusCompleted, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			task := &Task{Deadline: tc.deadline, Status: tc.status}
			assert.Equal(t, tc.want, task.IsOverdue(now))
			// recomputed identically on every read
			assert.Equal(t, tc.want, task.IsOverdue(now))
		})
	}
}

func TestNotificationMarkReadOnce(t *testing.T) {
	first := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)

	n := &Notification{}
	n.MarkRead(first)
	assert.True(t, n.IsRead)
	assert.Equal(t, first, *n.ReadAt)

	n.MarkRead(later)
	assert.Equal(t, first, *n.ReadAt, "ReadAt is set exactly once")
}

func TestProjectValidDateRange(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	assert.True(t, (&Project{}).ValidDateRange())
	assert.True(t, (&Project{StartDate: &start}).ValidDateRange())
	assert.True(t, (&Project{StartDate: &start, EndDate: &end}).ValidDateRange())
	assert.True(t, (&Project{StartDate: &start, EndDate: &start}).ValidDateRange())
	assert.False(t, (&Project{StartDate: &end, EndDate: &start}).ValidDateRange())
}

func TestTeamMemberLookup(t *testing.T) {
	team := &Team{Members: []TeamMember{
		{UserID: "u1", Role: TeamRoleOwner},
		{UserID: "u2", Role: TeamRoleViewer},
	}}

	assert.True(t, team.HasMember("u1"))
	assert.False(t, team.HasMember("u3"))
	assert.Equal(t, TeamRoleViewer, team.Member("u2").Role)
	assert.Nil(t, team.Member("u3"))
}
