package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/repository/memory"
	"github.com/ayush17112005/TaskWiseAI/usecase/authz"
)

type fixture struct {
	store   *memory.Store
	uc      *UseCase
	project *domain.Project
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()

	for _, id := range []string{"alice", "bob"} {
		_, err := store.Users().Create(ctx, &domain.User{
			ID: id, Name: id, Email: id + "@example.com",
			Role: domain.UserRoleMember, IsActive: true,
		})
		require.NoError(t, err)
	}
	_, err := store.Teams().Create(ctx, &domain.Team{
		ID: "team-1", Name: "Platform", CreatedBy: "alice",
		Members: []domain.TeamMember{
			{UserID: "alice", Role: domain.TeamRoleOwner},
			{UserID: "bob", Role: domain.TeamRoleContributor},
		},
		IsActive: true,
	})
	require.NoError(t, err)
	project, err := store.Projects().Create(ctx, &domain.Project{
		ID: "proj-1", Name: "API", TeamID: "team-1", CreatedBy: "alice",
		Status: domain.ProjectStatusActive, Priority: domain.PriorityMedium,
	})
	require.NoError(t, err)

	gate := authz.NewGate(store.Teams())
	return &fixture{
		store:   store,
		uc:      New(store.Tasks(), store.Projects(), store.Teams(), store.Users(), gate, nil),
		project: project,
	}
}

func (f *fixture) addTask(t *testing.T, task domain.Task) *domain.Task {
	t.Helper()
	task.ProjectID = f.project.ID
	if task.CreatedBy == "" {
		task.CreatedBy = "alice"
	}
	if task.Status == "" {
		task.Status = domain.TaskStatusTodo
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}
	created, err := f.store.Tasks().Create(context.Background(), &task)
	require.NoError(t, err)
	return created
}

// complete flips the task to completed at the given instant.
func (f *fixture) complete(t *testing.T, task *domain.Task, at time.Time) {
	t.Helper()
	f.store.SetClock(func() time.Time { return at })
	task.Status = domain.TaskStatusCompleted
	err := f.store.Tasks().Update(context.Background(), task)
	require.NoError(t, err)
	f.store.SetClock(time.Now)
}

func TestPerformanceForMemberZeroValue(t *testing.T) {
	f := newFixture(t)

	perf, err := f.uc.PerformanceForMember(context.Background(), "team-1", "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", perf.UserID)
	assert.Zero(t, perf.TasksCompleted)
	assert.Zero(t, perf.AvgCompletionDays)
	assert.Zero(t, perf.EstimationAccuracy)
	assert.Empty(t, perf.CommonTags)
}

func TestPerformanceForMemberAverages(t *testing.T) {
	f := newFixture(t)
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	f.store.SetClock(func() time.Time { return start })
	task := f.addTask(t, domain.Task{
		Title: "Estimate me", AssignedTo: "bob",
		EstimatedHours: 10, ActualHours: 12,
		Priority: domain.PriorityHigh,
		Tags:     []string{"backend", "api"},
	})
	f.complete(t, task, start.AddDate(0, 0, 2))

	perf, err := f.uc.PerformanceForMember(context.Background(), "team-1", "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, perf.TasksCompleted)
	assert.InDelta(t, 2.0, perf.AvgCompletionDays, 0.01)
	// 1 - |12-10|/10 = 0.8 -> 80%
	assert.InDelta(t, 80.0, perf.EstimationAccuracy, 0.01)
	assert.Equal(t, domain.PriorityHigh, perf.TopPriority)
	require.NotEmpty(t, perf.CommonTags)
}

func TestMemberPerformanceHistoryRejectsNonMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.Users().Create(ctx, &domain.User{
		ID: "dave", Name: "dave", Email: "dave@example.com",
		Role: domain.UserRoleMember, IsActive: true,
	})
	require.NoError(t, err)

	_, err = f.uc.MemberPerformanceHistory(ctx, "alice", "team-1", "dave")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestTeamWorkload(t *testing.T) {
	f := newFixture(t)
	past := time.Now().AddDate(0, 0, -1)

	f.addTask(t, domain.Task{Title: "Done", AssignedTo: "bob", Status: domain.TaskStatusCompleted, EstimatedHours: 4})
	f.addTask(t, domain.Task{Title: "Going", AssignedTo: "bob", Status: domain.TaskStatusInProgress})
	f.addTask(t, domain.Task{Title: "Late", AssignedTo: "bob", Status: domain.TaskStatusTodo, Deadline: &past})
	f.addTask(t, domain.Task{Title: "For alice", AssignedTo: "alice"})
	f.addTask(t, domain.Task{Title: "Unassigned"})

	rows, err := f.uc.TeamWorkload(context.Background(), "alice", "team-1")
	require.NoError(t, err)
	require.Len(t, rows, 2, "unassigned tasks form no row")
	assert.Equal(t, "bob", rows[0].UserID, "sorted by total descending")

	bob := rows[0]
	assert.Equal(t, 3, bob.Total)
	assert.Equal(t, 1, bob.Completed)
	assert.Equal(t, 1, bob.InProgress)
	assert.Equal(t, 1, bob.Todo)
	assert.Equal(t, 1, bob.Overdue)
	assert.Equal(t, "bob@example.com", bob.Email)
	assert.InDelta(t, 100.0/3, bob.CompletionRate, 0.01)
}

func TestUserDashboardUpcoming(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 7; i >= 1; i-- {
		deadline := time.Now().AddDate(0, 0, i)
		f.addTask(t, domain.Task{
			Title: "Due", AssignedTo: "bob", CreatedBy: "bob", Deadline: &deadline,
		})
	}
	// completed and past-deadline tasks never count as upcoming
	done := time.Now().AddDate(0, 0, 1)
	f.addTask(t, domain.Task{Title: "Done", AssignedTo: "bob", Status: domain.TaskStatusCompleted, Deadline: &done})
	past := time.Now().AddDate(0, 0, -1)
	f.addTask(t, domain.Task{Title: "Late", AssignedTo: "bob", Deadline: &past})

	dash, err := f.uc.UserDashboard(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, dash.Upcoming, 5)
	for i := 1; i < len(dash.Upcoming); i++ {
		prev, cur := dash.Upcoming[i-1].Deadline, dash.Upcoming[i].Deadline
		assert.False(t, cur.Before(*prev), "upcoming sorted by deadline ascending")
	}
	assert.Equal(t, 7, dash.TasksCreated)
	assert.Equal(t, 1, dash.ActiveProjects)
	assert.Equal(t, 9, dash.Overall.Total)
}

func TestTaskCompletionTrends(t *testing.T) {
	f := newFixture(t)
	base := time.Now().UTC()

	day := func(offset int) time.Time { return base.AddDate(0, 0, offset) }
	for _, at := range []time.Time{day(-2), day(-2), day(-5)} {
		task := f.addTask(t, domain.Task{Title: "T", AssignedTo: "bob"})
		f.complete(t, task, at)
	}
	old := f.addTask(t, domain.Task{Title: "Old", AssignedTo: "bob"})
	f.complete(t, old, day(-40))

	points, err := f.uc.TaskCompletionTrends(context.Background(), "alice", f.project.ID)
	require.NoError(t, err)
	require.Len(t, points, 2, "window excludes completions older than 30 days")
	assert.Equal(t, day(-5).Format("2006-01-02"), points[0].Date)
	assert.Equal(t, 1, points[0].Count)
	assert.Equal(t, day(-2).Format("2006-01-02"), points[1].Date)
	assert.Equal(t, 2, points[1].Count)
}
