package project

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
	store *memory.Store
	uc    *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()

	for _, id := range []string{"alice", "bob", "carol"} {
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

	gate := authz.NewGate(store.Teams())
	return &fixture{
		store: store,
		uc:    New(store.Projects(), store.Tasks(), store.Teams(), gate, nil),
	}
}

func TestCreateDefaultsAndDateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.uc.Create(ctx, "bob", CreateInput{Name: "  API  ", TeamID: "team-1"})
	require.NoError(t, err)
	assert.Equal(t, "API", created.Name)
	assert.Equal(t, domain.ProjectStatusPlanning, created.Status)
	assert.Equal(t, domain.PriorityMedium, created.Priority)
	assert.Equal(t, "bob", created.CreatedBy)

	start := time.Now()
	end := start.AddDate(0, 0, -1)
	_, err = f.uc.Create(ctx, "bob", CreateInput{
		Name: "Backwards", TeamID: "team-1", StartDate: &start, EndDate: &end,
	})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestCreateRequiresMembership(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Create(context.Background(), "carol", CreateInput{Name: "Nope", TeamID: "team-1"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))
}

func TestListScopedToMemberTeams(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, "alice", CreateInput{Name: "Visible", TeamID: "team-1"})
	require.NoError(t, err)

	projects, total, err := f.uc.List(ctx, "carol", ListInput{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, projects)

	_, _, err = f.uc.List(ctx, "carol", ListInput{TeamID: "team-1"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))

	projects, total, err = f.uc.List(ctx, "bob", ListInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, projects, 1)
	assert.Equal(t, "Visible", projects[0].Name)
}

func TestUpdateClearDatesAndTeamImmutable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	start := time.Now()
	end := start.AddDate(0, 1, 0)
	created, err := f.uc.Create(ctx, "alice", CreateInput{
		Name: "Dated", TeamID: "team-1", StartDate: &start, EndDate: &end,
	})
	require.NoError(t, err)

	updated, err := f.uc.Update(ctx, "alice", created.ID, UpdateInput{ClearDates: true})
	require.NoError(t, err)
	assert.Nil(t, updated.StartDate)
	assert.Nil(t, updated.EndDate)
	assert.Equal(t, "team-1", updated.TeamID)

	badEnd := start.AddDate(0, 0, -2)
	_, err = f.uc.Update(ctx, "alice", created.ID, UpdateInput{StartDate: &start, EndDate: &badEnd})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestDeleteCascadesTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.uc.Create(ctx, "bob", CreateInput{Name: "Doomed", TeamID: "team-1"})
	require.NoError(t, err)
	task, err := f.store.Tasks().Create(ctx, &domain.Task{
		Title: "Goes too", ProjectID: created.ID, CreatedBy: "bob",
		Status: domain.TaskStatusTodo, Priority: domain.PriorityMedium,
	})
	require.NoError(t, err)

	// a contributor who is not the creator cannot delete
	other, err := f.uc.Create(ctx, "alice", CreateInput{Name: "Kept", TeamID: "team-1"})
	require.NoError(t, err)
	err = f.uc.Delete(ctx, "bob", other.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))

	require.NoError(t, f.uc.Delete(ctx, "bob", created.ID))
	_, err = f.store.Projects().GetByID(ctx, created.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
	_, err = f.store.Tasks().GetByID(ctx, task.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestStatusRollup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.uc.Create(ctx, "alice", CreateInput{Name: "Rollup", TeamID: "team-1"})
	require.NoError(t, err)
	for _, status := range []domain.TaskStatus{
		domain.TaskStatusTodo, domain.TaskStatusTodo, domain.TaskStatusInProgress, domain.TaskStatusCompleted,
	} {
		_, err := f.store.Tasks().Create(ctx, &domain.Task{
			Title: "T", ProjectID: created.ID, CreatedBy: "alice",
			Status: status, Priority: domain.PriorityMedium,
		})
		require.NoError(t, err)
	}

	rollup, err := f.uc.StatusRollup(ctx, "alice", created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, rollup[domain.TaskStatusTodo])
	assert.Equal(t, 1, rollup[domain.TaskStatusInProgress])
	assert.Equal(t, 1, rollup[domain.TaskStatusCompleted])
}
