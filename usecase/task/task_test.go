package task

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/repository/memory"
	"github.com/ayush17112005/TaskWiseAI/usecase/authz"
	"github.com/ayush17112005/TaskWiseAI/usecase/notification"
)

type fixture struct {
	store   *memory.Store
	uc      *UseCase
	team    *domain.Team
	project *domain.Project
}

// newFixture seeds a team of alice (owner), bob (contributor) and carol
// (viewer) with one project.
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
	team, err := store.Teams().Create(ctx, &domain.Team{
		ID: "team-1", Name: "Platform", CreatedBy: "alice",
		Members: []domain.TeamMember{
			{UserID: "alice", Role: domain.TeamRoleOwner},
			{UserID: "bob", Role: domain.TeamRoleContributor},
			{UserID: "carol", Role: domain.TeamRoleViewer},
		},
		IsActive: true,
	})
	require.NoError(t, err)
	project, err := store.Projects().Create(ctx, &domain.Project{
		ID: "proj-1", Name: "API", TeamID: team.ID, CreatedBy: "alice",
		Status: domain.ProjectStatusActive, Priority: domain.PriorityMedium,
	})
	require.NoError(t, err)

	gate := authz.NewGate(store.Teams())
	notifier := notification.New(store.Notifications(), nil)
	return &fixture{
		store:   store,
		uc:      New(store.Tasks(), store.Projects(), store.Teams(), gate, notifier, nil),
		team:    team,
		project: project,
	}
}

func (f *fixture) unread(t *testing.T, userID string) int {
	t.Helper()
	count, err := f.store.Notifications().CountUnread(context.Background(), userID)
	require.NoError(t, err)
	return count
}

func TestCreateAssignedRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.uc.Create(ctx, "alice", CreateInput{
		Title: "Ship it", ProjectID: f.project.ID, AssignedTo: "bob",
	})
	require.NoError(t, err)

	fetched, _, err := f.uc.Get(ctx, "alice", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", fetched.AssignedTo)
	assert.Empty(t, fetched.Comments)
	assert.Empty(t, fetched.Suggestions)
	assert.Empty(t, fetched.Dependencies)

	assert.Equal(t, 1, f.unread(t, "bob"), "exactly one assignment notification")
	assert.Zero(t, f.unread(t, "alice"))
}

func TestCreateSelfAssignedSkipsNotification(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Create(context.Background(), "bob", CreateInput{
		Title: "Solo work", ProjectID: f.project.ID, AssignedTo: "bob",
	})
	require.NoError(t, err)
	assert.Zero(t, f.unread(t, "bob"))
}

func TestCreateRejectsNonMemberAssignee(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Create(context.Background(), "alice", CreateInput{
		Title: "Nope", ProjectID: f.project.ID, AssignedTo: "stranger",
	})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestCreateRejectsParentInOtherProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other, err := f.store.Projects().Create(ctx, &domain.Project{
		ID: "proj-2", Name: "Web", TeamID: f.team.ID, CreatedBy: "alice",
		Status: domain.ProjectStatusActive, Priority: domain.PriorityMedium,
	})
	require.NoError(t, err)
	parent, err := f.uc.Create(ctx, "alice", CreateInput{Title: "Parent", ProjectID: other.ID})
	require.NoError(t, err)

	_, err = f.uc.Create(ctx, "alice", CreateInput{
		Title: "Child", ProjectID: f.project.ID, ParentID: parent.ID,
	})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestUpdateAssigneeChangeNotifiesNewAssigneeOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.uc.Create(ctx, "alice", CreateInput{
		Title: "Handover", ProjectID: f.project.ID, AssignedTo: "bob",
	})
	require.NoError(t, err)
	bobBefore := f.unread(t, "bob")

	carol := "carol"
	_, err = f.uc.Update(ctx, "alice", created.ID, UpdateInput{AssignedTo: &carol})
	require.NoError(t, err)

	assert.Equal(t, 1, f.unread(t, "carol"))
	assert.Equal(t, bobBefore, f.unread(t, "bob"), "old assignee is not re-notified")
}

func TestCompletionNotifiesCreator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.uc.Create(ctx, "alice", CreateInput{
		Title: "Finish", ProjectID: f.project.ID, AssignedTo: "bob",
	})
	require.NoError(t, err)

	done := domain.TaskStatusCompleted
	_, err = f.uc.Update(ctx, "bob", created.ID, UpdateInput{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, 1, f.unread(t, "alice"))

	// a second save while already completed does not notify again
	high := domain.PriorityHigh
	_, err = f.uc.Update(ctx, "bob", created.ID, UpdateInput{Priority: &high})
	require.NoError(t, err)
	assert.Equal(t, 1, f.unread(t, "alice"))
}

func TestDeleteCascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	parent, err := f.uc.Create(ctx, "alice", CreateInput{Title: "Parent", ProjectID: f.project.ID})
	require.NoError(t, err)
	child1, err := f.uc.Create(ctx, "alice", CreateInput{Title: "Child 1", ProjectID: f.project.ID, ParentID: parent.ID})
	require.NoError(t, err)
	child2, err := f.uc.Create(ctx, "alice", CreateInput{Title: "Child 2", ProjectID: f.project.ID, ParentID: parent.ID})
	require.NoError(t, err)
	grandchild, err := f.uc.Create(ctx, "alice", CreateInput{Title: "Grandchild", ProjectID: f.project.ID, ParentID: child1.ID})
	require.NoError(t, err)
	dependent, err := f.uc.Create(ctx, "alice", CreateInput{Title: "Dependent", ProjectID: f.project.ID})
	require.NoError(t, err)
	_, err = f.uc.AddDependency(ctx, "alice", dependent.ID, parent.ID)
	require.NoError(t, err)
	// a survivor depending on a mid-cascade task must come out clean too
	_, err = f.uc.AddDependency(ctx, "alice", dependent.ID, child1.ID)
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(ctx, "alice", parent.ID))

	for _, id := range []string{parent.ID, child1.ID, child2.ID, grandchild.ID} {
		_, err := f.store.Tasks().GetByID(ctx, id)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound), "task %s should be gone", id)
	}
	remaining, err := f.store.Tasks().GetByID(ctx, dependent.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining.Dependencies, "edges into the deleted subtree are stripped")
}

func TestDeleteRequiresCreatorOrAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.uc.Create(ctx, "alice", CreateInput{Title: "Protected", ProjectID: f.project.ID})
	require.NoError(t, err)

	err = f.uc.Delete(ctx, "bob", created.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))

	// creator may delete even without an admin role
	mine, err := f.uc.Create(ctx, "bob", CreateInput{Title: "Mine", ProjectID: f.project.ID})
	require.NoError(t, err)
	assert.NoError(t, f.uc.Delete(ctx, "bob", mine.ID))
}

func TestAddCommentNotifiesCreatorAndAssignee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.uc.Create(ctx, "alice", CreateInput{
		Title: "Discuss", ProjectID: f.project.ID, AssignedTo: "bob",
	})
	require.NoError(t, err)
	bobBefore := f.unread(t, "bob")

	updated, err := f.uc.AddComment(ctx, "carol", created.ID, "looks good")
	require.NoError(t, err)
	require.Len(t, updated.Comments, 1)
	assert.Equal(t, "carol", updated.Comments[0].AuthorID)
	assert.False(t, updated.Comments[0].CreatedAt.IsZero())

	assert.Equal(t, 1, f.unread(t, "alice"))
	assert.Equal(t, bobBefore+1, f.unread(t, "bob"))
	assert.Zero(t, f.unread(t, "carol"), "commenter is excluded")
}

func TestAddCommentByCreatorNotifiesAssigneeOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.uc.Create(ctx, "alice", CreateInput{Title: "Chat", ProjectID: f.project.ID})
	require.NoError(t, err)

	_, err = f.uc.AddComment(ctx, "alice", created.ID, "self note")
	require.NoError(t, err)
	assert.Zero(t, f.unread(t, "alice"))
}

func TestDependencyRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.uc.Create(ctx, "alice", CreateInput{Title: "A", ProjectID: f.project.ID})
	require.NoError(t, err)
	b, err := f.uc.Create(ctx, "alice", CreateInput{Title: "B", ProjectID: f.project.ID})
	require.NoError(t, err)

	updated, err := f.uc.AddDependency(ctx, "alice", a.ID, b.ID)
	require.NoError(t, err)
	assert.Contains(t, updated.Dependencies, b.ID)

	_, err = f.uc.AddDependency(ctx, "alice", a.ID, b.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid), "duplicate edge rejected")

	other, err := f.store.Projects().Create(ctx, &domain.Project{
		ID: "proj-2", Name: "Web", TeamID: f.team.ID, CreatedBy: "alice",
		Status: domain.ProjectStatusActive, Priority: domain.PriorityMedium,
	})
	require.NoError(t, err)
	foreign, err := f.uc.Create(ctx, "alice", CreateInput{Title: "F", ProjectID: other.ID})
	require.NoError(t, err)
	_, err = f.uc.AddDependency(ctx, "alice", a.ID, foreign.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid), "cross-project edge rejected")

	// removal is idempotent
	updated, err = f.uc.RemoveDependency(ctx, "alice", a.ID, b.ID)
	require.NoError(t, err)
	assert.Empty(t, updated.Dependencies)
	_, err = f.uc.RemoveDependency(ctx, "alice", a.ID, b.ID)
	assert.NoError(t, err)
}

func TestListScopedToMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, "alice", CreateInput{Title: "Visible", ProjectID: f.project.ID})
	require.NoError(t, err)

	_, err = f.store.Users().Create(ctx, &domain.User{
		ID: "dave", Name: "dave", Email: "dave@example.com",
		Role: domain.UserRoleMember, IsActive: true,
	})
	require.NoError(t, err)

	tasks, total, err := f.uc.List(ctx, "dave", ListInput{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, tasks)

	_, _, err = f.uc.List(ctx, "dave", ListInput{ProjectID: f.project.ID})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))
}

func TestMyListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, "alice", CreateInput{Title: "For bob", ProjectID: f.project.ID, AssignedTo: "bob"})
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, "bob", CreateInput{Title: "By bob", ProjectID: f.project.ID})
	require.NoError(t, err)

	assigned, total, err := f.uc.MyAssigned(ctx, "bob", "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, assigned, 1)
	assert.Equal(t, "For bob", assigned[0].Title)

	created, total, err := f.uc.MyCreated(ctx, "bob", "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, created, 1)
	assert.Equal(t, "By bob", created[0].Title)
}
