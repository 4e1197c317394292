package team

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
	store *memory.Store
	uc    *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	gate := authz.NewGate(store.Teams())
	notifier := notification.New(store.Notifications(), nil)
	return &fixture{
		store: store,
		uc:    New(store.Teams(), store.Users(), gate, notifier, nil),
	}
}

func (f *fixture) addUser(t *testing.T, id, name string) {
	t.Helper()
	_, err := f.store.Users().Create(context.Background(), &domain.User{
		ID:       id,
		Name:     name,
		Email:    id + "@example.com",
		Role:     domain.UserRoleMember,
		IsActive: true,
	})
	require.NoError(t, err)
}

func TestCreateMakesCallerOwner(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", "Alice")

	team, err := f.uc.Create(context.Background(), "alice", CreateInput{Name: "Platform"})
	require.NoError(t, err)

	require.Len(t, team.Members, 1)
	assert.Equal(t, "alice", team.Members[0].UserID)
	assert.Equal(t, domain.TeamRoleOwner, team.Members[0].Role)
	assert.True(t, team.IsActive)
}

func TestOwnerRoleIsImmutable(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", "Alice")
	f.addUser(t, "bob", "Bob")

	team, err := f.uc.Create(context.Background(), "alice", CreateInput{Name: "Platform"})
	require.NoError(t, err)
	_, err = f.uc.AddMember(context.Background(), "alice", team.ID, AddMemberInput{
		UserID: "bob", Role: domain.TeamRoleContributor,
	})
	require.NoError(t, err)

	_, err = f.uc.ChangeRole(context.Background(), "alice", team.ID, "alice", domain.TeamRoleViewer)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))

	_, err = f.uc.ChangeRole(context.Background(), "alice", team.ID, "bob", domain.TeamRoleOwner)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = f.uc.RemoveMember(context.Background(), "alice", team.ID, "alice")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))
}

func TestAddMemberDuplicateConflicts(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", "Alice")
	f.addUser(t, "bob", "Bob")

	team, err := f.uc.Create(context.Background(), "alice", CreateInput{Name: "Platform"})
	require.NoError(t, err)

	_, err = f.uc.AddMember(context.Background(), "alice", team.ID, AddMemberInput{UserID: "bob"})
	require.NoError(t, err)
	_, err = f.uc.AddMember(context.Background(), "alice", team.ID, AddMemberInput{UserID: "bob"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConflict))
}

func TestAddMemberRequiresAdminRole(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", "Alice")
	f.addUser(t, "bob", "Bob")
	f.addUser(t, "carol", "Carol")

	team, err := f.uc.Create(context.Background(), "alice", CreateInput{Name: "Platform"})
	require.NoError(t, err)
	_, err = f.uc.AddMember(context.Background(), "alice", team.ID, AddMemberInput{
		UserID: "bob", Role: domain.TeamRoleViewer,
	})
	require.NoError(t, err)

	_, err = f.uc.AddMember(context.Background(), "bob", team.ID, AddMemberInput{UserID: "carol"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))
}

func TestAddMemberNotifiesInvitee(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", "Alice")
	f.addUser(t, "bob", "Bob")

	team, err := f.uc.Create(context.Background(), "alice", CreateInput{Name: "Platform"})
	require.NoError(t, err)
	_, err = f.uc.AddMember(context.Background(), "alice", team.ID, AddMemberInput{UserID: "bob"})
	require.NoError(t, err)

	count, err := f.store.Notifications().CountUnread(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDeleteSoftDeletes(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", "Alice")

	team, err := f.uc.Create(context.Background(), "alice", CreateInput{Name: "Platform"})
	require.NoError(t, err)
	require.NoError(t, f.uc.Delete(context.Background(), "alice", team.ID))

	// members survive a soft delete but the team disappears from views
	stored, err := f.store.Teams().GetByID(context.Background(), team.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.Len(t, stored.Members, 1)

	_, err = f.uc.Get(context.Background(), "alice", team.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	teams, total, err := f.uc.ListMine(context.Background(), "alice", "", 0, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, teams)
}

func TestDeleteRequiresOwner(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", "Alice")
	f.addUser(t, "bob", "Bob")

	team, err := f.uc.Create(context.Background(), "alice", CreateInput{Name: "Platform"})
	require.NoError(t, err)
	_, err = f.uc.AddMember(context.Background(), "alice", team.ID, AddMemberInput{
		UserID: "bob", Role: domain.TeamRoleAdmin,
	})
	require.NoError(t, err)

	err = f.uc.Delete(context.Background(), "bob", team.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))
}
