package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/repository/memory"
)

func TestEmitAndList(t *testing.T) {
	store := memory.NewStore()
	uc := New(store.Notifications(), nil)
	ctx := context.Background()

	uc.Emit(ctx, domain.Notification{
		UserID:  "bob",
		Kind:    domain.NotificationTaskAssigned,
		Title:   "New task assigned",
		Message: "You have been assigned a task",
	})
	uc.Emit(ctx, domain.Notification{Kind: domain.NotificationTaskAssigned}) // no recipient, dropped

	list, err := uc.List(ctx, "bob", false, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NotEmpty(t, list[0].ID)
	assert.False(t, list[0].CreatedAt.IsZero())
	assert.False(t, list[0].IsRead)

	count, err := uc.UnreadCount(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMarkReadIsScopedToRecipient(t *testing.T) {
	store := memory.NewStore()
	uc := New(store.Notifications(), nil)
	ctx := context.Background()

	uc.Emit(ctx, domain.Notification{UserID: "bob", Kind: domain.NotificationTeamInvite, Title: "Invited"})
	list, err := uc.List(ctx, "bob", true, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = uc.MarkRead(ctx, "alice", list[0].ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound), "another user's notification stays hidden")

	marked, err := uc.MarkRead(ctx, "bob", list[0].ID)
	require.NoError(t, err)
	assert.True(t, marked.IsRead)
	require.NotNil(t, marked.ReadAt)

	unread, err := uc.List(ctx, "bob", true, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestMarkAllRead(t *testing.T) {
	store := memory.NewStore()
	uc := New(store.Notifications(), nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		uc.Emit(ctx, domain.Notification{UserID: "bob", Kind: domain.NotificationCommentAdded, Title: "Comment"})
	}
	n, err := uc.MarkAllRead(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	count, err := uc.UnreadCount(ctx, "bob")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPurgeReadHonorsRetention(t *testing.T) {
	store := memory.NewStore()
	uc := New(store.Notifications(), nil)
	ctx := context.Background()

	old := time.Now().AddDate(0, 0, -60)
	store.SetClock(func() time.Time { return old })
	uc.now = func() time.Time { return old }
	uc.Emit(ctx, domain.Notification{UserID: "bob", Kind: domain.NotificationCommentAdded, Title: "Stale"})
	_, err := uc.MarkAllRead(ctx, "bob")
	require.NoError(t, err)

	store.SetClock(time.Now)
	uc.now = time.Now
	uc.Emit(ctx, domain.Notification{UserID: "bob", Kind: domain.NotificationCommentAdded, Title: "Fresh read"})
	_, err = uc.MarkAllRead(ctx, "bob")
	require.NoError(t, err)
	uc.Emit(ctx, domain.Notification{UserID: "bob", Kind: domain.NotificationCommentAdded, Title: "Fresh unread"})

	purged, err := uc.PurgeRead(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, purged, "only read notifications past the horizon go")

	list, err := uc.List(ctx, "bob", false, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
