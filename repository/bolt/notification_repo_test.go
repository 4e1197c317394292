package bolt

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/internal/infrastructure/boltdb"
	"github.com/ayush17112005/TaskWiseAI/repository"
)

func newRepo(t *testing.T) repository.NotificationRepository {
	t.Helper()
	store, err := boltdb.Open(filepath.Join(t.TempDir(), "notifications.db"), "notifications")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewNotificationRepository(store)
}

func seed(t *testing.T, repo repository.NotificationRepository, userID string, n int, at time.Time) {
	t.Helper()
	for i := 0; i < n; i++ {
		err := repo.Create(context.Background(), &domain.Notification{
			ID:        fmt.Sprintf("%s-%d", userID, i),
			UserID:    userID,
			Kind:      domain.NotificationTaskAssigned,
			Title:     "New task assigned",
			CreatedAt: at.Add(time.Duration(i) * time.Millisecond),
		})
		require.NoError(t, err)
	}
}

func TestMarkAllReadSweepsEveryRecord(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	seed(t, repo, "bob", 500, time.Now())
	seed(t, repo, "alice", 2, time.Now())

	updated, err := repo.MarkAllRead(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 500, updated)

	unread, err := repo.CountUnread(ctx, "bob")
	require.NoError(t, err)
	assert.Zero(t, unread)

	// a second sweep finds nothing left to flip
	updated, err = repo.MarkAllRead(ctx, "bob")
	require.NoError(t, err)
	assert.Zero(t, updated)

	unread, err = repo.CountUnread(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, unread, "other recipients untouched")
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	seed(t, repo, "bob", 1, time.Now())

	_, err := repo.MarkRead(ctx, "alice", "bob-0")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	marked, err := repo.MarkRead(ctx, "bob", "bob-0")
	require.NoError(t, err)
	assert.True(t, marked.IsRead)
	require.NotNil(t, marked.ReadAt)
}

func TestListNewestFirstWithUnreadFilter(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	seed(t, repo, "bob", 3, time.Now())

	_, err := repo.MarkRead(ctx, "bob", "bob-1")
	require.NoError(t, err)

	all, err := repo.List(ctx, repository.NotificationFilter{UserID: "bob"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "bob-2", all[0].ID, "newest first")

	unread, err := repo.List(ctx, repository.NotificationFilter{UserID: "bob", UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, unread, 2)
	for _, n := range unread {
		assert.NotEqual(t, "bob-1", n.ID)
	}
}

func TestPurgeReadKeepsUnreadAndRecent(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	old := time.Now().AddDate(0, 0, -60)
	seed(t, repo, "bob", 2, old)          // stale
	seed(t, repo, "carol", 1, time.Now()) // fresh

	_, err := repo.MarkRead(ctx, "bob", "bob-0")
	require.NoError(t, err)
	_, err = repo.MarkRead(ctx, "carol", "carol-0")
	require.NoError(t, err)

	purged, err := repo.PurgeRead(ctx, time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, 1, purged, "only bob-0 is both read and stale")

	remaining, err := repo.List(ctx, repository.NotificationFilter{UserID: "bob"})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "bob-1", remaining[0].ID)
}
