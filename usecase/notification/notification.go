// Package notification is the fire-and-forget sink plus the client polling
// surface. Emission never fails the request that triggered it; storage errors
// are logged and dropped.
package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/repository"
)

type UseCase struct {
	store  repository.NotificationRepository
	logger *zap.Logger
	now    func() time.Time
}

func New(store repository.NotificationRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{store: store, logger: logger, now: time.Now}
}

// Emit records a notification. Failures are logged, never propagated.
func (uc *UseCase) Emit(ctx context.Context, n domain.Notification) {
	if n.UserID == "" {
		return
	}
	n.ID = uuid.NewString()
	n.CreatedAt = uc.now()
	n.IsRead = false
	n.ReadAt = nil
	if err := uc.store.Create(ctx, &n); err != nil {
		uc.logger.Warn("failed to store notification",
			zap.String("user_id", n.UserID),
			zap.String("kind", string(n.Kind)),
			zap.Error(err))
	}
}

// List returns the recipient's notifications, newest first.
func (uc *UseCase) List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	return uc.store.List(ctx, repository.NotificationFilter{
		UserID:     userID,
		UnreadOnly: unreadOnly,
		Limit:      limit,
		Offset:     offset,
	})
}

func (uc *UseCase) UnreadCount(ctx context.Context, userID string) (int, error) {
	return uc.store.CountUnread(ctx, userID)
}

func (uc *UseCase) MarkRead(ctx context.Context, userID, id string) (*domain.Notification, error) {
	return uc.store.MarkRead(ctx, userID, id)
}

func (uc *UseCase) MarkAllRead(ctx context.Context, userID string) (int, error) {
	return uc.store.MarkAllRead(ctx, userID)
}

// PurgeRead drops read notifications older than the retention horizon. The
// retention sweep calls this on a schedule.
func (uc *UseCase) PurgeRead(ctx context.Context, retention time.Duration) (int, error) {
	return uc.store.PurgeRead(ctx, uc.now().Add(-retention))
}
