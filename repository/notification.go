package repository

import (
	"context"
	"time"

	"github.com/ayush17112005/TaskWiseAI/domain"
)

type NotificationFilter struct {
	UserID     string
	UnreadOnly bool
	Limit      int
	Offset     int
}

// NotificationRepository is the fire-and-forget sink consumed by the client
// polling surface.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	List(ctx context.Context, filter NotificationFilter) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, id string) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int, error)
	// PurgeRead removes read notifications created before the cutoff.
	PurgeRead(ctx context.Context, olderThan time.Time) (int, error)
}
