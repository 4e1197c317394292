package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/repository"
)

type notificationRepo struct {
	s *Store
}

func (r *notificationRepo) Create(_ context.Context, notification *domain.Notification) error {
	if notification == nil || notification.UserID == "" {
		return domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = r.s.now()
	}
	r.s.notifications[notification.UserID] = append(
		r.s.notifications[notification.UserID], cloneNotification(notification))
	return nil
}

func (r *notificationRepo) List(_ context.Context, filter repository.NotificationFilter) ([]domain.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := r.s.notifications[filter.UserID]
	var matched []domain.Notification
	// Newest first.
	for i := len(all) - 1; i >= 0; i-- {
		if filter.UnreadOnly && all[i].IsRead {
			continue
		}
		matched = append(matched, *cloneNotification(all[i]))
	}
	if filter.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (r *notificationRepo) CountUnread(_ context.Context, userID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	count := 0
	for _, n := range r.s.notifications[userID] {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepo) MarkRead(_ context.Context, userID, id string) (*domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.notifications[userID] {
		if n.ID == id {
			n.MarkRead(r.s.now())
			return cloneNotification(n), nil
		}
	}
	return nil, domain.ErrNotificationNotFound
}

func (r *notificationRepo) MarkAllRead(_ context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	updated := 0
	for _, n := range r.s.notifications[userID] {
		if !n.IsRead {
			n.MarkRead(now)
			updated++
		}
	}
	return updated, nil
}

func (r *notificationRepo) PurgeRead(_ context.Context, olderThan time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	purged := 0
	for userID, list := range r.s.notifications {
		kept := list[:0]
		for _, n := range list {
			if n.IsRead && n.CreatedAt.Before(olderThan) {
				purged++
				continue
			}
			kept = append(kept, n)
		}
		r.s.notifications[userID] = kept
	}
	return purged, nil
}
