// Package bolt persists notifications in BoltDB. Records are keyed per
// recipient, in append (chronological) order, and carry no relational links
// back into the primary store.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	boltlib "go.etcd.io/bbolt"

	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/internal/infrastructure/boltdb"
	"github.com/ayush17112005/TaskWiseAI/repository"
)

type notificationRepository struct {
	store *boltdb.Store
}

// NewNotificationRepository creates a BoltDB-backed notification repository.
func NewNotificationRepository(store *boltdb.Store) repository.NotificationRepository {
	return &notificationRepository{store: store}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	if notification == nil || notification.UserID == "" {
		return domain.ErrInvalidPayload
	}
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	return r.store.Update(func(tx *boltlib.Tx) error {
		user, err := tx.Bucket(r.store.Bucket()).CreateBucketIfNotExists([]byte(notification.UserID))
		if err != nil {
			return err
		}
		return user.Put(buildKey(notification), payload)
	})
}

func (r *notificationRepository) List(ctx context.Context, filter repository.NotificationFilter) ([]domain.Notification, error) {
	var result []domain.Notification
	skip := filter.Offset

	err := r.store.View(func(tx *boltlib.Tx) error {
		user := tx.Bucket(r.store.Bucket()).Bucket([]byte(filter.UserID))
		if user == nil {
			return nil
		}
		// Keys are chronological, so walk backwards for newest-first.
		c := user.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var n domain.Notification
			if err := json.Unmarshal(v, &n); err != nil {
				continue
			}
			if filter.UnreadOnly && n.IsRead {
				continue
			}
			if skip > 0 {
				skip--
				continue
			}
			result = append(result, n)
			if filter.Limit > 0 && len(result) >= filter.Limit {
				return nil
			}
		}
		return nil
	})
	return result, err
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.store.View(func(tx *boltlib.Tx) error {
		user := tx.Bucket(r.store.Bucket()).Bucket([]byte(userID))
		if user == nil {
			return nil
		}
		return user.ForEach(func(_, v []byte) error {
			var n domain.Notification
			if err := json.Unmarshal(v, &n); err == nil && !n.IsRead {
				count++
			}
			return nil
		})
	})
	return count, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID, id string) (*domain.Notification, error) {
	var updated *domain.Notification
	err := r.store.Update(func(tx *boltlib.Tx) error {
		user := tx.Bucket(r.store.Bucket()).Bucket([]byte(userID))
		if user == nil {
			return domain.ErrNotificationNotFound
		}
		c := user.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var n domain.Notification
			if err := json.Unmarshal(v, &n); err != nil {
				continue
			}
			if n.ID != id {
				continue
			}
			n.MarkRead(time.Now())
			payload, err := json.Marshal(&n)
			if err != nil {
				return err
			}
			if err := user.Put(append([]byte(nil), k...), payload); err != nil {
				return err
			}
			updated = &n
			return nil
		}
		return domain.ErrNotificationNotFound
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	var updated int
	now := time.Now()
	err := r.store.Update(func(tx *boltlib.Tx) error {
		user := tx.Bucket(r.store.Bucket()).Bucket([]byte(userID))
		if user == nil {
			return nil
		}
		// Collect during the walk, write after: a Put invalidates the
		// open cursor.
		pending := make(map[string][]byte)
		c := user.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var n domain.Notification
			if err := json.Unmarshal(v, &n); err != nil || n.IsRead {
				continue
			}
			n.MarkRead(now)
			payload, err := json.Marshal(&n)
			if err != nil {
				return err
			}
			pending[string(k)] = payload
		}
		for k, payload := range pending {
			if err := user.Put([]byte(k), payload); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	return updated, err
}

func (r *notificationRepository) PurgeRead(ctx context.Context, olderThan time.Time) (int, error) {
	var purged int
	err := r.store.Update(func(tx *boltlib.Tx) error {
		root := tx.Bucket(r.store.Bucket())
		return root.ForEachBucket(func(name []byte) error {
			user := root.Bucket(name)
			c := user.Cursor()
			for k, v := c.First(); k != nil; k, v = c.Next() {
				var n domain.Notification
				if err := json.Unmarshal(v, &n); err != nil {
					continue
				}
				if n.IsRead && n.CreatedAt.Before(olderThan) {
					if err := c.Delete(); err != nil {
						return err
					}
					purged++
				}
			}
			return nil
		})
	})
	return purged, err
}

func buildKey(n *domain.Notification) []byte {
	return []byte(fmt.Sprintf("%020d_%s", n.CreatedAt.UnixNano(), n.ID))
}
