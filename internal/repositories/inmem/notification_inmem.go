package inmem

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/repositories"
)

// NotificationInmem implements repositories.NotificationRepository in memory.
type NotificationInmem struct {
	store *Store
}

func (n *NotificationInmem) Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error {
	n.store.mu.Lock()
	defer n.store.mu.Unlock()

	n.store.notifications[notification.ID] = cloneNotification(notification)
	return nil
}

func (n *NotificationInmem) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Notification, error) {
	n.store.mu.RLock()
	defer n.store.mu.RUnlock()

	notification, ok := n.store.notifications[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneNotification(notification), nil
}

func (n *NotificationInmem) List(ctx context.Context, tx *gorm.DB, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	n.store.mu.RLock()
	defer n.store.mu.RUnlock()

	var matched []*models.Notification
	for _, notification := range n.store.notifications {
		if filters.Audience != nil && notification.Audience != *filters.Audience {
			continue
		}
		if filters.TargetUserID != nil {
			if notification.TargetUserID == nil || *notification.TargetUserID != *filters.TargetUserID {
				continue
			}
		}
		if filters.TargetCourseID != nil {
			if notification.TargetCourseID == nil || *notification.TargetCourseID != *filters.TargetCourseID {
				continue
			}
		}
		if filters.Unread != nil && notification.Read == *filters.Unread {
			continue
		}
		matched = append(matched, cloneNotification(notification))
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if filters.Offset > 0 {
		if filters.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filters.Offset:]
		}
	}
	if filters.Limit > 0 && filters.Limit < len(matched) {
		matched = matched[:filters.Limit]
	}

	return matched, total, nil
}

func (n *NotificationInmem) MarkRead(ctx context.Context, tx *gorm.DB, ids []string) error {
	n.store.mu.Lock()
	defer n.store.mu.Unlock()

	for _, id := range ids {
		if notification, ok := n.store.notifications[id]; ok {
			notification.Read = true
		}
	}
	return nil
}

func (n *NotificationInmem) DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error {
	n.store.mu.Lock()
	defer n.store.mu.Unlock()

	for id, notification := range n.store.notifications {
		if notification.TargetCourseID != nil && *notification.TargetCourseID == courseID {
			delete(n.store.notifications, id)
		}
	}
	return nil
}
