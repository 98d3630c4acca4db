package inmem

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/repositories"
)

// ChatInmem implements repositories.ChatRepository in memory.
type ChatInmem struct {
	store *Store
}

func (c *ChatInmem) Create(ctx context.Context, tx *gorm.DB, message *models.ChatMessage) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	c.store.chats[message.ID] = cloneChat(message)
	return nil
}

func (c *ChatInmem) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.ChatMessage, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	message, ok := c.store.chats[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneChat(message), nil
}

func (c *ChatInmem) ListByCourse(ctx context.Context, tx *gorm.DB, courseID string, filters repositories.ChatFilters) ([]*models.ChatMessage, int64, error) {
	filters.CourseID = &courseID
	return c.List(ctx, tx, filters)
}

func (c *ChatInmem) List(ctx context.Context, tx *gorm.DB, filters repositories.ChatFilters) ([]*models.ChatMessage, int64, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	var matched []*models.ChatMessage
	for _, message := range c.store.chats {
		if filters.CourseID != nil && message.CourseID != *filters.CourseID {
			continue
		}
		if filters.SenderID != nil && message.SenderID != *filters.SenderID {
			continue
		}
		if filters.Since != nil && message.CreatedAt.Before(*filters.Since) {
			continue
		}
		matched = append(matched, cloneChat(message))
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
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

func (c *ChatInmem) DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	for id, message := range c.store.chats {
		if message.CourseID == courseID {
			delete(c.store.chats, id)
		}
	}
	return nil
}
