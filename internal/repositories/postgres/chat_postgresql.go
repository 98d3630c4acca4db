package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/repositories"
)

type ChatPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewChatPostgreSQL(db *gorm.DB) repositories.ChatRepository {
	return &ChatPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (c *ChatPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

// Create stores a broadcast message
func (c *ChatPostgreSQL) Create(ctx context.Context, tx *gorm.DB, message *models.ChatMessage) error {
	if err := c.getDB(tx).WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("failed to create chat message: %w", err)
	}

	return nil
}

// GetByID retrieves a single message
func (c *ChatPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.ChatMessage, error) {
	var message models.ChatMessage
	err := c.getDB(tx).WithContext(ctx).
		Where("id = ?", id).
		First(&message).Error
	if err != nil {
		return nil, err
	}

	return &message, nil
}

// ListByCourse returns messages for one course in chronological order
func (c *ChatPostgreSQL) ListByCourse(ctx context.Context, tx *gorm.DB, courseID string, filters repositories.ChatFilters) ([]*models.ChatMessage, int64, error) {
	filters.CourseID = &courseID
	return c.List(ctx, tx, filters)
}

// List returns messages matching the filters in chronological order
func (c *ChatPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ChatFilters) ([]*models.ChatMessage, int64, error) {
	query := c.getDB(tx).WithContext(ctx).Model(&models.ChatMessage{})

	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}
	if filters.SenderID != nil {
		query = query.Where("sender_id = ?", *filters.SenderID)
	}
	if filters.Since != nil {
		query = query.Where("created_at >= ?", *filters.Since)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var messages []*models.ChatMessage
	if err := query.Order("created_at ASC").Find(&messages).Error; err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// DeleteByCourse removes all messages for a course
func (c *ChatPostgreSQL) DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error {
	if err := c.getDB(tx).WithContext(ctx).
		Where("course_id = ?", courseID).
		Delete(&models.ChatMessage{}).Error; err != nil {
		return fmt.Errorf("failed to delete chat messages for course: %w", err)
	}

	return nil
}
