package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/stelle-edu/learning-service/internal/models"
)

// ChatRepository interface for course broadcast messages
type ChatRepository interface {
	Create(ctx context.Context, tx *gorm.DB, message *models.ChatMessage) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.ChatMessage, error)

	// ListByCourse returns messages for one course in chronological order.
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID string, filters ChatFilters) ([]*models.ChatMessage, int64, error)
	List(ctx context.Context, tx *gorm.DB, filters ChatFilters) ([]*models.ChatMessage, int64, error)

	DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error
}
