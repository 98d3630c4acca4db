package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/stelle-edu/learning-service/internal/models"
)

// NotificationRepository interface for notification storage. Visibility
// filtering is a service concern; the repository only stores and lists.
type NotificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Notification, error)

	List(ctx context.Context, tx *gorm.DB, filters NotificationFilters) ([]*models.Notification, int64, error)

	// MarkRead flags the given notifications as read.
	MarkRead(ctx context.Context, tx *gorm.DB, ids []string) error

	DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error
}
