package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/stelle-edu/learning-service/internal/cache"
	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/repositories"
)

type NotificationPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewNotificationPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.NotificationRepository {
	return &NotificationPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (n *NotificationPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return n.db
}

// Create stores a notification and invalidates cached feeds
func (n *NotificationPostgreSQL) Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error {
	if err := n.getDB(tx).WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	cache.InvalidateNotificationCache(ctx, n.cacheManager)

	return nil
}

// GetByID retrieves a single notification
func (n *NotificationPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Notification, error) {
	var notification models.Notification
	err := n.getDB(tx).WithContext(ctx).
		Where("id = ?", id).
		First(&notification).Error
	if err != nil {
		return nil, err
	}

	return &notification, nil
}

// List returns notifications matching the filters, newest first
func (n *NotificationPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	query := n.getDB(tx).WithContext(ctx).Model(&models.Notification{})

	if filters.Audience != nil {
		query = query.Where("audience = ?", *filters.Audience)
	}
	if filters.TargetUserID != nil {
		query = query.Where("target_user_id = ?", *filters.TargetUserID)
	}
	if filters.TargetCourseID != nil {
		query = query.Where("target_course_id = ?", *filters.TargetCourseID)
	}
	if filters.Unread != nil {
		query = query.Where("read = ?", !*filters.Unread)
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

	var notifications []*models.Notification
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// MarkRead flags the given notifications as read
func (n *NotificationPostgreSQL) MarkRead(ctx context.Context, tx *gorm.DB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	if err := n.getDB(tx).WithContext(ctx).
		Model(&models.Notification{}).
		Where("id IN ?", ids).
		Update("read", true).Error; err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}

	cache.InvalidateNotificationCache(ctx, n.cacheManager)

	return nil
}

// DeleteByCourse removes all notifications targeting a course
func (n *NotificationPostgreSQL) DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error {
	if err := n.getDB(tx).WithContext(ctx).
		Where("target_course_id = ?", courseID).
		Delete(&models.Notification{}).Error; err != nil {
		return fmt.Errorf("failed to delete notifications for course: %w", err)
	}

	cache.InvalidateNotificationCache(ctx, n.cacheManager)

	return nil
}
