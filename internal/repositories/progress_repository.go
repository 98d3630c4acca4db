package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/stelle-edu/learning-service/internal/models"
)

// ProgressRepository interface for per-student roadmap progress
type ProgressRepository interface {
	Get(ctx context.Context, tx *gorm.DB, courseID, userID string) (*models.CourseProgress, error)

	// Upsert creates the progress row if missing and replaces the completed
	// step set otherwise.
	Upsert(ctx context.Context, tx *gorm.DB, progress *models.CourseProgress) error

	ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.CourseProgress, error)

	DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error
}
