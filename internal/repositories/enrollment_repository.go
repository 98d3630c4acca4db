package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/stelle-edu/learning-service/internal/models"
)

// EnrollmentRepository interface for enrollment bookkeeping
type EnrollmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	Get(ctx context.Context, tx *gorm.DB, userID, courseID string) (*models.Enrollment, error)
	Exists(ctx context.Context, tx *gorm.DB, userID, courseID string) (bool, error)

	// List operations
	ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.Enrollment, error)
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*models.Enrollment, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*models.Enrollment, error)

	CountByCourse(ctx context.Context, tx *gorm.DB, courseID string) (int64, error)

	// DeleteByCourse removes all enrollments for a course, used by the
	// catalog cascade delete.
	DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error
}
