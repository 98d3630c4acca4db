package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/stelle-edu/learning-service/internal/models"
)

// CourseRepository interface for course catalog operations
type CourseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, course *models.Course) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Course, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.Course, error)
	Update(ctx context.Context, tx *gorm.DB, course *models.Course) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error

	// List and search operations
	List(ctx context.Context, tx *gorm.DB, filters CourseFilters) ([]*models.Course, int64, error)
	Search(ctx context.Context, tx *gorm.DB, query string, filters CourseFilters) ([]*models.Course, int64, error)

	// IncrementEnrolled adjusts the denormalized enrollment counter by delta.
	IncrementEnrolled(ctx context.Context, tx *gorm.DB, id string, delta int) error

	// Validation and checks
	ExistsByID(ctx context.Context, tx *gorm.DB, id string) (bool, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}
