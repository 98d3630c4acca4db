package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/repositories"
)

type ProgressPostgreSQL struct {
	db *gorm.DB
}

func NewProgressPostgreSQL(db *gorm.DB) repositories.ProgressRepository {
	return &ProgressPostgreSQL{db: db}
}

func (p *ProgressPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return p.db
}

// Get retrieves progress for a (course, user) pair
func (p *ProgressPostgreSQL) Get(ctx context.Context, tx *gorm.DB, courseID, userID string) (*models.CourseProgress, error) {
	var progress models.CourseProgress
	err := p.getDB(tx).WithContext(ctx).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}

	return &progress, nil
}

// Upsert creates the progress row if missing and replaces the completed
// step set otherwise
func (p *ProgressPostgreSQL) Upsert(ctx context.Context, tx *gorm.DB, progress *models.CourseProgress) error {
	err := p.getDB(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"completed_steps", "updated_at"}),
		}).
		Create(progress).Error
	if err != nil {
		return fmt.Errorf("failed to upsert progress: %w", err)
	}

	return nil
}

// ListByUser returns all progress rows for a user
func (p *ProgressPostgreSQL) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.CourseProgress, error) {
	var progress []*models.CourseProgress
	err := p.getDB(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&progress).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list progress by user: %w", err)
	}

	return progress, nil
}

// DeleteByCourse removes all progress rows for a course
func (p *ProgressPostgreSQL) DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error {
	if err := p.getDB(tx).WithContext(ctx).
		Where("course_id = ?", courseID).
		Delete(&models.CourseProgress{}).Error; err != nil {
		return fmt.Errorf("failed to delete progress for course: %w", err)
	}

	return nil
}
