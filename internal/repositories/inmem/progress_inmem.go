package inmem

import (
	"context"

	"gorm.io/gorm"

	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/repositories"
)

// ProgressInmem implements repositories.ProgressRepository in memory.
type ProgressInmem struct {
	store *Store
}

func (p *ProgressInmem) Get(ctx context.Context, tx *gorm.DB, courseID, userID string) (*models.CourseProgress, error) {
	p.store.mu.RLock()
	defer p.store.mu.RUnlock()

	progress, ok := p.store.progress[progressKey(courseID, userID)]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneProgress(progress), nil
}

func (p *ProgressInmem) Upsert(ctx context.Context, tx *gorm.DB, progress *models.CourseProgress) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	p.store.progress[progressKey(progress.CourseID, progress.UserID)] = cloneProgress(progress)
	return nil
}

func (p *ProgressInmem) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.CourseProgress, error) {
	p.store.mu.RLock()
	defer p.store.mu.RUnlock()

	var result []*models.CourseProgress
	for _, progress := range p.store.progress {
		if progress.UserID == userID {
			result = append(result, cloneProgress(progress))
		}
	}
	return result, nil
}

func (p *ProgressInmem) DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	for key, progress := range p.store.progress {
		if progress.CourseID == courseID {
			delete(p.store.progress, key)
		}
	}
	return nil
}
