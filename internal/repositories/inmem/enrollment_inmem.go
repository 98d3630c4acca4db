package inmem

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/repositories"
)

// EnrollmentInmem implements repositories.EnrollmentRepository in memory.
type EnrollmentInmem struct {
	store *Store
}

func (e *EnrollmentInmem) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	key := enrollmentKey(enrollment.UserID, enrollment.CourseID)
	if _, exists := e.store.enrollments[key]; exists {
		return fmt.Errorf("enrollment already exists for user %s course %s", enrollment.UserID, enrollment.CourseID)
	}

	e.store.enrollments[key] = cloneEnrollment(enrollment)
	return nil
}

func (e *EnrollmentInmem) Get(ctx context.Context, tx *gorm.DB, userID, courseID string) (*models.Enrollment, error) {
	e.store.mu.RLock()
	defer e.store.mu.RUnlock()

	enrollment, ok := e.store.enrollments[enrollmentKey(userID, courseID)]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneEnrollment(enrollment), nil
}

func (e *EnrollmentInmem) Exists(ctx context.Context, tx *gorm.DB, userID, courseID string) (bool, error) {
	e.store.mu.RLock()
	defer e.store.mu.RUnlock()

	_, ok := e.store.enrollments[enrollmentKey(userID, courseID)]
	return ok, nil
}

func (e *EnrollmentInmem) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.Enrollment, error) {
	e.store.mu.RLock()
	defer e.store.mu.RUnlock()

	var result []*models.Enrollment
	for _, enrollment := range e.store.enrollments {
		if enrollment.UserID == userID {
			result = append(result, cloneEnrollment(enrollment))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].EnrolledAt.After(result[j].EnrolledAt)
	})

	return result, nil
}

func (e *EnrollmentInmem) ListByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*models.Enrollment, error) {
	e.store.mu.RLock()
	defer e.store.mu.RUnlock()

	var result []*models.Enrollment
	for _, enrollment := range e.store.enrollments {
		if enrollment.CourseID == courseID {
			clone := cloneEnrollment(enrollment)
			if user, ok := e.store.users[enrollment.UserID]; ok {
				clone.User = *cloneUser(user)
			}
			result = append(result, clone)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].EnrolledAt.Before(result[j].EnrolledAt)
	})

	return result, nil
}

func (e *EnrollmentInmem) ListAll(ctx context.Context, tx *gorm.DB) ([]*models.Enrollment, error) {
	e.store.mu.RLock()
	defer e.store.mu.RUnlock()

	var result []*models.Enrollment
	for _, enrollment := range e.store.enrollments {
		clone := cloneEnrollment(enrollment)
		if user, ok := e.store.users[enrollment.UserID]; ok {
			clone.User = *cloneUser(user)
		}
		if course, ok := e.store.courses[enrollment.CourseID]; ok {
			clone.Course = *cloneCourse(course)
		}
		result = append(result, clone)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].EnrolledAt.Before(result[j].EnrolledAt)
	})

	return result, nil
}

func (e *EnrollmentInmem) CountByCourse(ctx context.Context, tx *gorm.DB, courseID string) (int64, error) {
	e.store.mu.RLock()
	defer e.store.mu.RUnlock()

	var count int64
	for _, enrollment := range e.store.enrollments {
		if enrollment.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

func (e *EnrollmentInmem) DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID string) error {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	for key, enrollment := range e.store.enrollments {
		if enrollment.CourseID == courseID {
			delete(e.store.enrollments, key)
		}
	}
	return nil
}
