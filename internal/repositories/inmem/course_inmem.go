package inmem

import (
	"context"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/repositories"
)

// CourseInmem implements repositories.CourseRepository in memory. The tx
// parameter is accepted for interface compatibility and ignored.
type CourseInmem struct {
	store *Store
}

func (c *CourseInmem) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	c.store.courses[course.ID] = cloneCourse(course)
	return nil
}

func (c *CourseInmem) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Course, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	course, ok := c.store.courses[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneCourse(course), nil
}

func (c *CourseInmem) GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.Course, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	result := make([]*models.Course, 0, len(ids))
	for _, id := range ids {
		if course, ok := c.store.courses[id]; ok {
			result = append(result, cloneCourse(course))
		}
	}
	return result, nil
}

func (c *CourseInmem) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	existing, ok := c.store.courses[course.ID]
	if !ok {
		return repositories.ErrNotFound
	}

	updated := cloneCourse(course)
	updated.Enrolled = existing.Enrolled
	updated.CreatedAt = existing.CreatedAt
	c.store.courses[course.ID] = updated
	return nil
}

func (c *CourseInmem) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	if _, ok := c.store.courses[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(c.store.courses, id)
	return nil
}

func (c *CourseInmem) List(ctx context.Context, tx *gorm.DB, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	var matched []*models.Course
	for _, course := range c.store.courses {
		if !courseMatches(course, filters) {
			continue
		}
		matched = append(matched, cloneCourse(course))
	}

	sortCourses(matched, filters.SortBy, filters.SortOrder)

	total := int64(len(matched))
	matched = paginateCourses(matched, filters.Limit, filters.Offset)

	return matched, total, nil
}

func (c *CourseInmem) Search(ctx context.Context, tx *gorm.DB, query string, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	filters.Search = query
	return c.List(ctx, tx, filters)
}

func (c *CourseInmem) IncrementEnrolled(ctx context.Context, tx *gorm.DB, id string, delta int) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	course, ok := c.store.courses[id]
	if !ok {
		return repositories.ErrNotFound
	}
	course.Enrolled += delta
	return nil
}

func (c *CourseInmem) ExistsByID(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	_, ok := c.store.courses[id]
	return ok, nil
}

func (c *CourseInmem) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	return int64(len(c.store.courses)), nil
}

func courseMatches(course *models.Course, filters repositories.CourseFilters) bool {
	if filters.Instructor != nil && course.Instructor != *filters.Instructor {
		return false
	}
	if filters.Category != nil && course.Category != *filters.Category {
		return false
	}
	if filters.Trend != nil && course.Trend != *filters.Trend {
		return false
	}
	if filters.Search != "" {
		q := strings.ToLower(filters.Search)
		if !strings.Contains(strings.ToLower(course.Title), q) &&
			!strings.Contains(strings.ToLower(course.Description), q) &&
			!strings.Contains(strings.ToLower(course.Instructor), q) {
			return false
		}
	}
	return true
}

func sortCourses(courses []*models.Course, sortBy, sortOrder string) {
	asc := sortOrder == "asc" || sortOrder == "ASC"

	sort.Slice(courses, func(i, j int) bool {
		var less bool
		switch sortBy {
		case "title":
			less = courses[i].Title < courses[j].Title
		case "instructor":
			less = courses[i].Instructor < courses[j].Instructor
		case "price":
			less = courses[i].Price < courses[j].Price
		case "enrolled":
			less = courses[i].Enrolled < courses[j].Enrolled
		case "id":
			less = courses[i].ID < courses[j].ID
		default:
			less = courses[i].CreatedAt.Before(courses[j].CreatedAt)
		}
		if asc {
			return less
		}
		return !less
	})
}

func paginateCourses(courses []*models.Course, limit, offset int) []*models.Course {
	if offset > 0 {
		if offset >= len(courses) {
			return []*models.Course{}
		}
		courses = courses[offset:]
	}
	if limit > 0 && limit < len(courses) {
		courses = courses[:limit]
	}
	return courses
}
