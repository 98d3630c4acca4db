package inmem

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/repositories"
)

// DashboardInmem implements repositories.DashboardRepository in memory.
type DashboardInmem struct {
	store *Store
}

func (d *DashboardInmem) GetTotalCourses(ctx context.Context, tx *gorm.DB) (int64, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()

	return int64(len(d.store.courses)), nil
}

func (d *DashboardInmem) GetTotalStudents(ctx context.Context, tx *gorm.DB) (int64, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()

	var count int64
	for _, user := range d.store.users {
		if user.Role == models.RoleStudent {
			count++
		}
	}
	return count, nil
}

func (d *DashboardInmem) GetTotalEnrollments(ctx context.Context, tx *gorm.DB) (int64, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()

	return int64(len(d.store.enrollments)), nil
}

func (d *DashboardInmem) GetTotalRevenue(ctx context.Context, tx *gorm.DB) (float64, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()

	var revenue float64
	for _, enrollment := range d.store.enrollments {
		if course, ok := d.store.courses[enrollment.CourseID]; ok {
			revenue += course.Price
		}
	}
	return revenue, nil
}

func (d *DashboardInmem) GetTopCourses(ctx context.Context, tx *gorm.DB, limit int) ([]repositories.CourseEnrollmentData, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()

	if limit <= 0 {
		limit = 5
	}

	counts := make(map[string]int64)
	for _, enrollment := range d.store.enrollments {
		counts[enrollment.CourseID]++
	}

	var results []repositories.CourseEnrollmentData
	for _, course := range d.store.courses {
		enrolled := counts[course.ID]
		results = append(results, repositories.CourseEnrollmentData{
			CourseID:   course.ID,
			Title:      course.Title,
			Instructor: course.Instructor,
			Enrolled:   enrolled,
			Revenue:    float64(enrolled) * course.Price,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Enrolled > results[j].Enrolled
	})

	if limit < len(results) {
		results = results[:limit]
	}
	return results, nil
}

func (d *DashboardInmem) GetEnrollmentTrends(ctx context.Context, tx *gorm.DB, days int) ([]repositories.EnrollmentTrendData, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()

	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	buckets := make(map[time.Time]int64)
	for _, enrollment := range d.store.enrollments {
		if enrollment.EnrolledAt.Before(since) {
			continue
		}
		day := enrollment.EnrolledAt.Truncate(24 * time.Hour)
		buckets[day]++
	}

	var results []repositories.EnrollmentTrendData
	for day, count := range buckets {
		results = append(results, repositories.EnrollmentTrendData{
			Date:        day,
			Enrollments: count,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Date.Before(results[j].Date)
	})

	return results, nil
}

func (d *DashboardInmem) GetRoster(ctx context.Context, tx *gorm.DB) ([]repositories.RosterData, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()

	var results []repositories.RosterData
	for _, enrollment := range d.store.enrollments {
		entry := repositories.RosterData{
			CourseID:   enrollment.CourseID,
			StudentID:  enrollment.UserID,
			EnrolledAt: enrollment.EnrolledAt,
		}
		if course, ok := d.store.courses[enrollment.CourseID]; ok {
			entry.CourseTitle = course.Title
		}
		if user, ok := d.store.users[enrollment.UserID]; ok {
			entry.StudentName = user.Name
			entry.StudentEmail = user.Email
		}
		results = append(results, entry)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].CourseTitle != results[j].CourseTitle {
			return results[i].CourseTitle < results[j].CourseTitle
		}
		return results[i].EnrolledAt.Before(results[j].EnrolledAt)
	})

	return results, nil
}
