package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/stelle-edu/learning-service/internal/cache"
	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/repositories"
)

type DashboardPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewDashboardPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.DashboardRepository {
	return &DashboardPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (d *DashboardPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return d.db
}

// GetTotalCourses returns the total number of courses
func (d *DashboardPostgreSQL) GetTotalCourses(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	err := d.cacheManager.Stats.CacheOrExecute(ctx, "dashboard:total_courses", &count, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		var dbCount int64
		err := d.getDB(tx).WithContext(ctx).
			Model(&models.Course{}).
			Count(&dbCount).Error
		return dbCount, err
	})
	return count, err
}

// GetTotalStudents returns the number of student accounts
func (d *DashboardPostgreSQL) GetTotalStudents(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	err := d.cacheManager.Stats.CacheOrExecute(ctx, "dashboard:total_students", &count, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		var dbCount int64
		err := d.getDB(tx).WithContext(ctx).
			Model(&models.User{}).
			Where("role = ?", models.RoleStudent).
			Count(&dbCount).Error
		return dbCount, err
	})
	return count, err
}

// GetTotalEnrollments returns the total number of enrollments
func (d *DashboardPostgreSQL) GetTotalEnrollments(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	err := d.cacheManager.Stats.CacheOrExecute(ctx, "dashboard:total_enrollments", &count, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		var dbCount int64
		err := d.getDB(tx).WithContext(ctx).
			Model(&models.Enrollment{}).
			Count(&dbCount).Error
		return dbCount, err
	})
	return count, err
}

// GetTotalRevenue sums course prices over all enrollments
func (d *DashboardPostgreSQL) GetTotalRevenue(ctx context.Context, tx *gorm.DB) (float64, error) {
	var total float64
	err := d.cacheManager.Stats.CacheOrExecute(ctx, "dashboard:total_revenue", &total, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		var revenue *float64
		err := d.getDB(tx).WithContext(ctx).
			Model(&models.Enrollment{}).
			Select("SUM(courses.price)").
			Joins("JOIN courses ON courses.id = enrollments.course_id").
			Scan(&revenue).Error
		if err != nil {
			return nil, fmt.Errorf("failed to compute total revenue: %w", err)
		}
		if revenue == nil {
			return float64(0), nil
		}
		return *revenue, nil
	})
	return total, err
}

// GetTopCourses returns courses ordered by enrollment count
func (d *DashboardPostgreSQL) GetTopCourses(ctx context.Context, tx *gorm.DB, limit int) ([]repositories.CourseEnrollmentData, error) {
	if limit <= 0 {
		limit = 5
	}

	var results []repositories.CourseEnrollmentData
	cacheKey := fmt.Sprintf("dashboard:top_courses:%d", limit)
	err := d.cacheManager.Stats.CacheOrExecute(ctx, cacheKey, &results, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		var dbResults []repositories.CourseEnrollmentData
		err := d.getDB(tx).WithContext(ctx).
			Model(&models.Course{}).
			Select(`courses.id as course_id,
				courses.title,
				courses.instructor,
				COUNT(enrollments.user_id) as enrolled,
				COUNT(enrollments.user_id) * courses.price as revenue`).
			Joins("LEFT JOIN enrollments ON enrollments.course_id = courses.id").
			Group("courses.id, courses.title, courses.instructor, courses.price").
			Order("enrolled DESC").
			Limit(limit).
			Scan(&dbResults).Error
		if err != nil {
			return nil, fmt.Errorf("failed to get top courses: %w", err)
		}
		return dbResults, nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

// GetEnrollmentTrends returns enrollments per day over the given window
func (d *DashboardPostgreSQL) GetEnrollmentTrends(ctx context.Context, tx *gorm.DB, days int) ([]repositories.EnrollmentTrendData, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	var results []repositories.EnrollmentTrendData
	err := d.getDB(tx).WithContext(ctx).
		Model(&models.Enrollment{}).
		Select("DATE_TRUNC('day', enrolled_at) as date, COUNT(*) as enrollments").
		Where("enrolled_at >= ?", since).
		Group("DATE_TRUNC('day', enrolled_at)").
		Order("date ASC").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment trends: %w", err)
	}

	return results, nil
}

// GetRoster returns the full enrollment roster across all courses
func (d *DashboardPostgreSQL) GetRoster(ctx context.Context, tx *gorm.DB) ([]repositories.RosterData, error) {
	var results []repositories.RosterData
	err := d.getDB(tx).WithContext(ctx).
		Model(&models.Enrollment{}).
		Select(`enrollments.course_id,
			courses.title as course_title,
			enrollments.user_id as student_id,
			users.name as student_name,
			users.email as student_email,
			enrollments.enrolled_at`).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Joins("JOIN users ON users.id = enrollments.user_id").
		Order("courses.title ASC, enrollments.enrolled_at ASC").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}

	return results, nil
}
