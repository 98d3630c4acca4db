package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// DashboardRepository interface for admin dashboard analytics operations
type DashboardRepository interface {
	// Dashboard totals
	GetTotalCourses(ctx context.Context, tx *gorm.DB) (int64, error)
	GetTotalStudents(ctx context.Context, tx *gorm.DB) (int64, error)
	GetTotalEnrollments(ctx context.Context, tx *gorm.DB) (int64, error)
	GetTotalRevenue(ctx context.Context, tx *gorm.DB) (float64, error)

	// Top courses by enrollment
	GetTopCourses(ctx context.Context, tx *gorm.DB, limit int) ([]CourseEnrollmentData, error)

	// Enrollment trend per day over the given window
	GetEnrollmentTrends(ctx context.Context, tx *gorm.DB, days int) ([]EnrollmentTrendData, error)

	// Full roster across all courses, for export
	GetRoster(ctx context.Context, tx *gorm.DB) ([]RosterData, error)
}

// Data structures for dashboard responses

type CourseEnrollmentData struct {
	CourseID   string  `json:"course_id"`
	Title      string  `json:"title"`
	Instructor string  `json:"instructor"`
	Enrolled   int64   `json:"enrolled"`
	Revenue    float64 `json:"revenue"`
}

type EnrollmentTrendData struct {
	Date        time.Time `json:"date"`
	Enrollments int64     `json:"enrollments"`
}

type RosterData struct {
	CourseID     string    `json:"course_id"`
	CourseTitle  string    `json:"course_title"`
	StudentID    string    `json:"student_id"`
	StudentName  string    `json:"student_name"`
	StudentEmail string    `json:"student_email"`
	EnrolledAt   time.Time `json:"enrolled_at"`
}
