package repositories

import (
	"time"

	"github.com/stelle-edu/learning-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type CourseFilters struct {
	Instructor *string             `json:"instructor"`
	Category   *string             `json:"category"`
	Trend      *models.CourseTrend `json:"trend"`
	Search     string              `json:"search"`
	Limit      int                 `json:"limit"`
	Offset     int                 `json:"offset"`
	SortBy     string              `json:"sort_by"`    // "created_at", "title", "price", "enrolled"
	SortOrder  string              `json:"sort_order"` // "asc", "desc"
}

type ChatFilters struct {
	CourseID *string    `json:"course_id"`
	SenderID *string    `json:"sender_id"`
	Since    *time.Time `json:"since"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
}

type NotificationFilters struct {
	Audience       *models.NotificationAudience `json:"audience"`
	TargetUserID   *string                      `json:"target_user_id"`
	TargetCourseID *string                      `json:"target_course_id"`
	Unread         *bool                        `json:"unread"`
	Limit          int                          `json:"limit"`
	Offset         int                          `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

type CourseStats struct {
	Enrolled      int     `json:"enrolled"`
	Revenue       float64 `json:"revenue"`
	StepCount     int     `json:"step_count"`
	MessagesCount int     `json:"messages_count"`
}

type PlatformStats struct {
	TotalCourses     int64   `json:"total_courses"`
	TotalStudents    int64   `json:"total_students"`
	TotalEnrollments int64   `json:"total_enrollments"`
	TotalRevenue     float64 `json:"total_revenue"`
}
