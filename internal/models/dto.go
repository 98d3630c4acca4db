package models

import (
	"time"
)

type CourseCreateRequest struct {
	Title       string      `json:"title" validate:"required,min=1,max=200"`
	Description string      `json:"description" validate:"omitempty,max=2000"`
	Instructor  string      `json:"instructor" validate:"required,min=1,max=100"`
	Price       float64     `json:"price" validate:"min=0"`
	Duration    string      `json:"duration" validate:"omitempty,max=50"`
	StartDate   string      `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	Category    string      `json:"category" validate:"omitempty,max=50"`
	Thumbnail   string      `json:"thumbnail" validate:"omitempty,url"`
	Trend       CourseTrend `json:"trend" validate:"omitempty,oneof=Hot Growing 'Best Seller' New Stable"`
	Roadmap     []string    `json:"roadmap" validate:"omitempty,max=50,dive,min=1,max=200"`
}

type CourseUpdateRequest struct {
	Title       *string      `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string      `json:"description" validate:"omitempty,max=2000"`
	Instructor  *string      `json:"instructor" validate:"omitempty,min=1,max=100"`
	Price       *float64     `json:"price" validate:"omitempty,min=0"`
	Duration    *string      `json:"duration" validate:"omitempty,max=50"`
	StartDate   *string      `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	Category    *string      `json:"category" validate:"omitempty,max=50"`
	Thumbnail   *string      `json:"thumbnail" validate:"omitempty,url"`
	Trend       *CourseTrend `json:"trend" validate:"omitempty,oneof=Hot Growing 'Best Seller' New Stable"`
	Roadmap     []string     `json:"roadmap" validate:"omitempty,max=50,dive,min=1,max=200"`
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=4,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,max=72"`
}

type CheckoutRequest struct {
	CourseID string `json:"course_id" validate:"required"`
}

type BroadcastRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

type ToggleStepRequest struct {
	StepIndex int `json:"step_index" validate:"min=0"`
}

// ===== PAGINATION & FILTERING =====

type ListCoursesParams struct {
	Page       int          `json:"page" validate:"min=0"`
	Size       int          `json:"size" validate:"min=1,max=100"`
	Search     string       `json:"search"`
	Instructor *string      `json:"instructor"`
	Category   *string      `json:"category"`
	Trend      *CourseTrend `json:"trend" validate:"omitempty,oneof=Hot Growing 'Best Seller' New Stable"`
	SortBy     string       `json:"sort_by"`
	SortDir    string       `json:"sort_dir" validate:"omitempty,oneof=asc desc"`
}

type PaginatedResponse struct {
	Content          interface{} `json:"content"`
	TotalElements    int64       `json:"total_elements"`
	TotalPages       int         `json:"total_pages"`
	Size             int         `json:"size"`
	Page             int         `json:"page"`
	First            bool        `json:"first"`
	Last             bool        `json:"last"`
	NumberOfElements int         `json:"number_of_elements"`
	Empty            bool        `json:"empty"`
}

// ===== DASHBOARD DTOs =====

type DashboardStats struct {
	TotalCourses     int64   `json:"total_courses"`
	TotalStudents    int64   `json:"total_students"`
	TotalEnrollments int64   `json:"total_enrollments"`
	TotalRevenue     float64 `json:"total_revenue"`
	TopCourses       []CourseEnrollmentStat `json:"top_courses"`
}

type CourseEnrollmentStat struct {
	CourseID   string  `json:"course_id"`
	Title      string  `json:"title"`
	Instructor string  `json:"instructor"`
	Enrolled   int     `json:"enrolled"`
	Revenue    float64 `json:"revenue"`
}

type RosterEntry struct {
	CourseID     string    `json:"course_id"`
	CourseTitle  string    `json:"course_title"`
	StudentID    string    `json:"student_id"`
	StudentName  string    `json:"student_name"`
	StudentEmail string    `json:"student_email"`
	EnrolledAt   time.Time `json:"enrolled_at"`
}

// ===== ERROR RESPONSES =====

type SuccessResponse struct {
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
