package services

import (
	"context"
	"time"

	"github.com/stelle-edu/learning-service/internal/gateway"
	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/repositories"
)

// ===== REQUEST/RESPONSE DTOs =====

// Request types live with the models package
type CreateCourseRequest = models.CourseCreateRequest
type UpdateCourseRequest = models.CourseUpdateRequest

type CourseResponse struct {
	*models.Course
	IsEnrolled     bool  `json:"is_enrolled"`
	CompletedSteps []int `json:"completed_steps,omitempty"`
}

type CourseListResponse struct {
	Courses []*CourseResponse `json:"courses"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	Size    int               `json:"size"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type CheckoutResponse struct {
	CourseID string  `json:"course_id"`
	Title    string  `json:"title"`
	Amount   float64 `json:"amount"`
	Status   string  `json:"status"`
}

type EnrollmentResponse struct {
	*models.Enrollment
	Course  *models.Course   `json:"course,omitempty"`
	Receipt *gateway.Receipt `json:"receipt,omitempty"`
}

type ProgressResponse struct {
	CourseID       string  `json:"course_id"`
	CompletedSteps []int   `json:"completed_steps"`
	TotalSteps     int     `json:"total_steps"`
	Percentage     float64 `json:"percentage"`
}

type RosterResponse struct {
	CourseID string                `json:"course_id"`
	Title    string                `json:"title"`
	Students []*models.RosterEntry `json:"students"`
	Total    int64                 `json:"total"`
}

type EnrollmentTrendResponse struct {
	Date        time.Time `json:"date"`
	Enrollments int64     `json:"enrollments"`
}

// ===== SERVICE INTERFACES =====

type CatalogService interface {
	// Core CRUD operations (create/update/delete are admin-only)
	Create(ctx context.Context, req *CreateCourseRequest, actorID string) (*models.Course, error)
	GetByID(ctx context.Context, id string) (*models.Course, error)
	GetByIDForUser(ctx context.Context, id, userID string) (*CourseResponse, error)
	Update(ctx context.Context, id string, req *UpdateCourseRequest, actorID string) (*models.Course, error)
	Delete(ctx context.Context, id string, actorID string) error

	// List and search operations
	List(ctx context.Context, params models.ListCoursesParams) (*models.PaginatedResponse, error)
	Search(ctx context.Context, query string, params models.ListCoursesParams) (*models.PaginatedResponse, error)

	// Seed installs the default catalog into an empty store
	Seed(ctx context.Context) error
}

type AuthService interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*AuthResponse, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListStudents(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error)

	// Seed installs the built-in admin account when missing
	Seed(ctx context.Context) error
}

type EnrollmentService interface {
	// Checkout flow: initiate reserves the slot, complete charges and
	// records the enrollment, cancel releases the reservation.
	InitiateCheckout(ctx context.Context, userID, courseID string) (*CheckoutResponse, error)
	CompleteCheckout(ctx context.Context, userID, courseID string) (*EnrollmentResponse, error)
	CancelCheckout(ctx context.Context, userID, courseID string) error

	// Queries
	IsEnrolled(ctx context.Context, userID, courseID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*EnrollmentResponse, error)
	GetRoster(ctx context.Context, courseID, actorID string) (*RosterResponse, error)
}

type ProgressService interface {
	ToggleStep(ctx context.Context, userID, courseID string, stepIndex int) (*ProgressResponse, error)
	Get(ctx context.Context, userID, courseID string) (*ProgressResponse, error)
	ListByUser(ctx context.Context, userID string) ([]*ProgressResponse, error)
}

type BroadcastService interface {
	// Send posts an instructor broadcast to a course chat (admin-only)
	Send(ctx context.Context, courseID, actorID string, req *models.BroadcastRequest) (*models.ChatMessage, error)

	// ListMessages returns the course chat for enrolled students and admins
	ListMessages(ctx context.Context, courseID, actorID string) ([]*models.ChatMessage, error)
}

type NotificationService interface {
	// ListVisible returns notifications the user may see, newest first
	ListVisible(ctx context.Context, userID string) ([]*models.Notification, error)

	// MarkAllVisibleRead marks every notification visible to the user as
	// read and returns how many were updated.
	MarkAllVisibleRead(ctx context.Context, userID string) (int64, error)

	// Notify stores a notification addressed by audience and optional
	// user/course targets.
	Notify(ctx context.Context, notification *models.Notification) error
}

type DashboardService interface {
	GetStats(ctx context.Context, actorID string) (*models.DashboardStats, error)
	GetEnrollmentTrends(ctx context.Context, actorID string, days int) ([]EnrollmentTrendResponse, error)

	// ExportRoster renders the full enrollment roster as an xlsx workbook
	ExportRoster(ctx context.Context, actorID string) ([]byte, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	Catalog() CatalogService
	Auth() AuthService
	Enrollment() EnrollmentService
	Progress() ProgressService
	Broadcast() BroadcastService
	Notification() NotificationService
	Dashboard() DashboardService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
