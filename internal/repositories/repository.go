package repositories

import "context"

// Repository aggregates all entity repositories behind one interface so
// services depend on a single seam.
type Repository interface {
	// Catalog domain
	Course() CourseRepository

	// Enrollment domain
	Enrollment() EnrollmentRepository
	Progress() ProgressRepository

	// Messaging domain
	Chat() ChatRepository
	Notification() NotificationRepository

	// User domain
	User() UserRepository

	// Dashboard domain
	Dashboard() DashboardRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
