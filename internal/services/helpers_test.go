package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/stelle-edu/learning-service/internal/events"
	"github.com/stelle-edu/learning-service/internal/gateway"
	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/repositories/inmem"
	"github.com/stelle-edu/learning-service/internal/validator"
)

// testFixture wires every service against the in-memory store with a mock
// publisher and payment gateway.
type testFixture struct {
	repo      *inmem.Store
	publisher *events.MockEventPublisher
	gateway   *gateway.MockPaymentGateway

	catalog      CatalogService
	auth         AuthService
	enrollment   EnrollmentService
	progress     ProgressService
	broadcast    BroadcastService
	notification NotificationService
	dashboard    DashboardService

	admin   *models.User
	student *models.User
	course  *models.Course
}

func newTestFixture(t *testing.T) *testFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := inmem.NewStore()
	publisher := events.NewMockEventPublisher(logger)
	paymentGateway := gateway.NewMockPaymentGateway(0, logger)
	v := validator.New()

	f := &testFixture{
		repo:         repo,
		publisher:    publisher,
		gateway:      paymentGateway,
		catalog:      NewCatalogService(repo, logger, v, publisher),
		auth:         NewAuthService(repo, logger, v, AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour}),
		enrollment:   NewEnrollmentService(repo, logger, publisher, paymentGateway),
		progress:     NewProgressService(repo, logger, v, publisher),
		broadcast:    NewBroadcastService(repo, logger, v, publisher),
		notification: NewNotificationService(repo, logger, publisher),
		dashboard:    NewDashboardService(repo, logger),
	}

	ctx := context.Background()

	f.admin = &models.User{
		ID:    "admin-1",
		Name:  "Admin",
		Email: "admin@example.com",
		Role:  models.RoleAdmin,
	}
	if err := repo.User().Create(ctx, nil, f.admin); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}

	f.student = &models.User{
		ID:    "student-1",
		Name:  "Sam Student",
		Email: "sam@example.com",
		Role:  models.RoleStudent,
	}
	if err := repo.User().Create(ctx, nil, f.student); err != nil {
		t.Fatalf("failed to seed student: %v", err)
	}

	f.course = &models.Course{
		ID:         "course-1",
		Title:      "Kubernetes Fundamentals",
		Instructor: "Alex Rivera",
		Price:      49,
		Category:   "Cloud",
		Trend:      models.TrendHot,
		Roadmap:    datatypes.JSONSlice[string]{"Pods", "Services", "Deployments"},
	}
	if err := repo.Course().Create(ctx, nil, f.course); err != nil {
		t.Fatalf("failed to seed course: %v", err)
	}

	return f
}

// addStudent seeds an extra student account
func (f *testFixture) addStudent(t *testing.T, id, name, email string) *models.User {
	t.Helper()

	user := &models.User{ID: id, Name: name, Email: email, Role: models.RoleStudent}
	if err := f.repo.User().Create(context.Background(), nil, user); err != nil {
		t.Fatalf("failed to seed student %s: %v", id, err)
	}
	return user
}

// enroll enrolls a student directly, bypassing the checkout flow
func (f *testFixture) enroll(t *testing.T, userID, courseID string) {
	t.Helper()

	ctx := context.Background()
	enrollment := &models.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: time.Now().UTC(),
	}
	if err := f.repo.Enrollment().Create(ctx, nil, enrollment); err != nil {
		t.Fatalf("failed to enroll %s in %s: %v", userID, courseID, err)
	}
	if err := f.repo.Course().IncrementEnrolled(ctx, nil, courseID, 1); err != nil {
		t.Fatalf("failed to bump enrollment counter: %v", err)
	}
}

// eventsOfType filters recorded events by type
func (f *testFixture) eventsOfType(eventType string) []*events.Event {
	var matched []*events.Event
	for _, event := range f.publisher.GetPublishedEvents() {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

// notificationsFor lists stored notifications visible to the given user
func (f *testFixture) notificationsFor(t *testing.T, userID string) []*models.Notification {
	t.Helper()

	visible, err := f.notification.ListVisible(context.Background(), userID)
	if err != nil {
		t.Fatalf("failed to list notifications for %s: %v", userID, err)
	}
	return visible
}
