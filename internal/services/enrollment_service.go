package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stelle-edu/learning-service/internal/events"
	"github.com/stelle-edu/learning-service/internal/gateway"
	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/repositories"
)

type enrollmentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	publisher events.EventPublisher
	gateway   gateway.PaymentGateway

	// inflight guards against concurrent checkouts for the same
	// (user, course) pair within this process.
	inflight map[string]struct{}
	mu       sync.Mutex
}

func NewEnrollmentService(repo repositories.Repository, logger *slog.Logger, publisher events.EventPublisher, paymentGateway gateway.PaymentGateway) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		logger:    logger,
		publisher: publisher,
		gateway:   paymentGateway,
		inflight:  make(map[string]struct{}),
	}
}

// ===== CHECKOUT FLOW =====

func (s *enrollmentService) InitiateCheckout(ctx context.Context, userID, courseID string) (*CheckoutResponse, error) {
	s.logger.Info("Initiating checkout", "user_id", userID, "course_id", courseID)

	course, err := s.repo.Course().GetByID(ctx, nil, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	enrolled, err := s.repo.Enrollment().Exists(ctx, nil, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if enrolled {
		return nil, ErrAlreadyEnrolled
	}

	if !s.reserve(userID, courseID) {
		return nil, ErrCheckoutInFlight
	}

	return &CheckoutResponse{
		CourseID: course.ID,
		Title:    course.Title,
		Amount:   course.Price,
		Status:   "pending",
	}, nil
}

func (s *enrollmentService) CompleteCheckout(ctx context.Context, userID, courseID string) (*EnrollmentResponse, error) {
	s.logger.Info("Completing checkout", "user_id", userID, "course_id", courseID)

	// A direct complete without a prior initiate runs the same pre-checks
	// and takes the reservation itself.
	if !s.reserved(userID, courseID) {
		if _, err := s.InitiateCheckout(ctx, userID, courseID); err != nil {
			return nil, err
		}
	}
	defer s.release(userID, courseID)

	course, err := s.repo.Course().GetByID(ctx, nil, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	receipt, err := s.gateway.Charge(ctx, userID, courseID, course.Price)
	if err != nil {
		s.publishEnrollmentEvent(ctx, events.EventEnrollmentFailed, user, course)
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	enrollment := &models.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: time.Now().UTC(),
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Enrollment().Create(ctx, nil, enrollment); err != nil {
			return fmt.Errorf("failed to create enrollment: %w", err)
		}
		if err := txRepo.Course().IncrementEnrolled(ctx, nil, courseID, 1); err != nil {
			return fmt.Errorf("failed to update enrollment counter: %w", err)
		}
		return nil
	})
	if err != nil {
		// A concurrent enrollment may have landed first; surface that as
		// a duplicate rather than a storage error.
		if enrolled, checkErr := s.repo.Enrollment().Exists(ctx, nil, userID, courseID); checkErr == nil && enrolled {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}

	s.notifyEnrollment(ctx, user, course)
	s.publishEnrollmentEvent(ctx, events.EventEnrollmentCompleted, user, course)

	return &EnrollmentResponse{
		Enrollment: enrollment,
		Course:     course,
		Receipt:    receipt,
	}, nil
}

func (s *enrollmentService) CancelCheckout(ctx context.Context, userID, courseID string) error {
	s.logger.Info("Cancelling checkout", "user_id", userID, "course_id", courseID)
	s.release(userID, courseID)
	return nil
}

// ===== QUERIES =====

func (s *enrollmentService) IsEnrolled(ctx context.Context, userID, courseID string) (bool, error) {
	return s.repo.Enrollment().Exists(ctx, nil, userID, courseID)
}

func (s *enrollmentService) ListByUser(ctx context.Context, userID string) ([]*EnrollmentResponse, error) {
	enrollments, err := s.repo.Enrollment().ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	courseIDs := make([]string, 0, len(enrollments))
	for _, enrollment := range enrollments {
		courseIDs = append(courseIDs, enrollment.CourseID)
	}

	courses, err := s.repo.Course().GetByIDs(ctx, nil, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load courses: %w", err)
	}
	coursesByID := make(map[string]*models.Course, len(courses))
	for _, course := range courses {
		coursesByID[course.ID] = course
	}

	responses := make([]*EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		responses = append(responses, &EnrollmentResponse{
			Enrollment: enrollment,
			Course:     coursesByID[enrollment.CourseID],
		})
	}
	return responses, nil
}

func (s *enrollmentService) GetRoster(ctx context.Context, courseID, actorID string) (*RosterResponse, error) {
	isAdmin, err := s.repo.User().HasRole(ctx, nil, actorID, models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("permission check failed: %w", err)
	}
	if !isAdmin {
		return nil, NewPermissionError(actorID, courseID, "course", "view_roster", "admin role required")
	}

	course, err := s.repo.Course().GetByID(ctx, nil, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	enrollments, err := s.repo.Enrollment().ListByCourse(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}

	students := make([]*models.RosterEntry, 0, len(enrollments))
	for _, enrollment := range enrollments {
		students = append(students, &models.RosterEntry{
			CourseID:     courseID,
			CourseTitle:  course.Title,
			StudentID:    enrollment.UserID,
			StudentName:  enrollment.User.Name,
			StudentEmail: enrollment.User.Email,
			EnrolledAt:   enrollment.EnrolledAt,
		})
	}

	return &RosterResponse{
		CourseID: courseID,
		Title:    course.Title,
		Students: students,
		Total:    int64(len(students)),
	}, nil
}

// ===== HELPERS =====

func (s *enrollmentService) notifyEnrollment(ctx context.Context, user *models.User, course *models.Course) {
	userID := user.ID
	now := time.Now().UTC()
	confirmation := &models.Notification{
		ID:           uuid.New().String(),
		Title:        "Enrollment Confirmed",
		Message:      fmt.Sprintf("You are now enrolled in %s", course.Title),
		Audience:     models.AudienceStudent,
		TargetUserID: &userID,
		CreatedAt:    now,
	}
	if err := s.repo.Notification().Create(ctx, nil, confirmation); err != nil {
		s.logger.Warn("Failed to create enrollment confirmation", "user_id", user.ID, "error", err)
	}

	adminNotice := &models.Notification{
		ID:        uuid.New().String(),
		Title:     "New Enrollment",
		Message:   fmt.Sprintf("%s enrolled in %s", user.Name, course.Title),
		Audience:  models.AudienceAdmin,
		CreatedAt: now,
	}
	if err := s.repo.Notification().Create(ctx, nil, adminNotice); err != nil {
		s.logger.Warn("Failed to create admin enrollment notice", "user_id", user.ID, "error", err)
	}
}

func (s *enrollmentService) publishEnrollmentEvent(ctx context.Context, eventType string, user *models.User, course *models.Course) {
	if s.publisher == nil {
		return
	}

	event := events.NewEvent(eventType, events.EnrollmentEvent{
		UserID:      user.ID,
		CourseID:    course.ID,
		CourseTitle: course.Title,
		Price:       course.Price,
	})
	if err := s.publisher.Publish(ctx, events.TopicEnrollments, event); err != nil {
		s.logger.Warn("Failed to publish enrollment event", "type", eventType, "course_id", course.ID, "error", err)
	}
}

func (s *enrollmentService) reserve(userID, courseID string) bool {
	key := userID + "|" + courseID
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inflight[key]; ok {
		return false
	}
	s.inflight[key] = struct{}{}
	return true
}

func (s *enrollmentService) reserved(userID, courseID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inflight[userID+"|"+courseID]
	return ok
}

func (s *enrollmentService) release(userID, courseID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, userID+"|"+courseID)
}
