package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stelle-edu/learning-service/internal/events"
	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/repositories"
)

type notificationService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	publisher events.EventPublisher
}

func NewNotificationService(repo repositories.Repository, logger *slog.Logger, publisher events.EventPublisher) NotificationService {
	return &notificationService{
		repo:      repo,
		logger:    logger,
		publisher: publisher,
	}
}

// VisibleTo reports whether a notification may be shown to the user. All
// three filters must pass: audience role, target user, and target course.
// Course-targeted notifications require enrollment for students; admins see
// them regardless.
func VisibleTo(user *models.User, enrolledCourses map[string]bool, notification *models.Notification) bool {
	switch notification.Audience {
	case models.AudienceAll, "":
	case models.AudienceAdmin:
		if user.Role != models.RoleAdmin {
			return false
		}
	case models.AudienceStudent:
		if user.Role != models.RoleStudent {
			return false
		}
	default:
		return false
	}

	if notification.TargetUserID != nil && *notification.TargetUserID != user.ID {
		return false
	}

	if notification.TargetCourseID != nil && !user.IsAdmin() {
		if !enrolledCourses[*notification.TargetCourseID] {
			return false
		}
	}

	return true
}

func (s *notificationService) ListVisible(ctx context.Context, userID string) ([]*models.Notification, error) {
	user, enrolled, err := s.loadVisibilityContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	notifications, _, err := s.repo.Notification().List(ctx, nil, repositories.NotificationFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	visible := make([]*models.Notification, 0, len(notifications))
	for _, notification := range notifications {
		if VisibleTo(user, enrolled, notification) {
			visible = append(visible, notification)
		}
	}
	return visible, nil
}

func (s *notificationService) MarkAllVisibleRead(ctx context.Context, userID string) (int64, error) {
	user, enrolled, err := s.loadVisibilityContext(ctx, userID)
	if err != nil {
		return 0, err
	}

	unread := true
	notifications, _, err := s.repo.Notification().List(ctx, nil, repositories.NotificationFilters{Unread: &unread})
	if err != nil {
		return 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	var ids []string
	for _, notification := range notifications {
		if VisibleTo(user, enrolled, notification) {
			ids = append(ids, notification.ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if err := s.repo.Notification().MarkRead(ctx, nil, ids); err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}

	s.logger.Info("Marked notifications read", "user_id", userID, "count", len(ids))
	return int64(len(ids)), nil
}

func (s *notificationService) Notify(ctx context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	if notification.Audience == "" {
		notification.Audience = models.AudienceAll
	}

	if err := s.repo.Notification().Create(ctx, nil, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if s.publisher != nil {
		event := events.NewEvent(events.EventNotificationCreated, notification)
		if err := s.publisher.Publish(ctx, events.TopicNotifications, event); err != nil {
			s.logger.Warn("Failed to publish notification event", "notification_id", notification.ID, "error", err)
		}
	}

	return nil
}

// loadVisibilityContext fetches the user and their enrolled course set
func (s *notificationService) loadVisibilityContext(ctx context.Context, userID string) (*models.User, map[string]bool, error) {
	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	enrollments, err := s.repo.Enrollment().ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	enrolled := make(map[string]bool, len(enrollments))
	for _, enrollment := range enrollments {
		enrolled[enrollment.CourseID] = true
	}

	return user, enrolled, nil
}
