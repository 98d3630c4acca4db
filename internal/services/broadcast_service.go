package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/stelle-edu/learning-service/internal/events"
	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/repositories"
	"github.com/stelle-edu/learning-service/internal/validator"
)

type broadcastService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewBroadcastService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) BroadcastService {
	return &broadcastService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// Send posts a broadcast to the course feed and notifies enrolled students
func (s *broadcastService) Send(ctx context.Context, courseID, actorID string, req *models.BroadcastRequest) (*models.ChatMessage, error) {
	s.logger.Info("Sending broadcast", "course_id", courseID, "actor_id", actorID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	sender, err := s.repo.User().GetByID(ctx, nil, actorID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get sender: %w", err)
	}
	if !sender.IsAdmin() {
		return nil, NewPermissionError(actorID, courseID, "course", "broadcast", "admin role required")
	}

	course, err := s.repo.Course().GetByID(ctx, nil, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	now := time.Now().UTC()
	message := &models.ChatMessage{
		ID:         uuid.New().String(),
		CourseID:   courseID,
		SenderID:   sender.ID,
		SenderName: sender.Name,
		Text:       strings.TrimSpace(req.Text),
		CreatedAt:  now,
	}

	target := courseID
	notification := &models.Notification{
		ID:             uuid.New().String(),
		Title:          "New Broadcast",
		Message:        fmt.Sprintf("%s posted in %s: %s", sender.Name, course.Title, truncate(message.Text, 120)),
		Audience:       models.AudienceStudent,
		TargetCourseID: &target,
		CreatedAt:      now,
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Chat().Create(ctx, nil, message); err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}
		if err := txRepo.Notification().Create(ctx, nil, notification); err != nil {
			return fmt.Errorf("failed to create broadcast notification: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishBroadcast(ctx, message)

	return message, nil
}

// ListMessages returns the course feed for enrolled students and admins
func (s *broadcastService) ListMessages(ctx context.Context, courseID, actorID string) ([]*models.ChatMessage, error) {
	actor, err := s.repo.User().GetByID(ctx, nil, actorID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	exists, err := s.repo.Course().ExistsByID(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check course: %w", err)
	}
	if !exists {
		return nil, ErrCourseNotFound
	}

	if !actor.IsAdmin() {
		enrolled, err := s.repo.Enrollment().Exists(ctx, nil, actorID, courseID)
		if err != nil {
			return nil, fmt.Errorf("failed to check enrollment: %w", err)
		}
		if !enrolled {
			return nil, NewPermissionError(actorID, courseID, "course", "read_messages", "not enrolled in course")
		}
	}

	messages, _, err := s.repo.Chat().ListByCourse(ctx, nil, courseID, repositories.ChatFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// ===== HELPERS =====

func (s *broadcastService) publishBroadcast(ctx context.Context, message *models.ChatMessage) {
	if s.publisher == nil {
		return
	}

	event := events.NewEvent(events.EventBroadcastSent, events.BroadcastEvent{
		MessageID: message.ID,
		CourseID:  message.CourseID,
		SenderID:  message.SenderID,
	})
	if err := s.publisher.Publish(ctx, events.TopicBroadcasts, event); err != nil {
		s.logger.Warn("Failed to publish broadcast event", "message_id", message.ID, "error", err)
	}
}

// truncate cuts text to at most max bytes without splitting a rune.
func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
