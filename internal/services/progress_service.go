package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/stelle-edu/learning-service/internal/events"
	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/repositories"
	"github.com/stelle-edu/learning-service/internal/validator"
)

type progressService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewProgressService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) ProgressService {
	return &progressService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// ToggleStep flips the completion state of one roadmap step for an enrolled
// student and returns the resulting progress.
func (s *progressService) ToggleStep(ctx context.Context, userID, courseID string, stepIndex int) (*ProgressResponse, error) {
	s.logger.Info("Toggling roadmap step", "user_id", userID, "course_id", courseID, "step_index", stepIndex)

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
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	if errs := s.validator.GetBusinessValidator().ValidateStepIndex(course, stepIndex); len(errs) > 0 {
		return nil, errs
	}

	progress, err := s.repo.Progress().Get(ctx, nil, courseID, userID)
	if err != nil {
		if !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to get progress: %w", err)
		}
		progress = &models.CourseProgress{
			CourseID:       courseID,
			UserID:         userID,
			CompletedSteps: datatypes.JSONSlice[int]{},
		}
	}

	completed := progress.ToggleStep(stepIndex)

	if err := s.repo.Progress().Upsert(ctx, nil, progress); err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}

	s.notifyStepToggle(ctx, userID, course, stepIndex, completed)
	s.publishStepToggle(ctx, userID, courseID, stepIndex, completed)

	return buildProgressResponse(progress, course.StepCount()), nil
}

func (s *progressService) Get(ctx context.Context, userID, courseID string) (*ProgressResponse, error) {
	course, err := s.repo.Course().GetByID(ctx, nil, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	progress, err := s.repo.Progress().Get(ctx, nil, courseID, userID)
	if err != nil {
		if !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to get progress: %w", err)
		}
		progress = &models.CourseProgress{CourseID: courseID, UserID: userID}
	}

	return buildProgressResponse(progress, course.StepCount()), nil
}

func (s *progressService) ListByUser(ctx context.Context, userID string) ([]*ProgressResponse, error) {
	records, err := s.repo.Progress().ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}

	courseIDs := make([]string, 0, len(records))
	for _, record := range records {
		courseIDs = append(courseIDs, record.CourseID)
	}
	courses, err := s.repo.Course().GetByIDs(ctx, nil, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load courses: %w", err)
	}
	stepCounts := make(map[string]int, len(courses))
	for _, course := range courses {
		stepCounts[course.ID] = course.StepCount()
	}

	responses := make([]*ProgressResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, buildProgressResponse(record, stepCounts[record.CourseID]))
	}
	return responses, nil
}

// ===== HELPERS =====

func (s *progressService) notifyStepToggle(ctx context.Context, userID string, course *models.Course, stepIndex int, completed bool) {
	step := fmt.Sprintf("step %d", stepIndex+1)
	if stepIndex < course.StepCount() {
		step = course.Roadmap[stepIndex]
	}

	title := "Step Completed"
	message := fmt.Sprintf("You completed %s in %s", step, course.Title)
	if !completed {
		title = "Step Reopened"
		message = fmt.Sprintf("You reopened %s in %s", step, course.Title)
	}

	target := userID
	notification := &models.Notification{
		ID:           uuid.New().String(),
		Title:        title,
		Message:      message,
		Audience:     models.AudienceStudent,
		TargetUserID: &target,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Notification().Create(ctx, nil, notification); err != nil {
		s.logger.Warn("Failed to create progress notification", "user_id", userID, "error", err)
	}
}

func (s *progressService) publishStepToggle(ctx context.Context, userID, courseID string, stepIndex int, completed bool) {
	if s.publisher == nil {
		return
	}

	event := events.NewEvent(events.EventStepToggled, events.ProgressEvent{
		UserID:    userID,
		CourseID:  courseID,
		StepIndex: stepIndex,
		Completed: completed,
	})
	if err := s.publisher.Publish(ctx, events.TopicProgress, event); err != nil {
		s.logger.Warn("Failed to publish progress event", "course_id", courseID, "error", err)
	}
}

func buildProgressResponse(progress *models.CourseProgress, totalSteps int) *ProgressResponse {
	percentage := 0.0
	if totalSteps > 0 {
		percentage = float64(len(progress.CompletedSteps)) / float64(totalSteps) * 100
	}
	return &ProgressResponse{
		CourseID:       progress.CourseID,
		CompletedSteps: progress.CompletedSteps,
		TotalSteps:     totalSteps,
		Percentage:     roundFloat(percentage, 1),
	}
}

// roundFloat rounds to the given number of decimal places
func roundFloat(val float64, precision int) float64 {
	ratio := 1.0
	for i := 0; i < precision; i++ {
		ratio *= 10
	}
	return float64(int(val*ratio+0.5)) / ratio
}
