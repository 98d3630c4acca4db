package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/stelle-edu/learning-service/internal/events"
	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/repositories"
	"github.com/stelle-edu/learning-service/internal/validator"
)

type catalogService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewCatalogService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) CatalogService {
	return &catalogService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *catalogService) Create(ctx context.Context, req *CreateCourseRequest, actorID string) (*models.Course, error) {
	s.logger.Info("Creating course", "actor_id", actorID, "title", req.Title)

	if errs := s.validator.GetBusinessValidator().ValidateCourseCreate(req); len(errs) > 0 {
		return nil, errs
	}

	if err := s.requireAdmin(ctx, actorID, "", "course", "create"); err != nil {
		return nil, err
	}

	course := &models.Course{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Instructor:  req.Instructor,
		Price:       req.Price,
		Duration:    req.Duration,
		StartDate:   req.StartDate,
		Category:    req.Category,
		Thumbnail:   req.Thumbnail,
		Trend:       req.Trend,
		Roadmap:     datatypes.JSONSlice[string](req.Roadmap),
	}
	if course.Trend == "" {
		course.Trend = models.TrendNew
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Course().Create(ctx, nil, course); err != nil {
			return fmt.Errorf("failed to create course: %w", err)
		}

		// Announce the new course to every student
		announcement := &models.Notification{
			ID:             uuid.New().String(),
			Title:          "New Course Available",
			Message:        fmt.Sprintf("%s by %s is now open for enrollment", course.Title, course.Instructor),
			Audience:       models.AudienceStudent,
			TargetCourseID: nil,
			CreatedAt:      time.Now().UTC(),
		}
		if err := txRepo.Notification().Create(ctx, nil, announcement); err != nil {
			return fmt.Errorf("failed to create course announcement: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishCourseEvent(ctx, events.EventCourseCreated, course, actorID)

	return course, nil
}

func (s *catalogService) GetByID(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

func (s *catalogService) GetByIDForUser(ctx context.Context, id, userID string) (*CourseResponse, error) {
	course, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := &CourseResponse{Course: course}

	enrolled, err := s.repo.Enrollment().Exists(ctx, nil, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	response.IsEnrolled = enrolled

	if enrolled {
		progress, err := s.repo.Progress().Get(ctx, nil, id, userID)
		if err != nil && !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to get progress: %w", err)
		}
		if progress != nil {
			response.CompletedSteps = progress.CompletedSteps
		}
	}

	return response, nil
}

func (s *catalogService) Update(ctx context.Context, id string, req *UpdateCourseRequest, actorID string) (*models.Course, error) {
	s.logger.Info("Updating course", "course_id", id, "actor_id", actorID)

	if err := s.requireAdmin(ctx, actorID, id, "course", "update"); err != nil {
		return nil, err
	}

	course, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if errs := s.validator.GetBusinessValidator().ValidateCourseUpdate(req, course); len(errs) > 0 {
		return nil, errs
	}

	applyCourseUpdate(course, req)

	if err := s.repo.Course().Update(ctx, nil, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	s.publishCourseEvent(ctx, events.EventCourseUpdated, course, actorID)

	return course, nil
}

// Delete removes a course and everything hanging off it: enrollments,
// progress, chat history, and course-targeted notifications.
func (s *catalogService) Delete(ctx context.Context, id string, actorID string) error {
	s.logger.Info("Deleting course", "course_id", id, "actor_id", actorID)

	if err := s.requireAdmin(ctx, actorID, id, "course", "delete"); err != nil {
		return err
	}

	course, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Progress().DeleteByCourse(ctx, nil, id); err != nil {
			return fmt.Errorf("failed to delete course progress: %w", err)
		}
		if err := txRepo.Chat().DeleteByCourse(ctx, nil, id); err != nil {
			return fmt.Errorf("failed to delete course messages: %w", err)
		}
		if err := txRepo.Notification().DeleteByCourse(ctx, nil, id); err != nil {
			return fmt.Errorf("failed to delete course notifications: %w", err)
		}
		if err := txRepo.Enrollment().DeleteByCourse(ctx, nil, id); err != nil {
			return fmt.Errorf("failed to delete enrollments: %w", err)
		}
		if err := txRepo.Course().Delete(ctx, nil, id); err != nil {
			return fmt.Errorf("failed to delete course: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publishCourseEvent(ctx, events.EventCourseDeleted, course, actorID)

	return nil
}

// ===== LIST AND SEARCH =====

func (s *catalogService) List(ctx context.Context, params models.ListCoursesParams) (*models.PaginatedResponse, error) {
	filters := buildCourseFilters(params)

	courses, total, err := s.repo.Course().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	return paginate(courses, total, params), nil
}

func (s *catalogService) Search(ctx context.Context, query string, params models.ListCoursesParams) (*models.PaginatedResponse, error) {
	filters := buildCourseFilters(params)

	courses, total, err := s.repo.Course().Search(ctx, nil, query, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search courses: %w", err)
	}

	return paginate(courses, total, params), nil
}

// ===== SEEDING =====

func (s *catalogService) Seed(ctx context.Context) error {
	count, err := s.repo.Course().Count(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to count courses: %w", err)
	}
	if count > 0 {
		return nil
	}

	s.logger.Info("Seeding default course catalog")

	return s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		for _, course := range models.DefaultCatalog() {
			course := course
			if err := txRepo.Course().Create(ctx, nil, &course); err != nil {
				return fmt.Errorf("failed to seed course %s: %w", course.ID, err)
			}
		}
		return nil
	})
}

// ===== HELPERS =====

func (s *catalogService) requireAdmin(ctx context.Context, actorID, resourceID, resource, action string) error {
	isAdmin, err := s.repo.User().HasRole(ctx, nil, actorID, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("permission check failed: %w", err)
	}
	if !isAdmin {
		return NewPermissionError(actorID, resourceID, resource, action, "admin role required")
	}
	return nil
}

func (s *catalogService) publishCourseEvent(ctx context.Context, eventType string, course *models.Course, actorID string) {
	if s.publisher == nil {
		return
	}

	event := events.NewEvent(eventType, events.CourseEvent{
		CourseID: course.ID,
		Title:    course.Title,
		ActorID:  actorID,
	})
	if err := s.publisher.Publish(ctx, events.TopicCatalog, event); err != nil {
		s.logger.Warn("Failed to publish course event", "type", eventType, "course_id", course.ID, "error", err)
	}
}

func applyCourseUpdate(course *models.Course, req *UpdateCourseRequest) {
	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Instructor != nil {
		course.Instructor = *req.Instructor
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.Duration != nil {
		course.Duration = *req.Duration
	}
	if req.StartDate != nil {
		course.StartDate = *req.StartDate
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	if req.Thumbnail != nil {
		course.Thumbnail = *req.Thumbnail
	}
	if req.Trend != nil {
		course.Trend = *req.Trend
	}
	if req.Roadmap != nil {
		course.Roadmap = datatypes.JSONSlice[string](req.Roadmap)
	}
}

func buildCourseFilters(params models.ListCoursesParams) repositories.CourseFilters {
	size := params.Size
	if size <= 0 || size > 100 {
		size = 20
	}
	page := params.Page
	if page < 0 {
		page = 0
	}

	return repositories.CourseFilters{
		Instructor: params.Instructor,
		Category:   params.Category,
		Trend:      params.Trend,
		Search:     params.Search,
		Limit:      size,
		Offset:     page * size,
		SortBy:     params.SortBy,
		SortOrder:  params.SortDir,
	}
}

func paginate(courses []*models.Course, total int64, params models.ListCoursesParams) *models.PaginatedResponse {
	size := params.Size
	if size <= 0 || size > 100 {
		size = 20
	}
	page := params.Page
	if page < 0 {
		page = 0
	}

	totalPages := int(math.Ceil(float64(total) / float64(size)))

	return &models.PaginatedResponse{
		Content:          courses,
		TotalElements:    total,
		TotalPages:       totalPages,
		Size:             size,
		Page:             page,
		First:            page == 0,
		Last:             page >= totalPages-1,
		NumberOfElements: len(courses),
		Empty:            len(courses) == 0,
	}
}
