package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/stelle-edu/learning-service/internal/models"
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateCourseCreate validates course creation business rules
func (bv *BusinessValidator) ValidateCourseCreate(req *models.CourseCreateRequest) ValidationErrors {
	var errors ValidationErrors

	// Basic struct validation
	errors = append(errors, bv.Validate(req)...)

	// Additional business validations
	errors = append(errors, bv.validateRoadmap(req.Roadmap)...)

	return errors
}

// ValidateCourseUpdate validates course update business rules
func (bv *BusinessValidator) ValidateCourseUpdate(req *models.CourseUpdateRequest, existing *models.Course) ValidationErrors {
	var errors ValidationErrors

	// Basic struct validation
	errors = append(errors, bv.Validate(req)...)

	// Shrinking the roadmap below already-completed step indices would
	// orphan progress, so only allow replacement with same or more steps
	// once students have enrolled.
	if req.Roadmap != nil && existing.Enrolled > 0 && len(req.Roadmap) < existing.StepCount() {
		errors = append(errors, ValidationError{
			Field:   "roadmap",
			Message: "cannot remove roadmap steps from a course with enrollments",
			Value:   len(req.Roadmap),
			Rule:    "business_logic",
		})
	}

	errors = append(errors, bv.validateRoadmap(req.Roadmap)...)

	return errors
}

// ValidateStepIndex validates a roadmap step toggle against the course
func (bv *BusinessValidator) ValidateStepIndex(course *models.Course, stepIndex int) ValidationErrors {
	var errors ValidationErrors

	if stepIndex < 0 || stepIndex >= course.StepCount() {
		errors = append(errors, ValidationError{
			Field:   "step_index",
			Message: "step index is out of range for this course",
			Value:   stepIndex,
			Rule:    "business_logic",
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Title validation (1-200 characters, non-blank)
	bv.validate.RegisterValidation("course_title", func(fl validator.FieldLevel) bool {
		title := strings.TrimSpace(fl.Field().String())
		return len(title) >= 1 && len(title) <= 200
	})

	// Course trend validation
	bv.validate.RegisterValidation("course_trend", func(fl validator.FieldLevel) bool {
		trend := models.CourseTrend(fl.Field().String())
		switch trend {
		case models.TrendHot, models.TrendGrowing, models.TrendBestSeller, models.TrendNew, models.TrendStable:
			return true
		}
		return false
	})

	// User role validation
	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).Valid()
	})
}

// validateRoadmap validates roadmap step lists
func (bv *BusinessValidator) validateRoadmap(roadmap []string) ValidationErrors {
	var errors ValidationErrors

	if len(roadmap) > 50 {
		errors = append(errors, ValidationError{
			Field:   "roadmap",
			Message: "cannot have more than 50 steps",
			Value:   len(roadmap),
			Rule:    "business_logic",
		})
	}

	for i, step := range roadmap {
		if strings.TrimSpace(step) == "" {
			errors = append(errors, ValidationError{
				Field:   "roadmap",
				Message: "step cannot be empty",
				Value:   i,
				Rule:    "business_logic",
			})
		}
	}

	return errors
}
