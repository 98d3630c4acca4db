package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stelle-edu/learning-service/internal/validator"
)

func TestToggleStep(t *testing.T) {
	ctx := context.Background()

	t.Run("marks and unmarks a step", func(t *testing.T) {
		f := newTestFixture(t)
		f.enroll(t, f.student.ID, f.course.ID)

		result, err := f.progress.ToggleStep(ctx, f.student.ID, f.course.ID, 1)
		if err != nil {
			t.Fatalf("ToggleStep failed: %v", err)
		}
		if len(result.CompletedSteps) != 1 || result.CompletedSteps[0] != 1 {
			t.Errorf("expected completed steps [1], got %v", result.CompletedSteps)
		}
		if result.TotalSteps != 3 {
			t.Errorf("expected 3 total steps, got %d", result.TotalSteps)
		}

		result, err = f.progress.ToggleStep(ctx, f.student.ID, f.course.ID, 1)
		if err != nil {
			t.Fatalf("second ToggleStep failed: %v", err)
		}
		if len(result.CompletedSteps) != 0 {
			t.Errorf("expected empty completed steps after untoggle, got %v", result.CompletedSteps)
		}
	})

	t.Run("accumulates distinct steps", func(t *testing.T) {
		f := newTestFixture(t)
		f.enroll(t, f.student.ID, f.course.ID)

		for _, step := range []int{0, 2} {
			if _, err := f.progress.ToggleStep(ctx, f.student.ID, f.course.ID, step); err != nil {
				t.Fatalf("ToggleStep(%d) failed: %v", step, err)
			}
		}

		result, err := f.progress.Get(ctx, f.student.ID, f.course.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(result.CompletedSteps) != 2 {
			t.Errorf("expected 2 completed steps, got %v", result.CompletedSteps)
		}
		if result.Percentage < 66 || result.Percentage > 67 {
			t.Errorf("expected percentage around 66.67, got %v", result.Percentage)
		}
	})

	t.Run("rejects out-of-range step index", func(t *testing.T) {
		f := newTestFixture(t)
		f.enroll(t, f.student.ID, f.course.ID)

		for _, step := range []int{-1, 3} {
			_, err := f.progress.ToggleStep(ctx, f.student.ID, f.course.ID, step)
			var validationErrs validator.ValidationErrors
			if !errors.As(err, &validationErrs) {
				t.Errorf("ToggleStep(%d): expected validation error, got %v", step, err)
			}
		}
	})

	t.Run("rejects toggles from non-enrolled users", func(t *testing.T) {
		f := newTestFixture(t)

		_, err := f.progress.ToggleStep(ctx, f.student.ID, f.course.ID, 0)
		if !errors.Is(err, ErrNotEnrolled) {
			t.Errorf("expected ErrNotEnrolled, got %v", err)
		}
	})

	t.Run("notifies the student on each toggle", func(t *testing.T) {
		f := newTestFixture(t)
		f.enroll(t, f.student.ID, f.course.ID)

		if _, err := f.progress.ToggleStep(ctx, f.student.ID, f.course.ID, 0); err != nil {
			t.Fatalf("ToggleStep failed: %v", err)
		}
		if _, err := f.progress.ToggleStep(ctx, f.student.ID, f.course.ID, 0); err != nil {
			t.Fatalf("second ToggleStep failed: %v", err)
		}

		notifications := f.notificationsFor(t, f.student.ID)
		if len(notifications) != 2 {
			t.Fatalf("expected 2 notifications, got %d", len(notifications))
		}
		titles := map[string]bool{}
		for _, n := range notifications {
			titles[n.Title] = true
		}
		if !titles["Step Completed"] || !titles["Step Reopened"] {
			t.Errorf("expected completed and reopened notifications, got %v", titles)
		}
	})
}

func TestProgressListByUser(t *testing.T) {
	ctx := context.Background()

	f := newTestFixture(t)
	f.enroll(t, f.student.ID, f.course.ID)
	if _, err := f.progress.ToggleStep(ctx, f.student.ID, f.course.ID, 0); err != nil {
		t.Fatalf("ToggleStep failed: %v", err)
	}

	results, err := f.progress.ListByUser(ctx, f.student.ID)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 progress record, got %d", len(results))
	}
	if results[0].CourseID != f.course.ID {
		t.Errorf("expected course %s, got %s", f.course.ID, results[0].CourseID)
	}
	if results[0].TotalSteps != 3 {
		t.Errorf("expected 3 total steps, got %d", results[0].TotalSteps)
	}
}
