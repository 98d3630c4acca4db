package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/repositories"
)

func TestCatalogCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("admin creates a course and students are announced", func(t *testing.T) {
		f := newTestFixture(t)

		course, err := f.catalog.Create(ctx, &CreateCourseRequest{
			Title:      "Terraform in Practice",
			Instructor: "Dana Fox",
			Price:      79,
			Category:   "Infrastructure",
			Roadmap:    []string{"Providers", "State", "Modules"},
		}, f.admin.ID)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if course.ID == "" {
			t.Error("expected a generated course ID")
		}
		if course.Trend != models.TrendNew {
			t.Errorf("expected default trend New, got %s", course.Trend)
		}
		if course.StepCount() != 3 {
			t.Errorf("expected 3 roadmap steps, got %d", course.StepCount())
		}

		notifications := f.notificationsFor(t, f.student.ID)
		if len(notifications) != 1 || notifications[0].Title != "New Course Available" {
			t.Errorf("expected a course announcement for students, got %v", notifications)
		}
	})

	t.Run("students may not create courses", func(t *testing.T) {
		f := newTestFixture(t)

		_, err := f.catalog.Create(ctx, &CreateCourseRequest{
			Title:      "Forbidden",
			Instructor: "Nobody",
		}, f.student.ID)
		if !IsPermissionError(err) {
			t.Errorf("expected permission error, got %v", err)
		}
	})

	t.Run("rejects invalid payloads", func(t *testing.T) {
		f := newTestFixture(t)

		_, err := f.catalog.Create(ctx, &CreateCourseRequest{
			Title: "   ",
			Price: -1,
		}, f.admin.ID)
		if err == nil {
			t.Fatal("expected validation error for blank title and negative price")
		}
	})
}

func TestCatalogUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("applies partial updates", func(t *testing.T) {
		f := newTestFixture(t)

		newTitle := "Kubernetes Fundamentals, 2nd Edition"
		newPrice := 59.0
		updated, err := f.catalog.Update(ctx, f.course.ID, &UpdateCourseRequest{
			Title: &newTitle,
			Price: &newPrice,
		}, f.admin.ID)
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.Title != newTitle {
			t.Errorf("expected title %q, got %q", newTitle, updated.Title)
		}
		if updated.Price != newPrice {
			t.Errorf("expected price %v, got %v", newPrice, updated.Price)
		}
		if updated.Instructor != f.course.Instructor {
			t.Errorf("instructor should be untouched, got %q", updated.Instructor)
		}
	})

	t.Run("refuses to shrink the roadmap under enrolled students", func(t *testing.T) {
		f := newTestFixture(t)
		f.enroll(t, f.student.ID, f.course.ID)

		_, err := f.catalog.Update(ctx, f.course.ID, &UpdateCourseRequest{
			Roadmap: []string{"Pods"},
		}, f.admin.ID)
		if err == nil {
			t.Fatal("expected roadmap shrink to be rejected")
		}
	})
}

func TestCatalogDelete(t *testing.T) {
	ctx := context.Background()

	f := newTestFixture(t)
	f.enroll(t, f.student.ID, f.course.ID)
	if _, err := f.progress.ToggleStep(ctx, f.student.ID, f.course.ID, 0); err != nil {
		t.Fatalf("ToggleStep failed: %v", err)
	}

	if err := f.catalog.Delete(ctx, f.course.ID, f.admin.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := f.catalog.GetByID(ctx, f.course.ID); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("expected ErrCourseNotFound after delete, got %v", err)
	}
	enrolled, err := f.enrollment.IsEnrolled(ctx, f.student.ID, f.course.ID)
	if err != nil {
		t.Fatalf("IsEnrolled failed: %v", err)
	}
	if enrolled {
		t.Error("expected enrollments to be removed with the course")
	}
	if _, err := f.repo.Progress().Get(ctx, nil, f.course.ID, f.student.ID); !repositories.IsNotFoundError(err) {
		t.Errorf("expected progress to be removed with the course, got %v", err)
	}
}

func TestCatalogListAndSearch(t *testing.T) {
	ctx := context.Background()

	f := newTestFixture(t)
	for _, req := range []*CreateCourseRequest{
		{Title: "Go Concurrency Patterns", Instructor: "Dana Fox", Category: "Programming", Trend: models.TrendGrowing},
		{Title: "Advanced Go Services", Instructor: "Alex Rivera", Category: "Programming"},
	} {
		if _, err := f.catalog.Create(ctx, req, f.admin.ID); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	page, err := f.catalog.List(ctx, models.ListCoursesParams{Page: 0, Size: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.TotalElements != 3 {
		t.Errorf("expected 3 courses total, got %d", page.TotalElements)
	}
	if page.TotalPages != 2 {
		t.Errorf("expected 2 pages, got %d", page.TotalPages)
	}
	if !page.First || page.Last {
		t.Errorf("expected first page markers, got first=%v last=%v", page.First, page.Last)
	}

	results, err := f.catalog.Search(ctx, "go", models.ListCoursesParams{Page: 0, Size: 10})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if results.TotalElements != 2 {
		t.Errorf("expected 2 search hits, got %d", results.TotalElements)
	}

	category := "Programming"
	byCategory, err := f.catalog.List(ctx, models.ListCoursesParams{Page: 0, Size: 10, Category: &category})
	if err != nil {
		t.Fatalf("List by category failed: %v", err)
	}
	if byCategory.TotalElements != 2 {
		t.Errorf("expected 2 Programming courses, got %d", byCategory.TotalElements)
	}

	trend := models.TrendGrowing
	byTrend, err := f.catalog.List(ctx, models.ListCoursesParams{Page: 0, Size: 10, Trend: &trend})
	if err != nil {
		t.Fatalf("List by trend failed: %v", err)
	}
	if byTrend.TotalElements != 1 {
		t.Errorf("expected 1 Growing course, got %d", byTrend.TotalElements)
	}
	courses, ok := byTrend.Content.([]*models.Course)
	if !ok {
		t.Fatalf("unexpected content type %T", byTrend.Content)
	}
	if len(courses) != 1 || courses[0].Title != "Go Concurrency Patterns" {
		t.Errorf("trend filter returned wrong courses: %v", courses)
	}
}

func TestCatalogSeed(t *testing.T) {
	ctx := context.Background()

	t.Run("installs the default catalog into an empty store", func(t *testing.T) {
		f := newTestFixture(t)
		if err := f.repo.Course().Delete(ctx, nil, f.course.ID); err != nil {
			t.Fatalf("failed to clear catalog: %v", err)
		}

		if err := f.catalog.Seed(ctx); err != nil {
			t.Fatalf("Seed failed: %v", err)
		}
		count, err := f.repo.Course().Count(ctx, nil)
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if count != int64(len(models.DefaultCatalog())) {
			t.Errorf("expected %d seeded courses, got %d", len(models.DefaultCatalog()), count)
		}
	})

	t.Run("does nothing when courses already exist", func(t *testing.T) {
		f := newTestFixture(t)

		if err := f.catalog.Seed(ctx); err != nil {
			t.Fatalf("Seed failed: %v", err)
		}
		count, err := f.repo.Course().Count(ctx, nil)
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if count != 1 {
			t.Errorf("expected the existing catalog to be untouched, got %d courses", count)
		}
	})
}
