package inmem

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/repositories"
)

func TestWithTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		store := NewStore()

		err := store.WithTransaction(ctx, func(txRepo repositories.Repository) error {
			return txRepo.Course().Create(ctx, nil, &models.Course{ID: "c1", Title: "Course"})
		})
		if err != nil {
			t.Fatalf("WithTransaction failed: %v", err)
		}

		if _, err := store.Course().GetByID(ctx, nil, "c1"); err != nil {
			t.Errorf("expected course to survive a committed transaction, got %v", err)
		}
	})

	t.Run("rolls back every map on failure", func(t *testing.T) {
		store := NewStore()
		if err := store.Course().Create(ctx, nil, &models.Course{ID: "c1", Title: "Course"}); err != nil {
			t.Fatalf("seed course failed: %v", err)
		}

		boom := errors.New("boom")
		err := store.WithTransaction(ctx, func(txRepo repositories.Repository) error {
			if err := txRepo.Enrollment().Create(ctx, nil, &models.Enrollment{
				UserID:     "u1",
				CourseID:   "c1",
				EnrolledAt: time.Now(),
			}); err != nil {
				return err
			}
			if err := txRepo.Course().IncrementEnrolled(ctx, nil, "c1", 1); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected the inner error back, got %v", err)
		}

		exists, err := store.Enrollment().Exists(ctx, nil, "u1", "c1")
		if err != nil {
			t.Fatalf("Exists failed: %v", err)
		}
		if exists {
			t.Error("expected enrollment to be rolled back")
		}
		course, err := store.Course().GetByID(ctx, nil, "c1")
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if course.Enrolled != 0 {
			t.Errorf("expected enrollment counter rolled back to 0, got %d", course.Enrolled)
		}
	})
}

func TestEnrollmentUniqueness(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	enrollment := &models.Enrollment{UserID: "u1", CourseID: "c1", EnrolledAt: time.Now()}
	if err := store.Enrollment().Create(ctx, nil, enrollment); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	if err := store.Enrollment().Create(ctx, nil, enrollment); err == nil {
		t.Error("expected duplicate enrollment to be rejected")
	}
}

func TestStoreIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	course := &models.Course{ID: "c1", Title: "Original"}
	if err := store.Course().Create(ctx, nil, course); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Mutating the caller's struct after Create must not leak into the store.
	course.Title = "Mutated"

	stored, err := store.Course().GetByID(ctx, nil, "c1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.Title != "Original" {
		t.Errorf("expected stored title Original, got %s", stored.Title)
	}

	// Mutating a fetched struct must not leak either.
	stored.Title = "Mutated Again"
	fresh, err := store.Course().GetByID(ctx, nil, "c1")
	if err != nil {
		t.Fatalf("second GetByID failed: %v", err)
	}
	if fresh.Title != "Original" {
		t.Errorf("expected stored title Original, got %s", fresh.Title)
	}
}

func TestNotificationUnreadFilter(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	for _, n := range []*models.Notification{
		{ID: "n1", Title: "Unread", Message: "m", Audience: models.AudienceAll},
		{ID: "n2", Title: "Read", Message: "m", Audience: models.AudienceAll, Read: true},
	} {
		if err := store.Notification().Create(ctx, nil, n); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	unread := true
	notifications, total, err := store.Notification().List(ctx, nil, repositories.NotificationFilters{Unread: &unread})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || len(notifications) != 1 || notifications[0].ID != "n1" {
		t.Errorf("expected only the unread notification, got %d (%v)", total, notifications)
	}

	if err := store.Notification().MarkRead(ctx, nil, []string{"n1"}); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	_, total, err = store.Notification().List(ctx, nil, repositories.NotificationFilters{Unread: &unread})
	if err != nil {
		t.Fatalf("second List failed: %v", err)
	}
	if total != 0 {
		t.Errorf("expected no unread notifications after MarkRead, got %d", total)
	}
}
