package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stelle-edu/learning-service/internal/events"
)

func TestInitiateCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("returns pending checkout for a purchasable course", func(t *testing.T) {
		f := newTestFixture(t)

		checkout, err := f.enrollment.InitiateCheckout(ctx, f.student.ID, f.course.ID)
		if err != nil {
			t.Fatalf("InitiateCheckout failed: %v", err)
		}
		if checkout.Status != "pending" {
			t.Errorf("expected status pending, got %s", checkout.Status)
		}
		if checkout.Amount != f.course.Price {
			t.Errorf("expected amount %v, got %v", f.course.Price, checkout.Amount)
		}
	})

	t.Run("rejects checkout for unknown course", func(t *testing.T) {
		f := newTestFixture(t)

		_, err := f.enrollment.InitiateCheckout(ctx, f.student.ID, "no-such-course")
		if !errors.Is(err, ErrCourseNotFound) {
			t.Errorf("expected ErrCourseNotFound, got %v", err)
		}
	})

	t.Run("rejects checkout when already enrolled", func(t *testing.T) {
		f := newTestFixture(t)
		f.enroll(t, f.student.ID, f.course.ID)

		_, err := f.enrollment.InitiateCheckout(ctx, f.student.ID, f.course.ID)
		if !errors.Is(err, ErrAlreadyEnrolled) {
			t.Errorf("expected ErrAlreadyEnrolled, got %v", err)
		}
	})

	t.Run("rejects a second checkout while one is in flight", func(t *testing.T) {
		f := newTestFixture(t)

		if _, err := f.enrollment.InitiateCheckout(ctx, f.student.ID, f.course.ID); err != nil {
			t.Fatalf("first InitiateCheckout failed: %v", err)
		}
		_, err := f.enrollment.InitiateCheckout(ctx, f.student.ID, f.course.ID)
		if !errors.Is(err, ErrCheckoutInFlight) {
			t.Errorf("expected ErrCheckoutInFlight, got %v", err)
		}
	})

	t.Run("cancel releases the in-flight reservation", func(t *testing.T) {
		f := newTestFixture(t)

		if _, err := f.enrollment.InitiateCheckout(ctx, f.student.ID, f.course.ID); err != nil {
			t.Fatalf("InitiateCheckout failed: %v", err)
		}
		if err := f.enrollment.CancelCheckout(ctx, f.student.ID, f.course.ID); err != nil {
			t.Fatalf("CancelCheckout failed: %v", err)
		}
		if _, err := f.enrollment.InitiateCheckout(ctx, f.student.ID, f.course.ID); err != nil {
			t.Errorf("expected re-initiate after cancel to succeed, got %v", err)
		}
	})
}

func TestCompleteCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("creates enrollment and bumps the counter once", func(t *testing.T) {
		f := newTestFixture(t)

		result, err := f.enrollment.CompleteCheckout(ctx, f.student.ID, f.course.ID)
		if err != nil {
			t.Fatalf("CompleteCheckout failed: %v", err)
		}
		if result.Enrollment == nil || result.Enrollment.CourseID != f.course.ID {
			t.Fatal("expected enrollment in response")
		}
		if result.Receipt == nil {
			t.Error("expected a payment receipt")
		}

		enrolled, err := f.enrollment.IsEnrolled(ctx, f.student.ID, f.course.ID)
		if err != nil {
			t.Fatalf("IsEnrolled failed: %v", err)
		}
		if !enrolled {
			t.Error("expected student to be enrolled")
		}

		course, err := f.repo.Course().GetByID(ctx, nil, f.course.ID)
		if err != nil {
			t.Fatalf("failed to reload course: %v", err)
		}
		if course.Enrolled != 1 {
			t.Errorf("expected enrolled counter 1, got %d", course.Enrolled)
		}
	})

	t.Run("notifies student and admins", func(t *testing.T) {
		f := newTestFixture(t)

		if _, err := f.enrollment.CompleteCheckout(ctx, f.student.ID, f.course.ID); err != nil {
			t.Fatalf("CompleteCheckout failed: %v", err)
		}

		studentNotifications := f.notificationsFor(t, f.student.ID)
		if len(studentNotifications) != 1 {
			t.Fatalf("expected 1 student notification, got %d", len(studentNotifications))
		}
		if studentNotifications[0].Title != "Enrollment Confirmed" {
			t.Errorf("unexpected student notification title %q", studentNotifications[0].Title)
		}

		adminNotifications := f.notificationsFor(t, f.admin.ID)
		if len(adminNotifications) != 1 {
			t.Fatalf("expected 1 admin notification, got %d", len(adminNotifications))
		}
		if adminNotifications[0].Title != "New Enrollment" {
			t.Errorf("unexpected admin notification title %q", adminNotifications[0].Title)
		}
	})

	t.Run("publishes a completion event", func(t *testing.T) {
		f := newTestFixture(t)

		if _, err := f.enrollment.CompleteCheckout(ctx, f.student.ID, f.course.ID); err != nil {
			t.Fatalf("CompleteCheckout failed: %v", err)
		}

		completed := f.eventsOfType(events.EventEnrollmentCompleted)
		if len(completed) != 1 {
			t.Fatalf("expected 1 enrollment.completed event, got %d", len(completed))
		}
	})

	t.Run("declined payment leaves no enrollment behind", func(t *testing.T) {
		f := newTestFixture(t)
		f.gateway.FailNext = true

		_, err := f.enrollment.CompleteCheckout(ctx, f.student.ID, f.course.ID)
		if !errors.Is(err, ErrPaymentFailed) {
			t.Fatalf("expected ErrPaymentFailed, got %v", err)
		}

		enrolled, err := f.enrollment.IsEnrolled(ctx, f.student.ID, f.course.ID)
		if err != nil {
			t.Fatalf("IsEnrolled failed: %v", err)
		}
		if enrolled {
			t.Error("expected no enrollment after a declined payment")
		}
		if failed := f.eventsOfType(events.EventEnrollmentFailed); len(failed) != 1 {
			t.Errorf("expected 1 enrollment.failed event, got %d", len(failed))
		}

		// The reservation is released, so a retry can succeed.
		if _, err := f.enrollment.CompleteCheckout(ctx, f.student.ID, f.course.ID); err != nil {
			t.Errorf("expected retry after declined payment to succeed, got %v", err)
		}
	})

	t.Run("duplicate complete reports already enrolled", func(t *testing.T) {
		f := newTestFixture(t)

		if _, err := f.enrollment.CompleteCheckout(ctx, f.student.ID, f.course.ID); err != nil {
			t.Fatalf("first CompleteCheckout failed: %v", err)
		}
		_, err := f.enrollment.CompleteCheckout(ctx, f.student.ID, f.course.ID)
		if !errors.Is(err, ErrAlreadyEnrolled) {
			t.Errorf("expected ErrAlreadyEnrolled, got %v", err)
		}
	})
}

func TestGetRoster(t *testing.T) {
	ctx := context.Background()

	t.Run("lists enrolled students for admins", func(t *testing.T) {
		f := newTestFixture(t)
		other := f.addStudent(t, "student-2", "Riley", "riley@example.com")
		f.enroll(t, f.student.ID, f.course.ID)
		f.enroll(t, other.ID, f.course.ID)

		roster, err := f.enrollment.GetRoster(ctx, f.course.ID, f.admin.ID)
		if err != nil {
			t.Fatalf("GetRoster failed: %v", err)
		}
		if roster.Total != 2 {
			t.Errorf("expected 2 roster entries, got %d", roster.Total)
		}
	})

	t.Run("denies students", func(t *testing.T) {
		f := newTestFixture(t)
		f.enroll(t, f.student.ID, f.course.ID)

		_, err := f.enrollment.GetRoster(ctx, f.course.ID, f.student.ID)
		if !IsPermissionError(err) {
			t.Errorf("expected permission error, got %v", err)
		}
	})
}
