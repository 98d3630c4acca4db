package services

import (
	"context"
	"testing"
	"time"

	"github.com/stelle-edu/learning-service/internal/models"
)

func TestVisibleTo(t *testing.T) {
	admin := &models.User{ID: "admin-1", Role: models.RoleAdmin}
	student := &models.User{ID: "student-1", Role: models.RoleStudent}
	otherStudent := &models.User{ID: "student-2", Role: models.RoleStudent}

	studentID := student.ID
	courseID := "course-1"
	enrolled := map[string]bool{courseID: true}
	notEnrolled := map[string]bool{}

	tests := []struct {
		name         string
		user         *models.User
		enrolled     map[string]bool
		notification *models.Notification
		want         bool
	}{
		{
			name:         "all audience visible to everyone",
			user:         student,
			enrolled:     notEnrolled,
			notification: &models.Notification{Audience: models.AudienceAll},
			want:         true,
		},
		{
			name:         "empty audience treated as all",
			user:         admin,
			enrolled:     notEnrolled,
			notification: &models.Notification{},
			want:         true,
		},
		{
			name:         "admin audience hidden from students",
			user:         student,
			enrolled:     enrolled,
			notification: &models.Notification{Audience: models.AudienceAdmin},
			want:         false,
		},
		{
			name:         "admin audience visible to admins",
			user:         admin,
			enrolled:     notEnrolled,
			notification: &models.Notification{Audience: models.AudienceAdmin},
			want:         true,
		},
		{
			name:         "student audience hidden from admins",
			user:         admin,
			enrolled:     notEnrolled,
			notification: &models.Notification{Audience: models.AudienceStudent},
			want:         false,
		},
		{
			name:         "user-targeted visible to the target",
			user:         student,
			enrolled:     notEnrolled,
			notification: &models.Notification{Audience: models.AudienceStudent, TargetUserID: &studentID},
			want:         true,
		},
		{
			name:         "user-targeted hidden from other users",
			user:         otherStudent,
			enrolled:     enrolled,
			notification: &models.Notification{Audience: models.AudienceStudent, TargetUserID: &studentID},
			want:         false,
		},
		{
			name:         "course-targeted visible to enrolled students",
			user:         student,
			enrolled:     enrolled,
			notification: &models.Notification{Audience: models.AudienceStudent, TargetCourseID: &courseID},
			want:         true,
		},
		{
			name:         "course-targeted hidden from non-enrolled students",
			user:         student,
			enrolled:     notEnrolled,
			notification: &models.Notification{Audience: models.AudienceStudent, TargetCourseID: &courseID},
			want:         false,
		},
		{
			name:         "course-targeted visible to admins without enrollment",
			user:         admin,
			enrolled:     notEnrolled,
			notification: &models.Notification{Audience: models.AudienceAll, TargetCourseID: &courseID},
			want:         true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VisibleTo(tt.user, tt.enrolled, tt.notification); got != tt.want {
				t.Errorf("VisibleTo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListVisible(t *testing.T) {
	ctx := context.Background()

	f := newTestFixture(t)
	f.enroll(t, f.student.ID, f.course.ID)

	announcements := []*models.Notification{
		{Title: "Welcome", Message: "Hello everyone"},
		{Title: "Admin Only", Message: "Internal", Audience: models.AudienceAdmin},
		{Title: "Course Update", Message: "New content", Audience: models.AudienceStudent, TargetCourseID: &f.course.ID},
	}
	for _, n := range announcements {
		if err := f.notification.Notify(ctx, n); err != nil {
			t.Fatalf("Notify failed: %v", err)
		}
	}

	studentVisible := f.notificationsFor(t, f.student.ID)
	if len(studentVisible) != 2 {
		t.Errorf("expected student to see 2 notifications, got %d", len(studentVisible))
	}

	adminVisible := f.notificationsFor(t, f.admin.ID)
	if len(adminVisible) != 2 {
		t.Errorf("expected admin to see 2 notifications, got %d", len(adminVisible))
	}

	outsider := f.addStudent(t, "student-2", "Riley", "riley@example.com")
	outsiderVisible := f.notificationsFor(t, outsider.ID)
	if len(outsiderVisible) != 1 {
		t.Errorf("expected non-enrolled student to see 1 notification, got %d", len(outsiderVisible))
	}
}

func TestNotifyStampsAndOrders(t *testing.T) {
	ctx := context.Background()

	f := newTestFixture(t)

	first := &models.Notification{Title: "First", Message: "Oldest"}
	if err := f.notification.Notify(ctx, first); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	time.Sleep(time.Millisecond)
	second := &models.Notification{Title: "Second", Message: "Newest"}
	if err := f.notification.Notify(ctx, second); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	if first.CreatedAt.IsZero() || second.CreatedAt.IsZero() {
		t.Fatal("Notify left CreatedAt unset")
	}

	visible := f.notificationsFor(t, f.admin.ID)
	if len(visible) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(visible))
	}
	if visible[0].Title != "Second" || visible[1].Title != "First" {
		t.Errorf("expected most-recent-first order, got %q then %q", visible[0].Title, visible[1].Title)
	}
}

func TestMarkAllVisibleRead(t *testing.T) {
	ctx := context.Background()

	f := newTestFixture(t)
	f.enroll(t, f.student.ID, f.course.ID)

	for _, n := range []*models.Notification{
		{Title: "Welcome", Message: "Hello everyone"},
		{Title: "Admin Only", Message: "Internal", Audience: models.AudienceAdmin},
	} {
		if err := f.notification.Notify(ctx, n); err != nil {
			t.Fatalf("Notify failed: %v", err)
		}
	}

	count, err := f.notification.MarkAllVisibleRead(ctx, f.student.ID)
	if err != nil {
		t.Fatalf("MarkAllVisibleRead failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 notification marked read, got %d", count)
	}

	// The admin-only notification stays unread.
	count, err = f.notification.MarkAllVisibleRead(ctx, f.admin.ID)
	if err != nil {
		t.Fatalf("MarkAllVisibleRead for admin failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected admin to mark 1 notification read, got %d", count)
	}

	// Nothing left unread for either user.
	count, err = f.notification.MarkAllVisibleRead(ctx, f.student.ID)
	if err != nil {
		t.Fatalf("second MarkAllVisibleRead failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 notifications marked on repeat, got %d", count)
	}
}
