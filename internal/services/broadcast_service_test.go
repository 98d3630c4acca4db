package services

import (
	"context"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stelle-edu/learning-service/internal/events"
	"github.com/stelle-edu/learning-service/internal/models"
)

func TestBroadcastSend(t *testing.T) {
	ctx := context.Background()

	t.Run("admin posts to the course feed and enrolled students are notified", func(t *testing.T) {
		f := newTestFixture(t)
		f.enroll(t, f.student.ID, f.course.ID)

		message, err := f.broadcast.Send(ctx, f.course.ID, f.admin.ID, &models.BroadcastRequest{
			Text: "Office hours moved to Friday",
		})
		if err != nil {
			t.Fatalf("Send failed: %v", err)
		}
		if message.SenderID != f.admin.ID {
			t.Errorf("expected sender %s, got %s", f.admin.ID, message.SenderID)
		}
		if message.CourseID != f.course.ID {
			t.Errorf("expected course %s, got %s", f.course.ID, message.CourseID)
		}

		notifications := f.notificationsFor(t, f.student.ID)
		if len(notifications) != 1 {
			t.Fatalf("expected 1 notification for enrolled student, got %d", len(notifications))
		}
		if notifications[0].TargetCourseID == nil || *notifications[0].TargetCourseID != f.course.ID {
			t.Error("expected the notification to target the course")
		}

		if sent := f.eventsOfType(events.EventBroadcastSent); len(sent) != 1 {
			t.Errorf("expected 1 broadcast.sent event, got %d", len(sent))
		}
	})

	t.Run("non-enrolled students do not see broadcast notifications", func(t *testing.T) {
		f := newTestFixture(t)
		f.enroll(t, f.student.ID, f.course.ID)

		if _, err := f.broadcast.Send(ctx, f.course.ID, f.admin.ID, &models.BroadcastRequest{Text: "Hello"}); err != nil {
			t.Fatalf("Send failed: %v", err)
		}

		outsider := f.addStudent(t, "student-2", "Riley", "riley@example.com")
		if notifications := f.notificationsFor(t, outsider.ID); len(notifications) != 0 {
			t.Errorf("expected no notifications for non-enrolled student, got %d", len(notifications))
		}
	})

	t.Run("students may not broadcast", func(t *testing.T) {
		f := newTestFixture(t)
		f.enroll(t, f.student.ID, f.course.ID)

		_, err := f.broadcast.Send(ctx, f.course.ID, f.student.ID, &models.BroadcastRequest{Text: "Hi all"})
		if !IsPermissionError(err) {
			t.Errorf("expected permission error, got %v", err)
		}
	})

	t.Run("rejects empty messages", func(t *testing.T) {
		f := newTestFixture(t)

		_, err := f.broadcast.Send(ctx, f.course.ID, f.admin.ID, &models.BroadcastRequest{})
		if err == nil {
			t.Fatal("expected validation error for empty text")
		}
	})
}

func TestListMessages(t *testing.T) {
	ctx := context.Background()

	t.Run("enrolled students read the feed in order", func(t *testing.T) {
		f := newTestFixture(t)
		f.enroll(t, f.student.ID, f.course.ID)

		for _, text := range []string{"first", "second"} {
			if _, err := f.broadcast.Send(ctx, f.course.ID, f.admin.ID, &models.BroadcastRequest{Text: text}); err != nil {
				t.Fatalf("Send failed: %v", err)
			}
			time.Sleep(time.Millisecond)
		}

		messages, err := f.broadcast.ListMessages(ctx, f.course.ID, f.student.ID)
		if err != nil {
			t.Fatalf("ListMessages failed: %v", err)
		}
		if len(messages) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(messages))
		}
		if messages[0].Text != "first" || messages[1].Text != "second" {
			t.Errorf("expected chronological order, got %q then %q", messages[0].Text, messages[1].Text)
		}
		for _, message := range messages {
			if message.CreatedAt.IsZero() {
				t.Errorf("message %q has no timestamp", message.Text)
			}
		}
	})

	t.Run("non-enrolled students are denied", func(t *testing.T) {
		f := newTestFixture(t)

		_, err := f.broadcast.ListMessages(ctx, f.course.ID, f.student.ID)
		if !IsPermissionError(err) {
			t.Errorf("expected permission error, got %v", err)
		}
	})

	t.Run("admins read any feed", func(t *testing.T) {
		f := newTestFixture(t)

		messages, err := f.broadcast.ListMessages(ctx, f.course.ID, f.admin.ID)
		if err != nil {
			t.Fatalf("ListMessages failed: %v", err)
		}
		if len(messages) != 0 {
			t.Errorf("expected empty feed, got %d messages", len(messages))
		}
	})
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want string
	}{
		{"short text untouched", "hello", 10, "hello"},
		{"ascii cut at limit", "abcdef", 3, "abc..."},
		{"multi-byte rune not split", "ééééé", 5, "éé..."},
		{"cut lands inside a rune", "日本語", 4, "日..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.text, tt.max)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.text, tt.max, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.text, tt.max)
			}
		})
	}
}
