package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestGetStats(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates catalog and enrollment totals", func(t *testing.T) {
		f := newTestFixture(t)
		other := f.addStudent(t, "student-2", "Riley", "riley@example.com")
		f.enroll(t, f.student.ID, f.course.ID)
		f.enroll(t, other.ID, f.course.ID)

		stats, err := f.dashboard.GetStats(ctx, f.admin.ID)
		if err != nil {
			t.Fatalf("GetStats failed: %v", err)
		}
		if stats.TotalCourses != 1 {
			t.Errorf("expected 1 course, got %d", stats.TotalCourses)
		}
		if stats.TotalStudents != 2 {
			t.Errorf("expected 2 students, got %d", stats.TotalStudents)
		}
		if stats.TotalEnrollments != 2 {
			t.Errorf("expected 2 enrollments, got %d", stats.TotalEnrollments)
		}
		if want := f.course.Price * 2; stats.TotalRevenue != want {
			t.Errorf("expected revenue %v, got %v", want, stats.TotalRevenue)
		}
		if len(stats.TopCourses) != 1 || stats.TopCourses[0].Enrolled != 2 {
			t.Errorf("unexpected top courses: %+v", stats.TopCourses)
		}
	})

	t.Run("denies students", func(t *testing.T) {
		f := newTestFixture(t)

		_, err := f.dashboard.GetStats(ctx, f.student.ID)
		if !IsPermissionError(err) {
			t.Errorf("expected permission error, got %v", err)
		}
	})
}

func TestGetEnrollmentTrends(t *testing.T) {
	ctx := context.Background()

	f := newTestFixture(t)
	f.enroll(t, f.student.ID, f.course.ID)

	trends, err := f.dashboard.GetEnrollmentTrends(ctx, f.admin.ID, 7)
	if err != nil {
		t.Fatalf("GetEnrollmentTrends failed: %v", err)
	}

	var total int64
	for _, day := range trends {
		total += day.Enrollments
	}
	if total != 1 {
		t.Errorf("expected 1 enrollment across the window, got %d", total)
	}
}

func TestExportRoster(t *testing.T) {
	ctx := context.Background()

	t.Run("renders a workbook with one row per enrollment", func(t *testing.T) {
		f := newTestFixture(t)
		other := f.addStudent(t, "student-2", "Riley", "riley@example.com")
		f.enroll(t, f.student.ID, f.course.ID)
		f.enroll(t, other.ID, f.course.ID)

		data, err := f.dashboard.ExportRoster(ctx, f.admin.ID)
		if err != nil {
			t.Fatalf("ExportRoster failed: %v", err)
		}

		workbook, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("exported bytes are not a valid workbook: %v", err)
		}
		defer workbook.Close()

		rows, err := workbook.GetRows("Roster")
		if err != nil {
			t.Fatalf("failed to read Roster sheet: %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("expected header plus 2 rows, got %d", len(rows))
		}
		if rows[0][0] != "Course ID" || rows[0][4] != "Email" {
			t.Errorf("unexpected header row: %v", rows[0])
		}
		for _, row := range rows[1:] {
			if row[0] != f.course.ID {
				t.Errorf("expected course %s in row, got %v", f.course.ID, row)
			}
		}
	})

	t.Run("denies students", func(t *testing.T) {
		f := newTestFixture(t)

		_, err := f.dashboard.ExportRoster(ctx, f.student.ID)
		if !IsPermissionError(err) {
			t.Errorf("expected permission error, got %v", err)
		}
	})
}
