package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/repositories"
)

const topCoursesLimit = 5

type dashboardService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewDashboardService(repo repositories.Repository, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		logger: logger,
	}
}

func (s *dashboardService) GetStats(ctx context.Context, actorID string) (*models.DashboardStats, error) {
	s.logger.Info("Getting dashboard stats", "actor_id", actorID)

	if err := s.requireAdmin(ctx, actorID, "dashboard", "view_stats"); err != nil {
		return nil, err
	}

	totalCourses, err := s.repo.Dashboard().GetTotalCourses(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get total courses: %w", err)
	}

	totalStudents, err := s.repo.Dashboard().GetTotalStudents(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get total students: %w", err)
	}

	totalEnrollments, err := s.repo.Dashboard().GetTotalEnrollments(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get total enrollments: %w", err)
	}

	totalRevenue, err := s.repo.Dashboard().GetTotalRevenue(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get total revenue: %w", err)
	}

	topCourses, err := s.repo.Dashboard().GetTopCourses(ctx, nil, topCoursesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top courses: %w", err)
	}

	stats := &models.DashboardStats{
		TotalCourses:     totalCourses,
		TotalStudents:    totalStudents,
		TotalEnrollments: totalEnrollments,
		TotalRevenue:     roundFloat(totalRevenue, 2),
		TopCourses:       make([]models.CourseEnrollmentStat, len(topCourses)),
	}
	for i, course := range topCourses {
		stats.TopCourses[i] = models.CourseEnrollmentStat{
			CourseID:   course.CourseID,
			Title:      course.Title,
			Instructor: course.Instructor,
			Enrolled:   int(course.Enrolled),
			Revenue:    roundFloat(course.Revenue, 2),
		}
	}

	return stats, nil
}

func (s *dashboardService) GetEnrollmentTrends(ctx context.Context, actorID string, days int) ([]EnrollmentTrendResponse, error) {
	s.logger.Info("Getting enrollment trends", "actor_id", actorID, "days", days)

	if err := s.requireAdmin(ctx, actorID, "dashboard", "view_trends"); err != nil {
		return nil, err
	}

	if days <= 0 || days > 365 {
		days = 30
	}

	trends, err := s.repo.Dashboard().GetEnrollmentTrends(ctx, nil, days)
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment trends: %w", err)
	}

	response := make([]EnrollmentTrendResponse, len(trends))
	for i, trend := range trends {
		response[i] = EnrollmentTrendResponse{
			Date:        trend.Date,
			Enrollments: trend.Enrollments,
		}
	}
	return response, nil
}

// ExportRoster renders the full enrollment roster as an xlsx workbook
func (s *dashboardService) ExportRoster(ctx context.Context, actorID string) ([]byte, error) {
	s.logger.Info("Exporting roster", "actor_id", actorID)

	if err := s.requireAdmin(ctx, actorID, "dashboard", "export_roster"); err != nil {
		return nil, err
	}

	roster, err := s.repo.Dashboard().GetRoster(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}

	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Roster"
	file.SetSheetName(file.GetSheetName(0), sheet)

	headers := []string{"Course ID", "Course", "Student ID", "Student", "Email", "Enrolled At"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, entry := range roster {
		values := []interface{}{
			entry.CourseID,
			entry.CourseTitle,
			entry.StudentID,
			entry.StudentName,
			entry.StudentEmail,
			entry.EnrolledAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell: %w", err)
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write roster row: %w", err)
			}
		}
	}

	buffer, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buffer.Bytes(), nil
}

func (s *dashboardService) requireAdmin(ctx context.Context, actorID, resource, action string) error {
	isAdmin, err := s.repo.User().HasRole(ctx, nil, actorID, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("permission check failed: %w", err)
	}
	if !isAdmin {
		return NewPermissionError(actorID, "", resource, action, "admin role required")
	}
	return nil
}
