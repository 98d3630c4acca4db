package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/repositories"
	"github.com/stelle-edu/learning-service/internal/services"
	"github.com/stelle-edu/learning-service/internal/utils"
)

type HandlerManager struct {
	authHandler         *AuthHandler
	courseHandler       *CourseHandler
	enrollmentHandler   *EnrollmentHandler
	progressHandler     *ProgressHandler
	broadcastHandler    *BroadcastHandler
	notificationHandler *NotificationHandler
	dashboardHandler    *DashboardHandler
	authMiddleware      *JWTAuthMiddleware
	serviceManager      services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	jwtSecret string,
	userRepo repositories.UserRepository,
) *HandlerManager {
	return &HandlerManager{
		authHandler:         NewAuthHandler(serviceManager.Auth(), logger),
		courseHandler:       NewCourseHandler(serviceManager.Catalog(), logger),
		enrollmentHandler:   NewEnrollmentHandler(serviceManager.Enrollment(), logger),
		progressHandler:     NewProgressHandler(serviceManager.Progress(), logger),
		broadcastHandler:    NewBroadcastHandler(serviceManager.Broadcast(), logger),
		notificationHandler: NewNotificationHandler(serviceManager.Notification(), logger),
		dashboardHandler:    NewDashboardHandler(serviceManager.Dashboard(), logger),
		authMiddleware:      NewJWTAuthMiddleware(jwtSecret, userRepo),
		serviceManager:      serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	// Public auth endpoints
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/signup", hm.authHandler.Signup)
		auth.POST("/login", hm.authHandler.Login)
	}

	// API v1 routes with authentication
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		v1.GET("/auth/me", hm.authHandler.Me)

		// Course catalog
		courses := v1.Group("/courses")
		{
			// Browse - all authenticated users
			courses.GET("", hm.courseHandler.ListCourses)
			courses.GET("/search", hm.courseHandler.SearchCourses)
			courses.GET("/:id", hm.courseHandler.GetCourse)

			// Catalog management - admins only
			courses.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.courseHandler.CreateCourse)
			courses.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.courseHandler.UpdateCourse)
			courses.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.courseHandler.DeleteCourse)

			// Checkout flow - students
			courses.POST("/:id/checkout", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.enrollmentHandler.InitiateCheckout)
			courses.POST("/:id/checkout/complete", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.enrollmentHandler.CompleteCheckout)
			courses.DELETE("/:id/checkout", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.enrollmentHandler.CancelCheckout)

			// Roster - admins only
			courses.GET("/:id/roster", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.enrollmentHandler.GetRoster)

			// Roadmap progress
			courses.GET("/:id/progress", hm.progressHandler.GetProgress)
			courses.POST("/:id/progress/toggle", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.progressHandler.ToggleStep)

			// Broadcast feed
			courses.GET("/:id/messages", hm.broadcastHandler.ListMessages)
			courses.POST("/:id/messages", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.broadcastHandler.SendBroadcast)
		}

		// Enrollments
		v1.GET("/enrollments", hm.enrollmentHandler.ListMyEnrollments)

		// Progress overview
		v1.GET("/progress", hm.progressHandler.ListMyProgress)

		// Notifications
		notifications := v1.Group("/notifications")
		{
			notifications.GET("", hm.notificationHandler.ListNotifications)
			notifications.POST("/read-all", hm.notificationHandler.MarkAllRead)
		}

		// Student directory - admins only
		v1.GET("/students", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.authHandler.ListStudents)

		// Admin dashboard
		dashboard := v1.Group("/dashboard")
		dashboard.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			dashboard.GET("/stats", hm.dashboardHandler.GetDashboardStats)
			dashboard.GET("/trends", hm.dashboardHandler.GetEnrollmentTrends)
			dashboard.GET("/roster/export", hm.dashboardHandler.ExportRoster)
		}
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"error":     err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "learning-service",
	})
}
