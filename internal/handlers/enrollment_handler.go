package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stelle-edu/learning-service/internal/services"
	"github.com/stelle-edu/learning-service/internal/utils"
)

type EnrollmentHandler struct {
	BaseHandler
	service services.EnrollmentService
}

func NewEnrollmentHandler(service services.EnrollmentService, logger utils.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// InitiateCheckout starts the checkout flow for a course
// @Summary Initiate checkout
// @Tags enrollments
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} services.CheckoutResponse
// @Failure 404 {object} ErrorResponse "Course not found"
// @Failure 409 {object} ErrorResponse "Already enrolled or checkout in flight"
// @Router /courses/{id}/checkout [post]
func (h *EnrollmentHandler) InitiateCheckout(c *gin.Context) {
	courseID := c.Param("id")
	h.LogRequest(c, "Initiating checkout", "course_id", courseID)

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	checkout, err := h.service.InitiateCheckout(c.Request.Context(), userID, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, checkout)
}

// CompleteCheckout charges the payment and records the enrollment
// @Summary Complete checkout
// @Tags enrollments
// @Produce json
// @Param id path string true "Course ID"
// @Success 201 {object} services.EnrollmentResponse
// @Failure 402 {object} ErrorResponse "Payment failed"
// @Failure 409 {object} ErrorResponse "Already enrolled"
// @Router /courses/{id}/checkout/complete [post]
func (h *EnrollmentHandler) CompleteCheckout(c *gin.Context) {
	courseID := c.Param("id")
	h.LogRequest(c, "Completing checkout", "course_id", courseID)

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	enrollment, err := h.service.CompleteCheckout(c.Request.Context(), userID, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

// CancelCheckout releases a pending checkout reservation
// @Summary Cancel checkout
// @Tags enrollments
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} map[string]string
// @Router /courses/{id}/checkout [delete]
func (h *EnrollmentHandler) CancelCheckout(c *gin.Context) {
	courseID := c.Param("id")
	h.LogRequest(c, "Cancelling checkout", "course_id", courseID)

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	if err := h.service.CancelCheckout(c.Request.Context(), userID, courseID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "checkout cancelled"})
}

// ListMyEnrollments returns the caller's enrolled courses
// @Summary My enrollments
// @Tags enrollments
// @Produce json
// @Success 200 {array} services.EnrollmentResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /enrollments [get]
func (h *EnrollmentHandler) ListMyEnrollments(c *gin.Context) {
	h.LogRequest(c, "Listing enrollments")

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	enrollments, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollments)
}

// GetRoster returns enrolled students for a course (admin only)
// @Summary Course roster
// @Tags enrollments
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} services.RosterResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /courses/{id}/roster [get]
func (h *EnrollmentHandler) GetRoster(c *gin.Context) {
	courseID := c.Param("id")
	h.LogRequest(c, "Getting roster", "course_id", courseID)

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	roster, err := h.service.GetRoster(c.Request.Context(), courseID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, roster)
}
