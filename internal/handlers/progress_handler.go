package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/services"
	"github.com/stelle-edu/learning-service/internal/utils"
)

type ProgressHandler struct {
	BaseHandler
	service services.ProgressService
}

func NewProgressHandler(service services.ProgressService, logger utils.Logger) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ToggleStep flips the completion state of a roadmap step
// @Summary Toggle roadmap step
// @Tags progress
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param request body models.ToggleStepRequest true "Step to toggle"
// @Success 200 {object} services.ProgressResponse
// @Failure 403 {object} ErrorResponse "Not enrolled"
// @Failure 422 {object} ErrorResponse "Step index out of range"
// @Router /courses/{id}/progress/toggle [post]
func (h *ProgressHandler) ToggleStep(c *gin.Context) {
	courseID := c.Param("id")
	h.LogRequest(c, "Toggling roadmap step", "course_id", courseID)

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	var req models.ToggleStepRequest
	if !h.bindJSON(c, &req) {
		return
	}

	progress, err := h.service.ToggleStep(c.Request.Context(), userID, courseID, req.StepIndex)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// GetProgress returns the caller's progress in one course
// @Summary Course progress
// @Tags progress
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} services.ProgressResponse
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /courses/{id}/progress [get]
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	courseID := c.Param("id")
	h.LogRequest(c, "Getting progress", "course_id", courseID)

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	progress, err := h.service.Get(c.Request.Context(), userID, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// ListMyProgress returns progress across every course the caller touched
// @Summary My progress
// @Tags progress
// @Produce json
// @Success 200 {array} services.ProgressResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /progress [get]
func (h *ProgressHandler) ListMyProgress(c *gin.Context) {
	h.LogRequest(c, "Listing progress")

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	progress, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}
