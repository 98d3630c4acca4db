package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/services"
	"github.com/stelle-edu/learning-service/internal/utils"
)

type BroadcastHandler struct {
	BaseHandler
	service services.BroadcastService
}

func NewBroadcastHandler(service services.BroadcastService, logger utils.Logger) *BroadcastHandler {
	return &BroadcastHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// SendBroadcast posts a broadcast to the course feed (admin only)
// @Summary Send broadcast
// @Tags broadcasts
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param request body models.BroadcastRequest true "Message payload"
// @Success 201 {object} models.ChatMessage
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /courses/{id}/messages [post]
func (h *BroadcastHandler) SendBroadcast(c *gin.Context) {
	courseID := c.Param("id")
	h.LogRequest(c, "Sending broadcast", "course_id", courseID)

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	var req models.BroadcastRequest
	if !h.bindJSON(c, &req) {
		return
	}

	message, err := h.service.Send(c.Request.Context(), courseID, userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// ListMessages returns the course feed for enrolled students and admins
// @Summary Course messages
// @Tags broadcasts
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {array} models.ChatMessage
// @Failure 403 {object} ErrorResponse "Not enrolled"
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /courses/{id}/messages [get]
func (h *BroadcastHandler) ListMessages(c *gin.Context) {
	courseID := c.Param("id")
	h.LogRequest(c, "Listing messages", "course_id", courseID)

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	messages, err := h.service.ListMessages(c.Request.Context(), courseID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}
