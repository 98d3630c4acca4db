package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/services"
	"github.com/stelle-edu/learning-service/internal/utils"
)

type CourseHandler struct {
	BaseHandler
	service services.CatalogService
}

func NewCourseHandler(service services.CatalogService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ListCourses returns the paginated course catalog
// @Summary List courses
// @Tags courses
// @Produce json
// @Param page query int false "Page number (default: 0)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Param search query string false "Search in title, description, instructor"
// @Param instructor query string false "Filter by instructor"
// @Param sort_by query string false "Sort column"
// @Param sort_dir query string false "asc or desc"
// @Success 200 {object} models.PaginatedResponse
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	h.LogRequest(c, "Listing courses")

	params := parseListParams(c)

	response, err := h.service.List(c.Request.Context(), params)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// SearchCourses searches the catalog by free text
// @Summary Search courses
// @Tags courses
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {object} models.PaginatedResponse
// @Failure 400 {object} ErrorResponse "Missing query"
// @Router /courses/search [get]
func (h *CourseHandler) SearchCourses(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Missing search query"})
		return
	}

	h.LogRequest(c, "Searching courses", "query", query)

	response, err := h.service.Search(c.Request.Context(), query, parseListParams(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetCourse returns one course with the caller's enrollment state
// @Summary Get course
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} services.CourseResponse
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id := c.Param("id")
	h.LogRequest(c, "Getting course", "course_id", id)

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	course, err := h.service.GetByIDForUser(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// CreateCourse adds a course to the catalog (admin only)
// @Summary Create course
// @Tags courses
// @Accept json
// @Produce json
// @Param request body models.CourseCreateRequest true "Course payload"
// @Success 201 {object} models.Course
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	h.LogRequest(c, "Creating course")

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	var req models.CourseCreateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	course, err := h.service.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

// UpdateCourse updates catalog fields (admin only)
// @Summary Update course
// @Tags courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param request body models.CourseUpdateRequest true "Fields to update"
// @Success 200 {object} models.Course
// @Failure 404 {object} ErrorResponse "Course not found"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id := c.Param("id")
	h.LogRequest(c, "Updating course", "course_id", id)

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	var req models.CourseUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	course, err := h.service.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// DeleteCourse removes a course and its enrollments (admin only)
// @Summary Delete course
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 404 {object} ErrorResponse "Course not found"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id := c.Param("id")
	h.LogRequest(c, "Deleting course", "course_id", id)

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "course deleted"})
}

func parseListParams(c *gin.Context) models.ListCoursesParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	params := models.ListCoursesParams{
		Page:    page,
		Size:    size,
		Search:  c.Query("search"),
		SortBy:  c.Query("sort_by"),
		SortDir: c.Query("sort_dir"),
	}
	if instructor := c.Query("instructor"); instructor != "" {
		params.Instructor = &instructor
	}
	if category := c.Query("category"); category != "" {
		params.Category = &category
	}
	if trend := c.Query("trend"); trend != "" {
		courseTrend := models.CourseTrend(trend)
		params.Trend = &courseTrend
	}
	return params
}
