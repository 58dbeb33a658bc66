package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/agile-learning-aid/quiz-analytics-service/internal/repositories"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/services"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type AttemptHandler struct {
	BaseHandler
	gradingService services.GradingService
	validator      *utils.Validator
}

func NewAttemptHandler(
	gradingService services.GradingService,
	validator *utils.Validator,
	logger utils.Logger,
) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler:    NewBaseHandler(logger),
		gradingService: gradingService,
		validator:      validator,
	}
}

// SubmitAttempt grades a quiz submission and stores the attempt
// @Summary Submit quiz attempt
// @Description Grades a submission against the quiz definition and appends it to the student's history
// @Tags attempts
// @Accept json
// @Produce json
// @Param attempt body services.SubmitAttemptRequest true "Submission data"
// @Success 201 {object} services.AttemptResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /attempts [post]
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	var req services.SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Submitting attempt", "quiz_id", req.QuizID, "student_id", req.StudentID)

	result, err := h.gradingService.SubmitAttempt(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetStudentResults returns a student's scored attempts, most recent first
// @Summary Get student results
// @Description Lists the student's graded attempts with optional subject and date filters
// @Tags students
// @Produce json
// @Param student_id path string true "Student ID"
// @Param subject query string false "Subject filter"
// @Param limit query int false "Max results"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /students/{student_id}/results [get]
func (h *AttemptHandler) GetStudentResults(c *gin.Context) {
	studentID := ParseStringIDParam(c, "student_id")
	if studentID == "" {
		return
	}

	filters := repositories.AttemptFilters{
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}
	if subject := c.Query("subject"); subject != "" {
		filters.Subject = &subject
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid limit",
				Details: limitStr,
			})
			return
		}
		filters.Limit = limit
	}
	if fromStr := c.Query("date_from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid date_from",
				Details: fromStr,
			})
			return
		}
		filters.DateFrom = &from
	}
	if toStr := c.Query("date_to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid date_to",
				Details: toStr,
			})
			return
		}
		filters.DateTo = &to
	}

	attempts, err := h.gradingService.GetStudentAttempts(c.Request.Context(), studentID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Results retrieved",
		Data:    attempts,
	})
}
