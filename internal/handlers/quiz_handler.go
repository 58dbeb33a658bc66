package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/agile-learning-aid/quiz-analytics-service/internal/models"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/services"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	BaseHandler
	catalogService   services.CatalogService
	analyticsService services.QuizAnalyticsService
}

func NewQuizHandler(
	catalogService services.CatalogService,
	analyticsService services.QuizAnalyticsService,
	logger utils.Logger,
) *QuizHandler {
	return &QuizHandler{
		BaseHandler:      NewBaseHandler(logger),
		catalogService:   catalogService,
		analyticsService: analyticsService,
	}
}

// QuizQuestionView is the question as served to students: no correct answer.
type QuizQuestionView struct {
	ID         uint                   `json:"id"`
	Position   int                    `json:"position"`
	Text       string                 `json:"text"`
	Topic      string                 `json:"topic"`
	Difficulty models.DifficultyLevel `json:"difficulty"`
}

type QuizView struct {
	QuizID          string             `json:"quiz_id"`
	Title           string             `json:"title"`
	Subject         string             `json:"subject"`
	Description     *string            `json:"description,omitempty"`
	AllowedAttempts int                `json:"allowed_attempts"`
	DueDate         *time.Time         `json:"due_date,omitempty"`
	Questions       []QuizQuestionView `json:"questions"`
}

func toQuizView(quiz *models.QuizDefinition) QuizView {
	view := QuizView{
		QuizID:          quiz.QuizID,
		Title:           quiz.Title,
		Subject:         quiz.Subject,
		Description:     quiz.Description,
		AllowedAttempts: quiz.AllowedAttempts,
		DueDate:         quiz.DueDate,
		Questions:       make([]QuizQuestionView, len(quiz.Questions)),
	}
	for i, q := range quiz.Questions {
		view.Questions[i] = QuizQuestionView{
			ID:         q.ID,
			Position:   q.Position,
			Text:       q.Text,
			Topic:      q.Topic,
			Difficulty: q.Difficulty,
		}
	}
	return view
}

// CreateQuiz ingests a quiz definition into the catalog
// @Summary Ingest quiz definition
// @Description Stores a published quiz definition; definitions are immutable afterwards
// @Tags quizzes
// @Accept json
// @Produce json
// @Param quiz body services.CreateQuizRequest true "Quiz definition"
// @Success 201 {object} models.QuizDefinition
// @Failure 400 {object} ErrorResponse
// @Router /quizzes [post]
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req services.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Ingesting quiz definition", "subject", req.Subject, "title", req.Title)

	quiz, err := h.catalogService.CreateQuiz(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

// GetQuiz returns a quiz definition with correct answers stripped
// @Summary Get quiz definition
// @Tags quizzes
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} QuizView
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID := ParseStringIDParam(c, "id")
	if quizID == "" {
		return
	}

	quiz, err := h.catalogService.GetQuiz(c.Request.Context(), quizID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuizView(quiz))
}

// ListQuizzes lists quiz definitions for one subject
// @Summary List quizzes by subject
// @Tags quizzes
// @Produce json
// @Param subject query string true "Subject"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /quizzes [get]
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	subject := c.Query("subject")
	if subject == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "subject query parameter is required",
		})
		return
	}

	quizzes, err := h.catalogService.ListQuizzesBySubject(c.Request.Context(), subject)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	views := make([]QuizView, len(quizzes))
	for i, quiz := range quizzes {
		views[i] = toQuizView(quiz)
	}
	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Quizzes retrieved",
		Data:    views,
	})
}

// GetQuizAnalytics returns aggregate attempt statistics for one quiz
// @Summary Get quiz analytics
// @Description Cross-student aggregates: score distribution, per-question correct rates, topic breakdown
// @Tags quizzes
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} services.QuizAnalytics
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/analytics [get]
func (h *QuizHandler) GetQuizAnalytics(c *gin.Context) {
	quizID := ParseStringIDParam(c, "id")
	if quizID == "" {
		return
	}

	result, err := h.analyticsService.GetQuizAnalytics(c.Request.Context(), quizID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportQuizAnalytics downloads the quiz analytics as an xlsx workbook
// @Summary Export quiz analytics
// @Tags quizzes
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Quiz ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/analytics/export [get]
func (h *QuizHandler) ExportQuizAnalytics(c *gin.Context) {
	quizID := ParseStringIDParam(c, "id")
	if quizID == "" {
		return
	}

	data, err := h.analyticsService.ExportQuizAnalytics(c.Request.Context(), quizID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("quiz-analytics-%s.xlsx", quizID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		data)
}
