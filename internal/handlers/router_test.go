package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agile-learning-aid/quiz-analytics-service/internal/events"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/models"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/repositories/memory"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/services"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncScheduler recomputes inline so HTTP tests can assert on report state
// without waiting on the background worker.
type syncScheduler struct {
	reports services.ReportService
}

func (s *syncScheduler) Enqueue(studentID, subject string) {
	s.reports.Recompute(context.Background(), studentID, subject) //nolint:errcheck
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	logger := utils.NewSlogLogger(slogger)
	repo := memory.NewRepository()
	validator := utils.NewValidator()
	publisher := events.NewNoopPublisher()

	reportService := services.NewReportService(repo, slogger, nil, publisher)
	gradingService := services.NewGradingService(repo, slogger, validator, publisher, &syncScheduler{reports: reportService})
	catalogService := services.NewCatalogService(repo, slogger, validator)
	analyticsService := services.NewQuizAnalyticsService(repo, slogger)

	router := gin.New()
	NewHandlerManager(gradingService, reportService, catalogService, analyticsService, validator, logger).SetupRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createQuizViaAPI(t *testing.T, router *gin.Engine) models.QuizDefinition {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/quizzes", services.CreateQuizRequest{
		Title:           "HTTP Quiz",
		Subject:         "Math",
		CreatedBy:       "teacher-1",
		AllowedAttempts: 5,
		Questions: []services.CreateQuestionRequest{
			{Text: "2+2", CorrectAnswer: "4", Topic: "Arithmetic"},
			{Text: "3*3", CorrectAnswer: "9", Topic: "Arithmetic"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var quiz models.QuizDefinition
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quiz))
	return quiz
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestRouter_SubmitAndReportFlow(t *testing.T) {
	router := newTestRouter(t)
	quiz := createQuizViaAPI(t, router)

	// Report is not available before any attempt.
	rec := doJSON(t, router, http.MethodGet, "/api/v1/students/student-1/report?subject=Math", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/attempts", services.SubmitAttemptRequest{
		QuizID:    quiz.QuizID,
		StudentID: "student-1",
		Answers: []services.SubmittedAnswer{
			{QuestionID: quiz.Questions[0].ID, SelectedAnswer: "4", ResponseTimeSeconds: 10},
			{QuestionID: quiz.Questions[1].ID, SelectedAnswer: "8", ResponseTimeSeconds: 15},
		},
		TimeSpentSeconds: 25,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var result services.AttemptResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 2, result.MaxScore)
	assert.Equal(t, 50.0, result.Percentage)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/students/student-1/report?subject=Math", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report models.DiagnosticReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "student-1", report.StudentID)
	require.Len(t, report.Weaknesses, 1)
	assert.Equal(t, "Arithmetic", report.Weaknesses[0].Topic)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/students/student-1/results", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/reports?subject=Math", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_SubmitRejections(t *testing.T) {
	router := newTestRouter(t)
	quiz := createQuizViaAPI(t, router)

	t.Run("unknown quiz is 404", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/attempts", services.SubmitAttemptRequest{
			QuizID:    uuid.NewString(),
			StudentID: "student-1",
			Answers:   []services.SubmittedAnswer{{QuestionID: 1, SelectedAnswer: "4"}},
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed payload is 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/attempts", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown question id is 400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/attempts", services.SubmitAttemptRequest{
			QuizID:    quiz.QuizID,
			StudentID: "student-1",
			Answers:   []services.SubmittedAnswer{{QuestionID: 9999, SelectedAnswer: "4"}},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_QuizEndpoints(t *testing.T) {
	router := newTestRouter(t)
	quiz := createQuizViaAPI(t, router)

	t.Run("definition strips correct answers", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/quizzes/"+quiz.QuizID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "correct_answer")
	})

	t.Run("analytics", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/quizzes/%s/analytics", quiz.QuizID), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var result services.QuizAnalytics
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, quiz.QuizID, result.QuizID)
	})

	t.Run("analytics export", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/quizzes/%s/analytics/export", quiz.QuizID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
	})

	t.Run("list requires subject", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/quizzes", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
