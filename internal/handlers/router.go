package handlers

import (
	"net/http"

	"github.com/agile-learning-aid/quiz-analytics-service/internal/services"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	attemptHandler *AttemptHandler
	reportHandler  *ReportHandler
	quizHandler    *QuizHandler
}

func NewHandlerManager(
	gradingService services.GradingService,
	reportService services.ReportService,
	catalogService services.CatalogService,
	analyticsService services.QuizAnalyticsService,
	validator *utils.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		attemptHandler: NewAttemptHandler(gradingService, validator, logger),
		reportHandler:  NewReportHandler(reportService, logger),
		quizHandler:    NewQuizHandler(catalogService, analyticsService, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "quiz-analytics-service",
		})
	})

	v1 := router.Group("/api/v1")
	{
		attempts := v1.Group("/attempts")
		{
			attempts.POST("", hm.attemptHandler.SubmitAttempt)
		}

		students := v1.Group("/students")
		{
			students.GET("/:student_id/results", hm.attemptHandler.GetStudentResults)
			students.GET("/:student_id/report", hm.reportHandler.GetReport)
			students.GET("/:student_id/reports", hm.reportHandler.GetStudentReports)
		}

		v1.GET("/reports", hm.reportHandler.GetReportsBySubject)

		quizzes := v1.Group("/quizzes")
		{
			quizzes.POST("", hm.quizHandler.CreateQuiz)
			quizzes.GET("", hm.quizHandler.ListQuizzes)
			quizzes.GET("/:id", hm.quizHandler.GetQuiz)
			quizzes.GET("/:id/analytics", hm.quizHandler.GetQuizAnalytics)
			quizzes.GET("/:id/analytics/export", hm.quizHandler.ExportQuizAnalytics)
		}
	}
}
