package handlers

import (
	"net/http"

	"github.com/agile-learning-aid/quiz-analytics-service/internal/services"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	BaseHandler
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   NewBaseHandler(logger),
		reportService: reportService,
	}
}

// GetReport returns the diagnostic report for one student in one subject
// @Summary Get diagnostic report
// @Description Returns the latest stored SWOT report for the (student, subject) pair
// @Tags reports
// @Produce json
// @Param student_id path string true "Student ID"
// @Param subject query string true "Subject"
// @Success 200 {object} models.DiagnosticReport
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /students/{student_id}/report [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	studentID := ParseStringIDParam(c, "student_id")
	if studentID == "" {
		return
	}
	subject := c.Query("subject")
	if subject == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "subject query parameter is required",
		})
		return
	}

	report, err := h.reportService.GetReport(c.Request.Context(), studentID, subject)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetStudentReports returns all of a student's diagnostic reports
// @Summary Get all reports for a student
// @Tags reports
// @Produce json
// @Param student_id path string true "Student ID"
// @Success 200 {object} SuccessResponse
// @Router /students/{student_id}/reports [get]
func (h *ReportHandler) GetStudentReports(c *gin.Context) {
	studentID := ParseStringIDParam(c, "student_id")
	if studentID == "" {
		return
	}

	reports, err := h.reportService.GetStudentReports(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Reports retrieved",
		Data:    reports,
	})
}

// GetReportsBySubject returns all students' reports for one subject
// @Summary Get reports by subject
// @Description The teacher-facing view: diagnostic reports of every student with attempts in the subject
// @Tags reports
// @Produce json
// @Param subject query string true "Subject"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /reports [get]
func (h *ReportHandler) GetReportsBySubject(c *gin.Context) {
	subject := c.Query("subject")
	if subject == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "subject query parameter is required",
		})
		return
	}

	reports, err := h.reportService.GetReportsBySubject(c.Request.Context(), subject)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Reports retrieved",
		Data:    reports,
	})
}
