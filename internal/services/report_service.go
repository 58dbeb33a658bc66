package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/agile-learning-aid/quiz-analytics-service/internal/analytics"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/cache"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/events"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/models"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/repositories"
	"gorm.io/datatypes"
)

// ReportService owns the diagnostic report lifecycle: full recompute from the
// attempt history and reads of the stored result.
type ReportService interface {
	// Recompute rebuilds the (student, subject) report from scratch. With no
	// attempts on record it is a no-op returning (nil, nil).
	Recompute(ctx context.Context, studentID, subject string) (*models.DiagnosticReport, error)
	GetReport(ctx context.Context, studentID, subject string) (*models.DiagnosticReport, error)
	GetStudentReports(ctx context.Context, studentID string) ([]*models.DiagnosticReport, error)
	GetReportsBySubject(ctx context.Context, subject string) ([]*models.DiagnosticReport, error)
}

type reportService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	ops       *ServiceLogger
	cache     cache.CacheService
	publisher events.Publisher
}

const reportCacheTTL = time.Hour

// NewReportService builds the report service. cacheService may be nil; reads
// and recomputes then go straight to storage.
func NewReportService(
	repo repositories.Repository,
	logger *slog.Logger,
	cacheService cache.CacheService,
	publisher events.Publisher,
) ReportService {
	return &reportService{
		repo:      repo,
		logger:    logger,
		ops:       NewServiceLogger(logger, LogConfig{Service: "quiz-analytics", Component: "reports"}),
		cache:     cacheService,
		publisher: publisher,
	}
}

func reportCacheKey(studentID, subject string) string {
	return fmt.Sprintf("report:%s:%s", studentID, subject)
}

// ===== RECOMPUTE =====

func (s *reportService) Recompute(ctx context.Context, studentID, subject string) (report *models.DiagnosticReport, err error) {
	start := time.Now()
	defer func() {
		s.ops.LogOperation(ctx, "recompute", studentID, subject, time.Since(start), err)
	}()

	history, err := s.repo.Attempt().GetByStudentAndSubject(ctx, studentID, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempt history: %w", err)
	}
	if len(history) == 0 {
		s.logger.Debug("No attempts on record, skipping recompute",
			"student_id", studentID,
			"subject", subject)
		return nil, nil
	}

	stats := analytics.AggregateTopics(history)
	categories := analytics.Categorize(stats)
	recommendations := analytics.Recommend(categories)
	overall := analytics.Summarize(history)

	report = &models.DiagnosticReport{
		StudentID:       studentID,
		Subject:         subject,
		Overall:         datatypes.NewJSONType(overall),
		Strengths:       categories.Strengths,
		Weaknesses:      categories.Weaknesses,
		Opportunities:   categories.Opportunities,
		Threats:         categories.Threats,
		Recommendations: recommendations,
		LastUpdated:     time.Now(),
	}

	if err := s.repo.Report().Upsert(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to store report: %w", err)
	}

	s.logger.Info("Diagnostic report recomputed",
		"student_id", studentID,
		"subject", subject,
		"attempt_count", len(history),
		"strengths", len(categories.Strengths),
		"weaknesses", len(categories.Weaknesses))

	if s.cache != nil {
		if err := s.cache.Set(ctx, reportCacheKey(studentID, subject), report, reportCacheTTL); err != nil {
			s.logger.Warn("Failed to cache report", "student_id", studentID, "subject", subject, "error", err)
		}
	}

	event := events.NewReportRecomputedEvent(events.ReportRecomputedEvent{
		StudentID:           studentID,
		Subject:             subject,
		AttemptCount:        len(history),
		StrengthCount:       len(categories.Strengths),
		WeaknessCount:       len(categories.Weaknesses),
		OpportunityCount:    len(categories.Opportunities),
		ThreatCount:         len(categories.Threats),
		RecommendationCount: len(recommendations),
	})
	if err := s.publisher.PublishAnalyticsEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish report recomputed event",
			"student_id", studentID,
			"subject", subject,
			"error", err)
	}

	return report, nil
}

// ===== READS =====

func (s *reportService) GetReport(ctx context.Context, studentID, subject string) (*models.DiagnosticReport, error) {
	if s.cache != nil {
		var cached models.DiagnosticReport
		err := s.cache.Get(ctx, reportCacheKey(studentID, subject), &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("Report cache read failed", "student_id", studentID, "subject", subject, "error", err)
		}
	}

	report, err := s.repo.Report().GetByStudentAndSubject(ctx, studentID, subject)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrReportNotAvailable
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, reportCacheKey(studentID, subject), report, reportCacheTTL); err != nil {
			s.logger.Warn("Failed to cache report", "student_id", studentID, "subject", subject, "error", err)
		}
	}

	return report, nil
}

func (s *reportService) GetStudentReports(ctx context.Context, studentID string) ([]*models.DiagnosticReport, error) {
	reports, err := s.repo.Report().GetByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reports: %w", err)
	}
	return reports, nil
}

func (s *reportService) GetReportsBySubject(ctx context.Context, subject string) ([]*models.DiagnosticReport, error) {
	reports, err := s.repo.Report().GetBySubject(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to load reports: %w", err)
	}
	return reports, nil
}
