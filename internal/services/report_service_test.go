package services

import (
	"context"
	"testing"
	"time"

	"github.com/agile-learning-aid/quiz-analytics-service/internal/events"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/models"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/repositories/memory"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportEnv(t *testing.T) (*memory.Repository, *events.MockEventPublisher, ReportService) {
	t.Helper()
	repo := newMemoryRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	svc := NewReportService(repo, testLogger(), nil, publisher)
	return repo, publisher, svc
}

// submitAlgebraAttempts drives the full pipeline: a 5-question algebra quiz,
// attempt one with 3 correct and attempt two with 5 correct.
func submitAlgebraAttempts(t *testing.T, repo *memory.Repository) {
	t.Helper()
	ctx := context.Background()
	quiz := seedQuiz(t, repo, "Math", []string{"Algebra", "Algebra", "Algebra", "Algebra", "Algebra"})
	grading := NewGradingService(repo, testLogger(), utils.NewValidator(), events.NewNoopPublisher(), &recordingScheduler{})

	answers := func(correct int) []SubmittedAnswer {
		out := make([]SubmittedAnswer, 5)
		for i := range out {
			selected := "wrong"
			if i < correct {
				selected = "A"
			}
			out[i] = SubmittedAnswer{QuestionID: quiz.Questions[i].ID, SelectedAnswer: selected, ResponseTimeSeconds: 30}
		}
		return out
	}

	first, err := grading.SubmitAttempt(ctx, &SubmitAttemptRequest{
		QuizID: quiz.QuizID, StudentID: "student-1", Answers: answers(3), TimeSpentSeconds: 300,
	})
	require.NoError(t, err)
	require.Equal(t, 60.0, first.Percentage)

	second, err := grading.SubmitAttempt(ctx, &SubmitAttemptRequest{
		QuizID: quiz.QuizID, StudentID: "student-1", Answers: answers(5), TimeSpentSeconds: 240,
	})
	require.NoError(t, err)
	require.Equal(t, 100.0, second.Percentage)
}

func TestReportService_Recompute(t *testing.T) {
	ctx := context.Background()

	t.Run("end to end aggregation into strengths", func(t *testing.T) {
		repo, publisher, svc := newReportEnv(t)
		submitAlgebraAttempts(t, repo)

		report, err := svc.Recompute(ctx, "student-1", "Math")
		require.NoError(t, err)
		require.NotNil(t, report)

		// 8 of 10 algebra answers correct -> 80% accuracy, medium confidence.
		require.Len(t, report.Strengths, 1)
		assert.Equal(t, "Algebra", report.Strengths[0].Topic)
		assert.Equal(t, 80.0, report.Strengths[0].AccuracyPercent)
		assert.Equal(t, models.ConfidenceMedium, report.Strengths[0].Confidence)
		assert.Empty(t, report.Weaknesses)

		overall := report.Overall.Data()
		assert.Equal(t, 2, overall.TotalQuizzes)
		assert.Equal(t, 80.0, overall.AverageScorePercent)
		assert.Equal(t, 540, overall.TotalTimeSpentSeconds)

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventReportRecomputed, published[0].Type)
	})

	t.Run("recompute is deterministic", func(t *testing.T) {
		repo, _, svc := newReportEnv(t)
		submitAlgebraAttempts(t, repo)

		first, err := svc.Recompute(ctx, "student-1", "Math")
		require.NoError(t, err)
		second, err := svc.Recompute(ctx, "student-1", "Math")
		require.NoError(t, err)

		assert.Equal(t, first.Strengths, second.Strengths)
		assert.Equal(t, first.Weaknesses, second.Weaknesses)
		assert.Equal(t, first.Opportunities, second.Opportunities)
		assert.Equal(t, first.Threats, second.Threats)
		assert.Equal(t, first.Recommendations, second.Recommendations)
		assert.Equal(t, first.Overall.Data(), second.Overall.Data())
	})

	t.Run("recompute replaces the stored report", func(t *testing.T) {
		repo, _, svc := newReportEnv(t)
		submitAlgebraAttempts(t, repo)

		_, err := svc.Recompute(ctx, "student-1", "Math")
		require.NoError(t, err)

		stored, err := repo.Report().GetByStudentAndSubject(ctx, "student-1", "Math")
		require.NoError(t, err)
		firstID := stored.ID

		_, err = svc.Recompute(ctx, "student-1", "Math")
		require.NoError(t, err)

		all, err := repo.Report().GetByStudent(ctx, "student-1")
		require.NoError(t, err)
		require.Len(t, all, 1, "at most one report per (student, subject)")
		assert.Equal(t, firstID, all[0].ID)
	})

	t.Run("zero attempts is a no-op", func(t *testing.T) {
		repo, publisher, svc := newReportEnv(t)

		report, err := svc.Recompute(ctx, "student-1", "Physics")
		require.NoError(t, err)
		assert.Nil(t, report)
		assert.Empty(t, publisher.GetPublishedEvents())

		_, err = repo.Report().GetByStudentAndSubject(ctx, "student-1", "Physics")
		assert.Error(t, err)
	})
}

func TestReportService_GetReport(t *testing.T) {
	ctx := context.Background()

	t.Run("not available before first recompute", func(t *testing.T) {
		_, _, svc := newReportEnv(t)
		_, err := svc.GetReport(ctx, "student-1", "Physics")
		assert.ErrorIs(t, err, ErrReportNotAvailable)
	})

	t.Run("returns the stored report", func(t *testing.T) {
		repo, _, svc := newReportEnv(t)
		submitAlgebraAttempts(t, repo)

		_, err := svc.Recompute(ctx, "student-1", "Math")
		require.NoError(t, err)

		report, err := svc.GetReport(ctx, "student-1", "Math")
		require.NoError(t, err)
		assert.Equal(t, "student-1", report.StudentID)
		assert.Equal(t, "Math", report.Subject)
		assert.WithinDuration(t, time.Now(), report.LastUpdated, 5*time.Second)
	})
}

func TestReportService_Listings(t *testing.T) {
	ctx := context.Background()
	repo, _, svc := newReportEnv(t)
	submitAlgebraAttempts(t, repo)

	_, err := svc.Recompute(ctx, "student-1", "Math")
	require.NoError(t, err)

	byStudent, err := svc.GetStudentReports(ctx, "student-1")
	require.NoError(t, err)
	assert.Len(t, byStudent, 1)

	bySubject, err := svc.GetReportsBySubject(ctx, "Math")
	require.NoError(t, err)
	assert.Len(t, bySubject, 1)

	empty, err := svc.GetReportsBySubject(ctx, "History")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
