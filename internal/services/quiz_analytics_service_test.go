package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/agile-learning-aid/quiz-analytics-service/internal/events"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestQuizAnalyticsService_GetQuizAnalytics(t *testing.T) {
	ctx := context.Background()

	t.Run("folds attempts across students", func(t *testing.T) {
		repo := newMemoryRepository()
		quiz := seedQuiz(t, repo, "Math", []string{"Algebra", "Geometry"})
		grading := NewGradingService(repo, testLogger(), utils.NewValidator(), events.NewNoopPublisher(), &recordingScheduler{})

		// student-1: both correct; student-2: one correct.
		_, err := grading.SubmitAttempt(ctx, &SubmitAttemptRequest{
			QuizID: quiz.QuizID, StudentID: "student-1",
			Answers: []SubmittedAnswer{
				{QuestionID: quiz.Questions[0].ID, SelectedAnswer: "A"},
				{QuestionID: quiz.Questions[1].ID, SelectedAnswer: "A"},
			},
			TimeSpentSeconds: 100,
		})
		require.NoError(t, err)
		_, err = grading.SubmitAttempt(ctx, &SubmitAttemptRequest{
			QuizID: quiz.QuizID, StudentID: "student-2",
			Answers: []SubmittedAnswer{
				{QuestionID: quiz.Questions[0].ID, SelectedAnswer: "A"},
				{QuestionID: quiz.Questions[1].ID, SelectedAnswer: "wrong"},
			},
			TimeSpentSeconds: 200,
		})
		require.NoError(t, err)

		svc := NewQuizAnalyticsService(repo, testLogger())
		result, err := svc.GetQuizAnalytics(ctx, quiz.QuizID)
		require.NoError(t, err)

		assert.Equal(t, 2, result.TotalAttempts)
		assert.Equal(t, 2, result.UniqueStudents)
		assert.Equal(t, 75.0, result.AverageScore)
		assert.Equal(t, 100.0, result.HighestScore)
		assert.Equal(t, 50.0, result.LowestScore)
		assert.Equal(t, 150, result.AverageTimeSpent)

		require.Len(t, result.QuestionStats, 2)
		assert.Equal(t, 100.0, result.QuestionStats[0].CorrectRate)
		assert.Equal(t, 50.0, result.QuestionStats[1].CorrectRate)

		var bucketed int
		for _, bucket := range result.ScoreDistribution {
			bucketed += bucket.Count
		}
		assert.Equal(t, 2, bucketed)

		require.Len(t, result.Attempts, 2)
		students := []string{result.Attempts[0].StudentID, result.Attempts[1].StudentID}
		assert.ElementsMatch(t, []string{"student-1", "student-2"}, students)
	})

	t.Run("zero attempts", func(t *testing.T) {
		repo := newMemoryRepository()
		quiz := seedQuiz(t, repo, "Math", []string{"Algebra"})

		svc := NewQuizAnalyticsService(repo, testLogger())
		result, err := svc.GetQuizAnalytics(ctx, quiz.QuizID)
		require.NoError(t, err)

		assert.Equal(t, 0, result.TotalAttempts)
		assert.Equal(t, 0, result.UniqueStudents)
		assert.Equal(t, 0.0, result.AverageScore)
		require.Len(t, result.QuestionStats, 1)
		assert.Equal(t, 0, result.QuestionStats[0].TotalCount)
	})

	t.Run("unknown quiz", func(t *testing.T) {
		svc := NewQuizAnalyticsService(newMemoryRepository(), testLogger())
		_, err := svc.GetQuizAnalytics(ctx, uuid.NewString())
		assert.ErrorIs(t, err, ErrQuizNotFound)
	})
}

func TestQuizAnalyticsService_ExportQuizAnalytics(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	quiz := seedQuiz(t, repo, "Math", []string{"Algebra"})
	grading := NewGradingService(repo, testLogger(), utils.NewValidator(), events.NewNoopPublisher(), &recordingScheduler{})

	_, err := grading.SubmitAttempt(ctx, &SubmitAttemptRequest{
		QuizID: quiz.QuizID, StudentID: "student-1",
		Answers: []SubmittedAnswer{{QuestionID: quiz.Questions[0].ID, SelectedAnswer: "A"}},
	})
	require.NoError(t, err)

	svc := NewQuizAnalyticsService(repo, testLogger())
	data, err := svc.ExportQuizAnalytics(ctx, quiz.QuizID)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Unit Quiz", title)

	attempts, err := f.GetCellValue("Summary", "B3")
	require.NoError(t, err)
	assert.Equal(t, "1", attempts)

	topic, err := f.GetCellValue("Questions", "C2")
	require.NoError(t, err)
	assert.Equal(t, "Algebra", topic)

	topicRow, err := f.GetCellValue("Topics", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Algebra", topicRow)

	student, err := f.GetCellValue("Attempts", "A2")
	require.NoError(t, err)
	assert.Equal(t, "student-1", student)
}
