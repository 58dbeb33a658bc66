package services

import (
	"context"
	"testing"
	"time"

	"github.com/agile-learning-aid/quiz-analytics-service/internal/models"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/repositories/memory"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogEnv(t *testing.T) (*memory.Repository, CatalogService) {
	t.Helper()
	repo := newMemoryRepository()
	return repo, NewCatalogService(repo, testLogger(), utils.NewValidator())
}

func validCreateQuizRequest() *CreateQuizRequest {
	return &CreateQuizRequest{
		Title:     "Fractions Basics",
		Subject:   "Math",
		CreatedBy: "teacher-1",
		Questions: []CreateQuestionRequest{
			{Text: "1/2 + 1/2 = ?", CorrectAnswer: "1", Topic: "Fractions"},
			{Text: "1/4 + 1/4 = ?", CorrectAnswer: "1/2", Topic: "Fractions", Difficulty: models.DifficultyHard, Points: 2},
		},
	}
}

func TestCatalogService_CreateQuiz(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with defaults", func(t *testing.T) {
		repo, svc := newCatalogEnv(t)

		quiz, err := svc.CreateQuiz(ctx, validCreateQuizRequest())
		require.NoError(t, err)

		assert.NotEmpty(t, quiz.QuizID)
		assert.Equal(t, 1, quiz.AllowedAttempts)
		require.Len(t, quiz.Questions, 2)
		assert.Equal(t, 1, quiz.Questions[0].Position)
		assert.Equal(t, models.DifficultyMedium, quiz.Questions[0].Difficulty)
		assert.Equal(t, 1, quiz.Questions[0].Points)
		assert.Equal(t, models.DifficultyHard, quiz.Questions[1].Difficulty)
		assert.Equal(t, 2, quiz.Questions[1].Points)

		stored, err := repo.Quiz().GetByPublicID(ctx, quiz.QuizID)
		require.NoError(t, err)
		assert.Equal(t, "Fractions Basics", stored.Title)
	})

	t.Run("rejects quiz without questions", func(t *testing.T) {
		_, svc := newCatalogEnv(t)
		req := validCreateQuizRequest()
		req.Questions = nil

		_, err := svc.CreateQuiz(ctx, req)
		assert.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("rejects due date in the past", func(t *testing.T) {
		_, svc := newCatalogEnv(t)
		req := validCreateQuizRequest()
		past := time.Now().Add(-24 * time.Hour)
		req.DueDate = &past

		_, err := svc.CreateQuiz(ctx, req)
		assert.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("accepts future due date", func(t *testing.T) {
		_, svc := newCatalogEnv(t)
		req := validCreateQuizRequest()
		future := time.Now().Add(24 * time.Hour)
		req.DueDate = &future

		quiz, err := svc.CreateQuiz(ctx, req)
		require.NoError(t, err)
		require.NotNil(t, quiz.DueDate)
	})
}

func TestCatalogService_GetQuiz(t *testing.T) {
	ctx := context.Background()
	_, svc := newCatalogEnv(t)

	created, err := svc.CreateQuiz(ctx, validCreateQuizRequest())
	require.NoError(t, err)

	quiz, err := svc.GetQuiz(ctx, created.QuizID)
	require.NoError(t, err)
	assert.Equal(t, created.QuizID, quiz.QuizID)

	_, err = svc.GetQuiz(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestCatalogService_ListQuizzesBySubject(t *testing.T) {
	ctx := context.Background()
	_, svc := newCatalogEnv(t)

	_, err := svc.CreateQuiz(ctx, validCreateQuizRequest())
	require.NoError(t, err)

	quizzes, err := svc.ListQuizzesBySubject(ctx, "Math")
	require.NoError(t, err)
	assert.Len(t, quizzes, 1)

	empty, err := svc.ListQuizzesBySubject(ctx, "History")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
