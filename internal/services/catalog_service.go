package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/agile-learning-aid/quiz-analytics-service/internal/models"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/repositories"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/utils"
	"github.com/google/uuid"
)

// CatalogService ingests quiz definitions from the authoring side and serves
// them to the grading engine. Definitions are immutable once created.
type CatalogService interface {
	CreateQuiz(ctx context.Context, req *CreateQuizRequest) (*models.QuizDefinition, error)
	GetQuiz(ctx context.Context, quizID string) (*models.QuizDefinition, error)
	ListQuizzesBySubject(ctx context.Context, subject string) ([]*models.QuizDefinition, error)
}

type catalogService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
}

func NewCatalogService(repo repositories.Repository, logger *slog.Logger, validator *utils.Validator) CatalogService {
	return &catalogService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// ===== REQUEST TYPES =====

type CreateQuestionRequest struct {
	Text          string                 `json:"text" validate:"required"`
	CorrectAnswer string                 `json:"correct_answer" validate:"required,max=500"`
	Topic         string                 `json:"topic" validate:"required,max=100"`
	Difficulty    models.DifficultyLevel `json:"difficulty" validate:"omitempty,difficulty_level"`
	Points        int                    `json:"points" validate:"min=0"`
}

type CreateQuizRequest struct {
	Title           string                  `json:"title" validate:"required,min=1,max=200"`
	Subject         string                  `json:"subject" validate:"required,min=1,max=100"`
	Description     *string                 `json:"description" validate:"omitempty,max=1000"`
	AllowedAttempts int                     `json:"allowed_attempts" validate:"min=0,max=10"`
	DueDate         *time.Time              `json:"due_date" validate:"omitempty,future_date"`
	CreatedBy       string                  `json:"created_by" validate:"required,max=100"`
	Questions       []CreateQuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

// ===== OPERATIONS =====

func (s *catalogService) CreateQuiz(ctx context.Context, req *CreateQuizRequest) (*models.QuizDefinition, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	allowedAttempts := req.AllowedAttempts
	if allowedAttempts == 0 {
		allowedAttempts = 1
	}

	quiz := &models.QuizDefinition{
		QuizID:          uuid.NewString(),
		Title:           req.Title,
		Subject:         req.Subject,
		Description:     req.Description,
		AllowedAttempts: allowedAttempts,
		DueDate:         req.DueDate,
		CreatedBy:       req.CreatedBy,
		Questions:       make([]models.Question, len(req.Questions)),
	}

	for i, q := range req.Questions {
		difficulty := q.Difficulty
		if difficulty == "" {
			difficulty = models.DifficultyMedium
		}
		points := q.Points
		if points == 0 {
			points = 1
		}
		quiz.Questions[i] = models.Question{
			Position:      i + 1,
			Text:          q.Text,
			CorrectAnswer: q.CorrectAnswer,
			Topic:         q.Topic,
			Difficulty:    difficulty,
			Points:        points,
		}
	}

	if err := s.repo.Quiz().Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("failed to store quiz: %w", err)
	}

	s.logger.Info("Quiz definition created",
		"quiz_id", quiz.QuizID,
		"subject", quiz.Subject,
		"questions", len(quiz.Questions))

	return quiz, nil
}

func (s *catalogService) GetQuiz(ctx context.Context, quizID string) (*models.QuizDefinition, error) {
	quiz, err := s.repo.Quiz().GetByPublicID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}
	return quiz, nil
}

func (s *catalogService) ListQuizzesBySubject(ctx context.Context, subject string) ([]*models.QuizDefinition, error) {
	quizzes, err := s.repo.Quiz().ListBySubject(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	return quizzes, nil
}
