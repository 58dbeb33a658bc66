package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/agile-learning-aid/quiz-analytics-service/internal/analytics"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/events"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/models"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/repositories"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/utils"
	"github.com/google/uuid"
)

// GradingService scores submitted attempts against the quiz catalog and
// appends them to the attempt history.
type GradingService interface {
	SubmitAttempt(ctx context.Context, req *SubmitAttemptRequest) (*AttemptResult, error)
	GetStudentAttempts(ctx context.Context, studentID string, filters repositories.AttemptFilters) ([]*models.QuizAttempt, error)
}

type gradingService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
	publisher events.Publisher
	scheduler ReportScheduler
}

func NewGradingService(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *utils.Validator,
	publisher events.Publisher,
	scheduler ReportScheduler,
) GradingService {
	return &gradingService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		scheduler: scheduler,
	}
}

// ===== REQUEST / RESPONSE TYPES =====

type SubmittedAnswer struct {
	QuestionID          uint   `json:"question_id" validate:"required"`
	SelectedAnswer      string `json:"selected_answer"`
	ResponseTimeSeconds int    `json:"response_time_seconds" validate:"min=0"`
}

type SubmitAttemptRequest struct {
	QuizID           string            `json:"quiz_id" validate:"required,uuid"`
	StudentID        string            `json:"student_id" validate:"required,min=1,max=100"`
	Answers          []SubmittedAnswer `json:"answers" validate:"required,min=1,dive"`
	TimeSpentSeconds int               `json:"time_spent_seconds" validate:"min=0"`
	StartedAt        *time.Time        `json:"started_at"`
}

type AttemptResult struct {
	AttemptID        string              `json:"attempt_id"`
	QuizID           string              `json:"quiz_id"`
	StudentID        string              `json:"student_id"`
	Subject          string              `json:"subject"`
	Score            int                 `json:"score"`
	MaxScore         int                 `json:"max_score"`
	Percentage       float64             `json:"percentage"`
	TopicPerformance []models.TopicScore `json:"topic_performance"`
	SubmittedAt      time.Time           `json:"submitted_at"`
}

// ===== SUBMISSION =====

// SubmitAttempt grades a submission and stores the attempt. The diagnostic
// report recompute is scheduled, not awaited: the response reflects the
// attempt only, and the report catches up shortly after.
func (s *gradingService) SubmitAttempt(ctx context.Context, req *SubmitAttemptRequest) (*AttemptResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	quiz, err := s.repo.Quiz().GetByPublicID(ctx, req.QuizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}

	now := time.Now()
	if quiz.DueDate != nil && now.After(*quiz.DueDate) {
		return nil, ErrQuizPastDue
	}

	taken, err := s.repo.Attempt().CountByStudentAndQuiz(ctx, req.StudentID, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count attempts: %w", err)
	}
	if taken >= int64(quiz.AllowedAttempts) {
		return nil, ErrAttemptsExhausted
	}

	answers, topicPerformance, score, err := grade(quiz.Questions, req.Answers)
	if err != nil {
		return nil, err
	}

	maxScore := len(quiz.Questions)
	percentage := 0.0
	if maxScore > 0 {
		percentage = analytics.Round2(float64(score) / float64(maxScore) * 100)
	}

	startedAt := now.Add(-time.Duration(req.TimeSpentSeconds) * time.Second)
	if req.StartedAt != nil {
		startedAt = *req.StartedAt
	}

	attempt := &models.QuizAttempt{
		AttemptID:        uuid.NewString(),
		QuizID:           quiz.ID,
		StudentID:        req.StudentID,
		Subject:          quiz.Subject,
		Answers:          answers,
		TopicPerformance: topicPerformance,
		Score:            score,
		MaxScore:         maxScore,
		Percentage:       percentage,
		TimeSpentSeconds: req.TimeSpentSeconds,
		StartedAt:        startedAt,
		SubmittedAt:      now,
	}

	if err := s.repo.Attempt().Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to store attempt: %w", err)
	}

	s.logger.Info("Attempt graded",
		"attempt_id", attempt.AttemptID,
		"quiz_id", quiz.QuizID,
		"student_id", req.StudentID,
		"score", score,
		"max_score", maxScore)

	// Best effort: a broker outage must not fail the submission.
	event := events.NewAttemptGradedEvent(events.AttemptGradedEvent{
		AttemptID:  attempt.AttemptID,
		QuizID:     quiz.QuizID,
		StudentID:  req.StudentID,
		Subject:    quiz.Subject,
		Score:      score,
		MaxScore:   maxScore,
		Percentage: percentage,
	})
	if err := s.publisher.PublishAnalyticsEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish attempt graded event",
			"attempt_id", attempt.AttemptID,
			"error", err)
	}

	s.scheduler.Enqueue(req.StudentID, quiz.Subject)

	return &AttemptResult{
		AttemptID:        attempt.AttemptID,
		QuizID:           quiz.QuizID,
		StudentID:        req.StudentID,
		Subject:          quiz.Subject,
		Score:            score,
		MaxScore:         maxScore,
		Percentage:       percentage,
		TopicPerformance: topicPerformance,
		SubmittedAt:      now,
	}, nil
}

func (s *gradingService) GetStudentAttempts(ctx context.Context, studentID string, filters repositories.AttemptFilters) ([]*models.QuizAttempt, error) {
	if studentID == "" {
		return nil, NewValidationError("student_id", "is required", studentID)
	}
	attempts, err := s.repo.Attempt().GetByStudent(ctx, studentID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempts: %w", err)
	}
	return attempts, nil
}

// ===== SCORING =====

// grade matches submitted answers to questions by question id and scores them
// equal-weight: one point per question, unanswered counts as incorrect. A
// submission referencing an unknown question, or answering any question more
// than once, is malformed and rejected whole.
func grade(questions []models.Question, submitted []SubmittedAnswer) ([]models.AnsweredQuestion, []models.TopicScore, int, error) {
	if len(submitted) > len(questions) {
		return nil, nil, 0, ErrAttemptMalformed
	}

	byQuestion := make(map[uint]SubmittedAnswer, len(submitted))
	for _, answer := range submitted {
		if _, dup := byQuestion[answer.QuestionID]; dup {
			return nil, nil, 0, ErrAttemptMalformed
		}
		byQuestion[answer.QuestionID] = answer
	}

	known := make(map[uint]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}
	for id := range byQuestion {
		if !known[id] {
			return nil, nil, 0, ErrAttemptMalformed
		}
	}

	answers := make([]models.AnsweredQuestion, 0, len(questions))
	tally := make(map[string]*models.TopicScore)
	topicOrder := make([]string, 0)
	score := 0

	for _, q := range questions {
		sub, answered := byQuestion[q.ID]
		correct := answered && sub.SelectedAnswer == q.CorrectAnswer
		if correct {
			score++
		}

		answers = append(answers, models.AnsweredQuestion{
			QuestionID:          q.ID,
			SelectedAnswer:      sub.SelectedAnswer,
			IsCorrect:           correct,
			Topic:               q.Topic,
			ResponseTimeSeconds: sub.ResponseTimeSeconds,
		})

		ts, ok := tally[q.Topic]
		if !ok {
			ts = &models.TopicScore{Topic: q.Topic}
			tally[q.Topic] = ts
			topicOrder = append(topicOrder, q.Topic)
		}
		ts.Total++
		if correct {
			ts.Correct++
		}
	}

	topicPerformance := make([]models.TopicScore, 0, len(topicOrder))
	for _, topic := range topicOrder {
		ts := tally[topic]
		ts.Percentage = analytics.Round2(float64(ts.Correct) / float64(ts.Total) * 100)
		topicPerformance = append(topicPerformance, *ts)
	}

	return answers, topicPerformance, score, nil
}
