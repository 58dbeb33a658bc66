package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/agile-learning-aid/quiz-analytics-service/internal/analytics"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/models"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

// QuizAnalyticsService aggregates attempt data across students for one quiz:
// the teacher-facing view, as opposed to the per-student diagnostic report.
type QuizAnalyticsService interface {
	GetQuizAnalytics(ctx context.Context, quizID string) (*QuizAnalytics, error)
	ExportQuizAnalytics(ctx context.Context, quizID string) ([]byte, error)
}

type quizAnalyticsService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewQuizAnalyticsService(repo repositories.Repository, logger *slog.Logger) QuizAnalyticsService {
	return &quizAnalyticsService{
		repo:   repo,
		logger: logger,
	}
}

// ===== DATA STRUCTURES =====

type QuizAnalytics struct {
	QuizID            string              `json:"quiz_id"`
	Title             string              `json:"title"`
	Subject           string              `json:"subject"`
	TotalAttempts     int                 `json:"total_attempts"`
	UniqueStudents    int                 `json:"unique_students"`
	AverageScore      float64             `json:"average_score_percent"`
	HighestScore      float64             `json:"highest_score_percent"`
	LowestScore       float64             `json:"lowest_score_percent"`
	AverageTimeSpent  int                 `json:"average_time_spent_seconds"`
	QuestionStats     []QuestionStats      `json:"question_stats"`
	ScoreDistribution []ScoreBucket        `json:"score_distribution"`
	TopicBreakdown    []models.TopicScore  `json:"topic_breakdown"`
	Attempts          []AttemptPerformance `json:"student_performance"`
	GeneratedAt       time.Time            `json:"generated_at"`
}

// AttemptPerformance is one scored attempt in the teacher-facing breakdown.
type AttemptPerformance struct {
	AttemptID        string    `json:"attempt_id"`
	StudentID        string    `json:"student_id"`
	Score            int       `json:"score"`
	MaxScore         int       `json:"max_score"`
	Percentage       float64   `json:"percentage"`
	TimeSpentSeconds int       `json:"time_spent_seconds"`
	SubmittedAt      time.Time `json:"submitted_at"`
}

type QuestionStats struct {
	QuestionID   uint    `json:"question_id"`
	Position     int     `json:"position"`
	Text         string  `json:"text"`
	Topic        string  `json:"topic"`
	CorrectCount int     `json:"correct_count"`
	TotalCount   int     `json:"total_count"`
	CorrectRate  float64 `json:"correct_rate_percent"`
}

type ScoreBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

var scoreBucketRanges = []string{"0-19", "20-39", "40-59", "60-79", "80-100"}

// ===== ANALYTICS =====

func (s *quizAnalyticsService) GetQuizAnalytics(ctx context.Context, quizID string) (*QuizAnalytics, error) {
	quiz, err := s.repo.Quiz().GetByPublicID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}

	attempts, err := s.repo.Attempt().GetByQuiz(ctx, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempts: %w", err)
	}

	result := &QuizAnalytics{
		QuizID:            quiz.QuizID,
		Title:             quiz.Title,
		Subject:           quiz.Subject,
		TotalAttempts:     len(attempts),
		QuestionStats:     questionStats(quiz.Questions, attempts),
		ScoreDistribution: scoreDistribution(attempts),
		TopicBreakdown:    topicBreakdown(attempts),
		Attempts:          attemptPerformance(attempts),
		GeneratedAt:       time.Now(),
	}

	if len(attempts) == 0 {
		return result, nil
	}

	students := make(map[string]bool)
	var percentageSum float64
	var timeSum int
	highest, lowest := attempts[0].Percentage, attempts[0].Percentage

	for _, attempt := range attempts {
		students[attempt.StudentID] = true
		percentageSum += attempt.Percentage
		timeSum += attempt.TimeSpentSeconds
		if attempt.Percentage > highest {
			highest = attempt.Percentage
		}
		if attempt.Percentage < lowest {
			lowest = attempt.Percentage
		}
	}

	result.UniqueStudents = len(students)
	result.AverageScore = analytics.Round2(percentageSum / float64(len(attempts)))
	result.HighestScore = highest
	result.LowestScore = lowest
	result.AverageTimeSpent = timeSum / len(attempts)

	return result, nil
}

func questionStats(questions []models.Question, attempts []*models.QuizAttempt) []QuestionStats {
	stats := make([]QuestionStats, len(questions))
	index := make(map[uint]*QuestionStats, len(questions))
	for i, q := range questions {
		stats[i] = QuestionStats{
			QuestionID: q.ID,
			Position:   q.Position,
			Text:       q.Text,
			Topic:      q.Topic,
		}
		index[q.ID] = &stats[i]
	}

	for _, attempt := range attempts {
		for _, answer := range attempt.Answers {
			qs, ok := index[answer.QuestionID]
			if !ok {
				continue
			}
			qs.TotalCount++
			if answer.IsCorrect {
				qs.CorrectCount++
			}
		}
	}

	for i := range stats {
		if stats[i].TotalCount > 0 {
			stats[i].CorrectRate = analytics.Round2(float64(stats[i].CorrectCount) / float64(stats[i].TotalCount) * 100)
		}
	}
	return stats
}

func scoreDistribution(attempts []*models.QuizAttempt) []ScoreBucket {
	buckets := make([]ScoreBucket, len(scoreBucketRanges))
	for i, r := range scoreBucketRanges {
		buckets[i] = ScoreBucket{Range: r}
	}
	for _, attempt := range attempts {
		idx := int(attempt.Percentage) / 20
		if idx >= len(buckets) {
			idx = len(buckets) - 1
		}
		buckets[idx].Count++
	}
	return buckets
}

func attemptPerformance(attempts []*models.QuizAttempt) []AttemptPerformance {
	rows := make([]AttemptPerformance, 0, len(attempts))
	for _, attempt := range attempts {
		rows = append(rows, AttemptPerformance{
			AttemptID:        attempt.AttemptID,
			StudentID:        attempt.StudentID,
			Score:            attempt.Score,
			MaxScore:         attempt.MaxScore,
			Percentage:       attempt.Percentage,
			TimeSpentSeconds: attempt.TimeSpentSeconds,
			SubmittedAt:      attempt.SubmittedAt,
		})
	}
	return rows
}

func topicBreakdown(attempts []*models.QuizAttempt) []models.TopicScore {
	tally := make(map[string]*models.TopicScore)
	order := make([]string, 0)

	for _, attempt := range attempts {
		for _, answer := range attempt.Answers {
			ts, ok := tally[answer.Topic]
			if !ok {
				ts = &models.TopicScore{Topic: answer.Topic}
				tally[answer.Topic] = ts
				order = append(order, answer.Topic)
			}
			ts.Total++
			if answer.IsCorrect {
				ts.Correct++
			}
		}
	}

	breakdown := make([]models.TopicScore, 0, len(order))
	for _, topic := range order {
		ts := tally[topic]
		ts.Percentage = analytics.Round2(float64(ts.Correct) / float64(ts.Total) * 100)
		breakdown = append(breakdown, *ts)
	}
	return breakdown
}

// ===== EXPORT =====

// ExportQuizAnalytics renders the analytics as an Excel workbook: summary,
// per-question, per-topic and per-attempt sheets.
func (s *quizAnalyticsService) ExportQuizAnalytics(ctx context.Context, quizID string) ([]byte, error) {
	result, err := s.GetQuizAnalytics(ctx, quizID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Summary"
	f.SetSheetName("Sheet1", summarySheet)

	summaryRows := [][]interface{}{
		{"Quiz", result.Title},
		{"Subject", result.Subject},
		{"Total Attempts", result.TotalAttempts},
		{"Unique Students", result.UniqueStudents},
		{"Average Score (%)", result.AverageScore},
		{"Highest Score (%)", result.HighestScore},
		{"Lowest Score (%)", result.LowestScore},
		{"Average Time Spent (s)", result.AverageTimeSpent},
		{"Generated At", result.GeneratedAt.Format(time.RFC3339)},
	}
	for i, row := range summaryRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	const questionSheet = "Questions"
	if _, err := f.NewSheet(questionSheet); err != nil {
		return nil, fmt.Errorf("failed to create question sheet: %w", err)
	}
	header := []interface{}{"Position", "Question", "Topic", "Correct", "Total", "Correct Rate (%)"}
	if err := f.SetSheetRow(questionSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write question header: %w", err)
	}
	for i, qs := range result.QuestionStats {
		row := []interface{}{qs.Position, qs.Text, qs.Topic, qs.CorrectCount, qs.TotalCount, qs.CorrectRate}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(questionSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write question row: %w", err)
		}
	}

	const topicSheet = "Topics"
	if _, err := f.NewSheet(topicSheet); err != nil {
		return nil, fmt.Errorf("failed to create topic sheet: %w", err)
	}
	topicHeader := []interface{}{"Topic", "Correct", "Total", "Accuracy (%)"}
	if err := f.SetSheetRow(topicSheet, "A1", &topicHeader); err != nil {
		return nil, fmt.Errorf("failed to write topic header: %w", err)
	}
	for i, ts := range result.TopicBreakdown {
		row := []interface{}{ts.Topic, ts.Correct, ts.Total, ts.Percentage}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(topicSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write topic row: %w", err)
		}
	}

	const attemptSheet = "Attempts"
	if _, err := f.NewSheet(attemptSheet); err != nil {
		return nil, fmt.Errorf("failed to create attempt sheet: %w", err)
	}
	attemptHeader := []interface{}{"Student", "Score", "Max Score", "Percentage", "Time Spent (s)", "Submitted At"}
	if err := f.SetSheetRow(attemptSheet, "A1", &attemptHeader); err != nil {
		return nil, fmt.Errorf("failed to write attempt header: %w", err)
	}
	for i, ap := range result.Attempts {
		row := []interface{}{ap.StudentID, ap.Score, ap.MaxScore, ap.Percentage, ap.TimeSpentSeconds, ap.SubmittedAt.Format(time.RFC3339)}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(attemptSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write attempt row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.Info("Quiz analytics exported",
		"quiz_id", quizID,
		"attempts", result.TotalAttempts)

	return buf.Bytes(), nil
}
