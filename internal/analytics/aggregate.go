// Package analytics holds the pure computation behind the diagnostic report:
// topic aggregation, overall summary, SWOT categorization and recommendation
// synthesis. Everything here is a deterministic function of an ordered
// attempt history; no clocks, no storage.
package analytics

import (
	"math"

	"github.com/agile-learning-aid/quiz-analytics-service/internal/models"
)

// Trend window sizes and bands. Topic trends compare the 3 most recent
// answers against the 3 before them; overall trends compare the most recent
// third of attempts against the oldest third.
const (
	topicTrendWindow   = 3
	topicTrendBand     = 0.10
	overallTrendBand   = 5.0
	overallTrendMinLen = 3
)

// TopicStats is the recomputed per-topic view of a student's history.
// Ephemeral: rebuilt on every recompute and never persisted on its own.
type TopicStats struct {
	Correct                    int
	Total                      int
	AccuracyPercent            float64
	AverageResponseTimeSeconds float64
	Trend                      models.Trend
}

// AggregateTopics folds a student's attempt history, ordered most recent
// first, into per-topic statistics. Only topics that actually occur in the
// answered questions appear in the result, so every entry has Total > 0.
func AggregateTopics(history []*models.QuizAttempt) map[string]*TopicStats {
	stats := make(map[string]*TopicStats)
	outcomes := make(map[string][]bool)
	responseTime := make(map[string]int)

	for _, attempt := range history {
		for _, answer := range attempt.Answers {
			ts, ok := stats[answer.Topic]
			if !ok {
				ts = &TopicStats{}
				stats[answer.Topic] = ts
			}
			ts.Total++
			if answer.IsCorrect {
				ts.Correct++
			}
			responseTime[answer.Topic] += answer.ResponseTimeSeconds
			// history is most-recent-first, so appending preserves
			// recency order across attempts
			outcomes[answer.Topic] = append(outcomes[answer.Topic], answer.IsCorrect)
		}
	}

	for topic, ts := range stats {
		ts.AccuracyPercent = float64(ts.Correct) / float64(ts.Total) * 100
		ts.AverageResponseTimeSeconds = float64(responseTime[topic]) / float64(ts.Total)
		ts.Trend = topicTrend(outcomes[topic])
	}

	return stats
}

// topicTrend classifies a most-recent-first outcome list. With fewer than
// two full windows the trend defaults to stable.
func topicTrend(outcomes []bool) models.Trend {
	recent := window(outcomes, 0, topicTrendWindow)
	older := window(outcomes, topicTrendWindow, 2*topicTrendWindow)
	if len(recent) == 0 || len(older) == 0 {
		return models.TrendStable
	}

	diff := correctRate(recent) - correctRate(older)
	switch {
	case diff > topicTrendBand:
		return models.TrendImproving
	case diff < -topicTrendBand:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

// Summarize computes the subject-level performance profile from an attempt
// history ordered most recent first.
func Summarize(history []*models.QuizAttempt) models.PerformanceProfile {
	profile := models.PerformanceProfile{
		TotalQuizzes: len(history),
		Trend:        models.TrendStable,
	}
	if len(history) == 0 {
		return profile
	}

	var percentageSum float64
	for _, attempt := range history {
		percentageSum += attempt.Percentage
		profile.TotalTimeSpentSeconds += attempt.TimeSpentSeconds
	}
	profile.AverageScorePercent = Round2(percentageSum / float64(len(history)))

	if len(history) >= overallTrendMinLen {
		third := (len(history) + 2) / 3
		recent := history[:third]
		older := history[len(history)-third:]

		diff := meanPercentage(recent) - meanPercentage(older)
		switch {
		case diff > overallTrendBand:
			profile.Trend = models.TrendImproving
		case diff < -overallTrendBand:
			profile.Trend = models.TrendDeclining
		}
	}

	return profile
}

func window(outcomes []bool, from, to int) []bool {
	if from >= len(outcomes) {
		return nil
	}
	if to > len(outcomes) {
		to = len(outcomes)
	}
	return outcomes[from:to]
}

func correctRate(outcomes []bool) float64 {
	correct := 0
	for _, ok := range outcomes {
		if ok {
			correct++
		}
	}
	return float64(correct) / float64(len(outcomes))
}

func meanPercentage(attempts []*models.QuizAttempt) float64 {
	var sum float64
	for _, attempt := range attempts {
		sum += attempt.Percentage
	}
	return sum / float64(len(attempts))
}

// Round2 rounds to two decimal places, the precision reports and attempt
// percentages are stored with.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
