package analytics

import (
	"fmt"
	"sort"

	"github.com/agile-learning-aid/quiz-analytics-service/internal/models"
)

// Classification thresholds, in accuracy percent unless noted.
const (
	strengthThreshold       = 80
	highConfidenceThreshold = 90
	weaknessThreshold       = 60
	criticalThreshold       = 40
	highRiskThreshold       = 50
	slowResponseSeconds     = 120
)

// Categories is the four-way SWOT classification of a topic-stats map. The
// four lists are populated by independent rule sets: a topic may appear in
// more than one list, and Opportunity/Threat rules can each emit twice for
// the same topic. That duplication is deliberate and carried through to the
// stored report.
type Categories struct {
	Strengths     []models.StrengthEntry
	Weaknesses    []models.WeaknessEntry
	Opportunities []models.OpportunityEntry
	Threats       []models.ThreatEntry
}

// Categorize applies the threshold rules to per-topic statistics. Topics are
// visited in sorted order so repeated runs over the same history produce
// identical reports; beyond the documented strength/weakness sorting no
// ranking is promised for opportunities and threats.
func Categorize(stats map[string]*TopicStats) Categories {
	var c Categories

	for _, topic := range sortedTopics(stats) {
		ts := stats[topic]

		if ts.AccuracyPercent >= strengthThreshold {
			confidence := models.ConfidenceMedium
			if ts.AccuracyPercent >= highConfidenceThreshold {
				confidence = models.ConfidenceHigh
			}
			c.Strengths = append(c.Strengths, models.StrengthEntry{
				Topic:           topic,
				AccuracyPercent: Round2(ts.AccuracyPercent),
				Confidence:      confidence,
				Description:     fmt.Sprintf("Excellent performance in %s with %.1f%% accuracy", topic, ts.AccuracyPercent),
			})
		}

		if ts.AccuracyPercent < weaknessThreshold {
			c.Weaknesses = append(c.Weaknesses, models.WeaknessEntry{
				Topic:           topic,
				AccuracyPercent: Round2(ts.AccuracyPercent),
				ErrorPattern:    errorPattern(ts),
				Description:     fmt.Sprintf("Struggling with %s - %.1f%% accuracy", topic, ts.AccuracyPercent),
				Suggestion:      improvementSuggestion(topic, ts),
			})
		}

		if ts.AccuracyPercent >= weaknessThreshold && ts.AccuracyPercent < strengthThreshold {
			priority := models.PriorityMedium
			if ts.Trend == models.TrendImproving {
				priority = models.PriorityHigh
			}
			c.Opportunities = append(c.Opportunities, models.OpportunityEntry{
				Kind:        models.OpportunityBand,
				Topic:       topic,
				Description: fmt.Sprintf("Potential for improvement in %s", topic),
				ActionPlan:  "Focus on practice problems and review incorrect answers",
				Priority:    priority,
			})
		}
		if ts.Trend == models.TrendImproving {
			c.Opportunities = append(c.Opportunities, models.OpportunityEntry{
				Kind:        models.OpportunityTrend,
				Topic:       topic,
				Description: fmt.Sprintf("Showing improvement trend in %s", topic),
				ActionPlan:  "Continue current study approach and increase practice frequency",
				Priority:    models.PriorityHigh,
			})
		}

		if ts.Trend == models.TrendDeclining {
			risk := models.RiskMedium
			if ts.AccuracyPercent < highRiskThreshold {
				risk = models.RiskHigh
			}
			c.Threats = append(c.Threats, models.ThreatEntry{
				Kind:        models.ThreatTrend,
				Topic:       topic,
				Description: fmt.Sprintf("Declining performance in %s", topic),
				RiskLevel:   risk,
				Mitigation:  "Immediate review and additional practice required",
			})
		}
		if ts.AccuracyPercent < criticalThreshold {
			c.Threats = append(c.Threats, models.ThreatEntry{
				Kind:        models.ThreatCritical,
				Topic:       topic,
				Description: fmt.Sprintf("Critical weakness in %s", topic),
				RiskLevel:   models.RiskHigh,
				Mitigation:  "Seek additional help and dedicate more study time",
			})
		}
	}

	// Best topics first for strengths, worst first for weaknesses.
	sort.SliceStable(c.Strengths, func(i, j int) bool {
		return c.Strengths[i].AccuracyPercent > c.Strengths[j].AccuracyPercent
	})
	sort.SliceStable(c.Weaknesses, func(i, j int) bool {
		return c.Weaknesses[i].AccuracyPercent < c.Weaknesses[j].AccuracyPercent
	})

	return c
}

func errorPattern(ts *TopicStats) string {
	switch {
	case ts.Trend == models.TrendDeclining:
		return "Declining performance"
	case ts.AverageResponseTimeSeconds > slowResponseSeconds:
		return "Time management issues"
	default:
		return "Consistent errors"
	}
}

func improvementSuggestion(topic string, ts *TopicStats) string {
	switch {
	case ts.AverageResponseTimeSeconds > slowResponseSeconds:
		return fmt.Sprintf("Practice time management for %s questions", topic)
	case ts.AccuracyPercent < criticalThreshold:
		return fmt.Sprintf("Review fundamental concepts in %s", topic)
	default:
		return fmt.Sprintf("Focus on practice problems in %s", topic)
	}
}

func sortedTopics(stats map[string]*TopicStats) []string {
	topics := make([]string, 0, len(stats))
	for topic := range stats {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}
