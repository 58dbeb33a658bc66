package analytics

import (
	"fmt"
	"strings"

	"github.com/agile-learning-aid/quiz-analytics-service/internal/models"
)

const (
	studyPlanTopics  = 3
	focusAreasTopics = 2
)

// Recommend derives the prioritized action list from the categorized output.
// Each rule fires independently; when none fires the list is empty, there is
// no fallback entry.
func Recommend(c Categories) []models.RecommendationEntry {
	var recs []models.RecommendationEntry

	if len(c.Weaknesses) > 0 {
		topics := make([]string, 0, studyPlanTopics)
		for _, w := range c.Weaknesses[:min(studyPlanTopics, len(c.Weaknesses))] {
			topics = append(topics, w.Topic)
		}
		recs = append(recs, models.RecommendationEntry{
			Category:   "study_plan",
			Suggestion: fmt.Sprintf("Prioritize studying: %s", strings.Join(topics, ", ")),
			Priority:   models.PriorityHigh,
		})
	}

	for _, w := range c.Weaknesses {
		if strings.Contains(w.ErrorPattern, "time") {
			recs = append(recs, models.RecommendationEntry{
				Category:   "time_management",
				Suggestion: "Practice timed exercises and improve question-solving speed",
				Priority:   models.PriorityMedium,
			})
			break
		}
	}

	if len(c.Opportunities) > 0 {
		topics := make([]string, 0, focusAreasTopics)
		for _, o := range c.Opportunities[:min(focusAreasTopics, len(c.Opportunities))] {
			topics = append(topics, o.Topic)
		}
		recs = append(recs, models.RecommendationEntry{
			Category:   "focus_areas",
			Suggestion: fmt.Sprintf("Capitalize on improving topics: %s", strings.Join(topics, ", ")),
			Priority:   models.PriorityMedium,
		})
	}

	return recs
}
