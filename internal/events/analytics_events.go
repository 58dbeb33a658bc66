package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventAttemptGraded    EventType = "attempt.graded"
	EventReportRecomputed EventType = "report.recomputed"
)

const (
	eventSource  = "quiz-analytics-service"
	eventVersion = "1.0"
)

// AnalyticsEvent is the envelope for every event this service publishes.
type AnalyticsEvent struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// AttemptGradedEvent announces that an attempt was scored and stored.
type AttemptGradedEvent struct {
	AttemptID  string  `json:"attempt_id"`
	QuizID     string  `json:"quiz_id"`
	StudentID  string  `json:"student_id"`
	Subject    string  `json:"subject"`
	Score      int     `json:"score"`
	MaxScore   int     `json:"max_score"`
	Percentage float64 `json:"percentage"`
}

// ReportRecomputedEvent announces that a diagnostic report was rebuilt and
// the stored row replaced.
type ReportRecomputedEvent struct {
	StudentID          string `json:"student_id"`
	Subject            string `json:"subject"`
	AttemptCount       int    `json:"attempt_count"`
	StrengthCount      int    `json:"strength_count"`
	WeaknessCount      int    `json:"weakness_count"`
	OpportunityCount   int    `json:"opportunity_count"`
	ThreatCount        int    `json:"threat_count"`
	RecommendationCount int   `json:"recommendation_count"`
}

func NewAttemptGradedEvent(data AttemptGradedEvent) *AnalyticsEvent {
	return newEvent(EventAttemptGraded, data)
}

func NewReportRecomputedEvent(data ReportRecomputedEvent) *AnalyticsEvent {
	return newEvent(EventReportRecomputed, data)
}

func newEvent(eventType EventType, data interface{}) *AnalyticsEvent {
	return &AnalyticsEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    eventSource,
		Version:   eventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}
