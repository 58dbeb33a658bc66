package models

import (
	"time"

	"gorm.io/datatypes"
)

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

type PriorityLevel string

const (
	PriorityHigh   PriorityLevel = "high"
	PriorityMedium PriorityLevel = "medium"
	PriorityLow    PriorityLevel = "low"
)

type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// OpportunityKind tags which rule emitted an opportunity entry. Both rules
// are evaluated independently, so a topic can appear once per kind.
type OpportunityKind string

const (
	OpportunityBand  OpportunityKind = "band"  // accuracy in [60, 80)
	OpportunityTrend OpportunityKind = "trend" // improving trend, any accuracy
)

// ThreatKind tags which rule emitted a threat entry, same non-exclusive
// semantics as OpportunityKind.
type ThreatKind string

const (
	ThreatTrend    ThreatKind = "trend"    // declining trend
	ThreatCritical ThreatKind = "critical" // accuracy below 40
)

// PerformanceProfile summarizes a student's attempt history in one subject.
// Recomputed from scratch on every recompute, never updated incrementally.
type PerformanceProfile struct {
	TotalQuizzes          int     `json:"total_quizzes"`
	AverageScorePercent   float64 `json:"average_score_percent"`
	TotalTimeSpentSeconds int     `json:"total_time_spent_seconds"`
	Trend                 Trend   `json:"trend"`
}

type StrengthEntry struct {
	Topic           string          `json:"topic"`
	AccuracyPercent float64         `json:"accuracy_percent"`
	Confidence      ConfidenceLevel `json:"confidence"`
	Description     string          `json:"description"`
}

type WeaknessEntry struct {
	Topic           string  `json:"topic"`
	AccuracyPercent float64 `json:"accuracy_percent"`
	ErrorPattern    string  `json:"error_pattern"`
	Description     string  `json:"description"`
	Suggestion      string  `json:"suggestion"`
}

type OpportunityEntry struct {
	Kind        OpportunityKind `json:"kind"`
	Topic       string          `json:"topic"`
	Description string          `json:"description"`
	ActionPlan  string          `json:"action_plan"`
	Priority    PriorityLevel   `json:"priority"`
}

type ThreatEntry struct {
	Kind        ThreatKind `json:"kind"`
	Topic       string     `json:"topic"`
	Description string     `json:"description"`
	RiskLevel   RiskLevel  `json:"risk_level"`
	Mitigation  string     `json:"mitigation"`
}

type RecommendationEntry struct {
	Category   string        `json:"category"` // study_plan, time_management, focus_areas
	Suggestion string        `json:"suggestion"`
	Priority   PriorityLevel `json:"priority"`
}

// DiagnosticReport is the SWOT analysis for one (student, subject) pair.
// At most one row exists per pair; every recompute replaces the whole row.
type DiagnosticReport struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	StudentID string `json:"student_id" gorm:"not null;size:100;uniqueIndex:idx_reports_student_subject,priority:1"`
	Subject   string `json:"subject" gorm:"not null;size:100;uniqueIndex:idx_reports_student_subject,priority:2;index"`

	Overall datatypes.JSONType[PerformanceProfile] `json:"overall" gorm:"type:jsonb"`

	Strengths       datatypes.JSONSlice[StrengthEntry]       `json:"strengths" gorm:"type:jsonb"`
	Weaknesses      datatypes.JSONSlice[WeaknessEntry]       `json:"weaknesses" gorm:"type:jsonb"`
	Opportunities   datatypes.JSONSlice[OpportunityEntry]    `json:"opportunities" gorm:"type:jsonb"`
	Threats         datatypes.JSONSlice[ThreatEntry]         `json:"threats" gorm:"type:jsonb"`
	Recommendations datatypes.JSONSlice[RecommendationEntry] `json:"recommendations" gorm:"type:jsonb"`

	LastUpdated time.Time `json:"last_updated"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (DiagnosticReport) TableName() string {
	return "diagnostic_reports"
}
