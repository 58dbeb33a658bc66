package models

import (
	"time"

	"gorm.io/datatypes"
)

// AnsweredQuestion is one graded answer inside an attempt. Stored inline with
// the attempt as jsonb since answers are never queried individually.
type AnsweredQuestion struct {
	QuestionID          uint   `json:"question_id"`
	SelectedAnswer      string `json:"selected_answer"`
	IsCorrect           bool   `json:"is_correct"`
	Topic               string `json:"topic"`
	ResponseTimeSeconds int    `json:"response_time_seconds"`
}

// TopicScore is the per-topic tally for a single attempt.
type TopicScore struct {
	Topic      string  `json:"topic"`
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// QuizAttempt is one scored pass through a quiz by one student. Attempts are
// append-only: created by the grading engine, never updated or deleted.
type QuizAttempt struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	AttemptID string `json:"attempt_id" gorm:"not null;size:36;uniqueIndex"`

	QuizID    uint   `json:"quiz_id" gorm:"not null;index:idx_attempts_student_quiz,priority:2"`
	StudentID string `json:"student_id" gorm:"not null;size:100;index:idx_attempts_student_quiz,priority:1;index:idx_attempts_student_subject,priority:1"`
	// Denormalized from the quiz so history reads never join the catalog.
	Subject string `json:"subject" gorm:"not null;size:100;index:idx_attempts_student_subject,priority:2"`

	Answers          datatypes.JSONSlice[AnsweredQuestion] `json:"answers" gorm:"type:jsonb"`
	TopicPerformance datatypes.JSONSlice[TopicScore]       `json:"topic_performance" gorm:"type:jsonb"`

	Score            int     `json:"score" gorm:"not null"`
	MaxScore         int     `json:"max_score" gorm:"not null"`
	Percentage       float64 `json:"percentage" gorm:"not null"`
	TimeSpentSeconds int     `json:"time_spent_seconds" gorm:"not null"`

	StartedAt   time.Time `json:"started_at"`
	SubmittedAt time.Time `json:"submitted_at" gorm:"index"`

	// Relations
	Quiz QuizDefinition `json:"-" gorm:"foreignKey:QuizID"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
