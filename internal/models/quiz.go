package models

import (
	"time"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "Easy"
	DifficultyMedium DifficultyLevel = "Medium"
	DifficultyHard   DifficultyLevel = "Hard"
)

// QuizDefinition is the catalog entry the grading engine scores against.
// Definitions are published by the authoring service and immutable afterwards.
type QuizDefinition struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	QuizID string `json:"quiz_id" gorm:"not null;size:36;uniqueIndex"`

	Title       string  `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Subject     string  `json:"subject" gorm:"not null;size:100;index" validate:"required,min=1,max=100"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`

	AllowedAttempts int        `json:"allowed_attempts" gorm:"default:1" validate:"min=1,max=10"`
	DueDate         *time.Time `json:"due_date"`

	CreatedBy string    `json:"created_by" gorm:"not null;size:100;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Questions []Question `json:"questions" gorm:"foreignKey:QuizDefinitionID;constraint:OnDelete:CASCADE"`
}

type Question struct {
	ID               uint `json:"id" gorm:"primaryKey"`
	QuizDefinitionID uint `json:"quiz_definition_id" gorm:"not null;index"`
	Position         int  `json:"position" gorm:"not null"`

	Text          string          `json:"text" gorm:"not null;type:text" validate:"required"`
	CorrectAnswer string          `json:"correct_answer" gorm:"not null;size:500" validate:"required"`
	Topic         string          `json:"topic" gorm:"not null;size:100;index" validate:"required"`
	Difficulty    DifficultyLevel `json:"difficulty" gorm:"default:Medium" validate:"omitempty,oneof=Easy Medium Hard"`

	// Stored for authoring parity; scoring is equal-weight and ignores it.
	Points int `json:"points" gorm:"default:1" validate:"min=0"`
}

func (QuizDefinition) TableName() string {
	return "quiz_definitions"
}

func (Question) TableName() string {
	return "quiz_questions"
}
