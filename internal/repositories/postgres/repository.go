package postgres

import (
	"github.com/agile-learning-aid/quiz-analytics-service/internal/models"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	quiz    repositories.QuizRepository
	attempt repositories.AttemptRepository
	report  repositories.ReportRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		quiz:    NewQuizPostgreSQL(db),
		attempt: NewAttemptPostgreSQL(db),
		report:  NewReportPostgreSQL(db),
	}
}

func (r *repository) Quiz() repositories.QuizRepository {
	return r.quiz
}

func (r *repository) Attempt() repositories.AttemptRepository {
	return r.attempt
}

func (r *repository) Report() repositories.ReportRepository {
	return r.report
}

// AutoMigrate creates or updates the service's tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.QuizDefinition{},
		&models.Question{},
		&models.QuizAttempt{},
		&models.DiagnosticReport{},
	)
}
