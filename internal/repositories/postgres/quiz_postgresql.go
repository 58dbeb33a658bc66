package postgres

import (
	"context"

	"github.com/agile-learning-aid/quiz-analytics-service/internal/models"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/repositories"
	"gorm.io/gorm"
)

type QuizPostgreSQL struct {
	db *gorm.DB
}

func NewQuizPostgreSQL(db *gorm.DB) repositories.QuizRepository {
	return &QuizPostgreSQL{db: db}
}

func (q QuizPostgreSQL) Create(ctx context.Context, quiz *models.QuizDefinition) error {
	return q.db.WithContext(ctx).Create(quiz).Error
}

func (q QuizPostgreSQL) GetByPublicID(ctx context.Context, quizID string) (*models.QuizDefinition, error) {
	var quiz models.QuizDefinition
	if err := q.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("quiz_id = ?", quizID).
		First(&quiz).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (q QuizPostgreSQL) ListBySubject(ctx context.Context, subject string) ([]*models.QuizDefinition, error) {
	var quizzes []*models.QuizDefinition
	if err := q.db.WithContext(ctx).
		Where("subject = ?", subject).
		Order("created_at DESC").
		Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}
