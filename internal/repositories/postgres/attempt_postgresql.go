package postgres

import (
	"context"

	"github.com/agile-learning-aid/quiz-analytics-service/internal/models"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/repositories"
	"gorm.io/gorm"
)

type AttemptPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{db: db}
}

func (a AttemptPostgreSQL) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	return a.db.WithContext(ctx).Create(attempt).Error
}

func (a AttemptPostgreSQL) CountByStudentAndQuiz(ctx context.Context, studentID string, quizID uint) (int64, error) {
	var count int64
	err := a.db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Where("student_id = ? AND quiz_id = ?", studentID, quizID).
		Count(&count).Error
	return count, err
}

func (a AttemptPostgreSQL) GetByStudentAndSubject(ctx context.Context, studentID, subject string) ([]*models.QuizAttempt, error) {
	var attempts []*models.QuizAttempt
	if err := a.db.WithContext(ctx).
		Where("student_id = ? AND subject = ?", studentID, subject).
		Order("submitted_at DESC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (a AttemptPostgreSQL) GetByStudent(ctx context.Context, studentID string, filters repositories.AttemptFilters) ([]*models.QuizAttempt, error) {
	query := a.db.WithContext(ctx).Where("student_id = ?", studentID)

	if filters.Subject != nil {
		query = query.Where("subject = ?", *filters.Subject)
	}
	if filters.DateFrom != nil {
		query = query.Where("submitted_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("submitted_at <= ?", *filters.DateTo)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	order := "submitted_at DESC"
	if filters.SortOrder == "asc" {
		order = "submitted_at ASC"
	}

	var attempts []*models.QuizAttempt
	if err := query.Order(order).Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (a AttemptPostgreSQL) GetByQuiz(ctx context.Context, quizID uint) ([]*models.QuizAttempt, error) {
	var attempts []*models.QuizAttempt
	if err := a.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("submitted_at DESC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}
