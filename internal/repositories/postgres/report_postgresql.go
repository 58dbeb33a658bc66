package postgres

import (
	"context"

	"github.com/agile-learning-aid/quiz-analytics-service/internal/models"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReportPostgreSQL struct {
	db *gorm.DB
}

func NewReportPostgreSQL(db *gorm.DB) repositories.ReportRepository {
	return &ReportPostgreSQL{db: db}
}

// Upsert writes the report with whole-row replace semantics: the unique
// (student_id, subject) index resolves conflicts and every recomputed column
// overwrites the stored one. Last writer wins.
func (r ReportPostgreSQL) Upsert(ctx context.Context, report *models.DiagnosticReport) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "student_id"}, {Name: "subject"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"overall", "strengths", "weaknesses", "opportunities",
				"threats", "recommendations", "last_updated", "updated_at",
			}),
		}).
		Create(report).Error
}

func (r ReportPostgreSQL) GetByStudentAndSubject(ctx context.Context, studentID, subject string) (*models.DiagnosticReport, error) {
	var report models.DiagnosticReport
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND subject = ?", studentID, subject).
		First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r ReportPostgreSQL) GetByStudent(ctx context.Context, studentID string) ([]*models.DiagnosticReport, error) {
	var reports []*models.DiagnosticReport
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("last_updated DESC").
		Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (r ReportPostgreSQL) GetBySubject(ctx context.Context, subject string) ([]*models.DiagnosticReport, error) {
	var reports []*models.DiagnosticReport
	if err := r.db.WithContext(ctx).
		Where("subject = ?", subject).
		Order("student_id ASC, last_updated DESC").
		Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}
