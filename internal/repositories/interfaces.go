package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/agile-learning-aid/quiz-analytics-service/internal/models"
	"gorm.io/gorm"
)

// Repository bundles the per-aggregate repositories behind one constructor
// so services take a single dependency.
type Repository interface {
	Quiz() QuizRepository
	Attempt() AttemptRepository
	Report() ReportRepository
}

type QuizRepository interface {
	Create(ctx context.Context, quiz *models.QuizDefinition) error
	// GetByPublicID loads a definition with its questions in authored order.
	GetByPublicID(ctx context.Context, quizID string) (*models.QuizDefinition, error)
	ListBySubject(ctx context.Context, subject string) ([]*models.QuizDefinition, error)
}

// AttemptRepository is append-only: attempts are created and read, never
// updated or deleted.
type AttemptRepository interface {
	Create(ctx context.Context, attempt *models.QuizAttempt) error
	CountByStudentAndQuiz(ctx context.Context, studentID string, quizID uint) (int64, error)
	// GetByStudentAndSubject returns the analytics history, most recent first.
	GetByStudentAndSubject(ctx context.Context, studentID, subject string) ([]*models.QuizAttempt, error)
	GetByStudent(ctx context.Context, studentID string, filters AttemptFilters) ([]*models.QuizAttempt, error)
	GetByQuiz(ctx context.Context, quizID uint) ([]*models.QuizAttempt, error)
}

type ReportRepository interface {
	// Upsert replaces the whole report row for (student, subject).
	Upsert(ctx context.Context, report *models.DiagnosticReport) error
	GetByStudentAndSubject(ctx context.Context, studentID, subject string) (*models.DiagnosticReport, error)
	GetByStudent(ctx context.Context, studentID string) ([]*models.DiagnosticReport, error)
	GetBySubject(ctx context.Context, subject string) ([]*models.DiagnosticReport, error)
}

type AttemptFilters struct {
	Subject   *string    `json:"subject"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	SortOrder string     `json:"sort_order"` // "asc", "desc" on submitted_at
}

// IsNotFoundError reports whether err is the storage layer's record-missing
// condition.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
