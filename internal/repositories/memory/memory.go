// Package memory provides an in-memory Repository implementation. It backs
// the test suites and is not wired into production builds.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/agile-learning-aid/quiz-analytics-service/internal/models"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/repositories"
	"gorm.io/gorm"
)

// Repository keeps all aggregates in process memory. Attempt history reads
// return most recent first, with insertion order breaking timestamp ties,
// mirroring the Postgres ordering.
type Repository struct {
	mu       sync.Mutex
	quizzes  []*models.QuizDefinition
	attempts []*models.QuizAttempt
	reports  map[string]*models.DiagnosticReport
	nextID   uint
}

func NewRepository() *Repository {
	return &Repository{
		reports: make(map[string]*models.DiagnosticReport),
		nextID:  1,
	}
}

func (r *Repository) Quiz() repositories.QuizRepository       { return (*quizRepo)(r) }
func (r *Repository) Attempt() repositories.AttemptRepository { return (*attemptRepo)(r) }
func (r *Repository) Report() repositories.ReportRepository   { return (*reportRepo)(r) }

func (r *Repository) allocID() uint {
	id := r.nextID
	r.nextID++
	return id
}

func reportKey(studentID, subject string) string {
	return studentID + "|" + subject
}

// ----- quiz repo -----

type quizRepo Repository

func (r *quizRepo) Create(ctx context.Context, quiz *models.QuizDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	quiz.ID = (*Repository)(r).allocID()
	for i := range quiz.Questions {
		quiz.Questions[i].ID = (*Repository)(r).allocID()
		quiz.Questions[i].QuizDefinitionID = quiz.ID
	}
	r.quizzes = append(r.quizzes, quiz)
	return nil
}

func (r *quizRepo) GetByPublicID(ctx context.Context, quizID string) (*models.QuizDefinition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.quizzes {
		if q.QuizID == quizID {
			return q, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *quizRepo) ListBySubject(ctx context.Context, subject string) ([]*models.QuizDefinition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.QuizDefinition
	for _, q := range r.quizzes {
		if q.Subject == subject {
			out = append(out, q)
		}
	}
	return out, nil
}

// ----- attempt repo -----

type attemptRepo Repository

func (r *attemptRepo) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	attempt.ID = (*Repository)(r).allocID()
	r.attempts = append(r.attempts, attempt)
	return nil
}

func (r *attemptRepo) CountByStudentAndQuiz(ctx context.Context, studentID string, quizID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, a := range r.attempts {
		if a.StudentID == studentID && a.QuizID == quizID {
			count++
		}
	}
	return count, nil
}

func (r *attemptRepo) GetByStudentAndSubject(ctx context.Context, studentID, subject string) ([]*models.QuizAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.QuizAttempt
	for _, a := range r.attempts {
		if a.StudentID == studentID && a.Subject == subject {
			out = append(out, a)
		}
	}
	sortMostRecentFirst(out)
	return out, nil
}

func (r *attemptRepo) GetByStudent(ctx context.Context, studentID string, filters repositories.AttemptFilters) ([]*models.QuizAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.QuizAttempt
	for _, a := range r.attempts {
		if a.StudentID != studentID {
			continue
		}
		if filters.Subject != nil && a.Subject != *filters.Subject {
			continue
		}
		if filters.DateFrom != nil && a.SubmittedAt.Before(*filters.DateFrom) {
			continue
		}
		if filters.DateTo != nil && a.SubmittedAt.After(*filters.DateTo) {
			continue
		}
		out = append(out, a)
	}
	if filters.SortOrder == "asc" {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].SubmittedAt.Before(out[j].SubmittedAt)
		})
	} else {
		sortMostRecentFirst(out)
	}
	if filters.Offset > 0 {
		if filters.Offset >= len(out) {
			out = nil
		} else {
			out = out[filters.Offset:]
		}
	}
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

func (r *attemptRepo) GetByQuiz(ctx context.Context, quizID uint) ([]*models.QuizAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.QuizAttempt
	for _, a := range r.attempts {
		if a.QuizID == quizID {
			out = append(out, a)
		}
	}
	sortMostRecentFirst(out)
	return out, nil
}

func sortMostRecentFirst(attempts []*models.QuizAttempt) {
	sort.SliceStable(attempts, func(i, j int) bool {
		if attempts[i].SubmittedAt.Equal(attempts[j].SubmittedAt) {
			return attempts[i].ID > attempts[j].ID
		}
		return attempts[i].SubmittedAt.After(attempts[j].SubmittedAt)
	})
}

// ----- report repo -----

type reportRepo Repository

func (r *reportRepo) Upsert(ctx context.Context, report *models.DiagnosticReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := reportKey(report.StudentID, report.Subject)
	if existing, ok := r.reports[key]; ok {
		report.ID = existing.ID
	} else {
		report.ID = (*Repository)(r).allocID()
	}
	stored := *report
	r.reports[key] = &stored
	return nil
}

func (r *reportRepo) GetByStudentAndSubject(ctx context.Context, studentID, subject string) (*models.DiagnosticReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if report, ok := r.reports[reportKey(studentID, subject)]; ok {
		copied := *report
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *reportRepo) GetByStudent(ctx context.Context, studentID string) ([]*models.DiagnosticReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.DiagnosticReport
	for _, report := range r.reports {
		if report.StudentID == studentID {
			copied := *report
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Subject < out[j].Subject })
	return out, nil
}

func (r *reportRepo) GetBySubject(ctx context.Context, subject string) ([]*models.DiagnosticReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.DiagnosticReport
	for _, report := range r.reports {
		if report.Subject == subject {
			copied := *report
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out, nil
}
