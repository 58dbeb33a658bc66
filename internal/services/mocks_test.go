package services

import (
	"sync"

	"github.com/agile-learning-aid/quiz-analytics-service/internal/repositories/memory"
)

func newMemoryRepository() *memory.Repository {
	return memory.NewRepository()
}

// recordingScheduler captures recompute handoffs from the grading service.
type recordingScheduler struct {
	mu       sync.Mutex
	requests []RecomputeRequest
}

func (s *recordingScheduler) Enqueue(studentID, subject string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, RecomputeRequest{StudentID: studentID, Subject: subject})
}

func (s *recordingScheduler) all() []RecomputeRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecomputeRequest(nil), s.requests...)
}
