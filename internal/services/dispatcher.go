package services

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ReportScheduler is what the grading engine sees of the recompute machinery:
// a handoff that must never block or fail the submission path.
type ReportScheduler interface {
	Enqueue(studentID, subject string)
}

// RecomputeRequest identifies one (student, subject) report to rebuild.
type RecomputeRequest struct {
	StudentID string
	Subject   string
}

// RecomputeDispatcher runs report recomputes detached from the request that
// triggered them. Requests are dropped, not queued indefinitely, when the
// buffer is full; a failed recompute is logged and not retried. The next
// submission in the same subject schedules a fresh recompute anyway, so the
// stored report self-heals.
type RecomputeDispatcher struct {
	reports ReportService
	logger  *slog.Logger
	queue   chan RecomputeRequest
	timeout time.Duration

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

const (
	defaultQueueSize        = 256
	defaultRecomputeTimeout = 30 * time.Second
)

func NewRecomputeDispatcher(reports ReportService, logger *slog.Logger) *RecomputeDispatcher {
	return &RecomputeDispatcher{
		reports: reports,
		logger:  logger,
		queue:   make(chan RecomputeRequest, defaultQueueSize),
		timeout: defaultRecomputeTimeout,
	}
}

// Start launches the worker goroutine. Call once.
func (d *RecomputeDispatcher) Start() {
	d.wg.Add(1)
	go d.run()
}

// Enqueue schedules a recompute without blocking the caller. Requests are
// dropped with a warning when the queue is full or the dispatcher is stopped.
func (d *RecomputeDispatcher) Enqueue(studentID, subject string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		d.logger.Warn("Recompute dispatcher stopped, dropping request",
			"student_id", studentID,
			"subject", subject)
		return
	}
	select {
	case d.queue <- RecomputeRequest{StudentID: studentID, Subject: subject}:
	default:
		d.logger.Warn("Recompute queue full, dropping request",
			"student_id", studentID,
			"subject", subject)
	}
}

// Stop drains the queue and waits for the worker to finish.
func (d *RecomputeDispatcher) Stop() {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.queue)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *RecomputeDispatcher) run() {
	defer d.wg.Done()
	for req := range d.queue {
		d.recompute(req)
	}
}

func (d *RecomputeDispatcher) recompute(req RecomputeRequest) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Report recompute panicked",
				"student_id", req.StudentID,
				"subject", req.Subject,
				"panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	if _, err := d.reports.Recompute(ctx, req.StudentID, req.Subject); err != nil {
		d.logger.Error("Report recompute failed",
			"student_id", req.StudentID,
			"subject", req.Subject,
			"error", err)
	}
}
