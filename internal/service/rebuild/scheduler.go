package rebuild

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/heartmarshall/slide-relay/internal/worker"
)

// Task is one requested rebuild.
type Task struct {
	RequestedBy string
	RequestedAt time.Time
}

// Status describes the scheduler state and the outcome of the last run.
type Status struct {
	Pending    bool
	Running    bool
	LastTask   *Task
	LastReport *Report
	LastError  string
}

type rebuilder interface {
	Rebuild(ctx context.Context) (*Report, error)
	Running() bool
}

// Scheduler runs rebuilds on a background worker pool, at most one
// queued or running at a time.
type Scheduler struct {
	svc     rebuilder
	pool    *worker.Pool[Task]
	pending atomic.Bool
	now     func() time.Time
	log     *slog.Logger

	mu         sync.Mutex
	lastTask   *Task
	lastReport *Report
	lastErr    error
}

// NewScheduler creates a scheduler backed by a single-worker pool.
// metrics may be nil.
func NewScheduler(log *slog.Logger, svc rebuilder, metrics *worker.Metrics) *Scheduler {
	s := &Scheduler{
		svc: svc,
		now: time.Now,
		log: log.With("service", "rebuild_scheduler"),
	}
	s.pool = worker.NewPool(1, 1, s.run,
		worker.WithLogger[Task](log),
		worker.WithMetrics[Task](metrics),
		worker.OnFailure(func(t Task, err error) {
			s.log.Error("projection rebuild failed",
				slog.String("requested_by", t.RequestedBy),
				slog.String("error", err.Error()),
			)
		}),
	)
	return s
}

// Start launches the background worker.
func (s *Scheduler) Start(ctx context.Context) error {
	return s.pool.Start(ctx)
}

// Stop waits up to timeout for a running rebuild to finish.
func (s *Scheduler) Stop(timeout time.Duration) error {
	return s.pool.Stop(timeout)
}

// Schedule queues a rebuild. ErrAlreadyRunning is returned while another
// one is queued or running.
func (s *Scheduler) Schedule(requestedBy string) (Task, error) {
	if s.svc.Running() || !s.pending.CompareAndSwap(false, true) {
		return Task{}, ErrAlreadyRunning
	}
	t := Task{RequestedBy: requestedBy, RequestedAt: s.now()}
	if err := s.pool.Submit(t); err != nil {
		s.pending.Store(false)
		if errors.Is(err, worker.ErrQueueFull) {
			return Task{}, ErrAlreadyRunning
		}
		return Task{}, fmt.Errorf("schedule rebuild: %w", err)
	}
	s.log.Info("projection rebuild scheduled", slog.String("requested_by", requestedBy))
	return t, nil
}

// Status returns a snapshot of the scheduler state.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Pending:    s.pending.Load(),
		Running:    s.svc.Running(),
		LastTask:   s.lastTask,
		LastReport: s.lastReport,
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

func (s *Scheduler) run(ctx context.Context, t Task) error {
	defer s.pending.Store(false)

	report, err := s.svc.Rebuild(ctx)

	s.mu.Lock()
	s.lastTask = &t
	s.lastReport = report
	s.lastErr = err
	s.mu.Unlock()

	return err
}
