// Package worker runs background tasks on a bounded, supervised pool.
//
// Tasks are queued without blocking the submitter. A task that returns an
// error or panics is reported through the failure callback; the pool keeps
// running.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// Pool processes work items of type T with a fixed number of workers.
type Pool[T any] struct {
	workers   int
	queueSize int
	process   func(context.Context, T) error
	onSuccess func(T)
	onFailure func(T, error)

	queue   chan T
	wg      sync.WaitGroup
	metrics *Metrics
	log     *slog.Logger

	mu      sync.Mutex
	started bool
	stopped bool

	submitted atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

// Option configures a Pool.
type Option[T any] func(*Pool[T])

// WithMetrics records pool activity on m.
func WithMetrics[T any](m *Metrics) Option[T] {
	return func(p *Pool[T]) { p.metrics = m }
}

// WithLogger sets the pool logger.
func WithLogger[T any](log *slog.Logger) Option[T] {
	return func(p *Pool[T]) { p.log = log }
}

// OnSuccess registers a callback run after a task completes without error.
func OnSuccess[T any](fn func(T)) Option[T] {
	return func(p *Pool[T]) { p.onSuccess = fn }
}

// OnFailure registers a callback run after a task fails or panics.
func OnFailure[T any](fn func(T, error)) Option[T] {
	return func(p *Pool[T]) { p.onFailure = fn }
}

// NewPool creates a pool. Non-positive workers or queueSize default to 1 and 16.
func NewPool[T any](workers, queueSize int, process func(context.Context, T) error, opts ...Option[T]) *Pool[T] {
	if process == nil {
		panic("worker: nil process function")
	}
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 16
	}

	p := &Pool[T]{
		workers:   workers,
		queueSize: queueSize,
		process:   process,
		queue:     make(chan T, queueSize),
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With("component", "worker_pool")
	return p
}

// Start launches the workers. They exit when ctx is cancelled or Stop drains the queue.
func (p *Pool[T]) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return ErrAlreadyStarted
	}
	for range p.workers {
		p.wg.Add(1)
		go p.run(ctx)
	}
	p.started = true
	return nil
}

// Submit enqueues work without blocking.
func (p *Pool[T]) Submit(work T) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return ErrNotStarted
	}
	if p.stopped {
		return ErrStopped
	}

	select {
	case p.queue <- work:
		p.submitted.Add(1)
		p.metrics.submit(len(p.queue))
		return nil
	default:
		p.dropped.Add(1)
		p.metrics.drop()
		return ErrQueueFull
	}
}

// Stop stops accepting work and waits up to timeout for queued tasks to finish.
func (p *Pool[T]) Stop(timeout time.Duration) error {
	p.mu.Lock()
	if !p.started || p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	close(p.queue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		return ErrStopTimeout
	}
}

// Stats is a snapshot of pool counters.
type Stats struct {
	Workers    int
	QueueSize  int
	QueueDepth int
	Submitted  int64
	Processed  int64
	Failed     int64
	Dropped    int64
}

// Stats returns current pool counters.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Workers:    p.workers,
		QueueSize:  p.queueSize,
		QueueDepth: len(p.queue),
		Submitted:  p.submitted.Load(),
		Processed:  p.processed.Load(),
		Failed:     p.failed.Load(),
		Dropped:    p.dropped.Load(),
	}
}

func (p *Pool[T]) run(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case work, ok := <-p.queue:
			if !ok {
				return
			}
			p.metrics.dequeue(len(p.queue))

			start := time.Now()
			err := p.safeProcess(ctx, work)
			elapsed := time.Since(start)

			p.processed.Add(1)
			p.metrics.done(err, elapsed)

			if err != nil {
				p.failed.Add(1)
				p.log.Error("task failed",
					slog.String("error", err.Error()),
					slog.Duration("duration", elapsed),
				)
				if p.onFailure != nil {
					p.onFailure(work, err)
				}
				continue
			}
			if p.onSuccess != nil {
				p.onSuccess(work)
			}
		}
	}
}

func (p *Pool[T]) safeProcess(ctx context.Context, work T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("task panic recovered",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("worker: task panicked: %v", r)
		}
	}()
	return p.process(ctx, work)
}
