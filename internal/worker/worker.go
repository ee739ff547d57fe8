package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	// ErrBusy is returned by Submit while another job is in flight.
	ErrBusy = errors.New("a report is already being generated")
	// ErrStopped is returned by Submit when the worker is not running.
	ErrStopped = errors.New("render worker is not running")
)

// Job renders one report and returns the path of the written file.
type Job func(ctx context.Context) (string, error)

// Outcome is the result of one job.
type Outcome struct {
	Path string
	Err  error
}

type task struct {
	job Job
	out chan Outcome
}

// Worker runs one-shot jobs, one at a time, on a single background goroutine.
// A running job is never cancelled.
type Worker struct {
	mu      sync.Mutex
	started bool
	stopped bool
	closed  bool

	jobs   chan task
	busy   chan struct{}
	done   chan struct{}
	logger *zap.Logger
}

func New(logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		jobs:   make(chan task, 1),
		busy:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Start launches the worker goroutine. It stops taking jobs once ctx is done.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.stopped {
		return
	}
	w.started = true
	go w.loop(ctx)
}

// Submit hands job to the worker. The returned channel receives exactly one Outcome.
func (w *Worker) Submit(job Job) (<-chan Outcome, error) {
	slot, err := w.Reserve()
	if err != nil {
		return nil, err
	}
	return slot.Submit(job)
}

// Reservation holds the worker slot between Reserve and Submit or Release.
type Reservation struct {
	w    *Worker
	used bool
}

// Reserve claims the worker slot without handing it a job yet. Every
// successful Reserve must be followed by exactly one Submit or Release.
func (w *Worker) Reserve() (*Reservation, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started || w.stopped {
		return nil, ErrStopped
	}

	select {
	case w.busy <- struct{}{}:
	default:
		return nil, ErrBusy
	}
	return &Reservation{w: w}, nil
}

// Submit runs job in the reserved slot. The returned channel receives exactly one Outcome.
func (r *Reservation) Submit(job Job) (<-chan Outcome, error) {
	w := r.w
	w.mu.Lock()
	defer w.mu.Unlock()
	if r.used {
		return nil, errors.New("worker reservation already used")
	}
	r.used = true
	if w.stopped {
		<-w.busy
		return nil, ErrStopped
	}

	out := make(chan Outcome, 1)
	w.jobs <- task{job: job, out: out}
	return out, nil
}

// Release gives the slot back without running anything. It is a no-op after Submit.
func (r *Reservation) Release() {
	w := r.w
	w.mu.Lock()
	defer w.mu.Unlock()
	if r.used {
		return
	}
	r.used = true
	<-w.busy
}

// Busy reports whether a job is in flight.
func (w *Worker) Busy() bool {
	return len(w.busy) > 0
}

// Stop refuses new jobs and waits for the in-flight one to finish.
func (w *Worker) Stop() {
	w.mu.Lock()
	w.stopped = true
	if !w.closed {
		w.closed = true
		close(w.jobs)
	}
	started := w.started
	w.mu.Unlock()

	if started {
		<-w.done
	}
}

func (w *Worker) loop(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			w.shutdown()
			return
		case t, ok := <-w.jobs:
			if !ok {
				return
			}
			w.run(ctx, t)
		}
	}
}

// shutdown answers a job that was queued but never picked up.
func (w *Worker) shutdown() {
	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()

	select {
	case t, ok := <-w.jobs:
		if ok {
			<-w.busy
			t.out <- Outcome{Err: ErrStopped}
		}
	default:
	}
}

func (w *Worker) run(ctx context.Context, t task) {
	path, err := w.execute(context.WithoutCancel(ctx), t.job)
	<-w.busy
	t.out <- Outcome{Path: path, Err: err}
}

func (w *Worker) execute(ctx context.Context, job Job) (path string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render job panicked: %v", r)
			w.logger.Error("render job panicked", zap.Any("panic", r))
		}
	}()
	return job(ctx)
}
