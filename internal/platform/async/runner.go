package async

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Runner executes best-effort tasks: work whose failure must be observed and
// logged but must never alter the outcome of the operation that submitted it.
// Index syncs and event publishes run through here.
type Runner struct {
	logger  *slog.Logger
	timeout time.Duration

	// onFailure is invoked after a task fails, for metrics. May be nil.
	onFailure func(name string)

	wg sync.WaitGroup
}

// Option configures the Runner.
type Option func(*Runner)

// WithFailureHook registers a callback invoked with the task name whenever a
// task returns an error or times out.
func WithFailureHook(fn func(name string)) Option {
	return func(r *Runner) { r.onFailure = fn }
}

// New creates a Runner. Every task gets its own context bounded by timeout,
// detached from the submitting request's cancellation.
func New(logger *slog.Logger, timeout time.Duration, opts ...Option) *Runner {
	r := &Runner{logger: logger, timeout: timeout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Submit schedules fn and returns immediately. The task context carries the
// submitting context's values (request ID, caller) but not its cancellation:
// a client disconnecting must not abort a sync already in flight. A failed
// task is logged as a missed sync and never retried here; the next mutation
// of the same record converges the derived store.
func (r *Runner) Submit(ctx context.Context, name string, fn func(context.Context) error) {
	taskCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()
		if err := fn(taskCtx); err != nil {
			r.logger.WarnContext(taskCtx, "best-effort task failed",
				"task", name,
				"error", err,
			)
			if r.onFailure != nil {
				r.onFailure(name)
			}
		}
	}()
}

// Wait blocks until all submitted tasks finish. Called on shutdown so in-flight
// syncs drain; tests use it to make task completion deterministic.
func (r *Runner) Wait() {
	r.wg.Wait()
}
