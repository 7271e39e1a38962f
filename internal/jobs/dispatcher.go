// File: internal/jobs/dispatcher.go
package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/inkfold/bindery/internal/config"
)

// Job identifies one queued imposition run.
type Job struct {
	ID     string
	Reason string
	Queued time.Time
}

// RunFunc executes a job. The dispatcher never runs two jobs at once.
type RunFunc func(ctx context.Context, job Job) error

// Dispatcher serializes job execution for watch mode. Requests arriving
// while a run is in flight coalesce down to the newest one, since imposing
// a stale version of the source would be thrown away immediately anyway.
// Runs are additionally spaced out by the configured debounce interval so
// an editor saving in bursts triggers a single imposition.
type Dispatcher struct {
	logger  *zap.Logger
	run     RunFunc
	limiter *rate.Limiter
	grace   time.Duration
	pending chan Job
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher that hands jobs to run.
func NewDispatcher(cfg config.JobsConfig, run RunFunc, logger *zap.Logger) (*Dispatcher, error) {
	if run == nil {
		return nil, errors.New("jobs: dispatcher requires a run function")
	}
	if logger == nil {
		return nil, errors.New("jobs: dispatcher requires a logger")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Dispatcher{
		logger:  logger.Named("JobDispatcher"),
		run:     run,
		limiter: rate.NewLimiter(rate.Every(cfg.Debounce), 1),
		grace:   cfg.ShutdownGrace,
		pending: make(chan Job, 1),
	}, nil
}

// Start launches the dispatch loop. Cancel the context to stop it, then
// call Stop to wait for any in-flight job.
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(1)
	go d.loop(ctx)
}

// Submit queues a job, displacing any request that has not started yet.
// It never blocks and returns the queued job for correlation.
func (d *Dispatcher) Submit(reason string) Job {
	job := Job{ID: uuid.New().String(), Reason: reason, Queued: time.Now()}
	for {
		select {
		case d.pending <- job:
			return job
		default:
		}
		// The slot is taken by a request that has not started; drop it in
		// favor of the newer one and try again.
		select {
		case stale := <-d.pending:
			d.logger.Debug("Superseding queued job",
				zap.String("stale_job_id", stale.ID),
				zap.String("job_id", job.ID))
		default:
		}
	}
}

func (d *Dispatcher) loop(ctx context.Context) {
	defer d.wg.Done()
	d.logger.Info("Dispatch loop started")

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Dispatch loop shutting down", zap.Error(ctx.Err()))
			return
		case job := <-d.pending:
			if err := d.limiter.Wait(ctx); err != nil {
				return
			}
			// Prefer a request that arrived while the limiter held us.
			select {
			case newer := <-d.pending:
				d.logger.Debug("Coalescing with newer request",
					zap.String("superseded_job_id", job.ID),
					zap.String("job_id", newer.ID))
				job = newer
			default:
			}
			d.execute(ctx, job)
		}
	}
}

func (d *Dispatcher) execute(ctx context.Context, job Job) {
	logger := d.logger.With(zap.String("job_id", job.ID), zap.String("reason", job.Reason))
	logger.Info("Job started")
	start := time.Now()

	if err := d.run(ctx, job); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			logger.Warn("Job canceled", zap.Error(err))
		} else {
			// A failed run must not kill the loop; the next change gets a
			// fresh attempt.
			logger.Error("Job failed", zap.Error(err))
		}
		return
	}
	logger.Info("Job finished", zap.Duration("elapsed", time.Since(start)))
}

// Stop waits for the dispatch loop to drain, up to the shutdown grace
// period. The context passed to Start must already be canceled, otherwise
// Stop can only time out.
func (d *Dispatcher) Stop() {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		d.logger.Info("Dispatcher stopped")
	case <-time.After(d.grace):
		d.logger.Warn("Dispatcher did not stop within the grace period",
			zap.Duration("grace", d.grace))
	}
}
