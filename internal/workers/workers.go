// Package workers drives the periodic background jobs. Each job runs on its
// own ticker with a non-overlap guard: a tick that arrives while the
// previous run is still going is skipped, never queued.
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is one schedulable unit of background work.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error

	mu sync.Mutex
}

// Runner coordinates the background jobs.
type Runner struct {
	jobs   []*Job
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRunner(log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{log: log, ctx: ctx, cancel: cancel}
}

// Register adds a job to the runner. Must be called before Start.
func (r *Runner) Register(name string, interval time.Duration, run func(ctx context.Context) error) {
	r.jobs = append(r.jobs, &Job{Name: name, Interval: interval, Run: run})
}

// Start launches one goroutine per job.
func (r *Runner) Start() {
	for _, job := range r.jobs {
		r.wg.Add(1)
		go r.loop(job)
	}
	r.log.Info("background workers started", zap.Int("jobs", len(r.jobs)))
}

// Stop cancels all jobs and waits for in-flight runs to finish.
func (r *Runner) Stop() {
	r.cancel()
	r.wg.Wait()
	r.log.Info("background workers stopped")
}

func (r *Runner) loop(job *Job) {
	defer r.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	r.log.Info("worker started",
		zap.String("job", job.Name),
		zap.Duration("interval", job.Interval))

	for {
		select {
		case <-ticker.C:
			r.runOnce(job)
		case <-r.ctx.Done():
			r.log.Info("worker stopped", zap.String("job", job.Name))
			return
		}
	}
}

// runOnce executes the job unless the previous run is still in flight.
// Overlapping runs would double-apply interest or double-fire a recurring
// series, so the late tick is dropped.
func (r *Runner) runOnce(job *Job) {
	if !job.mu.TryLock() {
		r.log.Warn("skipping tick, previous run still active", zap.String("job", job.Name))
		return
	}
	defer job.mu.Unlock()

	start := time.Now()
	if err := job.Run(r.ctx); err != nil {
		if r.ctx.Err() != nil {
			return
		}
		r.log.Error("job run failed",
			zap.String("job", job.Name),
			zap.Error(err))
		return
	}
	r.log.Debug("job run finished",
		zap.String("job", job.Name),
		zap.Duration("duration", time.Since(start)))
}
