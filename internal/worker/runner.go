// Package worker archives completed assessments in the background. The
// orchestrator holds an Archiver interface and calls Archive; it never
// imports the concrete Runner or Job types, and an archive failure never
// reaches the operator.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nyashahama/dengue-assessment-console/internal/predictor"
	"github.com/nyashahama/dengue-assessment-console/internal/session"
	"github.com/nyashahama/dengue-assessment-console/internal/store"
)

// ErrArchiveFull is returned by Archive when the queue has no room. The case
// is dropped; the assessment itself is unaffected.
var ErrArchiveFull = errors.New("worker: archive queue is full")

// ─── RUNNER ───────────────────────────────────────────────────────────────────

// RunnerConfig holds tuning parameters for the Runner. Zero fields take the
// values from DefaultRunnerConfig.
type RunnerConfig struct {
	// Workers is the number of concurrent job goroutines. Default: 2.
	Workers int

	// QueueSize is the buffer of the in-process channel. Default: Workers*16.
	QueueSize int

	// JobTimeout is the per-attempt context deadline. Default: 10s.
	JobTimeout time.Duration

	// MaxRetries is the number of attempts before a case is given up on.
	// Default: 3.
	MaxRetries int

	// Backoff is the unit of the exponential back-off between attempts:
	// 2×, 4×, 8× … Default: 1s.
	Backoff time.Duration
}

// DefaultRunnerConfig returns safe production defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Workers:    2,
		JobTimeout: 10 * time.Second,
		MaxRetries: 3,
		Backoff:    time.Second,
	}
}

// Runner manages a pool of worker goroutines fed by a buffered channel.
type Runner struct {
	job    *Job
	cfg    RunnerConfig
	logger *slog.Logger
	now    func() time.Time

	queue chan store.RecordCaseParams
	wg    sync.WaitGroup
}

// NewRunner constructs a Runner. Call Start to begin processing.
func NewRunner(job *Job, cfg RunnerConfig, logger *slog.Logger) *Runner {
	def := DefaultRunnerConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = cfg.Workers * 16
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = def.JobTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = def.MaxRetries
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = def.Backoff
	}

	return &Runner{
		job:    job,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		queue:  make(chan store.RecordCaseParams, cfg.QueueSize),
	}
}

// Archive queues the case for writing. It never blocks.
func (r *Runner) Archive(ctx context.Context, rec predictor.PatientRecord, a session.RiskAssessment) error {
	p := CaseParams(uuid.New(), rec, a)
	if p.AssessedAt.IsZero() {
		p.AssessedAt = r.now()
	}
	return r.Enqueue(ctx, p)
}

// Enqueue pushes a case onto the in-process channel. If the channel is full
// it returns ErrArchiveFull rather than blocking the caller.
func (r *Runner) Enqueue(_ context.Context, p store.RecordCaseParams) error {
	select {
	case r.queue <- p:
		r.logger.Debug("worker: enqueued case", "case_id", p.ID)
		return nil
	default:
		return ErrArchiveFull
	}
}

// Start launches the worker pool. It blocks until ctx is cancelled. Call it
// in a goroutine from main:
//
//	go runner.Start(ctx)
func (r *Runner) Start(ctx context.Context) {
	r.logger.Info("worker: starting", "workers", r.cfg.Workers, "queue", r.cfg.QueueSize)

	for i := range r.cfg.Workers {
		r.wg.Add(1)
		go r.work(ctx, i)
	}

	r.wg.Wait()
	r.logger.Info("worker: stopped", "dropped", len(r.queue))
}

// work is the inner loop for each worker goroutine.
func (r *Runner) work(ctx context.Context, id int) {
	defer r.wg.Done()
	log := r.logger.With("worker_id", id)
	log.Debug("worker: goroutine started")

	for {
		select {
		case <-ctx.Done():
			log.Debug("worker: goroutine stopping")
			return
		case p := <-r.queue:
			r.runWithRetry(ctx, p, log)
		}
	}
}

// runWithRetry executes the job up to MaxRetries times.
func (r *Runner) runWithRetry(ctx context.Context, p store.RecordCaseParams, log *slog.Logger) {
	var lastErr error

	for attempt := 1; attempt <= r.cfg.MaxRetries; attempt++ {
		jobCtx, cancel := context.WithTimeout(ctx, r.cfg.JobTimeout)
		lastErr = r.job.Run(jobCtx, p)
		cancel()

		if lastErr == nil {
			return
		}

		log.Warn("worker: job attempt failed",
			"case_id", p.ID,
			"attempt", attempt,
			"max", r.cfg.MaxRetries,
			"error", lastErr,
		)

		if attempt < r.cfg.MaxRetries {
			backoff := time.Duration(1<<attempt) * r.cfg.Backoff
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
		}
	}

	log.Error("worker: case dropped after retries", "case_id", p.ID, "error", lastErr)
}
