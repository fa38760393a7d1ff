package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/faqgen-api/internal/store"
)

// interruptedJobMessage is written to jobs left non-terminal by a previous
// process. Their workers died with that process.
const interruptedJobMessage = "job interrupted by server restart"

// RunnerConfig holds configuration for the job runner.
type RunnerConfig struct {
	// WorkerCount determines how many jobs can execute concurrently.
	// Jobs from different shops are independent; jobs from the same shop
	// cannot coexist, so workers never contend on one shop.
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory job queue.
	QueueSize int
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount: 2,
		QueueSize:   100,
	}
}

// JobExecutor drives a single bulk job to a terminal state.
type JobExecutor interface {
	// Execute runs the job. A returned error means the executor could not
	// even record the job's outcome; normal item failures are absorbed
	// into the job row instead.
	Execute(ctx context.Context, jobID uuid.UUID) error
}

// Runner manages background execution of bulk jobs. It implements
// service.JobLauncher.
type Runner struct {
	jobStore   store.JobStore
	executor   JobExecutor
	jobChan    chan uuid.UUID
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     RunnerConfig
	logger     *slog.Logger
}

// NewRunner creates a new Runner.
func NewRunner(
	jobStore store.JobStore,
	executor JobExecutor,
	config RunnerConfig,
	logger *slog.Logger,
) *Runner {
	if config.WorkerCount < 1 {
		config.WorkerCount = 1
	}
	if config.QueueSize < 1 {
		config.QueueSize = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		jobStore:   jobStore,
		executor:   executor,
		jobChan:    make(chan uuid.UUID, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger.With(slog.String("component", "job_runner")),
	}
}

// Start recovers orphaned jobs and begins processing.
func (r *Runner) Start() error {
	if err := r.Recover(); err != nil {
		return fmt.Errorf("failed to recover jobs: %w", err)
	}

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	return nil
}

// Stop gracefully shuts down the runner. In-flight jobs observe the
// cancelled context at their next suspension point and record themselves
// as failed before the workers exit.
func (r *Runner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
}

// Recover fails jobs left non-terminal by a previous run. Unlike a task
// queue there is nothing to requeue: the catalog may have changed and the
// merchant can simply start a fresh job.
func (r *Runner) Recover() error {
	count, err := r.jobStore.FailOrphaned(context.Background(), interruptedJobMessage)
	if err != nil {
		return err
	}
	if count > 0 {
		r.logger.Warn("recovered orphaned jobs", slog.Int64("count", count))
	}
	return nil
}

// Launch implements service.JobLauncher. It must not block: a full queue
// is logged and the job stays PENDING until an operator intervenes or the
// shop cancels it.
func (r *Runner) Launch(jobID uuid.UUID) {
	select {
	case r.jobChan <- jobID:
	default:
		r.logger.Error("job queue is full, job stays pending",
			slog.String("job_id", jobID.String()))
	}
}

// worker processes jobs from the queue.
func (r *Runner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", slog.Int("worker_id", id))

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", slog.Int("worker_id", id))
			return

		case jobID, ok := <-r.jobChan:
			if !ok {
				return
			}

			log := r.logger.With(
				slog.String("job_id", jobID.String()),
				slog.Int("worker_id", id))
			log.Info("executing bulk job")

			if err := r.executor.Execute(r.ctx, jobID); err != nil {
				log.Error("bulk job execution failed",
					slog.String("error", err.Error()))
			} else {
				log.Info("bulk job execution finished")
			}
		}
	}
}
