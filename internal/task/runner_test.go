package task

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/faqgen-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingExecutor records executed job IDs and signals on each call.
type recordingExecutor struct {
	mu       sync.Mutex
	executed []uuid.UUID
	done     chan uuid.UUID
}

func newRecordingExecutor() *recordingExecutor {
	return &recordingExecutor{done: make(chan uuid.UUID, 16)}
}

func (e *recordingExecutor) Execute(_ context.Context, jobID uuid.UUID) error {
	e.mu.Lock()
	e.executed = append(e.executed, jobID)
	e.mu.Unlock()
	e.done <- jobID
	return nil
}

func waitForJob(t *testing.T, executor *recordingExecutor, want uuid.UUID) {
	t.Helper()
	select {
	case got := <-executor.done:
		assert.Equal(t, want, got)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for job execution")
	}
}

func TestRunnerExecutesLaunchedJobs(t *testing.T) {
	t.Parallel()

	executor := newRecordingExecutor()
	runner := NewRunner(newFakeJobStore(), executor, DefaultRunnerConfig(), nil)
	require.NoError(t, runner.Start())
	defer runner.Stop()

	jobID := uuid.New()
	runner.Launch(jobID)

	waitForJob(t, executor, jobID)
}

func TestRunnerStopWaitsForWorkers(t *testing.T) {
	t.Parallel()

	executor := newRecordingExecutor()
	runner := NewRunner(newFakeJobStore(), executor, RunnerConfig{WorkerCount: 1, QueueSize: 4}, nil)
	require.NoError(t, runner.Start())

	jobID := uuid.New()
	runner.Launch(jobID)
	waitForJob(t, executor, jobID)

	// Must return promptly with no workers stuck.
	done := make(chan struct{})
	go func() {
		runner.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestRunnerRecoverFailsOrphanedJobs(t *testing.T) {
	t.Parallel()

	jobStore := newFakeJobStore()
	orphan, err := domain.NewBulkJob(uuid.New(), domain.JobModeAll, 10)
	require.NoError(t, err)
	orphan.Status = domain.JobStatusRunning
	jobStore.put(orphan)

	runner := NewRunner(jobStore, newRecordingExecutor(), DefaultRunnerConfig(), nil)
	require.NoError(t, runner.Start())
	defer runner.Stop()

	recovered := jobStore.get(orphan.ID)
	assert.Equal(t, domain.JobStatusFailed, recovered.Status)
	require.NotNil(t, recovered.ErrorMessage)
	assert.Contains(t, *recovered.ErrorMessage, "restart")
}

func TestRunnerLaunchDoesNotBlockWhenQueueFull(t *testing.T) {
	t.Parallel()

	// No workers started: the queue fills and further launches must drop
	// instead of blocking the HTTP handler that called them.
	runner := NewRunner(newFakeJobStore(), newRecordingExecutor(), RunnerConfig{
		WorkerCount: 1,
		QueueSize:   1,
	}, nil)

	done := make(chan struct{})
	go func() {
		runner.Launch(uuid.New())
		runner.Launch(uuid.New())
		runner.Launch(uuid.New())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Launch blocked on a full queue")
	}
}
