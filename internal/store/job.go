package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/faqgen-api/internal/domain"
)

// JobStore defines the interface for bulk job persistence. The job row is
// the single coordination point between the launcher, the worker that owns
// the job, and cancel/status reads.
// Version: 1.0
type JobStore interface {
	// Create saves a new job to the store. Creation atomically claims the
	// shop's single active-job slot: if the shop already has a job in a
	// non-terminal state, ErrActiveJobExists is returned and nothing is
	// written. This is what makes two concurrent starts safe.
	Create(ctx context.Context, job *domain.BulkJob) error

	// GetByID retrieves a job by its unique ID.
	// Returns ErrJobNotFound if the job does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BulkJob, error)

	// Update persists the job's mutable fields (status, counters, current
	// product, error message, completion time). Terminal rows are immutable:
	// updating a job that already reached a terminal state returns
	// ErrUpdateFailed, so a worker's final write cannot resurrect a job
	// cancelled underneath it. Returns ErrJobNotFound if the job does not
	// exist.
	Update(ctx context.Context, job *domain.BulkJob) error

	// UpdateProgress persists only the progress fields. The worker calls
	// this once per item, so it avoids rewriting the whole row.
	UpdateProgress(ctx context.Context, id uuid.UUID, processed int, currentProductTitle *string) error

	// FindActiveByShop retrieves the shop's job in a non-terminal state.
	// Returns ErrJobNotFound if there is none.
	FindActiveByShop(ctx context.Context, shopID uuid.UUID) (*domain.BulkJob, error)

	// FindLatestByShop retrieves the shop's most recently created job in
	// any state. Returns ErrJobNotFound if the shop never ran a job.
	FindLatestByShop(ctx context.Context, shopID uuid.UUID) (*domain.BulkJob, error)

	// CancelActive conditionally marks the shop's non-terminal job as
	// cancelled in a single statement and returns it. It mutates nothing
	// and returns ErrJobNotFound when no active job exists. It does not
	// stop the worker; the worker observes the status at its next
	// checkpoint.
	CancelActive(ctx context.Context, shopID uuid.UUID) (*domain.BulkJob, error)

	// FailOrphaned marks every non-terminal job as FAILED with the given
	// message and returns how many were affected. Called once at startup:
	// a job left PENDING or RUNNING by a crashed or restarted process has
	// no worker and would otherwise hold its shop's active slot forever.
	FailOrphaned(ctx context.Context, message string) (int64, error)

	// WithTx returns a new JobStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) JobStore
}
