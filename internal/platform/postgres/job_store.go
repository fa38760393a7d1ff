package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/faqgen-api/internal/domain"
	"github.com/phrazzld/faqgen-api/internal/platform/logger"
	"github.com/phrazzld/faqgen-api/internal/store"
)

// activeJobConstraint is the partial unique index on bulk_jobs that allows
// at most one PENDING/RUNNING job per shop. Creation and the uniqueness
// check are a single atomic operation because the index enforces them
// together; two concurrent starts cannot both insert.
const activeJobConstraint = "bulk_jobs_one_active_per_shop"

const jobColumns = `id, shop_id, mode, status, total_products, processed_products,
		current_product_title, error_message, created_at, completed_at`

// PostgresJobStore implements the store.JobStore interface
// using a PostgreSQL database as the storage backend.
type PostgresJobStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresJobStore creates a new PostgreSQL implementation of the
// JobStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresJobStore(db store.DBTX, logger *slog.Logger) *PostgresJobStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresJobStore{
		db:     db,
		logger: logger.With(slog.String("component", "job_store")),
	}
}

// Ensure PostgresJobStore implements store.JobStore interface
var _ store.JobStore = (*PostgresJobStore)(nil)

// Create implements store.JobStore.Create
// Inserting claims the shop's active-job slot: the partial unique index
// rejects a second non-terminal job, which surfaces as ErrActiveJobExists.
func (s *PostgresJobStore) Create(ctx context.Context, job *domain.BulkJob) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := job.Validate(); err != nil {
		log.Warn("job validation failed during create",
			slog.String("error", err.Error()),
			slog.String("job_id", job.ID.String()))
		return err
	}

	query := `
		INSERT INTO bulk_jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		job.ID,
		job.ShopID,
		job.Mode,
		job.Status,
		job.TotalProducts,
		job.ProcessedProducts,
		job.CurrentProductTitle,
		job.ErrorMessage,
		job.CreatedAt,
		job.CompletedAt,
	)
	if err != nil {
		if IsUniqueViolation(err, activeJobConstraint) {
			log.Info("shop already has an active bulk job",
				slog.String("shop_id", job.ShopID.String()))
			return store.ErrActiveJobExists
		}

		log.Error("failed to create bulk job",
			slog.String("error", err.Error()),
			slog.String("job_id", job.ID.String()),
			slog.String("shop_id", job.ShopID.String()))
		return MapError(err)
	}

	log.Info("bulk job created",
		slog.String("job_id", job.ID.String()),
		slog.String("shop_id", job.ShopID.String()),
		slog.String("mode", string(job.Mode)),
		slog.Int("total_products", job.TotalProducts))
	return nil
}

// GetByID implements store.JobStore.GetByID
// Returns store.ErrJobNotFound if the job does not exist.
func (s *PostgresJobStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.BulkJob, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM bulk_jobs
		WHERE id = $1
	`
	return s.scanJob(ctx, s.db.QueryRowContext(ctx, query, id), store.ErrJobNotFound)
}

// Update implements store.JobStore.Update
// The statement only matches non-terminal rows, so a worker racing a
// cancel cannot overwrite the CANCELLED status with its own final write.
func (s *PostgresJobStore) Update(ctx context.Context, job *domain.BulkJob) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := job.Validate(); err != nil {
		log.Warn("job validation failed during update",
			slog.String("error", err.Error()),
			slog.String("job_id", job.ID.String()))
		return err
	}

	query := `
		UPDATE bulk_jobs
		SET status = $2,
		    total_products = $3,
		    processed_products = $4,
		    current_product_title = $5,
		    error_message = $6,
		    completed_at = $7
		WHERE id = $1 AND status IN ($8, $9)
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		job.ID,
		job.Status,
		job.TotalProducts,
		job.ProcessedProducts,
		job.CurrentProductTitle,
		job.ErrorMessage,
		job.CompletedAt,
		domain.JobStatusPending,
		domain.JobStatusRunning,
	)
	if err != nil {
		log.Error("failed to update bulk job",
			slog.String("error", err.Error()),
			slog.String("job_id", job.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "bulk job"); err != nil {
		// Zero rows: either the job does not exist, or it already reached
		// a terminal state.
		if _, getErr := s.GetByID(ctx, job.ID); getErr != nil {
			return store.ErrJobNotFound
		}
		return store.ErrUpdateFailed
	}
	return nil
}

// UpdateProgress implements store.JobStore.UpdateProgress
func (s *PostgresJobStore) UpdateProgress(
	ctx context.Context,
	id uuid.UUID,
	processed int,
	currentProductTitle *string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE bulk_jobs
		SET processed_products = $2, current_product_title = $3
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id, processed, currentProductTitle)
	if err != nil {
		log.Error("failed to update job progress",
			slog.String("error", err.Error()),
			slog.String("job_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "bulk job"); err != nil {
		return store.ErrJobNotFound
	}
	return nil
}

// FindActiveByShop implements store.JobStore.FindActiveByShop
func (s *PostgresJobStore) FindActiveByShop(
	ctx context.Context,
	shopID uuid.UUID,
) (*domain.BulkJob, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM bulk_jobs
		WHERE shop_id = $1 AND status IN ($2, $3)
	`
	row := s.db.QueryRowContext(ctx, query, shopID,
		domain.JobStatusPending, domain.JobStatusRunning)
	return s.scanJob(ctx, row, store.ErrJobNotFound)
}

// FindLatestByShop implements store.JobStore.FindLatestByShop
func (s *PostgresJobStore) FindLatestByShop(
	ctx context.Context,
	shopID uuid.UUID,
) (*domain.BulkJob, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM bulk_jobs
		WHERE shop_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	return s.scanJob(ctx, s.db.QueryRowContext(ctx, query, shopID), store.ErrJobNotFound)
}

// CancelActive implements store.JobStore.CancelActive
// The conditional UPDATE is a single statement, so a cancel racing the
// worker's completion write cannot resurrect a terminal job.
func (s *PostgresJobStore) CancelActive(
	ctx context.Context,
	shopID uuid.UUID,
) (*domain.BulkJob, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE bulk_jobs
		SET status = $2
		WHERE shop_id = $1 AND status IN ($3, $4)
		RETURNING ` + jobColumns + `
	`
	row := s.db.QueryRowContext(ctx, query, shopID,
		domain.JobStatusCancelled, domain.JobStatusPending, domain.JobStatusRunning)

	job, err := s.scanJob(ctx, row, store.ErrJobNotFound)
	if err != nil {
		return nil, err
	}

	log.Info("bulk job cancelled",
		slog.String("job_id", job.ID.String()),
		slog.String("shop_id", shopID.String()))
	return job, nil
}

// FailOrphaned implements store.JobStore.FailOrphaned
func (s *PostgresJobStore) FailOrphaned(ctx context.Context, message string) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE bulk_jobs
		SET status = $1,
		    error_message = $2,
		    current_product_title = NULL,
		    completed_at = NOW()
		WHERE status IN ($3, $4)
	`
	result, err := s.db.ExecContext(ctx, query,
		domain.JobStatusFailed, message,
		domain.JobStatusPending, domain.JobStatusRunning)
	if err != nil {
		log.Error("failed to fail orphaned jobs",
			slog.String("error", err.Error()))
		return 0, MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, MapError(err)
	}

	if affected > 0 {
		log.Warn("failed orphaned bulk jobs from previous run",
			slog.Int64("count", affected))
	}
	return affected, nil
}

// WithTx implements store.JobStore.WithTx
func (s *PostgresJobStore) WithTx(tx *sql.Tx) store.JobStore {
	return &PostgresJobStore{db: tx, logger: s.logger}
}

// scanJob reads one job row, mapping sql.ErrNoRows to notFound.
func (s *PostgresJobStore) scanJob(
	ctx context.Context,
	row *sql.Row,
	notFound error,
) (*domain.BulkJob, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var job domain.BulkJob
	var currentTitle, errorMessage sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&job.ID,
		&job.ShopID,
		&job.Mode,
		&job.Status,
		&job.TotalProducts,
		&job.ProcessedProducts,
		&currentTitle,
		&errorMessage,
		&job.CreatedAt,
		&completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound
		}
		log.Error("failed to scan bulk job row",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to scan bulk job: %w", MapError(err))
	}

	if currentTitle.Valid {
		job.CurrentProductTitle = &currentTitle.String
	}
	if errorMessage.Valid {
		job.ErrorMessage = &errorMessage.String
	}
	if completedAt.Valid {
		t := completedAt.Time
		job.CompletedAt = &t
	}

	return &job, nil
}
