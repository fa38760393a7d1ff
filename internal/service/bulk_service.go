package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/faqgen-api/internal/domain"
	"github.com/phrazzld/faqgen-api/internal/platform/logger"
	"github.com/phrazzld/faqgen-api/internal/store"
)

// JobLauncher hands a created job to the background execution layer. The
// implementation lives in the task package; this interface keeps the
// service layer free of goroutine management.
type JobLauncher interface {
	// Launch starts background execution of the job. It must return
	// immediately; the job row carries all further coordination.
	Launch(jobID uuid.UUID)
}

// BulkService manages the lifecycle of bulk FAQ generation jobs.
type BulkService interface {
	// Start creates and launches a bulk job for the shop.
	//
	// Returns store.ErrActiveJobExists when the shop already has a job in
	// a non-terminal state, ErrBulkNotAllowed when the shop's plan lacks
	// bulk access, and ErrNoTargetProducts when the mode selects nothing.
	Start(ctx context.Context, shopID uuid.UUID, mode domain.JobMode) (*domain.BulkJob, error)

	// Cancel requests cancellation of the shop's active job and returns it
	// with status already CANCELLED. The running worker notices at its next
	// checkpoint; in-flight item work is not interrupted.
	// Returns ErrNoActiveJob when there is nothing to cancel.
	Cancel(ctx context.Context, shopID uuid.UUID) (*domain.BulkJob, error)

	// Status returns the shop's most recently created job in any state.
	// Returns ErrNoJobs when the shop never ran one.
	Status(ctx context.Context, shopID uuid.UUID) (*domain.BulkJob, error)
}

// bulkServiceImpl implements the BulkService interface.
type bulkServiceImpl struct {
	jobStore     store.JobStore
	productStore store.ProductStore
	activityLog  store.ActivityLogStore
	entitlements EntitlementService
	launcher     JobLauncher
	logger       *slog.Logger
}

// NewBulkService creates a new BulkService.
// It returns an error if any of the required dependencies are nil.
func NewBulkService(
	jobStore store.JobStore,
	productStore store.ProductStore,
	activityLog store.ActivityLogStore,
	entitlements EntitlementService,
	launcher JobLauncher,
	logger *slog.Logger,
) (BulkService, error) {
	if jobStore == nil {
		return nil, fmt.Errorf("%w: jobStore cannot be nil", domain.ErrValidation)
	}
	if productStore == nil {
		return nil, fmt.Errorf("%w: productStore cannot be nil", domain.ErrValidation)
	}
	if activityLog == nil {
		return nil, fmt.Errorf("%w: activityLog cannot be nil", domain.ErrValidation)
	}
	if entitlements == nil {
		return nil, fmt.Errorf("%w: entitlements cannot be nil", domain.ErrValidation)
	}
	if launcher == nil {
		return nil, fmt.Errorf("%w: launcher cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &bulkServiceImpl{
		jobStore:     jobStore,
		productStore: productStore,
		activityLog:  activityLog,
		entitlements: entitlements,
		launcher:     launcher,
		logger:       logger.With(slog.String("component", "bulk_service")),
	}, nil
}

// Start implements BulkService.Start.
//
// The active-job check runs twice: a cheap read here for the common case,
// and the store's atomic claim at insert time for the race between two
// concurrent starts. Only the insert is authoritative.
func (s *bulkServiceImpl) Start(
	ctx context.Context,
	shopID uuid.UUID,
	mode domain.JobMode,
) (*domain.BulkJob, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.jobStore.FindActiveByShop(ctx, shopID); err == nil {
		log.Info("bulk start rejected, job already active",
			slog.String("shop_id", shopID.String()))
		return nil, store.ErrActiveJobExists
	} else if !store.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check for active job: %w", err)
	}

	entitlement, err := s.entitlements.ResolveForShop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if !entitlement.BulkEligible {
		log.Info("bulk start rejected, plan not eligible",
			slog.String("shop_id", shopID.String()))
		return nil, ErrBulkNotAllowed
	}

	missingOnly := mode == domain.JobModeMissingOnly
	count, err := s.productStore.CountByShop(ctx, shopID, missingOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to count target products: %w", err)
	}
	if count == 0 {
		return nil, ErrNoTargetProducts
	}

	job, err := domain.NewBulkJob(shopID, mode, count)
	if err != nil {
		return nil, err
	}

	if err := s.jobStore.Create(ctx, job); err != nil {
		if errors.Is(err, store.ErrActiveJobExists) {
			// Lost the race against a concurrent start.
			log.Info("bulk start lost creation race",
				slog.String("shop_id", shopID.String()))
			return nil, store.ErrActiveJobExists
		}
		return nil, fmt.Errorf("failed to create bulk job: %w", err)
	}

	s.audit(ctx, domain.NewActivityLog(shopID, domain.ActivityLevelInfo,
		domain.OperationGenerateFAQBulk,
		fmt.Sprintf("Bulk FAQ generation started for %d products (mode %s)", count, mode)))

	s.launcher.Launch(job.ID)

	log.Info("bulk job started",
		slog.String("job_id", job.ID.String()),
		slog.String("shop_id", shopID.String()),
		slog.String("mode", string(mode)),
		slog.Int("total_products", count))

	return job, nil
}

// Cancel implements BulkService.Cancel.
func (s *bulkServiceImpl) Cancel(ctx context.Context, shopID uuid.UUID) (*domain.BulkJob, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	job, err := s.jobStore.CancelActive(ctx, shopID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrNoActiveJob
		}
		return nil, fmt.Errorf("failed to cancel bulk job: %w", err)
	}

	s.audit(ctx, domain.NewActivityLog(shopID, domain.ActivityLevelWarning,
		domain.OperationGenerateFAQBulk,
		fmt.Sprintf("Bulk FAQ generation cancelled after %d/%d products",
			job.ProcessedProducts, job.TotalProducts)))

	log.Info("bulk job cancelled",
		slog.String("job_id", job.ID.String()),
		slog.String("shop_id", shopID.String()),
		slog.Int("processed", job.ProcessedProducts),
		slog.Int("total", job.TotalProducts))

	return job, nil
}

// Status implements BulkService.Status.
func (s *bulkServiceImpl) Status(ctx context.Context, shopID uuid.UUID) (*domain.BulkJob, error) {
	job, err := s.jobStore.FindLatestByShop(ctx, shopID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrNoJobs
		}
		return nil, fmt.Errorf("failed to load latest bulk job: %w", err)
	}
	return job, nil
}

// audit writes an activity log entry. Audit failures never fail the
// triggering operation; they are logged and dropped.
func (s *bulkServiceImpl) audit(ctx context.Context, entry *domain.ActivityLog) {
	if err := s.activityLog.Append(ctx, entry); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to write audit entry",
			slog.String("error", err.Error()),
			slog.String("operation", entry.Operation))
	}
}
