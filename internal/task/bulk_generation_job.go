package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/faqgen-api/internal/domain"
	"github.com/phrazzld/faqgen-api/internal/service"
	"github.com/phrazzld/faqgen-api/internal/store"
	"golang.org/x/time/rate"
)

// Common errors
var (
	ErrNilJobStore     = errors.New("job store cannot be nil")
	ErrNilProductStore = errors.New("product store cannot be nil")
	ErrNilActivityLog  = errors.New("activity log store cannot be nil")
	ErrNilFAQService   = errors.New("FAQ service cannot be nil")
	ErrNilEntitlements = errors.New("entitlement service cannot be nil")
)

// BulkGenerationJob implements the JobExecutor interface. One Execute call
// drives one bulk job from PENDING to a terminal state.
type BulkGenerationJob struct {
	jobStore     store.JobStore
	productStore store.ProductStore
	activityLog  store.ActivityLogStore
	faqService   service.FAQService
	entitlements service.EntitlementService

	// itemDelay paces provider calls: at most one item starts per delay
	// window. Zero disables pacing.
	itemDelay time.Duration

	logger *slog.Logger
}

// Ensure BulkGenerationJob implements JobExecutor
var _ JobExecutor = (*BulkGenerationJob)(nil)

// NewBulkGenerationJob creates a new bulk job executor.
func NewBulkGenerationJob(
	jobStore store.JobStore,
	productStore store.ProductStore,
	activityLog store.ActivityLogStore,
	faqService service.FAQService,
	entitlements service.EntitlementService,
	itemDelay time.Duration,
	logger *slog.Logger,
) (*BulkGenerationJob, error) {
	if jobStore == nil {
		return nil, ErrNilJobStore
	}
	if productStore == nil {
		return nil, ErrNilProductStore
	}
	if activityLog == nil {
		return nil, ErrNilActivityLog
	}
	if faqService == nil {
		return nil, ErrNilFAQService
	}
	if entitlements == nil {
		return nil, ErrNilEntitlements
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &BulkGenerationJob{
		jobStore:     jobStore,
		productStore: productStore,
		activityLog:  activityLog,
		faqService:   faqService,
		entitlements: entitlements,
		itemDelay:    itemDelay,
		logger:       logger.With(slog.String("component", "bulk_generation_job")),
	}, nil
}

// Execute implements JobExecutor.Execute.
//
// The job row is re-read before every item: that read is the cancellation
// checkpoint. A cancel lands between items, never inside one, so an
// in-flight provider call always finishes and its result is stored before
// the worker stops.
func (e *BulkGenerationJob) Execute(ctx context.Context, jobID uuid.UUID) error {
	log := e.logger.With(slog.String("job_id", jobID.String()))

	job, err := e.jobStore.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load job: %w", err)
	}

	if job.Status != domain.JobStatusPending {
		// Cancelled before a worker picked it up, or a duplicate launch.
		log.Info("skipping job not in pending state",
			slog.String("status", string(job.Status)))
		return nil
	}

	entitlement, err := e.entitlements.ResolveForShop(ctx, job.ShopID)
	if err != nil {
		return e.fail(ctx, job, fmt.Errorf("failed to resolve entitlement: %w", err))
	}

	// The target set is snapshotted once. Products added to the catalog
	// after this point belong to the next job.
	missingOnly := job.Mode == domain.JobModeMissingOnly
	products, err := e.productStore.FindByShop(ctx, job.ShopID, missingOnly)
	if err != nil {
		return e.fail(ctx, job, fmt.Errorf("failed to load target products: %w", err))
	}

	// The count estimated at start time may have drifted; the snapshot is
	// authoritative. The corrected total goes out with the RUNNING write so
	// the stored row never carries a total smaller than a later processed
	// count.
	job.TotalProducts = len(products)

	if err := job.UpdateStatus(domain.JobStatusRunning); err != nil {
		return err
	}
	if err := e.jobStore.Update(ctx, job); err != nil {
		if errors.Is(err, store.ErrUpdateFailed) {
			// Lost to a concurrent cancel.
			return nil
		}
		return fmt.Errorf("failed to mark job running: %w", err)
	}

	log.Info("bulk job running",
		slog.String("shop_id", job.ShopID.String()),
		slog.String("mode", string(job.Mode)),
		slog.Int("total_products", job.TotalProducts),
		slog.Int("max_questions", entitlement.MaxAIQuestions))

	limiter := newItemLimiter(e.itemDelay)
	processed := 0

	for _, product := range products {
		if err := ctx.Err(); err != nil {
			// Runner shutdown. The orphan recovery at next startup would
			// also catch this, but recording it now keeps status accurate.
			return e.fail(ctx, job, errors.New(interruptedJobMessage))
		}

		// Pacing runs before the item, never after the last one. The first
		// wait is free; a cancel arriving during the delay is observed by
		// the re-read below.
		if err := limiter.Wait(ctx); err != nil {
			return e.fail(ctx, job, errors.New(interruptedJobMessage))
		}

		fresh, err := e.jobStore.GetByID(ctx, job.ID)
		if err != nil {
			return e.fail(ctx, job, fmt.Errorf("failed to re-read job: %w", err))
		}
		if fresh.Status == domain.JobStatusCancelled {
			log.Info("job cancelled, stopping",
				slog.Int("processed", processed),
				slog.Int("total", job.TotalProducts))
			// Clear the in-flight marker; the status row is already terminal.
			if err := e.jobStore.UpdateProgress(ctx, job.ID, processed, nil); err != nil {
				log.Warn("failed to clear progress after cancel",
					slog.String("error", err.Error()))
			}
			return nil
		}

		if err := e.jobStore.UpdateProgress(ctx, job.ID, processed, &product.Title); err != nil {
			return e.fail(ctx, job, fmt.Errorf("failed to update progress: %w", err))
		}

		result, err := e.faqService.GenerateAndSave(ctx, product, entitlement.MaxAIQuestions)
		if err != nil {
			// Storage failure: the job cannot meaningfully continue.
			return e.fail(ctx, job, err)
		}

		switch result.Outcome {
		case service.ItemSuccess:
			if err := e.productStore.SetHasFAQ(ctx, product.ID, true); err != nil {
				return e.fail(ctx, job, fmt.Errorf("failed to flag product: %w", err))
			}
			processed++
			e.audit(ctx, domain.NewActivityLog(job.ShopID, domain.ActivityLevelSuccess,
				domain.OperationGenerateFAQBulk,
				fmt.Sprintf("Generated %d FAQ questions", result.QuestionCount)).
				WithProduct(product.ID, product.Title))

		default:
			// Transport and validation failures skip the item; the job
			// keeps going and the gap shows up as processed < total.
			log.Warn("item failed",
				slog.String("product_id", product.ID.String()),
				slog.String("outcome", result.Outcome.String()),
				slog.String("error", errString(result.Err)))
			e.audit(ctx, domain.NewActivityLog(job.ShopID, domain.ActivityLevelError,
				domain.OperationGenerateFAQBulk,
				fmt.Sprintf("FAQ generation failed (%s)", result.Outcome)).
				WithProduct(product.ID, product.Title))
		}

		if err := e.jobStore.UpdateProgress(ctx, job.ID, processed, nil); err != nil {
			return e.fail(ctx, job, fmt.Errorf("failed to update progress: %w", err))
		}
	}

	return e.complete(ctx, job, processed)
}

// complete records the job as COMPLETED. A job whose every item failed
// still completes; the counters tell the story.
func (e *BulkGenerationJob) complete(
	ctx context.Context,
	job *domain.BulkJob,
	processed int,
) error {
	now := time.Now().UTC()
	job.ProcessedProducts = processed
	job.CurrentProductTitle = nil
	job.CompletedAt = &now
	if err := job.UpdateStatus(domain.JobStatusCompleted); err != nil {
		return err
	}

	if err := e.jobStore.Update(ctx, job); err != nil {
		if errors.Is(err, store.ErrUpdateFailed) {
			// Cancelled between the last checkpoint and this write.
			return nil
		}
		return fmt.Errorf("failed to mark job completed: %w", err)
	}

	e.audit(ctx, domain.NewActivityLog(job.ShopID, domain.ActivityLevelInfo,
		domain.OperationGenerateFAQBulk,
		fmt.Sprintf("Bulk FAQ generation completed: %d/%d products",
			processed, job.TotalProducts)))

	e.logger.Info("bulk job completed",
		slog.String("job_id", job.ID.String()),
		slog.Int("processed", processed),
		slog.Int("total", job.TotalProducts))
	return nil
}

// fail records the job as FAILED with the cause. The returned error is the
// cause itself so the runner logs it.
func (e *BulkGenerationJob) fail(ctx context.Context, job *domain.BulkJob, cause error) error {
	// Use a fresh context-independent write: the triggering context may
	// already be cancelled.
	writeCtx := context.WithoutCancel(ctx)

	now := time.Now().UTC()
	message := cause.Error()
	job.ErrorMessage = &message
	job.CurrentProductTitle = nil
	job.CompletedAt = &now
	if err := job.UpdateStatus(domain.JobStatusFailed); err != nil {
		return cause
	}

	if err := e.jobStore.Update(writeCtx, job); err != nil {
		if !errors.Is(err, store.ErrUpdateFailed) {
			e.logger.Error("failed to record job failure",
				slog.String("job_id", job.ID.String()),
				slog.String("error", err.Error()))
		}
		return cause
	}

	e.audit(writeCtx, domain.NewActivityLog(job.ShopID, domain.ActivityLevelError,
		domain.OperationGenerateFAQBulk,
		fmt.Sprintf("Bulk FAQ generation failed: %s", message)))

	return cause
}

// audit writes an activity log entry, dropping it on failure.
func (e *BulkGenerationJob) audit(ctx context.Context, entry *domain.ActivityLog) {
	if err := e.activityLog.Append(ctx, entry); err != nil {
		e.logger.Warn("failed to write audit entry",
			slog.String("error", err.Error()),
			slog.String("operation", entry.Operation))
	}
}

// newItemLimiter builds the inter-item pacer. The first Wait never blocks;
// each subsequent one spaces items by delay.
func newItemLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
