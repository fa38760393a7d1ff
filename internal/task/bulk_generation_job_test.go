package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/faqgen-api/internal/domain"
	"github.com/phrazzld/faqgen-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type executorFixture struct {
	jobStore     *fakeJobStore
	productStore *fakeProductStore
	activityLog  *fakeActivityLog
	faqService   *fakeFAQService
	entitlements *fakeEntitlements
	executor     *BulkGenerationJob

	shopID uuid.UUID
}

func newExecutorFixture(t *testing.T, productCount int) *executorFixture {
	t.Helper()

	shopID := uuid.New()
	products := make([]*domain.Product, 0, productCount)
	for i := 0; i < productCount; i++ {
		products = append(products, &domain.Product{
			ID:     uuid.New(),
			ShopID: shopID,
			Title:  "Product",
		})
	}

	f := &executorFixture{
		jobStore:     newFakeJobStore(),
		productStore: &fakeProductStore{products: products},
		activityLog:  &fakeActivityLog{},
		faqService:   &fakeFAQService{results: make(map[uuid.UUID]service.ItemResult)},
		entitlements: &fakeEntitlements{
			entitlement: domain.Entitlement{MaxAIQuestions: 3, BulkEligible: true},
		},
		shopID: shopID,
	}

	executor, err := NewBulkGenerationJob(
		f.jobStore, f.productStore, f.activityLog, f.faqService, f.entitlements,
		0, nil)
	require.NoError(t, err)
	f.executor = executor
	return f
}

func (f *executorFixture) startJob(t *testing.T, mode domain.JobMode, total int) *domain.BulkJob {
	t.Helper()
	job, err := domain.NewBulkJob(f.shopID, mode, total)
	require.NoError(t, err)
	f.jobStore.put(job)
	return job
}

func TestExecuteHappyPath(t *testing.T) {
	t.Parallel()

	f := newExecutorFixture(t, 3)
	job := f.startJob(t, domain.JobModeAll, 3)

	err := f.executor.Execute(context.Background(), job.ID)
	require.NoError(t, err)

	final := f.jobStore.get(job.ID)
	assert.Equal(t, domain.JobStatusCompleted, final.Status)
	assert.Equal(t, 3, final.TotalProducts)
	assert.Equal(t, 3, final.ProcessedProducts)
	assert.Nil(t, final.CurrentProductTitle)
	assert.Nil(t, final.ErrorMessage)
	require.NotNil(t, final.CompletedAt)

	for _, p := range f.productStore.products {
		assert.True(t, p.HasFAQ, "every processed product must be flagged")
	}

	assert.Len(t, f.activityLog.byLevel(domain.ActivityLevelSuccess), 3)
	assert.Len(t, f.activityLog.byLevel(domain.ActivityLevelInfo), 1)
}

func TestExecuteItemFailureContinues(t *testing.T) {
	t.Parallel()

	f := newExecutorFixture(t, 3)
	failing := f.productStore.products[1]
	f.faqService.results[failing.ID] = service.ItemResult{
		Outcome: service.ItemTransportFailure,
		Err:     errors.New("rate limited"),
	}

	job := f.startJob(t, domain.JobModeAll, 3)
	require.NoError(t, f.executor.Execute(context.Background(), job.ID))

	final := f.jobStore.get(job.ID)
	assert.Equal(t, domain.JobStatusCompleted, final.Status)
	assert.Equal(t, 3, final.TotalProducts)
	assert.Equal(t, 2, final.ProcessedProducts, "only successes count")

	assert.False(t, failing.HasFAQ, "failed product must not be flagged")
	assert.Len(t, f.activityLog.byLevel(domain.ActivityLevelError), 1)
}

func TestExecuteValidationFailureContinues(t *testing.T) {
	t.Parallel()

	f := newExecutorFixture(t, 2)
	skipped := f.productStore.products[0]
	f.faqService.results[skipped.ID] = service.ItemResult{
		Outcome: service.ItemValidationFailure,
		Err:     domain.ErrNoFAQContent,
	}

	job := f.startJob(t, domain.JobModeAll, 2)
	require.NoError(t, f.executor.Execute(context.Background(), job.ID))

	final := f.jobStore.get(job.ID)
	assert.Equal(t, domain.JobStatusCompleted, final.Status)
	assert.Equal(t, 1, final.ProcessedProducts)
	assert.False(t, skipped.HasFAQ)
}

func TestExecuteCancellationStopsBetweenItems(t *testing.T) {
	t.Parallel()

	f := newExecutorFixture(t, 5)
	job := f.startJob(t, domain.JobModeAll, 5)

	// Cancel while the second item is in flight: the item finishes, the
	// loop stops at the next checkpoint.
	f.faqService.onGenerate = func(p *domain.Product) {
		if p.ID == f.productStore.products[1].ID {
			f.jobStore.cancel(job.ID)
		}
	}

	require.NoError(t, f.executor.Execute(context.Background(), job.ID))

	final := f.jobStore.get(job.ID)
	assert.Equal(t, domain.JobStatusCancelled, final.Status)
	assert.Equal(t, 2, final.ProcessedProducts, "in-flight item completes before stopping")
	assert.Nil(t, final.CurrentProductTitle)
	assert.Equal(t, 2, f.faqService.callCount(), "remaining items must not be generated")
}

func TestExecuteCancelledBeforePickupIsSkipped(t *testing.T) {
	t.Parallel()

	f := newExecutorFixture(t, 3)
	job := f.startJob(t, domain.JobModeAll, 3)
	f.jobStore.cancel(job.ID)

	require.NoError(t, f.executor.Execute(context.Background(), job.ID))

	assert.Equal(t, domain.JobStatusCancelled, f.jobStore.get(job.ID).Status)
	assert.Equal(t, 0, f.faqService.callCount())
}

func TestExecuteFatalStorageFailure(t *testing.T) {
	t.Parallel()

	f := newExecutorFixture(t, 3)
	fatal := errors.New("disk full")
	f.faqService.fatalErr = fatal

	job := f.startJob(t, domain.JobModeAll, 3)
	err := f.executor.Execute(context.Background(), job.ID)
	assert.ErrorIs(t, err, fatal)

	final := f.jobStore.get(job.ID)
	assert.Equal(t, domain.JobStatusFailed, final.Status)
	require.NotNil(t, final.ErrorMessage)
	assert.Contains(t, *final.ErrorMessage, "disk full")
	require.NotNil(t, final.CompletedAt)
}

func TestExecuteEntitlementFailureFailsJob(t *testing.T) {
	t.Parallel()

	f := newExecutorFixture(t, 3)
	f.entitlements.err = errors.New("subscriptions unavailable")

	job := f.startJob(t, domain.JobModeAll, 3)
	err := f.executor.Execute(context.Background(), job.ID)
	assert.Error(t, err)

	assert.Equal(t, domain.JobStatusFailed, f.jobStore.get(job.ID).Status)
	assert.Equal(t, 0, f.faqService.callCount())
}

func TestExecuteSnapshotOverridesEstimate(t *testing.T) {
	t.Parallel()

	// Between start and pickup, products disappeared: the snapshot taken
	// at execution time wins over the count estimated at start.
	f := newExecutorFixture(t, 2)
	job := f.startJob(t, domain.JobModeAll, 5)

	require.NoError(t, f.executor.Execute(context.Background(), job.ID))

	final := f.jobStore.get(job.ID)
	assert.Equal(t, domain.JobStatusCompleted, final.Status)
	assert.Equal(t, 2, final.TotalProducts)
	assert.Equal(t, 2, final.ProcessedProducts)
}

func TestExecuteProgressNeverExceedsTotalMidRun(t *testing.T) {
	t.Parallel()

	// The catalog grew while the job sat PENDING: 5 products against an
	// estimate of 3. The corrected total must be persisted with the RUNNING
	// transition, before any per-item progress write, so a status read
	// never observes processed > total.
	f := newExecutorFixture(t, 5)
	job := f.startJob(t, domain.JobModeAll, 3)

	f.faqService.onGenerate = func(_ *domain.Product) {
		mid := f.jobStore.get(job.ID)
		assert.Equal(t, 5, mid.TotalProducts,
			"stored total must be corrected before items run")
		assert.LessOrEqual(t, mid.ProcessedProducts, mid.TotalProducts)
		assert.LessOrEqual(t, mid.Progress(), 100.0)
	}

	require.NoError(t, f.executor.Execute(context.Background(), job.ID))

	final := f.jobStore.get(job.ID)
	assert.Equal(t, domain.JobStatusCompleted, final.Status)
	assert.Equal(t, 5, final.TotalProducts)
	assert.Equal(t, 5, final.ProcessedProducts)
}

func TestExecutePacingDoesNotDelayCompletion(t *testing.T) {
	t.Parallel()

	// Pacing spaces item starts; it must not add a wait after the final
	// item. With a single product and an hour-long delay the job still
	// finishes immediately.
	f := newExecutorFixture(t, 1)
	executor, err := NewBulkGenerationJob(
		f.jobStore, f.productStore, f.activityLog, f.faqService, f.entitlements,
		time.Hour, nil)
	require.NoError(t, err)

	job := f.startJob(t, domain.JobModeAll, 1)

	start := time.Now()
	require.NoError(t, executor.Execute(context.Background(), job.ID))
	require.Less(t, time.Since(start), 10*time.Second)

	final := f.jobStore.get(job.ID)
	assert.Equal(t, domain.JobStatusCompleted, final.Status)
	assert.Equal(t, 1, final.ProcessedProducts)
}

func TestExecuteEmptySnapshotCompletesImmediately(t *testing.T) {
	t.Parallel()

	f := newExecutorFixture(t, 0)
	job := f.startJob(t, domain.JobModeAll, 1)

	require.NoError(t, f.executor.Execute(context.Background(), job.ID))

	final := f.jobStore.get(job.ID)
	assert.Equal(t, domain.JobStatusCompleted, final.Status)
	assert.Equal(t, 0, final.TotalProducts)
	assert.Equal(t, 0, f.faqService.callCount())
}

func TestExecuteMissingOnlySkipsFlaggedProducts(t *testing.T) {
	t.Parallel()

	f := newExecutorFixture(t, 4)
	f.productStore.products[0].HasFAQ = true
	f.productStore.products[3].HasFAQ = true

	job := f.startJob(t, domain.JobModeMissingOnly, 2)
	require.NoError(t, f.executor.Execute(context.Background(), job.ID))

	final := f.jobStore.get(job.ID)
	assert.Equal(t, 2, final.TotalProducts)
	assert.Equal(t, 2, final.ProcessedProducts)
	assert.Equal(t, 2, f.faqService.callCount())
}

func TestExecuteRunnerShutdownFailsJob(t *testing.T) {
	t.Parallel()

	f := newExecutorFixture(t, 3)
	job := f.startJob(t, domain.JobModeAll, 3)

	ctx, cancel := context.WithCancel(context.Background())
	f.faqService.onGenerate = func(p *domain.Product) {
		if p.ID == f.productStore.products[0].ID {
			cancel()
		}
	}

	err := f.executor.Execute(ctx, job.ID)
	assert.Error(t, err)

	final := f.jobStore.get(job.ID)
	assert.Equal(t, domain.JobStatusFailed, final.Status)
	require.NotNil(t, final.ErrorMessage)
	assert.Contains(t, *final.ErrorMessage, "interrupted")
}

func TestExecuteUnknownJob(t *testing.T) {
	t.Parallel()

	f := newExecutorFixture(t, 0)
	err := f.executor.Execute(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestNewBulkGenerationJobValidation(t *testing.T) {
	t.Parallel()

	f := newExecutorFixture(t, 0)

	_, err := NewBulkGenerationJob(nil, f.productStore, f.activityLog, f.faqService, f.entitlements, 0, nil)
	assert.ErrorIs(t, err, ErrNilJobStore)

	_, err = NewBulkGenerationJob(f.jobStore, nil, f.activityLog, f.faqService, f.entitlements, 0, nil)
	assert.ErrorIs(t, err, ErrNilProductStore)

	_, err = NewBulkGenerationJob(f.jobStore, f.productStore, nil, f.faqService, f.entitlements, 0, nil)
	assert.ErrorIs(t, err, ErrNilActivityLog)

	_, err = NewBulkGenerationJob(f.jobStore, f.productStore, f.activityLog, nil, f.entitlements, 0, nil)
	assert.ErrorIs(t, err, ErrNilFAQService)

	_, err = NewBulkGenerationJob(f.jobStore, f.productStore, f.activityLog, f.faqService, nil, 0, nil)
	assert.ErrorIs(t, err, ErrNilEntitlements)
}
