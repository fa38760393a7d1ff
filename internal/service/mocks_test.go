package service

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/faqgen-api/internal/domain"
	"github.com/phrazzld/faqgen-api/internal/generation"
	"github.com/phrazzld/faqgen-api/internal/store"
)

// mockSubscriptionStore implements store.SubscriptionStore for testing.
type mockSubscriptionStore struct {
	subscriptions []*domain.Subscription
	err           error
}

func (m *mockSubscriptionStore) FindActiveByShop(
	_ context.Context,
	_ uuid.UUID,
) ([]*domain.Subscription, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.subscriptions, nil
}

func (m *mockSubscriptionStore) WithTx(_ *sql.Tx) store.SubscriptionStore { return m }

// mockFAQGenerator implements generation.FAQGenerator for testing.
type mockFAQGenerator struct {
	response *generation.FAQResponse
	err      error

	calls        int
	lastMax      int
	lastProduct  *domain.Product
	generateFunc func(ctx context.Context, product *domain.Product, maxQuestions int) (*generation.FAQResponse, error)
}

func (m *mockFAQGenerator) GenerateFAQ(
	ctx context.Context,
	product *domain.Product,
	maxQuestions int,
) (*generation.FAQResponse, error) {
	m.calls++
	m.lastMax = maxQuestions
	m.lastProduct = product
	if m.generateFunc != nil {
		return m.generateFunc(ctx, product, maxQuestions)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

// mockFAQStore implements store.FAQStore for testing.
type mockFAQStore struct {
	mu        sync.Mutex
	upserted  []*domain.FAQ
	upsertErr error
}

func (m *mockFAQStore) Upsert(_ context.Context, faq *domain.FAQ) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, faq)
	return nil
}

func (m *mockFAQStore) GetByProduct(_ context.Context, _ uuid.UUID) (*domain.FAQ, error) {
	return nil, store.ErrFAQNotFound
}

func (m *mockFAQStore) WithTx(_ *sql.Tx) store.FAQStore { return m }

// mockJobStore implements store.JobStore for testing.
type mockJobStore struct {
	mu sync.Mutex

	jobs      map[uuid.UUID]*domain.BulkJob
	activeJob *domain.BulkJob
	latestJob *domain.BulkJob

	createErr error
	cancelErr error
}

func newMockJobStore() *mockJobStore {
	return &mockJobStore{jobs: make(map[uuid.UUID]*domain.BulkJob)}
}

func (m *mockJobStore) Create(_ context.Context, job *domain.BulkJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.jobs[job.ID] = job
	m.latestJob = job
	return nil
}

func (m *mockJobStore) GetByID(_ context.Context, id uuid.UUID) (*domain.BulkJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, store.ErrJobNotFound
	}
	return job, nil
}

func (m *mockJobStore) Update(_ context.Context, job *domain.BulkJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = job
	return nil
}

func (m *mockJobStore) UpdateProgress(
	_ context.Context,
	_ uuid.UUID,
	_ int,
	_ *string,
) error {
	return nil
}

func (m *mockJobStore) FindActiveByShop(_ context.Context, _ uuid.UUID) (*domain.BulkJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.activeJob == nil {
		return nil, store.ErrJobNotFound
	}
	return m.activeJob, nil
}

func (m *mockJobStore) FindLatestByShop(_ context.Context, _ uuid.UUID) (*domain.BulkJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.latestJob == nil {
		return nil, store.ErrJobNotFound
	}
	return m.latestJob, nil
}

func (m *mockJobStore) CancelActive(_ context.Context, _ uuid.UUID) (*domain.BulkJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancelErr != nil {
		return nil, m.cancelErr
	}
	if m.activeJob == nil {
		return nil, store.ErrJobNotFound
	}
	m.activeJob.Status = domain.JobStatusCancelled
	return m.activeJob, nil
}

func (m *mockJobStore) FailOrphaned(_ context.Context, _ string) (int64, error) {
	return 0, nil
}

func (m *mockJobStore) WithTx(_ *sql.Tx) store.JobStore { return m }

// mockProductStore implements store.ProductStore for testing.
type mockProductStore struct {
	products []*domain.Product
	countErr error
}

func (m *mockProductStore) FindByShop(
	_ context.Context,
	_ uuid.UUID,
	missingFAQOnly bool,
) ([]*domain.Product, error) {
	if !missingFAQOnly {
		return m.products, nil
	}
	var out []*domain.Product
	for _, p := range m.products {
		if !p.HasFAQ {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProductStore) CountByShop(
	ctx context.Context,
	shopID uuid.UUID,
	missingFAQOnly bool,
) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	products, _ := m.FindByShop(ctx, shopID, missingFAQOnly)
	return len(products), nil
}

func (m *mockProductStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	for _, p := range m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, store.ErrProductNotFound
}

func (m *mockProductStore) SetHasFAQ(_ context.Context, id uuid.UUID, hasFAQ bool) error {
	for _, p := range m.products {
		if p.ID == id {
			p.HasFAQ = hasFAQ
			return nil
		}
	}
	return store.ErrProductNotFound
}

func (m *mockProductStore) WithTx(_ *sql.Tx) store.ProductStore { return m }

// mockActivityLogStore implements store.ActivityLogStore for testing.
type mockActivityLogStore struct {
	mu      sync.Mutex
	entries []*domain.ActivityLog
	err     error
}

func (m *mockActivityLogStore) Append(_ context.Context, entry *domain.ActivityLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockActivityLogStore) WithTx(_ *sql.Tx) store.ActivityLogStore { return m }

// mockEntitlementService implements EntitlementService for testing.
type mockEntitlementService struct {
	entitlement domain.Entitlement
	err         error
}

func (m *mockEntitlementService) ResolveForShop(
	_ context.Context,
	_ uuid.UUID,
) (domain.Entitlement, error) {
	if m.err != nil {
		return domain.Entitlement{}, m.err
	}
	return m.entitlement, nil
}

// mockJobLauncher implements JobLauncher for testing.
type mockJobLauncher struct {
	mu       sync.Mutex
	launched []uuid.UUID
}

func (m *mockJobLauncher) Launch(jobID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.launched = append(m.launched, jobID)
}
