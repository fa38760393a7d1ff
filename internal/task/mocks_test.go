package task

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/faqgen-api/internal/domain"
	"github.com/phrazzld/faqgen-api/internal/service"
	"github.com/phrazzld/faqgen-api/internal/store"
)

// fakeJobStore is an in-memory store.JobStore that mirrors the terminal
// immutability of the real one: Update refuses to touch terminal rows.
type fakeJobStore struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*domain.BulkJob

	orphanedCalls int
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: make(map[uuid.UUID]*domain.BulkJob)}
}

func (s *fakeJobStore) put(job *domain.BulkJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *job
	s.jobs[job.ID] = &copied
}

func (s *fakeJobStore) get(id uuid.UUID) *domain.BulkJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *s.jobs[id]
	return &copied
}

func (s *fakeJobStore) cancel(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[id].Status = domain.JobStatusCancelled
}

func (s *fakeJobStore) Create(_ context.Context, job *domain.BulkJob) error {
	s.put(job)
	return nil
}

func (s *fakeJobStore) GetByID(_ context.Context, id uuid.UUID) (*domain.BulkJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, store.ErrJobNotFound
	}
	copied := *job
	return &copied, nil
}

func (s *fakeJobStore) Update(_ context.Context, job *domain.BulkJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.jobs[job.ID]
	if !ok {
		return store.ErrJobNotFound
	}
	if current.Status.IsTerminal() {
		return store.ErrUpdateFailed
	}
	copied := *job
	s.jobs[job.ID] = &copied
	return nil
}

func (s *fakeJobStore) UpdateProgress(
	_ context.Context,
	id uuid.UUID,
	processed int,
	currentProductTitle *string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return store.ErrJobNotFound
	}
	job.ProcessedProducts = processed
	job.CurrentProductTitle = currentProductTitle
	return nil
}

func (s *fakeJobStore) FindActiveByShop(_ context.Context, shopID uuid.UUID) (*domain.BulkJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range s.jobs {
		if job.ShopID == shopID && !job.Status.IsTerminal() {
			copied := *job
			return &copied, nil
		}
	}
	return nil, store.ErrJobNotFound
}

func (s *fakeJobStore) FindLatestByShop(_ context.Context, shopID uuid.UUID) (*domain.BulkJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *domain.BulkJob
	for _, job := range s.jobs {
		if job.ShopID != shopID {
			continue
		}
		if latest == nil || job.CreatedAt.After(latest.CreatedAt) {
			latest = job
		}
	}
	if latest == nil {
		return nil, store.ErrJobNotFound
	}
	copied := *latest
	return &copied, nil
}

func (s *fakeJobStore) CancelActive(_ context.Context, shopID uuid.UUID) (*domain.BulkJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range s.jobs {
		if job.ShopID == shopID && !job.Status.IsTerminal() {
			job.Status = domain.JobStatusCancelled
			copied := *job
			return &copied, nil
		}
	}
	return nil, store.ErrJobNotFound
}

func (s *fakeJobStore) FailOrphaned(_ context.Context, message string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orphanedCalls++
	var count int64
	for _, job := range s.jobs {
		if !job.Status.IsTerminal() {
			job.Status = domain.JobStatusFailed
			msg := message
			job.ErrorMessage = &msg
			count++
		}
	}
	return count, nil
}

func (s *fakeJobStore) WithTx(_ *sql.Tx) store.JobStore { return s }

// fakeProductStore is an in-memory store.ProductStore.
type fakeProductStore struct {
	mu       sync.Mutex
	products []*domain.Product
	findErr  error
}

func (s *fakeProductStore) FindByShop(
	_ context.Context,
	_ uuid.UUID,
	missingFAQOnly bool,
) ([]*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	var out []*domain.Product
	for _, p := range s.products {
		if missingFAQOnly && p.HasFAQ {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeProductStore) CountByShop(
	ctx context.Context,
	shopID uuid.UUID,
	missingFAQOnly bool,
) (int, error) {
	products, err := s.FindByShop(ctx, shopID, missingFAQOnly)
	if err != nil {
		return 0, err
	}
	return len(products), nil
}

func (s *fakeProductStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, store.ErrProductNotFound
}

func (s *fakeProductStore) SetHasFAQ(_ context.Context, id uuid.UUID, hasFAQ bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			p.HasFAQ = hasFAQ
			return nil
		}
	}
	return store.ErrProductNotFound
}

func (s *fakeProductStore) WithTx(_ *sql.Tx) store.ProductStore { return s }

// fakeActivityLog is an in-memory store.ActivityLogStore.
type fakeActivityLog struct {
	mu      sync.Mutex
	entries []*domain.ActivityLog
}

func (s *fakeActivityLog) Append(_ context.Context, entry *domain.ActivityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *fakeActivityLog) byLevel(level domain.ActivityLevel) []*domain.ActivityLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.ActivityLog
	for _, e := range s.entries {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

func (s *fakeActivityLog) WithTx(_ *sql.Tx) store.ActivityLogStore { return s }

// fakeFAQService scripts per-product outcomes. The onGenerate hook lets
// tests mutate state (e.g. cancel the job) while an item is in flight.
type fakeFAQService struct {
	mu         sync.Mutex
	results    map[uuid.UUID]service.ItemResult
	fatalErr   error
	calls      []uuid.UUID
	onGenerate func(product *domain.Product)
}

func (s *fakeFAQService) GenerateAndSave(
	_ context.Context,
	product *domain.Product,
	_ int,
) (service.ItemResult, error) {
	s.mu.Lock()
	s.calls = append(s.calls, product.ID)
	hook := s.onGenerate
	s.mu.Unlock()

	if hook != nil {
		hook(product)
	}

	if s.fatalErr != nil {
		return service.ItemResult{}, s.fatalErr
	}
	if result, ok := s.results[product.ID]; ok {
		return result, nil
	}
	return service.ItemResult{Outcome: service.ItemSuccess, QuestionCount: 3}, nil
}

func (s *fakeFAQService) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// fakeEntitlements returns a fixed entitlement.
type fakeEntitlements struct {
	entitlement domain.Entitlement
	err         error
}

func (s *fakeEntitlements) ResolveForShop(
	_ context.Context,
	_ uuid.UUID,
) (domain.Entitlement, error) {
	if s.err != nil {
		return domain.Entitlement{}, s.err
	}
	return s.entitlement, nil
}
