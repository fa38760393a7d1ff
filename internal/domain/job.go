package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the lifecycle state of a bulk generation job.
type JobStatus string

// Possible job status values. Pending and Running are the only non-terminal
// states; the others are final.
const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
	JobStatusCancelled JobStatus = "CANCELLED"
)

// IsTerminal reports whether the status is final. Jobs never leave a
// terminal state and are never reused.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	default:
		return false
	}
}

// JobMode selects which products a bulk job targets.
type JobMode string

// Possible job modes.
const (
	// JobModeAll targets every product the shop owns.
	JobModeAll JobMode = "ALL"

	// JobModeMissingOnly targets only products not yet flagged as having
	// generated FAQ content.
	JobModeMissingOnly JobMode = "MISSING_ONLY"
)

// Common validation errors for BulkJob
var (
	ErrEmptyJobID        = errors.New("job ID cannot be empty")
	ErrEmptyJobShopID    = errors.New("job shop ID cannot be empty")
	ErrNegativeJobCounts = errors.New("job counters cannot be negative")
	ErrProcessedOverrun  = errors.New("processed count cannot exceed total count")
)

// BulkJob is one background bulk FAQ generation run for a shop. The row is
// the sole coordination point between the launcher, the worker that owns it,
// and cancel/status requests. At most one job per shop may be in a
// non-terminal state at any instant; the store enforces that atomically.
type BulkJob struct {
	ID     uuid.UUID `json:"id"`
	ShopID uuid.UUID `json:"shop_id"`
	Mode   JobMode   `json:"mode"`
	Status JobStatus `json:"status"`

	TotalProducts     int `json:"total_products"`
	ProcessedProducts int `json:"processed_products"`

	// CurrentProductTitle marks the in-flight product, nil between items
	// and after the job reaches a terminal state.
	CurrentProductTitle *string `json:"current_product_title,omitempty"`

	// ErrorMessage is set only when the job fails.
	ErrorMessage *string `json:"error_message,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewBulkJob creates a pending job for the given shop, mode, and target count.
// Returns an error if validation fails.
func NewBulkJob(shopID uuid.UUID, mode JobMode, totalProducts int) (*BulkJob, error) {
	job := &BulkJob{
		ID:            uuid.New(),
		ShopID:        shopID,
		Mode:          mode,
		Status:        JobStatusPending,
		TotalProducts: totalProducts,
		CreatedAt:     time.Now().UTC(),
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

// Validate checks if the BulkJob has valid data.
func (j *BulkJob) Validate() error {
	if j.ID == uuid.Nil {
		return ErrEmptyJobID
	}
	if j.ShopID == uuid.Nil {
		return ErrEmptyJobShopID
	}
	if !isValidJobMode(j.Mode) {
		return ErrInvalidJobMode
	}
	if !isValidJobStatus(j.Status) {
		return ErrInvalidJobStatus
	}
	if j.TotalProducts < 0 || j.ProcessedProducts < 0 {
		return ErrNegativeJobCounts
	}
	if j.ProcessedProducts > j.TotalProducts {
		return ErrProcessedOverrun
	}
	return nil
}

// UpdateStatus moves the job to a new status. Transitions out of a terminal
// state are rejected.
func (j *BulkJob) UpdateStatus(status JobStatus) error {
	if !isValidJobStatus(status) {
		return ErrInvalidJobStatus
	}
	if j.Status.IsTerminal() {
		return ErrInvalidTransition
	}
	j.Status = status
	return nil
}

// Progress reports completion as a percentage in [0, 100].
// A job with no target products reports 0.
func (j *BulkJob) Progress() float64 {
	if j.TotalProducts <= 0 {
		return 0
	}
	return float64(j.ProcessedProducts) / float64(j.TotalProducts) * 100
}

func isValidJobStatus(status JobStatus) bool {
	switch status {
	case JobStatusPending, JobStatusRunning, JobStatusCompleted,
		JobStatusFailed, JobStatusCancelled:
		return true
	default:
		return false
	}
}

func isValidJobMode(mode JobMode) bool {
	switch mode {
	case JobModeAll, JobModeMissingOnly:
		return true
	default:
		return false
	}
}
