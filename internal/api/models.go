package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/faqgen-api/internal/domain"
)

// Common request/response structures

// LoginRequest defines the payload for the shop login endpoint.
type LoginRequest struct {
	Domain   string `json:"domain"   validate:"required,min=3,max=255"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for the login endpoint.
type AuthResponse struct {
	// ShopID is the unique identifier for the authenticated shop
	ShopID uuid.UUID `json:"shop_id"`

	// Token is the JWT used for API authorization
	Token string `json:"token"`

	// ExpiresAt is the ISO 8601 timestamp when the token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// BulkStartRequest defines the payload for the bulk start endpoint.
// An empty mode defaults to ALL.
type BulkStartRequest struct {
	Mode string `json:"mode" validate:"omitempty,oneof=ALL MISSING_ONLY"`
}

// BulkStartResponse defines the successful response for the bulk start endpoint.
type BulkStartResponse struct {
	JobID         uuid.UUID `json:"job_id"`
	Status        string    `json:"status"`
	Mode          string    `json:"mode"`
	TotalProducts int       `json:"total_products"`
}

// JobStatusResponse is the full job representation returned by the status
// and cancel endpoints.
type JobStatusResponse struct {
	JobID             uuid.UUID  `json:"job_id"`
	Status            string     `json:"status"`
	Mode              string     `json:"mode"`
	TotalProducts     int        `json:"total_products"`
	ProcessedProducts int        `json:"processed_products"`
	Progress          float64    `json:"progress"`
	CurrentProduct    *string    `json:"current_product_title,omitempty"`
	ErrorMessage      *string    `json:"error_message,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

// NoJobStatus is returned by the status endpoint for shops that never ran
// a bulk job.
const NoJobStatus = "none"

// EmptyStatusResponse is the status payload when no job exists.
type EmptyStatusResponse struct {
	Status string `json:"status"`
}

// newJobStatusResponse maps a domain job to its API representation.
func newJobStatusResponse(job *domain.BulkJob) JobStatusResponse {
	return JobStatusResponse{
		JobID:             job.ID,
		Status:            string(job.Status),
		Mode:              string(job.Mode),
		TotalProducts:     job.TotalProducts,
		ProcessedProducts: job.ProcessedProducts,
		Progress:          job.Progress(),
		CurrentProduct:    job.CurrentProductTitle,
		ErrorMessage:      job.ErrorMessage,
		CreatedAt:         job.CreatedAt,
		CompletedAt:       job.CompletedAt,
	}
}
