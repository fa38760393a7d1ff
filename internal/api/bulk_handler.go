package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/faqgen-api/internal/api/shared"
	"github.com/phrazzld/faqgen-api/internal/domain"
	"github.com/phrazzld/faqgen-api/internal/service"
)

// BulkHandler handles bulk FAQ generation API requests. All endpoints are
// scoped to the authenticated shop; there is no cross-shop access and no
// job ID in the URL.
type BulkHandler struct {
	bulkService service.BulkService
	validator   *validator.Validate
}

// NewBulkHandler creates a new BulkHandler with the given dependencies.
func NewBulkHandler(bulkService service.BulkService) *BulkHandler {
	return &BulkHandler{
		bulkService: bulkService,
		validator:   validator.New(),
	}
}

// Start handles POST /bulk/start. It creates a job and returns 202 with
// the job identity; generation continues in the background.
func (h *BulkHandler) Start(w http.ResponseWriter, r *http.Request) {
	shopID, ok := requireShopID(w, r)
	if !ok {
		return
	}

	var req BulkStartRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	mode := domain.JobMode(req.Mode)
	if mode == "" {
		mode = domain.JobModeAll
	}

	job, err := h.bulkService.Start(r.Context(), shopID, mode)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, BulkStartResponse{
		JobID:         job.ID,
		Status:        string(job.Status),
		Mode:          string(job.Mode),
		TotalProducts: job.TotalProducts,
	})
}

// Cancel handles POST /bulk/cancel. The response carries the job already in
// CANCELLED state; the worker stops at its next checkpoint.
func (h *BulkHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	shopID, ok := requireShopID(w, r)
	if !ok {
		return
	}

	job, err := h.bulkService.Cancel(r.Context(), shopID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newJobStatusResponse(job))
}

// Status handles GET /bulk/status. It returns the shop's most recent job
// in any state, or {"status": "none"} for shops that never ran one.
func (h *BulkHandler) Status(w http.ResponseWriter, r *http.Request) {
	shopID, ok := requireShopID(w, r)
	if !ok {
		return
	}

	job, err := h.bulkService.Status(r.Context(), shopID)
	if err != nil {
		if errors.Is(err, service.ErrNoJobs) {
			shared.RespondWithJSON(w, r, http.StatusOK, EmptyStatusResponse{Status: NoJobStatus})
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newJobStatusResponse(job))
}
