package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dealerops/dealerledger/internal/adapter/http/dto"
	"github.com/dealerops/dealerledger/internal/domain"
	"github.com/dealerops/dealerledger/internal/usecase"
)

// AdjustmentHandler handles the retroactive adjustment workflow.
type AdjustmentHandler struct {
	adjustmentUC *usecase.AdjustmentUseCase
	autoApprove  bool
}

// NewAdjustmentHandler creates a new AdjustmentHandler.
func NewAdjustmentHandler(adjustmentUC *usecase.AdjustmentUseCase, autoApprove bool) *AdjustmentHandler {
	return &AdjustmentHandler{adjustmentUC: adjustmentUC, autoApprove: autoApprove}
}

// Submit files an adjustment directly, without going through posting.
func (h *AdjustmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(!h.autoApprove)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid target month", err.Error())
		return
	}

	adj, err := h.adjustmentUC.Submit(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to submit adjustment", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AdjustmentFromDomain(adj))
}

// Get retrieves an adjustment by ID.
func (h *AdjustmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing adjustment ID", "")
		return
	}

	adj, err := h.adjustmentUC.Get(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get adjustment", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AdjustmentFromDomain(adj))
}

// List lists adjustments, optionally filtered by status and division.
func (h *AdjustmentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := usecase.AdjustmentFilter{
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.AdjustmentStatus(s)
		filter.Status = &status
	}
	if d := r.URL.Query().Get("division"); d != "" {
		division := domain.Division(d)
		filter.Division = &division
	}

	adjustments, err := h.adjustmentUC.List(r.Context(), filter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list adjustments", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AdjustmentsFromDomain(adjustments))
}

// Approve approves a pending adjustment and reclassifies its record.
func (h *AdjustmentHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing adjustment ID", "")
		return
	}

	var req dto.ApproveAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	adj, err := h.adjustmentUC.Approve(r.Context(), id, req.ApprovedBy)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to approve adjustment", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AdjustmentFromDomain(adj))
}

// Reject rejects a pending adjustment.
func (h *AdjustmentHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing adjustment ID", "")
		return
	}

	var req dto.RejectAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.adjustmentUC.Reject(r.Context(), id, req.Reason); err != nil {
		writeError(w, mapDomainError(err), "failed to reject adjustment", err.Error())
		return
	}

	adj, err := h.adjustmentUC.Get(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get adjustment", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AdjustmentFromDomain(adj))
}
