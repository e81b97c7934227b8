package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dealerops/dealerledger/internal/adapter/http/dto"
	"github.com/dealerops/dealerledger/internal/domain"
	"github.com/dealerops/dealerledger/internal/usecase"
)

// ProfitHandler handles the profit adjustment ledger.
type ProfitHandler struct {
	profitUC *usecase.ProfitUseCase
}

// NewProfitHandler creates a new ProfitHandler.
func NewProfitHandler(profitUC *usecase.ProfitUseCase) *ProfitHandler {
	return &ProfitHandler{profitUC: profitUC}
}

// Deduct records a profit deduction.
func (h *ProfitHandler) Deduct(w http.ResponseWriter, r *http.Request) {
	var req dto.DeductProfitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	adj, err := h.profitUC.Deduct(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record deduction", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ProfitAdjustmentFromDomain(adj))
}

// Restore reverses the active deduction on an operational record.
func (h *ProfitHandler) Restore(w http.ResponseWriter, r *http.Request) {
	var req dto.RestoreProfitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	adj, err := h.profitUC.Restore(r.Context(), req.OperationalID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to restore profit", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ProfitAdjustmentFromDomain(adj))
}

// Summary aggregates deductions and restorations over an optional
// division and date window (?division=&start=&end=, RFC 3339 dates).
func (h *ProfitHandler) Summary(w http.ResponseWriter, r *http.Request) {
	var input usecase.SummaryInput

	if d := r.URL.Query().Get("division"); d != "" {
		division := domain.Division(d)
		input.Division = &division
	}
	if s := r.URL.Query().Get("start"); s != "" {
		start, err := time.Parse(time.RFC3339, s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start date", err.Error())
			return
		}
		input.Start = &start
	}
	if e := r.URL.Query().Get("end"); e != "" {
		end, err := time.Parse(time.RFC3339, e)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end date", err.Error())
			return
		}
		input.End = &end
	}

	summary, err := h.profitUC.Summary(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to summarize profit adjustments", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ProfitSummaryFromDomain(summary))
}
