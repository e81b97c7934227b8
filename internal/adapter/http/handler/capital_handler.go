package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dealerops/dealerledger/internal/adapter/http/dto"
	"github.com/dealerops/dealerledger/internal/usecase"
)

// CapitalHandler handles company capital operations.
type CapitalHandler struct {
	capitalUC *usecase.CapitalUseCase
}

// NewCapitalHandler creates a new CapitalHandler.
func NewCapitalHandler(capitalUC *usecase.CapitalUseCase) *CapitalHandler {
	return &CapitalHandler{capitalUC: capitalUC}
}

// Balance returns a company's current capital.
func (h *CapitalHandler) Balance(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	if companyID == "" {
		writeError(w, http.StatusBadRequest, "missing company ID", "")
		return
	}

	balance, err := h.capitalUC.Balance(r.Context(), companyID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{CompanyID: companyID, Modal: balance})
}

// History lists a company's capital movements.
func (h *CapitalHandler) History(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	if companyID == "" {
		writeError(w, http.StatusBadRequest, "missing company ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	history, err := h.capitalUC.History(r.Context(), companyID, limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list capital history", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CapitalHistoriesFromDomain(history))
}

// Adjust applies a signed capital delta.
func (h *CapitalHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	if companyID == "" {
		writeError(w, http.StatusBadRequest, "missing company ID", "")
		return
	}

	var req dto.AdjustCapitalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	hist, err := h.capitalUC.Adjust(r.Context(), companyID, req.Delta, req.Description)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to adjust capital", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.CapitalHistoryFromDomain(hist))
}

// Reduce withdraws capital with an overdraw guard.
func (h *CapitalHandler) Reduce(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	if companyID == "" {
		writeError(w, http.StatusBadRequest, "missing company ID", "")
		return
	}

	var req dto.ReduceCapitalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	hist, err := h.capitalUC.Reduce(r.Context(), companyID, req.Amount, req.Description)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reduce capital", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.CapitalHistoryFromDomain(hist))
}
