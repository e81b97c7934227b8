package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dealerops/dealerledger/internal/adapter/http/dto"
	"github.com/dealerops/dealerledger/internal/domain"
	"github.com/dealerops/dealerledger/internal/usecase"
)

// ClosureHandler handles monthly closures.
type ClosureHandler struct {
	closureUC *usecase.ClosureUseCase
}

// NewClosureHandler creates a new ClosureHandler.
func NewClosureHandler(closureUC *usecase.ClosureUseCase) *ClosureHandler {
	return &ClosureHandler{closureUC: closureUC}
}

// Close marks a period read-only for direct posting.
func (h *ClosureHandler) Close(w http.ResponseWriter, r *http.Request) {
	var req dto.CloseMonthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	period, err := domain.ParsePeriod(req.Period)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", err.Error())
		return
	}

	closure, err := h.closureUC.CloseMonth(r.Context(), period, req.ClosedBy)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to close month", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ClosureFromDomain(closure))
}

// List returns every closed period.
func (h *ClosureHandler) List(w http.ResponseWriter, r *http.Request) {
	closures, err := h.closureUC.ListClosures(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list closures", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ClosuresFromDomain(closures))
}

// Status reports whether a period is closed.
func (h *ClosureHandler) Status(w http.ResponseWriter, r *http.Request) {
	period, err := domain.ParsePeriod(chi.URLParam(r, "period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", err.Error())
		return
	}

	closed, err := h.closureUC.IsClosed(r.Context(), period)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to check closure", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ClosureStatusResponse{
		Period: period.String(),
		Closed: closed,
	})
}
