package handler

import (
	"net/http"

	"github.com/dealerops/dealerledger/internal/adapter/http/dto"
	"github.com/dealerops/dealerledger/internal/domain"
	"github.com/dealerops/dealerledger/internal/usecase"
)

// RecordHandler answers record lookups through the cascading locator.
type RecordHandler struct {
	locatorUC *usecase.LocatorUseCase
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(locatorUC *usecase.LocatorUseCase) *RecordHandler {
	return &RecordHandler{locatorUC: locatorUC}
}

// Locate finds records for (?entity_type=&division=&period=YYYY-MM).
func (h *RecordHandler) Locate(w http.ResponseWriter, r *http.Request) {
	entityType := r.URL.Query().Get("entity_type")
	if entityType == "" {
		writeError(w, http.StatusBadRequest, "missing entity_type", "")
		return
	}

	period, err := domain.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", err.Error())
		return
	}

	division := domain.Division(r.URL.Query().Get("division"))

	result, err := h.locatorUC.Locate(r.Context(), entityType, division, period)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to locate records", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LocateFromUseCase(result))
}
