package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dealerops/dealerledger/internal/adapter/http/dto"
	"github.com/dealerops/dealerledger/internal/usecase"
)

// PostingHandler handles business event posting.
type PostingHandler struct {
	postingUC *usecase.PostingUseCase
	// autoApprove is the default approval policy for closed-period events
	// when the request does not specify one.
	autoApprove bool
}

// NewPostingHandler creates a new PostingHandler.
func NewPostingHandler(postingUC *usecase.PostingUseCase, autoApprove bool) *PostingHandler {
	return &PostingHandler{postingUC: postingUC, autoApprove: autoApprove}
}

// Create posts a business event. Open periods write ledger entries
// directly; closed periods answer 202 with the filed adjustment.
func (h *PostingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.PostTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	// Auto-approve in config means approval is NOT required by default.
	result, err := h.postingUC.Post(r.Context(), req.ToUseCaseInput(!h.autoApprove))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to post transaction", err.Error())
		return
	}

	status := http.StatusCreated
	if result.Adjustment != nil {
		status = http.StatusAccepted
	}

	writeJSON(w, status, dto.PostResultFromUseCase(result))
}
