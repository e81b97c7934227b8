package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dealerops/dealerledger/internal/adapter/http/dto"
	"github.com/dealerops/dealerledger/internal/domain"
	"github.com/dealerops/dealerledger/internal/usecase"
	"github.com/dealerops/dealerledger/internal/usecase/mocks"
)

type adjustmentHandlerFixture struct {
	handler *AdjustmentHandler
	adjRepo *mocks.MockAdjustmentRepository
	records *mocks.MockRecordRepository
	entries *mocks.MockEntryRepository
}

func newAdjustmentHandler(autoApprove bool) *adjustmentHandlerFixture {
	adjRepo := mocks.NewMockAdjustmentRepository()
	records := mocks.NewMockRecordRepository()
	entries := mocks.NewMockEntryRepository()

	uc := usecase.NewAdjustmentUseCase(
		mocks.NewMockTransactionManager(),
		adjRepo,
		records,
		entries,
		mocks.NewMockIDGenerator(),
		nil,
	)

	return &adjustmentHandlerFixture{
		handler: NewAdjustmentHandler(uc, autoApprove),
		adjRepo: adjRepo,
		records: records,
		entries: entries,
	}
}

func submitAdjustmentBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(dto.SubmitAdjustmentRequest{
		TargetMonth: "2025-02",
		FilingDate:  time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Category:    "cash_full",
		Amount:      decimal.NewFromInt(15_000_000),
		CompanyID:   "comp-1",
		Division:    "sport",
		RecordID:    "rec-1",
		CreatedBy:   "staff-1",
	})
	require.NoError(t, err)
	return body
}

func TestAdjustmentHandler_Submit(t *testing.T) {
	f := newAdjustmentHandler(false)

	req := httptest.NewRequest(http.MethodPost, "/adjustments", bytes.NewReader(submitAdjustmentBody(t)))
	rec := httptest.NewRecorder()
	f.handler.Submit(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp dto.AdjustmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "2025-02", resp.TargetMonth)
	require.Equal(t, string(domain.AdjustmentPending), resp.Status)
	require.True(t, resp.RequiresApproval)
}

func TestAdjustmentHandler_Submit_InvalidTargetMonth(t *testing.T) {
	f := newAdjustmentHandler(false)

	body, _ := json.Marshal(dto.SubmitAdjustmentRequest{TargetMonth: "february"})
	req := httptest.NewRequest(http.MethodPost, "/adjustments", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	f.handler.Submit(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdjustmentHandler_ApproveReclassifies(t *testing.T) {
	f := newAdjustmentHandler(false)
	f.records.Records["rec-1"] = &domain.OperationalRecord{
		ID:        "rec-1",
		Date:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		CompanyID: "comp-1",
		Division:  domain.DivisionSport,
	}
	f.entries.Entries["ent-1"] = &domain.LedgerEntry{
		ID:          "ent-1",
		Date:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Description: "Penjualan cash_full unit Vario",
		Credit:      decimal.NewFromInt(15_000_000),
		CompanyID:   "comp-1",
		Division:    domain.DivisionSport,
	}

	rec := httptest.NewRecorder()
	f.handler.Submit(rec, httptest.NewRequest(http.MethodPost, "/adjustments", bytes.NewReader(submitAdjustmentBody(t))))
	require.Equal(t, http.StatusCreated, rec.Code)

	var submitted dto.AdjustmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))

	body, _ := json.Marshal(dto.ApproveAdjustmentRequest{ApprovedBy: "manager-1"})
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/adjustments/"+submitted.ID+"/approve", bytes.NewReader(body)), "id", submitted.ID)
	rec = httptest.NewRecorder()
	f.handler.Approve(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp dto.AdjustmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, string(domain.AdjustmentApproved), resp.Status)
	require.Equal(t, "manager-1", resp.ApprovedBy)

	// Record and matched entry moved into the target month.
	require.Equal(t, 2025, f.records.Records["rec-1"].Date.Year())
	require.Equal(t, time.February, f.records.Records["rec-1"].Date.Month())
	require.Equal(t, time.February, f.entries.Entries["ent-1"].Date.Month())
}

func TestAdjustmentHandler_Approve_NotPending(t *testing.T) {
	f := newAdjustmentHandler(false)
	f.records.Records["rec-1"] = &domain.OperationalRecord{
		ID:   "rec-1",
		Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	rec := httptest.NewRecorder()
	f.handler.Submit(rec, httptest.NewRequest(http.MethodPost, "/adjustments", bytes.NewReader(submitAdjustmentBody(t))))
	require.Equal(t, http.StatusCreated, rec.Code)

	var submitted dto.AdjustmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))

	approve := func() *httptest.ResponseRecorder {
		body, _ := json.Marshal(dto.ApproveAdjustmentRequest{ApprovedBy: "manager-1"})
		req := withURLParam(httptest.NewRequest(http.MethodPost, "/adjustments/"+submitted.ID+"/approve", bytes.NewReader(body)), "id", submitted.ID)
		rec := httptest.NewRecorder()
		f.handler.Approve(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, approve().Code)
	require.Equal(t, http.StatusConflict, approve().Code)
}

func TestAdjustmentHandler_Reject_RequiresReason(t *testing.T) {
	f := newAdjustmentHandler(false)

	rec := httptest.NewRecorder()
	f.handler.Submit(rec, httptest.NewRequest(http.MethodPost, "/adjustments", bytes.NewReader(submitAdjustmentBody(t))))
	require.Equal(t, http.StatusCreated, rec.Code)

	var submitted dto.AdjustmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))

	body, _ := json.Marshal(dto.RejectAdjustmentRequest{})
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/adjustments/"+submitted.ID+"/reject", bytes.NewReader(body)), "id", submitted.ID)
	rec = httptest.NewRecorder()
	f.handler.Reject(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdjustmentHandler_Reject(t *testing.T) {
	f := newAdjustmentHandler(false)

	rec := httptest.NewRecorder()
	f.handler.Submit(rec, httptest.NewRequest(http.MethodPost, "/adjustments", bytes.NewReader(submitAdjustmentBody(t))))
	require.Equal(t, http.StatusCreated, rec.Code)

	var submitted dto.AdjustmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))

	body, _ := json.Marshal(dto.RejectAdjustmentRequest{Reason: "duplicate filing"})
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/adjustments/"+submitted.ID+"/reject", bytes.NewReader(body)), "id", submitted.ID)
	rec = httptest.NewRecorder()
	f.handler.Reject(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp dto.AdjustmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, string(domain.AdjustmentRejected), resp.Status)
	require.Equal(t, "duplicate filing", resp.RejectionReason)
}

func TestAdjustmentHandler_Get_NotFound(t *testing.T) {
	f := newAdjustmentHandler(false)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/adjustments/ghost", nil), "id", "ghost")
	rec := httptest.NewRecorder()
	f.handler.Get(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdjustmentHandler_List_FiltersByStatus(t *testing.T) {
	f := newAdjustmentHandler(false)
	f.adjRepo.Adjustments["a1"] = &domain.RetroactiveAdjustment{ID: "a1", Status: domain.AdjustmentPending, TargetMonth: domain.Period{Month: 2, Year: 2025}}
	f.adjRepo.Adjustments["a2"] = &domain.RetroactiveAdjustment{ID: "a2", Status: domain.AdjustmentApproved, TargetMonth: domain.Period{Month: 2, Year: 2025}}

	req := httptest.NewRequest(http.MethodGet, "/adjustments?status=pending", nil)
	rec := httptest.NewRecorder()
	f.handler.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []*dto.AdjustmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	require.Equal(t, "a1", resp[0].ID)
}
