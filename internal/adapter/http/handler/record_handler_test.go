package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dealerops/dealerledger/internal/adapter/http/dto"
	"github.com/dealerops/dealerledger/internal/domain"
	"github.com/dealerops/dealerledger/internal/usecase"
	"github.com/dealerops/dealerledger/internal/usecase/mocks"
)

func TestRecordHandler_Locate(t *testing.T) {
	ctrl := gomock.NewController(t)
	master := mocks.NewMockRecordStore(ctrl)
	history := mocks.NewMockRecordStore(ctrl)
	combined := mocks.NewMockRecordStore(ctrl)

	clock := &mocks.MockClock{NowTime: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)}
	h := NewRecordHandler(usecase.NewLocatorUseCase(master, history, combined, clock, nil))

	period := domain.Period{Month: 3, Year: 2025}
	master.EXPECT().
		Query(gomock.Any(), "penjualan", domain.DivisionSport, period).
		Return([]*domain.OperationalRecord{{
			ID:         "rec-1",
			EntityType: "penjualan",
			Division:   domain.DivisionSport,
			Date:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			SalePrice:  decimal.NewFromInt(17_000_000),
		}}, nil).
		Times(1)

	req := httptest.NewRequest(http.MethodGet, "/records?entity_type=penjualan&division=sport&period=2025-03", nil)
	rec := httptest.NewRecorder()
	h.Locate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp dto.LocateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, string(domain.SourceMaster), resp.Source)
	require.Len(t, resp.Records, 1)
	require.Equal(t, "rec-1", resp.Records[0].ID)
}

func TestRecordHandler_Locate_MissingEntityType(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewRecordHandler(usecase.NewLocatorUseCase(
		mocks.NewMockRecordStore(ctrl),
		mocks.NewMockRecordStore(ctrl),
		mocks.NewMockRecordStore(ctrl),
		&mocks.MockClock{NowTime: time.Now()},
		nil,
	))

	req := httptest.NewRequest(http.MethodGet, "/records?division=sport&period=2025-03", nil)
	rec := httptest.NewRecorder()
	h.Locate(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecordHandler_Locate_InvalidPeriod(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewRecordHandler(usecase.NewLocatorUseCase(
		mocks.NewMockRecordStore(ctrl),
		mocks.NewMockRecordStore(ctrl),
		mocks.NewMockRecordStore(ctrl),
		&mocks.MockClock{NowTime: time.Now()},
		nil,
	))

	req := httptest.NewRequest(http.MethodGet, "/records?entity_type=penjualan&division=sport&period=march", nil)
	rec := httptest.NewRecorder()
	h.Locate(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
