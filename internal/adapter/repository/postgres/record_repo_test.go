package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dealerops/dealerledger/internal/domain"
)

func TestListMisdatedRetroactiveReadsCombinedView(t *testing.T) {
	mockPool := newMockPool(t)

	month, year := 1, 2025
	mockPool.ExpectQuery(`FROM penjualan_combined WHERE is_retroactive AND target_month IS NOT NULL`).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "entity_type", "date", "division", "company_id", "customer_name", "unit_name",
			"sale_price", "cost_price", "profit", "is_retroactive", "target_month", "target_year", "created_at",
		}).AddRow(
			"rec-1", "penjualan", time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), "sport", "comp-1", "Budi", "Vario 160",
			decimal.NewFromInt(15_000_000), decimal.NewFromInt(13_000_000), decimal.NewFromInt(2_000_000),
			true, &month, &year, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		))

	repo := &RecordRepository{db: mockPool}
	records, err := repo.ListMisdatedRetroactive(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, &domain.Period{Month: 1, Year: 2025}, records[0].TargetMonth)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestUpdateDateFallsBackToHistoryTier(t *testing.T) {
	date := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("archived row updates in history", func(t *testing.T) {
		mockPool := newMockPool(t)
		mockPool.ExpectExec(`UPDATE penjualan SET date = \$2 WHERE id = \$1`).
			WithArgs("rec-1", date).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mockPool.ExpectExec(`UPDATE penjualan_history SET date = \$2 WHERE id = \$1`).
			WithArgs("rec-1", date).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := &RecordRepository{db: mockPool}
		require.NoError(t, repo.UpdateDate(context.Background(), nil, "rec-1", date))
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("missing in both tiers is not found", func(t *testing.T) {
		mockPool := newMockPool(t)
		mockPool.ExpectExec(`UPDATE penjualan SET date = \$2 WHERE id = \$1`).
			WithArgs("ghost", date).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mockPool.ExpectExec(`UPDATE penjualan_history SET date = \$2 WHERE id = \$1`).
			WithArgs("ghost", date).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := &RecordRepository{db: mockPool}
		err := repo.UpdateDate(context.Background(), nil, "ghost", date)
		require.ErrorIs(t, err, domain.ErrRecordNotFound)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}
