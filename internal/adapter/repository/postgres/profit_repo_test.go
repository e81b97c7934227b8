package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dealerops/dealerledger/internal/domain"
)

func testDeduction() *domain.ProfitAdjustment {
	return &domain.ProfitAdjustment{
		ID:            "pa-1",
		OperationalID: "op-1",
		Date:          time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Division:      domain.DivisionSport,
		Category:      "komisi",
		Amount:        decimal.NewFromInt(500_000),
		Type:          domain.ProfitDeduction,
		Status:        domain.ProfitActive,
		CreatedAt:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateDeductionSingleActivePerRecord(t *testing.T) {
	adj := testDeduction()

	t.Run("first deduction inserts", func(t *testing.T) {
		mockPool := newMockPool(t)
		mockPool.ExpectExec(`INSERT INTO profit_adjustments .+ SELECT .+ WHERE NOT EXISTS \( SELECT 1 FROM profit_adjustments WHERE operational_id = \$2 AND type = 'deduction' AND status = 'active' \)`).
			WithArgs(adj.ID, adj.OperationalID, adj.Date, "sport", adj.Category, adj.Description, adj.Amount, adj.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := &ProfitRepository{db: mockPool}
		ok, err := repo.CreateDeduction(context.Background(), adj)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("active deduction blocks the insert", func(t *testing.T) {
		mockPool := newMockPool(t)
		mockPool.ExpectExec(`INSERT INTO profit_adjustments .+ WHERE NOT EXISTS`).
			WithArgs(adj.ID, adj.OperationalID, adj.Date, "sport", adj.Category, adj.Description, adj.Amount, adj.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 0))

		repo := &ProfitRepository{db: mockPool}
		ok, err := repo.CreateDeduction(context.Background(), adj)
		require.NoError(t, err)
		require.False(t, ok)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestReverseActiveDeduction(t *testing.T) {
	at := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("active deduction flips to reversed", func(t *testing.T) {
		adj := testDeduction()
		mockPool := newMockPool(t)
		mockPool.ExpectQuery(`UPDATE profit_adjustments SET status = 'reversed', reversed_at = \$2 WHERE operational_id = \$1 AND type = 'deduction' AND status = 'active' RETURNING`).
			WithArgs("op-1", at).
			WillReturnRows(pgxmock.NewRows([]string{
				"id", "operational_id", "date", "division", "category",
				"description", "amount", "type", "status", "created_at",
			}).AddRow(
				adj.ID, adj.OperationalID, adj.Date, "sport", adj.Category,
				adj.Description, adj.Amount, "deduction", "reversed", adj.CreatedAt,
			))

		repo := &ProfitRepository{db: mockPool}
		reversed, err := repo.ReverseActiveDeduction(context.Background(), nil, "op-1", at)
		require.NoError(t, err)
		require.Equal(t, domain.ProfitReversed, reversed.Status)
		require.True(t, reversed.Amount.Equal(adj.Amount))
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("no active deduction", func(t *testing.T) {
		mockPool := newMockPool(t)
		mockPool.ExpectQuery(`UPDATE profit_adjustments SET status = 'reversed'.+AND status = 'active' RETURNING`).
			WithArgs("op-9", at).
			WillReturnError(pgx.ErrNoRows)

		repo := &ProfitRepository{db: mockPool}
		_, err := repo.ReverseActiveDeduction(context.Background(), nil, "op-9", at)
		require.ErrorIs(t, err, domain.ErrNoActiveDeduction)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}
