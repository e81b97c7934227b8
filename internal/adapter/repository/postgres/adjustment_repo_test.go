package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/dealerops/dealerledger/internal/domain"
)

func TestMarkApprovedGuardsPendingStatus(t *testing.T) {
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("pending row transitions", func(t *testing.T) {
		mockPool := newMockPool(t)
		mockPool.ExpectExec(`UPDATE retroactive_adjustments SET status = 'approved', approved_by = \$2, approved_at = \$3, updated_at = \$3 WHERE id = \$1 AND status = 'pending'`).
			WithArgs("adj-1", "manager-1", at).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := &AdjustmentRepository{db: mockPool}
		ok, err := repo.MarkApproved(context.Background(), nil, "adj-1", "manager-1", at)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("non-pending row reports false", func(t *testing.T) {
		mockPool := newMockPool(t)
		mockPool.ExpectExec(`UPDATE retroactive_adjustments SET status = 'approved'.+AND status = 'pending'`).
			WithArgs("adj-1", "manager-2", at).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := &AdjustmentRepository{db: mockPool}
		ok, err := repo.MarkApproved(context.Background(), nil, "adj-1", "manager-2", at)
		require.NoError(t, err)
		require.False(t, ok)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestMarkRejectedGuardsPendingStatus(t *testing.T) {
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("pending row transitions", func(t *testing.T) {
		mockPool := newMockPool(t)
		mockPool.ExpectExec(`UPDATE retroactive_adjustments SET status = 'rejected', rejection_reason = \$2, updated_at = \$3 WHERE id = \$1 AND status = 'pending'`).
			WithArgs("adj-1", "wrong month", at).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := &AdjustmentRepository{db: mockPool}
		ok, err := repo.MarkRejected(context.Background(), "adj-1", "wrong month", at)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("non-pending row reports false", func(t *testing.T) {
		mockPool := newMockPool(t)
		mockPool.ExpectExec(`UPDATE retroactive_adjustments SET status = 'rejected'.+AND status = 'pending'`).
			WithArgs("adj-1", "too late", at).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := &AdjustmentRepository{db: mockPool}
		ok, err := repo.MarkRejected(context.Background(), "adj-1", "too late", at)
		require.NoError(t, err)
		require.False(t, ok)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestAdjustmentGetByIDNotFound(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery(`SELECT .+ FROM retroactive_adjustments WHERE id = \$1`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	repo := &AdjustmentRepository{db: mockPool}
	_, err := repo.GetByID(context.Background(), nil, "ghost")
	require.ErrorIs(t, err, domain.ErrAdjustmentNotFound)
	require.NoError(t, mockPool.ExpectationsWereMet())
}
