package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dealerops/dealerledger/internal/domain"
	"github.com/dealerops/dealerledger/internal/usecase"
	"github.com/dealerops/dealerledger/internal/usecase/mocks"
)

func newProfitUseCase() (*usecase.ProfitUseCase, *mocks.MockProfitRepository) {
	repo := mocks.NewMockProfitRepository()
	uc := usecase.NewProfitUseCase(mocks.NewMockTransactionManager(), repo, mocks.NewMockIDGenerator(), nil)
	return uc, repo
}

func deductInput(operationalID string, amount int64) usecase.DeductProfitInput {
	return usecase.DeductProfitInput{
		OperationalID: operationalID,
		Date:          time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Division:      domain.DivisionSport,
		Category:      "komisi",
		Description:   "Potongan komisi makelar",
		Amount:        decimal.NewFromInt(amount),
	}
}

func TestProfitDeductRestoreCycle(t *testing.T) {
	uc, repo := newProfitUseCase()
	ctx := context.Background()

	ded, err := uc.Deduct(ctx, deductInput("op-1", 300_000))
	require.NoError(t, err)
	require.Equal(t, domain.ProfitDeduction, ded.Type)
	require.Equal(t, domain.ProfitActive, ded.Status)

	// A second active deduction on the same record is refused.
	_, err = uc.Deduct(ctx, deductInput("op-1", 100_000))
	require.ErrorIs(t, err, domain.ErrDeductionActive)

	// A different record is unaffected.
	_, err = uc.Deduct(ctx, deductInput("op-2", 50_000))
	require.NoError(t, err)

	rest, err := uc.Restore(ctx, "op-1")
	require.NoError(t, err)
	require.Equal(t, domain.ProfitRestoration, rest.Type)
	require.True(t, rest.Amount.Equal(ded.Amount))
	require.Equal(t, "Pengembalian: Potongan komisi makelar", rest.Description)

	// The deduction is now reversed, so restoring again fails...
	_, err = uc.Restore(ctx, "op-1")
	require.ErrorIs(t, err, domain.ErrNoActiveDeduction)

	// ...and a fresh deduction is allowed again.
	_, err = uc.Deduct(ctx, deductInput("op-1", 200_000))
	require.NoError(t, err)

	// deduction + restoration + reversed original stay in the trail.
	var forOp1 int
	for _, r := range repo.Rows {
		if r.OperationalID == "op-1" {
			forOp1++
		}
	}
	require.Equal(t, 3, forOp1)
}

func TestProfitDeductValidation(t *testing.T) {
	uc, _ := newProfitUseCase()
	ctx := context.Background()

	in := deductInput("", 100)
	_, err := uc.Deduct(ctx, in)
	require.ErrorIs(t, err, domain.ErrMissingRecord)

	in = deductInput("op-1", 0)
	_, err = uc.Deduct(ctx, in)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	in = deductInput("op-1", 100)
	in.Division = "bengkel"
	_, err = uc.Deduct(ctx, in)
	require.ErrorIs(t, err, domain.ErrInvalidDivision)

	_, err = uc.Restore(ctx, "")
	require.ErrorIs(t, err, domain.ErrMissingRecord)

	_, err = uc.Restore(ctx, "never-deducted")
	require.ErrorIs(t, err, domain.ErrNoActiveDeduction)
}

func TestProfitSummary(t *testing.T) {
	uc, _ := newProfitUseCase()
	ctx := context.Background()

	_, err := uc.Deduct(ctx, deductInput("op-1", 300_000))
	require.NoError(t, err)
	_, err = uc.Deduct(ctx, deductInput("op-2", 200_000))
	require.NoError(t, err)
	_, err = uc.Restore(ctx, "op-2")
	require.NoError(t, err)

	t.Run("net over mixed rows", func(t *testing.T) {
		sum, err := uc.Summary(ctx, usecase.SummaryInput{})
		require.NoError(t, err)
		require.True(t, sum.TotalDeductions.Equal(decimal.NewFromInt(500_000)), sum.TotalDeductions.String())
		require.True(t, sum.TotalRestorations.Equal(decimal.NewFromInt(200_000)), sum.TotalRestorations.String())
		require.True(t, sum.NetAdjustment.Equal(decimal.NewFromInt(-300_000)), sum.NetAdjustment.String())
	})

	t.Run("division filter", func(t *testing.T) {
		div := domain.DivisionStart
		sum, err := uc.Summary(ctx, usecase.SummaryInput{Division: &div})
		require.NoError(t, err)
		require.True(t, sum.TotalDeductions.IsZero())
		require.True(t, sum.NetAdjustment.IsZero())
	})

	t.Run("inverted window", func(t *testing.T) {
		a := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		b := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		_, err := uc.Summary(ctx, usecase.SummaryInput{Start: &a, End: &b})
		require.ErrorIs(t, err, domain.ErrInvalidPeriod)
	})

	t.Run("bad division", func(t *testing.T) {
		div := domain.Division("servis")
		_, err := uc.Summary(ctx, usecase.SummaryInput{Division: &div})
		require.ErrorIs(t, err, domain.ErrInvalidDivision)
	})
}
