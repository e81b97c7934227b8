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

type repairFixture struct {
	uc      *usecase.RepairUseCase
	records *mocks.MockRecordRepository
	entries *mocks.MockEntryRepository
}

func newRepairFixture() *repairFixture {
	f := &repairFixture{
		records: mocks.NewMockRecordRepository(),
		entries: mocks.NewMockEntryRepository(),
	}
	f.uc = usecase.NewRepairUseCase(mocks.NewMockTransactionManager(), f.records, f.entries, nil)
	return f
}

func (f *repairFixture) seedMisdated(id string, amount int64) {
	target := domain.Period{Month: 1, Year: 2025}
	f.records.Records[id] = &domain.OperationalRecord{
		ID:            id,
		EntityType:    "penjualan",
		Date:          time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		CompanyID:     "comp-1",
		SalePrice:     decimal.NewFromInt(amount),
		IsRetroactive: true,
		TargetMonth:   &target,
	}
}

func TestRepairRun(t *testing.T) {
	ctx := context.Background()
	target := domain.Period{Month: 1, Year: 2025}

	t.Run("re-dates records and matched entries", func(t *testing.T) {
		f := newRepairFixture()
		f.seedMisdated("rec-1", 15_000_000)
		f.entries.Entries["e-1"] = &domain.LedgerEntry{
			ID:          "e-1",
			Date:        time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
			Description: "Pembayaran penjualan Budi",
			Credit:      decimal.NewFromInt(15_000_000),
			CompanyID:   "comp-1",
		}

		report, err := f.uc.Run(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, report.Scanned)
		require.Equal(t, 1, report.RecordsRedated)
		require.Equal(t, 1, report.EntriesRedated)
		require.Equal(t, 2, report.Changed())
		require.Empty(t, report.AmbiguousRecordIDs)
		require.NotEmpty(t, report.BackupTable)
		require.Equal(t, 1, f.records.BackupCalls)

		rec, _ := f.records.GetByID(ctx, "rec-1")
		require.True(t, target.Contains(rec.Date))
		require.False(t, rec.Misdated())

		entry, _ := f.entries.GetByID(ctx, "e-1")
		require.True(t, target.Contains(entry.Date))
	})

	t.Run("record without a matching entry is still re-dated", func(t *testing.T) {
		f := newRepairFixture()
		f.seedMisdated("rec-1", 15_000_000)

		report, err := f.uc.Run(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, report.RecordsRedated)
		require.Equal(t, 0, report.EntriesRedated)
		require.Equal(t, []string{"rec-1"}, report.MissingEntryRecordIDs)
	})

	t.Run("ambiguous match skips the record entirely", func(t *testing.T) {
		f := newRepairFixture()
		f.seedMisdated("rec-1", 15_000_000)
		for _, id := range []string{"e-1", "e-2"} {
			f.entries.Entries[id] = &domain.LedgerEntry{
				ID:          id,
				Date:        time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
				Description: "Pembayaran penjualan",
				Credit:      decimal.NewFromInt(15_000_000),
				CompanyID:   "comp-1",
			}
		}

		report, err := f.uc.Run(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, report.Scanned)
		require.Equal(t, 0, report.RecordsRedated)
		require.Equal(t, 0, report.EntriesRedated)
		require.Equal(t, []string{"rec-1"}, report.AmbiguousRecordIDs)

		// The record stays misdated for manual reconciliation.
		rec, _ := f.records.GetByID(ctx, "rec-1")
		require.True(t, rec.Misdated())
	})

	t.Run("second run changes nothing", func(t *testing.T) {
		f := newRepairFixture()
		f.seedMisdated("rec-1", 15_000_000)
		f.seedMisdated("rec-2", 7_000_000)

		first, err := f.uc.Run(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, first.RecordsRedated)

		second, err := f.uc.Run(ctx)
		require.NoError(t, err)
		require.Equal(t, 0, second.Scanned)
		require.Equal(t, 0, second.Changed())
		// The backup is taken on every run, even a clean one.
		require.Equal(t, 2, f.records.BackupCalls)
	})

	t.Run("clean dataset reports zero without opening a transaction", func(t *testing.T) {
		f := newRepairFixture()
		f.records.Records["rec-1"] = &domain.OperationalRecord{
			ID:         "rec-1",
			EntityType: "penjualan",
			Date:       time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
			CompanyID:  "comp-1",
		}

		report, err := f.uc.Run(ctx)
		require.NoError(t, err)
		require.Equal(t, 0, report.Scanned)
		require.False(t, report.Changed() > 0)
	})
}
