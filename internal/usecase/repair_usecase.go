package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dealerops/dealerledger/internal/domain"
	"github.com/dealerops/dealerledger/internal/infrastructure/metrics"
)

// RepairUseCase is the one-off backfill over misdated retroactive
// records: every approved retroactive record whose effective date
// disagrees with its target month is re-dated, along with its
// fuzzy-matched ledger entry. Safe to re-run; a repaired dataset yields
// zero changes.
type RepairUseCase struct {
	txManager  TransactionManager
	recordRepo RecordRepository
	entryRepo  EntryRepository
	metrics    *metrics.Metrics
}

// NewRepairUseCase creates a new RepairUseCase.
func NewRepairUseCase(txManager TransactionManager, recordRepo RecordRepository, entryRepo EntryRepository, m *metrics.Metrics) *RepairUseCase {
	return &RepairUseCase{
		txManager:  txManager,
		recordRepo: recordRepo,
		entryRepo:  entryRepo,
		metrics:    m,
	}
}

// RepairReport summarizes one repair run.
type RepairReport struct {
	BackupTable    string
	Scanned        int
	RecordsRedated int
	EntriesRedated int
	// AmbiguousRecordIDs were skipped entirely: more than one ledger entry
	// matched, so a human has to pick. They stay misdated until resolved.
	AmbiguousRecordIDs []string
	// MissingEntryRecordIDs were re-dated without a ledger entry; no
	// candidate matched.
	MissingEntryRecordIDs []string
	StartedAt             time.Time
	FinishedAt            time.Time
}

// Changed reports how many rows the run rewrote.
func (r *RepairReport) Changed() int {
	return r.RecordsRedated + r.EntriesRedated
}

// Run takes a backup, then rewrites all misdated records and their
// matched entries inside one transaction. The backup always happens
// before any write; if the transaction fails nothing is applied.
func (uc *RepairUseCase) Run(ctx context.Context) (*RepairReport, error) {
	report := &RepairReport{StartedAt: time.Now().UTC()}

	misdated, err := uc.recordRepo.ListMisdatedRetroactive(ctx)
	if err != nil {
		return nil, err
	}
	report.Scanned = len(misdated)

	backup, err := uc.recordRepo.BackupTable(ctx)
	if err != nil {
		return nil, err
	}
	report.BackupTable = backup

	if len(misdated) == 0 {
		report.FinishedAt = time.Now().UTC()
		uc.observe(report)
		return report, nil
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, rec := range misdated {
		if err := uc.repairRecord(ctx, tx, rec, report); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	report.FinishedAt = time.Now().UTC()
	uc.observe(report)

	log.Info().
		Int("scanned", report.Scanned).
		Int("records_redated", report.RecordsRedated).
		Int("entries_redated", report.EntriesRedated).
		Int("ambiguous", len(report.AmbiguousRecordIDs)).
		Str("backup", report.BackupTable).
		Msg("consistency repair finished")

	return report, nil
}

func (uc *RepairUseCase) repairRecord(ctx context.Context, tx Transaction, rec *domain.OperationalRecord, report *RepairReport) error {
	target := rec.TargetMonth.Start()

	matches, err := uc.entryRepo.FindMatches(ctx, tx, rec.CompanyID, rec.SalePrice, rec.EntityType)
	if err != nil {
		return err
	}
	if len(matches) > 1 {
		// Same fuzzy join as approval; an amount collision must not pick a
		// winner. Leave the record for manual reconciliation.
		report.AmbiguousRecordIDs = append(report.AmbiguousRecordIDs, rec.ID)
		return nil
	}

	if err := uc.recordRepo.UpdateDate(ctx, tx, rec.ID, target); err != nil {
		return err
	}
	report.RecordsRedated++

	if len(matches) == 0 {
		report.MissingEntryRecordIDs = append(report.MissingEntryRecordIDs, rec.ID)
		return nil
	}

	if err := uc.entryRepo.UpdateDate(ctx, tx, matches[0].ID, target); err != nil {
		return err
	}
	report.EntriesRedated++

	return nil
}

func (uc *RepairUseCase) observe(report *RepairReport) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.RepairRuns.Inc()
	uc.metrics.RepairRowsChanged.Add(float64(report.Changed()))
}
