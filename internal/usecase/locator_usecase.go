package usecase

import (
	"context"

	"github.com/dealerops/dealerledger/internal/domain"
	"github.com/dealerops/dealerledger/internal/infrastructure/metrics"
)

// LocatorUseCase is the cascading record locator across the live (master),
// archived (history) and reporting-union (combined) stores.
//
// Tiers short-circuit on the first non-empty result and are never merged.
// This assumes a period's records live entirely in one tier; if a closure
// migration is partially applied the result can under-report.
type LocatorUseCase struct {
	master   RecordStore
	history  RecordStore
	combined RecordStore
	clock    Clock
	metrics  *metrics.Metrics
}

// NewLocatorUseCase creates a new LocatorUseCase.
func NewLocatorUseCase(master, history, combined RecordStore, clock Clock, m *metrics.Metrics) *LocatorUseCase {
	return &LocatorUseCase{
		master:   master,
		history:  history,
		combined: combined,
		clock:    clock,
		metrics:  m,
	}
}

// LocateResult carries the records plus the tier they came from.
type LocateResult struct {
	Records []*domain.OperationalRecord
	Source  domain.RecordSource
}

// Locate finds records for (entityType, division, period).
//
// The current calendar period can only live in the master store, so it is
// answered with a single query. Past periods fall through
// master -> history -> combined; the combined result is returned even if
// empty.
func (uc *LocatorUseCase) Locate(ctx context.Context, entityType string, division domain.Division, period domain.Period) (*LocateResult, error) {
	if err := division.Validate(); err != nil {
		return nil, err
	}
	if err := period.Validate(); err != nil {
		return nil, err
	}

	records, err := uc.query(ctx, uc.master, domain.SourceMaster, entityType, division, period)
	if err != nil {
		return nil, err
	}

	if period == domain.PeriodOf(uc.clock.Now()) {
		return &LocateResult{Records: records, Source: domain.SourceMaster}, nil
	}

	if len(records) > 0 {
		return &LocateResult{Records: records, Source: domain.SourceMaster}, nil
	}

	records, err = uc.query(ctx, uc.history, domain.SourceHistory, entityType, division, period)
	if err != nil {
		return nil, err
	}
	if len(records) > 0 {
		return &LocateResult{Records: records, Source: domain.SourceHistory}, nil
	}

	records, err = uc.query(ctx, uc.combined, domain.SourceCombined, entityType, division, period)
	if err != nil {
		return nil, err
	}

	return &LocateResult{Records: records, Source: domain.SourceCombined}, nil
}

func (uc *LocatorUseCase) query(ctx context.Context, store RecordStore, tier domain.RecordSource, entityType string, division domain.Division, period domain.Period) ([]*domain.OperationalRecord, error) {
	if uc.metrics != nil {
		uc.metrics.LocatorQueries.WithLabelValues(string(tier)).Inc()
	}
	return store.Query(ctx, entityType, division, period)
}
