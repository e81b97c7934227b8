package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/dealerops/dealerledger/internal/domain"
	"github.com/dealerops/dealerledger/internal/infrastructure/metrics"
)

// ClosureGuard decides whether a period accepts direct posting.
type ClosureGuard interface {
	IsClosed(ctx context.Context, period domain.Period) (bool, error)
}

// AdjustmentSubmitter files retroactive adjustments for closed-period
// events.
type AdjustmentSubmitter interface {
	Submit(ctx context.Context, input SubmitAdjustmentInput) (*domain.RetroactiveAdjustment, error)
}

// CapitalService is the slice of CapitalUseCase the posting path needs.
type CapitalService interface {
	AdjustTx(ctx context.Context, tx Transaction, companyID string, delta decimal.Decimal, description string) (*domain.CapitalHistory, error)
	Reduce(ctx context.Context, companyID string, amount decimal.Decimal, description string) (*domain.CapitalHistory, error)
}

// PostingUseCase turns business events into ledger writes. Every event
// passes the closure guard first: open periods post directly, closed
// periods become pending retroactive adjustments.
type PostingUseCase struct {
	txManager     TransactionManager
	guard         ClosureGuard
	entryRepo     EntryRepository
	recordRepo    RecordRepository
	inventoryRepo InventoryRepository
	priceRepo     PriceHistoryRepository
	capital       CapitalService
	adjustments   AdjustmentSubmitter
	idGen         IDGenerator
	retrier       Retrier
	metrics       *metrics.Metrics
}

// WithRetrier sets a retry policy for the transactional writes. Each
// attempt starts a fresh transaction, so retrying a rolled-back attempt
// is safe.
func (uc *PostingUseCase) WithRetrier(r Retrier) *PostingUseCase {
	uc.retrier = r
	return uc
}

func (uc *PostingUseCase) retry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}
	return uc.retrier.Retry(ctx, op)
}

// NewPostingUseCase creates a new PostingUseCase.
func NewPostingUseCase(
	txManager TransactionManager,
	guard ClosureGuard,
	entryRepo EntryRepository,
	recordRepo RecordRepository,
	inventoryRepo InventoryRepository,
	priceRepo PriceHistoryRepository,
	capital CapitalService,
	adjustments AdjustmentSubmitter,
	idGen IDGenerator,
	m *metrics.Metrics,
) *PostingUseCase {
	return &PostingUseCase{
		txManager:     txManager,
		guard:         guard,
		entryRepo:     entryRepo,
		recordRepo:    recordRepo,
		inventoryRepo: inventoryRepo,
		priceRepo:     priceRepo,
		capital:       capital,
		adjustments:   adjustments,
		idGen:         idGen,
		metrics:       m,
	}
}

// PostInput represents a business event to post.
type PostInput struct {
	Transaction domain.BusinessTransaction
	CreatedBy   string
	// RequiresApproval governs the adjustment created when the target
	// period turns out to be closed.
	RequiresApproval bool
}

// PostResult is what a posting produced: direct entries, or a retroactive
// adjustment, plus any capital movement and partial-failure warning.
type PostResult struct {
	Entries    []*domain.LedgerEntry
	Adjustment *domain.RetroactiveAdjustment
	Capital    *domain.CapitalHistory
	Warning    *domain.PartialFailure
}

// Post routes and executes a business event.
func (uc *PostingUseCase) Post(ctx context.Context, input PostInput) (*PostResult, error) {
	btx := input.Transaction

	start := time.Now()
	defer func() {
		if uc.metrics != nil {
			uc.metrics.PostingDuration.Observe(time.Since(start).Seconds())
		}
	}()

	period := domain.PeriodOf(btx.Date)
	closed, err := uc.guard.IsClosed(ctx, period)
	if err != nil {
		return nil, err
	}
	if closed {
		return uc.routeRetroactive(ctx, input, period)
	}

	switch btx.Kind {
	case domain.TransactionPriceEdit:
		return uc.postPriceEdit(ctx, btx)
	case domain.TransactionCapitalReduction:
		return uc.postCapitalReduction(ctx, btx)
	case domain.TransactionUnitSwap:
		return uc.postUnitSwap(ctx, btx)
	}

	return uc.postSale(ctx, btx)
}

// routeRetroactive converts a closed-period event into an adjustment.
func (uc *PostingUseCase) routeRetroactive(ctx context.Context, input PostInput, period domain.Period) (*PostResult, error) {
	btx := input.Transaction

	if uc.metrics != nil {
		uc.metrics.ClosedPeriodHits.Inc()
	}

	adj, err := uc.adjustments.Submit(ctx, SubmitAdjustmentInput{
		TargetMonth:      period,
		FilingDate:       time.Now().UTC(),
		Category:         string(btx.Kind),
		Amount:           btx.PrimaryAmount(),
		Description:      btx.Description,
		CompanyID:        btx.CompanyID,
		Division:         btx.Division,
		RecordID:         btx.RecordID,
		CreatedBy:        input.CreatedBy,
		RequiresApproval: input.RequiresApproval,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("adjustment_id", adj.ID).
		Str("period", period.String()).
		Str("kind", string(btx.Kind)).
		Msg("closed period, event routed to retroactive workflow")

	return &PostResult{Adjustment: adj}, nil
}

// postSale persists the rule-table entries for plain sale kinds.
func (uc *PostingUseCase) postSale(ctx context.Context, btx domain.BusinessTransaction) (*PostResult, error) {
	entries, err := domain.PostEntries(btx)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return &PostResult{}, nil
	}

	var persisted []*domain.LedgerEntry
	err = uc.retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		persisted, err = uc.createEntries(txCtx, tx, entries)
		if err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesPosted.WithLabelValues(string(btx.Kind)).Add(float64(len(persisted)))
	}

	return &PostResult{Entries: persisted}, nil
}

// postUnitSwap applies all five swap effects as one transaction: ledger
// entry, pricing/profit recompute, both inventory flips, capital delta
// and the price-history audit row. Any failure rolls back everything.
func (uc *PostingUseCase) postUnitSwap(ctx context.Context, btx domain.BusinessTransaction) (*PostResult, error) {
	if btx.RecordID == "" {
		return nil, domain.ErrMissingRecord
	}

	entries, err := domain.PostEntries(btx)
	if err != nil {
		return nil, err
	}

	var (
		persisted   []*domain.LedgerEntry
		capitalHist *domain.CapitalHistory
	)
	err = uc.retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		persisted, err = uc.createEntries(txCtx, tx, entries)
		if err != nil {
			return err
		}

		newProfit := domain.SwapProfit(btx)
		if err := uc.recordRepo.UpdatePricing(txCtx, tx, btx.RecordID, btx.NewSalePrice, newProfit); err != nil {
			return err
		}

		if err := uc.inventoryRepo.MarkAvailable(txCtx, tx, btx.OldUnitID); err != nil {
			return err
		}
		if err := uc.inventoryRepo.MarkSold(txCtx, tx, btx.NewUnitID); err != nil {
			return err
		}

		capitalHist = nil
		delta := domain.SwapCapitalDelta(btx)
		if !delta.IsZero() {
			capitalHist, err = uc.capital.AdjustTx(txCtx, tx, btx.CompanyID,
				delta, "Selisih tukar unit "+btx.UnitName)
			if err != nil {
				return err
			}
		}

		if err := uc.priceRepo.CreateTx(txCtx, tx, &domain.PriceHistory{
			ID:           uc.idGen.Generate(),
			PurchaseID:   uc.purchaseRef(btx),
			OldSalePrice: btx.OldSalePrice,
			NewSalePrice: btx.NewSalePrice,
			OldProfit:    btx.OldSalePrice.Sub(btx.OldCostPrice),
			NewProfit:    newProfit,
			Difference:   delta,
			CreatedAt:    time.Now().UTC(),
		}); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesPosted.WithLabelValues(string(btx.Kind)).Add(float64(len(persisted)))
	}

	return &PostResult{Entries: persisted, Capital: capitalHist}, nil
}

// postPriceEdit recomputes profit and writes the audit row. No ledger
// entry is emitted: price corrections bypass the ledger. The audit write
// is a secondary effect; if it fails after the pricing update committed,
// the edit still succeeds and the failure is surfaced as a warning.
func (uc *PostingUseCase) postPriceEdit(ctx context.Context, btx domain.BusinessTransaction) (*PostResult, error) {
	if btx.RecordID == "" {
		return nil, domain.ErrMissingRecord
	}

	oldProfit := btx.OldSalePrice.Sub(btx.OldCostPrice)
	newProfit := btx.NewSalePrice.Sub(btx.OldCostPrice)

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.recordRepo.UpdatePricing(txCtx, tx, btx.RecordID, btx.NewSalePrice, newProfit); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	result := &PostResult{}
	if err := uc.priceRepo.Create(ctx, &domain.PriceHistory{
		ID:           uc.idGen.Generate(),
		PurchaseID:   uc.purchaseRef(btx),
		OldSalePrice: btx.OldSalePrice,
		NewSalePrice: btx.NewSalePrice,
		OldProfit:    oldProfit,
		NewProfit:    newProfit,
		Difference:   btx.NewSalePrice.Sub(btx.OldSalePrice),
		CreatedAt:    time.Now().UTC(),
	}); err != nil {
		result.Warning = &domain.PartialFailure{
			Op:         "price_edit",
			SideEffect: "price history write",
			Err:        err,
		}
		log.Warn().Err(err).Str("record_id", btx.RecordID).Msg("price history write failed after pricing update")
	}

	return result, nil
}

func (uc *PostingUseCase) postCapitalReduction(ctx context.Context, btx domain.BusinessTransaction) (*PostResult, error) {
	desc := btx.Description
	if desc == "" {
		desc = "Pengurangan modal"
	}

	hist, err := uc.capital.Reduce(ctx, btx.CompanyID, btx.Amount, desc)
	if err != nil {
		return nil, err
	}

	return &PostResult{Capital: hist}, nil
}

func (uc *PostingUseCase) createEntries(ctx context.Context, tx Transaction, entries []domain.LedgerEntry) ([]*domain.LedgerEntry, error) {
	now := time.Now().UTC()

	persisted := make([]*domain.LedgerEntry, 0, len(entries))
	for i := range entries {
		entry := entries[i]
		entry.ID = uc.idGen.Generate()
		entry.CreatedAt = now

		if err := entry.Validate(); err != nil {
			return nil, err
		}
		if err := uc.entryRepo.Create(ctx, tx, &entry); err != nil {
			return nil, err
		}

		persisted = append(persisted, &entry)
	}

	return persisted, nil
}

func (uc *PostingUseCase) purchaseRef(btx domain.BusinessTransaction) string {
	if btx.PurchaseID != nil {
		return *btx.PurchaseID
	}
	return btx.RecordID
}
