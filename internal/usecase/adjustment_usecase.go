package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/dealerops/dealerledger/internal/domain"
	"github.com/dealerops/dealerledger/internal/infrastructure/metrics"
)

// AdjustmentUseCase runs the retroactive adjustment workflow:
// pending -> approved (reclassifies) or pending -> rejected. Both
// transitions are conditional writes at the storage layer, so concurrent
// approvals cannot reclassify twice.
type AdjustmentUseCase struct {
	txManager  TransactionManager
	adjRepo    AdjustmentRepository
	recordRepo RecordRepository
	entryRepo  EntryRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewAdjustmentUseCase creates a new AdjustmentUseCase.
func NewAdjustmentUseCase(
	txManager TransactionManager,
	adjRepo AdjustmentRepository,
	recordRepo RecordRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
) *AdjustmentUseCase {
	return &AdjustmentUseCase{
		txManager:  txManager,
		adjRepo:    adjRepo,
		recordRepo: recordRepo,
		entryRepo:  entryRepo,
		idGen:      idGen,
		metrics:    m,
	}
}

// SubmitAdjustmentInput represents input for filing an adjustment.
type SubmitAdjustmentInput struct {
	TargetMonth domain.Period
	FilingDate  time.Time
	Category    string
	Amount      decimal.Decimal
	Description string
	CompanyID   string
	Division    domain.Division
	RecordID    string
	CreatedBy   string
	// RequiresApproval false means the auto-approval policy applies and
	// the adjustment is reclassified immediately.
	RequiresApproval bool
}

// Submit files a retroactive adjustment. Unless the auto-approval policy
// promotes it, the adjustment is created pending.
func (uc *AdjustmentUseCase) Submit(ctx context.Context, input SubmitAdjustmentInput) (*domain.RetroactiveAdjustment, error) {
	if err := input.TargetMonth.Validate(); err != nil {
		return nil, err
	}
	if err := input.Division.Validate(); err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if input.CompanyID == "" {
		return nil, domain.ErrMissingCompany
	}
	if input.RecordID == "" {
		return nil, domain.ErrMissingRecord
	}

	now := time.Now().UTC()
	adj := &domain.RetroactiveAdjustment{
		ID:               uc.idGen.Generate(),
		TargetMonth:      input.TargetMonth,
		FilingDate:       input.FilingDate,
		Category:         input.Category,
		Amount:           input.Amount,
		Description:      input.Description,
		CompanyID:        input.CompanyID,
		Division:         input.Division,
		RecordID:         input.RecordID,
		Status:           domain.AdjustmentPending,
		RequiresApproval: input.RequiresApproval,
		CreatedBy:        input.CreatedBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if !input.RequiresApproval {
		adj.Status = domain.AdjustmentApproved
		adj.AutoApproved = true
		adj.ApprovedBy = "system"
		adj.ApprovedAt = &now
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.adjRepo.Create(txCtx, tx, adj); err != nil {
		return nil, err
	}

	// Auto-approved adjustments reclassify in the same transaction.
	if adj.AutoApproved {
		if err := uc.reclassify(txCtx, tx, adj); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AdjustmentsSubmitted.Inc()
		if adj.AutoApproved {
			uc.metrics.AutoApprovals.Inc()
		}
	}

	return adj, nil
}

// Approve moves a pending adjustment to approved and reclassifies: the
// operational record's effective date moves to the target month, and the
// associated ledger entry (fuzzy-matched, there is no foreign key) is
// re-dated. Everything happens in one transaction.
func (uc *AdjustmentUseCase) Approve(ctx context.Context, id, approverID string) (*domain.RetroactiveAdjustment, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()
	ok, err := uc.adjRepo.MarkApproved(txCtx, tx, id, approverID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, uc.transitionConflict(ctx, id)
	}

	// Read back through the transaction so the row reflects the UPDATE
	// above, including updated_at.
	adj, err := uc.adjRepo.GetByID(txCtx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := uc.reclassify(txCtx, tx, adj); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AdjustmentsApproved.Inc()
	}

	return adj, nil
}

// Reject moves a pending adjustment to rejected. Ledger entries that were
// already created with the wrong date are left untouched.
func (uc *AdjustmentUseCase) Reject(ctx context.Context, id, reason string) error {
	if reason == "" {
		return domain.ErrEmptyReason
	}

	ok, err := uc.adjRepo.MarkRejected(ctx, id, reason, time.Now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		return uc.transitionConflict(ctx, id)
	}

	if uc.metrics != nil {
		uc.metrics.AdjustmentsRejected.Inc()
	}

	return nil
}

// Get retrieves an adjustment by ID.
func (uc *AdjustmentUseCase) Get(ctx context.Context, id string) (*domain.RetroactiveAdjustment, error) {
	return uc.adjRepo.GetByID(ctx, nil, id)
}

// List lists adjustments matching the filter.
func (uc *AdjustmentUseCase) List(ctx context.Context, filter AdjustmentFilter) ([]*domain.RetroactiveAdjustment, error) {
	filter.Limit = clampLimit(filter.Limit)
	return uc.adjRepo.List(ctx, filter)
}

// reclassify re-dates the originating operational record and the matched
// ledger entry to the adjustment's target month. Zero entry matches is
// tolerated (the entry may never have been written); more than one is an
// error so an amount collision cannot silently re-date the wrong row.
func (uc *AdjustmentUseCase) reclassify(ctx context.Context, tx Transaction, adj *domain.RetroactiveAdjustment) error {
	target := adj.TargetMonth.Start()

	if err := uc.recordRepo.UpdateDate(ctx, tx, adj.RecordID, target); err != nil {
		return err
	}

	matches, err := uc.entryRepo.FindMatches(ctx, tx, adj.CompanyID, adj.Amount, adj.Category)
	if err != nil {
		return err
	}

	switch len(matches) {
	case 0:
		log.Warn().
			Str("adjustment_id", adj.ID).
			Str("company_id", adj.CompanyID).
			Msg("no ledger entry matched adjustment; record re-dated without entry")
		return nil
	case 1:
		return uc.entryRepo.UpdateDate(ctx, tx, matches[0].ID, target)
	}

	if uc.metrics != nil {
		uc.metrics.AmbiguousMatches.Inc()
	}
	return domain.ErrAmbiguousEntryMatch
}

// transitionConflict turns a failed conditional write into the right
// error: not found if the row does not exist, conflict otherwise.
func (uc *AdjustmentUseCase) transitionConflict(ctx context.Context, id string) error {
	if _, err := uc.adjRepo.GetByID(ctx, nil, id); err != nil {
		return err
	}
	return domain.ErrAdjustmentNotPending
}
