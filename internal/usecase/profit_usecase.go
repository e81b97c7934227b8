package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dealerops/dealerledger/internal/domain"
	"github.com/dealerops/dealerledger/internal/infrastructure/metrics"
)

// ProfitUseCase maintains the profit deduction/restoration audit trail.
type ProfitUseCase struct {
	txManager  TransactionManager
	profitRepo ProfitRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewProfitUseCase creates a new ProfitUseCase.
func NewProfitUseCase(txManager TransactionManager, profitRepo ProfitRepository, idGen IDGenerator, m *metrics.Metrics) *ProfitUseCase {
	return &ProfitUseCase{
		txManager:  txManager,
		profitRepo: profitRepo,
		idGen:      idGen,
		metrics:    m,
	}
}

// DeductProfitInput represents input for recording a deduction.
type DeductProfitInput struct {
	OperationalID string
	Date          time.Time
	Division      domain.Division
	Category      string
	Description   string
	Amount        decimal.Decimal
}

// Deduct records an active profit deduction for an operational record.
// At most one deduction per record may be active; the uniqueness is
// enforced by the repository's conditional insert, not checked here.
func (uc *ProfitUseCase) Deduct(ctx context.Context, input DeductProfitInput) (*domain.ProfitAdjustment, error) {
	if input.OperationalID == "" {
		return nil, domain.ErrMissingRecord
	}
	if err := input.Division.Validate(); err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	adj := &domain.ProfitAdjustment{
		ID:            uc.idGen.Generate(),
		OperationalID: input.OperationalID,
		Date:          input.Date,
		Division:      input.Division,
		Category:      input.Category,
		Description:   input.Description,
		Amount:        input.Amount,
		Type:          domain.ProfitDeduction,
		Status:        domain.ProfitActive,
		CreatedAt:     time.Now().UTC(),
	}

	ok, err := uc.profitRepo.CreateDeduction(ctx, adj)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrDeductionActive
	}

	if uc.metrics != nil {
		uc.metrics.ProfitDeductions.Inc()
	}

	return adj, nil
}

// Restore reverses the active deduction on an operational record and
// writes a restoration carrying the same amount. Both writes share one
// transaction.
func (uc *ProfitUseCase) Restore(ctx context.Context, operationalID string) (*domain.ProfitAdjustment, error) {
	if operationalID == "" {
		return nil, domain.ErrMissingRecord
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()
	reversed, err := uc.profitRepo.ReverseActiveDeduction(txCtx, tx, operationalID, now)
	if err != nil {
		return nil, err
	}

	restoration := &domain.ProfitAdjustment{
		ID:            uc.idGen.Generate(),
		OperationalID: operationalID,
		Date:          now,
		Division:      reversed.Division,
		Category:      reversed.Category,
		Description:   "Pengembalian: " + reversed.Description,
		Amount:        reversed.Amount,
		Type:          domain.ProfitRestoration,
		Status:        domain.ProfitActive,
		CreatedAt:     now,
	}

	if err := uc.profitRepo.CreateRestoration(txCtx, tx, restoration); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ProfitRestorations.Inc()
	}

	return restoration, nil
}

// SummaryInput narrows the summary window. Nil fields mean unbounded.
type SummaryInput struct {
	Division *domain.Division
	Start    *time.Time
	End      *time.Time
}

// Summary returns deduction/restoration totals over the window. Both sums
// run over the same window independently; net = restorations - deductions.
func (uc *ProfitUseCase) Summary(ctx context.Context, input SummaryInput) (*domain.ProfitSummary, error) {
	if input.Division != nil {
		if err := input.Division.Validate(); err != nil {
			return nil, err
		}
	}
	if input.Start != nil && input.End != nil && input.End.Before(*input.Start) {
		return nil, domain.ErrInvalidPeriod
	}

	return uc.profitRepo.Summary(ctx, input.Division, input.Start, input.End)
}
