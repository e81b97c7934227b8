package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dealerops/dealerledger/internal/domain"
	"github.com/dealerops/dealerledger/internal/infrastructure/metrics"
)

// CapitalUseCase maintains company capital (modal) balances. Every change
// appends a history row; the balance column is the running sum.
type CapitalUseCase struct {
	txManager   TransactionManager
	capitalRepo CapitalRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewCapitalUseCase creates a new CapitalUseCase.
func NewCapitalUseCase(txManager TransactionManager, capitalRepo CapitalRepository, idGen IDGenerator, m *metrics.Metrics) *CapitalUseCase {
	return &CapitalUseCase{
		txManager:   txManager,
		capitalRepo: capitalRepo,
		idGen:       idGen,
		metrics:     m,
	}
}

// Adjust applies a signed capital delta and appends the history row in
// one transaction.
func (uc *CapitalUseCase) Adjust(ctx context.Context, companyID string, delta decimal.Decimal, description string) (*domain.CapitalHistory, error) {
	if companyID == "" {
		return nil, domain.ErrMissingCompany
	}
	if delta.IsZero() {
		return nil, domain.ErrInvalidAmount
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	hist, err := uc.adjustTx(txCtx, tx, companyID, delta, description)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return hist, nil
}

// AdjustTx is Adjust inside a caller-owned transaction, used when a
// capital delta is one effect of a larger atomic operation (unit swap).
func (uc *CapitalUseCase) AdjustTx(ctx context.Context, tx Transaction, companyID string, delta decimal.Decimal, description string) (*domain.CapitalHistory, error) {
	return uc.adjustTx(ctx, tx, companyID, delta, description)
}

func (uc *CapitalUseCase) adjustTx(ctx context.Context, tx Transaction, companyID string, delta decimal.Decimal, description string) (*domain.CapitalHistory, error) {
	if err := uc.capitalRepo.AdjustModal(ctx, tx, companyID, delta); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	hist := &domain.CapitalHistory{
		ID:          uc.idGen.Generate(),
		CompanyID:   companyID,
		Delta:       delta,
		Description: description,
		Date:        now,
		CreatedAt:   now,
	}
	if err := uc.capitalRepo.CreateHistory(ctx, tx, hist); err != nil {
		return nil, err
	}

	return hist, nil
}

// Reduce subtracts amount from the company's capital. The bound check
// runs inside the same guarded statement that performs the write, so two
// concurrent reductions cannot both pass against a stale balance.
func (uc *CapitalUseCase) Reduce(ctx context.Context, companyID string, amount decimal.Decimal, description string) (*domain.CapitalHistory, error) {
	if companyID == "" {
		return nil, domain.ErrMissingCompany
	}
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	ok, err := uc.capitalRepo.ReduceModal(txCtx, tx, companyID, amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Rolled back: no history row is written for a rejected reduction.
		if _, err := uc.capitalRepo.GetCompany(ctx, companyID); err != nil {
			return nil, err
		}
		if uc.metrics != nil {
			uc.metrics.CapitalOverdraws.Inc()
		}
		return nil, domain.ErrInsufficientCapital
	}

	now := time.Now().UTC()
	hist := &domain.CapitalHistory{
		ID:          uc.idGen.Generate(),
		CompanyID:   companyID,
		Delta:       amount.Neg(),
		Description: description,
		Date:        now,
		CreatedAt:   now,
	}
	if err := uc.capitalRepo.CreateHistory(txCtx, tx, hist); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.CapitalReductions.Inc()
	}

	return hist, nil
}

// Balance returns the company's current capital.
func (uc *CapitalUseCase) Balance(ctx context.Context, companyID string) (decimal.Decimal, error) {
	company, err := uc.capitalRepo.GetCompany(ctx, companyID)
	if err != nil {
		return decimal.Zero, err
	}
	return company.Modal, nil
}

// History lists capital movements for a company, newest first.
func (uc *CapitalUseCase) History(ctx context.Context, companyID string, limit, offset int) ([]*domain.CapitalHistory, error) {
	return uc.capitalRepo.ListHistory(ctx, companyID, clampLimit(limit), offset)
}
