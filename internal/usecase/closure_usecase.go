package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dealerops/dealerledger/internal/domain"
)

// ClosureUseCase is the monthly closure guard. Every posting consults it
// before touching the ledger; a closed period reroutes the write into the
// retroactive adjustment workflow.
type ClosureUseCase struct {
	closureRepo ClosureRepository
	cache       Cache
	idGen       IDGenerator
}

// NewClosureUseCase creates a new ClosureUseCase. cache may be nil.
func NewClosureUseCase(closureRepo ClosureRepository, cache Cache, idGen IDGenerator) *ClosureUseCase {
	return &ClosureUseCase{
		closureRepo: closureRepo,
		cache:       cache,
		idGen:       idGen,
	}
}

// IsClosed reports whether the period is closed for direct posting.
func (uc *ClosureUseCase) IsClosed(ctx context.Context, period domain.Period) (bool, error) {
	if err := period.Validate(); err != nil {
		return false, err
	}

	key := "closure:" + period.String()
	if uc.cache != nil {
		if v, err := uc.cache.Get(ctx, key); err == nil {
			return v == "1", nil
		}
	}

	closed, err := uc.closureRepo.Exists(ctx, period.Month, period.Year)
	if err != nil {
		return false, err
	}

	if uc.cache != nil {
		v := "0"
		if closed {
			v = "1"
		}
		if err := uc.cache.Set(ctx, key, v, ClosureCacheTTL); err != nil {
			log.Warn().Err(err).Str("period", period.String()).Msg("closure cache set failed")
		}
	}

	return closed, nil
}

// CloseMonth marks a period read-only for direct posting.
func (uc *ClosureUseCase) CloseMonth(ctx context.Context, period domain.Period, closedBy string) (*domain.MonthlyClosure, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	closure := &domain.MonthlyClosure{
		ID:       uc.idGen.Generate(),
		Month:    period.Month,
		Year:     period.Year,
		ClosedBy: closedBy,
		ClosedAt: time.Now().UTC(),
	}

	if err := uc.closureRepo.Create(ctx, closure); err != nil {
		return nil, err
	}

	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, "closure:"+period.String())
	}

	return closure, nil
}

// ListClosures returns every closed period.
func (uc *ClosureUseCase) ListClosures(ctx context.Context) ([]*domain.MonthlyClosure, error) {
	return uc.closureRepo.List(ctx)
}
