package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dealerops/dealerledger/internal/domain"
	"github.com/dealerops/dealerledger/internal/usecase"
)

// PriceHistoryRepository implements usecase.PriceHistoryRepository.
type PriceHistoryRepository struct {
	db dbtx
}

// NewPriceHistoryRepository creates a new PriceHistoryRepository.
func NewPriceHistoryRepository(pool *pgxpool.Pool) *PriceHistoryRepository {
	return &PriceHistoryRepository{db: pool}
}

// Create writes a price-change audit row.
func (r *PriceHistoryRepository) Create(ctx context.Context, hist *domain.PriceHistory) error {
	return r.create(ctx, nil, hist)
}

// CreateTx writes the audit row inside a caller-owned transaction.
func (r *PriceHistoryRepository) CreateTx(ctx context.Context, tx usecase.Transaction, hist *domain.PriceHistory) error {
	return r.create(ctx, tx, hist)
}

func (r *PriceHistoryRepository) create(ctx context.Context, tx usecase.Transaction, hist *domain.PriceHistory) error {
	_, err := handle(r.db, tx).Exec(ctx, `
		INSERT INTO price_history (id, purchase_id, old_sale_price, new_sale_price, old_profit, new_profit, difference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		hist.ID, hist.PurchaseID, hist.OldSalePrice, hist.NewSalePrice,
		hist.OldProfit, hist.NewProfit, hist.Difference, hist.CreatedAt,
	)
	return err
}
