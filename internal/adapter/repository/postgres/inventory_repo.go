package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dealerops/dealerledger/internal/domain"
	"github.com/dealerops/dealerledger/internal/usecase"
)

// InventoryRepository implements usecase.InventoryRepository. The units
// table belongs to the surrounding console; the engine only flips the
// availability status during a unit swap.
type InventoryRepository struct {
	db dbtx
}

// NewInventoryRepository creates a new InventoryRepository.
func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{db: pool}
}

// MarkAvailable returns a unit to stock.
func (r *InventoryRepository) MarkAvailable(ctx context.Context, tx usecase.Transaction, unitID string) error {
	return r.setStatus(ctx, tx, unitID, "available")
}

// MarkSold takes a unit out of stock.
func (r *InventoryRepository) MarkSold(ctx context.Context, tx usecase.Transaction, unitID string) error {
	return r.setStatus(ctx, tx, unitID, "sold")
}

func (r *InventoryRepository) setStatus(ctx context.Context, tx usecase.Transaction, unitID, status string) error {
	tag, err := handle(r.db, tx).Exec(ctx,
		`UPDATE units SET status = $2, updated_at = now() WHERE id = $1`, unitID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: unit %s", domain.ErrNotFound, unitID)
	}
	return nil
}
