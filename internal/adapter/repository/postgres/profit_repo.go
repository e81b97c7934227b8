package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dealerops/dealerledger/internal/domain"
	"github.com/dealerops/dealerledger/internal/usecase"
)

// ProfitRepository implements usecase.ProfitRepository over the
// profit_adjustments table.
type ProfitRepository struct {
	db dbtx
}

// NewProfitRepository creates a new ProfitRepository.
func NewProfitRepository(pool *pgxpool.Pool) *ProfitRepository {
	return &ProfitRepository{db: pool}
}

// CreateDeduction inserts a deduction unless the record already has an
// active one. The existence check and the insert are one statement, so
// two concurrent deductions cannot both pass.
func (r *ProfitRepository) CreateDeduction(ctx context.Context, adj *domain.ProfitAdjustment) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO profit_adjustments (id, operational_id, date, division, category, description, amount, type, status, created_at)
		SELECT $1, $2, $3, $4, $5, $6, $7, 'deduction', 'active', $8
		WHERE NOT EXISTS (
			SELECT 1 FROM profit_adjustments
			WHERE operational_id = $2 AND type = 'deduction' AND status = 'active'
		)`,
		adj.ID, adj.OperationalID, adj.Date, string(adj.Division), adj.Category,
		adj.Description, adj.Amount, adj.CreatedAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ReverseActiveDeduction flips the record's active deduction to reversed
// and returns the reversed row.
func (r *ProfitRepository) ReverseActiveDeduction(ctx context.Context, tx usecase.Transaction, operationalID string, at time.Time) (*domain.ProfitAdjustment, error) {
	row := handle(r.db, tx).QueryRow(ctx, `
		UPDATE profit_adjustments
		SET status = 'reversed', reversed_at = $2
		WHERE operational_id = $1 AND type = 'deduction' AND status = 'active'
		RETURNING id, operational_id, date, division, category, description, amount, type, status, created_at`,
		operationalID, at,
	)

	adj, err := scanProfitAdjustment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoActiveDeduction, operationalID)
	}
	return adj, err
}

// CreateRestoration inserts a restoration row.
func (r *ProfitRepository) CreateRestoration(ctx context.Context, tx usecase.Transaction, adj *domain.ProfitAdjustment) error {
	_, err := handle(r.db, tx).Exec(ctx, `
		INSERT INTO profit_adjustments (id, operational_id, date, division, category, description, amount, type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		adj.ID, adj.OperationalID, adj.Date, string(adj.Division), adj.Category,
		adj.Description, adj.Amount, string(adj.Type), string(adj.Status), adj.CreatedAt,
	)
	return err
}

// Summary aggregates deductions and restorations over the window. Both
// sums run over the same rows; reversed deductions still count, the
// matching restoration row is what cancels them out.
func (r *ProfitRepository) Summary(ctx context.Context, division *domain.Division, start, end *time.Time) (*domain.ProfitSummary, error) {
	var div *string
	if division != nil {
		d := string(*division)
		div = &d
	}

	sum := &domain.ProfitSummary{}
	err := r.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'deduction'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'restoration'), 0)
		FROM profit_adjustments
		WHERE ($1::text IS NULL OR division = $1)
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)`,
		div, start, end,
	).Scan(&sum.TotalDeductions, &sum.TotalRestorations)
	if err != nil {
		return nil, err
	}

	sum.NetAdjustment = sum.TotalRestorations.Sub(sum.TotalDeductions)
	return sum, nil
}

func scanProfitAdjustment(row pgx.Row) (*domain.ProfitAdjustment, error) {
	var (
		adj      domain.ProfitAdjustment
		division string
		typ      string
		status   string
	)
	err := row.Scan(
		&adj.ID, &adj.OperationalID, &adj.Date, &division, &adj.Category,
		&adj.Description, &adj.Amount, &typ, &status, &adj.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	adj.Division = domain.Division(division)
	adj.Type = domain.ProfitAdjustmentType(typ)
	adj.Status = domain.ProfitAdjustmentStatus(status)
	return &adj, nil
}
