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

// AdjustmentRepository implements usecase.AdjustmentRepository.
//
// The pending -> approved and pending -> rejected transitions are single
// conditional UPDATEs; the WHERE status = 'pending' clause is what makes
// concurrent transitions safe.
type AdjustmentRepository struct {
	db dbtx
}

// NewAdjustmentRepository creates a new AdjustmentRepository.
func NewAdjustmentRepository(pool *pgxpool.Pool) *AdjustmentRepository {
	return &AdjustmentRepository{db: pool}
}

const adjustmentColumns = `id, target_month, target_year, filing_date, category, amount, description,
	company_id, division, record_id, status, approved_by, approved_at, rejection_reason,
	auto_approved, requires_approval, created_by, created_at, updated_at`

// Create inserts an adjustment.
func (r *AdjustmentRepository) Create(ctx context.Context, tx usecase.Transaction, adj *domain.RetroactiveAdjustment) error {
	_, err := handle(r.db, tx).Exec(ctx, `
		INSERT INTO retroactive_adjustments (`+adjustmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		adj.ID, adj.TargetMonth.Month, adj.TargetMonth.Year, adj.FilingDate, adj.Category,
		adj.Amount, adj.Description, adj.CompanyID, string(adj.Division), adj.RecordID,
		string(adj.Status), adj.ApprovedBy, adj.ApprovedAt, adj.RejectionReason,
		adj.AutoApproved, adj.RequiresApproval, adj.CreatedBy, adj.CreatedAt, adj.UpdatedAt,
	)
	return err
}

// GetByID retrieves an adjustment by ID, inside the transaction when one
// is passed.
func (r *AdjustmentRepository) GetByID(ctx context.Context, tx usecase.Transaction, id string) (*domain.RetroactiveAdjustment, error) {
	row := handle(r.db, tx).QueryRow(ctx,
		`SELECT `+adjustmentColumns+` FROM retroactive_adjustments WHERE id = $1`, id)

	adj, err := scanAdjustment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrAdjustmentNotFound, id)
	}
	return adj, err
}

// List lists adjustments matching the filter, newest filing first.
func (r *AdjustmentRepository) List(ctx context.Context, filter usecase.AdjustmentFilter) ([]*domain.RetroactiveAdjustment, error) {
	var (
		status   *string
		division *string
	)
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}
	if filter.Division != nil {
		d := string(*filter.Division)
		division = &d
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+adjustmentColumns+`
		FROM retroactive_adjustments
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::text IS NULL OR division = $2)
		ORDER BY filing_date DESC, id
		LIMIT $3 OFFSET $4`,
		status, division, filter.Limit, filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var adjustments []*domain.RetroactiveAdjustment
	for rows.Next() {
		adj, err := scanAdjustment(rows)
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, adj)
	}
	return adjustments, rows.Err()
}

// MarkApproved transitions pending -> approved. Reports false when the
// row is missing or no longer pending.
func (r *AdjustmentRepository) MarkApproved(ctx context.Context, tx usecase.Transaction, id, approverID string, at time.Time) (bool, error) {
	tag, err := handle(r.db, tx).Exec(ctx, `
		UPDATE retroactive_adjustments
		SET status = 'approved', approved_by = $2, approved_at = $3, updated_at = $3
		WHERE id = $1 AND status = 'pending'`,
		id, approverID, at,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// MarkRejected transitions pending -> rejected. Reports false when the
// row is missing or no longer pending.
func (r *AdjustmentRepository) MarkRejected(ctx context.Context, id, reason string, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE retroactive_adjustments
		SET status = 'rejected', rejection_reason = $2, updated_at = $3
		WHERE id = $1 AND status = 'pending'`,
		id, reason, at,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanAdjustment(row pgx.Row) (*domain.RetroactiveAdjustment, error) {
	var (
		adj      domain.RetroactiveAdjustment
		status   string
		division string
	)
	err := row.Scan(
		&adj.ID, &adj.TargetMonth.Month, &adj.TargetMonth.Year, &adj.FilingDate, &adj.Category,
		&adj.Amount, &adj.Description, &adj.CompanyID, &division, &adj.RecordID,
		&status, &adj.ApprovedBy, &adj.ApprovedAt, &adj.RejectionReason,
		&adj.AutoApproved, &adj.RequiresApproval, &adj.CreatedBy, &adj.CreatedAt, &adj.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	adj.Status = domain.AdjustmentStatus(status)
	adj.Division = domain.Division(division)
	return &adj, nil
}
