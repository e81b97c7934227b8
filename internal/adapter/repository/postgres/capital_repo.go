package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dealerops/dealerledger/internal/domain"
	"github.com/dealerops/dealerledger/internal/usecase"
)

// CapitalRepository implements usecase.CapitalRepository over companies
// and capital_history.
type CapitalRepository struct {
	db dbtx
}

// NewCapitalRepository creates a new CapitalRepository.
func NewCapitalRepository(pool *pgxpool.Pool) *CapitalRepository {
	return &CapitalRepository{db: pool}
}

// GetCompany retrieves a company with its current capital.
func (r *CapitalRepository) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	var company domain.Company
	err := r.db.QueryRow(ctx,
		`SELECT id, name, modal, updated_at FROM companies WHERE id = $1`, id,
	).Scan(&company.ID, &company.Name, &company.Modal, &company.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrCompanyNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// AdjustModal applies a signed delta to the company's capital.
func (r *CapitalRepository) AdjustModal(ctx context.Context, tx usecase.Transaction, companyID string, delta decimal.Decimal) error {
	tag, err := handle(r.db, tx).Exec(ctx,
		`UPDATE companies SET modal = modal + $2, updated_at = now() WHERE id = $1`,
		companyID, delta,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrCompanyNotFound, companyID)
	}
	return nil
}

// ReduceModal subtracts amount only when the balance covers it. The bound
// check lives in the same UPDATE, so concurrent reductions serialize on
// the row instead of racing a read-then-write.
func (r *CapitalRepository) ReduceModal(ctx context.Context, tx usecase.Transaction, companyID string, amount decimal.Decimal) (bool, error) {
	tag, err := handle(r.db, tx).Exec(ctx,
		`UPDATE companies SET modal = modal - $2, updated_at = now() WHERE id = $1 AND modal >= $2`,
		companyID, amount,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// CreateHistory appends a capital movement row.
func (r *CapitalRepository) CreateHistory(ctx context.Context, tx usecase.Transaction, hist *domain.CapitalHistory) error {
	_, err := handle(r.db, tx).Exec(ctx, `
		INSERT INTO capital_history (id, company_id, delta, description, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		hist.ID, hist.CompanyID, hist.Delta, hist.Description, hist.Date, hist.CreatedAt,
	)
	return err
}

// ListHistory lists a company's capital movements, newest first.
func (r *CapitalRepository) ListHistory(ctx context.Context, companyID string, limit, offset int) ([]*domain.CapitalHistory, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, company_id, delta, description, date, created_at
		FROM capital_history
		WHERE company_id = $1
		ORDER BY date DESC, id DESC
		LIMIT $2 OFFSET $3`,
		companyID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []*domain.CapitalHistory
	for rows.Next() {
		var h domain.CapitalHistory
		if err := rows.Scan(&h.ID, &h.CompanyID, &h.Delta, &h.Description, &h.Date, &h.CreatedAt); err != nil {
			return nil, err
		}
		history = append(history, &h)
	}
	return history, rows.Err()
}
