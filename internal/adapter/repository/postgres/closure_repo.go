package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dealerops/dealerledger/internal/domain"
)

const pgErrUniqueViolation = "23505"

// ClosureRepository implements usecase.ClosureRepository.
type ClosureRepository struct {
	db dbtx
}

// NewClosureRepository creates a new ClosureRepository.
func NewClosureRepository(pool *pgxpool.Pool) *ClosureRepository {
	return &ClosureRepository{db: pool}
}

// Create records a closure. The (month, year) unique index makes a
// duplicate closure a conflict, not a second row.
func (r *ClosureRepository) Create(ctx context.Context, closure *domain.MonthlyClosure) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO monthly_closures (id, month, year, closed_by, closed_at)
		VALUES ($1, $2, $3, $4, $5)`,
		closure.ID, closure.Month, closure.Year, closure.ClosedBy, closure.ClosedAt,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
		return fmt.Errorf("%w: %s", domain.ErrClosureExists, closure.Period())
	}
	return err
}

// Exists reports whether the period is closed.
func (r *ClosureRepository) Exists(ctx context.Context, month, year int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM monthly_closures WHERE month = $1 AND year = $2)`,
		month, year,
	).Scan(&exists)
	return exists, err
}

// List returns all closures, newest period first.
func (r *ClosureRepository) List(ctx context.Context) ([]*domain.MonthlyClosure, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, month, year, closed_by, closed_at
		FROM monthly_closures
		ORDER BY year DESC, month DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var closures []*domain.MonthlyClosure
	for rows.Next() {
		var c domain.MonthlyClosure
		if err := rows.Scan(&c.ID, &c.Month, &c.Year, &c.ClosedBy, &c.ClosedAt); err != nil {
			return nil, err
		}
		closures = append(closures, &c)
	}
	return closures, rows.Err()
}
