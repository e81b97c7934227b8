package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dealerops/dealerledger/internal/domain"
	"github.com/dealerops/dealerledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository over the pembukuan
// table.
type EntryRepository struct {
	db dbtx
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{db: pool}
}

const entryColumns = `id, entry_date, description, debit, credit, division, company_id, branch_id, purchase_id, created_at`

// Create inserts a ledger entry.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	_, err := handle(r.db, tx).Exec(ctx, `
		INSERT INTO pembukuan (id, entry_date, description, debit, credit, division, company_id, branch_id, purchase_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.ID, entry.Date, entry.Description, entry.Debit, entry.Credit,
		string(entry.Division), entry.CompanyID, entry.BranchID, entry.PurchaseID, entry.CreatedAt,
	)
	return err
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	row := r.db.QueryRow(ctx, `SELECT `+entryColumns+` FROM pembukuan WHERE id = $1`, id)

	entry, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, id)
	}
	return entry, err
}

// ListByPeriod lists a company's entries within the period, oldest first.
func (r *EntryRepository) ListByPeriod(ctx context.Context, companyID string, period domain.Period, limit, offset int) ([]*domain.LedgerEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+entryColumns+`
		FROM pembukuan
		WHERE company_id = $1 AND entry_date >= $2 AND entry_date < $3
		ORDER BY entry_date, id
		LIMIT $4 OFFSET $5`,
		companyID, period.Start(), period.End(), limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

// FindMatches finds entries by (company, amount, description substring).
// The amount matches against debit+credit since exactly one side is set.
func (r *EntryRepository) FindMatches(ctx context.Context, tx usecase.Transaction, companyID string, amount decimal.Decimal, categorySubstr string) ([]*domain.LedgerEntry, error) {
	rows, err := handle(r.db, tx).Query(ctx, `
		SELECT `+entryColumns+`
		FROM pembukuan
		WHERE company_id = $1
		  AND debit + credit = $2
		  AND description ILIKE '%' || $3 || '%'`,
		companyID, amount, categorySubstr,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

// UpdateDate re-dates an entry.
func (r *EntryRepository) UpdateDate(ctx context.Context, tx usecase.Transaction, id string, date time.Time) error {
	tag, err := handle(r.db, tx).Exec(ctx,
		`UPDATE pembukuan SET entry_date = $2 WHERE id = $1`, id, date)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrEntryNotFound, id)
	}
	return nil
}

func scanEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var (
		entry    domain.LedgerEntry
		division string
	)
	err := row.Scan(
		&entry.ID, &entry.Date, &entry.Description, &entry.Debit, &entry.Credit,
		&division, &entry.CompanyID, &entry.BranchID, &entry.PurchaseID, &entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	entry.Division = domain.Division(division)
	return &entry, nil
}

func collectEntries(rows pgx.Rows) ([]*domain.LedgerEntry, error) {
	var entries []*domain.LedgerEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
