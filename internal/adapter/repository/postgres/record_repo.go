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

// Record store tiers. The master table holds the live period, history
// holds archived periods, combined is the reporting union of both.
const (
	TableRecords         = "penjualan"
	TableRecordsHistory  = "penjualan_history"
	TableRecordsCombined = "penjualan_combined"
)

const recordColumns = `id, entity_type, date, division, company_id, customer_name, unit_name,
	sale_price, cost_price, profit, is_retroactive, target_month, target_year, created_at`

// RecordRepository implements usecase.RecordRepository over the master
// record table.
type RecordRepository struct {
	db dbtx
}

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(pool *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{db: pool}
}

// GetByID retrieves a record by ID.
func (r *RecordRepository) GetByID(ctx context.Context, id string) (*domain.OperationalRecord, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM `+TableRecords+` WHERE id = $1`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
	}
	return rec, err
}

// UpdateDate moves a record's effective accounting date. The row may
// already have been archived, so the write falls through to the history
// tier when the live table is not touched.
func (r *RecordRepository) UpdateDate(ctx context.Context, tx usecase.Transaction, id string, date time.Time) error {
	for _, table := range []string{TableRecords, TableRecordsHistory} {
		tag, err := handle(r.db, tx).Exec(ctx,
			`UPDATE `+table+` SET date = $2 WHERE id = $1`, id, date)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 1 {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
}

// UpdatePricing rewrites a record's sale price and derived profit.
func (r *RecordRepository) UpdatePricing(ctx context.Context, tx usecase.Transaction, id string, salePrice, profit decimal.Decimal) error {
	tag, err := handle(r.db, tx).Exec(ctx,
		`UPDATE `+TableRecords+` SET sale_price = $2, profit = $3 WHERE id = $1`,
		id, salePrice, profit)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
	}
	return nil
}

// ListMisdatedRetroactive finds approved retroactive records whose
// effective date disagrees with their target month. It reads the combined
// view so rows already archived into the history tier are found too.
func (r *RecordRepository) ListMisdatedRetroactive(ctx context.Context) ([]*domain.OperationalRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+recordColumns+`
		FROM `+TableRecordsCombined+`
		WHERE is_retroactive
		  AND target_month IS NOT NULL
		  AND (EXTRACT(MONTH FROM date) <> target_month OR EXTRACT(YEAR FROM date) <> target_year)
		ORDER BY date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.OperationalRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// BackupTable snapshots the master record table before a repair run and
// returns the backup table name.
func (r *RecordRepository) BackupTable(ctx context.Context) (string, error) {
	name := fmt.Sprintf("%s_backup_%s", TableRecords, time.Now().UTC().Format("20060102150405"))
	if _, err := r.db.Exec(ctx, `CREATE TABLE `+name+` AS TABLE `+TableRecords); err != nil {
		return "", err
	}
	return name, nil
}

// RecordStore is one queryable tier of the cascading locator.
type RecordStore struct {
	db    dbtx
	table string
}

// NewRecordStore creates a store over the given tier table.
func NewRecordStore(pool *pgxpool.Pool, table string) *RecordStore {
	return &RecordStore{db: pool, table: table}
}

// Query returns the tier's records for (entityType, division, period).
func (s *RecordStore) Query(ctx context.Context, entityType string, division domain.Division, period domain.Period) ([]*domain.OperationalRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+recordColumns+`
		FROM `+s.table+`
		WHERE entity_type = $1 AND division = $2 AND date >= $3 AND date < $4
		ORDER BY date, id`,
		entityType, string(division), period.Start(), period.End(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.OperationalRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanRecord(row pgx.Row) (*domain.OperationalRecord, error) {
	var (
		rec         domain.OperationalRecord
		division    string
		targetMonth *int
		targetYear  *int
	)
	err := row.Scan(
		&rec.ID, &rec.EntityType, &rec.Date, &division, &rec.CompanyID,
		&rec.CustomerName, &rec.UnitName, &rec.SalePrice, &rec.CostPrice, &rec.Profit,
		&rec.IsRetroactive, &targetMonth, &targetYear, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Division = domain.Division(division)
	if targetMonth != nil && targetYear != nil {
		rec.TargetMonth = &domain.Period{Month: *targetMonth, Year: *targetYear}
	}
	return &rec, nil
}
