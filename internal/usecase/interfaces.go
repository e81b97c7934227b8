package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dealerops/dealerledger/internal/domain"
)

// EntryRepository defines data access for ledger entries (pembukuan).
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error)
	ListByPeriod(ctx context.Context, companyID string, period domain.Period, limit, offset int) ([]*domain.LedgerEntry, error)
	// FindMatches returns every entry matching (company, amount, description
	// substring). There is no foreign key between adjustments and entries;
	// callers must treat more than one match as ambiguous.
	FindMatches(ctx context.Context, tx Transaction, companyID string, amount decimal.Decimal, categorySubstr string) ([]*domain.LedgerEntry, error)
	UpdateDate(ctx context.Context, tx Transaction, id string, date time.Time) error
}

// ClosureRepository defines data access for monthly closures.
type ClosureRepository interface {
	Create(ctx context.Context, closure *domain.MonthlyClosure) error
	Exists(ctx context.Context, month, year int) (bool, error)
	List(ctx context.Context) ([]*domain.MonthlyClosure, error)
}

// AdjustmentFilter narrows adjustment listings.
type AdjustmentFilter struct {
	Status   *domain.AdjustmentStatus
	Division *domain.Division
	Limit    int
	Offset   int
}

// AdjustmentRepository defines data access for retroactive adjustments.
// MarkApproved and MarkRejected are conditional writes: they succeed only
// if the row is still pending and report (false, nil) otherwise, so two
// racing approvals cannot both reclassify.
type AdjustmentRepository interface {
	Create(ctx context.Context, tx Transaction, adj *domain.RetroactiveAdjustment) error
	// GetByID reads inside the transaction when one is passed, so a row
	// updated earlier in the same transaction reads back fresh.
	GetByID(ctx context.Context, tx Transaction, id string) (*domain.RetroactiveAdjustment, error)
	List(ctx context.Context, filter AdjustmentFilter) ([]*domain.RetroactiveAdjustment, error)
	MarkApproved(ctx context.Context, tx Transaction, id, approverID string, at time.Time) (bool, error)
	MarkRejected(ctx context.Context, id, reason string, at time.Time) (bool, error)
}

// ProfitRepository defines data access for the profit adjustment ledger.
type ProfitRepository interface {
	// CreateDeduction inserts a deduction unless an active one already
	// exists for the operational record; reports (false, nil) on conflict.
	CreateDeduction(ctx context.Context, adj *domain.ProfitAdjustment) (bool, error)
	// ReverseActiveDeduction flips the active deduction to reversed and
	// returns it, or domain.ErrNoActiveDeduction.
	ReverseActiveDeduction(ctx context.Context, tx Transaction, operationalID string, at time.Time) (*domain.ProfitAdjustment, error)
	CreateRestoration(ctx context.Context, tx Transaction, adj *domain.ProfitAdjustment) error
	Summary(ctx context.Context, division *domain.Division, start, end *time.Time) (*domain.ProfitSummary, error)
}

// CapitalRepository defines data access for company capital (modal).
type CapitalRepository interface {
	GetCompany(ctx context.Context, id string) (*domain.Company, error)
	AdjustModal(ctx context.Context, tx Transaction, companyID string, delta decimal.Decimal) error
	// ReduceModal subtracts amount only if the balance covers it, in one
	// guarded statement; reports (false, nil) when it would overdraw.
	ReduceModal(ctx context.Context, tx Transaction, companyID string, amount decimal.Decimal) (bool, error)
	CreateHistory(ctx context.Context, tx Transaction, hist *domain.CapitalHistory) error
	ListHistory(ctx context.Context, companyID string, limit, offset int) ([]*domain.CapitalHistory, error)
}

// RecordRepository defines data access for operational records.
type RecordRepository interface {
	GetByID(ctx context.Context, id string) (*domain.OperationalRecord, error)
	// UpdateDate re-dates a record wherever it lives, archived rows
	// included.
	UpdateDate(ctx context.Context, tx Transaction, id string, date time.Time) error
	UpdatePricing(ctx context.Context, tx Transaction, id string, salePrice, profit decimal.Decimal) error
	// ListMisdatedRetroactive scans every tier, so records archived after
	// a bad re-date still surface for repair.
	ListMisdatedRetroactive(ctx context.Context) ([]*domain.OperationalRecord, error)
	// BackupTable snapshots the record table and returns the backup name.
	BackupTable(ctx context.Context) (string, error)
}

// RecordStore is one tier (master, history or combined) of the cascading
// record lookup.
type RecordStore interface {
	Query(ctx context.Context, entityType string, division domain.Division, period domain.Period) ([]*domain.OperationalRecord, error)
}

// InventoryRepository updates unit availability. The inventory tables are
// owned by the surrounding console; the engine only flips status.
type InventoryRepository interface {
	MarkAvailable(ctx context.Context, tx Transaction, unitID string) error
	MarkSold(ctx context.Context, tx Transaction, unitID string) error
}

// PriceHistoryRepository writes price-change audit rows.
type PriceHistoryRepository interface {
	Create(ctx context.Context, hist *domain.PriceHistory) error
	CreateTx(ctx context.Context, tx Transaction, hist *domain.PriceHistory) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Clock supplies the current time; injected so the locator's
// current-period fast path is testable.
type Clock interface {
	Now() time.Time
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
