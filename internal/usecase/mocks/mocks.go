package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dealerops/dealerledger/internal/domain"
	"github.com/dealerops/dealerledger/internal/usecase"
)

// MockTransaction is a no-op transaction that records its outcome.
type MockTransaction struct {
	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager hands out MockTransactions.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	mu    sync.Mutex
	Began []*MockTransaction
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.Began = append(m.Began, tx)
	return tx, nil
}

// MockIDGenerator generates sequential IDs.
type MockIDGenerator struct {
	GenerateFunc func() string

	mu   sync.Mutex
	next int
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return fmt.Sprintf("id-%03d", m.next)
}

// MockClock returns a fixed instant.
type MockClock struct {
	NowTime time.Time
}

func (c *MockClock) Now() time.Time {
	return c.NowTime
}

// MockEntryRepository is an in-memory EntryRepository.
type MockEntryRepository struct {
	CreateFunc      func(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error
	FindMatchesFunc func(ctx context.Context, tx usecase.Transaction, companyID string, amount decimal.Decimal, categorySubstr string) ([]*domain.LedgerEntry, error)
	UpdateDateFunc  func(ctx context.Context, tx usecase.Transaction, id string, date time.Time) error

	mu      sync.RWMutex
	Entries map[string]*domain.LedgerEntry
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{Entries: make(map[string]*domain.LedgerEntry)}
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *entry
	m.Entries[entry.ID] = &cp
	return nil
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.Entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	return e, nil
}

func (m *MockEntryRepository) ListByPeriod(ctx context.Context, companyID string, period domain.Period, limit, offset int) ([]*domain.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.LedgerEntry
	for _, e := range m.Entries {
		if e.CompanyID == companyID && period.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockEntryRepository) FindMatches(ctx context.Context, tx usecase.Transaction, companyID string, amount decimal.Decimal, categorySubstr string) ([]*domain.LedgerEntry, error) {
	if m.FindMatchesFunc != nil {
		return m.FindMatchesFunc(ctx, tx, companyID, amount, categorySubstr)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.LedgerEntry
	for _, e := range m.Entries {
		total := e.Credit.Add(e.Debit)
		if e.CompanyID == companyID && total.Equal(amount) &&
			strings.Contains(strings.ToLower(e.Description), strings.ToLower(categorySubstr)) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockEntryRepository) UpdateDate(ctx context.Context, tx usecase.Transaction, id string, date time.Time) error {
	if m.UpdateDateFunc != nil {
		return m.UpdateDateFunc(ctx, tx, id, date)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Entries[id]
	if !ok {
		return domain.ErrEntryNotFound
	}
	e.Date = date
	return nil
}

// MockClosureRepository is an in-memory ClosureRepository.
type MockClosureRepository struct {
	ExistsFunc func(ctx context.Context, month, year int) (bool, error)

	mu          sync.RWMutex
	Closures    map[string]*domain.MonthlyClosure
	ExistsCalls int
}

func NewMockClosureRepository() *MockClosureRepository {
	return &MockClosureRepository{Closures: make(map[string]*domain.MonthlyClosure)}
}

func (m *MockClosureRepository) Create(ctx context.Context, c *domain.MonthlyClosure) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := c.Period().String()
	if _, ok := m.Closures[key]; ok {
		return domain.ErrClosureExists
	}
	m.Closures[key] = c
	return nil
}

func (m *MockClosureRepository) Exists(ctx context.Context, month, year int) (bool, error) {
	m.mu.Lock()
	m.ExistsCalls++
	m.mu.Unlock()
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, month, year)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.Closures[domain.Period{Month: month, Year: year}.String()]
	return ok, nil
}

func (m *MockClosureRepository) List(ctx context.Context) ([]*domain.MonthlyClosure, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.MonthlyClosure, 0, len(m.Closures))
	for _, c := range m.Closures {
		out = append(out, c)
	}
	return out, nil
}

// MockAdjustmentRepository is an in-memory AdjustmentRepository whose
// MarkApproved/MarkRejected behave like the conditional SQL writes.
type MockAdjustmentRepository struct {
	CreateFunc       func(ctx context.Context, tx usecase.Transaction, adj *domain.RetroactiveAdjustment) error
	GetByIDFunc      func(ctx context.Context, tx usecase.Transaction, id string) (*domain.RetroactiveAdjustment, error)
	MarkApprovedFunc func(ctx context.Context, tx usecase.Transaction, id, approverID string, at time.Time) (bool, error)

	mu          sync.RWMutex
	Adjustments map[string]*domain.RetroactiveAdjustment
}

func NewMockAdjustmentRepository() *MockAdjustmentRepository {
	return &MockAdjustmentRepository{Adjustments: make(map[string]*domain.RetroactiveAdjustment)}
}

func (m *MockAdjustmentRepository) Create(ctx context.Context, tx usecase.Transaction, adj *domain.RetroactiveAdjustment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, adj)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *adj
	m.Adjustments[adj.ID] = &cp
	return nil
}

func (m *MockAdjustmentRepository) GetByID(ctx context.Context, tx usecase.Transaction, id string) (*domain.RetroactiveAdjustment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, tx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.Adjustments[id]
	if !ok {
		return nil, domain.ErrAdjustmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MockAdjustmentRepository) List(ctx context.Context, filter usecase.AdjustmentFilter) ([]*domain.RetroactiveAdjustment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.RetroactiveAdjustment
	for _, a := range m.Adjustments {
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.Division != nil && a.Division != *filter.Division {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *MockAdjustmentRepository) MarkApproved(ctx context.Context, tx usecase.Transaction, id, approverID string, at time.Time) (bool, error) {
	if m.MarkApprovedFunc != nil {
		return m.MarkApprovedFunc(ctx, tx, id, approverID, at)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Adjustments[id]
	if !ok || a.Status != domain.AdjustmentPending {
		return false, nil
	}
	a.Status = domain.AdjustmentApproved
	a.ApprovedBy = approverID
	a.ApprovedAt = &at
	a.UpdatedAt = at
	return true, nil
}

func (m *MockAdjustmentRepository) MarkRejected(ctx context.Context, id, reason string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Adjustments[id]
	if !ok || a.Status != domain.AdjustmentPending {
		return false, nil
	}
	a.Status = domain.AdjustmentRejected
	a.RejectionReason = reason
	a.UpdatedAt = at
	return true, nil
}

// MockProfitRepository is an in-memory ProfitRepository with the same
// conditional-write semantics as the SQL implementation.
type MockProfitRepository struct {
	mu   sync.RWMutex
	Rows []*domain.ProfitAdjustment
}

func NewMockProfitRepository() *MockProfitRepository {
	return &MockProfitRepository{}
}

func (m *MockProfitRepository) CreateDeduction(ctx context.Context, adj *domain.ProfitAdjustment) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.Rows {
		if r.OperationalID == adj.OperationalID && r.Type == domain.ProfitDeduction && r.Status == domain.ProfitActive {
			return false, nil
		}
	}
	cp := *adj
	m.Rows = append(m.Rows, &cp)
	return true, nil
}

func (m *MockProfitRepository) ReverseActiveDeduction(ctx context.Context, tx usecase.Transaction, operationalID string, at time.Time) (*domain.ProfitAdjustment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.Rows {
		if r.OperationalID == operationalID && r.Type == domain.ProfitDeduction && r.Status == domain.ProfitActive {
			r.Status = domain.ProfitReversed
			cp := *r
			return &cp, nil
		}
	}
	return nil, domain.ErrNoActiveDeduction
}

func (m *MockProfitRepository) CreateRestoration(ctx context.Context, tx usecase.Transaction, adj *domain.ProfitAdjustment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *adj
	m.Rows = append(m.Rows, &cp)
	return nil
}

func (m *MockProfitRepository) Summary(ctx context.Context, division *domain.Division, start, end *time.Time) (*domain.ProfitSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := &domain.ProfitSummary{
		TotalDeductions:   decimal.Zero,
		TotalRestorations: decimal.Zero,
	}
	for _, r := range m.Rows {
		if division != nil && r.Division != *division {
			continue
		}
		if start != nil && r.Date.Before(*start) {
			continue
		}
		if end != nil && r.Date.After(*end) {
			continue
		}
		switch r.Type {
		case domain.ProfitDeduction:
			sum.TotalDeductions = sum.TotalDeductions.Add(r.Amount)
		case domain.ProfitRestoration:
			sum.TotalRestorations = sum.TotalRestorations.Add(r.Amount)
		}
	}
	sum.NetAdjustment = sum.TotalRestorations.Sub(sum.TotalDeductions)
	return sum, nil
}

// MockCapitalRepository is an in-memory CapitalRepository with a guarded
// ReduceModal.
type MockCapitalRepository struct {
	ReduceModalFunc func(ctx context.Context, tx usecase.Transaction, companyID string, amount decimal.Decimal) (bool, error)

	mu        sync.RWMutex
	Companies map[string]*domain.Company
	History   []*domain.CapitalHistory
}

func NewMockCapitalRepository() *MockCapitalRepository {
	return &MockCapitalRepository{Companies: make(map[string]*domain.Company)}
}

func (m *MockCapitalRepository) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.Companies[id]
	if !ok {
		return nil, domain.ErrCompanyNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MockCapitalRepository) AdjustModal(ctx context.Context, tx usecase.Transaction, companyID string, delta decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Companies[companyID]
	if !ok {
		return domain.ErrCompanyNotFound
	}
	c.Modal = c.Modal.Add(delta)
	return nil
}

func (m *MockCapitalRepository) ReduceModal(ctx context.Context, tx usecase.Transaction, companyID string, amount decimal.Decimal) (bool, error) {
	if m.ReduceModalFunc != nil {
		return m.ReduceModalFunc(ctx, tx, companyID, amount)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Companies[companyID]
	if !ok || c.Modal.LessThan(amount) {
		return false, nil
	}
	c.Modal = c.Modal.Sub(amount)
	return true, nil
}

func (m *MockCapitalRepository) CreateHistory(ctx context.Context, tx usecase.Transaction, h *domain.CapitalHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *h
	m.History = append(m.History, &cp)
	return nil
}

func (m *MockCapitalRepository) ListHistory(ctx context.Context, companyID string, limit, offset int) ([]*domain.CapitalHistory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.CapitalHistory
	for _, h := range m.History {
		if h.CompanyID == companyID {
			out = append(out, h)
		}
	}
	return out, nil
}

// MockRecordRepository is an in-memory RecordRepository.
type MockRecordRepository struct {
	UpdateDateFunc    func(ctx context.Context, tx usecase.Transaction, id string, date time.Time) error
	UpdatePricingFunc func(ctx context.Context, tx usecase.Transaction, id string, salePrice, profit decimal.Decimal) error
	BackupTableFunc   func(ctx context.Context) (string, error)

	mu          sync.RWMutex
	Records     map[string]*domain.OperationalRecord
	BackupCalls int
}

func NewMockRecordRepository() *MockRecordRepository {
	return &MockRecordRepository{Records: make(map[string]*domain.OperationalRecord)}
}

func (m *MockRecordRepository) GetByID(ctx context.Context, id string) (*domain.OperationalRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.Records[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MockRecordRepository) UpdateDate(ctx context.Context, tx usecase.Transaction, id string, date time.Time) error {
	if m.UpdateDateFunc != nil {
		return m.UpdateDateFunc(ctx, tx, id, date)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.Records[id]
	if !ok {
		return domain.ErrRecordNotFound
	}
	r.Date = date
	return nil
}

func (m *MockRecordRepository) UpdatePricing(ctx context.Context, tx usecase.Transaction, id string, salePrice, profit decimal.Decimal) error {
	if m.UpdatePricingFunc != nil {
		return m.UpdatePricingFunc(ctx, tx, id, salePrice, profit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.Records[id]
	if !ok {
		return domain.ErrRecordNotFound
	}
	r.SalePrice = salePrice
	r.Profit = profit
	return nil
}

func (m *MockRecordRepository) ListMisdatedRetroactive(ctx context.Context) ([]*domain.OperationalRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OperationalRecord
	for _, r := range m.Records {
		if r.Misdated() {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockRecordRepository) BackupTable(ctx context.Context) (string, error) {
	m.mu.Lock()
	m.BackupCalls++
	m.mu.Unlock()
	if m.BackupTableFunc != nil {
		return m.BackupTableFunc(ctx)
	}
	return "penjualan_backup_test", nil
}

// MockInventoryRepository records unit status flips.
type MockInventoryRepository struct {
	MarkAvailableFunc func(ctx context.Context, tx usecase.Transaction, unitID string) error
	MarkSoldFunc      func(ctx context.Context, tx usecase.Transaction, unitID string) error

	mu        sync.Mutex
	Available []string
	Sold      []string
}

func NewMockInventoryRepository() *MockInventoryRepository {
	return &MockInventoryRepository{}
}

func (m *MockInventoryRepository) MarkAvailable(ctx context.Context, tx usecase.Transaction, unitID string) error {
	if m.MarkAvailableFunc != nil {
		return m.MarkAvailableFunc(ctx, tx, unitID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Available = append(m.Available, unitID)
	return nil
}

func (m *MockInventoryRepository) MarkSold(ctx context.Context, tx usecase.Transaction, unitID string) error {
	if m.MarkSoldFunc != nil {
		return m.MarkSoldFunc(ctx, tx, unitID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sold = append(m.Sold, unitID)
	return nil
}

// MockPriceHistoryRepository records price audit rows.
type MockPriceHistoryRepository struct {
	CreateFunc func(ctx context.Context, h *domain.PriceHistory) error

	mu   sync.Mutex
	Rows []*domain.PriceHistory
}

func NewMockPriceHistoryRepository() *MockPriceHistoryRepository {
	return &MockPriceHistoryRepository{}
}

func (m *MockPriceHistoryRepository) Create(ctx context.Context, h *domain.PriceHistory) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, h)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *h
	m.Rows = append(m.Rows, &cp)
	return nil
}

func (m *MockPriceHistoryRepository) CreateTx(ctx context.Context, tx usecase.Transaction, h *domain.PriceHistory) error {
	return m.Create(ctx, h)
}

// MockCache is an in-memory Cache.
type MockCache struct {
	mu     sync.RWMutex
	values map[string]string

	GetCalls int
	SetCalls int
}

func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string]string)}
}

func (c *MockCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	c.GetCalls++
	c.mu.Unlock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (c *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SetCalls++
	c.values[key] = value
	return nil
}

func (c *MockCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}
