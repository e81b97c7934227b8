package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordSource names the store tier a lookup result came from.
type RecordSource string

const (
	SourceMaster   RecordSource = "master"
	SourceHistory  RecordSource = "history"
	SourceCombined RecordSource = "combined"
)

// OperationalRecord is a sale/purchase row in one of the tiered stores.
// Its Date is the effective accounting date; for retroactive records the
// date must equal TargetMonth once the adjustment is approved.
type OperationalRecord struct {
	ID            string
	EntityType    string
	Date          time.Time
	Division      Division
	CompanyID     string
	CustomerName  string
	UnitName      string
	SalePrice     decimal.Decimal
	CostPrice     decimal.Decimal
	Profit        decimal.Decimal
	IsRetroactive bool
	TargetMonth   *Period
	CreatedAt     time.Time
}

// Misdated reports whether a retroactive record's effective date still
// disagrees with its approved target month.
func (r *OperationalRecord) Misdated() bool {
	return r.IsRetroactive && r.TargetMonth != nil && !r.TargetMonth.Contains(r.Date)
}

// PriceHistory is the audit row written whenever a unit's sale price
// changes (price edit or unit swap).
type PriceHistory struct {
	ID           string
	PurchaseID   string
	OldSalePrice decimal.Decimal
	NewSalePrice decimal.Decimal
	OldProfit    decimal.Decimal
	NewProfit    decimal.Decimal
	Difference   decimal.Decimal
	CreatedAt    time.Time
}
