package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Company carries the current capital (modal) balance. The balance column
// is the running sum of all capital history deltas and is what guarded
// reductions are validated against.
type Company struct {
	ID        string
	Name      string
	Modal     decimal.Decimal
	UpdatedAt time.Time
}

// CapitalHistory is one signed capital movement for a company.
type CapitalHistory struct {
	ID          string
	CompanyID   string
	Delta       decimal.Decimal
	Description string
	Date        time.Time
	CreatedAt   time.Time
}
