package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProfitAdjustmentType distinguishes deductions from their reversals.
type ProfitAdjustmentType string

const (
	ProfitDeduction   ProfitAdjustmentType = "deduction"
	ProfitRestoration ProfitAdjustmentType = "restoration"
)

// ProfitAdjustmentStatus tracks whether a deduction is still in force.
type ProfitAdjustmentStatus string

const (
	ProfitActive   ProfitAdjustmentStatus = "active"
	ProfitReversed ProfitAdjustmentStatus = "reversed"
)

// ProfitAdjustment is one row of the deduction/restoration audit trail.
// An operational record has at most one active deduction at a time; a
// restoration references the operational id of the deduction it reverses
// and carries the same amount.
type ProfitAdjustment struct {
	ID            string
	OperationalID string
	Date          time.Time
	Division      Division
	Category      string
	Description   string
	Amount        decimal.Decimal
	Type          ProfitAdjustmentType
	Status        ProfitAdjustmentStatus
	CreatedAt     time.Time
}

// ProfitSummary aggregates adjustments over a division/date window.
// Both sums are computed independently over the same window.
type ProfitSummary struct {
	TotalDeductions   decimal.Decimal
	TotalRestorations decimal.Decimal
	NetAdjustment     decimal.Decimal
}
