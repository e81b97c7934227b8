package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustmentStatus is the lifecycle state of a retroactive adjustment.
type AdjustmentStatus string

const (
	AdjustmentPending  AdjustmentStatus = "pending"
	AdjustmentApproved AdjustmentStatus = "approved"
	AdjustmentRejected AdjustmentStatus = "rejected"
)

// RetroactiveAdjustment is a write that targeted an already-closed month.
// It is created pending, mutated exactly once by approve or reject, and
// terminal states are immutable.
type RetroactiveAdjustment struct {
	ID               string
	TargetMonth      Period
	FilingDate       time.Time
	Category         string
	Amount           decimal.Decimal
	Description      string
	CompanyID        string
	Division         Division
	RecordID         string
	Status           AdjustmentStatus
	ApprovedBy       string
	ApprovedAt       *time.Time
	RejectionReason  string
	AutoApproved     bool
	RequiresApproval bool
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Terminal reports whether the adjustment can no longer change state.
func (a *RetroactiveAdjustment) Terminal() bool {
	return a.Status == AdjustmentApproved || a.Status == AdjustmentRejected
}
