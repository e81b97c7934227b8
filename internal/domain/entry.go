package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Division tags every row with the business line it belongs to.
type Division string

const (
	DivisionSport Division = "sport"
	DivisionStart Division = "start"
)

// Validate checks the division against the known set.
func (d Division) Validate() error {
	switch d {
	case DivisionSport, DivisionStart:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidDivision, string(d))
}

// LedgerEntry is a single bookkeeping row (pembukuan). Direction of cash
// flow is carried by which of Debit/Credit is non-zero, never by sign.
type LedgerEntry struct {
	ID          string
	Date        time.Time
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Division    Division
	CompanyID   string
	BranchID    *string
	PurchaseID  *string
	CreatedAt   time.Time
}

// Validate enforces the single-direction invariant: at most one of
// Debit/Credit is non-zero, and neither is negative.
func (e *LedgerEntry) Validate() error {
	if e.Debit.IsNegative() || e.Credit.IsNegative() {
		return fmt.Errorf("%w: debit and credit must not be negative", ErrValidation)
	}
	if e.Debit.IsPositive() && e.Credit.IsPositive() {
		return fmt.Errorf("%w: entry cannot carry both debit and credit", ErrValidation)
	}
	if err := e.Division.Validate(); err != nil {
		return err
	}
	if e.CompanyID == "" {
		return ErrMissingCompany
	}
	return nil
}
