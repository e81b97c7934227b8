package domain

import (
	"errors"
	"fmt"
)

// Error categories. Concrete errors wrap one of these so the transport
// layer can map them without knowing every sentinel.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

var (
	// Posting errors
	ErrInvalidAmount          = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrInvalidDivision        = fmt.Errorf("%w: unknown division", ErrValidation)
	ErrInvalidPeriod          = fmt.Errorf("%w: invalid accounting period", ErrValidation)
	ErrUnknownTransactionKind = fmt.Errorf("%w: unknown transaction kind", ErrValidation)
	ErrMissingCompany         = fmt.Errorf("%w: company is required", ErrValidation)
	ErrMissingRecord          = fmt.Errorf("%w: operational record reference is required", ErrValidation)

	// Closure errors
	ErrPeriodClosed  = fmt.Errorf("%w: accounting period is closed", ErrConflict)
	ErrClosureExists = fmt.Errorf("%w: period already closed", ErrConflict)

	// Adjustment errors
	ErrAdjustmentNotFound   = fmt.Errorf("%w: retroactive adjustment", ErrNotFound)
	ErrAdjustmentNotPending = fmt.Errorf("%w: adjustment is not pending", ErrConflict)
	ErrEmptyReason          = fmt.Errorf("%w: rejection reason is required", ErrValidation)
	ErrAmbiguousEntryMatch  = fmt.Errorf("%w: multiple ledger entries match the adjustment", ErrConflict)

	// Profit adjustment errors
	ErrDeductionActive   = fmt.Errorf("%w: an active deduction already exists for this record", ErrConflict)
	ErrNoActiveDeduction = fmt.Errorf("%w: active deduction", ErrNotFound)

	// Capital errors
	ErrCompanyNotFound     = fmt.Errorf("%w: company", ErrNotFound)
	ErrInsufficientCapital = fmt.Errorf("%w: reduction exceeds current capital", ErrValidation)

	// Record errors
	ErrRecordNotFound = fmt.Errorf("%w: operational record", ErrNotFound)
	ErrEntryNotFound  = fmt.Errorf("%w: ledger entry", ErrNotFound)
)

// PartialFailure reports a secondary side effect that failed after the
// primary write already succeeded. It is surfaced as a warning next to the
// primary result, never as a rollback.
type PartialFailure struct {
	Op         string
	SideEffect string
	Err        error
}

func (p *PartialFailure) Error() string {
	return fmt.Sprintf("partial failure in %s: %s: %v", p.Op, p.SideEffect, p.Err)
}

func (p *PartialFailure) Unwrap() error {
	return p.Err
}
