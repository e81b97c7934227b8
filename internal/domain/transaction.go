package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind discriminates the business transaction variants.
type TransactionKind string

const (
	TransactionCashFull         TransactionKind = "cash_full"
	TransactionCashInstallment  TransactionKind = "cash_installment"
	TransactionCredit           TransactionKind = "credit"
	TransactionTradeIn          TransactionKind = "trade_in"
	TransactionTradeInTransfer  TransactionKind = "trade_in_transfer"
	TransactionUnitSwap         TransactionKind = "unit_swap"
	TransactionPriceEdit        TransactionKind = "price_edit"
	TransactionCapitalReduction TransactionKind = "capital_reduction"
)

// BusinessTransaction is a tagged variant over the dealership events the
// engine knows how to post. Only the fields relevant to Kind are read.
type BusinessTransaction struct {
	Kind      TransactionKind
	Date      time.Time
	Division  Division
	CompanyID string

	BranchID   *string
	PurchaseID *string
	RecordID   string

	CustomerName string
	UnitName     string

	// Sale amounts
	Payment           decimal.Decimal
	DownPayment       decimal.Decimal
	ShippingSubsidy   decimal.Decimal
	ShippingSurcharge decimal.Decimal

	// Trade-in transfer
	TransferAmount decimal.Decimal

	// Unit swap / price edit
	OldUnitID    string
	NewUnitID    string
	OldSalePrice decimal.Decimal
	NewSalePrice decimal.Decimal
	OldCostPrice decimal.Decimal
	NewCostPrice decimal.Decimal

	// Capital reduction
	Amount decimal.Decimal

	Description string
}

// PrimaryAmount returns the amount a retroactive adjustment should carry
// when the transaction targets a closed period.
func (t *BusinessTransaction) PrimaryAmount() decimal.Decimal {
	switch t.Kind {
	case TransactionCashFull:
		return t.Payment.Add(t.ShippingSubsidy).Add(t.ShippingSurcharge)
	case TransactionCashInstallment, TransactionCredit:
		return t.DownPayment.Add(t.ShippingSubsidy).Add(t.ShippingSurcharge)
	case TransactionTradeIn, TransactionTradeInTransfer:
		return t.DownPayment
	case TransactionUnitSwap:
		return t.NewSalePrice.Sub(t.OldSalePrice).Abs()
	case TransactionCapitalReduction:
		return t.Amount
	}
	return decimal.Zero
}
