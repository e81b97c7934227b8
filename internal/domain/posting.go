package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PostEntries maps a business transaction to its ledger entries. It is a
// pure function: no I/O, deterministic, and the only place posting rules
// live. Side effects of multi-effect kinds (unit swap inventory flips,
// capital deltas, price history) are the caller's job.
//
// Rule quirks carried over from the rule table, on purpose:
//   - CashInstallment suppresses a zero-amount entry, Credit does not.
//   - PriceEdit never emits an entry; price corrections bypass the ledger.
func PostEntries(tx BusinessTransaction) ([]LedgerEntry, error) {
	if err := tx.Division.Validate(); err != nil {
		return nil, err
	}
	if tx.CompanyID == "" {
		return nil, ErrMissingCompany
	}

	switch tx.Kind {
	case TransactionCashFull:
		credit := tx.Payment.Add(tx.ShippingSubsidy).Add(tx.ShippingSurcharge)
		return []LedgerEntry{creditEntry(tx, credit, desc(tx, "Pembayaran cash"))}, nil

	case TransactionCashInstallment:
		credit := tx.DownPayment.Add(tx.ShippingSubsidy).Add(tx.ShippingSurcharge)
		if !credit.IsPositive() {
			return nil, nil
		}
		return []LedgerEntry{creditEntry(tx, credit, desc(tx, "DP cash bertahap"))}, nil

	case TransactionCredit:
		// Unlike CashInstallment, a zero-amount entry is still written.
		credit := tx.DownPayment.Add(tx.ShippingSubsidy).Add(tx.ShippingSurcharge)
		return []LedgerEntry{creditEntry(tx, credit, desc(tx, "DP penjualan kredit"))}, nil

	case TransactionTradeIn:
		return []LedgerEntry{creditEntry(tx, tx.DownPayment, desc(tx, "DP tukar tambah"))}, nil

	case TransactionTradeInTransfer:
		in := creditEntry(tx, tx.DownPayment,
			fmt.Sprintf("DP tukar tambah %s unit %s", tx.CustomerName, tx.UnitName))
		out := debitEntry(tx, tx.TransferAmount,
			fmt.Sprintf("Transfer tukar tambah unit %s", tx.UnitName))
		return []LedgerEntry{in, out}, nil

	case TransactionUnitSwap:
		delta := tx.NewSalePrice.Sub(tx.OldSalePrice)
		switch {
		case delta.IsPositive():
			return []LedgerEntry{creditEntry(tx, delta, desc(tx, "Selisih tukar unit"))}, nil
		case delta.IsNegative():
			return []LedgerEntry{debitEntry(tx, delta.Abs(), desc(tx, "Selisih tukar unit"))}, nil
		}
		return nil, nil

	case TransactionPriceEdit, TransactionCapitalReduction:
		// No ledger entry by design.
		return nil, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownTransactionKind, string(tx.Kind))
}

// SwapCapitalDelta is the signed capital change produced by a unit swap.
func SwapCapitalDelta(tx BusinessTransaction) decimal.Decimal {
	return tx.NewSalePrice.Sub(tx.OldSalePrice)
}

// SwapProfit is the recomputed profit of the incoming unit on a swap.
func SwapProfit(tx BusinessTransaction) decimal.Decimal {
	return tx.NewSalePrice.Sub(tx.NewCostPrice)
}

func desc(tx BusinessTransaction, prefix string) string {
	if tx.CustomerName == "" {
		return prefix
	}
	return prefix + " " + tx.CustomerName
}

func creditEntry(tx BusinessTransaction, amount decimal.Decimal, description string) LedgerEntry {
	return LedgerEntry{
		Date:        tx.Date,
		Description: description,
		Debit:       decimal.Zero,
		Credit:      amount,
		Division:    tx.Division,
		CompanyID:   tx.CompanyID,
		BranchID:    tx.BranchID,
		PurchaseID:  tx.PurchaseID,
	}
}

func debitEntry(tx BusinessTransaction, amount decimal.Decimal, description string) LedgerEntry {
	return LedgerEntry{
		Date:        tx.Date,
		Description: description,
		Debit:       amount,
		Credit:      decimal.Zero,
		Division:    tx.Division,
		CompanyID:   tx.CompanyID,
		BranchID:    tx.BranchID,
		PurchaseID:  tx.PurchaseID,
	}
}
