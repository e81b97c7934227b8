package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dealerops/dealerledger/internal/domain"
	"github.com/dealerops/dealerledger/internal/usecase"
)

// PostTransactionRequest represents a business event to post.
type PostTransactionRequest struct {
	Kind      string    `json:"kind"`
	Date      time.Time `json:"date"`
	Division  string    `json:"division"`
	CompanyID string    `json:"company_id"`

	BranchID   *string `json:"branch_id,omitempty"`
	PurchaseID *string `json:"purchase_id,omitempty"`
	RecordID   string  `json:"record_id,omitempty"`

	CustomerName string `json:"customer_name,omitempty"`
	UnitName     string `json:"unit_name,omitempty"`

	Payment           decimal.Decimal `json:"payment"`
	DownPayment       decimal.Decimal `json:"down_payment"`
	ShippingSubsidy   decimal.Decimal `json:"shipping_subsidy"`
	ShippingSurcharge decimal.Decimal `json:"shipping_surcharge"`

	TransferAmount decimal.Decimal `json:"transfer_amount"`

	OldUnitID    string          `json:"old_unit_id,omitempty"`
	NewUnitID    string          `json:"new_unit_id,omitempty"`
	OldSalePrice decimal.Decimal `json:"old_sale_price"`
	NewSalePrice decimal.Decimal `json:"new_sale_price"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	NewCostPrice decimal.Decimal `json:"new_cost_price"`

	Amount decimal.Decimal `json:"amount"`

	Description string `json:"description,omitempty"`
	CreatedBy   string `json:"created_by,omitempty"`
	// RequiresApproval only matters when the target period is closed.
	RequiresApproval *bool `json:"requires_approval,omitempty"`
}

// ToUseCaseInput converts to use case input. defaultRequiresApproval
// applies when the request does not say either way.
func (r *PostTransactionRequest) ToUseCaseInput(defaultRequiresApproval bool) usecase.PostInput {
	requiresApproval := defaultRequiresApproval
	if r.RequiresApproval != nil {
		requiresApproval = *r.RequiresApproval
	}

	return usecase.PostInput{
		Transaction: domain.BusinessTransaction{
			Kind:              domain.TransactionKind(r.Kind),
			Date:              r.Date,
			Division:          domain.Division(r.Division),
			CompanyID:         r.CompanyID,
			BranchID:          r.BranchID,
			PurchaseID:        r.PurchaseID,
			RecordID:          r.RecordID,
			CustomerName:      r.CustomerName,
			UnitName:          r.UnitName,
			Payment:           r.Payment,
			DownPayment:       r.DownPayment,
			ShippingSubsidy:   r.ShippingSubsidy,
			ShippingSurcharge: r.ShippingSurcharge,
			TransferAmount:    r.TransferAmount,
			OldUnitID:         r.OldUnitID,
			NewUnitID:         r.NewUnitID,
			OldSalePrice:      r.OldSalePrice,
			NewSalePrice:      r.NewSalePrice,
			OldCostPrice:      r.CostPrice,
			NewCostPrice:      r.NewCostPrice,
			Amount:            r.Amount,
			Description:       r.Description,
		},
		CreatedBy:        r.CreatedBy,
		RequiresApproval: requiresApproval,
	}
}

// SubmitAdjustmentRequest files a retroactive adjustment directly.
type SubmitAdjustmentRequest struct {
	TargetMonth      string          `json:"target_month"` // YYYY-MM
	FilingDate       time.Time       `json:"filing_date"`
	Category         string          `json:"category"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description,omitempty"`
	CompanyID        string          `json:"company_id"`
	Division         string          `json:"division"`
	RecordID         string          `json:"record_id"`
	CreatedBy        string          `json:"created_by,omitempty"`
	RequiresApproval *bool           `json:"requires_approval,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *SubmitAdjustmentRequest) ToUseCaseInput(defaultRequiresApproval bool) (usecase.SubmitAdjustmentInput, error) {
	target, err := domain.ParsePeriod(r.TargetMonth)
	if err != nil {
		return usecase.SubmitAdjustmentInput{}, err
	}

	requiresApproval := defaultRequiresApproval
	if r.RequiresApproval != nil {
		requiresApproval = *r.RequiresApproval
	}

	return usecase.SubmitAdjustmentInput{
		TargetMonth:      target,
		FilingDate:       r.FilingDate,
		Category:         r.Category,
		Amount:           r.Amount,
		Description:      r.Description,
		CompanyID:        r.CompanyID,
		Division:         domain.Division(r.Division),
		RecordID:         r.RecordID,
		CreatedBy:        r.CreatedBy,
		RequiresApproval: requiresApproval,
	}, nil
}

// ApproveAdjustmentRequest approves a pending adjustment.
type ApproveAdjustmentRequest struct {
	ApprovedBy string `json:"approved_by"`
}

// RejectAdjustmentRequest rejects a pending adjustment.
type RejectAdjustmentRequest struct {
	Reason string `json:"reason"`
}

// DeductProfitRequest records a profit deduction.
type DeductProfitRequest struct {
	OperationalID string          `json:"operational_id"`
	Date          time.Time       `json:"date"`
	Division      string          `json:"division"`
	Category      string          `json:"category,omitempty"`
	Description   string          `json:"description,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *DeductProfitRequest) ToUseCaseInput() usecase.DeductProfitInput {
	return usecase.DeductProfitInput{
		OperationalID: r.OperationalID,
		Date:          r.Date,
		Division:      domain.Division(r.Division),
		Category:      r.Category,
		Description:   r.Description,
		Amount:        r.Amount,
	}
}

// RestoreProfitRequest reverses the active deduction on a record.
type RestoreProfitRequest struct {
	OperationalID string `json:"operational_id"`
}

// AdjustCapitalRequest applies a signed capital delta.
type AdjustCapitalRequest struct {
	Delta       decimal.Decimal `json:"delta"`
	Description string          `json:"description,omitempty"`
}

// ReduceCapitalRequest withdraws capital.
type ReduceCapitalRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// CloseMonthRequest closes an accounting period.
type CloseMonthRequest struct {
	Period   string `json:"period"` // YYYY-MM
	ClosedBy string `json:"closed_by,omitempty"`
}
