package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dealerops/dealerledger/internal/domain"
	"github.com/dealerops/dealerledger/internal/usecase"
)

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Division    string          `json:"division"`
	CompanyID   string          `json:"company_id"`
	BranchID    *string         `json:"branch_id,omitempty"`
	PurchaseID  *string         `json:"purchase_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		ID:          e.ID,
		Date:        e.Date,
		Description: e.Description,
		Debit:       e.Debit,
		Credit:      e.Credit,
		Division:    string(e.Division),
		CompanyID:   e.CompanyID,
		BranchID:    e.BranchID,
		PurchaseID:  e.PurchaseID,
		CreatedAt:   e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.LedgerEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// AdjustmentResponse represents a retroactive adjustment.
type AdjustmentResponse struct {
	ID               string          `json:"id"`
	TargetMonth      string          `json:"target_month"`
	FilingDate       time.Time       `json:"filing_date"`
	Category         string          `json:"category"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description,omitempty"`
	CompanyID        string          `json:"company_id"`
	Division         string          `json:"division"`
	RecordID         string          `json:"record_id"`
	Status           string          `json:"status"`
	ApprovedBy       string          `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time      `json:"approved_at,omitempty"`
	RejectionReason  string          `json:"rejection_reason,omitempty"`
	AutoApproved     bool            `json:"auto_approved"`
	RequiresApproval bool            `json:"requires_approval"`
	CreatedBy        string          `json:"created_by,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// AdjustmentFromDomain converts a domain adjustment to a response.
func AdjustmentFromDomain(a *domain.RetroactiveAdjustment) *AdjustmentResponse {
	return &AdjustmentResponse{
		ID:               a.ID,
		TargetMonth:      a.TargetMonth.String(),
		FilingDate:       a.FilingDate,
		Category:         a.Category,
		Amount:           a.Amount,
		Description:      a.Description,
		CompanyID:        a.CompanyID,
		Division:         string(a.Division),
		RecordID:         a.RecordID,
		Status:           string(a.Status),
		ApprovedBy:       a.ApprovedBy,
		ApprovedAt:       a.ApprovedAt,
		RejectionReason:  a.RejectionReason,
		AutoApproved:     a.AutoApproved,
		RequiresApproval: a.RequiresApproval,
		CreatedBy:        a.CreatedBy,
		CreatedAt:        a.CreatedAt,
	}
}

// AdjustmentsFromDomain converts domain adjustments to responses.
func AdjustmentsFromDomain(adjustments []*domain.RetroactiveAdjustment) []*AdjustmentResponse {
	result := make([]*AdjustmentResponse, len(adjustments))
	for i, a := range adjustments {
		result[i] = AdjustmentFromDomain(a)
	}
	return result
}

// CapitalHistoryResponse represents a capital movement.
type CapitalHistoryResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	Delta       decimal.Decimal `json:"delta"`
	Description string          `json:"description,omitempty"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CapitalHistoryFromDomain converts a domain history row to a response.
func CapitalHistoryFromDomain(h *domain.CapitalHistory) *CapitalHistoryResponse {
	return &CapitalHistoryResponse{
		ID:          h.ID,
		CompanyID:   h.CompanyID,
		Delta:       h.Delta,
		Description: h.Description,
		Date:        h.Date,
		CreatedAt:   h.CreatedAt,
	}
}

// CapitalHistoriesFromDomain converts domain history rows to responses.
func CapitalHistoriesFromDomain(history []*domain.CapitalHistory) []*CapitalHistoryResponse {
	result := make([]*CapitalHistoryResponse, len(history))
	for i, h := range history {
		result[i] = CapitalHistoryFromDomain(h)
	}
	return result
}

// WarningResponse surfaces a partial failure next to the primary result.
type WarningResponse struct {
	Op         string `json:"op"`
	SideEffect string `json:"side_effect"`
	Error      string `json:"error"`
}

// PostResultResponse is the outcome of posting a business event.
type PostResultResponse struct {
	Entries    []*EntryResponse        `json:"entries"`
	Adjustment *AdjustmentResponse     `json:"adjustment,omitempty"`
	Capital    *CapitalHistoryResponse `json:"capital,omitempty"`
	Warning    *WarningResponse        `json:"warning,omitempty"`
}

// PostResultFromUseCase converts a posting result to a response.
func PostResultFromUseCase(res *usecase.PostResult) *PostResultResponse {
	out := &PostResultResponse{
		Entries: EntriesFromDomain(res.Entries),
	}
	if res.Adjustment != nil {
		out.Adjustment = AdjustmentFromDomain(res.Adjustment)
	}
	if res.Capital != nil {
		out.Capital = CapitalHistoryFromDomain(res.Capital)
	}
	if res.Warning != nil {
		out.Warning = &WarningResponse{
			Op:         res.Warning.Op,
			SideEffect: res.Warning.SideEffect,
			Error:      res.Warning.Err.Error(),
		}
	}
	return out
}

// ProfitAdjustmentResponse represents a deduction or restoration row.
type ProfitAdjustmentResponse struct {
	ID            string          `json:"id"`
	OperationalID string          `json:"operational_id"`
	Date          time.Time       `json:"date"`
	Division      string          `json:"division"`
	Category      string          `json:"category,omitempty"`
	Description   string          `json:"description,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ProfitAdjustmentFromDomain converts a domain row to a response.
func ProfitAdjustmentFromDomain(p *domain.ProfitAdjustment) *ProfitAdjustmentResponse {
	return &ProfitAdjustmentResponse{
		ID:            p.ID,
		OperationalID: p.OperationalID,
		Date:          p.Date,
		Division:      string(p.Division),
		Category:      p.Category,
		Description:   p.Description,
		Amount:        p.Amount,
		Type:          string(p.Type),
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
	}
}

// ProfitSummaryResponse aggregates the profit adjustment ledger.
type ProfitSummaryResponse struct {
	TotalDeductions   decimal.Decimal `json:"total_deductions"`
	TotalRestorations decimal.Decimal `json:"total_restorations"`
	NetAdjustment     decimal.Decimal `json:"net_adjustment"`
}

// ProfitSummaryFromDomain converts a domain summary to a response.
func ProfitSummaryFromDomain(s *domain.ProfitSummary) *ProfitSummaryResponse {
	return &ProfitSummaryResponse{
		TotalDeductions:   s.TotalDeductions,
		TotalRestorations: s.TotalRestorations,
		NetAdjustment:     s.NetAdjustment,
	}
}

// BalanceResponse is a company's current capital.
type BalanceResponse struct {
	CompanyID string          `json:"company_id"`
	Modal     decimal.Decimal `json:"modal"`
}

// ClosureResponse represents a monthly closure.
type ClosureResponse struct {
	ID       string    `json:"id"`
	Period   string    `json:"period"`
	ClosedBy string    `json:"closed_by,omitempty"`
	ClosedAt time.Time `json:"closed_at"`
}

// ClosureFromDomain converts a domain closure to a response.
func ClosureFromDomain(c *domain.MonthlyClosure) *ClosureResponse {
	return &ClosureResponse{
		ID:       c.ID,
		Period:   c.Period().String(),
		ClosedBy: c.ClosedBy,
		ClosedAt: c.ClosedAt,
	}
}

// ClosuresFromDomain converts domain closures to responses.
func ClosuresFromDomain(closures []*domain.MonthlyClosure) []*ClosureResponse {
	result := make([]*ClosureResponse, len(closures))
	for i, c := range closures {
		result[i] = ClosureFromDomain(c)
	}
	return result
}

// ClosureStatusResponse reports whether a period accepts direct posting.
type ClosureStatusResponse struct {
	Period string `json:"period"`
	Closed bool   `json:"closed"`
}

// RecordResponse represents an operational record.
type RecordResponse struct {
	ID            string          `json:"id"`
	EntityType    string          `json:"entity_type"`
	Date          time.Time       `json:"date"`
	Division      string          `json:"division"`
	CompanyID     string          `json:"company_id"`
	CustomerName  string          `json:"customer_name,omitempty"`
	UnitName      string          `json:"unit_name,omitempty"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	Profit        decimal.Decimal `json:"profit"`
	IsRetroactive bool            `json:"is_retroactive"`
	TargetMonth   *string         `json:"target_month,omitempty"`
}

// LocateResponse carries located records plus their source tier.
type LocateResponse struct {
	Source  string            `json:"source"`
	Records []*RecordResponse `json:"records"`
}

// LocateFromUseCase converts a locator result to a response.
func LocateFromUseCase(res *usecase.LocateResult) *LocateResponse {
	records := make([]*RecordResponse, len(res.Records))
	for i, rec := range res.Records {
		out := &RecordResponse{
			ID:            rec.ID,
			EntityType:    rec.EntityType,
			Date:          rec.Date,
			Division:      string(rec.Division),
			CompanyID:     rec.CompanyID,
			CustomerName:  rec.CustomerName,
			UnitName:      rec.UnitName,
			SalePrice:     rec.SalePrice,
			CostPrice:     rec.CostPrice,
			Profit:        rec.Profit,
			IsRetroactive: rec.IsRetroactive,
		}
		if rec.TargetMonth != nil {
			s := rec.TargetMonth.String()
			out.TargetMonth = &s
		}
		records[i] = out
	}
	return &LocateResponse{
		Source:  string(res.Source),
		Records: records,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
