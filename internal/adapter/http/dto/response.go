package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finkit/corebank/internal/domain"
	"github.com/finkit/corebank/internal/usecase"
)

// QuoteResponse represents a charge quote in API responses. Amounts are
// reported at display scale.
type QuoteResponse struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Fee      string `json:"fee"`
	VAT      string `json:"vat"`
	Levy     string `json:"levy"`
	Total    string `json:"total"`
}

// QuoteFromDomain converts a charge breakdown to a response.
func QuoteFromDomain(amount domain.Money, b domain.ChargeBreakdown) *QuoteResponse {
	return &QuoteResponse{
		Amount:   amount.Display(),
		Currency: amount.Currency,
		Fee:      b.Fee.Display(),
		VAT:      b.VAT.Display(),
		Levy:     b.Levy.Display(),
		Total:    b.Total().Display(),
	}
}

// MovementResponse represents a movement in API responses.
type MovementResponse struct {
	ID            string              `json:"id"`
	UserID        string              `json:"user_id"`
	FromAccount   string              `json:"from_account"`
	ToAccount     string              `json:"to_account"`
	Amount        decimal.Decimal     `json:"amount"`
	Currency      string              `json:"currency"`
	Category      string              `json:"category"`
	State         string              `json:"state"`
	FailureReason string              `json:"failure_reason,omitempty"`
	BatchRef      string              `json:"batch_ref,omitempty"`
	Charges       *ChargesResponse    `json:"charges,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// ChargesResponse represents computed charges on a movement.
type ChargesResponse struct {
	Fee   decimal.Decimal `json:"fee"`
	VAT   decimal.Decimal `json:"vat"`
	Levy  decimal.Decimal `json:"levy"`
	Total decimal.Decimal `json:"total"`
}

// MovementFromDomain converts a domain movement to a response.
func MovementFromDomain(m *domain.Movement) *MovementResponse {
	resp := &MovementResponse{
		ID:            m.ID,
		UserID:        m.UserID,
		FromAccount:   m.FromAccount,
		ToAccount:     m.ToAccount,
		Amount:        m.Amount,
		Currency:      m.Currency,
		Category:      m.Category,
		State:         string(m.State),
		FailureReason: m.FailureReason,
		BatchRef:      m.BatchRef,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}

	if m.Charges != nil {
		resp.Charges = &ChargesResponse{
			Fee:   m.Charges.Fee.Amount,
			VAT:   m.Charges.VAT.Amount,
			Levy:  m.Charges.Levy.Amount,
			Total: m.Charges.Total().Amount,
		}
	}

	return resp
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	Code           string          `json:"code"`
	BankCode       string          `json:"bank_code"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	NormalSide     string          `json:"normal_side"`
	Currency       string          `json:"currency"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Version        int64           `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		Code:           a.Code,
		BankCode:       a.BankCode,
		Name:           a.Name,
		Type:           string(a.Type),
		NormalSide:     string(a.NormalSide),
		Currency:       a.Currency,
		CurrentBalance: a.CurrentBalance,
		Version:        a.Version,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// JournalLineResponse represents a journal line in API responses.
type JournalLineResponse struct {
	ID          string          `json:"id"`
	BatchRef    string          `json:"batch_ref"`
	AccountCode string          `json:"account_code"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Currency    string          `json:"currency"`
	Status      string          `json:"status"`
	ReversedOf  *string         `json:"reversed_of,omitempty"`
	PostedAt    time.Time       `json:"posted_at"`
}

// JournalLineFromDomain converts a domain journal line to a response.
func JournalLineFromDomain(l *domain.JournalLine) *JournalLineResponse {
	return &JournalLineResponse{
		ID:          l.ID,
		BatchRef:    l.BatchRef,
		AccountCode: l.AccountCode,
		Debit:       l.Debit,
		Credit:      l.Credit,
		Currency:    l.Currency,
		Status:      string(l.Status),
		ReversedOf:  l.ReversedOf,
		PostedAt:    l.PostedAt,
	}
}

// JournalLinesFromDomain converts domain journal lines to responses.
func JournalLinesFromDomain(lines []*domain.JournalLine) []*JournalLineResponse {
	result := make([]*JournalLineResponse, len(lines))
	for i, l := range lines {
		result[i] = JournalLineFromDomain(l)
	}
	return result
}

// LimitResponse represents a transfer limit in API responses.
type LimitResponse struct {
	UserID      string          `json:"user_id"`
	Type        string          `json:"type"`
	Category    string          `json:"category,omitempty"`
	Cap         decimal.Decimal `json:"cap"`
	Used        decimal.Decimal `json:"used"`
	Remaining   decimal.Decimal `json:"remaining"`
	Currency    string          `json:"currency"`
	NextResetAt *time.Time      `json:"next_reset_at,omitempty"`
}

// LimitFromDomain converts a domain limit to a response.
func LimitFromDomain(l *domain.TransferLimit) *LimitResponse {
	return &LimitResponse{
		UserID:      l.UserID,
		Type:        string(l.Type),
		Category:    l.Category,
		Cap:         l.Cap,
		Used:        l.Used,
		Remaining:   l.Remaining(),
		Currency:    l.Currency,
		NextResetAt: l.NextResetAt,
	}
}

// LimitsFromDomain converts domain limits to responses.
func LimitsFromDomain(limits []*domain.TransferLimit) []*LimitResponse {
	result := make([]*LimitResponse, len(limits))
	for i, l := range limits {
		result[i] = LimitFromDomain(l)
	}
	return result
}

// AccrualResponse represents a daily interest accrual in API responses.
type AccrualResponse struct {
	ID              string                `json:"id"`
	AccountCode     string                `json:"account_code"`
	Date            string                `json:"date"`
	BalanceSnapshot decimal.Decimal       `json:"balance_snapshot"`
	Breakdown       []domain.TierInterest `json:"breakdown"`
	InterestAmount  decimal.Decimal       `json:"interest_amount"`
	Currency        string                `json:"currency"`
	BatchRef        string                `json:"batch_ref"`
	CreatedAt       time.Time             `json:"created_at"`
}

// AccrualFromDomain converts a domain accrual to a response.
func AccrualFromDomain(a *domain.InterestAccrual) *AccrualResponse {
	return &AccrualResponse{
		ID:              a.ID,
		AccountCode:     a.AccountCode,
		Date:            a.Date.Format("2006-01-02"),
		BalanceSnapshot: a.BalanceSnapshot,
		Breakdown:       a.Breakdown,
		InterestAmount:  a.InterestAmount,
		Currency:        a.Currency,
		BatchRef:        a.BatchRef,
		CreatedAt:       a.CreatedAt,
	}
}

// AccrualsFromDomain converts domain accruals to responses.
func AccrualsFromDomain(accruals []*domain.InterestAccrual) []*AccrualResponse {
	result := make([]*AccrualResponse, len(accruals))
	for i, a := range accruals {
		result[i] = AccrualFromDomain(a)
	}
	return result
}

// ReconciliationResultResponse represents one account's reconciliation.
type ReconciliationResultResponse struct {
	AccountCode       string          `json:"account_code"`
	RecordedBalance   decimal.Decimal `json:"recorded_balance"`
	CalculatedBalance decimal.Decimal `json:"calculated_balance"`
	Difference        decimal.Decimal `json:"difference"`
	IsReconciled      bool            `json:"is_reconciled"`
	LastChecked       time.Time       `json:"last_checked"`
}

// ReconciliationResultFromUseCase converts a reconciliation result.
func ReconciliationResultFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResultResponse {
	return &ReconciliationResultResponse{
		AccountCode:       r.AccountCode,
		RecordedBalance:   r.RecordedBalance,
		CalculatedBalance: r.CalculatedBalance,
		Difference:        r.Difference,
		IsReconciled:      r.IsReconciled,
		LastChecked:       r.LastChecked,
	}
}

// ReconciliationReportResponse represents a full reconciliation sweep.
type ReconciliationReportResponse struct {
	TotalAccounts      int                             `json:"total_accounts"`
	ReconciledAccounts int                             `json:"reconciled_accounts"`
	Discrepancies      []*ReconciliationResultResponse `json:"discrepancies"`
	LedgerConsistent   bool                            `json:"ledger_consistent"`
	CheckedAt          time.Time                       `json:"checked_at"`
}

// ReconciliationReportFromUseCase converts a reconciliation report.
func ReconciliationReportFromUseCase(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	discrepancies := make([]*ReconciliationResultResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = ReconciliationResultFromUseCase(d)
	}
	return &ReconciliationReportResponse{
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		Discrepancies:      discrepancies,
		LedgerConsistent:   r.LedgerConsistent,
		CheckedAt:          r.CheckedAt,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
