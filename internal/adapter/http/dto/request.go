package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finkit/corebank/internal/domain"
	"github.com/finkit/corebank/internal/usecase"
)

// QuoteRequest represents a request for a charge quote.
type QuoteRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Direction string          `json:"direction"`
	KYCTier   string          `json:"kyc_tier"`
	At        *time.Time      `json:"at,omitempty"`
}

// ToPricingContext converts to a domain pricing context.
func (r *QuoteRequest) ToPricingContext() domain.PricingContext {
	at := time.Now().UTC()
	if r.At != nil {
		at = r.At.UTC()
	}
	return domain.PricingContext{
		Direction: domain.Direction(r.Direction),
		KYCTier:   r.KYCTier,
		At:        at,
	}
}

// CreateMovementRequest represents a request to post a money movement.
type CreateMovementRequest struct {
	UserID      string          `json:"user_id"`
	FromAccount string          `json:"from_account"`
	ToAccount   string          `json:"to_account"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Category    string          `json:"category"`
	Direction   string          `json:"direction"`
	KYCTier     string          `json:"kyc_tier"`
	RiskScore   decimal.Decimal `json:"risk_score"`
}

// ToUseCaseInput converts to use case input. The idempotency key arrives
// in a header, not the body.
func (r *CreateMovementRequest) ToUseCaseInput(idempotencyKey string) usecase.CreateMovementInput {
	return usecase.CreateMovementInput{
		IdempotencyKey: idempotencyKey,
		UserID:         r.UserID,
		FromAccount:    r.FromAccount,
		ToAccount:      r.ToAccount,
		Amount:         domain.Money{Amount: r.Amount, Currency: r.Currency},
		Category:       r.Category,
		Direction:      domain.Direction(r.Direction),
		KYCTier:        r.KYCTier,
		RiskScore:      r.RiskScore,
	}
}

// PostBatchRequest represents a request to post a balanced journal batch.
type PostBatchRequest struct {
	BatchRef string          `json:"batch_ref"`
	Lines    []BatchLineItem `json:"lines"`
}

// BatchLineItem represents one line of a journal batch.
type BatchLineItem struct {
	AccountCode string          `json:"account_code"`
	Side        string          `json:"side"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
}

// ToBatchLines converts to domain batch lines.
func (r *PostBatchRequest) ToBatchLines() []domain.BatchLine {
	lines := make([]domain.BatchLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = domain.BatchLine{
			AccountCode: l.AccountCode,
			Side:        domain.Side(l.Side),
			Amount:      domain.Money{Amount: l.Amount, Currency: l.Currency},
		}
	}
	return lines
}

// AccrueRequest represents a request to accrue one day of interest.
type AccrueRequest struct {
	Date string `json:"date"` // YYYY-MM-DD, defaults to today
}

// ParseDate parses the accrual date, defaulting to today (UTC).
func (r *AccrueRequest) ParseDate() (time.Time, error) {
	if r.Date == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse("2006-01-02", r.Date)
}
