package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementState is the orchestrator's state machine. Completed and Failed
// are terminal; every exit from a post-reservation state runs compensation
// before settling in Failed.
type MovementState string

const (
	MovementStateRequested     MovementState = "requested"
	MovementStateLimitReserved MovementState = "limit_reserved"
	MovementStatePriced        MovementState = "priced"
	MovementStatePosted        MovementState = "posted"
	MovementStateCompleted     MovementState = "completed"
	MovementStateFailed        MovementState = "failed"
)

// Terminal reports whether the state accepts no further transitions.
func (s MovementState) Terminal() bool {
	return s == MovementStateCompleted || s == MovementStateFailed
}

// Movement is one logical money movement processed end-to-end by a single
// worker. Retries reuse the IdempotencyKey and find the prior terminal
// state instead of double-posting.
type Movement struct {
	ID             string
	IdempotencyKey string
	UserID         string
	FromAccount    string
	ToAccount      string
	Amount         decimal.Decimal
	Currency       string
	Category       string
	Direction      Direction
	KYCTier        string
	RiskScore      decimal.Decimal
	State          MovementState
	FailureReason  string
	BatchRef       string
	Charges        *ChargeBreakdown
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks the request-level invariants.
func (m *Movement) Validate() error {
	if m.FromAccount == m.ToAccount {
		return ErrSameAccount
	}
	if !m.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}
