package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PostingStatus is the lifecycle status of a journal line. Lines are
// immutable once posted; corrections post an equal-and-opposite reversal.
type PostingStatus string

const (
	PostingStatusPosted   PostingStatus = "posted"
	PostingStatusPending  PostingStatus = "pending"
	PostingStatusReversed PostingStatus = "reversed"
)

// JournalLine is one side of a posted batch. Exactly one of Debit and Credit
// is non-zero.
type JournalLine struct {
	ID          string
	BatchRef    string
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Currency    string
	Status      PostingStatus
	ReversedOf  *string
	PostedAt    time.Time
}

// Side returns which side the line sits on.
func (l *JournalLine) Side() Side {
	if !l.Debit.IsZero() {
		return SideDebit
	}
	return SideCredit
}

// Amount returns the non-zero side's amount.
func (l *JournalLine) Amount() decimal.Decimal {
	if !l.Debit.IsZero() {
		return l.Debit
	}
	return l.Credit
}

// Validate enforces the debit-XOR-credit invariant on a single line.
func (l *JournalLine) Validate() error {
	if !l.Debit.IsZero() && !l.Credit.IsZero() {
		return ErrMixedSides
	}
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return ErrInvalidAmount
	}
	if l.Debit.IsZero() && l.Credit.IsZero() {
		return ErrInvalidAmount
	}
	return nil
}

// BatchLine is one requested posting within a batch, before it is written.
type BatchLine struct {
	AccountCode string
	Side        Side
	Amount      Money
}

// ValidateBatch checks the batch-level invariants that can be verified
// without store access: non-empty, single currency, positive amounts, and
// sum(debits) == sum(credits).
func ValidateBatch(lines []BatchLine) error {
	if len(lines) == 0 {
		return ErrEmptyBatch
	}

	currency := lines[0].Amount.Currency
	debits := decimal.Zero
	credits := decimal.Zero

	for _, line := range lines {
		if line.Amount.Currency != currency {
			return fmt.Errorf("%w: batch mixes %s and %s", ErrCurrencyMismatch, currency, line.Amount.Currency)
		}
		if !line.Amount.IsPositive() {
			return ErrInvalidAmount
		}

		switch line.Side {
		case SideDebit:
			debits = debits.Add(line.Amount.Amount)
		case SideCredit:
			credits = credits.Add(line.Amount.Amount)
		default:
			return ErrMixedSides
		}
	}

	if !debits.Equal(credits) {
		return fmt.Errorf("%w: debits=%s credits=%s", ErrUnbalanced, debits, credits)
	}

	return nil
}
