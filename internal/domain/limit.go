package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LimitType is the period a transfer limit covers. Per-transaction limits
// have no period and never reset.
type LimitType string

const (
	LimitTypePerTransaction LimitType = "per_transaction"
	LimitTypeDaily          LimitType = "daily"
	LimitTypeWeekly         LimitType = "weekly"
	LimitTypeMonthly        LimitType = "monthly"
	LimitTypeCumulative     LimitType = "cumulative"
)

// TransferLimit tracks one user's consumption of a movement cap. Used never
// exceeds Cap while the limit is active; resets are driven by a scheduled
// sweep, never as a side effect of a reservation check.
type TransferLimit struct {
	UserID      string
	Type        LimitType
	Category    string // movement category, empty applies to all
	Cap         decimal.Decimal
	Used        decimal.Decimal
	Currency    string
	NextResetAt *time.Time
	UpdatedAt   time.Time
}

// Remaining is the unconsumed capacity, never negative.
func (l *TransferLimit) Remaining() decimal.Decimal {
	r := l.Cap.Sub(l.Used)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// Allows reports whether reserving amount keeps Used within Cap.
// Per-transaction limits compare the amount itself against the cap.
func (l *TransferLimit) Allows(amount decimal.Decimal) bool {
	if l.Type == LimitTypePerTransaction {
		return amount.LessThanOrEqual(l.Cap)
	}
	return l.Used.Add(amount).LessThanOrEqual(l.Cap)
}

// AppliesTo reports whether the limit covers a movement category.
func (l *TransferLimit) AppliesTo(category string) bool {
	return l.Category == "" || l.Category == category
}

// Consumes reports whether reservations count against this limit's Used.
func (l *TransferLimit) Consumes() bool {
	return l.Type != LimitTypePerTransaction
}

// NextReset computes the reset boundary following from, in UTC: start of the
// next day, the next Monday, or the first of the next month. Per-transaction
// and cumulative limits never reset.
func (l *TransferLimit) NextReset(from time.Time) (*time.Time, error) {
	from = from.UTC()

	var next time.Time
	switch l.Type {
	case LimitTypeDaily:
		next = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	case LimitTypeWeekly:
		day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
		offset := (8 - int(day.Weekday())) % 7
		if offset == 0 {
			offset = 7
		}
		next = day.AddDate(0, 0, offset)
	case LimitTypeMonthly:
		next = time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	case LimitTypePerTransaction, LimitTypeCumulative:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown limit type %q", l.Type)
	}

	return &next, nil
}
