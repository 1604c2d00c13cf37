package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// daysPerYear is the fixed daily-rate divisor. Policy: always 365, including
// leap years. Do not change to 365.25.
var daysPerYear = decimal.NewFromInt(365)

// Tier is one balance sub-range with its own annual rate. UpperBound nil
// marks the open-ended top tier.
type Tier struct {
	LowerBound decimal.Decimal
	UpperBound *decimal.Decimal
	AnnualRate decimal.Decimal
}

// TierTable is an ordered list of tiers covering [0, inf).
type TierTable []Tier

// Validate checks that tiers are contiguous, non-overlapping, start at zero
// and end open-ended.
func (t TierTable) Validate() error {
	if len(t) == 0 {
		return ErrInvalidTierTable
	}

	expected := decimal.Zero
	for i, tier := range t {
		if !tier.LowerBound.Equal(expected) {
			return ErrInvalidTierTable
		}
		if tier.AnnualRate.IsNegative() {
			return ErrInvalidTierTable
		}

		last := i == len(t)-1
		if last {
			if tier.UpperBound != nil {
				return ErrInvalidTierTable
			}
			continue
		}

		if tier.UpperBound == nil || !tier.UpperBound.GreaterThan(tier.LowerBound) {
			return ErrInvalidTierTable
		}
		expected = *tier.UpperBound
	}

	return nil
}

// TierInterest records one tier's contribution to a day's accrual, kept for
// audit replay.
type TierInterest struct {
	LowerBound decimal.Decimal `json:"lower_bound"`
	UpperBound *decimal.Decimal `json:"upper_bound,omitempty"`
	AnnualRate decimal.Decimal `json:"annual_rate"`
	TierAmount decimal.Decimal `json:"tier_amount"`
	Interest   decimal.Decimal `json:"interest"`
}

// DailyInterest splits balance across successive tiers and sums one day's
// interest per tier at annualRate/365. Rounding happens once on the final
// sum, not per tier, to avoid compounding rounding error.
func (t TierTable) DailyInterest(balance Money) (Money, []TierInterest) {
	remaining := balance.Amount
	total := decimal.Zero
	breakdown := make([]TierInterest, 0, len(t))

	for _, tier := range t {
		if !remaining.IsPositive() {
			break
		}

		tierAmount := remaining
		if tier.UpperBound != nil {
			width := tier.UpperBound.Sub(tier.LowerBound)
			if tierAmount.GreaterThan(width) {
				tierAmount = width
			}
		}

		interest := tierAmount.Mul(tier.AnnualRate).Div(daysPerYear)
		total = total.Add(interest)
		remaining = remaining.Sub(tierAmount)

		breakdown = append(breakdown, TierInterest{
			LowerBound: tier.LowerBound,
			UpperBound: tier.UpperBound,
			AnnualRate: tier.AnnualRate,
			TierAmount: tierAmount,
			Interest:   interest,
		})
	}

	return Money{Amount: total.Round(ScaleInternal), Currency: balance.Currency}, breakdown
}

// ProfitSplit divides accrued interest between the customer and the bank for
// profit-sharing products. CustomerRatio 1 is plain conventional interest;
// ratio 0 credits the customer nothing and the bank retains the full accrual.
// Products are stored with ratio 1 by default, so a zero here is a deliberate
// configuration, never an unset value.
type ProfitSplit struct {
	CustomerRatio decimal.Decimal
}

// CustomerShare applies the split and rounds to the internal scale.
func (p ProfitSplit) CustomerShare(interest Money) Money {
	if p.CustomerRatio.Equal(decimal.NewFromInt(1)) {
		return interest
	}
	return interest.MulRate(p.CustomerRatio)
}

// InterestProduct couples a savings account to its tier table and split.
type InterestProduct struct {
	AccountCode        string
	ExpenseAccountCode string
	Tiers              TierTable
	Split              ProfitSplit
}

// InterestAccrual is the durable record of one day's accrual for one
// account, unique on (AccountCode, Date).
type InterestAccrual struct {
	ID              string
	AccountCode     string
	Date            time.Time // calendar day, midnight UTC
	BalanceSnapshot decimal.Decimal
	Breakdown       []TierInterest
	InterestAmount  decimal.Decimal
	Currency        string
	BatchRef        string
	CreatedAt       time.Time
}

// AccrualDay normalizes a timestamp to the calendar day accrual is keyed on.
func AccrualDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
