package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChargeCategory is one of the independently priced charge types on a
// movement. Categories stack: a movement can attract a fee, VAT and a levy
// at the same time.
type ChargeCategory string

const (
	ChargeCategoryFee  ChargeCategory = "fee"
	ChargeCategoryVAT  ChargeCategory = "vat"
	ChargeCategoryLevy ChargeCategory = "levy"
)

// ChargeCategories lists every category in pricing order. VAT is priced last
// when configured on top of the fee.
var ChargeCategories = []ChargeCategory{ChargeCategoryFee, ChargeCategoryLevy, ChargeCategoryVAT}

// Direction is the movement direction a rule applies to.
type Direction string

const (
	DirectionInternal Direction = "internal"
	DirectionOutward  Direction = "outward"
	DirectionInward   Direction = "inward"
	DirectionAny      Direction = "any"
)

// ChargeRule prices one category over an amount range [MinAmount, MaxAmount).
// A nil MaxAmount means the range is open-ended. Exempt rules short-circuit
// their category to zero for matching contexts.
type ChargeRule struct {
	ID            string
	Category      ChargeCategory
	Direction     Direction
	KYCTier       string // empty matches any tier
	MinAmount     decimal.Decimal
	MaxAmount     *decimal.Decimal
	Percentage    decimal.Decimal
	Fixed         decimal.Decimal
	FloorAmount   *decimal.Decimal
	CapAmount     *decimal.Decimal
	BaseOnFee     bool // VAT configured as a percentage of the fee, not the amount
	Exempt        bool
	Priority      int
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
}

// PricingContext carries the movement attributes rules are scoped on. The
// risk score is consumed by the orchestrator, not by pricing.
type PricingContext struct {
	Direction Direction
	KYCTier   string
	At        time.Time
}

// Matches reports whether the rule's scope and range cover the given amount
// and context. Boundary handling: an amount exactly at MinAmount belongs to
// this rule, an amount exactly at MaxAmount belongs to the next range up.
func (r *ChargeRule) Matches(amount decimal.Decimal, pctx PricingContext) bool {
	if r.Direction != DirectionAny && r.Direction != pctx.Direction {
		return false
	}
	if r.KYCTier != "" && r.KYCTier != pctx.KYCTier {
		return false
	}
	if !r.ActiveAt(pctx.At) {
		return false
	}
	if amount.LessThan(r.MinAmount) {
		return false
	}
	if r.MaxAmount != nil && amount.GreaterThanOrEqual(*r.MaxAmount) {
		return false
	}
	return true
}

// ActiveAt reports whether the rule's effective window covers t.
func (r *ChargeRule) ActiveAt(t time.Time) bool {
	if t.Before(r.EffectiveFrom) {
		return false
	}
	if r.EffectiveTo != nil && !t.Before(*r.EffectiveTo) {
		return false
	}
	return true
}

// Compute applies the rule to a base amount: base*percentage + fixed, then
// floor and cap.
func (r *ChargeRule) Compute(base Money) Money {
	charge := base.MulRate(r.Percentage)
	charge.Amount = charge.Amount.Add(r.Fixed).Round(ScaleInternal)

	if r.FloorAmount != nil && charge.Amount.LessThan(*r.FloorAmount) {
		charge.Amount = *r.FloorAmount
	}
	if r.CapAmount != nil && charge.Amount.GreaterThan(*r.CapAmount) {
		charge.Amount = *r.CapAmount
	}

	return charge
}

// RuleSet is an immutable snapshot of the charge rules effective at a point
// in time. Administrative updates create a new effective-dated version, so a
// pricing call never observes a half-updated table.
type RuleSet struct {
	EffectiveAt time.Time
	Rules       []ChargeRule
}

// ByCategory returns the snapshot's rules for one category.
func (rs *RuleSet) ByCategory(category ChargeCategory) []ChargeRule {
	var out []ChargeRule
	for _, r := range rs.Rules {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

// ChargeBreakdown is the priced result of a movement.
type ChargeBreakdown struct {
	Fee  Money
	VAT  Money
	Levy Money
}

// Total sums the three categories. All categories share the movement
// currency by construction.
func (b ChargeBreakdown) Total() Money {
	total := b.Fee.Amount.Add(b.VAT.Amount).Add(b.Levy.Amount)
	return Money{Amount: total, Currency: b.Fee.Currency}
}
