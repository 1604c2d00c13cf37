package usecase

import (
	"context"
	"fmt"

	"github.com/finkit/corebank/internal/domain"
)

// PricingUseCase evaluates charge rules against a movement amount. Rules are
// read as an immutable effective-dated snapshot, so concurrent administrative
// updates never produce a half-priced movement.
type PricingUseCase struct {
	ruleRepo RuleRepository
}

// NewPricingUseCase creates a new PricingUseCase.
func NewPricingUseCase(ruleRepo RuleRepository) *PricingUseCase {
	return &PricingUseCase{ruleRepo: ruleRepo}
}

// Price computes the charge breakdown for a movement. Each category is
// priced independently; a category with no matching rule contributes zero,
// which is a legitimate "no charge" answer, never an error.
func (uc *PricingUseCase) Price(ctx context.Context, amount domain.Money, pctx domain.PricingContext) (domain.ChargeBreakdown, error) {
	breakdown := domain.ChargeBreakdown{
		Fee:  domain.Zero(amount.Currency),
		VAT:  domain.Zero(amount.Currency),
		Levy: domain.Zero(amount.Currency),
	}

	ruleSet, err := uc.ruleRepo.GetActiveRuleSet(ctx, pctx.At)
	if err != nil {
		return breakdown, err
	}

	feeExempt := false
	for _, category := range domain.ChargeCategories {
		rule, err := selectRule(ruleSet.ByCategory(category), amount, pctx)
		if err != nil {
			return domain.ChargeBreakdown{}, err
		}
		if rule == nil || rule.Exempt {
			// Exempt contexts skip the category entirely rather than
			// computing and zeroing, so audit trails stay clean.
			if category == domain.ChargeCategoryFee && rule != nil && rule.Exempt {
				feeExempt = true
			}
			continue
		}
		if rule.BaseOnFee && feeExempt {
			// A charge derived from the fee follows the fee's exemption,
			// even when its rule carries a fixed or floor component.
			continue
		}

		base := amount
		if rule.BaseOnFee {
			base = breakdown.Fee
		}

		charge := rule.Compute(base)

		switch category {
		case domain.ChargeCategoryFee:
			breakdown.Fee = charge
		case domain.ChargeCategoryVAT:
			breakdown.VAT = charge
		case domain.ChargeCategoryLevy:
			breakdown.Levy = charge
		}
	}

	return breakdown, nil
}

// selectRule picks the highest-priority rule matching the amount and
// context. Two matches at equal priority mean the rule table overlaps; that
// is a configuration fault and pricing fails closed.
func selectRule(rules []domain.ChargeRule, amount domain.Money, pctx domain.PricingContext) (*domain.ChargeRule, error) {
	var winner *domain.ChargeRule
	ambiguous := false

	for i := range rules {
		rule := &rules[i]
		if !rule.Matches(amount.Amount, pctx) {
			continue
		}

		switch {
		case winner == nil || rule.Priority > winner.Priority:
			winner = rule
			ambiguous = false
		case rule.Priority == winner.Priority:
			ambiguous = true
		}
	}

	if ambiguous {
		return nil, fmt.Errorf("%w: category %s at priority %d", domain.ErrAmbiguousRule, winner.Category, winner.Priority)
	}

	return winner, nil
}
