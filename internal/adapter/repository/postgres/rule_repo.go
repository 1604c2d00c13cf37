package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finkit/corebank/internal/domain"
)

// RuleRepository implements usecase.RuleRepository. Rules are administered
// as effective-dated rows; a snapshot read sees exactly the versions active
// at the requested instant.
type RuleRepository struct {
	pool *pgxpool.Pool
}

// NewRuleRepository creates a new RuleRepository.
func NewRuleRepository(pool *pgxpool.Pool) *RuleRepository {
	return &RuleRepository{pool: pool}
}

// GetActiveRuleSet loads the charge rules effective at the given instant.
func (r *RuleRepository) GetActiveRuleSet(ctx context.Context, at time.Time) (*domain.RuleSet, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, category, direction, kyc_tier, min_amount, max_amount,
		       percentage, fixed, floor_amount, cap_amount, base_on_fee,
		       exempt, priority, effective_from, effective_to
		FROM charge_rules
		WHERE effective_from <= $1
		  AND (effective_to IS NULL OR effective_to > $1)
		ORDER BY category, priority DESC`, timeToPgTimestamptz(at.UTC()))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ruleSet := &domain.RuleSet{EffectiveAt: at.UTC()}

	for rows.Next() {
		var (
			rule          domain.ChargeRule
			category      string
			direction     string
			kycTier       *string
			minAmount     pgtype.Numeric
			maxAmount     pgtype.Numeric
			percentage    pgtype.Numeric
			fixed         pgtype.Numeric
			floorAmount   pgtype.Numeric
			capAmount     pgtype.Numeric
			effectiveFrom pgtype.Timestamptz
			effectiveTo   pgtype.Timestamptz
		)

		err := rows.Scan(&rule.ID, &category, &direction, &kycTier, &minAmount,
			&maxAmount, &percentage, &fixed, &floorAmount, &capAmount,
			&rule.BaseOnFee, &rule.Exempt, &rule.Priority, &effectiveFrom, &effectiveTo)
		if err != nil {
			return nil, err
		}

		rule.Category = domain.ChargeCategory(category)
		rule.Direction = domain.Direction(direction)
		if kycTier != nil {
			rule.KYCTier = *kycTier
		}
		rule.MinAmount = numericToDecimal(minAmount)
		rule.MaxAmount = numericPtrToDecimalPtr(maxAmount)
		rule.Percentage = numericToDecimal(percentage)
		rule.Fixed = numericToDecimal(fixed)
		rule.FloorAmount = numericPtrToDecimalPtr(floorAmount)
		rule.CapAmount = numericPtrToDecimalPtr(capAmount)
		rule.EffectiveFrom = effectiveFrom.Time
		rule.EffectiveTo = pgTimestamptzToTimePtr(effectiveTo)

		ruleSet.Rules = append(ruleSet.Rules, rule)
	}

	return ruleSet, rows.Err()
}
