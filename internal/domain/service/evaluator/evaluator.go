// Package evaluator decides whether a listing is a deal using the tiered profit-factor table.
package evaluator

import (
	"sort"

	"github.com/shopspring/decimal"

	"transfer_scanner/internal/domain/entity"
)

// DefaultScaleFactor applies when no unbounded tier is configured.
const DefaultScaleFactor = 1.5

// ScaleFactorFor returns the factor of the first tier (ascending by limit) whose limit
// exceeds reference, else the factor of the unbounded tier.
func ScaleFactorFor(reference int64, rules []entity.DealRule) float64 {
	fallback := DefaultScaleFactor

	for _, rule := range sortedRules(rules) {
		if rule.Unbounded() {
			fallback = rule.ProfitFactor

			break
		}

		if reference < *rule.UpperMedianLimit {
			return rule.ProfitFactor
		}
	}

	return fallback
}

// Evaluate: deal iff reference > minimumReference and (price + wage) * factor < reference.
func Evaluate(price, wage, reference int64, rules []entity.DealRule, minimumReference int64) (bool, float64) {
	factor := ScaleFactorFor(reference, rules)

	if reference <= 0 || reference <= minimumReference {
		return false, factor
	}

	cost := decimal.NewFromInt(price).Add(decimal.NewFromInt(wage)).Mul(decimal.NewFromFloat(factor))

	return cost.LessThan(decimal.NewFromInt(reference)), factor
}

// sortedRules orders bounded tiers ascending and puts unbounded ones last.
func sortedRules(rules []entity.DealRule) []entity.DealRule {
	sorted := make([]entity.DealRule, len(rules))
	copy(sorted, rules)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Unbounded() || b.Unbounded() {
			return !a.Unbounded() && b.Unbounded()
		}

		return *a.UpperMedianLimit < *b.UpperMedianLimit
	})

	return sorted
}
