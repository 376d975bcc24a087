package services

import (
	"transfer-service/internal/models"

	"github.com/shopspring/decimal"
)

var (
	multiplierDefault = decimal.NewFromInt(1)
	multiplierMedium  = decimal.NewFromFloat(1.5)
	multiplierHigh    = decimal.NewFromInt(2)

	premiumThreshold = decimal.NewFromInt(10000)
	percentBase      = decimal.NewFromInt(100)
)

// PremiumCalculator derives a premium and a grant decision from one stored
// policy row. It is a pure function over its input: no storage access, no
// error path. All arithmetic stays decimal; conversion to float happens only
// when the aggregator serializes the result.
type PremiumCalculator struct{}

func NewPremiumCalculator() *PremiumCalculator {
	return &PremiumCalculator{}
}

// RiskMultiplier maps a risk tier to the factor applied to vehicle damage.
// Any value outside the three known tiers gets the default multiplier 1.0
// rather than an error.
func (c *PremiumCalculator) RiskMultiplier(riskFactor string) decimal.Decimal {
	switch riskFactor {
	case models.RiskFactorLow:
		return multiplierDefault
	case models.RiskFactorMedium:
		return multiplierMedium
	case models.RiskFactorHigh:
		return multiplierHigh
	default:
		return multiplierDefault
	}
}

// Rate computes
//
//	calculated_premium = base_premium + vehicle_damage*multiplier - base_premium*discount/100
//
// rounded to the cent, and grants insurance iff the premium stays under
// 10000 AND the risk tier is low or medium. High risk is always rejected,
// whatever the premium.
func (c *PremiumCalculator) Rate(in models.RatedInput) (decimal.Decimal, models.InsuranceDecision) {
	multiplier := c.RiskMultiplier(in.RiskFactor)

	premium := in.BasePremium.
		Add(in.VehicleDamage.Mul(multiplier)).
		Sub(in.BasePremium.Mul(in.Discount).Div(percentBase)).
		Round(2)

	decision := models.DecisionRejected
	insurable := in.RiskFactor == models.RiskFactorLow || in.RiskFactor == models.RiskFactorMedium
	if insurable && premium.LessThan(premiumThreshold) {
		decision = models.DecisionGranted
	}

	return premium, decision
}
