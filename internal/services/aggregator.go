package services

import (
	"fmt"
	"transfer-service/internal/models"

	"github.com/goccy/go-json"
)

// ResultAggregator rates every stored policy row and assembles the published
// result set. Read order from the store is preserved, so the output is
// deterministic for a given store state.
type ResultAggregator struct {
	calculator *PremiumCalculator
}

func NewResultAggregator(calculator *PremiumCalculator) *ResultAggregator {
	return &ResultAggregator{calculator: calculator}
}

// Aggregate maps rated inputs to output records. Decimals become floats
// here and nowhere earlier.
func (a *ResultAggregator) Aggregate(inputs []models.RatedInput) []models.RatedPolicy {
	rated := make([]models.RatedPolicy, 0, len(inputs))
	for _, in := range inputs {
		premium, decision := a.calculator.Rate(in)
		rated = append(rated, models.RatedPolicy{
			PolicyID:          in.PolicyID,
			PolicyType:        in.PolicyType,
			BasePremium:       in.BasePremium.InexactFloat64(),
			VehicleDamage:     in.VehicleDamage.InexactFloat64(),
			RiskFactor:        in.RiskFactor,
			Discount:          in.Discount.InexactFloat64(),
			CalculatedPremium: premium.InexactFloat64(),
			InsuranceGranted:  decision,
		})
	}
	return rated
}

// Marshal serializes the result set as an indented UTF-8 JSON array. An
// empty result set serializes as [].
func (a *ResultAggregator) Marshal(rated []models.RatedPolicy) ([]byte, error) {
	data, err := json.MarshalIndent(rated, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rated policies: %w", err)
	}
	return data, nil
}
