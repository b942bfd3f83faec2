package ecoscore

import "github.com/shopspring/decimal"

const (
	minImpactScore = 1.0
	maxImpactScore = 10.0
)

func impactMultiplier(s SizeClass) float64 {
	switch s {
	case SizeLarge:
		return 1.4
	case SizeSmall:
		return 0.7
	default:
		return 1
	}
}

func emissionsMultiplier(s SizeClass) float64 {
	switch s {
	case SizeLarge:
		return 2.7
	case SizeMedium:
		return 1.4
	default:
		return 1
	}
}

// ComputeImpactScore returns the 1–10 sustainability burden of a material at a size.
func ComputeImpactScore(m Material, s SizeClass) float64 {
	p := ProfileOf(m)

	base := p.Impact * 0.4
	base += p.CarbonRelease * 0.3
	base += (10 - p.RecycleRating) * 0.2
	base += (10 - p.SustainabilityIndex) * 0.1

	score := roundTo(base*impactMultiplier(s), 1)
	return min(maxImpactScore, max(minImpactScore, score))
}

// ComputeEmissions estimates kilograms of CO2-equivalent for a material at a size.
func ComputeEmissions(m Material, s SizeClass) int {
	p := ProfileOf(m)

	base := p.CarbonRelease * 12
	base *= emissionsMultiplier(s)
	// production complexity
	base *= 1 + (10-p.SustainabilityIndex)/20

	return roundInt(base)
}

func roundTo(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func roundInt(v float64) int {
	return int(decimal.NewFromFloat(v).Round(0).IntPart())
}
