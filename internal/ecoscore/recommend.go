package ecoscore

import (
	"fmt"
	"strings"
)

// Recommendation is a single sustainability action for a scored product.
type Recommendation struct {
	Category     string `json:"category"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ImpactPoints int    `json:"impactPoints"`
}

const (
	CategoryDisposal     = "Disposal"
	CategoryUsage        = "Usage"
	CategoryAlternatives = "Alternatives"
	CategoryCommunity    = "Community"
	CategoryPurchasing   = "Purchasing"
)

const maxAlternatives = 2

// GenerateRecommendations builds the ordered recommendation list: the disposal and
// lifecycle entries always come first, conditional entries are appended after.
func GenerateRecommendations(m Material, s SizeClass) []Recommendation {
	p := ProfileOf(m)
	out := make([]Recommendation, 0, 4)

	disposal := "specialized waste management services"
	if p.RecycleRating > 7 {
		disposal = "community recycling programs"
	}
	out = append(out, Recommendation{
		Category:     CategoryDisposal,
		Title:        fmt.Sprintf("Eco-friendly %s disposal", m),
		Description:  fmt.Sprintf("Properly dispose of %s-based products through %s.", m, disposal),
		ImpactPoints: roundInt(p.RecycleRating * 8),
	})

	upkeep := "professional refurbishment services"
	if p.SustainabilityIndex > 6 {
		upkeep = "simple cleaning and maintenance"
	}
	out = append(out, Recommendation{
		Category:     CategoryUsage,
		Title:        "Extended lifecycle practices",
		Description:  fmt.Sprintf("%s %s products can be maintained through %s.", s.Title(), m, upkeep),
		ImpactPoints: roundInt((10 - p.Impact) * 6),
	})

	if p.RecycleRating < 5 {
		out = append(out, Recommendation{
			Category: CategoryAlternatives,
			Title:    "Consider sustainable substitutes",
			Description: fmt.Sprintf("Replace %s with %s alternatives for %d%% less environmental impact.",
				m, strings.Join(sustainableAlternatives(), " or "), roundInt(p.Impact*10)),
			ImpactPoints: roundInt(p.Impact * 11),
		})
	}

	switch s {
	case SizeLarge:
		out = append(out, Recommendation{
			Category:     CategoryCommunity,
			Title:        "Shared resource utilization",
			Description:  fmt.Sprintf("Establish local %s product sharing networks to maximize utility and minimize redundant production.", m),
			ImpactPoints: roundInt(p.CarbonRelease * 9),
		})
	case SizeSmall:
		out = append(out, Recommendation{
			Category:     CategoryPurchasing,
			Title:        "Consolidated acquisition strategy",
			Description:  "Combine purchases to reduce packaging waste and transportation emissions.",
			ImpactPoints: roundInt(p.CarbonRelease * 5),
		})
	}

	return out
}

// sustainableAlternatives lists the first materials in table order whose
// sustainability index exceeds 7. The source material is not excluded.
func sustainableAlternatives() []string {
	out := make([]string, 0, maxAlternatives)
	for _, m := range materialOrder {
		if profiles[m].SustainabilityIndex > 7 {
			out = append(out, string(m))
			if len(out) == maxAlternatives {
				break
			}
		}
	}
	return out
}
