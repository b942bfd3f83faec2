// Package ecoscore maps product image metadata to a material classification,
// size class, impact score, emissions estimate and recommendations.
//
// Every function is pure apart from the explicit random fallback in Analyzer,
// and all of them are safe for concurrent use.
package ecoscore

import "math/rand/v2"

// Result is the full scoring outcome for a single product image.
type Result struct {
	Material        Material         `json:"material"`
	Size            SizeClass        `json:"size"`
	Dimensions      Dimensions       `json:"dimensions"`
	ImpactScore     float64          `json:"impactScore"`
	EmissionsKg     int              `json:"emissionsKg"`
	Recommendations []Recommendation `json:"recommendations"`
	// MaterialFallback is set when no metadata was available and the material was picked at random.
	MaterialFallback bool `json:"materialFallback,omitempty"`
}

// Analyzer runs the scoring pipeline. Intn picks the fallback material index
// in [0, n) when metadata is unavailable; nil uses math/rand/v2.
type Analyzer struct {
	Intn func(n int) int
}

// Analyze scores a product. A nil md means the metadata could not be obtained:
// the material is then drawn at random and the size falls back to medium.
func (a Analyzer) Analyze(md *Metadata) Result {
	var (
		material Material
		size     SizeEstimate
		fallback bool
	)
	if md == nil {
		material = a.RandomMaterial()
		size = fallbackSize
		fallback = true
	} else {
		material = ClassifyMaterial(*md)
		size = EstimateSize(md.Width, md.Height)
	}
	res := Score(material, size.Size)
	res.Dimensions = size.Dimensions
	res.MaterialFallback = fallback
	return res
}

// Score computes the score, emissions and recommendations for a known material and size.
func Score(m Material, s SizeClass) Result {
	return Result{
		Material:        m,
		Size:            s,
		ImpactScore:     ComputeImpactScore(m, s),
		EmissionsKg:     ComputeEmissions(m, s),
		Recommendations: GenerateRecommendations(m, s),
	}
}

// RandomMaterial returns a uniformly chosen material key.
func (a Analyzer) RandomMaterial() Material {
	intn := a.Intn
	if intn == nil {
		intn = rand.IntN
	}
	idx := intn(len(materialOrder))
	if idx < 0 || idx >= len(materialOrder) {
		idx = 0
	}
	return materialOrder[idx]
}
