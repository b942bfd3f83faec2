package ecoscore

import "strings"

// Material identifies the assumed physical composition of a product.
type Material string

const (
	Polymer   Material = "polymer"
	Cellulose Material = "cellulose"
	Metal     Material = "metal"
	Ceramic   Material = "ceramic"
	Textile   Material = "textile"
	Composite Material = "composite"
	Biologic  Material = "biologic"
	Synthetic Material = "synthetic"
	Mineral   Material = "mineral"
)

// Profile holds the static environmental properties of a material.
type Profile struct {
	Impact              float64 `json:"impact"`
	CarbonRelease       float64 `json:"carbonRelease"`
	RecycleRating       float64 `json:"recycleRating"`
	SustainabilityIndex float64 `json:"sustainabilityIndex"`
}

// materialOrder is the fixed iteration order. Classifier ties and the
// alternatives list both depend on it.
var materialOrder = [...]Material{
	Polymer,
	Cellulose,
	Metal,
	Ceramic,
	Textile,
	Composite,
	Biologic,
	Synthetic,
	Mineral,
}

var profiles = map[Material]Profile{
	Polymer:   {Impact: 8.2, CarbonRelease: 5.8, RecycleRating: 4, SustainabilityIndex: 3.2},
	Cellulose: {Impact: 3.5, CarbonRelease: 2.3, RecycleRating: 8, SustainabilityIndex: 7.6},
	Metal:     {Impact: 6.9, CarbonRelease: 7.2, RecycleRating: 8.5, SustainabilityIndex: 6.1},
	Ceramic:   {Impact: 5.1, CarbonRelease: 4.7, RecycleRating: 5.2, SustainabilityIndex: 5.8},
	Textile:   {Impact: 4.8, CarbonRelease: 3.5, RecycleRating: 6.3, SustainabilityIndex: 6.5},
	Composite: {Impact: 7.5, CarbonRelease: 6.2, RecycleRating: 3.2, SustainabilityIndex: 4.1},
	Biologic:  {Impact: 2.1, CarbonRelease: 1.5, RecycleRating: 9.1, SustainabilityIndex: 8.7},
	Synthetic: {Impact: 7.8, CarbonRelease: 6.8, RecycleRating: 3.7, SustainabilityIndex: 3.5},
	Mineral:   {Impact: 5.7, CarbonRelease: 5.3, RecycleRating: 7.2, SustainabilityIndex: 6.7},
}

// Materials returns all material keys in their fixed order.
func Materials() []Material {
	out := make([]Material, len(materialOrder))
	copy(out, materialOrder[:])
	return out
}

// Lookup normalizes a raw key and reports whether it names a known material.
func Lookup(raw string) (Material, bool) {
	m := Material(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := profiles[m]
	return m, ok
}

// ProfileOf returns the static profile for m. Unknown keys yield the zero Profile.
func ProfileOf(m Material) Profile {
	return profiles[m]
}

// Valid reports whether m is one of the known materials.
func (m Material) Valid() bool {
	_, ok := profiles[m]
	return ok
}

func (m Material) String() string {
	return string(m)
}
