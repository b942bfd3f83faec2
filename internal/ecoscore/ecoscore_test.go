package ecoscore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyMaterialAlwaysReturnsKnownKey(t *testing.T) {
	widths := []int{0, 1, 320, 1000, 4000}
	heights := []int{0, 1, 240, 1000, 6000}
	sizes := []float64{0, 120, 499.9, 500, 1500, 2000, 2000.1, 9000}
	colors := []int{0, 2, 3, 5, 6, 40}

	for _, w := range widths {
		for _, h := range heights {
			for _, kb := range sizes {
				for _, c := range colors {
					m := ClassifyMaterial(Metadata{Width: w, Height: h, FileSizeKB: kb, ColorCount: c})
					require.Truef(t, m.Valid(), "unexpected material %q for w=%d h=%d kb=%v c=%d", m, w, h, kb, c)
				}
			}
		}
	}
}

func TestClassifyMaterialBins(t *testing.T) {
	tests := []struct {
		name string
		md   Metadata
		want Material
	}{
		{name: "wide small file mid colors", md: Metadata{Width: 2000, Height: 1000, FileSizeKB: 100, ColorCount: 4}, want: Polymer},
		{name: "tall mid file many colors", md: Metadata{Width: 600, Height: 1000, FileSizeKB: 800, ColorCount: 9}, want: Textile},
		{name: "square large file few colors", md: Metadata{Width: 1000, Height: 1000, FileSizeKB: 2500, ColorCount: 1}, want: Metal},
		{name: "tie resolves to first in order", md: Metadata{Width: 1000, Height: 1000, FileSizeKB: 1000, ColorCount: 4}, want: Polymer},
		{name: "zero height is wide", md: Metadata{Width: 100, Height: 0, FileSizeKB: 100, ColorCount: 4}, want: Polymer},
		{name: "zero dimensions are square", md: Metadata{FileSizeKB: 2500, ColorCount: 1}, want: Metal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyMaterial(tt.md))
		})
	}
}

func TestScoreMaterialsTie(t *testing.T) {
	scores := ScoreMaterials(Metadata{Width: 1000, Height: 1000, FileSizeKB: 1000, ColorCount: 4})
	require.Len(t, scores, 9)

	byMaterial := make(map[Material]float64, len(scores))
	for _, s := range scores {
		byMaterial[s.Material] = s.Score
	}
	assert.Equal(t, 4.5, byMaterial[Polymer])
	assert.Equal(t, 4.5, byMaterial[Ceramic])
	assert.Equal(t, 4.0, byMaterial[Composite])
	assert.Equal(t, 3.5, byMaterial[Cellulose])
}

func TestEstimateSizeBoundaries(t *testing.T) {
	tests := []struct {
		width, height int
		want          SizeClass
	}{
		{width: 2000, height: 1001, want: SizeLarge},
		{width: 1000, height: 2001, want: SizeLarge},
		{width: 2000, height: 1000, want: SizeMedium},
		{width: 1000, height: 501, want: SizeMedium},
		{width: 1000, height: 500, want: SizeSmall},
		{width: 10, height: 10, want: SizeSmall},
	}

	for _, tt := range tests {
		got := EstimateSize(tt.width, tt.height)
		assert.Equalf(t, tt.want, got.Size, "EstimateSize(%d, %d)", tt.width, tt.height)
		assert.Equal(t, Dimensions{Width: tt.width, Height: tt.height}, got.Dimensions)
	}
}

func TestEstimateSizeMissingDimensionsFallsBackToMedium(t *testing.T) {
	for _, dims := range [][2]int{{0, 0}, {0, 900}, {900, 0}, {-5, 10}} {
		got := EstimateSize(dims[0], dims[1])
		assert.Equal(t, SizeEstimate{Size: SizeMedium}, got)
	}
}

func TestComputeImpactScoreTable(t *testing.T) {
	want := map[Material][3]float64{ // large, medium, small
		Polymer:   {9.7, 6.9, 4.8},
		Cellulose: {3.8, 2.7, 1.9},
		Metal:     {7.9, 5.6, 3.9},
		Ceramic:   {6.8, 4.8, 3.4},
		Textile:   {5.7, 4.1, 2.8},
		Composite: {9.5, 6.8, 4.8},
		Biologic:  {2.2, 1.6, 1.1},
		Synthetic: {9.9, 7.1, 4.9},
		Mineral:   {6.7, 4.8, 3.3},
	}
	for m, scores := range want {
		assert.Equalf(t, scores[0], ComputeImpactScore(m, SizeLarge), "%s large", m)
		assert.Equalf(t, scores[1], ComputeImpactScore(m, SizeMedium), "%s medium", m)
		assert.Equalf(t, scores[2], ComputeImpactScore(m, SizeSmall), "%s small", m)
	}
}

func TestComputeImpactScoreStaysInRange(t *testing.T) {
	for _, m := range Materials() {
		for _, s := range []SizeClass{SizeSmall, SizeMedium, SizeLarge, ""} {
			score := ComputeImpactScore(m, s)
			assert.GreaterOrEqual(t, score, 1.0)
			assert.LessOrEqual(t, score, 10.0)
		}
	}
	// Unknown material has a zero profile: base 3.0, still within range.
	assert.Equal(t, 3.0, ComputeImpactScore(Material("plasma"), SizeMedium))
}

func TestComputeEmissionsTable(t *testing.T) {
	want := map[Material][3]int{ // large, medium, small
		Polymer:   {252, 131, 93},
		Cellulose: {83, 43, 31},
		Metal:     {279, 145, 103},
		Ceramic:   {184, 96, 68},
		Textile:   {133, 69, 49},
		Composite: {260, 135, 96},
		Biologic:  {52, 27, 19},
		Synthetic: {292, 151, 108},
		Mineral:   {200, 104, 74},
	}
	for m, kg := range want {
		assert.Equalf(t, kg[0], ComputeEmissions(m, SizeLarge), "%s large", m)
		assert.Equalf(t, kg[1], ComputeEmissions(m, SizeMedium), "%s medium", m)
		assert.Equalf(t, kg[2], ComputeEmissions(m, SizeSmall), "%s small", m)
	}
}

func TestMetalLargeEndToEnd(t *testing.T) {
	res := Score(Metal, SizeLarge)
	assert.Equal(t, 7.9, res.ImpactScore)
	assert.Equal(t, 279, res.EmissionsKg)
	require.Len(t, res.Recommendations, 3)
	assert.Equal(t, CategoryCommunity, res.Recommendations[2].Category)
	assert.Equal(t, 65, res.Recommendations[2].ImpactPoints)
}

func TestScoringIsDeterministic(t *testing.T) {
	first := ComputeImpactScore(Biologic, SizeSmall)
	second := ComputeImpactScore(Biologic, SizeSmall)
	assert.Equal(t, first, second)

	e1 := ComputeEmissions(Biologic, SizeSmall)
	e2 := ComputeEmissions(Biologic, SizeSmall)
	assert.Equal(t, e1, e2)
	assert.Equal(t, 19, e1)
}

func TestGenerateRecommendationsCounts(t *testing.T) {
	tests := []struct {
		material Material
		size     SizeClass
		want     []string
	}{
		{material: Metal, size: SizeMedium, want: []string{CategoryDisposal, CategoryUsage}},
		{material: Metal, size: SizeLarge, want: []string{CategoryDisposal, CategoryUsage, CategoryCommunity}},
		{material: Polymer, size: SizeMedium, want: []string{CategoryDisposal, CategoryUsage, CategoryAlternatives}},
		{material: Polymer, size: SizeSmall, want: []string{CategoryDisposal, CategoryUsage, CategoryAlternatives, CategoryPurchasing}},
		{material: Composite, size: SizeLarge, want: []string{CategoryDisposal, CategoryUsage, CategoryAlternatives, CategoryCommunity}},
	}

	for _, tt := range tests {
		t.Run(string(tt.material)+"/"+string(tt.size), func(t *testing.T) {
			recs := GenerateRecommendations(tt.material, tt.size)
			got := make([]string, 0, len(recs))
			for _, r := range recs {
				got = append(got, r.Category)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateRecommendationsContent(t *testing.T) {
	recs := GenerateRecommendations(Polymer, SizeSmall)
	require.Len(t, recs, 4)

	assert.Equal(t, "Eco-friendly polymer disposal", recs[0].Title)
	assert.Contains(t, recs[0].Description, "specialized waste management services")
	assert.Equal(t, 32, recs[0].ImpactPoints)

	assert.Equal(t, "Small polymer products can be maintained through professional refurbishment services.", recs[1].Description)
	assert.Equal(t, 11, recs[1].ImpactPoints)

	assert.Equal(t, "Replace polymer with cellulose or biologic alternatives for 82% less environmental impact.", recs[2].Description)
	assert.Equal(t, 90, recs[2].ImpactPoints)

	assert.Equal(t, 29, recs[3].ImpactPoints)

	bio := GenerateRecommendations(Biologic, SizeMedium)
	require.Len(t, bio, 2)
	assert.Contains(t, bio[0].Description, "community recycling programs")
	assert.Equal(t, 73, bio[0].ImpactPoints)
	assert.Contains(t, bio[1].Description, "simple cleaning and maintenance")
	assert.Equal(t, 47, bio[1].ImpactPoints)
}

func TestAnalyzerFallbackUsesInjectedSource(t *testing.T) {
	a := Analyzer{Intn: func(n int) int {
		require.Equal(t, 9, n)
		return 2
	}}

	res := a.Analyze(nil)
	assert.Equal(t, Metal, res.Material)
	assert.Equal(t, SizeMedium, res.Size)
	assert.Equal(t, Dimensions{}, res.Dimensions)
	assert.True(t, res.MaterialFallback)
	assert.Equal(t, 5.6, res.ImpactScore)
	assert.Equal(t, 145, res.EmissionsKg)
}

func TestAnalyzerOutOfRangeSourceIsClamped(t *testing.T) {
	a := Analyzer{Intn: func(int) int { return 42 }}
	assert.Equal(t, Polymer, a.RandomMaterial())
}

func TestAnalyzerDefaultSourceReturnsKnownKey(t *testing.T) {
	var a Analyzer
	for i := 0; i < 50; i++ {
		assert.True(t, a.RandomMaterial().Valid())
	}
}

func TestAnalyzerWithMetadata(t *testing.T) {
	res := Analyzer{}.Analyze(&Metadata{Width: 3000, Height: 1000, FileSizeKB: 2400, ColorCount: 2})
	assert.Equal(t, Metal, res.Material)
	assert.Equal(t, SizeLarge, res.Size)
	assert.Equal(t, Dimensions{Width: 3000, Height: 1000}, res.Dimensions)
	assert.False(t, res.MaterialFallback)
	assert.Equal(t, 7.9, res.ImpactScore)
	assert.Equal(t, 279, res.EmissionsKg)
}

func TestLookupAndParseSize(t *testing.T) {
	m, ok := Lookup("  Metal ")
	assert.True(t, ok)
	assert.Equal(t, Metal, m)

	_, ok = Lookup("wood")
	assert.False(t, ok)

	s, err := ParseSize("LARGE")
	require.NoError(t, err)
	assert.Equal(t, SizeLarge, s)

	_, err = ParseSize("huge")
	assert.Error(t, err)
}
