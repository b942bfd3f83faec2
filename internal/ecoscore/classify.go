package ecoscore

// Metadata describes the image features the classifier works from.
type Metadata struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	FileSizeKB float64 `json:"fileSizeKb"`
	ColorCount int     `json:"colorCount"`
}

// factor awards a bonus to up to two favored materials; every other material gets rest.
type factor struct {
	first       Material
	firstBonus  float64
	second      Material
	secondBonus float64
	rest        float64
}

func (f factor) bonus(m Material) float64 {
	switch m {
	case f.first:
		return f.firstBonus
	case f.second:
		return f.secondBonus
	default:
		return f.rest
	}
}

var (
	wideFactor   = factor{first: Polymer, firstBonus: 3, second: Metal, secondBonus: 2, rest: 1}
	tallFactor   = factor{first: Textile, firstBonus: 3, second: Biologic, secondBonus: 2, rest: 1}
	squareFactor = factor{first: Composite, firstBonus: 3, second: Ceramic, secondBonus: 2, rest: 1}

	largeFileFactor = factor{first: Metal, firstBonus: 2, second: Mineral, secondBonus: 1.5, rest: 0.5}
	smallFileFactor = factor{first: Polymer, firstBonus: 2, second: Synthetic, secondBonus: 1.5, rest: 0.5}
	midFileFactor   = factor{first: Cellulose, firstBonus: 2, second: Biologic, secondBonus: 1.5, rest: 0.5}

	manyColorFactor = factor{first: Textile, firstBonus: 3, second: Composite, secondBonus: 2, rest: 0.5}
	fewColorFactor  = factor{first: Metal, firstBonus: 3, second: Mineral, secondBonus: 2, rest: 0.5}
	midColorFactor  = factor{first: Polymer, firstBonus: 3, second: Ceramic, secondBonus: 2, rest: 0.5}
)

func aspectFactor(width, height int) factor {
	// Float division keeps zero heights total: w/0 is +Inf (wide), 0/0 is NaN (square).
	ratio := float64(width) / float64(height)
	switch {
	case ratio > 1.5:
		return wideFactor
	case ratio < 0.7:
		return tallFactor
	default:
		return squareFactor
	}
}

func fileSizeFactor(sizeKB float64) factor {
	switch {
	case sizeKB > 2000:
		return largeFileFactor
	case sizeKB < 500:
		return smallFileFactor
	default:
		return midFileFactor
	}
}

func colorFactor(colors int) factor {
	switch {
	case colors > 5:
		return manyColorFactor
	case colors < 3:
		return fewColorFactor
	default:
		return midColorFactor
	}
}

// MaterialScore is the classifier total for a single material.
type MaterialScore struct {
	Material Material `json:"material"`
	Score    float64  `json:"score"`
}

// ScoreMaterials returns the classifier totals for every material in fixed order.
func ScoreMaterials(md Metadata) []MaterialScore {
	factors := [3]factor{
		aspectFactor(md.Width, md.Height),
		fileSizeFactor(md.FileSizeKB),
		colorFactor(md.ColorCount),
	}
	out := make([]MaterialScore, 0, len(materialOrder))
	for _, m := range materialOrder {
		var total float64
		for _, f := range factors {
			total += f.bonus(m)
		}
		out = append(out, MaterialScore{Material: m, Score: total})
	}
	return out
}

// ClassifyMaterial picks the material with the highest total. Equal totals
// resolve to the material listed first in the fixed order.
func ClassifyMaterial(md Metadata) Material {
	scores := ScoreMaterials(md)
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return best.Material
}
