package ecoscore

import (
	"fmt"
	"strings"
)

// SizeClass is the coarse product size bucket derived from pixel area.
type SizeClass string

const (
	SizeSmall  SizeClass = "small"
	SizeMedium SizeClass = "medium"
	SizeLarge  SizeClass = "large"
)

const (
	largeAreaThreshold  = 2_000_000
	mediumAreaThreshold = 500_000
)

// Dimensions are the pixel dimensions a size estimate was derived from.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SizeEstimate pairs a size class with the dimensions used to derive it.
type SizeEstimate struct {
	Size       SizeClass  `json:"size"`
	Dimensions Dimensions `json:"dimensions"`
}

// fallbackSize is returned when dimensions are missing.
var fallbackSize = SizeEstimate{Size: SizeMedium}

// EstimateSize buckets the pixel area. Missing or non-positive dimensions
// produce the medium fallback with zeroed dimensions.
func EstimateSize(width, height int) SizeEstimate {
	if width <= 0 || height <= 0 {
		return fallbackSize
	}
	area := int64(width) * int64(height)
	est := SizeEstimate{Dimensions: Dimensions{Width: width, Height: height}}
	switch {
	case area > largeAreaThreshold:
		est.Size = SizeLarge
	case area > mediumAreaThreshold:
		est.Size = SizeMedium
	default:
		est.Size = SizeSmall
	}
	return est
}

// ParseSize normalizes a size class string.
func ParseSize(raw string) (SizeClass, error) {
	switch SizeClass(strings.ToLower(strings.TrimSpace(raw))) {
	case SizeSmall:
		return SizeSmall, nil
	case SizeMedium:
		return SizeMedium, nil
	case SizeLarge:
		return SizeLarge, nil
	default:
		return "", fmt.Errorf("unknown size class %q", raw)
	}
}

// Title returns the size class with an upper-cased first letter.
func (s SizeClass) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}
