package products

import (
	"time"

	"ecotrack-backend/internal/ecoscore"
	"ecotrack-backend/internal/inference"
)

// Analysis is a stored product analysis owned by a user.
type Analysis struct {
	ID                 string
	UserID             string
	ImageKey           string
	ImageURL           string
	MimeType           string
	SizeBytes          int64
	ProductDescription string
	Material           ecoscore.Material
	Size               ecoscore.SizeClass
	Dimensions         ecoscore.Dimensions
	ImpactScore        float64
	EmissionsKg        int
	Recommendations    []ecoscore.Recommendation
	Insight            inference.Insight
	InferenceError     string
	MetadataFallback   bool
	CreatedAt          time.Time
}

// Pagination describes one page of a user's history.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Limit int `json:"limit"`
}
