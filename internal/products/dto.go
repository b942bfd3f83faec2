package products

import (
	"time"

	"ecotrack-backend/internal/ecoscore"
	"ecotrack-backend/internal/inference"
)

// AnalysisResponse is the outward-facing representation of an analysis.
type AnalysisResponse struct {
	AnalysisID         string                    `json:"analysisId"`
	ImageURL           string                    `json:"imageUrl,omitempty"`
	MimeType           string                    `json:"mimeType"`
	SizeBytes          int64                     `json:"sizeBytes"`
	ProductDescription string                    `json:"productDescription"`
	Material           ecoscore.Material         `json:"material"`
	Size               ecoscore.SizeClass        `json:"size"`
	Dimensions         ecoscore.Dimensions       `json:"dimensions"`
	ImpactScore        float64                   `json:"impactScore"`
	EmissionsKg        int                       `json:"emissionsKg"`
	Recommendations    []ecoscore.Recommendation `json:"recommendations"`
	Insight            inference.Insight         `json:"insight"`
	InferenceError     string                    `json:"inferenceError,omitempty"`
	MetadataFallback   bool                      `json:"metadataFallback"`
	CreatedAt          time.Time                 `json:"createdAt"`
}

// HistoryResponse is one page of analyses.
type HistoryResponse struct {
	Items      []AnalysisResponse `json:"items"`
	Pagination Pagination         `json:"pagination"`
}

// ScoreRequest carries image metadata for a stateless score. Material and
// Size, when both set, bypass classification.
type ScoreRequest struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	FileSizeKB float64 `json:"fileSizeKb"`
	ColorCount int     `json:"colorCount"`
	Material   string  `json:"material"`
	Size       string  `json:"size"`
}

func toResponse(a Analysis) AnalysisResponse {
	recs := a.Recommendations
	if recs == nil {
		recs = []ecoscore.Recommendation{}
	}
	return AnalysisResponse{
		AnalysisID:         a.ID,
		ImageURL:           a.ImageURL,
		MimeType:           a.MimeType,
		SizeBytes:          a.SizeBytes,
		ProductDescription: a.ProductDescription,
		Material:           a.Material,
		Size:               a.Size,
		Dimensions:         a.Dimensions,
		ImpactScore:        a.ImpactScore,
		EmissionsKg:        a.EmissionsKg,
		Recommendations:    recs,
		Insight:            a.Insight,
		InferenceError:     a.InferenceError,
		MetadataFallback:   a.MetadataFallback,
		CreatedAt:          a.CreatedAt,
	}
}
