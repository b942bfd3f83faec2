// Package inference identifies products in uploaded photos through an external model.
package inference

import (
	"context"
	"errors"
	"fmt"
)

// Client identifies the product shown at imageURL.
type Client interface {
	Identify(ctx context.Context, imageURL string) (Insight, error)
}

// Insight is what the external model tells us about a product.
type Insight struct {
	ItemName            string   `json:"itemName"`
	Brand               string   `json:"brand"`
	HarmfulComponents   []string `json:"harmfulComponents"`
	EnvironmentalImpact string   `json:"environmentalImpact"`
	LessHarmfulBrands   []string `json:"lessHarmfulBrands"`
	AlternativeProducts []string `json:"alternativeProducts"`
}

const (
	UnknownProduct = "Unknown Product"
	unknownBrand   = "Unknown Brand"
	unknown        = "Unknown"
	noImpactDetail = "No detailed analysis available."
)

// DefaultInsight is stored when the model is unavailable. Identify fills
// ItemName from the top prediction and leaves the rest at these values.
func DefaultInsight() Insight {
	return Insight{
		ItemName:            UnknownProduct,
		Brand:               unknownBrand,
		HarmfulComponents:   []string{unknown},
		EnvironmentalImpact: noImpactDetail,
		LessHarmfulBrands:   []string{unknown},
		AlternativeProducts: []string{unknown},
	}
}

var (
	// ErrNotConfigured is returned by PlaceholderClient.
	ErrNotConfigured = errors.New("inference provider not configured")
	// ErrAccessDenied means the provider rejected our credentials; retrying will not help.
	ErrAccessDenied = errors.New("inference access denied")
	// ErrEmptyResponse means the provider answered without any prediction.
	ErrEmptyResponse = errors.New("inference returned no predictions")
)

// StatusError is a non-2xx provider response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("inference http status %d: %s", e.StatusCode, e.Body)
}

// PlaceholderClient is used when no provider token is configured.
type PlaceholderClient struct{}

// Identify returns ErrNotConfigured.
func (PlaceholderClient) Identify(ctx context.Context, imageURL string) (Insight, error) {
	return DefaultInsight(), ErrNotConfigured
}
