package products

import "context"

// Repo defines persistence operations for product analyses.
type Repo interface {
	Create(ctx context.Context, a Analysis) error
	GetByID(ctx context.Context, userID, analysisID string) (Analysis, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}
