package surveys

import "context"

// Repo persists surveys keyed by user.
type Repo interface {
	Upsert(ctx context.Context, s Survey) error
	GetByUser(ctx context.Context, userID string) (Survey, error)
	List(ctx context.Context) ([]Survey, error)
}
