package users

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("user not found")

// Repo persists user profiles keyed by the provider-scoped ID ("google:<sub>").
type Repo interface {
	// Upsert inserts or refreshes a profile and returns it with its stored timestamps.
	Upsert(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, userID string) (User, error)
}
