package users

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo keeps signed-in users in process; used when no database is configured.
type MemoryRepo struct {
	mu    sync.RWMutex
	byID  map[string]User
	clock func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:  make(map[string]User),
		clock: func() time.Time { return time.Now().UTC() },
	}
}

// Upsert stamps LastLogin on every sign-in; CreatedAt is set once.
func (r *MemoryRepo) Upsert(ctx context.Context, user User) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	now := r.clock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.byID[user.ID]; ok {
		user.CreatedAt = prev.CreatedAt
	} else {
		user.CreatedAt = now
	}
	user.LastLogin = now
	r.byID[user.ID] = user
	return user, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	user, ok := r.byID[userID]
	r.mu.RUnlock()
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}
