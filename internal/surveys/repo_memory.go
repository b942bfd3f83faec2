package surveys

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Survey
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Survey)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, s Survey) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s.Transport.OtherModes = append([]string(nil), s.Transport.OtherModes...)
	r.data[s.UserID] = s
	return nil
}

func (r *MemoryRepo) GetByUser(ctx context.Context, userID string) (Survey, error) {
	if err := ctx.Err(); err != nil {
		return Survey{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.data[userID]
	if !ok {
		return Survey{}, ErrNotFound
	}
	return s, nil
}

// List returns every survey ordered by full name.
func (r *MemoryRepo) List(ctx context.Context) ([]Survey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Survey, 0, len(r.data))
	for _, s := range r.data {
		out = append(out, s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].FullName == out[j].FullName {
			return out[i].UserID < out[j].UserID
		}
		return out[i].FullName < out[j].FullName
	})
	return out, nil
}
