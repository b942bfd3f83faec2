package products

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Analysis // userID -> analyses
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]Analysis)}
}

// Create stores an analysis.
func (r *MemoryRepo) Create(ctx context.Context, a Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[a.UserID] = append(r.data[a.UserID], a)
	return nil
}

// GetByID returns an analysis owned by userID.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, analysisID string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.data[userID] {
		if a.ID == analysisID {
			return a, nil
		}
	}
	return Analysis{}, ErrNotFound
}

// ListByUser returns analyses newest-first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	items := append([]Analysis(nil), r.data[userID]...)
	r.mu.RUnlock()

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []Analysis{}, nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end], nil
}

// CountByUser returns the number of analyses stored for a user.
func (r *MemoryRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data[userID]), nil
}
