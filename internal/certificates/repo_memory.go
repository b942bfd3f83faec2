package certificates

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo seeded with DefaultCatalog.
type MemoryRepo struct {
	mu       sync.RWMutex
	catalog  []Certificate
	enrolled map[string]UserCertificate // userCertID -> enrollment
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		catalog:  DefaultCatalog(),
		enrolled: make(map[string]UserCertificate),
	}
}

func (r *MemoryRepo) Catalog(ctx context.Context) ([]Certificate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Certificate(nil), r.catalog...), nil
}

func (r *MemoryRepo) GetCertificate(ctx context.Context, certID string) (Certificate, error) {
	if err := ctx.Err(); err != nil {
		return Certificate{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.catalog {
		if c.ID == certID {
			return c, nil
		}
	}
	return Certificate{}, ErrNotFound
}

func (r *MemoryRepo) Enroll(ctx context.Context, uc UserCertificate) (UserCertificate, error) {
	if err := ctx.Err(); err != nil {
		return UserCertificate{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.enrolled {
		if existing.UserID == uc.UserID && existing.CertificateID == uc.CertificateID {
			return existing.clone(), nil
		}
	}
	r.enrolled[uc.ID] = uc.clone()
	return uc, nil
}

func (r *MemoryRepo) GetUserCertificate(ctx context.Context, userCertID string) (UserCertificate, error) {
	if err := ctx.Err(); err != nil {
		return UserCertificate{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	uc, ok := r.enrolled[userCertID]
	if !ok {
		return UserCertificate{}, ErrNotFound
	}
	return uc.clone(), nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]UserCertificate, error) {
	return r.list(ctx, func(uc UserCertificate) bool { return uc.UserID == userID })
}

func (r *MemoryRepo) ListAll(ctx context.Context) ([]UserCertificate, error) {
	return r.list(ctx, func(UserCertificate) bool { return true })
}

func (r *MemoryRepo) Mutate(ctx context.Context, userCertID string, fn func(*UserCertificate) error) (UserCertificate, error) {
	if err := ctx.Err(); err != nil {
		return UserCertificate{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	uc, ok := r.enrolled[userCertID]
	if !ok {
		return UserCertificate{}, ErrNotFound
	}
	next := uc.clone()
	if err := fn(&next); err != nil {
		return UserCertificate{}, err
	}
	r.enrolled[userCertID] = next.clone()
	return next, nil
}

// list returns matching enrollments oldest-first.
func (r *MemoryRepo) list(ctx context.Context, match func(UserCertificate) bool) ([]UserCertificate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := []UserCertificate{}
	for _, uc := range r.enrolled {
		if match(uc) {
			out = append(out, uc.clone())
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
