package users

import (
	"context"
	"errors"
	"strings"

	sharedauth "ecotrack-backend/internal/shared/auth"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// UpsertFromAuth persists the identity returned by the OAuth provider.
func (s *Service) UpsertFromAuth(ctx context.Context, user User) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	user.ID = strings.TrimSpace(user.ID)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.ID == "" || user.Email == "" {
		return User{}, errors.New("user id and email are required")
	}
	if user.Role == "" || !sharedauth.ValidRole(user.Role) {
		user.Role = sharedauth.RoleUser
	}
	return s.Repo.Upsert(ctx, user)
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}
