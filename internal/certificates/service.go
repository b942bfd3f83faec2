package certificates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ecotrack-backend/internal/shared/telemetry"
)

const maxProofLen = 2000

// Service implements enrollment, goal completion and admin verification.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Catalog lists the available certificates.
func (s *Service) Catalog(ctx context.Context) ([]Certificate, error) {
	return s.Repo.Catalog(ctx)
}

// Enroll starts certID for userID. Enrolling twice returns the first enrollment.
func (s *Service) Enroll(ctx context.Context, userID, certID string) (UserCertificate, error) {
	if strings.TrimSpace(userID) == "" {
		return UserCertificate{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	cert, err := s.Repo.GetCertificate(ctx, strings.TrimSpace(certID))
	if err != nil {
		return UserCertificate{}, err
	}

	now := s.now()
	uc := UserCertificate{
		ID:            uuid.NewString(),
		UserID:        userID,
		CertificateID: cert.ID,
		Goals:         make([]UserGoal, 0, len(cert.Goals)),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, g := range cert.Goals {
		uc.Goals = append(uc.Goals, UserGoal{GoalID: g.ID})
	}
	recompute(&uc)

	stored, err := s.Repo.Enroll(ctx, uc)
	if err != nil {
		return UserCertificate{}, err
	}
	if stored.ID == uc.ID {
		telemetry.Info("certificate.enrolled", map[string]any{
			"user_id":        userID,
			"certificate_id": cert.ID,
			"user_cert_id":   uc.ID,
		})
	}
	return stored, nil
}

// Mine lists the user's enrollments.
func (s *Service) Mine(ctx context.Context, userID string) ([]UserCertificate, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	return s.Repo.ListByUser(ctx, userID)
}

// CompleteGoal records proof for a goal of the user's own enrollment.
// Resubmitting proof clears any earlier verification of that goal.
func (s *Service) CompleteGoal(ctx context.Context, userID, userCertID, goalID, proof string) (UserCertificate, error) {
	proof = strings.TrimSpace(proof)
	if proof == "" {
		return UserCertificate{}, fmt.Errorf("%w: proof required", ErrInvalidInput)
	}
	if len(proof) > maxProofLen {
		return UserCertificate{}, fmt.Errorf("%w: proof exceeds %d characters", ErrInvalidInput, maxProofLen)
	}

	uc, err := s.Repo.Mutate(ctx, userCertID, func(uc *UserCertificate) error {
		if uc.UserID != userID {
			return ErrNotFound
		}
		g := uc.goal(goalID)
		if g == nil {
			return fmt.Errorf("%w: goal %q", ErrNotFound, goalID)
		}
		now := s.now()
		if g.Proof != proof {
			g.Verified = false
			g.VerifiedAt = nil
		}
		g.Completed = true
		g.Proof = proof
		g.CompletedAt = &now
		uc.UpdatedAt = now
		recompute(uc)
		return nil
	})
	if err != nil {
		return UserCertificate{}, err
	}

	telemetry.Info("certificate.goal.completed", map[string]any{
		"user_id":        userID,
		"user_cert_id":   uc.ID,
		"certificate_id": uc.CertificateID,
		"goal_id":        goalID,
		"progress":       uc.Progress,
	})
	return uc, nil
}

// All lists every enrollment for admin review.
func (s *Service) All(ctx context.Context) ([]UserCertificate, error) {
	return s.Repo.ListAll(ctx)
}

// VerifyGoal marks a completed goal as verified.
func (s *Service) VerifyGoal(ctx context.Context, userCertID, goalID string) (UserCertificate, error) {
	uc, err := s.Repo.Mutate(ctx, userCertID, func(uc *UserCertificate) error {
		g := uc.goal(goalID)
		if g == nil {
			return fmt.Errorf("%w: goal %q", ErrNotFound, goalID)
		}
		if !g.Completed {
			return ErrNotCompleted
		}
		now := s.now()
		g.Verified = true
		g.VerifiedAt = &now
		uc.UpdatedAt = now
		recompute(uc)
		return nil
	})
	if err != nil {
		return UserCertificate{}, err
	}

	telemetry.Info("certificate.goal.verified", map[string]any{
		"user_id":        uc.UserID,
		"user_cert_id":   uc.ID,
		"certificate_id": uc.CertificateID,
		"goal_id":        goalID,
		"verified":       uc.Verified,
	})
	return uc, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
