// Package certificates tracks user progress toward sustainability
// certificates. Each certificate is a list of goals. A user completes a goal
// by submitting proof and an admin verifies it.
package certificates

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotCompleted is returned when verifying a goal that has no proof yet.
	ErrNotCompleted = errors.New("goal not completed")
)

type Certificate struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Goals        []Goal   `json:"goals"`
	Requirements []string `json:"requirements"`
}

type Goal struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UserCertificate is one user's enrollment in a certificate. Progress,
// Eligible and Verified are derived from Goals by recompute.
type UserCertificate struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	CertificateID string     `json:"certificateId"`
	Goals         []UserGoal `json:"goals"`
	Progress      int        `json:"progress"`
	Eligible      bool       `json:"eligible"`
	Verified      bool       `json:"verified"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type UserGoal struct {
	GoalID      string     `json:"goalId"`
	Completed   bool       `json:"completed"`
	Proof       string     `json:"proof,omitempty"`
	Verified    bool       `json:"verified"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	VerifiedAt  *time.Time `json:"verifiedAt,omitempty"`
}

func (uc *UserCertificate) goal(goalID string) *UserGoal {
	for i := range uc.Goals {
		if uc.Goals[i].GoalID == goalID {
			return &uc.Goals[i]
		}
	}
	return nil
}

func (uc UserCertificate) clone() UserCertificate {
	out := uc
	out.Goals = make([]UserGoal, len(uc.Goals))
	copy(out.Goals, uc.Goals)
	return out
}
