package surveys

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

// Service validates and stores lifestyle surveys.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// FieldError lists the fields rejected by Save.
type FieldError struct {
	Fields []string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid fields: %s", strings.Join(e.Fields, ", "))
}

func (e *FieldError) Unwrap() error { return ErrInvalidInput }

// Save normalizes and stores the survey for userID, replacing any previous one.
func (s *Service) Save(ctx context.Context, userID string, in Survey) (Survey, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Survey{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}

	out := normalize(in)
	out.UserID = userID

	var bad []string
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"transport.weeklyDistance", out.Transport.WeeklyDistance},
		{"transport.carFuelEfficiency", out.Transport.CarFuelEfficiency},
		{"transport.flightTravel", out.Transport.FlightTravel},
		{"energy.electricity", out.Energy.Electricity},
		{"water.usage", out.Water.Usage},
		{"fuel.gasUsage", out.Fuel.GasUsage},
	} {
		if f.value < 0 || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			bad = append(bad, f.name)
		}
	}
	if len(bad) > 0 {
		return Survey{}, &FieldError{Fields: bad}
	}

	out.UpdatedAt = s.now()
	if err := s.Repo.Upsert(ctx, out); err != nil {
		return Survey{}, err
	}
	return out, nil
}

// Get returns the user's survey or ErrNotFound.
func (s *Service) Get(ctx context.Context, userID string) (Survey, error) {
	if strings.TrimSpace(userID) == "" {
		return Survey{}, ErrNotFound
	}
	return s.Repo.GetByUser(ctx, userID)
}

// Compare lists every user's name and transport habits.
func (s *Service) Compare(ctx context.Context) ([]Comparison, error) {
	all, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Comparison, 0, len(all))
	for _, sv := range all {
		out = append(out, Comparison{
			UserID:    sv.UserID,
			FullName:  sv.FullName,
			Transport: sv.Transport,
		})
	}
	return out, nil
}

func normalize(in Survey) Survey {
	out := in
	out.FullName = strings.TrimSpace(in.FullName)
	out.Email = strings.ToLower(strings.TrimSpace(in.Email))
	out.Gender = strings.TrimSpace(in.Gender)
	out.AgeGroup = strings.TrimSpace(in.AgeGroup)
	out.City = strings.TrimSpace(in.City)
	out.Country = strings.TrimSpace(in.Country)
	out.Transport.PrimaryMode = strings.TrimSpace(in.Transport.PrimaryMode)
	out.Transport.CarFuelType = strings.TrimSpace(in.Transport.CarFuelType)
	out.Energy.PrimarySource = strings.TrimSpace(in.Energy.PrimarySource)
	out.Fuel.CookingFuelType = strings.TrimSpace(in.Fuel.CookingFuelType)

	modes := make([]string, 0, len(in.Transport.OtherModes))
	seen := make(map[string]struct{}, len(in.Transport.OtherModes))
	for _, m := range in.Transport.OtherModes {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		modes = append(modes, m)
	}
	out.Transport.OtherModes = modes
	return out
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
