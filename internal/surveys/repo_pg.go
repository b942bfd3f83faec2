package surveys

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, s Survey) error {
	const query = `
INSERT INTO surveys (
	user_id, full_name, email, gender, age_group, city, country,
	transport, energy, water, fuel, lifestyle, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (user_id) DO UPDATE SET
  full_name = EXCLUDED.full_name,
  email = EXCLUDED.email,
  gender = EXCLUDED.gender,
  age_group = EXCLUDED.age_group,
  city = EXCLUDED.city,
  country = EXCLUDED.country,
  transport = EXCLUDED.transport,
  energy = EXCLUDED.energy,
  water = EXCLUDED.water,
  fuel = EXCLUDED.fuel,
  lifestyle = EXCLUDED.lifestyle,
  updated_at = EXCLUDED.updated_at`

	sections, err := marshalSections(s)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		s.UserID,
		s.FullName,
		s.Email,
		s.Gender,
		s.AgeGroup,
		s.City,
		s.Country,
		sections[0],
		sections[1],
		sections[2],
		sections[3],
		sections[4],
		s.UpdatedAt,
	)
	return err
}

func (r *PGRepo) GetByUser(ctx context.Context, userID string) (Survey, error) {
	const query = `
SELECT user_id, full_name, email, gender, age_group, city, country,
       transport, energy, water, fuel, lifestyle, updated_at
FROM surveys
WHERE user_id = $1`
	s, err := scanSurvey(r.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Survey{}, ErrNotFound
		}
		return Survey{}, err
	}
	return s, nil
}

func (r *PGRepo) List(ctx context.Context) ([]Survey, error) {
	const query = `
SELECT user_id, full_name, email, gender, age_group, city, country,
       transport, energy, water, fuel, lifestyle, updated_at
FROM surveys
ORDER BY full_name, user_id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Survey{}
	for rows.Next() {
		s, err := scanSurvey(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSurvey(row rowScanner) (Survey, error) {
	var s Survey
	var transport, energy, water, fuel, lifestyle []byte
	if err := row.Scan(
		&s.UserID,
		&s.FullName,
		&s.Email,
		&s.Gender,
		&s.AgeGroup,
		&s.City,
		&s.Country,
		&transport,
		&energy,
		&water,
		&fuel,
		&lifestyle,
		&s.UpdatedAt,
	); err != nil {
		return Survey{}, err
	}
	for _, section := range []struct {
		name string
		raw  []byte
		dst  any
	}{
		{"transport", transport, &s.Transport},
		{"energy", energy, &s.Energy},
		{"water", water, &s.Water},
		{"fuel", fuel, &s.Fuel},
		{"lifestyle", lifestyle, &s.Lifestyle},
	} {
		if len(section.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(section.raw, section.dst); err != nil {
			return Survey{}, fmt.Errorf("decode %s: %w", section.name, err)
		}
	}
	return s, nil
}

func marshalSections(s Survey) ([5][]byte, error) {
	var out [5][]byte
	for i, v := range []any{s.Transport, s.Energy, s.Water, s.Fuel, s.Lifestyle} {
		b, err := json.Marshal(v)
		if err != nil {
			return out, err
		}
		out[i] = b
	}
	return out, nil
}
