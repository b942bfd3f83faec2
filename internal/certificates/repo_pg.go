package certificates

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

const userCertColumns = `id, user_id, certificate_id, goals, progress, eligible, verified, created_at, updated_at`

func (r *PGRepo) Catalog(ctx context.Context) ([]Certificate, error) {
	const query = `
SELECT id, name, description, goals, requirements
FROM certificates
ORDER BY position, id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Certificate{}
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetCertificate(ctx context.Context, certID string) (Certificate, error) {
	const query = `
SELECT id, name, description, goals, requirements
FROM certificates
WHERE id = $1`
	c, err := scanCertificate(r.DB.QueryRowContext(ctx, query, certID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Certificate{}, ErrNotFound
		}
		return Certificate{}, err
	}
	return c, nil
}

func (r *PGRepo) Enroll(ctx context.Context, uc UserCertificate) (UserCertificate, error) {
	const insert = `
INSERT INTO user_certificates (` + userCertColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (user_id, certificate_id) DO NOTHING`
	const selectExisting = `
SELECT ` + userCertColumns + `
FROM user_certificates
WHERE user_id = $1 AND certificate_id = $2`

	goals, err := json.Marshal(uc.Goals)
	if err != nil {
		return UserCertificate{}, err
	}
	if _, err := r.DB.ExecContext(ctx, insert,
		uc.ID,
		uc.UserID,
		uc.CertificateID,
		goals,
		uc.Progress,
		uc.Eligible,
		uc.Verified,
		uc.CreatedAt,
		uc.UpdatedAt,
	); err != nil {
		return UserCertificate{}, err
	}
	return scanUserCertificate(r.DB.QueryRowContext(ctx, selectExisting, uc.UserID, uc.CertificateID))
}

func (r *PGRepo) GetUserCertificate(ctx context.Context, userCertID string) (UserCertificate, error) {
	const query = `
SELECT ` + userCertColumns + `
FROM user_certificates
WHERE id = $1`
	uc, err := scanUserCertificate(r.DB.QueryRowContext(ctx, query, userCertID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UserCertificate{}, ErrNotFound
		}
		return UserCertificate{}, err
	}
	return uc, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]UserCertificate, error) {
	const query = `
SELECT ` + userCertColumns + `
FROM user_certificates
WHERE user_id = $1
ORDER BY created_at, id`
	return r.queryUserCertificates(ctx, query, userID)
}

func (r *PGRepo) ListAll(ctx context.Context) ([]UserCertificate, error) {
	const query = `
SELECT ` + userCertColumns + `
FROM user_certificates
ORDER BY created_at, id`
	return r.queryUserCertificates(ctx, query)
}

func (r *PGRepo) Mutate(ctx context.Context, userCertID string, fn func(*UserCertificate) error) (UserCertificate, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return UserCertificate{}, err
	}
	defer tx.Rollback()

	const lock = `
SELECT ` + userCertColumns + `
FROM user_certificates
WHERE id = $1
FOR UPDATE`
	uc, err := scanUserCertificate(tx.QueryRowContext(ctx, lock, userCertID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UserCertificate{}, ErrNotFound
		}
		return UserCertificate{}, err
	}
	if err := fn(&uc); err != nil {
		return UserCertificate{}, err
	}

	goals, err := json.Marshal(uc.Goals)
	if err != nil {
		return UserCertificate{}, err
	}
	const update = `
UPDATE user_certificates
SET goals = $2, progress = $3, eligible = $4, verified = $5, updated_at = $6
WHERE id = $1`
	if _, err := tx.ExecContext(ctx, update,
		uc.ID,
		goals,
		uc.Progress,
		uc.Eligible,
		uc.Verified,
		uc.UpdatedAt,
	); err != nil {
		return UserCertificate{}, err
	}
	if err := tx.Commit(); err != nil {
		return UserCertificate{}, err
	}
	return uc, nil
}

func (r *PGRepo) queryUserCertificates(ctx context.Context, query string, args ...any) ([]UserCertificate, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []UserCertificate{}
	for rows.Next() {
		uc, err := scanUserCertificate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, uc)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCertificate(row rowScanner) (Certificate, error) {
	var c Certificate
	var goals, requirements []byte
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &goals, &requirements); err != nil {
		return Certificate{}, err
	}
	if err := json.Unmarshal(goals, &c.Goals); err != nil {
		return Certificate{}, fmt.Errorf("decode goals for %s: %w", c.ID, err)
	}
	if err := json.Unmarshal(requirements, &c.Requirements); err != nil {
		return Certificate{}, fmt.Errorf("decode requirements for %s: %w", c.ID, err)
	}
	return c, nil
}

func scanUserCertificate(row rowScanner) (UserCertificate, error) {
	var uc UserCertificate
	var goals []byte
	if err := row.Scan(
		&uc.ID,
		&uc.UserID,
		&uc.CertificateID,
		&goals,
		&uc.Progress,
		&uc.Eligible,
		&uc.Verified,
		&uc.CreatedAt,
		&uc.UpdatedAt,
	); err != nil {
		return UserCertificate{}, err
	}
	if len(goals) > 0 {
		if err := json.Unmarshal(goals, &uc.Goals); err != nil {
			return UserCertificate{}, fmt.Errorf("decode goals for %s: %w", uc.ID, err)
		}
	}
	return uc, nil
}
