package users

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, user User) (User, error) {
	const query = `
INSERT INTO users (id, email, name, picture, role, created_at, last_login)
VALUES ($1, $2, $3, $4, $5, now(), now())
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  name = EXCLUDED.name,
  picture = EXCLUDED.picture,
  role = EXCLUDED.role,
  last_login = now()
RETURNING created_at, last_login`
	err := r.DB.QueryRowContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.Picture,
		user.Role,
	).Scan(&user.CreatedAt, &user.LastLogin)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `
SELECT id, email, name, picture, role, created_at, last_login
FROM users
WHERE id = $1
LIMIT 1`
	var user User
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Picture,
		&user.Role,
		&user.CreatedAt,
		&user.LastLogin,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}
