package products

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"ecotrack-backend/internal/ecoscore"
	"ecotrack-backend/internal/inference"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `
SELECT id, user_id, image_key, image_url, mime_type, size_bytes, product_description,
       material, size_class, width, height, impact_score, emissions_kg,
       recommendations, insight, inference_error, metadata_fallback, created_at
FROM product_analyses`

// Create inserts a new analysis.
func (r *PGRepo) Create(ctx context.Context, a Analysis) error {
	const query = `
INSERT INTO product_analyses (
	id, user_id, image_key, image_url, mime_type, size_bytes, product_description,
	material, size_class, width, height, impact_score, emissions_kg,
	recommendations, insight, inference_error, metadata_fallback, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	recs := a.Recommendations
	if recs == nil {
		recs = []ecoscore.Recommendation{}
	}
	recsPayload, err := json.Marshal(recs)
	if err != nil {
		return err
	}
	insightPayload, err := json.Marshal(a.Insight)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, query,
		a.ID,
		a.UserID,
		a.ImageKey,
		nullString(a.ImageURL),
		a.MimeType,
		a.SizeBytes,
		nullString(a.ProductDescription),
		string(a.Material),
		string(a.Size),
		a.Dimensions.Width,
		a.Dimensions.Height,
		a.ImpactScore,
		a.EmissionsKg,
		recsPayload,
		insightPayload,
		nullString(a.InferenceError),
		a.MetadataFallback,
		a.CreatedAt,
	)
	return err
}

// GetByID returns an analysis owned by userID.
func (r *PGRepo) GetByID(ctx context.Context, userID, analysisID string) (Analysis, error) {
	query := selectColumns + `
WHERE id = $1 AND user_id = $2
LIMIT 1`
	a, err := scanAnalysis(r.DB.QueryRowContext(ctx, query, analysisID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	return a, nil
}

// ListByUser lists analyses for a user ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	query := selectColumns + `
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountByUser returns the number of analyses stored for a user.
func (r *PGRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM product_analyses WHERE user_id = $1`
	var n int
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var imageURL sql.NullString
	var description sql.NullString
	var material string
	var size string
	var recs []byte
	var insight []byte
	var inferenceError sql.NullString
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.ImageKey,
		&imageURL,
		&a.MimeType,
		&a.SizeBytes,
		&description,
		&material,
		&size,
		&a.Dimensions.Width,
		&a.Dimensions.Height,
		&a.ImpactScore,
		&a.EmissionsKg,
		&recs,
		&insight,
		&inferenceError,
		&a.MetadataFallback,
		&a.CreatedAt,
	)
	if err != nil {
		return Analysis{}, err
	}
	a.Material = ecoscore.Material(material)
	a.Size = ecoscore.SizeClass(size)
	if imageURL.Valid {
		a.ImageURL = imageURL.String
	}
	if description.Valid {
		a.ProductDescription = description.String
	}
	if inferenceError.Valid {
		a.InferenceError = inferenceError.String
	}
	if len(recs) > 0 {
		if err := json.Unmarshal(recs, &a.Recommendations); err != nil {
			a.Recommendations = nil
		}
	}
	if len(insight) > 0 {
		if err := json.Unmarshal(insight, &a.Insight); err != nil {
			a.Insight = inference.DefaultInsight()
		}
	}
	return a, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
