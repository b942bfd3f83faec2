package products

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"ecotrack-backend/internal/ecoscore"
	"ecotrack-backend/internal/imagemeta"
	"ecotrack-backend/internal/inference"
	"ecotrack-backend/internal/shared/metrics"
	"ecotrack-backend/internal/shared/storage/object"
	"ecotrack-backend/internal/shared/telemetry"
	"ecotrack-backend/internal/shared/util"
)

// Service runs product analyses and serves a user's history.
type Service struct {
	Store    object.ObjectStore
	Repo     Repo
	Analyzer ecoscore.Analyzer
	// Inference identifies the product. Nil stores the default insight.
	Inference inference.Client
	// PublicBaseURL prefixes storage keys to build the URL handed to Inference.
	PublicBaseURL string
	Now           func() time.Time
}

// Analyze stores the uploaded image, scores it and records the analysis.
// Inference failures are recorded on the analysis and never fail the call.
func (s *Service) Analyze(ctx context.Context, userID, fileName string, r io.Reader) (Analysis, error) {
	if userID == "" {
		return Analysis{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return Analysis{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	start := time.Now()
	metrics.IncProductAnalysisStarted()

	key, size, mimeType, err := s.Store.Save(ctx, userID, name, r)
	if err != nil {
		metrics.IncProductAnalysisFailed()
		return Analysis{}, fmt.Errorf("save image: %w", err)
	}
	if !util.IsImageMime(mimeType) {
		s.discard(ctx, key)
		metrics.IncProductAnalysisFailed()
		return Analysis{}, fmt.Errorf("%w: unsupported image type %q", ErrInvalidInput, mimeType)
	}

	md := s.readMetadata(ctx, key, size)
	res := s.Analyzer.Analyze(md)

	a := Analysis{
		ID:               uuid.NewString(),
		UserID:           userID,
		ImageKey:         key,
		ImageURL:         s.imageURL(key),
		MimeType:         mimeType,
		SizeBytes:        size,
		Material:         res.Material,
		Size:             res.Size,
		Dimensions:       res.Dimensions,
		ImpactScore:      res.ImpactScore,
		EmissionsKg:      res.EmissionsKg,
		Recommendations:  res.Recommendations,
		MetadataFallback: md == nil,
		CreatedAt:        s.now(),
	}
	a.Insight, a.InferenceError = s.identify(ctx, a.ImageURL)
	a.ProductDescription = a.Insight.ItemName

	if err := s.Repo.Create(ctx, a); err != nil {
		s.discard(ctx, key)
		metrics.IncProductAnalysisFailed()
		return Analysis{}, fmt.Errorf("record analysis: %w", err)
	}

	metrics.IncProductAnalysisCompleted()
	metrics.ObserveProductAnalysisDurationMs(metrics.SinceMillis(start))
	telemetry.Info("product.analysis.completed", map[string]any{
		"analysis_id":       a.ID,
		"user_id":           userID,
		"material":          string(a.Material),
		"size":              string(a.Size),
		"impact_score":      a.ImpactScore,
		"emissions_kg":      a.EmissionsKg,
		"metadata_fallback": a.MetadataFallback,
		"inference_error":   a.InferenceError,
		"duration_ms":       metrics.SinceMillis(start),
	})
	return a, nil
}

// History returns one page of a user's analyses, newest first.
func (s *Service) History(ctx context.Context, userID string, page, limit int) ([]Analysis, Pagination, error) {
	if userID == "" {
		return nil, Pagination{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	if page < 1 {
		page = util.DefaultPage
	}
	if limit < 1 {
		limit = util.DefaultLimit
	}
	if limit > util.MaxLimit {
		limit = util.MaxLimit
	}

	total, err := s.Repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, Pagination{}, err
	}
	items, err := s.Repo.ListByUser(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, Pagination{}, err
	}
	return items, Pagination{
		Total: total,
		Page:  page,
		Pages: util.Pages(total, limit),
		Limit: limit,
	}, nil
}

// Get returns a single analysis. Analyses owned by other users are ErrNotFound.
func (s *Service) Get(ctx context.Context, userID, analysisID string) (Analysis, error) {
	if userID == "" || analysisID == "" {
		return Analysis{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID, analysisID)
}

// Score runs the scorer on caller-supplied metadata without storing anything.
func (s *Service) Score(md *ecoscore.Metadata) ecoscore.Result {
	return s.Analyzer.Analyze(md)
}

func (s *Service) readMetadata(ctx context.Context, key string, size int64) *ecoscore.Metadata {
	rc, err := s.Store.Open(ctx, key)
	if err != nil {
		s.metadataFallback(key, err)
		return nil
	}
	defer rc.Close()

	md, err := imagemeta.Extract(rc, size)
	if err != nil {
		s.metadataFallback(key, err)
		return nil
	}
	return &md
}

func (s *Service) metadataFallback(key string, err error) {
	metrics.IncMetadataFallback()
	telemetry.Warn("product.metadata.unavailable", map[string]any{
		"image_key": key,
		"error":     err,
	})
}

func (s *Service) identify(ctx context.Context, imageURL string) (inference.Insight, string) {
	if s.Inference == nil {
		return inference.DefaultInsight(), describeInferenceError(inference.ErrNotConfigured)
	}
	if imageURL == "" {
		return inference.DefaultInsight(), "image url unavailable"
	}
	insight, err := s.Inference.Identify(ctx, imageURL)
	if err != nil {
		metrics.IncInferenceFailures()
		telemetry.Warn("inference.failed", map[string]any{
			"image_url": imageURL,
			"error":     err,
		})
		return inference.DefaultInsight(), describeInferenceError(err)
	}
	return insight, ""
}

// describeInferenceError returns a client-safe message; provider bodies are never exposed.
func describeInferenceError(err error) string {
	var statusErr *inference.StatusError
	switch {
	case errors.Is(err, inference.ErrNotConfigured):
		return "inference not configured"
	case errors.Is(err, inference.ErrAccessDenied):
		return "inference access denied"
	case errors.Is(err, inference.ErrEmptyResponse):
		return "inference returned no predictions"
	case errors.Is(err, context.DeadlineExceeded):
		return "inference timed out"
	case errors.Is(err, context.Canceled):
		return "inference canceled"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("inference returned status %d", statusErr.StatusCode)
	default:
		return "inference unavailable"
	}
}

// imageURL maps a storage key to the public URL of the object. Each path
// segment is escaped; the store's own prefix is applied when it has one.
func (s *Service) imageURL(key string) string {
	if s.PublicBaseURL == "" {
		return ""
	}
	objectPath := key
	if loc, ok := s.Store.(object.Locator); ok {
		objectPath = loc.PublicPath(key)
	}
	segments := strings.Split(strings.TrimLeft(objectPath, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.TrimRight(s.PublicBaseURL, "/") + "/" + strings.Join(segments, "/")
}

func (s *Service) discard(ctx context.Context, key string) {
	if err := s.Store.Delete(context.WithoutCancel(ctx), key); err != nil {
		telemetry.Warn("product.image.cleanup_failed", map[string]any{
			"image_key": key,
			"error":     err,
		})
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
