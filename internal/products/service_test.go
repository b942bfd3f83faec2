package products

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ecotrack-backend/internal/ecoscore"
	"ecotrack-backend/internal/inference"
	"ecotrack-backend/internal/shared/storage/object/local"
)

type staticInference struct {
	insight inference.Insight
	err     error
	calls   int
	lastURL string
}

func (s *staticInference) Identify(ctx context.Context, imageURL string) (inference.Insight, error) {
	s.calls++
	s.lastURL = imageURL
	if s.err != nil {
		return inference.Insight{}, s.err
	}
	return s.insight, nil
}

type failingRepo struct {
	*MemoryRepo
}

func (failingRepo) Create(ctx context.Context, a Analysis) error {
	return errors.New("db down")
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{R: 200, G: 30, B: 30, A: 255}
			if x >= w/2 {
				c = color.RGBA{R: 20, G: 20, B: 220, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", dir, err)
	}
	return n
}

// prefixedStore publishes objects under a key prefix like the S3 store does.
type prefixedStore struct {
	*local.Store
	prefix string
}

func (p prefixedStore) PublicPath(key string) string {
	return p.prefix + "/" + key
}

func setupService(t *testing.T, client inference.Client) (*Service, *MemoryRepo, string) {
	t.Helper()
	dir := t.TempDir()
	repo := NewMemoryRepo()
	svc := &Service{
		Store:         local.New(dir),
		Repo:          repo,
		Analyzer:      ecoscore.Analyzer{Intn: func(int) int { return 2 }},
		Inference:     client,
		PublicBaseURL: "https://cdn.test",
	}
	return svc, repo, dir
}

func TestAnalyzeScoresImageAndStoresInsight(t *testing.T) {
	client := &staticInference{insight: inference.Insight{ItemName: "water bottle", Brand: "Acme"}}
	svc, repo, _ := setupService(t, client)

	a, err := svc.Analyze(context.Background(), "user-1", "bottle.png", bytes.NewReader(pngBytes(t, 1200, 400)))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if a.MetadataFallback {
		t.Fatalf("expected metadata to be extracted")
	}
	if a.Dimensions != (ecoscore.Dimensions{Width: 1200, Height: 400}) {
		t.Fatalf("unexpected dimensions: %+v", a.Dimensions)
	}
	if want := ecoscore.EstimateSize(1200, 400).Size; a.Size != want {
		t.Fatalf("expected size %s, got %s", want, a.Size)
	}
	if want := ecoscore.ComputeImpactScore(a.Material, a.Size); a.ImpactScore != want {
		t.Fatalf("expected impact %.1f, got %.1f", want, a.ImpactScore)
	}
	if a.MimeType != "image/png" {
		t.Fatalf("expected image/png, got %q", a.MimeType)
	}
	if a.ProductDescription != "water bottle" || a.Insight.Brand != "Acme" {
		t.Fatalf("unexpected insight: %+v", a.Insight)
	}
	if a.InferenceError != "" {
		t.Fatalf("unexpected inference error: %q", a.InferenceError)
	}
	if client.lastURL != "https://cdn.test/"+a.ImageKey {
		t.Fatalf("unexpected inference url: %q", client.lastURL)
	}
	if len(a.Recommendations) == 0 {
		t.Fatalf("expected recommendations")
	}

	stored, err := repo.GetByID(context.Background(), "user-1", a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.ImageKey != a.ImageKey {
		t.Fatalf("stored analysis mismatch")
	}
}

func TestAnalyzeRejectsNonImage(t *testing.T) {
	svc, repo, dir := setupService(t, &staticInference{})

	_, err := svc.Analyze(context.Background(), "user-1", "notes.txt", bytes.NewReader([]byte("plain text content")))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if n := countFiles(t, dir); n != 0 {
		t.Fatalf("expected uploaded object to be removed, found %d files", n)
	}
	if n, _ := repo.CountByUser(context.Background(), "user-1"); n != 0 {
		t.Fatalf("expected no stored analyses, got %d", n)
	}
}

func TestAnalyzeRejectsEmptyFileName(t *testing.T) {
	svc, _, _ := setupService(t, &staticInference{})

	_, err := svc.Analyze(context.Background(), "user-1", "  ", bytes.NewReader(pngBytes(t, 4, 4)))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAnalyzeFallsBackWhenMetadataUnreadable(t *testing.T) {
	svc, _, _ := setupService(t, &staticInference{insight: inference.DefaultInsight()})

	truncated := pngBytes(t, 64, 64)[:40]
	a, err := svc.Analyze(context.Background(), "user-1", "broken.png", bytes.NewReader(truncated))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !a.MetadataFallback {
		t.Fatalf("expected metadata fallback")
	}
	if a.Material != ecoscore.Metal || a.Size != ecoscore.SizeMedium {
		t.Fatalf("expected metal/medium fallback, got %s/%s", a.Material, a.Size)
	}
	if a.ImpactScore != 5.6 || a.EmissionsKg != 145 {
		t.Fatalf("unexpected fallback score: %.1f / %d", a.ImpactScore, a.EmissionsKg)
	}
}

func TestAnalyzeKeepsDefaultInsightOnInferenceFailure(t *testing.T) {
	client := &staticInference{err: &inference.StatusError{StatusCode: 503, Body: "secret upstream detail"}}
	svc, _, _ := setupService(t, client)

	a, err := svc.Analyze(context.Background(), "user-1", "item.png", bytes.NewReader(pngBytes(t, 300, 300)))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if a.Insight.ItemName != inference.UnknownProduct {
		t.Fatalf("expected default insight, got %+v", a.Insight)
	}
	if a.InferenceError != "inference returned status 503" {
		t.Fatalf("unexpected inference error: %q", a.InferenceError)
	}
}

func TestAnalyzeWithoutInferenceClient(t *testing.T) {
	svc, _, _ := setupService(t, nil)

	a, err := svc.Analyze(context.Background(), "user-1", "item.png", bytes.NewReader(pngBytes(t, 300, 300)))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if a.InferenceError != "inference not configured" {
		t.Fatalf("unexpected inference error: %q", a.InferenceError)
	}
}

func TestAnalyzeSkipsInferenceWithoutPublicURL(t *testing.T) {
	client := &staticInference{insight: inference.Insight{ItemName: "never"}}
	svc, _, _ := setupService(t, client)
	svc.PublicBaseURL = ""

	a, err := svc.Analyze(context.Background(), "user-1", "item.png", bytes.NewReader(pngBytes(t, 300, 300)))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if client.calls != 0 {
		t.Fatalf("expected inference to be skipped, got %d calls", client.calls)
	}
	if a.ImageURL != "" || a.InferenceError != "image url unavailable" {
		t.Fatalf("unexpected url/error: %q / %q", a.ImageURL, a.InferenceError)
	}
}

func TestAnalyzeRemovesObjectWhenRepoFails(t *testing.T) {
	svc, _, dir := setupService(t, &staticInference{})
	svc.Repo = failingRepo{NewMemoryRepo()}

	if _, err := svc.Analyze(context.Background(), "user-1", "item.png", bytes.NewReader(pngBytes(t, 50, 50))); err == nil {
		t.Fatalf("expected error")
	}
	if n := countFiles(t, dir); n != 0 {
		t.Fatalf("expected uploaded object to be removed, found %d files", n)
	}
}

func TestHistoryPaginatesNewestFirst(t *testing.T) {
	svc, repo, _ := setupService(t, nil)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a-1", "a-2", "a-3"} {
		if err := repo.Create(context.Background(), Analysis{
			ID:        id,
			UserID:    "user-1",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	items, page, err := svc.History(context.Background(), "user-1", 1, 2)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(items) != 2 || items[0].ID != "a-3" || items[1].ID != "a-2" {
		t.Fatalf("unexpected first page: %+v", items)
	}
	if page != (Pagination{Total: 3, Page: 1, Pages: 2, Limit: 2}) {
		t.Fatalf("unexpected pagination: %+v", page)
	}

	items, page, err = svc.History(context.Background(), "user-1", 2, 2)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(items) != 1 || items[0].ID != "a-1" || page.Page != 2 {
		t.Fatalf("unexpected second page: %+v %+v", items, page)
	}
}

func TestHistoryClampsLimit(t *testing.T) {
	svc, _, _ := setupService(t, nil)

	items, page, err := svc.History(context.Background(), "user-1", 0, 500)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty history")
	}
	if page != (Pagination{Total: 0, Page: 1, Pages: 0, Limit: 50}) {
		t.Fatalf("unexpected pagination: %+v", page)
	}
}

func TestGetIsOwnerScoped(t *testing.T) {
	svc, repo, _ := setupService(t, nil)
	if err := repo.Create(context.Background(), Analysis{ID: "a-1", UserID: "owner", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Get(context.Background(), "owner", "a-1"); err != nil {
		t.Fatalf("owner Get: %v", err)
	}
	if _, err := svc.Get(context.Background(), "intruder", "a-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}
}

func TestAnalyzeBuildsEscapedPrefixedImageURL(t *testing.T) {
	client := &staticInference{insight: inference.Insight{ItemName: "mug"}}
	svc, _, dir := setupService(t, client)
	svc.Store = prefixedStore{Store: local.New(dir), prefix: "images"}
	svc.PublicBaseURL = "https://cdn.test/"

	a, err := svc.Analyze(context.Background(), "user-1", "my mug#1.png", bytes.NewReader(pngBytes(t, 64, 64)))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	ns, name, ok := strings.Cut(a.ImageKey, "/")
	if !ok {
		t.Fatalf("unexpected image key %q", a.ImageKey)
	}
	want := "https://cdn.test/images/" + ns + "/" + strings.ReplaceAll(strings.ReplaceAll(name, " ", "%20"), "#", "%23")
	if client.lastURL != want {
		t.Fatalf("expected inference url %q, got %q", want, client.lastURL)
	}
	if a.ImageURL != want {
		t.Fatalf("expected stored image url %q, got %q", want, a.ImageURL)
	}
}
