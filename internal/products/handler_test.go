package products

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"ecotrack-backend/internal/ecoscore"
)

func newTestRouter(t *testing.T, maxUpload int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _, _ := setupService(t, nil)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			c.Set("userId", id)
		}
		c.Next()
	})
	NewHandler(svc, maxUpload).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func multipartImage(t *testing.T, field, name string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestHandlerAnalyzeHistoryAndGet(t *testing.T) {
	router := newTestRouter(t, 0)

	body, contentType := multipartImage(t, "image", "chair.png", pngBytes(t, 1600, 1600))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/products", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Test-User", "user-1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created AnalysisResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.AnalysisID == "" || created.Size != ecoscore.SizeLarge {
		t.Fatalf("unexpected analysis: %+v", created)
	}

	reqHist := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/history?page=1&limit=5", nil)
	reqHist.Header.Set("X-Test-User", "user-1")
	respHist := httptest.NewRecorder()
	router.ServeHTTP(respHist, reqHist)
	if respHist.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", respHist.Code)
	}
	var hist HistoryResponse
	if err := json.NewDecoder(respHist.Body).Decode(&hist); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(hist.Items) != 1 || hist.Pagination != (Pagination{Total: 1, Page: 1, Pages: 1, Limit: 5}) {
		t.Fatalf("unexpected history: %+v", hist)
	}

	reqGet := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/"+created.AnalysisID, nil)
	reqGet.Header.Set("X-Test-User", "user-1")
	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, reqGet)
	if respGet.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", respGet.Code)
	}

	reqOther := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/"+created.AnalysisID, nil)
	reqOther.Header.Set("X-Test-User", "user-2")
	respOther := httptest.NewRecorder()
	router.ServeHTTP(respOther, reqOther)
	if respOther.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for other user, got %d", respOther.Code)
	}
}

func TestHandlerAnalyzeRequiresImageField(t *testing.T) {
	router := newTestRouter(t, 0)

	body, contentType := multipartImage(t, "file", "chair.png", pngBytes(t, 10, 10))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/products", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Test-User", "user-1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "validation_error") {
		t.Fatalf("expected validation_error, got %s", resp.Body.String())
	}
}

func TestHandlerAnalyzeRejectsOversizedUpload(t *testing.T) {
	router := newTestRouter(t, 1024)

	body, contentType := multipartImage(t, "image", "big.png", bytes.Repeat([]byte{0xff}, 4096))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/products", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Test-User", "user-1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestHandlerScore(t *testing.T) {
	router := newTestRouter(t, 0)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantImpact float64
	}{
		{name: "explicit material", body: `{"material":"Metal","size":"large"}`, wantStatus: http.StatusOK, wantImpact: 7.9},
		{name: "metadata", body: `{"width":100,"height":100,"fileSizeKb":50,"colorCount":3}`, wantStatus: http.StatusOK},
		{name: "unknown material", body: `{"material":"plutonium","size":"small"}`, wantStatus: http.StatusBadRequest},
		{name: "negative", body: `{"width":-1}`, wantStatus: http.StatusBadRequest},
		{name: "malformed", body: `{`, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/score", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Test-User", "user-1")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, resp.Code, resp.Body.String())
			}
			if tt.wantImpact == 0 {
				return
			}
			var res ecoscore.Result
			if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if res.ImpactScore != tt.wantImpact {
				t.Fatalf("expected impact %.1f, got %.1f", tt.wantImpact, res.ImpactScore)
			}
		})
	}
}
