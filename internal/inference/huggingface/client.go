package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ecotrack-backend/internal/inference"
)

// DefaultModelURL is the hosted inference endpoint used when none is configured.
const DefaultModelURL = "https://api-inference.huggingface.co/models/google/gemma-3-4b-it"

const (
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 512
)

// Client implements inference.Client against the Hugging Face Inference API.
type Client struct {
	token      string
	modelURL   string
	httpClient *http.Client
}

// NewClient constructs a client. A nil httpClient gets a 30s timeout.
func NewClient(token, modelURL string, httpClient *http.Client) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("HUGGINGFACE_API_TOKEN is required")
	}
	if strings.TrimSpace(modelURL) == "" {
		modelURL = DefaultModelURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{token: token, modelURL: modelURL, httpClient: httpClient}, nil
}

type request struct {
	Inputs string `json:"inputs"`
}

type prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Identify sends imageURL to the model and maps the top prediction to an insight.
func (c *Client) Identify(ctx context.Context, imageURL string) (inference.Insight, error) {
	payload, err := json.Marshal(request{Inputs: imageURL})
	if err != nil {
		return inference.DefaultInsight(), err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.modelURL, bytes.NewReader(payload))
	if err != nil {
		return inference.DefaultInsight(), err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return inference.DefaultInsight(), fmt.Errorf("huggingface request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return inference.DefaultInsight(), fmt.Errorf("huggingface read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return inference.DefaultInsight(), fmt.Errorf("%w: status %d", inference.ErrAccessDenied, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return inference.DefaultInsight(), &inference.StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body))}
	}

	var preds []prediction
	if err := json.Unmarshal(body, &preds); err != nil {
		return inference.DefaultInsight(), fmt.Errorf("huggingface response parse: %w", err)
	}
	if len(preds) == 0 {
		return inference.DefaultInsight(), inference.ErrEmptyResponse
	}

	insight := inference.DefaultInsight()
	if label := strings.TrimSpace(preds[0].Label); label != "" {
		insight.ItemName = label
	}
	return insight, nil
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxErrorBody {
		return s[:maxErrorBody]
	}
	return s
}

var _ inference.Client = (*Client)(nil)
