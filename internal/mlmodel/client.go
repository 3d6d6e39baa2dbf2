// Package mlmodel talks to the external model-serving service. The
// service owns feature extraction and inference; this client only ships
// the target over and reads the probability back.
package mlmodel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Asizxs33/PHISHGUARD/internal/analyzer"
)

const (
	defaultTimeout = 3 * time.Second
	maxRespBytes   = 1 << 20
)

// Client implements analyzer.Predictor against the model service's HTTP
// API. Keep the timeout short: the heuristic result must not wait long
// for a prediction that may never come.
type Client struct {
	baseURL string
	kind    string // "url" or "phone", selects the endpoint
	client  *http.Client
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.client = h }
}

// NewURLClient predicts phishing probability for URLs.
func NewURLClient(baseURL string, opts ...Option) *Client {
	return newClient(baseURL, "url", opts...)
}

// NewPhoneClient predicts scam probability for phone numbers.
func NewPhoneClient(baseURL string, opts ...Option) *Client {
	return newClient(baseURL, "phone", opts...)
}

func newClient(baseURL, kind string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		kind:    kind,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type predictRequest struct {
	Target string `json:"target"`
}

type predictResponse struct {
	Score       float64        `json:"score"`
	Label       string         `json:"label"`
	Explanation map[string]any `json:"explanation,omitempty"`
}

// Predict calls the model service. Errors are returned as-is; the engine
// treats any error as "no prediction" and proceeds heuristic-only.
func (c *Client) Predict(ctx context.Context, target string) (*analyzer.Prediction, error) {
	body, err := json.Marshal(predictRequest{Target: target})
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/predict/%s", c.baseURL, c.kind)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model service: status %d", resp.StatusCode)
	}

	var pr predictResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxRespBytes)).Decode(&pr); err != nil {
		return nil, fmt.Errorf("model service: decode: %w", err)
	}
	if pr.Score < 0 || pr.Score > 1 {
		return nil, fmt.Errorf("model service: score %v out of range", pr.Score)
	}

	return &analyzer.Prediction{
		Score:       pr.Score,
		Label:       pr.Label,
		Explanation: pr.Explanation,
	}, nil
}
