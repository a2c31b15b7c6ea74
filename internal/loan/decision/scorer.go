// internal/loan/decision/scorer.go
package decision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrScoringUnavailable marks a scoring collaborator that cannot answer.
// Unlike extraction there is no fallback: decisioning fails cleanly.
var ErrScoringUnavailable = errors.New("SCORING_UNAVAILABLE")

// Scorer is the per-product model collaborator: it predicts the maximum
// eligible amount and an interest rate from the engineered features.
type Scorer interface {
	Predict(ctx context.Context, loanType string, features map[string]float64) (amount, rate float64, err error)
}

// HTTPScorer calls the model-serving endpoint, one route per product.
type HTTPScorer struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPScorer(baseURL string, timeout time.Duration) *HTTPScorer {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPScorer{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type predictRequest struct {
	Features map[string]float64 `json:"features"`
}

type predictResponse struct {
	Amount float64 `json:"amount"`
	Rate   float64 `json:"rate"`
}

func (s *HTTPScorer) Predict(ctx context.Context, loanType string, features map[string]float64) (float64, float64, error) {
	if s.baseURL == "" {
		return 0, 0, fmt.Errorf("%w: no endpoint configured", ErrScoringUnavailable)
	}

	payload, err := json.Marshal(predictRequest{Features: features})
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrScoringUnavailable, err)
	}

	url := fmt.Sprintf("%s/predict/%s", s.baseURL, loanType)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrScoringUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrScoringUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("%w: status %d for %s", ErrScoringUnavailable, resp.StatusCode, loanType)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrScoringUnavailable, err)
	}
	return out.Amount, out.Rate, nil
}
