// internal/services/inference_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/config"
)

var ErrInferenceUnavailable = errors.New("inference API unavailable")

// InferenceService calls a hosted model API for image generation and
// zero-shot categorization. Both endpoints get a single retry after a
// fixed delay when the API answers 429, which is how the hosted tier
// signals a cold model.
type InferenceService struct {
	config     *config.Config
	httpClient *http.Client
}

type CategoryScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func NewInferenceService(cfg *config.Config) *InferenceService {
	return &InferenceService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Inference.RequestTimeout) * time.Second,
		},
	}
}

func (s *InferenceService) Configured() bool {
	return s.config.Inference.APIToken != ""
}

// GenerateImage renders a prompt through the configured diffusion model
// and returns the raw image bytes.
func (s *InferenceService) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	if !s.Configured() {
		return nil, "", fmt.Errorf("%w: no API token configured", ErrInferenceUnavailable)
	}

	payload := map[string]interface{}{
		"inputs": prompt,
		"parameters": map[string]interface{}{
			"num_inference_steps": 30,
		},
	}

	body, contentType, err := s.post(ctx, s.config.Inference.ImageModel, payload)
	if err != nil {
		return nil, "", err
	}
	return body, contentType, nil
}

// Categorize runs zero-shot classification over the candidate labels
// and returns them ranked by score.
func (s *InferenceService) Categorize(ctx context.Context, text string, labels []string) ([]CategoryScore, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("%w: no API token configured", ErrInferenceUnavailable)
	}

	payload := map[string]interface{}{
		"inputs": text,
		"parameters": map[string]interface{}{
			"candidate_labels": labels,
		},
	}

	body, _, err := s.post(ctx, s.config.Inference.CategoryModel, payload)
	if err != nil {
		return nil, err
	}

	var result struct {
		Labels []string  `json:"labels"`
		Scores []float64 `json:"scores"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode categorization response: %w", err)
	}
	if len(result.Labels) != len(result.Scores) {
		return nil, fmt.Errorf("malformed categorization response")
	}

	scores := make([]CategoryScore, len(result.Labels))
	for i, label := range result.Labels {
		scores[i] = CategoryScore{Label: label, Score: result.Scores[i]}
	}
	return scores, nil
}

func (s *InferenceService) post(ctx context.Context, model string, payload interface{}) ([]byte, string, error) {
	body, contentType, err := s.postOnce(ctx, model, payload)
	if errors.Is(err, errInferenceBusy) {
		select {
		case <-time.After(time.Duration(s.config.Inference.RetryDelay) * time.Second):
		case <-ctx.Done():
			return nil, "", ctx.Err()
		}
		body, contentType, err = s.postOnce(ctx, model, payload)
	}
	if errors.Is(err, errInferenceBusy) {
		return nil, "", fmt.Errorf("%w: model busy", ErrInferenceUnavailable)
	}
	return body, contentType, err
}

var errInferenceBusy = errors.New("inference model busy")

func (s *InferenceService) postOnce(ctx context.Context, model string, payload interface{}) ([]byte, string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode inference request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", s.config.Inference.BaseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.Inference.APIToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInferenceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable:
		io.Copy(io.Discard, resp.Body)
		return nil, "", errInferenceBusy
	case resp.StatusCode >= 400:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, "", fmt.Errorf("inference API rejected request: status %d: %s", resp.StatusCode, string(respBody))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read inference response: %w", err)
	}
	return respBody, resp.Header.Get("Content-Type"), nil
}
