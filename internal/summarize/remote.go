package summarize

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// InferenceConfig configures the hosted summarization model client.
type InferenceConfig struct {
	Endpoint string
	Model    string
	Token    string
	Timeout  time.Duration
}

// InferenceClient calls a hosted text-summarization model API.
type InferenceClient struct {
	client *resty.Client
	model  string
}

// NewInferenceClient creates a client for the configured model.
func NewInferenceClient(cfg InferenceConfig) *InferenceClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetAuthToken(cfg.Token).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &InferenceClient{client: c, model: cfg.Model}
}

type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

type inferenceParameters struct {
	MinLength    int `json:"min_length"`
	MaxLength    int `json:"max_length"`
	MaxNewTokens int `json:"max_new_tokens"`
}

type inferenceResult struct {
	SummaryText   string `json:"summary_text"`
	GeneratedText string `json:"generated_text"`
}

// Summarize asks the model for a bounded-length summary.
func (c *InferenceClient) Summarize(ctx context.Context, text string) (string, error) {
	body := inferenceRequest{
		Inputs: text,
		Parameters: inferenceParameters{
			MinLength:    5,
			MaxLength:    400,
			MaxNewTokens: 300,
		},
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&body).
		Post("/models/" + c.model)
	if err != nil {
		return "", fmt.Errorf("summarize: request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("summarize: model returned %d: %s", resp.StatusCode(), resp.String())
	}
	var results []inferenceResult
	if err := json.Unmarshal(resp.Body(), &results); err != nil {
		return "", fmt.Errorf("summarize: decode response: %w", err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("summarize: empty model response")
	}
	out := results[0].SummaryText
	if out == "" {
		out = results[0].GeneratedText
	}
	return out, nil
}
