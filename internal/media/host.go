package media

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rosales/inkwell/internal/apperr"
)

// HostConfig configures the remote media host client.
type HostConfig struct {
	BaseURL   string
	CloudName string
	APIKey    string
	APISecret string
	Timeout   time.Duration
}

// HostClient uploads buffers to the media host's per-cloud endpoints.
type HostClient struct {
	client *resty.Client
	cloud  string
}

// NewHostClient creates a client for the configured cloud.
func NewHostClient(cfg HostConfig) *HostClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetBasicAuth(cfg.APIKey, cfg.APISecret).
		SetTimeout(timeout)
	return &HostClient{client: c, cloud: cfg.CloudName}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

// Upload POSTs the buffer as multipart form data and returns the stored
// object's URL. The host rejecting or erroring wraps apperr.ErrUploadFailed.
func (h *HostClient) Upload(ctx context.Context, req UploadRequest) (string, error) {
	if len(req.Data) == 0 {
		return "", fmt.Errorf("media: empty %s buffer: %w", req.Field, apperr.ErrUploadFailed)
	}
	var out uploadResponse
	resp, err := h.client.R().
		SetContext(ctx).
		SetFileReader("file", req.Filename, bytes.NewReader(req.Data)).
		SetFormData(map[string]string{"folder": req.Folder}).
		SetResult(&out).
		Post(fmt.Sprintf("/%s/%s/upload", h.cloud, req.Kind))
	if err != nil {
		return "", fmt.Errorf("media: upload %s: %v: %w", req.Field, err, apperr.ErrUploadFailed)
	}
	if resp.StatusCode() != http.StatusOK || out.SecureURL == "" {
		return "", fmt.Errorf("media: upload %s: host returned %d: %w", req.Field, resp.StatusCode(), apperr.ErrUploadFailed)
	}
	return out.SecureURL, nil
}

// Remove asks the host to destroy the object behind url.
func (h *HostClient) Remove(ctx context.Context, url string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"url": url}).
		Post(fmt.Sprintf("/%s/destroy", h.cloud))
	if err != nil {
		return fmt.Errorf("media: destroy: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("media: destroy: host returned %d", resp.StatusCode())
	}
	return nil
}
