// Package auth resolves bearer credentials into caller identities.
//
// Token issuance and verification belong to an external auth service; this
// package only asks that service (or a static development table) who a token
// belongs to.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rosales/inkwell/internal/apperr"
	"github.com/rosales/inkwell/internal/models"
)

// Verifier resolves a bearer token into an identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*models.Identity, error)
}

// LocalVerifier accepts every request as a fixed identity, credential or not.
// For development only.
type LocalVerifier struct {
	User models.Identity
}

// Verify always succeeds with the configured local user.
func (v *LocalVerifier) Verify(context.Context, string) (*models.Identity, error) {
	u := v.User
	return &u, nil
}

// StaticVerifier accepts a single configured token, for development and tests.
type StaticVerifier struct {
	Token string
	User  models.Identity
}

// Verify compares the presented token against the configured one.
func (v *StaticVerifier) Verify(_ context.Context, token string) (*models.Identity, error) {
	if token == "" || token != v.Token {
		return nil, apperr.ErrUnauthenticated
	}
	u := v.User
	return &u, nil
}

// RemoteVerifier asks the external auth service to resolve tokens.
type RemoteVerifier struct {
	client *resty.Client
}

// NewRemoteVerifier creates a verifier that POSTs tokens to verifyURL.
func NewRemoteVerifier(verifyURL string, timeout time.Duration) *RemoteVerifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := resty.New().
		SetBaseURL(verifyURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &RemoteVerifier{client: c}
}

// Verify exchanges the token for an identity. Any non-200 answer from the
// auth service maps to apperr.ErrUnauthenticated.
func (v *RemoteVerifier) Verify(ctx context.Context, token string) (*models.Identity, error) {
	if token == "" {
		return nil, apperr.ErrUnauthenticated
	}
	var id models.Identity
	resp, err := v.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"token": token}).
		SetResult(&id).
		Post("")
	if err != nil {
		return nil, fmt.Errorf("auth: verify request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK || id.ID == "" {
		return nil, apperr.ErrUnauthenticated
	}
	return &id, nil
}
