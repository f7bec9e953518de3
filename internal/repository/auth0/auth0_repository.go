package auth0

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

type Auth0Config struct {
	Domain       string
	ClientID     string
	ClientSecret string
}

// Auth0Repository talks to the Auth0 management API to propagate block
// status onto the identity provider. Management tokens are cached until
// shortly before expiry.
type Auth0Repository struct {
	auth0Config Auth0Config
	client      *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewAuth0Repository(cfg Auth0Config) *Auth0Repository {
	return &Auth0Repository{
		auth0Config: cfg,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

func (r *Auth0Repository) managementToken(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.token != "" && time.Now().Before(r.tokenExpiry) {
		return r.token, nil
	}

	payload, err := json.Marshal(map[string]string{
		"client_id":     r.auth0Config.ClientID,
		"client_secret": r.auth0Config.ClientSecret,
		"audience":      fmt.Sprintf("https://%s/api/v2/", r.auth0Config.Domain),
		"grant_type":    "client_credentials",
	})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("https://%s/oauth/token", r.auth0Config.Domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Add("Content-Type", "application/json")

	res, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return "", fmt.Errorf("auth0 token request returned status %d", res.StatusCode)
	}

	var tok tokenResponse
	if err := json.NewDecoder(res.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("failed to decode auth0 token response: %w", err)
	}

	r.token = tok.AccessToken
	// renew a minute early
	r.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn-60) * time.Second)

	return r.token, nil
}

func (r *Auth0Repository) patchUser(ctx context.Context, auth0ID string, body map[string]any) error {
	token, err := r.managementToken(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("https://%s/api/v2/users/%s", r.auth0Config.Domain, url.PathEscape(auth0ID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", "Bearer "+token)

	res, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	// a user unknown to auth0 is not an error worth failing the caller for
	if res.StatusCode == http.StatusNotFound {
		return nil
	}

	if res.StatusCode >= 400 {
		return fmt.Errorf("auth0 user patch returned status %d", res.StatusCode)
	}

	return nil
}

// BlockUser marks the identity blocked with an audit trail in app_metadata.
func (r *Auth0Repository) BlockUser(ctx context.Context, auth0ID, reason string) error {
	return r.patchUser(ctx, auth0ID, map[string]any{
		"blocked": true,
		"app_metadata": map[string]any{
			"blocked_reason": reason,
			"blocked_at":     time.Now().Format(time.RFC3339),
			"blocked_by":     "system",
		},
	})
}

func (r *Auth0Repository) UnblockUser(ctx context.Context, auth0ID string) error {
	return r.patchUser(ctx, auth0ID, map[string]any{
		"blocked": false,
		"app_metadata": map[string]any{
			"blocked_reason": nil,
			"blocked_at":     nil,
			"unblocked_at":   time.Now().Format(time.RFC3339),
			"unblocked_by":   "system",
		},
	})
}
