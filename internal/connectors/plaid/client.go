// Package plaid is the read-only HTTP boundary to Plaid: transaction pages, account metadata and live
// balances.
package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/plaid_ledger_recon/internal/apperrors"
	"github.com/SscSPs/plaid_ledger_recon/internal/extract"
)

// ErrEgressBlocked is returned when outbound calls are disabled by configuration.
var ErrEgressBlocked = errors.New("plaid: external API calls blocked (PFETL_NO_EGRESS=1)")

const (
	sandboxBaseURL     = "https://sandbox.plaid.com"
	developmentBaseURL = "https://development.plaid.com"
	productionBaseURL  = "https://production.plaid.com"

	apiVersion = "2020-09-14"
)

// ClientConfig configures the Plaid client.
type ClientConfig struct {
	Environment string // sandbox, development or production
	ClientID    string
	Secret      string // never logged
	AccessToken string // never logged
	Timeout     time.Duration
	NoEgress    bool
	HTTPClient  *http.Client
	BaseURL     string // overrides Environment
}

// Client talks to a single Plaid item through its access token.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	clientID    string
	secret      string
	accessToken string
}

// BaseURL returns the API host for env.
func BaseURL(env string) (string, error) {
	switch strings.ToLower(env) {
	case "sandbox", "":
		return sandboxBaseURL, nil
	case "development":
		return developmentBaseURL, nil
	case "production":
		return productionBaseURL, nil
	}
	return "", fmt.Errorf("invalid Plaid environment %q: %w", env, apperrors.ErrUsage)
}

// NewClient validates cfg and builds a client. No network call is made.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.NoEgress {
		return nil, ErrEgressBlocked
	}
	if cfg.ClientID == "" || cfg.Secret == "" {
		return nil, fmt.Errorf("PLAID_CLIENT_ID and PLAID_SECRET are required: %w", apperrors.ErrMissingCredentials)
	}
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("PLAID_ACCESS_TOKEN is required: %w", apperrors.ErrMissingCredentials)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		var err error
		if baseURL, err = BaseURL(cfg.Environment); err != nil {
			return nil, err
		}
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		clientID:    cfg.ClientID,
		secret:      cfg.Secret,
		accessToken: cfg.AccessToken,
	}, nil
}

// post sends body with credentials and returns the raw 200 response body. Non-200 statuses are
// classified as transient or permanent for the extractor's retry policy.
func (c *Client) post(ctx context.Context, path string, body map[string]any) ([]byte, error) {
	body["client_id"] = c.clientID
	body["secret"] = c.secret
	body["access_token"] = c.accessToken

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Plaid-Version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("POST %s: read body: %w", path, err)
	}
	if err := extract.ClassifyStatus(resp.StatusCode, apiErrorSummary(data)); err != nil {
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}
	return data, nil
}

type apiError struct {
	ErrorType    string `json:"error_type"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
	RequestID    string `json:"request_id"`
}

// apiErrorSummary renders a Plaid error body without echoing anything but the error fields.
func apiErrorSummary(body []byte) string {
	var e apiError
	if err := json.Unmarshal(body, &e); err != nil || e.ErrorCode == "" {
		if len(body) > 200 {
			body = body[:200]
		}
		return string(body)
	}
	return fmt.Sprintf("%s/%s: %s (request_id=%s)", e.ErrorType, e.ErrorCode, e.ErrorMessage, e.RequestID)
}
