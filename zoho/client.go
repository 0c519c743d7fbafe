package zoho

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kjelbo/zohoctl/config"
)

// tokenExpiryMargin refreshes the token slightly before its literal
// expiry so it cannot lapse between the check and the request using it.
const tokenExpiryMargin = 60 * time.Second

// defaultTokenLifetime in seconds, assumed when the token endpoint
// omits expires_in.
const defaultTokenLifetime = 3600

// Client wraps the Zoho Books API
type Client struct {
	clientID       string
	clientSecret   string
	refreshTok     string
	organizationID string

	apiURL  string
	authURL string

	httpClient           *http.Client
	logger               zerolog.Logger
	retry                RetryPolicy
	reauthOnUnauthorized bool
	now                  func() time.Time

	// Token state, owned exclusively by this instance and refreshed
	// lazily. Not safe for concurrent use.
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a new Zoho Books client. No network I/O happens
// here; the first API call triggers the initial token refresh.
func NewClient(cfg config.ZohoConfig, logger zerolog.Logger, opts ...Option) (*Client, error) {
	required := []struct {
		value  string
		envVar string
	}{
		{cfg.ClientID, "ZOHO_CLIENT_ID"},
		{cfg.ClientSecret, "ZOHO_CLIENT_SECRET"},
		{cfg.RefreshToken, "ZOHO_REFRESH_TOKEN"},
		{cfg.OrganizationID, "ZOHO_ORGANIZATION_ID"},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, &config.CredentialError{EnvVar: r.envVar}
		}
	}

	client := &Client{
		clientID:             cfg.ClientID,
		clientSecret:         cfg.ClientSecret,
		refreshTok:           cfg.RefreshToken,
		organizationID:       cfg.OrganizationID,
		apiURL:               strings.TrimRight(cfg.APIURL, "/"),
		authURL:              strings.TrimRight(cfg.AuthURL, "/"),
		httpClient:           &http.Client{Timeout: 30 * time.Second},
		logger:               logger,
		retry:                DefaultRetryPolicy(),
		reauthOnUnauthorized: cfg.ReauthOnUnauthorized,
		now:                  time.Now,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// TestConnection forces a token refresh to verify the configured
// credentials without touching any data endpoint.
func (c *Client) TestConnection(ctx context.Context) error {
	return c.refreshToken(ctx)
}

// GetInvoices retrieves invoices filtered by date range and status.
// Dates use the YYYY-MM-DD format the Books API expects and are passed
// through unvalidated; empty filters are omitted from the query.
// Records come back exactly as the API returned them.
func (c *Client) GetInvoices(ctx context.Context, fromDate, toDate, status string) ([]Invoice, error) {
	if err := c.ensureToken(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("organization_id", c.organizationID)
	if fromDate != "" {
		params.Set("date_start", fromDate)
	}
	if toDate != "" {
		params.Set("date_end", toDate)
	}
	if status != "" {
		params.Set("status", status)
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/invoices", params)
	if err != nil {
		return nil, err
	}

	var response invoicesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse invoices response: %w", err)
	}

	c.logger.Info().Int("count", len(response.Invoices)).Msg("Retrieved invoices")
	return response.Invoices, nil
}

// tokenExpired reports whether the access token is absent or within
// the expiry margin.
func (c *Client) tokenExpired() bool {
	if c.accessToken == "" {
		return true
	}
	return !c.now().Before(c.tokenExpiry.Add(-tokenExpiryMargin))
}

// ensureToken refreshes the access token if it is absent or expired
func (c *Client) ensureToken(ctx context.Context) error {
	if !c.tokenExpired() {
		return nil
	}
	return c.refreshToken(ctx)
}

// refreshToken exchanges the refresh token for a new access token.
// A refresh failure is terminal for the current call and is never
// retried. Credential values are never logged.
func (c *Client) refreshToken(ctx context.Context) error {
	form := url.Values{}
	form.Set("refresh_token", c.refreshTok)
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("grant_type", "refresh_token")

	endpoint := c.authURL + "/token"
	c.logger.Debug().Str("endpoint", endpoint).Msg("Refreshing access token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return &AuthError{Message: "failed to create token request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("Token refresh request failed")
		return &AuthError{Message: "token refresh request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &AuthError{StatusCode: resp.StatusCode, Message: "failed to read token response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().Int("status", resp.StatusCode).Str("endpoint", endpoint).Msg("Token refresh rejected")
		return &AuthError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("Malformed token response")
		return &AuthError{StatusCode: resp.StatusCode, Message: "malformed token response", Err: err}
	}
	if token.Error != "" {
		c.logger.Error().Str("oauth_error", token.Error).Str("endpoint", endpoint).Msg("Token refresh rejected")
		msg := token.Error
		if token.ErrorDescription != "" {
			msg += ": " + token.ErrorDescription
		}
		return &AuthError{StatusCode: resp.StatusCode, Message: msg}
	}
	if token.AccessToken == "" {
		c.logger.Error().Str("endpoint", endpoint).Msg("Token response missing access_token")
		return &AuthError{StatusCode: resp.StatusCode, Message: "token response missing access_token"}
	}

	lifetime := token.ExpiresIn
	if lifetime <= 0 {
		lifetime = defaultTokenLifetime
	}
	c.accessToken = token.AccessToken
	c.tokenExpiry = c.now().Add(time.Duration(lifetime) * time.Second)

	c.logger.Info().Int("expires_in", lifetime).Msg("Successfully refreshed access token")
	return nil
}

// doRequest performs an authenticated request against the Books API,
// retrying transient failures per the retry policy. A 401 response
// forces one token refresh followed by an immediate retry when
// re-authentication is enabled; any other 4xx fails immediately.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, params url.Values) ([]byte, error) {
	requestURL := c.apiURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	var lastErr error
	reauthed := false

	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		body, statusCode, err := c.attempt(ctx, method, requestURL)

		switch {
		case err == nil && statusCode == http.StatusOK:
			c.logger.Info().Str("endpoint", endpoint).Int("attempt", attempt).Int("status", statusCode).
				Msg("Request succeeded")
			return body, nil

		case err != nil:
			if !c.retry.ShouldRetry(0, err) {
				c.logger.Error().Err(err).Str("endpoint", endpoint).Int("attempt", attempt).
					Msg("Request aborted")
				return nil, err
			}
			lastErr = err
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Int("attempt", attempt).
				Msg("Request failed")

		case statusCode == http.StatusUnauthorized && c.reauthOnUnauthorized && !reauthed:
			c.logger.Warn().Str("endpoint", endpoint).Int("attempt", attempt).
				Msg("Access token rejected, refreshing")
			if err := c.refreshToken(ctx); err != nil {
				return nil, err
			}
			reauthed = true
			// Retry immediately with the fresh token; re-auth does not
			// consume a transient-failure attempt.
			attempt--
			continue

		case statusCode == http.StatusUnauthorized:
			c.logger.Error().Str("endpoint", endpoint).Int("status", statusCode).
				Msg("Request not authorized")
			return nil, &AuthError{StatusCode: statusCode, Message: "request not authorized"}

		default:
			apiErr := &APIError{
				StatusCode: statusCode,
				Message:    apiMessage(statusCode, body),
				Body:       string(body),
			}
			if !c.retry.ShouldRetry(statusCode, nil) {
				c.logger.Error().Str("endpoint", endpoint).Int("status", statusCode).Int("attempt", attempt).
					Msg("Request rejected")
				return nil, apiErr
			}
			lastErr = apiErr
			c.logger.Warn().Str("endpoint", endpoint).Int("status", statusCode).Int("attempt", attempt).
				Msg("Upstream error")
		}

		if attempt < c.retry.MaxAttempts {
			delay := c.retry.Delay(attempt)
			c.logger.Debug().Dur("delay", delay).Int("attempt", attempt).Msg("Backing off before retry")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	c.logger.Error().Str("endpoint", endpoint).Int("attempts", c.retry.MaxAttempts).
		Msg("Retries exhausted")

	var apiErr *APIError
	if errors.As(lastErr, &apiErr) {
		return nil, apiErr
	}
	return nil, &APIError{
		Message: fmt.Sprintf("request failed after %d attempts: %v", c.retry.MaxAttempts, lastErr),
	}
}

// attempt performs one HTTP exchange. A non-nil error means no
// response was received.
func (c *Client) attempt(ctx context.Context, method, requestURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, requestURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// apiMessage extracts the upstream error message from a Books error
// body, falling back to the HTTP status text.
func apiMessage(statusCode int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return http.StatusText(statusCode)
}
