package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dvcrn/mpesa-go/internal/credentials"
	"github.com/dvcrn/mpesa-go/internal/transport"
)

// Exchanger trades consumer credentials for an access token
type Exchanger interface {
	Exchange(ctx context.Context, creds credentials.Credentials) (*TokenResponse, int, error)
}

// TokenExchanger calls the Daraja OAuth generate endpoint with HTTP Basic auth
type TokenExchanger struct {
	httpClient transport.HTTPClient
	tokenURL   string
	grantType  string
}

func NewTokenExchanger(httpClient transport.HTTPClient, tokenURL, grantType string) *TokenExchanger {
	if grantType == "" {
		grantType = DefaultGrantType
	}
	return &TokenExchanger{
		httpClient: httpClient,
		tokenURL:   tokenURL,
		grantType:  grantType,
	}
}

// Exchange returns the decoded token response and the HTTP status. A non-200
// status is an error carrying the response body.
func (e *TokenExchanger) Exchange(ctx context.Context, creds credentials.Credentials) (*TokenResponse, int, error) {
	u, err := url.Parse(e.tokenURL)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid token url: %w", err)
	}
	q := u.Query()
	q.Set("grant_type", e.grantType)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(creds.ConsumerKey, creds.ConsumerSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to make token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errorBody bytes.Buffer
		errorBody.ReadFrom(resp.Body)
		return nil, resp.StatusCode, fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, errorBody.String())
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to decode token response: %w", err)
	}
	return &tokenResp, resp.StatusCode, nil
}
