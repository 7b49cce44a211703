package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

const (
	// DefaultExpiresIn applies when the token response omits expires_in
	DefaultExpiresIn = 3600
	// DefaultGrantType is the grant requested from the generate endpoint
	DefaultGrantType = "client_credentials"
)

var (
	// ErrAuthentication means no usable access token could be obtained
	ErrAuthentication = errors.New("authentication failed")
	// ErrRefreshUnsupported is returned by sources that cannot mint tokens
	ErrRefreshUnsupported = errors.New("token source cannot refresh")
)

// TokenResponse represents the OAuth generate API response. Daraja sends
// expires_in as a string; json.Number accepts both forms.
type TokenResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   json.Number `json:"expires_in,omitempty"`
}

// ExpiresInSeconds returns the token lifetime, defaulting to one hour
func (t *TokenResponse) ExpiresInSeconds() int64 {
	n, err := t.ExpiresIn.Int64()
	if err != nil || n <= 0 {
		return DefaultExpiresIn
	}
	return n
}

// Status is a point-in-time view of a token source
type Status struct {
	Managed   bool      `json:"managed"`
	HasToken  bool      `json:"hasToken"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsExpired bool      `json:"isExpired"`
}

// TokenSource supplies bearer tokens to the dispatcher
type TokenSource interface {
	// GetToken returns a usable token, refreshing an expired one first
	GetToken(ctx context.Context) (string, error)
	// RefreshToken unconditionally replaces the current token
	RefreshToken(ctx context.Context) error
	// CanRefresh reports whether RefreshToken can succeed at all
	CanRefresh() bool
	Status() Status
}
