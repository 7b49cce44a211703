package credentials

import (
	"errors"
	"time"
)

// ErrNoCredentials is returned when a fetcher has no consumer key or secret
var ErrNoCredentials = errors.New("consumer key and secret are required")

// Credentials is the Daraja app consumer key pair
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
}

func (c Credentials) Valid() bool {
	return c.ConsumerKey != "" && c.ConsumerSecret != ""
}

// Fetcher defines the interface for retrieving consumer credentials
type Fetcher interface {
	GetCredentials() (Credentials, error)
}

// StoredToken is a persisted access token. ExpiresAt is in unix milliseconds.
type StoredToken struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

// Valid reports whether the token is usable at now
func (t *StoredToken) Valid(now time.Time) bool {
	return t != nil && t.AccessToken != "" && now.UnixMilli() < t.ExpiresAt
}

// TokenStore persists access tokens across client instances or processes.
// LoadToken returns (nil, nil) when nothing is stored.
type TokenStore interface {
	LoadToken() (*StoredToken, error)
	SaveToken(token StoredToken) error
}

// StaticFetcher returns fixed credentials
type StaticFetcher struct {
	creds Credentials
}

func NewStaticFetcher(consumerKey, consumerSecret string) *StaticFetcher {
	return &StaticFetcher{creds: Credentials{ConsumerKey: consumerKey, ConsumerSecret: consumerSecret}}
}

func (s *StaticFetcher) GetCredentials() (Credentials, error) {
	if !s.creds.Valid() {
		return Credentials{}, ErrNoCredentials
	}
	return s.creds, nil
}
