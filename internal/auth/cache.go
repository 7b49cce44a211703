package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvcrn/mpesa-go/internal/credentials"
	"github.com/dvcrn/mpesa-go/internal/transport"
)

// TokenCache owns one access token and its expiry. Refreshes are serialized
// so concurrent callers observing an expired token trigger a single exchange.
type TokenCache struct {
	creds     credentials.Fetcher
	exchanger Exchanger
	store     credentials.TokenStore
	logger    zerolog.Logger
	now       func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
	loaded    bool
}

// CacheOption configures a TokenCache
type CacheOption func(*TokenCache)

// WithStore persists tokens across cache instances
func WithStore(store credentials.TokenStore) CacheOption {
	return func(c *TokenCache) { c.store = store }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) CacheOption {
	return func(c *TokenCache) {
		if now != nil {
			c.now = now
		}
	}
}

func WithLogger(logger zerolog.Logger) CacheOption {
	return func(c *TokenCache) { c.logger = logger }
}

func NewTokenCache(creds credentials.Fetcher, exchanger Exchanger, opts ...CacheOption) *TokenCache {
	c := &TokenCache{
		creds:     creds,
		exchanger: exchanger,
		logger:    zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsExpired is true when no token is held or now >= expiry. A persisted
// token counts as held.
func (c *TokenCache) IsExpired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadLocked()
	return c.expiredLocked()
}

// EnsureValid refreshes the token only when it is expired
func (c *TokenCache) EnsureValid(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.loadLocked()
	if !c.expiredLocked() {
		c.logger.Debug().
			Dur("expires_in", c.expiresAt.Sub(c.now())).
			Msg("Access token is still valid")
		return nil
	}

	c.logger.Info().Msg("Access token missing or expired, refreshing")
	return c.refreshLocked(ctx)
}

// ForceRefresh replaces the token regardless of its expiry
func (c *TokenCache) ForceRefresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.loaded = true
	return c.refreshLocked(ctx)
}

func (c *TokenCache) GetToken(ctx context.Context) (string, error) {
	if err := c.EnsureValid(ctx); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token, nil
}

func (c *TokenCache) RefreshToken(ctx context.Context) error {
	return c.ForceRefresh(ctx)
}

func (c *TokenCache) CanRefresh() bool {
	return true
}

func (c *TokenCache) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadLocked()
	return Status{
		Managed:   true,
		HasToken:  c.token != "",
		ExpiresAt: c.expiresAt,
		IsExpired: c.expiredLocked(),
	}
}

func (c *TokenCache) expiredLocked() bool {
	return c.token == "" || !c.now().Before(c.expiresAt)
}

// loadLocked adopts a persisted token once, if it has not expired
func (c *TokenCache) loadLocked() {
	if c.loaded || c.store == nil {
		return
	}
	c.loaded = true

	stored, err := c.store.LoadToken()
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to load stored access token")
		return
	}
	if !stored.Valid(c.now()) {
		return
	}
	c.token = stored.AccessToken
	c.expiresAt = time.UnixMilli(stored.ExpiresAt)
	c.logger.Debug().
		Str("token_preview", transport.TokenPreview(c.token)).
		Time("expires_at", c.expiresAt).
		Msg("Using stored access token")
}

// refreshLocked performs the exchange. On failure the previous token and
// expiry are left untouched.
func (c *TokenCache) refreshLocked(ctx context.Context) error {
	creds, err := c.creds.GetCredentials()
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to get consumer credentials")
		return fmt.Errorf("%w: failed to get consumer credentials: %w", ErrAuthentication, err)
	}

	resp, status, err := c.exchanger.Exchange(ctx, creds)
	if err != nil {
		c.logger.Error().Err(err).Int("status_code", status).Msg("Failed to obtain access token")
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	if resp == nil || resp.AccessToken == "" {
		c.logger.Error().Int("status_code", status).Msg("Token response has no access_token")
		return fmt.Errorf("%w: token response has no access_token", ErrAuthentication)
	}

	now := c.now()
	c.token = resp.AccessToken
	c.expiresAt = now.Add(time.Duration(resp.ExpiresInSeconds()) * time.Second)

	c.logger.Info().
		Str("token_preview", transport.TokenPreview(c.token)).
		Time("expires_at", c.expiresAt).
		Msg("Access token refreshed")

	if c.store != nil {
		err := c.store.SaveToken(credentials.StoredToken{
			AccessToken: c.token,
			ExpiresAt:   c.expiresAt.UnixMilli(),
		})
		if err != nil {
			c.logger.Warn().Err(err).Msg("Failed to persist access token")
		}
	}
	return nil
}
