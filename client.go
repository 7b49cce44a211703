// Package mpesa is a client for the Safaricom Mpesa (Daraja) API.
//
// A Client validates a payload against the operation's schema, attaches an
// OAuth bearer token and posts it to the environment's endpoint. A stale
// token reported by the upstream triggers one refresh and one retry.
package mpesa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvcrn/mpesa-go/internal/auth"
	"github.com/dvcrn/mpesa-go/internal/credentials"
	"github.com/dvcrn/mpesa-go/internal/operation"
	"github.com/dvcrn/mpesa-go/internal/schema"
	"github.com/dvcrn/mpesa-go/internal/transport"
	"github.com/dvcrn/mpesa-go/internal/urls"
)

// DefaultStaleTokenCode is the errorCode Daraja returns with a 401 when the
// bearer token is no longer accepted.
const DefaultStaleTokenCode = "404.001.03"

const (
	msgValidationError = "Validation error"
	msgRequestFailed   = "Request failed"
	msgRetryFailed     = "Request failed after token refresh"
)

var (
	// ErrAuthentication is returned when no access token could be obtained
	ErrAuthentication = auth.ErrAuthentication
	// ErrMissingCredentials means neither consumer credentials nor an access token were configured
	ErrMissingCredentials = errors.New("consumer key and secret or an access token are required")
)

// Kind identifies one of the supported operations
type Kind = operation.Kind

const (
	B2BPaymentKind        = operation.B2BPayment
	B2CPaymentKind        = operation.B2CPayment
	C2BRegisterURLKind    = operation.C2BRegisterURL
	C2BSimulateKind       = operation.C2BSimulate
	TransactionStatusKind = operation.TransactionStatus
	AccountBalanceKind    = operation.AccountBalance
	ReversalKind          = operation.Reversal
	STKPushQueryKind      = operation.STKPushQuery
	STKPushPaymentKind    = operation.STKPushPayment
)

type Config struct {
	ConsumerKey    string
	ConsumerSecret string
	// AccessToken is used as-is when no consumer credentials are given. It is
	// never refreshed.
	AccessToken string
	// Environment is "sandbox" (default) or "production"
	Environment string
	APIVersion  string
	// Timeout bounds each HTTP call; zero means no limit
	Timeout        time.Duration
	StaleTokenCode string
	GrantType      string
}

// Outcome is the normalized result of an operation. Validation and transport
// failures are reported here with a synthetic body; upstream responses of
// any status are passed through unchanged.
type Outcome struct {
	Body       interface{} `json:"body"`
	StatusCode int         `json:"statusCode"`
	// Err holds the cause of a synthetic outcome
	Err error `json:"-"`
}

type options struct {
	httpClient transport.HTTPClient
	logger     zerolog.Logger
	store      credentials.TokenStore
	fetcher    credentials.Fetcher
	baseURL    string
	now        func() time.Time
}

type Option func(*options)

func WithHTTPClient(c transport.HTTPClient) Option {
	return func(o *options) { o.httpClient = c }
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTokenStore persists access tokens between clients
func WithTokenStore(s credentials.TokenStore) Option {
	return func(o *options) { o.store = s }
}

// WithCredentialsFetcher sources consumer credentials lazily, e.g. from a
// file or the keychain, instead of Config.
func WithCredentialsFetcher(f credentials.Fetcher) Option {
	return func(o *options) { o.fetcher = f }
}

// WithBaseURL points the client at another host, e.g. an httptest server
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Client is safe for concurrent use
type Client struct {
	resolver       *urls.Resolver
	tokens         auth.TokenSource
	executor       *transport.Executor
	logger         zerolog.Logger
	staleTokenCode string
}

// New builds a client. Consumer credentials select a managed, refreshing
// token; otherwise Config.AccessToken is used verbatim.
func New(cfg Config, opts ...Option) (*Client, error) {
	o := options{
		logger: zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	env := urls.Environment(cfg.Environment)
	if env == "" {
		env = urls.Sandbox
	}
	resolver, err := urls.New(env, cfg.APIVersion)
	if err != nil {
		return nil, err
	}
	if o.baseURL != "" {
		resolver = resolver.WithBaseURL(o.baseURL)
	}

	if o.httpClient == nil {
		o.httpClient = transport.NewHTTPClient(cfg.Timeout)
	}

	fetcher := o.fetcher
	if fetcher == nil && (cfg.ConsumerKey != "" || cfg.ConsumerSecret != "") {
		fetcher = credentials.NewStaticFetcher(cfg.ConsumerKey, cfg.ConsumerSecret)
	}

	var tokens auth.TokenSource
	switch {
	case fetcher != nil:
		exchanger := auth.NewTokenExchanger(o.httpClient, resolver.TokenURL(), cfg.GrantType)
		cacheOpts := []auth.CacheOption{auth.WithClock(o.now), auth.WithLogger(o.logger)}
		if o.store != nil {
			cacheOpts = append(cacheOpts, auth.WithStore(o.store))
		}
		tokens = auth.NewTokenCache(fetcher, exchanger, cacheOpts...)
	case cfg.AccessToken != "":
		tokens = auth.NewStaticToken(cfg.AccessToken)
	default:
		return nil, ErrMissingCredentials
	}

	stale := cfg.StaleTokenCode
	if stale == "" {
		stale = DefaultStaleTokenCode
	}

	return &Client{
		resolver:       resolver,
		tokens:         tokens,
		executor:       transport.NewExecutor(o.httpClient, o.logger),
		logger:         o.logger,
		staleTokenCode: stale,
	}, nil
}

// Environment reports which deployment the client talks to
func (c *Client) Environment() string {
	return string(c.resolver.Environment())
}

// Authenticate obtains a token now instead of on the first call
func (c *Client) Authenticate(ctx context.Context) error {
	_, err := c.tokens.GetToken(ctx)
	return err
}

// RefreshToken replaces the current token. Clients built from an access
// token return auth.ErrRefreshUnsupported.
func (c *Client) RefreshToken(ctx context.Context) error {
	return c.tokens.RefreshToken(ctx)
}

func (c *Client) TokenStatus() auth.Status {
	return c.tokens.Status()
}

// Dispatch runs one operation. The only returned error is an authentication
// failure; every other failure is an Outcome.
func (c *Client) Dispatch(ctx context.Context, kind Kind, raw map[string]interface{}) (*Outcome, error) {
	log := c.logger.With().Str("operation", kind.String()).Logger()

	body, err := schema.Validate(kind, raw)
	if err != nil {
		log.Warn().
			Err(err).
			Interface("fields", schema.FieldErrors(err)).
			Msg("Payload failed validation")
		return synthetic(msgValidationError, http.StatusBadRequest, err), nil
	}

	target, err := c.resolver.URL(kind)
	if err != nil {
		return synthetic(msgValidationError, http.StatusBadRequest, err), nil
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		log.Warn().Err(err).Msg("Payload could not be encoded")
		return synthetic(msgValidationError, http.StatusBadRequest, fmt.Errorf("%w: %w", transport.ErrEncode, err)), nil
	}
	payload := json.RawMessage(encoded)

	token, err := c.tokens.GetToken(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to obtain access token")
		return nil, err
	}

	resp, err := c.executor.Execute(ctx, transport.Request{URL: target, Payload: payload, Token: token})
	if err != nil {
		return synthetic(msgRequestFailed, http.StatusInternalServerError, err), nil
	}

	if !c.isStaleToken(resp) {
		return passThrough(resp), nil
	}
	if !c.tokens.CanRefresh() {
		log.Warn().Msg("Access token rejected and cannot be refreshed")
		return passThrough(resp), nil
	}

	log.Warn().Str("error_code", c.staleTokenCode).Msg("Access token rejected, refreshing and retrying")

	if err := c.tokens.RefreshToken(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to refresh access token after 401")
		return nil, fmt.Errorf("token refresh after 401 failed: %w", err)
	}
	token, err = c.tokens.GetToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err = c.executor.Execute(ctx, transport.Request{URL: target, Payload: payload, Token: token})
	if err != nil {
		return synthetic(msgRetryFailed, http.StatusInternalServerError, err), nil
	}

	if resp.StatusCode == http.StatusUnauthorized {
		log.Error().Msg("Still received 401 after token refresh, giving up")
	} else {
		log.Info().Int("status_code", resp.StatusCode).Msg("Request succeeded after token refresh")
	}
	return passThrough(resp), nil
}

func (c *Client) isStaleToken(resp *transport.Response) bool {
	if resp.StatusCode != http.StatusUnauthorized {
		return false
	}
	body, ok := resp.Body.(map[string]interface{})
	if !ok {
		return false
	}
	code, _ := body["errorCode"].(string)
	return code == c.staleTokenCode
}

func synthetic(message string, status int, cause error) *Outcome {
	return &Outcome{
		Body:       map[string]interface{}{"message": message},
		StatusCode: status,
		Err:        cause,
	}
}

func passThrough(resp *transport.Response) *Outcome {
	return &Outcome{Body: resp.Body, StatusCode: resp.StatusCode}
}

func (c *Client) B2BPayment(ctx context.Context, payload map[string]interface{}) (*Outcome, error) {
	return c.Dispatch(ctx, operation.B2BPayment, payload)
}

func (c *Client) B2CPayment(ctx context.Context, payload map[string]interface{}) (*Outcome, error) {
	return c.Dispatch(ctx, operation.B2CPayment, payload)
}

// C2BRegisterURL registers the confirmation and validation callbacks for a shortcode
func (c *Client) C2BRegisterURL(ctx context.Context, payload map[string]interface{}) (*Outcome, error) {
	return c.Dispatch(ctx, operation.C2BRegisterURL, payload)
}

// C2BSimulate is only available in the sandbox
func (c *Client) C2BSimulate(ctx context.Context, payload map[string]interface{}) (*Outcome, error) {
	return c.Dispatch(ctx, operation.C2BSimulate, payload)
}

func (c *Client) TransactionStatus(ctx context.Context, payload map[string]interface{}) (*Outcome, error) {
	return c.Dispatch(ctx, operation.TransactionStatus, payload)
}

func (c *Client) AccountBalance(ctx context.Context, payload map[string]interface{}) (*Outcome, error) {
	return c.Dispatch(ctx, operation.AccountBalance, payload)
}

func (c *Client) Reversal(ctx context.Context, payload map[string]interface{}) (*Outcome, error) {
	return c.Dispatch(ctx, operation.Reversal, payload)
}

func (c *Client) STKPushQuery(ctx context.Context, payload map[string]interface{}) (*Outcome, error) {
	return c.Dispatch(ctx, operation.STKPushQuery, payload)
}

// STKPushPayment sends a Lipa na Mpesa Online prompt to the customer's phone
func (c *Client) STKPushPayment(ctx context.Context, payload map[string]interface{}) (*Outcome, error) {
	return c.Dispatch(ctx, operation.STKPushPayment, payload)
}
