// Package app wires configuration, credential sources, the client and the
// gateway together for the binaries.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvcrn/mpesa-go"
	"github.com/dvcrn/mpesa-go/internal/config"
	"github.com/dvcrn/mpesa-go/internal/credentials"
	"github.com/dvcrn/mpesa-go/internal/server"
)

// Source selects where consumer credentials come from
type Source string

const (
	// SourceAuto uses configured credentials, then an access token, then
	// the credentials file if it exists.
	SourceAuto     Source = "auto"
	SourceEnv      Source = "env"
	SourceFS       Source = "fs"
	SourceKeychain Source = "keychain"
)

func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case "", SourceAuto:
		return SourceAuto, nil
	case SourceEnv, SourceFS, SourceKeychain:
		return Source(s), nil
	}
	return "", fmt.Errorf("unknown credentials source %q", s)
}

// NewClient builds a client from configuration. Extra options are applied last.
func NewClient(cfg *config.Config, source Source, logger zerolog.Logger, extra ...mpesa.Option) (*mpesa.Client, error) {
	opts, err := credentialOptions(cfg, source, logger)
	if err != nil {
		return nil, err
	}
	opts = append([]mpesa.Option{mpesa.WithLogger(logger)}, opts...)
	if cfg.BaseURL != "" {
		opts = append(opts, mpesa.WithBaseURL(cfg.BaseURL))
	}
	opts = append(opts, extra...)

	return mpesa.New(ClientConfig(cfg), opts...)
}

// ClientConfig maps loaded configuration onto the client's settings
func ClientConfig(cfg *config.Config) mpesa.Config {
	return mpesa.Config{
		ConsumerKey:    cfg.ConsumerKey,
		ConsumerSecret: cfg.ConsumerSecret,
		AccessToken:    cfg.AccessToken,
		Environment:    cfg.Environment,
		APIVersion:     cfg.APIVersion,
		Timeout:        cfg.Timeout,
		StaleTokenCode: cfg.StaleTokenCode,
		GrantType:      cfg.GrantType,
	}
}

func credsPath(cfg *config.Config) string {
	if cfg.CredsPath != "" {
		return cfg.CredsPath
	}
	return credentials.DefaultCredsPath()
}

func credentialOptions(cfg *config.Config, source Source, logger zerolog.Logger) ([]mpesa.Option, error) {
	switch source {
	case SourceEnv:
		logger.Info().Msg("Using environment credentials fetcher")
		return []mpesa.Option{mpesa.WithCredentialsFetcher(credentials.NewEnvCredentialsFetcher())}, nil

	case SourceKeychain:
		logger.Info().Msg("Using keychain credentials fetcher")
		fetcher := credentials.NewKeychainCredentialsFetcher(credentials.DefaultKeychainService, logger)
		return []mpesa.Option{mpesa.WithCredentialsFetcher(fetcher)}, nil

	case SourceFS:
		path := credsPath(cfg)
		if !credentials.FileExists(path) {
			return nil, fmt.Errorf("credentials file %s does not exist, run 'mpesa init' first", path)
		}
		logger.Info().Str("path", path).Msg("Using filesystem credentials fetcher")
		store := credentials.NewFSStore(path)
		return []mpesa.Option{mpesa.WithCredentialsFetcher(store), mpesa.WithTokenStore(store)}, nil
	}

	if cfg.HasConsumerCredentials() || cfg.AccessToken != "" {
		logger.Debug().Bool("static_token", !cfg.HasConsumerCredentials()).Msg("Using configured credentials")
		return nil, nil
	}

	path := credsPath(cfg)
	if path != "" && credentials.FileExists(path) {
		logger.Info().Str("path", path).Msg("Using filesystem credentials fetcher")
		store := credentials.NewFSStore(path)
		return []mpesa.Option{mpesa.WithCredentialsFetcher(store), mpesa.WithTokenStore(store)}, nil
	}
	return nil, nil
}

// NewServer creates the gateway for a client
func NewServer(client server.Dispatcher, adminAPIKey string, logger zerolog.Logger) *server.Server {
	return server.New(logger, client, server.Options{AdminAPIKey: adminAPIKey})
}

// ValidateAtStartup acquires a token and logs how long it stays valid.
// Failures are logged; the first request retries.
func ValidateAtStartup(ctx context.Context, client *mpesa.Client, log zerolog.Logger) {
	if err := client.Authenticate(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to validate credentials at startup")
		return
	}

	status := client.TokenStatus()
	if !status.Managed {
		log.Info().Msg("Using caller supplied access token")
		return
	}

	minutesUntilExpiry := int64(time.Until(status.ExpiresAt).Minutes())
	if minutesUntilExpiry <= 0 {
		log.Warn().
			Int64("minutes_expired", -minutesUntilExpiry).
			Msg("Token is already expired, will attempt refresh on first request")
		return
	}
	log.Info().
		Str("environment", client.Environment()).
		Int64("minutes_until_expiry", minutesUntilExpiry).
		Msg("Access token acquired")
}
