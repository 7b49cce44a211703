package credentials

import (
	"fmt"
	"os"
)

const (
	EnvConsumerKey    = "MPESA_CONSUMER_KEY"
	EnvConsumerSecret = "MPESA_CONSUMER_SECRET"
)

// EnvCredentialsFetcher retrieves credentials from environment variables
type EnvCredentialsFetcher struct{}

// NewEnvCredentialsFetcher creates a new environment-based credentials fetcher
func NewEnvCredentialsFetcher() *EnvCredentialsFetcher {
	return &EnvCredentialsFetcher{}
}

// GetCredentials reads MPESA_CONSUMER_KEY and MPESA_CONSUMER_SECRET
func (e *EnvCredentialsFetcher) GetCredentials() (Credentials, error) {
	creds := Credentials{
		ConsumerKey:    os.Getenv(EnvConsumerKey),
		ConsumerSecret: os.Getenv(EnvConsumerSecret),
	}
	if !creds.Valid() {
		return Credentials{}, fmt.Errorf("%w: set %s and %s", ErrNoCredentials, EnvConsumerKey, EnvConsumerSecret)
	}
	return creds, nil
}
