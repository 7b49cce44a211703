package credentials

import (
	"errors"
	"testing"
)

func TestEnvCredentialsFetcher(t *testing.T) {
	t.Setenv(EnvConsumerKey, "key")
	t.Setenv(EnvConsumerSecret, "secret")

	fetcher := NewEnvCredentialsFetcher()
	creds, err := fetcher.GetCredentials()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if creds.ConsumerKey != "key" || creds.ConsumerSecret != "secret" {
		t.Errorf("Unexpected credentials: %+v", creds)
	}
}

func TestEnvCredentialsFetcherMissing(t *testing.T) {
	t.Setenv(EnvConsumerKey, "key")
	t.Setenv(EnvConsumerSecret, "")

	_, err := NewEnvCredentialsFetcher().GetCredentials()
	if !errors.Is(err, ErrNoCredentials) {
		t.Errorf("Expected ErrNoCredentials, got %v", err)
	}
}

func TestStaticFetcher(t *testing.T) {
	creds, err := NewStaticFetcher("k", "s").GetCredentials()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if creds.ConsumerKey != "k" {
		t.Errorf("Expected consumer key k, got %s", creds.ConsumerKey)
	}

	if _, err := NewStaticFetcher("", "s").GetCredentials(); !errors.Is(err, ErrNoCredentials) {
		t.Errorf("Expected ErrNoCredentials, got %v", err)
	}
}
