//go:build js && wasm

package credentials

import (
	"encoding/json"
	"fmt"

	"github.com/syumai/workers/cloudflare/kv"
)

const (
	kvNamespace      = "mpesa_kv"
	kvCredentialsKey = "mpesa_credentials"
	kvTokenKey       = "mpesa_access_token"
)

type kvCredentials struct {
	ConsumerKey    string `json:"consumer_key"`
	ConsumerSecret string `json:"consumer_secret"`
	Environment    string `json:"environment,omitempty"`
	AdminAPIKey    string `json:"admin_api_key,omitempty"`
}

// CloudflareKVStore reads consumer credentials and persists access tokens in
// a Workers KV namespace, so isolates share one token.
type CloudflareKVStore struct {
	kvStore *kv.Namespace
}

// NewCloudflareKVStore binds to the namespace configured in wrangler.toml
func NewCloudflareKVStore() (*CloudflareKVStore, error) {
	kvStore, err := kv.NewNamespace(kvNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize KV namespace: %w", err)
	}
	return &CloudflareKVStore{kvStore: kvStore}, nil
}

func (c *CloudflareKVStore) GetCredentials() (Credentials, error) {
	stored, err := c.getKVCredentials()
	if err != nil {
		return Credentials{}, err
	}
	creds := Credentials{ConsumerKey: stored.ConsumerKey, ConsumerSecret: stored.ConsumerSecret}
	if !creds.Valid() {
		return Credentials{}, fmt.Errorf("%w: incomplete credentials in KV", ErrNoCredentials)
	}
	return creds, nil
}

// Settings returns the environment and admin key stored next to the credentials
func (c *CloudflareKVStore) Settings() (environment, adminAPIKey string, err error) {
	stored, err := c.getKVCredentials()
	if err != nil {
		return "", "", err
	}
	return stored.Environment, stored.AdminAPIKey, nil
}

func (c *CloudflareKVStore) LoadToken() (*StoredToken, error) {
	raw, err := c.kvStore.GetString(kvTokenKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get token from KV: %w", err)
	}
	if raw == "" {
		return nil, nil
	}
	var tok StoredToken
	if err := json.Unmarshal([]byte(raw), &tok); err != nil {
		return nil, fmt.Errorf("failed to parse token JSON: %w", err)
	}
	return &tok, nil
}

func (c *CloudflareKVStore) SaveToken(token StoredToken) error {
	raw, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	if err := c.kvStore.PutString(kvTokenKey, string(raw), nil); err != nil {
		return fmt.Errorf("failed to store token in KV: %w", err)
	}
	return nil
}

func (c *CloudflareKVStore) getKVCredentials() (*kvCredentials, error) {
	credsJSON, err := c.kvStore.GetString(kvCredentialsKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get credentials from KV: %w", err)
	}
	if credsJSON == "" {
		return nil, fmt.Errorf("no credentials found in KV")
	}

	var creds kvCredentials
	if err := json.Unmarshal([]byte(credsJSON), &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials JSON: %w", err)
	}
	return &creds, nil
}
