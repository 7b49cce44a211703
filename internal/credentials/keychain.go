package credentials

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultKeychainService is the generic-password item the fetcher reads
const DefaultKeychainService = "mpesa-credentials"

type keychainItem struct {
	ConsumerKey    string `json:"consumer_key"`
	ConsumerSecret string `json:"consumer_secret"`
}

// runSecurity executes the macOS security tool; replaced in tests
var runSecurity = func(args ...string) ([]byte, error) {
	return exec.Command("security", args...).Output()
}

// KeychainCredentialsFetcher retrieves consumer credentials stored as a JSON
// generic password in the macOS keychain, with caching
type KeychainCredentialsFetcher struct {
	service string
	logger  zerolog.Logger

	mu          sync.RWMutex
	cached      Credentials
	lastRefresh time.Time
	cacheTTL    time.Duration
}

// NewKeychainCredentialsFetcher creates a new keychain-based credentials fetcher
func NewKeychainCredentialsFetcher(service string, logger zerolog.Logger) *KeychainCredentialsFetcher {
	if service == "" {
		service = DefaultKeychainService
	}
	return &KeychainCredentialsFetcher{
		service:  service,
		logger:   logger,
		cacheTTL: 5 * time.Minute,
	}
}

// GetCredentials retrieves credentials from cache or keychain
func (k *KeychainCredentialsFetcher) GetCredentials() (Credentials, error) {
	k.mu.RLock()
	if k.cached.Valid() && time.Since(k.lastRefresh) < k.cacheTTL {
		creds := k.cached
		k.mu.RUnlock()
		return creds, nil
	}
	k.mu.RUnlock()

	output, err := runSecurity("find-generic-password", "-s", k.service, "-w")
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to retrieve password from Keychain: %w", err)
	}

	var item keychainItem
	if err := json.Unmarshal(output, &item); err != nil {
		return Credentials{}, fmt.Errorf("failed to parse JSON from keychain: %w", err)
	}

	creds := Credentials{ConsumerKey: item.ConsumerKey, ConsumerSecret: item.ConsumerSecret}
	if !creds.Valid() {
		return Credentials{}, fmt.Errorf("%w: keychain item %q is incomplete", ErrNoCredentials, k.service)
	}

	k.mu.Lock()
	k.cached = creds
	k.lastRefresh = time.Now()
	k.mu.Unlock()

	k.logger.Debug().Str("service", k.service).Msg("Loaded consumer credentials from keychain")
	return creds, nil
}

// StoreKeychainCredentials replaces the keychain item with the given credentials
func StoreKeychainCredentials(service string, creds Credentials) error {
	if service == "" {
		service = DefaultKeychainService
	}
	payload, err := json.Marshal(keychainItem{ConsumerKey: creds.ConsumerKey, ConsumerSecret: creds.ConsumerSecret})
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	// a missing item is fine here
	_, _ = runSecurity("delete-generic-password", "-s", service)

	if _, err := runSecurity("add-generic-password", "-s", service, "-a", "mpesa", "-w", string(payload), "-U"); err != nil {
		return fmt.Errorf("failed to update keychain: %w", err)
	}
	return nil
}
