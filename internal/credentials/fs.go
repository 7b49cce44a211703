package credentials

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

type fsFile struct {
	ConsumerKey    string       `json:"consumer_key"`
	ConsumerSecret string       `json:"consumer_secret"`
	Token          *StoredToken `json:"token,omitempty"`
}

// FSStore keeps consumer credentials and the last access token in one JSON
// file. It is both a Fetcher and a TokenStore.
type FSStore struct {
	Path string
	mu   sync.Mutex
}

func NewFSStore(path string) *FSStore {
	return &FSStore{Path: path}
}

// InitFS writes a new credentials file, creating parent directories
func InitFS(path string, creds Credentials) error {
	if err := EnsureParentDir(path); err != nil {
		return err
	}
	return writeFS(path, &fsFile{ConsumerKey: creds.ConsumerKey, ConsumerSecret: creds.ConsumerSecret})
}

func (f *FSStore) GetCredentials() (Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, err := readFS(f.Path)
	if err != nil {
		return Credentials{}, err
	}
	creds := Credentials{ConsumerKey: a.ConsumerKey, ConsumerSecret: a.ConsumerSecret}
	if !creds.Valid() {
		return Credentials{}, fmt.Errorf("%w: missing consumer_key or consumer_secret in %s", ErrNoCredentials, f.Path)
	}
	return creds, nil
}

func (f *FSStore) LoadToken() (*StoredToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, err := readFS(f.Path)
	if err != nil {
		return nil, err
	}
	return a.Token, nil
}

// SaveToken updates the token in place, keeping the consumer credentials
func (f *FSStore) SaveToken(token StoredToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, err := readFS(f.Path)
	if err != nil {
		return err
	}
	a.Token = &token
	return writeFS(f.Path, a)
}

func readFS(path string) (*fsFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	var a fsFile
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	return &a, nil
}

func writeFS(path string, a *fsFile) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}
