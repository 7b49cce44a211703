package credentials

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubSecurity(t *testing.T, fn func(args ...string) ([]byte, error)) {
	t.Helper()
	orig := runSecurity
	runSecurity = fn
	t.Cleanup(func() { runSecurity = orig })
}

func TestKeychainCredentialsFetcherCaches(t *testing.T) {
	calls := 0
	stubSecurity(t, func(args ...string) ([]byte, error) {
		calls++
		assert.Equal(t, []string{"find-generic-password", "-s", DefaultKeychainService, "-w"}, args)
		return []byte(`{"consumer_key":"key","consumer_secret":"secret"}`), nil
	})

	f := NewKeychainCredentialsFetcher("", zerolog.Nop())
	for i := 0; i < 3; i++ {
		creds, err := f.GetCredentials()
		require.NoError(t, err)
		assert.Equal(t, "key", creds.ConsumerKey)
	}
	assert.Equal(t, 1, calls)
}

func TestKeychainCredentialsFetcherErrors(t *testing.T) {
	stubSecurity(t, func(args ...string) ([]byte, error) {
		return nil, errors.New("item not found")
	})
	_, err := NewKeychainCredentialsFetcher("svc", zerolog.Nop()).GetCredentials()
	assert.Error(t, err)

	stubSecurity(t, func(args ...string) ([]byte, error) {
		return []byte(`{"consumer_key":"key"}`), nil
	})
	_, err = NewKeychainCredentialsFetcher("svc", zerolog.Nop()).GetCredentials()
	assert.True(t, errors.Is(err, ErrNoCredentials))
}

func TestStoreKeychainCredentials(t *testing.T) {
	var commands [][]string
	stubSecurity(t, func(args ...string) ([]byte, error) {
		commands = append(commands, args)
		return nil, nil
	})

	err := StoreKeychainCredentials("svc", Credentials{ConsumerKey: "k", ConsumerSecret: "s"})
	require.NoError(t, err)
	require.Len(t, commands, 2)
	assert.Equal(t, "delete-generic-password", commands[0][0])
	assert.Equal(t, "add-generic-password", commands[1][0])
	assert.Contains(t, commands[1], `{"consumer_key":"k","consumer_secret":"s"}`)
}
