package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	tok, err := store.LoadToken()
	require.NoError(t, err)
	assert.Nil(t, tok)

	require.NoError(t, store.SaveToken(StoredToken{AccessToken: "a", ExpiresAt: 1}))
	tok, err = store.LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "a", tok.AccessToken)

	// returned value is a copy
	tok.AccessToken = "mutated"
	again, _ := store.LoadToken()
	assert.Equal(t, "a", again.AccessToken)
}
