package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvcrn/mpesa-go"
	"github.com/dvcrn/mpesa-go/internal/config"
	"github.com/dvcrn/mpesa-go/internal/credentials"
)

type tokenHTTP struct {
	user, pass string
	calls      int
}

func (f *tokenHTTP) Do(req *http.Request) (*http.Response, error) {
	f.calls++
	f.user, f.pass, _ = req.BasicAuth()
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`{"access_token":"tok","expires_in":"3599"}`)),
	}, nil
}

func baseConfig() *config.Config {
	return &config.Config{Environment: "sandbox", APIVersion: "v1"}
}

func TestParseSource(t *testing.T) {
	s, err := ParseSource("")
	require.NoError(t, err)
	assert.Equal(t, SourceAuto, s)

	s, err = ParseSource("keychain")
	require.NoError(t, err)
	assert.Equal(t, SourceKeychain, s)

	_, err = ParseSource("vault")
	assert.Error(t, err)
}

func TestNewClientFromConfig(t *testing.T) {
	cfg := baseConfig()
	cfg.ConsumerKey = "key"
	cfg.ConsumerSecret = "secret"

	f := &tokenHTTP{}
	c, err := NewClient(cfg, SourceAuto, zerolog.Nop(), mpesa.WithHTTPClient(f))
	require.NoError(t, err)
	require.NoError(t, c.Authenticate(context.Background()))
	assert.Equal(t, "key", f.user)
	assert.Equal(t, "secret", f.pass)
}

func TestNewClientStaticToken(t *testing.T) {
	cfg := baseConfig()
	cfg.AccessToken = "caller-token"

	c, err := NewClient(cfg, SourceAuto, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, c.TokenStatus().Managed)
}

func TestNewClientFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, credentials.InitFS(path, credentials.Credentials{ConsumerKey: "fs-key", ConsumerSecret: "fs-secret"}))

	cfg := baseConfig()
	cfg.CredsPath = path

	f := &tokenHTTP{}
	c, err := NewClient(cfg, SourceAuto, zerolog.Nop(), mpesa.WithHTTPClient(f))
	require.NoError(t, err)
	require.NoError(t, c.Authenticate(context.Background()))
	assert.Equal(t, "fs-key", f.user)

	stored, err := credentials.NewFSStore(path).LoadToken()
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "tok", stored.AccessToken)

	// a second client reuses the persisted token
	c2, err := NewClient(cfg, SourceFS, zerolog.Nop(), mpesa.WithHTTPClient(f))
	require.NoError(t, err)
	require.NoError(t, c2.Authenticate(context.Background()))
	assert.Equal(t, 1, f.calls)
}

func TestNewClientSourceFSMissingFile(t *testing.T) {
	cfg := baseConfig()
	cfg.CredsPath = filepath.Join(t.TempDir(), "missing.json")
	_, err := NewClient(cfg, SourceFS, zerolog.Nop())
	assert.Error(t, err)
}

func TestNewClientSourceEnv(t *testing.T) {
	t.Setenv(credentials.EnvConsumerKey, "env-key")
	t.Setenv(credentials.EnvConsumerSecret, "env-secret")

	f := &tokenHTTP{}
	c, err := NewClient(baseConfig(), SourceEnv, zerolog.Nop(), mpesa.WithHTTPClient(f))
	require.NoError(t, err)
	require.NoError(t, c.Authenticate(context.Background()))
	assert.Equal(t, "env-key", f.user)
}

func TestNewClientNoCredentials(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	_, err := NewClient(baseConfig(), SourceAuto, zerolog.Nop())
	assert.ErrorIs(t, err, mpesa.ErrMissingCredentials)
}

func TestNewServerServesHealth(t *testing.T) {
	cfg := baseConfig()
	cfg.AccessToken = "tok"
	c, err := NewClient(cfg, SourceAuto, zerolog.Nop())
	require.NoError(t, err)

	srv := NewServer(c, "admin", zerolog.Nop())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidateAtStartup(t *testing.T) {
	cfg := baseConfig()
	cfg.ConsumerKey = "key"
	cfg.ConsumerSecret = "secret"
	f := &tokenHTTP{}
	c, err := NewClient(cfg, SourceAuto, zerolog.Nop(), mpesa.WithHTTPClient(f))
	require.NoError(t, err)

	ValidateAtStartup(context.Background(), c, zerolog.Nop())
	assert.Equal(t, 1, f.calls)
	assert.True(t, c.TokenStatus().HasToken)
}
