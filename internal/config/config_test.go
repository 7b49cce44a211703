package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvcrn/mpesa-go/internal/urls"
)

func TestLoadDefaults(t *testing.T) {
	testChdir(t, t.TempDir())
	t.Setenv(EnvFileVar, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sandbox", cfg.Environment)
	assert.Equal(t, "v1", cfg.APIVersion)
	assert.Equal(t, DefaultStaleTokenCode, cfg.StaleTokenCode)
	assert.Equal(t, "client_credentials", cfg.GrantType)
	assert.Equal(t, DefaultServerPort, cfg.ServerPort)
	assert.Zero(t, cfg.Timeout)
}

func TestLoadFromEnv(t *testing.T) {
	testChdir(t, t.TempDir())
	t.Setenv(EnvFileVar, "")
	t.Setenv("MPESA_ENVIRONMENT", "production")
	t.Setenv("MPESA_CONSUMER_KEY", "key")
	t.Setenv("MPESA_CONSUMER_SECRET", "secret")
	t.Setenv("MPESA_TIMEOUT_SECONDS", "30")
	t.Setenv("MPESA_STALE_TOKEN_CODE", "401.000.01")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "key", cfg.ConsumerKey)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "401.000.01", cfg.StaleTokenCode)
	assert.True(t, cfg.HasConsumerCredentials())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	testChdir(t, dir)
	t.Setenv(EnvFileVar, "")

	path := filepath.Join(dir, "mpesa.yaml")
	require.NoError(t, os.WriteFile(path, []byte("environment: production\napi_version: v2\nadmin_api_key: from-file\n"), 0600))
	t.Setenv("MPESA_ADMIN_API_KEY", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "v2", cfg.APIVersion)
	assert.Equal(t, "from-env", cfg.AdminAPIKey)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	testChdir(t, dir)
	t.Setenv(EnvFileVar, "")
	// registered so the variable set by godotenv is cleared afterwards
	t.Setenv("MPESA_ACCESS_TOKEN", "")
	os.Unsetenv("MPESA_ACCESS_TOKEN")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MPESA_ACCESS_TOKEN=dotenv-token\n"), 0600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dotenv-token", cfg.AccessToken)
}

func TestLoadMissingFile(t *testing.T) {
	testChdir(t, t.TempDir())
	t.Setenv(EnvFileVar, "")
	_, err := Load("/nonexistent/mpesa.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Environment: "staging"}
	assert.True(t, errors.Is(cfg.Validate(), urls.ErrUnknownEnvironment))

	cfg = &Config{Environment: "sandbox", ConsumerKey: "only-key"}
	assert.Error(t, cfg.Validate())

	cfg = &Config{Environment: "sandbox", AccessToken: "tok"}
	assert.NoError(t, cfg.Validate())
}

// testChdir changes the working directory for the duration of the test,
// standing in for testing.T.Chdir which needs Go 1.24.
func testChdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
