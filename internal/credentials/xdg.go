package credentials

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appDirName     = "mpesa"
	credsFileName  = "credentials.json"
	configFileName = "config.yaml"
)

// ConfigDir is $XDG_CONFIG_HOME/mpesa, or ~/.config/mpesa. It returns ""
// when no home directory can be determined.
func ConfigDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appDirName)
}

func DefaultCredsPath() string {
	return inConfigDir(credsFileName)
}

// DefaultConfigPath is read by the CLI when no --config flag is given
func DefaultConfigPath() string {
	return inConfigDir(configFileName)
}

func inConfigDir(name string) string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, name)
}

// EnsureParentDir creates the directory holding path with owner-only access
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

func FileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
