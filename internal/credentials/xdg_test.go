package credentials

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCredsPath(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/test-config")

		result := DefaultCredsPath()
		expected := filepath.Join("/tmp/test-config", "mpesa", "credentials.json")
		if result != expected {
			t.Errorf("Expected %s, got %s", expected, result)
		}
	})

	t.Run("without XDG_CONFIG_HOME set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")

		homeDir, err := os.UserHomeDir()
		if err != nil {
			t.Fatalf("Failed to get home directory: %v", err)
		}
		result := DefaultCredsPath()
		expected := filepath.Join(homeDir, ".config", "mpesa", "credentials.json")
		if result != expected {
			t.Errorf("Expected %s, got %s", expected, result)
		}
	})
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-config")

	if got, want := ConfigDir(), filepath.Join("/tmp/test-config", "mpesa"); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
	if got, want := DefaultConfigPath(), filepath.Join("/tmp/test-config", "mpesa", "config.yaml"); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestEnsureParentDir(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "nested", "dir", "credentials.json")

	if err := EnsureParentDir(testPath); err != nil {
		t.Fatalf("EnsureParentDir failed: %v", err)
	}

	info, err := os.Stat(filepath.Dir(testPath))
	if err != nil {
		t.Fatalf("Parent directory was not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("Expected parent to be a directory")
	}
	if info.Mode().Perm() != os.FileMode(0700) {
		t.Errorf("Expected permissions 0700, got %v", info.Mode().Perm())
	}
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()

	existing := filepath.Join(tmpDir, "exists.json")
	if err := os.WriteFile(existing, []byte("{}"), 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if !FileExists(existing) {
		t.Error("Expected FileExists to return true for existing file")
	}
	if FileExists(filepath.Join(tmpDir, "does-not-exist.json")) {
		t.Error("Expected FileExists to return false for non-existent file")
	}
	if FileExists(tmpDir) {
		t.Error("Expected FileExists to return false for a directory")
	}
	if FileExists("") {
		t.Error("Expected FileExists to return false for an empty path")
	}
}
