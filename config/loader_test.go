package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	l := NewLoader(nil)
	if err := l.EnsureUserConfig(); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	path := filepath.Join(home, UserConfigDir, UserConfigFile)
	created, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("load created config: %v", err)
	}
	if err := created.Validate(); err != nil {
		t.Errorf("created config should be valid: %v", err)
	}

	// A second call leaves an existing file untouched.
	if err := os.WriteFile(path, []byte("output:\n  format: ntriples\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := l.EnsureUserConfig(); err != nil {
		t.Fatalf("ensure existing: %v", err)
	}
	kept, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if kept.Output.Format != "ntriples" {
		t.Errorf("expected existing config to be kept, got format %q", kept.Output.Format)
	}
}
