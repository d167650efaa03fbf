package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestLoadConfigPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "preferredMSS: 536\nmaxRetries: 3\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	conf, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if conf.PreferredMSS != 536 {
		t.Errorf("expected preferredMSS 536, got %d", conf.PreferredMSS)
	}
	if conf.MaxRetries != 3 {
		t.Errorf("expected maxRetries 3, got %d", conf.MaxRetries)
	}
	// untouched keys keep their defaults
	if conf.RtoMax != 120000 {
		t.Errorf("expected default rtoMax 120000, got %d", conf.RtoMax)
	}
	if conf.InitCwnd != 10 {
		t.Errorf("expected default initCwnd 10, got %d", conf.InitCwnd)
	}
}
