package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
siteInfo:
  name: Forsaj Club
  defaultLocale: az
server:
  postgresDsn: host=localhost user=postgres dbname=forsaj
  redisAddr: localhost:6379
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.SiteInfo.Name != "Forsaj Club" {
		t.Fatalf("unexpected site name %q", cfg.SiteInfo.Name)
	}
	if cfg.Server.Listen != ":8000" {
		t.Fatalf("expected default listen, got %q", cfg.Server.Listen)
	}
	if cfg.Server.ReconnectCooldownSeconds != 30 {
		t.Fatalf("expected default cooldown, got %d", cfg.Server.ReconnectCooldownSeconds)
	}
	if cfg.Server.ContentDir != "./content" {
		t.Fatalf("expected default content dir, got %q", cfg.Server.ContentDir)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing config")
	}
}
