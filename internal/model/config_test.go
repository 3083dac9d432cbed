package model

import (
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Provision.ReprovisionThreshold != 70 {
		t.Fatalf("reprovision threshold default = %v, want 70", cfg.Provision.ReprovisionThreshold)
	}
	if cfg.Provision.CoverageWarnThreshold != 90 {
		t.Fatalf("coverage warn threshold default = %v, want 90", cfg.Provision.CoverageWarnThreshold)
	}
	if cfg.Provision.CredentialTTLSec != 300 {
		t.Fatalf("credential TTL default = %v, want 300", cfg.Provision.CredentialTTLSec)
	}
	if cfg.DBPath == "" {
		t.Fatalf("default db path is empty")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	want := &AppConfig{
		DBPath:  "/tmp/foldersync-test.db",
		Gmail:   ProviderConfig{BaseURL: "http://localhost:8080/gmail"},
		Outlook: ProviderConfig{BaseURL: "http://localhost:8080/graph"},
		Provision: ProvisionConfig{
			ReprovisionThreshold:  55,
			CoverageWarnThreshold: 80,
			CredentialTTLSec:      60,
		},
	}
	if err := SaveConfig(path, want); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if got.DBPath != want.DBPath {
		t.Errorf("db path = %q, want %q", got.DBPath, want.DBPath)
	}
	if got.Gmail.BaseURL != want.Gmail.BaseURL {
		t.Errorf("gmail base url = %q, want %q", got.Gmail.BaseURL, want.Gmail.BaseURL)
	}
	if got.Outlook.BaseURL != want.Outlook.BaseURL {
		t.Errorf("outlook base url = %q, want %q", got.Outlook.BaseURL, want.Outlook.BaseURL)
	}
	if got.Provision != want.Provision {
		t.Errorf("provision config = %+v, want %+v", got.Provision, want.Provision)
	}
}
