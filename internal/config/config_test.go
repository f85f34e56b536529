package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  port: 9090\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.BaseURL != "http://localhost:9090" {
		t.Errorf("base URL = %q", cfg.Server.BaseURL)
	}
	if cfg.Nameservers.Primary != "ns1.dinio.com." {
		t.Errorf("primary NS = %q", cfg.Nameservers.Primary)
	}
	if cfg.Nameservers.Secondary != "ns2.dinio.com." {
		t.Errorf("secondary NS = %q", cfg.Nameservers.Secondary)
	}
	if cfg.PayPal.Currency != "EUR" {
		t.Errorf("currency = %q", cfg.PayPal.Currency)
	}
}

func TestLoadNameserverDotEnforced(t *testing.T) {
	cfg, err := Load(writeConfig(t, "nameservers:\n  primary: ns1.example.net\n  secondary: ns2.example.net.\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Nameservers.Primary != "ns1.example.net." {
		t.Errorf("primary NS = %q, want trailing dot added", cfg.Nameservers.Primary)
	}
	if cfg.Nameservers.Secondary != "ns2.example.net." {
		t.Errorf("secondary NS = %q, want unchanged", cfg.Nameservers.Secondary)
	}
}

func TestLoadLDAPValidation(t *testing.T) {
	_, err := Load(writeConfig(t, "ldap:\n  enabled: true\n"))
	if err == nil {
		t.Fatal("expected error for enabled LDAP without url")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
