package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != ":8080" {
		t.Fatalf("expected default port :8080, got %q", cfg.Port)
	}
	if cfg.MongoDB != "tourdb" {
		t.Fatalf("unexpected default database: %q", cfg.MongoDB)
	}
	if cfg.AccessTTL != 15*time.Minute || cfg.RefreshTTL != 7*24*time.Hour {
		t.Fatalf("unexpected default TTLs: %v / %v", cfg.AccessTTL, cfg.RefreshTTL)
	}
	if !cfg.EnforceOrderOwner {
		t.Fatal("order ownership must be enforced by default")
	}
	// voucher secret falls back to the JWT secret
	if string(cfg.VoucherSecret) != "test-secret" {
		t.Fatalf("unexpected voucher secret fallback: %q", cfg.VoucherSecret)
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing JWT_SECRET")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9000")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("ENFORCE_ORDER_OWNER", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != ":9000" {
		t.Fatalf("port must gain a leading colon, got %q", cfg.Port)
	}
	if cfg.AccessTTL != 30*time.Minute {
		t.Fatalf("unexpected access TTL: %v", cfg.AccessTTL)
	}
	if cfg.EnforceOrderOwner {
		t.Fatal("expected ownership enforcement off")
	}
}
