package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	t.Setenv("PUBLIC_BASE_URL", "https://api.example.com")
	t.Setenv("ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-secret")
	t.Setenv("JWT_ISSUER", "auth-svc")
	t.Setenv("JWT_AUDIENCE", "taskhub")
}

func TestLoad_Success(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCESS_TOKEN_TTL", "2m")
	t.Setenv("REFRESH_TOKEN_TTL", "72h")
	t.Setenv("EPHEMERAL_TOKEN_TTL", "20m")
	t.Setenv("PASSWORD_PEPPER", "pepper")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.AccessTokenTTL != 2*time.Minute {
		t.Fatalf("AccessTokenTTL want 2m, got %v", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 72*time.Hour {
		t.Fatalf("RefreshTokenTTL want 72h, got %v", cfg.RefreshTokenTTL)
	}
	if cfg.EphemeralTokenTTL != 20*time.Minute {
		t.Fatalf("EphemeralTokenTTL want 20m, got %v", cfg.EphemeralTokenTTL)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_ISSUER", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error due to missing JWT_ISSUER, got nil")
	}
}

func TestLoad_SecretsMustDiffer(t *testing.T) {
	setRequired(t)
	t.Setenv("REFRESH_TOKEN_SECRET", "access-secret")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for identical token secrets, got nil")
	}
}
