package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("expected default env development, got %s", cfg.Env)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("expected default token TTL 24h, got %s", cfg.TokenTTL)
	}
	if cfg.CategoryCacheTTL != 5*time.Minute {
		t.Errorf("expected default category cache TTL 5m, got %s", cfg.CategoryCacheTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("unexpected default CORS origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "3001")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("ALLOW_FAKE_PAYMENTS", "false")
	t.Setenv("VOICE_QUEUE_BUFFER", "16")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:19006, https://clinic.example.com")

	cfg := Load()

	if cfg.Port != "3001" {
		t.Errorf("expected port 3001, got %s", cfg.Port)
	}
	if cfg.TokenTTL != time.Hour {
		t.Errorf("expected token TTL 1h, got %s", cfg.TokenTTL)
	}
	if cfg.AllowFakePayments {
		t.Error("expected fake payments disabled")
	}
	if cfg.VoiceQueueBuffer != 16 {
		t.Errorf("expected queue buffer 16, got %d", cfg.VoiceQueueBuffer)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://clinic.example.com" {
		t.Errorf("unexpected CORS origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadMalformedValuesFallBack(t *testing.T) {
	t.Setenv("TOKEN_TTL", "not-a-duration")
	t.Setenv("DEPOSIT_AMOUNT_CENTS", "lots")

	cfg := Load()

	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("expected fallback token TTL, got %s", cfg.TokenTTL)
	}
	if cfg.DepositAmountCents != 50000 {
		t.Errorf("expected fallback deposit amount, got %d", cfg.DepositAmountCents)
	}
}
