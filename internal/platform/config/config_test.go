package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected addr: %s", cfg.Addr)
	}
	if cfg.SMTPPort != 587 {
		t.Fatalf("unexpected smtp port: %d", cfg.SMTPPort)
	}
	if cfg.ShutdownTimeout != 15*time.Second {
		t.Fatalf("unexpected shutdown timeout: %s", cfg.ShutdownTimeout)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		DatabaseURL:        "postgres://localhost/leave",
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 60,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	missing := valid
	missing.DatabaseURL = ""
	if err := missing.Validate(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}

	prod := valid
	prod.Environment = "production"
	if err := prod.Validate(); err == nil {
		t.Fatal("expected error for empty JWT secret in production")
	}

	email := valid
	email.EmailEnabled = true
	if err := email.Validate(); err == nil {
		t.Fatal("expected error for enabled email without SMTP host")
	}
}
