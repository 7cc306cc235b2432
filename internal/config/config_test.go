package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.HTTPAddr != ":8084" {
		t.Fatalf("expected default HTTP_ADDR, got %s", cfg.HTTPAddr)
	}
	if cfg.BackendURL != "http://127.0.0.1:8080" {
		t.Fatalf("expected default BACKEND_URL, got %s", cfg.BackendURL)
	}
	if cfg.MarkerStore != "memory" {
		t.Fatalf("expected default MARKER_STORE, got %s", cfg.MarkerStore)
	}
	if cfg.LinkFailureBlocks {
		t.Fatalf("expected LINK_FAILURE_BLOCKS to default to false")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":18084")
	t.Setenv("BACKEND_URL", "https://backend.test")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("JWT_ISSUER", "test-issuer")
	t.Setenv("MARKER_STORE", "redis")
	t.Setenv("MARKER_TTL", "30m")
	t.Setenv("LINK_FAILURE_BLOCKS", "true")

	cfg := Load()
	if cfg.HTTPAddr != ":18084" {
		t.Fatalf("expected HTTP_ADDR override, got %s", cfg.HTTPAddr)
	}
	if cfg.BackendURL != "https://backend.test" {
		t.Fatalf("expected BACKEND_URL override, got %s", cfg.BackendURL)
	}
	if cfg.BackendTimeout != 3*time.Second {
		t.Fatalf("expected BACKEND_TIMEOUT 3s, got %s", cfg.BackendTimeout)
	}
	if cfg.JWTIssuer != "test-issuer" {
		t.Fatalf("expected JWT_ISSUER override, got %s", cfg.JWTIssuer)
	}
	if cfg.MarkerStore != "redis" {
		t.Fatalf("expected MARKER_STORE override, got %s", cfg.MarkerStore)
	}
	if cfg.MarkerTTL != 30*time.Minute {
		t.Fatalf("expected MARKER_TTL 30m, got %s", cfg.MarkerTTL)
	}
	if !cfg.LinkFailureBlocks {
		t.Fatalf("expected LINK_FAILURE_BLOCKS override")
	}
}

func TestGetenvDurationSeconds(t *testing.T) {
	t.Setenv("BACKEND_TIMEOUT_SECONDS", "7")
	cfg := Load()
	if cfg.BackendTimeout != 7*time.Second {
		t.Fatalf("expected BACKEND_TIMEOUT 7s, got %s", cfg.BackendTimeout)
	}
}
