package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.Port != "3000" {
		t.Errorf("port = %q, want 3000", cfg.App.Port)
	}
	if cfg.Store.Backend != StoreBackendFile {
		t.Errorf("backend = %q, want file", cfg.Store.Backend)
	}
	if cfg.Store.FilePath == "" {
		t.Error("store file path not defaulted")
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "dynamodb")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown STORE_BACKEND")
	}
}

func TestLoadSelectsBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "10.0.0.5:6379")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Store.Backend != StoreBackendRedis {
		t.Errorf("backend = %q, want redis", cfg.Store.Backend)
	}
	if cfg.Redis.Addr != "10.0.0.5:6379" {
		t.Errorf("redis addr = %q", cfg.Redis.Addr)
	}
}
