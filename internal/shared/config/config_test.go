package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("OBJECT_STORE", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("DEFAULT_TENDER_ID", "")

	cfg := Load()
	if cfg.Env != "dev" {
		t.Fatalf("expected env dev, got %q", cfg.Env)
	}
	if cfg.ObjectStoreType != "local" {
		t.Fatalf("expected local store, got %q", cfg.ObjectStoreType)
	}
	if cfg.LLMProvider != "gemini" {
		t.Fatalf("expected gemini provider, got %q", cfg.LLMProvider)
	}
	if cfg.DefaultTenderID != DefaultTenderID {
		t.Fatalf("expected default tender id %q, got %q", DefaultTenderID, cfg.DefaultTenderID)
	}
	if !cfg.IsDevLike() {
		t.Fatalf("expected dev env to be dev-like")
	}
}

func TestNormalizers(t *testing.T) {
	if got := normalizeStoreType(" GCS "); got != "gcs" {
		t.Fatalf("normalizeStoreType: got %q", got)
	}
	if got := normalizeProvider("whatever"); got != "none" {
		t.Fatalf("normalizeProvider: got %q", got)
	}
	if got := normalizeEnv("prod"); got != "production" {
		t.Fatalf("normalizeEnv: got %q", got)
	}
	if got := normalizeIntegrationsMode("LIVE"); got != "live" {
		t.Fatalf("normalizeIntegrationsMode: got %q", got)
	}
}

func TestLoadEnvFilesDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("TENDER_TEST_KEY=from-file\nTENDER_TEST_OTHER=\"quoted\"\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("TENDER_TEST_KEY", "from-process")
	t.Setenv("TENDER_TEST_OTHER", "")
	os.Unsetenv("TENDER_TEST_OTHER")

	loadEnvFiles(path, filepath.Join(dir, "missing.env"))

	if got := os.Getenv("TENDER_TEST_KEY"); got != "from-process" {
		t.Fatalf("expected process value to win, got %q", got)
	}
	if got := os.Getenv("TENDER_TEST_OTHER"); got != "quoted" {
		t.Fatalf("expected quoted value to load, got %q", got)
	}
}
