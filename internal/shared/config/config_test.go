package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"PORT", "ENV", "OBJECT_STORE", "PROVIDER_TIMEOUT_SECONDS", "RATE_LIMIT_DEPLOY_PER_MIN", "GITHUB_API_URL", "VERCEL_TOKEN"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8000" || cfg.Env != "dev" || cfg.ObjectStoreType != "local" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ProviderTimeout != 30*time.Second || cfg.DeployPerMinute != 5 {
		t.Fatalf("unexpected limits: %+v", cfg)
	}
	if cfg.GitHubAPIURL != "https://api.github.com" {
		t.Fatalf("unexpected github url %s", cfg.GitHubAPIURL)
	}
}

func TestLoadOverridesAndDotenv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("VERCEL_TOKEN=from-file\nPORT=9999\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("PORT", "7000")
	t.Setenv("VERCEL_TOKEN", "")
	os.Unsetenv("VERCEL_TOKEN")
	t.Setenv("ENV", "prod")
	t.Setenv("OBJECT_STORE", "S3")
	t.Setenv("PROVIDER_TIMEOUT_SECONDS", "nope")
	t.Setenv("VERCEL_API_URL", "http://vercel.local/")

	cfg := Load()
	if cfg.Port != "7000" {
		t.Fatalf("process env should win over .env, got %s", cfg.Port)
	}
	if cfg.VercelToken != "from-file" {
		t.Fatalf("expected token from .env, got %q", cfg.VercelToken)
	}
	if cfg.Env != "production" || cfg.ObjectStoreType != "s3" {
		t.Fatalf("unexpected normalization: %+v", cfg)
	}
	if cfg.ProviderTimeout != 30*time.Second {
		t.Fatalf("invalid timeout should fall back, got %s", cfg.ProviderTimeout)
	}
	if cfg.VercelAPIURL != "http://vercel.local" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.VercelAPIURL)
	}
}
