package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xyths/nft-dashboard/cache"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("OPENSEA_API_KEY", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("LISTEN_ADDR", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != ":8080" || cfg.Cache.Backend != cache.BackendMemory || cfg.Events.Limit != 50 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.OpenSea.APIKey != "" {
		t.Fatal("expected no api key")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OPENSEA_API_KEY", "key")
	t.Setenv("REDIS_URL", "redis://cache:6379/0")
	t.Setenv("LISTEN_ADDR", ":9090")
	cfg := Config{Listen: ":1"}
	applyEnv(&cfg)
	if cfg.OpenSea.APIKey != "key" || cfg.Listen != ":9090" {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
	if cfg.Cache.Backend != cache.BackendRedis || cfg.Cache.RedisURL != "redis://cache:6379/0" {
		t.Fatalf("expected redis backend, got %+v", cfg.Cache)
	}
}

func TestDuration(t *testing.T) {
	if got := Duration("", time.Minute); got != time.Minute {
		t.Fatalf("got %s", got)
	}
	if got := Duration("30s", time.Minute); got != 30*time.Second {
		t.Fatalf("got %s", got)
	}
	if got := Duration("soon", time.Minute); got != time.Minute {
		t.Fatalf("got %s", got)
	}
}
