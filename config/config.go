package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/xyths/hs"

	"github.com/xyths/nft-dashboard/cache"
	"github.com/xyths/nft-dashboard/monitor"
	"github.com/xyths/nft-dashboard/notify"
	"github.com/xyths/nft-dashboard/opensea"
)

const (
	defaultListen    = ":8080"
	defaultRetention = "24h"
)

type Config struct {
	Log      hs.LogConf
	Mongo    hs.MongoConf
	Listen   string
	OpenSea  opensea.Config `json:"opensea"`
	Cache    cache.Config
	Events   EventsConf
	Monitor  monitor.Config
	Telegram notify.TelegramConf
	Discord  notify.DiscordConf
}

// EventsConf controls the MongoDB event store behind the activity feed.
type EventsConf struct {
	Enabled   bool
	Retention string // TTL of stored events
	Limit     int    // events per feed
}

// Load reads the JSON file (a missing file yields defaults), then the .env
// files, then environment overrides.
func Load(file string) (Config, error) {
	_ = godotenv.Load(".env", ".env.local")
	cfg := Config{}
	if file != "" {
		if _, err := os.Stat(file); err == nil {
			if err := hs.ParseJsonConfig(file, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", file, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("OPENSEA_API_KEY"); v != "" {
		cfg.OpenSea.APIKey = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.RedisURL = v
		if cfg.Cache.Backend == "" {
			cfg.Cache.Backend = cache.BackendRedis
		}
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Listen = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Listen == "" {
		cfg.Listen = defaultListen
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = cache.BackendMemory
	}
	if cfg.Events.Retention == "" {
		cfg.Events.Retention = defaultRetention
	}
	if cfg.Events.Limit <= 0 {
		cfg.Events.Limit = 50
	}
}

// Duration parses s, returning def when s is empty or malformed.
func Duration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
