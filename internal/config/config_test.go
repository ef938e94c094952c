package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "PORT", "NOTIFY_BROKER", "CORS_ORIGINS", "DB_HOST", "DB_NAME", "CHAT_TIMEOUT"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "5000" {
		t.Errorf("port = %q, want 5000", cfg.Port)
	}
	if cfg.Notify.Broker != "none" {
		t.Errorf("broker = %q", cfg.Notify.Broker)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("cors = %v", cfg.CORSOrigins)
	}
	if cfg.Chat.Timeout != 20*time.Second {
		t.Errorf("chat timeout = %s", cfg.Chat.Timeout)
	}
	if cfg.DB.Enabled() {
		t.Error("db enabled without host")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("NOTIFY_BROKER", "NATS")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://campus.example ,")
	t.Setenv("KITCHEN_TICK", "250ms")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "campus")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("APP_PORT should win, got %q", cfg.Port)
	}
	if cfg.Notify.Broker != "nats" {
		t.Errorf("broker = %q", cfg.Notify.Broker)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://campus.example" {
		t.Errorf("cors = %v", cfg.CORSOrigins)
	}
	if cfg.Kitchen.Tick != 250*time.Millisecond {
		t.Errorf("tick = %s", cfg.Kitchen.Tick)
	}
	if !cfg.DB.Enabled() {
		t.Error("db not enabled")
	}
}

func TestRateLimitConfigNormalizes(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	if cfg.Capacity != 1 {
		t.Errorf("capacity = %d, want 1", cfg.Capacity)
	}
	if cfg.RefillInterval != 2*time.Second || cfg.RefillTokens != 1 {
		t.Errorf("refill = %d per %s", cfg.RefillTokens, cfg.RefillInterval)
	}
	if cfg.TTL != 10*time.Second {
		t.Errorf("ttl = %s, want 10s", cfg.TTL)
	}
}

func TestNewLogger(t *testing.T) {
	l := NewLogger(Config{Env: "prod", LogLevel: "debug"})
	if _, ok := l.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("formatter = %T, want JSON", l.Formatter)
	}
	if l.Level != logrus.DebugLevel {
		t.Errorf("level = %s", l.Level)
	}
	if l := NewLogger(Config{Env: "dev", LogLevel: "loud"}); l.Level != logrus.InfoLevel {
		t.Errorf("bad level fell back to %s", l.Level)
	}
}
