// File: internal/config/config.go
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/usecase"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AdminConfig struct {
	JWTSecret     string                   `yaml:"jwt_secret"`
	SessionTTL    time.Duration            `yaml:"session_ttl"`
	AllowList     []usecase.AllowListEntry `yaml:"allow_list"`
	NotifyAddress string                   `yaml:"notify_address"` // ops mailbox for code notifications
}

type PaymentConfig struct {
	Gateway        string        `yaml:"gateway"` // manual | (future PSP names)
	CallbackURL    string        `yaml:"callback_url"`
	PendingMaxAge  time.Duration `yaml:"pending_max_age"`
	RatePerPhone   int           `yaml:"rate_per_phone"` // purchases per phone per window
	RateWindow     time.Duration `yaml:"rate_window"`
	CodeValidity   time.Duration `yaml:"code_validity"`
	ReconcileEvery time.Duration `yaml:"reconcile_every"`
}

type SessionsConfig struct {
	TickEvery time.Duration `yaml:"tick_every"`
}

type WorkerConfig struct {
	Count     int `yaml:"count"`
	QueueSize int `yaml:"queue_size"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Admin    AdminConfig    `yaml:"admin"`
	Payment  PaymentConfig  `yaml:"payment"`
	Sessions SessionsConfig `yaml:"sessions"`
	Worker   WorkerConfig   `yaml:"worker"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig() (*Config, error) {
	var configPath string = ""
	var dev bool
	flag.StringVar(&configPath, "config", "config.yaml", "path to config yaml")
	flag.BoolVar(&dev, "dev", false, "development mode")
	flag.Parse()

	b, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Admin.JWTSecret == "" {
		return nil, errors.New("admin.jwt_secret is required")
	}
	if len(cfg.Admin.AllowList) == 0 {
		return nil, errors.New("admin.allow_list must name at least one user")
	}
	for _, e := range cfg.Admin.AllowList {
		if e.Username == "" || e.PasswordHash == "" {
			return nil, fmt.Errorf("admin.allow_list entry %q needs username and password_hash", e.Username)
		}
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 15 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if cfg.Admin.SessionTTL <= 0 {
		cfg.Admin.SessionTTL = 12 * time.Hour
	}
	if cfg.Payment.Gateway == "" {
		cfg.Payment.Gateway = "manual"
	}
	if cfg.Payment.PendingMaxAge <= 0 {
		cfg.Payment.PendingMaxAge = 30 * time.Minute
	}
	if cfg.Payment.RatePerPhone <= 0 {
		cfg.Payment.RatePerPhone = 5
	}
	if cfg.Payment.RateWindow <= 0 {
		cfg.Payment.RateWindow = time.Hour
	}
	if cfg.Payment.CodeValidity <= 0 {
		cfg.Payment.CodeValidity = 72 * time.Hour
	}
	if cfg.Payment.ReconcileEvery <= 0 {
		cfg.Payment.ReconcileEvery = 5 * time.Minute
	}
	if cfg.Sessions.TickEvery <= 0 {
		cfg.Sessions.TickEvery = time.Minute
	}
	if cfg.Worker.Count <= 0 {
		cfg.Worker.Count = 4
	}
	if cfg.Worker.QueueSize <= 0 {
		cfg.Worker.QueueSize = 64
	}
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
