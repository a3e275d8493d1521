// Package config carga la configuración del servicio:
// defaults razonables, overlay desde un archivo yaml y overrides por env.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// Cola donde el notifier encola eventos (vacío => no se usa la cola).
	EventQueue string `yaml:"event_queue"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
}

type SweeperConfig struct {
	// Intervalo del barrido en segundos. El contrato no promete precisión
	// sub-minuto, así que 60 es suficiente.
	IntervalSeconds int `yaml:"interval_seconds"`
}

type WebhookConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type AppConfig struct {
	ServerAddr string         `yaml:"server_addr"`
	Database   DatabaseConfig `yaml:"database"`
	Redis      RedisConfig    `yaml:"redis"`
	JWT        JWTConfig      `yaml:"jwt"`
	Sweeper    SweeperConfig  `yaml:"sweeper"`
	Webhook    WebhookConfig  `yaml:"webhook"`
	Log        LogConfig      `yaml:"log"`
}

func defaults() *AppConfig {
	return &AppConfig{
		ServerAddr: ":8080",
		Sweeper:    SweeperConfig{IntervalSeconds: 60},
		Webhook:    WebhookConfig{TimeoutSeconds: 10},
		Log:        LogConfig{Level: "info", Format: "text"},
	}
}

// Load construye la configuración: defaults, luego yaml (si path != ""),
// luego env vars (PORT, DB_DSN, REDIS_ADDR, JWT_SECRET, WEBHOOK_URL,
// LOG_LEVEL, LOG_FORMAT, SWEEP_INTERVAL_SECONDS).
func Load(path string) (*AppConfig, error) {
	cfg := defaults()

	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if cfg.Sweeper.IntervalSeconds <= 0 {
		cfg.Sweeper.IntervalSeconds = 60
	}
	if cfg.Webhook.TimeoutSeconds <= 0 {
		cfg.Webhook.TimeoutSeconds = 10
	}

	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.ServerAddr = ":" + v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("WEBHOOK_URL"); v != "" {
		cfg.Webhook.URL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("SWEEP_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Sweeper.IntervalSeconds = n
		}
	}
}

func (c *AppConfig) SweepInterval() time.Duration {
	return time.Duration(c.Sweeper.IntervalSeconds) * time.Second
}

func (c *AppConfig) WebhookTimeout() time.Duration {
	return time.Duration(c.Webhook.TimeoutSeconds) * time.Second
}
