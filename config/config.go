package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	JWT           JWTConfig           `yaml:"jwt"`
	Engagement    EngagementConfig    `yaml:"engagement"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// HTTPConfig holds the read API configuration.
type HTTPConfig struct {
	Address string `yaml:"address"`
}

// JWTConfig holds JWT configuration for the read API.
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// EngagementConfig holds scoring engine configuration.
type EngagementConfig struct {
	VoiceTallyInterval time.Duration `yaml:"voice_tally_interval"`
	VoiceTallyWorkers  int           `yaml:"voice_tally_workers"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
}

// LoadConfig loads the configuration from a YAML file, falling back to
// environment variables when the file is absent. Environment variables
// override file values either way.
func LoadConfig(filename string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(filename)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("VOICE_TALLY_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Engagement.VoiceTallyInterval = d
		}
	}
	if v := os.Getenv("VOICE_TALLY_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engagement.VoiceTallyWorkers = n
		}
	}

	cfg.applyDefaults()

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required (config file or DATABASE_URL)")
	}
	if cfg.NATS.URL == "" {
		return nil, fmt.Errorf("NATS URL is required (config file or NATS_URL)")
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.Observability.MetricsAddress == "" {
		c.Observability.MetricsAddress = ":9090"
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = "development"
	}
	if c.Engagement.VoiceTallyInterval <= 0 {
		c.Engagement.VoiceTallyInterval = time.Minute
	}
	if c.Engagement.VoiceTallyWorkers <= 0 {
		c.Engagement.VoiceTallyWorkers = 8
	}
}
