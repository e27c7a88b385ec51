// Package configuration holds the process configuration of the evaluation
// rules worker, loaded from environment variables.
package configuration

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"github.com/ahrav/go-evalrules/internal/settings"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Settings sources.
const (
	SourceStatic = "static"
	SourceRedis  = "redis"
)

// Config is the worker configuration.
type Config struct {
	Temporal      TemporalConfig          `json:"temporal"`
	Redis         RedisConfig             `json:"redis"`
	Kafka         KafkaConfig             `json:"kafka"`
	Settings      SettingsConfig          `json:"settings"`
	Identity      IdentityConfig          `json:"identity"`
	Observability ObservabilityConfig     `json:"observability"`
	System        settings.SystemDefaults `json:"system"`
}

// TemporalConfig locates the Temporal frontend and task queue.
type TemporalConfig struct {
	HostPort        string        `json:"host_port" env:"EVALRULES_TEMPORAL_HOST_PORT" envDefault:"localhost:7233" validate:"required,hostname_port"`
	Namespace       string        `json:"namespace" env:"EVALRULES_TEMPORAL_NAMESPACE" envDefault:"default" validate:"required"`
	TaskQueue       string        `json:"task_queue" env:"EVALRULES_TEMPORAL_TASK_QUEUE" envDefault:"evalrules" validate:"required"`
	ActivityTimeout time.Duration `json:"activity_timeout" env:"EVALRULES_TEMPORAL_ACTIVITY_TIMEOUT" envDefault:"30s" validate:"gt=0"`
}

// RedisConfig locates the settings hash when the Redis source is used.
type RedisConfig struct {
	Addr     string `json:"addr" env:"EVALRULES_REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `json:"-" env:"EVALRULES_REDIS_PASSWORD"`
	DB       int    `json:"db" env:"EVALRULES_REDIS_DB" envDefault:"0" validate:"min=0"`
	HashKey  string `json:"hash_key" env:"EVALRULES_REDIS_HASH_KEY" envDefault:"evalrules:settings"`
}

// KafkaConfig enables event publishing when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string `json:"brokers" env:"EVALRULES_KAFKA_BROKERS" envSeparator:","`
	Topic   string   `json:"topic" env:"EVALRULES_KAFKA_TOPIC" envDefault:"evalrules.events"`
}

// Enabled reports whether event publishing is configured.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

// SettingsConfig selects where evaluation settings are read from.
type SettingsConfig struct {
	Source string `json:"source" env:"EVALRULES_SETTINGS_SOURCE" envDefault:"static" validate:"oneof=static redis"`
}

// IdentityConfig seeds the worker's user directory.
type IdentityConfig struct {
	// Users maps user ids to email addresses, e.g. "u1=a@example.edu,u2=b@example.edu".
	Users map[string]string `json:"users" env:"EVALRULES_USERS" envKeyValSeparator:"=" validate:"dive,keys,required,endkeys,email"`

	// AdminIDs lists the user ids granted admin rights.
	AdminIDs []string `json:"admin_ids" env:"EVALRULES_ADMIN_IDS" envSeparator:"," validate:"dive,required"`
}

// ObservabilityConfig controls logging.
type ObservabilityConfig struct {
	LogLevel  string `json:"log_level" env:"EVALRULES_LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogFormat string `json:"log_format" env:"EVALRULES_LOG_FORMAT" envDefault:"json" validate:"oneof=json text"`
}

// SlogLevel returns the slog level named by LogLevel.
func (o ObservabilityConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseEnv populates target from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the configuration from the environment and validates it.
// Unset variables take the values of DefaultConfig.
func Load() (*Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
