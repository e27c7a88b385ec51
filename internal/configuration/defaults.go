package configuration

import (
	"time"

	"github.com/ahrav/go-evalrules/internal/settings"
)

// Temporal defaults.
const (
	DefaultTemporalHostPort  = "localhost:7233"
	DefaultTemporalNamespace = "default"
	DefaultTaskQueue         = "evalrules"
	DefaultActivityTimeout   = 30 * time.Second
)

// Storage and messaging defaults.
const (
	DefaultRedisAddr  = "localhost:6379"
	DefaultKafkaTopic = "evalrules.events"
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// DefaultConfig returns the configuration used when no environment variables
// are set: a local Temporal frontend, static settings, and no event publishing.
func DefaultConfig() *Config {
	return &Config{
		Temporal: TemporalConfig{
			HostPort:        DefaultTemporalHostPort,
			Namespace:       DefaultTemporalNamespace,
			TaskQueue:       DefaultTaskQueue,
			ActivityTimeout: DefaultActivityTimeout,
		},
		Redis: RedisConfig{
			Addr:    DefaultRedisAddr,
			HashKey: settings.DefaultRedisHashKey,
		},
		Kafka: KafkaConfig{
			Topic: DefaultKafkaTopic,
		},
		Settings: SettingsConfig{
			Source: SourceStatic,
		},
		Observability: ObservabilityConfig{
			LogLevel:  DefaultLogLevel,
			LogFormat: DefaultLogFormat,
		},
		System: settings.DefaultSystemDefaults(),
	}
}
