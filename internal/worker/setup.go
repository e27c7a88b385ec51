// Package worker provides initialization and setup utilities for Temporal workers.
// This package contains initialization logic that should be executed during
// worker startup, keeping activity packages focused on pure activity logic.
package worker

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/ahrav/go-evalrules/internal/configuration"
	"github.com/ahrav/go-evalrules/internal/domain"
	"github.com/ahrav/go-evalrules/internal/identity"
	"github.com/ahrav/go-evalrules/internal/settings"
	"github.com/ahrav/go-evalrules/pkg/events"
)

// CloseFunc releases a resource created during setup.
type CloseFunc func() error

func noopClose() error { return nil }

// InitializeLogger builds the process logger from the observability config.
func InitializeLogger(cfg configuration.ObservabilityConfig, out io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(out, opts))
	}
	return slog.New(slog.NewJSONHandler(out, opts))
}

// InitializeSettingsLoader returns the loader selected by the settings source.
// The static source serves an in-process store that starts empty, so every
// key resolves to its registry default.
func InitializeSettingsLoader(cfg *configuration.Config, logger *slog.Logger) (settings.Loader, CloseFunc, error) {
	switch cfg.Settings.Source {
	case configuration.SourceStatic, "":
		return settings.NewStoreLoader(settings.NewStore(settings.EmptySnapshot())), noopClose, nil
	case configuration.SourceRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return settings.NewRedisLoader(client, cfg.Redis.HashKey, logger), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown settings source %q", cfg.Settings.Source)
	}
}

// InitializeEventSink returns a Kafka sink when brokers are configured and a
// no-op sink otherwise.
func InitializeEventSink(cfg configuration.KafkaConfig) (events.EventSink, CloseFunc) {
	if !cfg.Enabled() {
		return events.NewNoOpEventSink(), noopClose
	}
	sink := events.NewKafkaSink(cfg.Brokers, cfg.Topic)
	return sink, sink.Close
}

// InitializeDirectory creates the user directory described by cfg. An empty
// directory resolves every actor to a bare, non-admin user, so deployments
// that rely on admin checks or the admin reminder sender must list their
// users here or pass their own identity.Resolver in Dependencies.
func InitializeDirectory(cfg configuration.IdentityConfig) *identity.Directory {
	dir := identity.NewDirectory()
	for id, email := range cfg.Users {
		dir.AddUser(domain.User{ID: id, Email: email})
	}
	for _, id := range cfg.AdminIDs {
		dir.SetAdmin(id, true)
	}
	return dir
}
