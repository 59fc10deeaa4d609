// cmd/luxbridge/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tamzrod/luxtronik-bridge/internal/config"
	"github.com/tamzrod/luxtronik-bridge/internal/dispatch"
	"github.com/tamzrod/luxtronik-bridge/internal/fields"
	"github.com/tamzrod/luxtronik-bridge/internal/i18n"
	"github.com/tamzrod/luxtronik-bridge/internal/luxtronik"
	"github.com/tamzrod/luxtronik-bridge/internal/metrics"
	"github.com/tamzrod/luxtronik-bridge/internal/registry"
	"github.com/tamzrod/luxtronik-bridge/internal/tracker"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: luxbridge <config.yaml>")
		os.Exit(2)
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config validation failed: %v\n", err)
		os.Exit(1)
	}

	config.Normalize(cfg)

	// --------------------
	// Logging
	// --------------------

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	// --------------------
	// Field table
	// --------------------

	lang, err := i18n.Parse(cfg.Language)
	if err != nil {
		logger.Fatal().Err(err).Msg("language not supported")
	}
	table := fields.Default(i18n.NewTranslator(lang))

	// --------------------
	// Heat pump client
	// --------------------

	client, err := luxtronik.New(luxtronik.Config{
		Host:    cfg.HeatPump.Host,
		Port:    cfg.HeatPump.Port,
		Timeout: time.Duration(cfg.HeatPump.TimeoutMs) * time.Millisecond,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("heat pump client setup failed")
	}

	// --------------------
	// Host registry (MQTT, or log-only without a broker)
	// --------------------

	var host registry.Registry
	var broker *registry.MQTT

	if cfg.MQTT.Broker != "" {
		broker, err = registry.NewMQTT(registry.MQTTConfig{
			Broker:      cfg.MQTT.Broker,
			ClientID:    cfg.MQTT.ClientID,
			Username:    cfg.MQTT.Username,
			Password:    cfg.MQTT.Password,
			TopicPrefix: cfg.MQTT.TopicPrefix,
			Logger:      logger,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("mqtt setup failed")
		}
		host = broker
	} else {
		logger.Warn().Msg("no mqtt broker configured, logging updates instead")
		host = registry.NewLog(logger)
	}
	defer host.Close()

	// --------------------
	// Metrics
	// --------------------

	met := metrics.New(prometheus.DefaultRegisterer)

	if cfg.Metrics.Listen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Listen, mux); err != nil {
				logger.Error().Err(err).Msg("metrics listener stopped")
			}
		}()
	}

	// --------------------
	// Dispatcher
	// --------------------

	d := dispatch.New(client, table, tracker.New(), host, met, logger)

	if err := host.Describe(d.Devices()); err != nil {
		logger.Error().Err(err).Msg("device catalog publish failed")
	}

	// Connectivity self-test. A failure here only warns: the pump may be
	// booting, and poll cycles keep retrying anyway.
	if err := d.Probe(); err != nil {
		logger.Warn().Err(err).Str("host", cfg.HeatPump.Host).Msg("heat pump not reachable yet")
	}

	// --------------------
	// Inbound commands
	// --------------------

	writes := make(chan dispatch.WriteRequest, 16)

	if broker != nil {
		fieldBySlug := make(map[string]string)
		for _, f := range table.All() {
			fieldBySlug[registry.Slug(f.Name)] = f.Name
		}

		err := broker.SubscribeCommands(func(slug, payload string) {
			name, ok := fieldBySlug[slug]
			if !ok {
				logger.Warn().Str("slug", slug).Msg("command for unknown device")
				return
			}
			select {
			case writes <- parseCommand(name, payload):
			default:
				logger.Warn().Str("field", name).Msg("command queue full, dropped")
			}
		})
		if err != nil {
			logger.Error().Err(err).Msg("command subscription failed")
		}
	}

	// --------------------
	// Run
	// --------------------

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	interval := time.Duration(cfg.HeatPump.PollIntervalMs) * time.Millisecond
	logger.Info().
		Str("host", cfg.HeatPump.Host).
		Int("port", cfg.HeatPump.Port).
		Dur("interval", interval).
		Msg("bridge started")

	d.Run(ctx, interval, writes)

	logger.Info().Msg("bridge stopped")
}

// parseCommand maps a raw payload onto a host verb. Numeric payloads are
// level commands, anything else passes through as the verb itself
// ("On", "Off").
func parseCommand(field, payload string) dispatch.WriteRequest {
	payload = strings.TrimSpace(payload)
	if level, err := strconv.ParseFloat(payload, 64); err == nil {
		return dispatch.WriteRequest{Field: field, Command: "Set Level", Level: level}
	}
	return dispatch.WriteRequest{Field: field, Command: payload}
}
