// internal/config/validate.go
package config

import (
	"fmt"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg.HeatPump.Host == "" {
		return fmt.Errorf("heatpump.host is required")
	}

	if cfg.HeatPump.Port < 0 || cfg.HeatPump.Port > 65535 {
		return fmt.Errorf("heatpump.port out of range: %d", cfg.HeatPump.Port)
	}

	if cfg.HeatPump.TimeoutMs < 0 {
		return fmt.Errorf("heatpump.timeout_ms must not be negative: %d", cfg.HeatPump.TimeoutMs)
	}

	if cfg.HeatPump.PollIntervalMs < 0 {
		return fmt.Errorf("heatpump.poll_interval_ms must not be negative: %d", cfg.HeatPump.PollIntervalMs)
	}

	// MQTT is optional: with no broker the bridge logs updates instead of
	// publishing them. Credentials without a broker are a config mistake.
	if cfg.MQTT.Broker == "" && (cfg.MQTT.Username != "" || cfg.MQTT.Password != "") {
		return fmt.Errorf("mqtt credentials set but mqtt.broker is empty")
	}

	switch cfg.Language {
	case "", "en", "pl", "nl":
	default:
		return fmt.Errorf("unsupported language %q (supported: en, pl, nl)", cfg.Language)
	}

	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log_level %q", cfg.LogLevel)
	}

	return nil
}
