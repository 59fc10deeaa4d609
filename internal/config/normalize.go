// internal/config/normalize.go
package config

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.HeatPump.Port == 0 {
		cfg.HeatPump.Port = 8889
	}
	if cfg.HeatPump.TimeoutMs == 0 {
		cfg.HeatPump.TimeoutMs = 5000
	}
	if cfg.HeatPump.PollIntervalMs == 0 {
		cfg.HeatPump.PollIntervalMs = 20000
	}

	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = "luxbridge"
	}
	if cfg.MQTT.TopicPrefix == "" {
		cfg.MQTT.TopicPrefix = "luxtronik"
	}

	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}
