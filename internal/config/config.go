// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HeatPump HeatPumpConfig `yaml:"heatpump"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Metrics  MetricsConfig  `yaml:"metrics"`

	Language string `yaml:"language"`
	LogLevel string `yaml:"log_level"`
}

// ---- HEAT PUMP ----

type HeatPumpConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	TimeoutMs      int    `yaml:"timeout_ms"`
	PollIntervalMs int    `yaml:"poll_interval_ms"`
}

// ---- MQTT ----

type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topic_prefix"`
}

// ---- METRICS ----

type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

// Load reads and decodes a YAML configuration file. The result is raw:
// call Validate and then Normalize before use.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return &cfg, nil
}
