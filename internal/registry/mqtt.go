package registry

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/tamzrod/luxtronik-bridge/internal/health"
)

const (
	publishTimeout = 5 * time.Second
	qosAtLeastOnce = 1
)

// MQTTConfig is the broker side of the registry.
type MQTTConfig struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	Logger      zerolog.Logger
}

// MQTT publishes the device catalog, accepted updates and health
// transitions to an MQTT broker, and feeds `<prefix>/<slug>/set` commands
// back to the bridge.
//
// Topics:
//
//	<prefix>/<slug>/config   retained device description
//	<prefix>/<slug>/state    value updates
//	<prefix>/bridge/health   retained bridge health
//	<prefix>/<slug>/set      inbound write commands
type MQTT struct {
	cli    mqtt.Client
	prefix string
	log    zerolog.Logger
}

// NewMQTT connects to the broker. An initial connection failure is
// tolerated: paho keeps retrying in the background and publishes resume
// once the broker is reachable.
func NewMQTT(cfg MQTTConfig) (*MQTT, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("registry: mqtt broker required")
	}

	logger := cfg.Logger.With().Str("component", "registry").Logger()

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetOrderMatters(false)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		logger.Info().Str("broker", cfg.Broker).Msg("connected to MQTT broker")
	})

	m := &MQTT{
		cli:    mqtt.NewClient(opts),
		prefix: cfg.TopicPrefix,
		log:    logger,
	}

	if token := m.cli.Connect(); token.Wait() && token.Error() != nil {
		logger.Warn().Err(token.Error()).Msg("initial MQTT connect failed, retrying in background")
	}

	return m, nil
}

func (m *MQTT) Describe(devices []Device) error {
	for _, d := range devices {
		if err := m.publishJSON(m.topic(d.Slug, "config"), d, true); err != nil {
			return fmt.Errorf("registry: describe %s: %w", d.Slug, err)
		}
	}
	m.log.Info().Int("devices", len(devices)).Msg("device catalog published")
	return nil
}

func (m *MQTT) Publish(u Update) error {
	return m.publishJSON(m.topic(u.Slug, "state"), u, false)
}

func (m *MQTT) PublishHealth(s health.Snapshot) error {
	payload := struct {
		State               string `json:"state"`
		ConsecutiveFailures int    `json:"consecutive_failures"`
		LastError           string `json:"last_error,omitempty"`
	}{
		State:               s.State.String(),
		ConsecutiveFailures: s.ConsecutiveFailures,
		LastError:           s.LastError,
	}
	return m.publishJSON(m.topic("bridge", "health"), payload, true)
}

// SubscribeCommands routes `<prefix>/<slug>/set` payloads to handler.
// The handler must not block: it is called on paho's router goroutine.
func (m *MQTT) SubscribeCommands(handler func(slug, payload string)) error {
	filter := m.prefix + "/+/set"
	token := m.cli.Subscribe(filter, qosAtLeastOnce, func(_ mqtt.Client, msg mqtt.Message) {
		slug := commandSlug(msg.Topic())
		if slug == "" {
			return
		}
		handler(slug, string(msg.Payload()))
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("registry: subscribe %s: %w", filter, token.Error())
	}
	return nil
}

func (m *MQTT) Close() {
	m.cli.Disconnect(uint(publishTimeout / time.Millisecond))
}

func (m *MQTT) topic(slug, leaf string) string {
	return m.prefix + "/" + slug + "/" + leaf
}

func (m *MQTT) publishJSON(topic string, v any, retained bool) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	token := m.cli.Publish(topic, qosAtLeastOnce, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish %s: timeout", topic)
	}
	return token.Error()
}

// commandSlug extracts <slug> from "<prefix>/<slug>/set". The prefix itself
// may contain slashes, so parse from the tail.
func commandSlug(topic string) string {
	end := len(topic) - len("/set")
	if end <= 0 {
		return ""
	}
	start := end
	for start > 0 && topic[start-1] != '/' {
		start--
	}
	return topic[start:end]
}
