package registry

import (
	"github.com/rs/zerolog"

	"github.com/tamzrod/luxtronik-bridge/internal/health"
)

// Log is a registry that only writes to the log. It is the fallback when
// no MQTT broker is configured, useful for dry runs against a live pump.
type Log struct {
	log zerolog.Logger
}

func NewLog(logger zerolog.Logger) *Log {
	return &Log{log: logger.With().Str("component", "registry").Logger()}
}

func (l *Log) Describe(devices []Device) error {
	for _, d := range devices {
		l.log.Info().
			Str("slug", d.Slug).
			Str("name", d.Name).
			Str("category", d.Category).
			Bool("writable", d.Writable).
			Msg("device")
	}
	return nil
}

func (l *Log) Publish(u Update) error {
	l.log.Info().
		Str("slug", u.Slug).
		Str("value", u.Text).
		Int("numeric", u.Numeric).
		Str("reason", u.Reason).
		Msg("update")
	return nil
}

func (l *Log) PublishHealth(s health.Snapshot) error {
	l.log.Info().
		Stringer("state", s.State).
		Int("consecutive_failures", s.ConsecutiveFailures).
		Msg("health")
	return nil
}

func (l *Log) Close() {}
