// Package registry is the host-side device registry collaborator: it owns
// device descriptions and receives the updates the tracker accepted. The
// core never talks to the outside world except through this interface.
package registry

import (
	"strings"
	"time"

	"github.com/tamzrod/luxtronik-bridge/internal/health"
)

// Device is the static description of one logical field as the host sees
// it: display metadata only, opaque to the core.
type Device struct {
	Slug     string   `json:"slug"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Unit     string   `json:"unit,omitempty"`
	Options  []string `json:"options,omitempty"`
	Writable bool     `json:"writable"`
}

// Update is one accepted value change for a device.
type Update struct {
	Slug    string    `json:"-"`
	Numeric int       `json:"numeric"`
	Text    string    `json:"value"`
	Reason  string    `json:"reason"`
	At      time.Time `json:"at"`
}

// Registry is implemented by the concrete hosts (MQTT, log).
type Registry interface {
	// Describe creates or refreshes the device catalog. Called once at
	// startup with the full table.
	Describe(devices []Device) error

	// Publish delivers one accepted update.
	Publish(u Update) error

	// PublishHealth delivers a bridge health transition.
	PublishHealth(s health.Snapshot) error

	Close()
}

// Slug derives the stable, topic-safe identifier for a logical field name.
// It is intentionally derived from the English key, never the localized
// display name, so renaming a translation cannot move a device.
func Slug(name string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case r == '+':
			b.WriteString("plus")
			lastUnderscore = false
		case r == '-':
			b.WriteString("minus")
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
