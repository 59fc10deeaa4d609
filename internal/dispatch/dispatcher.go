// Package dispatch orchestrates poll and write cycles: protocol exchanges
// in, converted and change-filtered updates out to the host registry.
package dispatch

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/luxtronik-bridge/internal/fields"
	"github.com/tamzrod/luxtronik-bridge/internal/health"
	"github.com/tamzrod/luxtronik-bridge/internal/luxtronik"
	"github.com/tamzrod/luxtronik-bridge/internal/metrics"
	"github.com/tamzrod/luxtronik-bridge/internal/registry"
	"github.com/tamzrod/luxtronik-bridge/internal/tracker"
)

// Client abstracts the protocol operations the dispatcher needs.
type Client interface {
	Do(cmd luxtronik.Command, addr, value int32) (luxtronik.Response, error)
}

// Dispatcher bundles the protocol client, field registry, update tracker
// and host collaborator into one explicit context object. One cycle runs
// at a time; the runner serializes calls.
type Dispatcher struct {
	client Client
	fields *fields.Registry
	track  *tracker.Tracker
	host   registry.Registry
	met    *metrics.Metrics
	log    zerolog.Logger

	health health.Snapshot
}

func New(client Client, reg *fields.Registry, track *tracker.Tracker,
	host registry.Registry, met *metrics.Metrics, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		client: client,
		fields: reg,
		track:  track,
		host:   host,
		met:    met,
		log:    logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Devices returns the catalog the host registry should describe.
func (d *Dispatcher) Devices() []registry.Device {
	var out []registry.Device
	for _, f := range d.fields.All() {
		out = append(out, registry.Device{
			Slug:     registry.Slug(f.Name),
			Name:     f.DisplayName,
			Category: f.Category.String(),
			Unit:     f.Unit,
			Options:  f.Options,
			Writable: f.Writable(),
		})
	}
	return out
}

// Probe performs the visibility round-trip (echo only) as a connectivity
// self-test. Used once at startup; failure is not fatal.
func (d *Dispatcher) Probe() error {
	_, err := d.client.Do(luxtronik.CmdReadVisibility, 0, 0)
	return err
}

// PollCycle reads both categories and forwards accepted updates. Transport
// failures have already been retried inside the client; here each source
// reports at most one failure and never aborts the other source.
func (d *Dispatcher) PollCycle() {
	var cycleErr error

	for _, src := range []fields.Source{fields.SourceCalculated, fields.SourceParameters} {
		if err := d.pollSource(src); err != nil {
			cycleErr = err
		}
	}

	result := "ok"
	if cycleErr != nil {
		result = "error"
	}
	d.met.CyclesTotal.WithLabelValues("poll", result).Inc()

	d.recordOutcome(cycleErr)
}

func (d *Dispatcher) pollSource(src fields.Source) error {
	cmd := commandFor(src)

	resp, err := d.client.Do(cmd, 0, 0)
	if err != nil {
		d.met.ExchangesTotal.WithLabelValues(cmd.String(), "error").Inc()
		d.log.Error().Err(err).Stringer("command", cmd).Msg("poll exchange failed")
		return err
	}
	d.met.ExchangesTotal.WithLabelValues(cmd.String(), "ok").Inc()

	if len(resp.Frame) == 0 {
		d.log.Debug().Stringer("command", cmd).Msg("no data received")
		return nil
	}

	for _, f := range d.fields.BySource(src) {
		candidate, err := f.Convert.Apply(resp.Frame, f.Address)
		if err != nil {
			convErr := &fields.ConversionError{Field: f.Name, Err: err}
			d.met.ConversionErrors.Inc()
			d.log.Error().Err(convErr).Msg("field skipped")
			continue
		}

		ok, reason := d.track.NeedsUpdate(f, candidate)
		if !ok {
			continue
		}

		update := registry.Update{
			Slug:    registry.Slug(f.Name),
			Numeric: candidate.Numeric,
			Text:    candidate.Text,
			Reason:  string(reason),
			At:      time.Now(),
		}
		if err := d.host.Publish(update); err != nil {
			d.log.Error().Err(err).Str("field", f.Name).Msg("publish failed")
			continue
		}

		d.met.UpdatesTotal.WithLabelValues(string(reason)).Inc()
		d.met.FieldNumeric.WithLabelValues(registry.Slug(f.Name)).Set(gaugeValue(candidate))
	}

	return nil
}

// Write validates and transmits one host command, then refreshes the
// parameter category so the new state is visible without waiting for the
// next scheduled cycle.
func (d *Dispatcher) Write(name, command string, level float64) error {
	f, ok := d.fields.ByName(name)
	if !ok {
		return fmt.Errorf("dispatch: unknown field %q", name)
	}
	if !f.Writable() {
		return fmt.Errorf("dispatch: field %q is read-only", name)
	}

	raw, err := f.Write.Raw(command, level, f.Allowed)
	if err != nil {
		d.met.WritesRejected.Inc()
		d.met.CyclesTotal.WithLabelValues("write", "rejected").Inc()
		return fmt.Errorf("dispatch: write %q: %w", name, err)
	}
	if !f.Allows(raw) {
		d.met.WritesRejected.Inc()
		d.met.CyclesTotal.WithLabelValues("write", "rejected").Inc()
		return &fields.ValidationError{Field: f.Name, Value: raw}
	}

	resp, err := d.client.Do(luxtronik.CmdWriteParameter, int32(f.WriteAddress), raw)
	if err != nil {
		d.met.ExchangesTotal.WithLabelValues(luxtronik.CmdWriteParameter.String(), "error").Inc()
		d.met.CyclesTotal.WithLabelValues("write", "error").Inc()
		d.recordOutcome(err)
		return fmt.Errorf("dispatch: write %q: %w", name, err)
	}
	d.met.ExchangesTotal.WithLabelValues(luxtronik.CmdWriteParameter.String(), "ok").Inc()
	d.met.CyclesTotal.WithLabelValues("write", "ok").Inc()

	d.log.Info().
		Str("field", f.Name).
		Int32("raw", raw).
		Int32("count", resp.Count).
		Msg("parameter written")

	d.recordOutcome(d.pollSource(fields.SourceParameters))
	return nil
}

// recordOutcome folds a cycle result into the health snapshot and pushes
// the transition to the host when it changed.
func (d *Dispatcher) recordOutcome(err error) {
	var changed bool
	if err == nil {
		changed = d.health.RecordSuccess()
	} else {
		changed = d.health.RecordFailure(err)
	}
	d.met.HealthState.Set(float64(d.health.State))

	if !changed {
		return
	}
	if err := d.host.PublishHealth(d.health); err != nil {
		d.log.Error().Err(err).Msg("health publish failed")
	}
}

func commandFor(src fields.Source) luxtronik.Command {
	if src == fields.SourceParameters {
		return luxtronik.CmdReadParameters
	}
	return luxtronik.CmdReadCalculated
}

// gaugeValue extracts the best numeric representation of a value for the
// per-field gauge: the leading float of the text when it parses, else the
// numeric flag.
func gaugeValue(v fields.Value) float64 {
	s := v.Text
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return f
	}
	return float64(v.Numeric)
}
