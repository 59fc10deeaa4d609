package dispatch

import (
	"context"
	"time"
)

// WriteRequest is one host command queued for the runner. Command is the
// host verb ("On", "Off", "Set Level"); Level carries the numeric payload
// for level-style commands.
type WriteRequest struct {
	Field   string
	Command string
	Level   float64
}

// Run drives poll cycles on the interval and serializes write commands
// onto the same goroutine, so no two cycles ever overlap. An initial poll
// runs immediately so devices are populated at startup.
func (d *Dispatcher) Run(ctx context.Context, interval time.Duration, writes <-chan WriteRequest) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	d.PollCycle()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			d.PollCycle()

		case w := <-writes:
			if err := d.Write(w.Field, w.Command, w.Level); err != nil {
				d.log.Error().
					Err(err).
					Str("field", w.Field).
					Str("command", w.Command).
					Float64("level", w.Level).
					Msg("write command failed")
			}
		}
	}
}
