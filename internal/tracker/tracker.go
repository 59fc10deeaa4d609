// Package tracker decides which freshly converted values are worth
// publishing. It suppresses redundant updates while guaranteeing a
// periodic refresh for graphed fields: the downstream time-series store
// silently drops long gaps between identical samples, so the forced
// update is a deliberate keep-alive, not churn.
package tracker

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tamzrod/luxtronik-bridge/internal/fields"
)

// Reason explains why a candidate value must be published.
type Reason string

const (
	ReasonChanged  Reason = "changed"
	ReasonInterval Reason = "interval"
)

// RefreshInterval is the keep-alive window for graphing fields.
const RefreshInterval = 300 * time.Second

// published is the last accepted value of one field. Created lazily on
// first observation, updated on every accepted publish, kept for the
// process lifetime.
type published struct {
	value  fields.Value
	lastAt time.Time
}

// Tracker holds the per-field published state. It is used from a single
// cycle at a time; the dispatcher serializes access.
type Tracker struct {
	refresh time.Duration
	now     func() time.Time
	state   map[string]*published
}

func New() *Tracker {
	return &Tracker{
		refresh: RefreshInterval,
		now:     time.Now,
		state:   make(map[string]*published),
	}
}

// NeedsUpdate reports whether candidate differs meaningfully from the last
// published value of f, or whether the periodic refresh is due. When it
// returns true the candidate is recorded as published.
func (t *Tracker) NeedsUpdate(f *fields.Field, candidate fields.Value) (bool, Reason) {
	now := t.now()
	graphing := f.Category.Graphing()

	prev, seen := t.state[f.Name]
	if !seen {
		t.state[f.Name] = &published{value: candidate, lastAt: now}
		return true, ReasonChanged
	}

	if prev.value.Numeric != candidate.Numeric ||
		normalize(prev.value.Text) != normalize(candidate.Text) {
		prev.value = candidate
		if graphing {
			prev.lastAt = now
		}
		return true, ReasonChanged
	}

	if graphing && now.Sub(prev.lastAt) > t.refresh {
		prev.value = candidate
		prev.lastAt = now
		return true, ReasonInterval
	}

	return false, ""
}

// normalize prepares a string value for comparison: composite "value;unit"
// strings keep only the leading segment, floats compare at one-decimal
// precision, everything else compares case-insensitively after trimming.
func normalize(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return strconv.FormatFloat(math.Round(f*10)/10, 'f', 1, 64)
	}
	return strings.ToLower(s)
}
