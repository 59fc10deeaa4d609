// Package health tracks the bridge's view of the controller link. The
// snapshot is published to the host registry as an availability signal so
// downstream automations can tell "pump idle" apart from "bridge blind".
package health

// State is the device-level health truth.
type State int

const (
	StateUnknown State = iota // boot state, nothing exchanged yet
	StateOK
	StateError
)

func (s State) String() string {
	switch s {
	case StateOK:
		return "online"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Snapshot is the current health plus how long it has been bad. It contains
// no logic beyond the two transition recorders.
type Snapshot struct {
	State               State
	ConsecutiveFailures int
	LastError           string
}

// RecordSuccess moves the snapshot to OK and reports whether anything
// changed (callers only publish on change).
func (s *Snapshot) RecordSuccess() bool {
	changed := s.State != StateOK || s.ConsecutiveFailures != 0 || s.LastError != ""
	s.State = StateOK
	s.ConsecutiveFailures = 0
	s.LastError = ""
	return changed
}

// RecordFailure moves the snapshot to Error. The failure count always
// advances, so every failed cycle is a change.
func (s *Snapshot) RecordFailure(err error) bool {
	s.State = StateError
	s.ConsecutiveFailures++
	if err != nil {
		s.LastError = err.Error()
	}
	return true
}
