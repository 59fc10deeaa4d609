package fields

import "fmt"

// Source classifies which exchange produces the frame a field reads from.
// Register addresses are only meaningful within their own source.
type Source int

const (
	SourceCalculated Source = iota // READ_CALCUL frames
	SourceParameters               // READ_PARAMS frames
)

func (s Source) String() string {
	switch s {
	case SourceCalculated:
		return "calculated"
	case SourceParameters:
		return "parameters"
	}
	return "unknown"
}

// Category is the host-side presentation class of a field. It also decides
// the tracker's graphing split: time-series categories need the periodic
// keep-alive refresh, everything else publishes on change only.
type Category int

const (
	CategoryTemperature Category = iota
	CategorySetpoint
	CategorySelector
	CategorySwitch
	CategoryText
	CategoryCustom
	CategoryPower
)

func (c Category) String() string {
	switch c {
	case CategoryTemperature:
		return "temperature"
	case CategorySetpoint:
		return "setpoint"
	case CategorySelector:
		return "selector"
	case CategorySwitch:
		return "switch"
	case CategoryText:
		return "text"
	case CategoryCustom:
		return "custom"
	case CategoryPower:
		return "power"
	}
	return "unknown"
}

// Graphing reports whether values of this category feed a time-series store.
func (c Category) Graphing() bool {
	switch c {
	case CategoryTemperature, CategoryCustom, CategoryPower:
		return true
	}
	return false
}

// Field is one immutable logical field bound to a register address. Fields
// are defined once in the static table and never mutated afterwards.
type Field struct {
	Name        string // unique logical key, English
	DisplayName string // localized
	Source      Source
	Address     int // register index within the source frame
	Convert     Converter
	Category    Category
	Unit        string   // display unit, "" when the category implies it
	Options     []string // selector option labels, in level order

	// Write side. A zero Write (WriteNone) marks a read-only field.
	Write        WriteConverter
	WriteAddress int
	Allowed      []int32 // legal raw write values; non-empty when writable
}

// Writable reports whether the field accepts host write commands.
func (f *Field) Writable() bool { return f.Write.Kind != WriteNone }

// Allows reports membership of raw in the field's allowed-value set.
func (f *Field) Allows(raw int32) bool {
	for _, v := range f.Allowed {
		if v == raw {
			return true
		}
	}
	return false
}

// ValidationError reports a write value outside a field's allowed set.
// The request is rejected before any network I/O and never retried.
type ValidationError struct {
	Field string
	Value int32
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("fields: value %d not allowed for %q", e.Value, e.Field)
}

// ConversionError reports a single field's converter failure. It is
// isolated to that field; the rest of the poll cycle continues.
type ConversionError struct {
	Field string
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("fields: convert %q: %v", e.Field, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }
