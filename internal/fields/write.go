package fields

import "fmt"

// WriteKind enumerates how a host command maps onto the raw value sent to
// the controller. Each mirrors a read converter: the divider used to scale
// a register up for display is the same constant used to scale a level back
// down for the write.
type WriteKind int

const (
	// WriteNone marks a read-only field.
	WriteNone WriteKind = iota

	// WriteLevelScaled transmits level / Divider (a 1/10 divider turns a
	// 45.0 °C set point into raw 450).
	WriteLevelScaled

	// WriteSelectorLevel transmits the allowed value at index level/10,
	// the inverse of the Selector read mapping.
	WriteSelectorLevel

	// WriteOnOff transmits 1 for the "On" command and 0 otherwise.
	WriteOnOff
)

// WriteConverter is the write-side mirror of Converter.
type WriteConverter struct {
	Kind    WriteKind
	Divider float64 // WriteLevelScaled
}

// Raw maps a host command (command string plus numeric level) into the raw
// register value to transmit. allowed is the field's legal-value list; for
// WriteSelectorLevel it doubles as the selector table.
func (w WriteConverter) Raw(command string, level float64, allowed []int32) (int32, error) {
	switch w.Kind {
	case WriteLevelScaled:
		if w.Divider == 0 {
			return 0, fmt.Errorf("write divider is zero")
		}
		return int32(level / w.Divider), nil

	case WriteSelectorLevel:
		idx := int(level / 10)
		if idx < 0 || idx >= len(allowed) {
			return 0, fmt.Errorf("selector level %v has no slot in %v", level, allowed)
		}
		return allowed[idx], nil

	case WriteOnOff:
		if command == "On" {
			return 1, nil
		}
		return 0, nil
	}

	return 0, fmt.Errorf("field is not writable")
}
