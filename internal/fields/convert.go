package fields

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tamzrod/luxtronik-bridge/internal/luxtronik"
)

// Value is one converted reading: the numeric flag plus the display string
// handed to the host registry. Composite power strings carry a trailing
// ";0" energy segment, matching what the host's kWh devices expect.
type Value struct {
	Numeric int
	Text    string
}

// ConverterKind enumerates the fixed set of conversion behaviors.
type ConverterKind int

const (
	ScaledFloat ConverterKind = iota
	ScaledInt
	Selector
	InstantPower
	InstantPowerGated
	COP
	TextState
	TempDiff
)

// Converter is a tagged variant over the conversion kinds. Only the
// parameters belonging to its Kind are set; Apply is the single dispatch
// point from variant to behavior.
type Converter struct {
	Kind ConverterKind

	// ScaledFloat, ScaledInt, TempDiff
	Divider float64

	// Selector: the ordered list of legal raw values. A raw register value
	// not present in the list is a conversion error.
	Levels []int32

	// InstantPowerGated: the power is zeroed unless the register at
	// ModeAddr holds one of ValidModes.
	ModeAddr   int
	ValidModes []int32

	// COP
	HeatAddr  int
	PowerAddr int // also TextState's power source

	// TextState
	PowerThreshold float64
	Modes          map[int32]string
	NoRequirement  string

	// TempDiff second register
	AddrB int
}

// Apply converts the registers behind addr into a candidate value. It is
// pure: no I/O, no mutation of the frame.
func (c Converter) Apply(frame luxtronik.Frame, addr int) (Value, error) {
	switch c.Kind {
	case ScaledFloat:
		raw, err := at(frame, addr)
		if err != nil {
			return Value{}, err
		}
		return Value{Text: formatFloat(float64(raw) / c.Divider)}, nil

	case ScaledInt:
		raw, err := at(frame, addr)
		if err != nil {
			return Value{}, err
		}
		return Value{Numeric: int(float64(raw) / c.Divider)}, nil

	case Selector:
		raw, err := at(frame, addr)
		if err != nil {
			return Value{}, err
		}
		for i, legal := range c.Levels {
			if legal == raw {
				level := i * 10
				return Value{Numeric: level, Text: strconv.Itoa(level)}, nil
			}
		}
		return Value{}, fmt.Errorf("raw value %d not in selector levels %v", raw, c.Levels)

	case InstantPower:
		raw, err := at(frame, addr)
		if err != nil {
			return Value{}, err
		}
		return Value{Text: fmt.Sprintf("%.1f;0", float64(raw))}, nil

	case InstantPowerGated:
		raw, err := at(frame, addr)
		if err != nil {
			return Value{}, err
		}
		mode, err := at(frame, c.ModeAddr)
		if err != nil {
			return Value{}, err
		}
		for _, valid := range c.ValidModes {
			if mode == valid {
				return Value{Text: fmt.Sprintf("%.1f;0", float64(raw))}, nil
			}
		}
		return Value{Text: "0.0;0"}, nil

	case COP:
		heat, err := at(frame, c.HeatAddr)
		if err != nil {
			return Value{}, err
		}
		power, err := at(frame, c.PowerAddr)
		if err != nil {
			return Value{}, err
		}
		if power <= 0 {
			return Value{Text: "0"}, nil
		}
		cop := math.Round(float64(heat)/float64(power)*100) / 100
		return Value{Text: formatFloat(cop)}, nil

	case TextState:
		mode, err := at(frame, addr)
		if err != nil {
			return Value{}, err
		}
		power, err := at(frame, c.PowerAddr)
		if err != nil {
			return Value{}, err
		}
		// Below the power threshold the pump is idle whatever the mode
		// register claims.
		if float64(power) <= c.PowerThreshold {
			return Value{Text: c.NoRequirement}, nil
		}
		if label, ok := c.Modes[mode]; ok {
			return Value{Text: label}, nil
		}
		return Value{Text: c.NoRequirement}, nil

	case TempDiff:
		a, err := at(frame, addr)
		if err != nil {
			return Value{}, err
		}
		b, err := at(frame, c.AddrB)
		if err != nil {
			return Value{}, err
		}
		diff := math.Abs(float64(a)/c.Divider - float64(b)/c.Divider)
		return Value{Text: formatFloat(math.Round(diff*10) / 10)}, nil
	}

	return Value{}, fmt.Errorf("unknown converter kind %d", c.Kind)
}

func at(frame luxtronik.Frame, addr int) (int32, error) {
	v, ok := frame.At(addr)
	if !ok {
		return 0, fmt.Errorf("register %d out of range (frame holds %d)", addr, len(frame))
	}
	return v, nil
}

// formatFloat renders with the minimal number of digits but always keeps a
// decimal point, so 3 prints as "3.0" and 21.04 stays "21.04".
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
