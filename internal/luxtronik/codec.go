package luxtronik

import (
	"encoding/binary"
	"io"
)

// Everything on the wire is a big-endian signed 32-bit word.
const wordSize = 4

// Command identifies one request kind on the wire.
type Command int32

const (
	CmdWriteParameter Command = 3002
	CmdReadParameters Command = 3003
	CmdReadCalculated Command = 3004
	CmdReadVisibility Command = 3005
)

func (c Command) String() string {
	switch c {
	case CmdWriteParameter:
		return "WRIT_PARAMS"
	case CmdReadParameters:
		return "READ_PARAMS"
	case CmdReadCalculated:
		return "READ_CALCUL"
	case CmdReadVisibility:
		return "READ_VISIBI"
	}
	return "UNKNOWN"
}

// Frame is the ordered register array returned by one exchange.
// Addresses are positions within the frame and are only meaningful
// relative to the command that produced it.
type Frame []int32

// At returns the register at addr with bounds checking.
func (f Frame) At(addr int) (int32, bool) {
	if addr < 0 || addr >= len(f) {
		return 0, false
	}
	return f[addr], true
}

func appendInt32(dst []byte, v int32) []byte {
	var b [wordSize]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	return append(dst, b[:]...)
}

func int32At(src []byte) int32 {
	return int32(binary.BigEndian.Uint32(src))
}

// readInt32 reads exactly one word. A short read is a transport failure;
// the caller treats it as a dead connection.
func readInt32(r io.Reader) (int32, error) {
	var b [wordSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return int32At(b[:]), nil
}

func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}
