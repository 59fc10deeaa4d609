package luxtronik

import "fmt"

// ConnectionError is a transport-level failure: connect timeout, refusal,
// DNS failure, or a dead connection mid-exchange. Retryable.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("luxtronik: %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ProtocolError is a desync between the command sent and the echo received,
// or an implausible response header. The connection must be discarded and
// the exchange is not retried.
type ProtocolError struct {
	Sent     Command
	Received int32
	Reason   string
}

func (e *ProtocolError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("luxtronik: %s: %s", e.Sent, e.Reason)
	}
	return fmt.Sprintf("luxtronik: command echo mismatch: sent=%d received=%d", int32(e.Sent), e.Received)
}
