package luxtronik

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultTimeout bounds the TCP connect; reads inherit it as a deadline.
	DefaultTimeout = 5 * time.Second

	// maxAttempts is the total retry budget for transport failures.
	maxAttempts = 2

	// maxFrameWords rejects implausible counts before allocating. The
	// controller's calculated-value table is a few hundred registers.
	maxFrameWords = 4096
)

// Response is the decoded result of one exchange.
type Response struct {
	Command Command
	Status  int32
	Count   int32
	Frame   Frame
}

// Config is the minimal transport config for a Client.
type Config struct {
	Host    string
	Port    int
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Client performs exactly one request/response exchange per call, each over
// a freshly opened TCP connection. The connection is closed unconditionally
// after the exchange; there is no pooling or reuse.
type Client struct {
	addr     string
	timeout  time.Duration
	attempts int
	log      zerolog.Logger

	// dial is swapped out by tests.
	dial func(network, addr string, timeout time.Duration) (net.Conn, error)
}

// New creates a client. It does not touch the network.
func New(cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, errors.New("luxtronik: host required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("luxtronik: port %d out of range", cfg.Port)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		addr:     net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port)),
		timeout:  cfg.Timeout,
		attempts: maxAttempts,
		log:      cfg.Logger.With().Str("component", "luxtronik").Logger(),
		dial:     net.DialTimeout,
	}, nil
}

// Do runs one exchange under the bounded retry budget. Transport failures
// are retried; a protocol desync aborts immediately and the error is
// returned as-is. When the budget is exhausted the zero-valued Response
// (status 0, count 0, empty frame) is returned together with the last error
// so the caller can report a single failure and carry on.
func (c *Client) Do(cmd Command, addr, value int32) (Response, error) {
	var lastErr error

	for attempt := 1; attempt <= c.attempts; attempt++ {
		resp, err := c.Exchange(cmd, addr, value)
		if err == nil {
			return resp, nil
		}

		var connErr *ConnectionError
		if !errors.As(err, &connErr) {
			// Desync or other non-transport fault: do not retry.
			return Response{}, err
		}

		lastErr = err
		c.log.Warn().
			Err(err).
			Stringer("command", cmd).
			Int("attempt", attempt).
			Int("max_attempts", c.attempts).
			Msg("exchange failed")
	}

	return Response{}, lastErr
}

// Exchange performs a single attempt: dial, send, read, close.
func (c *Client) Exchange(cmd Command, addr, value int32) (Response, error) {
	conn, err := c.dial("tcp", c.addr, c.timeout)
	if err != nil {
		return Response{}, &ConnectionError{Op: "connect " + c.addr, Err: err}
	}
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(c.timeout))

	return c.exchange(conn, cmd, addr, value)
}

func (c *Client) exchange(conn net.Conn, cmd Command, addr, value int32) (Response, error) {
	req := appendInt32(nil, int32(cmd))
	req = appendInt32(req, addr)
	if cmd == CmdWriteParameter {
		req = appendInt32(req, value)
	}
	if err := writeAll(conn, req); err != nil {
		return Response{}, &ConnectionError{Op: "send request", Err: err}
	}

	echo, err := readInt32(conn)
	if err != nil {
		return Response{}, &ConnectionError{Op: "read echo", Err: err}
	}
	if Command(echo) != cmd {
		return Response{}, &ProtocolError{Sent: cmd, Received: echo}
	}

	resp := Response{Command: cmd}

	switch cmd {
	case CmdReadParameters, CmdWriteParameter:
		resp.Count, err = readInt32(conn)
		if err != nil {
			return Response{}, &ConnectionError{Op: "read count", Err: err}
		}

	case CmdReadCalculated:
		resp.Status, err = readInt32(conn)
		if err != nil {
			return Response{}, &ConnectionError{Op: "read status", Err: err}
		}
		resp.Count, err = readInt32(conn)
		if err != nil {
			return Response{}, &ConnectionError{Op: "read count", Err: err}
		}

	case CmdReadVisibility:
		// Echo only.
	}

	// A write answers with the echoed parameter id in the count slot and
	// carries no value frame.
	if cmd != CmdWriteParameter {
		if resp.Count > maxFrameWords {
			return Response{}, &ProtocolError{
				Sent:   cmd,
				Reason: fmt.Sprintf("implausible register count %d", resp.Count),
			}
		}

		if resp.Count > 0 {
			frame := make(Frame, resp.Count)
			for i := range frame {
				frame[i], err = readInt32(conn)
				if err != nil {
					return Response{}, &ConnectionError{Op: "read frame", Err: err}
				}
			}
			resp.Frame = frame
		}
	}

	c.log.Debug().
		Stringer("command", cmd).
		Int32("status", resp.Status).
		Int32("count", resp.Count).
		Msg("exchange complete")

	return resp, nil
}
