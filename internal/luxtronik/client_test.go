package luxtronik

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// testPeer runs handler for every accepted connection until the listener
// closes. It stands in for the heat-pump controller.
func testPeer(t *testing.T, handler func(conn net.Conn)) *Client {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				handler(conn)
			}()
		}
	}()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	c, err := New(Config{
		Host:    host,
		Port:    mustAtoi(t, port),
		Timeout: time.Second,
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	return c
}

func mustAtoi(t *testing.T, s string) int {
	t.Helper()
	var n int
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

func readWords(t *testing.T, conn net.Conn, n int) []int32 {
	t.Helper()
	out := make([]int32, n)
	for i := range out {
		v, err := readInt32(conn)
		if err != nil {
			t.Errorf("peer read word %d: %v", i, err)
			return out
		}
		out[i] = v
	}
	return out
}

func writeWords(conn net.Conn, words ...int32) {
	var buf []byte
	for _, w := range words {
		buf = appendInt32(buf, w)
	}
	_ = writeAll(conn, buf)
}

func TestWriteParameterSendsThreeWords(t *testing.T) {
	got := make(chan []int32, 1)

	c := testPeer(t, func(conn net.Conn) {
		words := readWords(t, conn, 3)
		got <- words
		// The device echoes the parameter id in the count slot; there is
		// no value frame to consume after a write.
		writeWords(conn, int32(CmdWriteParameter), 105)
	})

	resp, err := c.Exchange(CmdWriteParameter, 105, 450)
	require.NoError(t, err)
	require.Equal(t, CmdWriteParameter, resp.Command)
	require.Equal(t, int32(105), resp.Count)
	require.Empty(t, resp.Frame)

	want := []int32{int32(CmdWriteParameter), 105, 450}
	if diff := cmp.Diff(want, <-got); diff != "" {
		t.Errorf("request words mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCalculatedConsumesDeclaredCount(t *testing.T) {
	c := testPeer(t, func(conn net.Conn) {
		readWords(t, conn, 2) // cmd, addr
		writeWords(conn, int32(CmdReadCalculated), 0 /* status */, 3 /* count */, 210, -15, 42)
	})

	resp, err := c.Exchange(CmdReadCalculated, 0, 0)
	require.NoError(t, err)
	require.Equal(t, int32(0), resp.Status)
	require.Equal(t, int32(3), resp.Count)
	require.Equal(t, Frame{210, -15, 42}, resp.Frame)
}

func TestReadParametersHeaderHasNoStatus(t *testing.T) {
	c := testPeer(t, func(conn net.Conn) {
		readWords(t, conn, 2)
		writeWords(conn, int32(CmdReadParameters), 2, 7, 8)
	})

	resp, err := c.Exchange(CmdReadParameters, 0, 0)
	require.NoError(t, err)
	require.Equal(t, int32(2), resp.Count)
	require.Equal(t, Frame{7, 8}, resp.Frame)
}

func TestReadVisibilityEchoOnly(t *testing.T) {
	c := testPeer(t, func(conn net.Conn) {
		readWords(t, conn, 2)
		writeWords(conn, int32(CmdReadVisibility))
	})

	resp, err := c.Exchange(CmdReadVisibility, 0, 0)
	require.NoError(t, err)
	require.Equal(t, int32(0), resp.Count)
	require.Nil(t, resp.Frame)
}

func TestEchoMismatchIsProtocolErrorAndNotRetried(t *testing.T) {
	c := testPeer(t, func(conn net.Conn) {
		readWords(t, conn, 2)
		writeWords(conn, int32(CmdReadParameters)) // wrong echo for READ_CALCUL
	})

	dials := 0
	inner := c.dial
	c.dial = func(network, addr string, timeout time.Duration) (net.Conn, error) {
		dials++
		return inner(network, addr, timeout)
	}

	_, err := c.Do(CmdReadCalculated, 0, 0)
	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
	require.Equal(t, CmdReadCalculated, protoErr.Sent)
	require.Equal(t, 1, dials, "protocol desync must not be retried")
}

func TestDoExhaustsRetryBudgetAndReturnsEmptyResult(t *testing.T) {
	c, err := New(Config{Host: "127.0.0.1", Port: 1, Logger: zerolog.Nop()})
	require.NoError(t, err)

	dials := 0
	c.dial = func(network, addr string, timeout time.Duration) (net.Conn, error) {
		dials++
		return nil, errors.New("connection refused")
	}

	resp, err := c.Do(CmdReadCalculated, 0, 0)
	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	require.Equal(t, maxAttempts, dials)

	// Explicit empty result: status 0, count 0, no frame.
	require.Equal(t, Response{}, resp)
}

func TestDoRetriesMidExchangeTransportFailure(t *testing.T) {
	attempt := 0

	c := testPeer(t, func(conn net.Conn) {
		attempt++
		readWords(t, conn, 2)
		if attempt == 1 {
			return // hang up before the echo
		}
		writeWords(conn, int32(CmdReadParameters), 1, 99)
	})

	resp, err := c.Do(CmdReadParameters, 0, 0)
	require.NoError(t, err)
	require.Equal(t, Frame{99}, resp.Frame)
	require.Equal(t, 2, attempt)
}

func TestImplausibleCountIsProtocolError(t *testing.T) {
	c := testPeer(t, func(conn net.Conn) {
		readWords(t, conn, 2)
		writeWords(conn, int32(CmdReadParameters), maxFrameWords+1)
	})

	_, err := c.Exchange(CmdReadParameters, 0, 0)
	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
}
