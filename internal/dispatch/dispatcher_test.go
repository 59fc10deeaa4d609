package dispatch

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/luxtronik-bridge/internal/fields"
	"github.com/tamzrod/luxtronik-bridge/internal/health"
	"github.com/tamzrod/luxtronik-bridge/internal/luxtronik"
	"github.com/tamzrod/luxtronik-bridge/internal/metrics"
	"github.com/tamzrod/luxtronik-bridge/internal/registry"
	"github.com/tamzrod/luxtronik-bridge/internal/tracker"
)

// ---- fakes ----

type call struct {
	cmd   luxtronik.Command
	addr  int32
	value int32
}

type fakeClient struct {
	calls     []call
	responses map[luxtronik.Command]luxtronik.Response
	errs      map[luxtronik.Command]error
}

func (f *fakeClient) Do(cmd luxtronik.Command, addr, value int32) (luxtronik.Response, error) {
	f.calls = append(f.calls, call{cmd: cmd, addr: addr, value: value})
	if err := f.errs[cmd]; err != nil {
		return luxtronik.Response{}, err
	}
	return f.responses[cmd], nil
}

type fakeHost struct {
	updates []registry.Update
	healths []health.Snapshot
}

func (f *fakeHost) Describe([]registry.Device) error { return nil }

func (f *fakeHost) Publish(u registry.Update) error {
	f.updates = append(f.updates, u)
	return nil
}

func (f *fakeHost) PublishHealth(s health.Snapshot) error {
	f.healths = append(f.healths, s)
	return nil
}

func (f *fakeHost) Close() {}

// ---- fixtures ----

func testFields() *fields.Registry {
	return fields.NewRegistry([]fields.Field{
		{
			Name:     "Outside temp",
			Source:   fields.SourceCalculated,
			Address:  0,
			Convert:  fields.Converter{Kind: fields.ScaledFloat, Divider: 10},
			Category: fields.CategoryTemperature,
		},
		{
			// Reads past the end of the test frame: always a conversion error.
			Name:     "Dangling register",
			Source:   fields.SourceCalculated,
			Address:  9,
			Convert:  fields.Converter{Kind: fields.ScaledFloat, Divider: 10},
			Category: fields.CategoryCustom,
		},
		{
			Name:         "Heating mode",
			Source:       fields.SourceParameters,
			Address:      0,
			Convert:      fields.Converter{Kind: fields.Selector, Levels: []int32{0, 1, 2, 3, 4}},
			Category:     fields.CategorySelector,
			Write:        fields.WriteConverter{Kind: fields.WriteSelectorLevel},
			WriteAddress: 3,
			Allowed:      []int32{0, 1, 2, 3, 4},
		},
	})
}

func newTestDispatcher(cli Client) (*Dispatcher, *fakeHost) {
	host := &fakeHost{}
	met := metrics.New(prometheus.NewRegistry())
	d := New(cli, testFields(), tracker.New(), host, met, zerolog.Nop())
	return d, host
}

func updateFor(updates []registry.Update, slug string) (registry.Update, bool) {
	for _, u := range updates {
		if u.Slug == slug {
			return u, true
		}
	}
	return registry.Update{}, false
}

// ---- tests ----

func TestPollCyclePublishesConvertedValues(t *testing.T) {
	cli := &fakeClient{
		responses: map[luxtronik.Command]luxtronik.Response{
			luxtronik.CmdReadCalculated: {Count: 1, Frame: luxtronik.Frame{214}},
			luxtronik.CmdReadParameters: {Count: 1, Frame: luxtronik.Frame{2}},
		},
	}
	d, host := newTestDispatcher(cli)

	d.PollCycle()

	u, ok := updateFor(host.updates, "outside_temp")
	require.True(t, ok)
	assert.Equal(t, "21.4", u.Text)
	assert.Equal(t, "changed", u.Reason)

	u, ok = updateFor(host.updates, "heating_mode")
	require.True(t, ok)
	assert.Equal(t, 20, u.Numeric)

	// The dangling field failed conversion but did not block the others.
	assert.Len(t, host.updates, 2)

	require.Len(t, host.healths, 1)
	assert.Equal(t, health.StateOK, host.healths[0].State)
}

func TestSecondIdenticalPollPublishesNothing(t *testing.T) {
	cli := &fakeClient{
		responses: map[luxtronik.Command]luxtronik.Response{
			luxtronik.CmdReadCalculated: {Count: 1, Frame: luxtronik.Frame{214}},
			luxtronik.CmdReadParameters: {Count: 1, Frame: luxtronik.Frame{2}},
		},
	}
	d, host := newTestDispatcher(cli)

	d.PollCycle()
	published := len(host.updates)

	d.PollCycle()
	assert.Len(t, host.updates, published, "unchanged values must not republish")
}

func TestFailedSourceDoesNotAbortTheOther(t *testing.T) {
	cli := &fakeClient{
		responses: map[luxtronik.Command]luxtronik.Response{
			luxtronik.CmdReadParameters: {Count: 1, Frame: luxtronik.Frame{2}},
		},
		errs: map[luxtronik.Command]error{
			luxtronik.CmdReadCalculated: &luxtronik.ConnectionError{Op: "connect"},
		},
	}
	d, host := newTestDispatcher(cli)

	d.PollCycle()

	// Parameter fields were still processed.
	_, ok := updateFor(host.updates, "heating_mode")
	assert.True(t, ok)

	// The failed exchange surfaced as exactly one health failure report.
	require.Len(t, host.healths, 1)
	assert.Equal(t, health.StateError, host.healths[0].State)
	assert.Equal(t, 1, host.healths[0].ConsecutiveFailures)
}

func TestWriteRejectedBeforeNetworkIO(t *testing.T) {
	cli := &fakeClient{}
	d, _ := newTestDispatcher(cli)

	// Level 70 has no slot in a five-entry selector.
	err := d.Write("Heating mode", "Set Level", 70)
	require.Error(t, err)
	assert.Empty(t, cli.calls, "invalid value must never reach the wire")

	err = d.Write("Outside temp", "Set Level", 10)
	require.Error(t, err, "read-only field must reject writes")
	assert.Empty(t, cli.calls)

	err = d.Write("No such field", "On", 0)
	require.Error(t, err)
	assert.Empty(t, cli.calls)
}

func TestWriteSendsValueAndRefreshesParameters(t *testing.T) {
	cli := &fakeClient{
		responses: map[luxtronik.Command]luxtronik.Response{
			luxtronik.CmdWriteParameter: {Count: 0},
			luxtronik.CmdReadParameters: {Count: 1, Frame: luxtronik.Frame{2}},
		},
	}
	d, host := newTestDispatcher(cli)

	require.NoError(t, d.Write("Heating mode", "Set Level", 20))

	require.Len(t, cli.calls, 2)
	assert.Equal(t, call{cmd: luxtronik.CmdWriteParameter, addr: 3, value: 2}, cli.calls[0])
	assert.Equal(t, luxtronik.CmdReadParameters, cli.calls[1].cmd)

	// The follow-up poll delivered the fresh parameter state.
	_, ok := updateFor(host.updates, "heating_mode")
	assert.True(t, ok)
}

func TestWriteTransportFailureIsReturned(t *testing.T) {
	cli := &fakeClient{
		errs: map[luxtronik.Command]error{
			luxtronik.CmdWriteParameter: &luxtronik.ConnectionError{Op: "connect"},
		},
	}
	d, host := newTestDispatcher(cli)

	err := d.Write("Heating mode", "Set Level", 20)
	require.Error(t, err)
	require.Len(t, cli.calls, 1, "no parameter refresh after a failed write")
	require.Len(t, host.healths, 1)
	assert.Equal(t, health.StateError, host.healths[0].State)
}

func TestProbe(t *testing.T) {
	cli := &fakeClient{
		responses: map[luxtronik.Command]luxtronik.Response{
			luxtronik.CmdReadVisibility: {},
		},
	}
	d, _ := newTestDispatcher(cli)

	require.NoError(t, d.Probe())
	require.Len(t, cli.calls, 1)
	assert.Equal(t, luxtronik.CmdReadVisibility, cli.calls[0].cmd)
}

func TestDevicesCatalog(t *testing.T) {
	d, _ := newTestDispatcher(&fakeClient{})

	devices := d.Devices()
	require.Len(t, devices, 3)

	bySlug := map[string]registry.Device{}
	for _, dev := range devices {
		bySlug[dev.Slug] = dev
	}

	assert.True(t, bySlug["heating_mode"].Writable)
	assert.False(t, bySlug["outside_temp"].Writable)
	assert.Equal(t, "temperature", bySlug["outside_temp"].Category)
}
