package nat

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cheahjs/punchsim/internal/network"
	"github.com/cheahjs/punchsim/internal/sim/types"
)

const window = 10 * time.Second

// scriptedRand returns fixed offsets into the port space, in order.
type scriptedRand struct {
	t      *testing.T
	values []int
}

func (r *scriptedRand) IntN(n int) int {
	require.NotEmpty(r.t, r.values, "scripted rand exhausted")
	v := r.values[0]
	r.values = r.values[1:]
	require.Less(r.t, v, n)
	return v
}

func script(t *testing.T, values ...int) *scriptedRand {
	return &scriptedRand{t: t, values: values}
}

type recordingSink struct {
	probes []types.Probe
}

func (s *recordingSink) Probe(p types.Probe) {
	s.probes = append(s.probes, p)
}

func newPair(t *testing.T, sink ProbeSink) (*types.Clock, *Device, *Device) {
	logger := zaptest.NewLogger(t)
	clock := types.NewClock()

	a, err := NewDevice(logger, clock, DeviceConfig{
		Name: "a", WanIP: net.IPv4(198, 51, 100, 1), ValidWindow: window, Space: network.DefaultSpace, Sink: sink,
	})
	require.NoError(t, err)
	b, err := NewDevice(logger, clock, DeviceConfig{
		Name: "b", WanIP: net.IPv4(203, 0, 113, 1), ValidWindow: window, Space: network.DefaultSpace, Sink: sink,
	})
	require.NoError(t, err)

	return clock, a, b
}

func TestNewDeviceValidation(t *testing.T) {
	logger := zaptest.NewLogger(t)
	clock := types.NewClock()

	_, err := NewDevice(logger, clock, DeviceConfig{ValidWindow: 0, Space: network.DefaultSpace})
	require.ErrorIs(t, err, ErrInvalidWindow)

	_, err = NewDevice(logger, clock, DeviceConfig{ValidWindow: window, Space: network.Space{Min: 5, Max: 5}})
	require.ErrorIs(t, err, network.ErrInvalidSpace)
}

func TestMappingExpiry(t *testing.T) {
	clock := types.NewClock()
	m := newMapping(clock, types.NatTuple{LanPort: 1, WanPort: 2, RemotePort: 3})

	m.Refresh(clock.Now() + window)
	assert.False(t, m.Expired())

	require.NoError(t, clock.Advance(window))
	assert.False(t, m.Expired(), "live at exactly until")

	require.NoError(t, clock.Advance(time.Nanosecond))
	assert.True(t, m.Expired())
}

func TestHasMappingWithoutGuess(t *testing.T) {
	_, a, _ := newPair(t, nil)

	assert.False(t, a.HasMapping(2000, 3000))
	assert.Equal(t, 0, a.Len())
}

func TestGuessCreatesMapping(t *testing.T) {
	clock, a, b := newPair(t, nil)

	// lan, remote, wan
	assert.False(t, a.Guess(script(t, 10, 20, 30), b))

	m, ok := a.Lookup(1035, 1045)
	require.True(t, ok)
	assert.Equal(t, types.NatTuple{LanPort: 1035, WanPort: 1055, RemotePort: 1045}, m.Tuple())
	assert.Equal(t, window, m.Until())

	assert.True(t, a.HasMapping(1055, 1045))
	assert.False(t, a.HasMapping(1045, 1055))
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 0, b.Len(), "querying the peer must not create mappings")

	require.NoError(t, clock.Advance(window+time.Millisecond))
	assert.False(t, a.HasMapping(1055, 1045))
}

func TestGuessRefreshesExistingMapping(t *testing.T) {
	clock, a, b := newPair(t, nil)

	a.Guess(script(t, 10, 20, 30), b)
	require.NoError(t, clock.Advance(5*time.Second))

	// Same conversation again, no wan draw needed.
	a.Guess(script(t, 10, 20), b)

	m, ok := a.Lookup(1035, 1045)
	require.True(t, ok)
	assert.Equal(t, 5*time.Second+window, m.Until())
	assert.Equal(t, 1, a.Len())

	require.NoError(t, clock.Advance(window))
	assert.True(t, a.HasMapping(1055, 1045))
}

func TestGuessReplacesExpiredMapping(t *testing.T) {
	clock, a, b := newPair(t, nil)

	a.Guess(script(t, 10, 20, 30), b)
	require.NoError(t, clock.Advance(window+time.Second))

	a.Guess(script(t, 10, 20, 40), b)

	m, ok := a.Lookup(1035, 1045)
	require.True(t, ok)
	assert.Equal(t, uint16(1065), m.Tuple().WanPort)
	assert.True(t, a.HasMapping(1065, 1045))
	assert.False(t, a.HasMapping(1055, 1045), "superseded mapping stays expired")
	assert.Equal(t, 2, a.Len())
}

func TestGuessSucceedsOnMirroredMapping(t *testing.T) {
	_, a, b := newPair(t, nil)

	// a: lan 1035, remote 1045, wan 1055
	require.False(t, a.Guess(script(t, 10, 20, 30), b))

	// b: lan 1099, remote 1055 (a's wan), wan 1045 (a's remote)
	require.True(t, b.Guess(script(t, 74, 30, 20), a))
}

func TestGuessMissesAfterPeerMappingExpires(t *testing.T) {
	clock, a, b := newPair(t, nil)

	require.False(t, a.Guess(script(t, 10, 20, 30), b))
	require.NoError(t, clock.Advance(window+time.Millisecond))

	require.False(t, b.Guess(script(t, 74, 30, 20), a))
}

func TestGuessEmitsProbe(t *testing.T) {
	sink := &recordingSink{}
	clock, a, b := newPair(t, sink)
	require.NoError(t, clock.Advance(time.Second))

	a.Guess(script(t, 10, 20, 30), b)

	require.Len(t, sink.probes, 1)
	p := sink.probes[0]
	assert.Equal(t, "a", p.Device.Name)
	assert.Equal(t, "b", p.Peer.Name)
	assert.Equal(t, uint16(1055), p.WanPort)
	assert.Equal(t, uint16(1045), p.RemotePort)
	assert.Equal(t, types.Epoch.Add(time.Second), p.At)
}
