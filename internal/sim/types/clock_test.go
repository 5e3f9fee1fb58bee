package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockAdvance(t *testing.T) {
	c := NewClock()
	assert.Equal(t, time.Duration(0), c.Now())

	require.NoError(t, c.Advance(50*time.Millisecond))
	require.NoError(t, c.Advance(0))
	require.NoError(t, c.Advance(50*time.Millisecond))
	assert.Equal(t, 100*time.Millisecond, c.Now())
	assert.Equal(t, Epoch.Add(100*time.Millisecond), c.Time())
}

func TestClockRejectsNegativeDelta(t *testing.T) {
	c := NewClock()
	require.NoError(t, c.Advance(time.Second))

	err := c.Advance(-time.Nanosecond)
	require.ErrorIs(t, err, ErrNegativeDelta)
	assert.Equal(t, time.Second, c.Now())
}

func TestNatTupleKeys(t *testing.T) {
	n := NatTuple{LanPort: 2000, WanPort: 3000, RemotePort: 4000}

	assert.Equal(t, LocalRemoteKey{LanPort: 2000, RemotePort: 4000}, n.OutgoingKey())
	assert.Equal(t, WanRemoteKey{WanPort: 3000, RemotePort: 4000}, n.IncomingKey())
	assert.Equal(t, "lan:2000 -> wan:3000 -> remote:4000", n.String())
}
