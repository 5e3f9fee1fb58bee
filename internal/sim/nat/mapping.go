package nat

import (
	"time"

	"github.com/cheahjs/punchsim/internal/sim/types"
)

// Mapping is a single NAT binding for the tuple (lan, wan, remote). It stays
// live while the shared clock has not passed until.
type Mapping struct {
	clock *types.Clock
	tuple types.NatTuple
	until time.Duration
}

func newMapping(clock *types.Clock, tuple types.NatTuple) *Mapping {
	return &Mapping{
		clock: clock,
		tuple: tuple,
	}
}

func (m *Mapping) Tuple() types.NatTuple {
	return m.tuple
}

func (m *Mapping) Until() time.Duration {
	return m.until
}

// Refresh sets the expiry. It does not enforce monotonicity.
func (m *Mapping) Refresh(until time.Duration) {
	m.until = until
}

func (m *Mapping) Expired() bool {
	return m.clock.Now() > m.until
}
