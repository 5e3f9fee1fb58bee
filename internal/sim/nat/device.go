package nat

import (
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/cheahjs/punchsim/internal/network"
	"github.com/cheahjs/punchsim/internal/sim/types"
)

var ErrInvalidWindow = errors.New("mapping valid window must be positive")

// ProbeSink receives every probe a device sends.
type ProbeSink interface {
	Probe(p types.Probe)
}

type DeviceConfig struct {
	Name        string
	WanIP       net.IP
	ValidWindow time.Duration
	Space       network.Space
	Sink        ProbeSink
}

// Device is an endpoint-dependent NAT. Mappings are created per (lan, remote)
// conversation and inbound packets only pass when they match a live
// (wan, remote) binding.
type Device struct {
	clock       *types.Clock
	fields      types.DeviceFields
	validWindow time.Duration
	space       network.Space
	sink        ProbeSink

	outgoingTranslation map[types.LocalRemoteKey]*Mapping
	incomingTranslation map[types.WanRemoteKey]*Mapping

	logger *zap.Logger
}

func NewDevice(logger *zap.Logger, clock *types.Clock, cfg DeviceConfig) (*Device, error) {
	if cfg.ValidWindow <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWindow, cfg.ValidWindow)
	}
	if err := cfg.Space.Validate(); err != nil {
		return nil, err
	}
	return &Device{
		clock:               clock,
		fields:              types.DeviceFields{Name: cfg.Name, WanIP: cfg.WanIP},
		validWindow:         cfg.ValidWindow,
		space:               cfg.Space,
		sink:                cfg.Sink,
		outgoingTranslation: make(map[types.LocalRemoteKey]*Mapping),
		incomingTranslation: make(map[types.WanRemoteKey]*Mapping),
		logger:              logger.With(zap.String("nat", cfg.Name)),
	}, nil
}

func (d *Device) Fields() types.DeviceFields {
	return d.fields
}

// Guess sends one probe from a random local port to a random port on the
// peer, creating or refreshing the outbound mapping, and reports whether the
// peer holds the mirrored binding.
func (d *Device) Guess(rng network.Rand, peer *Device) bool {
	lanPort := d.space.Port(rng)
	remotePort := d.space.Port(rng)

	outgoing := types.LocalRemoteKey{LanPort: lanPort, RemotePort: remotePort}
	m, exists := d.outgoingTranslation[outgoing]
	if !exists || m.Expired() {
		tuple := types.NatTuple{
			LanPort:    lanPort,
			WanPort:    d.space.Port(rng),
			RemotePort: remotePort,
		}
		m = newMapping(d.clock, tuple)
		d.outgoingTranslation[tuple.OutgoingKey()] = m
		d.incomingTranslation[tuple.IncomingKey()] = m
		if ce := d.logger.Check(zap.DebugLevel, "Created new mapping"); ce != nil {
			ce.Write(zap.Stringer("tuple", tuple), zap.Duration("now", d.clock.Now()))
		}
	}
	m.Refresh(d.clock.Now() + d.validWindow)

	wanPort := m.tuple.WanPort
	if d.sink != nil {
		d.sink.Probe(types.Probe{
			Device:     d.fields,
			Peer:       peer.fields,
			WanPort:    wanPort,
			RemotePort: remotePort,
			At:         d.clock.Time(),
		})
	}

	// What we call remote is the peer's WAN port, and our WAN port is the
	// peer's remote.
	return peer.HasMapping(remotePort, wanPort)
}

// HasMapping reports whether an inbound packet to wanPort from remotePort
// would pass. It never creates or refreshes mappings.
func (d *Device) HasMapping(wanPort, remotePort uint16) bool {
	m, exists := d.incomingTranslation[types.WanRemoteKey{WanPort: wanPort, RemotePort: remotePort}]
	return exists && !m.Expired()
}

// Lookup returns the mapping for an outbound conversation, expired or not.
func (d *Device) Lookup(lanPort, remotePort uint16) (*Mapping, bool) {
	m, exists := d.outgoingTranslation[types.LocalRemoteKey{LanPort: lanPort, RemotePort: remotePort}]
	return m, exists
}

// Len is the number of inbound bindings held, live or expired.
func (d *Device) Len() int {
	return len(d.incomingTranslation)
}
