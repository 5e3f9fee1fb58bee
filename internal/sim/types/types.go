package types

import (
	"net"
	"time"
)

// DeviceFields identifies a simulated NAT device on the wire.
type DeviceFields struct {
	Name  string
	WanIP net.IP
}

// Probe is one outbound packet sent by a device while guessing.
type Probe struct {
	Device     DeviceFields
	Peer       DeviceFields
	WanPort    uint16
	RemotePort uint16
	At         time.Time
}
