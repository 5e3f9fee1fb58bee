package types

import "fmt"

// LocalRemoteKey finds the mapping a device allocated for an outbound
// conversation from LanPort to RemotePort.
type LocalRemoteKey struct {
	LanPort    uint16
	RemotePort uint16
}

// WanRemoteKey matches an inbound packet addressed to WanPort and sent from
// RemotePort.
type WanRemoteKey struct {
	WanPort    uint16
	RemotePort uint16
}

type NatTuple struct {
	LanPort    uint16
	WanPort    uint16
	RemotePort uint16
}

func (n *NatTuple) OutgoingKey() LocalRemoteKey {
	return LocalRemoteKey{LanPort: n.LanPort, RemotePort: n.RemotePort}
}

func (n *NatTuple) IncomingKey() WanRemoteKey {
	return WanRemoteKey{WanPort: n.WanPort, RemotePort: n.RemotePort}
}

func (n NatTuple) String() string {
	return fmt.Sprintf("lan:%d -> wan:%d -> remote:%d", n.LanPort, n.WanPort, n.RemotePort)
}
