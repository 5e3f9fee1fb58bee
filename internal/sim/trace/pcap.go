// Package trace writes the probes sent during a simulation as a pcap file,
// one raw IPv4/UDP packet per guess.
package trace

import (
	"io"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"go.uber.org/zap"

	"github.com/cheahjs/punchsim/internal/sim/types"
)

const snapLen = 1500

var payload = []byte("punch")

// PcapWriter is a nat.ProbeSink. Write errors are sticky and reported by Err;
// after the first failure further probes are dropped.
type PcapWriter struct {
	logger *zap.SugaredLogger
	writer *pcapgo.Writer
	buffer gopacket.SerializeBuffer

	written int
	err     error
}

func NewPcapWriter(logger *zap.SugaredLogger, w io.Writer) (*PcapWriter, error) {
	writer := pcapgo.NewWriterNanos(w)
	if err := writer.WriteFileHeader(snapLen, layers.LinkTypeRaw); err != nil {
		return nil, err
	}
	return &PcapWriter{
		logger: logger.With("sink", "pcap"),
		writer: writer,
		buffer: gopacket.NewSerializeBuffer(),
	}, nil
}

func (p *PcapWriter) Probe(probe types.Probe) {
	if p.err != nil {
		return
	}

	ipv4Layer := &layers.IPv4{
		Version:  4,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    probe.Device.WanIP.To4(),
		DstIP:    probe.Peer.WanIP.To4(),
	}
	udpLayer := &layers.UDP{
		SrcPort: layers.UDPPort(probe.WanPort),
		DstPort: layers.UDPPort(probe.RemotePort),
	}
	_ = udpLayer.SetNetworkLayerForChecksum(ipv4Layer)

	err := gopacket.SerializeLayers(p.buffer,
		gopacket.SerializeOptions{
			ComputeChecksums: true,
			FixLengths:       true,
		},
		ipv4Layer,
		udpLayer,
		gopacket.Payload(payload),
	)
	if err != nil {
		p.fail(err)
		return
	}

	data := p.buffer.Bytes()
	err = p.writer.WritePacket(gopacket.CaptureInfo{
		Timestamp:     probe.At,
		CaptureLength: len(data),
		Length:        len(data),
	}, data)
	if err != nil {
		p.fail(err)
		return
	}
	p.written++
}

func (p *PcapWriter) fail(err error) {
	p.logger.Errorf("Failed to write probe, tracing stopped: %v", err)
	p.err = err
}

func (p *PcapWriter) Written() int {
	return p.written
}

func (p *PcapWriter) Err() error {
	return p.err
}
