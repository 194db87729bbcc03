package transport

import (
	"github.com/katalvlaran/hyperroute/hyperbolic"
	"github.com/katalvlaran/hyperroute/neighbor"
	"github.com/katalvlaran/hyperroute/packet"
)

// NeighborTransport adapts a UDPEndpoint to neighbor.Transport, encoding
// each single-hop control message (Discovery, Heartbeat, CoordinateUpdate —
// spec §6: "strictly single-hop between neighbors") as a packet.Header with
// the matching PacketType and decoding it back on the receive side. This is
// the only concrete neighbor.Transport in the module; package neighbor
// itself only depends on the interface, per spec §5's external-collaborator
// boundary.
type NeighborTransport struct {
	endpoint *UDPEndpoint
}

// NewNeighborTransport wraps endpoint for use as a neighbor.Transport.
func NewNeighborTransport(endpoint *UDPEndpoint) *NeighborTransport {
	return &NeighborTransport{endpoint: endpoint}
}

func (n *NeighborTransport) SendDiscovery(addr string, msg neighbor.DiscoveryMessage) error {
	h := &packet.Header{
		PacketType:  packet.Discovery,
		Source:      msg.ID,
		TargetCoord: msg.Coord.Point,
	}
	return n.endpoint.Send(addr, h)
}

func (n *NeighborTransport) SendHeartbeat(addr string, msg neighbor.HeartbeatMessage) error {
	h := &packet.Header{
		PacketType: packet.Heartbeat,
		Source:     msg.ID,
	}
	return n.endpoint.Send(addr, h)
}

func (n *NeighborTransport) SendCoordinateUpdate(addr string, msg neighbor.CoordinateUpdateMessage) error {
	h := &packet.Header{
		PacketType:  packet.CoordinateUpdate,
		Source:      msg.ID,
		TargetCoord: msg.Coord.Point,
	}
	return n.endpoint.Send(addr, h)
}

// DecodeControlMessage recovers the neighbor-package message a received
// control header carries, for use in a UDPEndpoint.Serve handler on the
// receiving node. The coordinate's Version is not carried on the wire by
// FieldTaggedCodec (tagTargetX/Y only): callers that need the sender's
// version should cross-reference fabric.Store or neighbor.Store's existing
// record rather than trust a freshly-decoded zero version.
func DecodeControlMessage(h *packet.Header) (kind packet.Type, senderID string, coord hyperbolic.Point) {
	return h.PacketType, h.Source, h.TargetCoord
}

var _ neighbor.Transport = (*NeighborTransport)(nil)
