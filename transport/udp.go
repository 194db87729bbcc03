package transport

import (
	"fmt"
	"net"

	"github.com/katalvlaran/hyperroute/packet"
	"github.com/katalvlaran/hyperroute/rlog"
)

// UDPEndpoint sends and receives single-datagram frames: one
// packet.Header per UDP packet (spec §6), used for Heartbeat, Discovery,
// and CoordinateUpdate — all strictly single-hop between neighbors, never
// multi-hop forwarded.
type UDPEndpoint struct {
	conn  *net.UDPConn
	codec packet.Codec
	log   *rlog.Logger
}

// ListenUDP binds addr and returns a UDPEndpoint ready to Send and Serve.
func ListenUDP(addr string, codec packet.Codec, log *rlog.Logger) (*UDPEndpoint, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: resolve %s: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, fmt.Errorf("transport: listen udp %s: %w", addr, err)
	}
	if log == nil {
		log = rlog.Nop()
	}
	return &UDPEndpoint{conn: conn, codec: codec, log: log.For("transport.udp")}, nil
}

// Addr reports the bound local address.
func (u *UDPEndpoint) Addr() net.Addr { return u.conn.LocalAddr() }

// Send encodes h and writes it as a single datagram to addr. UDP is
// best-effort: a successful Send only means the datagram left the local
// socket, not that it arrived.
func (u *UDPEndpoint) Send(addr string, h *packet.Header) error {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return fmt.Errorf("transport: resolve %s: %w", addr, err)
	}
	body, err := u.codec.Encode(h)
	if err != nil {
		return fmt.Errorf("transport: encode header: %w", err)
	}
	if len(body) > packet.MaxFrameBytes {
		return ErrFrameTooLarge
	}
	if _, err := u.conn.WriteToUDP(body, udpAddr); err != nil {
		return fmt.Errorf("transport: write udp to %s: %w", addr, err)
	}
	return nil
}

// Serve reads datagrams until Close is called, dispatching each decoded
// header to handler. Blocks; call in its own goroutine.
func (u *UDPEndpoint) Serve(handler Handler) error {
	buf := make([]byte, packet.MaxFrameBytes)
	for {
		n, from, err := u.conn.ReadFromUDP(buf)
		if err != nil {
			return err
		}
		h, err := u.codec.Decode(buf[:n])
		if err != nil {
			u.log.Warn().Err(err).Msg("dropping undecodable datagram")
			continue
		}
		if err := handler(h, from); err != nil {
			u.log.Warn().Err(err).Msg("handler rejected datagram")
		}
	}
}

// Close shuts down the UDP socket, unblocking any in-progress Serve.
func (u *UDPEndpoint) Close() error {
	return u.conn.Close()
}
