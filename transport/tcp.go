package transport

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/katalvlaran/hyperroute/packet"
	"github.com/katalvlaran/hyperroute/rlog"
)

// DefaultConnectTimeout is spec §5's default connection timeout (30s).
const DefaultConnectTimeout = 30 * time.Second

type peerConn struct {
	mu   sync.Mutex // single-writer per connection (spec §5)
	conn net.Conn
}

// Pool is the pooled TCP connection manager from spec §5: "per-peer
// connection is single-writer (serialized by a connection-level lock) but
// multi-read." Connections are dialed lazily and kept for reuse; Send
// serializes writers on the same peer without blocking writers to other
// peers, matching fabric.Store's per-shard (here per-peer) locking idiom.
type Pool struct {
	mu    sync.RWMutex
	peers map[string]*peerConn
	codec packet.Codec
	dial  func(addr string) (net.Conn, error)
}

// NewPool constructs a Pool that dials with net.DialTimeout using
// DefaultConnectTimeout.
func NewPool(codec packet.Codec) *Pool {
	return &Pool{
		peers: make(map[string]*peerConn),
		codec: codec,
		dial: func(addr string) (net.Conn, error) {
			return net.DialTimeout("tcp", addr, DefaultConnectTimeout)
		},
	}
}

func (p *Pool) getOrDial(addr string) (*peerConn, error) {
	p.mu.RLock()
	pc, ok := p.peers[addr]
	p.mu.RUnlock()
	if ok {
		return pc, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if pc, ok = p.peers[addr]; ok {
		return pc, nil
	}
	conn, err := p.dial(addr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", addr, err)
	}
	pc = &peerConn{conn: conn}
	p.peers[addr] = pc
	return pc, nil
}

// Send encodes h and writes it as a length-prefixed TCP frame to addr,
// dialing a new connection if none is pooled yet and discarding a broken
// connection so the next Send redials.
func (p *Pool) Send(addr string, h *packet.Header) error {
	pc, err := p.getOrDial(addr)
	if err != nil {
		return err
	}

	body, err := p.codec.Encode(h)
	if err != nil {
		return fmt.Errorf("transport: encode header: %w", err)
	}

	pc.mu.Lock()
	defer pc.mu.Unlock()
	if err := WriteFrame(pc.conn, body); err != nil {
		pc.conn.Close()
		p.mu.Lock()
		delete(p.peers, addr)
		p.mu.Unlock()
		return err
	}
	return nil
}

// Close closes every pooled connection.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for addr, pc := range p.peers {
		pc.conn.Close()
		delete(p.peers, addr)
	}
}

// Handler processes one decoded header received from a peer connection.
type Handler func(h *packet.Header, from net.Addr) error

// Server accepts TCP connections and dispatches every length-prefixed frame
// on each one to a Handler, one goroutine per connection (spec §5:
// "Incoming connections spawn a task per connection; that task reads
// length-prefixed frames and dispatches each to the router").
type Server struct {
	listener net.Listener
	codec    packet.Codec
	handler  Handler
	log      *rlog.Logger

	wg sync.WaitGroup
}

// Listen binds addr and returns a Server ready to Serve.
func Listen(addr string, codec packet.Codec, handler Handler, log *rlog.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: listen %s: %w", addr, err)
	}
	if log == nil {
		log = rlog.Nop()
	}
	return &Server{listener: ln, codec: codec, handler: handler, log: log.For("transport.tcp")}, nil
}

// Addr reports the bound local address.
func (s *Server) Addr() net.Addr { return s.listener.Addr() }

// Serve accepts connections until the listener is closed, spawning one
// goroutine per accepted connection. Blocks; call in its own goroutine.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return err
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	for {
		body, err := ReadFrame(conn)
		if err != nil {
			if err.Error() != "EOF" {
				s.log.Debug().Str("remote", conn.RemoteAddr().String()).Err(err).Msg("connection closed")
			}
			return
		}
		h, err := s.codec.Decode(body)
		if err != nil {
			s.log.Warn().Err(err).Msg("dropping undecodable frame")
			continue
		}
		if err := s.handler(h, conn.RemoteAddr()); err != nil {
			s.log.Warn().Err(err).Msg("handler rejected frame")
		}
	}
}

// Close stops accepting new connections and waits for every connection
// handler to return. Closing the listener does not close accepted
// connections: each handler returns only once its peer closes the
// connection or a read fails, so Close blocks until then.
func (s *Server) Close() error {
	err := s.listener.Close()
	s.wg.Wait()
	return err
}
