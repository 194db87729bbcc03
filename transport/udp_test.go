package transport_test

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hyperroute/packet"
	"github.com/katalvlaran/hyperroute/transport"
)

func TestUDPEndpointSendAndServe(t *testing.T) {
	var mu sync.Mutex
	var received []*packet.Header

	listener, err := transport.ListenUDP("127.0.0.1:0", packet.FieldTaggedCodec{}, nil)
	require.NoError(t, err)
	defer listener.Close()

	go listener.Serve(func(h *packet.Header, from net.Addr) error {
		mu.Lock()
		received = append(received, h)
		mu.Unlock()
		return nil
	})

	sender, err := transport.ListenUDP("127.0.0.1:0", packet.FieldTaggedCodec{}, nil)
	require.NoError(t, err)
	defer sender.Close()

	h := &packet.Header{PacketType: packet.Heartbeat, Source: "n1"}
	require.NoError(t, sender.Send(listener.Addr().String(), h))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, packet.Heartbeat, received[0].PacketType)
	require.Equal(t, "n1", received[0].Source)
}
