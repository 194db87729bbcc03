package main

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/hyperroute/identity"
	"github.com/katalvlaran/hyperroute/neighbor"
	"github.com/katalvlaran/hyperroute/node"
	"github.com/katalvlaran/hyperroute/packet"
	"github.com/katalvlaran/hyperroute/ricci"
	"github.com/katalvlaran/hyperroute/rlog"
	"github.com/katalvlaran/hyperroute/transport"
)

var joinCmd = &cobra.Command{
	Use:   "join",
	Args:  cobra.NoArgs,
	Short: "Join the overlay network by broadcasting discovery to known contacts",
	RunE:  runJoin,
}

func init() {
	joinCmd.Flags().String("id", "", "this node's ID (required)")
	joinCmd.Flags().String("listen", "0.0.0.0:7777", "UDP address to listen for discovery replies on")
	joinCmd.Flags().StringArray("contact", nil, "address of a known contact to broadcast discovery to (repeatable)")
}

func runJoin(cmd *cobra.Command, args []string) error {
	selfID, _ := cmd.Flags().GetString("id")
	if selfID == "" {
		return fmt.Errorf("--id is required")
	}
	listenAddr, _ := cmd.Flags().GetString("listen")
	contacts, _ := cmd.Flags().GetStringArray("contact")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := rlog.New(rlog.Config{Level: rlog.Level(cfg.Logging.Level), Format: rlog.Format(cfg.Logging.Format)})

	endpoint, err := transport.ListenUDP(listenAddr, packet.FieldTaggedCodec{}, log)
	if err != nil {
		return fmt.Errorf("listen udp: %w", err)
	}
	defer endpoint.Close()

	responses := make(chan neighbor.Record, 32)
	go endpoint.Serve(func(h *packet.Header, from net.Addr) error {
		if h.PacketType != packet.Discovery {
			return nil
		}
		responses <- neighbor.Record{
			ID:      h.Source,
			Address: from.String(),
			Coord:   identity.NewRoutingCoordinate(h.TargetCoord),
		}
		return nil
	})

	neighborTransport := transport.NewNeighborTransport(endpoint)
	selfCoord := identity.NewRoutingCoordinate(identity.Anchor(selfID))
	for _, addr := range strings.Split(strings.Join(contacts, ","), ",") {
		if addr == "" {
			continue
		}
		_ = neighborTransport.SendDiscovery(addr, neighbor.DiscoveryMessage{ID: selfID, Coord: selfCoord})
	}

	refiner := ricci.NewRefiner(cfg.ToRefinerConfig())
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Neighbor.DiscoveryInterval*6)
	defer cancel()

	result, err := node.Join(ctx, selfID, responses, 10*time.Second, cfg.Neighbor.MaxNeighbors, refiner, log)
	if err != nil {
		return err
	}

	fmt.Printf("joined as %s: coord=(%.4f, %.4f) neighbors=%d\n",
		selfID, result.Coord.Point.X, result.Coord.Point.Y, result.Store.Count())
	return nil
}
