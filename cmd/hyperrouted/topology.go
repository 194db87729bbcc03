package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/hyperroute/api"
	"github.com/katalvlaran/hyperroute/fabric"
	"github.com/katalvlaran/hyperroute/forward"
	"github.com/katalvlaran/hyperroute/node"
)

var topologyCmd = &cobra.Command{
	Use:   "topology",
	Args:  cobra.NoArgs,
	Short: "Print the local view of the overlay topology from the most recent checkpoint",
	RunE:  runTopology,
}

func init() {
	topologyCmd.Flags().String("snapshot-dir", ".", "directory containing checkpoint snapshots")
}

func runTopology(cmd *cobra.Command, args []string) error {
	snapshotDir, _ := cmd.Flags().GetString("snapshot-dir")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	snap, err := node.LoadLatest(snapshotDir)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	store, coord := snap.Restore(cfg.Neighbor.MaxNeighbors, time.Now())
	engine := forward.NewEngine(cfg.ToForwardConfig(), nil)
	n := api.NewNode(snap.NodeID, coord, store, engine, fabric.NewStats(), nil, nil, nil)

	view, err := n.QueryTopology()
	if err != nil {
		return fmt.Errorf("query topology: %w", err)
	}

	fmt.Printf("nodes (%d):\n", len(view.Nodes))
	for _, tn := range view.Nodes {
		local := ""
		if tn.IsLocal {
			local = " (local)"
		}
		fmt.Printf("  %s (%.4f, %.4f)%s\n", tn.ID, tn.Coord.X, tn.Coord.Y, local)
	}
	fmt.Printf("edges (%d):\n", len(view.Edges))
	for _, e := range view.Edges {
		fmt.Printf("  %s -> %s  dist=%.4f\n", e.Source, e.Target, e.Distance)
	}
	return nil
}
