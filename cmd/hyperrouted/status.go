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

var statusCmd = &cobra.Command{
	Use:   "status",
	Args:  cobra.NoArgs,
	Short: "Print this node's status from its most recent checkpoint",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().String("snapshot-dir", ".", "directory containing checkpoint snapshots")
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	status := n.QueryNodeStatus()
	fmt.Printf("id: %s\n", status.ID)
	fmt.Printf("coord: (%.4f, %.4f) version=%d\n", status.Coord.X, status.Coord.Y, status.Coord.Version)
	fmt.Printf("neighbors: %d %v\n", len(status.NeighborIDs), status.NeighborIDs)
	fmt.Printf("snapshot age: %s\n", snap.Age(time.Now()))
	return nil
}
