// Command hyperrouted is a thin cobra.Command tree over package api: it
// loads config, constructs the collaborators api.Node wires together, and
// dispatches into join/status/topology subcommands. It does not implement a
// transport binding of its own beyond what package transport already
// provides — per SPEC_FULL.md, this is a demonstration of wiring, not a
// production daemon supervisor.
//
// Grounded on jihwankim/chaos-utils's cmd/chaos-runner: a package-level
// rootCmd with PersistentFlags for the shared config path, subcommands
// registered from init(), and RunE handlers that load config before doing
// any real work.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/hyperroute/config"
)

var (
	cfgFile string
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "hyperrouted",
	Short:   "Hyperbolic-geometry decentralized overlay router",
	Long:    `hyperrouted runs and inspects a single node of a hyperbolic-coordinate overlay network: greedy Poincare-disk forwarding with Pressure/TreeDFS/CompactTable/HyperbolicPotential fallbacks.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to hyperroute.yaml (default: ./hyperroute.yaml)")
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(topologyCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
