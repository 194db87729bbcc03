// Package node implements a router node's lifecycle: join, leave, partition
// detection/healing, and snapshot/restore (spec §4.9).
//
// Snapshot persistence is grounded on original_source/src/network.rs's
// NodeCheckpoint (same field set: node id, coordinate, coord version,
// neighbor list, timestamp, schema version; same "retain N most recent,
// load most recent compatible on restart" contract), restructured onto
// gopkg.in/yaml.v3 instead of the original's JSON/MessagePack pair since
// this module already standardizes on yaml.v3 for on-disk state
// (package config).
package node

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/hyperroute/hyperbolic"
	"github.com/katalvlaran/hyperroute/identity"
	"github.com/katalvlaran/hyperroute/neighbor"
)

// SchemaVersion is the current checkpoint file format version (spec §6:
// "schema_version=1").
const SchemaVersion = 1

// MaxRetainedSnapshots bounds how many checkpoint files Save keeps in a
// directory before deleting the oldest (spec §4.9 default: 5).
const MaxRetainedSnapshots = 5

// ErrIncompatibleSchema is returned by LoadLatest when the newest snapshot
// file on disk carries a schema_version this build does not understand.
var ErrIncompatibleSchema = errors.New("node: snapshot schema version incompatible")

// ErrNoSnapshots is returned by LoadLatest when a directory has no
// checkpoint files.
var ErrNoSnapshots = errors.New("node: no snapshots found")

// SnapshotNeighbor is one neighbor record as persisted in a checkpoint.
type SnapshotNeighbor struct {
	ID      string           `yaml:"id"`
	Coord   hyperbolic.Point `yaml:"coord"`
	Address string           `yaml:"address"`
	Version uint64           `yaml:"version"`
}

// Snapshot is a node's full persistable state (spec §4.9/§6).
type Snapshot struct {
	SchemaVersion int                `yaml:"schema_version"`
	NodeID        string             `yaml:"node_id"`
	Coord         hyperbolic.Point   `yaml:"coord"`
	CoordVersion  uint64             `yaml:"coord_version"`
	Neighbors     []SnapshotNeighbor `yaml:"neighbors"`
	Timestamp     time.Time          `yaml:"timestamp"`
}

// NewSnapshot captures a node's current state.
func NewSnapshot(nodeID string, coord identity.RoutingCoordinate, neighbors []neighbor.Record, now time.Time) Snapshot {
	snapNeighbors := make([]SnapshotNeighbor, 0, len(neighbors))
	for _, n := range neighbors {
		snapNeighbors = append(snapNeighbors, SnapshotNeighbor{
			ID:      n.ID,
			Coord:   n.Coord.Point,
			Address: n.Address,
			Version: n.Coord.Version,
		})
	}
	return Snapshot{
		SchemaVersion: SchemaVersion,
		NodeID:        nodeID,
		Coord:         coord.Point,
		CoordVersion:  coord.Version,
		Neighbors:     snapNeighbors,
		Timestamp:     now,
	}
}

// Age returns how long ago the snapshot was taken, relative to now.
func (s Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.Timestamp)
}

// Compatible reports whether this build can load a snapshot with this
// schema version.
func (s Snapshot) Compatible() bool {
	return s.SchemaVersion == SchemaVersion
}

// snapshotFileName produces a lexicographically-sortable-by-time file name
// so the most recent snapshot in a directory is always the one that sorts
// last.
func snapshotFileName(now time.Time) string {
	return fmt.Sprintf("snapshot-%s.yaml", now.UTC().Format("20060102T150405.000000000"))
}

// Save writes the snapshot as a new file in dir, then deletes the oldest
// files beyond MaxRetainedSnapshots.
func (s Snapshot) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("node: mkdir snapshot dir: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("node: marshal snapshot: %w", err)
	}
	path := filepath.Join(dir, snapshotFileName(s.Timestamp))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("node: write snapshot: %w", err)
	}
	if err := pruneOldSnapshots(dir); err != nil {
		return path, err
	}
	return path, nil
}

func pruneOldSnapshots(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("node: read snapshot dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	if len(names) <= MaxRetainedSnapshots {
		return nil
	}
	toRemove := names[:len(names)-MaxRetainedSnapshots]
	for _, name := range toRemove {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("node: remove old snapshot %s: %w", name, err)
		}
	}
	return nil
}

// LoadLatest loads the most recent snapshot file in dir. Returns
// ErrNoSnapshots if dir has none, ErrIncompatibleSchema if the newest one's
// schema_version this build cannot read.
func LoadLatest(dir string) (Snapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, ErrNoSnapshots
		}
		return Snapshot{}, fmt.Errorf("node: read snapshot dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return Snapshot{}, ErrNoSnapshots
	}
	sort.Strings(names)
	latest := names[len(names)-1]

	data, err := os.ReadFile(filepath.Join(dir, latest))
	if err != nil {
		return Snapshot{}, fmt.Errorf("node: read snapshot %s: %w", latest, err)
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("node: unmarshal snapshot %s: %w", latest, err)
	}
	if !snap.Compatible() {
		return Snapshot{}, fmt.Errorf("%w: file %s has schema_version %d, want %d", ErrIncompatibleSchema, latest, snap.SchemaVersion, SchemaVersion)
	}
	return snap, nil
}

// Restore rebuilds a neighbor.Store from the snapshot, resetting every
// neighbor's LastHeartbeat to now (spec §4.9: "so that grace is given
// before failure detection fires").
func (s Snapshot) Restore(maxNeighbors int, now time.Time) (*neighbor.Store, identity.RoutingCoordinate) {
	store := neighbor.NewStore(s.NodeID, maxNeighbors)
	store.SetSelfCoord(s.Coord)
	for _, n := range s.Neighbors {
		store.Upsert(neighbor.Record{
			ID:            n.ID,
			Address:       n.Address,
			Coord:         identity.RoutingCoordinate{Point: n.Coord, Version: n.Version},
			LastHeartbeat: now,
		})
	}
	return store, identity.RoutingCoordinate{Point: s.Coord, Version: s.CoordVersion}
}
