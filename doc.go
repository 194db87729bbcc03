// Package hyperroute is a decentralized overlay router that forwards
// packets between peers embedded into the Poincaré disk model of
// hyperbolic space, using greedy geometric routing with a layered recovery
// stack (Pressure, TreeDFS, CompactTable, HyperbolicPotential) instead of a
// central directory or precomputed shortest-path tables.
//
// The module has no package-level API of its own: it is organized as a set
// of collaborating subpackages, wired together by package api and the
// cmd/hyperrouted CLI.
//
//	hyperbolic/  — Poincaré-disk point type, distance, Möbius translation
//	identity/    — opaque peer IDs, deterministic anchor coordinates
//	embed/       — PIE and Landmark-MDS initial embedding builders
//	ricci/       — Ollivier-Ricci curvature refinement of the embedding
//	registry/    — home-node assignment for a given ID
//	forward/     — the greedy-plus-recovery forwarding state machine
//	compact/     — landmark-based compact routing table fallback
//	neighbor/    — neighbor discovery, heartbeats, liveness tracking
//	node/        — join/leave/partition-healing lifecycle, checkpoints
//	fabric/      — concurrent node store, mailboxes, routing statistics
//	packet/      — wire-adjacent header and codec types
//	transport/   — length-prefixed TCP and single-datagram UDP framing
//	api/         — the external-facing collaborator wiring the above
//	config/      — YAML configuration and its conversions into package configs
//	rlog/        — structured logging wrapper over zerolog
//
// See cmd/hyperrouted for the command-line entry point, and SPEC_FULL.md for
// the full requirements this module implements.
package hyperroute
