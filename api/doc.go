// Package api implements the five application service surfaces spec §6
// specifies only at their contract: Submit-packet, Query-node-status,
// Query-neighbors, Query-topology, and Stream-topology-updates. Node is the
// concrete collaborator a cobra CLI (package cmd/hyperrouted) or an
// in-process test drives; it wires together forward.Engine (the per-hop
// decision), neighbor.Store (the node's live peer set), fabric.Stats (the
// lock-free counters), and transport.Pool (the outbound TCP leg) into the
// single entry point a running node exposes externally.
//
// Grounded on original_source/src/api.rs's external-facing request/response
// shapes, translated from Rust's async trait methods to context-first Go
// methods returning (value, error).
package api
