// Package transport is the wire-frame external collaborator specified at
// spec §6: length-prefixed TCP frames for Data packets, one
// packet.Header per UDP datagram for Heartbeat/Discovery/CoordinateUpdate.
// It depends only on package packet's Codec/Header; package forward and
// package neighbor depend on transport only through the interfaces they
// declare (forward.LocalView, neighbor.Transport), never the reverse, so
// transport stays swappable behind a fake in every other package's tests.
//
// Grounded on original_source/src/network.rs's TCP acceptor + UDP listener
// split and its per-peer connection pool, reshaped onto Go's net package
// (the pack ships no higher-level framing/transport library, so this is the
// one package built directly on the standard library — see DESIGN.md).
package transport
