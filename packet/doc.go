// Package packet: see types.go for the Header/Mode overview, codec.go for
// the wire-frame boundary, and signer.go for optional Ed25519 signing.
package packet
