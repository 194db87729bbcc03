package packet

import (
	"crypto/ed25519"
	"errors"
)

// ErrSignatureMismatch indicates Verify found the signature invalid for the
// reconstructed (zeroed-signature) serialization.
var ErrSignatureMismatch = errors.New("packet: signature verification failed")

// ErrBadSignatureLength indicates a signature field was not exactly
// ed25519.SignatureSize bytes.
var ErrBadSignatureLength = errors.New("packet: signature must be 64 bytes")

// Signer signs and verifies packet serializations with Ed25519 (spec §6:
// optional 64-byte signature over the serialization with the signature
// field cleared). crypto/ed25519 is the stdlib primitive used directly —
// see DESIGN.md for why the pack's codahale/thyrse schemes (built on a
// Ristretto255 group, not Ed25519) are not a substitute here.
type Signer struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// NewSigner wraps an Ed25519 key pair. Generate one with
// ed25519.GenerateKey(rand.Reader).
func NewSigner(priv ed25519.PrivateKey, pub ed25519.PublicKey) *Signer {
	return &Signer{priv: priv, pub: pub}
}

// Sign returns a 64-byte Ed25519 signature over payload, which callers must
// construct as the Codec-encoded serialization with the signature field
// cleared.
func (s *Signer) Sign(payload []byte) []byte {
	return ed25519.Sign(s.priv, payload)
}

// Verify reports whether sig is a valid Ed25519 signature over payload by
// pub. It reconstructs nothing itself — callers must pass the same
// zeroed-signature serialization used at Sign time — and fails fast (false,
// non-nil error) on a length mismatch rather than attempting verification.
func Verify(pub ed25519.PublicKey, payload, sig []byte) (bool, error) {
	if len(sig) != ed25519.SignatureSize {
		return false, ErrBadSignatureLength
	}
	if !ed25519.Verify(pub, payload, sig) {
		return false, ErrSignatureMismatch
	}
	return true, nil
}
