package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/katalvlaran/hyperroute/packet"
)

// ErrFrameTooLarge mirrors packet.ErrOversized at the framing layer, raised
// before an oversized length prefix is even read into memory.
var ErrFrameTooLarge = errors.New("transport: frame exceeds maximum size")

// WriteFrame writes b as a 4-byte big-endian length prefix followed by b
// itself (spec §6's TCP wire frame). b must not exceed packet.MaxFrameBytes.
func WriteFrame(w io.Writer, b []byte) error {
	if len(b) > packet.MaxFrameBytes {
		return ErrFrameTooLarge
	}
	prefix := make([]byte, 4)
	binary.BigEndian.PutUint32(prefix, uint32(len(b)))
	if _, err := w.Write(prefix); err != nil {
		return fmt.Errorf("transport: write length prefix: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("transport: write frame body: %w", err)
	}
	return nil
}

// ReadFrame reads one length-prefixed frame, rejecting a declared length
// above packet.MaxFrameBytes before allocating a buffer for it.
func ReadFrame(r io.Reader) ([]byte, error) {
	prefix := make([]byte, 4)
	if _, err := io.ReadFull(r, prefix); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint32(prefix)
	if length > packet.MaxFrameBytes {
		return nil, ErrFrameTooLarge
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("transport: read frame body: %w", err)
	}
	return buf, nil
}
