package packet

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Codec encodes and decodes a Header to/from the wire-frame payload (spec
// §6). Implementations must be forward-compatible: a decoder encountering an
// unknown field tag must skip it rather than fail, so the header can grow
// new fields without breaking older nodes. This package ships
// FieldTaggedCodec as the reference implementation; transport framing
// (length prefixes, MTU handling) is an external collaborator (package
// transport), not this codec's concern.
type Codec interface {
	Encode(h *Header) ([]byte, error)
	Decode(b []byte) (*Header, error)
}

// field tags for FieldTaggedCodec. New fields must get a new tag and never
// reuse a retired one, so old decoders can skip unknown tags safely.
const (
	tagPacketID = iota + 1
	tagPacketType
	tagSource
	tagDestination
	tagTargetX
	tagTargetY
	tagMode
	tagTTL
	tagEnd = 0xFF
)

// FieldTaggedCodec is a compact, self-describing binary encoding: each field
// is (tag byte, one-byte length, payload), terminated by tagEnd. Unknown tags
// encountered on decode are skipped by length, not rejected — this is the
// forward-compatibility property spec §6 requires ("so that the header can
// evolve without breaking old nodes as long as unknown fields are ignored").
//
// This is the module's one hand-rolled wire-format piece: no example in the
// retrieval pack ships a self-describing tagged binary codec with exactly
// this skip-unknown-fields contract, and a generic serialization library
// (gob, protobuf) would either bake in Go-specific reflection (gob) or
// require an external schema compiler (protobuf) for an eight-field header —
// see DESIGN.md.
type FieldTaggedCodec struct{}

func (FieldTaggedCodec) Encode(h *Header) ([]byte, error) {
	buf := make([]byte, 0, 128)
	buf = appendField(buf, tagPacketID, []byte(h.PacketID))
	buf = appendField(buf, tagPacketType, []byte{byte(h.PacketType)})
	buf = appendField(buf, tagSource, []byte(h.Source))
	buf = appendField(buf, tagDestination, []byte(h.Destination))
	buf = appendFloatField(buf, tagTargetX, h.TargetCoord.X)
	buf = appendFloatField(buf, tagTargetY, h.TargetCoord.Y)
	buf = appendField(buf, tagMode, []byte{byte(h.Mode)})
	ttl := make([]byte, 4)
	binary.BigEndian.PutUint32(ttl, uint32(h.TTL))
	buf = appendField(buf, tagTTL, ttl)
	buf = append(buf, tagEnd)
	if len(buf) > MaxFrameBytes {
		return nil, ErrOversized
	}
	return buf, nil
}

func (FieldTaggedCodec) Decode(b []byte) (*Header, error) {
	if len(b) > MaxFrameBytes {
		return nil, ErrOversized
	}
	h := &Header{}
	i := 0
	for i < len(b) {
		tag := b[i]
		i++
		if tag == tagEnd {
			break
		}
		if i >= len(b) {
			return nil, fmt.Errorf("packet: truncated frame at tag %d", tag)
		}
		length := int(b[i])
		i++
		if i+length > len(b) {
			return nil, fmt.Errorf("packet: truncated field payload for tag %d", tag)
		}
		payload := b[i : i+length]
		i += length
		switch tag {
		case tagPacketID:
			h.PacketID = string(payload)
		case tagPacketType:
			if length == 1 {
				h.PacketType = Type(payload[0])
			}
		case tagSource:
			h.Source = string(payload)
		case tagDestination:
			h.Destination = string(payload)
		case tagTargetX:
			h.TargetCoord.X = decodeFloat(payload)
		case tagTargetY:
			h.TargetCoord.Y = decodeFloat(payload)
		case tagMode:
			if length == 1 {
				h.Mode = Mode(payload[0])
			}
		case tagTTL:
			if length == 4 {
				h.TTL = int(binary.BigEndian.Uint32(payload))
			}
		default:
			// Unknown tag: already skipped by length above. Forward-compatible by design.
		}
	}
	return h, nil
}

func appendField(buf []byte, tag byte, payload []byte) []byte {
	buf = append(buf, tag, byte(len(payload)))
	buf = append(buf, payload...)
	return buf
}

func appendFloatField(buf []byte, tag byte, v float64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, math.Float64bits(v))
	return appendField(buf, tag, b)
}

func decodeFloat(b []byte) float64 {
	if len(b) != 8 {
		return 0
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b))
}
