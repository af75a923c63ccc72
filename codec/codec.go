// Package codec defines the composable value codecs used to map typed Go
// values onto the Protocol Buffers wire format: a small closed family of
// scalar codecs plus the Transform combinator that wraps any codec with a
// bijective value mapping.
package codec

import "github.com/kiruse/hiproto/wire"

// Codec maps a Go value of type T to and from its wire representation.
// Implementations hold no mutable state once constructed and are safe to
// share across goroutines, provided each call operates on an independently
// owned *wire.Buffer (see spec.md §5/§6).
type Codec[T any] interface {
	// WireType is the wire type this codec emits when writing a single
	// (non-packed, non-repeated) value.
	WireType() wire.Type
	// Default is the protobuf zero value for T.
	Default() T
	// IsDefault reports whether v equals Default(); used to elide fields
	// from encoded output.
	IsDefault(v T) bool
	// Encode writes only the value bytes for v; the caller is responsible
	// for any field header.
	Encode(v T, buf *wire.Buffer) error
	// Decode reads one value.
	Decode(buf *wire.Buffer) (T, error)
	// Length returns the exact number of bytes Encode(v, ...) would write.
	Length(v T) int
}
