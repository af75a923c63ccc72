package codec

import (
	"math"

	"github.com/kiruse/hiproto/wire"
)

type boolCodec struct{}

// Bool returns a Codec for the protobuf bool type: VARINT wire type,
// decode treats any non-zero varint as true.
func Bool() Codec[bool] { return boolCodec{} }

func (boolCodec) WireType() wire.Type  { return wire.Varint }
func (boolCodec) Default() bool        { return false }
func (boolCodec) IsDefault(v bool) bool { return !v }
func (boolCodec) Length(v bool) int    { return 1 }

func (boolCodec) Encode(v bool, buf *wire.Buffer) error {
	if v {
		return buf.EncodeVarint(1)
	}
	return buf.EncodeVarint(0)
}

func (boolCodec) Decode(buf *wire.Buffer) (bool, error) {
	v, err := buf.DecodeVarint()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

type int32Codec struct{}

// Int32 returns a Codec for the protobuf int32 type: VARINT wire type,
// sign-extended from the low 32 bits of the decoded unsigned 64-bit value.
func Int32() Codec[int32] { return int32Codec{} }

func (int32Codec) WireType() wire.Type   { return wire.Varint }
func (int32Codec) Default() int32        { return 0 }
func (int32Codec) IsDefault(v int32) bool { return v == 0 }
func (int32Codec) Length(v int32) int    { return wire.VarintLength(uint64(int64(v))) }

func (int32Codec) Encode(v int32, buf *wire.Buffer) error {
	return buf.EncodeVarint(uint64(int64(v)))
}

func (int32Codec) Decode(buf *wire.Buffer) (int32, error) {
	v, err := buf.DecodeVarint()
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

type int64Codec struct{}

// Int64 returns a Codec for the protobuf int64 type: VARINT wire type,
// the decoded unsigned 64-bit value reinterpreted as signed.
func Int64() Codec[int64] { return int64Codec{} }

func (int64Codec) WireType() wire.Type   { return wire.Varint }
func (int64Codec) Default() int64        { return 0 }
func (int64Codec) IsDefault(v int64) bool { return v == 0 }
func (int64Codec) Length(v int64) int    { return wire.VarintLength(uint64(v)) }

func (int64Codec) Encode(v int64, buf *wire.Buffer) error {
	return buf.EncodeVarint(uint64(v))
}

func (int64Codec) Decode(buf *wire.Buffer) (int64, error) {
	v, err := buf.DecodeVarint()
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

type uint32Codec struct{}

// Uint32 returns a Codec for the protobuf uint32 type.
func Uint32() Codec[uint32] { return uint32Codec{} }

func (uint32Codec) WireType() wire.Type    { return wire.Varint }
func (uint32Codec) Default() uint32        { return 0 }
func (uint32Codec) IsDefault(v uint32) bool { return v == 0 }
func (uint32Codec) Length(v uint32) int    { return wire.VarintLength(uint64(v)) }

func (uint32Codec) Encode(v uint32, buf *wire.Buffer) error {
	return buf.EncodeVarint(uint64(v))
}

func (uint32Codec) Decode(buf *wire.Buffer) (uint32, error) {
	v, err := buf.DecodeVarint()
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

type uint64Codec struct{}

// Uint64 returns a Codec for the protobuf uint64 type.
func Uint64() Codec[uint64] { return uint64Codec{} }

func (uint64Codec) WireType() wire.Type    { return wire.Varint }
func (uint64Codec) Default() uint64        { return 0 }
func (uint64Codec) IsDefault(v uint64) bool { return v == 0 }
func (uint64Codec) Length(v uint64) int    { return wire.VarintLength(v) }

func (uint64Codec) Encode(v uint64, buf *wire.Buffer) error {
	return buf.EncodeVarint(v)
}

func (uint64Codec) Decode(buf *wire.Buffer) (uint64, error) {
	return buf.DecodeVarint()
}

type sint32Codec struct{}

// Sint32 returns a Codec for the protobuf sint32 type: VARINT wire type,
// zigzag-encoded.
func Sint32() Codec[int32] { return sint32Codec{} }

func (sint32Codec) WireType() wire.Type   { return wire.Varint }
func (sint32Codec) Default() int32        { return 0 }
func (sint32Codec) IsDefault(v int32) bool { return v == 0 }
func (sint32Codec) Length(v int32) int    { return wire.ZigzagLength(int64(v)) }

func (sint32Codec) Encode(v int32, buf *wire.Buffer) error {
	return buf.EncodeVarint(wire.EncodeZigZag64(int64(v)))
}

func (sint32Codec) Decode(buf *wire.Buffer) (int32, error) {
	u, err := buf.DecodeVarint()
	if err != nil {
		return 0, err
	}
	return int32(wire.DecodeZigZag64(u)), nil
}

type sint64Codec struct{}

// Sint64 returns a Codec for the protobuf sint64 type: VARINT wire type,
// zigzag-encoded.
func Sint64() Codec[int64] { return sint64Codec{} }

func (sint64Codec) WireType() wire.Type   { return wire.Varint }
func (sint64Codec) Default() int64        { return 0 }
func (sint64Codec) IsDefault(v int64) bool { return v == 0 }
func (sint64Codec) Length(v int64) int    { return wire.ZigzagLength(v) }

func (sint64Codec) Encode(v int64, buf *wire.Buffer) error {
	return buf.EncodeVarint(wire.EncodeZigZag64(v))
}

func (sint64Codec) Decode(buf *wire.Buffer) (int64, error) {
	u, err := buf.DecodeVarint()
	if err != nil {
		return 0, err
	}
	return wire.DecodeZigZag64(u), nil
}

type fixed32Codec struct{}

// Fixed32 returns a Codec for the protobuf fixed32 type: I32 wire type,
// little-endian unsigned.
func Fixed32() Codec[uint32] { return fixed32Codec{} }

func (fixed32Codec) WireType() wire.Type    { return wire.I32 }
func (fixed32Codec) Default() uint32        { return 0 }
func (fixed32Codec) IsDefault(v uint32) bool { return v == 0 }
func (fixed32Codec) Length(v uint32) int    { return 4 }

func (fixed32Codec) Encode(v uint32, buf *wire.Buffer) error { return buf.EncodeFixed32(v) }
func (fixed32Codec) Decode(buf *wire.Buffer) (uint32, error)  { return buf.DecodeFixed32() }

type fixed64Codec struct{}

// Fixed64 returns a Codec for the protobuf fixed64 type: I64 wire type,
// little-endian unsigned.
func Fixed64() Codec[uint64] { return fixed64Codec{} }

func (fixed64Codec) WireType() wire.Type    { return wire.I64 }
func (fixed64Codec) Default() uint64        { return 0 }
func (fixed64Codec) IsDefault(v uint64) bool { return v == 0 }
func (fixed64Codec) Length(v uint64) int    { return 8 }

func (fixed64Codec) Encode(v uint64, buf *wire.Buffer) error { return buf.EncodeFixed64(v) }
func (fixed64Codec) Decode(buf *wire.Buffer) (uint64, error)  { return buf.DecodeFixed64() }

type sfixed32Codec struct{}

// Sfixed32 returns a Codec for the protobuf sfixed32 type: I32 wire type,
// little-endian signed.
func Sfixed32() Codec[int32] { return sfixed32Codec{} }

func (sfixed32Codec) WireType() wire.Type   { return wire.I32 }
func (sfixed32Codec) Default() int32        { return 0 }
func (sfixed32Codec) IsDefault(v int32) bool { return v == 0 }
func (sfixed32Codec) Length(v int32) int    { return 4 }

func (sfixed32Codec) Encode(v int32, buf *wire.Buffer) error {
	return buf.EncodeFixed32(uint32(v))
}

func (sfixed32Codec) Decode(buf *wire.Buffer) (int32, error) {
	v, err := buf.DecodeFixed32()
	return int32(v), err
}

type sfixed64Codec struct{}

// Sfixed64 returns a Codec for the protobuf sfixed64 type: I64 wire type,
// little-endian signed.
func Sfixed64() Codec[int64] { return sfixed64Codec{} }

func (sfixed64Codec) WireType() wire.Type   { return wire.I64 }
func (sfixed64Codec) Default() int64        { return 0 }
func (sfixed64Codec) IsDefault(v int64) bool { return v == 0 }
func (sfixed64Codec) Length(v int64) int    { return 8 }

func (sfixed64Codec) Encode(v int64, buf *wire.Buffer) error {
	return buf.EncodeFixed64(uint64(v))
}

func (sfixed64Codec) Decode(buf *wire.Buffer) (int64, error) {
	v, err := buf.DecodeFixed64()
	return int64(v), err
}

type floatCodec struct{}

// Float returns a Codec for the protobuf float type: I32 wire type,
// IEEE-754 little-endian.
func Float() Codec[float32] { return floatCodec{} }

func (floatCodec) WireType() wire.Type     { return wire.I32 }
func (floatCodec) Default() float32        { return 0 }
func (floatCodec) IsDefault(v float32) bool { return v == 0 }
func (floatCodec) Length(v float32) int    { return 4 }

func (floatCodec) Encode(v float32, buf *wire.Buffer) error {
	return buf.EncodeFixed32(math.Float32bits(v))
}

func (floatCodec) Decode(buf *wire.Buffer) (float32, error) {
	v, err := buf.DecodeFixed32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

type doubleCodec struct{}

// Double returns a Codec for the protobuf double type: I64 wire type,
// IEEE-754 little-endian.
func Double() Codec[float64] { return doubleCodec{} }

func (doubleCodec) WireType() wire.Type     { return wire.I64 }
func (doubleCodec) Default() float64        { return 0 }
func (doubleCodec) IsDefault(v float64) bool { return v == 0 }
func (doubleCodec) Length(v float64) int    { return 8 }

func (doubleCodec) Encode(v float64, buf *wire.Buffer) error {
	return buf.EncodeFixed64(math.Float64bits(v))
}

func (doubleCodec) Decode(buf *wire.Buffer) (float64, error) {
	v, err := buf.DecodeFixed64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

type stringCodec struct{}

// String returns a Codec for the protobuf string type: LEN wire type,
// UTF-8 bytes.
func String() Codec[string] { return stringCodec{} }

func (stringCodec) WireType() wire.Type    { return wire.Len }
func (stringCodec) Default() string        { return "" }
func (stringCodec) IsDefault(v string) bool { return v == "" }
func (stringCodec) Length(v string) int    { return wire.VarintLength(uint64(len(v))) + len(v) }

func (stringCodec) Encode(v string, buf *wire.Buffer) error {
	return buf.EncodeBytes([]byte(v))
}

func (stringCodec) Decode(buf *wire.Buffer) (string, error) {
	b, err := buf.DecodeBytes(true)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type bytesCodec struct{}

// Bytes returns a Codec for the protobuf bytes type: LEN wire type, raw
// bytes.
func Bytes() Codec[[]byte] { return bytesCodec{} }

func (bytesCodec) WireType() wire.Type { return wire.Len }
func (bytesCodec) Default() []byte     { return []byte{} }
func (bytesCodec) IsDefault(v []byte) bool { return len(v) == 0 }
func (bytesCodec) Length(v []byte) int { return wire.VarintLength(uint64(len(v))) + len(v) }

func (bytesCodec) Encode(v []byte, buf *wire.Buffer) error {
	return buf.EncodeBytes(v)
}

func (bytesCodec) Decode(buf *wire.Buffer) ([]byte, error) {
	return buf.DecodeBytes(true)
}

type enumCodec[E ~int32] struct{}

// Enum returns a Codec for an open protobuf enum backed by Go type E: any
// integer value is accepted on decode, per spec.md §4.2's "open enum"
// rule (closed-enum validation is a stated Non-goal).
func Enum[E ~int32]() Codec[E] { return enumCodec[E]{} }

func (enumCodec[E]) WireType() wire.Type { return wire.Varint }
func (enumCodec[E]) Default() E          { return 0 }
func (enumCodec[E]) IsDefault(v E) bool  { return v == 0 }
func (enumCodec[E]) Length(v E) int      { return wire.VarintLength(uint64(int64(v))) }

func (enumCodec[E]) Encode(v E, buf *wire.Buffer) error {
	return buf.EncodeVarint(uint64(int64(v)))
}

func (enumCodec[E]) Decode(buf *wire.Buffer) (E, error) {
	v, err := buf.DecodeVarint()
	if err != nil {
		return 0, err
	}
	return E(int32(v)), nil
}
