package schema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/kiruse/hiproto/codec"
	"github.com/kiruse/hiproto/schema"
	"github.com/kiruse/hiproto/wire"
)

func toAny[T any](vs []T) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

func TestRepeatedInt32PackedVector(t *testing.T) {
	mc := schema.NewMessageCodec(
		schema.F("values", schema.NewField(1, codec.Int32()).Repeated()),
	)
	m := schema.NewMessage()
	m.Set("values", toAny([]int32{1, 2, 3}))

	buf := wire.New()
	_, err := mc.Encode(m, buf)
	require.NoError(t, err)
	require.Equal(t, []byte{0x0A, 0x03, 0x01, 0x02, 0x03}, buf.WrittenBytes())
	require.Equal(t, mc.Length(m), buf.WrittenLength())

	decoded, err := mc.Decode(wire.Borrow(buf.WrittenBytes()))
	require.NoError(t, err)
	values, _ := decoded.Get("values")
	require.Empty(t, cmp.Diff(toAny([]int32{1, 2, 3}), values))
}

func TestDefaultElisionVector(t *testing.T) {
	mc := schema.NewMessageCodec(
		schema.F("flag", schema.NewField(1, codec.Bool())),
		schema.F("count", schema.NewField(2, codec.Int32())),
		schema.F("values", schema.NewField(3, codec.Int32()).Repeated()),
	)
	m := schema.NewMessage()
	m.Set("flag", true)
	m.Set("count", int32(0))
	m.Set("values", toAny([]int32{1, 2, 3}))

	buf := wire.New()
	_, err := mc.Encode(m, buf)
	require.NoError(t, err)
	require.Equal(t, []byte{0x08, 0x01, 0x1A, 0x03, 0x01, 0x02, 0x03}, buf.WrittenBytes())
}

func TestAllDefaultMessageEncodesToZeroBytes(t *testing.T) {
	mc := schema.NewMessageCodec(
		schema.F("flag", schema.NewField(1, codec.Bool())),
		schema.F("count", schema.NewField(2, codec.Int32())),
	)
	m := schema.NewMessage()
	m.Set("flag", false)
	m.Set("count", int32(0))

	buf := wire.New()
	_, err := mc.Encode(m, buf)
	require.NoError(t, err)
	require.Equal(t, 0, buf.WrittenLength())
	require.Equal(t, 0, mc.Length(m))
}

func TestPackedAndExpandedDecodeEquivalence(t *testing.T) {
	mc := schema.NewMessageCodec(
		schema.F("values", schema.NewField(1, codec.Int32()).Repeated()),
	)

	packed := wire.New()
	require.NoError(t, packed.EncodeTag(1, wire.Len))
	require.NoError(t, packed.EncodeVarint(3))
	require.NoError(t, packed.EncodeVarint(1))
	require.NoError(t, packed.EncodeVarint(2))
	require.NoError(t, packed.EncodeVarint(3))

	expanded := wire.New()
	for _, v := range []int64{1, 2, 3} {
		require.NoError(t, expanded.EncodeTag(1, wire.Varint))
		require.NoError(t, expanded.EncodeVarint(uint64(v)))
	}

	fromPacked, err := mc.Decode(wire.Borrow(packed.WrittenBytes()))
	require.NoError(t, err)
	fromExpanded, err := mc.Decode(wire.Borrow(expanded.WrittenBytes()))
	require.NoError(t, err)

	pv, _ := fromPacked.Get("values")
	ev, _ := fromExpanded.Get("values")
	require.Empty(t, cmp.Diff(pv, ev))
	require.Empty(t, cmp.Diff(toAny([]int32{1, 2, 3}), pv))
}

func TestUnknownFieldsRoundTrip(t *testing.T) {
	full := schema.NewMessageCodec(
		schema.F("a", schema.NewField(1, codec.Int32())),
		schema.F("b", schema.NewField(2, codec.String())),
	)
	m := schema.NewMessage()
	m.Set("a", int32(5))
	m.Set("b", "hi")
	buf := wire.New()
	_, err := full.Encode(m, buf)
	require.NoError(t, err)
	original := append([]byte(nil), buf.WrittenBytes()...)

	partial := schema.NewMessageCodec(
		schema.F("a", schema.NewField(1, codec.Int32())),
	)
	decoded, err := partial.Decode(wire.Borrow(original))
	require.NoError(t, err)
	require.Equal(t, []uint32{2}, decoded.UnknownFieldIndexes())

	reencoded := wire.New()
	_, err = partial.Encode(decoded, reencoded)
	require.NoError(t, err)
	require.Equal(t, original, reencoded.WrittenBytes())
}

func TestRequiredFieldAbsentYieldsDefault(t *testing.T) {
	mc := schema.NewMessageCodec(
		schema.F("id", schema.NewField(1, codec.Int32()).Required()),
	)
	decoded, err := mc.Decode(wire.Borrow(nil))
	require.NoError(t, err)
	v, ok := decoded.Get("id")
	require.True(t, ok)
	require.Equal(t, int32(0), v)
}

func TestRequiredFieldHoldingDefaultIsStillElided(t *testing.T) {
	mc := schema.NewMessageCodec(
		schema.F("id", schema.NewField(1, codec.Int32()).Required()),
	)
	m := schema.NewMessage()
	m.Set("id", int32(0))

	buf := wire.New()
	_, err := mc.Encode(m, buf)
	require.NoError(t, err)
	require.Equal(t, 0, buf.WrittenLength())
	require.Equal(t, 0, mc.Length(m))
}

func TestRequiredFieldAbsentFromEncodeInputIsNotWritten(t *testing.T) {
	mc := schema.NewMessageCodec(
		schema.F("id", schema.NewField(1, codec.Int32()).Required()),
	)
	m := schema.NewMessage()

	buf := wire.New()
	_, err := mc.Encode(m, buf)
	require.NoError(t, err)
	require.Equal(t, 0, buf.WrittenLength())
}

func TestDuplicateTagOnSingleFieldFailsDecode(t *testing.T) {
	mc := schema.NewMessageCodec(
		schema.F("id", schema.NewField(1, codec.Int32())),
	)
	buf := wire.New()
	require.NoError(t, buf.EncodeTag(1, wire.Varint))
	require.NoError(t, buf.EncodeVarint(5))
	require.NoError(t, buf.EncodeTag(1, wire.Varint))
	require.NoError(t, buf.EncodeVarint(7))

	_, err := mc.Decode(wire.Borrow(buf.WrittenBytes()))
	require.Error(t, err)
	require.ErrorIs(t, err, wire.ErrRepeatedSingleField)
}

func TestSubmessageVector(t *testing.T) {
	point := schema.NewMessageCodec(
		schema.F("x", schema.NewField(1, codec.Int32())),
		schema.F("y", schema.NewField(2, codec.Int32())),
	)
	line := schema.NewMessageCodec(
		schema.F("name", schema.NewField(1, codec.String())),
		schema.F("start", schema.NewField(2, schema.Submessage(point))),
		schema.F("end", schema.NewField(3, schema.Submessage(point))),
	)

	start := schema.NewMessage()
	start.Set("x", int32(1))
	start.Set("y", int32(2))
	end := schema.NewMessage()
	end.Set("x", int32(3))
	end.Set("y", int32(4))

	m := schema.NewMessage()
	m.Set("name", "ab")
	m.Set("start", start)
	m.Set("end", end)

	buf := wire.New()
	_, err := line.Encode(m, buf)
	require.NoError(t, err)
	require.Equal(t, line.Length(m), buf.WrittenLength())

	decoded, err := line.Decode(wire.Borrow(buf.WrittenBytes()))
	require.NoError(t, err)
	name, _ := decoded.Get("name")
	require.Equal(t, "ab", name)
	gotStart, _ := decoded.Get("start")
	sx, _ := gotStart.(*schema.Message).Get("x")
	require.Equal(t, int32(1), sx)
}
