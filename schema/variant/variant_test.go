package variant_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kiruse/hiproto/codec"
	"github.com/kiruse/hiproto/schema/variant"
	"github.com/kiruse/hiproto/wire"
)

func TestVariantRoundTrip(t *testing.T) {
	reg := variant.NewRegistry()
	variant.RegisterTyped(reg, "int32", 1, codec.Int32())
	variant.RegisterTyped(reg, "string", 2, codec.String())

	c := variant.Codec(reg)

	buf := wire.New()
	v := variant.Value{Typename: "string", Typeid: 2, Payload: "hello"}
	require.NoError(t, c.Encode(v, buf))
	require.Equal(t, c.Length(v), buf.WrittenLength())

	decoded, err := c.Decode(wire.Borrow(buf.WrittenBytes()))
	require.NoError(t, err)
	require.Equal(t, "string", decoded.Typename)
	require.Equal(t, "hello", decoded.Payload)
}

func TestVariantUnregisteredTypenameFailsEncode(t *testing.T) {
	reg := variant.NewRegistry()
	c := variant.Codec(reg)
	buf := wire.New()
	err := c.Encode(variant.Value{Typename: "nope"}, buf)
	require.Error(t, err)
}

func TestVariantResolvesByTypeidWhenTypenameUnset(t *testing.T) {
	reg := variant.NewRegistry()
	variant.RegisterTyped(reg, "flag", 5, codec.Bool())

	// Outer message with only typeid (field 2) and value (field 3) set.
	buf := wire.New()
	require.NoError(t, buf.EncodeTag(2, wire.Varint))
	require.NoError(t, buf.EncodeVarint(5))
	require.NoError(t, buf.EncodeTag(3, wire.Len))
	require.NoError(t, buf.EncodeBytes([]byte{0x01}))

	decoded, err := variant.Codec(reg).Decode(wire.Borrow(buf.WrittenBytes()))
	require.NoError(t, err)
	require.Equal(t, "flag", decoded.Typename)
	require.Equal(t, int32(5), decoded.Typeid)
	require.Equal(t, true, decoded.Payload)
}
