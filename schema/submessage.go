package schema

import (
	"github.com/kiruse/hiproto/codec"
	"github.com/kiruse/hiproto/wire"
)

// messageCodecAsCodec adapts a *MessageCodec into a codec.Codec[*Message]
// so a message can be nested as a LEN-typed field of another message.
// Grounded on the teacher's encodeFieldValue TYPE_MESSAGE case
// (EncodeDelimitedMessage: length-prefix then the submessage's own
// encoded bytes) and decodeKnownField's proto.WireBytes dispatch to
// mf.NewMessage + unmarshal.
type messageCodecAsCodec struct {
	mc *MessageCodec
}

// Submessage returns a Codec that nests mc as a length-delimited field:
// encoding writes mc's body length followed by mc's encoded bytes;
// decoding reads a length-delimited byte run and decodes it as a
// self-contained message via mc.
func Submessage(mc *MessageCodec) codec.Codec[*Message] {
	return messageCodecAsCodec{mc: mc}
}

func (messageCodecAsCodec) WireType() wire.Type { return wire.Len }

func (messageCodecAsCodec) Default() *Message { return NewMessage() }

func (c messageCodecAsCodec) IsDefault(v *Message) bool {
	return v == nil || c.mc.Length(v) == 0
}

func (c messageCodecAsCodec) Encode(v *Message, buf *wire.Buffer) error {
	if err := buf.EncodeVarint(uint64(c.mc.Length(v))); err != nil {
		return err
	}
	_, err := c.mc.Encode(v, buf)
	return err
}

func (c messageCodecAsCodec) Decode(buf *wire.Buffer) (*Message, error) {
	raw, err := buf.DecodeBytes(false)
	if err != nil {
		return nil, err
	}
	return c.mc.Decode(wire.Borrow(raw))
}

func (c messageCodecAsCodec) Length(v *Message) int {
	n := c.mc.Length(v)
	return wire.VarintLength(uint64(n)) + n
}
