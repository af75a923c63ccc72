package codec

import "github.com/kiruse/hiproto/wire"

// JSONEncoding is the caller-supplied pair of stringify/encode and
// parse/decode functions the json codec delegates to. spec.md §1 treats
// the concrete hex/base64/raw encodings as external collaborators
// specified only by this contract.
type JSONEncoding[T any] struct {
	Stringify func(T) (string, error)
	Parse     func(string) (T, error)
}

type jsonCodec[T any] struct {
	enc JSONEncoding[T]
}

// JSON returns a Codec that stores T as a string field on the wire (LEN
// wire type), delegating the value<->string conversion to enc. Grounded
// on dynamic.Message.MarshalJSONWithOptions's stringify-then-wrap shape,
// but generalized over an arbitrary T rather than fixed to protobuf JSON
// mapping. Default is the value enc.Parse yields for "{}" (T's zero value
// if Parse rejects it); IsDefault reports whether v stringifies to "{}".
func JSON[T any](enc JSONEncoding[T]) Codec[T] {
	return jsonCodec[T]{enc: enc}
}

func (jsonCodec[T]) WireType() wire.Type { return wire.Len }

func (c jsonCodec[T]) Default() T {
	v, err := c.enc.Parse("{}")
	if err != nil {
		var zero T
		return zero
	}
	return v
}

func (c jsonCodec[T]) IsDefault(v T) bool {
	s, err := c.enc.Stringify(v)
	return err == nil && s == "{}"
}

func (c jsonCodec[T]) Encode(v T, buf *wire.Buffer) error {
	s, err := c.enc.Stringify(v)
	if err != nil {
		return err
	}
	return String().Encode(s, buf)
}

func (c jsonCodec[T]) Decode(buf *wire.Buffer) (T, error) {
	s, err := String().Decode(buf)
	if err != nil {
		var zero T
		return zero, err
	}
	return c.enc.Parse(s)
}

func (c jsonCodec[T]) Length(v T) int {
	s, err := c.enc.Stringify(v)
	if err != nil {
		return 0
	}
	return String().Length(s)
}
