package codec

import "github.com/kiruse/hiproto/wire"

// TransformParams configures Transform: Encode/Decode form a bijection
// between the transformed domain T and the wrapped codec's domain B, and
// Default is the value the transformed codec's Default returns (spec.md
// §4.2 "transform" — Default cannot be derived generically from B's
// default because the bijection need not map zero to zero). Default
// elision does not consult Default: IsDefault maps v through Encode and
// asks the wrapped codec.
type TransformParams[T, B any] struct {
	Encode  func(T) B
	Decode  func(B) T
	Default T
}

type transformCodec[T, B any] struct {
	inner  Codec[B]
	params TransformParams[T, B]
}

// Transform wraps inner with a bijective value mapping. The wire bytes are
// exactly what inner would produce for the mapped value; transforms are
// pre-encode/post-decode only and compose (Transform of Transform) per
// spec.md §4.2, grounded on the convert/canConvert coercion pair in the
// teacher's dynamic_message.go, generalized here into an explicit codec
// wrapper rather than a reflection-driven coercion.
func Transform[T, B any](inner Codec[B], params TransformParams[T, B]) Codec[T] {
	return transformCodec[T, B]{inner: inner, params: params}
}

func (t transformCodec[T, B]) WireType() wire.Type { return t.inner.WireType() }
func (t transformCodec[T, B]) Default() T          { return t.params.Default }

func (t transformCodec[T, B]) IsDefault(v T) bool {
	return t.inner.IsDefault(t.params.Encode(v))
}

func (t transformCodec[T, B]) Encode(v T, buf *wire.Buffer) error {
	return t.inner.Encode(t.params.Encode(v), buf)
}

func (t transformCodec[T, B]) Decode(buf *wire.Buffer) (T, error) {
	b, err := t.inner.Decode(buf)
	if err != nil {
		var zero T
		return zero, err
	}
	return t.params.Decode(b), nil
}

func (t transformCodec[T, B]) Length(v T) int {
	return t.inner.Length(t.params.Encode(v))
}
