package schema

import (
	"github.com/kiruse/hiproto/codec"
	"github.com/kiruse/hiproto/wire"
)

// Repetition selects how a field's repeated values are encoded (spec.md
// §4.3/§4.4).
type Repetition int

const (
	// NotRepeated carries at most one value; encodeMode is always Single.
	NotRepeated Repetition = iota
	// Repeated is the spec's "Default" repetition: encodeMode resolves to
	// Packed when the codec's wire type supports packing (VARINT/I32/I64),
	// else Expanded.
	Repeated
	// RepeatedExpanded always encodes one tag-framed element per value;
	// the only legal mode for LEN-typed codecs (string/bytes/submessage).
	RepeatedExpanded
)

// FieldSchema is the type-erased capability set a MessageCodec drives a
// bound field through: encode/decode/length plus the repetition and
// required-ness policy. Field[T] is the concrete, constructible
// implementation; FieldSchema lets MessageCodec hold heterogeneous field
// types in one insertion-ordered map without reflection, per spec.md §9's
// "capability-set interface... avoid deep inheritance" guidance.
type FieldSchema interface {
	Index() uint32
	CodecWireType() wire.Type
	Repetition() Repetition
	IsRequired() bool
	Default() any
	IsDefault(v any) bool
	Encode(v any, buf *wire.Buffer) error
	Decode(buf *wire.Buffer) (any, error)
	Length(v any) int
}

// Field is a FieldSchema bound to a concrete value type T, constructed
// from an (index, codec) pair per spec.md §4.3. The zero value is not
// usable; construct with NewField.
type Field[T any] struct {
	index      uint32
	codec      codec.Codec[T]
	repetition Repetition
	required   bool
}

// NewField binds codec c to field index, with Repetition NotRepeated and
// Required false (spec.md §4.3's construction defaults).
func NewField[T any](index uint32, c codec.Codec[T]) *Field[T] {
	return &Field[T]{index: index, codec: c}
}

// Required marks the field as required: decode fills it with the
// codec's default when absent from the wire rather than leaving it
// unset, matching the source's observable required semantics (spec.md
// §4.4's decode post-pass) rather than failing decode.
func (f *Field[T]) Required() *Field[T] {
	f.required = true
	return f
}

// Repeated selects the "Default" repetition: Packed when the codec's
// wire type supports it, else Expanded.
func (f *Field[T]) Repeated() *Field[T] {
	f.repetition = Repeated
	return f
}

// RepeatedExpanded selects always-expanded repetition, the only legal
// mode for LEN-typed codecs.
func (f *Field[T]) RepeatedExpanded() *Field[T] {
	f.repetition = RepeatedExpanded
	return f
}

func (f *Field[T]) Index() uint32                { return f.index }
func (f *Field[T]) CodecWireType() wire.Type     { return f.codec.WireType() }
func (f *Field[T]) Repetition() Repetition       { return f.repetition }
func (f *Field[T]) IsRequired() bool             { return f.required }
func (f *Field[T]) Default() any                 { return f.codec.Default() }
func (f *Field[T]) IsDefault(v any) bool         { return f.codec.IsDefault(v.(T)) }
func (f *Field[T]) Encode(v any, buf *wire.Buffer) error { return f.codec.Encode(v.(T), buf) }
func (f *Field[T]) Decode(buf *wire.Buffer) (any, error) { return f.codec.Decode(buf) }
func (f *Field[T]) Length(v any) int             { return f.codec.Length(v.(T)) }

// TransformField returns a new field at the same index, with the same
// repetition and required-ness as f, whose codec is
// codec.Transform(f.codec, params). Exposed as a free function rather
// than a generic method — Go methods cannot introduce their own type
// parameters — matching spec.md §4.3's `.transform(params)` fluent
// operation.
func TransformField[T, B any](f *Field[B], params codec.TransformParams[T, B]) *Field[T] {
	return &Field[T]{
		index:      f.index,
		codec:      codec.Transform(f.codec, params),
		repetition: f.repetition,
		required:   f.required,
	}
}
