package schema

import (
	"fmt"

	"github.com/kiruse/hiproto/wire"
)

// NamedField pairs a declared field name with its binding, used only to
// pass fields to NewMessageCodec in declaration order — a plain
// map[string]FieldSchema would not preserve that order, and spec.md
// §3/§9 require the field container to iterate in declaration order
// (encode emits fields in that order; the re-encode-order Open Question
// resolution in DESIGN.md only covers unknown fields, not declared
// ones).
type NamedField struct {
	Name   string
	Schema FieldSchema
}

// F is a shorthand constructor for NamedField, for terser
// NewMessageCodec call sites.
func F(name string, s FieldSchema) NamedField {
	return NamedField{Name: name, Schema: s}
}

// MessageCodec is a schema bound to an ordered set of named fields; it
// is itself a Codec-shaped component (see MessageCodecLike) that
// encodes/decodes *Message values to/from the Protocol Buffers wire
// format. Grounded on dynamic.Message's decode loop in
// codec.(*Buffer).DecodeFieldValue / EncodeFieldValue, generalized from
// descriptor-driven field lookup to a schema.FieldSchema map.
type MessageCodec struct {
	order   []string
	byName  map[string]FieldSchema
	byIndex map[uint32]string
}

// NewMessageCodec builds a MessageCodec from fields in declaration
// order. It panics if two fields share a name or wire index — this is
// a schema construction error, not a data error, and mirrors the
// teacher's pattern of failing fast on malformed descriptors rather
// than deferring the error to first use.
func NewMessageCodec(fields ...NamedField) *MessageCodec {
	mc := &MessageCodec{
		byName:  make(map[string]FieldSchema, len(fields)),
		byIndex: make(map[uint32]string, len(fields)),
	}
	for _, f := range fields {
		if _, dup := mc.byName[f.Name]; dup {
			panic(fmt.Sprintf("schema: duplicate field name %q", f.Name))
		}
		if other, dup := mc.byIndex[f.Schema.Index()]; dup {
			panic(fmt.Sprintf("schema: field %q and %q share index %d", f.Name, other, f.Schema.Index()))
		}
		mc.order = append(mc.order, f.Name)
		mc.byName[f.Name] = f.Schema
		mc.byIndex[f.Schema.Index()] = f.Name
	}
	return mc
}

// encodeMode is the resolved per-field emission strategy for one
// encode/length pass, derived from a field's Repetition and its
// codec's wire type (spec.md §4.4).
type encodeMode int

const (
	modeSingle encodeMode = iota
	modePacked
	modeExpanded
)

func resolveMode(f FieldSchema) encodeMode {
	switch f.Repetition() {
	case NotRepeated:
		return modeSingle
	case RepeatedExpanded:
		return modeExpanded
	default: // Repeated
		switch f.CodecWireType() {
		case wire.Varint, wire.I32, wire.I64:
			return modePacked
		default:
			return modeExpanded
		}
	}
}

// Encode writes v's declared fields, in schema declaration order, into
// buf, skipping absent and default-valued fields — Required affects
// decode only; the wire format carries no "required" bit (spec.md
// §4.3/§4.4) — then appends any preserved unknown fields in their
// first-seen decode order. It returns buf for chaining, matching the
// wire.Buffer method style.
func (mc *MessageCodec) Encode(v *Message, buf *wire.Buffer) (*wire.Buffer, error) {
	for _, name := range mc.order {
		f := mc.byName[name]
		raw, ok := v.Get(name)
		if !ok {
			continue
		}
		if err := mc.encodeField(name, f, raw, buf); err != nil {
			return buf, err
		}
	}
	for _, index := range v.UnknownFieldIndexes() {
		for _, u := range v.UnknownFields(index) {
			if err := u.write(buf); err != nil {
				return buf, &EncodeError{Err: err, FieldIndex: index}
			}
		}
	}
	return buf, nil
}

func (mc *MessageCodec) encodeField(name string, f FieldSchema, raw any, buf *wire.Buffer) error {
	mode := resolveMode(f)
	switch mode {
	case modeSingle:
		if f.IsDefault(raw) {
			return nil
		}
		if err := buf.EncodeTag(f.Index(), f.CodecWireType()); err != nil {
			return &EncodeError{Err: err, FieldName: name, FieldIndex: f.Index()}
		}
		if err := f.Encode(raw, buf); err != nil {
			return &EncodeError{Err: err, FieldName: name, FieldIndex: f.Index()}
		}
		return nil
	case modePacked:
		items := raw.([]any)
		if len(items) == 0 {
			return nil
		}
		if err := buf.EncodeTag(f.Index(), wire.Len); err != nil {
			return &EncodeError{Err: err, FieldName: name, FieldIndex: f.Index()}
		}
		total := 0
		for _, item := range items {
			total += f.Length(item)
		}
		if err := buf.EncodeVarint(uint64(total)); err != nil {
			return &EncodeError{Err: err, FieldName: name, FieldIndex: f.Index()}
		}
		for _, item := range items {
			if err := f.Encode(item, buf); err != nil {
				return &EncodeError{Err: err, FieldName: name, FieldIndex: f.Index()}
			}
		}
		return nil
	default: // modeExpanded
		items := raw.([]any)
		for _, item := range items {
			if err := buf.EncodeTag(f.Index(), f.CodecWireType()); err != nil {
				return &EncodeError{Err: err, FieldName: name, FieldIndex: f.Index()}
			}
			if err := f.Encode(item, buf); err != nil {
				return &EncodeError{Err: err, FieldName: name, FieldIndex: f.Index()}
			}
		}
		return nil
	}
}

// Length predicts the exact byte count Encode would write for v,
// without writing anything. It mirrors Encode's structure, including
// the true varint-header length of each tag (the length-predictor
// header-width Open Question resolution in DESIGN.md).
func (mc *MessageCodec) Length(v *Message) int {
	total := 0
	for _, name := range mc.order {
		f := mc.byName[name]
		raw, ok := v.Get(name)
		if !ok {
			continue
		}
		total += mc.fieldLength(f, raw)
	}
	for _, index := range v.UnknownFieldIndexes() {
		for _, u := range v.UnknownFields(index) {
			total += u.length()
		}
	}
	return total
}

func (mc *MessageCodec) fieldLength(f FieldSchema, raw any) int {
	switch resolveMode(f) {
	case modeSingle:
		if f.IsDefault(raw) {
			return 0
		}
		return wire.TagLength(f.Index()) + f.Length(raw)
	case modePacked:
		items := raw.([]any)
		if len(items) == 0 {
			return 0
		}
		body := 0
		for _, item := range items {
			body += f.Length(item)
		}
		return wire.TagLength(f.Index()) + wire.VarintLength(uint64(body)) + body
	default: // modeExpanded
		items := raw.([]any)
		n := 0
		for _, item := range items {
			n += wire.TagLength(f.Index()) + f.Length(item)
		}
		return n
	}
}

// Decode reads one message from buf until buf is exhausted, resolving
// each tag's field index against the schema. Every occurrence of a
// known field's index is decoded and appended to that field's
// occurrence list — packed (LEN carrying concatenated scalar elements)
// or expanded (one tag per element), independent of the schema's
// preferred mode, since a source may legally use either (spec.md
// §4.4's packed/expanded decode equivalence) — and only once the wire
// is exhausted does a post-pass decide each field's final shape: a
// Repeated/RepeatedExpanded field always becomes a []any (empty if
// never seen); a NotRepeated field becomes its single scalar value, or
// fails with DecodeError if the wire carried more than one occurrence
// (spec.md §7's "field declared single but wire had repeats"), or, if
// never seen and declared Required, is filled with its codec default.
// Fields the schema doesn't declare are preserved verbatim in the
// returned Message's hidden unknown-fields channel.
func (mc *MessageCodec) Decode(buf *wire.Buffer) (*Message, error) {
	m := NewMessage()
	occurrences := make(map[string][]any, len(mc.order))
	for !buf.EOF() {
		index, wt, err := buf.DecodeTag()
		if err != nil {
			return nil, &DecodeError{Err: err, Offset: buf.Offset()}
		}
		name, known := mc.byIndex[index]
		if !known {
			if err := mc.decodeUnknown(m, index, wt, buf); err != nil {
				return nil, err
			}
			continue
		}
		f := mc.byName[name]
		vs, err := mc.decodeOccurrence(name, f, wt, buf)
		if err != nil {
			return nil, err
		}
		occurrences[name] = append(occurrences[name], vs...)
	}
	for _, name := range mc.order {
		f := mc.byName[name]
		vs, seen := occurrences[name]
		switch {
		case f.Repetition() != NotRepeated:
			if !seen {
				vs = []any{}
			}
			m.Set(name, vs)
		case !seen:
			if f.IsRequired() {
				m.Set(name, f.Default())
			}
		case len(vs) > 1:
			return nil, &DecodeError{Err: wire.ErrRepeatedSingleField, FieldName: name, FieldIndex: f.Index()}
		default:
			m.Set(name, vs[0])
		}
	}
	return m, nil
}

// decodeOccurrence decodes the value(s) carried by one tag occurrence
// of field f: a packed run yields every element it contains, anything
// else yields exactly one value.
func (mc *MessageCodec) decodeOccurrence(name string, f FieldSchema, wt wire.Type, buf *wire.Buffer) ([]any, error) {
	if wt == wire.Len && f.CodecWireType() != wire.Len {
		raw, err := buf.DecodeBytes(false)
		if err != nil {
			return nil, &DecodeError{Err: err, FieldName: name, FieldIndex: f.Index()}
		}
		sub := wire.Borrow(raw)
		var vs []any
		for !sub.EOF() {
			v, err := f.Decode(sub)
			if err != nil {
				return nil, &DecodeError{Err: err, FieldName: name, FieldIndex: f.Index()}
			}
			vs = append(vs, v)
		}
		return vs, nil
	}
	if wt != f.CodecWireType() {
		return nil, &DecodeError{Err: wire.ErrUnexpectedWireType, FieldName: name, FieldIndex: f.Index()}
	}
	v, err := f.Decode(buf)
	if err != nil {
		return nil, &DecodeError{Err: err, FieldName: name, FieldIndex: f.Index()}
	}
	return []any{v}, nil
}

func (mc *MessageCodec) decodeUnknown(m *Message, index uint32, wt wire.Type, buf *wire.Buffer) error {
	u := UnknownField{Index: index, WireType: wt}
	var err error
	switch wt {
	case wire.Varint:
		u.Value, err = buf.DecodeVarint()
	case wire.I32:
		var v uint32
		v, err = buf.DecodeFixed32()
		u.Value = uint64(v)
	case wire.I64:
		u.Value, err = buf.DecodeFixed64()
	case wire.Len:
		u.Raw, err = buf.DecodeBytes(true)
	default:
		return &DecodeError{Err: wire.ErrGroupWireType, FieldIndex: index, Offset: buf.Offset()}
	}
	if err != nil {
		return &DecodeError{Err: err, FieldIndex: index, Offset: buf.Offset()}
	}
	m.addUnknown(u)
	return nil
}

// MessageCodecLike is the contract a message-level component offers
// callers that don't need to know whether they're holding a bare
// *MessageCodec or a ComposeMessageTransform wrapper around one —
// the message-level analogue of codec.Codec[T], sized to the three
// operations a schema actually needs from a nested or transformed
// message (spec.md §4.2's "transforms compose" requirement extended to
// message-level transforms, which codec.Transform alone cannot express
// since it wraps only a codec.Codec, and *MessageCodec is not one: its
// Encode also returns the buffer).
type MessageCodecLike[T any] interface {
	Encode(v T, buf *wire.Buffer) (*wire.Buffer, error)
	Decode(buf *wire.Buffer) (T, error)
	Length(v T) int
}

type composedMessageCodec[T, U any] struct {
	base   MessageCodecLike[U]
	encode func(T) U
	decode func(U) T
	def    T
}

// ComposeMessageTransform builds a MessageCodecLike[T] out of a
// MessageCodecLike[U] and a bijective T<->U mapping, the message-level
// counterpart of codec.Transform (which wraps only a codec.Codec and so
// cannot wrap a *MessageCodec or another MessageCodecLike). Used to layer a typed view over a
// MessageCodec, or over another composed transform, without limit.
func ComposeMessageTransform[T, U any](base MessageCodecLike[U], encode func(T) U, decode func(U) T, def T) MessageCodecLike[T] {
	return composedMessageCodec[T, U]{base: base, encode: encode, decode: decode, def: def}
}

func (c composedMessageCodec[T, U]) Encode(v T, buf *wire.Buffer) (*wire.Buffer, error) {
	return c.base.Encode(c.encode(v), buf)
}

func (c composedMessageCodec[T, U]) Decode(buf *wire.Buffer) (T, error) {
	u, err := c.base.Decode(buf)
	if err != nil {
		return c.def, err
	}
	return c.decode(u), nil
}

func (c composedMessageCodec[T, U]) Length(v T) int {
	return c.base.Length(c.encode(v))
}
