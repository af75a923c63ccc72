package schema

import "github.com/kiruse/hiproto/wire"

// UnknownField is one wire-level field a MessageCodec's schema did not
// declare, preserved verbatim so re-encoding the message reproduces the
// original bytes. Grounded on dynamic.Message's UnknownField{Encoding,
// Contents, Value} shape, split here into a typed union of the three wire
// shapes a tag can carry (spec.md §4.4 decode step 2).
type UnknownField struct {
	Index    uint32
	WireType wire.Type
	// Value holds the decoded varint/fixed32/fixed64 payload when
	// WireType is Varint, I32, or I64.
	Value uint64
	// Raw holds the length-delimited payload (without its own length
	// prefix) when WireType is Len.
	Raw []byte
}

func (u UnknownField) write(buf *wire.Buffer) error {
	if err := buf.EncodeTag(u.Index, u.WireType); err != nil {
		return err
	}
	switch u.WireType {
	case wire.Varint:
		return buf.EncodeVarint(u.Value)
	case wire.I32:
		return buf.EncodeFixed32(uint32(u.Value))
	case wire.I64:
		return buf.EncodeFixed64(u.Value)
	case wire.Len:
		return buf.EncodeBytes(u.Raw)
	default:
		return wire.ErrGroupWireType
	}
}

func (u UnknownField) length() int {
	headerLen := wire.TagLength(u.Index)
	switch u.WireType {
	case wire.Varint:
		return headerLen + wire.VarintLength(u.Value)
	case wire.I32:
		return headerLen + 4
	case wire.I64:
		return headerLen + 8
	case wire.Len:
		return headerLen + wire.VarintLength(uint64(len(u.Raw))) + len(u.Raw)
	default:
		return headerLen
	}
}

// Message is a decoded value: a name-keyed mapping from field name to
// field value, plus a hidden unknown-fields side channel keyed by wire
// field index, preserving first-seen order (spec.md §3 "Decoded message
// value", §9 "non-canonical" re-encode order decision — see DESIGN.md).
// Grounded on dynamic.Message's values map[int32]interface{} /
// unknownFields map[int32][]UnknownField pair, keyed here by field name
// per the schema's name-indexed FieldSchema map.
type Message struct {
	values        map[string]any
	unknownOrder  []uint32
	unknownFields map[uint32][]UnknownField
}

// NewMessage returns an empty decoded value with no fields set.
func NewMessage() *Message {
	return &Message{values: make(map[string]any)}
}

// Get returns the value stored for name and whether it was present.
func (m *Message) Get(name string) (any, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Set stores v for name. v should be the codec's T (or []any of T for a
// repeated field); callers normally go through the typed accessors a
// generated factory would provide rather than calling Set directly (the
// factory layer itself is out of scope per spec.md §1).
func (m *Message) Set(name string, v any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	m.values[name] = v
}

// UnknownFieldIndexes returns the wire field indexes present in the
// hidden unknowns side channel, in first-seen order.
func (m *Message) UnknownFieldIndexes() []uint32 {
	return append([]uint32(nil), m.unknownOrder...)
}

// UnknownFields returns the preserved entries for a given wire field
// index, in the order they were decoded.
func (m *Message) UnknownFields(index uint32) []UnknownField {
	return m.unknownFields[index]
}

func (m *Message) addUnknown(u UnknownField) {
	if m.unknownFields == nil {
		m.unknownFields = make(map[uint32][]UnknownField)
	}
	if _, seen := m.unknownFields[u.Index]; !seen {
		m.unknownOrder = append(m.unknownOrder, u.Index)
	}
	m.unknownFields[u.Index] = append(m.unknownFields[u.Index], u)
}
