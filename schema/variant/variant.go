// Package variant implements the discriminated-union wire shape: an
// outer message of {typename, typeid, value} whose value is the
// encoded bytes of whichever registered type the discriminator names.
// Grounded on dynamic.MessageRegistry's typename-keyed resolution
// (MarshalAny/UnmarshalAny/FindMessageTypeByUrl in
// dynamic/message_registry.go), adapted from URL-keyed descriptor
// lookup to a typename/typeid-keyed codec.Codec lookup.
package variant

import (
	"fmt"
	"sync"

	"github.com/kiruse/hiproto/codec"
	"github.com/kiruse/hiproto/schema"
	"github.com/kiruse/hiproto/wire"
)

const (
	typenameField = "typename"
	typeidField   = "typeid"
	valueField    = "value"
)

var outer = schema.NewMessageCodec(
	schema.F(typenameField, schema.NewField(1, codec.String())),
	schema.F(typeidField, schema.NewField(2, codec.Int32())),
	schema.F(valueField, schema.NewField(3, codec.Bytes())),
)

// entry is one registered variant arm: a typename and an optional
// numeric typeid (zero means "not assigned", matching proto3's open
// enum convention of reserving 0 for "unset").
type entry struct {
	typeid int32
	codec  codec.Codec[any]
}

// Registry resolves a (typename, typeid) discriminator pair to the
// codec.Codec that knows how to encode/decode that arm's payload, and
// back. Safe for concurrent use after construction, matching
// MessageRegistry's sync.RWMutex-guarded map.
type Registry struct {
	mu       sync.RWMutex
	byName   map[string]entry
	nameByID map[int32]string
}

// NewRegistry returns an empty registry. Register variant arms with
// Register before calling Codec.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]entry), nameByID: make(map[int32]string)}
}

// Register binds typename (and, if nonzero, typeid) to c, a codec over
// the arm's payload type erased to any — callers wrap their concrete
// codec.Codec[T] with codec.Transform into a codec.Codec[any] at
// registration time, or use RegisterTyped.
func (r *Registry) Register(typename string, typeid int32, c codec.Codec[any]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[typename] = entry{typeid: typeid, codec: c}
	if typeid != 0 {
		r.nameByID[typeid] = typename
	}
}

// RegisterTyped is the typed convenience form of Register: it boxes
// c's typed Encode/Decode behind an any-valued codec.Codec so the
// registry can hold heterogeneous arms, the same type-erasure idiom
// FieldSchema uses over Field[T].
func RegisterTyped[T any](r *Registry, typename string, typeid int32, c codec.Codec[T]) {
	r.Register(typename, typeid, codec.Transform(c, codec.TransformParams[any, T]{
		Encode: func(v any) T { return v.(T) },
		Decode: func(v T) any { return v },
		Default: c.Default(),
	}))
}

func (r *Registry) lookup(typename string) (entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byName[typename]
	return e, ok
}

func (r *Registry) lookupByID(typeid int32) (string, entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.nameByID[typeid]
	if !ok {
		return "", entry{}, false
	}
	e := r.byName[name]
	return name, e, true
}

// Value is the decoded discriminated-union value: the resolved
// typename/typeid pair plus the unboxed payload.
type Value struct {
	Typename string
	Typeid   int32
	Payload  any
}

type variantCodec struct {
	reg *Registry
}

// Codec returns a codec.Codec over Value that encodes the outer
// {typename, typeid, value} message shape, nesting the payload's own
// encoded bytes in the value field. Encode fails if v.Typename was never
// registered (spec.md §4.5); Decode fails if neither the typename nor a
// nonzero typeid on the wire resolves to a registered arm.
func Codec(reg *Registry) codec.Codec[Value] {
	return variantCodec{reg: reg}
}

func (variantCodec) WireType() wire.Type { return wire.Len }

func (variantCodec) Default() Value { return Value{} }

func (variantCodec) IsDefault(v Value) bool { return v.Typename == "" }

func (c variantCodec) Encode(v Value, buf *wire.Buffer) error {
	e, ok := c.reg.lookup(v.Typename)
	if !ok {
		return fmt.Errorf("variant: typename %q is not registered", v.Typename)
	}
	inner := wire.New()
	if err := e.codec.Encode(v.Payload, inner); err != nil {
		return err
	}
	outerMsg := schema.NewMessage()
	outerMsg.Set(typenameField, v.Typename)
	outerMsg.Set(typeidField, e.typeid)
	outerMsg.Set(valueField, inner.WrittenBytes())
	_, err := outer.Encode(outerMsg, buf)
	return err
}

func (c variantCodec) Decode(buf *wire.Buffer) (Value, error) {
	outerMsg, err := outer.Decode(buf)
	if err != nil {
		return Value{}, err
	}
	typename, _ := outerMsg.Get(typenameField)
	name, _ := typename.(string)
	raw, _ := outerMsg.Get(valueField)
	payloadBytes, _ := raw.([]byte)

	var e entry
	ok := false
	if name != "" {
		e, ok = c.reg.lookup(name)
	}
	if !ok {
		typeid, _ := outerMsg.Get(typeidField)
		id, _ := typeid.(int32)
		if id != 0 {
			name, e, ok = c.reg.lookupByID(id)
		}
	}
	if !ok {
		return Value{}, fmt.Errorf("variant: no registered type for %q", name)
	}

	payload, err := e.codec.Decode(wire.Borrow(payloadBytes))
	if err != nil {
		return Value{}, err
	}
	return Value{Typename: name, Typeid: e.typeid, Payload: payload}, nil
}

func (c variantCodec) Length(v Value) int {
	e, ok := c.reg.lookup(v.Typename)
	if !ok {
		return 0
	}
	inner := wire.New()
	if err := e.codec.Encode(v.Payload, inner); err != nil {
		return 0
	}
	outerMsg := schema.NewMessage()
	outerMsg.Set(typenameField, v.Typename)
	outerMsg.Set(typeidField, e.typeid)
	outerMsg.Set(valueField, inner.WrittenBytes())
	return outer.Length(outerMsg)
}
