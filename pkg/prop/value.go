package prop

import (
	"fmt"

	"github.com/valdris/riftkit/pkg/binio"
	"github.com/valdris/riftkit/pkg/geom"
)

// Value is one node of a property tree: an optional 32-bit name hash, a
// kind, and a kind-specific payload. The payload type always agrees with
// the kind (see payload table below); NewValue enforces this and decoding
// can never produce a mismatch.
//
// Payload Go types by kind:
//
//	None                    nil
//	Boolean, FlagsBoolean   bool
//	SByte                   int8
//	Byte                    uint8
//	Int16 / UInt16          int16 / uint16
//	Int32 / UInt32          int32 / uint32
//	Int64 / UInt64          int64 / uint64
//	Float32                 float32
//	Vector2/3/4             geom.Vector2 / geom.Vector3 / geom.Vector4
//	Matrix44                geom.Matrix44
//	Color                   geom.ColorRGBA
//	String                  string
//	Hash, Link              uint32
//	Container, Container2   *Container
//	Structure, Embedded     *Struct
//	Optional                *Optional
//	Map                     *Map
//
// The name is present on the wire only when the node is a named field of an
// entry or a structure; container elements, map keys/values and optional
// payloads are encoded bare.
type Value struct {
	Name uint32
	Kind Kind
	Data any
}

// Optional is the payload of an Optional value: a declared inner kind and a
// possibly absent bare value of that kind.
type Optional struct {
	Kind  Kind
	Value *Value // nil means absent
}

// NewValue builds a value and verifies that the payload type matches the
// kind.
func NewValue(name uint32, kind Kind, data any) (Value, error) {
	v := Value{Name: name, Kind: kind, Data: data}
	if err := v.checkPayload(); err != nil {
		return Value{}, err
	}
	return v, nil
}

// MustValue is NewValue for statically known payloads; it panics on a
// kind/payload mismatch.
func MustValue(name uint32, kind Kind, data any) Value {
	v, err := NewValue(name, kind, data)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Value) checkPayload() error {
	ok := false
	switch v.Kind {
	case KindNone:
		ok = v.Data == nil
	case KindBoolean, KindFlagsBoolean:
		_, ok = v.Data.(bool)
	case KindSByte:
		_, ok = v.Data.(int8)
	case KindByte:
		_, ok = v.Data.(uint8)
	case KindInt16:
		_, ok = v.Data.(int16)
	case KindUInt16:
		_, ok = v.Data.(uint16)
	case KindInt32:
		_, ok = v.Data.(int32)
	case KindUInt32, KindHash, KindLink:
		_, ok = v.Data.(uint32)
	case KindInt64:
		_, ok = v.Data.(int64)
	case KindUInt64:
		_, ok = v.Data.(uint64)
	case KindFloat32:
		_, ok = v.Data.(float32)
	case KindVector2:
		_, ok = v.Data.(geom.Vector2)
	case KindVector3:
		_, ok = v.Data.(geom.Vector3)
	case KindVector4:
		_, ok = v.Data.(geom.Vector4)
	case KindMatrix44:
		_, ok = v.Data.(geom.Matrix44)
	case KindColor:
		_, ok = v.Data.(geom.ColorRGBA)
	case KindString:
		_, ok = v.Data.(string)
	case KindContainer, KindContainer2:
		_, ok = v.Data.(*Container)
	case KindStructure, KindEmbedded:
		_, ok = v.Data.(*Struct)
	case KindOptional:
		_, ok = v.Data.(*Optional)
	case KindMap:
		_, ok = v.Data.(*Map)
	default:
		return fmt.Errorf("%w: kind %d", ErrInvalidTag, uint8(v.Kind))
	}
	if !ok {
		return fmt.Errorf("prop: %s value holds %T", v.Kind, v.Data)
	}
	return nil
}

// decodeNamed reads a 32-bit name, a tag byte and the payload.
func decodeNamed(r *binio.Reader) (Value, error) {
	name, err := r.ReadU32()
	if err != nil {
		return Value{}, err
	}
	tag, err := r.ReadU8()
	if err != nil {
		return Value{}, err
	}
	kind, err := UnpackKind(tag)
	if err != nil {
		return Value{}, err
	}
	v, err := decodeBare(kind, r)
	if err != nil {
		return Value{}, err
	}
	v.Name = name
	return v, nil
}

// decodeBare reads a payload of a known kind with no name or tag prefix.
func decodeBare(kind Kind, r *binio.Reader) (Value, error) {
	v := Value{Kind: kind}
	var err error
	switch kind {
	case KindNone:
	case KindBoolean, KindFlagsBoolean:
		var b uint8
		if b, err = r.ReadU8(); err == nil {
			v.Data = b != 0
		}
	case KindSByte:
		v.Data, err = r.ReadI8()
	case KindByte:
		v.Data, err = r.ReadU8()
	case KindInt16:
		v.Data, err = r.ReadI16()
	case KindUInt16:
		v.Data, err = r.ReadU16()
	case KindInt32:
		v.Data, err = r.ReadI32()
	case KindUInt32, KindHash, KindLink:
		v.Data, err = r.ReadU32()
	case KindInt64:
		v.Data, err = r.ReadI64()
	case KindUInt64:
		v.Data, err = r.ReadU64()
	case KindFloat32:
		v.Data, err = r.ReadF32()
	case KindVector2:
		v.Data, err = geom.ReadVector2(r)
	case KindVector3:
		v.Data, err = geom.ReadVector3(r)
	case KindVector4:
		v.Data, err = geom.ReadVector4(r)
	case KindMatrix44:
		v.Data, err = geom.ReadMatrix44(r)
	case KindColor:
		v.Data, err = geom.ReadColorU8(r)
	case KindString:
		var length uint16
		if length, err = r.ReadU16(); err == nil {
			v.Data, err = r.ReadString(int(length))
		}
	case KindContainer, KindContainer2:
		v.Data, err = decodeContainer(r)
	case KindStructure, KindEmbedded:
		v.Data, err = decodeStruct(r)
	case KindOptional:
		v.Data, err = decodeOptional(r)
	case KindMap:
		v.Data, err = decodeMap(r)
	default:
		return Value{}, fmt.Errorf("%w: kind %d", ErrInvalidTag, uint8(kind))
	}
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

func decodeOptional(r *binio.Reader) (*Optional, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	kind, err := UnpackKind(tag)
	if err != nil {
		return nil, err
	}
	present, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	opt := &Optional{Kind: kind}
	if present != 0 {
		inner, err := decodeBare(kind, r)
		if err != nil {
			return nil, err
		}
		opt.Value = &inner
	}
	return opt, nil
}

// encode writes the value. With withHeader set it is prefixed by the 32-bit
// name and the packed tag byte.
func (v Value) encode(w *binio.Writer, withHeader bool) error {
	if err := v.checkPayload(); err != nil {
		return err
	}
	if withHeader {
		if err := w.WriteU32(v.Name); err != nil {
			return err
		}
		if err := w.WriteU8(v.Kind.Pack()); err != nil {
			return err
		}
	}
	switch v.Kind {
	case KindNone:
		return nil
	case KindBoolean, KindFlagsBoolean:
		b := uint8(0)
		if v.Data.(bool) {
			b = 1
		}
		return w.WriteU8(b)
	case KindSByte:
		return w.WriteI8(v.Data.(int8))
	case KindByte:
		return w.WriteU8(v.Data.(uint8))
	case KindInt16:
		return w.WriteI16(v.Data.(int16))
	case KindUInt16:
		return w.WriteU16(v.Data.(uint16))
	case KindInt32:
		return w.WriteI32(v.Data.(int32))
	case KindUInt32, KindHash, KindLink:
		return w.WriteU32(v.Data.(uint32))
	case KindInt64:
		return w.WriteI64(v.Data.(int64))
	case KindUInt64:
		return w.WriteU64(v.Data.(uint64))
	case KindFloat32:
		return w.WriteF32(v.Data.(float32))
	case KindVector2:
		return v.Data.(geom.Vector2).Write(w)
	case KindVector3:
		return v.Data.(geom.Vector3).Write(w)
	case KindVector4:
		return v.Data.(geom.Vector4).Write(w)
	case KindMatrix44:
		return v.Data.(geom.Matrix44).Write(w)
	case KindColor:
		return v.Data.(geom.ColorRGBA).WriteU8(w)
	case KindString:
		s := v.Data.(string)
		if err := w.WriteU16(uint16(len(s))); err != nil {
			return err
		}
		return w.WriteString(s)
	case KindContainer, KindContainer2:
		return v.Data.(*Container).encode(w)
	case KindStructure, KindEmbedded:
		return v.Data.(*Struct).encode(w)
	case KindOptional:
		return v.Data.(*Optional).encode(w)
	case KindMap:
		return v.Data.(*Map).encode(w)
	}
	return fmt.Errorf("%w: kind %d", ErrInvalidTag, uint8(v.Kind))
}

func (o *Optional) encode(w *binio.Writer) error {
	if err := w.WriteU8(o.Kind.Pack()); err != nil {
		return err
	}
	present := uint8(0)
	if o.Value != nil {
		present = 1
	}
	if err := w.WriteU8(present); err != nil {
		return err
	}
	if o.Value != nil {
		return o.Value.encode(w, false)
	}
	return nil
}

// EncodedSize returns the exact number of bytes encode will emit for this
// value. With withHeader set it includes the 4-byte name and the tag byte.
// Every aggregate computes its embedded content-length prefix from this
// before any payload byte is written.
func (v Value) EncodedSize(withHeader bool) int {
	size := 0
	if withHeader {
		size = 4 + 1
	}
	switch v.Kind {
	case KindNone:
	case KindBoolean, KindFlagsBoolean, KindSByte, KindByte:
		size += 1
	case KindInt16, KindUInt16:
		size += 2
	case KindInt32, KindUInt32, KindFloat32, KindHash, KindLink, KindColor:
		size += 4
	case KindInt64, KindUInt64:
		size += 8
	case KindVector2:
		size += 8
	case KindVector3:
		size += 12
	case KindVector4:
		size += 16
	case KindMatrix44:
		size += 64
	case KindString:
		size += 2 + len(v.Data.(string))
	case KindContainer, KindContainer2:
		size += v.Data.(*Container).totalSize()
	case KindStructure, KindEmbedded:
		size += v.Data.(*Struct).totalSize()
	case KindOptional:
		o := v.Data.(*Optional)
		size += 2
		if o.Value != nil {
			size += o.Value.EncodedSize(false)
		}
	case KindMap:
		size += v.Data.(*Map).totalSize()
	}
	return size
}
