package prop

import "fmt"

// Kind identifies the payload variant of a Value. The set is closed: the
// format defines exactly 26 kinds and decoding rejects anything else.
type Kind uint8

const (
	KindNone Kind = iota
	KindBoolean
	KindSByte
	KindByte
	KindInt16
	KindUInt16
	KindInt32
	KindUInt32
	KindInt64
	KindUInt64
	KindFloat32
	KindVector2
	KindVector3
	KindVector4
	KindMatrix44
	KindColor
	KindString
	KindHash
	KindContainer
	KindContainer2
	KindStructure
	KindEmbedded
	KindLink
	KindOptional
	KindMap
	KindFlagsBoolean

	kindCount = KindFlagsBoolean + 1
)

// extendedBase is the first kind added by the second format revision. The
// original 18 kinds keep their raw byte values; the added eight are packed
// into the 0x80 namespace so old tags never changed meaning.
const extendedBase Kind = KindContainer

var kindNames = [kindCount]string{
	"None", "Boolean", "SByte", "Byte", "Int16", "UInt16", "Int32", "UInt32",
	"Int64", "UInt64", "Float32", "Vector2", "Vector3", "Vector4", "Matrix44",
	"Color", "String", "Hash", "Container", "Container2", "Structure",
	"Embedded", "Link", "Optional", "Map", "FlagsBoolean",
}

func (k Kind) String() string {
	if k >= kindCount {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// Pack translates a kind to its wire tag byte.
func (k Kind) Pack() byte {
	if k >= extendedBase {
		return byte(k-extendedBase) + 0x80
	}
	return byte(k)
}

// UnpackKind translates a wire tag byte back to a kind.
func UnpackKind(tag byte) (Kind, error) {
	k := Kind(tag)
	if tag&0x80 != 0 {
		k = Kind(tag&0x7f) + extendedBase
	}
	if k >= kindCount {
		return 0, fmt.Errorf("%w: byte 0x%02x", ErrInvalidTag, tag)
	}
	return k, nil
}

// Hashable reports whether values of this kind may be used as map keys.
// Floats, aggregates and the remaining kinds have no stable key identity
// in this format.
func (k Kind) Hashable() bool {
	switch k {
	case KindBoolean, KindSByte, KindByte, KindInt16, KindUInt16,
		KindInt32, KindUInt32, KindInt64, KindUInt64, KindString, KindHash:
		return true
	}
	return false
}
