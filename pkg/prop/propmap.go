package prop

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strings"

	"github.com/valdris/riftkit/pkg/binio"
)

// Map is the payload of a Map value: an association from bare keys to bare
// values with declared key and value kinds. Only the hashable kinds (see
// Kind.Hashable) may be used as keys; String keys hash and compare
// case-insensitively, which is a property of the format, so "Foo" and "foo"
// occupy the same slot.
type Map struct {
	KeyKind   Kind
	ValueKind Kind

	// Keyed by the canonical key representation so association equality
	// falls out of ordinary map comparison.
	entries map[string]MapEntry
}

// MapEntry is one key/value association.
type MapEntry struct {
	Key   Value
	Value Value
}

// NewMap creates an empty map with the declared key and value kinds.
func NewMap(keyKind, valueKind Kind) (*Map, error) {
	if !keyKind.Hashable() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMapKey, keyKind)
	}
	return &Map{
		KeyKind:   keyKind,
		ValueKind: valueKind,
		entries:   make(map[string]MapEntry),
	}, nil
}

// keyRepr builds the canonical identity of a key: the kind discriminant
// followed by the raw payload, with strings lowercased.
func keyRepr(key Value) (string, error) {
	if !key.Kind.Hashable() {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMapKey, key.Kind)
	}
	var b []byte
	b = append(b, byte(key.Kind))
	switch data := key.Data.(type) {
	case bool:
		if data {
			b = append(b, 1)
		} else {
			b = append(b, 0)
		}
	case int8:
		b = append(b, byte(data))
	case uint8:
		b = append(b, data)
	case int16:
		b = binary.LittleEndian.AppendUint16(b, uint16(data))
	case uint16:
		b = binary.LittleEndian.AppendUint16(b, data)
	case int32:
		b = binary.LittleEndian.AppendUint32(b, uint32(data))
	case uint32:
		b = binary.LittleEndian.AppendUint32(b, data)
	case int64:
		b = binary.LittleEndian.AppendUint64(b, uint64(data))
	case uint64:
		b = binary.LittleEndian.AppendUint64(b, data)
	case string:
		b = append(b, strings.ToLower(data)...)
	default:
		return "", fmt.Errorf("prop: %s key holds %T", key.Kind, key.Data)
	}
	return string(b), nil
}

// Put inserts or replaces an association. Later insertions win when keys
// collide under case-insensitive string identity.
func (m *Map) Put(key, value Value) error {
	if key.Kind != m.KeyKind {
		return fmt.Errorf("prop: %s key in map declared %s", key.Kind, m.KeyKind)
	}
	if value.Kind != m.ValueKind {
		return fmt.Errorf("prop: %s value in map declared %s", value.Kind, m.ValueKind)
	}
	repr, err := keyRepr(key)
	if err != nil {
		return err
	}
	m.entries[repr] = MapEntry{Key: key, Value: value}
	return nil
}

// Get looks up the value for a key under the map's key identity.
func (m *Map) Get(key Value) (Value, bool) {
	repr, err := keyRepr(key)
	if err != nil {
		return Value{}, false
	}
	entry, ok := m.entries[repr]
	return entry.Value, ok
}

// Len returns the number of associations.
func (m *Map) Len() int {
	return len(m.entries)
}

// Entries returns the associations ordered by canonical key, which is the
// order encode emits them in. Readers treat map bodies as unordered.
func (m *Map) Entries() []MapEntry {
	reprs := make([]string, 0, len(m.entries))
	for repr := range m.entries {
		reprs = append(reprs, repr)
	}
	sort.Strings(reprs)
	out := make([]MapEntry, 0, len(reprs))
	for _, repr := range reprs {
		out = append(out, m.entries[repr])
	}
	return out
}

func decodeMap(r *binio.Reader) (*Map, error) {
	keyTag, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	keyKind, err := UnpackKind(keyTag)
	if err != nil {
		return nil, err
	}
	valueTag, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	valueKind, err := UnpackKind(valueTag)
	if err != nil {
		return nil, err
	}
	m, err := NewMap(keyKind, valueKind)
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadU32(); err != nil { // content size, advisory
		return nil, err
	}
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(count); i++ {
		key, err := decodeBare(keyKind, r)
		if err != nil {
			return nil, err
		}
		value, err := decodeBare(valueKind, r)
		if err != nil {
			return nil, err
		}
		if err := m.Put(key, value); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Map) encode(w *binio.Writer) error {
	if !m.KeyKind.Hashable() {
		return fmt.Errorf("%w: %s", ErrUnsupportedMapKey, m.KeyKind)
	}
	if err := w.WriteU8(m.KeyKind.Pack()); err != nil {
		return err
	}
	if err := w.WriteU8(m.ValueKind.Pack()); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(m.contentSize())); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(len(m.entries))); err != nil {
		return err
	}
	for _, entry := range m.Entries() {
		if err := entry.Key.encode(w, false); err != nil {
			return err
		}
		if err := entry.Value.encode(w, false); err != nil {
			return err
		}
	}
	return nil
}

func (m *Map) contentSize() int {
	size := 4
	for _, entry := range m.entries {
		size += entry.Key.EncodedSize(false) + entry.Value.EncodedSize(false)
	}
	return size
}

func (m *Map) totalSize() int {
	return 1 + 1 + 4 + m.contentSize()
}
