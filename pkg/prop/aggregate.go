package prop

import (
	"fmt"

	"github.com/valdris/riftkit/pkg/binio"
)

// Struct is the payload of a Structure or Embedded value: a 32-bit type
// name and an ordered list of named fields. Name 0 is the absent sentinel;
// an absent structure carries no field list and occupies exactly 4 bytes on
// the wire. Whether a node is Structure or Embedded lives on the parent
// value's kind, not in here.
type Struct struct {
	Name   uint32
	Fields []Value
}

func decodeStruct(r *binio.Reader) (*Struct, error) {
	name, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	s := &Struct{Name: name}
	if name == 0 {
		return s, nil
	}
	if _, err := r.ReadU32(); err != nil { // content size, advisory
		return nil, err
	}
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	s.Fields = make([]Value, 0, count)
	for i := 0; i < int(count); i++ {
		field, err := decodeNamed(r)
		if err != nil {
			return nil, err
		}
		s.Fields = append(s.Fields, field)
	}
	return s, nil
}

func (s *Struct) encode(w *binio.Writer) error {
	if err := w.WriteU32(s.Name); err != nil {
		return err
	}
	if s.Name == 0 {
		return nil
	}
	if err := w.WriteU32(uint32(s.contentSize())); err != nil {
		return err
	}
	if err := w.WriteU16(uint16(len(s.Fields))); err != nil {
		return err
	}
	for _, field := range s.Fields {
		if err := field.encode(w, true); err != nil {
			return err
		}
	}
	return nil
}

func (s *Struct) contentSize() int {
	size := 2
	for _, field := range s.Fields {
		size += field.EncodedSize(true)
	}
	return size
}

func (s *Struct) totalSize() int {
	if s.Name == 0 {
		return 4
	}
	return 4 + 4 + s.contentSize()
}

// Container is the payload of a Container or Container2 value: an ordered
// list of bare elements, all of one declared kind.
type Container struct {
	Kind  Kind
	Items []Value
}

func decodeContainer(r *binio.Reader) (*Container, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	kind, err := UnpackKind(tag)
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
	c := &Container{Kind: kind, Items: make([]Value, 0, capHint(count))}
	for i := 0; i < int(count); i++ {
		item, err := decodeBare(kind, r)
		if err != nil {
			return nil, err
		}
		c.Items = append(c.Items, item)
	}
	return c, nil
}

func (c *Container) encode(w *binio.Writer) error {
	if err := w.WriteU8(c.Kind.Pack()); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(c.contentSize())); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(len(c.Items))); err != nil {
		return err
	}
	for _, item := range c.Items {
		if item.Kind != c.Kind {
			return fmt.Errorf("prop: %s element in %s container", item.Kind, c.Kind)
		}
		if err := item.encode(w, false); err != nil {
			return err
		}
	}
	return nil
}

func (c *Container) contentSize() int {
	size := 4
	for _, item := range c.Items {
		size += item.EncodedSize(false)
	}
	return size
}

func (c *Container) totalSize() int {
	return 1 + 4 + c.contentSize()
}
