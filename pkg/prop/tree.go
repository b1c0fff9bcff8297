package prop

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/valdris/riftkit/pkg/binio"
)

const treeMagic = "PROP"

// capHint bounds a wire-declared count before it is used as an allocation
// size, so a corrupt count cannot allocate gigabytes before the decode fails
// on the missing bytes.
func capHint(count uint32) int {
	const max = 4096
	if count > max {
		return max
	}
	return int(count)
}

// Entry is one named, classed record of a tree: a 32-bit class identifier,
// a 32-bit path identifier and an ordered list of named values. Class and
// path are opaque name hashes; this codec never interprets them.
type Entry struct {
	Class  uint32
	Path   uint32
	Values []Value
}

func decodeEntry(class uint32, r *binio.Reader) (Entry, error) {
	// The declared size is advisory; the original reader never verifies
	// it against the bytes actually consumed, and neither do we.
	if _, err := r.ReadU32(); err != nil {
		return Entry{}, err
	}
	path, err := r.ReadU32()
	if err != nil {
		return Entry{}, err
	}
	count, err := r.ReadU16()
	if err != nil {
		return Entry{}, err
	}
	entry := Entry{Class: class, Path: path, Values: make([]Value, 0, count)}
	for i := 0; i < int(count); i++ {
		value, err := decodeNamed(r)
		if err != nil {
			return Entry{}, err
		}
		entry.Values = append(entry.Values, value)
	}
	return entry, nil
}

func (e Entry) encode(w *binio.Writer) error {
	if err := w.WriteU32(uint32(e.encodedSize())); err != nil {
		return err
	}
	if err := w.WriteU32(e.Path); err != nil {
		return err
	}
	if err := w.WriteU16(uint16(len(e.Values))); err != nil {
		return err
	}
	for _, value := range e.Values {
		if err := value.encode(w, true); err != nil {
			return err
		}
	}
	return nil
}

// encodedSize is the declared entry size: path + value count + values.
// The class id lives in the tree-level class array, not in the body.
func (e Entry) encodedSize() int {
	size := 6
	for _, value := range e.Values {
		size += value.EncodedSize(true)
	}
	return size
}

// Tree is a whole property document: its dependency list and its entries.
// A tree is built wholesale by Decode or assembled by the caller and
// consumed by Encode; there is no incremental mutation API.
type Tree struct {
	Dependencies []string
	Entries      []Entry
}

// Decode reads a complete tree from a seekable stream. Any failure aborts
// the decode; there is no partial result.
func Decode(src io.ReadSeeker) (*Tree, error) {
	r := binio.NewReader(src)

	magic, err := r.ReadString(4)
	if err != nil {
		return nil, err
	}
	if magic != treeMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrFormat, magic)
	}
	version, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if version != 1 && version != 2 {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, version)
	}

	tree := &Tree{}
	if version >= 2 {
		count, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		for i := 0; i < int(count); i++ {
			length, err := r.ReadU16()
			if err != nil {
				return nil, err
			}
			dep, err := r.ReadString(int(length))
			if err != nil {
				return nil, err
			}
			tree.Dependencies = append(tree.Dependencies, dep)
		}
	}

	entryCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	// Class ids for all entries are laid out contiguously before any
	// entry body; each body is matched to its class by position.
	classes := make([]uint32, 0, capHint(entryCount))
	for i := 0; i < int(entryCount); i++ {
		class, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}
	tree.Entries = make([]Entry, 0, len(classes))
	for _, class := range classes {
		entry, err := decodeEntry(class, r)
		if err != nil {
			return nil, err
		}
		tree.Entries = append(tree.Entries, entry)
	}
	return tree, nil
}

// DecodeBytes decodes a tree from an in-memory buffer.
func DecodeBytes(data []byte) (*Tree, error) {
	return Decode(bytes.NewReader(data))
}

// ReadFile decodes a tree from a file.
func ReadFile(path string) (*Tree, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Decode(file)
}

// Encode writes the tree. The output is always format version 2.
func Encode(tree *Tree, dst io.Writer) error {
	w := binio.NewWriter(dst)

	if err := w.WriteString(treeMagic); err != nil {
		return err
	}
	if err := w.WriteU32(2); err != nil {
		return err
	}

	if err := w.WriteU32(uint32(len(tree.Dependencies))); err != nil {
		return err
	}
	for _, dep := range tree.Dependencies {
		if err := w.WriteU16(uint16(len(dep))); err != nil {
			return err
		}
		if err := w.WriteString(dep); err != nil {
			return err
		}
	}

	if err := w.WriteU32(uint32(len(tree.Entries))); err != nil {
		return err
	}
	for _, entry := range tree.Entries {
		if err := w.WriteU32(entry.Class); err != nil {
			return err
		}
	}
	for _, entry := range tree.Entries {
		if err := entry.encode(w); err != nil {
			return err
		}
	}
	return w.Flush()
}

// EncodeBytes encodes the tree into a fresh buffer.
func EncodeBytes(tree *Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(tree, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes the tree to a file.
func WriteFile(tree *Tree, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(tree, file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
