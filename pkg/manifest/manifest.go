// Package manifest reads RMAN release manifests: a small header, a
// zstd-compressed flatbuffer-style body walked through relative offset
// tables, and a trailing signature. Only reading is supported; manifests
// are produced by the distribution pipeline, not by tooling.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/valdris/riftkit/pkg/binio"
)

// ErrFormat is returned for a bad magic or an unsupported manifest version.
var ErrFormat = errors.New("manifest: not a release manifest")

// ReleaseManifest is a fully parsed manifest body.
type ReleaseManifest struct {
	ReleaseID   uint64
	Bundles     []Bundle
	Languages   []Language
	Files       []File
	Directories []Directory
}

// Bundle is a downloadable bundle and its chunk table.
type Bundle struct {
	ID     uint64
	Chunks []BundleChunk
}

// BundleChunk is one zstd frame inside a bundle.
type BundleChunk struct {
	CompressedSize   uint32
	UncompressedSize uint32
	ID               uint64
}

// Language maps a language id to its name.
type Language struct {
	ID   uint32
	Name string
}

// File is one distributable file assembled from chunks.
type File struct {
	Name        string
	Link        string
	ID          uint64
	DirectoryID uint64
	Size        uint32
	LanguageIDs []uint32
	ChunkIDs    []uint64
}

// Directory is a node of the manifest directory tree.
type Directory struct {
	Name     string
	ID       uint64
	ParentID uint64
}

// ReadFile parses a manifest from disk.
func ReadFile(path string) (*ReleaseManifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file)
}

// Read parses a manifest from a seekable stream.
func Read(src io.ReadSeeker) (*ReleaseManifest, error) {
	r := binio.NewReader(src)

	magic, err := r.ReadString(4)
	if err != nil {
		return nil, err
	}
	if magic != "RMAN" {
		return nil, fmt.Errorf("%w: bad magic %q", ErrFormat, magic)
	}
	major, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	minor, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if major != 2 || minor != 0 {
		return nil, fmt.Errorf("%w: unsupported version %d.%d", ErrFormat, major, minor)
	}

	if _, err := r.ReadU8(); err != nil { // unknown
		return nil, err
	}
	if _, err := r.ReadU8(); err != nil { // signature type
		return nil, err
	}
	contentOffset, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	compressedSize, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	releaseID, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadU32(); err != nil { // uncompressed size
		return nil, err
	}

	if _, err := r.Seek(int64(contentOffset), io.SeekStart); err != nil {
		return nil, err
	}
	compressed, err := r.ReadBytes(int(compressedSize))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	body, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("manifest: decompressing body: %w", err)
	}

	m := &ReleaseManifest{ReleaseID: releaseID}
	if err := m.readBody(binio.NewBytesReader(body)); err != nil {
		return nil, err
	}
	return m, nil
}

// readRelativeOffset reads a u32 interpreted relative to its own position.
func readRelativeOffset(r *binio.Reader) (int64, error) {
	base := r.Position()
	v, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return base + int64(v), nil
}

func (m *ReleaseManifest) readBody(r *binio.Reader) error {
	headerOffset, err := r.ReadU32()
	if err != nil {
		return err
	}
	if _, err := r.Seek(int64(headerOffset), io.SeekStart); err != nil {
		return err
	}
	if _, err := r.ReadU32(); err != nil { // offset table offset
		return err
	}

	bundlesOffset, err := readRelativeOffset(r)
	if err != nil {
		return err
	}
	languagesOffset, err := readRelativeOffset(r)
	if err != nil {
		return err
	}
	filesOffset, err := readRelativeOffset(r)
	if err != nil {
		return err
	}
	directoriesOffset, err := readRelativeOffset(r)
	if err != nil {
		return err
	}

	if m.Bundles, err = readSection(r, bundlesOffset, readBundle); err != nil {
		return err
	}
	if m.Languages, err = readSection(r, languagesOffset, readLanguage); err != nil {
		return err
	}
	if m.Files, err = readSection(r, filesOffset, readFile); err != nil {
		return err
	}
	if m.Directories, err = readSection(r, directoriesOffset, readDirectory); err != nil {
		return err
	}
	return nil
}

// readSection walks an offset table: a count followed by per-item relative
// offsets, each item read in place with the cursor restored afterwards.
func readSection[T any](r *binio.Reader, offset int64, read func(*binio.Reader) (T, error)) ([]T, error) {
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, count)
	for i := 0; i < int(count); i++ {
		itemOffset, err := readRelativeOffset(r)
		if err != nil {
			return nil, err
		}
		returnOffset := r.Position()
		if _, err := r.Seek(itemOffset, io.SeekStart); err != nil {
			return nil, err
		}
		item, err := read(r)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if _, err := r.Seek(returnOffset, io.SeekStart); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func readBundle(r *binio.Reader) (Bundle, error) {
	var b Bundle
	if _, err := r.ReadU32(); err != nil { // offset table offset
		return b, err
	}
	headerSize, err := r.ReadU32()
	if err != nil {
		return b, err
	}
	if b.ID, err = r.ReadU64(); err != nil {
		return b, err
	}
	// Skip whatever else the header carries beyond size and id.
	if _, err := r.Seek(int64(headerSize)-12, io.SeekCurrent); err != nil {
		return b, err
	}
	chunks, err := readSection(r, r.Position(), readChunk)
	if err != nil {
		return b, err
	}
	b.Chunks = chunks
	return b, nil
}

func readChunk(r *binio.Reader) (BundleChunk, error) {
	var c BundleChunk
	if _, err := r.ReadU32(); err != nil { // offset table offset
		return c, err
	}
	var err error
	if c.CompressedSize, err = r.ReadU32(); err != nil {
		return c, err
	}
	if c.UncompressedSize, err = r.ReadU32(); err != nil {
		return c, err
	}
	if c.ID, err = r.ReadU64(); err != nil {
		return c, err
	}
	return c, nil
}

func readLanguage(r *binio.Reader) (Language, error) {
	var l Language
	if _, err := r.ReadU32(); err != nil { // offset table offset
		return l, err
	}
	var err error
	if l.ID, err = r.ReadU32(); err != nil {
		return l, err
	}
	nameOffset, err := readRelativeOffset(r)
	if err != nil {
		return l, err
	}
	if _, err := r.Seek(nameOffset, io.SeekStart); err != nil {
		return l, err
	}
	if l.Name, err = r.ReadSizedString(); err != nil {
		return l, err
	}
	return l, nil
}

func readFile(r *binio.Reader) (File, error) {
	var f File
	if _, err := r.ReadU32(); err != nil { // offset table offset
		return f, err
	}

	fileOffset := r.Position()
	flags, err := r.ReadU32()
	if err != nil {
		return f, err
	}
	fileType := flags >> 24

	var nameOffset int64
	if flags == 0x00010200 || fileType != 0 {
		v, err := r.ReadU32()
		if err != nil {
			return f, err
		}
		nameOffset = int64(v)
	} else {
		nameOffset = int64(flags) - 4
	}

	structureSize, err := r.ReadU32()
	if err != nil {
		return f, err
	}
	linkOffset, err := r.ReadU32()
	if err != nil {
		return f, err
	}
	if f.ID, err = r.ReadU64(); err != nil {
		return f, err
	}
	if structureSize > 28 {
		if f.DirectoryID, err = r.ReadU64(); err != nil {
			return f, err
		}
	}
	if f.Size, err = r.ReadU32(); err != nil {
		return f, err
	}
	if _, err := r.ReadU32(); err != nil { // permissions
		return f, err
	}
	if structureSize > 36 {
		mask, err := r.ReadU64()
		if err != nil {
			return f, err
		}
		for i := 0; i < 64; i++ {
			if mask&(1<<i) != 0 {
				f.LanguageIDs = append(f.LanguageIDs, uint32(i))
			}
		}
	}
	if _, err := r.ReadU32(); err != nil { // unknown
		return f, err
	}

	chunkCount, err := r.ReadU32()
	if err != nil {
		return f, err
	}
	f.ChunkIDs = make([]uint64, 0, chunkCount)
	for i := 0; i < int(chunkCount); i++ {
		id, err := r.ReadU64()
		if err != nil {
			return f, err
		}
		f.ChunkIDs = append(f.ChunkIDs, id)
	}

	if _, err := r.Seek(fileOffset+nameOffset+4, io.SeekStart); err != nil {
		return f, err
	}
	if f.Name, err = r.ReadSizedString(); err != nil {
		return f, err
	}
	if _, err := r.Seek(fileOffset+int64(linkOffset)+12, io.SeekStart); err != nil {
		return f, err
	}
	if f.Link, err = r.ReadSizedString(); err != nil {
		return f, err
	}
	return f, nil
}

func readDirectory(r *binio.Reader) (Directory, error) {
	var d Directory
	offsetTableOffset, err := r.ReadI32()
	if err != nil {
		return d, err
	}
	directoryOffset := r.Position()

	// The offset table in front of the directory tells which fields are
	// actually present.
	if _, err := r.Seek(directoryOffset-int64(offsetTableOffset), io.SeekStart); err != nil {
		return d, err
	}
	idOffset, err := r.ReadU16()
	if err != nil {
		return d, err
	}
	parentIDOffset, err := r.ReadU16()
	if err != nil {
		return d, err
	}

	if _, err := r.Seek(directoryOffset, io.SeekStart); err != nil {
		return d, err
	}
	nameOffset, err := r.ReadU32()
	if err != nil {
		return d, err
	}
	if idOffset > 0 {
		if d.ID, err = r.ReadU64(); err != nil {
			return d, err
		}
	}
	if parentIDOffset > 0 {
		if d.ParentID, err = r.ReadU64(); err != nil {
			return d, err
		}
	}

	if _, err := r.Seek(directoryOffset+int64(nameOffset), io.SeekStart); err != nil {
		return d, err
	}
	if d.Name, err = r.ReadSizedString(); err != nil {
		return d, err
	}
	return d, nil
}
