package manifest

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bodyBuilder assembles a manifest body with explicit little-endian writes
// so the offset arithmetic in the test stays visible.
type bodyBuilder struct {
	buf bytes.Buffer
}

func (b *bodyBuilder) u16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	b.buf.Write(tmp[:])
}

func (b *bodyBuilder) u32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.buf.Write(tmp[:])
}

// buildBody lays out a body with no bundles, no files, no directories and a
// single language ("english", id 5).
//
//	 0  header offset = 4
//	 4  offset table offset (ignored)
//	 8  bundles offset, relative       -> 24
//	12  languages offset, relative     -> 28
//	16  files offset, relative         -> 36
//	20  directories offset, relative   -> 40
//	24  bundles: count 0
//	28  languages: count 1, item offset -> 44
//	36  files: count 0
//	40  directories: count 0
//	44  language item: offset table, id, name offset -> 56
//	56  name: sized string "english"
func buildBody() []byte {
	var b bodyBuilder
	b.u32(4)       // header offset
	b.u32(0)       // offset table offset
	b.u32(24 - 8)  // bundles
	b.u32(28 - 12) // languages
	b.u32(36 - 16) // files
	b.u32(40 - 20) // directories

	b.u32(0) // bundle count

	b.u32(1)       // language count
	b.u32(44 - 32) // language item offset

	b.u32(0) // file count
	b.u32(0) // directory count

	b.u32(0)       // language offset table offset
	b.u32(5)       // language id
	b.u32(56 - 52) // name offset

	b.u32(7)
	b.buf.WriteString("english")
	return b.buf.Bytes()
}

func buildManifest(t *testing.T, releaseID uint64, body []byte) []byte {
	t.Helper()

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	compressed := enc.EncodeAll(body, nil)
	require.NoError(t, enc.Close())

	var buf bytes.Buffer
	buf.WriteString("RMAN")
	buf.Write([]byte{2, 0}) // version 2.0
	buf.Write([]byte{0, 0}) // unknown, signature type

	var tmp [8]byte
	binary.LittleEndian.PutUint32(tmp[:4], 28) // content offset: header is 28 bytes
	buf.Write(tmp[:4])
	binary.LittleEndian.PutUint32(tmp[:4], uint32(len(compressed)))
	buf.Write(tmp[:4])
	binary.LittleEndian.PutUint64(tmp[:], releaseID)
	buf.Write(tmp[:])
	binary.LittleEndian.PutUint32(tmp[:4], uint32(len(body)))
	buf.Write(tmp[:4])

	buf.Write(compressed)
	return buf.Bytes()
}

func TestReadManifest(t *testing.T) {
	data := buildManifest(t, 123456789, buildBody())

	m, err := Read(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, uint64(123456789), m.ReleaseID)
	assert.Empty(t, m.Bundles)
	assert.Empty(t, m.Files)
	assert.Empty(t, m.Directories)

	require.Len(t, m.Languages, 1)
	assert.Equal(t, uint32(5), m.Languages[0].ID)
	assert.Equal(t, "english", m.Languages[0].Name)
}

func TestReadManifestErrors(t *testing.T) {
	t.Run("bad magic", func(t *testing.T) {
		_, err := Read(bytes.NewReader([]byte("NOPE\x02\x00\x00\x00")))
		assert.ErrorIs(t, err, ErrFormat)
	})

	t.Run("unsupported version", func(t *testing.T) {
		data := buildManifest(t, 1, buildBody())
		data[4] = 9
		_, err := Read(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrFormat)
	})

	t.Run("corrupt body", func(t *testing.T) {
		data := buildManifest(t, 1, buildBody())
		// Clobber the compressed payload.
		for i := 28; i < len(data); i++ {
			data[i] = 0xff
		}
		_, err := Read(bytes.NewReader(data))
		assert.Error(t, err)
	})
}
