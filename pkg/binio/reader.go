package binio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"unicode/utf8"
)

// ErrTruncated is returned when the underlying stream ends in the middle of
// a value. A read either yields the complete value or fails with this error.
var ErrTruncated = errors.New("binio: truncated input")

// ErrInvalidUTF8 is returned when string bytes read from the stream are not
// valid UTF-8.
var ErrInvalidUTF8 = errors.New("binio: invalid utf-8 in string")

// Reader reads little-endian primitives from a seekable byte stream.
// All reads are buffered; Seek and Position account for the buffer.
type Reader struct {
	src io.ReadSeeker
	br  *bufio.Reader
	off int64
}

// NewReader creates a reader over an arbitrary seekable stream.
func NewReader(src io.ReadSeeker) *Reader {
	return &Reader{
		src: src,
		br:  bufio.NewReader(src),
	}
}

// NewBytesReader creates a reader over an in-memory buffer.
func NewBytesReader(data []byte) *Reader {
	return NewReader(bytes.NewReader(data))
}

// OpenFile opens a file for binary reading. The caller owns the close.
func OpenFile(path string) (*Reader, *os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return NewReader(file), file, nil
}

func (r *Reader) read(buf []byte) error {
	n, err := io.ReadFull(r.br, buf)
	r.off += int64(n)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return ErrTruncated
		}
		return err
	}
	return nil
}

// ReadU8 reads one unsigned byte.
func (r *Reader) ReadU8() (uint8, error) {
	var buf [1]byte
	if err := r.read(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadI8 reads one signed byte.
func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

// ReadU16 reads a 2-byte little-endian unsigned integer.
func (r *Reader) ReadU16() (uint16, error) {
	var buf [2]byte
	if err := r.read(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

// ReadI16 reads a 2-byte little-endian signed integer.
func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

// ReadU32 reads a 4-byte little-endian unsigned integer.
func (r *Reader) ReadU32() (uint32, error) {
	var buf [4]byte
	if err := r.read(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// ReadI32 reads a 4-byte little-endian signed integer.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadU64 reads an 8-byte little-endian unsigned integer.
func (r *Reader) ReadU64() (uint64, error) {
	var buf [8]byte
	if err := r.read(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// ReadI64 reads an 8-byte little-endian signed integer.
func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

// ReadF32 reads a 4-byte little-endian IEEE-754 float.
func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	return math.Float32frombits(v), err
}

// ReadF64 reads an 8-byte little-endian IEEE-754 float.
func (r *Reader) ReadF64() (float64, error) {
	v, err := r.ReadU64()
	return math.Float64frombits(v), err
}

// ReadBytes reads exactly size bytes.
func (r *Reader) ReadBytes(size int) ([]byte, error) {
	buf := make([]byte, size)
	if err := r.read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadString reads length bytes and interprets them as UTF-8.
func (r *Reader) ReadString(length int) (string, error) {
	buf, err := r.ReadBytes(length)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(buf) {
		return "", ErrInvalidUTF8
	}
	return string(buf), nil
}

// ReadSizedString reads a 4-byte length prefix followed by that many
// UTF-8 bytes.
func (r *Reader) ReadSizedString() (string, error) {
	length, err := r.ReadU32()
	if err != nil {
		return "", err
	}
	return r.ReadString(int(length))
}

// ReadPaddedString reads a fixed-size field of length bytes and returns the
// content up to the first NUL.
func (r *Reader) ReadPaddedString(length int) (string, error) {
	buf, err := r.ReadBytes(length)
	if err != nil {
		return "", err
	}
	for i, b := range buf {
		if b == 0 {
			buf = buf[:i]
			break
		}
	}
	if !utf8.Valid(buf) {
		return "", ErrInvalidUTF8
	}
	return string(buf), nil
}

// Seek repositions the stream. The read buffer is discarded.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		// The source is ahead of us by whatever is buffered, so the
		// relative position is computed from our own offset.
		target = r.off + offset
	case io.SeekEnd:
		end, err := r.src.Seek(0, io.SeekEnd)
		if err != nil {
			return 0, err
		}
		target = end + offset
	default:
		return 0, fmt.Errorf("binio: invalid seek whence %d", whence)
	}

	pos, err := r.src.Seek(target, io.SeekStart)
	if err != nil {
		return 0, err
	}
	r.br.Reset(r.src)
	r.off = pos
	return pos, nil
}

// Position returns the offset of the next byte to be read.
func (r *Reader) Position() int64 {
	return r.off
}
