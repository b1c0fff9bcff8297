package binio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// Writer writes little-endian primitives to a byte stream. Writes are
// buffered; call Flush before inspecting the destination.
type Writer struct {
	bw  *bufio.Writer
	off int64
}

// NewWriter creates a writer over an arbitrary stream.
func NewWriter(dst io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(dst)}
}

// CreateFile creates (or truncates) a file for binary writing. The caller
// owns the close and should Flush the writer first.
func CreateFile(path string) (*Writer, *os.File, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return NewWriter(file), file, nil
}

func (w *Writer) write(buf []byte) error {
	n, err := w.bw.Write(buf)
	w.off += int64(n)
	return err
}

// WriteU8 writes one unsigned byte.
func (w *Writer) WriteU8(v uint8) error {
	return w.write([]byte{v})
}

// WriteI8 writes one signed byte.
func (w *Writer) WriteI8(v int8) error {
	return w.WriteU8(uint8(v))
}

// WriteU16 writes a 2-byte little-endian unsigned integer.
func (w *Writer) WriteU16(v uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	return w.write(buf[:])
}

// WriteI16 writes a 2-byte little-endian signed integer.
func (w *Writer) WriteI16(v int16) error {
	return w.WriteU16(uint16(v))
}

// WriteU32 writes a 4-byte little-endian unsigned integer.
func (w *Writer) WriteU32(v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return w.write(buf[:])
}

// WriteI32 writes a 4-byte little-endian signed integer.
func (w *Writer) WriteI32(v int32) error {
	return w.WriteU32(uint32(v))
}

// WriteU64 writes an 8-byte little-endian unsigned integer.
func (w *Writer) WriteU64(v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return w.write(buf[:])
}

// WriteI64 writes an 8-byte little-endian signed integer.
func (w *Writer) WriteI64(v int64) error {
	return w.WriteU64(uint64(v))
}

// WriteF32 writes a 4-byte little-endian IEEE-754 float.
func (w *Writer) WriteF32(v float32) error {
	return w.WriteU32(math.Float32bits(v))
}

// WriteF64 writes an 8-byte little-endian IEEE-754 float.
func (w *Writer) WriteF64(v float64) error {
	return w.WriteU64(math.Float64bits(v))
}

// WriteBytes writes a raw byte slice.
func (w *Writer) WriteBytes(buf []byte) error {
	return w.write(buf)
}

// WriteString writes the raw UTF-8 bytes of s with no prefix or terminator.
func (w *Writer) WriteString(s string) error {
	return w.write([]byte(s))
}

// WriteSizedString writes a 4-byte length prefix followed by the bytes of s.
func (w *Writer) WriteSizedString(s string) error {
	if err := w.WriteU32(uint32(len(s))); err != nil {
		return err
	}
	return w.WriteString(s)
}

// WritePaddedString writes s into a fixed-size field of length bytes,
// NUL-padded. Fails if s does not fit.
func (w *Writer) WritePaddedString(s string, length int) error {
	if len(s) > length {
		return fmt.Errorf("binio: string of %d bytes does not fit padded field of %d", len(s), length)
	}
	if err := w.WriteString(s); err != nil {
		return err
	}
	return w.write(bytes.Repeat([]byte{0}, length-len(s)))
}

// Flush writes any buffered bytes to the destination.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}

// Position returns the number of bytes written so far.
func (w *Writer) Position() int64 {
	return w.off
}
