// Package geom holds the fixed-layout vector, matrix, color and bounding
// value types shared by the binary asset formats. Every type reads and
// writes a fixed number of little-endian primitive fields.
package geom

import (
	"math"

	"github.com/valdris/riftkit/pkg/binio"
)

// Vector2 is a 2D float vector (8 bytes on the wire).
type Vector2 struct {
	X, Y float32
}

// ReadVector2 reads two 4-byte floats.
func ReadVector2(r *binio.Reader) (Vector2, error) {
	var v Vector2
	var err error
	if v.X, err = r.ReadF32(); err != nil {
		return v, err
	}
	if v.Y, err = r.ReadF32(); err != nil {
		return v, err
	}
	return v, nil
}

// Write writes two 4-byte floats.
func (v Vector2) Write(w *binio.Writer) error {
	if err := w.WriteF32(v.X); err != nil {
		return err
	}
	return w.WriteF32(v.Y)
}

// Vector3 is a 3D float vector (12 bytes on the wire).
type Vector3 struct {
	X, Y, Z float32
}

// ReadVector3 reads three 4-byte floats.
func ReadVector3(r *binio.Reader) (Vector3, error) {
	var v Vector3
	var err error
	if v.X, err = r.ReadF32(); err != nil {
		return v, err
	}
	if v.Y, err = r.ReadF32(); err != nil {
		return v, err
	}
	if v.Z, err = r.ReadF32(); err != nil {
		return v, err
	}
	return v, nil
}

// Write writes three 4-byte floats.
func (v Vector3) Write(w *binio.Writer) error {
	if err := w.WriteF32(v.X); err != nil {
		return err
	}
	if err := w.WriteF32(v.Y); err != nil {
		return err
	}
	return w.WriteF32(v.Z)
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b Vector3) float32 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	dz := float64(a.Z - b.Z)
	return float32(math.Sqrt(dx*dx + dy*dy + dz*dz))
}

// Vector4 is a 4D float vector (16 bytes on the wire).
type Vector4 struct {
	X, Y, Z, W float32
}

// ReadVector4 reads four 4-byte floats.
func ReadVector4(r *binio.Reader) (Vector4, error) {
	var v Vector4
	var err error
	if v.X, err = r.ReadF32(); err != nil {
		return v, err
	}
	if v.Y, err = r.ReadF32(); err != nil {
		return v, err
	}
	if v.Z, err = r.ReadF32(); err != nil {
		return v, err
	}
	if v.W, err = r.ReadF32(); err != nil {
		return v, err
	}
	return v, nil
}

// Write writes four 4-byte floats.
func (v Vector4) Write(w *binio.Writer) error {
	if err := w.WriteF32(v.X); err != nil {
		return err
	}
	if err := w.WriteF32(v.Y); err != nil {
		return err
	}
	if err := w.WriteF32(v.Z); err != nil {
		return err
	}
	return w.WriteF32(v.W)
}
