package geom

import "github.com/valdris/riftkit/pkg/binio"

// Matrix44 is a 4x4 float matrix, stored row-major on the wire (64 bytes).
// No row/column transform is applied at this layer.
type Matrix44 [4][4]float32

// ReadMatrix44 reads sixteen 4-byte floats in row-major order.
func ReadMatrix44(r *binio.Reader) (Matrix44, error) {
	var m Matrix44
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			f, err := r.ReadF32()
			if err != nil {
				return m, err
			}
			m[row][col] = f
		}
	}
	return m, nil
}

// Write writes sixteen 4-byte floats in row-major order.
func (m Matrix44) Write(w *binio.Writer) error {
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			if err := w.WriteF32(m[row][col]); err != nil {
				return err
			}
		}
	}
	return nil
}
