package geom

import "github.com/valdris/riftkit/pkg/binio"

// ColorRGBA is an RGBA color with float channels. Depending on the format it
// is stored either as four floats or as four bytes; the byte form normalizes
// to 0.0-1.0 on read and quantizes back (truncating, not rounding) on write.
type ColorRGBA struct {
	R, G, B, A float32
}

// ReadColorF32 reads four 4-byte float channels.
func ReadColorF32(r *binio.Reader) (ColorRGBA, error) {
	var c ColorRGBA
	var err error
	if c.R, err = r.ReadF32(); err != nil {
		return c, err
	}
	if c.G, err = r.ReadF32(); err != nil {
		return c, err
	}
	if c.B, err = r.ReadF32(); err != nil {
		return c, err
	}
	if c.A, err = r.ReadF32(); err != nil {
		return c, err
	}
	return c, nil
}

// WriteF32 writes four 4-byte float channels.
func (c ColorRGBA) WriteF32(w *binio.Writer) error {
	if err := w.WriteF32(c.R); err != nil {
		return err
	}
	if err := w.WriteF32(c.G); err != nil {
		return err
	}
	if err := w.WriteF32(c.B); err != nil {
		return err
	}
	return w.WriteF32(c.A)
}

// ReadColorU8 reads four 1-byte channels and normalizes them to 0.0-1.0.
func ReadColorU8(r *binio.Reader) (ColorRGBA, error) {
	var buf [4]float32
	for i := range buf {
		b, err := r.ReadU8()
		if err != nil {
			return ColorRGBA{}, err
		}
		buf[i] = float32(b) / 255
	}
	return ColorRGBA{R: buf[0], G: buf[1], B: buf[2], A: buf[3]}, nil
}

// WriteU8 quantizes each channel to a byte. Truncation matches the original
// format; a 1.0 round trip is exact, everything else may lose precision.
func (c ColorRGBA) WriteU8(w *binio.Writer) error {
	for _, f := range [4]float32{c.R, c.G, c.B, c.A} {
		if err := w.WriteU8(uint8(f * 255)); err != nil {
			return err
		}
	}
	return nil
}
