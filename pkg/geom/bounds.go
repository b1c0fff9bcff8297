package geom

import "github.com/valdris/riftkit/pkg/binio"

// Box3D is an axis-aligned bounding box (24 bytes on the wire).
type Box3D struct {
	Min, Max Vector3
}

// ReadBox3D reads min then max.
func ReadBox3D(r *binio.Reader) (Box3D, error) {
	var b Box3D
	var err error
	if b.Min, err = ReadVector3(r); err != nil {
		return b, err
	}
	if b.Max, err = ReadVector3(r); err != nil {
		return b, err
	}
	return b, nil
}

// Write writes min then max.
func (b Box3D) Write(w *binio.Writer) error {
	if err := b.Min.Write(w); err != nil {
		return err
	}
	return b.Max.Write(w)
}

// IsZero reports whether the box is the zero value.
func (b Box3D) IsZero() bool {
	return b == Box3D{}
}

// Sphere is a bounding sphere (16 bytes on the wire).
type Sphere struct {
	Center Vector3
	Radius float32
}

// ReadSphere reads the center then the radius.
func ReadSphere(r *binio.Reader) (Sphere, error) {
	var s Sphere
	var err error
	if s.Center, err = ReadVector3(r); err != nil {
		return s, err
	}
	if s.Radius, err = r.ReadF32(); err != nil {
		return s, err
	}
	return s, nil
}

// Write writes the center then the radius.
func (s Sphere) Write(w *binio.Writer) error {
	if err := s.Center.Write(w); err != nil {
		return err
	}
	return w.WriteF32(s.Radius)
}

// IsZero reports whether the sphere is the zero value.
func (s Sphere) IsZero() bool {
	return s == Sphere{}
}
