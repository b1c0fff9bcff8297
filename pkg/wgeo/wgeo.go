// Package wgeo reads and writes WGEO world geometry files: the static map
// mesh split into per-material models, plus the render bucket grid used for
// coarse visibility culling. Versions 4 and 5 are read (4 simply lacks the
// grid); version 5 is always written.
package wgeo

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/valdris/riftkit/pkg/binio"
	"github.com/valdris/riftkit/pkg/geom"
)

// ErrFormat is returned for a bad magic or an unsupported version.
var ErrFormat = errors.New("wgeo: not a world geometry file")

const (
	texturePathLength  = 260
	materialNameLength = 64
)

// WorldGeometry is a parsed world geometry file.
type WorldGeometry struct {
	Models     []Model
	BucketGrid BucketGrid
}

// Model is one renderable chunk of the world: a texture, a material and an
// indexed triangle list.
type Model struct {
	Texture        string
	Material       string
	BoundingSphere geom.Sphere
	BoundingBox    geom.Box3D
	Vertices       []Vertex
	Indices        []uint32
}

// Vertex is a world geometry vertex: position and a single UV channel.
type Vertex struct {
	Position geom.Vector3
	UV       geom.Vector2
}

// ReadFile parses a world geometry file from disk.
func ReadFile(path string) (*WorldGeometry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file)
}

// Read parses a world geometry file from a seekable stream.
func Read(src io.ReadSeeker) (*WorldGeometry, error) {
	r := binio.NewReader(src)

	magic, err := r.ReadString(4)
	if err != nil {
		return nil, err
	}
	if magic != "WGEO" {
		return nil, fmt.Errorf("%w: bad magic %q", ErrFormat, magic)
	}
	version, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if version != 4 && version != 5 {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, version)
	}

	modelCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadU32(); err != nil { // total face count, recomputed on write
		return nil, err
	}

	wg := &WorldGeometry{Models: make([]Model, 0, modelCount)}
	for i := 0; i < int(modelCount); i++ {
		model, err := readModel(r)
		if err != nil {
			return nil, err
		}
		wg.Models = append(wg.Models, model)
	}

	if version == 5 {
		if wg.BucketGrid, err = readBucketGrid(r); err != nil {
			return nil, err
		}
	}
	return wg, nil
}

// WriteFile writes a version 5 file to disk.
func (wg *WorldGeometry) WriteFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := wg.Write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Write emits the geometry as version 5.
func (wg *WorldGeometry) Write(dst io.Writer) error {
	w := binio.NewWriter(dst)
	w.WriteString("WGEO")
	w.WriteU32(5)
	w.WriteU32(uint32(len(wg.Models)))

	faceCount := uint32(0)
	for i := range wg.Models {
		faceCount += uint32(len(wg.Models[i].Indices)) / 3
	}
	w.WriteU32(faceCount)

	for i := range wg.Models {
		if err := wg.Models[i].write(w); err != nil {
			return err
		}
	}
	if err := wg.BucketGrid.write(w); err != nil {
		return err
	}
	return w.Flush()
}

func readModel(r *binio.Reader) (Model, error) {
	var m Model
	var err error
	if m.Texture, err = r.ReadPaddedString(texturePathLength); err != nil {
		return m, err
	}
	if m.Material, err = r.ReadPaddedString(materialNameLength); err != nil {
		return m, err
	}
	if m.BoundingSphere, err = geom.ReadSphere(r); err != nil {
		return m, err
	}
	if m.BoundingBox, err = geom.ReadBox3D(r); err != nil {
		return m, err
	}
	vertexCount, err := r.ReadU32()
	if err != nil {
		return m, err
	}
	indexCount, err := r.ReadU32()
	if err != nil {
		return m, err
	}

	m.Vertices = make([]Vertex, 0, vertexCount)
	for i := 0; i < int(vertexCount); i++ {
		position, err := geom.ReadVector3(r)
		if err != nil {
			return m, err
		}
		uv, err := geom.ReadVector2(r)
		if err != nil {
			return m, err
		}
		m.Vertices = append(m.Vertices, Vertex{Position: position, UV: uv})
	}

	// Small meshes store 16-bit indices. The cutoff is on the count, not
	// the largest index.
	m.Indices = make([]uint32, 0, indexCount)
	if indexCount <= 65536 {
		for i := 0; i < int(indexCount); i++ {
			v, err := r.ReadU16()
			if err != nil {
				return m, err
			}
			m.Indices = append(m.Indices, uint32(v))
		}
	} else {
		for i := 0; i < int(indexCount); i++ {
			v, err := r.ReadU32()
			if err != nil {
				return m, err
			}
			m.Indices = append(m.Indices, v)
		}
	}
	return m, nil
}

func (m *Model) write(w *binio.Writer) error {
	if err := w.WritePaddedString(m.Texture, texturePathLength); err != nil {
		return err
	}
	if err := w.WritePaddedString(m.Material, materialNameLength); err != nil {
		return err
	}
	m.Sphere().Write(w)
	m.Bounds().Write(w)
	w.WriteU32(uint32(len(m.Vertices)))
	w.WriteU32(uint32(len(m.Indices)))

	for _, v := range m.Vertices {
		v.Position.Write(w)
		v.UV.Write(w)
	}
	if len(m.Indices) <= 65536 {
		for _, idx := range m.Indices {
			w.WriteU16(uint16(idx))
		}
	} else {
		for _, idx := range m.Indices {
			w.WriteU32(idx)
		}
	}
	return nil
}

// Bounds returns the model's bounding box, deriving it from the vertices
// (and caching it) when the stored box is zero.
func (m *Model) Bounds() geom.Box3D {
	if m.BoundingBox.IsZero() && len(m.Vertices) > 0 {
		min := geom.Vector3{
			X: m.Vertices[0].Position.X,
			Y: float32(math.Inf(-1)),
			Z: m.Vertices[0].Position.Z,
		}
		max := geom.Vector3{
			X: m.Vertices[0].Position.X,
			Y: float32(math.Inf(1)),
			Z: m.Vertices[0].Position.Z,
		}
		for _, v := range m.Vertices {
			p := v.Position
			if min.X > p.X {
				min.X = p.X
			}
			if min.Y > p.Y {
				min.Y = p.Y
			}
			if min.Z > p.Z {
				min.Z = p.Z
			}
			if max.X < p.X {
				max.X = p.X
			}
			if max.Y < p.Y {
				max.Y = p.Y
			}
			if max.Z < p.Z {
				max.Z = p.Z
			}
		}
		m.BoundingBox = geom.Box3D{Min: min, Max: max}
	}
	return m.BoundingBox
}

// CentralPoint returns half the bounding box extent.
func (m *Model) CentralPoint() geom.Vector3 {
	bounds := m.Bounds()
	return geom.Vector3{
		X: 0.5 * (bounds.Max.X - bounds.Min.X),
		Y: 0.5 * (bounds.Max.Y - bounds.Min.Y),
		Z: 0.5 * (bounds.Max.Z - bounds.Min.Z),
	}
}

// Sphere returns the model's bounding sphere, deriving it from the bounding
// box (and caching it) when the stored sphere is zero.
func (m *Model) Sphere() geom.Sphere {
	if m.BoundingSphere.IsZero() {
		bounds := m.Bounds()
		center := m.CentralPoint()
		m.BoundingSphere = geom.Sphere{
			Center: center,
			Radius: geom.Distance(center, bounds.Max),
		}
	}
	return m.BoundingSphere
}
