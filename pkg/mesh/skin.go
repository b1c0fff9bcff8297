// Package mesh reads and writes the two character mesh formats: SKN skinned
// meshes and SCB static objects. Both store one vertex/index pool carved
// into per-material submeshes; the submesh views are materialized on read
// and flattened back on write.
package mesh

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
var ErrFormat = errors.New("mesh: unrecognized mesh file")

const skinMagic = 0x00112233

// SkinnedMesh is a parsed SKN file.
type SkinnedMesh struct {
	Submeshes      []SkinnedSubmesh
	BoundingBox    geom.Box3D
	BoundingSphere geom.Sphere
}

// SkinnedSubmesh is one material range of a skinned mesh, with indices
// rebased to start at zero.
type SkinnedSubmesh struct {
	Name     string
	Vertices []SkinnedVertex
	Indices  []uint16
}

// SkinnedVertex carries four bone influences with weights. Color is nil for
// meshes without the vertex color stream.
type SkinnedVertex struct {
	Position   geom.Vector3
	Influences [4]uint8
	Weights    [4]float32
	Normal     geom.Vector3
	UV         geom.Vector2
	Color      *geom.ColorRGBA
}

// ReadSkinnedMeshFile parses an SKN file from disk.
func ReadSkinnedMeshFile(path string) (*SkinnedMesh, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadSkinnedMesh(file)
}

// ReadSkinnedMesh parses an SKN file from a seekable stream. Versions 2.x
// and 4.1 are supported; version 2 lacks flags, bounds and the vertex size
// fields.
func ReadSkinnedMesh(src io.ReadSeeker) (*SkinnedMesh, error) {
	r := binio.NewReader(src)

	magic, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if magic != skinMagic {
		return nil, fmt.Errorf("%w: bad magic 0x%08x", ErrFormat, magic)
	}
	major, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	minor, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	if major != 2 && major != 4 {
		return nil, fmt.Errorf("%w: unsupported version %d.%d", ErrFormat, major, minor)
	}

	submeshCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	type submeshRange struct {
		name        string
		startVertex uint32
		vertexCount uint32
		startIndex  uint32
		indexCount  uint32
	}
	ranges := make([]submeshRange, 0, submeshCount)
	for i := 0; i < int(submeshCount); i++ {
		var sr submeshRange
		if sr.name, err = r.ReadPaddedString(64); err != nil {
			return nil, err
		}
		if sr.startVertex, err = r.ReadU32(); err != nil {
			return nil, err
		}
		if sr.vertexCount, err = r.ReadU32(); err != nil {
			return nil, err
		}
		if sr.startIndex, err = r.ReadU32(); err != nil {
			return nil, err
		}
		if sr.indexCount, err = r.ReadU32(); err != nil {
			return nil, err
		}
		ranges = append(ranges, sr)
	}

	if major == 4 {
		if _, err := r.ReadU32(); err != nil { // flags
			return nil, err
		}
	}
	indexCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	vertexCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	vertexSize := uint32(52)
	vertexType := uint32(0)
	mesh := &SkinnedMesh{}
	if major == 4 {
		if vertexSize, err = r.ReadU32(); err != nil {
			return nil, err
		}
		if vertexType, err = r.ReadU32(); err != nil {
			return nil, err
		}
		if mesh.BoundingBox, err = geom.ReadBox3D(r); err != nil {
			return nil, err
		}
		if mesh.BoundingSphere, err = geom.ReadSphere(r); err != nil {
			return nil, err
		}
	}
	if (vertexType == 0 && vertexSize != 52) || (vertexType == 1 && vertexSize != 56) {
		return nil, fmt.Errorf("%w: vertex size %d does not match vertex type %d",
			ErrFormat, vertexSize, vertexType)
	}

	indices := make([]uint16, 0, indexCount)
	for i := 0; i < int(indexCount); i++ {
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		indices = append(indices, idx)
	}
	vertices := make([]SkinnedVertex, 0, vertexCount)
	for i := 0; i < int(vertexCount); i++ {
		v, err := readSkinnedVertex(r, vertexType == 1)
		if err != nil {
			return nil, err
		}
		vertices = append(vertices, v)
	}

	// Carve the shared pools into per-submesh slices and rebase each
	// submesh's indices to its smallest one.
	mesh.Submeshes = make([]SkinnedSubmesh, 0, len(ranges))
	for _, sr := range ranges {
		if int(sr.startVertex)+int(sr.vertexCount) > len(vertices) ||
			int(sr.startIndex)+int(sr.indexCount) > len(indices) {
			return nil, fmt.Errorf("%w: submesh %q out of range", ErrFormat, sr.name)
		}
		sub := SkinnedSubmesh{
			Name:     sr.name,
			Vertices: append([]SkinnedVertex(nil), vertices[sr.startVertex:sr.startVertex+sr.vertexCount]...),
			Indices:  append([]uint16(nil), indices[sr.startIndex:sr.startIndex+sr.indexCount]...),
		}
		minIndex := uint16(math.MaxUint16)
		for _, idx := range sub.Indices {
			if idx < minIndex {
				minIndex = idx
			}
		}
		for i := range sub.Indices {
			sub.Indices[i] -= minIndex
		}
		mesh.Submeshes = append(mesh.Submeshes, sub)
	}
	return mesh, nil
}

func readSkinnedVertex(r *binio.Reader, withColor bool) (SkinnedVertex, error) {
	var v SkinnedVertex
	var err error
	if v.Position, err = geom.ReadVector3(r); err != nil {
		return v, err
	}
	for i := range v.Influences {
		if v.Influences[i], err = r.ReadU8(); err != nil {
			return v, err
		}
	}
	for i := range v.Weights {
		if v.Weights[i], err = r.ReadF32(); err != nil {
			return v, err
		}
	}
	if v.Normal, err = geom.ReadVector3(r); err != nil {
		return v, err
	}
	if v.UV, err = geom.ReadVector2(r); err != nil {
		return v, err
	}
	if withColor {
		color, err := geom.ReadColorU8(r)
		if err != nil {
			return v, err
		}
		v.Color = &color
	}
	return v, nil
}

// WriteFile writes the mesh to disk as version 4.1.
func (m *SkinnedMesh) WriteFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.Write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Write emits the mesh as version 4.1, flattening the submeshes back into
// shared pools. If any vertex carries a color, every vertex is written with
// one; colorless vertices get transparent black.
func (m *SkinnedMesh) Write(dst io.Writer) error {
	w := binio.NewWriter(dst)
	w.WriteU32(skinMagic)
	w.WriteU16(4)
	w.WriteU16(1)
	w.WriteU32(uint32(len(m.Submeshes)))

	hasColor := false
	vertexOffset := uint32(0)
	indexOffset := uint32(0)
	for i := range m.Submeshes {
		sub := &m.Submeshes[i]
		if err := w.WritePaddedString(sub.Name, 64); err != nil {
			return err
		}
		w.WriteU32(vertexOffset)
		w.WriteU32(uint32(len(sub.Vertices)))
		w.WriteU32(indexOffset)
		w.WriteU32(uint32(len(sub.Indices)))
		vertexOffset += uint32(len(sub.Vertices))
		indexOffset += uint32(len(sub.Indices))
		for _, v := range sub.Vertices {
			if v.Color != nil {
				hasColor = true
				break
			}
		}
	}

	w.WriteU32(0) // flags
	w.WriteU32(indexOffset)
	w.WriteU32(vertexOffset)
	if hasColor {
		w.WriteU32(56)
		w.WriteU32(1)
	} else {
		w.WriteU32(52)
		w.WriteU32(0)
	}
	m.Bounds().Write(w)
	m.Sphere().Write(w)

	rebase := uint16(0)
	for i := range m.Submeshes {
		for _, idx := range m.Submeshes[i].Indices {
			w.WriteU16(idx + rebase)
		}
		rebase += uint16(len(m.Submeshes[i].Indices))
	}
	for i := range m.Submeshes {
		for _, v := range m.Submeshes[i].Vertices {
			v.Position.Write(w)
			for _, inf := range v.Influences {
				w.WriteU8(inf)
			}
			for _, weight := range v.Weights {
				w.WriteF32(weight)
			}
			v.Normal.Write(w)
			v.UV.Write(w)
			if hasColor {
				color := geom.ColorRGBA{}
				if v.Color != nil {
					color = *v.Color
				}
				color.WriteU8(w)
			}
		}
	}
	return w.Flush()
}

// CentralPoint returns half the bounding box extent.
func (m *SkinnedMesh) CentralPoint() geom.Vector3 {
	bounds := m.Bounds()
	return geom.Vector3{
		X: 0.5 * (bounds.Max.X - bounds.Min.X),
		Y: 0.5 * (bounds.Max.Y - bounds.Min.Y),
		Z: 0.5 * (bounds.Max.Z - bounds.Min.Z),
	}
}

// Bounds returns the bounding box, deriving it from all submesh vertices
// (and caching it) when the stored box is zero.
func (m *SkinnedMesh) Bounds() geom.Box3D {
	if m.BoundingBox.IsZero() {
		inf := float32(math.Inf(1))
		min := geom.Vector3{X: inf, Y: inf, Z: inf}
		max := geom.Vector3{X: -inf, Y: -inf, Z: -inf}
		for i := range m.Submeshes {
			for _, v := range m.Submeshes[i].Vertices {
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
		}
		m.BoundingBox = geom.Box3D{Min: min, Max: max}
	}
	return m.BoundingBox
}

// Sphere returns the bounding sphere, deriving it from the bounding box
// (and caching it) when the stored sphere is zero.
func (m *SkinnedMesh) Sphere() geom.Sphere {
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
