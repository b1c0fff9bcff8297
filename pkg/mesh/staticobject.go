package mesh

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/valdris/riftkit/pkg/binio"
	"github.com/valdris/riftkit/pkg/geom"
)

const staticObjectMagic = "r3d2Mesh"

// StaticObject is a parsed SCB mesh: unskinned scenery geometry stored as
// per-face material assignments, regrouped here into submeshes.
type StaticObject struct {
	Name        string
	Submeshes   []StaticSubmesh
	BoundingBox geom.Box3D
}

// StaticSubmesh is the geometry of one material, with indices rebased to
// start at zero.
type StaticSubmesh struct {
	Name     string
	Vertices []StaticVertex
	Indices  []uint32
}

// StaticVertex is a position with a UV; Color is nil unless the file
// carries a vertex color stream.
type StaticVertex struct {
	Position geom.Vector3
	UV       geom.Vector2
	Color    *geom.ColorRGBA
}

// staticFace is the on-disk face record: three indices into the shared
// vertex pool, the material name, and per-corner UVs.
type staticFace struct {
	indices  [3]uint32
	material string
	uvs      [3]geom.Vector2
}

// ReadStaticObjectFile parses an SCB file from disk.
func ReadStaticObjectFile(path string) (*StaticObject, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadStaticObject(file)
}

// ReadStaticObject parses an SCB file from a seekable stream. Versions 2.1
// through 3.2 are supported; only 3.2 can carry vertex colors.
func ReadStaticObject(src io.ReadSeeker) (*StaticObject, error) {
	r := binio.NewReader(src)

	magic, err := r.ReadString(8)
	if err != nil {
		return nil, err
	}
	if magic != staticObjectMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrFormat, magic)
	}
	major, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	minor, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	if (major != 2 && major != 3) || (minor != 1 && minor != 2) {
		return nil, fmt.Errorf("%w: unsupported version %d.%d", ErrFormat, major, minor)
	}

	obj := &StaticObject{}
	if obj.Name, err = r.ReadPaddedString(128); err != nil {
		return nil, err
	}
	vertexCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	faceCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadU32(); err != nil { // flags
		return nil, err
	}
	if obj.BoundingBox, err = geom.ReadBox3D(r); err != nil {
		return nil, err
	}
	hasVertexColors := false
	if major == 3 && minor == 2 {
		v, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		hasVertexColors = v == 1
	}

	positions := make([]geom.Vector3, 0, vertexCount)
	for i := 0; i < int(vertexCount); i++ {
		p, err := geom.ReadVector3(r)
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	var colors []geom.ColorRGBA
	if hasVertexColors {
		colors = make([]geom.ColorRGBA, 0, vertexCount)
		for i := 0; i < int(vertexCount); i++ {
			c, err := geom.ReadColorU8(r)
			if err != nil {
				return nil, err
			}
			colors = append(colors, c)
		}
	}

	if _, err := geom.ReadVector3(r); err != nil { // central point
		return nil, err
	}

	faces := make([]staticFace, 0, faceCount)
	for i := 0; i < int(faceCount); i++ {
		face, err := readStaticFace(r)
		if err != nil {
			return nil, err
		}
		for _, idx := range face.indices {
			if int(idx) >= len(positions) {
				return nil, fmt.Errorf("%w: face index %d out of range", ErrFormat, idx)
			}
		}
		faces = append(faces, face)
	}

	obj.Submeshes = buildStaticSubmeshes(positions, colors, faces)
	return obj, nil
}

func readStaticFace(r *binio.Reader) (staticFace, error) {
	var f staticFace
	var err error
	for i := range f.indices {
		if f.indices[i], err = r.ReadU32(); err != nil {
			return f, err
		}
	}
	if f.material, err = r.ReadPaddedString(64); err != nil {
		return f, err
	}
	for i := range f.uvs {
		if f.uvs[i], err = geom.ReadVector2(r); err != nil {
			return f, err
		}
	}
	return f, nil
}

// buildStaticSubmeshes groups faces by material and carves out one submesh
// per material. UVs live on the faces, so each vertex takes the UV of the
// first face corner that references it; vertices inside the index range
// that no face touches keep a zero UV. Submeshes come out sorted by
// material name so the result is deterministic.
func buildStaticSubmeshes(positions []geom.Vector3, colors []geom.ColorRGBA, faces []staticFace) []StaticSubmesh {
	byMaterial := make(map[string][]*staticFace)
	materials := make([]string, 0)
	for i := range faces {
		face := &faces[i]
		if _, ok := byMaterial[face.material]; !ok {
			materials = append(materials, face.material)
		}
		byMaterial[face.material] = append(byMaterial[face.material], face)
	}
	sort.Strings(materials)

	submeshes := make([]StaticSubmesh, 0, len(materials))
	for _, material := range materials {
		group := byMaterial[material]

		indices := make([]uint32, 0, len(group)*3)
		uvs := make(map[uint32]geom.Vector2, len(group)*3)
		minVertex := uint32(len(positions))
		maxVertex := uint32(0)
		for _, face := range group {
			for i, idx := range face.indices {
				indices = append(indices, idx)
				if _, ok := uvs[idx]; !ok {
					uvs[idx] = face.uvs[i]
				}
				if idx < minVertex {
					minVertex = idx
				}
				if idx > maxVertex {
					maxVertex = idx
				}
			}
		}

		vertices := make([]StaticVertex, 0, maxVertex-minVertex+1)
		for i := minVertex; i <= maxVertex; i++ {
			v := StaticVertex{Position: positions[i], UV: uvs[i]}
			if colors != nil {
				color := colors[i]
				v.Color = &color
			}
			vertices = append(vertices, v)
		}
		for i := range indices {
			indices[i] -= minVertex
		}

		submeshes = append(submeshes, StaticSubmesh{
			Name:     material,
			Vertices: vertices,
			Indices:  indices,
		})
	}
	return submeshes
}
