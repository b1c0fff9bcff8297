package mesh

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valdris/riftkit/pkg/binio"
	"github.com/valdris/riftkit/pkg/geom"
)

func testSkinnedMesh(withColor bool) *SkinnedMesh {
	vertex := func(x float32) SkinnedVertex {
		v := SkinnedVertex{
			Position:   geom.Vector3{X: x, Y: 0, Z: 0},
			Influences: [4]uint8{0, 1, 0, 0},
			Weights:    [4]float32{0.5, 0.5, 0, 0},
			Normal:     geom.Vector3{X: 0, Y: 1, Z: 0},
			UV:         geom.Vector2{X: x, Y: x},
		}
		if withColor {
			v.Color = &geom.ColorRGBA{R: 1, G: 0, B: 0, A: 1}
		}
		return v
	}

	return &SkinnedMesh{
		BoundingBox: geom.Box3D{
			Min: geom.Vector3{X: 0, Y: 0, Z: 0},
			Max: geom.Vector3{X: 2, Y: 1, Z: 0},
		},
		BoundingSphere: geom.Sphere{Center: geom.Vector3{X: 1, Y: 0, Z: 0}, Radius: 2},
		Submeshes: []SkinnedSubmesh{
			{
				Name:     "Body",
				Vertices: []SkinnedVertex{vertex(0), vertex(1), vertex(2)},
				Indices:  []uint16{0, 1, 2},
			},
			{
				Name:     "Weapon",
				Vertices: []SkinnedVertex{vertex(3), vertex(4), vertex(5)},
				Indices:  []uint16{0, 2, 1},
			},
		},
	}
}

func TestSkinnedMeshRoundTrip(t *testing.T) {
	for _, withColor := range []bool{false, true} {
		name := "without color"
		if withColor {
			name = "with color"
		}
		t.Run(name, func(t *testing.T) {
			original := testSkinnedMesh(withColor)

			var buf bytes.Buffer
			require.NoError(t, original.Write(&buf))

			decoded, err := ReadSkinnedMesh(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)

			assert.Equal(t, original.BoundingBox, decoded.BoundingBox)
			assert.Equal(t, original.BoundingSphere, decoded.BoundingSphere)
			require.Len(t, decoded.Submeshes, 2)
			assert.Equal(t, original.Submeshes, decoded.Submeshes)
		})
	}
}

func TestSkinnedMeshVertexSize(t *testing.T) {
	t.Run("colorless vertices are 52 bytes", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, testSkinnedMesh(false).Write(&buf))

		// magic+version+count, 2 submesh headers, mesh header, bounds,
		// 6 indices, then the vertex pool.
		header := 4 + 2 + 2 + 4 + 2*(64+16) + 5*4 + 24 + 16 + 6*2
		assert.Equal(t, header+6*52, buf.Len())
	})

	t.Run("colored vertices are 56 bytes", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, testSkinnedMesh(true).Write(&buf))

		header := 4 + 2 + 2 + 4 + 2*(64+16) + 5*4 + 24 + 16 + 6*2
		assert.Equal(t, header+6*56, buf.Len())
	})
}

func TestSkinnedMeshColorBackfill(t *testing.T) {
	// One colored vertex forces the 56-byte layout; colorless vertices are
	// written with transparent black.
	mesh := testSkinnedMesh(false)
	mesh.Submeshes[0].Vertices[0].Color = &geom.ColorRGBA{R: 1, G: 1, B: 1, A: 1}

	var buf bytes.Buffer
	require.NoError(t, mesh.Write(&buf))

	decoded, err := ReadSkinnedMesh(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	require.NotNil(t, decoded.Submeshes[0].Vertices[0].Color)
	assert.Equal(t, geom.ColorRGBA{R: 1, G: 1, B: 1, A: 1}, *decoded.Submeshes[0].Vertices[0].Color)
	require.NotNil(t, decoded.Submeshes[0].Vertices[1].Color)
	assert.Equal(t, geom.ColorRGBA{}, *decoded.Submeshes[0].Vertices[1].Color)
}

func TestSkinnedMeshErrors(t *testing.T) {
	t.Run("bad magic", func(t *testing.T) {
		_, err := ReadSkinnedMesh(bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff, 4, 0, 1, 0}))
		assert.ErrorIs(t, err, ErrFormat)
	})

	t.Run("unsupported version", func(t *testing.T) {
		var buf bytes.Buffer
		w := binio.NewWriter(&buf)
		require.NoError(t, w.WriteU32(0x00112233))
		require.NoError(t, w.WriteU16(7))
		require.NoError(t, w.WriteU16(0))
		require.NoError(t, w.Flush())
		_, err := ReadSkinnedMesh(bytes.NewReader(buf.Bytes()))
		assert.ErrorIs(t, err, ErrFormat)
	})
}

// buildStaticObject writes a version 3.2 SCB file with two materials.
func buildStaticObject(t *testing.T, withColors bool) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := binio.NewWriter(&buf)
	require.NoError(t, w.WriteString("r3d2Mesh"))
	require.NoError(t, w.WriteU16(3))
	require.NoError(t, w.WriteU16(2))
	require.NoError(t, w.WritePaddedString("barrel", 128))
	require.NoError(t, w.WriteU32(4)) // vertex count
	require.NoError(t, w.WriteU32(2)) // face count
	require.NoError(t, w.WriteU32(0)) // flags

	box := geom.Box3D{Min: geom.Vector3{X: 0, Y: 0, Z: 0}, Max: geom.Vector3{X: 1, Y: 1, Z: 0}}
	require.NoError(t, box.Write(w))

	if withColors {
		require.NoError(t, w.WriteU32(1))
	} else {
		require.NoError(t, w.WriteU32(0))
	}

	positions := []geom.Vector3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 1, Y: 1, Z: 0},
	}
	for _, p := range positions {
		require.NoError(t, p.Write(w))
	}
	if withColors {
		for range positions {
			require.NoError(t, geom.ColorRGBA{R: 1, G: 1, B: 1, A: 1}.WriteU8(w))
		}
	}

	center := geom.Vector3{X: 0.5, Y: 0.5, Z: 0}
	require.NoError(t, center.Write(w))

	writeFace := func(a, b, c uint32, material string) {
		require.NoError(t, w.WriteU32(a))
		require.NoError(t, w.WriteU32(b))
		require.NoError(t, w.WriteU32(c))
		require.NoError(t, w.WritePaddedString(material, 64))
		for i := 0; i < 3; i++ {
			require.NoError(t, geom.Vector2{X: 0, Y: 0}.Write(w))
		}
	}
	writeFace(0, 1, 2, "wood")
	writeFace(1, 3, 2, "metal")

	require.NoError(t, w.Flush())
	return buf.Bytes()
}

func TestStaticObjectRead(t *testing.T) {
	obj, err := ReadStaticObject(bytes.NewReader(buildStaticObject(t, false)))
	require.NoError(t, err)

	assert.Equal(t, "barrel", obj.Name)
	require.Len(t, obj.Submeshes, 2)

	// Submeshes come out sorted by material.
	assert.Equal(t, "metal", obj.Submeshes[0].Name)
	assert.Equal(t, "wood", obj.Submeshes[1].Name)

	// The metal face uses vertices 1..3, rebased to 0..2.
	metal := obj.Submeshes[0]
	assert.Equal(t, []uint32{0, 2, 1}, metal.Indices)
	require.Len(t, metal.Vertices, 3)
	assert.Equal(t, geom.Vector3{X: 1, Y: 0, Z: 0}, metal.Vertices[0].Position)
	assert.Nil(t, metal.Vertices[0].Color)

	wood := obj.Submeshes[1]
	assert.Equal(t, []uint32{0, 1, 2}, wood.Indices)
	require.Len(t, wood.Vertices, 3)
}

func TestStaticObjectVertexColors(t *testing.T) {
	obj, err := ReadStaticObject(bytes.NewReader(buildStaticObject(t, true)))
	require.NoError(t, err)

	for _, sub := range obj.Submeshes {
		for _, v := range sub.Vertices {
			require.NotNil(t, v.Color)
			assert.Equal(t, geom.ColorRGBA{R: 1, G: 1, B: 1, A: 1}, *v.Color)
		}
	}
}

func TestStaticObjectErrors(t *testing.T) {
	t.Run("bad magic", func(t *testing.T) {
		_, err := ReadStaticObject(bytes.NewReader([]byte("notamesh\x03\x00\x02\x00")))
		assert.ErrorIs(t, err, ErrFormat)
	})

	t.Run("face index out of range", func(t *testing.T) {
		data := buildStaticObject(t, false)
		// First face index lives right after name, counts, flags, box,
		// color flag, 4 positions and the central point.
		faceOffset := 8 + 2 + 2 + 128 + 4 + 4 + 4 + 24 + 4 + 4*12 + 12
		data[faceOffset] = 0xee
		_, err := ReadStaticObject(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrFormat)
	})
}
