package geom

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valdris/riftkit/pkg/binio"
)

func TestVectorRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := binio.NewWriter(&buf)

	v2 := Vector2{X: 1, Y: -2}
	v3 := Vector3{X: 0.5, Y: 100, Z: -0.25}
	v4 := Vector4{X: 1, Y: 2, Z: 3, W: 4}
	require.NoError(t, v2.Write(w))
	require.NoError(t, v3.Write(w))
	require.NoError(t, v4.Write(w))
	require.NoError(t, w.Flush())
	assert.Len(t, buf.Bytes(), 8+12+16)

	r := binio.NewBytesReader(buf.Bytes())
	got2, err := ReadVector2(r)
	require.NoError(t, err)
	assert.Equal(t, v2, got2)
	got3, err := ReadVector3(r)
	require.NoError(t, err)
	assert.Equal(t, v3, got3)
	got4, err := ReadVector4(r)
	require.NoError(t, err)
	assert.Equal(t, v4, got4)
}

func TestMatrixRowMajor(t *testing.T) {
	var m Matrix44
	counter := float32(0)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			m[i][j] = counter
			counter++
		}
	}

	var buf bytes.Buffer
	w := binio.NewWriter(&buf)
	require.NoError(t, m.Write(w))
	require.NoError(t, w.Flush())
	require.Len(t, buf.Bytes(), 64)

	// First row lands first on the wire.
	r := binio.NewBytesReader(buf.Bytes())
	first, err := r.ReadF32()
	require.NoError(t, err)
	assert.Equal(t, float32(0), first)
	second, err := r.ReadF32()
	require.NoError(t, err)
	assert.Equal(t, float32(1), second)

	r = binio.NewBytesReader(buf.Bytes())
	got, err := ReadMatrix44(r)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestColorU8(t *testing.T) {
	t.Run("decode scales by 255", func(t *testing.T) {
		r := binio.NewBytesReader([]byte{255, 0, 51, 102})
		c, err := ReadColorU8(r)
		require.NoError(t, err)
		assert.Equal(t, float32(1), c.R)
		assert.Equal(t, float32(0), c.G)
		assert.InDelta(t, 0.2, c.B, 0.001)
		assert.InDelta(t, 0.4, c.A, 0.001)
	})

	t.Run("encode truncates", func(t *testing.T) {
		var buf bytes.Buffer
		w := binio.NewWriter(&buf)
		c := ColorRGBA{R: 0.999, G: 0, B: 1, A: 0.5}
		require.NoError(t, c.WriteU8(w))
		require.NoError(t, w.Flush())

		// 0.999*255 = 254.745 truncates to 254, not 255.
		assert.Equal(t, []byte{254, 0, 255, 127}, buf.Bytes())
	})
}

func TestColorF32RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := binio.NewWriter(&buf)
	c := ColorRGBA{R: 0.25, G: 0.5, B: 0.75, A: 1}
	require.NoError(t, c.WriteF32(w))
	require.NoError(t, w.Flush())
	assert.Len(t, buf.Bytes(), 16)

	r := binio.NewBytesReader(buf.Bytes())
	got, err := ReadColorF32(r)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestBoundsRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := binio.NewWriter(&buf)

	box := Box3D{Min: Vector3{X: -1, Y: -2, Z: -3}, Max: Vector3{X: 1, Y: 2, Z: 3}}
	sphere := Sphere{Center: Vector3{X: 1, Y: 1, Z: 1}, Radius: 5}
	require.NoError(t, box.Write(w))
	require.NoError(t, sphere.Write(w))
	require.NoError(t, w.Flush())

	r := binio.NewBytesReader(buf.Bytes())
	gotBox, err := ReadBox3D(r)
	require.NoError(t, err)
	assert.Equal(t, box, gotBox)
	gotSphere, err := ReadSphere(r)
	require.NoError(t, err)
	assert.Equal(t, sphere, gotSphere)

	assert.False(t, box.IsZero())
	assert.True(t, Box3D{}.IsZero())
	assert.False(t, sphere.IsZero())
	assert.True(t, Sphere{}.IsZero())
}

func TestDistance(t *testing.T) {
	a := Vector3{X: 0, Y: 0, Z: 0}
	b := Vector3{X: 3, Y: 4, Z: 0}
	assert.Equal(t, float32(5), Distance(a, b))
}
