package wgeo

import (
	"math"

	"github.com/valdris/riftkit/pkg/binio"
	"github.com/valdris/riftkit/pkg/geom"
)

// BucketGrid is the square culling grid stored at the end of a version 5
// file. Geometry is flattened into one vertex/index pool; each bucket
// references a slice of it. The grid is two-dimensional over XZ, so only
// those axes of the bounds are on the wire.
type BucketGrid struct {
	Bounds   geom.Box3D
	Vertices []geom.Vector3
	Indices  []uint16
	Buckets  [][]Bucket
}

// Bucket is one grid cell: a face range in the shared pool plus how far
// geometry assigned to this cell sticks out of it.
type Bucket struct {
	MaxStickOutX         float32
	MaxStickOutZ         float32
	StartIndex           uint32
	BaseVertex           uint32
	InsideFaceCount      uint16
	StickingOutFaceCount uint16
}

func readBucketGrid(r *binio.Reader) (BucketGrid, error) {
	var g BucketGrid

	var header struct {
		minX, minZ, maxX, maxZ     float32
		stickOutX, stickOutZ       float32
		bucketSizeX, bucketSizeZ   float32
		bucketsPerSide, unknown    uint16
		vertexCount, indexCount    uint32
	}
	var err error
	if header.minX, err = r.ReadF32(); err != nil {
		return g, err
	}
	if header.minZ, err = r.ReadF32(); err != nil {
		return g, err
	}
	if header.maxX, err = r.ReadF32(); err != nil {
		return g, err
	}
	if header.maxZ, err = r.ReadF32(); err != nil {
		return g, err
	}
	if header.stickOutX, err = r.ReadF32(); err != nil {
		return g, err
	}
	if header.stickOutZ, err = r.ReadF32(); err != nil {
		return g, err
	}
	if header.bucketSizeX, err = r.ReadF32(); err != nil {
		return g, err
	}
	if header.bucketSizeZ, err = r.ReadF32(); err != nil {
		return g, err
	}
	if header.bucketsPerSide, err = r.ReadU16(); err != nil {
		return g, err
	}
	if header.unknown, err = r.ReadU16(); err != nil {
		return g, err
	}
	if header.vertexCount, err = r.ReadU32(); err != nil {
		return g, err
	}
	if header.indexCount, err = r.ReadU32(); err != nil {
		return g, err
	}

	g.Bounds = geom.Box3D{
		Min: geom.Vector3{X: header.minX, Y: float32(math.Inf(-1)), Z: header.minZ},
		Max: geom.Vector3{X: header.maxX, Y: float32(math.Inf(1)), Z: header.maxZ},
	}

	g.Vertices = make([]geom.Vector3, 0, header.vertexCount)
	for i := 0; i < int(header.vertexCount); i++ {
		v, err := geom.ReadVector3(r)
		if err != nil {
			return g, err
		}
		g.Vertices = append(g.Vertices, v)
	}
	g.Indices = make([]uint16, 0, header.indexCount)
	for i := 0; i < int(header.indexCount); i++ {
		idx, err := r.ReadU16()
		if err != nil {
			return g, err
		}
		g.Indices = append(g.Indices, idx)
	}

	g.Buckets = make([][]Bucket, 0, header.bucketsPerSide)
	for i := 0; i < int(header.bucketsPerSide); i++ {
		row := make([]Bucket, 0, header.bucketsPerSide)
		for j := 0; j < int(header.bucketsPerSide); j++ {
			bucket, err := readBucket(r)
			if err != nil {
				return g, err
			}
			row = append(row, bucket)
		}
		g.Buckets = append(g.Buckets, row)
	}
	return g, nil
}

// write re-derives the header fields from the current grid contents rather
// than echoing whatever was read.
func (g *BucketGrid) write(w *binio.Writer) error {
	bounds := g.GridBounds()
	stickOutX, stickOutZ := g.MaxStickOut()
	bucketSizeX, bucketSizeZ := g.BucketSize()

	w.WriteF32(bounds.Min.X)
	w.WriteF32(bounds.Min.Z)
	w.WriteF32(bounds.Max.X)
	w.WriteF32(bounds.Max.Z)
	w.WriteF32(stickOutX)
	w.WriteF32(stickOutZ)
	w.WriteF32(bucketSizeX)
	w.WriteF32(bucketSizeZ)
	w.WriteU16(g.BucketsPerSide())
	w.WriteU16(0)
	w.WriteU32(uint32(len(g.Vertices)))
	w.WriteU32(uint32(len(g.Indices)))

	for _, v := range g.Vertices {
		v.Write(w)
	}
	for _, idx := range g.Indices {
		w.WriteU16(idx)
	}
	for _, row := range g.Buckets {
		for _, b := range row {
			b.write(w)
		}
	}
	return nil
}

func readBucket(r *binio.Reader) (Bucket, error) {
	var b Bucket
	var err error
	if b.MaxStickOutX, err = r.ReadF32(); err != nil {
		return b, err
	}
	if b.MaxStickOutZ, err = r.ReadF32(); err != nil {
		return b, err
	}
	if b.StartIndex, err = r.ReadU32(); err != nil {
		return b, err
	}
	if b.BaseVertex, err = r.ReadU32(); err != nil {
		return b, err
	}
	if b.InsideFaceCount, err = r.ReadU16(); err != nil {
		return b, err
	}
	if b.StickingOutFaceCount, err = r.ReadU16(); err != nil {
		return b, err
	}
	return b, nil
}

func (b Bucket) write(w *binio.Writer) {
	w.WriteF32(b.MaxStickOutX)
	w.WriteF32(b.MaxStickOutZ)
	w.WriteU32(b.StartIndex)
	w.WriteU32(b.BaseVertex)
	w.WriteU16(b.InsideFaceCount)
	w.WriteU16(b.StickingOutFaceCount)
}

// GridBounds returns the grid bounds, deriving them from the vertex pool
// (and caching them) when the stored bounds are zero.
func (g *BucketGrid) GridBounds() geom.Box3D {
	if g.Bounds.IsZero() && len(g.Vertices) > 0 {
		min := geom.Vector3{X: g.Vertices[0].X, Y: float32(math.Inf(-1)), Z: g.Vertices[0].Z}
		max := geom.Vector3{X: g.Vertices[0].X, Y: float32(math.Inf(1)), Z: g.Vertices[0].Z}
		for _, v := range g.Vertices {
			if min.X > v.X {
				min.X = v.X
			}
			if min.Z > v.Z {
				min.Z = v.Z
			}
			if max.X < v.X {
				max.X = v.X
			}
			if max.Z < v.Z {
				max.Z = v.Z
			}
		}
		g.Bounds = geom.Box3D{Min: min, Max: max}
	}
	return g.Bounds
}

// MaxStickOut returns the largest per-axis stick-out over all buckets.
func (g *BucketGrid) MaxStickOut() (x, z float32) {
	for _, row := range g.Buckets {
		for _, b := range row {
			if x < b.MaxStickOutX {
				x = b.MaxStickOutX
			}
			if z < b.MaxStickOutZ {
				z = b.MaxStickOutZ
			}
		}
	}
	return x, z
}

// BucketSize returns the world-space extent of one bucket along X and Z.
func (g *BucketGrid) BucketSize() (x, z float32) {
	if len(g.Buckets) == 0 {
		return 0, 0
	}
	bounds := g.GridBounds()
	lengthX := float32(math.Abs(float64(bounds.Min.X))) + float32(math.Abs(float64(bounds.Max.X)))
	lengthZ := float32(math.Abs(float64(bounds.Min.Z))) + float32(math.Abs(float64(bounds.Max.Z)))
	perSide := float32(g.BucketsPerSide())
	return lengthX / perSide, lengthZ / perSide
}

// BucketsPerSide returns the grid dimension; the grid is always square.
func (g *BucketGrid) BucketsPerSide() uint16 {
	return uint16(len(g.Buckets))
}
