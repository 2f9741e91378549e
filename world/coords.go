package world

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ChunkCoord is a chunk position in chunk space. It is comparable and used
// directly as a map key.
type ChunkCoord struct {
	X, Y, Z int32
}

func (c ChunkCoord) Add(o ChunkCoord) ChunkCoord {
	return ChunkCoord{c.X + o.X, c.Y + o.Y, c.Z + o.Z}
}

func (c ChunkCoord) Neighbor(d Direction) ChunkCoord {
	return c.Add(faces[d].offset)
}

// WorldOrigin is the world-space position of the chunk's (0,0,0) corner.
func (c ChunkCoord) WorldOrigin(n int) mgl32.Vec3 {
	return mgl32.Vec3{float32(int(c.X) * n), float32(int(c.Y) * n), float32(int(c.Z) * n)}
}

func (c ChunkCoord) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(c.X), float32(c.Y), float32(c.Z)}
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z)
}

// BlockPos is an integer voxel position in world space.
type BlockPos struct {
	X, Y, Z int
}

func (p BlockPos) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(p.X), float32(p.Y), float32(p.Z)}
}

// Center is the world-space centre of the voxel.
func (p BlockPos) Center() mgl32.Vec3 {
	return p.Vec3().Add(mgl32.Vec3{0.5, 0.5, 0.5})
}

// WorldToChunkCoords returns the chunk containing world position p.
func WorldToChunkCoords(p mgl32.Vec3, n int) ChunkCoord {
	s := float64(n)
	return ChunkCoord{
		int32(math.Floor(float64(p.X()) / s)),
		int32(math.Floor(float64(p.Y()) / s)),
		int32(math.Floor(float64(p.Z()) / s)),
	}
}

// WorldToLocalChunkCoords returns p relative to the origin of chunk c.
func WorldToLocalChunkCoords(p mgl32.Vec3, c ChunkCoord, n int) mgl32.Vec3 {
	return p.Sub(c.WorldOrigin(n))
}

// DistanceMetric measures how far a chunk is from the observer's chunk, in
// chunks.
type DistanceMetric func(a, b ChunkCoord) float64

func EuclideanDistance(a, b ChunkCoord) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	dz := float64(a.Z - b.Z)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func ChebyshevDistance(a, b ChunkCoord) float64 {
	return math.Max(math.Abs(float64(a.X-b.X)), math.Max(math.Abs(float64(a.Y-b.Y)), math.Abs(float64(a.Z-b.Z))))
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
