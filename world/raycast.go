package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// BlockSource answers world-space block queries.
type BlockSource interface {
	GetBlockAtWorldPosition(x, y, z int) BlockType
}

// deltaGuard stands in for an infinite boundary distance on an axis the ray
// does not move along.
const deltaGuard = 1e7

// Raycast walks the voxels crossed by the segment start→end and returns the
// first solid block with its position. Travel stops at the end of the
// segment or after maxDistance, whichever comes first; then the result is
// Air at the last voxel visited.
//
// Boundary distances are float64 so that long segments keep advancing.
func Raycast(src BlockSource, start, end mgl32.Vec3, maxDistance float32) (BlockType, BlockPos) {
	voxel := BlockPos{floor(start.X()), floor(start.Y()), floor(start.Z())}

	dir := end.Sub(start)
	length := float64(dir.Len())
	if length == 0 || math.IsNaN(length) || math.IsInf(length, 0) ||
		isNaN(start.X()) || isNaN(start.Y()) || isNaN(start.Z()) {
		if b := src.GetBlockAtWorldPosition(voxel.X, voxel.Y, voxel.Z); b.IsSolid() {
			return b, voxel
		}
		return Air, voxel
	}

	stepX, deltaX, maxX := axis(start.X(), dir.X())
	stepY, deltaY, maxY := axis(start.Y(), dir.Y())
	stepZ, deltaZ, maxZ := axis(start.Z(), dir.Z())

	limit := float64(maxDistance)
	// a segment of length d crosses at most d+1 boundaries per axis
	budget := length
	if limit >= 0 && limit < budget {
		budget = limit
	}
	steps := 3*int(math.Ceil(budget)) + 3

	for ; steps >= 0; steps-- {
		if b := src.GetBlockAtWorldPosition(voxel.X, voxel.Y, voxel.Z); b.IsSolid() {
			return b, voxel
		}

		t := min(maxX, maxY, maxZ)
		if t > 1 || t*length > limit {
			break
		}

		switch {
		case maxX <= maxY && maxX <= maxZ:
			voxel.X += stepX
			maxX += deltaX
		case maxY <= maxZ:
			voxel.Y += stepY
			maxY += deltaY
		default:
			voxel.Z += stepZ
			maxZ += deltaZ
		}
	}
	return Air, voxel
}

// axis returns the step direction, the parametric distance between two
// boundaries and the parametric distance to the first boundary along one
// axis of a segment whose full length is t=1.
func axis(origin, d float32) (step int, delta, next float64) {
	switch {
	case d > 0:
		delta = min(1/float64(d), deltaGuard)
		return 1, delta, delta * frac1(origin)
	case d < 0:
		delta = min(-1/float64(d), deltaGuard)
		return -1, delta, delta * frac0(origin)
	}
	return 0, deltaGuard, deltaGuard
}

func frac0(x float32) float64 {
	return float64(x) - math.Floor(float64(x))
}

func frac1(x float32) float64 {
	return 1 - float64(x) + math.Floor(float64(x))
}

func floor(x float32) int {
	return int(math.Floor(float64(x)))
}

func isNaN(x float32) bool {
	return x != x
}
