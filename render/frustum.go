package render

import "github.com/go-gl/mathgl/mgl32"

// Plane is n·p + D = 0 with n pointing into the frustum.
type Plane struct {
	Normal mgl32.Vec3
	D      float32
}

func (p Plane) distance(point mgl32.Vec3) float32 {
	return p.Normal.Dot(point) + p.D
}

// Frustum holds the six clip planes in the order left, right, bottom, top,
// near, far.
type Frustum struct {
	Planes [6]Plane
}

// NewFrustum extracts the clip planes of a combined projection*view matrix.
func NewFrustum(viewProjection mgl32.Mat4) Frustum {
	var f Frustum
	r0, r1, r2, r3 := viewProjection.Row(0), viewProjection.Row(1), viewProjection.Row(2), viewProjection.Row(3)
	rows := [6]mgl32.Vec4{
		r3.Add(r0), r3.Sub(r0),
		r3.Add(r1), r3.Sub(r1),
		r3.Add(r2), r3.Sub(r2),
	}
	for i, r := range rows {
		n := r.Vec3()
		l := n.Len()
		if l == 0 {
			continue
		}
		f.Planes[i] = Plane{Normal: n.Mul(1 / l), D: r.W() / l}
	}
	return f
}

func (f Frustum) ContainsPoint(p mgl32.Vec3) bool {
	for _, pl := range f.Planes {
		if pl.distance(p) < 0 {
			return false
		}
	}
	return true
}

func (f Frustum) IntersectsSphere(center mgl32.Vec3, radius float32) bool {
	for _, pl := range f.Planes {
		if pl.distance(center) < -radius {
			return false
		}
	}
	return true
}

// IntersectsBox tests an axis-aligned box using the corner furthest along
// each plane normal. Boxes straddling a plane count as inside.
func (f Frustum) IntersectsBox(min, max mgl32.Vec3) bool {
	for _, pl := range f.Planes {
		positive := min
		if pl.Normal.X() >= 0 {
			positive[0] = max.X()
		}
		if pl.Normal.Y() >= 0 {
			positive[1] = max.Y()
		}
		if pl.Normal.Z() >= 0 {
			positive[2] = max.Z()
		}
		if pl.distance(positive) < 0 {
			return false
		}
	}
	return true
}
