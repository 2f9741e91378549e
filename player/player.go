package player

import (
	"github.com/go-gl/mathgl/mgl32"

	"luminacraft/render"
)

const (
	Width     = 0.6
	Height    = 1.8
	EyeHeight = 1.62
)

// Player is the observer the world streams around. Its position is the
// camera eye; the bounding box is kept current but nothing collides with it.
type Player struct {
	camera *Camera
	box    AABB
}

func New(spawn mgl32.Vec3, settings CameraSettings) *Player {
	p := &Player{camera: NewCamera(spawn, settings)}
	p.refreshBox()
	return p
}

func (p *Player) Update(dt float32, in render.Input) {
	p.camera.Update(dt, in)
	p.refreshBox()
}

func (p *Player) refreshBox() {
	eye := p.camera.Position()
	feet := eye.Sub(mgl32.Vec3{0, EyeHeight, 0})
	p.box = NewAABB(
		feet.Sub(mgl32.Vec3{Width / 2, 0, Width / 2}),
		feet.Add(mgl32.Vec3{Width / 2, Height, Width / 2}),
	)
}

func (p *Player) Camera() *Camera      { return p.camera }
func (p *Player) Position() mgl32.Vec3 { return p.camera.Position() }
func (p *Player) BoundingBox() AABB    { return p.box }
