package player

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"luminacraft/render"
)

const (
	pitchLimit = 89.9
	nearPlane  = 0.01
	farPlane   = 10000.0
)

// CameraSettings are the tunables a Camera is built from.
type CameraSettings struct {
	FOV              float32
	Sensitivity      float32
	Speed            float32
	SprintMultiplier float32
}

func DefaultCameraSettings() CameraSettings {
	return CameraSettings{FOV: 50, Sensitivity: 0.1, Speed: 6, SprintMultiplier: 4}
}

// Camera is a free-flying first person camera driven by mouse look and WASD.
type Camera struct {
	settings CameraSettings

	position mgl32.Vec3
	front    mgl32.Vec3
	right    mgl32.Vec3
	up       mgl32.Vec3
	worldUp  mgl32.Vec3

	yaw, pitch float32
	aspect     float32

	lastMouse  mgl32.Vec2
	firstMouse bool
	sprinting  bool
}

func NewCamera(position mgl32.Vec3, settings CameraSettings) *Camera {
	c := &Camera{
		settings:   settings,
		position:   position,
		worldUp:    mgl32.Vec3{0, 1, 0},
		yaw:        -90,
		aspect:     16.0 / 9.0,
		firstMouse: true,
	}
	c.updateVectors()
	return c
}

// Update applies one frame of mouse look and keyboard movement.
func (c *Camera) Update(dt float32, in render.Input) {
	mouse := in.MousePosition()
	mouse[1] = -mouse[1]
	if c.firstMouse {
		c.lastMouse = mouse
		c.firstMouse = false
	}
	delta := mouse.Sub(c.lastMouse)
	c.lastMouse = mouse
	c.Rotate(delta.X()*c.settings.Sensitivity, delta.Y()*c.settings.Sensitivity)

	velocity := c.settings.Speed * dt
	c.sprinting = in.IsKeyPressed(render.KeyLeftShift)
	if c.sprinting {
		velocity *= c.settings.SprintMultiplier
	}

	var direction mgl32.Vec3
	if in.IsKeyPressed(render.KeyW) {
		direction = direction.Add(c.front)
	}
	if in.IsKeyPressed(render.KeyS) {
		direction = direction.Sub(c.front)
	}
	if in.IsKeyPressed(render.KeyA) {
		direction = direction.Sub(c.right)
	}
	if in.IsKeyPressed(render.KeyD) {
		direction = direction.Add(c.right)
	}
	c.position = c.position.Add(direction.Mul(velocity))
}

// Rotate turns the camera by the given offsets in degrees. Pitch is clamped
// short of straight up or down.
func (c *Camera) Rotate(yawOffset, pitchOffset float32) {
	c.yaw += yawOffset
	c.pitch = mgl32.Clamp(c.pitch+pitchOffset, -pitchLimit, pitchLimit)
	c.updateVectors()
}

// ResetMouse makes the next Update treat the cursor position as the origin,
// used after the cursor is recaptured.
func (c *Camera) ResetMouse() {
	c.firstMouse = true
}

func (c *Camera) updateVectors() {
	yaw := float64(mgl32.DegToRad(c.yaw))
	pitch := float64(mgl32.DegToRad(c.pitch))
	c.front = mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}.Normalize()
	c.right = c.front.Cross(c.worldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}

func (c *Camera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.aspect = float32(width) / float32(height)
}

func (c *Camera) SetPosition(p mgl32.Vec3) { c.position = p }

func (c *Camera) Position() mgl32.Vec3 { return c.position }
func (c *Camera) Forward() mgl32.Vec3  { return c.front }
func (c *Camera) Yaw() float32         { return c.yaw }
func (c *Camera) Pitch() float32       { return c.pitch }
func (c *Camera) Sprinting() bool      { return c.sprinting }

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.position.Add(c.front), c.up)
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.settings.FOV), c.aspect, nearPlane, farPlane)
}

func (c *Camera) ViewProjectionMatrix() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}
