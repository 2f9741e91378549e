package render

import "github.com/go-gl/mathgl/mgl32"

// Key is a logical key code. Values match GLFW so a window backend can
// convert with a plain cast.
type Key int

const (
	KeySpace       Key = 32
	KeyA           Key = 65
	KeyD           Key = 68
	KeyF           Key = 70
	KeyS           Key = 83
	KeyW           Key = 87
	KeyEscape      Key = 256
	KeyF3          Key = 292
	KeyF4          Key = 293
	KeyLeftShift   Key = 340
	KeyLeftControl Key = 341
)

type MouseButton int

const (
	MouseButtonLeft   MouseButton = 0
	MouseButtonRight  MouseButton = 1
	MouseButtonMiddle MouseButton = 2
)

// Input is polled once per frame by the world and the camera.
type Input interface {
	IsKeyPressed(key Key) bool
	IsMouseButtonPressed(button MouseButton) bool
	MousePosition() mgl32.Vec2
}
