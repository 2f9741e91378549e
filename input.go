package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"luminacraft/render"
	"luminacraft/world"
)

// windowInput polls glfw for the world and handles the debug toggles.
type windowInput struct {
	window *glfw.Window
	region *world.Region
	log    logrus.FieldLogger

	showHUD  bool
	captured bool
	monitor  *glfw.Monitor

	width, height int
}

func newWindowInput(window *glfw.Window, region *world.Region, log logrus.FieldLogger, showHUD bool) *windowInput {
	in := &windowInput{window: window, region: region, log: log, showHUD: showHUD}
	in.width, in.height = window.GetSize()
	window.SetKeyCallback(in.onKey)
	window.SetMouseButtonCallback(in.onMouseButton)
	in.capture()
	return in
}

func (in *windowInput) IsKeyPressed(key render.Key) bool {
	return in.window.GetKey(glfw.Key(key)) == glfw.Press
}

func (in *windowInput) IsMouseButtonPressed(button render.MouseButton) bool {
	return in.captured && in.window.GetMouseButton(glfw.MouseButton(button)) == glfw.Press
}

func (in *windowInput) MousePosition() mgl32.Vec2 {
	if !in.captured {
		return mgl32.Vec2{}
	}
	x, y := in.window.GetCursorPos()
	return mgl32.Vec2{float32(x), float32(y)}
}

func (in *windowInput) capture() {
	in.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	in.region.Player().Camera().ResetMouse()
	in.captured = true
}

func (in *windowInput) release() {
	in.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	in.captured = false
}

func (in *windowInput) onKey(window *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	switch key {
	case glfw.KeyF3:
		in.showHUD = !in.showHUD
	case glfw.KeyF4:
		on := !in.region.FrustumCulling()
		in.region.SetFrustumCulling(on)
		in.log.WithField("enabled", on).Info("Frustum culling toggled.")
	case glfw.KeyEscape:
		in.release()
	case glfw.KeyF11:
		in.toggleFullscreen()
	}
}

func (in *windowInput) onMouseButton(window *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Press && !in.captured {
		in.capture()
	}
}

func (in *windowInput) toggleFullscreen() {
	if in.monitor == nil {
		in.monitor = glfw.GetPrimaryMonitor()
		mode := in.monitor.GetVideoMode()
		in.window.SetMonitor(in.monitor, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
		return
	}
	mode := in.monitor.GetVideoMode()
	in.monitor = nil
	in.window.SetMonitor(nil, (mode.Width-in.width)/2, (mode.Height-in.height)/2, in.width, in.height, 0)
}
