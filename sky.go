package main

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Unit cube, 36 vertices. Culling is off while it draws so winding does not
// matter.
var skyCube = []float32{
	// +X
	1, -1, -1, 1, 1, -1, 1, 1, 1,
	1, -1, -1, 1, 1, 1, 1, -1, 1,
	// -X
	-1, -1, -1, -1, -1, 1, -1, 1, 1,
	-1, -1, -1, -1, 1, 1, -1, 1, -1,
	// +Y
	-1, 1, -1, 1, 1, -1, 1, 1, 1,
	-1, 1, -1, 1, 1, 1, -1, 1, 1,
	// -Y
	-1, -1, -1, -1, -1, 1, 1, -1, 1,
	-1, -1, -1, 1, -1, 1, 1, -1, -1,
	// +Z
	-1, -1, 1, 1, -1, 1, 1, 1, 1,
	-1, -1, 1, 1, 1, 1, -1, 1, 1,
	// -Z
	-1, -1, -1, 1, -1, -1, 1, 1, -1,
	-1, -1, -1, 1, 1, -1, -1, 1, -1,
}

// sky draws a gradient cube centred on the camera.
type sky struct {
	vao, vbo uint32
	program  uint32

	viewLoc, projLoc int32
}

func newSky(shaderDir string) (*sky, error) {
	prog, err := newProgram(shaderDir, "sky")
	if err != nil {
		return nil, err
	}
	s := &sky{
		program: prog,
		viewLoc: uniform(prog, "view"),
		projLoc: uniform(prog, "projection"),
	}

	gl.GenVertexArrays(1, &s.vao)
	gl.BindVertexArray(s.vao)
	gl.GenBuffers(1, &s.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(skyCube)*4, gl.Ptr(skyCube), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return s, nil
}

// draw renders behind everything. Call it after clearing and before terrain.
func (s *sky) draw(projection, view mgl32.Mat4) {
	if s == nil {
		return
	}
	// rotation only
	view = view.Mat3().Mat4()

	gl.DepthMask(false)
	gl.DepthFunc(gl.LEQUAL)
	gl.Disable(gl.CULL_FACE)

	gl.UseProgram(s.program)
	gl.UniformMatrix4fv(s.projLoc, 1, false, &projection[0])
	gl.UniformMatrix4fv(s.viewLoc, 1, false, &view[0])
	gl.BindVertexArray(s.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(skyCube)/3))
	gl.BindVertexArray(0)

	gl.Enable(gl.CULL_FACE)
	gl.DepthFunc(gl.LESS)
	gl.DepthMask(true)
}

func (s *sky) delete() {
	if s == nil {
		return
	}
	gl.DeleteBuffers(1, &s.vbo)
	gl.DeleteVertexArrays(1, &s.vao)
	gl.DeleteProgram(s.program)
}
