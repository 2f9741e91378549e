package main

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"luminacraft/world"
)

// lineRenderer draws the world's debug lines as GL_LINES, one segment at a
// time through a small dynamic buffer.
type lineRenderer struct {
	vao, vbo uint32
	program  uint32

	vpLoc, colorLoc int32
	scratch         [6]float32
}

func newLineRenderer(shaderDir string) (*lineRenderer, error) {
	prog, err := newProgram(shaderDir, "line")
	if err != nil {
		return nil, err
	}
	l := &lineRenderer{
		program:  prog,
		vpLoc:    uniform(prog, "viewProjection"),
		colorLoc: uniform(prog, "lineColor"),
	}
	gl.GenVertexArrays(1, &l.vao)
	gl.BindVertexArray(l.vao)
	gl.GenBuffers(1, &l.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, l.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(l.scratch)*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.BindVertexArray(0)
	return l, nil
}

func (l *lineRenderer) draw(lines []world.DebugLine, viewProjection mgl32.Mat4) {
	if l == nil || len(lines) == 0 {
		return
	}
	gl.UseProgram(l.program)
	gl.UniformMatrix4fv(l.vpLoc, 1, false, &viewProjection[0])
	gl.LineWidth(2)
	gl.BindVertexArray(l.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, l.vbo)
	for _, line := range lines {
		copy(l.scratch[:3], line.Start[:])
		copy(l.scratch[3:], line.End[:])
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(l.scratch)*4, gl.Ptr(&l.scratch[0]))
		gl.Uniform3f(l.colorLoc, line.Color.X(), line.Color.Y(), line.Color.Z())
		gl.DrawArrays(gl.LINES, 0, 2)
	}
	gl.BindVertexArray(0)
}

func (l *lineRenderer) delete() {
	if l == nil {
		return
	}
	gl.DeleteBuffers(1, &l.vbo)
	gl.DeleteVertexArrays(1, &l.vao)
	gl.DeleteProgram(l.program)
}
