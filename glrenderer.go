package main

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"luminacraft/render"
)

// glRenderer draws chunk meshes with the block program.
type glRenderer struct {
	window  *glfw.Window
	program uint32
	atlas   uint32

	clearColor mgl32.Vec3
	queue      render.CommandQueue

	meshes    int
	drawCalls int
}

func newGLRenderer(window *glfw.Window, program uint32) *glRenderer {
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	return &glRenderer{
		window:     window,
		program:    program,
		clearColor: mgl32.Vec3{0.53, 0.71, 0.92},
	}
}

// setAtlas binds the block texture to unit 0 and tells the shader its grid.
func (r *glRenderer) setAtlas(texture uint32, grid float32) {
	r.atlas = texture
	if r.program == 0 {
		return
	}
	gl.UseProgram(r.program)
	gl.Uniform1i(uniform(r.program, "atlas"), 0)
	gl.Uniform1f(uniform(r.program, "atlasGrid"), grid)
}

func (r *glRenderer) CreateMeshBuffers(vertices []render.Vertex, indices []uint32) render.MeshHandles {
	var m render.MeshHandles
	if len(vertices) == 0 || len(indices) == 0 {
		return m
	}

	gl.GenVertexArrays(1, &m.VAO)
	gl.BindVertexArray(m.VAO)

	gl.GenBuffers(1, &m.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*render.VertexSize, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	// position
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.UNSIGNED_BYTE, false, render.VertexSize, 0)
	// atlas cell
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.UNSIGNED_BYTE, false, render.VertexSize, 3)

	gl.BindVertexArray(0)
	r.meshes++
	return m
}

func (r *glRenderer) DeleteMeshBuffers(m render.MeshHandles) {
	if !m.Valid() {
		return
	}
	gl.DeleteBuffers(1, &m.VBO)
	gl.DeleteBuffers(1, &m.EBO)
	gl.DeleteVertexArrays(1, &m.VAO)
	r.meshes--
}

func (r *glRenderer) DrawIndexed(modelLoc render.UniformLocation, model mgl32.Mat4, mesh render.MeshHandles, count int) {
	if r.program == 0 || !mesh.Valid() {
		return
	}
	r.SetMat4(modelLoc, model)
	gl.BindVertexArray(mesh.VAO)
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, 0)
	r.drawCalls++
}

func (r *glRenderer) UniformLocation(name string) render.UniformLocation {
	return render.UniformLocation(uniform(r.program, name))
}

func (r *glRenderer) SetMat4(loc render.UniformLocation, m mgl32.Mat4) {
	if loc == render.NoUniform {
		return
	}
	gl.UniformMatrix4fv(int32(loc), 1, false, &m[0])
}

func (r *glRenderer) SetVec3(loc render.UniformLocation, v mgl32.Vec3) {
	if loc == render.NoUniform {
		return
	}
	gl.Uniform3f(int32(loc), v.X(), v.Y(), v.Z())
}

func (r *glRenderer) BeginFrame() {
	gl.ClearColor(r.clearColor.X(), r.clearColor.Y(), r.clearColor.Z(), 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	r.drawCalls = 0
}

// use binds the block program and atlas for terrain drawing.
func (r *glRenderer) use() {
	gl.Enable(gl.CULL_FACE)
	gl.Enable(gl.DEPTH_TEST)
	gl.UseProgram(r.program)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.atlas)
}

// EndFrame runs the deferred commands and presents the frame.
func (r *glRenderer) EndFrame() {
	r.queue.Flush()
	gl.BindVertexArray(0)
	r.window.SwapBuffers()
}

func (r *glRenderer) Submit(cmd func()) {
	r.queue.Submit(cmd)
}

func (r *glRenderer) delete() {
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
	if r.atlas != 0 {
		gl.DeleteTextures(1, &r.atlas)
	}
}
