// Package render holds the contracts between the world core and whatever
// draws it. Nothing in here talks to a GPU.
package render

import "github.com/go-gl/mathgl/mgl32"

// Vertex is one corner of a block face in chunk-local space. Texture
// coordinates are atlas-grid cells, not normalised UVs.
type Vertex struct {
	X, Y, Z uint8
	U, V    uint8
}

// VertexSize is the packed size of a Vertex in bytes.
const VertexSize = 5

// MeshHandles identifies the GPU objects created for one mesh.
type MeshHandles struct {
	VAO uint32
	VBO uint32
	EBO uint32
}

// Valid reports whether the handles refer to uploaded buffers.
func (m MeshHandles) Valid() bool {
	return m.VAO != 0
}

// UniformLocation is a shader uniform slot. NoUniform means the bound program
// has no uniform of that name; setters ignore it.
type UniformLocation int32

const NoUniform UniformLocation = -1

// Renderer is the façade the world submits geometry through. All methods must
// be called from the goroutine that owns the rendering context.
type Renderer interface {
	CreateMeshBuffers(vertices []Vertex, indices []uint32) MeshHandles
	DeleteMeshBuffers(mesh MeshHandles)
	DrawIndexed(modelLoc UniformLocation, model mgl32.Mat4, mesh MeshHandles, count int)

	UniformLocation(name string) UniformLocation
	SetMat4(loc UniformLocation, m mgl32.Mat4)
	SetVec3(loc UniformLocation, v mgl32.Vec3)

	BeginFrame()
	EndFrame()

	// Submit defers cmd until the end of the current frame.
	Submit(cmd func())
}
