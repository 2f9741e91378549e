package world

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"luminacraft/render"
)

// sourceFunc adapts a function to TerrainSource.
type sourceFunc func(c ChunkCoord, n int) []BlockType

func (f sourceFunc) Generate(c ChunkCoord, n int) []BlockType { return f(c, n) }

// groundSource is solid stone below world Y 0 and air above.
var groundSource = sourceFunc(func(c ChunkCoord, n int) []BlockType {
	blocks := make([]BlockType, n*n*n)
	for y := 0; y < n; y++ {
		if int(c.Y)*n+y >= 0 {
			continue
		}
		for z := 0; z < n; z++ {
			for x := 0; x < n; x++ {
				blocks[index(x, y, z, n)] = Stone
			}
		}
	}
	return blocks
})

func filled(n int, b BlockType) []BlockType {
	blocks := make([]BlockType, n*n*n)
	for i := range blocks {
		blocks[i] = b
	}
	return blocks
}

type constNoise float64

func (c constNoise) Eval2(x, y float64) float64    { return float64(c) }
func (c constNoise) Eval3(x, y, z float64) float64 { return float64(c) }

type drawCall struct {
	loc   render.UniformLocation
	model mgl32.Mat4
	mesh  render.MeshHandles
	count int
}

type fakeRenderer struct {
	mu       sync.Mutex
	next     uint32
	live     map[uint32]bool
	created  int
	deleted  int
	draws    []drawCall
	uniforms map[string]render.UniformLocation
	lookups  map[string]int
	mats     map[render.UniformLocation]mgl32.Mat4
	queue    render.CommandQueue
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		live: map[uint32]bool{},
		uniforms: map[string]render.UniformLocation{
			"view":       0,
			"projection": 1,
			"model":      2,
		},
		lookups: map[string]int{},
		mats:    map[render.UniformLocation]mgl32.Mat4{},
	}
}

func (f *fakeRenderer) CreateMeshBuffers(vertices []render.Vertex, indices []uint32) render.MeshHandles {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	f.created++
	f.live[f.next] = true
	return render.MeshHandles{VAO: f.next, VBO: f.next, EBO: f.next}
}

func (f *fakeRenderer) DeleteMeshBuffers(m render.MeshHandles) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted++
	delete(f.live, m.VAO)
}

func (f *fakeRenderer) DrawIndexed(loc render.UniformLocation, model mgl32.Mat4, mesh render.MeshHandles, count int) {
	f.draws = append(f.draws, drawCall{loc, model, mesh, count})
}

func (f *fakeRenderer) UniformLocation(name string) render.UniformLocation {
	f.lookups[name]++
	if loc, ok := f.uniforms[name]; ok {
		return loc
	}
	return render.NoUniform
}

func (f *fakeRenderer) SetMat4(loc render.UniformLocation, m mgl32.Mat4) {
	if loc == render.NoUniform {
		return
	}
	f.mats[loc] = m
}

func (f *fakeRenderer) SetVec3(render.UniformLocation, mgl32.Vec3) {}

func (f *fakeRenderer) BeginFrame() { f.draws = f.draws[:0] }
func (f *fakeRenderer) EndFrame()   { f.queue.Flush() }

func (f *fakeRenderer) Submit(cmd func()) { f.queue.Submit(cmd) }

type fakeInput struct {
	keys    map[render.Key]bool
	buttons map[render.MouseButton]bool
	mouse   mgl32.Vec2
}

func newFakeInput() *fakeInput {
	return &fakeInput{keys: map[render.Key]bool{}, buttons: map[render.MouseButton]bool{}}
}

func (f *fakeInput) IsKeyPressed(k render.Key) bool                 { return f.keys[k] }
func (f *fakeInput) IsMouseButtonPressed(b render.MouseButton) bool { return f.buttons[b] }
func (f *fakeInput) MousePosition() mgl32.Vec2                      { return f.mouse }
