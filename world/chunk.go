package world

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/atomic"

	"luminacraft/render"
)

// ChunkState is the lifecycle stage of a chunk.
type ChunkState int32

const (
	// Pending chunks are waiting for, or in the middle of, generation.
	Pending ChunkState = iota
	// Generated chunks have blocks and a mesh but no GPU buffers.
	Generated
	// Ready chunks are uploaded and can be drawn.
	Ready
	// Failed chunks hit an error during generation and hold no data.
	Failed
)

func (s ChunkState) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Generated:
		return "Generated"
	case Ready:
		return "Ready"
	case Failed:
		return "Failed"
	}
	return "Unknown"
}

// Chunk is one cubic grid of blocks and its mesh.
//
// blocks and mesh are written once by Generate, before the state moves to
// Generated, and only read afterwards. handles are touched only on the
// render goroutine.
type Chunk struct {
	coord ChunkCoord
	size  int
	state atomic.Int32

	blocks  []BlockType
	mesh    Mesh
	handles render.MeshHandles
	model   mgl32.Mat4

	genTime time.Duration
}

// NewChunk returns a Pending chunk. size must be in 1..255 so that local
// vertex positions fit a byte.
func NewChunk(coord ChunkCoord, size int) *Chunk {
	return &Chunk{
		coord: coord,
		size:  size,
		model: mgl32.Translate3D(coord.WorldOrigin(size).Elem()),
	}
}

func (c *Chunk) Coord() ChunkCoord { return c.coord }
func (c *Chunk) Size() int         { return c.size }

func (c *Chunk) State() ChunkState {
	return ChunkState(c.state.Load())
}

func (c *Chunk) IsReady() bool {
	return c.State() == Ready
}

// Generate fills the chunk from src, meshes it against its six neighbours
// and marks it Generated. A panic in src marks it Failed instead and is
// returned as an error. It runs on a worker goroutine.
func (c *Chunk) Generate(src TerrainSource) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.state.Store(int32(Failed))
			err = fmt.Errorf("generating chunk %v: %v", c.coord, r)
		}
	}()
	start := time.Now()

	blocks := src.Generate(c.coord, c.size)
	var neighbors [6][]BlockType
	for _, d := range Directions {
		neighbors[d] = src.Generate(c.coord.Neighbor(d), c.size)
	}

	c.blocks = blocks
	c.mesh = BuildMesh(blocks, neighbors, c.size)
	c.genTime = time.Since(start)
	c.state.Store(int32(Generated))
	return nil
}

// hasData reports whether blocks and mesh have been published.
func (c *Chunk) hasData() bool {
	s := c.State()
	return s == Generated || s == Ready
}

// GenerationTime is how long Generate took. Zero until Generated.
func (c *Chunk) GenerationTime() time.Duration {
	if !c.hasData() {
		return 0
	}
	return c.genTime
}

// Mesh returns the CPU geometry. Empty until Generated.
func (c *Chunk) Mesh() Mesh {
	if !c.hasData() {
		return Mesh{}
	}
	return c.mesh
}

// Upload creates the GPU buffers and marks the chunk Ready. Must run on the
// render goroutine.
func (c *Chunk) Upload(r render.Renderer) {
	if c.State() != Generated {
		return
	}
	if len(c.mesh.Indices) > 0 {
		c.handles = r.CreateMeshBuffers(c.mesh.Vertices, c.mesh.Indices)
	}
	c.state.Store(int32(Ready))
}

// Render draws a Ready chunk. A Generated chunk is uploaded instead and
// shows up next frame; a Pending one is skipped. It reports whether a draw
// was issued.
func (c *Chunk) Render(r render.Renderer, modelLoc render.UniformLocation) bool {
	switch c.State() {
	case Generated:
		c.Upload(r)
		return false
	case Ready:
		if !c.handles.Valid() {
			return false
		}
		r.DrawIndexed(modelLoc, c.model, c.handles, len(c.mesh.Indices))
		return true
	}
	return false
}

// Release frees the GPU buffers. Must run on the render goroutine.
func (c *Chunk) Release(r render.Renderer) {
	if c.handles.Valid() {
		r.DeleteMeshBuffers(c.handles)
		c.handles = render.MeshHandles{}
	}
}

// GetBlockAtPosition returns the block at local (x, y, z), Invalid when the
// position lies outside the chunk and NoData while the chunk holds no data.
func (c *Chunk) GetBlockAtPosition(x, y, z int) BlockType {
	if x < 0 || y < 0 || z < 0 || x >= c.size || y >= c.size || z >= c.size {
		return Invalid
	}
	if !c.hasData() {
		return NoData
	}
	return c.blocks[index(x, y, z, c.size)]
}

// Bounds is the world-space box the chunk covers.
func (c *Chunk) Bounds() (min, max mgl32.Vec3) {
	min = c.coord.WorldOrigin(c.size)
	s := float32(c.size)
	return min, min.Add(mgl32.Vec3{s, s, s})
}
