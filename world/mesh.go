package world

import "luminacraft/render"

// Direction names one of the six faces of a voxel.
type Direction uint8

const (
	North  Direction = iota // -z
	South                   // +z
	East                    // +x
	West                    // -x
	Top                     // +y
	Bottom                  // -y
)

// Directions lists every face in meshing order.
var Directions = [...]Direction{North, South, East, West, Top, Bottom}

func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case South:
		return "South"
	case East:
		return "East"
	case West:
		return "West"
	case Top:
		return "Top"
	case Bottom:
		return "Bottom"
	}
	return "Unknown"
}

type corner [3]uint8

type faceInfo struct {
	offset  ChunkCoord
	corners [4]corner
	uv      func(BlockDefinition) UVRect
}

func sideUV(d BlockDefinition) UVRect   { return d.Side }
func topUV(d BlockDefinition) UVRect    { return d.Top }
func bottomUV(d BlockDefinition) UVRect { return d.Bottom }

// Corner order matters: the quad is split along 0-3 and must keep a
// counter-clockwise front face.
var faces = [6]faceInfo{
	North: {
		offset:  ChunkCoord{0, 0, -1},
		corners: [4]corner{{1, 0, 0}, {0, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		uv:      sideUV,
	},
	South: {
		offset:  ChunkCoord{0, 0, 1},
		corners: [4]corner{{0, 0, 1}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1}},
		uv:      sideUV,
	},
	East: {
		offset:  ChunkCoord{1, 0, 0},
		corners: [4]corner{{1, 0, 1}, {1, 0, 0}, {1, 1, 1}, {1, 1, 0}},
		uv:      sideUV,
	},
	West: {
		offset:  ChunkCoord{-1, 0, 0},
		corners: [4]corner{{0, 0, 0}, {0, 0, 1}, {0, 1, 0}, {0, 1, 1}},
		uv:      sideUV,
	},
	Top: {
		offset:  ChunkCoord{0, 1, 0},
		corners: [4]corner{{0, 1, 1}, {1, 1, 1}, {0, 1, 0}, {1, 1, 0}},
		uv:      topUV,
	},
	Bottom: {
		offset:  ChunkCoord{0, -1, 0},
		corners: [4]corner{{1, 0, 1}, {0, 0, 1}, {1, 0, 0}, {0, 0, 0}},
		uv:      bottomUV,
	},
}

var quadIndices = [6]uint32{0, 3, 1, 0, 2, 3}

// Mesh is the CPU side of a chunk's geometry.
type Mesh struct {
	Vertices []render.Vertex
	Indices  []uint32
}

// Faces is the number of quads in the mesh.
func (m Mesh) Faces() int {
	return len(m.Vertices) / 4
}

// BuildMesh emits one quad for every solid voxel face that touches Air.
// neighbors holds the full grids of the six adjacent chunks, indexed by
// Direction; a nil grid counts as all Air.
func BuildMesh(blocks []BlockType, neighbors [6][]BlockType, n int) Mesh {
	var m Mesh
	for y := 0; y < n; y++ {
		for z := 0; z < n; z++ {
			for x := 0; x < n; x++ {
				b := blocks[index(x, y, z, n)]
				if b == Air {
					continue
				}
				def := Definition(b)
				for _, d := range Directions {
					if !faceVisible(blocks, &neighbors, n, x, y, z, d) {
						continue
					}
					m.addFace(faces[d], def, x, y, z)
				}
			}
		}
	}
	return m
}

func (m *Mesh) addFace(f faceInfo, def BlockDefinition, x, y, z int) {
	base := uint32(len(m.Vertices))
	r := f.uv(def)
	uvs := [4][2]uint8{
		{r.MinX, r.MinY},
		{r.MaxX, r.MinY},
		{r.MinX, r.MaxY},
		{r.MaxX, r.MaxY},
	}
	for i, c := range f.corners {
		m.Vertices = append(m.Vertices, render.Vertex{
			X: uint8(x) + c[0],
			Y: uint8(y) + c[1],
			Z: uint8(z) + c[2],
			U: uvs[i][0],
			V: uvs[i][1],
		})
	}
	for _, i := range quadIndices {
		m.Indices = append(m.Indices, base+i)
	}
}

func faceVisible(blocks []BlockType, neighbors *[6][]BlockType, n, x, y, z int, d Direction) bool {
	o := faces[d].offset
	nx, ny, nz := x+int(o.X), y+int(o.Y), z+int(o.Z)
	if nx >= 0 && nx < n && ny >= 0 && ny < n && nz >= 0 && nz < n {
		return blocks[index(nx, ny, nz, n)] == Air
	}

	// wrap into the neighbouring chunk's boundary layer
	grid := neighbors[d]
	if len(grid) != n*n*n {
		return true
	}
	return grid[index(floorMod(nx, n), floorMod(ny, n), floorMod(nz, n), n)] == Air
}
