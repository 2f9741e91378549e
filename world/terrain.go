package world

// TerrainSource produces the block grid of a chunk. Generate must be pure
// and safe to call from several goroutines at once.
type TerrainSource interface {
	Generate(c ChunkCoord, n int) []BlockType
}

const (
	surfaceFreqX = 0.05
	surfaceFreqZ = 0.03
	surfaceRange = 20
	surfaceBase  = 32

	biomeFreqX = 0.1
	biomeFreqZ = 0.2

	caveFreq      = 0.1
	caveThreshold = 0.5

	dirtDepth = 5
)

// Generator is the layered-noise terrain: a 2D height field, a 2D biome
// field and a 3D cave field, each seeded independently.
type Generator struct {
	surface Noise
	biome   Noise
	cave    Noise

	// biomeMaterials swaps the dirt band for stone in the second biome.
	biomeMaterials bool
}

// NewGenerator seeds the three fields from seed, seed+1 and seed+2.
func NewGenerator(backend string, seed int64, biomeMaterials bool) (*Generator, error) {
	g := &Generator{biomeMaterials: biomeMaterials}
	var err error
	if g.surface, err = NewNoise(backend, seed); err != nil {
		return nil, err
	}
	if g.biome, err = NewNoise(backend, seed+1); err != nil {
		return nil, err
	}
	if g.cave, err = NewNoise(backend, seed+2); err != nil {
		return nil, err
	}
	return g, nil
}

// SurfaceHeight is the world Y of the grass layer in column (x, z).
func (g *Generator) SurfaceHeight(x, z int) int {
	v := g.surface.Eval2(float64(x)*surfaceFreqX, float64(z)*surfaceFreqZ)
	return int((v+1)*0.5*surfaceRange + surfaceBase)
}

// Rocky reports whether column (x, z) lies in the second biome.
func (g *Generator) Rocky(x, z int) bool {
	return g.biome.Eval2(float64(x)*biomeFreqX, float64(z)*biomeFreqZ) > 0
}

func (g *Generator) subsurface(rocky bool) BlockType {
	if rocky && g.biomeMaterials {
		return Stone
	}
	return Dirt
}

// Generate fills an n³ grid for chunk c, indexed x + z*n + y*n².
func (g *Generator) Generate(c ChunkCoord, n int) []BlockType {
	blocks := make([]BlockType, n*n*n)
	startX, startY, startZ := int(c.X)*n, int(c.Y)*n, int(c.Z)*n

	for x := 0; x < n; x++ {
		wx := startX + x
		for z := 0; z < n; z++ {
			wz := startZ + z
			height := g.SurfaceHeight(wx, wz)
			below := g.subsurface(g.Rocky(wx, wz))

			for y := 0; y < n; y++ {
				wy := startY + y
				if wy > height {
					continue
				}
				if g.cave.Eval3(float64(wx)*caveFreq, float64(wy)*caveFreq, float64(wz)*caveFreq) > caveThreshold {
					continue
				}
				var b BlockType
				switch {
				case wy == height:
					b = Grass
				case wy > height-dirtDepth:
					b = below
				default:
					b = Stone
				}
				blocks[index(x, y, z, n)] = b
			}
		}
	}
	return blocks
}

func index(x, y, z, n int) int {
	return x + z*n + y*n*n
}
