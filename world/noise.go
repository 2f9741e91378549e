package world

import (
	"fmt"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"

	"luminacraft/config"
)

// Noise is a coherent noise field returning values roughly in [-1, 1].
// Implementations must be safe for concurrent use.
type Noise interface {
	Eval2(x, y float64) float64
	Eval3(x, y, z float64) float64
}

type perlinNoise struct {
	p *perlin.Perlin
}

func (n perlinNoise) Eval2(x, y float64) float64 {
	return n.p.Noise2D(x, y)
}

func (n perlinNoise) Eval3(x, y, z float64) float64 {
	return n.p.Noise3D(x, y, z)
}

// NewNoise builds a noise field of the named backend.
func NewNoise(backend string, seed int64) (Noise, error) {
	switch backend {
	case config.NoiseOpenSimplex, "":
		return opensimplex.New(seed), nil
	case config.NoisePerlin:
		// alpha 2, beta 2, 3 octaves
		return perlinNoise{p: perlin.NewPerlin(2, 2, 3, seed)}, nil
	}
	return nil, fmt.Errorf("unknown noise backend %q", backend)
}
