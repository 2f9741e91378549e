package world

// BlockType identifies what occupies a voxel. Air is always zero.
type BlockType uint8

const (
	Air BlockType = iota
	Dirt
	Grass
	Stone
)

const (
	// NoData is returned for world positions whose chunk is not resident or
	// not generated yet.
	NoData BlockType = 254
	// Invalid is returned for local positions outside a chunk.
	Invalid BlockType = 255
)

// IsSolid reports whether the block has geometry. Sentinels are not solid.
func (b BlockType) IsSolid() bool {
	return b != Air && b != NoData && b != Invalid
}

func (b BlockType) String() string {
	switch b {
	case Air:
		return "Air"
	case Dirt:
		return "Dirt"
	case Grass:
		return "Grass"
	case Stone:
		return "Stone"
	case NoData:
		return "NoData"
	case Invalid:
		return "Invalid"
	}
	return "Unknown"
}

// UVRect is a rectangle of the texture atlas in grid cells.
type UVRect struct {
	MinX, MinY, MaxX, MaxY uint8
}

// BlockDefinition holds the atlas cells used for each face category.
type BlockDefinition struct {
	Top, Bottom, Side UVRect
}

func uniform(r UVRect) BlockDefinition {
	return BlockDefinition{Top: r, Bottom: r, Side: r}
}

var definitions = [...]BlockDefinition{
	Air:  uniform(UVRect{0, 0, 0, 0}),
	Dirt: uniform(UVRect{0, 0, 1, 1}),
	Grass: {
		Top:    UVRect{1, 1, 2, 2},
		Bottom: UVRect{0, 0, 1, 1},
		Side:   UVRect{1, 0, 2, 1},
	},
	Stone: uniform(UVRect{0, 1, 1, 2}),
}

// Definition returns the texture layout of b. Unknown types get the Air
// layout.
func Definition(b BlockType) BlockDefinition {
	if int(b) >= len(definitions) {
		return definitions[Air]
	}
	return definitions[b]
}
