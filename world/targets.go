package world

import "luminacraft/config"

// TargetCoords lists the chunk coordinates to stream around center, nearest
// first. The center comes first, then the horizontal pattern is repeated on
// every layer from center.Y-height to center.Y+height. The result may hold
// repeats; ChunkStore.ResetQueue drops them.
func TargetCoords(center ChunkCoord, pattern string, distance, height int) []ChunkCoord {
	var offsets [][2]int32
	switch pattern {
	case config.PatternRing:
		offsets = ringOffsets(distance)
	default:
		offsets = discOffsets(distance)
	}

	out := make([]ChunkCoord, 0, 1+len(offsets)*(2*height+1))
	out = append(out, center)
	for _, o := range offsets {
		for dy := -height; dy <= height; dy++ {
			out = append(out, ChunkCoord{center.X + o[0], center.Y + int32(dy), center.Z + o[1]})
		}
	}
	return out
}

// discOffsets grows a filled disc one radius at a time; each radius repeats
// the cells of the smaller ones.
func discOffsets(distance int) [][2]int32 {
	var out [][2]int32
	for r := 0; r <= distance; r++ {
		r2 := r * r
		for x := -r; x <= r; x++ {
			for z := -r; z <= r; z++ {
				if x*x+z*z <= r2 {
					out = append(out, [2]int32{int32(x), int32(z)})
				}
			}
		}
	}
	return out
}

// ringOffsets walks square rings outwards: the middle of each edge, then
// the rest of the edges, then the corners.
func ringOffsets(distance int) [][2]int32 {
	out := [][2]int32{{0, 0}}
	for r := int32(1); r < int32(distance); r++ {
		out = append(out, [2]int32{0, r}, [2]int32{0, -r}, [2]int32{r, 0}, [2]int32{-r, 0})
		for i := int32(1); i < r; i++ {
			out = append(out,
				[2]int32{i, r}, [2]int32{-i, r},
				[2]int32{i, -r}, [2]int32{-i, -r},
				[2]int32{r, i}, [2]int32{r, -i},
				[2]int32{-r, i}, [2]int32{-r, -i},
			)
		}
		out = append(out, [2]int32{r, r}, [2]int32{-r, r}, [2]int32{r, -r}, [2]int32{-r, -r})
	}
	return out
}
