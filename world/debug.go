package world

import "github.com/go-gl/mathgl/mgl32"

var (
	HitLineColor  = mgl32.Vec3{1, 0.2, 0.2}
	MissLineColor = mgl32.Vec3{1, 1, 1}
)

// DebugLine is a world-space segment shown for a limited time.
type DebugLine struct {
	Start, End mgl32.Vec3
	Color      mgl32.Vec3
	Remaining  float32
}

// DebugLines is an ordered set of timed lines.
type DebugLines struct {
	lines []DebugLine
}

func (d *DebugLines) Add(l DebugLine) {
	if l.Remaining <= 0 {
		return
	}
	d.lines = append(d.lines, l)
}

// Tick counts every line down by dt and drops the expired ones.
func (d *DebugLines) Tick(dt float32) {
	kept := d.lines[:0]
	for _, l := range d.lines {
		l.Remaining -= dt
		if l.Remaining > 0 {
			kept = append(kept, l)
		}
	}
	clear(d.lines[len(kept):])
	d.lines = kept
}

// Lines returns the live lines. The slice is only valid until the next Tick.
func (d *DebugLines) Lines() []DebugLine {
	return d.lines
}

func (d *DebugLines) Len() int {
	return len(d.lines)
}
