package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"opencraft/block"
)

// Hit is a cell found by Raycast.
type Hit struct {
	X, Y, Z int
	// Prev is the last cell the ray crossed before X, Y, Z. Placing a
	// block against the hit face writes here.
	PrevX, PrevY, PrevZ int
	Block               block.Type
	// Face is the face of the hit cell the ray entered through.
	Face block.Face
}

func pickable(b block.Type) bool {
	return b != block.Empty && b != block.Water && b != block.Lava
}

// Raycast walks the unit cells along a ray, one voxel boundary at a time,
// and returns the first solid block within maxDist. Liquids are passed
// through. Cells in missing chunks read as empty.
func (t *Terrain) Raycast(origin, dir mgl32.Vec3, maxDist float32) (Hit, bool) {
	if dir.Len() == 0 {
		return Hit{}, false
	}
	dir = dir.Normalize()

	var (
		cell   [3]int
		step   [3]int
		tMax   [3]float32
		tDelta [3]float32
	)
	inf := float32(math.Inf(1))
	for i := 0; i < 3; i++ {
		o := float64(origin[i])
		cell[i] = int(math.Floor(o))
		d := dir[i]
		switch {
		case d > 0:
			step[i] = 1
			tMax[i] = float32(math.Floor(o)+1-o) / d
			tDelta[i] = 1 / d
		case d < 0:
			step[i] = -1
			tMax[i] = float32(o-math.Floor(o)) / -d
			tDelta[i] = -1 / d
		default:
			tMax[i] = inf
			tDelta[i] = inf
		}
	}

	prev := cell
	face := block.YPos
	dist := float32(0)
	for dist <= maxDist {
		b, err := t.GlobalBlockAt(cell[0], cell[1], cell[2])
		if err == nil && pickable(b) {
			return Hit{
				X: cell[0], Y: cell[1], Z: cell[2],
				PrevX: prev[0], PrevY: prev[1], PrevZ: prev[2],
				Block: b,
				Face:  face,
			}, true
		}
		prev = cell

		axis := 2
		if tMax[0] < tMax[1] && tMax[0] < tMax[2] {
			axis = 0
		} else if tMax[1] < tMax[2] {
			axis = 1
		}
		cell[axis] += step[axis]
		dist = tMax[axis]
		tMax[axis] += tDelta[axis]
		// Stepping towards +axis enters the new cell through its negative face.
		face = block.Face(axis * 2)
		if step[axis] > 0 {
			face = face.Opposite()
		}
	}
	return Hit{}, false
}
