package block

import "github.com/go-gl/mathgl/mgl32"

// TileSize is the width of one atlas tile in texture space. The atlas is a
// 16x16 grid.
const TileSize = float32(1) / 16

func tile(u, v float32) mgl32.Vec4 {
	return mgl32.Vec4{u * TileSize, v * TileSize, 0, 0}
}

func tagged(u, v, tag float32) mgl32.Vec4 {
	t := tile(u, v)
	t[3] = tag
	return t
}

func all(t mgl32.Vec4) [6]mgl32.Vec4 {
	return [6]mgl32.Vec4{t, t, t, t, t, t}
}

func sided(side, top, bottom mgl32.Vec4) [6]mgl32.Vec4 {
	return [6]mgl32.Vec4{side, side, top, bottom, side, side}
}

// uvs holds the lower-left atlas corner of each face, indexed by Face.
// The w component is a shader tag for tinting and cut-out faces.
var uvs = [numTypes][6]mgl32.Vec4{
	Grass: sided(tile(3, 15), tile(8, 13), tile(2, 15)),
	Dirt:  all(tile(2, 15)),
	Stone: all(tile(1, 15)),
	Water: {
		tile(13, 3), tile(13, 3), tagged(13, 3, 1), tile(13, 3), tile(13, 3), tile(13, 3),
	},
	Snow:     all(tile(2, 11)),
	Sand:     all(tile(2, 14)),
	Lava:     all(tile(13, 1)),
	Bedrock:  all(tile(1, 14)),
	Ice:      all(tile(3, 11)),
	SnowDirt: sided(tile(4, 11), tile(2, 11), tile(2, 15)),
	Leaf:     all(tile(5, 12)),
	Wood:     sided(tile(4, 14), tile(5, 14), tile(5, 14)),
	SnowLeaf: sided(tile(5, 12), tile(2, 11), tile(5, 12)),
	Sap:      all(tile(6, 14)),
	Cactus: {
		tagged(6, 11, 3), tagged(6, 11, -3),
		tagged(5, 11, 2), tagged(5, 11, -2),
		tagged(6, 11, 4), tagged(6, 11, -4),
	},
	SideWood: {
		tile(4, 14), tile(4, 14), tile(4, 14), tile(4, 14), tile(5, 14), tile(5, 14),
	},
	Gravel:         all(tile(0, 15)),
	SnowGrassPatch: sided(tile(3, 15), tagged(1, 6, -7), tile(2, 15)),
	DirtGrassPatch: sided(tile(3, 15), tagged(2, 5, -8), tile(2, 15)),
	Coal:           all(tile(2, 13)),
	Lapis:          all(tile(0, 5)),
	Copper:         all(tile(1, 13)),
	Gold:           all(tile(0, 13)),
	SandCrack:      sided(tile(2, 14), tagged(0, 2, -9), tile(2, 14)),
}

// UV returns the atlas origin of face f of t. Empty and unknown types map
// to the zero vector.
func (t Type) UV(f Face) mgl32.Vec4 {
	if t >= numTypes || f > ZNeg {
		return mgl32.Vec4{}
	}
	return uvs[t][f]
}
