// Package block defines the block materials and their render attributes.
package block

import "fmt"

type Type uint8

const (
	Empty Type = iota
	Grass
	Dirt
	Stone
	Water
	Snow
	Sand
	Lava
	Bedrock
	Ice
	SnowDirt
	Leaf
	Wood
	SnowLeaf
	Sap
	Cactus
	SideWood
	Gravel
	SnowGrassPatch
	DirtGrassPatch
	Coal
	Lapis
	Copper
	Gold
	SandCrack

	numTypes
)

var names = [numTypes]string{
	"empty", "grass", "dirt", "stone", "water", "snow", "sand", "lava",
	"bedrock", "ice", "snow_dirt", "leaf", "wood", "snow_leaf", "sap",
	"cactus", "side_wood", "gravel", "snow_grass_patch", "dirt_grass_patch",
	"coal", "lapis", "copper", "gold", "sand_crack",
}

func (t Type) String() string {
	if t >= numTypes {
		return fmt.Sprintf("block(%d)", uint8(t))
	}
	return names[t]
}

// Valid reports whether t is a known material.
func (t Type) Valid() bool { return t < numTypes }

// Opacity is the render class of a material.
type Opacity uint8

const (
	Invisible Opacity = iota
	Opaque
	Transparent
)

func (t Type) Opacity() Opacity {
	switch t {
	case Empty:
		return Invisible
	case Water, Ice:
		return Transparent
	}
	return Opaque
}

// Transparent reports whether faces of t go to the transparent pass.
func (t Type) Transparent() bool { return t.Opacity() == Transparent }

// Animated materials scroll their texture in the shader.
func (t Type) Animated() bool { return t == Water || t == Lava }

// AlwaysVisible materials never hide the faces of their neighbors.
func (t Type) AlwaysVisible() bool { return t == Cactus }

// Face is one of the six axis directions of a cube.
type Face uint8

const (
	XPos Face = iota
	XNeg
	YPos
	YNeg
	ZPos
	ZNeg
)

// Faces lists every face in table order.
var Faces = [6]Face{XPos, XNeg, YPos, YNeg, ZPos, ZNeg}

func (f Face) Opposite() Face {
	return f ^ 1
}

func (f Face) String() string {
	switch f {
	case XPos:
		return "+x"
	case XNeg:
		return "-x"
	case YPos:
		return "+y"
	case YNeg:
		return "-y"
	case ZPos:
		return "+z"
	case ZNeg:
		return "-z"
	}
	return fmt.Sprintf("face(%d)", uint8(f))
}

// Offset is the unit step from a cell to its neighbor across f.
func (f Face) Offset() (dx, dy, dz int) {
	switch f {
	case XPos:
		return 1, 0, 0
	case XNeg:
		return -1, 0, 0
	case YPos:
		return 0, 1, 0
	case YNeg:
		return 0, -1, 0
	case ZPos:
		return 0, 0, 1
	case ZNeg:
		return 0, 0, -1
	}
	return 0, 0, 0
}
