package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/go-gl/gl/v4.1-core/gl"
	"neilpa.me/go-stbi"

	"opencraft/block"
	"opencraft/noise"
)

const (
	atlasTiles = 16
	tilePixels = 16
	atlasSize  = atlasTiles * tilePixels
)

// Base colors of the procedural atlas.
var blockColors = map[block.Type]color.RGBA{
	block.Grass:          {96, 160, 56, 255},
	block.Dirt:           {134, 96, 67, 255},
	block.Stone:          {125, 125, 125, 255},
	block.Water:          {48, 92, 200, 170},
	block.Snow:           {240, 246, 250, 255},
	block.Sand:           {219, 207, 163, 255},
	block.Lava:           {214, 96, 22, 255},
	block.Bedrock:        {60, 60, 60, 255},
	block.Ice:            {160, 200, 250, 190},
	block.SnowDirt:       {134, 96, 67, 255},
	block.Leaf:           {58, 120, 40, 255},
	block.Wood:           {102, 81, 50, 255},
	block.SnowLeaf:       {200, 222, 214, 255},
	block.Sap:            {170, 132, 78, 255},
	block.Cactus:         {70, 130, 50, 255},
	block.SideWood:       {150, 118, 72, 255},
	block.Gravel:         {136, 126, 126, 255},
	block.SnowGrassPatch: {214, 232, 226, 255},
	block.DirtGrassPatch: {110, 150, 60, 255},
	block.Coal:           {52, 52, 52, 255},
	block.Lapis:          {38, 70, 160, 255},
	block.Copper:         {186, 110, 70, 255},
	block.Gold:           {230, 200, 60, 255},
	block.SandCrack:      {200, 186, 140, 255},
}

// capColors paint the upper rows of the side tiles of capped blocks, whose
// sides are otherwise dirt.
var capColors = map[block.Type]color.RGBA{
	block.Grass:    {96, 160, 56, 255},
	block.SnowDirt: {240, 246, 250, 255},
}

// paintOrder lists plain materials first so that a tile shared by several
// blocks takes the color of the block it belongs to.
var paintOrder = []block.Type{
	block.Dirt, block.Stone, block.Water, block.Snow, block.Sand, block.Lava,
	block.Bedrock, block.Ice, block.Leaf, block.Sap, block.Gravel, block.Coal,
	block.Lapis, block.Copper, block.Gold,
	block.Grass, block.SnowDirt, block.Wood, block.SideWood, block.SnowLeaf,
	block.Cactus, block.SnowGrassPatch, block.DirtGrassPatch, block.SandCrack,
}

// proceduralAtlas paints one speckled tile per atlas slot used by a block
// face. Rows are stored bottom-up, the order GL samples them in.
func proceduralAtlas(seed int64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, atlasSize, atlasSize))
	var painted [atlasTiles][atlasTiles]bool
	for _, t := range paintOrder {
		for _, f := range block.Faces {
			uv := t.UV(f)
			tu := int(uv.X()/block.TileSize + 0.5)
			tv := int(uv.Y()/block.TileSize + 0.5)

			base := blockColors[t]
			top, capped := capColors[t]
			if capped && f != block.YPos && f != block.YNeg {
				base = blockColors[block.Dirt]
			} else {
				capped = false
			}
			// Animated materials cycle through their tile and the next one.
			frames := 1
			if t.Animated() {
				frames = 2
			}
			for u := tu; u < tu+frames && u < atlasTiles; u++ {
				if painted[u][tv] {
					continue
				}
				painted[u][tv] = true
				for j := 0; j < tilePixels; j++ {
					for i := 0; i < tilePixels; i++ {
						c := base
						if capped && j >= tilePixels-3 {
							c = top
						}
						x, y := u*tilePixels+i, tv*tilePixels+j
						img.SetRGBA(x, y, speckle(c, seed, x, y))
					}
				}
			}
		}
	}
	return img
}

func speckle(c color.RGBA, seed int64, x, y int) color.RGBA {
	shade := 0.85 + 0.3*float32(noise.Hash2(seed, x, y)%1000)/1000
	scale := func(v uint8) uint8 {
		return uint8(noise.Clamp(float32(v)*shade, 0, 255))
	}
	return color.RGBA{scale(c.R), scale(c.G), scale(c.B), c.A}
}

// loadAtlasImage reads an atlas from disk and flips it so that the first
// row of the file becomes the top of texture space.
func loadAtlasImage(path string) (*image.RGBA, error) {
	img, err := stbi.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load atlas %s: %w", path, err)
	}
	b := img.Bounds()
	if b.Dx() != b.Dy() || b.Dx()%atlasTiles != 0 {
		return nil, fmt.Errorf("load atlas %s: %dx%d is not a %d-tile square", path, b.Dx(), b.Dy(), atlasTiles)
	}
	stride := img.Stride
	row := make([]byte, stride)
	for top, bottom := 0, b.Dy()-1; top < bottom; top, bottom = top+1, bottom-1 {
		t := img.Pix[top*stride : (top+1)*stride]
		u := img.Pix[bottom*stride : (bottom+1)*stride]
		copy(row, t)
		copy(t, u)
		copy(u, row)
	}
	return img, nil
}

func loadTextureAtlas(img *image.RGBA) uint32 {
	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_2D, textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Bounds().Dx()), int32(img.Bounds().Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	return textureID
}
