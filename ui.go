package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/freetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	hudWidth    = 512
	hudHeight   = 256
	hudFontSize = 16
	hudLeading  = 20
)

// hud draws debug text in the top-left corner. The text is rasterized
// with freetype into one RGBA canvas that backs a single texture.
type hud struct {
	program uint32
	vao     uint32
	texture uint32
	ctx     *freetype.Context
	dst     *image.RGBA
}

func newHUD(program uint32) (*hud, error) {
	f, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse hud font: %w", err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, hudWidth, hudHeight))
	ctx := freetype.NewContext()
	ctx.SetFont(f)
	ctx.SetFontSize(hudFontSize)
	ctx.SetDst(dst)
	ctx.SetClip(dst.Bounds())
	ctx.SetSrc(image.White)
	ctx.SetHinting(font.HintingFull)

	h := &hud{program: program, ctx: ctx, dst: dst}
	h.initVAO()

	gl.GenTextures(1, &h.texture)
	gl.BindTexture(gl.TEXTURE_2D, h.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, hudWidth, hudHeight, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(dst.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return h, nil
}

func (h *hud) initVAO() {
	// x, y, z, u, v; image row 0 is the top of the quad
	vertices := []float32{
		0, 0, 0, 0, 0,
		0, 1, 0, 0, 1,
		1, 1, 0, 1, 1,

		0, 0, 0, 0, 0,
		1, 1, 0, 1, 1,
		1, 0, 0, 1, 0,
	}
	gl.GenVertexArrays(1, &h.vao)
	gl.BindVertexArray(h.vao)

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 5*4, nil)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 5*4, uintptr(3*4))
	gl.BindVertexArray(0)
}

// update rasterizes lines and replaces the texture contents.
func (h *hud) update(lines []string) error {
	draw.Draw(h.dst, h.dst.Bounds(), &image.Uniform{C: color.RGBA{0, 0, 0, 96}}, image.Point{}, draw.Src)
	for i, line := range lines {
		pt := freetype.Pt(6, hudFontSize+i*hudLeading)
		if _, err := h.ctx.DrawString(line, pt); err != nil {
			return fmt.Errorf("draw hud line %d: %w", i, err)
		}
	}
	gl.BindTexture(gl.TEXTURE_2D, h.texture)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, hudWidth, hudHeight, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(h.dst.Pix))
	return nil
}

func (h *hud) draw(width, height int) {
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.UseProgram(h.program)

	projection := mgl32.Ortho(0, float32(width), float32(height), 0, -1, 1)
	model := mgl32.Translate3D(10, 10, 0).Mul4(mgl32.Scale3D(hudWidth, hudHeight, 1))
	gl.UniformMatrix4fv(uniform(h.program, "u_Projection"), 1, false, &projection[0])
	gl.UniformMatrix4fv(uniform(h.program, "u_Model"), 1, false, &model[0])
	gl.Uniform1i(uniform(h.program, "u_Text"), 0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, h.texture)
	gl.BindVertexArray(h.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
}
