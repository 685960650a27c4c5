package main

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"opencraft/block"
	"opencraft/world"
)

// camera is a free-flying first person camera.
type camera struct {
	position mgl32.Vec3
	front    mgl32.Vec3
	// flat is front projected onto the ground plane; WASD moves along it.
	flat  mgl32.Vec3
	right mgl32.Vec3
	up    mgl32.Vec3

	yaw, pitch   float64
	lastX, lastY float64
	firstMouse   bool
}

func newCamera(position mgl32.Vec3) *camera {
	c := &camera{position: position, yaw: -90, firstMouse: true}
	c.orient()
	return c
}

// look applies a cursor movement in screen pixels.
func (c *camera) look(xPos, yPos float64) {
	if c.firstMouse {
		c.lastX, c.lastY = xPos, yPos
		c.firstMouse = false
	}
	xoffset := (xPos - c.lastX) * mouseSensitivity
	yoffset := (c.lastY - yPos) * mouseSensitivity // screen y grows downwards
	c.lastX, c.lastY = xPos, yPos

	c.yaw += xoffset
	c.pitch = math.Max(-89, math.Min(89, c.pitch+yoffset))
	c.orient()
}

func (c *camera) orient() {
	yaw := float64(mgl32.DegToRad(float32(c.yaw)))
	pitch := float64(mgl32.DegToRad(float32(c.pitch)))
	c.front = mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}.Normalize()
	c.flat = mgl32.Vec3{float32(math.Cos(yaw)), 0, float32(math.Sin(yaw))}.Normalize()
	c.right = c.front.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}

func (c *camera) view() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.position.Add(c.front), c.up)
}

// cell is the block the camera is inside of.
func (c *camera) cell() (int, int, int) {
	return int(math.Floor(float64(c.position.X()))),
		int(math.Floor(float64(c.position.Y()))),
		int(math.Floor(float64(c.position.Z())))
}

// pick returns the block under the crosshair.
func (v *viewer) pick() (world.Hit, bool) {
	return v.session.terrain.Raycast(v.cam.position, v.cam.front, reach)
}

func (v *viewer) clickReady() bool {
	if time.Since(v.lastClick) < clickDelay {
		return false
	}
	v.lastClick = time.Now()
	return true
}

func (v *viewer) breakBlock() {
	if !v.clickReady() {
		return
	}
	hit, ok := v.pick()
	if !ok {
		return
	}
	if hit.Block == block.Bedrock {
		return
	}
	if err := v.session.terrain.SetGlobalBlockAt(hit.X, hit.Y, hit.Z, block.Empty); err != nil {
		v.log.Warn("break block", "x", hit.X, "y", hit.Y, "z", hit.Z, "error", err)
		return
	}
	v.log.Debug("broke block", "block", hit.Block, "x", hit.X, "y", hit.Y, "z", hit.Z)
}

func (v *viewer) placeBlock() {
	if !v.clickReady() {
		return
	}
	hit, ok := v.pick()
	if !ok {
		return
	}
	x, y, z := hit.PrevX, hit.PrevY, hit.PrevZ
	if cx, cy, cz := v.cam.cell(); cx == x && cy == y && cz == z {
		return
	}
	if err := v.session.terrain.SetGlobalBlockAt(x, y, z, v.placing); err != nil {
		v.log.Warn("place block", "block", v.placing, "x", x, "y", y, "z", z, "error", err)
		return
	}
	v.log.Debug("placed block", "block", v.placing, "x", x, "y", y, "z", z, "against", hit.Face)
}
