package main

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"opencraft/block"
)

// hotbar maps the number keys to placeable blocks.
var hotbar = [...]block.Type{
	block.Dirt, block.Grass, block.Stone, block.Sand, block.Wood,
	block.Leaf, block.Snow, block.Ice, block.Water,
}

func (v *viewer) onKey(window *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	switch {
	case key == glfw.KeyEscape:
		window.SetShouldClose(true)
	case key == glfw.KeyF3:
		v.showDebug = !v.showDebug
	case key == glfw.KeyF11:
		v.toggleFullscreen(window)
	case key >= glfw.Key1 && key <= glfw.Key9:
		v.placing = hotbar[key-glfw.Key1]
	}
}

func (v *viewer) toggleFullscreen(window *glfw.Window) {
	w, h := v.cfg.Window.Width, v.cfg.Window.Height
	if v.monitor == nil {
		v.monitor = glfw.GetPrimaryMonitor()
		mode := v.monitor.GetVideoMode()
		window.SetMonitor(v.monitor, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
		return
	}
	mode := v.monitor.GetVideoMode()
	v.monitor = nil
	window.SetMonitor(nil, (mode.Width-w)/2, (mode.Height-h)/2, w, h, 0)
}

func (v *viewer) onCursor(window *glfw.Window, xPos, yPos float64) {
	v.cam.look(xPos, yPos)
}

func (v *viewer) onMouseButton(window *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	switch button {
	case glfw.MouseButtonLeft:
		v.breakBlock()
	case glfw.MouseButtonRight:
		v.placeBlock()
	}
}

func (v *viewer) onResize(window *glfw.Window, width, height int) {
	if width == 0 || height == 0 {
		return
	}
	v.width, v.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
}

// movement moves the camera for keys held this frame.
func (v *viewer) movement(window *glfw.Window, deltaTime float32) {
	speed := flyingSpeed
	if window.GetKey(glfw.KeyLeftShift) == glfw.Press {
		speed = runningSpeed
	}

	var direction mgl32.Vec3
	if window.GetKey(glfw.KeyW) == glfw.Press {
		direction = direction.Add(v.cam.flat)
	}
	if window.GetKey(glfw.KeyS) == glfw.Press {
		direction = direction.Sub(v.cam.flat)
	}
	if window.GetKey(glfw.KeyA) == glfw.Press {
		direction = direction.Sub(v.cam.right)
	}
	if window.GetKey(glfw.KeyD) == glfw.Press {
		direction = direction.Add(v.cam.right)
	}
	if window.GetKey(glfw.KeySpace) == glfw.Press {
		direction = direction.Add(mgl32.Vec3{0, 1, 0})
	}
	if window.GetKey(glfw.KeyLeftControl) == glfw.Press {
		direction = direction.Sub(mgl32.Vec3{0, 1, 0})
	}
	if direction.Len() > 0 {
		direction = direction.Normalize()
	}
	v.cam.position = v.cam.position.Add(direction.Mul(speed * deltaTime))
}
