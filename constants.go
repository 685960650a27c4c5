package main

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	flyingSpeed  float32 = 24
	runningSpeed float32 = 72

	mouseSensitivity = 0.3
)

const (
	fieldOfView   float32 = 70
	nearClipPlane float32 = 0.1

	// reach is how far away blocks can be broken or placed.
	reach float32 = 8

	tickInterval = 16 * time.Millisecond
	hudInterval  = 250 * time.Millisecond
	clickDelay   = 125 * time.Millisecond
)

var skyColor = mgl32.Vec3{0.47, 0.69, 0.96}
