package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"opencraft/block"
)

func TestRaycastDown(t *testing.T) {
	tr := NewTerrain(nil)
	c := tr.InstantiateChunkAt(0, 0)
	c.SetBlock(5, 50, 5, block.Stone)

	hit, ok := tr.Raycast(mgl32.Vec3{5.5, 60.5, 5.5}, mgl32.Vec3{0, -1, 0}, 20)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.X != 5 || hit.Y != 50 || hit.Z != 5 {
		t.Errorf("hit (%d, %d, %d), want (5, 50, 5)", hit.X, hit.Y, hit.Z)
	}
	if hit.PrevX != 5 || hit.PrevY != 51 || hit.PrevZ != 5 {
		t.Errorf("prev (%d, %d, %d), want (5, 51, 5)", hit.PrevX, hit.PrevY, hit.PrevZ)
	}
	if hit.Block != block.Stone || hit.Face != block.YPos {
		t.Errorf("got %v through %v", hit.Block, hit.Face)
	}
}

func TestRaycastRange(t *testing.T) {
	tr := NewTerrain(nil)
	c := tr.InstantiateChunkAt(0, 0)
	c.SetBlock(5, 50, 5, block.Stone)

	if _, ok := tr.Raycast(mgl32.Vec3{5.5, 60.5, 5.5}, mgl32.Vec3{0, -1, 0}, 5); ok {
		t.Error("hit beyond max distance")
	}
	if _, ok := tr.Raycast(mgl32.Vec3{5.5, 60.5, 5.5}, mgl32.Vec3{}, 50); ok {
		t.Error("zero direction should not hit")
	}
}

func TestRaycastCrossesChunks(t *testing.T) {
	tr := NewTerrain(nil)
	tr.InstantiateChunkAt(0, -16)
	far := tr.InstantiateChunkAt(-16, -16)
	far.SetBlock(14, 70, 3, block.Dirt)
	far.SetBlock(14, 70, 4, block.Water)

	hit, ok := tr.Raycast(mgl32.Vec3{3.5, 70.5, -12.5}, mgl32.Vec3{-1, 0, 0}, 32)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.X != -2 || hit.Y != 70 || hit.Z != -13 {
		t.Errorf("hit (%d, %d, %d), want (-2, 70, -13)", hit.X, hit.Y, hit.Z)
	}
	if hit.Face != block.XPos || hit.PrevX != -1 {
		t.Errorf("entered through %v from x=%d", hit.Face, hit.PrevX)
	}

	// Liquids are passed through.
	if _, ok := tr.Raycast(mgl32.Vec3{3.5, 70.5, -11.5}, mgl32.Vec3{-1, 0, 0}, 32); ok {
		t.Error("ray stopped in water")
	}
}
