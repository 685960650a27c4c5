package main

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"opencraft/config"
	"opencraft/pipeline"
	"opencraft/stream"
	"opencraft/world"
	"opencraft/world/gen"
)

// session is one running world: the terrain index, its generator, the
// worker pipeline and the controller that feeds it.
type session struct {
	terrain *world.Terrain
	gen     *gen.Generator
	pipe    *pipeline.Pipeline
	stream  *stream.Controller
	log     *slog.Logger
}

func newSession(cfg config.Config, dev world.Device, log *slog.Logger) *session {
	terrain := world.NewTerrain(dev)
	g := gen.New(cfg.Seed)
	pipe := pipeline.New(terrain, g, pipeline.Options{
		Workers:      cfg.Workers,
		MaxInFlight:  cfg.MaxInFlight,
		ResultBuffer: cfg.ResultBuffer,
		Logger:       log,
	})
	ctrl := stream.New(terrain, pipe, stream.Options{
		Window: stream.Window{
			MinDX: cfg.Stream.MinDX,
			MaxDX: cfg.Stream.MaxDX,
			MinDZ: cfg.Stream.MinDZ,
			MaxDZ: cfg.Stream.MaxDZ,
		},
		MaxRetries: cfg.MaxRetries,
		Logger:     log,
	})
	log.Info("world ready", "seed", g.Seed(), "workers", cfg.Workers, "max_in_flight", cfg.MaxInFlight)
	return &session{terrain: terrain, gen: g, pipe: pipe, stream: ctrl, log: log}
}

// spawn is a point a few blocks above the surface of the column at the
// middle of chunk (0, 0).
func (s *session) spawn() mgl32.Vec3 {
	col := s.gen.ColumnAt(world.ChunkWidth/2, world.ChunkDepth/2)
	return mgl32.Vec3{world.ChunkWidth/2 + 0.5, float32(col.Top) + 3, world.ChunkDepth/2 + 0.5}
}

// draw issues both passes for the chunks within radius blocks of pos.
func (s *session) draw(pos mgl32.Vec3, radius int, target world.Target) {
	x, z := int(pos.X()), int(pos.Z())
	s.terrain.Draw(x-radius, x+radius, z-radius, z+radius, target)
}

func (s *session) close() {
	s.pipe.Close()
}
