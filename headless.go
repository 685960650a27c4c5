package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"opencraft/config"
	"opencraft/render"
)

var errNotSettled = errors.New("streaming did not settle")

// runHeadless streams the world around a walking player without a window.
// The player moves one block along +x per tick; once the walk is over the
// controller is ticked until no work is left, and one frame is recorded.
func runHeadless(ctx context.Context, cfg config.Config, ticks int, timeout time.Duration, log *slog.Logger) error {
	dev := render.NewDevice()
	s := newSession(cfg, dev, log)
	defer s.close()

	pos := s.spawn()
	start := time.Now()
	for i := 0; i < ticks && ctx.Err() == nil; i++ {
		s.stream.Tick(pos)
		pos[0]++
		time.Sleep(tickInterval)
	}

	deadline := time.Now().Add(timeout)
	for s.stream.Pending() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if time.Now().After(deadline) {
			log.Error("gave up waiting for the pipeline", "stats", s.stream.Stats())
			return errNotSettled
		}
		s.stream.Tick(pos)
		time.Sleep(tickInterval)
	}

	var rec render.Recorder
	s.draw(pos, cfg.DrawRadius, &rec)

	st := s.stream.Stats()
	ds := dev.Stats()
	log.Info("settled",
		"elapsed", time.Since(start).Round(time.Millisecond),
		"regions", st.Regions,
		"chunks", st.Chunks,
		"uploads", st.Uploads,
		"upload_errors", st.UploadErrors,
		"retries", st.Retries,
		"dropped", st.Dropped,
		"refused", st.Pipeline.Refused,
		"deduped", st.Pipeline.Deduped,
		"live_meshes", ds.Live,
		"vertices", ds.Vertices,
		"draw_calls", len(rec.Calls),
	)
	return nil
}
