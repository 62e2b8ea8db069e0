package main

import (
	"io"
	"log/slog"
	"time"

	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
)

func setupLogging(w io.Writer, asJSON, debug bool) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}
	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if asJSON {
		handler = slog.NewJSONHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// transitionLogger logs phase changes at debug level.
type transitionLogger struct{}

func (transitionLogger) OnTransition(tr physics.Transition) {
	if tr.Stopped {
		slog.Debug("body at rest", "tick", tr.Tick, "body", tr.Body)
		return
	}
	slog.Debug("phase change", "tick", tr.Tick, "body", tr.Body, "from", tr.From.String(), "to", tr.To.String())
}

func logRunSummary(scene string, r *sim.Result, elapsed time.Duration) {
	slog.Info("run finished",
		"scene", scene,
		"ticks", r.Ticks,
		"settled", r.Settled,
		"density", r.WaterDensity,
		"transitions", len(r.Transitions),
		"elapsed", elapsed,
	)
}
