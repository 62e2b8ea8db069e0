package gui

import (
	"fmt"
	"image/color"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/ballsim/internal/audio"
	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/physics"
)

const (
	hudWidth   = 260
	maxHistory = 400
)

var (
	ColHud     = rl.NewColor(10, 10, 10, 255)
	ColText    = rl.NewColor(180, 180, 180, 255)
	ColTextDim = rl.NewColor(90, 90, 90, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColGround  = rl.NewColor(40, 40, 40, 255)
)

// Options are the window settings that do not come from the scene.
type Options struct {
	Scene string
	Sound bool
}

// App renders one simulator in a raylib window. The scene occupies the left
// part at 1:1 scale, a HUD panel sits to its right.
type App struct {
	Sim   *physics.Simulator
	Scene string
	Fps   int32

	Bg, Water, Outline rl.Color
	BodyColors         []rl.Color

	Running  bool
	Selected int
	Depths   [][]float64

	Audio *audio.Processor
}

func toRL(c color.RGBA) rl.Color { return rl.NewColor(c.R, c.G, c.B, c.A) }

func parseRL(s, fallback string) rl.Color {
	c, err := config.ParseColor(s)
	if err != nil {
		c, _ = config.ParseColor(fallback)
	}
	return toRL(c)
}

func NewApp(s *physics.Simulator, cfg *config.Config, opts Options) *App {
	app := &App{
		Sim:     s,
		Scene:   opts.Scene,
		Fps:     int32(cfg.Speeds.Animation),
		Bg:      parseRL(cfg.Colors.Bg, config.DefaultBg),
		Water:   parseRL(cfg.Colors.Water, config.DefaultWater),
		Outline: parseRL(cfg.Colors.OvalOutline, config.DefaultOutline),
		Running: true,
		Depths:  make([][]float64, s.Len()),
	}
	for _, b := range s.Bodies() {
		app.BodyColors = append(app.BodyColors, parseRL(b.Color, "pink2"))
	}
	if app.Fps <= 0 {
		app.Fps = config.DefaultAnimation
	}

	if opts.Sound {
		proc := audio.NewProcessor()
		if err := proc.Start(); err != nil {
			slog.Warn("sound disabled", "err", err)
		} else {
			app.Audio = proc
		}
	}
	app.recordDepths()
	return app
}

func (a *App) initWindow() {
	p := a.Sim.Params()
	rl.InitWindow(int32(p.Width+hudWidth), int32(p.Height), fmt.Sprintf("ballsim :: %s", a.Scene))
	rl.SetTargetFPS(a.Fps)
}

// Run opens the window and blocks until it is closed with Esc or the
// window button.
func Run(s *physics.Simulator, cfg *config.Config, opts Options) {
	app := NewApp(s, cfg, opts)
	app.initWindow()
	defer rl.CloseWindow()
	defer app.close()
	app.RunLoop()
}

func (a *App) close() {
	if a.Audio != nil {
		a.Audio.Stop()
	}
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

// Update reads input and advances the simulation by at most one tick.
func (a *App) Update() {
	switch {
	case rl.IsKeyPressed(rl.KeyOne):
		a.setDensity(physics.DensityLow)
	case rl.IsKeyPressed(rl.KeyTwo):
		a.setDensity(physics.DensityNormal)
	case rl.IsKeyPressed(rl.KeyThree):
		a.setDensity(physics.DensityHigh)
	case rl.IsKeyPressed(rl.KeySpace):
		a.Running = !a.Running
	case rl.IsKeyPressed(rl.KeyR):
		a.Sim.Reset()
		for i := range a.Depths {
			a.Depths[i] = a.Depths[i][:0]
		}
		a.recordDepths()
	case rl.IsKeyPressed(rl.KeyTab):
		if n := a.Sim.Len(); n > 0 {
			a.Selected = (a.Selected + 1) % n
		}
	}

	if !a.Running || a.Sim.AllStopped() {
		return
	}
	for _, tr := range a.Sim.Step() {
		slog.Debug("transition", "tick", tr.Tick, "body", tr.Body, "from", tr.From, "to", tr.To, "stopped", tr.Stopped)
		if a.Audio != nil && tr.To == physics.Bounce1 {
			b := a.Sim.Body(tr.Body)
			a.Audio.Strike(b.Velocity, b.Mass)
		}
	}
	a.recordDepths()
}

func (a *App) setDensity(d float64) {
	if err := a.Sim.SetWaterDensity(d); err != nil {
		slog.Warn("density rejected", "density", d, "err", err)
		return
	}
	slog.Info("water density", "tick", a.Sim.Tick(), "density", d)
}

func (a *App) recordDepths() {
	for i, b := range a.Sim.Bodies() {
		a.Depths[i] = append(a.Depths[i], b.Y)
		if len(a.Depths[i]) > maxHistory {
			a.Depths[i] = a.Depths[i][1:]
		}
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(a.Bg)
	a.drawScene()
	a.drawHUD()
	rl.EndDrawing()
}
