package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// drawScene paints water from the water level to the bottom, the ground
// line and every body in insertion order so later bodies overlap earlier.
func (a *App) drawScene() {
	p := a.Sim.Params()
	water := int32(a.Sim.WaterLevel())
	rl.DrawRectangle(0, water, int32(p.Width), int32(p.Height)-water, a.Water)

	ground := float32(a.Sim.GroundLevel())
	rl.DrawLineEx(rl.NewVector2(0, ground), rl.NewVector2(float32(p.Width), ground), 1, ColGround)

	for i, b := range a.Sim.Bodies() {
		cx, cy := int32(b.X), int32(b.Y)
		rl.DrawCircle(cx, cy, float32(b.Radius), a.BodyColors[i])
		rl.DrawCircleLines(cx, cy, float32(b.Radius), a.Outline)
		if i == a.Selected {
			rl.DrawCircleLines(cx, cy, float32(b.Radius)+3, ColTextDim)
		}
	}
}

func (a *App) drawHUD() {
	p := a.Sim.Params()
	x := int32(p.Width)
	rl.DrawRectangle(x, 0, hudWidth, int32(p.Height), ColHud)

	tx := x + 16
	rl.DrawText("ballsim", tx, 16, 24, ColSelect)
	rl.DrawText(a.Scene, tx+110, 22, 14, ColText)

	status, col := "RUNNING", ColSelect
	switch {
	case a.Sim.AllStopped():
		status, col = "SETTLED", ColText
	case !a.Running:
		status, col = "PAUSED", ColTextDim
	}
	rl.DrawText(status, tx, 52, 16, col)

	rl.DrawText(fmt.Sprintf("tick     %d", a.Sim.Tick()), tx, 84, 14, ColText)
	rl.DrawText(fmt.Sprintf("density  %.1f", a.Sim.WaterDensity()), tx, 102, 14, ColText)
	rl.DrawText(fmt.Sprintf("at rest  %d/%d", a.Sim.Len()-a.Sim.Moving(), a.Sim.Len()), tx, 120, 14, ColText)

	y := int32(150)
	for i, b := range a.Sim.Bodies() {
		phase := b.Phase.String()
		if !b.Moving {
			phase = "rest"
		}
		c := ColTextDim
		if i == a.Selected {
			c = ColSelect
		}
		rl.DrawText(fmt.Sprintf("#%d r=%.0f %-8s y=%.0f", i, b.Radius, phase, b.Y), tx, y, 12, c)
		y += 16
	}

	a.drawTelemetry(tx, y+16, hudWidth-32, 80)

	rl.DrawText("[1/2/3] DENSITY  [SPACE] PAUSE", tx, int32(p.Height)-44, 10, ColTextDim)
	rl.DrawText("[R] RESET  [TAB] BODY  [ESC] QUIT", tx, int32(p.Height)-28, 10, ColTextDim)
}

// drawTelemetry plots the selected body's depth, deeper drawn lower.
func (a *App) drawTelemetry(x, y, width, height int32) {
	if a.Selected >= len(a.Depths) || len(a.Depths[a.Selected]) < 2 {
		return
	}
	series := a.Depths[a.Selected]

	minVal, maxVal := series[0], series[0]
	for _, v := range series {
		minVal, maxVal = min(minVal, v), max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(series))
	for i, v := range series {
		px := float32(x) + float32(i)/float32(len(series))*float32(width)
		py := float32(y) + float32((v-minVal)/(maxVal-minVal))*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawRectangleLines(x, y, width, height, ColGround)
	rl.DrawLineStrip(points, ColText)
	rl.DrawText(fmt.Sprintf("depth #%d", a.Selected), x, y+height+4, 12, ColTextDim)
}
