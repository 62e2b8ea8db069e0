package analysis

import (
	"strings"

	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
)

// PortraitPoint is one (depth, velocity) pair tagged with its phase.
type PortraitPoint struct {
	Y, Velocity float64
	Phase       physics.Phase
}

// PhasePortrait is a body's trajectory in depth/velocity space.
type PhasePortrait struct {
	Body   int
	Points []PortraitPoint
}

var phaseMarks = [numPhases]rune{
	physics.Falling:  '.',
	physics.Water:    '~',
	physics.Bounce1:  '^',
	physics.Bounce2:  'v',
	physics.Stopping: '_',
}

func NewPhasePortrait(samples []sim.Sample, body int) *PhasePortrait {
	series := groupByBody(samples)[body]
	if len(series) == 0 {
		return nil
	}
	portrait := &PhasePortrait{Body: body, Points: make([]PortraitPoint, 0, len(series))}
	for _, s := range series {
		ph, _ := physics.ParsePhase(s.Phase)
		portrait.Points = append(portrait.Points, PortraitPoint{Y: s.Y, Velocity: s.Velocity, Phase: ph})
	}
	return portrait
}

// ASCII draws depth along x and velocity along y (positive velocity is
// down and drawn at the top). Each point is marked by its phase.
func (p *PhasePortrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].Y, p.Points[0].Y
	minY, maxY := p.Points[0].Velocity, p.Points[0].Velocity
	for _, pt := range p.Points {
		minX, maxX = min(minX, pt.Y), max(maxX, pt.Y)
		minY, maxY = min(minY, pt.Velocity), max(maxY, pt.Velocity)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	// zero velocity axis
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			canvas[row][col] = '─'
		}
	}

	for _, pt := range p.Points {
		col := int((pt.Y - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Velocity-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = phaseMarks[pt.Phase]
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
