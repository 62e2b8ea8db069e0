package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
)

func hexOr(s, fallback string) string {
	c, err := config.ParseColor(s)
	if err != nil {
		return fallback
	}
	return config.Hex(c)
}

// FrameSVG draws one recorded frame the way the window shows it: background,
// water from the water level down, the ground line and every body as a
// filled circle with an outline.
func FrameSVG(frame []sim.Sample, cfg *config.Config) string {
	p := cfg.Params()
	width, height := p.Width, p.Height

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, hexOr(cfg.Colors.Bg, config.DefaultBg)))

	water := p.WaterLevel()
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="%.0f" width="%d" height="%.0f" fill="%s"/>
`, water, width, float64(height)-water, hexOr(cfg.Colors.Water, config.DefaultWater)))

	ground := p.GroundLevel()
	sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.0f" x2="%d" y2="%.0f" stroke="#000000" stroke-width="1"/>
`, ground, width, ground))

	outline := hexOr(cfg.Colors.OvalOutline, config.DefaultOutline)
	sb.WriteString(fmt.Sprintf(`<g stroke="%s" stroke-width="1">
`, outline))
	for _, s := range frame {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, s.X, s.Y, s.Radius, hexOr(s.Color, "#eea9b8")))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// DepthSVG plots one body's y series over ticks. Depth grows downward as
// on screen. Points where the phase changes get a marker.
func DepthSVG(series []sim.Sample, width, height int, strokeColor string) string {
	if len(series) < 2 {
		return ""
	}

	minT, maxT := float64(series[0].Tick), float64(series[0].Tick)
	minY, maxY := series[0].Y, series[0].Y
	for _, s := range series {
		minT, maxT = min(minT, float64(s.Tick)), max(maxT, float64(s.Tick))
		minY, maxY = min(minY, s.Y), max(maxY, s.Y)
	}

	rangeT := maxT - minT
	rangeY := maxY - minY
	if rangeT == 0 {
		rangeT = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	project := func(s sim.Sample) (float64, float64) {
		x := (float64(s.Tick) - minT) / rangeT * float64(width)
		y := (s.Y - minY) / rangeY * float64(height)
		return x, y
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, s := range series {
		x, y := project(s)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString("\"/>\n")

	prev := series[0].Phase
	for _, s := range series[1:] {
		if s.Phase == prev {
			continue
		}
		prev = s.Phase
		ph, _ := physics.ParsePhase(s.Phase)
		x, y := project(s)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="#ffffff"><title>%s</title></circle>
`, x, y, ph))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
