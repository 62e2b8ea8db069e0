package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/physics"
)

const (
	canvasCols      = 60
	canvasRows      = 30
	historyCapacity = 600
	eventCapacity   = 6
)

type TickMsg time.Time

// Model drives a simulator from a terminal: one Step per frame until every
// body is at rest.
type Model struct {
	sim     *physics.Simulator
	scene   string
	fps     int
	canvas  *Canvas
	scaleX  float64
	scaleY  float64
	theme   Theme
	running bool

	depths   [][]float64
	selected int
	events   []string

	recorder *Recorder
	showHelp bool

	onTransition func(physics.Transition)
}

// NewModel sizes the canvas to keep the scene's aspect ratio within the
// default terminal area.
func NewModel(s *physics.Simulator, cfg *config.Config, scene string) Model {
	p := s.Params()
	cols, rows := canvasCols, canvasRows
	// braille sub-pixels are square, so width/height in pixels is cols*2 : rows*4
	if p.Width*rows*4 > p.Height*cols*2 {
		rows = max(1, int(math.Ceil(float64(p.Height)*float64(cols*2)/float64(p.Width)/4)))
	} else {
		cols = max(1, int(math.Ceil(float64(p.Width)*float64(rows*4)/float64(p.Height)/2)))
	}
	c := NewCanvas(cols, rows)

	fps := cfg.Speeds.Animation
	if fps <= 0 {
		fps = config.DefaultAnimation
	}

	m := Model{
		sim:     s,
		scene:   scene,
		fps:     fps,
		canvas:  c,
		scaleX:  float64(c.PixelWidth()) / float64(p.Width),
		scaleY:  float64(c.PixelHeight()) / float64(p.Height),
		theme:   ThemeTank,
		running: true,
		depths:  make([][]float64, s.Len()),
	}
	m.recordDepths()
	m.draw()
	return m
}

// OnTransition registers a callback for phase changes, e.g. for logging.
func (m *Model) OnTransition(fn func(physics.Transition)) { m.onTransition = fn }

func (m *Model) SetTheme(name string) { m.theme = GetTheme(name) }

func (m Model) frameInterval() time.Duration { return time.Second / time.Duration(m.fps) }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frameInterval(), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if m.recorder != nil {
				m.stopRecording()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "1":
			m.setDensity(physics.DensityLow)
		case "2":
			m.setDensity(physics.DensityNormal)
		case "3":
			m.setDensity(physics.DensityHigh)
		case "tab":
			if n := m.sim.Len(); n > 0 {
				m.selected = (m.selected + 1) % n
			}
		case "t":
			m.theme = nextTheme(m.theme)
		case "g":
			if m.recorder != nil {
				m.stopRecording()
			} else {
				m.recorder = NewRecorder(m.canvas.Width, m.canvas.Height)
			}
		case "?":
			m.showHelp = !m.showHelp
		}
		m.draw()
	case TickMsg:
		if m.running && !m.sim.AllStopped() {
			m.step()
		}
		m.draw()
		if m.recorder != nil {
			m.recorder.Capture(m.canvas)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	for _, tr := range m.sim.Step() {
		m.pushEvent(tr)
		if m.onTransition != nil {
			m.onTransition(tr)
		}
	}
	m.recordDepths()
}

func (m *Model) recordDepths() {
	for i, b := range m.sim.Bodies() {
		m.depths[i] = append(m.depths[i], b.Y)
		if len(m.depths[i]) > historyCapacity {
			m.depths[i] = m.depths[i][1:]
		}
	}
}

func (m *Model) pushEvent(tr physics.Transition) {
	line := fmt.Sprintf("t=%-5d #%d %s → %s", tr.Tick, tr.Body, tr.From, tr.To)
	if tr.Stopped {
		line = fmt.Sprintf("t=%-5d #%d at rest", tr.Tick, tr.Body)
	}
	m.events = append(m.events, line)
	if len(m.events) > eventCapacity {
		m.events = m.events[1:]
	}
}

func (m *Model) setDensity(d float64) {
	// presets are always valid densities
	_ = m.sim.SetWaterDensity(d)
	m.events = append(m.events, fmt.Sprintf("t=%-5d density %.1f", m.sim.Tick(), d))
	if len(m.events) > eventCapacity {
		m.events = m.events[1:]
	}
}

// reset restores the initial bodies. Water density is left as chosen.
func (m *Model) reset() {
	m.sim.Reset()
	for i := range m.depths {
		m.depths[i] = m.depths[i][:0]
	}
	m.events = m.events[:0]
	m.recordDepths()
}

func (m *Model) stopRecording() {
	if err := m.recorder.Save("ballsim.gif"); err != nil {
		m.events = append(m.events, "gif: "+err.Error())
	}
	m.recorder = nil
}

// toCanvas maps scene coordinates to canvas sub-pixels.
func (m *Model) toCanvas(x, y float64) (int, int) {
	return int(math.Round(x * m.scaleX)), int(math.Round(y * m.scaleY))
}

func (m *Model) draw() {
	m.canvas.Clear()
	cw := m.canvas.PixelWidth()

	_, water := m.toCanvas(0, m.sim.WaterLevel())
	m.canvas.DashLine(water, 2)

	_, ground := m.toCanvas(0, m.sim.GroundLevel())
	m.canvas.DrawLine(0, ground, cw-1, ground)

	for _, b := range m.sim.Bodies() {
		cx, cy := m.toCanvas(b.X, b.Y)
		r := int(math.Round(b.Radius * m.scaleX))
		if b.Moving {
			m.canvas.FillCircle(cx, cy, r)
		} else {
			m.canvas.DrawCircle(cx, cy, r)
		}
	}
}

func (m Model) status() string {
	switch {
	case m.sim.AllStopped():
		return StatusSettled.Render("SETTLED")
	case !m.running:
		return StatusPaused.Render("PAUSED")
	default:
		return StatusRunning.Render("RUNNING")
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.scene)) + "\n")
	s.WriteString(m.status())
	if m.recorder != nil {
		s.WriteString("  " + StatusRecording.Render(fmt.Sprintf("● REC %d", m.recorder.Frames())))
	}
	s.WriteString("\n\n")

	s.WriteString(labelStyle.Render("Tick") + valueStyle.Render(fmt.Sprintf("%d", m.sim.Tick())) + "\n")
	s.WriteString(labelStyle.Render("Density") + valueStyle.Render(fmt.Sprintf("%.1f", m.sim.WaterDensity())) + "\n")
	n := m.sim.Len()
	resting := n - m.sim.Moving()
	if n > 0 {
		s.WriteString(labelStyle.Render("At rest") + valueStyle.Render(fmt.Sprintf("%s %d/%d", ProgressBar(float64(resting)/float64(n), 10), resting, n)) + "\n")
	}

	s.WriteString("\nBODIES\n")
	for i, b := range m.sim.Bodies() {
		phase := b.Phase.String()
		if !b.Moving {
			phase = "rest"
		}
		line := fmt.Sprintf("#%d r=%-3.0f y=%6.1f v=%6.2f ", i, b.Radius, b.Y, b.Velocity)
		marker := "  "
		if i == m.selected {
			marker = selectedStyle.Render("> ")
		}
		s.WriteString(marker + line + m.theme.PhaseStyle(b).Render(phase) + "\n")
	}

	if m.selected < len(m.depths) && len(m.depths[m.selected]) > 1 {
		// plotted negated so sinking reads downward
		series := m.depths[m.selected]
		neg := make([]float64, len(series))
		for i, y := range series {
			neg[i] = -y
		}
		chart := asciigraph.Plot(neg, asciigraph.Height(6), asciigraph.Width(30),
			asciigraph.Caption(fmt.Sprintf("depth #%d", m.selected)))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	if len(m.events) > 0 {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(m.theme.Muted).Render(strings.Join(m.events, "\n")) + "\n")
	}

	s.WriteString(helpStyle.Render(Separator(30) + "\nSP:Pause R:Reset Q:Quit\n1/2/3:Density Tab:Body ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset bodies             ║
║  1/2/3    - Water density            ║
║  Tab      - Chart next body          ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  Q / Esc  - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`
