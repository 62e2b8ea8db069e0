package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/physics"
)

var sceneInfo = map[string]string{
	"classic": "six balls, mixed sizes",
	"pair":    "two heavy balls",
	"single":  "one light ball",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// paramSteps is the h/l increment per editable parameter.
var paramSteps = map[string]float64{
	"gravity":          0.05,
	"initial_velocity": 0.5,
	"water_resistance": 0.01,
	"bounce_height":    0.5,
	"bounce_coef":      0.05,
	"water_density":    0.5,
}

var paramOrder = []string{"gravity", "initial_velocity", "water_resistance", "bounce_height", "bounce_coef", "water_density"}

type model struct {
	state, cursor int
	scenes        []string
	selected      string
	cfg           *config.Config
	params        map[string]float64
	paramCursor   int
	editing       bool
	editBuf       string
	err           error
	liveModel     Model
}

func NewInteractiveApp() *model {
	return &model{
		state:  stateMenu,
		scenes: config.ListPresets(),
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.scenes)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.scenes[m.cursor]
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
		m.loadScene()
	}
	return m, nil
}

func (m *model) loadScene() {
	m.cfg = config.GetPreset(m.selected)
	m.params = map[string]float64{
		"gravity":          m.cfg.Speeds.Gravity,
		"initial_velocity": m.cfg.Speeds.InitialVelocity,
		"water_resistance": m.cfg.Behavior.WaterResistance,
		"bounce_height":    m.cfg.Behavior.BounceHeight,
		"bounce_coef":      m.cfg.Behavior.BounceCoef,
		"water_density":    physics.DensityNormal,
	}
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	name := paramOrder[m.paramCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			if val, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				m.params[name] = val
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(paramOrder)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, strconv.FormatFloat(m.params[name], 'f', -1, 64)
	case "s":
		cmd := m.start()
		return m, cmd
	case "left", "h":
		m.params[name] -= paramSteps[name]
	case "right", "l":
		m.params[name] += paramSteps[name]
	}
	return m, nil
}

// start applies the edited values and switches to the live view. Invalid
// values keep the config screen open with the error shown.
func (m *model) start() tea.Cmd {
	cfg := m.cfg.Clone()
	for _, name := range paramOrder {
		if name == "water_density" {
			continue
		}
		if err := cfg.SetParam(name, m.params[name]); err != nil {
			m.err = err
			return nil
		}
	}

	s, err := cfg.NewSimulator()
	if err == nil {
		err = s.SetWaterDensity(m.params["water_density"])
	}
	if err != nil {
		m.err = err
		return nil
	}
	m.err = nil
	m.liveModel = NewModel(s, cfg, m.selected)
	m.state = stateSim
	return m.liveModel.Init()
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	arrowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	idleDesc    = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

func keyHelp(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(keyStyle.Render(pairs[i]) + idleStyle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (m model) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render("BALLSIM") + "\n    " + subStyle.Render("falling, sinking, settling") + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.scenes {
		desc := sceneInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", arrowStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-10s", name)), accentStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-10s", name)), idleDesc.Render(desc)))
		}
	}
	b.WriteString("\n    " + keyHelp("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render(strings.ToUpper(m.selected)) + "\n    " + subStyle.Render(sceneInfo[m.selected]) + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range paramOrder {
		valStr := fmt.Sprintf("%8.3f", m.params[name])
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%8s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", arrowStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-17s", name)), accentStyle.Bold(true).Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", idleStyle.Render(fmt.Sprintf("  %-17s", name)), idleDesc.Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + errStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyHelp("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

func RunInteractive() error {
	_, err := tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen()).Run()
	return err
}

// RunLive opens the live view for an already built simulator.
func RunLive(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
