package viz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/physics"
)

func newTestModel(t *testing.T, preset string) Model {
	t.Helper()
	cfg := config.GetPreset(preset)
	s, err := cfg.NewSimulator()
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	return NewModel(s, cfg, preset)
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestModel_CanvasKeepsAspect(t *testing.T) {
	m := newTestModel(t, "single")
	if m.canvas.PixelWidth() != m.canvas.PixelHeight() {
		t.Errorf("square scene gave %dx%d pixels", m.canvas.PixelWidth(), m.canvas.PixelHeight())
	}
	if m.scaleX != m.scaleY {
		t.Errorf("scales differ: %v vs %v", m.scaleX, m.scaleY)
	}
}

func TestModel_DensityKeys(t *testing.T) {
	tests := []struct {
		key  string
		want float64
	}{
		{"1", physics.DensityLow},
		{"2", physics.DensityNormal},
		{"3", physics.DensityHigh},
	}

	m := newTestModel(t, "single")
	for _, tt := range tests {
		m, _ = send(m, runes(tt.key))
		if got := m.sim.WaterDensity(); got != tt.want {
			t.Errorf("key %s: density = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestModel_TickSteps(t *testing.T) {
	m := newTestModel(t, "single")

	m, cmd := send(m, TickMsg(time.Time{}))
	if m.sim.Tick() != 1 {
		t.Errorf("tick = %d, want 1", m.sim.Tick())
	}
	if cmd == nil {
		t.Error("tick should schedule the next frame")
	}
	if len(m.depths[0]) != 2 {
		t.Errorf("depth history = %d, want 2", len(m.depths[0]))
	}
}

func TestModel_Pause(t *testing.T) {
	m := newTestModel(t, "single")

	m, _ = send(m, tea.KeyMsg{Type: tea.KeySpace})
	if m.running {
		t.Fatal("space should pause")
	}
	m, _ = send(m, TickMsg(time.Time{}))
	if m.sim.Tick() != 0 {
		t.Errorf("paused model stepped to tick %d", m.sim.Tick())
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view should show PAUSED")
	}
}

func TestModel_Reset(t *testing.T) {
	m := newTestModel(t, "single")
	for i := 0; i < 30; i++ {
		m, _ = send(m, TickMsg(time.Time{}))
	}
	if m.sim.Body(0).Phase == physics.Falling {
		t.Fatal("body should have reached the water after 30 ticks")
	}

	m, _ = send(m, runes("r"))
	b := m.sim.Body(0)
	if m.sim.Tick() != 0 || b.Y != 20 || b.Phase != physics.Falling {
		t.Errorf("after reset: tick=%d y=%v phase=%v", m.sim.Tick(), b.Y, b.Phase)
	}
	if len(m.events) != 0 {
		t.Errorf("events not cleared: %v", m.events)
	}
}

func TestModel_Transitions(t *testing.T) {
	m := newTestModel(t, "single")
	var seen []physics.Transition
	m.OnTransition(func(tr physics.Transition) { seen = append(seen, tr) })

	for i := 0; i < 60; i++ {
		m, _ = send(m, TickMsg(time.Time{}))
	}

	if len(seen) == 0 {
		t.Fatal("no transitions reported")
	}
	if seen[0].From != physics.Falling || seen[0].To != physics.Water {
		t.Errorf("first transition = %v -> %v", seen[0].From, seen[0].To)
	}
	if len(m.events) == 0 || len(m.events) > eventCapacity {
		t.Errorf("event log size = %d", len(m.events))
	}
}

func TestModel_QuitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{runes("q"), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		m := newTestModel(t, "single")
		_, cmd := send(m, key)
		if cmd == nil {
			t.Errorf("%s: no command", key)
			continue
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s should quit", key)
		}
	}
}

func TestModel_SelectBody(t *testing.T) {
	m := newTestModel(t, "classic")
	for i := 1; i <= 6; i++ {
		m, _ = send(m, tea.KeyMsg{Type: tea.KeyTab})
		if m.selected != i%6 {
			t.Errorf("after %d tabs selected = %d", i, m.selected)
		}
	}
}

func TestModel_StopsWhenSettled(t *testing.T) {
	m := newTestModel(t, "single")
	for i := 0; i < 2000 && !m.sim.AllStopped(); i++ {
		m, _ = send(m, TickMsg(time.Time{}))
	}
	if !m.sim.AllStopped() {
		t.Fatal("single scene did not settle")
	}
	tick := m.sim.Tick()
	m, _ = send(m, TickMsg(time.Time{}))
	if m.sim.Tick() != tick {
		t.Error("model kept stepping after all bodies stopped")
	}
	if !strings.Contains(m.View(), "SETTLED") {
		t.Error("view should show SETTLED")
	}
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t, "pair")
	v := m.View()
	for _, want := range []string{"PAIR", "Density", "#0", "#1", "falling"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(4, 2)
	if err := r.Save(filepath.Join(t.TempDir(), "empty.gif")); err == nil {
		t.Error("saving without frames should fail")
	}

	c := NewCanvas(4, 2)
	c.FillCircle(4, 4, 2)
	r.Capture(c)
	r.Capture(c)
	if r.Frames() != 2 {
		t.Errorf("frames = %d, want 2", r.Frames())
	}

	path := filepath.Join(t.TempDir(), "out.gif")
	if err := r.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("gif not written: %v", err)
	}
}

func TestInteractive_StartScene(t *testing.T) {
	app := *NewInteractiveApp()
	next, _ := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = next.(model)
	if app.state != stateConfig || app.selected != "classic" {
		t.Fatalf("state=%d selected=%q", app.state, app.selected)
	}

	next, cmd := app.Update(runes("s"))
	app = next.(model)
	if app.state != stateSim || cmd == nil {
		t.Fatalf("start failed: state=%d err=%v", app.state, app.err)
	}
	if app.liveModel.sim.Len() != 6 {
		t.Errorf("bodies = %d, want 6", app.liveModel.sim.Len())
	}
}

func TestInteractive_InvalidParamStaysInConfig(t *testing.T) {
	app := *NewInteractiveApp()
	next, _ := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = next.(model)
	app.params["bounce_coef"] = 0

	next, cmd := app.Update(runes("s"))
	app = next.(model)
	if app.state != stateConfig || cmd != nil {
		t.Errorf("invalid config should not start, state=%d", app.state)
	}
	if app.err == nil {
		t.Error("error should be shown")
	}
}
