package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
)

func TestKineticEnergy(t *testing.T) {
	m := NewKineticEnergy()

	bodies := []physics.Body{
		{Mass: 2, Velocity: 3, Moving: true, Phase: physics.Water},
		{Mass: 1, Velocity: -2, Moving: true, Phase: physics.Bounce2},
		{Mass: 5, Velocity: 9, Moving: true, Phase: physics.Stopping},
		{Mass: 5, Velocity: 9, Moving: false, Phase: physics.Stopping},
	}
	m.Observe(1, bodies)
	if got := m.Value(); math.Abs(got-11) > 1e-12 {
		t.Errorf("expected energy 11, got %f", got)
	}

	m.Observe(2, nil)
	if got := m.Value(); math.Abs(got-5.5) > 1e-12 {
		t.Errorf("expected mean 5.5, got %f", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %f", m.Value())
	}
}

func TestPeakImpact(t *testing.T) {
	m := NewPeakImpact()

	m.Observe(1, []physics.Body{{Phase: physics.Water, Velocity: 4}, {Phase: physics.Water, Velocity: 1}})
	m.Observe(2, []physics.Body{{Phase: physics.Bounce1, Velocity: 4.5}, {Phase: physics.Water, Velocity: 6}})
	m.Observe(3, []physics.Body{{Phase: physics.Bounce1, Velocity: -9}, {Phase: physics.Bounce1, Velocity: 6.5}})

	if got := m.Value(); got != 6.5 {
		t.Errorf("expected peak 6.5, got %f", got)
	}

	m.Reset()
	m.Observe(4, []physics.Body{{Phase: physics.Bounce1, Velocity: 20}})
	if got := m.Value(); got != 0 {
		t.Errorf("a body first seen in Bounce1 is not an impact, got %f", got)
	}
}

func TestRestFraction(t *testing.T) {
	m := NewRestFraction()
	if m.Value() != 0 {
		t.Errorf("expected 0 without samples")
	}

	m.Observe(1, []physics.Body{{Moving: true}, {Moving: false}})
	m.Observe(2, []physics.Body{{Moving: false}, {Moving: false}})
	if got := m.Value(); got != 0.75 {
		t.Errorf("expected 0.75, got %f", got)
	}
}

func TestCollectorWithRunner(t *testing.T) {
	cfg := config.GetPreset("single")
	s, err := cfg.NewSimulator()
	if err != nil {
		t.Fatalf("new simulator: %v", err)
	}

	c := NewCollector(DefaultMetrics()...)
	runner := sim.New(s)
	runner.AddObserver(c)
	if _, err := runner.Run(context.Background(), sim.DefaultConfig()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	vals := c.Values()
	if len(vals) != 3 {
		t.Fatalf("expected 3 metrics, got %v", vals)
	}
	if vals["peak_impact_velocity"] <= 0 {
		t.Errorf("body hit the floor but no impact recorded: %v", vals)
	}
	if vals["mean_kinetic_energy"] <= 0 {
		t.Errorf("expected positive kinetic energy: %v", vals)
	}
	// the single body is moving on every observed tick except the last
	if r := vals["rest_fraction"]; r <= 0 || r > 0.01 {
		t.Errorf("unexpected rest fraction %f", r)
	}

	names := c.Names()
	if names[0] != "mean_kinetic_energy" || names[2] != "rest_fraction" {
		t.Errorf("names not sorted: %v", names)
	}

	c.Reset()
	if c.Values()["peak_impact_velocity"] != 0 {
		t.Error("reset did not clear metrics")
	}
}
