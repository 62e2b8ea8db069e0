package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/ballsim/internal/physics"
)

func newScenario(t *testing.T) *physics.Simulator {
	t.Helper()
	p := physics.DefaultParams()
	p.Width, p.Height = 400, 400
	p.BounceHeight = 10
	s, err := physics.NewSimulator(p)
	if err != nil {
		t.Fatalf("new simulator: %v", err)
	}
	if _, err := s.AddBody(100, 20, 10, 0.1, "pink2"); err != nil {
		t.Fatalf("add body: %v", err)
	}
	return s
}

func TestRunnerRun(t *testing.T) {
	s := newScenario(t)
	result, err := New(s).Run(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !result.Settled {
		t.Fatal("expected the scene to settle")
	}
	if result.Ticks != s.Tick() {
		t.Errorf("expected %d ticks, got %d", s.Tick(), result.Ticks)
	}
	if len(result.Samples) != result.Ticks+1 {
		t.Errorf("expected %d samples, got %d", result.Ticks+1, len(result.Samples))
	}
	if len(result.Transitions) != 5 {
		t.Errorf("expected 5 transitions, got %d", len(result.Transitions))
	}

	last := result.Frame(-1)
	if len(last) != 1 || last[0].Moving || last[0].Y != 388 {
		t.Errorf("unexpected final frame %+v", last)
	}
	first := result.Frame(0)
	if len(first) != 1 || first[0].Y != 20 || first[0].Phase != "falling" {
		t.Errorf("unexpected first frame %+v", first)
	}
}

func TestRunnerSampleEvery(t *testing.T) {
	s := newScenario(t)
	cfg := DefaultConfig()
	cfg.SampleEvery = 10

	result, err := New(s).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for _, smp := range result.Samples {
		if smp.Tick%10 != 0 && smp.Tick != result.Ticks {
			t.Fatalf("unexpected sample at tick %d", smp.Tick)
		}
	}
	if result.Samples[len(result.Samples)-1].Tick != result.Ticks {
		t.Error("final tick was not sampled")
	}
}

func TestRunnerMaxTicks(t *testing.T) {
	s := newScenario(t)
	cfg := DefaultConfig()
	cfg.MaxTicks = 10

	result, err := New(s).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Settled {
		t.Error("scene cannot settle in 10 ticks")
	}
	if result.Ticks != 10 {
		t.Errorf("expected 10 ticks, got %d", result.Ticks)
	}
}

func TestRunnerCanceled(t *testing.T) {
	s := newScenario(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(s).Run(ctx, DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.Ticks != 0 {
		t.Errorf("expected partial result at tick 0, got %+v", result)
	}
}

func TestRunnerInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero max ticks", Config{MaxTicks: 0, SampleEvery: 1}},
		{"zero sample interval", Config{MaxTicks: 10, SampleEvery: 0}},
		{"negative schedule tick", Config{MaxTicks: 10, SampleEvery: 1, Schedule: []DensityChange{{Tick: -1, Density: 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(newScenario(t)).Run(context.Background(), tt.cfg)
			if !errors.Is(err, ErrInvalidRunConfig) {
				t.Errorf("expected ErrInvalidRunConfig, got %v", err)
			}
		})
	}
}

type recorder struct {
	ticks       []int
	transitions []physics.Transition
}

func (r *recorder) OnTick(tick int, bodies []physics.Body) { r.ticks = append(r.ticks, tick) }
func (r *recorder) OnTransition(tr physics.Transition)     { r.transitions = append(r.transitions, tr) }

func TestRunnerObservers(t *testing.T) {
	runner := New(newScenario(t))
	rec := &recorder{}
	runner.AddObserver(rec)
	runner.AddTransitionObserver(rec)

	result, err := runner.Run(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(rec.ticks) != result.Ticks {
		t.Errorf("expected %d tick notifications, got %d", result.Ticks, len(rec.ticks))
	}
	if len(rec.transitions) != len(result.Transitions) {
		t.Errorf("expected %d transitions, got %d", len(result.Transitions), len(rec.transitions))
	}
	if rec.ticks[0] != 1 {
		t.Errorf("first notified tick should be 1, got %d", rec.ticks[0])
	}
}

func TestRunnerSchedule(t *testing.T) {
	s := newScenario(t)
	cfg := DefaultConfig()
	cfg.MaxTicks = 5
	cfg.Schedule = []DensityChange{{Tick: 4, Density: physics.DensityHigh}, {Tick: 2, Density: physics.DensityLow}}

	result, err := New(s).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.WaterDensity != physics.DensityHigh {
		t.Errorf("expected final density %v, got %v", physics.DensityHigh, result.WaterDensity)
	}

	cfg.Schedule = []DensityChange{{Tick: 1, Density: -2}}
	if _, err := New(newScenario(t)).Run(context.Background(), cfg); !errors.Is(err, physics.ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}
}

func TestSweep(t *testing.T) {
	build := func() (*physics.Simulator, error) {
		s, err := physics.NewSimulator(physics.DefaultParams())
		if err != nil {
			return nil, err
		}
		_, err = s.AddBody(200, 20, 10, 120, "")
		return s, err
	}

	densities := []float64{physics.DensityLow, physics.DensityNormal, physics.DensityHigh}
	results, err := NewSweep(build, densities).Run(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	if len(results) != len(densities) {
		t.Fatalf("expected %d results, got %d", len(densities), len(results))
	}
	for i, r := range results {
		if r.WaterDensity != densities[i] {
			t.Errorf("result %d: density %v, want %v", i, r.WaterDensity, densities[i])
		}
		if !r.Settled {
			t.Errorf("result %d did not settle", i)
		}
	}
	if results[2].Ticks >= results[0].Ticks {
		t.Errorf("denser water should settle the heavy body sooner: %d vs %d", results[2].Ticks, results[0].Ticks)
	}
}
