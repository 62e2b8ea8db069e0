package sim

import (
	"context"
	"fmt"
	"sort"

	"github.com/san-kum/ballsim/internal/physics"
)

// Runner drives a physics.Simulator until every body has stopped, playing
// the role of the frame loop without a display.
type Runner struct {
	sim         *physics.Simulator
	observers   []Observer
	transitions []TransitionObserver
}

func New(s *physics.Simulator) *Runner {
	return &Runner{
		sim:         s,
		observers:   make([]Observer, 0),
		transitions: make([]TransitionObserver, 0),
	}
}

func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) AddTransitionObserver(o TransitionObserver) {
	r.transitions = append(r.transitions, o)
}

func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	schedule := make([]DensityChange, len(cfg.Schedule))
	copy(schedule, cfg.Schedule)
	sort.SliceStable(schedule, func(i, j int) bool { return schedule[i].Tick < schedule[j].Tick })

	result := &Result{
		Samples:     make([]Sample, 0, r.sim.Len()*64),
		Transitions: make([]physics.Transition, 0, r.sim.Len()*5),
	}
	result.Samples = appendSamples(result.Samples, r.sim.Tick(), r.sim.Bodies())

	next := 0
	for i := 0; i < cfg.MaxTicks && !r.sim.AllStopped(); i++ {
		select {
		case <-ctx.Done():
			result.Ticks = r.sim.Tick()
			result.WaterDensity = r.sim.WaterDensity()
			return result, ctx.Err()
		default:
		}

		for next < len(schedule) && schedule[next].Tick <= r.sim.Tick()+1 {
			if err := r.sim.SetWaterDensity(schedule[next].Density); err != nil {
				return nil, err
			}
			next++
		}

		trs := r.sim.Step()
		result.Transitions = append(result.Transitions, trs...)
		for _, tr := range trs {
			for _, o := range r.transitions {
				o.OnTransition(tr)
			}
		}

		tick := r.sim.Tick()
		stopped := r.sim.AllStopped()
		if len(r.observers) > 0 || tick%cfg.SampleEvery == 0 || stopped {
			bodies := r.sim.Bodies()
			for _, o := range r.observers {
				o.OnTick(tick, bodies)
			}
			if tick%cfg.SampleEvery == 0 || stopped {
				result.Samples = appendSamples(result.Samples, tick, bodies)
			}
		}
	}

	result.Ticks = r.sim.Tick()
	result.Settled = r.sim.AllStopped()
	result.WaterDensity = r.sim.WaterDensity()
	return result, nil
}

func validateConfig(cfg Config) error {
	if cfg.MaxTicks <= 0 {
		return fmt.Errorf("%w: max ticks must be positive, got %d", ErrInvalidRunConfig, cfg.MaxTicks)
	}
	if cfg.SampleEvery <= 0 {
		return fmt.Errorf("%w: sample interval must be positive, got %d", ErrInvalidRunConfig, cfg.SampleEvery)
	}
	for _, c := range cfg.Schedule {
		if c.Tick < 0 {
			return fmt.Errorf("%w: density change at negative tick %d", ErrInvalidRunConfig, c.Tick)
		}
	}
	return nil
}

func appendSamples(dst []Sample, tick int, bodies []physics.Body) []Sample {
	for i, b := range bodies {
		dst = append(dst, Sample{
			Tick:     tick,
			Body:     i,
			X:        b.X,
			Y:        b.Y,
			Radius:   b.Radius,
			Velocity: b.Velocity,
			Phase:    b.Phase.String(),
			Moving:   b.Moving,
			Color:    b.Color,
		})
	}
	return dst
}

// Frame returns the samples recorded at tick, or the last recorded frame
// when tick is negative.
func (r *Result) Frame(tick int) []Sample {
	return FrameAt(r.Samples, tick)
}

func FrameAt(samples []Sample, tick int) []Sample {
	if len(samples) == 0 {
		return nil
	}
	if tick < 0 {
		tick = samples[len(samples)-1].Tick
	}
	frame := make([]Sample, 0)
	for _, s := range samples {
		if s.Tick == tick {
			frame = append(frame, s)
		}
	}
	return frame
}
