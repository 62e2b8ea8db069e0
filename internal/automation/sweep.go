package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/san-kum/ballsim/internal/analysis"
	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/sim"
)

// ParameterSweep runs a scene across evenly spaced values of one config
// parameter.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Run       sim.Config
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	Ticks      int
	Settled    bool
	Summary    analysis.Summary
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}
	results := make([]SweepResult, 0, sweep.NumSteps)

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := sweep.Base.Clone()
		if err := cfg.SetParam(sweep.ParamName, paramVal); err != nil {
			return nil, err
		}
		s, err := cfg.NewSimulator()
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		result, err := sim.New(s).Run(ctx, sweep.Run)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Ticks:      result.Ticks,
			Settled:    result.Settled,
			Summary:    analysis.Summarize(result.Samples),
		})

		slog.Debug("sweep step", "step", i+1, "of", sweep.NumSteps, "param", sweep.ParamName, "value", paramVal)
	}

	return results, nil
}

// MonteCarloConfig drops every body from a randomly shifted height.
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64 // max shift of each body's start y, in pixels
	NumTrials    int
	Seed         int64
	Run          sim.Config
}

// MonteCarloResult holds one trial
type MonteCarloResult struct {
	TrialID int
	StartY  []float64
	Ticks   int
	Settled bool
}

// RunMonteCarlo executes multiple trials with random perturbations
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		scene := cfg.Base.Clone()
		startY := make([]float64, len(scene.Bodies))
		for i := range scene.Bodies {
			y := scene.Bodies[i].Y + (rng.Float64()-0.5)*2*cfg.Perturbation
			scene.Bodies[i].Y = max(y, 0)
			startY[i] = scene.Bodies[i].Y
		}

		s, err := scene.NewSimulator()
		if err != nil {
			return nil, err
		}
		result, err := sim.New(s).Run(ctx, cfg.Run)
		if err != nil {
			return nil, err
		}

		results = append(results, MonteCarloResult{
			TrialID: trial,
			StartY:  startY,
			Ticks:   result.Ticks,
			Settled: result.Settled,
		})

		if (trial+1)%10 == 0 {
			slog.Debug("monte carlo progress", "done", trial+1, "trials", cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats counts trials that settled within the tick limit.
func MonteCarloStats(results []MonteCarloResult) (settled int, unsettled int) {
	for _, r := range results {
		if r.Settled {
			settled++
		} else {
			unsettled++
		}
	}
	return
}
