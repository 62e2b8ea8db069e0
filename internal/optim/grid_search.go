package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/ballsim/internal/analysis"
	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/sim"
)

var ErrNoValidPoint = errors.New("optim: no parameter combination produced a run")

// Objective scores a finished run; lower is better.
type Objective func(r *sim.Result) float64

var Objectives = map[string]Objective{
	// ticks until every body rests, or the tick limit
	"ticks": func(r *sim.Result) float64 { return float64(r.Ticks) },
	// mean settle tick; unsettled runs score +Inf
	"mean_settle": func(r *sim.Result) float64 {
		sum := analysis.Summarize(r.Samples)
		if sum.Settled < len(sum.Bodies) || sum.Settled == 0 {
			return math.Inf(1)
		}
		return sum.MeanSettle
	},
	// spread of settle ticks across bodies
	"settle_spread": func(r *sim.Result) float64 {
		sum := analysis.Summarize(r.Samples)
		if sum.Settled < len(sum.Bodies) {
			return math.Inf(1)
		}
		return sum.StdDevSettle
	},
}

func ObjectiveNames() []string {
	names := make([]string, 0, len(Objectives))
	for name := range Objectives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search runs base once per grid point and returns the parameters with the
// lowest objective. Points the config rejects are skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	base *config.Config,
	run sim.Config,
	objective Objective,
) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("optim: %d params but %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, run, objective, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, ErrNoValidPoint
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	run sim.Config,
	objective Objective,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		cfg := base.Clone()
		for k, v := range current {
			if err := cfg.SetParam(k, v); err != nil {
				return err
			}
		}
		s, err := cfg.NewSimulator()
		if err != nil {
			return nil
		}

		result, err := sim.New(s).Run(ctx, run)
		if err != nil {
			return err
		}

		val := objective(result)
		if val < *best || *bestParams == nil {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, run, objective, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}
