package analysis

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
)

const numPhases = int(physics.Stopping) + 1

// BodySummary describes how one body went through its phases. PhaseStart
// holds the first sampled tick of each phase, or -1.
type BodySummary struct {
	Body       int
	Color      string
	FinalY     float64
	SettleTick int
	PhaseStart [numPhases]int
}

// PhaseTicks is the number of ticks between entering phase p and the next
// recorded phase start, or settling for Stopping. It is -1 when unknown.
func (b BodySummary) PhaseTicks(p physics.Phase) int {
	start := b.PhaseStart[p]
	if start < 0 {
		return -1
	}
	end := b.SettleTick
	for q := p + 1; q <= physics.Stopping; q++ {
		if b.PhaseStart[q] >= 0 {
			end = b.PhaseStart[q]
			break
		}
	}
	if end < 0 {
		return -1
	}
	return end - start
}

type Summary struct {
	Bodies       []BodySummary
	Settled      int
	MeanSettle   float64
	StdDevSettle float64
	MaxSettle    float64
}

// Summarize works on recorded samples so it applies equally to fresh
// results and stored runs. Accuracy follows the sampling interval.
func Summarize(samples []sim.Sample) Summary {
	byBody := groupByBody(samples)
	ids := make([]int, 0, len(byBody))
	for id := range byBody {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	summary := Summary{Bodies: make([]BodySummary, 0, len(ids))}
	settle := make([]float64, 0, len(ids))
	for _, id := range ids {
		bs := summarizeBody(id, byBody[id])
		summary.Bodies = append(summary.Bodies, bs)
		if bs.SettleTick >= 0 {
			settle = append(settle, float64(bs.SettleTick))
		}
	}

	summary.Settled = len(settle)
	if len(settle) > 0 {
		summary.MeanSettle = stat.Mean(settle, nil)
		summary.MaxSettle = floats.Max(settle)
	}
	if len(settle) > 1 {
		summary.StdDevSettle = stat.StdDev(settle, nil)
	}
	return summary
}

func summarizeBody(id int, samples []sim.Sample) BodySummary {
	bs := BodySummary{Body: id, SettleTick: -1}
	for i := range bs.PhaseStart {
		bs.PhaseStart[i] = -1
	}
	for _, s := range samples {
		if ph, ok := physics.ParsePhase(s.Phase); ok && bs.PhaseStart[ph] < 0 {
			bs.PhaseStart[ph] = s.Tick
		}
		if !s.Moving && bs.SettleTick < 0 {
			bs.SettleTick = s.Tick
		}
		bs.FinalY = s.Y
		bs.Color = s.Color
	}
	return bs
}

func groupByBody(samples []sim.Sample) map[int][]sim.Sample {
	out := make(map[int][]sim.Sample)
	for _, s := range samples {
		out[s.Body] = append(out[s.Body], s)
	}
	for _, series := range out {
		sort.SliceStable(series, func(i, j int) bool { return series[i].Tick < series[j].Tick })
	}
	return out
}

// Depths returns the y series of one body in tick order.
func Depths(samples []sim.Sample, body int) []float64 {
	series := groupByBody(samples)[body]
	out := make([]float64, len(series))
	for i, s := range series {
		out[i] = s.Y
	}
	return out
}

// BodyCount is one more than the largest body index seen.
func BodyCount(samples []sim.Sample) int {
	n := 0
	for _, s := range samples {
		if s.Body+1 > n {
			n = s.Body + 1
		}
	}
	return n
}
