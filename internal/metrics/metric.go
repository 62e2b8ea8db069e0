package metrics

import (
	"sort"

	"github.com/san-kum/ballsim/internal/physics"
)

// Metric folds per-tick body snapshots into one number.
type Metric interface {
	Name() string
	Observe(tick int, bodies []physics.Body)
	Value() float64
	Reset()
}

// Collector feeds a set of metrics from a sim.Runner.
type Collector struct {
	metrics []Metric
}

func NewCollector(ms ...Metric) *Collector {
	return &Collector{metrics: ms}
}

// DefaultMetrics is the set reported after a headless run.
func DefaultMetrics() []Metric {
	return []Metric{NewKineticEnergy(), NewPeakImpact(), NewRestFraction()}
}

func (c *Collector) OnTick(tick int, bodies []physics.Body) {
	for _, m := range c.metrics {
		m.Observe(tick, bodies)
	}
}

func (c *Collector) Values() map[string]float64 {
	out := make(map[string]float64, len(c.metrics))
	for _, m := range c.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// Names returns metric names in sorted order.
func (c *Collector) Names() []string {
	names := make([]string, len(c.metrics))
	for i, m := range c.metrics {
		names[i] = m.Name()
	}
	sort.Strings(names)
	return names
}

func (c *Collector) Reset() {
	for _, m := range c.metrics {
		m.Reset()
	}
}
