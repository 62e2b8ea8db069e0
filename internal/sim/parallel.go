package sim

import (
	"context"
	"sync"

	"github.com/san-kum/ballsim/internal/physics"
)

// Sweep runs one scene at several water densities in parallel. Every run
// gets its own simulator from build.
type Sweep struct {
	build     func() (*physics.Simulator, error)
	densities []float64
}

func NewSweep(build func() (*physics.Simulator, error), densities []float64) *Sweep {
	return &Sweep{build: build, densities: densities}
}

// Run returns one result per density, in the order the densities were given.
func (sw *Sweep) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(sw.densities))
	errs := make([]error, len(sw.densities))

	var wg sync.WaitGroup
	for i, d := range sw.densities {
		wg.Add(1)
		go func(idx int, density float64) {
			defer wg.Done()

			s, err := sw.build()
			if err != nil {
				errs[idx] = err
				return
			}
			if err := s.SetWaterDensity(density); err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = New(s).Run(ctx, cfg)
		}(i, d)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
