// Package physics implements the phase machine that moves circular bodies
// through air, water and onto the floor.
//
// A [Simulator] owns its [Body] values and advances all of them by one tick
// per [Simulator.Step] call. Each body walks the phases in a fixed order:
//
//   - [Falling]: constant-acceleration free fall down to the water line
//   - [Water]: attenuated gravity against size-scaled drag down to the floor
//   - [Bounce1]: damped rebound up to a mass-dependent height
//   - [Bounce2]: fall back to the floor
//   - [Stopping]: creep onto the floor, then stop for good
//
// # Example
//
//	params := physics.DefaultParams()
//	s, _ := physics.NewSimulator(params)
//	s.AddBody(100, 20, 10, 0.1, "pink2")
//	for !s.AllStopped() {
//	    s.Step()
//	}
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. The caller steps, reads body
// positions and changes water density from a single goroutine.
package physics
