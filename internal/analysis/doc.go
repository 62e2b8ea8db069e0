// Package analysis summarizes recorded runs.
//
//   - [Summarize]: settle tick and phase timing per body, with aggregates
//   - [Depths]: a body's y series for plotting
//   - [NewPhasePortrait]: depth against velocity, marked by phase
//
// Everything works on [sim.Sample] rows, so a stored run can be analyzed
// the same way as a fresh one:
//
//	samples, _ := store.LoadSamples(runID)
//	summary := analysis.Summarize(samples)
package analysis
