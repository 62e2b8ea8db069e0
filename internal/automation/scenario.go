package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ballsim/internal/analysis"
	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
	"github.com/san-kum/ballsim/internal/storage"
)

// Scenario defines a scripted sequence of headless runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run. Config takes precedence over Preset; with
// neither the classic scene is used.
type ScenarioStep struct {
	Preset      string             `yaml:"preset"`
	Config      string             `yaml:"config"`
	Density     *Density           `yaml:"density"`
	Params      map[string]float64 `yaml:"params"`
	Schedule    []ScheduledDensity `yaml:"schedule"`
	MaxTicks    int                `yaml:"max_ticks"`
	SampleEvery int                `yaml:"sample_every"`
	SaveAs      string             `yaml:"save_as"`
}

type ScheduledDensity struct {
	Tick    int     `yaml:"tick"`
	Density Density `yaml:"density"`
}

// Density decodes a preset name (low, normal, high) or a plain number.
type Density float64

func (d *Density) UnmarshalYAML(n *yaml.Node) error {
	if v, ok := physics.DensityPreset(strings.ToLower(n.Value)); ok {
		*d = Density(v)
		return nil
	}
	var f float64
	if err := n.Decode(&f); err != nil || f < 0 {
		return fmt.Errorf("line %d: invalid density %q", n.Line, n.Value)
	}
	*d = Density(f)
	return nil
}

// StepResult is the outcome of one scenario step. RunID is empty when the
// step was not saved.
type StepResult struct {
	Scene   string
	RunID   string
	Result  *sim.Result
	Summary analysis.Summary
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// RunScenario executes all steps in order. Steps with save_as are written
// to store when it is not nil. Results of finished steps are returned with
// the first error.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, scene, err := step.scene()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		slog.Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "scene", scene)

		s, err := cfg.NewSimulator()
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		if step.Density != nil {
			if err := s.SetWaterDensity(float64(*step.Density)); err != nil {
				return results, fmt.Errorf("step %d setup: %w", i+1, err)
			}
		}

		runCfg := step.runConfig()
		result, err := sim.New(s).Run(ctx, runCfg)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Scene: scene, Result: result, Summary: analysis.Summarize(result.Samples)}
		if step.SaveAs != "" && store != nil {
			sr.RunID, err = store.Save(step.SaveAs, runCfg.SampleEvery, cfg, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

func (step ScenarioStep) scene() (*config.Config, string, error) {
	var (
		cfg   *config.Config
		scene string
	)
	switch {
	case step.Config != "":
		c, err := config.Load(step.Config)
		if err != nil {
			return nil, "", err
		}
		cfg, scene = c, step.Config
	case step.Preset != "":
		cfg, scene = config.GetPreset(step.Preset), step.Preset
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s", step.Preset)
		}
	default:
		cfg, scene = config.DefaultConfig(), "classic"
	}

	for name, v := range step.Params {
		if err := cfg.SetParam(name, v); err != nil {
			return nil, "", err
		}
	}
	return cfg, scene, nil
}

func (step ScenarioStep) runConfig() sim.Config {
	cfg := sim.DefaultConfig()
	if step.MaxTicks > 0 {
		cfg.MaxTicks = step.MaxTicks
	}
	if step.SampleEvery > 0 {
		cfg.SampleEvery = step.SampleEvery
	}
	for _, sd := range step.Schedule {
		cfg.Schedule = append(cfg.Schedule, sim.DensityChange{Tick: sd.Tick, Density: float64(sd.Density)})
	}
	return cfg
}
