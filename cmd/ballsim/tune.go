package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/ballsim/internal/automation"
	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/optim"
	"github.com/san-kum/ballsim/internal/sim"
	"github.com/san-kum/ballsim/internal/storage"
)

var (
	paramSpec string
	grid      []string
	objective string
	trials    int
	perturb   float64
	seed      int64
)

func tuningCommands(sceneFlags func(*cobra.Command)) []*cobra.Command {
	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	paramCmd := &cobra.Command{
		Use:   "sweep-param",
		Short: "run one scene across values of a config parameter",
		Args:  cobra.NoArgs,
		RunE:  runParamSweep,
	}
	sceneFlags(paramCmd)
	paramCmd.Flags().StringVar(&paramSpec, "param", "bounce_height:5:15:5", "name:lo:hi:n, name one of "+strings.Join(config.TunableParams(), ", "))
	paramCmd.Flags().IntVar(&maxTicks, "max-ticks", sim.DefaultMaxTicks, "stop after this many ticks")

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "grid search config parameters for the lowest objective",
		Args:  cobra.NoArgs,
		RunE:  runSearch,
	}
	sceneFlags(searchCmd)
	searchCmd.Flags().StringArrayVar(&grid, "grid", nil, "name:lo:hi:n, repeatable")
	searchCmd.Flags().StringVar(&objective, "objective", "mean_settle", "one of "+strings.Join(optim.ObjectiveNames(), ", "))
	searchCmd.Flags().IntVar(&maxTicks, "max-ticks", sim.DefaultMaxTicks, "stop after this many ticks")

	mcCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "drop the scene from randomly shifted heights",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	sceneFlags(mcCmd)
	mcCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	mcCmd.Flags().Float64Var(&perturb, "perturb", 10, "max start height shift in pixels")
	mcCmd.Flags().Int64Var(&seed, "seed", 0, "random seed, time based when 0")
	mcCmd.Flags().IntVar(&maxTicks, "max-ticks", sim.DefaultMaxTicks, "stop after this many ticks")

	return []*cobra.Command{scenarioCmd, paramCmd, searchCmd, mcCmd}
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	results, err := automation.RunScenario(cmd.Context(), sc, st)
	if len(results) > 0 {
		fmt.Printf("%s: %s\n\n", sc.Name, sc.Description)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STEP\tSCENE\tDENSITY\tTICKS\tSETTLED\tMEAN SETTLE\tRUN")
		for i, r := range results {
			fmt.Fprintf(w, "%d\t%s\t%.2f\t%d\t%d/%d\t%.1f\t%s\n", i+1, r.Scene, r.Result.WaterDensity,
				r.Result.Ticks, r.Summary.Settled, len(r.Summary.Bodies), r.Summary.MeanSettle, orDash(r.RunID))
		}
		if ferr := w.Flush(); ferr != nil && err == nil {
			err = ferr
		}
	}
	return err
}

func runParamSweep(cmd *cobra.Command, args []string) error {
	cfg, scene, err := loadScene()
	if err != nil {
		return err
	}
	pr, err := parseRange(paramSpec)
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Base:      cfg,
		ParamName: pr.Name,
		ParamMin:  pr.Lo,
		ParamMax:  pr.Hi,
		NumSteps:  pr.N,
		Run:       sim.Config{MaxTicks: maxTicks, SampleEvery: 1},
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s scene, %d bodies\n\n", scene, len(cfg.Bodies))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tTICKS\tSETTLED\tMEAN SETTLE\tMAX SETTLE\n", strings.ToUpper(pr.Name))
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%d\t%d/%d\t%.1f\t%.0f\n", r.ParamValue, r.Ticks,
			r.Summary.Settled, len(r.Summary.Bodies), r.Summary.MeanSettle, r.Summary.MaxSettle)
	}
	return w.Flush()
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, scene, err := loadScene()
	if err != nil {
		return err
	}
	obj, ok := optim.Objectives[objective]
	if !ok {
		return fmt.Errorf("unknown objective: %s (available: %v)", objective, optim.ObjectiveNames())
	}
	if len(grid) == 0 {
		return fmt.Errorf("at least one --grid is required")
	}

	names := make([]string, 0, len(grid))
	ranges := make([][]float64, 0, len(grid))
	for _, g := range grid {
		pr, err := parseRange(g)
		if err != nil {
			return err
		}
		names = append(names, pr.Name)
		ranges = append(ranges, optim.Linspace(pr.Lo, pr.Hi, pr.N))
	}

	best, val, err := optim.NewGridSearch(names, ranges).
		Search(cmd.Context(), cfg, sim.Config{MaxTicks: maxTicks, SampleEvery: 1}, obj)
	if err != nil {
		return err
	}

	fmt.Printf("%s scene, best %s = %.2f\n", scene, objective, val)
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-18s %.4g\n", name, best[name])
	}
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, scene, err := loadScene()
	if err != nil {
		return err
	}
	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Base:         cfg,
		Perturbation: perturb,
		NumTrials:    trials,
		Seed:         seed,
		Run:          sim.Config{MaxTicks: maxTicks, SampleEvery: 1},
	})
	if err != nil {
		return err
	}

	settled, unsettled := automation.MonteCarloStats(results)
	minT, maxT := -1, -1
	for _, r := range results {
		if minT < 0 || r.Ticks < minT {
			minT = r.Ticks
		}
		maxT = max(maxT, r.Ticks)
	}
	fmt.Printf("%s scene, %d trials, start heights shifted by up to %.1f px\n", scene, trials, perturb)
	fmt.Printf("settled: %d, still moving: %d\n", settled, unsettled)
	if len(results) > 0 {
		fmt.Printf("ticks: min %d, max %d\n", minT, maxT)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
