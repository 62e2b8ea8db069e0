package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/ballsim/internal/analysis"
	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/export"
	"github.com/san-kum/ballsim/internal/gui"
	"github.com/san-kum/ballsim/internal/metrics"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
	"github.com/san-kum/ballsim/internal/storage"
	"github.com/san-kum/ballsim/internal/viz"
)

var (
	dataDir string
	logJSON bool
	verbose bool
	// scene selection
	configFile string
	preset     string
	density    string
	// headless runs
	maxTicks    int
	sampleEvery int
	schedule    string
	noSave      bool
	densities   string
	// views
	theme string
	sound bool
	// run inspection
	body     int
	plotBody int
	tick     int
	outPath  string
	depth    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ballsim",
		Short: "bodies falling, sinking and settling in a water tank",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(os.Stderr, logJSON, verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// scene menu when no command given
			return viz.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ballsim", "data directory")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging, including phase transitions")

	sceneFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&configFile, "config", "", "scene file (yaml or json)")
		cmd.Flags().StringVar(&preset, "preset", "classic", "named scene, ignored with --config")
		cmd.Flags().StringVar(&density, "density", "normal", "initial water density: low, normal, high or a number")
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scene headless and store the trajectory",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	sceneFlags(runCmd)
	runCmd.Flags().IntVar(&maxTicks, "max-ticks", sim.DefaultMaxTicks, "stop after this many ticks")
	runCmd.Flags().IntVar(&sampleEvery, "sample-every", sim.DefaultSampleEvery, "record every n-th tick")
	runCmd.Flags().StringVar(&schedule, "schedule", "", "density changes as tick:density,... e.g. 100:3,300:0.5")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a scene in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	sceneFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", viz.ThemeTank.Name, "colour theme: "+strings.Join(viz.ThemeNames(), ", "))

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run a scene in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	sceneFlags(guiCmd)
	guiCmd.Flags().BoolVar(&sound, "sound", false, "play a tone on every floor impact")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "scene menu and parameter editor",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one scene at several water densities and compare",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sceneFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&densities, "densities", "low,normal,high", "comma separated densities")
	sweepCmd.Flags().IntVar(&maxTicks, "max-ticks", sim.DefaultMaxTicks, "stop after this many ticks")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot body depth over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotBody, "body", -1, "body index, all bodies when negative")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "depth against velocity plot of one body",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&body, "body", 0, "body index")

	reportCmd := &cobra.Command{
		Use:   "report [run_id]",
		Short: "settle times and time spent per phase",
		Args:  cobra.ExactArgs(1),
		RunE:  reportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportCSV(os.Stdout, args[0])
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and samples to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			if outPath != "" {
				return st.ExportJSONFile(outPath, args[0])
			}
			return st.ExportJSON(os.Stdout, args[0])
		},
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file, stdout when empty")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render one recorded frame, or a depth chart, as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&tick, "tick", -1, "frame tick, last recorded frame when negative")
	exportSVGCmd.Flags().BoolVar(&depth, "depth", false, "depth chart of --body instead of a frame")
	exportSVGCmd.Flags().IntVar(&body, "body", 0, "body index for --depth")
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file, stdout when empty")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("  %-8s %dx%d, %d bodies\n", name, cfg.Width, cfg.Height, len(cfg.Bodies))
			}
			return nil
		},
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a scene file to start from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetPreset(preset)
			if cfg == nil {
				return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
			}
			if _, err := os.Stat(args[0]); err == nil {
				return fmt.Errorf("%s already exists", args[0])
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s scene to %s\n", preset, args[0])
			return nil
		},
	}
	initConfigCmd.Flags().StringVar(&preset, "preset", "classic", "scene to write")

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, tuiCmd, sweepCmd, listCmd, plotCmd, phaseCmd, reportCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, initConfigCmd)
	rootCmd.AddCommand(tuningCommands(sceneFlags)...)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadScene resolves --config or --preset into a configuration and a scene
// name used for run ids and titles.
func loadScene() (*config.Config, string, error) {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		name := strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
		return cfg, name, nil
	}
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	return cfg, preset, nil
}

// buildSimulator loads the scene and applies --density.
func buildSimulator() (*physics.Simulator, *config.Config, string, error) {
	cfg, name, err := loadScene()
	if err != nil {
		return nil, nil, "", err
	}
	d, err := parseDensity(density)
	if err != nil {
		return nil, nil, "", err
	}
	s, err := cfg.NewSimulator()
	if err != nil {
		return nil, nil, "", err
	}
	if err := s.SetWaterDensity(d); err != nil {
		return nil, nil, "", err
	}
	return s, cfg, name, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	s, cfg, scene, err := buildSimulator()
	if err != nil {
		return err
	}
	changes, err := parseSchedule(schedule)
	if err != nil {
		return err
	}

	runner := sim.New(s)
	runner.AddTransitionObserver(transitionLogger{})
	collector := metrics.NewCollector(metrics.DefaultMetrics()...)
	runner.AddObserver(collector)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s scene...\n", scene)
	start := time.Now()

	result, err := runner.Run(ctx, sim.Config{MaxTicks: maxTicks, SampleEvery: sampleEvery, Schedule: changes})
	interrupted, err := partialRun(result, err)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	logRunSummary(scene, result, elapsed)

	if interrupted {
		slog.Warn("run interrupted, keeping partial result", "scene", scene, "ticks", result.Ticks)
		fmt.Printf("interrupted after %v\n", elapsed)
	} else {
		fmt.Printf("completed in %v\n", elapsed)
	}
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(scene, sampleEvery, cfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	fmt.Printf("ticks: %d\n", result.Ticks)
	if result.Settled {
		fmt.Println("all bodies at rest")
	} else {
		fmt.Printf("%d bodies still moving after %d ticks\n", s.Moving(), result.Ticks)
	}
	fmt.Println()

	if err := printSummary(analysis.Summarize(result.Samples)); err != nil {
		return err
	}
	printMetrics(collector)
	return nil
}

func printMetrics(c *metrics.Collector) {
	vals := c.Values()
	fmt.Println("\nmetrics:")
	for _, name := range c.Names() {
		fmt.Printf("  %-22s %.4f\n", name, vals[name])
	}
}

// partialRun reports whether err only marks a cancelled run whose partial
// result should still be saved and summarized.
func partialRun(result *sim.Result, err error) (bool, error) {
	if err == nil {
		return false, nil
	}
	if result != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return true, nil
	}
	return false, err
}

func runLive(cmd *cobra.Command, args []string) error {
	s, cfg, scene, err := buildSimulator()
	if err != nil {
		return err
	}
	m := viz.NewModel(s, cfg, scene)
	m.SetTheme(theme)
	m.OnTransition(transitionLogger{}.OnTransition)
	return viz.RunLive(m)
}

func runGUI(cmd *cobra.Command, args []string) error {
	s, cfg, scene, err := buildSimulator()
	if err != nil {
		return err
	}
	gui.Run(s, cfg, gui.Options{Scene: scene, Sound: sound})
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, scene, err := loadScene()
	if err != nil {
		return err
	}
	var ds []float64
	for _, field := range strings.Split(densities, ",") {
		d, err := parseDensity(strings.TrimSpace(field))
		if err != nil {
			return err
		}
		ds = append(ds, d)
	}

	sweep := sim.NewSweep(cfg.NewSimulator, ds)
	results, err := sweep.Run(cmd.Context(), sim.Config{MaxTicks: maxTicks, SampleEvery: 1})
	if err != nil {
		return err
	}

	fmt.Printf("%s scene, %d bodies\n\n", scene, len(cfg.Bodies))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DENSITY\tTICKS\tSETTLED\tMEAN SETTLE\tMAX SETTLE")
	for i, r := range results {
		sum := analysis.Summarize(r.Samples)
		fmt.Fprintf(w, "%.2f\t%d\t%d/%d\t%.1f\t%.0f\n", ds[i], r.Ticks, sum.Settled, len(sum.Bodies), sum.MeanSettle, sum.MaxSettle)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tBODIES\tTICKS\tSETTLED\tDENSITY")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%v\t%.2f\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Ticks,
			run.Settled,
			run.WaterDensity,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d (every %d ticks)\n\n", len(samples), meta.SampleEvery)

	bodies := []int{plotBody}
	if plotBody < 0 {
		bodies = bodies[:0]
		for i := 0; i < analysis.BodyCount(samples); i++ {
			bodies = append(bodies, i)
		}
	}

	for _, b := range bodies {
		depths := analysis.Depths(samples, b)
		if len(depths) == 0 {
			return fmt.Errorf("run %s has no body %d", meta.ID, b)
		}
		// negate so sinking plots downward
		for i := range depths {
			depths[i] = -depths[i]
		}
		graph := asciigraph.Plot(depths,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("body %d: -y vs sample", b)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	portrait := analysis.NewPhasePortrait(samples, body)
	if portrait == nil {
		return fmt.Errorf("run %s has no body %d", args[0], body)
	}

	fmt.Printf("body %d: y (right is deeper) vs velocity (up is downward)\n", body)
	fmt.Print(portrait.ASCII(80, 24))
	fmt.Println(". falling  ~ water  ^ bounce1  v bounce2  _ stopping")
	return nil
}

func reportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (%s, density %.2f)\n", meta.ID, meta.Scene, meta.WaterDensity)
	fmt.Printf("ticks: %d, settled: %v, sampled every %d ticks\n\n", meta.Ticks, meta.Settled, meta.SampleEvery)
	return printSummary(analysis.Summarize(samples))
}

func printSummary(sum analysis.Summary) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "BODY\tFINAL Y\tSETTLE")
	for p := physics.Falling; p <= physics.Stopping; p++ {
		fmt.Fprintf(w, "\t%s", strings.ToUpper(p.String()))
	}
	fmt.Fprintln(w)

	for _, b := range sum.Bodies {
		fmt.Fprintf(w, "#%d\t%.1f\t%s", b.Body, b.FinalY, tickOrDash(b.SettleTick))
		for p := physics.Falling; p <= physics.Stopping; p++ {
			fmt.Fprintf(w, "\t%s", tickOrDash(b.PhaseTicks(p)))
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if sum.Settled > 0 {
		fmt.Printf("\nsettled: %d/%d, mean %.1f ticks, stddev %.1f, max %.0f\n",
			sum.Settled, len(sum.Bodies), sum.MeanSettle, sum.StdDevSettle, sum.MaxSettle)
	}
	return nil
}

func tickOrDash(n int) string {
	if n < 0 {
		return "-"
	}
	return fmt.Sprintf("%d", n)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}

	var svg string
	if depth {
		var series []sim.Sample
		for _, s := range samples {
			if s.Body == body {
				series = append(series, s)
			}
		}
		svg = export.DepthSVG(series, 800, 400, "#00ff88")
		if svg == "" {
			return fmt.Errorf("run %s has too few samples for body %d", args[0], body)
		}
	} else {
		cfg, err := st.LoadConfig(args[0])
		if err != nil {
			return err
		}
		frame := sim.FrameAt(samples, tick)
		if len(frame) == 0 {
			return fmt.Errorf("run %s has no frame at tick %d", args[0], tick)
		}
		svg = export.FrameSVG(frame, cfg)
	}

	if outPath == "" {
		fmt.Println(svg)
		return nil
	}
	return os.WriteFile(outPath, []byte(svg), 0644)
}
