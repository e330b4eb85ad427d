package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/kobrakid/partsim/internal/analysis"
	"github.com/kobrakid/partsim/internal/config"
	"github.com/kobrakid/partsim/internal/export"
	"github.com/kobrakid/partsim/internal/optim"
	"github.com/kobrakid/partsim/internal/scene"
	"github.com/kobrakid/partsim/internal/sim"
	"github.com/kobrakid/partsim/internal/store"
	"github.com/kobrakid/partsim/internal/stream"
	"github.com/kobrakid/partsim/internal/telemetry"
	"github.com/kobrakid/partsim/internal/tui"
)

var (
	dataDir     string
	sceneName   string
	integrator  string
	particles   int
	dt          float64
	drag        float64
	gravity     float64
	restitution float64
	steps       int
	seed        int64
	numRuns     int
	addr        string
	configFile  string
	preset      string
	exportPath  string
	outPath     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "partsim",
		Short: "particle effect simulation engine",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".partsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene headless and store the step log",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "steps to simulate")
	runCmd.Flags().IntVar(&numRuns, "runs", 1, "independently seeded runs")
	runCmd.Flags().StringVar(&exportPath, "export", "", "also export the run as json to this path")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene with the terminal live view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)

	serveCmd := &cobra.Command{
		Use:   "serve [scene]",
		Short: "stream frames to websocket clients",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runServe,
	}
	addSceneFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run's step log",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list available scenes",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range scene.Names() {
				fmt.Println(name)
			}
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list available presets for a scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scene: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [scene]",
		Short: "run a scene headless and render the final state to svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshotScene,
	}
	addSceneFlags(snapshotCmd)
	snapshotCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "steps to simulate")
	snapshotCmd.Flags().StringVar(&outPath, "out", "snapshot.svg", "output svg path")

	tuneCmd := &cobra.Command{
		Use:   "tune [scene]",
		Short: "grid-search dt and drag for the flattest energy profile",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneScene,
	}
	addSceneFlags(tuneCmd)
	tuneCmd.Flags().IntVar(&steps, "steps", 240, "steps per trial")

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, listCmd, plotCmd, scenesCmd, presetsCmd,
		snapshotCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&integrator, "integrator", "", "integration scheme")
	cmd.Flags().IntVar(&particles, "particles", 0, "particle count")
	cmd.Flags().Float64Var(&dt, "dt", 0, "timestep")
	cmd.Flags().Float64Var(&drag, "drag", 0, "shared drag")
	cmd.Flags().Float64Var(&gravity, "gravity", 0, "shared gravity")
	cmd.Flags().Float64Var(&restitution, "restitution", 0, "shared restitution")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig layers yaml config, preset, and explicit flags over the
// defaults, in that order.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if len(args) > 0 {
		cfg.Scene = args[0]
	}
	if preset != "" {
		p := config.GetPreset(cfg.Scene, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)",
				preset, config.ListPresets(cfg.Scene))
		}
		cfg = p
	}

	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("particles") {
		cfg.Particles = particles
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("drag") {
		cfg.Drag = drag
	}
	if cmd.Flags().Changed("gravity") {
		cfg.Gravity = gravity
	}
	if cmd.Flags().Changed("restitution") {
		cfg.Restitution = restitution
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if cfg.Particles <= 0 {
		cfg.Particles = config.DefaultParticles
	}
	return cfg, nil
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	if numRuns > 1 {
		return runEnsemble(cfg)
	}

	sys, err := scene.Build(cfg.Scene, cfg, cfg.Seed)
	if err != nil {
		return err
	}

	collector := telemetry.NewCollector()
	runner := sim.NewRunner(sys, cfg.Tuning())
	runner.AddObserver(collector)

	fmt.Printf("running %s for %d steps...\n", cfg.Scene, steps)
	start := time.Now()

	result, err := runner.Run(context.Background(), steps)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(store.RunMetadata{
		Scene:      cfg.Scene,
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Particles:  sys.Count(),
		Integrator: cfg.Integrator,
	}, collector)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	for _, stepErr := range result.Errors {
		fmt.Printf("error: %v\n", stepErr)
	}

	sum := collector.Summarize()
	fmt.Println("\nsummary:")
	fmt.Printf("  mean kinetic energy: %.6f\n", sum.MeanKinetic)
	fmt.Printf("  peak kinetic energy: %.6f\n", sum.PeakKinetic)
	fmt.Printf("  max speed: %.6f\n", sum.MaxSpeed)

	if exportPath != "" {
		meta, err := st.Load(runID)
		if err != nil {
			return err
		}
		if err := store.ExportJSON(exportPath, *meta, collector.Records()); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", exportPath)
	}
	return nil
}

func runEnsemble(cfg *config.Config) error {
	ens := sim.NewEnsemble(func(seed int64) (*sim.System, error) {
		return scene.Build(cfg.Scene, cfg, seed)
	}, cfg.Tuning(), numRuns, cfg.Seed)

	fmt.Printf("running %d seeded copies of %s for %d steps...\n", numRuns, cfg.Scene, steps)
	start := time.Now()

	results, err := ens.Run(context.Background(), steps)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	for i, result := range results {
		status := "ok"
		if len(result.Errors) > 0 {
			status = result.Errors[0].Error()
		}
		fmt.Printf("  seed %d: %d steps, %s\n", cfg.Seed+int64(i), result.StepsTaken, status)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	sys, err := scene.Build(cfg.Scene, cfg, cfg.Seed)
	if err != nil {
		return err
	}

	world := sim.NewWorld(cfg.Tuning())
	world.Add(sys)
	return tui.Run(world, cfg.Scene, cfg.Integrator)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	sys, err := scene.Build(cfg.Scene, cfg, cfg.Seed)
	if err != nil {
		return err
	}

	world := sim.NewWorld(cfg.Tuning())
	world.Add(sys)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	srv := stream.NewServer(world, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx, addr)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tSTEPS\tDT\tINTEG\tMEAN KE")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4f\t%s\t%.4f\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Dt,
			run.Integrator,
			run.MeanKinetic,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	records, err := st.LoadRecords(runID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(records))

	series := []struct {
		caption string
		pick    func(r telemetry.StepRecord) float64
	}{
		{"kinetic energy", func(r telemetry.StepRecord) float64 { return r.KineticEnergy }},
		{"mean speed", func(r telemetry.StepRecord) float64 { return r.MeanSpeed }},
		{"max speed", func(r telemetry.StepRecord) float64 { return r.MaxSpeed }},
	}
	for _, s := range series {
		data := make([]float64, len(records))
		for i, rec := range records {
			data[i] = s.pick(rec)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if freq := analysis.DominantFrequency(records, meta.Dt); freq > 0 {
		fmt.Printf("dominant oscillation: %.3f Hz\n", freq)
	}
	return nil
}

func snapshotScene(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	sys, err := scene.Build(cfg.Scene, cfg, cfg.Seed)
	if err != nil {
		return err
	}

	if _, err := sim.NewRunner(sys, cfg.Tuning()).Run(context.Background(), steps); err != nil {
		return err
	}
	if err := export.WriteSnapshot(outPath, sys.Current(), 800, 600); err != nil {
		return err
	}
	fmt.Printf("wrote %s after %d steps of %s\n", outPath, steps, cfg.Scene)
	return nil
}

// tuneScene scores each (dt, drag) trial by the relative drift between
// mean and peak kinetic energy; runs that blow up score +Inf via the
// runner's NaN check.
func tuneScene(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	base := cfg.Dt
	gs := optim.NewGridSearch(
		[]string{"dt", "drag"},
		[][]float64{
			{base / 2, base, base * 2, base * 4},
			{0.95, 0.97, 0.985, 0.995},
		},
	)

	fmt.Printf("tuning %s over %d-step trials...\n", cfg.Scene, steps)
	best, score := gs.Search(context.Background(), func(ctx context.Context, params map[string]float64) (float64, error) {
		trial := *cfg
		trial.Dt = params["dt"]
		trial.Drag = params["drag"]

		sys, err := scene.Build(trial.Scene, &trial, trial.Seed)
		if err != nil {
			return 0, err
		}

		collector := telemetry.NewCollector()
		runner := sim.NewRunner(sys, trial.Tuning())
		runner.AddObserver(collector)

		result, err := runner.Run(ctx, steps)
		if err != nil {
			return 0, err
		}
		if len(result.Errors) > 0 {
			return 0, result.Errors[0]
		}

		sum := collector.Summarize()
		if sum.MeanKinetic == 0 {
			return 0, nil
		}
		return (sum.PeakKinetic - sum.MeanKinetic) / sum.MeanKinetic, nil
	})

	if best == nil {
		return fmt.Errorf("no stable setting found for %s", cfg.Scene)
	}
	fmt.Printf("best: dt=%.5f drag=%.3f (relative drift %.4f)\n", best["dt"], best["drag"], score)
	return nil
}
