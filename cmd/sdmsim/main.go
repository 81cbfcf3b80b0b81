package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/sdmsim/internal/analysis"
	"github.com/san-kum/sdmsim/internal/config"
	"github.com/san-kum/sdmsim/internal/export"
	"github.com/san-kum/sdmsim/internal/logging"
	"github.com/san-kum/sdmsim/internal/metrics"
	"github.com/san-kum/sdmsim/internal/sim"
	"github.com/san-kum/sdmsim/internal/storage"
	"github.com/san-kum/sdmsim/internal/viz"
)

var (
	dataDir     string
	verbosity   int
	development bool

	configFile string
	preset     string
	seed       uint64
	tick       float64
	duration   float64
	workers    int
	gridboxes  int
	parallel   int
	supers     int
	kernel     string
	outcome    string
	ensemble   int
	save       bool
	gridboxCSV string
	jsonOut    bool
	spectrum   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "sdmsim",
		Short:        "superdroplet cloud microphysics box model",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "run store directory (default from config)")
	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbosity", "v", logging.DEFAULT, "log verbosity (0-3)")
	rootCmd.PersistentFlags().BoolVar(&development, "dev", false, "human readable development logs")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "start from a preset configuration")
	runCmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	runCmd.Flags().Float64Var(&tick, "tick", config.DefaultTick, "model tick [s]")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration [s]")
	runCmd.Flags().IntVar(&workers, "workers", 0, "workers per gridbox (0 = GOMAXPROCS)")
	runCmd.Flags().IntVar(&gridboxes, "gridboxes", config.DefaultGridboxes, "number of gridboxes")
	runCmd.Flags().IntVar(&parallel, "parallel", 0, "gridboxes stepped at once (0 = all)")
	runCmd.Flags().IntVar(&supers, "supers", config.DefaultSupers, "superdroplets per gridbox")
	runCmd.Flags().StringVar(&kernel, "kernel", "golovin", "collision kernel")
	runCmd.Flags().StringVar(&outcome, "outcome", "coalescence", "collision outcome")
	runCmd.Flags().IntVar(&ensemble, "ensemble", 1, "number of ensemble members")
	runCmd.Flags().BoolVar(&save, "save", false, "save the run to the store")
	runCmd.Flags().StringVar(&gridboxCSV, "gridbox-csv", "", "stream per-gridbox diagnostics to a CSV file")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as JSON instead of a summary")
	runCmd.Flags().StringVar(&spectrum, "spectrum-svg", "", "write the final mass density spectrum of gridbox 0 as SVG")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	showCmd := &cobra.Command{
		Use:   "show [preset]",
		Short: "print a preset (or the defaults) as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showConfig,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print a saved run's diagnostics as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	rootCmd.AddCommand(runCmd, presetsCmd, showCmd, listCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the run configuration: defaults or a preset, then
// the config file, then SDMSIM_ environment variables, then flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("tick") {
		cfg.Timesteps.Tick = tick
	}
	if flags.Changed("time") {
		cfg.Timesteps.Duration = duration
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("gridboxes") {
		cfg.Domain.Gridboxes = gridboxes
	}
	if flags.Changed("parallel") {
		cfg.Domain.Parallel = parallel
	}
	if flags.Changed("supers") {
		cfg.Init.Supers = supers
	}
	if flags.Changed("kernel") {
		cfg.Collisions.Kernel = kernel
	}
	if flags.Changed("outcome") {
		cfg.Collisions.Outcome = outcome
	}
	if dataDir != "" {
		cfg.Output.Dir = dataDir
	}
	if save {
		cfg.Output.Save = true
	}
	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	logger, err := logging.NewLogger(verbosity, development)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if ensemble > 1 {
		return runEnsemble(ctx, cfg, logger)
	}

	s, gbxs, err := sim.Setup(cfg, logger)
	if err != nil {
		return err
	}
	s.AddMetric(metrics.NewMassDrift())
	s.AddMetric(metrics.NewNumConcRatio())
	s.AddMetric(metrics.NewMaxRadius())

	if gridboxCSV != "" {
		f, err := os.Create(gridboxCSV)
		if err != nil {
			return err
		}
		defer f.Close()
		s.AddObserver(storage.NewGridboxWriter(f))
	}

	start := time.Now()
	result, err := s.Run(ctx, gbxs, sim.RunConfig(cfg))
	if err != nil {
		logging.Fatal(logger, err, "run failed", "name", cfg.Name, "seed", cfg.Seed)
	}
	elapsed := time.Since(start)

	if spectrum != "" {
		if err := writeSpectrum(spectrum, gbxs[0]); err != nil {
			return err
		}
	}

	runID := "unsaved"
	if cfg.Output.Save {
		st := storage.New(cfg.Output.Dir)
		if err := st.Init(); err != nil {
			return err
		}
		if runID, err = st.Save(cfg, result); err != nil {
			return err
		}
		logger.Info("run saved", "id", runID, "dir", cfg.Output.Dir)
	}

	if jsonOut {
		return storage.ExportJSON(os.Stdout, cfg, result)
	}
	fmt.Println(viz.Summary(cfg.Name, runID, elapsed, result))
	return nil
}

func runEnsemble(ctx context.Context, cfg *config.Config, logger logr.Logger) error {
	results, err := sim.NewEnsemble(cfg, ensemble, logger).Run(ctx)
	if err != nil {
		return err
	}

	if cfg.Output.Save {
		st := storage.New(cfg.Output.Dir)
		if err := st.Init(); err != nil {
			return err
		}
		for i, result := range results {
			member := *cfg
			member.Seed = cfg.Seed + uint64(i)
			runID, err := st.Save(&member, result)
			if err != nil {
				return err
			}
			logger.Info("run saved", "id", runID, "member", i)
		}
	}

	fmt.Println(viz.EnsembleSummary(cfg.Name, results))
	return nil
}

func writeSpectrum(path string, gbx sim.Gridbox) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	s := analysis.MassDensity(gbx.Drops, gbx.State.Volume, analysis.LogRadii(1e-7, 5e-3, 256))
	return export.DefaultPlot().WriteSpectrum(f, s)
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if len(args) == 1 {
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
	}

	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(cfg)
}

func storeDir() string {
	if dataDir != "" {
		return dataDir
	}
	return config.DefaultConfig().Output.Dir
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(storeDir()).List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSEED\tTICKS\tSTEPS\tNULLS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Ticks,
			run.Steps,
			run.Nulls,
		)
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	diags, err := storage.New(storeDir()).LoadDiagnostics(args[0])
	if err != nil {
		return err
	}
	if len(diags) == 0 {
		return fmt.Errorf("no data to export")
	}

	return storage.WriteDiagnostics(os.Stdout, diags)
}
