package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/dynfmu/internal/archive"
	"github.com/san-kum/dynfmu/internal/config"
	"github.com/san-kum/dynfmu/internal/cosim"
	"github.com/san-kum/dynfmu/internal/export"
	"github.com/san-kum/dynfmu/internal/fmu"
	"github.com/san-kum/dynfmu/internal/metrics"
	"github.com/san-kum/dynfmu/internal/storage"
	"github.com/san-kum/dynfmu/internal/tui"
	"github.com/san-kum/dynfmu/internal/viz"
)

var (
	configFile string
	preset     string
	logLevel   string

	filter      string
	watchFilter string
	outDir      string
	record      []string
	plot        bool
	stopTime    float64
	theme       string
	series      string
	svgFile     string
	traceSVG    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "dynfmu",
		Short:         "rigid body scenes exported as FMI 2.0 co-simulation units",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "scene config file (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "pendulum", "built-in scene, used when --config is empty")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default from config)")

	describeCmd := &cobra.Command{
		Use:   "describe",
		Short: "write modelDescription.xml",
		RunE:  describe,
	}
	describeCmd.Flags().StringVar(&outDir, "out", "", "directory or URL to save into instead of stdout")

	varsCmd := &cobra.Command{
		Use:   "vars",
		Short: "list exported variables",
		RunE:  listVars,
	}
	varsCmd.Flags().StringVar(&filter, "filter", "", "only names with this prefix")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate from start to stop time",
		RunE:  runSimulation,
	}
	runCmd.Flags().StringSliceVar(&record, "record", nil, "real variables to record (default: all real outputs)")
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot the recorded trace")
	runCmd.Flags().StringVar(&outDir, "out", "", "directory or URL to save the run into")
	runCmd.Flags().Float64Var(&stopTime, "stop", 0, "override stop time")
	runCmd.Flags().StringVar(&traceSVG, "svg", "", "write the first recorded variable against time as svg")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "step the scene live in the terminal",
		RunE:  watch,
	}
	watchCmd.Flags().StringVar(&watchFilter, "filter", "VISUALIZER[0]", "only list names with this prefix")
	watchCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	watchCmd.Flags().StringVar(&series, "series", "energy", "real variable to draw as a sparkline")
	watchCmd.Flags().Float64Var(&stopTime, "stop", 0, "override stop time")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenes",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render the scene at a time as svg",
		RunE:  snapshot,
	}
	snapshotCmd.Flags().Float64Var(&stopTime, "at", 0, "simulated time of the snapshot")
	snapshotCmd.Flags().StringVar(&svgFile, "svg", "scene.svg", "output file")

	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "print the scene archive as yaml",
		RunE:  dump,
	}

	rootCmd.AddCommand(describeCmd, varsCmd, runCmd, watchCmd, snapshotCmd, presetsCmd, dumpCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	cfg, err := config.GetPreset(preset)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(config.ListPresets(), ", "))
	}
	return cfg, nil
}

func newLogger(cfgLevel string) *slog.Logger {
	lvl := cfgLevel
	if logLevel != "" {
		lvl = logLevel
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(lvl)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newComponent builds the configured component and takes it through
// initialization, ready for the first step.
func newComponent(initialize bool) (*cosim.Component, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if stopTime > 0 {
		cfg.StopTime = stopTime
	}
	comp, err := cosim.New(cfg, fmu.WithLogger(newLogger(cfg.Logging.Level)))
	if err != nil {
		return nil, err
	}
	if !initialize {
		return comp, nil
	}
	if st := comp.SetupExperiment(cfg.StartTime, true, cfg.StopTime); st != fmu.StatusOK {
		return nil, fmt.Errorf("setup experiment: %s", st)
	}
	if st := comp.EnterInitializationMode(); st != fmu.StatusOK {
		return nil, fmt.Errorf("enter initialization: %s", st)
	}
	if st := comp.ExitInitializationMode(); st != fmu.StatusOK {
		return nil, fmt.Errorf("exit initialization: %s", st)
	}
	return comp, nil
}

// openStore accepts a local directory or any URL the storage layer serves.
func openStore(dir string) (*storage.Store, error) {
	if !strings.Contains(dir, "://") {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		dir = "file://" + filepath.ToSlash(abs)
	}
	return storage.New(dir, nil), nil
}

func describe(cmd *cobra.Command, args []string) error {
	comp, err := newComponent(false)
	if err != nil {
		return err
	}
	if outDir == "" {
		return comp.ModelDescription(time.Now().UTC()).Encode(os.Stdout)
	}
	store, err := openStore(outDir)
	if err != nil {
		return err
	}
	if err := store.SaveModelDescription(cmd.Context(), comp); err != nil {
		return err
	}
	fmt.Println("wrote", store.URL(storage.ModelDescriptionFile))
	return nil
}

func listVars(cmd *cobra.Command, args []string) error {
	comp, err := newComponent(false)
	if err != nil {
		return err
	}
	comp.ExportModelVariables()
	vars := comp.Registry().Filter(filter)
	fmt.Println(viz.VariableTable(vars))
	fmt.Println(viz.Subtle.Render(fmt.Sprintf("%d of %d variables", len(vars), comp.Registry().Len())))
	return nil
}

// recordedNames defaults to every real output, which keeps the trace free
// of constants and parameters.
func recordedNames(r *fmu.Registry) []string {
	if len(record) > 0 {
		return record
	}
	var names []string
	for _, v := range r.Variables() {
		if v.Type() == fmu.TypeReal && v.Causality() == fmu.CausalityOutput {
			names = append(names, v.Name())
		}
	}
	return names
}

func runSimulation(cmd *cobra.Command, args []string) error {
	comp, err := newComponent(true)
	if err != nil {
		return err
	}
	cfg := comp.Config()

	rec, err := storage.NewRecorder(comp.Registry(), recordedNames(comp.Registry())...)
	if err != nil {
		return err
	}

	diag := metrics.Set{
		metrics.NewEnergyDrift(comp.Registry(), "energy"),
		metrics.NewStability(comp.Registry(), 1e6, rec.Trace().Names...),
	}

	start := time.Now()
	h := cfg.CommunicationStep
	n := int(math.Round((cfg.StopTime - cfg.StartTime) / h))
	rec.Sample(comp.Time())
	diag.Observe(comp.Time())
	steps := 0
	for i := 0; i < n; i++ {
		if st := comp.DoStep(comp.Time(), h, true); st != fmu.StatusOK {
			return fmt.Errorf("step %d at t=%g: %s", i, comp.Time(), st)
		}
		rec.Sample(comp.Time())
		diag.Observe(comp.Time())
		steps++
	}
	comp.Terminate()

	fmt.Printf("%s  %d steps to t=%gs in %v\n",
		viz.StatusRunning.Render("done"), steps, comp.Time(), time.Since(start).Round(time.Millisecond))
	values := diag.Values()
	for _, m := range diag {
		fmt.Printf("  %s %s\n", viz.MetricLabel.Render(m.Name()), viz.MetricValue.Render(fmt.Sprintf("%.3g", values[m.Name()])))
	}

	trace := rec.Trace()
	if plot && trace.Len() > 0 {
		names := trace.Names
		if len(names) > 4 && len(record) == 0 {
			names = names[:4]
		}
		chart, err := viz.PlotTrace(trace, viz.PlotOptions{}, names...)
		if err != nil {
			return err
		}
		fmt.Println(viz.Separator(80))
		fmt.Println(chart)
	}

	if traceSVG != "" && len(trace.Names) > 0 {
		doc, err := export.TraceToSVG(trace, "", trace.Names[0], 800, 400, "#00ccff")
		if err != nil {
			return err
		}
		if err := os.WriteFile(traceSVG, []byte(doc), 0644); err != nil {
			return err
		}
	}

	if outDir == "" {
		return nil
	}
	store, err := openStore(outDir)
	if err != nil {
		return err
	}
	return saveRun(cmd.Context(), store, comp, trace, steps, values)
}

func saveRun(ctx context.Context, store *storage.Store, comp *cosim.Component, trace *storage.Trace, steps int, diag map[string]float64) error {
	cfg := comp.Config()
	final := make(map[string]float64, len(trace.Names))
	if trace.Len() > 0 {
		last := trace.Rows[trace.Len()-1]
		for i, name := range trace.Names {
			final[name] = last[i]
		}
	}
	meta := storage.RunMetadata{
		Instance:          comp.InstanceName(),
		ModelName:         comp.ModelName(),
		GUID:              comp.GUID(),
		Timestamp:         time.Now().UTC(),
		Integrator:        cfg.Integrator,
		StepSize:          cfg.StepSize,
		CommunicationStep: cfg.CommunicationStep,
		StartTime:         cfg.StartTime,
		StopTime:          cfg.StopTime,
		Steps:             steps,
		Final:             final,
		Metrics:           diag,
	}
	err := errors.Join(
		store.SaveModelDescription(ctx, comp),
		store.SaveTrace(ctx, trace),
		store.SaveMetadata(ctx, meta),
	)
	if err != nil {
		return err
	}
	fmt.Println("saved run to", store.URL(""))
	return nil
}

func watch(cmd *cobra.Command, args []string) error {
	comp, err := newComponent(true)
	if err != nil {
		return err
	}
	return tui.Run(comp, tui.Options{
		Filter:            watchFilter,
		CommunicationStep: comp.Config().CommunicationStep,
		StopTime:          comp.Config().StopTime,
		Series:            series,
		Theme:             theme,
	})
}

func snapshot(cmd *cobra.Command, args []string) error {
	comp, err := newComponent(true)
	if err != nil {
		return err
	}
	h := comp.Config().CommunicationStep
	for comp.Time()+h <= stopTime+1e-9 {
		if st := comp.DoStep(comp.Time(), h, true); st != fmu.StatusOK {
			return fmt.Errorf("step at t=%g: %s", comp.Time(), st)
		}
	}

	canvas := viz.NewCanvas(80, 40)
	viz.RenderScene(canvas, viz.NewCamera(), viz.ReadShapes(comp.Registry()))
	if err := os.WriteFile(svgFile, []byte(export.CanvasToSVG(canvas, 4, "#00ff88")), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s at t=%gs\n", svgFile, comp.Time())
	return nil
}

func dump(cmd *cobra.Command, args []string) error {
	comp, err := newComponent(false)
	if err != nil {
		return err
	}
	sink := archive.NewYAMLSink()
	archive.New(sink).Ref("sys", comp.System())
	return sink.Encode(os.Stdout)
}
