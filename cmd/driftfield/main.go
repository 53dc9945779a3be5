package main

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/driftfield/internal/capture"
	"github.com/san-kum/driftfield/internal/config"
	"github.com/san-kum/driftfield/internal/engine"
	"github.com/san-kum/driftfield/internal/export"
	"github.com/san-kum/driftfield/internal/field"
	"github.com/san-kum/driftfield/internal/gui"
	"github.com/san-kum/driftfield/internal/link"
	"github.com/san-kum/driftfield/internal/metrics"
	"github.com/san-kum/driftfield/internal/physics"
	"github.com/san-kum/driftfield/internal/render"
	"github.com/san-kum/driftfield/internal/viz"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       uint64
	frameRate  int
	width      int
	height     int
	logLevel   string
	logFile    string

	frames  int
	format  string
	outFile string
	theme   string
	showHUD bool
)

// main registers the commands and runs the window host when no subcommand
// is given. It exits with status 1 if the command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "driftfield",
		Short:        "animated particle field",
		RunE:         runGUI,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".driftfield", "data directory for captures")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Uint64Var(&seed, "seed", 0, "random seed (0 draws from entropy)")
	pf.IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	pf.IntVar(&width, "width", config.DefaultWidth, "surface width")
	pf.IntVar(&height, "height", config.DefaultHeight, "surface height")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&showHUD, "hud", true, "show the stats overlay")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the field in a window",
		RunE:  runGUI,
	}
	guiCmd.Flags().BoolVar(&showHUD, "hud", true, "show the stats overlay")

	wallpaperCmd := &cobra.Command{
		Use:   "wallpaper",
		Short: "run the field as an undecorated full-screen background",
		RunE:  runWallpaper,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run the field in the terminal",
		RunE:  runTUI,
	}
	tuiCmd.Flags().StringVar(&theme, "theme", "neon", "panel theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	tuiCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file instead of discarding them")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render frames headless and save a png or gif capture",
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().IntVar(&frames, "frames", 120, "frames to simulate")
	snapshotCmd.Flags().StringVar(&format, "format", "png", "capture format (png, gif)")
	snapshotCmd.Flags().StringVar(&outFile, "out", "", "also write the image to this path")

	svgCmd := &cobra.Command{
		Use:   "svg",
		Short: "render frames headless and write the last one as svg",
		RunE:  runSVG,
	}
	svgCmd.Flags().IntVar(&frames, "frames", 120, "frames to simulate")
	svgCmd.Flags().StringVar(&outFile, "out", "field.svg", "output path")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark physics, linking and drawing over surface sizes",
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&frames, "frames", 300, "frames per size")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list captures",
		RunE:  listCaptures,
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the effective configuration as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  writeConfig,
	}

	rootCmd.AddCommand(guiCmd, wallpaperCmd, tuiCmd, snapshotCmd, svgCmd, benchCmd, presetsCmd, listCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves preset, then config file, then explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		var err error
		if cfg, err = config.LoadOver(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Field.Seed = seed
	}
	if flags.Changed("fps") {
		cfg.Loop.FPS = frameRate
	}
	if flags.Changed("width") {
		cfg.Loop.Width = width
	}
	if flags.Changed("height") {
		cfg.Loop.Height = height
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "driftfield",
		Level:           level,
	}), nil
}

func setup(cmd *cobra.Command, logOut io.Writer) (*config.Config, *engine.Engine, *log.Logger, error) {
	logger, err := newLogger(logOut)
	if err != nil {
		return nil, nil, nil, err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	opts, err := engine.OptionsFromConfig(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, engine.New(opts), logger, nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, eng, logger, err := setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	return gui.Run(eng, gui.Options{
		Width:   cfg.Loop.Width,
		Height:  cfg.Loop.Height,
		FPS:     cfg.Loop.FPS,
		ShowHUD: showHUD,
		Logger:  logger,
	})
}

func runWallpaper(cmd *cobra.Command, args []string) error {
	cfg, eng, logger, err := setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	return gui.Run(eng, gui.Options{
		Title:     "driftfield-wallpaper",
		Width:     cfg.Loop.Width,
		Height:    cfg.Loop.Height,
		FPS:       cfg.Loop.FPS,
		Wallpaper: true,
		Logger:    logger,
	})
}

func runTUI(cmd *cobra.Command, args []string) error {
	logOut := io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	cfg, eng, logger, err := setup(cmd, logOut)
	if err != nil {
		return err
	}
	return viz.Run(eng, viz.Options{
		FPS:      min(cfg.Loop.FPS, 30),
		Theme:    theme,
		Captures: capture.New(dataDir),
		Preset:   preset,
		Seed:     cfg.Field.Seed,
		Logger:   logger,
	})
}

// runSnapshot runs the engine on its own clock and copies frames from the
// loop goroutine as they are drawn.
func runSnapshot(cmd *cobra.Command, args []string) error {
	if frames < 1 {
		return fmt.Errorf("frames must be positive, got %d", frames)
	}
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := engine.OptionsFromConfig(cfg, logger)
	if err != nil {
		return err
	}

	raster := render.NewRaster(cfg.Loop.Width, cfg.Loop.Height)
	raster.Clear(image.Black)
	rec := export.NewRecorder(0)
	tracked := []metrics.Metric{
		metrics.NewFrameTime(frames, 0),
		metrics.NewFrameTime(frames, 95),
		metrics.NewEdgeDensity(frames),
	}
	done := make(chan struct{})
	opts.OnFrame = func(st engine.Stats) {
		if int(st.Frames) > frames {
			return
		}
		metrics.Observe(tracked, st)
		if format == "gif" || int(st.Frames) == frames {
			rec.Add(raster.Image())
		}
		if int(st.Frames) == frames {
			close(done)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	eng := engine.New(opts)
	if err := eng.Start(ctx, raster, cfg.Loop.Width, cfg.Loop.Height); err != nil {
		return err
	}
	select {
	case <-done:
	case <-ctx.Done():
	}
	eng.Stop()

	st := eng.Stats()
	if rec.Len() == 0 {
		return fmt.Errorf("interrupted before the first frame")
	}
	store := capture.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	id, err := store.Save(capture.Metadata{
		Format:    format,
		Preset:    preset,
		Seed:      cfg.Field.Seed,
		Width:     cfg.Loop.Width,
		Height:    cfg.Loop.Height,
		Particles: st.Particles,
		Metrics:   metrics.Values(tracked),
	}, rec.Frames(), max(100/cfg.Loop.FPS, 2))
	if err != nil {
		return err
	}
	meta, err := store.Load(id)
	if err != nil {
		return err
	}
	logger.Info("capture saved", "id", id, "frames", meta.Frames, "path", store.Path(meta))

	if outFile != "" {
		return copyFile(store.Path(meta), outFile)
	}
	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}

func runSVG(cmd *cobra.Command, args []string) error {
	cfg, eng, logger, err := setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	svg := export.NewSVG(cfg.Loop.Width, cfg.Loop.Height)
	if err := eng.Attach(svg, cfg.Loop.Width, cfg.Loop.Height); err != nil {
		return err
	}
	defer eng.Stop()

	for i := 0; i < frames; i++ {
		svg.Reset()
		if err := eng.Frame(); err != nil {
			return err
		}
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := svg.WriteTo(f); err != nil {
		return err
	}
	st := eng.Stats()
	logger.Info("svg written", "path", outFile, "particles", st.Particles, "edges", st.Edges)
	return nil
}

func listCaptures(cmd *cobra.Command, args []string) error {
	caps, err := capture.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(caps) == 0 {
		fmt.Println("no captures found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFORMAT\tTIME\tSIZE\tFRAMES\tPARTICLES\tPRESET")
	for _, c := range caps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d\t%d\t%s\n",
			c.ID,
			c.Format,
			c.Timestamp.Format("2006-01-02 15:04:05"),
			c.Width, c.Height,
			c.Frames,
			c.Particles,
			c.Preset,
		)
	}
	return w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		return config.Save(args[0], cfg)
	}
	return yaml.NewEncoder(os.Stdout).Encode(cfg)
}

type benchSize struct{ w, h int }

// runBench times each stage of a frame directly, outside the engine, so the
// cost of physics, linking and drawing can be told apart.
func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sp, err := cfg.SpawnPolicy()
	if err != nil {
		return err
	}
	style, err := cfg.Style()
	if err != nil {
		return err
	}
	// benchmark at least one dense field regardless of the cap
	sp.MaxParticles = max(sp.MaxParticles, 2000)

	sizes := []benchSize{{400, 300}, {800, 600}, {1920, 1080}, {3840, 2160}}
	modes := []string{"window", "grid"}

	fmt.Printf("benchmarking %d frames per size\n\n", frames)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIZE\tLINK\tPARTICLES\tEDGES\tLINKS/PT\tSTEP\tLINK\tDRAW\tFRAME\tP95\tFRAMES/SEC")

	var lastSeries []float64
	for _, sz := range sizes {
		for _, mode := range modes {
			l, err := link.New(mode, cfg.Link.Window, cfg.Link.Threshold)
			if err != nil {
				return err
			}
			r := benchOne(sp, cfg.PhysicsParams(), l, render.New(style), sz, frames, cfg.Field.Seed)
			fmt.Fprintf(w, "%dx%d\t%s\t%d\t%d\t%.2f\t%v\t%v\t%v\t%v\t%.2fms\t%.0f\n",
				sz.w, sz.h, mode, r.particles, r.edges, r.density,
				r.step.Round(time.Microsecond), r.link.Round(time.Microsecond),
				r.draw.Round(time.Microsecond), r.frame.Round(time.Microsecond),
				r.p95, float64(time.Second)/float64(max(r.frame, time.Nanosecond)))
			lastSeries = r.series
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(lastSeries) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(lastSeries,
			asciigraph.Height(10), asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("frame cost (ms), %dx%d grid", sizes[len(sizes)-1].w, sizes[len(sizes)-1].h))))
	}
	return nil
}

type benchResult struct {
	particles, edges int
	step, link, draw time.Duration
	frame            time.Duration
	density, p95     float64
	series           []float64
}

func benchOne(sp field.SpawnPolicy, params physics.Params, l link.Linker, r *render.Renderer, sz benchSize, n int, seed uint64) benchResult {
	st := field.NewStore()
	sp.Populate(st, field.NewRand(seed), sz.w, sz.h)
	stepper := physics.NewStepper(params)
	raster := render.NewRaster(sz.w, sz.h)
	pointer := field.Vec2{X: float64(sz.w) / 2, Y: float64(sz.h) / 2}

	res := benchResult{particles: st.Len()}
	frameMs := metrics.NewFrameTime(n, 0)
	p95 := metrics.NewFrameTime(n, 95)
	density := metrics.NewEdgeDensity(n)
	tracked := []metrics.Metric{frameMs, p95, density}
	for i := 0; i < n; i++ {
		t0 := time.Now()
		stepper.Step(st, pointer, sz.w, sz.h)
		t1 := time.Now()
		edges := l.Link(st)
		t2 := time.Now()
		r.Draw(raster, st, edges)
		t3 := time.Now()

		res.step += t1.Sub(t0)
		res.link += t2.Sub(t1)
		res.draw += t3.Sub(t2)
		res.edges = len(edges)
		metrics.Observe(tracked, engine.Stats{
			Frames:    uint64(i + 1),
			Particles: st.Len(),
			Edges:     len(edges),
			LastFrame: t3.Sub(t0),
		})
	}
	if n > 0 {
		d := time.Duration(n)
		res.step, res.link, res.draw = res.step/d, res.link/d, res.draw/d
	}
	res.frame = res.step + res.link + res.draw
	res.series = frameMs.Samples()
	res.density, res.p95 = density.Value(), p95.Value()
	return res
}
