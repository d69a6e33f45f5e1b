package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/df07/raytrace-testing/pkg/config"
	"github.com/df07/raytrace-testing/pkg/core"
	"github.com/df07/raytrace-testing/pkg/loaders"
	"github.com/df07/raytrace-testing/pkg/renderer"
	"github.com/df07/raytrace-testing/pkg/scene"
	"github.com/df07/raytrace-testing/pkg/testsuite"
	"github.com/df07/raytrace-testing/pkg/transferfunction"
)

// errFailures is returned when any golden comparison or benchmark score fails
var errFailures = errors.New("test failures")

type options struct {
	configPath string
	fixture    string
	params     map[string]string
	width      int
	height     int
	samples    int
	renderer   string
	output     string
	list       bool
	golden     bool
	update     bool
	benchmark  bool
	csvPath    string
	dev        bool
}

func parseFlags(args []string, stderr io.Writer) (*options, *pflag.FlagSet, error) {
	opts := &options{}
	fs := pflag.NewFlagSet("raytrace-testing", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "YAML render job file")
	fs.StringVar(&opts.fixture, "fixture", "", "Fixture kind to render instead of the configured list (see --list)")
	fs.StringToStringVar(&opts.params, "param", nil, "Fixture parameter key=value, repeatable")
	fs.IntVar(&opts.width, "width", 0, "Image width")
	fs.IntVar(&opts.height, "height", 0, "Image height")
	fs.IntVar(&opts.samples, "samples", 0, "Samples per pixel")
	fs.StringVar(&opts.renderer, "renderer", "", "Renderer: ao, pathtracer or scivis")
	fs.StringVarP(&opts.output, "output", "o", "", "Output directory for rendered images")
	fs.BoolVar(&opts.list, "list", false, "Print the fixture catalog as JSON and exit")
	fs.BoolVar(&opts.golden, "golden", false, "Compare renders against golden images")
	fs.BoolVar(&opts.update, "update-golden", false, "Rewrite golden images that are missing or differ")
	fs.BoolVar(&opts.benchmark, "benchmark", false, "Benchmark fixtures and report frame rate statistics")
	fs.StringVar(&opts.csvPath, "csv", "", "Write benchmark statistics to this CSV file")
	fs.BoolVar(&opts.dev, "dev", false, "Human readable debug logging")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return opts, fs, nil
}

// loadConfig reads the job file and applies flag overrides
func loadConfig(opts *options, fs *pflag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}

	if fs.Changed("width") {
		cfg.Render.Width = opts.width
	}
	if fs.Changed("height") {
		cfg.Render.Height = opts.height
	}
	if fs.Changed("samples") {
		cfg.Render.Samples = opts.samples
	}
	if fs.Changed("renderer") {
		cfg.Render.Renderer = opts.renderer
	}
	if fs.Changed("output") {
		cfg.OutputDir = opts.output
	}
	if opts.update {
		cfg.Golden.Update = true
	}
	if opts.dev {
		cfg.Log.Development = true
	}
	if opts.fixture != "" {
		cfg.Fixtures = []config.FixtureConfig{{Kind: opts.fixture, Params: opts.params}}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, fs, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	// Built-in transfer functions registered in init; nothing may add more once fixtures run
	transferfunction.Default.Freeze()

	if opts.list {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(scene.ListAllFixtures())
	}

	cfg, err := loadConfig(opts, fs)
	if err != nil {
		return err
	}
	logger, err := core.NewLogger(cfg.Log.Development)
	if err != nil {
		return err
	}
	// Tags every line so interleaved runs can be told apart
	logger = logger.WithValues("run", uuid.NewString())
	fixtures, err := cfg.BuildFixtures()
	if err != nil {
		return err
	}
	runOpts := testsuite.RunOptions{Renderer: cfg.RendererOptions(), Logger: logger, DiffDir: cfg.OutputDir}

	switch {
	case opts.benchmark:
		return runBenchmarks(ctx, cfg, fixtures, runOpts, opts.csvPath, stdout, logger)
	case opts.golden || cfg.Golden.Update:
		return runGolden(ctx, cfg, fixtures, runOpts, logger)
	default:
		return renderAll(ctx, cfg, fixtures, runOpts, logger)
	}
}

func renderAll(ctx context.Context, cfg *config.Config, fixtures []scene.Fixture, runOpts testsuite.RunOptions, logger logr.Logger) error {
	for _, fixture := range fixtures {
		start := time.Now()
		img, stats, err := testsuite.RenderFixture(ctx, fixture, runOpts)
		if err != nil {
			return err
		}
		path := filepath.Join(cfg.OutputDir, fixture.Name()+".png")
		if err := loaders.SaveImage(path, img); err != nil {
			return err
		}
		logger.Info("Rendered fixture", "fixture", fixture.Name(), "path", path,
			"elapsed", time.Since(start).String(), "averageSamples", stats.AverageSamples,
			"luminance", renderer.CalculateAverageLuminance(img))
	}
	return nil
}

func runGolden(ctx context.Context, cfg *config.Config, fixtures []scene.Fixture, runOpts testsuite.RunOptions, logger logr.Logger) error {
	failed := 0
	for _, fixture := range fixtures {
		diff, err := testsuite.CheckGolden(ctx, fixture, cfg.Golden.Dir, cfg.Golden.MaxDiffPerPixel, cfg.Golden.Update, runOpts)
		switch {
		case err != nil:
			failed++
			logger.Error(err, "Golden check failed", "fixture", fixture.Name())
		case !diff.Passed():
			failed++
			logger.Info("Golden image differs", "fixture", fixture.Name(),
				"differingPixels", diff.DifferingPixels, "maxChannelDiff", diff.MaxChannelDiff,
				"fingerprint", fmt.Sprintf("%016x", diff.Fingerprint))
		default:
			logger.V(core.LogVerbose).Info("Golden image matches", "fixture", fixture.Name())
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d golden checks failed", errFailures, failed, len(fixtures))
	}
	return nil
}

func runBenchmarks(ctx context.Context, cfg *config.Config, fixtures []scene.Fixture, runOpts testsuite.RunOptions,
	csvPath string, stdout io.Writer, logger logr.Logger) error {
	baseline := map[string]float64{}
	if cfg.Benchmark.Baseline != "" {
		file, err := os.Open(cfg.Benchmark.Baseline)
		if err != nil {
			return fmt.Errorf("open baseline: %w", err)
		}
		baseline, err = testsuite.ReadBaseline(file)
		file.Close()
		if err != nil {
			return err
		}
	}

	results := make([]testsuite.Result, 0, len(fixtures))
	failed := 0
	for _, fixture := range fixtures {
		stats, err := testsuite.Benchmark(ctx, fixture, cfg.Benchmark.Warmup, cfg.Benchmark.Frames, runOpts)
		if err != nil {
			return err
		}
		results = append(results, testsuite.Result{Name: fixture.Name(), Stats: stats})
		logger.Info("Benchmarked fixture", "fixture", fixture.Name(), "meanFPS", stats.Mean, "stdDev", stats.StdDev)

		if want, ok := baseline[fixture.Name()]; ok {
			if regressed, ratio := testsuite.ScoreRegressed(want, stats.Mean, cfg.Benchmark.ScoreDiffPercent); regressed {
				failed++
				logger.Info("Score outside baseline tolerance", "fixture", fixture.Name(), "ratio", ratio)
			}
		}
	}

	out := stdout
	if csvPath != "" {
		file, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("create csv: %w", err)
		}
		defer file.Close()
		out = file
	}
	if err := testsuite.WriteCSV(out, results); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d benchmark scores regressed", errFailures, failed)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
