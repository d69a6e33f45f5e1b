package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/df07/raytrace-testing/pkg/integrator"
	"github.com/df07/raytrace-testing/pkg/renderer"
	"github.com/df07/raytrace-testing/pkg/scene"
	"github.com/df07/raytrace-testing/pkg/testsuite"
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid config")

type RenderConfig struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Samples  int    `yaml:"samples"`
	MaxDepth *int   `yaml:"max_depth"` // Nil takes the default; an explicit value must be at least 1
	Renderer string `yaml:"renderer"`
	TileSize int    `yaml:"tile_size"`
	Workers  int    `yaml:"workers"`
	Seed     int64  `yaml:"seed"`
}

type GoldenConfig struct {
	Dir             string `yaml:"dir"`
	MaxDiffPerPixel int    `yaml:"max_diff_per_pixel"`
	Update          bool   `yaml:"update"`
}

type BenchmarkConfig struct {
	Warmup           int     `yaml:"warmup"`
	Frames           int     `yaml:"frames"`
	Baseline         string  `yaml:"baseline"`
	ScoreDiffPercent float64 `yaml:"score_diff_percent"`
}

type LogConfig struct {
	Development bool `yaml:"development"`
}

// FixtureConfig names a fixture kind and its string parameters
type FixtureConfig struct {
	Kind   string            `yaml:"kind"`
	Params map[string]string `yaml:"params"`
}

// Config is a render job. An empty fixture list selects every standard variant.
type Config struct {
	OutputDir string          `yaml:"output_dir"`
	Render    RenderConfig    `yaml:"render"`
	Golden    GoldenConfig    `yaml:"golden"`
	Benchmark BenchmarkConfig `yaml:"benchmark"`
	Log       LogConfig       `yaml:"log"`
	Fixtures  []FixtureConfig `yaml:"fixtures"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML config file and fills in defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	base := scene.DefaultBase()
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	if c.Render.Width == 0 {
		c.Render.Width = base.Width
	}
	if c.Render.Height == 0 {
		c.Render.Height = base.Height
	}
	if c.Render.Samples == 0 {
		c.Render.Samples = base.SamplesPerPixel
	}
	if c.Render.MaxDepth == nil {
		depth := base.MaxDepth
		c.Render.MaxDepth = &depth
	}
	if c.Render.Renderer == "" {
		c.Render.Renderer = base.Renderer
	}
	if c.Golden.Dir == "" {
		c.Golden.Dir = "testdata/golden"
	}
	if c.Benchmark.Frames == 0 {
		c.Benchmark.Frames = 5
	}
	if c.Benchmark.ScoreDiffPercent == 0 {
		c.Benchmark.ScoreDiffPercent = testsuite.DefaultScoreDiffPercent
	}
}

// Validate reports the first setting that cannot produce a render
func (c *Config) Validate() error {
	switch {
	case c.Render.Width <= 0 || c.Render.Height <= 0:
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidConfig, c.Render.Width, c.Render.Height)
	case c.Render.Samples <= 0:
		return fmt.Errorf("%w: samples must be positive, got %d", ErrInvalidConfig, c.Render.Samples)
	case c.Render.MaxDepth == nil || *c.Render.MaxDepth < 1:
		return fmt.Errorf("%w: max depth must be at least 1, got %s", ErrInvalidConfig, formatDepth(c.Render.MaxDepth))
	case c.Render.TileSize < 0 || c.Render.Workers < 0:
		return fmt.Errorf("%w: tile size and workers must not be negative", ErrInvalidConfig)
	case c.Golden.MaxDiffPerPixel < 0:
		return fmt.Errorf("%w: negative max diff per pixel", ErrInvalidConfig)
	case c.Benchmark.Warmup < 0 || c.Benchmark.Frames < 0:
		return fmt.Errorf("%w: benchmark frame counts must not be negative", ErrInvalidConfig)
	case c.Benchmark.ScoreDiffPercent < 0:
		return fmt.Errorf("%w: negative score diff percent", ErrInvalidConfig)
	}

	if !slices.Contains(integrator.Names(), c.Render.Renderer) {
		return fmt.Errorf("%w: renderer %q, want one of %v", ErrInvalidConfig, c.Render.Renderer, integrator.Names())
	}
	for i, f := range c.Fixtures {
		if _, err := scene.NewFixture(f.Kind, c.Base(), f.Params); err != nil {
			return fmt.Errorf("%w: fixtures[%d]: %w", ErrInvalidConfig, i, err)
		}
	}
	return nil
}

// Base returns the shared fixture settings
func (c *Config) Base() scene.Base {
	return scene.Base{
		Width:           c.Render.Width,
		Height:          c.Render.Height,
		Renderer:        c.Render.Renderer,
		SamplesPerPixel: c.Render.Samples,
		MaxDepth:        c.maxDepth(),
	}
}

func (c *Config) maxDepth() int {
	if c.Render.MaxDepth == nil {
		return 0
	}
	return *c.Render.MaxDepth
}

func formatDepth(depth *int) string {
	if depth == nil {
		return "unset"
	}
	return strconv.Itoa(*depth)
}

// RendererOptions returns the tile scheduling options
func (c *Config) RendererOptions() renderer.Options {
	return renderer.Options{TileSize: c.Render.TileSize, Workers: c.Render.Workers, Seed: c.Render.Seed}
}

// BuildFixtures creates the configured fixtures, or every standard variant when none are listed
func (c *Config) BuildFixtures() ([]scene.Fixture, error) {
	if len(c.Fixtures) == 0 {
		return scene.Variants(c.Base()), nil
	}
	fixtures := make([]scene.Fixture, 0, len(c.Fixtures))
	for _, f := range c.Fixtures {
		fixture, err := scene.NewFixture(f.Kind, c.Base(), f.Params)
		if err != nil {
			return nil, err
		}
		fixtures = append(fixtures, fixture)
	}
	return fixtures, nil
}
