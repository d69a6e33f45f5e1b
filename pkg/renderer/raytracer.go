package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"runtime"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/df07/raytrace-testing/pkg/core"
	"github.com/df07/raytrace-testing/pkg/integrator"
	"github.com/df07/raytrace-testing/pkg/scene"
)

// ErrInvalidImageSize is returned when a scene asks for an empty image
var ErrInvalidImageSize = errors.New("invalid image size")

const defaultTileSize = 32

// Options controls how a Raytracer splits and schedules work
type Options struct {
	TileSize int   // Tile edge in pixels; zero means 32
	Workers  int   // Concurrent tiles; zero means runtime.NumCPU()
	Seed     int64 // Base seed; each tile derives its own generator from it
}

// Raytracer renders a preprocessed scene with an integrator
type Raytracer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	options    Options
	logger     logr.Logger
}

// NewRaytracer creates a raytracer. The scene must already be preprocessed.
func NewRaytracer(s *scene.Scene, integ integrator.Integrator, options Options, logger logr.Logger) *Raytracer {
	if options.TileSize <= 0 {
		options.TileSize = defaultTileSize
	}
	if options.Workers <= 0 {
		options.Workers = runtime.NumCPU()
	}
	return &Raytracer{scene: s, integrator: integ, options: options, logger: logger}
}

// Render traces every tile and returns the tone mapped image.
// Output is deterministic for a given seed regardless of worker count.
func (rt *Raytracer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	width, height := rt.scene.SamplingConfig.Width, rt.scene.SamplingConfig.Height
	if width <= 0 || height <= 0 {
		return nil, RenderStats{}, fmt.Errorf("%w: %dx%d", ErrInvalidImageSize, width, height)
	}
	samples := max(1, rt.scene.SamplingConfig.SamplesPerPixel)

	pixels := make([][]PixelStats, height)
	for y := range pixels {
		pixels[y] = make([]PixelStats, width)
	}

	tiles := NewTileGrid(width, height, rt.options.TileSize)
	tileStats := make([]RenderStats, len(tiles))
	tr := NewTileRenderer(rt.scene, rt.integrator, width, height)

	rt.logger.Info("Rendering", "width", width, "height", height, "samples", samples,
		"tiles", len(tiles), "workers", rt.options.Workers)
	start := time.Now()

	// gctx is cancelled once Wait returns; only the caller's ctx decides the outcome
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rt.options.Workers)
	for i, tile := range tiles {
		if gctx.Err() != nil {
			break
		}
		i, tile := i, tile
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			random := rand.New(rand.NewSource(rt.options.Seed + int64(tile.ID) + 42))
			tileStats[i] = tr.RenderTile(tile, pixels, random, samples)
			rt.logger.V(core.LogDebug).Info("Tile done", "tile", tile.ID, "bounds", tile.Bounds.String())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, RenderStats{}, fmt.Errorf("render cancelled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, RenderStats{}, fmt.Errorf("render cancelled: %w", err)
	}

	var stats RenderStats
	for _, ts := range tileStats {
		stats.Merge(ts)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, vec3ToColor(pixels[y][x].GetColor()))
		}
	}

	rt.logger.V(core.LogVerbose).Info("Render complete", "elapsed", time.Since(start).String(),
		"samples", stats.TotalSamples, "dropped", stats.DroppedSamples)
	return img, stats, nil
}

// vec3ToColor converts linear radiance to an 8-bit sRGB-ish color with gamma 2.2
func vec3ToColor(c core.Vec3) color.RGBA {
	g := c.GammaCorrect(2.2).Clamp(0, 1)
	return color.RGBA{
		R: uint8(g.X*255 + 0.5),
		G: uint8(g.Y*255 + 0.5),
		B: uint8(g.Z*255 + 0.5),
		A: 255,
	}
}
