package testsuite

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"

	"github.com/df07/raytrace-testing/pkg/integrator"
	"github.com/df07/raytrace-testing/pkg/loaders"
	"github.com/df07/raytrace-testing/pkg/renderer"
	"github.com/df07/raytrace-testing/pkg/scene"
)

// RunOptions controls how fixtures are rendered
type RunOptions struct {
	Renderer renderer.Options
	Logger   logr.Logger
	DiffDir  string // When set, failed golden checks write <name>_diff.png here
}

// diffGain amplifies channel differences in saved diff images
const diffGain = 8

// RenderFixture sets up a fixture and renders it with the integrator the scene names
func RenderFixture(ctx context.Context, fixture scene.Fixture, opts RunOptions) (*image.RGBA, renderer.RenderStats, error) {
	rt, err := newRaytracer(fixture, opts)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}
	img, stats, err := rt.Render(ctx)
	if err != nil {
		return nil, renderer.RenderStats{}, fmt.Errorf("fixture %s: %w", fixture.Name(), err)
	}
	return img, stats, nil
}

func newRaytracer(fixture scene.Fixture, opts RunOptions) (*renderer.Raytracer, error) {
	s, err := fixture.SetUp()
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", fixture.Name(), err)
	}
	integ, err := integrator.New(s.Renderer, s.SamplingConfig)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", fixture.Name(), err)
	}
	logger := opts.Logger
	if logger.GetSink() == nil {
		logger = logr.Discard()
	}
	return renderer.NewRaytracer(s, integ, opts.Renderer, logger.WithValues("fixture", fixture.Name())), nil
}

// CheckGolden renders fixture and compares it with its reference image in dir.
// With update set, a missing or differing reference is rewritten and the render passes.
func CheckGolden(ctx context.Context, fixture scene.Fixture, dir string, maxDiffPerPixel int, update bool, opts RunOptions) (Diff, error) {
	img, _, err := RenderFixture(ctx, fixture, opts)
	if err != nil {
		return Diff{}, err
	}

	want, err := LoadGolden(dir, fixture.Name())
	if err != nil && !(update && errors.Is(err, ErrGoldenMissing)) {
		return Diff{}, err
	}
	rewritten := Diff{Pixels: img.Bounds().Dx() * img.Bounds().Dy(), Fingerprint: Fingerprint(img)}
	if want == nil {
		return rewritten, SaveGolden(dir, fixture.Name(), img)
	}

	diff, err := CompareImages(img, want, maxDiffPerPixel)
	if err != nil && !(update && errors.Is(err, ErrSizeMismatch)) {
		return Diff{}, err
	}
	if update && (err != nil || !diff.Passed()) {
		return rewritten, SaveGolden(dir, fixture.Name(), img)
	}
	if !diff.Passed() && opts.DiffDir != "" {
		if err := saveDiff(opts.DiffDir, fixture.Name(), img, want); err != nil {
			return diff, err
		}
	}
	return diff, nil
}

func saveDiff(dir, name string, got, want *image.RGBA) error {
	diffImg, err := DiffImage(got, want, diffGain)
	if err != nil {
		return err
	}
	return loaders.SaveImage(filepath.Join(dir, name+"_diff.png"), diffImg)
}

// Benchmark renders fixture warmup times untimed, then frames times, and summarizes
// the frame rate of the timed renders
func Benchmark(ctx context.Context, fixture scene.Fixture, warmup, frames int, opts RunOptions) (Statistics, error) {
	rt, err := newRaytracer(fixture, opts)
	if err != nil {
		return Statistics{}, err
	}

	for i := 0; i < warmup; i++ {
		if _, _, err := rt.Render(ctx); err != nil {
			return Statistics{}, fmt.Errorf("warmup frame %d: %w", i, err)
		}
	}

	fps := make([]float64, 0, frames)
	for i := 0; i < frames; i++ {
		start := time.Now()
		if _, _, err := rt.Render(ctx); err != nil {
			return Statistics{}, fmt.Errorf("benchmark frame %d: %w", i, err)
		}
		if elapsed := time.Since(start).Seconds(); elapsed > 0 {
			fps = append(fps, 1/elapsed)
		}
	}
	return ComputeStatistics(fps)
}
