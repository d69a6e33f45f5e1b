package testsuite

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/raytrace-testing/pkg/integrator"
	"github.com/df07/raytrace-testing/pkg/renderer"
	"github.com/df07/raytrace-testing/pkg/scene"
)

func tinyBase() scene.Base {
	return scene.Base{Width: 12, Height: 8, Renderer: "scivis", SamplesPerPixel: 1, MaxDepth: 3}
}

func testOptions() RunOptions {
	return RunOptions{Renderer: renderer.Options{TileSize: 4, Seed: 1}}
}

func TestRenderFixture(t *testing.T) {
	img, stats, err := RenderFixture(context.Background(),
		scene.Texture2DTransform{Base: tinyBase(), Transform: "rotate"}, testOptions())
	require.NoError(t, err)
	assert.Equal(t, 12, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())
	assert.Equal(t, 96, stats.TotalSamples)
}

func TestRenderFixture_Errors(t *testing.T) {
	_, _, err := RenderFixture(context.Background(),
		scene.Texture2DTransform{Base: tinyBase(), Transform: "warp"}, testOptions())
	assert.ErrorIs(t, err, scene.ErrUnknownParameter)

	base := tinyBase()
	base.Renderer = "raymarcher"
	_, _, err = RenderFixture(context.Background(), scene.Texture2DTransform{Base: base, Transform: "identity"}, testOptions())
	assert.ErrorIs(t, err, integrator.ErrUnknownIntegrator)
}

func TestCheckGolden(t *testing.T) {
	dir := t.TempDir()
	fixture := scene.RendererMaterialList{Base: tinyBase()}

	_, err := CheckGolden(context.Background(), fixture, dir, 0, false, testOptions())
	assert.ErrorIs(t, err, ErrGoldenMissing)

	_, err = CheckGolden(context.Background(), fixture, dir, 0, true, testOptions())
	require.NoError(t, err)
	_, err = os.Stat(GoldenPath(dir, fixture.Name()))
	require.NoError(t, err, "update writes the reference")

	diff, err := CheckGolden(context.Background(), fixture, dir, 0, false, testOptions())
	require.NoError(t, err)
	assert.True(t, diff.Passed(), "same seed renders the same image")

	// A stale reference of the wrong size fails until updated
	require.NoError(t, SaveGolden(dir, fixture.Name(), solidImage(3, 3, color.RGBA{A: 255})))
	_, err = CheckGolden(context.Background(), fixture, dir, 0, false, testOptions())
	assert.ErrorIs(t, err, ErrSizeMismatch)
	_, err = CheckGolden(context.Background(), fixture, dir, 0, true, testOptions())
	require.NoError(t, err)

	golden, err := LoadGolden(dir, fixture.Name())
	require.NoError(t, err)
	assert.Equal(t, 12, golden.Bounds().Dx())
}

func TestCheckGolden_WritesDiffImage(t *testing.T) {
	dir, diffDir := t.TempDir(), t.TempDir()
	fixture := scene.RendererMaterialList{Base: tinyBase()}
	require.NoError(t, SaveGolden(dir, fixture.Name(), solidImage(12, 8, color.RGBA{255, 0, 255, 255})))

	opts := testOptions()
	opts.DiffDir = diffDir
	diff, err := CheckGolden(context.Background(), fixture, dir, 0, false, opts)
	require.NoError(t, err)
	assert.False(t, diff.Passed())

	_, err = os.Stat(filepath.Join(diffDir, fixture.Name()+"_diff.png"))
	assert.NoError(t, err)
}

func TestBenchmark(t *testing.T) {
	stats, err := Benchmark(context.Background(), scene.PTBackgroundRefraction{Base: tinyBase(), Enabled: true}, 1, 3, testOptions())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Samples)
	assert.Greater(t, stats.Min, 0.0)
	assert.GreaterOrEqual(t, stats.Max, stats.Median)
}
