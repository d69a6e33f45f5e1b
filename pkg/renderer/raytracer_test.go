package renderer

import (
	"context"
	"image"
	"math"
	"sync/atomic"
	"testing"

	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/raytrace-testing/pkg/core"
	"github.com/df07/raytrace-testing/pkg/geometry"
	"github.com/df07/raytrace-testing/pkg/integrator"
	"github.com/df07/raytrace-testing/pkg/lights"
	"github.com/df07/raytrace-testing/pkg/material"
	"github.com/df07/raytrace-testing/pkg/scene"
)

// constantIntegrator returns the same radiance for every ray
type constantIntegrator struct {
	color core.Vec3
	calls atomic.Int64
}

func (c *constantIntegrator) RayColor(core.Ray, *scene.Scene, core.Sampler) core.Vec3 {
	c.calls.Add(1)
	return c.color
}

func newRenderScene(t *testing.T, width, height, spp int) *scene.Scene {
	t.Helper()
	config := scene.DefaultSamplingConfig()
	config.Width, config.Height, config.SamplesPerPixel = width, height, spp

	camConfig := geometry.DefaultCameraConfig()
	camConfig.Width = width
	camConfig.AspectRatio = float64(width) / float64(height)

	s := &scene.Scene{
		Camera:         geometry.NewCamera(camConfig),
		CameraConfig:   camConfig,
		SamplingConfig: config,
		Shapes: []geometry.Shape{
			geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3))),
		},
		Lights: []lights.Light{lights.NewUniformInfiniteLight(core.NewVec3(0.8, 0.8, 1))},
	}
	require.NoError(t, s.Preprocess())
	return s
}

func TestNewTileGrid(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		tileSize      int
		wantTiles     int
	}{
		{"exact fit", 64, 64, 32, 4},
		{"ragged edges", 70, 33, 32, 6},
		{"single tile", 10, 10, 32, 1},
		{"zero tile size covers image", 10, 20, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles := NewTileGrid(tt.width, tt.height, tt.tileSize)
			require.Len(t, tiles, tt.wantTiles)

			covered := 0
			for i, tile := range tiles {
				assert.Equal(t, i, tile.ID)
				assert.True(t, tile.Bounds.In(image.Rect(0, 0, tt.width, tt.height)))
				covered += tile.Bounds.Dx() * tile.Bounds.Dy()
			}
			assert.Equal(t, tt.width*tt.height, covered, "tiles must cover every pixel exactly once")
		})
	}
}

func TestVec3ToColor(t *testing.T) {
	tests := []struct {
		name string
		in   core.Vec3
		want uint8
	}{
		{"black", core.NewVec3(0, 0, 0), 0},
		{"white", core.NewVec3(1, 1, 1), 255},
		{"overexposed clamps", core.NewVec3(4, 4, 4), 255},
		{"negative clamps", core.NewVec3(-1, -1, -1), 0},
		{"mid gray is gamma encoded", core.NewVec3(0.5, 0.5, 0.5), uint8(math.Pow(0.5, 1/2.2)*255 + 0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := vec3ToColor(tt.in)
			assert.Equal(t, tt.want, c.R)
			assert.Equal(t, tt.want, c.G)
			assert.Equal(t, tt.want, c.B)
			assert.Equal(t, uint8(255), c.A)
		})
	}
}

func TestRaytracer_ConstantColor(t *testing.T) {
	s := newRenderScene(t, 40, 24, 3)
	integ := &constantIntegrator{color: core.NewVec3(1, 0, 0)}

	img, stats, err := NewRaytracer(s, integ, Options{TileSize: 16}, logr.Discard()).Render(context.Background())
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 40, 24), img.Bounds())
	assert.Equal(t, int64(40*24*3), integ.calls.Load())
	assert.Equal(t, 40*24, stats.TotalPixels)
	assert.Equal(t, 40*24*3, stats.TotalSamples)
	assert.Equal(t, 6, stats.Tiles)
	assert.InDelta(t, 3.0, stats.AverageSamples, 1e-12)

	for y := 0; y < 24; y++ {
		for x := 0; x < 40; x++ {
			c := img.RGBAAt(x, y)
			if c.R != 255 || c.G != 0 || c.B != 0 {
				t.Fatalf("pixel (%d,%d) = %v, want pure red", x, y, c)
			}
		}
	}
}

func TestRaytracer_DropsNonFiniteSamples(t *testing.T) {
	s := newRenderScene(t, 4, 4, 2)
	integ := &constantIntegrator{color: core.NewVec3(math.NaN(), 0, 0)}

	img, stats, err := NewRaytracer(s, integ, Options{}, logr.Discard()).Render(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 32, stats.DroppedSamples)
	assert.Zero(t, stats.TotalSamples)
	assert.Equal(t, uint8(0), img.RGBAAt(0, 0).R, "pixels without samples render black")
}

func TestRaytracer_DeterministicAcrossWorkerCounts(t *testing.T) {
	s := newRenderScene(t, 24, 16, 4)
	integ, err := integrator.New("pathtracer", s.SamplingConfig)
	require.NoError(t, err)

	serial, _, err := NewRaytracer(s, integ, Options{TileSize: 8, Workers: 1, Seed: 7}, logr.Discard()).Render(context.Background())
	require.NoError(t, err)
	parallel, _, err := NewRaytracer(s, integ, Options{TileSize: 8, Workers: 8, Seed: 7}, logr.Discard()).Render(context.Background())
	require.NoError(t, err)

	if diff := cmp.Diff(serial.Pix, parallel.Pix); diff != "" {
		t.Errorf("Worker count changed the image (-serial +parallel):\n%s", diff)
	}
}

func TestRaytracer_Errors(t *testing.T) {
	integ := &constantIntegrator{color: core.NewVec3(1, 1, 1)}

	t.Run("empty image", func(t *testing.T) {
		s := newRenderScene(t, 4, 4, 1)
		s.SamplingConfig.Width = 0
		_, _, err := NewRaytracer(s, integ, Options{}, logr.Discard()).Render(context.Background())
		assert.ErrorIs(t, err, ErrInvalidImageSize)
	})

	t.Run("cancelled context", func(t *testing.T) {
		s := newRenderScene(t, 64, 64, 1)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		img, _, err := NewRaytracer(s, integ, Options{}, logr.Discard()).Render(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, img)
	})
}

func TestRaytracer_CompletesOnLiveContext(t *testing.T) {
	integ := &constantIntegrator{color: core.NewVec3(0.5, 0.5, 0.5)}
	s := newRenderScene(t, 8, 8, 1)
	rt := NewRaytracer(s, integ, Options{TileSize: 8, Workers: 1}, logr.Discard())

	// The same raytracer renders repeatedly, as benchmarks do
	for i := 0; i < 2; i++ {
		img, stats, err := rt.Render(context.Background())
		require.NoError(t, err, "render %d", i)
		require.NotNil(t, img)
		assert.Equal(t, 64, stats.TotalSamples)
	}
}
