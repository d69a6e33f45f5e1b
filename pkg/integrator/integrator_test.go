package integrator

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/raytrace-testing/pkg/core"
	"github.com/df07/raytrace-testing/pkg/geometry"
	"github.com/df07/raytrace-testing/pkg/lights"
	"github.com/df07/raytrace-testing/pkg/material"
	"github.com/df07/raytrace-testing/pkg/scene"
)

func testConfig() scene.SamplingConfig {
	return scene.SamplingConfig{
		SamplesPerPixel:           1,
		MaxDepth:                  8,
		RussianRouletteMinBounces: 8,
		AOSamples:                 8,
	}
}

func newTestScene(t *testing.T, shapes []geometry.Shape, ls []lights.Light, config scene.SamplingConfig) *scene.Scene {
	t.Helper()
	s := &scene.Scene{Shapes: shapes, Lights: ls, SamplingConfig: config}
	require.NoError(t, s.Preprocess())
	return s
}

func newSampler(seed int64) core.Sampler {
	return core.NewRandomSampler(rand.New(rand.NewSource(seed)))
}

func constantEnvironment(visible bool) *lights.HDRILight {
	pixels := make([]core.Vec3, 32*16)
	for i := range pixels {
		pixels[i] = core.NewVec3(1, 1, 1)
	}
	envMap := material.NewTexture2D(32, 16, pixels)
	light := lights.NewHDRILight()
	if err := light.Set(visible, core.NewVec3(1, 1, 1), mgl64.Ident3(), envMap, nil); err != nil {
		panic(err)
	}
	return light
}

func average(n int, f func() core.Vec3) core.Vec3 {
	var sum core.Vec3
	for i := 0; i < n; i++ {
		sum = sum.Add(f())
	}
	return sum.Multiply(1 / float64(n))
}

func TestRegistry(t *testing.T) {
	want := []string{"ao", "pathtracer", "scivis"}
	if diff := cmp.Diff(want, Names()); diff != "" {
		t.Errorf("Unexpected integrators (-want +got):\n%s", diff)
	}

	for _, name := range want {
		integrator, err := New(name, testConfig())
		require.NoError(t, err, name)
		require.NotNil(t, integrator)
	}

	_, err := New("bdpt", testConfig())
	assert.ErrorIs(t, err, ErrUnknownIntegrator)
}

func TestRegister_Errors(t *testing.T) {
	ao := func(config scene.SamplingConfig) Integrator { return NewAmbientOcclusionIntegrator(config) }

	tests := []struct {
		name        string
		register    string
		constructor Constructor
		wantErr     error
	}{
		{"duplicate name", "pathtracer", ao, ErrDuplicateIntegrator},
		{"empty name", "", ao, ErrInvalidIntegrator},
		{"nil constructor", "nothing", nil, ErrInvalidIntegrator},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, Register(tt.register, tt.constructor), tt.wantErr)
		})
	}

	// The original registration survives a rejected duplicate
	integrator, err := New("pathtracer", testConfig())
	require.NoError(t, err)
	assert.IsType(t, &PathTracingIntegrator{}, integrator)
	assert.Panics(t, func() { MustRegister("ao", ao) })
}

func TestPathTracing_WhiteFurnace(t *testing.T) {
	// A convex diffuse object under uniform light reflects exactly its albedo
	sphere := geometry.NewSphere(core.NewVec3(0, 0, -3), 1, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	s := newTestScene(t, []geometry.Shape{sphere}, []lights.Light{lights.NewUniformInfiniteLight(core.NewVec3(1, 1, 1))}, testConfig())

	pt := NewPathTracingIntegrator(s.SamplingConfig)
	sampler := newSampler(42)
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))

	for i := 0; i < 32; i++ {
		color := pt.RayColor(ray, s, sampler)
		assert.InDelta(t, 0.5, color.X, 1e-6, "sample %d", i)
	}
}

func TestPathTracing_HiddenEnvironmentStillLights(t *testing.T) {
	sphere := geometry.NewSphere(core.NewVec3(0, 0, -3), 1, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	s := newTestScene(t, []geometry.Shape{sphere}, []lights.Light{constantEnvironment(false)}, testConfig())

	pt := NewPathTracingIntegrator(s.SamplingConfig)
	sampler := newSampler(1)

	miss := pt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)), s, sampler)
	assert.True(t, miss.IsZero(), "hidden environment should not be seen by camera rays, got %v", miss)

	lit := average(4000, func() core.Vec3 {
		return pt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), s, sampler)
	})
	assert.InDelta(t, 0.5, lit.X, 0.05)
}

func TestPathTracing_BackgroundRefraction(t *testing.T) {
	glass := geometry.NewSphere(core.NewVec3(0, 0, -3), 1, material.NewDielectric(1.5))
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))

	tests := []struct {
		name    string
		enabled bool
		want    float64
	}{
		{"disabled hides the background behind glass", false, 0},
		{"enabled shows the background through glass", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testConfig()
			config.BackgroundRefraction = tt.enabled
			s := newTestScene(t, []geometry.Shape{glass}, []lights.Light{constantEnvironment(false)}, config)

			pt := NewPathTracingIntegrator(config)
			sampler := newSampler(9)
			color := average(200, func() core.Vec3 { return pt.RayColor(ray, s, sampler) })
			assert.InDelta(t, tt.want, color.Y, 0.02)
		})
	}
}

func TestPathTracing_EmissiveSurfaceSeenDirectly(t *testing.T) {
	s := &scene.Scene{SamplingConfig: testConfig()}
	// u × v faces the camera
	s.AddQuadLight(core.NewVec3(-1, -1, -2), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0), core.NewVec3(4, 4, 4))
	require.NoError(t, s.Preprocess())

	pt := NewPathTracingIntegrator(s.SamplingConfig)
	color := pt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), s, newSampler(3))
	assert.True(t, color.Equals(core.NewVec3(4, 4, 4)), "got %v", color)
}

func TestAmbientOcclusion(t *testing.T) {
	albedo := core.NewVec3(0.3, 0.6, 0.9)
	ground := scene.NewGroundQuad(core.Vec3{}, 100, material.NewLambertian(albedo))
	down := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	open := newTestScene(t, []geometry.Shape{ground}, nil, testConfig())
	ao := NewAmbientOcclusionIntegrator(testConfig())
	color := ao.RayColor(down, open, newSampler(5))
	assert.True(t, color.Equals(albedo), "open ground should be unoccluded, got %v", color)

	ceiling := geometry.NewQuad(core.NewVec3(-500, 0.05, -500), core.NewVec3(1000, 0, 0), core.NewVec3(0, 0, 1000), material.NewLambertian(albedo))
	covered := newTestScene(t, []geometry.Shape{ground, ceiling}, nil, testConfig())
	color = ao.RayColor(core.NewRay(core.NewVec3(0, 0.02, 0), core.NewVec3(0, -1, 0)), covered, newSampler(5))
	assert.Less(t, color.Luminance(), 0.05, "ground under a ceiling should be occluded")

	miss := ao.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)), open, newSampler(5))
	assert.True(t, miss.IsZero())
}

func TestSciVis_DirectPlusAmbient(t *testing.T) {
	albedo := core.NewVec3(0.5, 0.5, 0.5)
	ground := scene.NewGroundQuad(core.Vec3{}, 100, material.NewLambertian(albedo))
	s := newTestScene(t, []geometry.Shape{ground}, []lights.Light{lights.NewUniformInfiniteLight(core.NewVec3(1, 1, 1))}, testConfig())

	sv := NewSciVisIntegrator(testConfig())
	color := sv.RayColor(core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)), s, newSampler(11))

	// albedo * (direct + ambient)
	assert.InDelta(t, 0.6, color.X, 1e-9)
}

func TestSciVis_FollowsMirrors(t *testing.T) {
	mirror := geometry.NewSphere(core.NewVec3(0, 0, -3), 1, material.NewMetal(core.NewVec3(0.5, 0.5, 0.5), 0))
	s := newTestScene(t, []geometry.Shape{mirror}, []lights.Light{lights.NewUniformInfiniteLight(core.NewVec3(1, 1, 1))}, testConfig())

	sv := NewSciVisIntegrator(testConfig())
	color := sv.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), s, newSampler(2))
	assert.InDelta(t, 0.5, color.X, 1e-9, "mirror reflects the background")
}
