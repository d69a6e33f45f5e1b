package scene

import (
	"github.com/df07/raytrace-testing/pkg/core"
	"github.com/df07/raytrace-testing/pkg/geometry"
	"github.com/df07/raytrace-testing/pkg/lights"
	"github.com/df07/raytrace-testing/pkg/material"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *geometry.Camera
	Shapes         []geometry.Shape    // Objects in the scene
	Lights         []lights.Light      // Lights in the scene
	LightSampler   lights.LightSampler // Light sampler
	SamplingConfig SamplingConfig
	CameraConfig   geometry.CameraConfig
	BVH            *geometry.BVH // Acceleration structure for ray-object intersection

	// Renderer names the integrator the scene is meant to be rendered with
	Renderer string
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width                     int // Image width
	Height                    int // Image height
	SamplesPerPixel           int // Number of rays per pixel
	MaxDepth                  int // Maximum ray bounce depth
	RussianRouletteMinBounces int // Minimum bounces before Russian Roulette can activate

	// BackgroundRefraction lets camera paths made only of specular bounces see
	// lights that are hidden from camera rays
	BackgroundRefraction bool

	AOSamples  int     // Ambient occlusion rays per hit (ao and scivis renderers)
	AODistance float64 // Maximum occluder distance for ambient occlusion
}

// DefaultSamplingConfig returns the sampling settings used by the test fixtures
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:                     256,
		Height:                    256,
		SamplesPerPixel:           16,
		MaxDepth:                  8,
		RussianRouletteMinBounces: 4,
		AOSamples:                 4,
		AODistance:                1e20,
	}
}

// NewGroundQuad creates a horizontal quad centered at the given point with normal pointing up (0,1,0)
func NewGroundQuad(center core.Vec3, size float64, material material.Material) *geometry.Quad {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	// u × v = (0,0,size) × (size,0,0) = (0,size²,0)
	u := core.NewVec3(0, 0, size)
	v := core.NewVec3(size, 0, 0)
	return geometry.NewQuad(corner, u, v, material)
}

// Preprocess prepares the scene for rendering by preprocessing all objects that need it
func (s *Scene) Preprocess() error {
	s.BVH = geometry.NewBVH(s.Shapes)

	for _, light := range s.Lights {
		if preprocessor, ok := light.(geometry.Preprocessor); ok {
			if err := preprocessor.Preprocess(s.BVH.Center, s.BVH.Radius); err != nil {
				return err
			}
		}
	}

	if s.LightSampler == nil {
		s.LightSampler = lights.NewUniformLightSampler(s.Lights, s.BVH.Radius)
	}

	for _, shape := range s.Shapes {
		if preprocessor, ok := shape.(geometry.Preprocessor); ok {
			if err := preprocessor.Preprocess(s.BVH.Center, s.BVH.Radius); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Shapes)
}

// AddQuadLight adds a rectangular area light to the scene
func (s *Scene) AddQuadLight(corner, u, v core.Vec3, emission core.Vec3) {
	quadLight := lights.NewQuadLight(corner, u, v, material.NewEmissive(emission))
	s.Lights = append(s.Lights, quadLight)
	s.Shapes = append(s.Shapes, quadLight.Quad)
}

// AddUniformInfiniteLight adds a uniform infinite light to the scene
func (s *Scene) AddUniformInfiniteLight(emission core.Vec3) {
	s.Lights = append(s.Lights, lights.NewUniformInfiniteLight(emission))
}

// AddHDRILight adds an environment light to the scene
func (s *Scene) AddHDRILight(light *lights.HDRILight) {
	s.Lights = append(s.Lights, light)
}
