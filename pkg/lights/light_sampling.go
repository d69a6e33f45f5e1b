package lights

import (
	"github.com/df07/raytrace-testing/pkg/core"
)

// LightSampler chooses which light to sample at a shading point
type LightSampler interface {
	// SampleLight returns the chosen light, the probability it was chosen and its index
	SampleLight(point core.Vec3, normal core.Vec3, u float64) (Light, float64, int)

	// GetLightProbability is the probability SampleLight picks lightIndex at point
	GetLightProbability(lightIndex int, point core.Vec3, normal core.Vec3) float64

	GetLightCount() int
}

// CalculateLightPDF is the density of direction under light selection followed by light sampling
func CalculateLightPDF(lights []Light, lightSampler LightSampler, point, normal, direction core.Vec3) float64 {
	totalPDF := 0.0
	for i, light := range lights {
		totalPDF += light.PDF(point, normal, direction) * lightSampler.GetLightProbability(i, point, normal)
	}
	return totalPDF
}

// SampleLight chooses a light with lightSampler and samples it. The sample PDF includes
// the selection probability.
func SampleLight(lights []Light, lightSampler LightSampler, point core.Vec3, normal core.Vec3, sampler core.Sampler) (LightSample, Light, int, bool) {
	if len(lights) == 0 {
		return LightSample{}, nil, -1, false
	}
	selectedLight, lightSelectionPdf, lightIndex := lightSampler.SampleLight(point, normal, sampler.Get1D())

	sample := selectedLight.Sample(point, normal, sampler.Get2D())
	sample.PDF *= lightSelectionPdf

	return sample, selectedLight, lightIndex, true
}

// UniformLightSampler picks every light with equal probability
type UniformLightSampler struct {
	lights      []Light
	sceneRadius float64
}

// NewUniformLightSampler creates a uniform light sampler
func NewUniformLightSampler(lights []Light, sceneRadius float64) *UniformLightSampler {
	return &UniformLightSampler{lights: lights, sceneRadius: sceneRadius}
}

// SampleLight implements LightSampler
func (s *UniformLightSampler) SampleLight(point core.Vec3, normal core.Vec3, u float64) (Light, float64, int) {
	if len(s.lights) == 0 {
		return nil, 0, -1
	}
	index := min(len(s.lights)-1, int(u*float64(len(s.lights))))
	return s.lights[index], 1.0 / float64(len(s.lights)), index
}

// GetLightProbability implements LightSampler
func (s *UniformLightSampler) GetLightProbability(lightIndex int, point core.Vec3, normal core.Vec3) float64 {
	if lightIndex < 0 || lightIndex >= len(s.lights) {
		return 0
	}
	return 1.0 / float64(len(s.lights))
}

// GetLightCount implements LightSampler
func (s *UniformLightSampler) GetLightCount() int {
	return len(s.lights)
}
