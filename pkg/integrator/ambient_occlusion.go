package integrator

import (
	"math"

	"github.com/df07/raytrace-testing/pkg/core"
	"github.com/df07/raytrace-testing/pkg/scene"
)

// AmbientOcclusionIntegrator shades primary hits by surface color times the
// unoccluded fraction of the hemisphere
type AmbientOcclusionIntegrator struct {
	config scene.SamplingConfig
}

// NewAmbientOcclusionIntegrator creates a new ambient occlusion integrator
func NewAmbientOcclusionIntegrator(config scene.SamplingConfig) *AmbientOcclusionIntegrator {
	if config.AOSamples <= 0 {
		config.AOSamples = 1
	}
	if config.AODistance <= 0 {
		config.AODistance = math.Inf(1)
	}
	return &AmbientOcclusionIntegrator{config: config}
}

// RayColor implements Integrator
func (ao *AmbientOcclusionIntegrator) RayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Vec3 {
	hit, isHit := s.BVH.Hit(ray, rayEpsilon, math.Inf(1))
	if !isHit {
		return background(ray, s, true)
	}

	color := surfaceColor(ray, hit, sampler)
	return color.Multiply(ambientOcclusion(s, hit, sampler, ao.config.AOSamples, ao.config.AODistance))
}
