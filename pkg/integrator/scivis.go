package integrator

import (
	"math"

	"github.com/df07/raytrace-testing/pkg/core"
	"github.com/df07/raytrace-testing/pkg/scene"
)

// ambientIntensity scales the ambient occlusion term of the scivis renderer
const ambientIntensity = 0.2

// SciVisIntegrator is a fast Whitted-style renderer: direct lighting with hard shadows,
// an ambient occlusion term and specular reflection and refraction up to MaxDepth
type SciVisIntegrator struct {
	config scene.SamplingConfig
}

// NewSciVisIntegrator creates a new scivis integrator
func NewSciVisIntegrator(config scene.SamplingConfig) *SciVisIntegrator {
	if config.AODistance <= 0 {
		config.AODistance = math.Inf(1)
	}
	return &SciVisIntegrator{config: config}
}

// RayColor implements Integrator
func (sv *SciVisIntegrator) RayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Vec3 {
	return sv.shade(ray, s, sampler, 0)
}

func (sv *SciVisIntegrator) shade(ray core.Ray, s *scene.Scene, sampler core.Sampler, depth int) core.Vec3 {
	hit, isHit := s.BVH.Hit(ray, rayEpsilon, math.Inf(1))
	if !isHit {
		cameraRay := depth == 0 || !sv.config.BackgroundRefraction
		return background(ray, s, cameraRay)
	}

	if e := emitted(ray, hit); !e.IsZero() {
		return e
	}

	scatter, ok := hit.Material.Scatter(ray, *hit, sampler)
	if ok && scatter.IsSpecular() {
		if depth >= sv.config.MaxDepth {
			return core.Vec3{}
		}
		return scatter.Attenuation.MultiplyVec(sv.shade(scatter.Scattered, s, sampler, depth+1))
	}

	albedo := surfaceColor(ray, hit, sampler)

	var direct core.Vec3
	for _, light := range s.Lights {
		sample := light.Sample(hit.Point, hit.Normal, sampler.Get2D())
		if sample.PDF <= 0 || sample.Emission.IsZero() {
			continue
		}
		cosine := sample.Direction.Dot(hit.Normal)
		if cosine <= 0 || occluded(s, hit.Point, sample.Direction, sample.Distance) {
			continue
		}
		direct = direct.Add(sample.Emission.Multiply(cosine / (math.Pi * sample.PDF)))
	}

	ambient := ambientIntensity
	if sv.config.AOSamples > 0 {
		ambient *= ambientOcclusion(s, hit, sampler, sv.config.AOSamples, sv.config.AODistance)
	}

	return albedo.MultiplyVec(direct.Add(core.NewVec3(ambient, ambient, ambient)))
}
