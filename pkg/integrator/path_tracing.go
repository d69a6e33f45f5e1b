package integrator

import (
	"math"

	"github.com/df07/raytrace-testing/pkg/core"
	"github.com/df07/raytrace-testing/pkg/lights"
	"github.com/df07/raytrace-testing/pkg/material"
	"github.com/df07/raytrace-testing/pkg/scene"
)

// PathTracingIntegrator implements unidirectional path tracing with next event estimation
// and multiple importance sampling
type PathTracingIntegrator struct {
	config scene.SamplingConfig
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config scene.SamplingConfig) *PathTracingIntegrator {
	return &PathTracingIntegrator{config: config}
}

// pathVertex carries what the next bounce needs to know about the previous one
type pathVertex struct {
	bounce        int
	throughput    core.Vec3
	specularChain bool    // Every bounce since the camera was specular
	bsdfPDF       float64 // Density of the last diffuse bounce, 0 after a specular one
	point         core.Vec3
	normal        core.Vec3
}

// RayColor computes the color for a single camera ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Vec3 {
	return pt.trace(ray, s, sampler, pathVertex{throughput: core.NewVec3(1, 1, 1), specularChain: true})
}

func (pt *PathTracingIntegrator) trace(ray core.Ray, s *scene.Scene, sampler core.Sampler, prev pathVertex) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if prev.bounce > pt.config.MaxDepth {
		return core.Vec3{}
	}

	shouldTerminate, rrCompensation := pt.applyRussianRoulette(prev, sampler)
	if shouldTerminate {
		return core.Vec3{}
	}

	hit, isHit := s.BVH.Hit(ray, rayEpsilon, math.Inf(1))
	if !isHit {
		return pt.escaped(ray, s, prev).Multiply(rrCompensation)
	}

	colorEmitted := pt.weightEmission(emitted(ray, hit), ray.Direction, s, prev)

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		return colorEmitted.Multiply(rrCompensation)
	}

	var colorScattered core.Vec3
	if scatter.IsSpecular() {
		next := pathVertex{
			bounce:        prev.bounce + 1,
			throughput:    prev.throughput.MultiplyVec(scatter.Attenuation),
			specularChain: prev.specularChain,
		}
		colorScattered = scatter.Attenuation.MultiplyVec(pt.trace(scatter.Scattered, s, sampler, next))
	} else {
		colorScattered = pt.calculateDirectLighting(ray, s, hit, sampler).
			Add(pt.calculateIndirectLighting(s, scatter, hit, sampler, prev))
	}

	return colorEmitted.Add(colorScattered).Multiply(rrCompensation)
}

// escaped returns the background radiance for a ray that left the scene
func (pt *PathTracingIntegrator) escaped(ray core.Ray, s *scene.Scene, prev pathVertex) core.Vec3 {
	cameraRay := prev.bounce == 0 || (prev.specularChain && !pt.config.BackgroundRefraction)
	return pt.weightEmission(background(ray, s, cameraRay), ray.Direction, s, prev)
}

// weightEmission applies the MIS weight for emission found by BSDF sampling.
// Emission seen directly or through specular bounces is taken at full weight.
func (pt *PathTracingIntegrator) weightEmission(emission, direction core.Vec3, s *scene.Scene, prev pathVertex) core.Vec3 {
	if emission.IsZero() || prev.bsdfPDF <= 0 {
		return emission
	}
	lightPDF := lights.CalculateLightPDF(s.Lights, s.LightSampler, prev.point, prev.normal, direction.Normalize())
	return emission.Multiply(core.PowerHeuristic(1, prev.bsdfPDF, 1, lightPDF))
}

// calculateDirectLighting samples a light for direct illumination
func (pt *PathTracingIntegrator) calculateDirectLighting(ray core.Ray, s *scene.Scene, hit *material.SurfaceInteraction, sampler core.Sampler) core.Vec3 {
	lightSample, _, _, hasLight := lights.SampleLight(s.Lights, s.LightSampler, hit.Point, hit.Normal, sampler)
	if !hasLight || lightSample.PDF <= 0 || lightSample.Emission.IsZero() {
		return core.Vec3{}
	}

	cosine := lightSample.Direction.Dot(hit.Normal)
	if cosine <= 0 {
		return core.Vec3{}
	}

	if occluded(s, hit.Point, lightSample.Direction, lightSample.Distance) {
		return core.Vec3{}
	}

	incoming := ray.Direction.Normalize().Negate()
	brdf := hit.Material.EvaluateBRDF(incoming, lightSample.Direction, hit)
	materialPDF, isDelta := hit.Material.PDF(incoming, lightSample.Direction, hit.Normal)
	if isDelta {
		return core.Vec3{}
	}

	misWeight := core.PowerHeuristic(1, lightSample.PDF, 1, materialPDF)
	return brdf.MultiplyVec(lightSample.Emission).Multiply(cosine * misWeight / lightSample.PDF)
}

// calculateIndirectLighting follows the sampled BSDF direction
func (pt *PathTracingIntegrator) calculateIndirectLighting(s *scene.Scene, scatter material.ScatterResult, hit *material.SurfaceInteraction, sampler core.Sampler, prev pathVertex) core.Vec3 {
	scatterDirection := scatter.Scattered.Direction.Normalize()
	cosine := scatterDirection.Dot(hit.Normal)
	if cosine <= 0 {
		return core.Vec3{}
	}

	weight := scatter.Attenuation.Multiply(cosine / scatter.PDF)
	next := pathVertex{
		bounce:     prev.bounce + 1,
		throughput: prev.throughput.MultiplyVec(weight),
		bsdfPDF:    scatter.PDF,
		point:      hit.Point,
		normal:     hit.Normal,
	}

	return weight.MultiplyVec(pt.trace(scatter.Scattered, s, sampler, next))
}

// applyRussianRoulette determines if a ray should be terminated and returns the compensation factor
func (pt *PathTracingIntegrator) applyRussianRoulette(prev pathVertex, sampler core.Sampler) (bool, float64) {
	if prev.bounce < pt.config.RussianRouletteMinBounces {
		return false, 1.0
	}

	// survivalProb between 0.5 and 0.95 limits the compensation factor to [1.05, 2]
	survivalProb := math.Min(0.95, math.Max(0.5, prev.throughput.Luminance()))
	if sampler.Get1D() > survivalProb {
		return true, 0.0
	}
	return false, 1.0 / survivalProb
}
