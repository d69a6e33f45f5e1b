package integrator

import (
	"math"

	"github.com/df07/raytrace-testing/pkg/core"
	"github.com/df07/raytrace-testing/pkg/lights"
	"github.com/df07/raytrace-testing/pkg/material"
	"github.com/df07/raytrace-testing/pkg/scene"
)

const rayEpsilon = 0.001

// background sums the emission of every infinite light along an escaped ray.
// Lights hidden from the camera are skipped when cameraRay is set.
func background(ray core.Ray, s *scene.Scene, cameraRay bool) core.Vec3 {
	var total core.Vec3
	for _, light := range s.Lights {
		if light.Type() != lights.LightTypeInfinite {
			continue
		}
		if v, ok := light.(lights.CameraVisibility); ok && cameraRay && !v.IsVisible() {
			continue
		}
		total = total.Add(light.Emit(ray))
	}
	return total
}

// emitted returns the light emitted by the hit surface toward the ray origin
func emitted(ray core.Ray, hit *material.SurfaceInteraction) core.Vec3 {
	if emitter, ok := hit.Material.(material.Emitter); ok && hit.FrontFace {
		return emitter.Emit(ray)
	}
	return core.Vec3{}
}

// surfaceColor estimates the reflectance of a surface for the non-physical renderers
func surfaceColor(ray core.Ray, hit *material.SurfaceInteraction, sampler core.Sampler) core.Vec3 {
	switch m := hit.Material.(type) {
	case *material.Lambertian:
		return m.Albedo.Evaluate(hit.UV, hit.Point)
	case material.Emitter:
		return m.Emit(ray)
	case nil:
		return core.Vec3{}
	}

	scatter, ok := hit.Material.Scatter(ray, *hit, sampler)
	if !ok {
		return core.Vec3{}
	}
	if scatter.IsSpecular() {
		return scatter.Attenuation
	}
	return scatter.Attenuation.Multiply(math.Pi)
}

// occluded reports whether anything blocks the segment from point along direction up to distance
func occluded(s *scene.Scene, point, direction core.Vec3, distance float64) bool {
	_, blocked := s.BVH.Hit(core.NewRay(point, direction), rayEpsilon, distance-rayEpsilon)
	return blocked
}

// ambientOcclusion returns the unoccluded fraction of the hemisphere around the hit normal
func ambientOcclusion(s *scene.Scene, hit *material.SurfaceInteraction, sampler core.Sampler, samples int, distance float64) float64 {
	if samples <= 0 {
		return 1
	}
	open := 0
	for i := 0; i < samples; i++ {
		direction := core.SampleCosineHemisphere(hit.Normal, sampler.Get2D())
		if !occluded(s, hit.Point, direction, distance) {
			open++
		}
	}
	return float64(open) / float64(samples)
}
