package material

import (
	"github.com/df07/raytrace-testing/pkg/core"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	Albedo   core.Vec3 // Metal color
	Fuzzness float64   // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material, clamping fuzzness to [0, 1]
func NewMetal(albedo core.Vec3, fuzzness float64) *Metal {
	return &Metal{Albedo: albedo, Fuzzness: max(0.0, min(1.0, fuzzness))}
}

// Scatter reflects the incoming ray, perturbed by fuzzness
func (m *Metal) Scatter(rayIn core.Ray, hit SurfaceInteraction, sampler core.Sampler) (ScatterResult, bool) {
	reflected := reflectVector(rayIn.Direction.Normalize(), hit.Normal)

	if m.Fuzzness > 0 {
		offset := core.SampleOnUnitSphere(sampler.Get2D()).Multiply(m.Fuzzness * sampler.Get1D())
		reflected = reflected.Add(offset)
	}

	scattered := core.NewRay(hit.Point, reflected)

	// Rays perturbed below the surface are absorbed
	return ScatterResult{
		Incoming:    rayIn,
		Scattered:   scattered,
		Attenuation: m.Albedo,
		PDF:         0,
	}, scattered.Direction.Dot(hit.Normal) > 0
}

// EvaluateBRDF is zero for a delta distribution
func (m *Metal) EvaluateBRDF(incomingDir, outgoingDir core.Vec3, hit *SurfaceInteraction) core.Vec3 {
	return core.Vec3{}
}

// PDF reports a delta distribution
func (m *Metal) PDF(incomingDir, outgoingDir, normal core.Vec3) (float64, bool) {
	return 0.0, true
}

// reflectVector calculates the reflection of v off a surface with normal n
func reflectVector(v, n core.Vec3) core.Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}
