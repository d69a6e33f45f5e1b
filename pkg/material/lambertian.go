package material

import (
	"math"

	"github.com/df07/raytrace-testing/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo ColorSource // Base color/reflectance (can be solid or textured)
}

// NewLambertian creates a new lambertian material with solid color
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: NewSolidColor(albedo)}
}

// NewTexturedLambertian creates a new lambertian material with texture
func NewTexturedLambertian(albedoTexture ColorSource) *Lambertian {
	return &Lambertian{Albedo: albedoTexture}
}

// Scatter implements the Material interface for lambertian scattering
func (l *Lambertian) Scatter(rayIn core.Ray, hit SurfaceInteraction, sampler core.Sampler) (ScatterResult, bool) {
	scatterDirection := core.SampleCosineHemisphere(hit.Normal, sampler.Get2D())
	scattered := core.NewRay(hit.Point, scatterDirection)

	// cos(θ) / π
	cosTheta := math.Max(0, scatterDirection.Normalize().Dot(hit.Normal))
	pdf := cosTheta / math.Pi

	albedo := l.Albedo.Evaluate(hit.UV, hit.Point)

	return ScatterResult{
		Incoming:    rayIn,
		Scattered:   scattered,
		Attenuation: albedo.Multiply(1.0 / math.Pi),
		PDF:         pdf,
	}, true
}

// EvaluateBRDF returns albedo / π above the surface and zero below it
func (l *Lambertian) EvaluateBRDF(incomingDir, outgoingDir core.Vec3, hit *SurfaceInteraction) core.Vec3 {
	if outgoingDir.Dot(hit.Normal) <= 0 {
		return core.Vec3{}
	}
	return l.Albedo.Evaluate(hit.UV, hit.Point).Multiply(1.0 / math.Pi)
}

// PDF returns the cosine-weighted hemisphere density
func (l *Lambertian) PDF(incomingDir, outgoingDir, normal core.Vec3) (float64, bool) {
	cosTheta := outgoingDir.Dot(normal)
	if cosTheta <= 0 {
		return 0.0, false
	}
	return cosTheta / math.Pi, false
}
