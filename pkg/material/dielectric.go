package material

import (
	"math"

	"github.com/df07/raytrace-testing/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	RefractiveIndex float64   // Index of refraction (e.g., 1.5 for glass)
	Tint            core.Vec3 // Transmission color, white for clear glass
}

// NewDielectric creates a new clear dielectric material
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex, Tint: core.NewVec3(1, 1, 1)}
}

// Scatter reflects or refracts stochastically by Fresnel reflectance
func (d *Dielectric) Scatter(rayIn core.Ray, hit SurfaceInteraction, sampler core.Sampler) (ScatterResult, bool) {
	refractionRatio := d.RefractiveIndex
	if hit.FrontFace {
		refractionRatio = 1.0 / d.RefractiveIndex
	}

	unitDirection := rayIn.Direction.Normalize()
	cosTheta := math.Min(-unitDirection.Dot(hit.Normal), 1.0)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))

	// Total internal reflection
	cannotRefract := refractionRatio*sinTheta > 1.0

	var direction core.Vec3
	attenuation := core.NewVec3(1, 1, 1)
	if cannotRefract || Reflectance(cosTheta, refractionRatio) > sampler.Get1D() {
		direction = reflectVector(unitDirection, hit.Normal)
	} else {
		direction = refractVector(unitDirection, hit.Normal, refractionRatio)
		attenuation = d.Tint
	}

	return ScatterResult{
		Incoming:    rayIn,
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: attenuation,
		PDF:         0,
	}, true
}

// EvaluateBRDF is zero for a delta distribution
func (d *Dielectric) EvaluateBRDF(incomingDir, outgoingDir core.Vec3, hit *SurfaceInteraction) core.Vec3 {
	return core.Vec3{}
}

// PDF reports a delta distribution
func (d *Dielectric) PDF(incomingDir, outgoingDir, normal core.Vec3) (float64, bool) {
	return 0.0, true
}

// refractVector calculates the refraction of a vector using Snell's law
func refractVector(uv, n core.Vec3, etaiOverEtat float64) core.Vec3 {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(etaiOverEtat)
	rOutParallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel)
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
