package lights

import (
	"math"

	"github.com/df07/raytrace-testing/pkg/core"
	"github.com/df07/raytrace-testing/pkg/geometry"
	"github.com/df07/raytrace-testing/pkg/material"
)

// QuadLight represents a rectangular area light
type QuadLight struct {
	*geometry.Quad         // Embed quad for hit testing
	Area           float64 // Cached area for PDF calculations
}

// NewQuadLight creates a new quad light
func NewQuadLight(corner, u, v core.Vec3, material material.Material) *QuadLight {
	quad := geometry.NewQuad(corner, u, v, material)
	return &QuadLight{
		Quad: quad,
		Area: quad.Area(),
	}
}

func (ql *QuadLight) Type() LightType {
	return LightTypeArea
}

// Sample samples a point uniformly on the quad and converts the density to solid angle
func (ql *QuadLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) LightSample {
	samplePoint := ql.Corner.Add(ql.U.Multiply(sample.X)).Add(ql.V.Multiply(sample.Y))

	toLight := samplePoint.Subtract(point)
	distance := toLight.Length()
	direction := toLight.Multiply(1.0 / distance)

	result := LightSample{
		Point:     samplePoint,
		Normal:    ql.Normal,
		Direction: direction,
		Distance:  distance,
	}

	// PDF_solid_angle = PDF_area * distance² / |cos(θ)|
	cosTheta := math.Abs(ql.Normal.Dot(direction))
	if cosTheta < 1e-8 {
		// Light is edge-on, no contribution
		return result
	}
	result.PDF = distance * distance / (cosTheta * ql.Area)

	// Only the front face emits
	if direction.Dot(ql.Normal) < 0 {
		result.Emission = ql.Emit(core.NewRay(point, direction))
	}
	return result
}

// PDF returns the solid angle density of hitting the quad along direction
func (ql *QuadLight) PDF(point, normal, direction core.Vec3) float64 {
	hit, ok := ql.Quad.Hit(core.NewRay(point, direction), 0.001, math.Inf(1))
	if !ok {
		return 0.0
	}

	cosTheta := math.Abs(ql.Normal.Dot(direction.Normalize()))
	if cosTheta < 1e-8 {
		return 0.0
	}

	distance := hit.T * direction.Length()
	return distance * distance / (cosTheta * ql.Area)
}

// Emit returns the emission of the quad's material
func (ql *QuadLight) Emit(ray core.Ray) core.Vec3 {
	if emitter, ok := ql.Material.(material.Emitter); ok {
		return emitter.Emit(ray)
	}
	return core.Vec3{}
}
