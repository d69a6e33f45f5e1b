package material

import (
	"math"

	"github.com/df07/raytrace-testing/pkg/core"
)

// Mix represents a material that probabilistically chooses between two materials
type Mix struct {
	Material1 Material
	Material2 Material
	Ratio     float64 // 0.0 = all material1, 1.0 = all material2
}

// NewMix creates a new mix material
func NewMix(material1, material2 Material, ratio float64) *Mix {
	return &Mix{
		Material1: material1,
		Material2: material2,
		Ratio:     math.Max(0.0, math.Min(ratio, 1.0)),
	}
}

// Scatter picks one of the two materials by ratio
func (m *Mix) Scatter(rayIn core.Ray, hit SurfaceInteraction, sampler core.Sampler) (ScatterResult, bool) {
	if sampler.Get1D() < m.Ratio {
		return m.Material2.Scatter(rayIn, hit, sampler)
	}
	return m.Material1.Scatter(rayIn, hit, sampler)
}

// EvaluateBRDF blends the BRDFs of both materials
func (m *Mix) EvaluateBRDF(incomingDir, outgoingDir core.Vec3, hit *SurfaceInteraction) core.Vec3 {
	brdf1 := m.Material1.EvaluateBRDF(incomingDir, outgoingDir, hit)
	brdf2 := m.Material2.EvaluateBRDF(incomingDir, outgoingDir, hit)
	return brdf1.Lerp(brdf2, m.Ratio)
}

// PDF blends the densities of both materials; a mix is never treated as delta
func (m *Mix) PDF(incomingDir, outgoingDir, normal core.Vec3) (float64, bool) {
	pdf1, _ := m.Material1.PDF(incomingDir, outgoingDir, normal)
	pdf2, _ := m.Material2.PDF(incomingDir, outgoingDir, normal)
	return pdf1*(1.0-m.Ratio) + pdf2*m.Ratio, false
}
