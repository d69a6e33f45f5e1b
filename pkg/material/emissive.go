package material

import "github.com/df07/raytrace-testing/pkg/core"

// Emissive is a luminous surface. It emits Color scaled by Intensity and absorbs
// everything that reaches it.
type Emissive struct {
	Color     core.Vec3
	Intensity float64
}

// NewEmissive creates a surface emitting emission at unit intensity
func NewEmissive(emission core.Vec3) *Emissive {
	return &Emissive{Color: emission, Intensity: 1}
}

func (e *Emissive) Scatter(core.Ray, SurfaceInteraction, core.Sampler) (ScatterResult, bool) {
	return ScatterResult{}, false
}

// Emit implements Emitter
func (e *Emissive) Emit(core.Ray) core.Vec3 {
	return e.Color.Multiply(e.Intensity)
}

func (e *Emissive) EvaluateBRDF(_, _ core.Vec3, _ *SurfaceInteraction) core.Vec3 {
	return core.Vec3{}
}

func (e *Emissive) PDF(_, _, _ core.Vec3) (float64, bool) {
	return 0, false
}
