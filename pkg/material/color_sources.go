package material

import "github.com/df07/raytrace-testing/pkg/core"

// ColorSource supplies a color at a surface point. Image textures read uv; procedural
// and scalar field sources read the world-space point.
type ColorSource interface {
	Evaluate(uv core.Vec2, point core.Vec3) core.Vec3
}

// SolidColor is the same color everywhere
type SolidColor struct {
	Color core.Vec3
}

func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

func (s *SolidColor) Evaluate(core.Vec2, core.Vec3) core.Vec3 {
	return s.Color
}

// PlanarMapping ignores surface texture coordinates and derives UV by projecting the
// hit point onto two axes. Each axis vector spans one unit of UV.
type PlanarMapping struct {
	Source ColorSource
	Origin core.Vec3
	UAxis  core.Vec3
	VAxis  core.Vec3
}

// NewPlanarMapping projects source onto the plane through origin spanned by uAxis and vAxis
func NewPlanarMapping(source ColorSource, origin, uAxis, vAxis core.Vec3) *PlanarMapping {
	return &PlanarMapping{Source: source, Origin: origin, UAxis: uAxis, VAxis: vAxis}
}

func (p *PlanarMapping) Evaluate(_ core.Vec2, point core.Vec3) core.Vec3 {
	rel := point.Subtract(p.Origin)
	uv := core.NewVec2(
		rel.Dot(p.UAxis)/p.UAxis.LengthSquared(),
		rel.Dot(p.VAxis)/p.VAxis.LengthSquared(),
	)
	return p.Source.Evaluate(uv, point)
}
