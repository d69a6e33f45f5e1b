package material

import (
	"fmt"
	"math"

	"github.com/df07/raytrace-testing/pkg/core"
)

// TextureTransform is a 2D affine transform applied to texture coordinates:
// u' = A*u + B*v + C, v' = D*u + E*v + F
type TextureTransform struct {
	A, B, C float64
	D, E, F float64
}

// IdentityTransform leaves texture coordinates unchanged
func IdentityTransform() TextureTransform {
	return TextureTransform{A: 1, E: 1}
}

// TranslateTransform offsets texture coordinates
func TranslateTransform(du, dv float64) TextureTransform {
	return TextureTransform{A: 1, C: du, E: 1, F: dv}
}

// ScaleTransform scales texture coordinates about the texture center
func ScaleTransform(su, sv float64) TextureTransform {
	return TranslateTransform(0.5, 0.5).
		Then(TextureTransform{A: su, E: sv}).
		Then(TranslateTransform(-0.5, -0.5))
}

// RotateTransform rotates texture coordinates about the texture center
func RotateTransform(radians float64) TextureTransform {
	c, s := math.Cos(radians), math.Sin(radians)
	return TranslateTransform(0.5, 0.5).
		Then(TextureTransform{A: c, B: -s, D: s, E: c}).
		Then(TranslateTransform(-0.5, -0.5))
}

// Then returns the transform that applies next first and t second (t ∘ next)
func (t TextureTransform) Then(next TextureTransform) TextureTransform {
	return TextureTransform{
		A: t.A*next.A + t.B*next.D,
		B: t.A*next.B + t.B*next.E,
		C: t.A*next.C + t.B*next.F + t.C,
		D: t.D*next.A + t.E*next.D,
		E: t.D*next.B + t.E*next.E,
		F: t.D*next.C + t.E*next.F + t.F,
	}
}

// Apply transforms a texture coordinate
func (t TextureTransform) Apply(uv core.Vec2) core.Vec2 {
	// Zero value behaves as identity
	if t == (TextureTransform{}) {
		return uv
	}
	return core.NewVec2(
		t.A*uv.X+t.B*uv.Y+t.C,
		t.D*uv.X+t.E*uv.Y+t.F,
	)
}

// NamedTransform returns one of the preset transforms used by the texture transform test scenes
func NamedTransform(name string) (TextureTransform, error) {
	switch name {
	case "identity":
		return IdentityTransform(), nil
	case "translate":
		return TranslateTransform(0.25, 0.125), nil
	case "rotate":
		return RotateTransform(math.Pi / 6), nil
	case "scale":
		return ScaleTransform(2.5, 0.5), nil
	default:
		return TextureTransform{}, fmt.Errorf("unknown texture transform %q", name)
	}
}
