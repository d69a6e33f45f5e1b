package material

import (
	"github.com/df07/raytrace-testing/pkg/core"
	"github.com/df07/raytrace-testing/pkg/transferfunction"
)

// ScalarField produces a scalar value at a surface point
type ScalarField interface {
	Value(uv core.Vec2, point core.Vec3) float64
}

// UVField returns the U texture coordinate
type UVField struct{}

// Value implements ScalarField
func (UVField) Value(uv core.Vec2, point core.Vec3) float64 {
	return uv.X
}

// HeightField returns the point's projection onto an axis
type HeightField struct {
	Axis core.Vec3
}

// Value implements ScalarField
func (h HeightField) Value(uv core.Vec2, point core.Vec3) float64 {
	return point.Dot(h.Axis)
}

// RadialField returns the distance from a center point
type RadialField struct {
	Center core.Vec3
}

// Value implements ScalarField
func (r RadialField) Value(uv core.Vec2, point core.Vec3) float64 {
	return point.Subtract(r.Center).Length()
}

// TransferFunctionTexture colors a surface by mapping a scalar field through a transfer function.
// The color is premultiplied by opacity and composited over Background.
type TransferFunctionTexture struct {
	Field            ScalarField
	TransferFunction *transferfunction.TransferFunction
	Background       core.Vec3
}

// NewTransferFunctionTexture creates a transfer function texture over a black background
func NewTransferFunctionTexture(field ScalarField, tf *transferfunction.TransferFunction) *TransferFunctionTexture {
	return &TransferFunctionTexture{Field: field, TransferFunction: tf}
}

// Evaluate implements ColorSource
func (t *TransferFunctionTexture) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	color, opacity := t.TransferFunction.Evaluate(t.Field.Value(uv, point))
	opacity = max(0, min(1, opacity))
	return color.Multiply(opacity).Add(t.Background.Multiply(1 - opacity))
}
