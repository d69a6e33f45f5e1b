package transferfunction

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/raytrace-testing/pkg/core"
)

var (
	// ErrInvalidRange is returned when a value range has lo > hi or a non-finite bound
	ErrInvalidRange = errors.New("invalid value range")
	// ErrNoStops is returned when a transfer function has no color or opacity stops
	ErrNoStops = errors.New("transfer function needs at least one color and one opacity stop")
)

// TransferFunction maps scalar values within a value range to color and opacity.
// Color and opacity stops are spread evenly over the range and linearly interpolated.
type TransferFunction struct {
	valueRange core.Vec2
	colors     []core.Vec3
	opacities  []float64
}

// NewPiecewiseLinear creates a transfer function over valueRange from color and opacity stops
func NewPiecewiseLinear(valueRange core.Vec2, colors []core.Vec3, opacities []float64) (*TransferFunction, error) {
	if math.IsNaN(valueRange.X) || math.IsNaN(valueRange.Y) ||
		math.IsInf(valueRange.X, 0) || math.IsInf(valueRange.Y, 0) || valueRange.X > valueRange.Y {
		return nil, fmt.Errorf("%w: [%g, %g]", ErrInvalidRange, valueRange.X, valueRange.Y)
	}
	if len(colors) == 0 || len(opacities) == 0 {
		return nil, ErrNoStops
	}

	return &TransferFunction{
		valueRange: valueRange,
		colors:     append([]core.Vec3(nil), colors...),
		opacities:  append([]float64(nil), opacities...),
	}, nil
}

// ValueRange returns the [lo, hi] domain of the transfer function
func (tf *TransferFunction) ValueRange() core.Vec2 {
	return tf.valueRange
}

// Colors returns a copy of the color stops
func (tf *TransferFunction) Colors() []core.Vec3 {
	return append([]core.Vec3(nil), tf.colors...)
}

// Opacities returns a copy of the opacity stops
func (tf *TransferFunction) Opacities() []float64 {
	return append([]float64(nil), tf.opacities...)
}

// Evaluate maps a scalar value to color and opacity.
// Values outside the range clamp to the end stops; a degenerate range maps everything to the first stop.
func (tf *TransferFunction) Evaluate(value float64) (core.Vec3, float64) {
	t := tf.normalize(value)
	return lerpColors(tf.colors, t), lerpScalars(tf.opacities, t)
}

// normalize maps value into [0, 1] over the value range
func (tf *TransferFunction) normalize(value float64) float64 {
	width := tf.valueRange.Y - tf.valueRange.X
	if width <= 0 || math.IsNaN(value) {
		return 0
	}
	return math.Max(0, math.Min(1, (value-tf.valueRange.X)/width))
}

func segment(count int, t float64) (int, float64) {
	if count == 1 {
		return 0, 0
	}
	pos := t * float64(count-1)
	i := min(count-2, int(pos))
	return i, pos - float64(i)
}

func lerpColors(stops []core.Vec3, t float64) core.Vec3 {
	i, frac := segment(len(stops), t)
	if len(stops) == 1 {
		return stops[0]
	}
	return stops[i].Lerp(stops[i+1], frac)
}

func lerpScalars(stops []float64, t float64) float64 {
	i, frac := segment(len(stops), t)
	if len(stops) == 1 {
		return stops[0]
	}
	return stops[i]*(1-frac) + stops[i+1]*frac
}
