package lights

import (
	"math"

	"github.com/df07/raytrace-testing/pkg/core"
)

// UniformInfiniteLight is an ambient light with the same radiance from every direction.
// A hidden ambient light still lights surfaces but camera rays that escape see black.
type UniformInfiniteLight struct {
	Emission core.Vec3
	Visible  bool

	sceneRadius float64
}

// NewUniformInfiniteLight creates an ambient light visible to the camera
func NewUniformInfiniteLight(emission core.Vec3) *UniformInfiniteLight {
	return &UniformInfiniteLight{Emission: emission, Visible: true}
}

func (l *UniformInfiniteLight) Type() LightType {
	return LightTypeInfinite
}

// IsVisible implements CameraVisibility
func (l *UniformInfiniteLight) IsVisible() bool {
	return l.Visible
}

// Sample draws a cosine-distributed direction about normal. The sample point sits
// outside the scene bounds so shadow rays cross the whole scene.
func (l *UniformInfiniteLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) LightSample {
	direction := core.SampleCosineHemisphere(normal, sample)
	far := 2 * math.Max(1, l.sceneRadius)

	return LightSample{
		Point:     point.Add(direction.Multiply(far)),
		Normal:    direction.Negate(),
		Direction: direction,
		Distance:  math.Inf(1),
		Emission:  l.Emission,
		PDF:       direction.Dot(normal) / math.Pi,
	}
}

func (l *UniformInfiniteLight) PDF(point, normal, direction core.Vec3) float64 {
	return math.Max(0, direction.Dot(normal)) / math.Pi
}

func (l *UniformInfiniteLight) Emit(ray core.Ray) core.Vec3 {
	return l.Emission
}

// Preprocess records the scene radius used to place sample points
func (l *UniformInfiniteLight) Preprocess(worldCenter core.Vec3, worldRadius float64) error {
	l.sceneRadius = worldRadius
	return nil
}
