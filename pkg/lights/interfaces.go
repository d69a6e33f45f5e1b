package lights

import "github.com/df07/raytrace-testing/pkg/core"

// LightType separates lights with a position in the scene from lights at infinity
type LightType string

const (
	LightTypeArea     LightType = "area"
	LightTypeInfinite LightType = "infinite"
)

// Light is a source sampled for direct lighting and hit by escaping or emitter-bound rays
type Light interface {
	Type() LightType

	// Sample picks a point on the light as seen from point. The returned direction
	// points from the shading point toward the light.
	Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) LightSample

	// PDF is the solid angle density Sample would produce for direction
	PDF(point core.Vec3, normal core.Vec3, direction core.Vec3) float64

	// Emit is the radiance arriving along ray from the light
	Emit(ray core.Ray) core.Vec3
}

// CameraVisibility is implemented by infinite lights that can be hidden from camera rays
// while still lighting the scene
type CameraVisibility interface {
	IsVisible() bool
}

// LightSample is one sampled point on a light
type LightSample struct {
	Point     core.Vec3
	Normal    core.Vec3
	Direction core.Vec3 // Unit vector from the shading point to Point
	Distance  float64   // Infinite for lights at infinity
	Emission  core.Vec3
	PDF       float64 // Solid angle density, times the selection probability once chosen by a sampler
}
