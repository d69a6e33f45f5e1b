package lights

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/raytrace-testing/pkg/core"
	"github.com/df07/raytrace-testing/pkg/material"
)

// ErrSingularTransform is returned when a light-to-world transform cannot be inverted
var ErrSingularTransform = errors.New("light transform is not invertible")

// HDRILight is an infinite light driven by a latitude/longitude environment map and
// importance sampled through a 2D distribution over the map.
//
// In light space +Z is up, u runs around the Z axis starting at +X and v runs from the
// north pole (v=0, top row of the map) to the south pole.
type HDRILight struct {
	Visible       bool                 // Whether camera rays see the map
	Light2World   mgl64.Mat3           // Light space to world space rotation
	World2Light   mgl64.Mat3           // Inverse of Light2World
	Map           *material.Texture2D  // Environment map in latitude/longitude format
	Distribution  *core.Distribution2D // Importance sampling table over the map
	RcpSize       core.Vec2            // Precomputed 1/map size
	RadianceScale core.Vec3            // Scale applied to emitted RGB radiance
}

// NewHDRILight creates a visible light with identity transforms and no map
func NewHDRILight() *HDRILight {
	return &HDRILight{
		Visible:       true,
		Light2World:   mgl64.Ident3(),
		World2Light:   mgl64.Ident3(),
		RadianceScale: core.NewVec3(1, 1, 1),
	}
}

// Set configures the light. A nil distribution is built from the map.
func (l *HDRILight) Set(visible bool, radianceScale core.Vec3, light2world mgl64.Mat3, envMap *material.Texture2D, distribution *core.Distribution2D) error {
	if math.Abs(light2world.Det()) < 1e-12 {
		return fmt.Errorf("%w: det=%g", ErrSingularTransform, light2world.Det())
	}

	l.Visible = visible
	l.RadianceScale = radianceScale
	l.Light2World = light2world
	if isOrthonormal(light2world) {
		l.World2Light = light2world.Transpose()
	} else {
		l.World2Light = light2world.Inv()
	}
	l.Map = envMap
	l.Distribution = distribution
	l.RcpSize = core.Vec2{}

	if envMap != nil && envMap.Width > 0 && envMap.Height > 0 {
		l.RcpSize = core.NewVec2(1/float64(envMap.Width), 1/float64(envMap.Height))
		if l.Distribution == nil {
			l.Distribution = CreateDistribution(envMap)
		}
	}
	return nil
}

// isOrthonormal reports whether m·mᵀ is the identity within rounding
func isOrthonormal(m mgl64.Mat3) bool {
	p := m.Mul3(m.Transpose())
	ident := mgl64.Ident3()
	for i := range p {
		if math.Abs(p[i]-ident[i]) > 1e-9 {
			return false
		}
	}
	return true
}

// LightFrame builds a light-to-world rotation that maps light +Z to up and the map center
// (u=0.5) toward direction
func LightFrame(up, direction core.Vec3) mgl64.Mat3 {
	z := up.Normalize()
	// u=0.5 lies along light -X
	x := direction.Subtract(z.Multiply(direction.Dot(z))).Normalize().Negate()
	y := z.Cross(x)
	return mgl64.Mat3FromCols(toMgl(x), toMgl(y), toMgl(z))
}

// CreateDistribution builds the importance sampling table for a latitude/longitude map.
// Each texel is weighted by its luminance and by sin(theta) to account for the
// area distortion towards the poles.
func CreateDistribution(envMap *material.Texture2D) *core.Distribution2D {
	width, height := envMap.Width, envMap.Height
	function := make([]float64, width*height)
	for y := 0; y < height; y++ {
		sinTheta := math.Sin(math.Pi * (float64(y) + 0.5) / float64(height))
		for x := 0; x < width; x++ {
			function[y*width+x] = envMap.Pixels[y*width+x].Luminance() * sinTheta
		}
	}
	return core.NewDistribution2D(function, width, height)
}

func (l *HDRILight) Type() LightType {
	return LightTypeInfinite
}

// IsVisible implements CameraVisibility
func (l *HDRILight) IsVisible() bool {
	return l.Visible
}

// Sample importance samples a direction from the environment map
func (l *HDRILight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) LightSample {
	if l.Map == nil || l.Distribution == nil {
		return LightSample{}
	}

	uv, mapPDF := l.Distribution.SampleContinuous(sample)
	theta := uv.Y * math.Pi
	phi := uv.X * 2 * math.Pi
	sinTheta := math.Sin(theta)
	if mapPDF == 0 || sinTheta == 0 {
		return LightSample{}
	}

	local := core.NewVec3(math.Cos(phi)*sinTheta, math.Sin(phi)*sinTheta, math.Cos(theta))
	direction := fromMgl(l.Light2World.Mul3x1(toMgl(local))).Normalize()

	return LightSample{
		Point:     point.Add(direction.Multiply(1e10)),
		Normal:    direction.Negate(),
		Direction: direction,
		Distance:  math.Inf(1),
		Emission:  l.radiance(uv),
		PDF:       mapPDF / (2 * math.Pi * math.Pi * sinTheta),
	}
}

// PDF returns the solid angle density of sampling direction
func (l *HDRILight) PDF(point, normal, direction core.Vec3) float64 {
	if l.Map == nil || l.Distribution == nil {
		return 0
	}
	uv, sinTheta := l.directionToUV(direction)
	if sinTheta == 0 {
		return 0
	}
	return l.Distribution.PDF(uv) / (2 * math.Pi * math.Pi * sinTheta)
}

// Emit returns the environment radiance along the ray direction
func (l *HDRILight) Emit(ray core.Ray) core.Vec3 {
	if l.Map == nil {
		return core.Vec3{}
	}
	uv, _ := l.directionToUV(ray.Direction)
	return l.radiance(uv)
}

// directionToUV maps a world direction to map coordinates and returns sin(theta)
func (l *HDRILight) directionToUV(direction core.Vec3) (core.Vec2, float64) {
	local := fromMgl(l.World2Light.Mul3x1(toMgl(direction))).Normalize()
	cosTheta := math.Max(-1, math.Min(1, local.Z))
	phi := math.Atan2(local.Y, local.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	u := phi / (2 * math.Pi)
	v := math.Acos(cosTheta) / math.Pi
	return core.NewVec2(u, v), math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
}

// radiance looks up the map at distribution coordinates. The map's V axis points up,
// so v is flipped to reach the top row at the north pole.
func (l *HDRILight) radiance(uv core.Vec2) core.Vec3 {
	texel := l.Map.Evaluate(core.NewVec2(uv.X, 1-uv.Y), core.Vec3{})
	return texel.MultiplyVec(l.RadianceScale)
}

func toMgl(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}
