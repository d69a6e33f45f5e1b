package geometry

import (
	"fmt"
	"math"

	"github.com/df07/raytrace-testing/pkg/core"
)

// CameraType selects the projection used to generate primary rays
type CameraType string

const (
	CameraPerspective  CameraType = "perspective"
	CameraOrthographic CameraType = "orthographic"
	CameraPanoramic    CameraType = "panoramic"
)

// ParseCameraType parses a camera type name; empty selects perspective
func ParseCameraType(name string) (CameraType, error) {
	switch CameraType(name) {
	case "", CameraPerspective:
		return CameraPerspective, nil
	case CameraOrthographic, CameraPanoramic:
		return CameraType(name), nil
	default:
		return "", fmt.Errorf("unknown camera type %q", name)
	}
}

// StereoMode selects which eyes are rendered and how they are packed into the image
type StereoMode string

const (
	StereoNone       StereoMode = "none"
	StereoLeft       StereoMode = "left"
	StereoRight      StereoMode = "right"
	StereoSideBySide StereoMode = "side-by-side"
	StereoTopBottom  StereoMode = "top-bottom"
)

// Average human interpupillary distance in meters
const defaultEyeSpacing = 0.0635

// ParseStereoMode parses a stereo mode name; empty selects none
func ParseStereoMode(name string) (StereoMode, error) {
	switch StereoMode(name) {
	case "", StereoNone:
		return StereoNone, nil
	case StereoLeft, StereoRight, StereoSideBySide, StereoTopBottom:
		return StereoMode(name), nil
	default:
		return "", fmt.Errorf("unknown stereo mode %q", name)
	}
}

// CameraConfig contains all parameters needed to create a camera
type CameraConfig struct {
	Center        core.Vec3  // Camera position
	LookAt        core.Vec3  // Point the camera is looking at
	Up            core.Vec3  // Up direction
	Width         int        // Image width in pixels
	AspectRatio   float64    // Width / height
	VFov          float64    // Vertical field of view in degrees (perspective)
	Aperture      float64    // Lens diameter for depth of field, 0 disables it (perspective)
	FocusDistance float64    // Distance to the focus plane, 0 focuses on LookAt
	Type          CameraType // Projection, perspective when empty
	Height        float64    // Viewport height in world units (orthographic)

	Stereo            StereoMode // Stereo packing, none when empty
	InterpupillaryGap float64    // Eye separation in world units, 0 uses a human default
}

// DefaultCameraConfig returns a perspective camera looking down -Z
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 16.0 / 9.0,
		VFov:        45.0,
		Type:        CameraPerspective,
		Height:      1.0,
		Stereo:      StereoNone,
	}
}

// MergeCameraConfig overlays the non-zero fields of override onto base
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if !override.Center.IsZero() {
		result.Center = override.Center
	}
	if !override.LookAt.IsZero() {
		result.LookAt = override.LookAt
	}
	if !override.Up.IsZero() {
		result.Up = override.Up
	}
	if override.Width > 0 {
		result.Width = override.Width
	}
	if override.AspectRatio > 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.VFov > 0 {
		result.VFov = override.VFov
	}
	if override.Aperture > 0 {
		result.Aperture = override.Aperture
	}
	if override.FocusDistance > 0 {
		result.FocusDistance = override.FocusDistance
	}
	if override.Type != "" {
		result.Type = override.Type
	}
	if override.Height > 0 {
		result.Height = override.Height
	}
	if override.Stereo != "" {
		result.Stereo = override.Stereo
	}
	if override.InterpupillaryGap > 0 {
		result.InterpupillaryGap = override.InterpupillaryGap
	}
	return result
}

// Camera generates primary rays for perspective, orthographic and panoramic projections
type Camera struct {
	config CameraConfig

	origin  core.Vec3
	forward core.Vec3 // w points backward; forward = -w
	u, v, w core.Vec3 // Camera frame: right, up, back

	focusDistance float64
	lensRadius    float64
	eyeSpacing    float64

	// Per-eye viewport extents at the focus plane (perspective) or in world units (orthographic)
	halfWidth  float64
	halfHeight float64
}

// NewCamera creates a camera from the configuration
func NewCamera(config CameraConfig) *Camera {
	if config.AspectRatio <= 0 {
		config.AspectRatio = 1
	}
	if config.Type == "" {
		config.Type = CameraPerspective
	}
	if config.Stereo == "" {
		config.Stereo = StereoNone
	}
	if config.Up.IsZero() {
		config.Up = core.NewVec3(0, 1, 0)
	}

	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	focusDistance := config.FocusDistance
	if focusDistance <= 0 {
		focusDistance = config.Center.Subtract(config.LookAt).Length()
	}

	eyeSpacing := config.InterpupillaryGap
	if eyeSpacing <= 0 {
		eyeSpacing = defaultEyeSpacing
	}

	// Each eye of a packed stereo image sees half the frame
	aspect := config.AspectRatio
	switch config.Stereo {
	case StereoSideBySide:
		aspect /= 2
	case StereoTopBottom:
		aspect *= 2
	}

	var halfHeight float64
	switch config.Type {
	case CameraOrthographic:
		height := config.Height
		if height <= 0 {
			height = 1
		}
		halfHeight = height / 2
	default:
		halfHeight = math.Tan(config.VFov*math.Pi/360.0) * focusDistance
	}

	return &Camera{
		config:        config,
		origin:        config.Center,
		forward:       w.Negate(),
		u:             u,
		v:             v,
		w:             w,
		focusDistance: focusDistance,
		lensRadius:    config.Aperture / 2,
		eyeSpacing:    eyeSpacing,
		halfWidth:     halfHeight * aspect,
		halfHeight:    halfHeight,
	}
}

// Config returns the configuration the camera was built from, with defaults applied
func (c *Camera) Config() CameraConfig {
	return c.config
}

// ImageHeight returns the image height in pixels implied by width and aspect ratio
func (c *Camera) ImageHeight() int {
	return max(1, int(float64(c.config.Width)/c.config.AspectRatio))
}

// GetCameraForward returns the viewing direction
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.forward
}

// GetRay generates a ray for normalized image coordinates (s, t), where (0, 0) is the
// bottom-left corner of the full image. lensSample drives depth of field.
func (c *Camera) GetRay(s, t float64, lensSample core.Vec2) core.Ray {
	s, t, eye := c.eyeCoordinates(s, t)

	switch c.config.Type {
	case CameraOrthographic:
		return c.orthographicRay(s, t, eye)
	case CameraPanoramic:
		return c.panoramicRay(s, t, eye)
	default:
		return c.perspectiveRay(s, t, eye, lensSample)
	}
}

// eyeCoordinates maps full-image coordinates to per-eye coordinates and returns the eye offset:
// -1 for the left eye, +1 for the right eye and 0 for a mono camera
func (c *Camera) eyeCoordinates(s, t float64) (float64, float64, float64) {
	switch c.config.Stereo {
	case StereoLeft:
		return s, t, -1
	case StereoRight:
		return s, t, 1
	case StereoSideBySide:
		if s < 0.5 {
			return s * 2, t, -1
		}
		return (s - 0.5) * 2, t, 1
	case StereoTopBottom:
		// Left eye on top
		if t >= 0.5 {
			return s, (t - 0.5) * 2, -1
		}
		return s, t * 2, 1
	default:
		return s, t, 0
	}
}

func (c *Camera) perspectiveRay(s, t, eye float64, lensSample core.Vec2) core.Ray {
	eyeOffset := c.u.Multiply(eye * c.eyeSpacing / 2)
	origin := c.origin.Add(eyeOffset)

	// Off-axis stereo: both eyes converge on the same focus plane window
	target := c.origin.
		Add(c.forward.Multiply(c.focusDistance)).
		Add(c.u.Multiply((2*s - 1) * c.halfWidth)).
		Add(c.v.Multiply((2*t - 1) * c.halfHeight))

	if c.lensRadius > 0 {
		disk := core.SamplePointInUnitDisk(lensSample).Multiply(c.lensRadius)
		origin = origin.Add(c.u.Multiply(disk.X)).Add(c.v.Multiply(disk.Y))
	}

	return core.NewRay(origin, target.Subtract(origin).Normalize())
}

func (c *Camera) orthographicRay(s, t, eye float64) core.Ray {
	origin := c.origin.
		Add(c.u.Multiply((2*s-1)*c.halfWidth + eye*c.eyeSpacing/2)).
		Add(c.v.Multiply((2*t - 1) * c.halfHeight))
	return core.NewRay(origin, c.forward)
}

// panoramicRay is a latitude/longitude projection covering the full sphere.
// Stereo eyes are offset perpendicular to each ray in the horizontal plane.
func (c *Camera) panoramicRay(s, t, eye float64) core.Ray {
	phi := (s - 0.5) * 2 * math.Pi
	theta := (t - 0.5) * math.Pi

	local := core.NewVec3(
		math.Sin(phi)*math.Cos(theta),
		math.Sin(theta),
		-math.Cos(phi)*math.Cos(theta),
	)
	direction := c.toWorld(local).Normalize()

	origin := c.origin
	if eye != 0 {
		right := c.toWorld(core.NewVec3(math.Cos(phi), 0, math.Sin(phi)))
		origin = origin.Add(right.Multiply(eye * c.eyeSpacing / 2))
	}
	return core.NewRay(origin, direction)
}

// toWorld maps a camera-space direction (x right, y up, -z forward) to world space
func (c *Camera) toWorld(local core.Vec3) core.Vec3 {
	return c.u.Multiply(local.X).Add(c.v.Multiply(local.Y)).Add(c.w.Multiply(local.Z))
}
