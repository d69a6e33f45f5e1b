package scene

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/df07/raytrace-testing/pkg/core"
	"github.com/df07/raytrace-testing/pkg/geometry"
	"github.com/df07/raytrace-testing/pkg/lights"
	"github.com/df07/raytrace-testing/pkg/material"
)

var (
	// ErrUnknownParameter is returned when a fixture parameter names no known option
	ErrUnknownParameter = errors.New("unknown fixture parameter")
	// ErrInvalidBase is returned when the shared fixture settings cannot produce an image
	ErrInvalidBase = errors.New("invalid fixture settings")
)

// Base holds the settings shared by every appearance fixture
type Base struct {
	Width           int
	Height          int
	Renderer        string // Integrator name, see integrator.Names
	SamplesPerPixel int // Zero keeps the sampling default
	MaxDepth        int // Zero keeps the sampling default
}

// DefaultBase returns the settings the appearance fixtures are rendered with by default
func DefaultBase() Base {
	return Base{
		Width:           256,
		Height:          256,
		Renderer:        "scivis",
		SamplesPerPixel: 16,
		MaxDepth:        8,
	}
}

// Fixture builds one parameterized test scene
type Fixture interface {
	// Name identifies the fixture and its parameters, suitable as a golden image file name
	Name() string
	// SetUp builds and preprocesses the scene
	SetUp() (*Scene, error)
}

// newScene creates an empty scene sized and sampled for b, viewed through camera
func (b Base) newScene(renderer string, camera geometry.CameraConfig) (*Scene, error) {
	if b.Width <= 0 || b.Height <= 0 {
		return nil, fmt.Errorf("%w: image size %dx%d", ErrInvalidBase, b.Width, b.Height)
	}
	if renderer == "" {
		renderer = b.Renderer
	}
	if renderer == "" {
		return nil, fmt.Errorf("%w: no renderer", ErrInvalidBase)
	}

	config := DefaultSamplingConfig()
	config.Width = b.Width
	config.Height = b.Height
	if b.SamplesPerPixel > 0 {
		config.SamplesPerPixel = b.SamplesPerPixel
	}
	if b.MaxDepth > 0 {
		config.MaxDepth = b.MaxDepth
	}

	camera.Width = b.Width
	camera.AspectRatio = float64(b.Width) / float64(b.Height)
	camera = geometry.MergeCameraConfig(geometry.DefaultCameraConfig(), camera)

	return &Scene{
		Camera:         geometry.NewCamera(camera),
		CameraConfig:   camera,
		SamplingConfig: config,
		Renderer:       renderer,
	}, nil
}

// finish preprocesses a fully populated fixture scene
func finish(s *Scene) (*Scene, error) {
	if err := s.Preprocess(); err != nil {
		return nil, fmt.Errorf("preprocess scene: %w", err)
	}
	return s, nil
}

// fixtureName joins a fixture kind and its parameter values with underscores
func fixtureName(kind string, params ...any) string {
	parts := []string{kind}
	for _, p := range params {
		switch v := p.(type) {
		case float64:
			parts = append(parts, strconv.FormatFloat(v, 'g', -1, 64))
		case bool:
			if v {
				parts = append(parts, "on")
			} else {
				parts = append(parts, "off")
			}
		default:
			s := fmt.Sprint(v)
			if s == "" {
				s = "default"
			}
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "_")
}

func parseFilter(name string) (material.TextureFilter, error) {
	filter, err := material.ParseTextureFilter(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnknownParameter, err)
	}
	return filter, nil
}

// applyMipMapBias builds the mip chain when a bias asks for a coarser level
func applyMipMapBias(texture *material.Texture2D, bias float64) {
	if bias != 0 {
		texture.GenerateMipMaps()
		texture.MipMapBias = bias
	}
}

// frontFacingQuad creates a square of the given size centered at center in the XY plane,
// facing the +Z camera
func frontFacingQuad(center core.Vec3, size float64, mat material.Material) *geometry.Quad {
	corner := center.Subtract(core.NewVec3(size/2, size/2, 0))
	return geometry.NewQuad(corner, core.NewVec3(size, 0, 0), core.NewVec3(0, size, 0), mat)
}

// addStudioLights adds a white environment or, for the alternate set, a key area light over
// a dim hidden fill. The key light is sampled four times as often as the fill.
func addStudioLights(s *Scene, alternate bool) error {
	if !alternate {
		s.AddUniformInfiniteLight(core.NewVec3(1, 1, 1))
		return nil
	}
	// The dim fill lights shadows without showing up as background
	fill := lights.NewUniformInfiniteLight(core.NewVec3(0.2, 0.2, 0.25))
	fill.Visible = false
	s.Lights = append(s.Lights, fill)
	// u × v points down toward the scene
	s.AddQuadLight(core.NewVec3(-1, 3, 1), core.NewVec3(0, 0, -2), core.NewVec3(2, 0, 0), core.NewVec3(6, 6, 5.5))

	sampler, err := lights.NewWeightedLightSampler(s.Lights, []float64{0.2, 0.8})
	if err != nil {
		return fmt.Errorf("studio lights: %w", err)
	}
	s.LightSampler = sampler
	return nil
}

// newSkyMap builds a latitude/longitude environment with a blue sky, a gray ground and a warm sun.
// Row 0 is straight up.
func newSkyMap(width, height int) *material.Texture2D {
	pixels := make([]core.Vec3, width*height)
	zenith, horizon, ground := core.NewVec3(0.15, 0.3, 0.8), core.NewVec3(0.8, 0.85, 0.9), core.NewVec3(0.3, 0.28, 0.25)
	sunX, sunY := width/4, height/4

	for y := 0; y < height; y++ {
		v := (float64(y) + 0.5) / float64(height)
		for x := 0; x < width; x++ {
			var c core.Vec3
			if v < 0.5 {
				c = zenith.Lerp(horizon, v*2)
			} else {
				c = ground
			}
			if abs(x-sunX) <= 1 && abs(y-sunY) <= 1 {
				c = core.NewVec3(40, 36, 30)
			}
			pixels[y*width+x] = c
		}
	}
	return material.NewTexture2D(width, height, pixels)
}

// newEnvironment wraps newSkyMap in an HDRI light with +Y up
func newEnvironment(visible bool) (*lights.HDRILight, error) {
	light := lights.NewHDRILight()
	frame := lights.LightFrame(core.NewVec3(0, 1, 0), core.NewVec3(0, 0, -1))
	if err := light.Set(visible, core.NewVec3(1, 1, 1), frame, newSkyMap(128, 64), nil); err != nil {
		return nil, fmt.Errorf("environment light: %w", err)
	}
	return light, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
