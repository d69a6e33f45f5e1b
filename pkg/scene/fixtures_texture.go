package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/raytrace-testing/pkg/core"
	"github.com/df07/raytrace-testing/pkg/geometry"
	"github.com/df07/raytrace-testing/pkg/loaders"
	"github.com/df07/raytrace-testing/pkg/material"
)

// frontCamera looks down -Z at the origin from z=4
func frontCamera() geometry.CameraConfig {
	return geometry.CameraConfig{
		Center: core.NewVec3(0, 0, 4),
		LookAt: core.NewVec3(0, 0, 0),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   40,
	}
}

// Texture2D shows one quad per texture format, filtered and biased alike
type Texture2D struct {
	Base
	Filter       string
	MipMapBias   float64
	LightSet     bool // Use the area light set instead of the white environment
	UseTexcoords bool // Sample with surface UVs; otherwise project the texture in world space
}

func (f Texture2D) Name() string {
	return fixtureName("Texture2D", f.Filter, f.MipMapBias, f.LightSet, f.UseTexcoords)
}

func (f Texture2D) SetUp() (*Scene, error) {
	filter, err := parseFilter(f.Filter)
	if err != nil {
		return nil, err
	}
	s, err := f.newScene("", frontCamera())
	if err != nil {
		return nil, err
	}

	const cols, size, gap = 3, 0.9, 1.0
	source := material.NewUVDebugTexture(16, 16)
	for i, format := range material.TextureFormats() {
		pixels, err := format.Encode(source.Pixels)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", format, err)
		}
		texture := material.NewTexture2D(source.Width, source.Height, pixels)
		texture.Filter = filter
		applyMipMapBias(texture, f.MipMapBias)

		center := core.NewVec3((float64(i%cols)-1)*gap, (0.5-float64(i/cols))*gap, 0)
		var albedo material.ColorSource = texture
		if !f.UseTexcoords {
			corner := center.Subtract(core.NewVec3(size/2, size/2, 0))
			albedo = material.NewPlanarMapping(texture, corner, core.NewVec3(size, 0, 0), core.NewVec3(0, size, 0))
		}
		s.Shapes = append(s.Shapes, frontFacingQuad(center, size, material.NewTexturedLambertian(albedo)))
	}

	if err := addStudioLights(s, f.LightSet); err != nil {
		return nil, err
	}
	return finish(s)
}

// Texture2DTransform shows a checkerboard, or an sRGB image file, through one of the
// named texture transforms
type Texture2DTransform struct {
	Base
	Transform string // "identity", "translate", "rotate" or "scale"
	Image     string // Optional image path shown instead of the checkerboard
}

func (f Texture2DTransform) Name() string {
	if f.Image == "" {
		return fixtureName("Texture2DTransform", f.Transform)
	}
	stem := strings.TrimSuffix(filepath.Base(f.Image), filepath.Ext(f.Image))
	return fixtureName("Texture2DTransform", f.Transform, stem)
}

func (f Texture2DTransform) SetUp() (*Scene, error) {
	transform, err := material.NamedTransform(f.Transform)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownParameter, err)
	}
	s, err := f.newScene("", frontCamera())
	if err != nil {
		return nil, err
	}

	texture := material.NewCheckerboardTexture(64, 64, 8, core.NewVec3(0.9, 0.9, 0.9), core.NewVec3(0.8, 0.1, 0.1))
	if f.Image != "" {
		if texture, err = loaders.LoadTexture(f.Image, true); err != nil {
			return nil, fmt.Errorf("texture image: %w", err)
		}
	}
	texture.Transform = transform
	s.Shapes = append(s.Shapes, frontFacingQuad(core.Vec3{}, 2.5, material.NewTexturedLambertian(texture)))

	if err := addStudioLights(s, false); err != nil {
		return nil, err
	}
	return finish(s)
}

// Texture2DWrapMode shows each wrap mode on a quad whose UVs run from -1 to 2
type Texture2DWrapMode struct {
	Base
	MipMapBias float64
	Filter     string
}

func (f Texture2DWrapMode) Name() string {
	return fixtureName("Texture2DWrapMode", f.MipMapBias, f.Filter)
}

func (f Texture2DWrapMode) SetUp() (*Scene, error) {
	filter, err := parseFilter(f.Filter)
	if err != nil {
		return nil, err
	}
	s, err := f.newScene("", frontCamera())
	if err != nil {
		return nil, err
	}

	modes := []material.WrapMode{material.WrapRepeat, material.WrapMirroredRepeat, material.WrapClampToEdge}
	for i, mode := range modes {
		texture := material.NewUVDebugTexture(8, 8)
		texture.Filter = filter
		texture.WrapU, texture.WrapV = mode, mode
		texture.Transform = material.TranslateTransform(-1, -1)
		applyMipMapBias(texture, f.MipMapBias)

		quad := frontFacingQuad(core.NewVec3(float64(i-1)*1.05, 0, 0), 1, material.NewTexturedLambertian(texture))
		quad.UVScale = core.NewVec2(3, 3)
		s.Shapes = append(s.Shapes, quad)
	}

	if err := addStudioLights(s, false); err != nil {
		return nil, err
	}
	return finish(s)
}

// Texture2DMipMapping shows a receding checkerboard ground plane where mip selection matters
type Texture2DMipMapping struct {
	Base
	Renderer   string // Overrides Base.Renderer when set
	Camera     string // "perspective", "orthographic" or "panoramic"
	Filter     string
	MipMapBias float64
	Scale      float64 // Texture repeats across the ground, zero means 1
	Stereo     string  // "none", "left", "right", "side-by-side" or "top-bottom"
}

func (f Texture2DMipMapping) Name() string {
	renderer := f.Renderer
	if renderer == "" {
		renderer = f.Base.Renderer
	}
	return fixtureName("Texture2DMipMapping", renderer, f.Camera, f.Filter, f.MipMapBias, f.Scale, f.Stereo)
}

func (f Texture2DMipMapping) SetUp() (*Scene, error) {
	filter, err := parseFilter(f.Filter)
	if err != nil {
		return nil, err
	}
	cameraType, err := geometry.ParseCameraType(f.Camera)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownParameter, err)
	}
	stereo, err := geometry.ParseStereoMode(f.Stereo)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownParameter, err)
	}
	if f.Scale < 0 {
		return nil, fmt.Errorf("%w: negative texture scale %g", ErrUnknownParameter, f.Scale)
	}
	scale := f.Scale
	if scale == 0 {
		scale = 1
	}

	camera := geometry.CameraConfig{
		Center: core.NewVec3(0, 1, 3),
		LookAt: core.NewVec3(0, 0, -4),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   50,
		Type:   cameraType,
		Height: 3,
		Stereo: stereo,
	}
	s, err := f.newScene(f.Renderer, camera)
	if err != nil {
		return nil, err
	}

	texture := material.NewCheckerboardTexture(256, 256, 16, core.NewVec3(0.95, 0.95, 0.95), core.NewVec3(0.05, 0.05, 0.05))
	texture.Filter = filter
	texture.GenerateMipMaps()
	texture.MipMapBias = f.MipMapBias

	ground := NewGroundQuad(core.NewVec3(0, 0, -8), 24, material.NewTexturedLambertian(texture))
	ground.UVScale = core.NewVec2(scale, scale)
	s.Shapes = append(s.Shapes, ground)

	if err := addStudioLights(s, false); err != nil {
		return nil, err
	}
	return finish(s)
}
