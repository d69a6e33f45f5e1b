package scene

import (
	"image"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/raytrace-testing/pkg/core"
	"github.com/df07/raytrace-testing/pkg/geometry"
	"github.com/df07/raytrace-testing/pkg/lights"
	"github.com/df07/raytrace-testing/pkg/loaders"
	"github.com/df07/raytrace-testing/pkg/material"
	"github.com/df07/raytrace-testing/pkg/transferfunction"
)

func smallBase() Base {
	base := DefaultBase()
	base.Width, base.Height = 64, 32
	return base
}

func TestVariants_SetUp(t *testing.T) {
	seen := make(map[string]bool)
	for _, fixture := range Variants(smallBase()) {
		name := fixture.Name()
		t.Run(name, func(t *testing.T) {
			assert.False(t, seen[name], "duplicate fixture name")
			seen[name] = true

			s, err := fixture.SetUp()
			require.NoError(t, err)
			require.NotNil(t, s.Camera)
			require.NotNil(t, s.BVH)
			require.NotNil(t, s.LightSampler)
			assert.NotEmpty(t, s.Shapes)
			assert.NotEmpty(t, s.Lights)
			assert.NotEmpty(t, s.Renderer)
			assert.Equal(t, 64, s.SamplingConfig.Width)
			assert.Equal(t, 32, s.SamplingConfig.Height)
			assert.InDelta(t, 2.0, s.CameraConfig.AspectRatio, 1e-12)
		})
	}
}

func TestFixtures_UnknownParameters(t *testing.T) {
	base := smallBase()
	tests := []struct {
		name    string
		fixture Fixture
	}{
		{"texture filter", Texture2D{Base: base, Filter: "cubic"}},
		{"transform", Texture2DTransform{Base: base, Transform: "shear"}},
		{"wrap mode filter", Texture2DWrapMode{Base: base, Filter: "trilinear"}},
		{"camera", Texture2DMipMapping{Base: base, Camera: "fisheye"}},
		{"stereo", Texture2DMipMapping{Base: base, Stereo: "anaglyph"}},
		{"negative scale", Texture2DMipMapping{Base: base, Scale: -1}},
		{"transfer function tag", TransferFunctionScene{Base: base, Tag: "missing"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := tt.fixture.SetUp()
			assert.ErrorIs(t, err, ErrUnknownParameter)
			assert.Nil(t, s)
		})
	}

	_, err := TransferFunctionScene{Base: base, Tag: "missing"}.SetUp()
	assert.ErrorIs(t, err, transferfunction.ErrSymbolNotFound, "registry error stays in the chain")
}

func TestFixtures_InvalidBase(t *testing.T) {
	tests := []struct {
		name string
		base Base
	}{
		{"zero width", Base{Width: 0, Height: 10, Renderer: "scivis"}},
		{"negative height", Base{Width: 10, Height: -1, Renderer: "scivis"}},
		{"no renderer", Base{Width: 10, Height: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Texture2DTransform{Base: tt.base, Transform: "identity"}.SetUp()
			assert.ErrorIs(t, err, ErrInvalidBase)
		})
	}
}

func TestTexture2D_OneQuadPerFormat(t *testing.T) {
	for _, texcoords := range []bool{false, true} {
		s, err := Texture2D{Base: smallBase(), Filter: "nearest", UseTexcoords: texcoords}.SetUp()
		require.NoError(t, err)
		require.Len(t, s.Shapes, len(material.TextureFormats()))

		quad, ok := s.Shapes[0].(*geometry.Quad)
		require.True(t, ok)
		lambertian, ok := quad.Material.(*material.Lambertian)
		require.True(t, ok)

		if texcoords {
			texture, ok := lambertian.Albedo.(*material.Texture2D)
			require.True(t, ok, "texcoords sample the texture directly")
			assert.Equal(t, material.FilterNearest, texture.Filter)
			assert.Equal(t, 1, texture.MipLevels(), "no bias, no mip chain")
		} else {
			_, ok := lambertian.Albedo.(*material.PlanarMapping)
			assert.True(t, ok, "without texcoords the texture is projected")
		}
	}
}

func TestTexture2D_LightSets(t *testing.T) {
	plain, err := Texture2D{Base: smallBase()}.SetUp()
	require.NoError(t, err)
	assert.Len(t, plain.Lights, 1)

	alternate, err := Texture2D{Base: smallBase(), LightSet: true}.SetUp()
	require.NoError(t, err)
	require.Len(t, alternate.Lights, 2)
	assert.Equal(t, lights.LightTypeArea, alternate.Lights[1].Type())

	// Key light is favored over the fill
	require.IsType(t, &lights.WeightedLightSampler{}, alternate.LightSampler)
	assert.InDelta(t, 0.8, alternate.LightSampler.GetLightProbability(1, core.Vec3{}, core.Vec3{}), 1e-12)
}

func TestTexture2DMipMapping_Options(t *testing.T) {
	base := smallBase()
	s, err := Texture2DMipMapping{Base: base, Renderer: "pathtracer", Camera: "orthographic",
		MipMapBias: 1.5, Scale: 8, Stereo: "side-by-side"}.SetUp()
	require.NoError(t, err)

	assert.Equal(t, "pathtracer", s.Renderer, "fixture renderer overrides the base")
	assert.Equal(t, geometry.CameraOrthographic, s.CameraConfig.Type)
	assert.Equal(t, geometry.StereoSideBySide, s.CameraConfig.Stereo)

	ground := s.Shapes[0].(*geometry.Quad)
	assert.Equal(t, 8.0, ground.UVScale.X)
	texture := ground.Material.(*material.Lambertian).Albedo.(*material.Texture2D)
	assert.Greater(t, texture.MipLevels(), 1)
	assert.Equal(t, 1.5, texture.MipMapBias)

	defaults, err := Texture2DMipMapping{Base: base}.SetUp()
	require.NoError(t, err)
	assert.Equal(t, base.Renderer, defaults.Renderer)
	assert.Equal(t, 1.0, defaults.Shapes[0].(*geometry.Quad).UVScale.X, "zero scale means one repeat")
}

func TestPTBackgroundRefraction(t *testing.T) {
	for _, enabled := range []bool{false, true} {
		s, err := PTBackgroundRefraction{Base: smallBase(), Enabled: enabled}.SetUp()
		require.NoError(t, err)

		assert.Equal(t, "pathtracer", s.Renderer)
		assert.Equal(t, enabled, s.SamplingConfig.BackgroundRefraction)
		require.Len(t, s.Lights, 1)
		env, ok := s.Lights[0].(*lights.HDRILight)
		require.True(t, ok)
		assert.False(t, env.IsVisible(), "the environment is hidden from camera rays either way")
	}
}

func TestRendererMaterialList(t *testing.T) {
	s, err := RendererMaterialList{Base: smallBase(), Renderer: "ao"}.SetUp()
	require.NoError(t, err)
	assert.Equal(t, "ao", s.Renderer)

	spheres := 0
	for _, shape := range s.Shapes {
		if _, ok := shape.(*geometry.Sphere); ok {
			spheres++
		}
	}
	assert.Equal(t, len(MaterialList()), spheres)
}

func TestTransferFunctionScene_UsesRegistry(t *testing.T) {
	for _, tag := range transferfunction.Tags() {
		t.Run(tag, func(t *testing.T) {
			s, err := TransferFunctionScene{Base: smallBase(), Tag: tag}.SetUp()
			require.NoError(t, err)

			sphere, ok := s.Shapes[0].(*geometry.Sphere)
			require.True(t, ok)
			lambertian, ok := sphere.Material.(*material.Lambertian)
			require.True(t, ok)
			texture, ok := lambertian.Albedo.(*material.TransferFunctionTexture)
			require.True(t, ok)
			assert.Equal(t, 0.0, texture.TransferFunction.ValueRange().X)
			assert.Equal(t, 1.0, texture.TransferFunction.ValueRange().Y)
		})
	}
}

func TestTexture2DTransform_Image(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.png")
	img := image.NewRGBA(image.Rect(0, 0, 5, 3))
	require.NoError(t, loaders.SaveImage(path, img))

	f := Texture2DTransform{Base: smallBase(), Transform: "rotate", Image: path}
	assert.Equal(t, "Texture2DTransform_rotate_photo", f.Name())

	s, err := f.SetUp()
	require.NoError(t, err)
	quad := s.Shapes[0].(*geometry.Quad)
	texture := quad.Material.(*material.Lambertian).Albedo.(*material.Texture2D)
	assert.Equal(t, 5, texture.Width)
	assert.Equal(t, 3, texture.Height)

	_, err = Texture2DTransform{Base: smallBase(), Image: filepath.Join(t.TempDir(), "missing.png")}.SetUp()
	assert.Error(t, err)
}
