package scene

import (
	"fmt"

	"github.com/df07/raytrace-testing/pkg/core"
	"github.com/df07/raytrace-testing/pkg/geometry"
	"github.com/df07/raytrace-testing/pkg/material"
	"github.com/df07/raytrace-testing/pkg/transferfunction"
)

// sphereRowCamera looks at a row of spheres resting on the ground
func sphereRowCamera() geometry.CameraConfig {
	return geometry.CameraConfig{
		Center: core.NewVec3(0, 1.2, 5),
		LookAt: core.NewVec3(0, 0.4, 0),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   35,
	}
}

// MaterialList returns the materials shown by RendererMaterialList, in display order
func MaterialList() []material.Material {
	checker := material.NewCheckerboardTexture(64, 32, 8, core.NewVec3(0.9, 0.9, 0.2), core.NewVec3(0.1, 0.3, 0.8))
	return []material.Material{
		material.NewLambertian(core.NewVec3(0.8, 0.2, 0.2)),
		material.NewTexturedLambertian(checker),
		material.NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0),
		material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3),
		material.NewDielectric(1.5),
		material.NewMix(material.NewLambertian(core.NewVec3(0.2, 0.7, 0.2)), material.NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0.1), 0.5),
	}
}

// addSphereRow places one sphere per material on a gridded ground plane
func addSphereRow(s *Scene, materials []material.Material, radius float64) {
	spacing := 2.2 * radius
	start := -spacing * float64(len(materials)-1) / 2
	for i, mat := range materials {
		center := core.NewVec3(start+spacing*float64(i), radius, 0)
		s.Shapes = append(s.Shapes, geometry.NewSphere(center, radius, mat))
	}
	grid := material.NewGridTexture(64, 64, 8, core.NewVec3(0.25, 0.25, 0.25), core.NewVec3(0.55, 0.55, 0.55))
	ground := NewGroundQuad(core.NewVec3(0, 0, 0), 20, material.NewTexturedLambertian(grid))
	ground.UVScale = core.NewVec2(5, 5)
	s.Shapes = append(s.Shapes, ground)
}

// RendererMaterialList shows every material of MaterialList under one renderer
type RendererMaterialList struct {
	Base
	Renderer string // Overrides Base.Renderer when set
}

func (f RendererMaterialList) Name() string {
	renderer := f.Renderer
	if renderer == "" {
		renderer = f.Base.Renderer
	}
	return fixtureName("RendererMaterialList", renderer)
}

func (f RendererMaterialList) SetUp() (*Scene, error) {
	s, err := f.newScene(f.Renderer, sphereRowCamera())
	if err != nil {
		return nil, err
	}
	addSphereRow(s, MaterialList(), 0.4)
	if err := addStudioLights(s, true); err != nil {
		return nil, err
	}
	return finish(s)
}

// PTBackgroundRefraction shows a glass sphere in front of an environment that camera rays
// never see. Enabled lets camera paths refracted through the glass reach it.
type PTBackgroundRefraction struct {
	Base
	Enabled bool
}

func (f PTBackgroundRefraction) Name() string {
	return fixtureName("PTBackgroundRefraction", f.Enabled)
}

func (f PTBackgroundRefraction) SetUp() (*Scene, error) {
	// The path tracer is the only renderer that distinguishes refracted background paths
	s, err := f.newScene("pathtracer", geometry.CameraConfig{
		Center: core.NewVec3(0, 0, 4),
		LookAt: core.NewVec3(0, 0, 0),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   30,
	})
	if err != nil {
		return nil, err
	}
	s.SamplingConfig.BackgroundRefraction = f.Enabled

	env, err := newEnvironment(false)
	if err != nil {
		return nil, err
	}
	s.AddHDRILight(env)
	s.Shapes = append(s.Shapes, geometry.NewSphere(core.Vec3{}, 1, material.NewDielectric(1.5)))
	return finish(s)
}

// TransferFunctionScene colors spheres by scalar fields mapped through a registered
// testing transfer function
type TransferFunctionScene struct {
	Base
	Tag string // Registry tag, see transferfunction.Tags
}

func (f TransferFunctionScene) Name() string {
	return fixtureName("TransferFunction", f.Tag)
}

func (f TransferFunctionScene) SetUp() (*Scene, error) {
	builder, err := transferfunction.New(f.Tag)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownParameter, err)
	}
	s, err := f.newScene("", sphereRowCamera())
	if err != nil {
		return nil, err
	}

	const radius = 0.5
	fields := []struct {
		field      material.ScalarField
		valueRange core.Vec2
	}{
		{material.UVField{}, core.NewVec2(0, 1)},
		{material.HeightField{Axis: core.NewVec3(0, 1, 0)}, core.NewVec2(0, 2*radius)},
		{material.RadialField{Center: core.NewVec3(0, 0, 0)}, core.NewVec2(0.5, 2)},
	}

	materials := make([]material.Material, 0, len(fields))
	for _, fr := range fields {
		tf, err := builder.CreateTransferFunction(fr.valueRange)
		if err != nil {
			return nil, fmt.Errorf("transfer function %q: %w", f.Tag, err)
		}
		texture := material.NewTransferFunctionTexture(fr.field, tf)
		texture.Background = core.NewVec3(0.1, 0.1, 0.1)
		materials = append(materials, material.NewTexturedLambertian(texture))
	}

	addSphereRow(s, materials, radius)
	if err := addStudioLights(s, false); err != nil {
		return nil, err
	}
	return finish(s)
}
