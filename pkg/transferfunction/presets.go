package transferfunction

import "github.com/df07/raytrace-testing/pkg/core"

func init() {
	MustRegister("jet", func() Builder { return &Jet{} })
	MustRegister("grayscale", func() Builder { return &Grayscale{} })
	MustRegister("rgb", func() Builder { return &RGB{} })
	MustRegister("test", func() Builder { return &Test{} })
}

// Jet is the classic blue-cyan-yellow-red color map with a linear opacity ramp
type Jet struct{}

func (Jet) CreateTransferFunction(valueRange core.Vec2) (*TransferFunction, error) {
	colors := []core.Vec3{
		core.NewVec3(0, 0, 0.562493),
		core.NewVec3(0, 0, 1),
		core.NewVec3(0, 1, 1),
		core.NewVec3(0.500008, 1, 0.500008),
		core.NewVec3(1, 1, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0.500008, 0, 0),
	}
	return NewPiecewiseLinear(valueRange, colors, []float64{0, 1})
}

// Grayscale ramps from black to white with a linear opacity ramp
type Grayscale struct{}

func (Grayscale) CreateTransferFunction(valueRange core.Vec2) (*TransferFunction, error) {
	colors := []core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1)}
	return NewPiecewiseLinear(valueRange, colors, []float64{0, 1})
}

// RGB steps through red, green and blue at full opacity
type RGB struct{}

func (RGB) CreateTransferFunction(valueRange core.Vec2) (*TransferFunction, error) {
	colors := []core.Vec3{core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), core.NewVec3(0, 0, 1)}
	return NewPiecewiseLinear(valueRange, colors, []float64{1})
}

// Test is a two-stop blue to red map at half opacity
type Test struct{}

func (Test) CreateTransferFunction(valueRange core.Vec2) (*TransferFunction, error) {
	colors := []core.Vec3{core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 0)}
	return NewPiecewiseLinear(valueRange, colors, []float64{0.5})
}
