package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// OrthonormalBasis returns two unit vectors perpendicular to normal and to each other
func OrthonormalBasis(normal Vec3) (tangent, bitangent Vec3) {
	var nt Vec3
	if math.Abs(normal.X) > 0.1 {
		nt = NewVec3(0, 1, 0)
	} else {
		nt = NewVec3(1, 0, 0)
	}
	tangent = nt.Cross(normal).Normalize()
	bitangent = normal.Cross(tangent)
	return tangent, bitangent
}

// SampleCosineHemisphere generates a cosine-weighted direction in the hemisphere around normal
func SampleCosineHemisphere(normal Vec3, sample Vec2) Vec3 {
	a := 2.0 * math.Pi * sample.X
	r := math.Sqrt(sample.Y)

	x := r * math.Cos(a)
	y := r * math.Sin(a)
	z := math.Sqrt(math.Max(0, 1.0-sample.Y))

	tangent, bitangent := OrthonormalBasis(normal)
	return tangent.Multiply(x).Add(bitangent.Multiply(y)).Add(normal.Multiply(z))
}

// SampleOnUnitSphere generates a uniform direction on the unit sphere
func SampleOnUnitSphere(sample Vec2) Vec3 {
	z := 1.0 - 2.0*sample.X
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// SamplePointInUnitDisk maps a square sample to the unit disk using concentric mapping
func SamplePointInUnitDisk(sample Vec2) Vec3 {
	ox, oy := 2*sample.X-1, 2*sample.Y-1
	if ox == 0 && oy == 0 {
		return Vec3{}
	}

	var theta, r float64
	if math.Abs(ox) > math.Abs(oy) {
		r = ox
		theta = math.Pi / 4 * (oy / ox)
	} else {
		r = oy
		theta = math.Pi/2 - math.Pi/4*(ox/oy)
	}
	return NewVec3(r*math.Cos(theta), r*math.Sin(theta), 0)
}

// PowerHeuristic computes the MIS weight for strategy f using the power heuristic (beta = 2)
func PowerHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	if f*f+g*g == 0 {
		return 0
	}
	return (f * f) / (f*f + g*g)
}
