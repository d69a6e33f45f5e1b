package core

import "sort"

// Distribution1D is a piecewise-constant 1D distribution over [0, 1)
type Distribution1D struct {
	function []float64
	cdf      []float64
	integral float64
}

// NewDistribution1D builds a distribution from non-negative function values.
// A function that integrates to zero is treated as uniform.
func NewDistribution1D(function []float64) *Distribution1D {
	n := len(function)
	d := &Distribution1D{
		function: append([]float64(nil), function...),
		cdf:      make([]float64, n+1),
	}

	for i := 1; i <= n; i++ {
		d.cdf[i] = d.cdf[i-1] + max(0, d.function[i-1])/float64(n)
	}
	d.integral = d.cdf[n]

	for i := 1; i <= n; i++ {
		if d.integral == 0 {
			d.cdf[i] = float64(i) / float64(n)
		} else {
			d.cdf[i] /= d.integral
		}
	}
	return d
}

// Count returns the number of function values
func (d *Distribution1D) Count() int {
	return len(d.function)
}

// Integral returns the integral of the function over [0, 1)
func (d *Distribution1D) Integral() float64 {
	return d.integral
}

// SampleContinuous maps u in [0, 1) to a value x in [0, 1) distributed proportionally to the function.
// Returns x, the density at x, and the index of the segment x falls in.
func (d *Distribution1D) SampleContinuous(u float64) (float64, float64, int) {
	n := len(d.function)
	if n == 0 {
		return u, 1, 0
	}

	// Last segment whose cdf start is <= u
	offset := sort.Search(len(d.cdf), func(i int) bool { return d.cdf[i] > u }) - 1
	offset = max(0, min(n-1, offset))

	du := u - d.cdf[offset]
	if width := d.cdf[offset+1] - d.cdf[offset]; width > 0 {
		du /= width
	}

	return (float64(offset) + du) / float64(n), d.segmentPDF(offset), offset
}

// PDF returns the density of the distribution at x in [0, 1)
func (d *Distribution1D) PDF(x float64) float64 {
	n := len(d.function)
	if n == 0 {
		return 1
	}
	offset := max(0, min(n-1, int(x*float64(n))))
	return d.segmentPDF(offset)
}

func (d *Distribution1D) segmentPDF(offset int) float64 {
	if d.integral == 0 {
		return 1
	}
	return max(0, d.function[offset]) / d.integral
}

// Distribution2D is a piecewise-constant 2D distribution over [0, 1)^2,
// sampled as a marginal over rows followed by a conditional within the row
type Distribution2D struct {
	width       int
	height      int
	conditional []*Distribution1D
	marginal    *Distribution1D
}

// NewDistribution2D builds a distribution from a row-major width x height table
func NewDistribution2D(function []float64, width, height int) *Distribution2D {
	d := &Distribution2D{
		width:       width,
		height:      height,
		conditional: make([]*Distribution1D, height),
	}

	rowIntegrals := make([]float64, height)
	for v := 0; v < height; v++ {
		d.conditional[v] = NewDistribution1D(function[v*width : (v+1)*width])
		rowIntegrals[v] = d.conditional[v].Integral()
	}
	d.marginal = NewDistribution1D(rowIntegrals)
	return d
}

// Size returns the table dimensions
func (d *Distribution2D) Size() (width, height int) {
	return d.width, d.height
}

// SampleContinuous maps a 2D sample to a point in [0, 1)^2 and returns the point with its density
func (d *Distribution2D) SampleContinuous(u Vec2) (Vec2, float64) {
	y, pdfY, row := d.marginal.SampleContinuous(u.Y)
	x, pdfX, _ := d.conditional[row].SampleContinuous(u.X)
	return NewVec2(x, y), pdfX * pdfY
}

// PDF returns the density at point p in [0, 1)^2
func (d *Distribution2D) PDF(p Vec2) float64 {
	iu := max(0, min(d.width-1, int(p.X*float64(d.width))))
	iv := max(0, min(d.height-1, int(p.Y*float64(d.height))))
	if d.marginal.Integral() == 0 {
		return 1
	}
	return max(0, d.conditional[iv].function[iu]) / d.marginal.Integral()
}
