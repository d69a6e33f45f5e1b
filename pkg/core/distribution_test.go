package core

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistribution1D_Uniform(t *testing.T) {
	d := NewDistribution1D([]float64{1, 1, 1, 1})

	assert.InDelta(t, 1.0, d.Integral(), 1e-12)
	for _, u := range []float64{0, 0.1, 0.5, 0.99} {
		x, pdf, _ := d.SampleContinuous(u)
		assert.InDelta(t, u, x, 1e-12, "uniform distribution should be identity")
		assert.InDelta(t, 1.0, pdf, 1e-12)
	}
}

func TestDistribution1D_SkipsZeroSegments(t *testing.T) {
	d := NewDistribution1D([]float64{0, 2, 0, 2})

	random := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		x, pdf, offset := d.SampleContinuous(random.Float64())
		require.True(t, offset == 1 || offset == 3, "sampled zero-weight segment %d", offset)
		assert.InDelta(t, 2.0, pdf, 1e-12)
		assert.InDelta(t, pdf, d.PDF(x), 1e-12)
	}
}

func TestDistribution1D_ZeroIntegralIsUniform(t *testing.T) {
	d := NewDistribution1D([]float64{0, 0, 0})

	x, pdf, offset := d.SampleContinuous(0.5)
	assert.InDelta(t, 0.5, x, 1e-12)
	assert.Equal(t, 1.0, pdf)
	assert.Equal(t, 1, offset)
}

func TestDistribution2D_PDFMatchesSample(t *testing.T) {
	// 4x2 table with one bright texel
	table := []float64{
		1, 1, 1, 1,
		1, 1, 9, 1,
	}
	d := NewDistribution2D(table, 4, 2)

	random := rand.New(rand.NewSource(42))
	hits := 0
	const n = 20000
	for i := 0; i < n; i++ {
		p, pdf := d.SampleContinuous(NewVec2(random.Float64(), random.Float64()))
		require.True(t, p.X >= 0 && p.X < 1 && p.Y >= 0 && p.Y < 1, "sample %v out of range", p)
		assert.InDelta(t, d.PDF(p), pdf, 1e-9)
		if int(p.X*4) == 2 && int(p.Y*2) == 1 {
			hits++
		}
	}

	// The bright texel carries 9/16 of the total weight
	assert.InDelta(t, 9.0/16.0, float64(hits)/n, 0.02)
}

func TestDistribution2D_IntegratesToOne(t *testing.T) {
	table := []float64{0.2, 3, 0, 5, 1, 1}
	d := NewDistribution2D(table, 3, 2)

	// Integrate the piecewise-constant PDF at texel centers
	sum := 0.0
	for v := 0; v < 2; v++ {
		for u := 0; u < 3; u++ {
			sum += d.PDF(NewVec2((float64(u)+0.5)/3, (float64(v)+0.5)/2)) / 6
		}
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("PDF should integrate to 1, got %f", sum)
	}
}
