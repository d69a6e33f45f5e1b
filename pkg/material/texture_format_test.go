package material

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/raytrace-testing/pkg/core"
)

func TestTextureFormat_Encode(t *testing.T) {
	in := []core.Vec3{core.NewVec3(0.5, 0.25, 1.0)}

	tests := []struct {
		format TextureFormat
		check  func(t *testing.T, got core.Vec3)
	}{
		{FormatRGB8, func(t *testing.T, got core.Vec3) {
			assert.InDelta(t, 0.5, got.X, 1.0/255)
			assert.InDelta(t, 0.25, got.Y, 1.0/255)
		}},
		{FormatSRGB8, func(t *testing.T, got core.Vec3) {
			assert.InDelta(t, 0.5, got.X, 0.01)
		}},
		{FormatR8, func(t *testing.T, got core.Vec3) {
			assert.Zero(t, got.Y)
			assert.Zero(t, got.Z)
		}},
		{FormatL8, func(t *testing.T, got core.Vec3) {
			assert.Equal(t, got.X, got.Y)
			assert.Equal(t, got.Y, got.Z)
		}},
		{FormatSL8, func(t *testing.T, got core.Vec3) {
			assert.Equal(t, got.X, got.Z)
		}},
		{FormatRGB32F, func(t *testing.T, got core.Vec3) {
			assert.InDelta(t, 0.25, got.Y, 1e-7)
		}},
	}

	require.Len(t, tests, len(TextureFormats()))
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			out, err := tt.format.Encode(in)
			require.NoError(t, err)
			require.Len(t, out, 1)
			tt.check(t, out[0])
		})
	}

	_, err := TextureFormat("bc7").Encode(in)
	assert.Error(t, err)
}

func TestSRGBRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 0.001, 0.2, 0.5, 1} {
		assert.InDelta(t, v, SRGBToLinear(LinearToSRGB(v)), 1e-9)
	}
}
