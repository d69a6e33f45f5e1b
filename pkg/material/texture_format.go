package material

import (
	"fmt"
	"math"

	"github.com/df07/raytrace-testing/pkg/core"
)

// TextureFormat describes how texels are stored and decoded
type TextureFormat string

const (
	FormatRGB8   TextureFormat = "rgb8"   // 8-bit linear RGB
	FormatSRGB8  TextureFormat = "srgb8"  // 8-bit sRGB-encoded RGB
	FormatR8     TextureFormat = "r8"     // 8-bit single red channel
	FormatL8     TextureFormat = "l8"     // 8-bit luminance, replicated to all channels
	FormatSL8    TextureFormat = "sl8"    // 8-bit sRGB-encoded luminance
	FormatRGB32F TextureFormat = "rgb32f" // 32-bit float RGB
)

// TextureFormats lists every supported format in display order
func TextureFormats() []TextureFormat {
	return []TextureFormat{FormatRGB8, FormatSRGB8, FormatR8, FormatL8, FormatSL8, FormatRGB32F}
}

// Encode converts linear texels through the storage precision of the format and decodes them back,
// which is what a renderer sees after uploading a texture in that format
func (f TextureFormat) Encode(pixels []core.Vec3) ([]core.Vec3, error) {
	decode, err := f.decoder()
	if err != nil {
		return nil, err
	}
	out := make([]core.Vec3, len(pixels))
	for i, p := range pixels {
		out[i] = decode(p)
	}
	return out, nil
}

func (f TextureFormat) decoder() (func(core.Vec3) core.Vec3, error) {
	switch f {
	case FormatRGB8:
		return func(p core.Vec3) core.Vec3 {
			return core.NewVec3(quantize8(p.X), quantize8(p.Y), quantize8(p.Z))
		}, nil
	case FormatSRGB8:
		return func(p core.Vec3) core.Vec3 {
			return core.NewVec3(srgbRoundTrip(p.X), srgbRoundTrip(p.Y), srgbRoundTrip(p.Z))
		}, nil
	case FormatR8:
		return func(p core.Vec3) core.Vec3 {
			return core.NewVec3(quantize8(p.X), 0, 0)
		}, nil
	case FormatL8:
		return func(p core.Vec3) core.Vec3 {
			l := quantize8(p.Luminance())
			return core.NewVec3(l, l, l)
		}, nil
	case FormatSL8:
		return func(p core.Vec3) core.Vec3 {
			l := srgbRoundTrip(p.Luminance())
			return core.NewVec3(l, l, l)
		}, nil
	case FormatRGB32F:
		return func(p core.Vec3) core.Vec3 {
			return core.NewVec3(float64(float32(p.X)), float64(float32(p.Y)), float64(float32(p.Z)))
		}, nil
	default:
		return nil, fmt.Errorf("unknown texture format %q", string(f))
	}
}

func quantize8(v float64) float64 {
	return math.Round(math.Max(0, math.Min(1, v))*255) / 255
}

// SRGBToLinear decodes an sRGB-encoded channel value
func SRGBToLinear(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// LinearToSRGB encodes a linear channel value as sRGB
func LinearToSRGB(v float64) float64 {
	if v <= 0.0031308 {
		return v * 12.92
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}

func srgbRoundTrip(v float64) float64 {
	return SRGBToLinear(quantize8(LinearToSRGB(math.Max(0, math.Min(1, v)))))
}
