package material

import (
	"fmt"
	"math"

	"github.com/df07/raytrace-testing/pkg/core"
)

// TextureFilter selects how texels are reconstructed between samples
type TextureFilter int

const (
	FilterBilinear TextureFilter = iota
	FilterNearest
)

// String returns the filter name
func (f TextureFilter) String() string {
	switch f {
	case FilterBilinear:
		return "bilinear"
	case FilterNearest:
		return "nearest"
	default:
		return "unknown"
	}
}

// ParseTextureFilter parses "bilinear" or "nearest"
func ParseTextureFilter(name string) (TextureFilter, error) {
	switch name {
	case "bilinear", "":
		return FilterBilinear, nil
	case "nearest":
		return FilterNearest, nil
	default:
		return 0, fmt.Errorf("unknown texture filter %q", name)
	}
}

// WrapMode controls how texture coordinates outside [0, 1) are mapped back into the texture
type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapMirroredRepeat
	WrapClampToEdge
)

// String returns the wrap mode name
func (w WrapMode) String() string {
	switch w {
	case WrapRepeat:
		return "repeat"
	case WrapMirroredRepeat:
		return "mirrored-repeat"
	case WrapClampToEdge:
		return "clamp-to-edge"
	default:
		return "unknown"
	}
}

// wrap maps a texel index into [0, size)
func (w WrapMode) wrap(i, size int) int {
	switch w {
	case WrapClampToEdge:
		return max(0, min(size-1, i))
	case WrapMirroredRepeat:
		period := 2 * size
		i = ((i % period) + period) % period
		if i >= size {
			i = period - 1 - i
		}
		return i
	default:
		return ((i % size) + size) % size
	}
}

// Texture2D provides color from a 2D texel grid with filtering, wrapping,
// texture coordinate transforms and an optional mip chain
type Texture2D struct {
	Width      int
	Height     int
	Pixels     []core.Vec3 // Row-major: Pixels[y*Width + x], row 0 is the top of the image
	Filter     TextureFilter
	WrapU      WrapMode
	WrapV      WrapMode
	Transform  TextureTransform
	MipMapBias float64 // Selects a coarser mip level when a mip chain is present

	mips []mipLevel // levels[0] mirrors Pixels; nil until GenerateMipMaps
}

// NewTexture2D creates a bilinear, repeating texture with an identity transform
func NewTexture2D(width, height int, pixels []core.Vec3) *Texture2D {
	return &Texture2D{
		Width:     width,
		Height:    height,
		Pixels:    pixels,
		Filter:    FilterBilinear,
		Transform: IdentityTransform(),
	}
}

// MipLevels returns the number of mip levels, 1 when no chain has been generated
func (t *Texture2D) MipLevels() int {
	if len(t.mips) == 0 {
		return 1
	}
	return len(t.mips)
}

// Evaluate samples the texture at the given UV coordinates
func (t *Texture2D) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	if t.Width <= 0 || t.Height <= 0 {
		return core.Vec3{}
	}

	uv = t.Transform.Apply(uv)
	level := t.level()

	switch t.Filter {
	case FilterNearest:
		return t.sampleNearest(level, uv)
	default:
		return t.sampleBilinear(level, uv)
	}
}

// level picks the mip level from the bias
func (t *Texture2D) level() mipLevel {
	if len(t.mips) == 0 {
		return mipLevel{width: t.Width, height: t.Height, pixels: t.Pixels}
	}
	index := int(math.Round(t.MipMapBias))
	index = max(0, min(len(t.mips)-1, index))
	return t.mips[index]
}

// texel fetches a wrapped texel. V=0 is the bottom of the texture, so rows are flipped.
func (t *Texture2D) texel(level mipLevel, x, y int) core.Vec3 {
	x = t.WrapU.wrap(x, level.width)
	y = t.WrapV.wrap(y, level.height)
	return level.pixels[y*level.width+x]
}

func (t *Texture2D) sampleNearest(level mipLevel, uv core.Vec2) core.Vec3 {
	x := int(math.Floor(uv.X * float64(level.width)))
	y := int(math.Floor((1.0 - uv.Y) * float64(level.height)))
	return t.texel(level, x, y)
}

func (t *Texture2D) sampleBilinear(level mipLevel, uv core.Vec2) core.Vec3 {
	fu := uv.X*float64(level.width) - 0.5
	fv := (1.0-uv.Y)*float64(level.height) - 0.5

	x0 := int(math.Floor(fu))
	y0 := int(math.Floor(fv))
	fx := fu - float64(x0)
	fy := fv - float64(y0)

	top := t.texel(level, x0, y0).Lerp(t.texel(level, x0+1, y0), fx)
	bottom := t.texel(level, x0, y0+1).Lerp(t.texel(level, x0+1, y0+1), fx)
	return top.Lerp(bottom, fy)
}
