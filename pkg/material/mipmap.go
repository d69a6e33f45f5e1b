package material

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/df07/raytrace-testing/pkg/core"
)

// mipLevel is one level of a texture's mip chain
type mipLevel struct {
	width  int
	height int
	pixels []core.Vec3
}

// GenerateMipMaps builds a mip chain by repeatedly halving the texture down to 1x1.
// Texels are normalized by the peak channel value before resampling so HDR textures survive
// the 16-bit intermediate images.
func (t *Texture2D) GenerateMipMaps() {
	base := mipLevel{width: t.Width, height: t.Height, pixels: t.Pixels}
	t.mips = []mipLevel{base}

	peak := 0.0
	for _, p := range t.Pixels {
		peak = max(peak, p.X, p.Y, p.Z)
	}
	if peak <= 0 {
		peak = 1
	}

	current := base
	for current.width > 1 || current.height > 1 {
		next := downsample(current, max(1, current.width/2), max(1, current.height/2), peak)
		t.mips = append(t.mips, next)
		current = next
	}
}

// downsample resamples a level to the given size with a box-like bilinear filter
func downsample(level mipLevel, width, height int, peak float64) mipLevel {
	src := image.NewNRGBA64(image.Rect(0, 0, level.width, level.height))
	for y := 0; y < level.height; y++ {
		for x := 0; x < level.width; x++ {
			c := level.pixels[y*level.width+x].Multiply(1.0 / peak).Clamp(0, 1)
			src.SetNRGBA64(x, y, color.NRGBA64{
				R: uint16(c.X*65535 + 0.5),
				G: uint16(c.Y*65535 + 0.5),
				B: uint16(c.Z*65535 + 0.5),
				A: 0xffff,
			})
		}
	}

	dst := image.NewNRGBA64(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	pixels := make([]core.Vec3, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := dst.NRGBA64At(x, y)
			pixels[y*width+x] = core.NewVec3(
				float64(c.R)/65535*peak,
				float64(c.G)/65535*peak,
				float64(c.B)/65535*peak,
			)
		}
	}
	return mipLevel{width: width, height: height, pixels: pixels}
}
