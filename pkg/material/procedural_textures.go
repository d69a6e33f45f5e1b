package material

import (
	"github.com/df07/raytrace-testing/pkg/core"
)

// NewCheckerboardTexture creates a procedural checkerboard pattern texture
func NewCheckerboardTexture(width, height, checkSize int, color1, color2 core.Vec3) *Texture2D {
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x/checkSize+y/checkSize)%2 == 0 {
				pixels[y*width+x] = color1
			} else {
				pixels[y*width+x] = color2
			}
		}
	}

	return NewTexture2D(width, height, pixels)
}

// NewUVDebugTexture creates a texture showing UV coordinates as colors
// U maps to red channel, V maps to green channel
func NewUVDebugTexture(width, height int) *Texture2D {
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			u := float64(x) / float64(max(1, width-1))
			v := 1.0 - float64(y)/float64(max(1, height-1))
			pixels[y*width+x] = core.NewVec3(u, v, 0.0)
		}
	}

	return NewTexture2D(width, height, pixels)
}

// NewGridTexture creates thin grid lines over a background, useful for spotting
// filtering and wrapping artifacts
func NewGridTexture(width, height, cells int, line, background core.Vec3) *Texture2D {
	pixels := make([]core.Vec3, width*height)
	cellW := max(1, width/cells)
	cellH := max(1, height/cells)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x%cellW == 0 || y%cellH == 0 {
				pixels[y*width+x] = line
			} else {
				pixels[y*width+x] = background
			}
		}
	}

	return NewTexture2D(width, height, pixels)
}
