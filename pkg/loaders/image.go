package loaders

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/df07/raytrace-testing/pkg/core"
	"github.com/df07/raytrace-testing/pkg/material"
)

// ErrUnsupportedFormat is returned when an image file extension has no encoder
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ImageData contains loaded image data as Vec3 color array
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Vec3 // Row-major, row 0 at the top
	Format string     // Detected encoding, e.g. "png" or "tiff"
}

// LoadImage loads a PNG, JPEG, BMP or TIFF image and converts it to a Vec3 color array
// with components in [0, 1]
func LoadImage(filename string) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// Format is detected from the header; bmp and tiff register through their imports
	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filename, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pixels := make([]core.Vec3, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535]
			pixels[y*width+x] = core.NewVec3(float64(r)/65535, float64(g)/65535, float64(b)/65535)
		}
	}

	return &ImageData{Width: width, Height: height, Pixels: pixels, Format: format}, nil
}

// Texture converts the image into a texture. sRGB images are decoded to linear radiance.
func (d *ImageData) Texture(srgb bool) *material.Texture2D {
	pixels := make([]core.Vec3, len(d.Pixels))
	for i, p := range d.Pixels {
		if srgb {
			p = core.NewVec3(material.SRGBToLinear(p.X), material.SRGBToLinear(p.Y), material.SRGBToLinear(p.Z))
		}
		pixels[i] = p
	}
	return material.NewTexture2D(d.Width, d.Height, pixels)
}

// LoadTexture loads an image file as a texture
func LoadTexture(filename string, srgb bool) (*material.Texture2D, error) {
	data, err := LoadImage(filename)
	if err != nil {
		return nil, err
	}
	return data.Texture(srgb), nil
}

// SaveImage writes img using the encoder matching the file extension:
// .png, .jpg/.jpeg, .bmp, .tif/.tiff
func SaveImage(filename string, img image.Image) error {
	ext := strings.ToLower(filepath.Ext(filename))
	var encode func(*os.File) error
	switch ext {
	case ".png":
		encode = func(f *os.File) error { return png.Encode(f, img) }
	case ".jpg", ".jpeg":
		encode = func(f *os.File) error { return jpeg.Encode(f, img, &jpeg.Options{Quality: 95}) }
	case ".bmp":
		encode = func(f *os.File) error { return bmp.Encode(f, img) }
	case ".tif", ".tiff":
		encode = func(f *os.File) error { return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate}) }
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	if err := encode(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", filename, err)
	}
	return file.Close()
}
