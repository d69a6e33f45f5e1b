package testsuite

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/df07/raytrace-testing/pkg/loaders"
)

// ErrGoldenMissing is returned when no reference image exists for a fixture
var ErrGoldenMissing = errors.New("golden image missing")

// GoldenPath returns the reference image path for a fixture name
func GoldenPath(dir, name string) string {
	return filepath.Join(dir, name+".png")
}

// LoadGolden reads the reference image for name from dir
func LoadGolden(dir, name string) (*image.RGBA, error) {
	path := GoldenPath(dir, name)
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrGoldenMissing, path)
		}
		return nil, fmt.Errorf("failed to open golden image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode golden image %s: %w", path, err)
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba, nil
}

// SaveGolden writes img as the reference image for name in dir
func SaveGolden(dir, name string, img image.Image) error {
	return loaders.SaveImage(GoldenPath(dir, name), img)
}
