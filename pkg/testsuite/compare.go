package testsuite

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/cespare/xxhash/v2"
)

// ErrSizeMismatch is returned when two images being compared differ in size
var ErrSizeMismatch = errors.New("image size mismatch")

// DefaultMaxDiffPerPixel is the channel tolerance used when none is configured
const DefaultMaxDiffPerPixel = 0

// Diff summarizes how a rendered image differs from its reference
type Diff struct {
	Pixels          int     // Pixels compared
	DifferingPixels int     // Pixels with any channel beyond the tolerance
	MaxChannelDiff  int     // Largest absolute channel difference seen
	MeanAbsDiff     float64 // Mean absolute channel difference over all RGB channels
	Fingerprint     uint64  // Fingerprint of the rendered image
}

// Fingerprint hashes the visible pixels of img. Identical images hash alike
// regardless of stride or origin.
func Fingerprint(img *image.RGBA) uint64 {
	b := img.Bounds()
	h := xxhash.New()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		start := img.PixOffset(b.Min.X, y)
		_, _ = h.Write(img.Pix[start : start+4*b.Dx()])
	}
	return h.Sum64()
}

// Passed reports whether no pixel exceeded the tolerance
func (d Diff) Passed() bool {
	return d.DifferingPixels == 0
}

// CompareImages compares RGB channels of got against want. A pixel differs when any
// channel is off by more than maxDiffPerPixel.
func CompareImages(got, want *image.RGBA, maxDiffPerPixel int) (Diff, error) {
	gb, wb := got.Bounds(), want.Bounds()
	if gb.Dx() != wb.Dx() || gb.Dy() != wb.Dy() {
		return Diff{}, fmt.Errorf("%w: got %dx%d, want %dx%d", ErrSizeMismatch, gb.Dx(), gb.Dy(), wb.Dx(), wb.Dy())
	}

	diff := Diff{Pixels: gb.Dx() * gb.Dy(), Fingerprint: Fingerprint(got)}
	if diff.Fingerprint == Fingerprint(want) {
		return diff, nil
	}
	var total int
	for y := 0; y < gb.Dy(); y++ {
		for x := 0; x < gb.Dx(); x++ {
			g := got.RGBAAt(gb.Min.X+x, gb.Min.Y+y)
			w := want.RGBAAt(wb.Min.X+x, wb.Min.Y+y)

			worst := 0
			for _, d := range [3]int{absDiff(g.R, w.R), absDiff(g.G, w.G), absDiff(g.B, w.B)} {
				total += d
				worst = max(worst, d)
			}
			diff.MaxChannelDiff = max(diff.MaxChannelDiff, worst)
			if worst > maxDiffPerPixel {
				diff.DifferingPixels++
			}
		}
	}
	if diff.Pixels > 0 {
		diff.MeanAbsDiff = float64(total) / float64(3*diff.Pixels)
	}
	return diff, nil
}

// DiffImage renders the per-pixel worst channel difference as a grayscale image amplified by gain
func DiffImage(got, want *image.RGBA, gain int) (*image.Gray, error) {
	gb, wb := got.Bounds(), want.Bounds()
	if gb.Dx() != wb.Dx() || gb.Dy() != wb.Dy() {
		return nil, fmt.Errorf("%w: got %dx%d, want %dx%d", ErrSizeMismatch, gb.Dx(), gb.Dy(), wb.Dx(), wb.Dy())
	}
	gain = max(1, gain)

	out := image.NewGray(image.Rect(0, 0, gb.Dx(), gb.Dy()))
	for y := 0; y < gb.Dy(); y++ {
		for x := 0; x < gb.Dx(); x++ {
			g := got.RGBAAt(gb.Min.X+x, gb.Min.Y+y)
			w := want.RGBAAt(wb.Min.X+x, wb.Min.Y+y)
			worst := max(absDiff(g.R, w.R), absDiff(g.G, w.G), absDiff(g.B, w.B))
			out.SetGray(x, y, color.Gray{Y: uint8(min(255, worst*gain))})
		}
	}
	return out, nil
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
