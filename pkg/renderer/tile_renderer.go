package renderer

import (
	"image"
	"math"
	"math/rand"

	"github.com/df07/raytrace-testing/pkg/core"
	"github.com/df07/raytrace-testing/pkg/integrator"
	"github.com/df07/raytrace-testing/pkg/scene"
)

// Tile is a rectangular region of the image rendered by one worker
type Tile struct {
	ID     int
	Bounds image.Rectangle
}

// NewTileGrid splits a width x height image into tiles of at most tileSize pixels per side, row by row
func NewTileGrid(width, height, tileSize int) []Tile {
	if tileSize <= 0 {
		tileSize = max(width, height)
	}
	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	tiles := make([]Tile, 0, tilesX*tilesY)
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			x0, y0 := tx*tileSize, ty*tileSize
			tiles = append(tiles, Tile{
				ID:     len(tiles),
				Bounds: image.Rect(x0, y0, min(x0+tileSize, width), min(y0+tileSize, height)),
			})
		}
	}
	return tiles
}

// TileRenderer traces the pixels of individual tiles with an integrator
type TileRenderer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	width      int
	height     int
}

// NewTileRenderer creates a tile renderer for a width x height image of the scene
func NewTileRenderer(s *scene.Scene, integ integrator.Integrator, width, height int) *TileRenderer {
	return &TileRenderer{scene: s, integrator: integ, width: width, height: height}
}

// RenderTile takes samples jittered samples for every pixel inside tile.
// pixels is indexed [y][x] over the whole image; only the tile's region is written.
func (tr *TileRenderer) RenderTile(tile Tile, pixels [][]PixelStats, random *rand.Rand, samples int) RenderStats {
	sampler := core.NewRandomSampler(random)
	camera := tr.scene.Camera

	stats := RenderStats{
		TotalPixels: tile.Bounds.Dx() * tile.Bounds.Dy(),
		MaxSamples:  samples,
		Tiles:       1,
	}

	for j := tile.Bounds.Min.Y; j < tile.Bounds.Max.Y; j++ {
		for i := tile.Bounds.Min.X; i < tile.Bounds.Max.X; i++ {
			ps := &pixels[j][i]
			for n := 0; n < samples; n++ {
				// Image rows run top to bottom, camera t runs bottom to top
				s := (float64(i) + random.Float64()) / float64(tr.width)
				t := 1 - (float64(j)+random.Float64())/float64(tr.height)

				ray := camera.GetRay(s, t, sampler.Get2D())
				color := tr.integrator.RayColor(ray, tr.scene, sampler)
				if !finite(color) {
					stats.DroppedSamples++
					continue
				}
				ps.AddSample(color)
				stats.TotalSamples++
			}
		}
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	return stats
}

func finite(v core.Vec3) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
