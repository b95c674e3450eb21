package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/chess-pathtracer/pkg/core"
	"github.com/df07/chess-pathtracer/pkg/geometry"
	"github.com/df07/chess-pathtracer/pkg/integrator"
	"github.com/df07/chess-pathtracer/pkg/material"
	"github.com/df07/chess-pathtracer/pkg/scene"
)

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID      int             // Unique tile identifier
	Bounds  image.Rectangle // Pixel bounds in image coordinates, row 0 at the top
	Sampler core.Sampler    // Tile-specific random source for deterministic results
}

// NewTile creates a tile whose sampler is seeded from the frame seed and tile ID
func NewTile(id int, bounds image.Rectangle, seed int64) *Tile {
	return &Tile{
		ID:      id,
		Bounds:  bounds,
		Sampler: core.NewSeededSampler(seed + int64(id)),
	}
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int, seed int64) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1), seed))
			tileID++
		}
	}

	return tiles
}

// TileRenderer casts the camera rays for one region of the image. It only reads the
// scene, so one instance may serve every worker.
type TileRenderer struct {
	camera     *geometry.Camera
	world      integrator.World
	integrator integrator.Integrator
	sampling   scene.SamplingConfig
}

// NewTileRenderer creates a tile renderer for a preprocessed scene
func NewTileRenderer(s *scene.Scene, integ integrator.Integrator) *TileRenderer {
	return &TileRenderer{
		camera:     s.Camera,
		world:      s,
		integrator: integ,
		sampling:   s.SamplingConfig,
	}
}

// RenderTileBounds renders every pixel within bounds into pixelStats
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler) RenderStats {
	n := max(1, tr.sampling.SqrtSamples)
	stats := RenderStats{
		MaxSamples: n * n,
		MinSamples: n * n,
	}
	varianceSum := 0.0

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ps := &pixelStats[y][x]
			before := ps.SampleCount
			tr.samplePixel(x, y, n, ps, sampler)

			used := ps.SampleCount - before
			stats.TotalPixels++
			stats.TotalSamples += used
			stats.MinSamples = min(stats.MinSamples, used)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, used)
			varianceSum += ps.Variance()
		}
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
		stats.AverageVariance = varianceSum / float64(stats.TotalPixels)
	}
	return stats
}

// samplePixel casts n×n stratified rays through pixel (x, y). Image row 0 is the top,
// camera row 0 is the bottom of the screen.
func (tr *TileRenderer) samplePixel(x, y, n int, ps *PixelStats, sampler core.Sampler) {
	width := float64(tr.sampling.Width)
	height := float64(tr.sampling.Height)
	row := float64(tr.sampling.Height - 1 - y)
	strata := float64(n)

	for sy := 0; sy < n; sy++ {
		for sx := 0; sx < n; sx++ {
			jitter := sampler.Get2D()
			xNorm := (float64(x)+(float64(sx)+jitter.X)/strata)/width - 0.5
			yNorm := (row+(float64(sy)+jitter.Y)/strata)/height - 0.5

			ray := tr.camera.GetRay(xNorm, yNorm)
			ps.AddSample(tr.integrator.RayColor(ray, tr.world, material.NewDepth(tr.sampling.MaxDepth), sampler))
		}
	}
}

// vec3ToColor maps linear radiance to display range, clamping to [0, 255]
func vec3ToColor(c core.Vec3, displayMax float64) color.RGBA {
	scaled := c.Multiply(displayMax)
	return color.RGBA{
		R: toByte(scaled.X),
		G: toByte(scaled.Y),
		B: toByte(scaled.Z),
		A: 255,
	}
}

func toByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
