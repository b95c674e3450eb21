package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/df07/chess-pathtracer/pkg/core"
	"github.com/df07/chess-pathtracer/pkg/integrator"
	"github.com/df07/chess-pathtracer/pkg/scene"
)

// ErrSceneNotPreprocessed is returned when rendering a scene whose index was never built
var ErrSceneNotPreprocessed = errors.New("scene has not been preprocessed")

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

type discardLogger struct{}

func (discardLogger) Printf(string, ...interface{}) {}

// Config contains the parallelism settings of a render
type Config struct {
	NumWorkers int   // Number of parallel workers (0 = use CPU count)
	TileSize   int   // Edge length of the square tiles handed to workers
	Seed       int64 // Base seed; every tile derives its own sampler from it
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		NumWorkers: 0,
		TileSize:   32,
		Seed:       42,
	}
}

// Raytracer renders frames of a scene
type Raytracer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	config     Config
	logger     core.Logger
}

// NewRaytracer creates a raytracer using the scene's light and integrator settings
func NewRaytracer(s *scene.Scene, config Config, logger core.Logger) *Raytracer {
	return NewRaytracerWithIntegrator(s, integrator.NewPathTracingIntegrator(s.IntegratorConfig, s.Light), config, logger)
}

// NewRaytracerWithIntegrator creates a raytracer with a custom integrator
func NewRaytracerWithIntegrator(s *scene.Scene, integ integrator.Integrator, config Config, logger core.Logger) *Raytracer {
	if config.TileSize <= 0 {
		config.TileSize = DefaultConfig().TileSize
	}
	if logger == nil {
		logger = discardLogger{}
	}
	return &Raytracer{
		scene:      s,
		integrator: integ,
		config:     config,
		logger:     logger,
	}
}

// Render traces every pixel of the frame, waits for all workers, and then hands the
// finished image to each sink in order.
func (rt *Raytracer) Render(ctx context.Context, sinks ...Sink) (*image.RGBA, RenderStats, error) {
	if rt.scene.Index == nil {
		return nil, RenderStats{}, ErrSceneNotPreprocessed
	}
	sampling := rt.scene.SamplingConfig
	if sampling.Width <= 0 || sampling.Height <= 0 {
		return nil, RenderStats{}, fmt.Errorf("invalid resolution %dx%d", sampling.Width, sampling.Height)
	}

	start := time.Now()
	width, height := sampling.Width, sampling.Height

	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	tiles := NewTileGrid(width, height, rt.config.TileSize, rt.config.Seed)
	pool := NewWorkerPool(NewTileRenderer(rt.scene, rt.integrator), rt.config.NumWorkers, len(tiles))

	rt.logger.Printf("Rendering %s: %dx%d, %d samples/pixel, depth %d, %d primitives (%d triangles), %d workers\n",
		rt.scene.Name, width, height, sampling.SamplesPerPixel(), sampling.MaxDepth,
		rt.scene.GetPrimitiveCount(), rt.scene.GetTriangleCount(), pool.GetNumWorkers())

	pool.Start(ctx)
	for i, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, TaskID: i, PixelStats: pixelStats})
	}

	var (
		stats    RenderStats
		firstErr error
	)
	for range tiles {
		result, ok := pool.GetResult()
		if !ok {
			firstErr = fmt.Errorf("worker pool closed unexpectedly")
			break
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}
		stats.merge(result.Stats)
	}
	pool.Stop()

	if firstErr != nil {
		return nil, RenderStats{}, firstErr
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	displayMax := rt.scene.IntegratorConfig.DisplayMax
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, vec3ToColor(pixelStats[y][x].GetColor(), displayMax))
		}
	}
	stats.AverageLuminance = CalculateAverageLuminance(img)

	rt.logger.Printf("Rendered %s in %v (%d samples, average luminance %.3f)\n",
		rt.scene.Name, time.Since(start).Round(time.Millisecond), stats.TotalSamples, stats.AverageLuminance)

	for _, sink := range sinks {
		if err := sink.Present(img); err != nil {
			return img, stats, fmt.Errorf("presenting frame: %w", err)
		}
	}
	return img, stats, nil
}
