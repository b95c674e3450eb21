package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/df07/chess-pathtracer/pkg/core"
	"github.com/df07/chess-pathtracer/pkg/loaders"
	"github.com/df07/chess-pathtracer/pkg/renderer"
	"github.com/df07/chess-pathtracer/pkg/scene"
)

type cliOptions struct {
	Scene       string
	Layout      string
	ModelsDir   string
	ScenesDir   string
	Width       int
	Height      int
	SqrtSamples int
	MaxDepth    int
	Workers     int
	Seed        int64
	Output      string
	Preview     bool
	Frames      int
	Spin        float64
	FPS         int
	FlipWinding bool
	Flat        bool
	List        bool
}

func parseFlags(args []string, output io.Writer) (cliOptions, error) {
	defaults := scene.DefaultSamplingConfig()
	var opts cliOptions

	fs := flag.NewFlagSet("chess-pathtracer", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.Scene, "scene", "chess", "Scene ID: chess, full-board, board, triangle, or layout:<name>")
	fs.StringVar(&opts.Layout, "layout", "", "FEN piece placement overriding the scene's layout")
	fs.StringVar(&opts.ModelsDir, "models", "models", "Directory of piece models (king.obj, queen.glb, ...)")
	fs.StringVar(&opts.ScenesDir, "scenes", "scenes", "Directory of .fen layout scenes")
	fs.IntVar(&opts.Width, "width", defaults.Width, "Image width")
	fs.IntVar(&opts.Height, "height", defaults.Height, "Image height")
	fs.IntVar(&opts.SqrtSamples, "samples", defaults.SqrtSamples, "Square root of samples per pixel")
	fs.IntVar(&opts.MaxDepth, "depth", defaults.MaxDepth, "Maximum ray bounces")
	fs.IntVar(&opts.Workers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	fs.Int64Var(&opts.Seed, "seed", renderer.DefaultConfig().Seed, "Random seed")
	fs.StringVar(&opts.Output, "output", "", "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	fs.BoolVar(&opts.Preview, "preview", false, "Show each finished frame in the terminal")
	fs.IntVar(&opts.Frames, "frames", 1, "Number of turntable frames to render")
	fs.Float64Var(&opts.Spin, "spin", 12, "Initial turntable speed in degrees per frame")
	fs.IntVar(&opts.FPS, "fps", 30, "Frame rate the turntable spring is tuned for")
	fs.BoolVar(&opts.FlipWinding, "flip-winding", false, "Reverse the face winding of loaded models")
	fs.BoolVar(&opts.Flat, "flat", false, "Use face normals on piece meshes")
	fs.BoolVar(&opts.List, "list", false, "List available scenes and exit")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	switch {
	case opts.Width <= 0 || opts.Height <= 0:
		return opts, fmt.Errorf("invalid resolution %dx%d", opts.Width, opts.Height)
	case opts.SqrtSamples <= 0:
		return opts, fmt.Errorf("samples must be positive, got %d", opts.SqrtSamples)
	case opts.MaxDepth <= 0:
		return opts, fmt.Errorf("depth must be positive, got %d", opts.MaxDepth)
	case opts.Frames <= 0:
		return opts, fmt.Errorf("frames must be positive, got %d", opts.Frames)
	case opts.FPS <= 0:
		return opts, fmt.Errorf("fps must be positive, got %d", opts.FPS)
	}
	return opts, nil
}

// createScene builds the selected scene with every piece turned by rotation degrees
func createScene(opts cliOptions, models *scene.ModelLibrary, rotation float64) (*scene.Scene, error) {
	info, err := scene.FindScene(opts.Scene, opts.ScenesDir)
	if err != nil {
		return nil, err
	}

	chess := scene.DefaultChessOptions()
	chess.Models = models
	chess.Rotation = rotation
	chess.Smooth = !opts.Flat
	chess.Camera.AspectRatio = float64(opts.Width) / float64(opts.Height)

	if opts.Layout != "" {
		layout, err := scene.ParseLayout(opts.Layout)
		if err != nil {
			return nil, err
		}
		info = scene.SceneInfo{ID: "custom", Name: "Custom Layout", Type: "layout", Layout: opts.Layout}
		chess.Layout = layout
	}

	s, err := info.Build(chess)
	if err != nil {
		return nil, err
	}

	s.SamplingConfig = scene.SamplingConfig{
		Width:       opts.Width,
		Height:      opts.Height,
		SqrtSamples: opts.SqrtSamples,
		MaxDepth:    opts.MaxDepth,
	}
	return s, nil
}

// outputPath returns the PNG path for a frame; sequences get a frame number suffix
func outputPath(base, sceneName string, frame, frames int, timestamp string) string {
	if base == "" {
		base = filepath.Join("output", sanitize(sceneName), fmt.Sprintf("render_%s.png", timestamp))
	}
	if frames <= 1 {
		return base
	}
	ext := filepath.Ext(base)
	return fmt.Sprintf("%s_%04d%s", base[:len(base)-len(ext)], frame, ext)
}

func sanitize(name string) string {
	out := []rune(name)
	for i, r := range out {
		if r == ':' || r == '/' || r == '\\' {
			out[i] = '_'
		}
	}
	return string(out)
}

func listScenes(w io.Writer, scenesDir string) error {
	response, err := scene.ListAllScenes(scenesDir)
	if err != nil {
		return err
	}
	for _, group := range response.Groups {
		fmt.Fprintf(w, "%s:\n", group.Name)
		for _, s := range group.Scenes {
			fmt.Fprintf(w, "  %-20s %s\n", s.ID, s.Description)
		}
	}
	return nil
}

// terminalPreview opens the alternate screen the way an interactive viewer does
type terminalPreview struct {
	term *uv.Terminal
	sink *renderer.TerminalSink
}

func openTerminalPreview() (*terminalPreview, error) {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return nil, fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return nil, fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	return &terminalPreview{
		term: term,
		sink: renderer.NewTerminalSink(term, width, height, term.Display),
	}, nil
}

// waitForKey blocks until a key is pressed or ctx is done
func (p *terminalPreview) waitForKey(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-p.term.Events():
			if !ok {
				return
			}
			if _, pressed := ev.(uv.KeyPressEvent); pressed {
				return
			}
		}
	}
}

func (p *terminalPreview) Close() {
	p.term.ExitAltScreen()
	p.term.ShowCursor()
	p.term.Shutdown(context.Background())
}

func run(ctx context.Context, opts cliOptions, logger core.Logger) error {
	models := scene.NewModelLibrary(opts.ModelsDir)
	models.Options = loaders.MeshOptions{FlipWinding: opts.FlipWinding}

	turntable := scene.NewTurntable(opts.FPS)
	if opts.Frames > 1 {
		turntable.Impulse(opts.Spin)
	}
	angles := turntable.Angles(opts.Frames)

	var preview *terminalPreview
	if opts.Preview {
		var err error
		preview, err = openTerminalPreview()
		if err != nil {
			return err
		}
		defer preview.Close()
	}

	timestamp := time.Now().Format("20060102_150405")
	for frame, angle := range angles {
		s, err := createScene(opts, models, angle)
		if err != nil {
			return err
		}

		path := outputPath(opts.Output, s.Name, frame, opts.Frames, timestamp)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}

		sinks := []renderer.Sink{renderer.PNGSink{Path: path}}
		if preview != nil {
			sinks = append(sinks, preview.sink)
		} else {
			logger.Printf("Frame %d/%d (rotation %.1f°)\n", frame+1, opts.Frames, angle)
		}

		raytracer := renderer.NewRaytracer(s, renderer.Config{
			NumWorkers: opts.Workers,
			TileSize:   renderer.DefaultConfig().TileSize,
			Seed:       opts.Seed,
		}, previewLogger(preview, logger))

		if _, _, err := raytracer.Render(ctx, sinks...); err != nil {
			return err
		}
		if preview == nil {
			logger.Printf("Render saved as %s\n", path)
		}
	}

	if preview != nil {
		preview.waitForKey(ctx)
	}
	return nil
}

// previewLogger silences progress output while the terminal shows the image
func previewLogger(preview *terminalPreview, logger core.Logger) core.Logger {
	if preview != nil {
		return nil
	}
	return logger
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if opts.List {
		if err := listScenes(os.Stdout, opts.ScenesDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts, renderer.NewDefaultLogger()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
