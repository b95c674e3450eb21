package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/df07/chess-pathtracer/pkg/core"
	"github.com/df07/chess-pathtracer/pkg/loaders"
	"github.com/df07/chess-pathtracer/pkg/renderer"
	"github.com/df07/chess-pathtracer/pkg/scene"
)

const (
	defaultWidth   = 480
	defaultHeight  = 270
	defaultSeed    = 42
	minSize        = 16
	maxSize        = 2000
	maxSqrtSamples = 16
	maxDepth       = 100
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene       string  `json:"scene"`       // Scene ID (e.g., "chess", "layout:opening")
	Layout      string  `json:"layout"`      // Optional FEN placement overriding the scene's layout
	Width       int     `json:"width"`       // Image width
	Height      int     `json:"height"`      // Image height
	SqrtSamples int     `json:"sqrtSamples"` // Square root of samples per pixel
	MaxDepth    int     `json:"maxDepth"`    // Maximum ray bounces
	Seed        int64   `json:"seed"`        // Random seed
	Rotation    float64 `json:"rotation"`    // Degrees every piece is turned
	Flat        bool    `json:"flat"`        // Use face normals on piece meshes
}

// Stats represents render statistics
type Stats struct {
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int64   `json:"totalSamples"`
	AverageSamples   float64 `json:"averageSamples"`
	MinSamples       int     `json:"minSamples"`
	MaxSamplesUsed   int     `json:"maxSamplesUsed"`
	AverageLuminance float64 `json:"averageLuminance"`
	AverageVariance  float64 `json:"averageVariance"`
}

// RenderResult is the payload of the "complete" event of a streamed render
type RenderResult struct {
	Scene     string `json:"scene"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

type renderOutcome struct {
	img   *image.RGBA
	stats renderer.RenderStats
	err   error
}

// handleRender renders a frame and responds with the PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	sceneObj, status, err := s.buildScene(req)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	logger := NewWebLogger(newRenderID(), nil)
	img, stats, err := s.newRaytracer(sceneObj, req, logger).Render(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	var buf bytes.Buffer
	if err := loaders.WritePNG(&buf, img); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to encode image: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Samples", fmt.Sprintf("%d", stats.TotalSamples))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("Error writing image: %v", err)
	}
}

// handleRenderStream renders a frame while streaming the render log via SSE. The
// finished image arrives in a final "complete" event.
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	s.setSSEHeaders(w)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	consoleChan, logger := s.setupConsoleLogging()

	sceneObj, _, err := s.buildScene(req)
	if err != nil {
		s.sendSSEEvent(w, "error", err.Error())
		return
	}

	done := make(chan renderOutcome, 1)
	startTime := time.Now()
	go func() {
		img, stats, err := s.newRaytracer(sceneObj, req, logger).Render(ctx)
		done <- renderOutcome{img: img, stats: stats, err: err}
	}()

	// Everything below runs on the handler goroutine, the only writer of w
	for {
		select {
		case msg := <-consoleChan:
			s.sendConsoleMessage(w, msg)

		case outcome := <-done:
			s.drainConsole(w, consoleChan)
			if outcome.err != nil {
				s.sendSSEEvent(w, "error", fmt.Sprintf("Rendering failed: %v", outcome.err))
				return
			}
			s.sendComplete(w, req, outcome, time.Since(startTime))
			return

		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) sendComplete(w http.ResponseWriter, req *RenderRequest, outcome renderOutcome, elapsed time.Duration) {
	imageData, err := s.imageToBase64PNG(outcome.img)
	if err != nil {
		s.sendSSEEvent(w, "error", fmt.Sprintf("Failed to encode image: %v", err))
		return
	}

	result := RenderResult{
		Scene:     req.Scene,
		Width:     req.Width,
		Height:    req.Height,
		ImageData: imageData,
		Stats: Stats{
			TotalPixels:      outcome.stats.TotalPixels,
			TotalSamples:     int64(outcome.stats.TotalSamples),
			AverageSamples:   outcome.stats.AverageSamples,
			MinSamples:       outcome.stats.MinSamples,
			MaxSamplesUsed:   outcome.stats.MaxSamplesUsed,
			AverageLuminance: outcome.stats.AverageLuminance,
			AverageVariance:  outcome.stats.AverageVariance,
		},
		ElapsedMs: elapsed.Milliseconds(),
	}

	data, err := json.Marshal(result)
	if err != nil {
		s.sendSSEEvent(w, "error", fmt.Sprintf("Failed to encode result: %v", err))
		return
	}
	s.sendSSEEvent(w, "complete", string(data))
}

func (s *Server) sendConsoleMessage(w http.ResponseWriter, msg ConsoleMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling console message: %v", err)
		return
	}
	s.sendSSEEvent(w, "console", string(data))
}

// drainConsole forwards console messages still buffered when the render finishes
func (s *Server) drainConsole(w http.ResponseWriter, consoleChan <-chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			s.sendConsoleMessage(w, msg)
		default:
			return
		}
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	return consoleChan, NewWebLogger(newRenderID(), consoleChan)
}

// sendSSEEvent writes a single SSE event and flushes it
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

// parseRenderRequest parses and validates the query parameters of a render
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	defaults := scene.DefaultSamplingConfig()

	req := &RenderRequest{
		Scene:  query.Get("scene"),
		Layout: query.Get("layout"),
		Flat:   query.Get("flat") == "true",
	}
	if req.Scene == "" {
		req.Scene = "chess"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", defaultWidth, minSize, maxSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", defaultHeight, minSize, maxSize); err != nil {
		return nil, err
	}
	if req.SqrtSamples, err = parseIntParam(query, "sqrtSamples", defaults.SqrtSamples, 1, maxSqrtSamples); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", defaults.MaxDepth, 1, maxDepth); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(query, "seed", defaultSeed, 0, math.MaxInt32)
	if err != nil {
		return nil, err
	}
	req.Seed = int64(seed)
	if req.Rotation, err = parseFloatParam(query, "rotation", 0, -360, 360); err != nil {
		return nil, err
	}

	if req.Width*req.Height > 1280*720 && req.SqrtSamples > 8 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}
	return req, nil
}

// buildScene constructs the requested scene. The returned status tells client mistakes
// (unknown scene, bad layout) apart from failures while building.
func (s *Server) buildScene(req *RenderRequest) (*scene.Scene, int, error) {
	info, err := scene.FindScene(req.Scene, s.scenesDir)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	opts := scene.DefaultChessOptions()
	opts.Models = s.models
	opts.Rotation = req.Rotation
	opts.Smooth = !req.Flat
	opts.Camera.AspectRatio = float64(req.Width) / float64(req.Height)

	if req.Layout != "" {
		layout, err := scene.ParseLayout(req.Layout)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		info = scene.SceneInfo{ID: "custom", Name: "Custom Layout", Type: "layout", Layout: req.Layout}
		opts.Layout = layout
	}

	sceneObj, err := info.Build(opts)
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to build scene %s: %w", info.ID, err)
	}

	sceneObj.SamplingConfig = scene.SamplingConfig{
		Width:       req.Width,
		Height:      req.Height,
		SqrtSamples: req.SqrtSamples,
		MaxDepth:    req.MaxDepth,
	}
	return sceneObj, http.StatusOK, nil
}

func (s *Server) newRaytracer(sceneObj *scene.Scene, req *RenderRequest, logger core.Logger) *renderer.Raytracer {
	config := renderer.DefaultConfig()
	config.Seed = req.Seed
	return renderer.NewRaytracer(sceneObj, config, logger)
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := loaders.WritePNG(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func newRenderID() string {
	return fmt.Sprintf("render-%d", time.Now().UnixNano())
}

