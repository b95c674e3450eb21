package server

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/chess-pathtracer/pkg/scene"
)

// Server handles web requests for the chess path tracer
type Server struct {
	port      int
	scenesDir string
	models    *scene.ModelLibrary
}

// NewServer creates a new web server. Piece models are loaded from modelsDir and
// shared between requests.
func NewServer(port int, scenesDir, modelsDir string) *Server {
	return &Server{
		port:      port,
		scenesDir: scenesDir,
		models:    scene.NewModelLibrary(modelsDir),
	}
}

// Handler returns the routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/render-stream", s.handleRenderStream)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes and the layout files in the scenes directory
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to list scenes: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleSceneConfig returns the default render settings for a scene with their limits
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
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

	defaults := scene.DefaultSamplingConfig()
	response := map[string]interface{}{
		"scene":      req.Scene,
		"primitives": sceneObj.GetPrimitiveCount(),
		"triangles":  sceneObj.GetTriangleCount(),
		"defaults": map[string]interface{}{
			"width":       defaultWidth,
			"height":      defaultHeight,
			"sqrtSamples": defaults.SqrtSamples,
			"maxDepth":    defaults.MaxDepth,
			"seed":        defaultSeed,
		},
		"limits": map[string]interface{}{
			"width":       map[string]int{"min": minSize, "max": maxSize},
			"height":      map[string]int{"min": minSize, "max": maxSize},
			"sqrtSamples": map[string]int{"min": 1, "max": maxSqrtSamples},
			"maxDepth":    map[string]int{"min": 1, "max": maxDepth},
			"rotation":    map[string]float64{"min": -360, "max": 360},
		},
	}
	writeJSON(w, http.StatusOK, response)
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
