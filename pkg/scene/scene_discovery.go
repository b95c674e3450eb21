package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/chess-pathtracer/pkg/geometry"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "layout"
	FilePath    string `json:"filePath"`    // Path to layout file (layout type only)
	Layout      string `json:"layout"`      // Piece placement (layout type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const (
	builtinGroup = "Built-in Scenes"
	layoutGroup  = "Board Layouts"
)

// BuiltinScenes lists the scenes that need no files on disk
var BuiltinScenes = []SceneInfo{
	{ID: "chess", Name: "Chess", Description: "Showcase layout with one piece per material", Group: builtinGroup, Type: "builtin"},
	{ID: "full-board", Name: "Full Board", Description: "Starting position of a game", Group: builtinGroup, Type: "builtin"},
	{ID: "board", Name: "Empty Board", Description: "Chessboard without pieces", Group: builtinGroup, Type: "builtin"},
	{ID: "triangle", Name: "Single Triangle", Description: "One diffuse triangle under the distant light", Group: builtinGroup, Type: "builtin"},
}

// ListLayoutScenes scans dir for .fen layout files
func ListLayoutScenes(dir string) ([]SceneInfo, error) {
	if dir == "" {
		return []SceneInfo{}, nil
	}
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.fen"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		info, err := ParseLayoutFile(filePath)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// ParseLayoutFile reads a layout file: optional "# Key: value" header comments followed by
// a FEN piece placement line.
func ParseLayoutFile(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	info := SceneInfo{
		ID:       "layout:" + nameWithoutExt,
		Name:     titleCase(nameWithoutExt),
		Group:    layoutGroup,
		Type:     "layout",
		FilePath: filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return info, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
			key, value, ok := strings.Cut(content, ":")
			if !ok {
				continue
			}
			value = strings.TrimSpace(value)
			switch strings.TrimSpace(key) {
			case "Scene":
				if value != "" {
					info.Name = value
				}
			case "Description":
				info.Description = value
			case "Group":
				if value != "" {
					info.Group = value
				}
			}
			continue
		}

		if _, err := ParseLayout(line); err != nil {
			return info, fmt.Errorf("%s: %w", filePath, err)
		}
		info.Layout = line
		break
	}
	if err := scanner.Err(); err != nil {
		return info, err
	}
	if info.Layout == "" {
		return info, fmt.Errorf("%s: no piece placement: %w", filePath, ErrInvalidLayout)
	}
	return info, nil
}

// ListAllScenes returns built-in and layout scenes, grouped by category
func ListAllScenes(layoutDir string) (ScenesResponse, error) {
	var response ScenesResponse

	layouts, err := ListLayoutScenes(layoutDir)
	if err != nil {
		return response, fmt.Errorf("failed to list layout scenes: %w", err)
	}

	allScenes := append(append([]SceneInfo{}, BuiltinScenes...), layouts...)

	groupMap := make(map[string][]SceneInfo)
	for _, s := range allScenes {
		groupMap[s.Group] = append(groupMap[s.Group], s)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for name := range groupMap {
		if name != builtinGroup {
			groupNames = append(groupNames, name)
		}
	}
	sort.Strings(groupNames)

	response.Groups = append(response.Groups, SceneGroup{Name: builtinGroup, Scenes: groupMap[builtinGroup]})
	for _, name := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{Name: name, Scenes: groupMap[name]})
	}
	return response, nil
}

// FindScene looks up a scene by ID among the built-in scenes and the layouts in layoutDir
func FindScene(id, layoutDir string) (SceneInfo, error) {
	for _, s := range BuiltinScenes {
		if s.ID == id {
			return s, nil
		}
	}

	if name, ok := strings.CutPrefix(id, "layout:"); ok && layoutDir != "" {
		return ParseLayoutFile(filepath.Join(layoutDir, name+".fen"))
	}
	return SceneInfo{}, fmt.Errorf("unknown scene %q", id)
}

// Build constructs the scene described by info. The layout in opts is replaced for
// layout scenes and for the full board.
func (info SceneInfo) Build(opts ChessOptions) (*Scene, error) {
	switch {
	case info.Type == "layout":
		layout, err := ParseLayout(info.Layout)
		if err != nil {
			return nil, err
		}
		opts.Layout = layout
		s, err := NewChessScene(opts)
		if err != nil {
			return nil, err
		}
		s.Name = info.ID
		return s, nil
	case info.ID == "chess":
		return NewChessScene(opts)
	case info.ID == "full-board":
		opts.Layout = FullLayout()
		s, err := NewChessScene(opts)
		if err != nil {
			return nil, err
		}
		s.Name = info.ID
		return s, nil
	case info.ID == "board":
		return NewBoardScene(opts)
	case info.ID == "triangle":
		return NewTriangleScene(triangleCamera(opts.Camera))
	}
	return nil, fmt.Errorf("scene %q has no builder", info.ID)
}

// triangleCamera looks straight down on the triangle scene, keeping the aspect settings
func triangleCamera(base geometry.CameraConfig) geometry.CameraConfig {
	cfg := base
	cfg.Position.X, cfg.Position.Y, cfg.Position.Z = 3, 10, 3
	cfg.LookAt.X, cfg.LookAt.Y, cfg.LookAt.Z = 3, 0, 3
	cfg.Up.X, cfg.Up.Y, cfg.Up.Z = 0, 0, -1
	return cfg
}

// titleCase converts a filename-style string to title case
// e.g., "queens-gambit" -> "Queens Gambit"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}
	return strings.Join(words, " ")
}
