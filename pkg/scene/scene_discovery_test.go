package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/chess-pathtracer/pkg/geometry"
)

func writeLayout(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"italian-game", "Italian Game"},
		{"rook_endgame", "Rook Endgame"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			if result := titleCase(tc.input); result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestParseLayoutFile(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		name     string
		content  string
		expected SceneInfo
	}{
		{
			name: "complete.fen",
			content: `# Scene: Scholar's Mate
# Description: Checkmate in four
# Group: Traps

r1bqk1nr/pppp1Qpp/2n5/2b1p3/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq - 0 4`,
			expected: SceneInfo{
				ID:          "layout:complete",
				Name:        "Scholar's Mate",
				Description: "Checkmate in four",
				Group:       "Traps",
				Type:        "layout",
			},
		},
		{
			name:    "no-metadata.fen",
			content: "8/8/8/8/8/8/8/4K3",
			expected: SceneInfo{
				ID:    "layout:no-metadata",
				Name:  "No Metadata",
				Group: "Board Layouts",
				Type:  "layout",
			},
		},
		{
			name:    "blank_values.fen",
			content: "#Scene:\n#Group:\n\n8/8/8/8/8/8/8/4K3\n",
			expected: SceneInfo{
				ID:    "layout:blank_values",
				Name:  "Blank Values",
				Group: "Board Layouts",
				Type:  "layout",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeLayout(t, dir, tc.name, tc.content)

			result, err := ParseLayoutFile(path)
			if err != nil {
				t.Fatalf("ParseLayoutFile() error: %v", err)
			}

			if result.ID != tc.expected.ID {
				t.Errorf("ID = %q, want %q", result.ID, tc.expected.ID)
			}
			if result.Name != tc.expected.Name {
				t.Errorf("Name = %q, want %q", result.Name, tc.expected.Name)
			}
			if result.Description != tc.expected.Description {
				t.Errorf("Description = %q, want %q", result.Description, tc.expected.Description)
			}
			if result.Group != tc.expected.Group {
				t.Errorf("Group = %q, want %q", result.Group, tc.expected.Group)
			}
			if result.Type != tc.expected.Type {
				t.Errorf("Type = %q, want %q", result.Type, tc.expected.Type)
			}
			if result.FilePath != path {
				t.Errorf("FilePath = %q, want %q", result.FilePath, path)
			}
			if _, err := ParseLayout(result.Layout); err != nil {
				t.Errorf("Stored layout does not parse: %v", err)
			}
		})
	}
}

func TestParseLayoutFile_Errors(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		name    string
		content string
	}{
		{"only-comments.fen", "# Scene: Nothing\n"},
		{"bad-placement.fen", "# Scene: Broken\n8/8/8\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeLayout(t, dir, tc.name, tc.content)
			if _, err := ParseLayoutFile(path); err == nil {
				t.Error("Expected error")
			}
		})
	}

	if _, err := ParseLayoutFile(filepath.Join(dir, "missing.fen")); err == nil {
		t.Error("Expected error for a missing file")
	}
}

func TestListLayoutScenes(t *testing.T) {
	dir := t.TempDir()
	writeLayout(t, dir, "zeta.fen", "8/8/8/8/8/8/8/4K3")
	writeLayout(t, dir, "alpha.fen", "8/8/8/8/8/8/8/4k3")
	writeLayout(t, dir, "notes.txt", "not a layout")

	scenes, err := ListLayoutScenes(dir)
	if err != nil {
		t.Fatalf("ListLayoutScenes() error: %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("Found %d scenes, want 2", len(scenes))
	}
	if scenes[0].Name != "Alpha" || scenes[1].Name != "Zeta" {
		t.Errorf("Scenes not sorted by name: %q, %q", scenes[0].Name, scenes[1].Name)
	}

	missing, err := ListLayoutScenes(filepath.Join(dir, "does-not-exist"))
	if err != nil || missing == nil || len(missing) != 0 {
		t.Errorf("Missing directory should give an empty list, got %v, %v", missing, err)
	}
}

func TestListAllScenes(t *testing.T) {
	dir := t.TempDir()
	writeLayout(t, dir, "endgame.fen", "# Group: Endgames\n8/8/8/4k3/8/8/8/R3K3")
	writeLayout(t, dir, "opening.fen", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR")

	response, err := ListAllScenes(dir)
	if err != nil {
		t.Fatalf("ListAllScenes() error: %v", err)
	}

	wantGroups := []string{"Built-in Scenes", "Board Layouts", "Endgames"}
	if len(response.Groups) != len(wantGroups) {
		t.Fatalf("Got %d groups, want %d", len(response.Groups), len(wantGroups))
	}
	for i, name := range wantGroups {
		if response.Groups[i].Name != name {
			t.Errorf("Group %d = %q, want %q", i, response.Groups[i].Name, name)
		}
	}

	ids := make(map[string]bool)
	for _, s := range response.Groups[0].Scenes {
		ids[s.ID] = true
	}
	for _, id := range []string{"chess", "full-board", "board", "triangle"} {
		if !ids[id] {
			t.Errorf("Missing built-in scene %s", id)
		}
	}
}

func TestFindSceneAndBuild(t *testing.T) {
	dir := t.TempDir()
	writeLayout(t, dir, "endgame.fen", "8/8/8/4k3/8/8/8/R3K3")

	testCases := []struct {
		id         string
		primitives int
	}{
		{"triangle", 1},
		{"board", 130},
		{"chess", 135},
		{"layout:endgame", 133},
	}

	for _, tc := range testCases {
		t.Run(tc.id, func(t *testing.T) {
			info, err := FindScene(tc.id, dir)
			if err != nil {
				t.Fatalf("FindScene() error: %v", err)
			}
			s, err := info.Build(DefaultChessOptions())
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			if s.GetPrimitiveCount() != tc.primitives {
				t.Errorf("Primitive count = %d, want %d", s.GetPrimitiveCount(), tc.primitives)
			}
			if s.Index == nil {
				t.Error("Scene was not preprocessed")
			}
		})
	}

	if _, err := FindScene("cornell-box", dir); err == nil {
		t.Error("Expected error for an unknown scene")
	}
}

func TestTriangleCamera(t *testing.T) {
	cfg := triangleCamera(geometry.DefaultCameraConfig())
	if _, err := geometry.NewCamera(cfg); err != nil {
		t.Errorf("Triangle camera is degenerate: %v", err)
	}
	if cfg.AspectRatio != geometry.DefaultCameraConfig().AspectRatio {
		t.Error("Aspect ratio should carry over")
	}
}
