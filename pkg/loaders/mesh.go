package loaders

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/chess-pathtracer/pkg/core"
)

var (
	// ErrNonTriangularFace is returned when a model contains a face that is not a triangle
	ErrNonTriangularFace = errors.New("face is not a triangle")
	// ErrUnsupportedFormat is returned for model files with an unknown extension
	ErrUnsupportedFormat = errors.New("unsupported model format")
)

// MeshData contains the raw geometry loaded from a model file
type MeshData struct {
	Vertices []core.Vec3 // Vertex positions
	Faces    [][3]int    // 0-based triangle indices
}

// MeshOptions controls how model files are interpreted
type MeshOptions struct {
	FlipWinding bool // Swap the first two indices of every face
}

// SupportedExtensions lists the model file extensions LoadMesh understands
var SupportedExtensions = []string{".obj", ".glb", ".gltf", ".ply"}

// LoadMesh loads a model file, choosing the format from its extension
func LoadMesh(filename string, opts MeshOptions) (*MeshData, error) {
	var (
		data *MeshData
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".obj":
		data, err = LoadOBJ(filename)
	case ".glb", ".gltf":
		data, err = LoadGLTF(filename)
	case ".ply":
		data, err = LoadPLY(filename)
	default:
		return nil, fmt.Errorf("%s: %w", filename, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, err
	}

	if opts.FlipWinding {
		data.FlipWinding()
	}
	return data, nil
}

// FlipWinding reverses the orientation of every face
func (m *MeshData) FlipWinding() {
	for i, f := range m.Faces {
		m.Faces[i] = [3]int{f[1], f[0], f[2]}
	}
}

// validate checks that every face index refers to a loaded vertex
func (m *MeshData) validate() error {
	for i, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(m.Vertices) {
				return fmt.Errorf("face %d: vertex index %d out of range [0,%d)", i, idx, len(m.Vertices))
			}
		}
	}
	return nil
}
