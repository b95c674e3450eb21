package scene

import (
	"fmt"

	"github.com/df07/chess-pathtracer/pkg/core"
	"github.com/df07/chess-pathtracer/pkg/geometry"
	"github.com/df07/chess-pathtracer/pkg/material"
)

// ChessOptions configures the chess scene
type ChessOptions struct {
	Layout    Layout
	Materials MaterialTable
	Models    *ModelLibrary
	Rotation  float64 // Degrees every piece is turned about its own base
	Camera    geometry.CameraConfig
	Smooth    bool // Interpolate vertex normals on piece meshes
}

// DefaultChessOptions returns the showcase layout with generated piece meshes
func DefaultChessOptions() ChessOptions {
	return ChessOptions{
		Layout:    DefaultLayout(),
		Materials: DefaultMaterials(),
		Models:    NewModelLibrary(""),
		Camera:    geometry.DefaultCameraConfig(),
		Smooth:    true,
	}
}

// NewChessScene builds the board and places a fitted mesh on every occupied square
func NewChessScene(opts ChessOptions) (*Scene, error) {
	s, err := NewBoardScene(opts)
	if err != nil {
		return nil, err
	}
	s.Name = "chess"

	models := opts.Models
	if models == nil {
		models = NewModelLibrary("")
	}

	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			p := opts.Layout[row][col]
			if p == Empty || p == "" {
				continue
			}

			mesh, err := PlacePiece(models, p, opts.Materials.ForPiece(p), row, col, opts.Rotation)
			if err != nil {
				return nil, fmt.Errorf("square %c%d: %w", 'A'+col, row+1, err)
			}
			mesh.Smooth = opts.Smooth
			s.Add(mesh)
		}
	}

	if err := s.Preprocess(); err != nil {
		return nil, err
	}
	return s, nil
}

// PlacePiece loads a piece mesh, fits it to its footprint, turns it, and stands it on the square's center
func PlacePiece(models *ModelLibrary, p Piece, mat material.Material, row, col int, rotation float64) (*geometry.TriangleMesh, error) {
	mesh, err := models.Mesh(p, mat)
	if err != nil {
		return nil, err
	}

	size := p.Footprint()
	if err := mesh.Fit1x1(size, size); err != nil {
		return nil, fmt.Errorf("fitting %s: %w", p, err)
	}
	if rotation != 0 {
		mesh.RotateY(rotation)
	}
	mesh.SetCenter(SquareCenter(row, col))
	return mesh, nil
}

// NewBoardScene builds the empty chessboard
func NewBoardScene(opts ChessOptions) (*Scene, error) {
	s, err := NewScene("board", opts.Camera)
	if err != nil {
		return nil, err
	}

	white, black := opts.Materials.WhiteSquare, opts.Materials.BlackSquare
	if white == nil {
		white = material.NewLambertian(WhiteBoardColor)
	}
	if black == nil {
		black = material.NewLambertian(BlackBoardColor)
	}
	for _, t := range NewChessboard(white, black) {
		s.Add(t)
	}

	if err := s.Preprocess(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewTriangleScene builds a single horizontal triangle under the light, viewed from above
func NewTriangleScene(cameraConfig geometry.CameraConfig) (*Scene, error) {
	s, err := NewScene("triangle", cameraConfig)
	if err != nil {
		return nil, err
	}

	s.Add(geometry.NewTriangle(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 0, 8),
		core.NewVec3(8, 0, 0),
		material.NewLambertian(WhiteBoardColor),
	))

	if err := s.Preprocess(); err != nil {
		return nil, err
	}
	return s, nil
}
