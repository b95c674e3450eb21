package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/df07/chess-pathtracer/pkg/core"
	"github.com/df07/chess-pathtracer/pkg/geometry"
	"github.com/df07/chess-pathtracer/pkg/loaders"
	"github.com/df07/chess-pathtracer/pkg/material"
)

// Piece names a chess piece type
type Piece string

// Piece types. Empty marks a square with nothing on it.
const (
	Empty  Piece = "empty"
	King   Piece = "king"
	Queen  Piece = "queen"
	Bishop Piece = "bishop"
	Knight Piece = "knight"
	Rook   Piece = "rook"
	Pawn   Piece = "pawn"
)

var (
	// ErrUnknownPiece is returned for piece names outside the six piece types
	ErrUnknownPiece = errors.New("unknown piece")
	// ErrInvalidLayout is returned when a board layout string cannot be parsed
	ErrInvalidLayout = errors.New("invalid board layout")
)

// AllPieces lists every non-empty piece type
var AllPieces = []Piece{King, Queen, Bishop, Knight, Rook, Pawn}

var fenPieces = map[rune]Piece{
	'k': King, 'q': Queen, 'b': Bishop, 'n': Knight, 'r': Rook, 'p': Pawn,
}

// ParsePiece converts a piece name to a Piece
func ParsePiece(name string) (Piece, error) {
	p := Piece(strings.ToLower(strings.TrimSpace(name)))
	if p == Empty || p == "" {
		return Empty, nil
	}
	for _, known := range AllPieces {
		if p == known {
			return p, nil
		}
	}
	return Empty, fmt.Errorf("%q: %w", name, ErrUnknownPiece)
}

// Footprint returns the X/Z size a piece is fitted to inside its square
func (p Piece) Footprint() float64 {
	if p == Pawn {
		return 0.6
	}
	return 0.8
}

// Layout is the board configuration, indexed [row][column].
// Row 0 is rank 1, nearest the camera; column 0 is file A.
type Layout [BoardSize][BoardSize]Piece

// EmptyLayout returns a board with no pieces
func EmptyLayout() Layout {
	var l Layout
	for r := range l {
		for c := range l[r] {
			l[r][c] = Empty
		}
	}
	return l
}

// DefaultLayout returns the showcase arrangement with one piece of each material
func DefaultLayout() Layout {
	l := EmptyLayout()
	l[1][4] = Knight
	l[3][4] = King
	l[3][5] = Pawn
	l[4][4] = Bishop
	l[6][5] = Rook
	return l
}

// FullLayout returns the starting position of a game
func FullLayout() Layout {
	l := EmptyLayout()
	back := [BoardSize]Piece{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	l[0] = back
	l[7] = back
	for c := 0; c < BoardSize; c++ {
		l[1][c] = Pawn
		l[6][c] = Pawn
	}
	return l
}

// ParseLayout reads the piece placement field of a FEN string, rank 8 first.
// Letter case is ignored since materials are assigned per piece type.
func ParseLayout(fen string) (Layout, error) {
	l := EmptyLayout()
	placement := strings.Fields(fen)
	if len(placement) == 0 {
		return l, fmt.Errorf("empty layout: %w", ErrInvalidLayout)
	}

	ranks := strings.Split(placement[0], "/")
	if len(ranks) != BoardSize {
		return l, fmt.Errorf("got %d ranks, want %d: %w", len(ranks), BoardSize, ErrInvalidLayout)
	}

	for i, rank := range ranks {
		row := BoardSize - 1 - i
		col := 0
		for _, ch := range rank {
			switch {
			case ch >= '1' && ch <= '8':
				col += int(ch - '0')
			default:
				p, ok := fenPieces[toLower(ch)]
				if !ok {
					return l, fmt.Errorf("rank %d: unexpected %q: %w", row+1, ch, ErrInvalidLayout)
				}
				if col < BoardSize {
					l[row][col] = p
				}
				col++
			}
			if col > BoardSize {
				return l, fmt.Errorf("rank %d overflows the board: %w", row+1, ErrInvalidLayout)
			}
		}
		if col != BoardSize {
			return l, fmt.Errorf("rank %d has %d squares: %w", row+1, col, ErrInvalidLayout)
		}
	}
	return l, nil
}

func toLower(ch rune) rune {
	if ch >= 'A' && ch <= 'Z' {
		return ch + ('a' - 'A')
	}
	return ch
}

// Count returns the number of occupied squares
func (l Layout) Count() int {
	n := 0
	for r := range l {
		for c := range l[r] {
			if l[r][c] != Empty && l[r][c] != "" {
				n++
			}
		}
	}
	return n
}

// MaterialTable holds the shared materials for the board and every piece type
type MaterialTable struct {
	WhiteSquare material.Material
	BlackSquare material.Material
	Pieces      map[Piece]material.Material
}

// DefaultMaterials returns the classic material assignment: matte knight and pawn,
// tinted glass queen, king and bishop, polished rook.
func DefaultMaterials() MaterialTable {
	return MaterialTable{
		WhiteSquare: material.NewLambertian(WhiteBoardColor),
		BlackSquare: material.NewLambertian(BlackBoardColor),
		Pieces: map[Piece]material.Material{
			Knight: material.NewLambertian(WhitePieceColor),
			Pawn:   material.NewLambertian(BlackPieceColor),
			Queen:  material.NewDielectric(1, core.NewVec3(1, 1, 1), core.NewVec3(0.6, 1, 0.6)),
			King:   material.NewDielectric(1, core.NewVec3(1, 1, 1), core.NewVec3(0.6, 1, 0.6)),
			Bishop: material.NewDielectric(1, core.NewVec3(1, 1, 1), core.NewVec3(0.7, 0.7, 1)),
			Rook:   material.NewMetal(BlackPieceColor, 0.01),
		},
	}
}

// ForPiece returns the material for a piece, falling back to the base material
func (t MaterialTable) ForPiece(p Piece) material.Material {
	if m, ok := t.Pieces[p]; ok && m != nil {
		return m
	}
	return material.NewBaseMaterial()
}

// ModelLibrary resolves piece meshes from a directory of model files named after the
// piece ("king.obj", "queen.glb", ...). Pieces without a file get a generated lathe mesh.
// Loaded meshes are cached; callers always receive an independent clone.
type ModelLibrary struct {
	Dir     string
	Options loaders.MeshOptions

	mu    sync.Mutex
	cache map[Piece]*geometry.TriangleMesh
}

// NewModelLibrary creates a library reading from dir. An empty dir uses generated meshes only.
func NewModelLibrary(dir string) *ModelLibrary {
	return &ModelLibrary{
		Dir:   dir,
		cache: make(map[Piece]*geometry.TriangleMesh),
	}
}

// ModelPath returns the model file used for a piece, or "" when the generated mesh is used
func (l *ModelLibrary) ModelPath(p Piece) string {
	if l.Dir == "" {
		return ""
	}
	for _, ext := range loaders.SupportedExtensions {
		path := filepath.Join(l.Dir, string(p)+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Mesh returns a fresh copy of the piece's mesh carrying mat
func (l *ModelLibrary) Mesh(p Piece, mat material.Material) (*geometry.TriangleMesh, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cache == nil {
		l.cache = make(map[Piece]*geometry.TriangleMesh)
	}

	base, ok := l.cache[p]
	if !ok {
		var err error
		base, err = l.load(p)
		if err != nil {
			return nil, err
		}
		l.cache[p] = base
	}

	mesh := base.Clone()
	mesh.SetMaterial(mat)
	return mesh, nil
}

func (l *ModelLibrary) load(p Piece) (*geometry.TriangleMesh, error) {
	path := l.ModelPath(p)
	if path == "" {
		return NewPieceMesh(p, material.NewBaseMaterial())
	}

	data, err := loaders.LoadMesh(path, l.Options)
	if err != nil {
		return nil, fmt.Errorf("loading %s model: %w", p, err)
	}
	mesh, err := geometry.NewTriangleMesh(data.Vertices, data.Faces, material.NewBaseMaterial())
	if err != nil {
		return nil, fmt.Errorf("building %s mesh from %s: %w", p, path, err)
	}
	return mesh, nil
}
