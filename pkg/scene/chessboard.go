package scene

import (
	"github.com/df07/chess-pathtracer/pkg/core"
	"github.com/df07/chess-pathtracer/pkg/geometry"
	"github.com/df07/chess-pathtracer/pkg/material"
)

// Board and piece colors
var (
	WhiteBoardColor = core.NewVec3(1, 0.8, 0.65)
	BlackBoardColor = core.NewVec3(0.5, 0.2, 0.2)
	WhitePieceColor = core.NewVec3(1, 0.8, 0.65)
	BlackPieceColor = core.NewVec3(0.5, 0.2, 0.2)
)

// BoardSize is the number of squares along each side
const BoardSize = 8

// NewChessboard builds the 8x8 board in the X-Z plane from (0,0,0) to (8,0,8),
// two triangles per square, plus the strip facing the camera along z=8.
func NewChessboard(white, black material.Material) []*geometry.Triangle {
	triangles := make([]*geometry.Triangle, 0, BoardSize*BoardSize*2+2)

	for i := 0; i < BoardSize; i++ {
		for j := 0; j < BoardSize; j++ {
			x, z := float64(i), float64(j)
			mat := black
			if (i+j)%2 == 1 {
				mat = white
			}

			triangles = append(triangles,
				geometry.NewTriangle(core.NewVec3(x, 0, z), core.NewVec3(x, 0, z+1), core.NewVec3(x+1, 0, z+1), mat),
				geometry.NewTriangle(core.NewVec3(x+1, 0, z), core.NewVec3(x, 0, z), core.NewVec3(x+1, 0, z+1), mat),
			)
		}
	}

	// Front edge, one unit deep
	triangles = append(triangles,
		geometry.NewTriangle(core.NewVec3(8, -1, 8), core.NewVec3(8, 0, 8), core.NewVec3(0, 0, 8), black),
		geometry.NewTriangle(core.NewVec3(0, 0, 8), core.NewVec3(0, -1, 8), core.NewVec3(8, -1, 8), black),
	)
	return triangles
}

// SquareCenter returns the board position of the center of a square.
// Row 0 is rank 1, nearest the camera; column 0 is file A.
func SquareCenter(row, col int) core.Vec3 {
	return core.NewVec3(float64(col)+0.5, 0, float64(BoardSize-1-row)+0.5)
}
