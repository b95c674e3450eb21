package renderer

import (
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// CellScreen is the part of a terminal screen the preview draws on
type CellScreen interface {
	SetCell(x, y int, c *uv.Cell)
}

// TerminalSink previews frames on a terminal. Each cell shows two pixels stacked
// vertically as an upper half block: foreground is the top pixel, background the bottom.
type TerminalSink struct {
	Screen CellScreen
	Width  int          // Columns
	Height int          // Rows; the frame is sampled at twice this many pixel rows
	Flush  func() error // Optional, called after all cells are set
}

// NewTerminalSink creates a sink drawing into a cols×rows area of screen
func NewTerminalSink(screen CellScreen, cols, rows int, flush func() error) *TerminalSink {
	return &TerminalSink{
		Screen: screen,
		Width:  cols,
		Height: rows,
		Flush:  flush,
	}
}

// Present scales img to the terminal area with nearest-neighbor sampling and draws it
func (s *TerminalSink) Present(img *image.RGBA) error {
	bounds := img.Bounds()
	if bounds.Empty() || s.Width <= 0 || s.Height <= 0 {
		return nil
	}

	fbHeight := s.Height * 2
	pixel := func(col, fbRow int) color.RGBA {
		x := bounds.Min.X + col*bounds.Dx()/s.Width
		y := bounds.Min.Y + fbRow*bounds.Dy()/fbHeight
		return img.RGBAAt(x, y)
	}

	for row := 0; row < s.Height; row++ {
		topY := row * 2
		botY := topY + 1

		for col := 0; col < s.Width; col++ {
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(pixel(col, topY)),
					Bg: rgbaToColor(pixel(col, botY)),
				},
			}
			s.Screen.SetCell(col, row, cell)
		}
	}

	if s.Flush != nil {
		return s.Flush()
	}
	return nil
}

// rgbaToColor returns nil for fully transparent pixels so the terminal default shows through
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}
