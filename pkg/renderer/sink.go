package renderer

import (
	"image"
	"image/draw"

	"github.com/df07/chess-pathtracer/pkg/loaders"
)

// Sink receives finished frames
type Sink interface {
	Present(img *image.RGBA) error
}

// ImageSink keeps the most recent frame in memory
type ImageSink struct {
	Image  *image.RGBA
	Frames int // Number of frames presented
}

// Present stores a copy of img
func (s *ImageSink) Present(img *image.RGBA) error {
	c := image.NewRGBA(img.Bounds())
	draw.Draw(c, c.Bounds(), img, img.Bounds().Min, draw.Src)
	s.Image = c
	s.Frames++
	return nil
}

// PNGSink writes every frame to a PNG file
type PNGSink struct {
	Path string
}

// Present encodes img to the sink's path
func (s PNGSink) Present(img *image.RGBA) error {
	return loaders.SavePNG(s.Path, img)
}
