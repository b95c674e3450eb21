package renderer

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/df07/chess-pathtracer/pkg/loaders"
)

func TestPNGSink(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(2, 1, color.RGBA{10, 20, 30, 255})

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := (PNGSink{Path: path}).Present(img); err != nil {
		t.Fatalf("Present() error: %v", err)
	}

	loaded, err := loaders.LoadPNG(path)
	if err != nil {
		t.Fatalf("LoadPNG() error: %v", err)
	}
	if loaded.Bounds() != img.Bounds() {
		t.Errorf("Bounds = %v, want %v", loaded.Bounds(), img.Bounds())
	}
	r, g, b, _ := loaded.At(2, 1).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("Pixel = (%d,%d,%d), want (10,20,30)", r>>8, g>>8, b>>8)
	}
}

func TestPNGSink_BadPath(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	sink := PNGSink{Path: filepath.Join(t.TempDir(), "missing", "frame.png")}
	if err := sink.Present(img); err == nil {
		t.Error("Expected error writing into a missing directory")
	}
}
