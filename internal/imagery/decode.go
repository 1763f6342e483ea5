// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package imagery finds and decodes the plot-level image and metadata files
// a processing run works on.
package imagery

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/tiff"
)

// PixelGrid is a plot's RGB pixel data in row-major order, three bytes per
// pixel. Algorithms read it through At or iterate Pix directly.
type PixelGrid struct {
	Width  int
	Height int
	Pix    []uint8
}

// At returns the RGB triple at (x, y). No bounds checking beyond the slice's
// own; algorithms iterate within Width/Height.
func (p *PixelGrid) At(x, y int) (r, g, b uint8) {
	i := (y*p.Width + x) * 3
	return p.Pix[i], p.Pix[i+1], p.Pix[i+2]
}

// FromImage converts a decoded image into a PixelGrid, dropping any alpha
// channel.
func FromImage(img image.Image) *PixelGrid {
	bounds := img.Bounds()
	grid := &PixelGrid{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pix:    make([]uint8, bounds.Dx()*bounds.Dy()*3),
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			grid.Pix[i] = uint8(r >> 8)
			grid.Pix[i+1] = uint8(g >> 8)
			grid.Pix[i+2] = uint8(b >> 8)
			i += 3
		}
	}
	return grid
}

// Load decodes the image file at path into a PixelGrid. TIFF, JPEG, and PNG
// decoders are registered.
func Load(path string) (*PixelGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding image %s: %w", path, err)
	}
	return FromImage(img), nil
}
