// Package rleimg defines the grayscale raster that the run-length codec in
// [github.com/dargueta/rleimg/rle] encodes and decodes, along with the error
// kinds shared by every package in this module.
package rleimg

import (
	"bytes"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Raster is a two-dimensional grid of 8-bit grayscale pixels stored in
// row-major order. A valid raster has Height and Width of at least 1 and
// exactly Height*Width pixels.
type Raster struct {
	Height int
	Width  int
	Pix    []uint8
}

// NewRaster creates a raster of the given size with every pixel set to 0.
func NewRaster(height, width int) (*Raster, error) {
	if err := checkDimensions(height, width); err != nil {
		return nil, err
	}
	return &Raster{
		Height: height,
		Width:  width,
		Pix:    make([]uint8, height*width),
	}, nil
}

// RasterFromPixels creates a raster from a flattened, row-major pixel slice.
// The slice is copied, so the caller may reuse it afterwards.
func RasterFromPixels(height, width int, pix []uint8) (*Raster, error) {
	if err := checkDimensions(height, width); err != nil {
		return nil, err
	}
	if len(pix) != height*width {
		return nil, ErrInvalidInput.WithMessage(
			fmt.Sprintf(
				"expected %d pixels for a %dx%d raster, got %d",
				height*width,
				height,
				width,
				len(pix),
			),
		)
	}

	copied := make([]uint8, len(pix))
	copy(copied, pix)
	return &Raster{Height: height, Width: width, Pix: copied}, nil
}

// RasterFromImage converts any image to a grayscale raster using the standard
// luminance weights (0.299 R + 0.587 G + 0.114 B). Images that are already
// [image.Gray] are copied without conversion.
func RasterFromImage(img image.Image) (*Raster, error) {
	bounds := img.Bounds()
	raster, err := NewRaster(bounds.Dy(), bounds.Dx())
	if err != nil {
		return nil, err
	}

	gray := &image.Gray{
		Pix:    raster.Pix,
		Stride: raster.Width,
		Rect:   image.Rect(0, 0, raster.Width, raster.Height),
	}
	draw.Draw(gray, gray.Rect, img, bounds.Min, draw.Src)
	return raster, nil
}

func checkDimensions(height, width int) error {
	if height < 1 || width < 1 {
		return ErrInvalidInput.WithMessage(
			fmt.Sprintf("raster dimensions must be positive, got %dx%d", height, width))
	}
	return nil
}

// Validate checks that the raster's dimensions are positive and agree with the
// number of pixels it holds.
func (r *Raster) Validate() error {
	if r == nil {
		return ErrInvalidInput.WithMessage("raster is nil")
	}
	if err := checkDimensions(r.Height, r.Width); err != nil {
		return err
	}
	if len(r.Pix) != r.Height*r.Width {
		return ErrInvalidInput.WithMessage(
			fmt.Sprintf(
				"%dx%d raster holds %d pixels, expected %d",
				r.Height,
				r.Width,
				len(r.Pix),
				r.Height*r.Width,
			),
		)
	}
	return nil
}

// SizeBytes gives the uncompressed size of the raster in bytes. Pixels are one
// byte each.
func (r *Raster) SizeBytes() int {
	return r.Height * r.Width
}

// At gives the pixel at the given row and column. It panics if either is out
// of bounds.
func (r *Raster) At(row, col int) uint8 {
	return r.Pix[row*r.Width+col]
}

// Set changes the pixel at the given row and column.
func (r *Raster) Set(row, col int, value uint8) {
	r.Pix[row*r.Width+col] = value
}

// Row returns the pixels of the given row. The returned slice aliases the
// raster's storage.
func (r *Raster) Row(row int) []uint8 {
	start := row * r.Width
	return r.Pix[start : start+r.Width]
}

// Equal returns true if both rasters have the same dimensions and pixels.
func (r *Raster) Equal(other *Raster) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.Height == other.Height &&
		r.Width == other.Width &&
		bytes.Equal(r.Pix, other.Pix)
}

// Image returns a copy of the raster as an [image.Gray] with its origin at
// (0, 0).
func (r *Raster) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
	copy(img.Pix, r.Pix)
	return img
}
