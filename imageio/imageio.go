// Package imageio loads and saves rasters and frames on disk.
package imageio

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/dargueta/rleimg"
	"github.com/dargueta/rleimg/rle"
	"github.com/disintegration/imaging"
)

// GzipSuffix marks frame files that are gzipped.
const GzipSuffix = ".gz"

// LoadRaster reads an image file and converts it to a grayscale raster. The
// format is detected from the file contents; JPEG, PNG, GIF, BMP and TIFF are
// supported. JPEGs are rotated according to their EXIF orientation.
func LoadRaster(path string) (*rleimg.Raster, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load image %q: %w", path, err)
	}
	return rleimg.RasterFromImage(img)
}

// SaveRaster writes a raster to an image file. The format is chosen from the
// file extension; see [imaging.FormatFromFilename].
func SaveRaster(path string, raster *rleimg.Raster) error {
	err := raster.Validate()
	if err != nil {
		return err
	}

	err = imaging.Save(raster.Image(), path)
	if err != nil {
		return fmt.Errorf("failed to save image %q: %w", path, err)
	}
	return nil
}

// IsGzipPath returns true if a frame file at this path is gzipped.
func IsGzipPath(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), GzipSuffix)
}

// WriteFrameFile writes a frame to disk, gzipping it if the path ends in
// [GzipSuffix]. It returns the size of the file.
func WriteFrameFile(path string, frame []byte) (int64, error) {
	outFile, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file for writing: %w", err)
	}

	var written int64
	if IsGzipPath(path) {
		_, err = rle.CompressFrame(bytes.NewReader(frame), outFile)
	} else {
		var n int
		n, err = outFile.Write(frame)
		written = int64(n)
	}

	if err != nil {
		outFile.Close()
		return written, fmt.Errorf("failed to write frame to %q: %w", path, err)
	}

	stat, err := outFile.Stat()
	if err == nil {
		written = stat.Size()
	}

	err = outFile.Close()
	if err != nil {
		return written, fmt.Errorf("failed to close %q: %w", path, err)
	}
	return written, nil
}

// ReadFrameFile reads a frame file from disk, gunzipping it if the path ends in
// [GzipSuffix], and decodes it.
func ReadFrameFile(path string, opts rle.DecodeOptions) (*rleimg.Raster, error) {
	sourceFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file for reading: %w", err)
	}
	defer sourceFile.Close()

	if !IsGzipPath(path) {
		return rle.ReadFrame(sourceFile, opts)
	}

	frame, err := rle.DecompressFrameToBytes(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %q: %w", path, err)
	}
	return rle.UnpackWithOptions(frame, opts)
}
