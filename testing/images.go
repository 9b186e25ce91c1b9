package testing

import (
	"bytes"
	"crypto/rand"
	"io"
	"testing"

	"github.com/dargueta/rleimg"
	"github.com/dargueta/rleimg/rle"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

// CreateRandomRaster creates a raster of the given size filled with random
// pixels. It is guaranteed to either return a valid raster or fail the test and
// abort.
func CreateRandomRaster(height, width int, t *testing.T) *rleimg.Raster {
	pixels := make([]byte, height*width)

	_, err := rand.Read(pixels)
	require.NoErrorf(
		t,
		err,
		"failed to initialize %dx%d raster with random bytes",
		height,
		width,
	)

	raster, err := rleimg.RasterFromPixels(height, width, pixels)
	require.NoError(t, err)
	return raster
}

// CreateUniformRaster creates a raster where every pixel is `value`.
func CreateUniformRaster(height, width int, value uint8, t *testing.T) *rleimg.Raster {
	raster, err := rleimg.RasterFromPixels(
		height, width, bytes.Repeat([]byte{value}, height*width))
	require.NoError(t, err)
	return raster
}

// CreateRasterFromRows builds a raster from a slice of rows, which must all be
// the same length.
func CreateRasterFromRows(rows [][]uint8, t *testing.T) *rleimg.Raster {
	require.NotEmpty(t, rows, "raster needs at least one row")

	pixels := make([]uint8, 0, len(rows)*len(rows[0]))
	for i, row := range rows {
		require.Lenf(t, row, len(rows[0]), "row %d has the wrong width", i)
		pixels = append(pixels, row...)
	}

	raster, err := rleimg.RasterFromPixels(len(rows), len(rows[0]), pixels)
	require.NoError(t, err)
	return raster
}

// LoadFrame returns a stream to access the bytes of a frame, as if it were a
// file that had been opened for reading and writing.
//
//   - Writes to the stream do not affect `frame`.
//   - While the stream can be written to, its size is fixed to `len(frame)`.
//     Attempting to write past the end of this buffer will trigger an error.
func LoadFrame(t *testing.T, frame []byte) io.ReadWriteSeeker {
	copied := make([]byte, len(frame))
	copy(copied, frame)
	return bytesextra.NewReadWriteSeeker(copied)
}

// LoadCompressedFrame takes a gzipped frame and returns a stream to access the
// uncompressed frame. The same caveats as [LoadFrame] apply.
func LoadCompressedFrame(t *testing.T, compressedFrame []byte) io.ReadWriteSeeker {
	require.Greater(t, len(compressedFrame), 0, "compressed frame is empty")

	frame, err := rle.DecompressFrameToBytes(bytes.NewReader(compressedFrame))
	require.NoError(t, err)
	require.GreaterOrEqual(
		t, len(frame), rle.HeaderSize, "uncompressed frame is too short for its header")
	return bytesextra.NewReadWriteSeeker(frame)
}
