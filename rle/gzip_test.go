package rle_test

import (
	"bufio"
	"bytes"
	"io"
	"testing"

	"github.com/dargueta/rleimg"
	"github.com/dargueta/rleimg/rle"
	rtesting "github.com/dargueta/rleimg/testing"
	"github.com/noxer/bytewriter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frameC9nTestRunner struct {
	Name     string
	Function func(t *testing.T, r *rleimg.Raster)
}

// compressFrameToBytes is a convenience function wrapping [rle.CompressFrame].
// It functions identically, except it returns the compressed data in a new
// byte slice instead of writing to an [io.Writer].
func compressFrameToBytes(input io.Reader) ([]byte, error) {
	buffer := bytes.Buffer{}
	writer := bufio.NewWriter(&buffer)
	_, err := rle.CompressFrame(input, writer)
	if err != nil {
		return nil, err
	}

	writer.Flush()

	outputSlice := make([]byte, buffer.Len())
	copy(outputSlice, buffer.Bytes())
	return outputSlice, nil
}

func TestRoundTripFrameCompression(t *testing.T) {
	testRunners := []frameC9nTestRunner{
		{"to_stream", runRoundTripFrameCompressionTest},
		{"to_bytes", runRoundTripFrameCompressionToBytesTest},
	}

	for _, runner := range testRunners {
		t.Run(
			runner.Name,
			func(tSub *testing.T) {
				for _, data := range makeRoundTripRasters(tSub) {
					tSub.Run(
						data.Name,
						func(tSubSub *testing.T) {
							runner.Function(tSubSub, data.Raster)
						},
					)
				}
			},
		)
	}
}

func runRoundTripFrameCompressionTest(t *testing.T, raster *rleimg.Raster) {
	frame, err := rle.Encode(raster)
	require.NoError(t, err)

	compressedBuffer := bytes.Buffer{}

	consumed, err := rle.CompressFrame(bytes.NewReader(frame), &compressedBuffer)
	require.NoError(t, err, "unexpected error while compressing")
	assert.EqualValues(t, len(frame), consumed, "not all of the frame was compressed")

	decompressedBuffer := make([]byte, len(frame))
	decompressedWriter := bytewriter.New(decompressedBuffer)

	n, err := rle.DecompressFrame(&compressedBuffer, decompressedWriter)
	require.NoError(t, err, "unexpected error while decompressing")
	assert.EqualValues(t, len(frame), n, "decompressed frame has wrong size")
	assert.Equal(t, frame, decompressedBuffer, "decompressed frame is wrong")
}

func runRoundTripFrameCompressionToBytesTest(t *testing.T, raster *rleimg.Raster) {
	frame, err := rle.Encode(raster)
	require.NoError(t, err)

	compressed, err := compressFrameToBytes(bytes.NewReader(frame))
	require.NoError(t, err, "error while compressing")
	t.Logf("frame compressed %d -> %d", len(frame), len(compressed))

	stream := rtesting.LoadCompressedFrame(t, compressed)
	decoded, err := rle.ReadFrame(stream, rle.DecodeOptions{})
	require.NoError(t, err, "error while decoding")
	assert.True(t, raster.Equal(decoded), "decoded raster is wrong")
}

func TestDecompressFrame__NotGzip(t *testing.T) {
	_, err := rle.DecompressFrameToBytes(
		bytes.NewReader([]byte{0, 0, 0, 1, 0, 0, 0, 1, 0, 200, 0, 0, 0, 1}))
	assert.Error(t, err)
}
