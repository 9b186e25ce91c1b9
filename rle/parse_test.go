package rle_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/dargueta/rleimg"
	"github.com/dargueta/rleimg/rle"
	rtesting "github.com/dargueta/rleimg/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frameDecoder struct {
	Name     string
	Function func(frame []byte, opts rle.DecodeOptions) (*rleimg.Raster, error)
}

// Every frame test runs against both the in-memory and the streaming decoder,
// since they must agree on what's valid.
var frameDecoders = []frameDecoder{
	{"unpack", rle.UnpackWithOptions},
	{
		"read_frame",
		func(frame []byte, opts rle.DecodeOptions) (*rleimg.Raster, error) {
			return rle.ReadFrame(bytes.NewReader(frame), opts)
		},
	},
}

type CorruptFrameTestCase struct {
	Frame []byte
	Name  string
}

var corruptFrameTestCases = []CorruptFrameTestCase{
	{[]byte{}, "empty"},
	{[]byte{0, 0, 0, 1, 0, 0, 0}, "short header"},
	{[]byte{0, 0, 0, 1, 0, 0, 0, 1}, "header only"},
	{[]byte{0, 0, 0, 1, 0, 0, 0, 1, 0, 200, 0}, "truncated entry"},
	{
		[]byte{0, 0, 0, 2, 0, 0, 0, 1, 0, 200, 0, 0, 0, 1, 0, 7, 0},
		"second entry truncated",
	},
	{[]byte{0, 0, 0, 0, 0, 0, 0, 1, 0, 200, 0, 0, 0, 0}, "zero height"},
	{[]byte{0, 0, 0, 1, 0, 0, 0, 0, 0, 200, 0, 0, 0, 0}, "zero width"},
	{[]byte{0, 0, 0, 2, 0, 0, 0, 2, 0, 200, 0, 0, 0, 3}, "too few pixels"},
	{[]byte{0, 0, 0, 2, 0, 0, 0, 2, 0, 200, 0, 0, 0, 5}, "too many pixels"},
	{
		[]byte{0, 0, 0, 1, 0, 0, 0, 1, 0, 200, 0xff, 0xff, 0xff, 0xff},
		"huge count",
	},
	{
		[]byte{0, 0, 0, 1, 0, 0, 0, 2, 0, 200, 0, 0, 0, 1, 1, 0, 0, 0, 0, 1},
		"value above 255",
	},
	{
		[]byte{0, 0, 0, 1, 0, 0, 0, 2, 0, 1, 0, 0, 0, 2, 0, 1, 0, 0, 0, 1},
		"overrun after full",
	},
}

func TestDecode__Corrupt(t *testing.T) {
	for _, decoder := range frameDecoders {
		t.Run(
			decoder.Name,
			func(tSub *testing.T) {
				for _, test := range corruptFrameTestCases {
					tSub.Run(
						test.Name,
						func(tSubSub *testing.T) {
							raster, err := decoder.Function(test.Frame, rle.DecodeOptions{})
							assert.ErrorIs(tSubSub, err, rleimg.ErrTruncatedOrCorruptFrame)
							assert.Nil(tSubSub, raster, "partial raster returned")
						},
					)
				}
			},
		)
	}
}

func TestReadFrame__TruncatedWrapsUnexpectedEOF(t *testing.T) {
	_, err := rle.ReadFrame(
		bytes.NewReader([]byte{0, 0, 0, 1, 0, 0, 0, 1, 0, 200, 0}), rle.DecodeOptions{})
	assert.ErrorIs(t, err, rleimg.ErrTruncatedOrCorruptFrame)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = rle.ReadFrame(bytes.NewReader([]byte{0, 0}), rle.DecodeOptions{})
	assert.ErrorIs(t, err, rleimg.ErrTruncatedOrCorruptFrame)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestDecode__FrameTooLarge(t *testing.T) {
	// 65536 x 65536 is 2^32 pixels, well over the default limit. The single
	// entry is bogus, but the size check must come first.
	hugeFrame := []byte{0, 1, 0, 0, 0, 1, 0, 0, 0, 0, 0xff, 0xff, 0xff, 0xff}
	smallFrame := []byte{0, 0, 0, 2, 0, 0, 0, 3, 0, 9, 0, 0, 0, 6}

	for _, decoder := range frameDecoders {
		t.Run(
			decoder.Name,
			func(t *testing.T) {
				_, err := decoder.Function(hugeFrame, rle.DecodeOptions{})
				assert.ErrorIs(t, err, rleimg.ErrFrameTooLarge)

				_, err = decoder.Function(smallFrame, rle.DecodeOptions{MaxPixels: 5})
				assert.ErrorIs(t, err, rleimg.ErrFrameTooLarge)

				raster, err := decoder.Function(smallFrame, rle.DecodeOptions{MaxPixels: 6})
				require.NoError(t, err)
				assert.Equal(t, bytes.Repeat([]byte{9}, 6), raster.Pix)

				raster, err = decoder.Function(smallFrame, rle.DecodeOptions{MaxPixels: -1})
				require.NoError(t, err)
				assert.Equal(t, 2, raster.Height)
				assert.Equal(t, 3, raster.Width)
			},
		)
	}
}

func TestDecode__NonMaximalRuns(t *testing.T) {
	// Zero-length entries and adjacent entries with the same value are never
	// produced by the encoder, but they're still well-formed.
	frame := []byte{
		0, 0, 0, 2, 0, 0, 0, 2,
		0, 5, 0, 0, 0, 0,
		0, 5, 0, 0, 0, 1,
		0, 5, 0, 0, 0, 1,
		0, 9, 0, 0, 0, 2,
	}

	for _, decoder := range frameDecoders {
		t.Run(
			decoder.Name,
			func(t *testing.T) {
				raster, err := decoder.Function(frame, rle.DecodeOptions{})
				require.NoError(t, err)
				assert.Equal(t, []uint8{5, 5}, raster.Row(0))
				assert.Equal(t, []uint8{9, 9}, raster.Row(1))
			},
		)
	}
}

func TestDecode__SinglePixel(t *testing.T) {
	frame := []byte{0, 0, 0, 1, 0, 0, 0, 1, 0, 200, 0, 0, 0, 1}

	for _, decoder := range frameDecoders {
		t.Run(
			decoder.Name,
			func(t *testing.T) {
				raster, err := decoder.Function(frame, rle.DecodeOptions{})
				require.NoError(t, err)
				assert.Equal(t, 1, raster.Height)
				assert.Equal(t, 1, raster.Width)
				assert.Equal(t, []uint8{200}, raster.Pix)
			},
		)
	}
}

func TestReadFrame__FromFile(t *testing.T) {
	original := rtesting.CreateRandomRaster(17, 23, t)
	frame, err := rle.Encode(original)
	require.NoError(t, err)

	stream := rtesting.LoadFrame(t, frame)
	decoded, err := rle.ReadFrame(stream, rle.DecodeOptions{})
	require.NoError(t, err)
	assert.True(t, original.Equal(decoded), "decoded raster doesn't match original")

	// Reading again from the same exhausted stream finds no header at all.
	_, err = rle.ReadFrame(stream, rle.DecodeOptions{})
	assert.ErrorIs(t, err, rleimg.ErrTruncatedOrCorruptFrame)
}

func TestReadFrame__ReadError(t *testing.T) {
	_, err := rle.ReadFrame(failingReader{}, rle.DecodeOptions{})
	assert.ErrorIs(t, err, io.ErrClosedPipe)
	assert.NotErrorIs(t, err, rleimg.ErrTruncatedOrCorruptFrame)
}
