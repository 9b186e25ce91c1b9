package rle

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/dargueta/rleimg"
	"github.com/noxer/bytewriter"
)

const (
	// HeaderSize is the number of bytes taken up by the frame header: the height
	// and width, each a big-endian uint32.
	HeaderSize = 8
	// EntrySize is the number of bytes taken up by one run: a big-endian uint16
	// value followed by a big-endian uint32 count.
	EntrySize = 6

	MaxDimension = math.MaxUint32
	MaxValue     = math.MaxUint16
	MaxRunCount  = math.MaxUint32
)

// frameHeader and frameEntry mirror the on-disk layout. encoding/binary doesn't
// insert padding, so a frameEntry occupies exactly [EntrySize] bytes.
type frameHeader struct {
	Height uint32
	Width  uint32
}

type frameEntry struct {
	Value uint16
	Count uint32
}

// FrameSize gives the size in bytes of a frame holding `numRuns` runs.
func FrameSize(numRuns int) int {
	return HeaderSize + EntrySize*numRuns
}

// Pack serializes the dimensions of a raster and the runs derived from it into
// a frame. The result is always exactly [FrameSize](len(runs)) bytes long.
//
// Any field that doesn't fit into its width on the wire fails with
// [rleimg.ErrValueOverflow]; nothing is truncated. Runs with a count less than
// 1, an empty run list, or runs that don't add up to height * width fail with
// [rleimg.ErrInvalidInput].
func Pack(height, width int, runs []Run) ([]byte, error) {
	err := validateFrameFields(height, width, runs)
	if err != nil {
		return nil, err
	}

	frame := make([]byte, FrameSize(len(runs)))
	writer := bytewriter.New(frame)

	header := frameHeader{Height: uint32(height), Width: uint32(width)}
	err = binary.Write(writer, binary.BigEndian, &header)
	if err != nil {
		return nil, fmt.Errorf("failed to write frame header: %w", err)
	}

	entries := make([]frameEntry, len(runs))
	for i, run := range runs {
		entries[i] = frameEntry{Value: uint16(run.Value), Count: uint32(run.Count)}
	}
	err = binary.Write(writer, binary.BigEndian, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to write frame entries: %w", err)
	}
	return frame, nil
}

// WriteFrame packs a frame and writes it to `output`. The returned int64 gives
// the number of bytes written to the output stream. If an error occurred, the
// value is undefined and should not be used.
func WriteFrame(output io.Writer, height, width int, runs []Run) (int64, error) {
	frame, err := Pack(height, width, runs)
	if err != nil {
		return 0, err
	}

	n, err := output.Write(frame)
	if err != nil {
		return int64(n), fmt.Errorf("failed to write to output: %w", err)
	}
	return int64(n), nil
}

func validateFrameFields(height, width int, runs []Run) error {
	if height < 0 || int64(height) > MaxDimension {
		return rleimg.ErrValueOverflow.WithMessage(
			fmt.Sprintf("height %d doesn't fit in 32 bits", height))
	}
	if width < 0 || int64(width) > MaxDimension {
		return rleimg.ErrValueOverflow.WithMessage(
			fmt.Sprintf("width %d doesn't fit in 32 bits", width))
	}
	if len(runs) == 0 {
		return rleimg.ErrInvalidInput.WithMessage("a frame needs at least one run")
	}

	totalCount := uint64(0)
	for i, run := range runs {
		if run.Value < 0 || run.Value > MaxValue {
			return rleimg.ErrValueOverflow.WithMessage(
				fmt.Sprintf("run %d: value %d doesn't fit in 16 bits", i, run.Value))
		}
		if int64(run.Count) > MaxRunCount {
			return rleimg.ErrValueOverflow.WithMessage(
				fmt.Sprintf("run %d: count %d doesn't fit in 32 bits", i, run.Count))
		}
		if run.Count < 1 {
			return rleimg.ErrInvalidInput.WithMessage(
				fmt.Sprintf("run %d: count must be at least 1, got %d", i, run.Count))
		}
		totalCount += uint64(run.Count)
	}

	expectedCount := uint64(height) * uint64(width)
	if totalCount != expectedCount {
		return rleimg.ErrInvalidInput.WithMessage(
			fmt.Sprintf(
				"runs describe %d pixels but a %dx%d raster has %d",
				totalCount,
				height,
				width,
				expectedCount,
			),
		)
	}
	return nil
}
