package rle

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/dargueta/rleimg"
)

// Run represents a single run of a particular pixel value.
type Run struct {
	// Value is the pixel value for this run. Runs produced by this package are
	// always in [0, 255]; the wider type lets [Pack] reject values that don't
	// fit in the frame format instead of truncating them.
	Value int
	// Count gives the number of times the value occurs in the run (not the
	// number of times it's repeated).
	//
	// A valid run will always have this be 1 or greater. A value less than 1
	// indicates either EOF was encountered, or an error occurred.
	Count int
}

// InvalidRun is returned by [RunGrouper.NextRun] when there are no more runs.
var InvalidRun = Run{Value: 0, Count: 0}

// ExtractRuns splits a flattened sequence of pixels into maximal runs. No two
// adjacent runs in the result have the same value, and expanding the runs in
// order gives back `pixels` exactly.
//
// An empty input is rejected with [rleimg.ErrInvalidInput], since a frame must
// describe at least one pixel.
func ExtractRuns(pixels []uint8) ([]Run, error) {
	if len(pixels) == 0 {
		return nil, rleimg.ErrInvalidInput.WithMessage("can't extract runs from zero pixels")
	}

	runs := make([]Run, 0, 16)
	current := Run{Value: int(pixels[0]), Count: 0}

	for _, pixel := range pixels {
		if int(pixel) == current.Value && int64(current.Count) < MaxRunCount {
			current.Count++
			continue
		}
		runs = append(runs, current)
		current = Run{Value: int(pixel), Count: 1}
	}

	// The last run is still pending when the loop exits. It's always emitted,
	// so even a single pixel gives one run.
	runs = append(runs, current)
	return runs, nil
}

// ExpandRuns is the inverse of [ExtractRuns]. It fails if any run has a value
// that isn't a valid pixel or a negative count.
func ExpandRuns(runs []Run) ([]uint8, error) {
	total := 0
	for i, run := range runs {
		if run.Value < 0 || run.Value > 255 {
			return nil, rleimg.ErrInvalidInput.WithMessage(
				fmt.Sprintf("run %d has value %d, not a valid pixel", i, run.Value))
		}
		if run.Count < 0 {
			return nil, rleimg.ErrInvalidInput.WithMessage(
				fmt.Sprintf("run %d has negative count %d", i, run.Count))
		}
		total += run.Count
	}

	pixels := make([]uint8, 0, total)
	for _, run := range runs {
		for i := 0; i < run.Count; i++ {
			pixels = append(pixels, uint8(run.Value))
		}
	}
	return pixels, nil
}

// TotalCount gives the number of pixels described by a run sequence.
func TotalCount(runs []Run) int {
	total := 0
	for _, run := range runs {
		total += run.Count
	}
	return total
}

// RunGrouper reads pixels from a stream and groups them into maximal runs,
// one at a time. It's the streaming counterpart of [ExtractRuns] for inputs
// that shouldn't be loaded into memory all at once.
type RunGrouper struct {
	rd *bufio.Reader
}

func NewRunGrouper(rd io.Reader) RunGrouper {
	return RunGrouper{rd: bufio.NewReader(rd)}
}

// NextRun returns a [Run] for the next pixel or run of pixel values in the
// stream. When the stream is exhausted it returns [InvalidRun] and [io.EOF].
//
// Runs longer than [MaxRunCount] are split, so every run this returns can be
// written to a frame. In that case two consecutive runs will have the same
// value.
func (grouper RunGrouper) NextRun() (Run, error) {
	firstByte, err := grouper.rd.ReadByte()
	// Bail if any error occurred, including EOF.
	if err != nil {
		return InvalidRun, err
	}

	var count int
	for count = 1; int64(count) < MaxRunCount; count++ {
		currentByte, err := grouper.rd.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return InvalidRun, err
		}
		if currentByte != firstByte {
			// Hit a different byte, back up and return.
			grouper.rd.UnreadByte()
			break
		}
	}
	return Run{Value: int(firstByte), Count: count}, nil
}

// All reads the remaining runs in the stream. Reaching the end of the stream
// isn't an error.
func (grouper RunGrouper) All() ([]Run, error) {
	runs := make([]Run, 0, 16)
	for {
		run, err := grouper.NextRun()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return runs, nil
			}
			return runs, err
		}
		runs = append(runs, run)
	}
}
