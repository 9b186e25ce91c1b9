package rle

import (
	"fmt"
	"strconv"

	bitmap "github.com/boljen/go-bitmap"
	"github.com/dargueta/rleimg"
)

// Report describes how well a raster compressed.
type Report struct {
	// UncompressedBytes is the size of the raster at one byte per pixel.
	UncompressedBytes int
	// CompressedBytes is the size of the run entries alone, excluding the
	// frame header.
	CompressedBytes int
	// CompressedWithHeaderBytes is the size of the entire frame.
	CompressedWithHeaderBytes int
	// Ratio is UncompressedBytes / CompressedBytes. Values above 1 mean the
	// frame is smaller than the raw pixels.
	Ratio float64
	// Runs is the number of run entries in the frame.
	Runs int
	// DistinctValues is the number of different pixel values in the raster.
	DistinctValues int
}

// ReportRow is a single property/value pair of a [Report], formatted for
// display.
type ReportRow struct {
	Property string `csv:"Property"`
	Value    string `csv:"Value"`
}

// NewReport computes compression statistics for a raster and the frame it was
// encoded to. It doesn't decode the frame, so it's up to the caller to make
// sure the two belong together.
//
// A frame that is too short to hold its header or whose entries are truncated
// fails with [rleimg.ErrTruncatedOrCorruptFrame]. A frame with a header but no
// entries can't come out of [Encode], so it's treated as a bug and panics.
func NewReport(raster *rleimg.Raster, frame []byte) (Report, error) {
	err := raster.Validate()
	if err != nil {
		return Report{}, err
	}

	if len(frame) < HeaderSize {
		return Report{}, rleimg.ErrTruncatedOrCorruptFrame.WithMessage(
			fmt.Sprintf("frame is %d bytes, shorter than the %d-byte header", len(frame), HeaderSize))
	}

	payloadSize := len(frame) - HeaderSize
	if payloadSize%EntrySize != 0 {
		return Report{}, rleimg.ErrTruncatedOrCorruptFrame.WithMessage(
			fmt.Sprintf("last entry is truncated: %d of %d bytes present", payloadSize%EntrySize, EntrySize))
	}
	if payloadSize == 0 {
		panic("rle: frame has a header but no runs")
	}

	uncompressed := raster.SizeBytes()
	return Report{
		UncompressedBytes:         uncompressed,
		CompressedBytes:           payloadSize,
		CompressedWithHeaderBytes: len(frame),
		Ratio:                     float64(uncompressed) / float64(payloadSize),
		Runs:                      payloadSize / EntrySize,
		DistinctValues:            countDistinctValues(raster.Pix),
	}, nil
}

func countDistinctValues(pixels []uint8) int {
	seen := bitmap.New(256)
	for _, pixel := range pixels {
		seen.Set(int(pixel), true)
	}

	distinct := 0
	for i := 0; i < seen.Len(); i++ {
		if seen.Get(i) {
			distinct++
		}
	}
	return distinct
}

// Rows gives the report as labelled rows, in the order they're displayed.
func (report Report) Rows() []ReportRow {
	return []ReportRow{
		{"Uncompressed Size (B)", strconv.Itoa(report.UncompressedBytes)},
		{"RLE-Compressed Size (B)", strconv.Itoa(report.CompressedBytes)},
		{"RLE-Compressed Size + Headers (B)", strconv.Itoa(report.CompressedWithHeaderBytes)},
		{"Level of Compression", strconv.FormatFloat(report.Ratio, 'f', 3, 64)},
		{"Runs", strconv.Itoa(report.Runs)},
		{"Distinct Values", strconv.Itoa(report.DistinctValues)},
	}
}
