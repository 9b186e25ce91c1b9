package rle

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
)

// CompressFrame gzips a frame read from `input` and writes the result to
// `output`, using the highest compression available. Frames of large flat
// areas have long stretches of near-identical entries, which gzip shrinks a
// great deal further.
//
// The returned int64 gives the number of frame bytes consumed from the input.
// If an error occurred, the value is undefined and should not be used.
func CompressFrame(input io.Reader, output io.Writer) (int64, error) {
	gzWriter, err := gzip.NewWriterLevel(output, gzip.BestCompression)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(gzWriter, input)
	if err != nil {
		gzWriter.Close()
		return n, fmt.Errorf("failed to compress frame: %w", err)
	}

	// Close flushes the remaining compressed data and the gzip footer, so its
	// error matters.
	err = gzWriter.Close()
	if err != nil {
		return n, fmt.Errorf("failed to write to output: %w", err)
	}
	return n, nil
}

// DecompressFrame takes a gzipped frame and writes the original frame bytes to
// `output`. The frame itself is not validated; pass the result to [Unpack].
//
// The returned int64 gives the number of bytes written to the output (i.e. the
// size of the frame). If an error occurred, the value is undefined and should
// not be used.
func DecompressFrame(input io.Reader, output io.Writer) (int64, error) {
	gzReader, err := gzip.NewReader(input)
	if err != nil {
		return 0, err
	}
	defer gzReader.Close()
	return io.Copy(output, gzReader)
}

// DecompressFrameToBytes is a convenience function wrapping [DecompressFrame].
// It returns the frame in a new byte slice instead of writing to an
// [io.Writer].
func DecompressFrameToBytes(input io.Reader) ([]byte, error) {
	buffer := bytes.Buffer{}
	_, err := DecompressFrame(input, &buffer)
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
