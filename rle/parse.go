package rle

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/dargueta/rleimg"
)

// DefaultMaxPixels is the largest raster the decoder will allocate unless told
// otherwise. It's 256 MiB of pixels.
const DefaultMaxPixels = 1 << 28

// DecodeOptions controls the resource limits of the decoder.
type DecodeOptions struct {
	// MaxPixels is the largest value of height * width a frame header may
	// declare. Zero means [DefaultMaxPixels], a negative value disables the
	// limit.
	MaxPixels int64
}

func (opts DecodeOptions) maxPixels() uint64 {
	switch {
	case opts.MaxPixels == 0:
		return DefaultMaxPixels
	case opts.MaxPixels < 0 || uint64(opts.MaxPixels) > math.MaxInt:
		return math.MaxInt
	default:
		return uint64(opts.MaxPixels)
	}
}

// Unpack reconstructs the raster stored in a frame, using the default decoder
// limits. See [UnpackWithOptions].
func Unpack(frame []byte) (*rleimg.Raster, error) {
	return UnpackWithOptions(frame, DecodeOptions{})
}

// UnpackWithOptions reconstructs the raster stored in a frame.
//
// Every entry is validated before the output raster is allocated. A frame is
// rejected with [rleimg.ErrTruncatedOrCorruptFrame] if it is shorter than the
// header, its entries don't divide evenly into 6-byte records, it has no
// entries or a zero dimension, an entry's value isn't a valid pixel, or the
// counts don't add up to exactly height * width. A frame whose header
// describes more than `opts.MaxPixels` pixels fails with
// [rleimg.ErrFrameTooLarge].
func UnpackWithOptions(frame []byte, opts DecodeOptions) (*rleimg.Raster, error) {
	if len(frame) < HeaderSize {
		return nil, rleimg.ErrTruncatedOrCorruptFrame.WithMessage(
			fmt.Sprintf(
				"frame is %d bytes, shorter than the %d-byte header",
				len(frame),
				HeaderSize,
			),
		)
	}

	header, totalPixels, err := parseHeader(frame[:HeaderSize], opts)
	if err != nil {
		return nil, err
	}

	payload := frame[HeaderSize:]
	if len(payload)%EntrySize != 0 {
		return nil, rleimg.ErrTruncatedOrCorruptFrame.WithMessage(
			fmt.Sprintf(
				"last entry is truncated: %d of %d bytes present",
				len(payload)%EntrySize,
				EntrySize,
			),
		)
	}

	numEntries := len(payload) / EntrySize
	if numEntries == 0 {
		return nil, rleimg.ErrTruncatedOrCorruptFrame.WithMessage("frame has no runs")
	}

	// First pass: make sure the entries fill the raster exactly, so a corrupt
	// frame never causes an allocation or a partial fill.
	filled := uint64(0)
	for i := 0; i < numEntries; i++ {
		entry, err := parseEntry(payload[i*EntrySize:(i+1)*EntrySize], i)
		if err != nil {
			return nil, err
		}
		filled, err = advanceCursor(filled, entry, totalPixels, i)
		if err != nil {
			return nil, err
		}
	}
	if filled != totalPixels {
		return nil, shortFillError(filled, totalPixels)
	}

	pixels := make([]uint8, totalPixels)
	cursor := 0
	for i := 0; i < numEntries; i++ {
		entry, _ := parseEntry(payload[i*EntrySize:(i+1)*EntrySize], i)
		fillRun(pixels[cursor:cursor+int(entry.Count)], uint8(entry.Value))
		cursor += int(entry.Count)
	}

	return &rleimg.Raster{
		Height: int(header.Height),
		Width:  int(header.Width),
		Pix:    pixels,
	}, nil
}

// ReadFrame reads a frame from a stream until EOF and reconstructs the raster
// it holds. It applies the same checks as [UnpackWithOptions], but the output
// raster is allocated as soon as the header has been validated, so memory use
// is bounded by `opts.MaxPixels` rather than by the size of the input.
func ReadFrame(input io.Reader, opts DecodeOptions) (*rleimg.Raster, error) {
	source := bufio.NewReader(input)

	var headerBytes [HeaderSize]byte
	_, err := io.ReadFull(source, headerBytes[:])
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, rleimg.ErrTruncatedOrCorruptFrame.Wrap(
				fmt.Errorf("missing frame header: %w", io.ErrUnexpectedEOF))
		}
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	header, totalPixels, err := parseHeader(headerBytes[:], opts)
	if err != nil {
		return nil, err
	}

	pixels := make([]uint8, totalPixels)
	filled := uint64(0)
	var entryBytes [EntrySize]byte

	for i := 0; ; i++ {
		_, err := io.ReadFull(source, entryBytes[:])
		if errors.Is(err, io.EOF) {
			// Clean EOF on an entry boundary.
			if i == 0 {
				return nil, rleimg.ErrTruncatedOrCorruptFrame.WithMessage("frame has no runs")
			}
			break
		} else if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, rleimg.ErrTruncatedOrCorruptFrame.Wrap(
				fmt.Errorf("entry %d is truncated: %w", i, err))
		} else if err != nil {
			return nil, fmt.Errorf("error reading input: %w", err)
		}

		entry, err := parseEntry(entryBytes[:], i)
		if err != nil {
			return nil, err
		}

		start := filled
		filled, err = advanceCursor(filled, entry, totalPixels, i)
		if err != nil {
			return nil, err
		}
		fillRun(pixels[start:filled], uint8(entry.Value))
	}

	if filled != totalPixels {
		return nil, shortFillError(filled, totalPixels)
	}

	return &rleimg.Raster{
		Height: int(header.Height),
		Width:  int(header.Width),
		Pix:    pixels,
	}, nil
}

func parseHeader(data []byte, opts DecodeOptions) (frameHeader, uint64, error) {
	header := frameHeader{
		Height: binary.BigEndian.Uint32(data[0:4]),
		Width:  binary.BigEndian.Uint32(data[4:8]),
	}

	if header.Height == 0 || header.Width == 0 {
		return header, 0, rleimg.ErrTruncatedOrCorruptFrame.WithMessage(
			fmt.Sprintf("frame declares an empty %dx%d raster", header.Height, header.Width))
	}

	totalPixels := uint64(header.Height) * uint64(header.Width)
	limit := opts.maxPixels()
	if totalPixels > limit {
		return header, 0, rleimg.ErrFrameTooLarge.WithMessage(
			fmt.Sprintf(
				"%dx%d raster has %d pixels, limit is %d",
				header.Height,
				header.Width,
				totalPixels,
				limit,
			),
		)
	}
	return header, totalPixels, nil
}

func parseEntry(data []byte, index int) (frameEntry, error) {
	entry := frameEntry{
		Value: binary.BigEndian.Uint16(data[0:2]),
		Count: binary.BigEndian.Uint32(data[2:6]),
	}
	if entry.Value > math.MaxUint8 {
		return entry, rleimg.ErrTruncatedOrCorruptFrame.WithMessage(
			fmt.Sprintf("entry %d has value %d, not a valid pixel", index, entry.Value))
	}
	return entry, nil
}

// advanceCursor moves the fill cursor past an entry, failing if the entry would
// write past the end of the raster.
func advanceCursor(cursor uint64, entry frameEntry, totalPixels uint64, index int) (uint64, error) {
	next := cursor + uint64(entry.Count)
	if next > totalPixels {
		return cursor, rleimg.ErrTruncatedOrCorruptFrame.WithMessage(
			fmt.Sprintf(
				"entry %d overruns the raster: %d pixels described, only %d available",
				index,
				next,
				totalPixels,
			),
		)
	}
	return next, nil
}

func shortFillError(filled, totalPixels uint64) error {
	return rleimg.ErrTruncatedOrCorruptFrame.WithMessage(
		fmt.Sprintf("runs describe %d pixels, raster has %d", filled, totalPixels))
}

func fillRun(dst []uint8, value uint8) {
	for i := range dst {
		dst[i] = value
	}
}
