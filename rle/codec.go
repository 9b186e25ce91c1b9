package rle

import (
	"github.com/dargueta/rleimg"
)

// Encode compresses a raster into a frame. The frame is
// [FrameSize](number of runs) bytes long, where the runs are the maximal runs of
// the raster's pixels in row-major order.
//
// Encode holds no state between calls and never modifies the raster, so it's
// safe to call concurrently as long as nobody writes to the raster meanwhile.
func Encode(raster *rleimg.Raster) ([]byte, error) {
	err := raster.Validate()
	if err != nil {
		return nil, err
	}

	runs, err := ExtractRuns(raster.Pix)
	if err != nil {
		return nil, err
	}
	return Pack(raster.Height, raster.Width, runs)
}

// EncodeWithReport is [Encode] followed by [NewReport] on the result.
func EncodeWithReport(raster *rleimg.Raster) ([]byte, Report, error) {
	frame, err := Encode(raster)
	if err != nil {
		return nil, Report{}, err
	}

	report, err := NewReport(raster, frame)
	if err != nil {
		return nil, Report{}, err
	}
	return frame, report, nil
}

// Decode reconstructs a raster from a frame produced by [Encode]. It applies no
// size limit, so every raster [Encode] accepts can be decoded again; use
// [UnpackWithOptions] or [ReadFrame] for frames from untrusted sources.
func Decode(frame []byte) (*rleimg.Raster, error) {
	return UnpackWithOptions(frame, DecodeOptions{MaxPixels: -1})
}
