package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dargueta/rleimg"
	"github.com/dargueta/rleimg/imageio"
	"github.com/dargueta/rleimg/rle"
	"github.com/gocarina/gocsv"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const (
	formatTable = "table"
	formatCSV   = "csv"
)

// runRecord is one row of the `runs` command's output.
type runRecord struct {
	Index  int `csv:"index"`
	Offset int `csv:"offset"`
	Value  int `csv:"value"`
	Count  int `csv:"count"`
}

func requireArgs(ctx *cli.Context, count int) error {
	if ctx.NArg() != count {
		return rleimg.ErrInvalidInput.WithMessage(
			fmt.Sprintf(
				"expected %d argument(s) (%s), got %d",
				count,
				ctx.Command.ArgsUsage,
				ctx.NArg(),
			),
		)
	}
	return nil
}

func encodeImage(ctx *cli.Context) error {
	err := requireArgs(ctx, 2)
	if err != nil {
		return err
	}

	imagePath := ctx.Args().Get(0)
	framePath := ctx.Args().Get(1)
	if ctx.Bool("gzip") && !imageio.IsGzipPath(framePath) {
		framePath += imageio.GzipSuffix
	}

	raster, err := imageio.LoadRaster(imagePath)
	if err != nil {
		return err
	}
	log.Debug().
		Str("image", imagePath).
		Int("height", raster.Height).
		Int("width", raster.Width).
		Msg("loaded image")

	frame, report, err := rle.EncodeWithReport(raster)
	if err != nil {
		return err
	}

	fileSize, err := imageio.WriteFrameFile(framePath, frame)
	if err != nil {
		return err
	}
	log.Info().
		Str("image", imagePath).
		Str("frame", framePath).
		Int("runs", report.Runs).
		Int64("file_bytes", fileSize).
		Msg("encoded image")

	return writeReport(ctx.App.Writer, report, formatTable)
}

func decodeFrame(ctx *cli.Context) error {
	err := requireArgs(ctx, 2)
	if err != nil {
		return err
	}

	framePath := ctx.Args().Get(0)
	imagePath := ctx.Args().Get(1)

	opts := rle.DecodeOptions{MaxPixels: ctx.Int64("max-pixels")}
	raster, err := imageio.ReadFrameFile(framePath, opts)
	if err != nil {
		return err
	}

	err = imageio.SaveRaster(imagePath, raster)
	if err != nil {
		return err
	}
	log.Info().
		Str("frame", framePath).
		Str("image", imagePath).
		Int("height", raster.Height).
		Int("width", raster.Width).
		Msg("decoded frame")
	return nil
}

func reportImage(ctx *cli.Context) error {
	err := requireArgs(ctx, 1)
	if err != nil {
		return err
	}

	format := ctx.String("format")
	if format != formatTable && format != formatCSV {
		return rleimg.ErrInvalidInput.WithMessage(
			fmt.Sprintf("unknown report format %q", format))
	}

	raster, err := imageio.LoadRaster(ctx.Args().Get(0))
	if err != nil {
		return err
	}

	_, report, err := rle.EncodeWithReport(raster)
	if err != nil {
		return err
	}
	return writeReport(ctx.App.Writer, report, format)
}

func writeReport(output io.Writer, report rle.Report, format string) error {
	rows := report.Rows()
	if format == formatCSV {
		return gocsv.Marshal(rows, output)
	}

	for _, row := range rows {
		_, err := fmt.Fprintf(output, "%-36s%s\n", row.Property, row.Value)
		if err != nil {
			return err
		}
	}
	return nil
}

func dumpRuns(ctx *cli.Context) error {
	err := requireArgs(ctx, 1)
	if err != nil {
		return err
	}

	raster, err := imageio.LoadRaster(ctx.Args().Get(0))
	if err != nil {
		return err
	}

	// Stream the pixels through a grouper so the runs come out in the same
	// order they're stored in a frame.
	runs, err := rle.NewRunGrouper(bytes.NewReader(raster.Pix)).All()
	if err != nil {
		return err
	}

	records := make([]runRecord, len(runs))
	offset := 0
	for i, run := range runs {
		records[i] = runRecord{Index: i, Offset: offset, Value: run.Value, Count: run.Count}
		offset += run.Count
	}
	return gocsv.Marshal(records, ctx.App.Writer)
}

func verifyImages(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return rleimg.ErrInvalidInput.WithMessage("no images given")
	}

	var result *multierror.Error
	for _, path := range ctx.Args().Slice() {
		err := verifyRoundTrip(path)
		if err != nil {
			log.Error().Err(err).Str("image", path).Msg("round trip failed")
			result = multierror.Append(result, fmt.Errorf("%s: %w", path, err))
			continue
		}

		log.Debug().Str("image", path).Msg("round trip ok")
		fmt.Fprintf(ctx.App.Writer, "%s: ok\n", path)
	}
	return result.ErrorOrNil()
}

func verifyRoundTrip(path string) error {
	raster, err := imageio.LoadRaster(path)
	if err != nil {
		return err
	}

	frame, err := rle.Encode(raster)
	if err != nil {
		return err
	}

	decoded, err := rle.Decode(frame)
	if err != nil {
		return err
	}
	if !raster.Equal(decoded) {
		return rleimg.ErrTruncatedOrCorruptFrame.WithMessage("decoded raster doesn't match the original")
	}
	return nil
}
