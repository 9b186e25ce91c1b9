package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Msg("fatal error")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "rleimg",
		Usage: "Run-length encode grayscale images",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log debugging information",
				EnvVars: []string{"RLEIMG_VERBOSE"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "console",
				Usage:   "log output format, `FORMAT` is console or json",
				EnvVars: []string{"RLEIMG_LOG_FORMAT"},
			},
		},
		Before: configureLogging,
		Commands: []*cli.Command{
			{
				Name:      "encode",
				Usage:     "Encode an image into an RLE frame file",
				ArgsUsage: "IMAGE FRAME",
				Action:    encodeImage,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "gzip",
						Usage: "gzip the frame, adding a .gz suffix to FRAME if needed",
					},
				},
			},
			{
				Name:      "decode",
				Usage:     "Decode an RLE frame file back into an image",
				ArgsUsage: "FRAME IMAGE",
				Action:    decodeFrame,
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:    "max-pixels",
						Value:   0,
						Usage:   "refuse frames with more than `N` pixels (0 for the default, -1 for no limit)",
						EnvVars: []string{"RLEIMG_MAX_PIXELS"},
					},
				},
			},
			{
				Name:      "report",
				Usage:     "Show how well an image compresses",
				ArgsUsage: "IMAGE",
				Action:    reportImage,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Value: formatTable,
						Usage: "output `FORMAT`, table or csv",
					},
				},
			},
			{
				Name:      "runs",
				Usage:     "Dump the runs of an image as CSV",
				ArgsUsage: "IMAGE",
				Action:    dumpRuns,
			},
			{
				Name:      "verify",
				Usage:     "Check that images survive an encode/decode round trip",
				ArgsUsage: "IMAGE...",
				Action:    verifyImages,
			},
		},
	}
}

func configureLogging(ctx *cli.Context) error {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if ctx.Bool("verbose") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	switch ctx.String("log-format") {
	case "console":
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: ctx.App.ErrWriter})
	case "json":
		log.Logger = zerolog.New(ctx.App.ErrWriter).With().Timestamp().Logger()
	default:
		return fmt.Errorf(
			"invalid log format %q, expected console or json", ctx.String("log-format"))
	}
	return nil
}
