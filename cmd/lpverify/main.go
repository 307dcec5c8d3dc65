// Command lpverify checks that its input is valid line protocol.
// Each malformed line is reported with its position, and the exit
// status is 1 if any line was rejected.
package main

import (
	"io"
	"os"

	lpv2 "github.com/influxdata/line-protocol/v2/lineprotocol"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/influxdata/lpbatch/internal/logger"
	"github.com/influxdata/lpbatch/internal/verify"
	"github.com/influxdata/lpbatch/lineprotocol"
)

func main() {
	app := &cli.App{
		Name:      "lpverify",
		Usage:     "verify line protocol read from files or stdin",
		ArgsUsage: "[FILE...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "precision",
				Aliases: []string{"p"},
				Value:   "ns",
				Usage:   "Timestamp precision used to check time bounds: ns, us, ms or s",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
			},
		},
		Action: func(c *cli.Context) error {
			logger.Setup(c.String("log-level"), "console")
			prec, err := parsePrecision(c.String("precision"))
			if err != nil {
				return err
			}
			var failed bool
			if c.NArg() == 0 {
				failed = !check(os.Stdin, "<stdin>", prec)
			}
			for _, name := range c.Args().Slice() {
				f, err := os.Open(name)
				if err != nil {
					return err
				}
				ok := check(f, name, prec)
				f.Close()
				failed = failed || !ok
			}
			if failed {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Error().Err(err).Msg("lpverify failed")
		os.Exit(1)
	}
}

func check(r io.Reader, name string, prec lpv2.Precision) bool {
	res := verify.Lines(lpv2.NewDecoder(r), prec, os.Stderr, name)
	lg := logger.Get("lpverify")
	lg.Info().
		Str("input", name).
		Int("lines", res.Lines).
		Int("errors", res.Errors).
		Msg("verified")
	return res.OK()
}

// parsePrecision parses the --precision flag.
func parsePrecision(s string) (lpv2.Precision, error) {
	p, err := lineprotocol.ParsePrecision(s)
	if err != nil {
		return 0, err
	}
	return verify.DecoderPrecision(p)
}
