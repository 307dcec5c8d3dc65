// Command lpwrite reads newline-delimited JSON records and writes them
// as line protocol to stdout, a rotating file or an InfluxDB server.
//
// Each record looks like:
//
//	{"measurement":"cpu","tags":{"host":"a"},"fields":{"idle":97.5},"time":1625823259,"precision":"s"}
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/influxdata/lpbatch/influxwrite"
	"github.com/influxdata/lpbatch/internal/config"
	"github.com/influxdata/lpbatch/internal/logger"
	"github.com/influxdata/lpbatch/lineprotocol"
)

type parameters struct {
	input       string
	output      string
	skipInvalid bool
}

func main() {
	var params parameters
	app := &cli.App{
		Name:  "lpwrite",
		Usage: "write JSON records as InfluxDB line protocol",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i"},
				Usage:       "Read records from `FILE` instead of stdin",
				Destination: &params.input,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Value:       "stdout",
				Usage:       "Where to write: stdout, file or http",
				Destination: &params.output,
			},
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"d"},
				Usage:   "Target database (influx.database)",
			},
			&cli.StringFlag{
				Name:  "retention-policy",
				Usage: "Target retention policy (influx.retention_policy)",
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "InfluxDB base URL (influx.url)",
			},
			&cli.BoolFlag{
				Name:  "gzip",
				Usage: "Compress HTTP request bodies (influx.gzip)",
			},
			&cli.StringFlag{
				Name:  "file",
				Usage: "Output file path (file.path)",
			},
			&cli.IntFlag{
				Name:    "batch-size",
				Aliases: []string{"b"},
				Usage:   "Points per write (batch.size)",
			},
			&cli.StringSliceFlag{
				Name:    "tag",
				Aliases: []string{"t"},
				Usage:   "Default tag `KEY=VALUE` added to every point; may be repeated",
			},
			&cli.BoolFlag{
				Name:        "skip-invalid",
				Usage:       "Log and skip invalid records instead of stopping",
				Destination: &params.skipInvalid,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (log.level)",
			},
		},
		Action: func(c *cli.Context) error {
			return run(c, params)
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error().Err(err).Msg("lpwrite failed")
		os.Exit(1)
	}
}

func run(c *cli.Context, params parameters) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applyFlags(c, cfg); err != nil {
		return err
	}
	logger.Setup(cfg.Log.Level, cfg.Log.Format)
	lg := logger.Get("lpwrite")

	if cfg.Influx.Database == "" {
		return fmt.Errorf("no database configured; set --database or influx.database")
	}

	var in io.Reader = os.Stdin
	if params.input != "" && params.input != "-" {
		f, err := os.Open(params.input)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	w, closeWriter, err := newWriter(cfg, params.output)
	if err != nil {
		return err
	}
	defer closeWriter()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	cp := &copier{
		w: w,
		batch: lineprotocol.Database(cfg.Influx.Database).
			RetentionPolicy(cfg.Influx.RetentionPolicy).
			Consistency(cfg.Influx.Consistency).
			Tags(cfg.Batch.Tags),
		size:        cfg.Batch.Size,
		skipInvalid: params.skipInvalid,
		logger:      lg,
	}
	st, err := cp.copy(ctx, in)
	lg.Info().
		Int("lines", st.Lines).
		Int("points", st.Points).
		Int("skipped", st.Skipped).
		Int("batches", st.Batches).
		Str("output", params.output).
		Msg("done")
	return err
}

// applyFlags overrides configuration values with the flags that were
// given explicitly.
func applyFlags(c *cli.Context, cfg *config.Config) error {
	if c.IsSet("database") {
		cfg.Influx.Database = c.String("database")
	}
	if c.IsSet("retention-policy") {
		cfg.Influx.RetentionPolicy = c.String("retention-policy")
	}
	if c.IsSet("url") {
		cfg.Influx.URL = c.String("url")
	}
	if c.IsSet("gzip") {
		cfg.Influx.Gzip = c.Bool("gzip")
	}
	if c.IsSet("file") {
		cfg.File.Path = c.String("file")
	}
	if c.IsSet("batch-size") {
		if n := c.Int("batch-size"); n > 0 {
			cfg.Batch.Size = n
		} else {
			return fmt.Errorf("invalid --batch-size %d: must be positive", n)
		}
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	tags, err := parseTags(c.StringSlice("tag"))
	if err != nil {
		return err
	}
	if cfg.Batch.Tags == nil {
		cfg.Batch.Tags = make(map[string]string)
	}
	for k, v := range tags {
		cfg.Batch.Tags[k] = v
	}
	return nil
}

func parseTags(kvs []string) (map[string]string, error) {
	tags := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" || v == "" {
			return nil, fmt.Errorf("invalid tag %q: want KEY=VALUE", kv)
		}
		tags[k] = v
	}
	return tags, nil
}

func newWriter(cfg *config.Config, output string) (influxwrite.Writer, func() error, error) {
	nop := func() error { return nil }
	switch output {
	case "stdout", "":
		return influxwrite.NewStreamWriter(os.Stdout), nop, nil
	case "file":
		fw := influxwrite.NewFileWriter(influxwrite.FileConfig{
			Path:       cfg.File.Path,
			MaxSizeMB:  cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAgeDays: cfg.File.MaxAgeDays,
			Compress:   cfg.File.Compress,
		})
		return fw, fw.Close, nil
	case "http":
		hw, err := influxwrite.NewHTTPWriter(influxwrite.Config{
			URL:         cfg.Influx.URL,
			Username:    cfg.Influx.Username,
			Password:    cfg.Influx.Password,
			Consistency: cfg.Influx.Consistency,
			Gzip:        cfg.Influx.Gzip,
			Timeout:     cfg.Influx.Timeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return hw, nop, nil
	}
	return nil, nil, fmt.Errorf("unknown output %q; want stdout, file or http", output)
}
