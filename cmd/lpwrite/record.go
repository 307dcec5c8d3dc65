package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/rs/zerolog"

	"github.com/influxdata/lpbatch/influxwrite"
	"github.com/influxdata/lpbatch/lineprotocol"
)

// record is one input line.
type record struct {
	Measurement string                 `json:"measurement"`
	Tags        map[string]string      `json:"tags"`
	Fields      map[string]interface{} `json:"fields"`
	// Time is an integer count of Precision units since the epoch.
	Time      json.Number `json:"time"`
	Precision string      `json:"precision"`
}

// parseRecord decodes a JSON record into a point. Numbers keep
// their literal form, so integer fields stay integers.
func parseRecord(data []byte) (*lineprotocol.Point, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var r record
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return nil, errors.New("invalid JSON: trailing data after record")
	}
	b := lineprotocol.Measurement(r.Measurement).Tags(r.Tags)
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.AddField(k, r.Fields[k])
	}
	if r.Time != "" {
		t, err := r.Time.Int64()
		if err != nil {
			return nil, fmt.Errorf("invalid time %q: %w", r.Time, err)
		}
		prec, err := lineprotocol.ParsePrecision(r.Precision)
		if err != nil {
			return nil, err
		}
		b.Time(t, prec)
	}
	p, err := b.Build()
	if err != nil {
		return nil, err
	}
	if len(r.Fields) == 0 {
		return nil, fmt.Errorf("measurement %q: %w", r.Measurement, lineprotocol.ErrMissingField)
	}
	return p, nil
}

// copier reads records and writes them in batches.
type copier struct {
	w           influxwrite.Writer
	batch       *lineprotocol.BatchBuilder
	size        int
	skipInvalid bool
	logger      zerolog.Logger
}

// stats summarizes a copy.
type stats struct {
	Lines   int
	Points  int
	Skipped int
	Batches int
}

// copy reads newline-delimited records from r until EOF. The current
// batch is written whenever it holds c.size points, and once more at
// the end.
func (c *copier) copy(ctx context.Context, r io.Reader) (stats, error) {
	var st stats
	b, err := c.batch.Build()
	if err != nil {
		return st, err
	}
	flush := func() error {
		if b.Len() == 0 {
			return nil
		}
		if err := influxwrite.WriteBatch(ctx, c.w, b); err != nil {
			return err
		}
		st.Points += b.Len()
		st.Batches++
		c.logger.Debug().Int("points", b.Len()).Int("line", st.Lines).Msg("batch flushed")
		b, err = c.batch.Build()
		return err
	}

	br := bufio.NewReader(r)
	for {
		line, rerr := br.ReadBytes('\n')
		if len(line) > 0 {
			st.Lines++
		}
		if line = bytes.TrimSpace(line); len(line) > 0 {
			p, err := parseRecord(line)
			switch {
			case err != nil && c.skipInvalid:
				st.Skipped++
				c.logger.Warn().Err(err).Int("line", st.Lines).Msg("skipping invalid record")
			case err != nil:
				return st, fmt.Errorf("line %d: %w", st.Lines, err)
			default:
				b.Point(p)
				if b.Len() >= c.size {
					if err := flush(); err != nil {
						return st, err
					}
				}
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return st, fmt.Errorf("reading input: %w", rerr)
		}
	}
	return st, flush()
}
