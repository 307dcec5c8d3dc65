// Package influxwrite delivers encoded line-protocol batches to an
// InfluxDB 1.x server or to local files.
package influxwrite

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/influxdata/lpbatch/internal/logger"
	"github.com/influxdata/lpbatch/lineprotocol"
)

// Writer is implemented by anything that accepts an encoded batch
// for a database and retention policy. The body is written as
// newline-delimited line protocol by body.WriteTo.
type Writer interface {
	Write(ctx context.Context, database, retentionPolicy string, body io.WriterTo) error
}

// WriteBatch writes b to w using the batch's database and retention
// policy. An empty batch is not written.
func WriteBatch(ctx context.Context, w Writer, b *lineprotocol.Batch) error {
	if b.Len() == 0 {
		return nil
	}
	return w.Write(ctx, b.Database(), b.RetentionPolicy(), b)
}

// WritePoint writes a single point.
func WritePoint(ctx context.Context, w Writer, database, retentionPolicy string, p *lineprotocol.Point) error {
	b, err := lineprotocol.Database(database).RetentionPolicy(retentionPolicy).Point(p).Build()
	if err != nil {
		return err
	}
	return WriteBatch(ctx, w, b)
}

// StreamWriter writes bodies one after another to an io.Writer,
// such as os.Stdout. The database and retention policy are not
// recorded in the output.
type StreamWriter struct {
	mu     sync.Mutex
	w      io.Writer
	logger zerolog.Logger
}

// NewStreamWriter returns a StreamWriter writing to w.
func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{
		w:      w,
		logger: logger.Get("influxwrite"),
	}
}

// Write implements Writer.
func (s *StreamWriter) Write(ctx context.Context, database, retentionPolicy string, body io.WriterTo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := body.WriteTo(s.w)
	if err != nil {
		s.logger.Error().Err(err).Str("database", database).Int64("bytes", n).Msg("write failed")
		return fmt.Errorf("writing batch for %q: %w", database, err)
	}
	s.logger.Debug().
		Str("database", database).
		Str("retention_policy", retentionPolicy).
		Int64("bytes", n).
		Msg("batch written")
	return nil
}
