package influxwrite

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/influxdata/lpbatch/lineprotocol"
)

// recordingWriter keeps every body it's given.
type recordingWriter struct {
	calls []recordedWrite
}

type recordedWrite struct {
	Database        string
	RetentionPolicy string
	Body            string
}

func (r *recordingWriter) Write(ctx context.Context, database, retentionPolicy string, body io.WriterTo) error {
	var buf bytes.Buffer
	if _, err := body.WriteTo(&buf); err != nil {
		return err
	}
	r.calls = append(r.calls, recordedWrite{database, retentionPolicy, buf.String()})
	return nil
}

func TestWriteBatch(t *testing.T) {
	c := qt.New(t)
	var w recordingWriter
	ctx := context.Background()
	c.Assert(WriteBatch(ctx, &w, testBatch(c, lineprotocol.ConsistencyDefault)), qt.IsNil)

	empty, err := lineprotocol.Database("other").Build()
	c.Assert(err, qt.IsNil)
	c.Assert(WriteBatch(ctx, &w, empty), qt.IsNil)

	c.Assert(w.calls, qt.DeepEquals, []recordedWrite{{"telegraf", "autogen", testBatchText}})
}

func TestWritePoint(t *testing.T) {
	c := qt.New(t)
	var w recordingWriter
	p := lineprotocol.Measurement("m").AddField("f", "x").MustBuild()
	c.Assert(WritePoint(context.Background(), &w, "db", "rp", p), qt.IsNil)
	c.Assert(w.calls, qt.DeepEquals, []recordedWrite{{"db", "rp", "m f=\"x\"\n"}})

	err := WritePoint(context.Background(), &w, "", "", p)
	c.Assert(errors.Is(err, lineprotocol.ErrInvalidArgument), qt.IsTrue)
}

type brokenSink struct{}

func (brokenSink) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestStreamWriter(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	w := NewStreamWriter(&buf)
	c.Assert(WriteBatch(context.Background(), w, testBatch(c, lineprotocol.ConsistencyDefault)), qt.IsNil)
	c.Assert(buf.String(), qt.Equals, testBatchText)

	err := WriteBatch(context.Background(), NewStreamWriter(brokenSink{}), testBatch(c, lineprotocol.ConsistencyDefault))
	c.Assert(err, qt.ErrorMatches, `writing batch for "telegraf": disk full`)
}
