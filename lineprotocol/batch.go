package lineprotocol

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Batch is an ordered collection of points destined for the same
// database and retention policy. Default tags attached to the batch
// are added to every point that doesn't already carry a tag with the
// same key.
//
// Points can only be appended. A Batch must not be mutated
// concurrently with any other use.
type Batch struct {
	database        string
	retentionPolicy string
	consistency     Consistency
	tags            []Tag
	points          []*Point
}

// BatchBuilder configures a Batch. Like Builder, it records the first
// invalid argument and reports it from Err and Build.
type BatchBuilder struct {
	b   Batch
	err error
}

// Database returns a builder for a batch targeting the named database.
func Database(name string) *BatchBuilder {
	bb := &BatchBuilder{}
	if name == "" {
		bb.err = fmt.Errorf("%w: empty database name", ErrInvalidArgument)
	}
	bb.b.database = name
	return bb
}

// Err returns the first error encountered by the builder.
func (bb *BatchBuilder) Err() error {
	return bb.err
}

// RetentionPolicy sets the retention policy. The empty string
// selects the database's default policy.
func (bb *BatchBuilder) RetentionPolicy(rp string) *BatchBuilder {
	bb.b.retentionPolicy = rp
	return bb
}

// Consistency sets the write consistency level.
func (bb *BatchBuilder) Consistency(c Consistency) *BatchBuilder {
	if bb.err == nil && int(c) >= len(consistencyNames) {
		bb.err = fmt.Errorf("%w: unknown consistency level %d", ErrInvalidArgument, c)
	}
	bb.b.consistency = c
	return bb
}

// Tag adds a default tag to the batch.
func (bb *BatchBuilder) Tag(key, value string) *BatchBuilder {
	if bb.err != nil {
		return bb
	}
	if err := checkTag(key, value); err != nil {
		bb.err = err
		return bb
	}
	bb.b.tags = setTag(bb.b.tags, key, value)
	return bb
}

// Tags adds all the given default tags.
func (bb *BatchBuilder) Tags(tags map[string]string) *BatchBuilder {
	for _, t := range sortedTags(tags) {
		bb.Tag(t.Key, t.Value)
	}
	return bb
}

// Point adds points to the batch being built.
func (bb *BatchBuilder) Point(ps ...*Point) *BatchBuilder {
	for _, p := range ps {
		if p != nil {
			bb.b.points = append(bb.b.points, p)
		}
	}
	return bb
}

// Build returns the batch. Default tags are sorted by key.
func (bb *BatchBuilder) Build() (*Batch, error) {
	if bb.err != nil {
		return nil, bb.err
	}
	b := bb.b
	b.tags = append([]Tag(nil), bb.b.tags...)
	sortTagSlice(b.tags)
	b.points = append([]*Point(nil), bb.b.points...)
	return &b, nil
}

// Database returns the target database.
func (b *Batch) Database() string {
	return b.database
}

// RetentionPolicy returns the target retention policy, which is
// empty when the database default should be used.
func (b *Batch) RetentionPolicy() string {
	return b.retentionPolicy
}

// Consistency returns the requested write consistency.
func (b *Batch) Consistency() Consistency {
	return b.consistency
}

// Tags returns a copy of the default tags, sorted by key.
func (b *Batch) Tags() []Tag {
	return append([]Tag(nil), b.tags...)
}

// Point appends p to the batch and returns the batch.
// A nil point is ignored.
func (b *Batch) Point(p *Point) *Batch {
	if p != nil {
		b.points = append(b.points, p)
	}
	return b
}

// Points returns a copy of the batch's points in insertion order.
func (b *Batch) Points() []*Point {
	return append([]*Point(nil), b.points...)
}

// Len returns the number of points in the batch.
func (b *Batch) Len() int {
	return len(b.points)
}

// WriteTo implements io.WriterTo. It encodes each point in insertion
// order and writes it, followed by a newline, to w. A single buffer
// holding one line at a time is reused across points, and each line
// is passed to w in one Write call.
//
// If a point cannot be encoded, WriteTo stops before writing any part
// of that line. An error from w is returned as is.
func (b *Batch) WriteTo(w io.Writer) (int64, error) {
	var (
		buf []byte
		err error
		n   int64
	)
	for i, p := range b.points {
		buf, err = AppendPoint(buf[:0], p, b.tags)
		if err != nil {
			return n, fmt.Errorf("encoding point %d: %w", i+1, err)
		}
		buf = append(buf, '\n')
		m, werr := w.Write(buf)
		n += int64(m)
		if werr != nil {
			return n, werr
		}
		if m != len(buf) {
			return n, io.ErrShortWrite
		}
	}
	return n, nil
}

// LineProtocol returns the whole batch as newline-terminated
// line-protocol text. It holds the entire encoding in memory; use
// WriteTo for large batches.
func (b *Batch) LineProtocol() (string, error) {
	var sb strings.Builder
	if _, err := b.WriteTo(&sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func sortTagSlice(tags []Tag) {
	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Key < tags[j].Key
	})
}
