package lineprotocol

import (
	"fmt"
	"math/big"
	"sort"
	"sync/atomic"
	"time"
)

// Tag holds a tag key and value.
type Tag struct {
	Key   string
	Value string
}

// Field holds a field key and its typed value.
type Field struct {
	Key   string
	Value Value
}

// Point is a single line-protocol entry: a measurement with tags,
// fields and an optional timestamp. A Point is immutable once built
// and may be encoded concurrently from multiple goroutines.
type Point struct {
	measurement string
	tags        []Tag
	fields      []Field
	time        int64
	precision   Precision
	hasTime     bool
}

// Measurement returns the point's measurement name.
func (p *Point) Measurement() string {
	return p.measurement
}

// Tags returns a copy of the point's tags in insertion order.
func (p *Point) Tags() []Tag {
	return append([]Tag(nil), p.tags...)
}

// Fields returns a copy of the point's fields in insertion order.
func (p *Point) Fields() []Field {
	return append([]Field(nil), p.fields...)
}

// Tag returns the value of the tag with the given key.
func (p *Point) Tag(key string) (string, bool) {
	for _, t := range p.tags {
		if t.Key == key {
			return t.Value, true
		}
	}
	return "", false
}

// Field returns the value of the field with the given key.
func (p *Point) Field(key string) (Value, bool) {
	for _, f := range p.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Time returns the raw timestamp and the precision it was supplied in.
// The final result reports whether the point has a timestamp at all;
// points without one are stamped by the server on arrival.
func (p *Point) Time() (int64, Precision, bool) {
	return p.time, p.precision, p.hasTime
}

// Builder accumulates the parts of a Point. The first invalid argument
// puts the builder into an error state: the error is reported by Err and
// Build, and all further calls are ignored.
//
// A Builder must not be used concurrently from multiple goroutines.
type Builder struct {
	p   Point
	err error
}

// NewBuilder returns an empty builder. A measurement must be set
// before Build is called.
func NewBuilder() *Builder {
	return &Builder{}
}

// Measurement returns a builder for a point in the named measurement.
func Measurement(name string) *Builder {
	return NewBuilder().Measurement(name)
}

// Err returns the first error encountered by the builder.
func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Measurement sets the measurement name, which must be non-empty.
func (b *Builder) Measurement(name string) *Builder {
	if b.err != nil {
		return b
	}
	if name == "" {
		b.setErr(fmt.Errorf("%w: empty measurement name", ErrInvalidArgument))
		return b
	}
	b.p.measurement = name
	return b
}

// Tag adds a tag. Neither key nor value may be empty. Setting a key
// that's already present replaces its value without changing its
// position.
func (b *Builder) Tag(key, value string) *Builder {
	if b.err != nil {
		return b
	}
	if err := checkTag(key, value); err != nil {
		b.setErr(err)
		return b
	}
	b.p.tags = setTag(b.p.tags, key, value)
	return b
}

// Tags adds all the given tags in key order. If any entry is invalid
// none of them are added.
func (b *Builder) Tags(tags map[string]string) *Builder {
	if b.err != nil {
		return b
	}
	for _, t := range sortedTags(tags) {
		if err := checkTag(t.Key, t.Value); err != nil {
			b.setErr(err)
			return b
		}
	}
	for _, t := range sortedTags(tags) {
		b.p.tags = setTag(b.p.tags, t.Key, t.Value)
	}
	return b
}

// AddField adds a field, converting value with NewValue. Integer types
// are kept as integers. A nil value is an error.
func (b *Builder) AddField(key string, value interface{}) *Builder {
	if b.err != nil {
		return b
	}
	if key == "" {
		b.setErr(fmt.Errorf("%w: empty field key", ErrInvalidArgument))
		return b
	}
	v, err := NewValue(value)
	if err != nil {
		b.setErr(fmt.Errorf("field %q: %w", key, err))
		return b
	}
	b.p.fields = setField(b.p.fields, key, v)
	return b
}

// Field adds a field with the lenient legacy semantics: a nil value
// (including a nil pointer of a supported type) omits the field
// entirely, and every numeric value, integer or not, is stored as a
// float. Other values are handled as by AddField.
func (b *Builder) Field(key string, value interface{}) *Builder {
	if b.err != nil || isNilValue(value) {
		return b
	}
	f, ok := numberAsFloat(value)
	if !ok {
		return b.AddField(key, value)
	}
	if key == "" {
		b.setErr(fmt.Errorf("%w: empty field key", ErrInvalidArgument))
		return b
	}
	v, err := floatValue(f)
	if err != nil {
		b.setErr(fmt.Errorf("field %q: %w", key, err))
		return b
	}
	b.p.fields = setField(b.p.fields, key, v)
	return b
}

// Time sets the timestamp of the point to t, measured in units of p
// since the Unix epoch. The value is not range checked here; it is
// converted to nanoseconds when the point is encoded.
func (b *Builder) Time(t int64, p Precision) *Builder {
	if b.err != nil {
		return b
	}
	if p > Hour {
		b.setErr(fmt.Errorf("%w: unknown precision %d", ErrInvalidArgument, p))
		return b
	}
	b.p.time = t
	b.p.precision = p
	b.p.hasTime = true
	return b
}

// Timestamp sets the timestamp of the point to t with nanosecond precision.
func (b *Builder) Timestamp(t time.Time) *Builder {
	return b.Time(t.UnixNano(), Nanosecond)
}

// Build returns the point. A point without fields is returned
// without error; it fails with ErrMissingField when encoded.
func (b *Builder) Build() (*Point, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.p.measurement == "" {
		return nil, fmt.Errorf("%w: no measurement set", ErrInvalidArgument)
	}
	p := b.p
	p.tags = append([]Tag(nil), b.p.tags...)
	p.fields = append([]Field(nil), b.p.fields...)
	return &p, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Point {
	p, err := b.Build()
	if err != nil {
		panic(err)
	}
	return p
}

// NewPoint returns a point with the given tags and fields, both added
// in key order. A zero t leaves the point without a timestamp.
func NewPoint(measurement string, tags map[string]string, fields map[string]interface{}, t time.Time) (*Point, error) {
	b := Measurement(measurement).Tags(tags)
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.AddField(k, fields[k])
	}
	if !t.IsZero() {
		b.Timestamp(t)
	}
	return b.Build()
}

func checkTag(key, value string) error {
	if key == "" {
		return fmt.Errorf("%w: empty tag key", ErrInvalidArgument)
	}
	if value == "" {
		return fmt.Errorf("%w: empty value for tag %q", ErrInvalidArgument, key)
	}
	return nil
}

func setTag(tags []Tag, key, value string) []Tag {
	for i := range tags {
		if tags[i].Key == key {
			tags[i].Value = value
			return tags
		}
	}
	return append(tags, Tag{Key: key, Value: value})
}

func setField(fields []Field, key string, v Value) []Field {
	for i := range fields {
		if fields[i].Key == key {
			fields[i].Value = v
			return fields
		}
	}
	return append(fields, Field{Key: key, Value: v})
}

// sortedTags returns the entries of m ordered by key.
func sortedTags(m map[string]string) []Tag {
	tags := make([]Tag, 0, len(m))
	for k, v := range m {
		tags = append(tags, Tag{Key: k, Value: v})
	}
	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Key < tags[j].Key
	})
	return tags
}

func isNilValue(x interface{}) bool {
	switch x := x.(type) {
	case nil:
		return true
	case *big.Int:
		return x == nil
	case *big.Float:
		return x == nil
	case *atomic.Int32:
		return x == nil
	case *atomic.Int64:
		return x == nil
	case []byte:
		return x == nil
	}
	return false
}
