package lineprotocol

import (
	"fmt"
	"time"
)

// Metric is implemented by metric types from other libraries that
// can be converted into points with FromMetric.
type Metric interface {
	Name() string
	TagList() []*Tag
	FieldList() []*MetricField
	Time() time.Time
}

// MetricField holds an untyped field as exposed by a Metric.
// The value must be acceptable to NewValue.
type MetricField struct {
	Key   string
	Value interface{}
}

// FromMetric converts m into a point. Tags and fields are validated
// the same way as by Builder.Tag and Builder.AddField. Note: it does
// no sorting; tags and fields keep the order m reports them in.
// A zero time leaves the point without a timestamp.
func FromMetric(m Metric) (*Point, error) {
	b := Measurement(m.Name())
	for _, t := range m.TagList() {
		if t != nil {
			b.Tag(t.Key, t.Value)
		}
	}
	for _, f := range m.FieldList() {
		if f != nil {
			b.AddField(f.Key, f.Value)
		}
	}
	if t := m.Time(); !t.IsZero() {
		b.Timestamp(t)
	}
	p, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("metric %q: %w", m.Name(), err)
	}
	return p, nil
}
