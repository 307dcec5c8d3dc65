package lineprotocol

import (
	"fmt"
	"strconv"
)

// AppendPoint appends the line-protocol form of p to buf, without a
// trailing newline, and returns the extended buffer.
//
// The defaults tags are merged into the point's tag set: they are
// written after the point's own tags, and a default is skipped when
// the point already has a tag with the same key.
//
// On error buf is returned unchanged.
func AppendPoint(buf []byte, p *Point, defaults []Tag) ([]byte, error) {
	if p == nil {
		return buf, fmt.Errorf("%w: nil point", ErrInvalidArgument)
	}
	if len(p.fields) == 0 {
		return buf, fmt.Errorf("measurement %q: %w", p.measurement, ErrMissingField)
	}
	var ns int64
	if p.hasTime {
		var ok bool
		ns, ok = p.precision.asNanoseconds(p.time)
		if !ok {
			return buf, fmt.Errorf("timestamp %d%s: %w", p.time, p.precision, ErrValueOutOfRange)
		}
	}
	buf = measurementEscaper.appendEscaped(buf, p.measurement)
	for _, t := range p.tags {
		buf = appendTag(buf, t)
	}
	for _, t := range defaults {
		if _, ok := p.Tag(t.Key); !ok {
			buf = appendTag(buf, t)
		}
	}
	buf = append(buf, ' ')
	for i, f := range p.fields {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = identEscaper.appendEscaped(buf, f.Key)
		buf = append(buf, '=')
		buf = f.Value.appendBytes(buf)
	}
	if p.hasTime {
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, ns, 10)
	}
	return buf, nil
}

func appendTag(buf []byte, t Tag) []byte {
	buf = append(buf, ',')
	buf = identEscaper.appendEscaped(buf, t.Key)
	buf = append(buf, '=')
	return identEscaper.appendEscaped(buf, t.Value)
}

// LineProtocol returns the line-protocol form of p without a
// trailing newline.
func (p *Point) LineProtocol() (string, error) {
	buf, err := AppendPoint(nil, p, nil)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// String implements fmt.Stringer. It returns the same text as
// LineProtocol, or a description of the error if the point cannot
// be encoded.
func (p *Point) String() string {
	s, err := p.LineProtocol()
	if err != nil {
		return fmt.Sprintf("<invalid point: %v>", err)
	}
	return s
}
