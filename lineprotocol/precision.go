package lineprotocol

import (
	"fmt"
	"time"
)

// Precision specifies the unit of a raw timestamp supplied to
// Builder.Time. Encoded timestamps are always in nanoseconds.
type Precision byte

const (
	Nanosecond Precision = iota
	Microsecond
	Millisecond
	Second
	Minute
	Hour
)

// asNanoseconds returns x multiplied by p.Duration.
// It reports whether the multiplication succeeded without
// overflow.
func (p Precision) asNanoseconds(x int64) (int64, bool) {
	if p == Nanosecond {
		return x, true
	}
	d := int64(p.Duration())
	// Note: because p has a limited number of values, we don't have
	// to worry about edge cases like x being the most negative number.
	if c := x * d; c/d == x {
		return c, true
	}
	return 0, false
}

// Duration returns the time duration for the given precision.
func (p Precision) Duration() time.Duration {
	switch p {
	case Nanosecond:
		return time.Nanosecond
	case Microsecond:
		return time.Microsecond
	case Millisecond:
		return time.Millisecond
	case Second:
		return time.Second
	case Minute:
		return time.Minute
	case Hour:
		return time.Hour
	}
	panic(fmt.Errorf("unknown precision %d", p))
}

func (p Precision) String() string {
	switch p {
	case Nanosecond:
		return "ns"
	case Microsecond:
		return "µs"
	case Millisecond:
		return "ms"
	case Second:
		return "s"
	case Minute:
		return "m"
	case Hour:
		return "h"
	}
	return fmt.Sprintf("Precision(%d)", p)
}

// ParsePrecision parses the short unit names accepted by the
// InfluxDB write endpoint: n/ns, u/us/µs, ms, s, m and h.
func ParsePrecision(s string) (Precision, error) {
	switch s {
	case "", "n", "ns":
		return Nanosecond, nil
	case "u", "us", "µs":
		return Microsecond, nil
	case "ms":
		return Millisecond, nil
	case "s":
		return Second, nil
	case "m":
		return Minute, nil
	case "h":
		return Hour, nil
	}
	return 0, fmt.Errorf("%w: unknown precision %q", ErrInvalidArgument, s)
}
