// Package verify checks line protocol with the reference decoder.
package verify

import (
	"fmt"
	"io"
	"time"

	lpv2 "github.com/influxdata/line-protocol/v2/lineprotocol"

	"github.com/influxdata/lpbatch/lineprotocol"
)

// Result counts the lines seen by Lines and those that failed.
type Result struct {
	Lines  int
	Errors int
}

// OK reports whether every line was valid.
func (r Result) OK() bool {
	return r.Errors == 0
}

// DecoderPrecision maps a precision to the decoder's equivalent.
// The decoder has no minute or hour precision, so those fail with
// ErrInvalidArgument rather than skipping the timestamp range check.
func DecoderPrecision(p lineprotocol.Precision) (lpv2.Precision, error) {
	switch p {
	case lineprotocol.Nanosecond:
		return lpv2.Nanosecond, nil
	case lineprotocol.Microsecond:
		return lpv2.Microsecond, nil
	case lineprotocol.Millisecond:
		return lpv2.Millisecond, nil
	case lineprotocol.Second:
		return lpv2.Second, nil
	}
	return 0, fmt.Errorf("%w: precision %v cannot be verified; use ns, us, ms or s", lineprotocol.ErrInvalidArgument, p)
}

// Lines decodes every line from dec, writing one message prefixed by
// name to errw for each malformed line. Decoding carries on after an
// error; the line following a bad one may verify without being what
// was intended.
func Lines(dec *lpv2.Decoder, prec lpv2.Precision, errw io.Writer, name string) Result {
	var res Result
	logErr := func(err error) {
		fmt.Fprintf(errw, "%s: %v\n", name, err)
		res.Errors++
	}
nextLine:
	for dec.Next() {
		res.Lines++
		if _, err := dec.Measurement(); err != nil {
			logErr(err)
			continue nextLine
		}
		for {
			key, _, err := dec.NextTag()
			if err != nil {
				logErr(err)
				continue nextLine
			}
			if key == nil {
				break
			}
		}
		for {
			key, _, err := dec.NextField()
			if err != nil {
				logErr(err)
				continue nextLine
			}
			if key == nil {
				break
			}
		}
		if _, err := dec.Time(prec, time.Time{}); err != nil {
			logErr(err)
			continue nextLine
		}
	}
	return res
}
