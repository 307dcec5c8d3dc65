package verify

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	lpv2 "github.com/influxdata/line-protocol/v2/lineprotocol"

	"github.com/influxdata/lpbatch/lineprotocol"
)

func TestLinesAcceptsEncodedBatch(t *testing.T) {
	c := qt.New(t)
	b, err := lineprotocol.Database("db").Tag("dc", "eu west").Point(
		lineprotocol.Measurement("cpu load").Tag("host", "a,b").AddField("idle", 97.5).Time(1625823259, lineprotocol.Second).MustBuild(),
		lineprotocol.Measurement("mem").AddField("msg", `say "hi"`).AddField("used", 12).MustBuild(),
	).Build()
	c.Assert(err, qt.IsNil)
	var in bytes.Buffer
	_, err = b.WriteTo(&in)
	c.Assert(err, qt.IsNil)

	var errs bytes.Buffer
	res := Lines(lpv2.NewDecoder(&in), lpv2.Nanosecond, &errs, "batch")
	c.Assert(errs.String(), qt.Equals, "")
	c.Assert(res, qt.Equals, Result{Lines: 2})
}

func TestLinesReportsBadLines(t *testing.T) {
	c := qt.New(t)
	input := strings.Join([]string{
		"cpu v=1",
		"cpu",
		"cpu v=1 notatime",
		"# comment",
		"cpu,host v=1",
		"cpu v=1i 9223372036854775807",
	}, "\n") + "\n"
	var errs bytes.Buffer
	res := Lines(lpv2.NewDecoder(strings.NewReader(input)), lpv2.Second, &errs, "in.lp")
	c.Assert(res.Lines, qt.Equals, 5)
	c.Assert(res.Errors, qt.Equals, 4)
	c.Assert(res.OK(), qt.IsFalse)
	lines := strings.Split(strings.TrimSuffix(errs.String(), "\n"), "\n")
	c.Assert(lines, qt.HasLen, 4)
	for i, want := range []string{"line 2", "line 3", "line 5"} {
		c.Check(lines[i], qt.Matches, `in\.lp: at `+want+`:\d+: .*`)
	}
	c.Check(lines[3], qt.Matches, `in\.lp: .*range.*`)
}

func TestDecoderPrecision(t *testing.T) {
	c := qt.New(t)
	for _, test := range []struct {
		precision lineprotocol.Precision
		expect    lpv2.Precision
	}{
		{lineprotocol.Nanosecond, lpv2.Nanosecond},
		{lineprotocol.Microsecond, lpv2.Microsecond},
		{lineprotocol.Millisecond, lpv2.Millisecond},
		{lineprotocol.Second, lpv2.Second},
	} {
		p, err := DecoderPrecision(test.precision)
		c.Assert(err, qt.IsNil)
		c.Check(p, qt.Equals, test.expect)
	}
}

func TestDecoderPrecisionRejectsCoarseUnits(t *testing.T) {
	c := qt.New(t)
	for _, test := range []struct {
		precision   lineprotocol.Precision
		expectError string
	}{
		{lineprotocol.Minute, `invalid argument: precision m cannot be verified; use ns, us, ms or s`},
		{lineprotocol.Hour, `invalid argument: precision h cannot be verified; use ns, us, ms or s`},
	} {
		_, err := DecoderPrecision(test.precision)
		c.Check(err, qt.ErrorMatches, test.expectError)
		c.Check(errors.Is(err, lineprotocol.ErrInvalidArgument), qt.IsTrue)
	}
}
