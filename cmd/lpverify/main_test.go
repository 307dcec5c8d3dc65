package main

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	lpv2 "github.com/influxdata/line-protocol/v2/lineprotocol"
)

func TestParsePrecision(t *testing.T) {
	c := qt.New(t)
	for _, test := range []struct {
		testName    string
		arg         string
		expect      lpv2.Precision
		expectError string
	}{
		{testName: "default", arg: "ns", expect: lpv2.Nanosecond},
		{testName: "micro", arg: "us", expect: lpv2.Microsecond},
		{testName: "milli", arg: "ms", expect: lpv2.Millisecond},
		{testName: "second", arg: "s", expect: lpv2.Second},
		{testName: "minute", arg: "m", expectError: `invalid argument: precision m cannot be verified; use ns, us, ms or s`},
		{testName: "hour", arg: "h", expectError: `invalid argument: precision h cannot be verified; use ns, us, ms or s`},
		{testName: "unknown", arg: "d", expectError: `invalid argument: unknown precision "d"`},
	} {
		c.Run(test.testName, func(c *qt.C) {
			p, err := parsePrecision(test.arg)
			if test.expectError != "" {
				c.Assert(err, qt.ErrorMatches, test.expectError)
				return
			}
			c.Assert(err, qt.IsNil)
			c.Assert(p, qt.Equals, test.expect)
		})
	}
}

func TestCheck(t *testing.T) {
	c := qt.New(t)
	c.Assert(check(strings.NewReader("cpu v=1i 1\n"), "good", lpv2.Second), qt.IsTrue)
	c.Assert(check(strings.NewReader("cpu v=1i 9223372036854775807\n"), "overflow", lpv2.Second), qt.IsFalse)
}
