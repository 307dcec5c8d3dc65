package lineprotocol

import (
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
)

func jsonNumber(s string) json.Number {
	return json.Number(s)
}

var newValueTests = []struct {
	testName        string
	arg             interface{}
	expectError     string
	expectKind      ValueKind
	expectInterface interface{}
	expectString    string
}{{
	testName:        "int",
	arg:             1234,
	expectKind:      Int,
	expectInterface: int64(1234),
	expectString:    "1234i",
}, {
	testName:        "uint8",
	arg:             uint8(255),
	expectKind:      Int,
	expectInterface: int64(255),
	expectString:    "255i",
}, {
	testName:        "uint64-in-range",
	arg:             uint64(math.MaxInt64),
	expectKind:      Int,
	expectInterface: int64(math.MaxInt64),
	expectString:    "9223372036854775807i",
}, {
	testName:    "uint64-out-of-range",
	arg:         uint64(math.MaxInt64) + 1,
	expectError: `integer 9223372036854775808: line-protocol value out of range`,
}, {
	testName:    "big-int-out-of-range",
	arg:         new(big.Int).Lsh(big.NewInt(1), 70),
	expectError: `integer 1180591620717411303424: line-protocol value out of range`,
}, {
	testName:        "float",
	arg:             1e3,
	expectKind:      Float,
	expectInterface: float64(1000),
	expectString:    "1000.0",
}, {
	testName:        "json-int",
	arg:             jsonNumber("-17"),
	expectKind:      Int,
	expectInterface: int64(-17),
	expectString:    "-17i",
}, {
	testName:        "json-float",
	arg:             jsonNumber("1e3"),
	expectKind:      Float,
	expectInterface: float64(1000),
	expectString:    "1000.0",
}, {
	testName:    "json-int-out-of-range",
	arg:         jsonNumber("9223372036854775808"),
	expectError: `integer 9223372036854775808: line-protocol value out of range`,
}, {
	testName:    "json-invalid",
	arg:         jsonNumber("abc"),
	expectError: `invalid argument: invalid number "abc"`,
}, {
	testName:        "bool-true",
	arg:             true,
	expectKind:      Bool,
	expectInterface: true,
	expectString:    "true",
}, {
	testName:        "bool-false",
	arg:             false,
	expectKind:      Bool,
	expectInterface: false,
	expectString:    "false",
}, {
	testName:        "string",
	arg:             `hello "world"`,
	expectKind:      String,
	expectInterface: `hello "world"`,
	expectString:    `"hello \"world\""`,
}, {
	testName:        "bytes",
	arg:             []byte(`a\b`),
	expectKind:      String,
	expectInterface: `a\b`,
	expectString:    `"a\\b"`,
}, {
	testName:    "NaN",
	arg:         math.NaN(),
	expectError: `invalid argument: non-number NaN cannot be represented as a line-protocol field value`,
}, {
	testName:    "-Inf",
	arg:         math.Inf(-1),
	expectError: `invalid argument: non-number -Inf cannot be represented as a line-protocol field value`,
}, {
	testName:    "nil",
	arg:         nil,
	expectError: `invalid argument: nil field value`,
}, {
	testName:    "nil-bytes",
	arg:         []byte(nil),
	expectError: `invalid argument: nil \[\]byte field value`,
}, {
	testName:    "unsupported",
	arg:         complex(1, 2),
	expectError: `invalid argument: unsupported field value type complex128`,
}}

func TestNewValue(t *testing.T) {
	c := qt.New(t)
	for _, test := range newValueTests {
		c.Run(test.testName, func(c *qt.C) {
			v, err := NewValue(test.arg)
			if test.expectError != "" {
				c.Assert(err, qt.ErrorMatches, test.expectError)
				c.Assert(errors.Is(err, ErrInvalidArgument) || errors.Is(err, ErrValueOutOfRange), qt.IsTrue)
				return
			}
			c.Assert(err, qt.IsNil)
			c.Assert(v.Kind(), qt.Equals, test.expectKind)
			c.Assert(v.Interface(), qt.Equals, test.expectInterface)
			c.Assert(v.String(), qt.Equals, test.expectString)
		})
	}
}

func TestNewValueCopiesBytes(t *testing.T) {
	c := qt.New(t)
	b := []byte("abc")
	v := MustNewValue(b)
	b[0] = 'x'
	c.Assert(v.StringV(), qt.Equals, "abc")
}

func TestMustNewValuePanics(t *testing.T) {
	c := qt.New(t)
	c.Assert(func() { MustNewValue(nil) }, qt.PanicMatches, `invalid argument: nil field value`)
}

func TestValueAccessorsPanicOnWrongKind(t *testing.T) {
	c := qt.New(t)
	v := IntValue(1)
	c.Assert(func() { v.FloatV() }, qt.PanicMatches, `value has unexpected kind; got int want float`)
	c.Assert(func() { v.StringV() }, qt.PanicMatches, `value has unexpected kind; got int want string`)
	c.Assert(func() { v.BoolV() }, qt.PanicMatches, `value has unexpected kind; got int want bool`)
	c.Assert(func() { BoolValue(true).IntV() }, qt.PanicMatches, `value has unexpected kind; got bool want int`)
}

func TestValueEqual(t *testing.T) {
	c := qt.New(t)
	c.Assert(IntValue(1).Equal(IntValue(1)), qt.IsTrue)
	c.Assert(IntValue(1).Equal(BoolValue(true)), qt.IsFalse)
	f, ok := FloatValue(1)
	c.Assert(ok, qt.IsTrue)
	c.Assert(f.Equal(IntValue(1)), qt.IsFalse)
	c.Assert(StringValue("a").Equal(MustNewValue([]byte("a"))), qt.IsTrue)
	c.Assert(Value{}.Kind(), qt.Equals, Unknown)
	c.Assert(Value{}.Interface(), qt.IsNil)
}

func TestFloatValueRejectsNonNumbers(t *testing.T) {
	c := qt.New(t)
	for _, x := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, ok := FloatValue(x)
		c.Assert(ok, qt.IsFalse)
	}
}

var floatFormatTests = []struct {
	arg    float64
	expect string
}{
	{1, "1.0"},
	{-1, "-1.0"},
	{0.5, "0.5"},
	{100000000.0001, "100000000.0001"},
	{123456789012345680000, "123456789012345680000.0"},
	{1e21, "1e+21"},
	{-1e22, "-1e+22"},
	{1e-6, "0.000001"},
	{1e-7, "1e-07"},
	{math.MaxFloat64, "1.7976931348623157e+308"},
	{math.SmallestNonzeroFloat64, "5e-324"},
}

func TestAppendFloat(t *testing.T) {
	c := qt.New(t)
	for _, test := range floatFormatTests {
		c.Check(string(appendFloat(nil, test.arg)), qt.Equals, test.expect, qt.Commentf("%v", test.arg))
	}
}

func TestValueKindText(t *testing.T) {
	c := qt.New(t)
	for _, k := range []ValueKind{String, Int, Float, Bool} {
		data, err := k.MarshalText()
		c.Assert(err, qt.IsNil)
		var k1 ValueKind
		c.Assert(k1.UnmarshalText(data), qt.IsNil)
		c.Assert(k1, qt.Equals, k)
	}
	_, err := Unknown.MarshalText()
	c.Assert(err, qt.ErrorMatches, `cannot marshal value kind unknown`)
	var k ValueKind
	c.Assert(k.UnmarshalText([]byte("unknown")), qt.ErrorMatches, `unknown value kind "unknown"`)
	c.Assert(ValueKind(99).String(), qt.Equals, "ValueKind(99)")
}
