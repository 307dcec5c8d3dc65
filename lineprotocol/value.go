package lineprotocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"sync/atomic"
)

// ValueKind represents the type of a field value.
type ValueKind uint8

const (
	Unknown ValueKind = iota
	String
	Int
	Float
	Bool
)

var kindNames = [...]string{
	Unknown: "unknown",
	String:  "string",
	Int:     "int",
	Float:   "float",
	Bool:    "bool",
}

func (k ValueKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "ValueKind(" + strconv.Itoa(int(k)) + ")"
}

// MarshalText implements encoding.TextMarshaler.
func (k ValueKind) MarshalText() ([]byte, error) {
	if k == Unknown || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("cannot marshal value kind %v", k)
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ValueKind) UnmarshalText(data []byte) error {
	for i := String; int(i) < len(kindNames); i++ {
		if kindNames[i] == string(data) {
			*k = i
			return nil
		}
	}
	return fmt.Errorf("unknown value kind %q", data)
}

// Value holds one of the possible line-protocol field values.
// The zero Value has kind Unknown and cannot be encoded.
type Value struct {
	kind ValueKind
	// number holds the bits of an Int or Float, or 0/1 for a Bool.
	number uint64
	str    string
}

// IntValue returns a Value containing the value of x.
func IntValue(x int64) Value {
	return Value{kind: Int, number: uint64(x)}
}

// FloatValue returns a Value containing the value of x.
//
// FloatValue will fail and return false if x is a non-number
// (NaN or ±Inf), as those cannot be represented in line protocol.
func FloatValue(x float64) (Value, bool) {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return Value{}, false
	}
	return Value{kind: Float, number: math.Float64bits(x)}, true
}

// StringValue returns a Value containing the value of x.
func StringValue(x string) Value {
	return Value{kind: String, str: x}
}

// BoolValue returns a Value containing the value of x.
func BoolValue(x bool) Value {
	n := uint64(0)
	if x {
		n = 1
	}
	return Value{kind: Bool, number: n}
}

// MustNewValue is like NewValue except that it panics on failure.
func MustNewValue(x interface{}) Value {
	v, err := NewValue(x)
	if err != nil {
		panic(err)
	}
	return v
}

// NewValue coerces x into a Value. Every integer type, *big.Int,
// *atomic.Int32 and *atomic.Int64 become Int; float32, float64 and
// *big.Float become Float; a json.Number becomes Int when it is an
// integer literal and Float otherwise; string and []byte become
// String; bool becomes Bool.
//
// A nil x, a nil pointer or an unsupported type fails with an error
// satisfying errors.Is(err, ErrInvalidArgument). An integer that does
// not fit into an int64 fails with ErrValueOutOfRange.
func NewValue(x interface{}) (Value, error) {
	switch x := x.(type) {
	case nil:
		return Value{}, fmt.Errorf("%w: nil field value", ErrInvalidArgument)
	case int:
		return IntValue(int64(x)), nil
	case int8:
		return IntValue(int64(x)), nil
	case int16:
		return IntValue(int64(x)), nil
	case int32:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case uint8:
		return IntValue(int64(x)), nil
	case uint16:
		return IntValue(int64(x)), nil
	case uint32:
		return IntValue(int64(x)), nil
	case uint:
		return uintValue(uint64(x))
	case uint64:
		return uintValue(x)
	case *big.Int:
		if x == nil {
			return Value{}, fmt.Errorf("%w: nil *big.Int field value", ErrInvalidArgument)
		}
		if !x.IsInt64() {
			return Value{}, fmt.Errorf("integer %v: %w", x, ErrValueOutOfRange)
		}
		return IntValue(x.Int64()), nil
	case *atomic.Int32:
		if x == nil {
			return Value{}, fmt.Errorf("%w: nil *atomic.Int32 field value", ErrInvalidArgument)
		}
		return IntValue(int64(x.Load())), nil
	case *atomic.Int64:
		if x == nil {
			return Value{}, fmt.Errorf("%w: nil *atomic.Int64 field value", ErrInvalidArgument)
		}
		return IntValue(x.Load()), nil
	case float32:
		return floatValue(float64(x))
	case float64:
		return floatValue(x)
	case *big.Float:
		if x == nil {
			return Value{}, fmt.Errorf("%w: nil *big.Float field value", ErrInvalidArgument)
		}
		f, _ := x.Float64()
		return floatValue(f)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return IntValue(n), nil
		}
		if isIntegerLiteral(string(x)) {
			return Value{}, fmt.Errorf("integer %s: %w", x, ErrValueOutOfRange)
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: invalid number %q", ErrInvalidArgument, x)
		}
		return floatValue(f)
	case string:
		return StringValue(x), nil
	case []byte:
		if x == nil {
			return Value{}, fmt.Errorf("%w: nil []byte field value", ErrInvalidArgument)
		}
		return StringValue(string(x)), nil
	case bool:
		return BoolValue(x), nil
	}
	return Value{}, fmt.Errorf("%w: unsupported field value type %T", ErrInvalidArgument, x)
}

func uintValue(x uint64) (Value, error) {
	if x > math.MaxInt64 {
		return Value{}, fmt.Errorf("integer %d: %w", x, ErrValueOutOfRange)
	}
	return IntValue(int64(x)), nil
}

// isIntegerLiteral reports whether s is an optionally signed run of
// decimal digits.
func isIntegerLiteral(s string) bool {
	if s != "" && s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func floatValue(x float64) (Value, error) {
	v, ok := FloatValue(x)
	if !ok {
		return Value{}, fmt.Errorf("%w: non-number %v cannot be represented as a line-protocol field value", ErrInvalidArgument, x)
	}
	return v, nil
}

// numberAsFloat reports the value of x as a float64 when x is
// one of the numeric types accepted by NewValue.
func numberAsFloat(x interface{}) (float64, bool) {
	switch x := x.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case *big.Int:
		if x == nil {
			return 0, false
		}
		f, _ := new(big.Float).SetInt(x).Float64()
		return f, true
	case *big.Float:
		if x == nil {
			return 0, false
		}
		f, _ := x.Float64()
		return f, true
	case *atomic.Int32:
		if x == nil {
			return 0, false
		}
		return float64(x.Load()), true
	case *atomic.Int64:
		if x == nil {
			return 0, false
		}
		return float64(x.Load()), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}

// Kind returns the kind of the value.
func (v Value) Kind() ValueKind {
	return v.kind
}

// Equal reports whether v1 and v2 hold the same kind and value.
func (v1 Value) Equal(v2 Value) bool {
	return v1 == v2
}

// IntV returns the value as an int64. It panics if v.Kind is not Int.
func (v Value) IntV() int64 {
	v.mustBe(Int)
	return int64(v.number)
}

// FloatV returns the value as a float64. It panics if v.Kind is not Float.
func (v Value) FloatV() float64 {
	v.mustBe(Float)
	return math.Float64frombits(v.number)
}

// StringV returns the value as a string. It panics if v.Kind is not String.
func (v Value) StringV() string {
	v.mustBe(String)
	return v.str
}

// BoolV returns the value as a bool. It panics if v.Kind is not Bool.
func (v Value) BoolV() bool {
	v.mustBe(Bool)
	return v.number != 0
}

// Interface returns the value as an interface. The returned value
// will have a different dynamic type depending on the value kind;
// one of int64 (Int), float64 (Float), string (String), bool (Bool).
func (v Value) Interface() interface{} {
	switch v.Kind() {
	case Int:
		return v.IntV()
	case String:
		return v.StringV()
	case Bool:
		return v.BoolV()
	case Float:
		return v.FloatV()
	}
	return nil
}

func (v Value) mustBe(k ValueKind) {
	if v.Kind() != k {
		panic(fmt.Errorf("value has unexpected kind; got %v want %v", v.Kind(), k))
	}
}

// String returns the value exactly as it appears in a
// line-protocol field.
func (v Value) String() string {
	return string(v.appendBytes(nil))
}

// appendBytes appends the line-protocol form of v to buf.
func (v Value) appendBytes(buf []byte) []byte {
	switch v.Kind() {
	case Int:
		buf = strconv.AppendInt(buf, v.IntV(), 10)
		return append(buf, 'i')
	case Float:
		return appendFloat(buf, v.FloatV())
	case String:
		buf = append(buf, '"')
		buf = stringFieldEscaper.appendEscaped(buf, v.str)
		return append(buf, '"')
	case Bool:
		return strconv.AppendBool(buf, v.BoolV())
	}
	panic("unknown value kind")
}

// appendFloat appends the shortest decimal form of f that parses back
// to the same float64. Integral values keep a ".0" suffix; magnitudes
// outside [1e-6, 1e21) use exponent notation.
func appendFloat(buf []byte, f float64) []byte {
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.AppendFloat(buf, f, 'e', -1, 64)
	}
	start := len(buf)
	buf = strconv.AppendFloat(buf, f, 'f', -1, 64)
	if bytes.IndexByte(buf[start:], '.') == -1 {
		buf = append(buf, '.', '0')
	}
	return buf
}
