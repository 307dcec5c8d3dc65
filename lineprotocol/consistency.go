package lineprotocol

import "fmt"

// Consistency is the write acknowledgement level requested from a
// clustered server. The zero value leaves the choice to the server.
type Consistency uint8

const (
	ConsistencyDefault Consistency = iota
	ConsistencyAny
	ConsistencyOne
	ConsistencyQuorum
	ConsistencyAll
)

var consistencyNames = [...]string{
	ConsistencyDefault: "",
	ConsistencyAny:     "any",
	ConsistencyOne:     "one",
	ConsistencyQuorum:  "quorum",
	ConsistencyAll:     "all",
}

// String returns the value of the consistency query parameter
// of the write endpoint, or the empty string for ConsistencyDefault.
func (c Consistency) String() string {
	if int(c) < len(consistencyNames) {
		return consistencyNames[c]
	}
	return fmt.Sprintf("Consistency(%d)", c)
}

// ParseConsistency parses a consistency level name. The empty
// string yields ConsistencyDefault.
func ParseConsistency(s string) (Consistency, error) {
	for i, name := range consistencyNames {
		if name == s {
			return Consistency(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown consistency level %q", ErrInvalidArgument, s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Consistency) MarshalText() ([]byte, error) {
	if int(c) >= len(consistencyNames) {
		return nil, fmt.Errorf("cannot marshal %v", c)
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Consistency) UnmarshalText(data []byte) error {
	v, err := ParseConsistency(string(data))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
