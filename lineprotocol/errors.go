package lineprotocol

import "errors"

var (
	// ErrInvalidArgument is returned when a builder is given a value
	// that can never form part of a valid point: an empty measurement,
	// an empty tag key or value, or a nil field value passed to AddField.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMissingField is returned when a point with no fields is encoded.
	// Builders accept points without fields so that they can be completed
	// later; only the encoder rejects them.
	ErrMissingField = errors.New("point has no fields")

	// ErrValueOutOfRange signals that a value is out of the acceptable numeric range.
	ErrValueOutOfRange = errors.New("line-protocol value out of range")
)
