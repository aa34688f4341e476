package effectcore

import "errors"

// Parameter errors reported through the context's error channel.
var (
	// ErrInvalidValue marks a float parameter set outside its documented
	// range. The stored parameter is left unchanged.
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidEnum marks an unrecognized parameter identifier, or a
	// get/set using the wrong value kind for the effect.
	ErrInvalidEnum = errors.New("invalid enum")
)
