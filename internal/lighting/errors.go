package lighting

import "errors"

// Decode failure classification. Both classes are dropped silently by the
// inbound path; the distinction exists for logging and tests.
var (
	// ErrMalformed is returned when a payload is not valid JSON at all.
	ErrMalformed = errors.New("lighting: malformed payload")

	// ErrSchemaMismatch is returned when a payload is valid JSON but does
	// not match any known variant shape (missing fields, wrong types,
	// unknown discriminant).
	ErrSchemaMismatch = errors.New("lighting: payload does not match any known schema")

	// ErrUnknownMode is returned when encoding a State whose Mode is not
	// one of the closed variant set.
	ErrUnknownMode = errors.New("lighting: unknown lighting mode")
)
