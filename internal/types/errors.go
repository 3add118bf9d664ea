package types

import "errors"

// Error kinds shared by the simulation packages. Callers wrap these with
// fmt.Errorf("...: %w", err) and match them with errors.Is.
var (
	// ErrDomain indicates an input outside the mathematical domain of a
	// formula, such as a non-positive surface passed to a logarithm.
	ErrDomain = errors.New("value outside of the formula domain")

	// ErrInvalidInput indicates empty or mismatched series, or a missing
	// required field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateTimestamp indicates a time axis with repeated timestamps.
	ErrDuplicateTimestamp = errors.New("duplicate timestamp")
)
