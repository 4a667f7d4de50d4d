package utils

import "errors"

var (
	// ErrInvalidInput is returned when an operation's preconditions are not
	// met, such as buffers of different lengths or an empty text to score.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInconclusive is returned alongside a result whose plaintext did not
	// meet the requested language confidence.
	ErrInconclusive = errors.New("inconclusive result")
)
