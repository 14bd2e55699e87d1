package money

import (
	"errors"
)

// ErrInvalidValue is returned when an unexpected value
// is given to a constructor or parser.
var ErrInvalidValue = errors.New("invalid value")

// ErrNegativeResult is returned when an operation would take a
// value below zero.
var ErrNegativeResult = errors.New("negative result")
