package spread

import "errors"

var (
	// ErrInvalidInput is returned for non-positive or non-finite prices and rates,
	// and for series with duplicate timestamps.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptySeries is returned when statistics are requested on zero observations.
	ErrEmptySeries = errors.New("empty spread series")

	// ErrDivisionHazard is returned when the implied price rounds to zero at
	// working precision, so it cannot be reported or divided by.
	ErrDivisionHazard = errors.New("implied price is zero")
)
