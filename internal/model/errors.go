package model

import "errors"

var (
	// ErrInvalidSeries marks candle input that cannot be analyzed at all:
	// empty, unsorted, or containing duplicate timestamps.
	ErrInvalidSeries = errors.New("invalid candle series")

	// ErrInvalidConfig marks out-of-range engine parameters. Raised during
	// parameter validation, before any computation starts.
	ErrInvalidConfig = errors.New("invalid engine configuration")
)
