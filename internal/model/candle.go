package model

import (
	"fmt"
	"time"
)

// Candle represents a single OHLCV bar.
type Candle struct {
	OpenTime time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
}

// ValidateSeries checks that a candle series is usable as engine input:
// non-empty, strictly increasing open times, no duplicates.
func ValidateSeries(candles []Candle) error {
	if len(candles) == 0 {
		return fmt.Errorf("%w: empty series", ErrInvalidSeries)
	}
	for i := 1; i < len(candles); i++ {
		if !candles[i].OpenTime.After(candles[i-1].OpenTime) {
			return fmt.Errorf("%w: open_time not strictly increasing at index %d", ErrInvalidSeries, i)
		}
	}
	return nil
}

// Closes extracts the closing prices from a candle series.
func Closes(candles []Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}
