package calculator

import (
	"errors"
	"math"

	"CandleSage/internal/model"
)

// CalculateATR computes the Wilder-smoothed average true range over the
// given period. Requires at least period+1 candles.
func CalculateATR(candles []model.Candle, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(candles) < period+1 {
		return 0, errors.New("not enough data for ATR calculation")
	}

	trueRange := func(cur, prev model.Candle) float64 {
		hl := cur.High - cur.Low
		hc := math.Abs(cur.High - prev.Close)
		lc := math.Abs(cur.Low - prev.Close)
		return math.Max(hl, math.Max(hc, lc))
	}

	// Seed with the mean of the first `period` true ranges.
	var atr float64
	for i := 1; i <= period; i++ {
		atr += trueRange(candles[i], candles[i-1])
	}
	atr /= float64(period)

	for i := period + 1; i < len(candles); i++ {
		atr = (atr*float64(period-1) + trueRange(candles[i], candles[i-1])) / float64(period)
	}
	return atr, nil
}
