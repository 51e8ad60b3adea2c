package calculator

import "errors"

// CalculateMACD computes the MACD line, signal line, and histogram:
// line = EMA(fast) - EMA(slow), signal = EMA(signalPeriod) of the line,
// histogram = line - signal. Requires slow+signalPeriod-1 prices.
func CalculateMACD(prices []float64, fast, slow, signalPeriod int) (line, signal, histogram float64, err error) {
	if fast <= 0 || slow <= 0 || signalPeriod <= 0 {
		return 0, 0, 0, errors.New("periods must be positive")
	}
	if fast >= slow {
		return 0, 0, 0, errors.New("fast period must be less than slow period")
	}
	if len(prices) < slow+signalPeriod-1 {
		return 0, 0, 0, errors.New("not enough data for MACD calculation")
	}

	fastSeries, err := CalculateEMASeries(prices, fast)
	if err != nil {
		return 0, 0, 0, err
	}
	slowSeries, err := CalculateEMASeries(prices, slow)
	if err != nil {
		return 0, 0, 0, err
	}

	// Both series end at the last price; align from the first index where
	// the slow EMA is defined.
	offset := len(fastSeries) - len(slowSeries)
	macdLine := make([]float64, len(slowSeries))
	for i := range slowSeries {
		macdLine[i] = fastSeries[i+offset] - slowSeries[i]
	}

	signalSeries, err := CalculateEMASeries(macdLine, signalPeriod)
	if err != nil {
		return 0, 0, 0, err
	}

	line = macdLine[len(macdLine)-1]
	signal = signalSeries[len(signalSeries)-1]
	return line, signal, line - signal, nil
}
