package collector

import (
	"time"

	"CandleSage/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price   float64
	Candles []model.Candle
	Symbols []string
	Err     error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchCandles(_ string, _ string, limit int) ([]model.Candle, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Candles != nil {
		return m.Candles, nil
	}
	return GenerateCandles(m.Price, limit), nil
}

func (m *MockFetcher) FetchSymbols() ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Symbols, nil
}

// GenerateCandles produces a deterministic slightly-rising series around a
// base price, one candle per hour ending now.
func GenerateCandles(basePrice float64, count int) []model.Candle {
	candles := make([]model.Candle, count)
	start := time.Now().UTC().Truncate(time.Hour).Add(-time.Duration(count) * time.Hour)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		candles[i] = model.Candle{
			OpenTime: start.Add(time.Duration(i) * time.Hour),
			Open:     p * 0.999,
			High:     p * 1.005,
			Low:      p * 0.995,
			Close:    p,
			Volume:   1000000,
		}
	}
	return candles
}
