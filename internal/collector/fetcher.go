package collector

import "CandleSage/internal/model"

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchCandles returns up to limit candles for the symbol and interval,
	// ordered ascending by open time with no duplicate timestamps.
	FetchCandles(symbol, interval string, limit int) ([]model.Candle, error)
	// FetchSymbols returns the trading pairs the upstream currently serves.
	FetchSymbols() ([]string, error)
	Name() string
}
