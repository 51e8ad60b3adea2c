package calculator

import (
	"math"
	"testing"
	"time"

	"CandleSage/internal/model"
)

func risingCloses(n int, start, step float64) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = start + float64(i)*step
	}
	return prices
}

func candlesFromCloses(closes []float64) []model.Candle {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]model.Candle, len(closes))
	for i, c := range closes {
		candles[i] = model.Candle{
			OpenTime: base.Add(time.Duration(i) * time.Hour),
			Open:     c * 0.999,
			High:     c * 1.002,
			Low:      c * 0.998,
			Close:    c,
			Volume:   1000,
		}
	}
	return candles
}

func TestCalculateSMA(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5}
	sma, err := CalculateSMA(prices, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sma != 3 {
		t.Errorf("expected SMA 3, got %v", sma)
	}

	// Only the trailing window counts.
	sma, err = CalculateSMA(prices, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sma != 4.5 {
		t.Errorf("expected SMA 4.5, got %v", sma)
	}

	if _, err := CalculateSMA(prices, 6); err == nil {
		t.Error("expected error for period longer than series")
	}
	if _, err := CalculateSMA(prices, 0); err == nil {
		t.Error("expected error for non-positive period")
	}
}

func TestCalculateEMA_ConstantSeries(t *testing.T) {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 42
	}
	ema, err := CalculateEMA(prices, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(ema-42) > 1e-9 {
		t.Errorf("EMA of constant series should equal the constant, got %v", ema)
	}
}

func TestCalculateEMA_TracksTrend(t *testing.T) {
	prices := risingCloses(60, 100, 1)
	emaShort, _ := CalculateEMA(prices, 10)
	emaLong, _ := CalculateEMA(prices, 30)
	if emaShort <= emaLong {
		t.Errorf("short EMA should lead long EMA on a rising series: short=%v long=%v", emaShort, emaLong)
	}
}

func TestCalculateRSI_Bounds(t *testing.T) {
	series := [][]float64{
		risingCloses(40, 100, 1),
		risingCloses(40, 100, -1),
		{100, 101, 99, 102, 98, 103, 97, 104, 96, 105, 95, 106, 94, 107, 93, 108},
	}
	for _, prices := range series {
		rsi, err := CalculateRSI(prices, 14)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rsi < 0 || rsi > 100 {
			t.Errorf("RSI out of bounds: %v", rsi)
		}
	}
}

func TestCalculateRSI_MonotonicSeries(t *testing.T) {
	up, err := CalculateRSI(risingCloses(60, 100, 1), 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if up < 99 {
		t.Errorf("RSI on strictly rising closes should converge toward 100, got %v", up)
	}

	down, err := CalculateRSI(risingCloses(60, 200, -1), 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if down > 1 {
		t.Errorf("RSI on strictly falling closes should converge toward 0, got %v", down)
	}
}

func TestCalculateRSI_FlatSeriesNeutral(t *testing.T) {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100
	}
	rsi, err := CalculateRSI(prices, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 50 {
		t.Errorf("RSI of a flat series should be 50, got %v", rsi)
	}
}

func TestCalculateRSI_InsufficientData(t *testing.T) {
	if _, err := CalculateRSI([]float64{1, 2, 3}, 14); err == nil {
		t.Error("expected error for insufficient history")
	}
}

func TestCalculateMACD_HistogramIdentity(t *testing.T) {
	prices := []float64{
		100, 102, 101, 103, 105, 104, 106, 108, 107, 109,
		111, 110, 112, 114, 113, 115, 117, 116, 118, 120,
		119, 121, 123, 122, 124, 126, 125, 127, 129, 128,
		130, 132, 131, 133, 135, 134, 136, 138, 137, 139,
	}
	line, signal, hist, err := CalculateMACD(prices, 12, 26, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(hist-(line-signal)) > 1e-12 {
		t.Errorf("histogram must equal line - signal exactly: hist=%v line=%v signal=%v", hist, line, signal)
	}
}

func TestCalculateMACD_Validation(t *testing.T) {
	prices := risingCloses(40, 100, 1)
	if _, _, _, err := CalculateMACD(prices, 26, 12, 9); err == nil {
		t.Error("expected error for fast >= slow")
	}
	if _, _, _, err := CalculateMACD(prices[:10], 12, 26, 9); err == nil {
		t.Error("expected error for insufficient history")
	}
}

func TestCalculateATR_PositiveAndScaled(t *testing.T) {
	candles := candlesFromCloses(risingCloses(30, 100, 0.5))
	atr, err := CalculateATR(candles, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atr <= 0 {
		t.Errorf("ATR should be positive, got %v", atr)
	}
	// The test candles have ~0.4% high-low range plus the 0.5 step, so the
	// ATR must stay well below the price itself.
	if atr > 5 {
		t.Errorf("ATR unexpectedly large: %v", atr)
	}
}

func TestComputeSnapshot_FullHistory(t *testing.T) {
	candles := candlesFromCloses(risingCloses(60, 100, 1))
	snap := ComputeSnapshot(candles, model.DefaultParams())

	if snap.RSI == nil || snap.MACDLine == nil || snap.MACDSignal == nil || snap.MACDHistogram == nil {
		t.Fatal("momentum indicators should all be present with 60 candles")
	}
	if snap.SMAShort == nil || snap.SMALong == nil || snap.EMAShort == nil || snap.EMALong == nil {
		t.Fatal("moving averages should all be present with 60 candles")
	}
	if snap.ATR == nil {
		t.Fatal("ATR should be present with 60 candles")
	}
	if *snap.RSI < 0 || *snap.RSI > 100 {
		t.Errorf("RSI out of bounds: %v", *snap.RSI)
	}
	if math.Abs(*snap.MACDHistogram-(*snap.MACDLine-*snap.MACDSignal)) > 1e-12 {
		t.Error("snapshot histogram must equal line - signal")
	}
}

func TestComputeSnapshot_ShortSeriesOmitsFields(t *testing.T) {
	candles := candlesFromCloses(risingCloses(5, 100, 1))
	snap := ComputeSnapshot(candles, model.DefaultParams())

	if snap.RSI != nil || snap.MACDLine != nil || snap.MACDSignal != nil || snap.MACDHistogram != nil ||
		snap.SMAShort != nil || snap.SMALong != nil || snap.EMAShort != nil || snap.EMALong != nil || snap.ATR != nil {
		t.Error("all fields should be omitted for a 5-candle series")
	}
}
