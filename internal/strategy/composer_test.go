package strategy

import (
	"errors"
	"testing"
	"time"

	"CandleSage/internal/model"
)

func steadyRise(n int, start, step float64) []model.Candle {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]model.Candle, n)
	for i := range candles {
		c := start + float64(i)*step
		candles[i] = model.Candle{
			OpenTime: base.Add(time.Duration(i) * time.Hour),
			Open:     c - step/2,
			High:     c + step/4,
			Low:      c - step,
			Close:    c,
			Volume:   500,
		}
	}
	return candles
}

// Scenario A: 60 candles rising steadily from 100 to 160.
func TestCompose_SteadyUptrend(t *testing.T) {
	candles := steadyRise(60, 100, 1)
	pred, err := Compose("BTCUSDT", "1h", candles, model.DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pred.Direction != model.DirectionUp {
		t.Errorf("expected direction up, got %s", pred.Direction)
	}
	if pred.Confidence != 1.0 {
		t.Errorf("expected full confidence with all signals agreeing, got %v", pred.Confidence)
	}
	if pred.Risk == model.RiskHigh {
		t.Errorf("low-volatility uptrend should not be high risk, got %s", pred.Risk)
	}
	if pred.TrendStrength <= 0 {
		t.Errorf("expected positive trend strength, got %v", pred.TrendStrength)
	}
	if pred.Symbol != "BTCUSDT" || pred.Timeframe != "1h" {
		t.Errorf("prediction lost request identity: %s %s", pred.Symbol, pred.Timeframe)
	}
}

// Scenario B: 5 candles, below every lookback minimum. Still a Prediction,
// never an error.
func TestCompose_ShortSeriesDegrades(t *testing.T) {
	candles := steadyRise(5, 100, 1)
	pred, err := Compose("ETHUSDT", "1h", candles, model.DefaultParams())
	if err != nil {
		t.Fatalf("short series must not fail: %v", err)
	}
	if pred.Direction != model.DirectionNeutral {
		t.Errorf("expected neutral direction with no signals, got %s", pred.Direction)
	}
	if pred.Confidence != 0 {
		t.Errorf("expected confidence floored at 0, got %v", pred.Confidence)
	}
	if len(pred.Levels) != 0 {
		t.Errorf("expected empty levels, got %d", len(pred.Levels))
	}
	if pred.TrendStrength != 0 {
		t.Errorf("expected zero trend strength, got %v", pred.TrendStrength)
	}
}

// Scenario C: empty series is a hard failure.
func TestCompose_EmptySeries(t *testing.T) {
	_, err := Compose("BTCUSDT", "1h", nil, model.DefaultParams())
	if !errors.Is(err, model.ErrInvalidSeries) {
		t.Fatalf("expected ErrInvalidSeries, got %v", err)
	}
}

func TestCompose_UnsortedSeries(t *testing.T) {
	candles := steadyRise(10, 100, 1)
	candles[3], candles[7] = candles[7], candles[3]
	_, err := Compose("BTCUSDT", "1h", candles, model.DefaultParams())
	if !errors.Is(err, model.ErrInvalidSeries) {
		t.Fatalf("expected ErrInvalidSeries for unsorted input, got %v", err)
	}
}

func TestCompose_DuplicateTimestamps(t *testing.T) {
	candles := steadyRise(10, 100, 1)
	candles[5].OpenTime = candles[4].OpenTime
	_, err := Compose("BTCUSDT", "1h", candles, model.DefaultParams())
	if !errors.Is(err, model.ErrInvalidSeries) {
		t.Fatalf("expected ErrInvalidSeries for duplicate timestamps, got %v", err)
	}
}

func TestCompose_InvalidConfig(t *testing.T) {
	p := model.DefaultParams()
	p.RSIPeriod = -1
	_, err := Compose("BTCUSDT", "1h", steadyRise(60, 100, 1), p)
	if !errors.Is(err, model.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}

	p = model.DefaultParams()
	p.MACDFast = 30 // >= slow
	_, err = Compose("BTCUSDT", "1h", steadyRise(60, 100, 1), p)
	if !errors.Is(err, model.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for fast >= slow, got %v", err)
	}
}

func TestCompose_Deterministic(t *testing.T) {
	candles := steadyRise(60, 100, 1)
	p := model.DefaultParams()
	a, err := Compose("BTCUSDT", "1h", candles, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Compose("BTCUSDT", "1h", candles, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Direction != b.Direction || a.Confidence != b.Confidence ||
		a.TrendStrength != b.TrendStrength || a.Risk != b.Risk || len(a.Levels) != len(b.Levels) {
		t.Error("compose must be deterministic for identical inputs")
	}
}

// Confidence must not increase as signals become unavailable.
func TestConfidenceScore_MonotonicInAvailability(t *testing.T) {
	penalty := 0.15
	full := confidenceScore(3, 3, 0, penalty)
	twoOfThree := confidenceScore(2, 2, 1, penalty)
	oneOfThree := confidenceScore(1, 1, 2, penalty)
	none := confidenceScore(0, 0, 3, penalty)

	if !(full >= twoOfThree && twoOfThree >= oneOfThree && oneOfThree >= none) {
		t.Errorf("confidence should be non-increasing as indicators drop out: %v %v %v %v",
			full, twoOfThree, oneOfThree, none)
	}
	if none != 0 {
		t.Errorf("confidence with no signals must be the floor, got %v", none)
	}
}

func TestConfidenceScore_Floor(t *testing.T) {
	if c := confidenceScore(1, 3, 2, 0.5); c != 0 {
		t.Errorf("expected floor at 0, got %v", c)
	}
}
