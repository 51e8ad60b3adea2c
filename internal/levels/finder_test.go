package levels

import (
	"math"
	"reflect"
	"testing"
	"time"

	"CandleSage/internal/model"
)

// oscillatingCandles bounces closes between floor and ceiling so the series
// has clear local extrema for the finder to pick up.
func oscillatingCandles(n int, floor, ceiling float64) []model.Candle {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mid := (floor + ceiling) / 2
	amp := (ceiling - floor) / 2
	candles := make([]model.Candle, n)
	for i := range candles {
		c := mid + amp*math.Sin(float64(i)/3)
		candles[i] = model.Candle{
			OpenTime: base.Add(time.Duration(i) * time.Hour),
			Open:     c,
			High:     c * 1.003,
			Low:      c * 0.997,
			Close:    c,
			Volume:   1000,
		}
	}
	return candles
}

func trendingCandles(n int, start, step float64) []model.Candle {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]model.Candle, n)
	for i := range candles {
		c := start + float64(i)*step
		candles[i] = model.Candle{
			OpenTime: base.Add(time.Duration(i) * time.Hour),
			Open:     c,
			High:     c + 0.5,
			Low:      c - 0.5,
			Close:    c,
			Volume:   1000,
		}
	}
	return candles
}

func TestFind_ProducesBothKinds(t *testing.T) {
	candles := oscillatingCandles(80, 95, 105)
	p := model.DefaultParams()
	levels := Find(candles, p)
	if len(levels) == 0 {
		t.Fatal("expected levels from an oscillating series")
	}

	counts := map[model.LevelKind]int{}
	for _, lv := range levels {
		counts[lv.Kind]++
		if lv.Strength < 0 || lv.Strength > 1 {
			t.Errorf("level strength out of bounds: %v", lv.Strength)
		}
		if lv.Price <= 0 {
			t.Errorf("non-positive level price: %v", lv.Price)
		}
	}
	if counts[model.LevelSupport] == 0 {
		t.Error("expected at least one support level")
	}
	if counts[model.LevelResistance] == 0 {
		t.Error("expected at least one resistance level")
	}
	if counts[model.LevelSupport] > p.MaxLevelsPerKind || counts[model.LevelResistance] > p.MaxLevelsPerKind {
		t.Errorf("per-kind cap exceeded: %v", counts)
	}
}

func TestFind_NearestFirst(t *testing.T) {
	candles := oscillatingCandles(80, 95, 105)
	current := candles[len(candles)-1].Close
	levels := Find(candles, model.DefaultParams())

	for i := 1; i < len(levels); i++ {
		prev := math.Abs(levels[i-1].Price - current)
		cur := math.Abs(levels[i].Price - current)
		if cur < prev {
			t.Fatalf("levels not ordered nearest-first at index %d: %v then %v", i, prev, cur)
		}
	}
}

func TestFind_Deterministic(t *testing.T) {
	candles := oscillatingCandles(80, 95, 105)
	p := model.DefaultParams()
	first := Find(candles, p)
	second := Find(candles, p)
	if !reflect.DeepEqual(first, second) {
		t.Error("level finding must be deterministic for identical input")
	}
}

func TestFind_ShortSeriesEmpty(t *testing.T) {
	candles := oscillatingCandles(5, 95, 105)
	if levels := Find(candles, model.DefaultParams()); len(levels) != 0 {
		t.Errorf("expected no levels for a short series, got %d", len(levels))
	}
}

func TestTrend_DirectionAndBounds(t *testing.T) {
	p := model.DefaultParams()

	up := Trend(trendingCandles(80, 100, 1), p)
	if up <= 0 {
		t.Errorf("expected positive trend strength on a rising series, got %v", up)
	}
	down := Trend(trendingCandles(80, 200, -1), p)
	if down >= 0 {
		t.Errorf("expected negative trend strength on a falling series, got %v", down)
	}
	for _, s := range []float64{up, down} {
		if s < -1 || s > 1 {
			t.Errorf("trend strength out of bounds: %v", s)
		}
	}
}

func TestTrend_ShortSeriesZero(t *testing.T) {
	if s := Trend(trendingCandles(6, 100, 1), model.DefaultParams()); s != 0 {
		t.Errorf("expected zero trend strength for a short series, got %v", s)
	}
}
