// Package levels derives support/resistance price levels and a
// volatility-relative trend strength from a recent candle window.
package levels

import (
	"math"
	"sort"

	"CandleSage/internal/calculator"
	"CandleSage/internal/model"
)

// Find locates support and resistance levels in the series. A candle's low
// is a support candidate when it is the minimum of a centered window of
// LevelWindow neighbors on each side; highs work the same way for
// resistance. Candidates within LevelClusterTolerance (relative) merge into
// one level whose strength is the fraction of that kind's candidates in the
// cluster. Levels come back nearest to the current price first, at most
// MaxLevelsPerKind per kind. Too few candles yields an empty result, not an
// error.
func Find(candles []model.Candle, p model.Params) []model.Level {
	w := p.LevelWindow
	if len(candles) < 2*w+1 {
		return nil
	}
	currentPrice := candles[len(candles)-1].Close

	var supports, resistances []float64
	for i := w; i < len(candles)-w; i++ {
		isSupport, isResistance := true, true
		for j := i - w; j <= i+w; j++ {
			if j == i {
				continue
			}
			if candles[j].Low < candles[i].Low {
				isSupport = false
			}
			if candles[j].High > candles[i].High {
				isResistance = false
			}
			if !isSupport && !isResistance {
				break
			}
		}
		if isSupport {
			supports = append(supports, candles[i].Low)
		}
		if isResistance {
			resistances = append(resistances, candles[i].High)
		}
	}

	levels := clusterCandidates(supports, model.LevelSupport, p.LevelClusterTolerance)
	levels = append(levels, clusterCandidates(resistances, model.LevelResistance, p.LevelClusterTolerance)...)

	// Nearest to the current price first. Ties break on price to keep the
	// ordering deterministic.
	sort.Slice(levels, func(i, j int) bool {
		di := math.Abs(levels[i].Price - currentPrice)
		dj := math.Abs(levels[j].Price - currentPrice)
		if di != dj {
			return di < dj
		}
		return levels[i].Price < levels[j].Price
	})

	kept := make([]model.Level, 0, len(levels))
	counts := map[model.LevelKind]int{}
	for _, lv := range levels {
		if counts[lv.Kind] >= p.MaxLevelsPerKind {
			continue
		}
		counts[lv.Kind]++
		kept = append(kept, lv)
	}
	return kept
}

// clusterCandidates merges candidate prices lying within a relative
// tolerance of each other into single levels.
func clusterCandidates(prices []float64, kind model.LevelKind, tolerance float64) []model.Level {
	if len(prices) == 0 {
		return nil
	}
	sorted := append([]float64(nil), prices...)
	sort.Float64s(sorted)

	total := float64(len(sorted))
	var levels []model.Level

	clusterSum := sorted[0]
	clusterN := 1
	flush := func() {
		mean := clusterSum / float64(clusterN)
		strength := float64(clusterN) / total
		if strength > 1 {
			strength = 1
		}
		levels = append(levels, model.Level{Price: mean, Kind: kind, Strength: strength})
	}

	for _, price := range sorted[1:] {
		mean := clusterSum / float64(clusterN)
		if price-mean <= mean*tolerance {
			clusterSum += price
			clusterN++
			continue
		}
		flush()
		clusterSum = price
		clusterN = 1
	}
	flush()
	return levels
}

// Trend reports the slope of the long moving average over the last
// LevelWindow candles, normalized by the ATR of the same series and clamped
// to [-1, 1]. Sign is direction, magnitude is conviction. Returns 0 when the
// series is too short; that is not an error.
func Trend(candles []model.Candle, p model.Params) float64 {
	w := p.LevelWindow
	if len(candles) < 2*w {
		return 0
	}
	closes := model.Closes(candles)

	smaNow, err := calculator.CalculateSMA(closes, p.SMALong)
	if err != nil {
		return 0
	}
	smaPrev, err := calculator.CalculateSMA(closes[:len(closes)-w], p.SMALong)
	if err != nil {
		return 0
	}
	atr, err := calculator.CalculateATR(candles, p.ATRPeriod)
	if err != nil || atr == 0 {
		return 0
	}

	strength := (smaNow - smaPrev) / atr
	if strength > 1 {
		strength = 1
	}
	if strength < -1 {
		strength = -1
	}
	return strength
}
