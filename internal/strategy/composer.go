// Package strategy turns a candle series into a single Prediction record:
// direction, confidence, support/resistance levels, trend strength, and a
// risk tier. Everything here is a pure, deterministic computation over its
// inputs; fetching candles and persisting results belong to the callers.
package strategy

import (
	"fmt"
	"strings"
	"time"

	"CandleSage/internal/calculator"
	"CandleSage/internal/levels"
	"CandleSage/internal/model"
)

// indicatorSignalCount is the number of directional signals the composer
// votes over: RSI vs midline, MACD histogram sign, EMA cross sign.
const indicatorSignalCount = 3

// Compose produces one Prediction for a (symbol, timeframe, series) request.
// It fails with ErrInvalidConfig for out-of-range parameters and
// ErrInvalidSeries for unusable input; a series that is merely too short for
// some indicators still yields a Prediction at reduced confidence.
func Compose(symbol, timeframe string, candles []model.Candle, p model.Params) (*model.Prediction, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := model.ValidateSeries(candles); err != nil {
		return nil, err
	}

	snap := calculator.ComputeSnapshot(candles, p)

	type signal struct {
		dir       model.Direction
		available bool
		note      string
	}
	signals := []signal{}

	if dir, ok := rsiSignal(snap); ok {
		signals = append(signals, signal{dir, true, fmt.Sprintf("RSI %.1f (%s)", *snap.RSI, dir)})
	} else {
		signals = append(signals, signal{model.DirectionNeutral, false, "RSI unavailable"})
	}
	if dir, ok := macdSignal(snap); ok {
		signals = append(signals, signal{dir, true, fmt.Sprintf("MACD histogram %+.4f (%s)", *snap.MACDHistogram, dir)})
	} else {
		signals = append(signals, signal{model.DirectionNeutral, false, "MACD unavailable"})
	}
	if dir, ok := crossSignal(snap); ok {
		signals = append(signals, signal{dir, true, fmt.Sprintf("EMA%d/EMA%d cross (%s)", p.EMAShort, p.EMALong, dir)})
	} else {
		signals = append(signals, signal{model.DirectionNeutral, false, "EMA cross unavailable"})
	}

	var available, upVotes, downVotes int
	notes := make([]string, 0, len(signals))
	for _, s := range signals {
		notes = append(notes, s.note)
		if !s.available {
			continue
		}
		available++
		switch s.dir {
		case model.DirectionUp:
			upVotes++
		case model.DirectionDown:
			downVotes++
		}
	}

	direction := model.DirectionNeutral
	switch {
	case upVotes > downVotes:
		direction = model.DirectionUp
	case downVotes > upVotes:
		direction = model.DirectionDown
	}

	agree := 0
	for _, s := range signals {
		if s.available && s.dir == direction {
			agree++
		}
	}
	missing := indicatorSignalCount - available
	confidence := confidenceScore(agree, available, missing, p.ConfidencePenaltyPerMissingIndicator)

	currentPrice := candles[len(candles)-1].Close
	normalizedVol := 0.0
	if snap.ATR != nil && currentPrice > 0 {
		normalizedVol = *snap.ATR / currentPrice
	}

	return &model.Prediction{
		Symbol:        symbol,
		Timeframe:     timeframe,
		Direction:     direction,
		Confidence:    confidence,
		Levels:        levels.Find(candles, p),
		TrendStrength: levels.Trend(candles, p),
		Risk:          ClassifyRisk(snap, normalizedVol, p),
		Rationale:     strings.Join(notes, "; "),
		GeneratedAt:   time.Now().UTC(),
	}, nil
}

// confidenceScore is the proportion of available signals agreeing with the
// chosen direction, reduced by a fixed penalty per missing indicator and
// floored at zero.
func confidenceScore(agree, available, missing int, penalty float64) float64 {
	if available == 0 {
		return 0
	}
	score := float64(agree)/float64(available) - float64(missing)*penalty
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func rsiSignal(snap model.IndicatorSnapshot) (model.Direction, bool) {
	if snap.RSI == nil {
		return model.DirectionNeutral, false
	}
	switch {
	case *snap.RSI > 50:
		return model.DirectionUp, true
	case *snap.RSI < 50:
		return model.DirectionDown, true
	default:
		return model.DirectionNeutral, true
	}
}

func macdSignal(snap model.IndicatorSnapshot) (model.Direction, bool) {
	if snap.MACDHistogram == nil {
		return model.DirectionNeutral, false
	}
	switch {
	case *snap.MACDHistogram > 0:
		return model.DirectionUp, true
	case *snap.MACDHistogram < 0:
		return model.DirectionDown, true
	default:
		return model.DirectionNeutral, true
	}
}

func crossSignal(snap model.IndicatorSnapshot) (model.Direction, bool) {
	if snap.EMAShort == nil || snap.EMALong == nil {
		return model.DirectionNeutral, false
	}
	switch {
	case *snap.EMAShort > *snap.EMALong:
		return model.DirectionUp, true
	case *snap.EMAShort < *snap.EMALong:
		return model.DirectionDown, true
	default:
		return model.DirectionNeutral, true
	}
}
