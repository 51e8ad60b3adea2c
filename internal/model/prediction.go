package model

import "time"

// Direction is the predicted price direction.
type Direction string

const (
	DirectionUp      Direction = "up"
	DirectionDown    Direction = "down"
	DirectionNeutral Direction = "neutral"
)

// RiskTier is a discrete risk classification, derived, never user-settable.
type RiskTier string

const (
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

// LevelKind distinguishes support from resistance.
type LevelKind string

const (
	LevelSupport    LevelKind = "support"
	LevelResistance LevelKind = "resistance"
)

// Level is a price zone where historical reversals cluster.
type Level struct {
	Price    float64   `json:"price"`
	Kind     LevelKind `json:"kind"`
	Strength float64   `json:"strength"` // 0.0 ~ 1.0
}

// IndicatorSnapshot is the immutable result of one indicator computation
// pass. A nil field means the series was too short for that indicator's
// lookback; callers treat it as lower-confidence input, not as an error.
type IndicatorSnapshot struct {
	RSI           *float64
	MACDLine      *float64
	MACDSignal    *float64
	MACDHistogram *float64
	SMAShort      *float64
	SMALong       *float64
	EMAShort      *float64
	EMALong       *float64
	ATR           *float64
}

// Prediction is the engine's single output record for one
// (symbol, timeframe, candle series) request. Immutable once constructed.
type Prediction struct {
	Symbol        string    `json:"symbol"`
	Timeframe     string    `json:"timeframe"`
	Direction     Direction `json:"direction"`
	Confidence    float64   `json:"confidence"` // 0.0 ~ 1.0
	Levels        []Level   `json:"levels"`     // nearest to current price first
	TrendStrength float64   `json:"trend_strength"` // -1.0 ~ 1.0
	Risk          RiskTier  `json:"risk"`
	Rationale     string    `json:"rationale"`
	GeneratedAt   time.Time `json:"generated_at"`
}
