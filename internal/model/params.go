package model

import "fmt"

// Params is the engine configuration surface. All fields have documented
// defaults; callers may override per request.
type Params struct {
	RSIPeriod  int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
	SMAShort   int
	SMALong    int
	EMAShort   int
	EMALong    int
	ATRPeriod  int

	LevelWindow           int
	LevelClusterTolerance float64 // relative, e.g. 0.003 = 0.3%
	MaxLevelsPerKind      int

	VolatilityHighThreshold   float64 // ATR/price above this => high risk
	VolatilityMediumThreshold float64

	ConfidencePenaltyPerMissingIndicator float64
}

// DefaultParams returns the industry-standard defaults.
func DefaultParams() Params {
	return Params{
		RSIPeriod:  14,
		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,
		SMAShort:   20,
		SMALong:    50,
		EMAShort:   20,
		EMALong:    50,
		ATRPeriod:  14,

		LevelWindow:           5,
		LevelClusterTolerance: 0.003,
		MaxLevelsPerKind:      3,

		VolatilityHighThreshold:   0.05,
		VolatilityMediumThreshold: 0.02,

		ConfidencePenaltyPerMissingIndicator: 0.15,
	}
}

// Validate checks all parameters before any computation.
func (p Params) Validate() error {
	for name, v := range map[string]int{
		"rsi_period":  p.RSIPeriod,
		"macd_fast":   p.MACDFast,
		"macd_slow":   p.MACDSlow,
		"macd_signal": p.MACDSignal,
		"sma_short":   p.SMAShort,
		"sma_long":    p.SMALong,
		"ema_short":   p.EMAShort,
		"ema_long":    p.EMALong,
		"atr_period":  p.ATRPeriod,
		"level_window":        p.LevelWindow,
		"max_levels_per_kind": p.MaxLevelsPerKind,
	} {
		if v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, name, v)
		}
	}
	if p.MACDFast >= p.MACDSlow {
		return fmt.Errorf("%w: macd_fast (%d) must be less than macd_slow (%d)", ErrInvalidConfig, p.MACDFast, p.MACDSlow)
	}
	if p.LevelClusterTolerance <= 0 {
		return fmt.Errorf("%w: level_cluster_tolerance must be positive, got %g", ErrInvalidConfig, p.LevelClusterTolerance)
	}
	if p.VolatilityHighThreshold <= 0 || p.VolatilityMediumThreshold <= 0 {
		return fmt.Errorf("%w: volatility thresholds must be positive", ErrInvalidConfig)
	}
	if p.VolatilityMediumThreshold >= p.VolatilityHighThreshold {
		return fmt.Errorf("%w: volatility_medium_threshold (%g) must be below volatility_high_threshold (%g)",
			ErrInvalidConfig, p.VolatilityMediumThreshold, p.VolatilityHighThreshold)
	}
	if p.ConfidencePenaltyPerMissingIndicator < 0 || p.ConfidencePenaltyPerMissingIndicator > 1 {
		return fmt.Errorf("%w: confidence_penalty_per_missing_indicator must be in [0,1], got %g",
			ErrInvalidConfig, p.ConfidencePenaltyPerMissingIndicator)
	}
	return nil
}
