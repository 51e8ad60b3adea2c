package strategy

import "CandleSage/internal/model"

// ClassifyRisk maps normalized volatility (ATR relative to price) and the
// divergence between RSI and MACD directional signals into a discrete tier.
// Disagreeing momentum signals force at least medium risk regardless of
// volatility; volatility above the high threshold is always high risk.
func ClassifyRisk(snap model.IndicatorSnapshot, normalizedVolatility float64, p model.Params) model.RiskTier {
	if normalizedVolatility > p.VolatilityHighThreshold {
		return model.RiskHigh
	}

	rsiDir, rsiOK := rsiSignal(snap)
	macdDir, macdOK := macdSignal(snap)
	diverging := rsiOK && macdOK &&
		rsiDir != model.DirectionNeutral && macdDir != model.DirectionNeutral &&
		rsiDir != macdDir

	if diverging {
		return model.RiskMedium
	}
	if normalizedVolatility > p.VolatilityMediumThreshold {
		return model.RiskMedium
	}
	return model.RiskLow
}
