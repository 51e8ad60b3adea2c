package calculator

import "CandleSage/internal/model"

// ComputeSnapshot runs one indicator pass over the series. Indicators whose
// lookback exceeds the series length are left nil in the snapshot; a short
// series is never an error here.
func ComputeSnapshot(candles []model.Candle, p model.Params) model.IndicatorSnapshot {
	closes := model.Closes(candles)
	var snap model.IndicatorSnapshot

	if rsi, err := CalculateRSI(closes, p.RSIPeriod); err == nil {
		snap.RSI = &rsi
	}
	if line, signal, hist, err := CalculateMACD(closes, p.MACDFast, p.MACDSlow, p.MACDSignal); err == nil {
		snap.MACDLine = &line
		snap.MACDSignal = &signal
		snap.MACDHistogram = &hist
	}
	if ma, err := CalculateSMA(closes, p.SMAShort); err == nil {
		snap.SMAShort = &ma
	}
	if ma, err := CalculateSMA(closes, p.SMALong); err == nil {
		snap.SMALong = &ma
	}
	if ma, err := CalculateEMA(closes, p.EMAShort); err == nil {
		snap.EMAShort = &ma
	}
	if ma, err := CalculateEMA(closes, p.EMALong); err == nil {
		snap.EMALong = &ma
	}
	if atr, err := CalculateATR(candles, p.ATRPeriod); err == nil {
		snap.ATR = &atr
	}

	return snap
}
