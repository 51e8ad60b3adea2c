package notifier

import (
	"fmt"
	"strings"

	"CandleSage/internal/model"
)

func directionArrow(d model.Direction) string {
	switch d {
	case model.DirectionUp:
		return "📈 UP"
	case model.DirectionDown:
		return "📉 DOWN"
	default:
		return "➡️ NEUTRAL"
	}
}

func riskLabel(r model.RiskTier) string {
	switch r {
	case model.RiskHigh:
		return "🔴 High"
	case model.RiskMedium:
		return "🟡 Medium"
	default:
		return "🟢 Low"
	}
}

// FormatPrediction renders a prediction as a Telegram HTML message.
func FormatPrediction(p *model.Prediction, remaining int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("<b>%s</b> (%s)\n", p.Symbol, p.Timeframe))
	sb.WriteString(fmt.Sprintf("Direction: <b>%s</b>\n", directionArrow(p.Direction)))
	sb.WriteString(fmt.Sprintf("Confidence: <b>%.0f%%</b>\n", p.Confidence*100))
	sb.WriteString(fmt.Sprintf("Risk: %s\n", riskLabel(p.Risk)))
	sb.WriteString(fmt.Sprintf("Trend strength: %+.2f\n", p.TrendStrength))

	var supports, resistances []model.Level
	for _, l := range p.Levels {
		if l.Kind == model.LevelSupport {
			supports = append(supports, l)
		} else {
			resistances = append(resistances, l)
		}
	}
	if len(supports) > 0 {
		sb.WriteString("\n<b>Support</b>\n")
		for _, l := range supports {
			sb.WriteString(fmt.Sprintf("  %.6g (strength %.0f%%)\n", l.Price, l.Strength*100))
		}
	}
	if len(resistances) > 0 {
		sb.WriteString("\n<b>Resistance</b>\n")
		for _, l := range resistances {
			sb.WriteString(fmt.Sprintf("  %.6g (strength %.0f%%)\n", l.Price, l.Strength*100))
		}
	}

	if p.Rationale != "" {
		sb.WriteString(fmt.Sprintf("\n<i>%s</i>\n", p.Rationale))
	}
	sb.WriteString(fmt.Sprintf("\n⏳ Predictions left today: <b>%d</b>", remaining))

	return sb.String()
}
