package app

import (
	"fmt"
	"strings"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
	"github.com/devenn05/Crypto-signal-check/internal/strategy/evaluators"
	"github.com/devenn05/Crypto-signal-check/internal/utils"
)

var indicatorIcons = map[string]string{
	evaluators.NameADX:               "📶",
	evaluators.NameEMA:               "📉📈",
	evaluators.NameNetFlow:           "💸",
	evaluators.NameSentiment:         "😨😊",
	evaluators.NameMiner:             "⛏️",
	evaluators.NameMACD:              "✖️",
	evaluators.NameVolumeProfile:     "📊",
	evaluators.NameRSI:               "🔽🔼",
	evaluators.NameSmartMoney:        "🐋",
	evaluators.NameWhale:             "🐳",
	evaluators.NameStochRSI:          "🔄",
	evaluators.NameSupportResistance: "⏹️",
}

var rule = strings.Repeat("=", 60)

// FormatReport renders res as the console report shown by the CLI and
// returned by the API as console_output.
func FormatReport(res *Result) string {
	a := res.Analysis
	final := a.Final
	side := strings.ToUpper(string(res.Request.Direction))

	var b strings.Builder
	fmt.Fprintf(&b, "\n📈 %s Analysis Results 📉\n", res.Request.Symbol)
	fmt.Fprintf(&b, "💰 Current Price: $%s | ⏳ Timeframe: %s\n", utils.FormatPrice(a.Price), res.Request.Interval)
	if res.StaleData {
		b.WriteString("⚠️ Exchange unreachable, candles served from the local cache\n")
	}
	b.WriteString("\n")

	for _, v := range a.Verdicts {
		icon, ok := indicatorIcons[v.Name]
		if !ok {
			icon = "▪️"
		}
		mark := "❌ NO"
		if v.Verdict == domain.Yes {
			mark = "✅ YES"
		}
		fmt.Fprintf(&b, "%s %s:\n", icon, v.Name)
		fmt.Fprintf(&b, "   → %s\n", v.Explanation)
		fmt.Fprintf(&b, "   → VERDICT: %s\n\n", mark)
	}

	b.WriteString(rule + "\n")
	action := "AVOID"
	if final.Verdict == domain.Yes {
		action = "GO"
	}
	fmt.Fprintf(&b, "\n%s FINAL VERDICT: %s %s! %s\n", final.Emoji, action, side, final.Emoji)
	b.WriteString(center("🔥 "+final.Confidence+" 🔥", 60) + "\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "📊 SCORE: %s indicators agree\n", final.Score)

	b.WriteString("\n🔍 BREAKDOWN:\n")
	fmt.Fprintf(&b, "✅ %d Supporting:\n   %s\n", len(final.Supporting), joinOrNone(final.Supporting))
	fmt.Fprintf(&b, "\n❌ %d Against:\n   %s\n", len(final.Opposing), joinOrNone(final.Opposing))

	b.WriteString("\n💡 PRO TRADER ADVICE:\n")
	fmt.Fprintf(&b, "  %s\n", res.Advice.Headline)

	writeTargets(&b, a)

	b.WriteString("\n📝 QUICK SUMMARY:\n")
	fmt.Fprintf(&b, "• Current Price: $%s\n", utils.FormatPrice(a.Price))
	fmt.Fprintf(&b, "• Timeframe: %s\n", res.Request.Interval)
	fmt.Fprintf(&b, "• Trade Type: %s\n", side)
	fmt.Fprintf(&b, "• Confidence Score: %s (%s)\n", final.Score, final.Confidence)
	fmt.Fprintf(&b, "• Risk/Reward: %.2f | Suggested Size: %.1f%% of capital\n",
		res.Advice.RiskReward, res.Advice.PositionFraction*100)

	b.WriteString("\n🔄 BETTER ALTERNATIVES:\n")
	for _, alt := range res.Advice.Alternatives {
		fmt.Fprintf(&b, "- %s\n", alt)
	}

	b.WriteString(rule + "\n")
	b.WriteString("💎 Remember: No indicator is perfect - always manage risk!\n")
	b.WriteString(rule)
	return b.String()
}

// writeTargets prints each target with its signed distance from the price.
func writeTargets(b *strings.Builder, a *domain.Analysis) {
	t, p := a.Targets, a.Price
	gain, loss := "+", "-"
	if a.Direction == domain.Short {
		gain, loss = "-", "+"
	}
	dist := func(v float64) string {
		d := v - p
		if d < 0 {
			d = -d
		}
		return utils.FormatPrice(d)
	}

	b.WriteString("\n🎯 PRICE TARGETS:\n")
	fmt.Fprintf(b, "• Current Price: $%s\n", utils.FormatPrice(p))
	fmt.Fprintf(b, "➤ Conservative: $%s (%s%s)\n", utils.FormatPrice(t.Conservative), gain, dist(t.Conservative))
	fmt.Fprintf(b, "➤ Moderate: $%s (%s%s)\n", utils.FormatPrice(t.Moderate), gain, dist(t.Moderate))
	fmt.Fprintf(b, "➤ Aggressive: $%s (%s%s)\n", utils.FormatPrice(t.Aggressive), gain, dist(t.Aggressive))
	fmt.Fprintf(b, "⛔ Stop Loss: $%s (%s%s)\n", utils.FormatPrice(t.StopLoss), loss, dist(t.StopLoss))
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, ", ")
}

// center left-pads s to sit in the middle of width columns, counting runes.
func center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return strings.Repeat(" ", (width-n)/2) + s
}
