// Package notify renders enriched events into alert messages and
// publishes them to the configured sinks.
package notify

import (
	"fmt"
	"strings"
	"time"

	"solana-wallet-alerts/internal/domain"
)

// FormatAlert renders the alert text for an enriched event.
func FormatAlert(ev *domain.EnrichedEvent) string {
	switch ev.Kind {
	case domain.KindStableCoinTrade:
		return formatStableTrade(ev)
	case domain.KindTokenSwap:
		return formatTokenSwap(ev)
	default:
		return formatTokenTrade(ev)
	}
}

func formatTokenTrade(ev *domain.EnrichedEvent) string {
	var b strings.Builder

	b.WriteString(tradeTitle(ev))
	b.WriteString("\n\n")

	if ev.Token != nil {
		name := ev.Token.Name
		if name == "" {
			name = "Unknown"
		}
		symbol := ev.Token.Symbol
		if symbol == "" {
			symbol = "N/A"
		}
		fmt.Fprintf(&b, "🪙 Token: %s (%s)\n", name, symbol)
	}
	fmt.Fprintf(&b, "👤 %s: %.2f SOL\n", displayName(ev), ev.SolAmount)
	fmt.Fprintf(&b, "📝 Mint: %s\n", ev.TokenMint)
	fmt.Fprintf(&b, "💰 Amount: %.1fM tokens\n", ev.TokenAmount/1_000_000)

	if ev.Token != nil {
		writeMarketLine(&b, ev.Token)
		writeVolumeLines(&b, ev.Token)
		writeCreationLine(&b, ev.Token, ev.BlockTime)
	}
	writeRiskLines(&b, ev.Risk)

	if !ev.IsBuy && ev.SellPercentage != nil {
		fmt.Fprintf(&b, "📉 Position: %s\n", SellPositionText(*ev.SellPercentage))
	}

	fmt.Fprintf(&b, "🐊 [View on GMGN](%s)", domain.GMGNLink(ev.TokenMint, ev.Wallet))
	return b.String()
}

func formatStableTrade(ev *domain.EnrichedEvent) string {
	coin := "USDC"
	if ev.Token != nil && ev.Token.Symbol != "" {
		coin = ev.Token.Symbol
	}
	verb := "sold"
	if ev.IsBuy {
		verb = "bought"
	}
	return fmt.Sprintf("💵 %s Trade\n\n%s %s %.2f SOL for %.2f %s",
		coin, displayName(ev), verb, ev.SolAmount, ev.StableAmount, coin)
}

func formatTokenSwap(ev *domain.EnrichedEvent) string {
	var b strings.Builder

	b.WriteString("🔄 Token Swap\n\n")
	fmt.Fprintf(&b, "👤 %s\n", displayName(ev))
	fmt.Fprintf(&b, "📤 From: %s (%.1fM tokens)\n", ev.FromMint, ev.FromAmount/1_000_000)
	fmt.Fprintf(&b, "📥 To: %s (%.1fM tokens)\n", ev.ToMint, ev.ToAmount/1_000_000)
	if ev.Token != nil && ev.Token.PriceSol > 0 {
		fmt.Fprintf(&b, "💱 Price: %.8f SOL\n", ev.Token.PriceSol)
	}
	if ev.Token != nil {
		writeVolumeLines(&b, ev.Token)
	}
	fmt.Fprintf(&b, "🐊 [From on GMGN](%s)\n🐊 [To on GMGN](%s)",
		domain.GMGNLink(ev.FromMint, ev.Wallet),
		domain.GMGNLink(ev.ToMint, ev.Wallet))
	return b.String()
}

func tradeTitle(ev *domain.EnrichedEvent) string {
	if !ev.IsBuy {
		return "💔 Sell Alert!"
	}
	switch ev.HolderType {
	case domain.FirstHolder:
		return "🎯 First Holder Alert!"
	case domain.NewHolder:
		return "🆕 New Holder Alert!"
	default:
		return "💫 Bought More!"
	}
}

// SellPositionText renders the sell percentage for display. Anything at
// or above 100 shows as a full exit, however noisy the estimate was.
func SellPositionText(pct float64) string {
	if pct >= 100 {
		return "Sold entire position"
	}
	return fmt.Sprintf("Sold %.1f%% of position", pct)
}

func displayName(ev *domain.EnrichedEvent) string {
	if ev.WalletName != "" {
		return ev.WalletName
	}
	if len(ev.Wallet) > 8 {
		return ev.Wallet[:8] + "..."
	}
	return ev.Wallet
}

func writeMarketLine(b *strings.Builder, t *domain.TokenInfo) {
	mc := t.DisplayMarketCap()
	if mc <= 0 {
		return
	}
	emoji := "📊"
	if mc == t.DexMarketCap && mc != t.MarketCap {
		// The DEX figure won the divergence check.
		emoji = "🦅"
	}
	fmt.Fprintf(b, "%s Market Cap: $%s\n", emoji, commaFormat(int64(mc)))
}

func writeVolumeLines(b *strings.Builder, t *domain.TokenInfo) {
	fmt.Fprintf(b, "📈 5m Volume: %s\n", dollarOrNA(t.M5Volume))
	fmt.Fprintf(b, "📊 24h Volume: %s\n", dollarOrNA(t.H24Volume))
}

func writeCreationLine(b *strings.Builder, t *domain.TokenInfo, nowMs int64) {
	if t.PairCreatedAt == 0 || nowMs == 0 {
		return
	}
	age := time.Duration(nowMs-t.PairCreatedAt) * time.Millisecond
	if age < 0 {
		return
	}
	if age < time.Hour {
		fmt.Fprintf(b, "⏰ Created: ~%d minutes ago\n", int(age.Minutes()))
		return
	}
	fmt.Fprintf(b, "⏰ Created: ~%d hours ago\n", int(age.Hours()))
}

func writeRiskLines(b *strings.Builder, r *domain.RiskReport) {
	if r == nil {
		return
	}
	fmt.Fprintf(b, "🔍 Risk: %.1f (%s)\n", r.Score, r.Level())
	for _, risk := range r.Risks {
		fmt.Fprintf(b, "  • %s\n", risk)
	}
}

func dollarOrNA(v float64) string {
	if v <= 0 {
		return "N/A"
	}
	return "$" + commaFormat(int64(v))
}

// commaFormat renders an integer with thousands separators.
func commaFormat(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := fmt.Sprintf("%d", v)
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return sign + strings.Join(parts, ",")
}
