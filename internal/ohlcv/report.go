package ohlcv

import (
	"fmt"
	"strings"
	"time"

	"solana-wallet-alerts/internal/domain"
)

const reportBuyerLimit = 10

// FormatReport renders the performance report for a token summary.
func FormatReport(s *domain.TokenSummary, rec *domain.TransactionRecord) string {
	emoji := "🚀"
	if s.HighestChangePct < 0 {
		emoji = "📉"
	}
	name := s.TokenSymbol
	if name == "" {
		name = "Unknown Token"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Token Performance: %s (%s)\n\n", emoji, name, shortMint(s.Mint))
	fmt.Fprintf(&b, "🔍 Mint: %s\n", s.Mint)
	fmt.Fprintf(&b, "👤 First Holder: %s\n", rec.WalletName)
	fmt.Fprintf(&b, "⏰ First Buy: %s\n", reportTime(s.FirstBuyTime))
	if rec.MarketCap > 0 {
		fmt.Fprintf(&b, "💰 Market Cap: $%d\n", int64(rec.MarketCap))
	}
	b.WriteString("\n📊 Performance\n")
	fmt.Fprintf(&b, "Base: %.8f SOL\n", s.BasePrice)
	fmt.Fprintf(&b, "Max: %+.2f%% (at %s)\n", s.HighestChangePct, reportTime(s.HighestPriceTime))
	fmt.Fprintf(&b, "Min: %+.2f%%\n", s.LowestChangePct)
	fmt.Fprintf(&b, "Current: %+.2f%%\n", s.LatestChangePct)

	if len(s.Buyers) > 0 {
		b.WriteString("\n🛒 Token Buyers\n")
		shown := s.Buyers
		if len(shown) > reportBuyerLimit {
			shown = shown[:reportBuyerLimit]
		}
		for _, buyer := range shown {
			fmt.Fprintf(&b, "👤 %s\n", buyer)
		}
		if extra := len(s.Buyers) - reportBuyerLimit; extra > 0 {
			fmt.Fprintf(&b, "...and %d more\n", extra)
		}
	}

	fmt.Fprintf(&b, "\n🐊 [View on GMGN](%s)", rec.GMGNLink)
	return b.String()
}

func shortMint(mint string) string {
	if len(mint) > 8 {
		return mint[:8] + "..."
	}
	return mint
}

func reportTime(ms int64) string {
	if ms == 0 {
		return "unknown"
	}
	return time.UnixMilli(ms).UTC().Format("Jan 02, 2006 15:04:05")
}
