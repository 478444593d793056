package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TransactionRecord is one row of the transaction audit log. The field
// order matches the fixed 15-column schema consumed downstream.
type TransactionRecord struct {
	TokenSymbol   string
	BuyType       string // holder type for buys, "SELL" for sells
	TokenMint     string
	WalletName    string
	Timestamp     int64 // Unix ms
	MarketCap     float64
	BuyAmountSol  float64
	M5Volume      float64
	H24Volume     float64
	GMGNLink      string
	CreationTime  int64 // pair creation, Unix ms; 0 if unknown
	PriceSol      float64
	RugcheckScore float64
	RiskLevel     string
	RiskDetails   string
}

// RecordColumns is the audit-log header, in column order.
var RecordColumns = []string{
	"Token Symbol", "Buy Type", "Token Mint", "Wallet Name", "Date and Time",
	"Market Cap", "Buy Amount in SOL", "5m Volume", "24h Volume", "GMGN Link",
	"Creation Time", "Price in SOL", "Rugcheck Score", "Risk Level", "Risk Details",
}

// Row renders the record as audit-log fields in column order.
func (r *TransactionRecord) Row() []string {
	return []string{
		r.TokenSymbol,
		r.BuyType,
		r.TokenMint,
		r.WalletName,
		formatTimestamp(r.Timestamp),
		strconv.FormatFloat(r.MarketCap, 'f', -1, 64),
		strconv.FormatFloat(r.BuyAmountSol, 'f', -1, 64),
		strconv.FormatFloat(r.M5Volume, 'f', -1, 64),
		strconv.FormatFloat(r.H24Volume, 'f', -1, 64),
		r.GMGNLink,
		formatTimestamp(r.CreationTime),
		strconv.FormatFloat(r.PriceSol, 'f', -1, 64),
		strconv.FormatFloat(r.RugcheckScore, 'f', -1, 64),
		r.RiskLevel,
		r.RiskDetails,
	}
}

func formatTimestamp(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04:05")
}

// GMGNLink builds the trade-inspection link for a mint and wallet.
func GMGNLink(mint, wallet string) string {
	return fmt.Sprintf("https://gmgn.ai/sol/token/IWzYo3Nv_%s?maker=%s", mint, wallet)
}

// RecordFromEvent derives an audit-log row from an enriched event. Missing
// enrichment leaves the corresponding columns zero-valued.
func RecordFromEvent(ev *EnrichedEvent) *TransactionRecord {
	mint := ev.TokenMint
	if ev.Kind == KindTokenSwap {
		mint = ev.ToMint
	}

	walletName := ev.WalletName
	if walletName == "" {
		walletName = ev.Wallet
	}

	rec := &TransactionRecord{
		BuyType:      buyType(ev),
		TokenMint:    mint,
		WalletName:   walletName,
		Timestamp:    ev.BlockTime,
		BuyAmountSol: ev.SolAmount,
		GMGNLink:     GMGNLink(mint, ev.Wallet),
	}
	if ev.Token != nil {
		rec.TokenSymbol = ev.Token.Symbol
		rec.MarketCap = ev.Token.DisplayMarketCap()
		rec.M5Volume = ev.Token.M5Volume
		rec.H24Volume = ev.Token.H24Volume
		rec.CreationTime = ev.Token.PairCreatedAt
		rec.PriceSol = ev.Token.PriceSol
	}
	if ev.Risk != nil {
		rec.RugcheckScore = ev.Risk.Score
		rec.RiskLevel = string(ev.Risk.Level())
		rec.RiskDetails = strings.Join(ev.Risk.Risks, "; ")
	}
	return rec
}

func buyType(ev *EnrichedEvent) string {
	switch ev.Kind {
	case KindTokenSwap:
		return "SWAP"
	case KindStableCoinTrade:
		if ev.IsBuy {
			return "STABLE_BUY"
		}
		return "STABLE_SELL"
	}
	if !ev.IsBuy {
		return "SELL"
	}
	if ev.HolderType != "" {
		return string(ev.HolderType)
	}
	return "BUY"
}
