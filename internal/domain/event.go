package domain

// EventKind categorizes a classified transaction.
type EventKind string

// Event kinds.
const (
	KindSolTokenTrade   EventKind = "SOL_TOKEN_TRADE"
	KindStableCoinTrade EventKind = "STABLE_COIN_TRADE"
	KindTokenSwap       EventKind = "TOKEN_SWAP"
)

// HolderType classifies a buy relative to the token's and wallet's history.
type HolderType string

// Holder types.
const (
	FirstHolder    HolderType = "FIRST_HOLDER"
	NewHolder      HolderType = "NEW_HOLDER"
	ExistingHolder HolderType = "EXISTING_HOLDER"
)

// ClassifiedEvent is the normalized outcome of transaction classification.
// Exactly one is produced per successfully classified RawTransaction.
type ClassifiedEvent struct {
	Kind      EventKind
	Signature string
	Wallet    string
	BlockTime int64

	// IsBuy is meaningful for SolTokenTrade and StableCoinTrade only.
	IsBuy bool

	// TokenMint is set for SolTokenTrade and StableCoinTrade.
	TokenMint string

	// FromMint and ToMint are set for TokenSwap, with the corresponding
	// token amounts moved out of and into the wallet.
	FromMint   string
	ToMint     string
	FromAmount float64
	ToAmount   float64

	// SolAmount is the SOL side of the trade, best-effort. For stable
	// trades it holds the SOL leg; for swaps the aggregated estimate.
	SolAmount float64

	// TokenAmount is the token side of the trade in display units.
	TokenAmount float64

	// StableAmount is the stable-coin units moved in a StableCoinTrade.
	StableAmount float64

	// EstimatorFallback records that SolAmount came from a fixed fallback
	// constant rather than observed balance deltas.
	EstimatorFallback bool
}

// EnrichedEvent is a ClassifiedEvent plus holder metadata and optional
// external enrichment. Nil pointers mean the lookup failed or was skipped.
type EnrichedEvent struct {
	ClassifiedEvent

	// HolderType is set for SolTokenTrade buys only.
	HolderType HolderType

	// PreviousAmount and CurrentAmount are the tracked position before and
	// after this event was applied.
	PreviousAmount float64
	CurrentAmount  float64

	// SellPercentage is the raw, unclamped percentage of the tracked
	// position this sell represents. Nil when no prior position existed.
	SellPercentage *float64

	// WalletName is a human label for Wallet, when the directory knows one.
	WalletName string

	Token *TokenInfo
	Risk  *RiskReport
}
