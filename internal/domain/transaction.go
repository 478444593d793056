package domain

// Well-known mint addresses and units.
const (
	// WSOLMint is the Wrapped SOL mint address.
	WSOLMint = "So11111111111111111111111111111111111111112"

	// LamportsPerSol is the number of lamports in one SOL.
	LamportsPerSol = 1_000_000_000
)

// StableCoinSymbols lists token symbols treated as USD-pegged stable coins.
var StableCoinSymbols = []string{"USDC", "USDT"}

// IsStableSymbol reports whether a token symbol is a known stable coin.
func IsStableSymbol(symbol string) bool {
	for _, s := range StableCoinSymbols {
		if s == symbol {
			return true
		}
	}
	return false
}

// AccountBalance holds the pre- and post-transaction lamport balance of a
// single account. Pre and post values live in one record so the two sides
// can never fall out of index alignment.
type AccountBalance struct {
	Account      string
	PreLamports  int64
	PostLamports int64
}

// DeltaSol returns the balance change in SOL (post minus pre).
func (b AccountBalance) DeltaSol() float64 {
	return float64(b.PostLamports-b.PreLamports) / LamportsPerSol
}

// TokenBalance is a token account balance snapshot for one mint and owner.
// RawAmount is in the token's native units (no decimals applied).
type TokenBalance struct {
	Mint      string
	Owner     string
	RawAmount float64
}

// Instruction is a parsed instruction from a decoded transaction.
// Info carries the instruction's parsed fields as returned by the RPC node
// (amounts are decimal strings, accounts are base58 addresses).
type Instruction struct {
	Program    string
	ParsedType string
	Info       map[string]string
}

// RawTransaction is a decoded on-chain transaction as delivered by the
// transaction-decoding layer. It is immutable once constructed.
type RawTransaction struct {
	Signature     string
	WalletAddress string // fee payer / primary actor
	Source        string // upstream relay source tag (e.g. "RAYDIUM")
	BlockTime     int64  // Unix timestamp in milliseconds

	AccountBalances   []AccountBalance
	PreTokenBalances  []TokenBalance
	PostTokenBalances []TokenBalance
	Instructions      []Instruction
}

// TokenMints returns the distinct non-WSOL mints referenced by the token
// balances, in first-appearance order, plus whether WSOL itself appears.
func (tx *RawTransaction) TokenMints() (mints []string, wsolPresent bool) {
	seen := make(map[string]struct{})
	for _, tb := range append(append([]TokenBalance{}, tx.PreTokenBalances...), tx.PostTokenBalances...) {
		if tb.Mint == "" {
			continue
		}
		if tb.Mint == WSOLMint {
			wsolPresent = true
			continue
		}
		if _, ok := seen[tb.Mint]; ok {
			continue
		}
		seen[tb.Mint] = struct{}{}
		mints = append(mints, tb.Mint)
	}
	return mints, wsolPresent
}

// SolInvolved reports whether any account's native balance changed.
func (tx *RawTransaction) SolInvolved() bool {
	for _, b := range tx.AccountBalances {
		if b.PreLamports != b.PostLamports {
			return true
		}
	}
	return false
}

// OwnerTokenDelta returns the change in the wallet's balance of the given
// mint (post minus pre), summed across the wallet's token accounts.
func (tx *RawTransaction) OwnerTokenDelta(mint, owner string) float64 {
	var pre, post float64
	for _, tb := range tx.PreTokenBalances {
		if tb.Mint == mint && tb.Owner == owner {
			pre += tb.RawAmount
		}
	}
	for _, tb := range tx.PostTokenBalances {
		if tb.Mint == mint && tb.Owner == owner {
			post += tb.RawAmount
		}
	}
	return post - pre
}
