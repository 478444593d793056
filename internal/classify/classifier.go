package classify

import (
	"context"
	"math"
	"strconv"

	"solana-wallet-alerts/internal/domain"
)

// TokenInfoProvider resolves price/market metadata for a mint. Lookups may
// fail or return nil; the classifier degrades instead of aborting.
type TokenInfoProvider interface {
	TokenInfo(ctx context.Context, mint string) (*domain.TokenInfo, error)
}

// Stable-coin trade defaults, used when instruction parsing yields nothing
// usable. A documented degradation, not a bug.
const (
	defaultStableTradeSol    = 1.0
	defaultStableTradeAmount = 10.0
)

// tokenAmountFixupThreshold marks raw token amounts carrying a spurious
// decimal scaling from certain upstream feeds.
const tokenAmountFixupThreshold = 1e12

// stableUnitsPerToken converts raw USDC/USDT amounts to display units.
const stableUnitsPerToken = 1e6

// Classifier decides what kind of economic event a decoded transaction
// represents and extracts its normalized fields. Classification is pure:
// the same transaction always yields the same event.
type Classifier struct {
	tokens    TokenInfoProvider
	estimator Estimator
}

// NewClassifier creates a Classifier backed by the given token-info provider.
func NewClassifier(tokens TokenInfoProvider) *Classifier {
	return &Classifier{tokens: tokens}
}

// Classify maps a raw transaction onto a classified event, or returns a
// *ClassificationError when the data cannot support a decision.
func (c *Classifier) Classify(ctx context.Context, tx *domain.RawTransaction) (*domain.ClassifiedEvent, error) {
	mints, wsolPresent := tx.TokenMints()
	solInvolved := tx.SolInvolved()

	if len(mints) == 0 && !solInvolved && !wsolPresent {
		return nil, insufficientData("no token mints and no balance changes")
	}
	if len(mints) == 0 {
		return nil, insufficientData("balance changes without an identifiable token mint")
	}

	infos := make(map[string]*domain.TokenInfo, len(mints))
	var stableMint string
	for _, m := range mints {
		if info := c.lookup(ctx, m, infos); info != nil && info.IsStable() {
			stableMint = m
			break
		}
	}

	switch {
	case stableMint != "" && solInvolved:
		return c.classifyStableTrade(tx, stableMint), nil
	case len(mints) >= 2:
		return c.classifyTokenSwap(tx, mints)
	default:
		return c.classifySolTokenTrade(ctx, tx, mints[0], infos)
	}
}

// classifySolTokenTrade handles the single-token case, including the one
// where wrapped SOL shows up as a second mint. Direction comes from the
// wallet's actual token-balance delta, never from mint array position.
func (c *Classifier) classifySolTokenTrade(ctx context.Context, tx *domain.RawTransaction, mint string, infos map[string]*domain.TokenInfo) (*domain.ClassifiedEvent, error) {
	tokenDelta := tx.OwnerTokenDelta(mint, tx.WalletAddress)
	if tokenDelta == 0 {
		tokenDelta = aggregateTokenDelta(tx, mint)
	}
	isBuy := tokenDelta > 0
	tokenAmount := FixTokenAmount(math.Abs(tokenDelta))

	// The wallet's own WSOL movement is the most reliable SOL-side signal
	// when the trade was routed through a wrapped-SOL account.
	var solAmount float64
	var fellBack bool
	if wsolDelta := tx.OwnerTokenDelta(domain.WSOLMint, tx.WalletAddress); wsolDelta != 0 {
		solAmount = Round3(math.Abs(wsolDelta) / domain.LamportsPerSol)
		if solAmount > SingleTradeBound {
			solAmount = 0
		}
	}
	if solAmount == 0 {
		est := c.estimator.Estimate(tx.AccountBalances, isBuy, SingleTradeBound)
		solAmount, fellBack = est.SolAmount, est.Fallback
	}
	if fellBack {
		if info := c.lookup(ctx, mint, infos); info != nil {
			if v, ok := PriceRescue(info.PriceUsd, tokenAmount, SingleTradeBound); ok {
				solAmount, fellBack = v, false
			}
		}
	}

	if solAmount == 0 && tokenAmount == 0 {
		return nil, insufficientData("no sol or token movement for " + mint)
	}
	return &domain.ClassifiedEvent{
		Kind:              domain.KindSolTokenTrade,
		Signature:         tx.Signature,
		Wallet:            tx.WalletAddress,
		BlockTime:         tx.BlockTime,
		IsBuy:             isBuy,
		TokenMint:         mint,
		SolAmount:         solAmount,
		TokenAmount:       tokenAmount,
		EstimatorFallback: fellBack,
	}, nil
}

// classifyStableTrade handles trades with a USD-pegged token on one side.
// Direction and amounts come from transfer instructions when present.
func (c *Classifier) classifyStableTrade(tx *domain.RawTransaction, stableMint string) *domain.ClassifiedEvent {
	var (
		solAmount    float64
		stableAmount float64
		isBuy        bool
		dirFound     bool
	)
	for _, in := range tx.Instructions {
		if in.ParsedType != "transfer" && in.ParsedType != "transferChecked" {
			continue
		}
		if !dirFound {
			switch tx.WalletAddress {
			case in.Info["destination"]:
				isBuy, dirFound = true, true
			case in.Info["source"]:
				isBuy, dirFound = false, true
			}
		}
		if in.Program == "system" {
			if v := parsePositive(in.Info["lamports"], in.Info["amount"]); v > 0 {
				solAmount = Round3(v / domain.LamportsPerSol)
			}
		} else if v := parsePositive(in.Info["tokenAmount"], in.Info["amount"]); v > 0 {
			stableAmount = v / stableUnitsPerToken
		}
	}
	if !dirFound {
		isBuy = tx.OwnerTokenDelta(stableMint, tx.WalletAddress) > 0
	}

	var fellBack bool
	if solAmount == 0 {
		solAmount = defaultStableTradeSol
		fellBack = true
	}
	if stableAmount == 0 {
		stableAmount = defaultStableTradeAmount
		fellBack = true
	}
	return &domain.ClassifiedEvent{
		Kind:              domain.KindStableCoinTrade,
		Signature:         tx.Signature,
		Wallet:            tx.WalletAddress,
		BlockTime:         tx.BlockTime,
		IsBuy:             isBuy,
		TokenMint:         stableMint,
		SolAmount:         solAmount,
		StableAmount:      stableAmount,
		EstimatorFallback: fellBack,
	}
}

// classifyTokenSwap handles two genuine token mints trading against each
// other. The side whose balance decreased for the wallet is the from side;
// mint array order is only a tiebreak when deltas are unavailable.
func (c *Classifier) classifyTokenSwap(tx *domain.RawTransaction, mints []string) (*domain.ClassifiedEvent, error) {
	fromMint, toMint := mints[0], mints[1]
	fromDelta := walletOrAggregateDelta(tx, fromMint)
	toDelta := walletOrAggregateDelta(tx, toMint)
	if fromDelta > 0 && toDelta < 0 {
		fromMint, toMint = toMint, fromMint
		fromDelta, toDelta = toDelta, fromDelta
	}
	fromAmount := FixTokenAmount(math.Abs(fromDelta))
	toAmount := FixTokenAmount(math.Abs(toDelta))

	est := c.estimator.Estimate(tx.AccountBalances, true, SwapBound)

	if fromAmount == 0 && toAmount == 0 && est.Fallback {
		return nil, insufficientData("no token movement for swap " + fromMint + " -> " + toMint)
	}
	return &domain.ClassifiedEvent{
		Kind:              domain.KindTokenSwap,
		Signature:         tx.Signature,
		Wallet:            tx.WalletAddress,
		BlockTime:         tx.BlockTime,
		FromMint:          fromMint,
		ToMint:            toMint,
		FromAmount:        fromAmount,
		ToAmount:          toAmount,
		TokenAmount:       toAmount,
		SolAmount:         est.SolAmount,
		EstimatorFallback: est.Fallback,
	}, nil
}

func (c *Classifier) lookup(ctx context.Context, mint string, cache map[string]*domain.TokenInfo) *domain.TokenInfo {
	if info, ok := cache[mint]; ok {
		return info
	}
	info, err := c.tokens.TokenInfo(ctx, mint)
	if err != nil {
		info = nil
	}
	cache[mint] = info
	return info
}

// FixTokenAmount corrects a known decimal-scaling defect in some upstream
// feeds: raw amounts above 1e12 are divided by 1e6.
func FixTokenAmount(v float64) float64 {
	if v > tokenAmountFixupThreshold {
		return v / 1e6
	}
	return v
}

// walletOrAggregateDelta prefers the wallet's own balance delta for a mint
// and falls back to the mint-wide delta across all owners.
func walletOrAggregateDelta(tx *domain.RawTransaction, mint string) float64 {
	if d := tx.OwnerTokenDelta(mint, tx.WalletAddress); d != 0 {
		return d
	}
	return aggregateTokenDelta(tx, mint)
}

func aggregateTokenDelta(tx *domain.RawTransaction, mint string) float64 {
	var pre, post float64
	for _, tb := range tx.PreTokenBalances {
		if tb.Mint == mint {
			pre += tb.RawAmount
		}
	}
	for _, tb := range tx.PostTokenBalances {
		if tb.Mint == mint {
			post += tb.RawAmount
		}
	}
	return post - pre
}

// parsePositive parses the first value that yields a positive float.
func parsePositive(values ...string) float64 {
	for _, s := range values {
		if s == "" {
			continue
		}
		if v, err := strconv.ParseFloat(s, 64); err == nil && v > 0 {
			return v
		}
	}
	return 0
}
