package classify

import (
	"math"
	"sort"

	"solana-wallet-alerts/internal/domain"
)

// Fallback amounts returned when no usable balance delta exists. These are
// a deliberate degradation policy: the pipeline always gets a displayable
// amount.
const (
	BuyFallbackSol  = 1.09
	SellFallbackSol = 0.9
)

// Sanity bounds for estimated SOL amounts. Single SOL/token trades above
// SingleTradeBound are implausible for the wallets being watched; swap
// aggregation across accounts is allowed a wider bound.
const (
	SingleTradeBound = 10.0
	SwapBound        = 100.0
)

// networkFeeSol is the flat network fee subtracted from buy spends.
const networkFeeSol = 0.000005

// Estimate is the outcome of a SOL-amount estimation. Fallback marks that
// SolAmount is a fixed constant rather than a value derived from balances.
type Estimate struct {
	SolAmount float64
	Fallback  bool
}

// Estimator derives the SOL amount of a trade from account balance deltas.
// It never fails: missing, malformed, or implausible inputs degrade to the
// fixed fallback amounts.
type Estimator struct{}

// Estimate picks the dominant balance delta of the required sign as the
// trade amount. Buys select the largest SOL outflow and subtract the
// network fee; sells select the largest inflow. Results are rounded to
// three decimals and must land inside (0, bound]; anything else falls back.
func (Estimator) Estimate(balances []domain.AccountBalance, isBuy bool, bound float64) Estimate {
	if bound <= 0 {
		bound = SingleTradeBound
	}
	if len(balances) == 0 {
		return fallbackEstimate(isBuy)
	}

	deltas := make([]float64, 0, len(balances))
	for _, b := range balances {
		deltas = append(deltas, b.DeltaSol())
	}
	sort.Slice(deltas, func(i, j int) bool {
		return math.Abs(deltas[i]) > math.Abs(deltas[j])
	})

	var amount float64
	found := false
	for _, d := range deltas {
		if isBuy && d < 0 {
			amount = -d - networkFeeSol
			found = true
			break
		}
		if !isBuy && d > 0 {
			amount = d
			found = true
			break
		}
	}
	if !found {
		return fallbackEstimate(isBuy)
	}

	amount = Round3(amount)
	if amount <= 0 || amount > bound {
		return fallbackEstimate(isBuy)
	}
	return Estimate{SolAmount: amount}
}

func fallbackEstimate(isBuy bool) Estimate {
	if isBuy {
		return Estimate{SolAmount: BuyFallbackSol, Fallback: true}
	}
	return Estimate{SolAmount: SellFallbackSol, Fallback: true}
}

// PriceRescue re-derives an implausible SOL amount from the token's price
// and the raw token amount. Returns false when the inputs cannot produce a
// value inside (0, bound].
func PriceRescue(priceUsd, rawTokenAmount, bound float64) (float64, bool) {
	if priceUsd <= 0 || rawTokenAmount <= 0 {
		return 0, false
	}
	v := Round3(priceUsd * rawTokenAmount / 1e6)
	if v <= 0 || v > bound {
		return 0, false
	}
	return v, true
}

// Round3 rounds to three decimal places.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
