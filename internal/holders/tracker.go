// Package holders maintains per-token, per-wallet position state and
// classifies buys relative to each token's trading history.
package holders

import (
	"sync"

	"solana-wallet-alerts/internal/domain"
)

// tokenState is the tracked state for one mint. First-holder status is
// recorded separately from positions so it survives full exits.
type tokenState struct {
	positions map[string]float64
}

// Tracker owns holder-position state. A single goroutine must apply the
// events of any one token in observation order; the mutex only guards
// against concurrent readers on other tokens.
type Tracker struct {
	mu     sync.Mutex
	tokens map[string]*tokenState
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{tokens: make(map[string]*tokenState)}
}

// ClassifyHolder registers the mint as seen and reports what kind of holder
// the wallet is at this moment. The very first call for a mint returns
// FirstHolder regardless of wallet; that status is never reissued, even
// after the first holder fully exits. Call exactly once per buy, before
// UpdatePosition.
func (t *Tracker) ClassifyHolder(tokenMint, wallet string) domain.HolderType {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, seen := t.tokens[tokenMint]
	if !seen {
		t.tokens[tokenMint] = &tokenState{positions: make(map[string]float64)}
		return domain.FirstHolder
	}
	if _, held := st.positions[wallet]; held {
		return domain.ExistingHolder
	}
	return domain.NewHolder
}

// UpdatePosition applies a buy or sell to the wallet's tracked position and
// returns the amounts before and after. Sells floor at zero, and a position
// that reaches exactly zero is deleted so a later re-entry registers as a
// new holder.
func (t *Tracker) UpdatePosition(tokenMint, wallet string, amount float64, isBuy bool) (previous, current float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.tokens[tokenMint]
	if !ok {
		st = &tokenState{positions: make(map[string]float64)}
		t.tokens[tokenMint] = st
	}

	previous = st.positions[wallet]
	if isBuy {
		current = previous + amount
		st.positions[wallet] = current
		return previous, current
	}

	current = previous - amount
	if current <= 0 {
		current = 0
		delete(st.positions, wallet)
		return previous, current
	}
	st.positions[wallet] = current
	return previous, current
}

// Position returns the wallet's tracked amount for a mint, or false when no
// position exists.
func (t *Tracker) Position(tokenMint, wallet string) (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.tokens[tokenMint]
	if !ok {
		return 0, false
	}
	amount, held := st.positions[wallet]
	return amount, held
}

// HolderCount returns the number of wallets with a live position in a mint.
func (t *Tracker) HolderCount(tokenMint string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.tokens[tokenMint]
	if !ok {
		return 0
	}
	return len(st.positions)
}

// SellPercentage computes how much of the previously tracked position a
// sell represents. The result is deliberately unclamped: estimation noise
// can push it past 100, and callers render "sold entire position" for any
// value at or above 100. Returns false when no prior position existed.
func SellPercentage(previousAmount, amountSold float64) (float64, bool) {
	if previousAmount <= 0 {
		return 0, false
	}
	return amountSold / previousAmount * 100, true
}
