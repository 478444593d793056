package holders

import (
	"testing"

	"solana-wallet-alerts/internal/domain"
)

const (
	mint    = "MintA11111111111111111111111111111111111111"
	walletA = "WalletA111111111111111111111111111111111111"
	walletB = "WalletB111111111111111111111111111111111111"
	walletC = "WalletC111111111111111111111111111111111111"
)

func TestClassifyHolderProgression(t *testing.T) {
	tr := NewTracker()

	if got := tr.ClassifyHolder(mint, walletA); got != domain.FirstHolder {
		t.Errorf("first call = %v, want FIRST_HOLDER", got)
	}
	tr.UpdatePosition(mint, walletA, 100, true)

	if got := tr.ClassifyHolder(mint, walletB); got != domain.NewHolder {
		t.Errorf("new wallet = %v, want NEW_HOLDER", got)
	}
	tr.UpdatePosition(mint, walletB, 50, true)

	if got := tr.ClassifyHolder(mint, walletA); got != domain.ExistingHolder {
		t.Errorf("repeat wallet = %v, want EXISTING_HOLDER", got)
	}
}

func TestFirstHolderAwardedOncePerMint(t *testing.T) {
	tr := NewTracker()

	tr.ClassifyHolder(mint, walletA)
	tr.UpdatePosition(mint, walletA, 100, true)

	// Full exit removes the position entry.
	tr.UpdatePosition(mint, walletA, 100, false)
	if _, held := tr.Position(mint, walletA); held {
		t.Fatal("position entry survived full exit")
	}

	// Re-entry is NEW_HOLDER, never FIRST_HOLDER again.
	if got := tr.ClassifyHolder(mint, walletA); got != domain.NewHolder {
		t.Errorf("re-entry = %v, want NEW_HOLDER", got)
	}
	if got := tr.ClassifyHolder(mint, walletC); got != domain.NewHolder {
		t.Errorf("later wallet = %v, want NEW_HOLDER", got)
	}
}

func TestUpdatePositionBuySellSequence(t *testing.T) {
	tr := NewTracker()

	prev, curr := tr.UpdatePosition(mint, walletA, 100, true)
	if prev != 0 || curr != 100 {
		t.Errorf("buy: (%v, %v), want (0, 100)", prev, curr)
	}

	prev, curr = tr.UpdatePosition(mint, walletA, 40, false)
	if prev != 100 || curr != 60 {
		t.Errorf("partial sell: (%v, %v), want (100, 60)", prev, curr)
	}

	// Overselling floors at zero and deletes the entry.
	prev, curr = tr.UpdatePosition(mint, walletA, 75, false)
	if prev != 60 || curr != 0 {
		t.Errorf("oversell: (%v, %v), want (60, 0)", prev, curr)
	}
	if _, held := tr.Position(mint, walletA); held {
		t.Error("entry not deleted after reaching zero")
	}
	if n := tr.HolderCount(mint); n != 0 {
		t.Errorf("holder count = %d, want 0", n)
	}
}

func TestSellWithoutPosition(t *testing.T) {
	tr := NewTracker()

	prev, curr := tr.UpdatePosition(mint, walletA, 10, false)
	if prev != 0 || curr != 0 {
		t.Errorf("sell with no position: (%v, %v), want (0, 0)", prev, curr)
	}
}

func TestSellPercentageUnclamped(t *testing.T) {
	pct, ok := SellPercentage(50, 60)
	if !ok {
		t.Fatal("expected a percentage for a positive prior position")
	}
	if pct != 120.0 {
		t.Errorf("percentage = %v, want 120.0", pct)
	}

	if _, ok := SellPercentage(0, 10); ok {
		t.Error("expected no percentage for zero prior position")
	}
	if _, ok := SellPercentage(-5, 10); ok {
		t.Error("expected no percentage for negative prior position")
	}
}

func TestDeterministicSequences(t *testing.T) {
	run := func() (float64, float64) {
		tr := NewTracker()
		tr.UpdatePosition(mint, walletA, 30, true)
		tr.UpdatePosition(mint, walletA, 20, true)
		prev, curr := tr.UpdatePosition(mint, walletA, 25, false)
		return prev, curr
	}

	p1, c1 := run()
	p2, c2 := run()
	if p1 != p2 || c1 != c2 {
		t.Errorf("sequences diverged: (%v,%v) vs (%v,%v)", p1, c1, p2, c2)
	}
	if p1 != 50 || c1 != 25 {
		t.Errorf("final = (%v, %v), want (50, 25)", p1, c1)
	}
}
