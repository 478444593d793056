package domain

import (
	"github.com/mr-tron/base58"
)

// ValidAddress reports whether s is a plausible Solana address: base58
// text decoding to 32 bytes.
func ValidAddress(s string) bool {
	if len(s) < 32 || len(s) > 44 {
		return false
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return false
	}
	return len(raw) == 32
}
