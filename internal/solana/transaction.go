package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"solana-wallet-alerts/internal/domain"
)

// parsedTransaction mirrors the jsonParsed getTransaction result, limited
// to the fields the decoder needs.
type parsedTransaction struct {
	BlockTime int64 `json:"blockTime"`
	Meta      *struct {
		PreBalances       []int64              `json:"preBalances"`
		PostBalances      []int64              `json:"postBalances"`
		PreTokenBalances  []parsedTokenBalance `json:"preTokenBalances"`
		PostTokenBalances []parsedTokenBalance `json:"postTokenBalances"`
	} `json:"meta"`
	Transaction struct {
		Message struct {
			AccountKeys  []accountKey        `json:"accountKeys"`
			Instructions []parsedInstruction `json:"instructions"`
		} `json:"message"`
	} `json:"transaction"`
}

type parsedTokenBalance struct {
	Mint          string `json:"mint"`
	Owner         string `json:"owner"`
	UITokenAmount struct {
		Amount string `json:"amount"`
	} `json:"uiTokenAmount"`
}

// accountKey accepts both the jsonParsed object form and the legacy plain
// string form.
type accountKey struct {
	Pubkey string `json:"pubkey"`
	Signer bool   `json:"signer"`
}

func (k *accountKey) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &k.Pubkey)
	}
	type alias accountKey
	return json.Unmarshal(data, (*alias)(k))
}

type parsedInstruction struct {
	Program string `json:"program"`
	Parsed  *struct {
		Type string          `json:"type"`
		Info json.RawMessage `json:"info"`
	} `json:"parsed"`
}

// GetTransaction fetches a transaction by signature and decodes it into a
// RawTransaction. The fee payer (first signer) becomes the wallet address.
func (c *HTTPClient) GetTransaction(ctx context.Context, signature string) (*domain.RawTransaction, error) {
	params := []interface{}{
		signature,
		map[string]interface{}{
			"encoding":                       "jsonParsed",
			"maxSupportedTransactionVersion": 0,
		},
	}

	var parsed parsedTransaction
	if err := c.call(ctx, "getTransaction", params, &parsed); err != nil {
		return nil, fmt.Errorf("get transaction %s: %w", signature, err)
	}
	if parsed.Meta == nil {
		return nil, fmt.Errorf("get transaction %s: empty result", signature)
	}
	return decodeTransaction(signature, &parsed)
}

// decodeTransaction converts the RPC shape into the pipeline's record.
// Pre and post lamport balances are merged into one index-aligned sequence
// so the alignment invariant cannot be violated downstream. A transaction
// whose fee payer is not a plausible Solana address is rejected.
func decodeTransaction(signature string, parsed *parsedTransaction) (*domain.RawTransaction, error) {
	keys := parsed.Transaction.Message.AccountKeys
	pre, post := parsed.Meta.PreBalances, parsed.Meta.PostBalances
	if len(pre) != len(post) {
		return nil, fmt.Errorf("decode transaction %s: balance arrays misaligned (%d vs %d)", signature, len(pre), len(post))
	}

	tx := &domain.RawTransaction{
		Signature: signature,
		BlockTime: parsed.BlockTime * 1000,
	}
	if len(keys) > 0 {
		tx.WalletAddress = keys[0].Pubkey
	}
	if !domain.ValidAddress(tx.WalletAddress) {
		return nil, fmt.Errorf("decode transaction %s: invalid fee payer address %q", signature, tx.WalletAddress)
	}

	for i := range pre {
		account := ""
		if i < len(keys) {
			account = keys[i].Pubkey
		}
		tx.AccountBalances = append(tx.AccountBalances, domain.AccountBalance{
			Account:      account,
			PreLamports:  pre[i],
			PostLamports: post[i],
		})
	}

	tx.PreTokenBalances = decodeTokenBalances(parsed.Meta.PreTokenBalances)
	tx.PostTokenBalances = decodeTokenBalances(parsed.Meta.PostTokenBalances)

	for _, in := range parsed.Transaction.Message.Instructions {
		if in.Parsed == nil {
			continue
		}
		tx.Instructions = append(tx.Instructions, domain.Instruction{
			Program:    in.Program,
			ParsedType: in.Parsed.Type,
			Info:       flattenInfo(in.Parsed.Info),
		})
	}
	return tx, nil
}

func decodeTokenBalances(in []parsedTokenBalance) []domain.TokenBalance {
	var out []domain.TokenBalance
	for _, tb := range in {
		amount, _ := strconv.ParseFloat(tb.UITokenAmount.Amount, 64)
		out = append(out, domain.TokenBalance{
			Mint:      tb.Mint,
			Owner:     tb.Owner,
			RawAmount: amount,
		})
	}
	return out
}

// flattenInfo lowers a parsed instruction's info object into string pairs.
// Scalars are stringified; the nested tokenAmount object contributes its
// raw amount under the "tokenAmount" key.
func flattenInfo(raw json.RawMessage) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	var generic map[string]interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil
	}

	info := make(map[string]string, len(generic))
	for k, v := range generic {
		switch val := v.(type) {
		case string:
			info[k] = val
		case float64:
			info[k] = formatNumber(val)
		case map[string]interface{}:
			if k == "tokenAmount" {
				if amount, ok := val["amount"].(string); ok {
					info[k] = amount
				}
			}
		}
	}
	return info
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
