package ohlcv

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitqueryFetchCandles(t *testing.T) {
	var gotAuth string
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotQuery = req.Query

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"Solana": {"DEXTradeByTokens": [
			{"Block": {"Time": "2023-11-14T22:13:00Z"},
			 "volume": "1234.5",
			 "Trade": {"high": 0.0008, "low": 0.0001, "open": 0.0002, "close": 0.0004},
			 "count": "17"},
			{"Block": {"Time": ""},
			 "volume": "1",
			 "Trade": {"high": 1, "low": 1, "open": 1, "close": 1},
			 "count": "1"}
		]}}}`))
	}))
	defer srv.Close()

	c := NewBitqueryClient("test-key", WithBitqueryURL(srv.URL))
	candles, err := c.FetchCandles(context.Background(), "MintA", 1_700_000_000_000, 1_700_010_800_000)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Contains(t, gotQuery, `MintAddress: {is: "MintA"}`)
	assert.Contains(t, gotQuery, "So11111111111111111111111111111111111111112")
	assert.Contains(t, gotQuery, `since: "2023-11-14T22:13:20Z"`)

	require.Len(t, candles, 1, "bars without a timestamp are dropped")
	got := candles[0]
	assert.Equal(t, "MintA", got.Mint)
	assert.Equal(t, int64(1_699_999_980_000), got.Timestamp)
	assert.Equal(t, 0.0008, got.High)
	assert.Equal(t, 0.0001, got.Low)
	assert.Equal(t, 0.0002, got.Open)
	assert.Equal(t, 0.0004, got.Close)
	assert.Equal(t, 1234.5, got.Volume)
}

func TestBitqueryFetchCandlesGraphQLError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"errors": [{"message": "rate limited"}]}`))
	}))
	defer srv.Close()

	c := NewBitqueryClient("test-key", WithBitqueryURL(srv.URL))
	_, err := c.FetchCandles(context.Background(), "MintA", 0, 1)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "rate limited"))
}
