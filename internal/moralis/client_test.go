package moralis

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, network string, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", func() string { return network })
}

// assertOrder checks that every field label appears in the report, in the
// given order.
func assertOrder(t *testing.T, report string, fields ...string) {
	t.Helper()
	last := -1
	for _, f := range fields {
		idx := strings.Index(report, f)
		require.NotEqual(t, -1, idx, "missing %q in report:\n%s", f, report)
		assert.Greater(t, idx, last, "%q out of order in report:\n%s", f, report)
		last = idx
	}
}

func TestTokenMetadata_FullReport(t *testing.T) {
	var gotQuery map[string]string
	c := newTestClient(t, "base-sepolia", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"chain":        r.URL.Query().Get("chain"),
			"addresses[0]": r.URL.Query().Get("addresses[0]"),
		}
		assert.Equal(t, "/erc20/metadata", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))
		w.Write([]byte(`[{
			"name": "USD Coin",
			"symbol": "USDC",
			"decimals": "6",
			"total_supply_formatted": "1000000",
			"address": "0x833589fcd6edb6e08f4c7c32d4f71b54bda02913",
			"verified_contract": true,
			"logo": "https://logo.example/usdc.png"
		}]`))
	})

	report := c.TokenMetadata(context.Background(), "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913")

	assert.Equal(t, "base sepolia", gotQuery["chain"])
	assert.Equal(t, "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", gotQuery["addresses[0]"])
	assertOrder(t, report,
		"Token Name: USD Coin",
		"Symbol: USDC",
		"Decimals: 6",
		"Total Supply: 1000000",
		"Contract Address: 0x833589fcd6edb6e08f4c7c32d4f71b54bda02913",
		"Verified: true",
		"Logo URL: https://logo.example/usdc.png",
	)
}

func TestTokenMetadata_Empty(t *testing.T) {
	c := newTestClient(t, "base", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	got := c.TokenMetadata(context.Background(), "0xABC")
	assert.Equal(t, "No metadata found for the provided token address.", got)
	assert.False(t, strings.HasPrefix(got, "Error "))
}

func TestTokenMetadata_HTTPError(t *testing.T) {
	c := newTestClient(t, "base", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid key"}`, http.StatusUnauthorized)
	})

	got := c.TokenMetadata(context.Background(), "0xABC")
	assert.True(t, strings.HasPrefix(got, "Error fetching token metadata:"), got)
	assert.Contains(t, got, "401")
}

func TestMissingAPIKey_NoRequestSent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request sent despite missing API key")
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "", func() string { return "base" })
	got := c.TokenMetadata(context.Background(), "0xABC")

	assert.True(t, strings.HasPrefix(got, "Error fetching token metadata:"), got)
	assert.Contains(t, got, "MORALIS_API_KEY")
}

func TestWalletTokens_Report(t *testing.T) {
	c := newTestClient(t, "base", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wallets/0xWALLET/tokens", r.URL.Path)
		assert.Equal(t, "base", r.URL.Query().Get("chain"))
		w.Write([]byte(`{"result": [
			{"name":"Wrapped Ether","symbol":"WETH","balance_formatted":"1.5","token_address":"0x4200000000000000000000000000000000000006","verified_contract":true,"usd_price":3000.5},
			{"name":"Mystery","symbol":"MYS","balance_formatted":"10","token_address":"0xdead","verified_contract":false,"usd_price":null}
		]}`))
	})

	report := c.WalletTokens(context.Background(), "0xWALLET")

	assert.True(t, strings.HasPrefix(report, "Tokens held by 0xWALLET:"), report)
	assertOrder(t, report,
		"Token: Wrapped Ether (WETH)",
		"Balance: 1.5 WETH",
		"Contract Address: 0x4200000000000000000000000000000000000006",
		"Verified: Yes",
		"Price (USD): 3000.5",
		"Token: Mystery (MYS)",
		"Verified: No",
		"Price (USD): N/A",
	)
}

func TestWalletTokens_Empty(t *testing.T) {
	c := newTestClient(t, "base", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": []}`))
	})

	got := c.WalletTokens(context.Background(), "0xWALLET")
	assert.Equal(t, "No tokens found for wallet 0xWALLET.", got)
}

func TestWalletTokens_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, "test-key", func() string { return "base" })
	got := c.WalletTokens(context.Background(), "0xWALLET")
	assert.True(t, strings.HasPrefix(got, "Error fetching wallet tokens:"), got)
}

func TestTokenDetails_Report(t *testing.T) {
	c := newTestClient(t, "base", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/discovery/token", r.URL.Path)
		assert.Equal(t, "0xTOKEN", r.URL.Query().Get("token_address"))
		w.Write([]byte(`{
			"token_name": "Degen",
			"token_symbol": "DEGEN",
			"price_usd": 0.012,
			"market_cap": 160000000,
			"security_score": 92,
			"token_age_in_days": 310,
			"on_chain_strength_index": 78,
			"holders_change": {"1d": 120},
			"volume_change_usd": {"1d": -5000.25},
			"price_percent_change_usd": {"1M": 14.2},
			"token_logo": "https://logo.example/degen.png"
		}`))
	})

	report := c.TokenDetails(context.Background(), "0xTOKEN")

	assertOrder(t, report,
		"Token Name: Degen",
		"Symbol: DEGEN",
		"Price (USD): 0.012",
		"Market Cap: 160000000",
		"Security Score: 92",
		"Token Age (days): 310",
		"On-Chain Strength Index: 78",
		"1-Day Holders Change: 120",
		"1-Day Volume Change (USD): -5000.25",
		"1-Month Price Change (%): 14.2",
		"Logo: https://logo.example/degen.png",
	)
}

func TestTokenDetails_MissingNestedKeys(t *testing.T) {
	c := newTestClient(t, "base", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token_name": "Degen", "token_symbol": "DEGEN", "price_usd": 0.012}`))
	})

	report := c.TokenDetails(context.Background(), "0xTOKEN")

	assert.Contains(t, report, "1-Day Holders Change: N/A")
	assert.Contains(t, report, "1-Day Volume Change (USD): N/A")
	assert.Contains(t, report, "1-Month Price Change (%): N/A")
	assert.Contains(t, report, "Market Cap: N/A")
}

func TestTokenDetails_Empty(t *testing.T) {
	c := newTestClient(t, "base", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	got := c.TokenDetails(context.Background(), "0xTOKEN")
	assert.Equal(t, "No details found for the provided token address.", got)
}

func TestWalletNFTs_RawBody(t *testing.T) {
	const raw = `{"result":[{"token_id":"7","name":"BasePaint"}],"cursor":null}`
	c := newTestClient(t, "base", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/0xWALLET/nft", r.URL.Path)
		assert.Equal(t, "decimal", r.URL.Query().Get("format"))
		assert.Equal(t, "false", r.URL.Query().Get("media_items"))
		w.Write([]byte(raw))
	})

	got := c.WalletNFTs(context.Background(), "0xWALLET")
	assert.Equal(t, raw, got)
}

func TestTokenPairs_SinglePairExample(t *testing.T) {
	c := newTestClient(t, "base", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/erc20/0xABC.../pairs", r.URL.Path)
		w.Write([]byte(`{"pairs": [{
			"pair_label": "WETH/USDC",
			"usd_price": 3000.5,
			"usd_price_24hr_percent_change": -1.2,
			"liquidity_usd": 12000000,
			"exchange_address": "0xEXCHANGE",
			"pair": [
				{"token_name": "Wrapped Ether", "token_symbol": "WETH"},
				{"token_name": "USD Coin", "token_symbol": "USDC"}
			]
		}]}`))
	})

	report := c.TokenPairs(context.Background(), "0xABC...")

	assert.True(t, strings.HasPrefix(report, "Trading pairs for token 0xABC...:"), report)
	assertOrder(t, report,
		"Pair: WETH/USDC",
		"Price (USD): 3000.5",
		"24hr Price Change (%): -1.2",
		"Liquidity (USD): 12000000",
		"Exchange Address: 0xEXCHANGE",
		"Base Token: Wrapped Ether (WETH)",
		"Quote Token: USD Coin (USDC)",
	)
}

func TestTokenPairs_Empty(t *testing.T) {
	c := newTestClient(t, "base", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs": []}`))
	})

	got := c.TokenPairs(context.Background(), "0xABC")
	assert.Equal(t, "No trading pairs found for token 0xABC.", got)
}

func TestTrendingTokens_QueryAndReport(t *testing.T) {
	c := newTestClient(t, "base-sepolia", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/discovery/tokens/trending", r.URL.Path)
		// Trending ignores the wallet network and always asks for base.
		assert.Equal(t, "base", r.URL.Query().Get("chain"))
		assert.Equal(t, "75", r.URL.Query().Get("security_score"))
		assert.Equal(t, "50000", r.URL.Query().Get("min_market_cap"))
		w.Write([]byte(`[{
			"token_name": "Brett",
			"token_symbol": "BRETT",
			"price_usd": 0.09,
			"market_cap": 900000000,
			"security_score": 88,
			"token_logo": "https://logo.example/brett.png"
		}]`))
	})

	report := c.TrendingTokens(context.Background(), 75, 50000)

	assert.True(t, strings.HasPrefix(report, "Trending Tokens:"), report)
	assertOrder(t, report,
		"Token Name: Brett (BRETT)",
		"Price (USD): 0.09",
		"Market Cap: 900000000",
		"Security Score: 88",
		"Logo: https://logo.example/brett.png",
	)
}

func TestTrendingTokens_Empty(t *testing.T) {
	c := newTestClient(t, "base", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	got := c.TrendingTokens(context.Background(), 80, 100000)
	assert.Equal(t, "No trending tokens found.", got)
	assert.False(t, strings.HasPrefix(got, "Error "))
}

func TestChainSelector_FollowsNetworkSwitch(t *testing.T) {
	var chains []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chains = append(chains, r.URL.Query().Get("chain"))
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	network := "base-sepolia"
	c := NewClient(srv.URL, "test-key", func() string { return network })

	c.TokenMetadata(context.Background(), "0xABC")
	network = "base-mainnet"
	c.TokenMetadata(context.Background(), "0xABC")

	require.Len(t, chains, 2)
	assert.Equal(t, "base sepolia", chains[0])
	assert.Equal(t, "base", chains[1])
}

func TestWalletPnL_Report(t *testing.T) {
	c := newTestClient(t, "base", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wallets/0xWALLET/profitability/summary", r.URL.Path)
		w.Write([]byte(`{
			"total_count_of_trades": 42,
			"total_trade_volume": "18046.57",
			"total_realized_profit_usd": "1234.5",
			"total_realized_profit_percentage": 6.84
		}`))
	})

	report := c.WalletPnL(context.Background(), "0xWALLET")

	assert.True(t, strings.HasPrefix(report, "Profit and loss for wallet 0xWALLET:"), report)
	assertOrder(t, report,
		"Total Trades: 42",
		"Total Trade Volume (USD): 18046.57",
		"Realized Profit (USD): 1234.5",
		"Realized Profit (%): 6.84",
	)
}

func TestWalletPnL_Empty(t *testing.T) {
	c := newTestClient(t, "base", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	got := c.WalletPnL(context.Background(), "0xWALLET")
	assert.Equal(t, "No profitability data found for wallet 0xWALLET.", got)
}

func TestHTTPError_Message(t *testing.T) {
	err := &HTTPError{StatusCode: 500, Body: []byte("upstream broke")}
	assert.Equal(t, "moralis http 500: upstream broke", err.Error())

	empty := &HTTPError{StatusCode: 429}
	assert.Equal(t, "moralis http 429", empty.Error())
}
