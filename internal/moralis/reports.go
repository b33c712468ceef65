package moralis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Subjects named in error texts. Every failure surfaces as
// "Error fetching <subject>: <cause>" plain text so the decision loop can
// read it; nothing below returns a Go error.
const (
	subjectMetadata     = "token metadata"
	subjectWalletTokens = "wallet tokens"
	subjectDetails      = "token details"
	subjectNFTs         = "wallet NFTs"
	subjectPairs        = "token pairs"
	subjectTrending     = "trending tokens"
	subjectPnL          = "wallet PnL"
)

const missingKeyCause = "Moralis API key is missing; set the MORALIS_API_KEY environment variable"

func errText(subject string, cause any) string {
	return fmt.Sprintf("Error fetching %s: %v", subject, cause)
}

// TokenMetadata reports name, symbol, decimals, supply, verification and
// logo for one ERC-20 token.
func (c *Client) TokenMetadata(ctx context.Context, tokenAddress string) string {
	if c.APIKey == "" {
		return errText(subjectMetadata, missingKeyCause)
	}

	q := url.Values{}
	q.Set("chain", c.chain())
	q.Set("addresses[0]", tokenAddress)

	body, err := c.get(ctx, "/erc20/metadata", q)
	if err != nil {
		return errText(subjectMetadata, err)
	}

	var tokens []tokenMetadata
	if err := json.Unmarshal(body, &tokens); err != nil {
		return errText(subjectMetadata, err)
	}
	if len(tokens) == 0 {
		return "No metadata found for the provided token address."
	}

	t := tokens[0]
	return fmt.Sprintf(
		"Token Name: %s\nSymbol: %s\nDecimals: %s\nTotal Supply: %s\nContract Address: %s\nVerified: %s\nLogo URL: %s\n",
		t.Name, t.Symbol, t.Decimals, t.TotalSupply, t.Address, t.Verified, t.Logo,
	)
}

// WalletTokens reports the ERC-20 balances held by a wallet, one block per
// token.
func (c *Client) WalletTokens(ctx context.Context, walletAddress string) string {
	if c.APIKey == "" {
		return errText(subjectWalletTokens, missingKeyCause)
	}

	q := url.Values{}
	q.Set("chain", c.chain())

	body, err := c.get(ctx, "/wallets/"+url.PathEscape(walletAddress)+"/tokens", q)
	if err != nil {
		return errText(subjectWalletTokens, err)
	}

	var out walletTokensResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return errText(subjectWalletTokens, err)
	}
	if len(out.Result) == 0 {
		return fmt.Sprintf("No tokens found for wallet %s.", walletAddress)
	}

	blocks := make([]string, 0, len(out.Result))
	for _, t := range out.Result {
		blocks = append(blocks, fmt.Sprintf(
			"Token: %s (%s)\nBalance: %s %s\nContract Address: %s\nVerified: %s\nPrice (USD): %s\n",
			t.Name, t.Symbol, t.Balance, t.Symbol, t.Address, t.Verified.yesNo(), t.PriceUSD,
		))
	}
	return fmt.Sprintf("Tokens held by %s:\n%s", walletAddress, strings.Join(blocks, "\n"))
}

// TokenDetails reports discovery metrics (price, market cap, security score,
// holder and volume deltas) for one token.
func (c *Client) TokenDetails(ctx context.Context, tokenAddress string) string {
	if c.APIKey == "" {
		return errText(subjectDetails, missingKeyCause)
	}

	q := url.Values{}
	q.Set("chain", c.chain())
	q.Set("token_address", tokenAddress)

	body, err := c.get(ctx, "/discovery/token", q)
	if err != nil {
		return errText(subjectDetails, err)
	}

	var d tokenDetails
	if err := json.Unmarshal(body, &d); err != nil {
		return errText(subjectDetails, err)
	}
	if d.empty() {
		return "No details found for the provided token address."
	}

	return fmt.Sprintf(
		"Token Name: %s\nSymbol: %s\nPrice (USD): %s\nMarket Cap: %s\nSecurity Score: %s\nToken Age (days): %s\nOn-Chain Strength Index: %s\n1-Day Holders Change: %s\n1-Day Volume Change (USD): %s\n1-Month Price Change (%%): %s\nLogo: %s\n",
		d.Name, d.Symbol, d.PriceUSD, d.MarketCap, d.SecurityScore, d.AgeInDays, d.StrengthIndex,
		nested(d.HoldersChange, "1d"), nested(d.VolumeChange, "1d"), nested(d.PriceChange, "1M"), d.Logo,
	)
}

// WalletNFTs returns the raw NFT response body verbatim; this operation
// deliberately skips reformatting.
func (c *Client) WalletNFTs(ctx context.Context, walletAddress string) string {
	if c.APIKey == "" {
		return errText(subjectNFTs, missingKeyCause)
	}

	q := url.Values{}
	q.Set("chain", c.chain())
	q.Set("format", "decimal")
	q.Set("media_items", "false")

	body, err := c.get(ctx, "/"+url.PathEscape(walletAddress)+"/nft", q)
	if err != nil {
		return errText(subjectNFTs, err)
	}
	return string(body)
}

// TokenPairs reports the trading pairs of one token, one block per pair.
func (c *Client) TokenPairs(ctx context.Context, tokenAddress string) string {
	if c.APIKey == "" {
		return errText(subjectPairs, missingKeyCause)
	}

	q := url.Values{}
	q.Set("chain", c.chain())

	body, err := c.get(ctx, "/erc20/"+url.PathEscape(tokenAddress)+"/pairs", q)
	if err != nil {
		return errText(subjectPairs, err)
	}

	var out tokenPairsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return errText(subjectPairs, err)
	}
	if len(out.Pairs) == 0 {
		return fmt.Sprintf("No trading pairs found for token %s.", tokenAddress)
	}

	blocks := make([]string, 0, len(out.Pairs))
	for _, p := range out.Pairs {
		base, quote := p.legs()
		blocks = append(blocks, fmt.Sprintf(
			"Pair: %s\nPrice (USD): %s\n24hr Price Change (%%): %s\nLiquidity (USD): %s\nExchange Address: %s\nBase Token: %s (%s)\nQuote Token: %s (%s)\n",
			p.Label, p.PriceUSD, p.PriceChange24, p.LiquidityUSD, p.Exchange,
			base.Name, base.Symbol, quote.Name, quote.Symbol,
		))
	}
	return fmt.Sprintf("Trading pairs for token %s:\n%s", tokenAddress, strings.Join(blocks, "\n"))
}

// TrendingTokens reports the discovery trending feed filtered by security
// score and market-cap floor. Trending always queries the primary chain,
// regardless of the wallet's current network.
func (c *Client) TrendingTokens(ctx context.Context, securityScore, minMarketCap int) string {
	if c.APIKey == "" {
		return errText(subjectTrending, missingKeyCause)
	}

	q := url.Values{}
	q.Set("chain", "base")
	q.Set("security_score", strconv.Itoa(securityScore))
	q.Set("min_market_cap", strconv.Itoa(minMarketCap))

	body, err := c.get(ctx, "/discovery/tokens/trending", q)
	if err != nil {
		return errText(subjectTrending, err)
	}

	var tokens []trendingToken
	if err := json.Unmarshal(body, &tokens); err != nil {
		return errText(subjectTrending, err)
	}
	if len(tokens) == 0 {
		return "No trending tokens found."
	}

	blocks := make([]string, 0, len(tokens))
	for _, t := range tokens {
		blocks = append(blocks, fmt.Sprintf(
			"Token Name: %s (%s)\nPrice (USD): %s\nMarket Cap: %s\nSecurity Score: %s\nLogo: %s\n",
			t.Name, t.Symbol, t.PriceUSD, t.MarketCap, t.SecurityScore, t.Logo,
		))
	}
	return "Trending Tokens:\n" + strings.Join(blocks, "\n")
}

// WalletPnL reports the realized profit-and-loss summary for a wallet.
func (c *Client) WalletPnL(ctx context.Context, walletAddress string) string {
	if c.APIKey == "" {
		return errText(subjectPnL, missingKeyCause)
	}

	q := url.Values{}
	q.Set("chain", c.chain())

	body, err := c.get(ctx, "/wallets/"+url.PathEscape(walletAddress)+"/profitability/summary", q)
	if err != nil {
		return errText(subjectPnL, err)
	}

	var s pnlSummary
	if err := json.Unmarshal(body, &s); err != nil {
		return errText(subjectPnL, err)
	}
	if s.empty() {
		return fmt.Sprintf("No profitability data found for wallet %s.", walletAddress)
	}

	return fmt.Sprintf(
		"Profit and loss for wallet %s:\nTotal Trades: %s\nTotal Trade Volume (USD): %s\nRealized Profit (USD): %s\nRealized Profit (%%): %s\n",
		walletAddress, s.TotalTrades, s.TradeVolume, s.RealizedProfit, s.RealizedPct,
	)
}
