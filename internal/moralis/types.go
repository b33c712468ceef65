package moralis

import (
	"encoding/json"
	"strings"
)

// scalar holds any JSON scalar and renders it exactly as upstream sent it.
// Absent and null fields render as "N/A" so report shape stays stable for
// the decision loop.
type scalar struct {
	raw string
	set bool
}

func (s *scalar) UnmarshalJSON(b []byte) error {
	t := strings.TrimSpace(string(b))
	if t == "null" {
		return nil
	}
	if strings.HasPrefix(t, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		s.raw = v
	} else {
		s.raw = t
	}
	s.set = true
	return nil
}

func (s scalar) String() string {
	if !s.set || s.raw == "" {
		return "N/A"
	}
	return s.raw
}

func (s scalar) yesNo() string {
	if s.set && s.raw == "true" {
		return "Yes"
	}
	return "No"
}

// nested reads one key out of a nested object, degrading to "N/A" when the
// object or the key is missing.
func nested(m map[string]scalar, key string) string {
	if v, ok := m[key]; ok {
		return v.String()
	}
	return "N/A"
}

type tokenMetadata struct {
	Name        scalar `json:"name"`
	Symbol      scalar `json:"symbol"`
	Decimals    scalar `json:"decimals"`
	TotalSupply scalar `json:"total_supply_formatted"`
	Address     scalar `json:"address"`
	Verified    scalar `json:"verified_contract"`
	Logo        scalar `json:"logo"`
}

type walletTokensResponse struct {
	Result []walletToken `json:"result"`
}

type walletToken struct {
	Name     scalar `json:"name"`
	Symbol   scalar `json:"symbol"`
	Balance  scalar `json:"balance_formatted"`
	Address  scalar `json:"token_address"`
	Verified scalar `json:"verified_contract"`
	PriceUSD scalar `json:"usd_price"`
}

type tokenDetails struct {
	Name          scalar            `json:"token_name"`
	Symbol        scalar            `json:"token_symbol"`
	PriceUSD      scalar            `json:"price_usd"`
	MarketCap     scalar            `json:"market_cap"`
	SecurityScore scalar            `json:"security_score"`
	AgeInDays     scalar            `json:"token_age_in_days"`
	StrengthIndex scalar            `json:"on_chain_strength_index"`
	HoldersChange map[string]scalar `json:"holders_change"`
	VolumeChange  map[string]scalar `json:"volume_change_usd"`
	PriceChange   map[string]scalar `json:"price_percent_change_usd"`
	Logo          scalar            `json:"token_logo"`
}

func (d tokenDetails) empty() bool {
	return !d.Name.set && !d.Symbol.set && !d.PriceUSD.set && !d.MarketCap.set
}

type tokenPairsResponse struct {
	Pairs []tokenPair `json:"pairs"`
}

type tokenPair struct {
	Label         scalar      `json:"pair_label"`
	PriceUSD      scalar      `json:"usd_price"`
	PriceChange24 scalar      `json:"usd_price_24hr_percent_change"`
	LiquidityUSD  scalar      `json:"liquidity_usd"`
	Exchange      scalar      `json:"exchange_address"`
	Tokens        []pairToken `json:"pair"`
}

// legs returns the base and quote sides of the pair; a short or missing
// token list yields zero values that render as "N/A".
func (p tokenPair) legs() (pairToken, pairToken) {
	var base, quote pairToken
	if len(p.Tokens) > 0 {
		base = p.Tokens[0]
	}
	if len(p.Tokens) > 1 {
		quote = p.Tokens[1]
	}
	return base, quote
}

type pairToken struct {
	Name   scalar `json:"token_name"`
	Symbol scalar `json:"token_symbol"`
}

type trendingToken struct {
	Name          scalar `json:"token_name"`
	Symbol        scalar `json:"token_symbol"`
	PriceUSD      scalar `json:"price_usd"`
	MarketCap     scalar `json:"market_cap"`
	SecurityScore scalar `json:"security_score"`
	Logo          scalar `json:"token_logo"`
}

type pnlSummary struct {
	TotalTrades    scalar `json:"total_count_of_trades"`
	TradeVolume    scalar `json:"total_trade_volume"`
	RealizedProfit scalar `json:"total_realized_profit_usd"`
	RealizedPct    scalar `json:"total_realized_profit_percentage"`
}

func (s pnlSummary) empty() bool {
	return !s.TotalTrades.set && !s.TradeVolume.set && !s.RealizedProfit.set
}
