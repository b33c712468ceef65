// Package catalog defines the agent's tool set and registers it into a
// toolkit.Registry. Descriptions are written for the decision loop; they are
// the only documentation the LLM sees.
package catalog

import (
	"context"
	"fmt"

	"github.com/junaid-mahmood/base-agent/internal/moralis"
	"github.com/junaid-mahmood/base-agent/internal/toolkit"
	"github.com/junaid-mahmood/base-agent/internal/wallet"
)

const deployMultiTokenPrompt = `This tool deploys a new multi-token contract with a specified base URI for token metadata.
The base URI should be a template URL containing {id} which will be replaced with the token ID.
For example: 'https://example.com/metadata/{id}.json'`

const tokenMetadataPrompt = `Fetch metadata for an ERC-20 token using the Moralis API.
Provides comprehensive information about a specific token,
including name, symbol, decimals, total supply, and verification status.`

const tokenPairsPrompt = `Retrieve trading pairs for a specific ERC-20 token on the Base blockchain.
Returns detailed information about token trading pairs, including liquidity,
price, and exchange details.`

const walletTokensPrompt = `Fetch the list of ERC-20 tokens held by a wallet using the Moralis API.
This action retrieves token balances, contract details, and optional USD price information.`

const tokenDetailsPrompt = `This tool fetches detailed information about an ERC-20 token on the Base blockchain,
including key metrics like token name, symbol, price, market cap, security score,
and historical performance indicators using the Moralis API.`

const walletNFTsPrompt = `Fetch the raw response of NFTs held by a wallet on the Base blockchain.
This action retrieves NFT information using the Moralis API, automatically
determining the correct network (mainnet or testnet) based on the wallet's network ID.`

const trendingTokensPrompt = `Discover trending tokens on the Base blockchain with optional
filtering by security score and market capitalization.
Provides comprehensive information about top-performing tokens using the Moralis API.`

const walletDetailsPrompt = `Report the agent's own wallet address and network id. Use this to find out
which address the agent controls before checking balances or deploying.`

const walletPnLPrompt = `Calculate and retrieve Profit and Loss (PnL) information for a wallet's assets.
Provides detailed insights into token investments, realized profits, and average buy prices.`

// Register binds the full tool catalog: the market-data queries, the wallet
// details report, and the multi-token deployment action.
func Register(reg *toolkit.Registry, market *moralis.Client, w *wallet.Wallet, deployer *wallet.Deployer) error {
	defs := []toolkit.Definition{
		{
			Name:        "deploy_multi_token",
			Description: deployMultiTokenPrompt,
			Schema: toolkit.Schema{Fields: []toolkit.Field{{
				Name:        "base_uri",
				Type:        toolkit.FieldString,
				Description: "The base URI template for token metadata. Must contain {id} placeholder.",
				Example:     "https://example.com/metadata/{id}.json",
				Required:    true,
				Contains:    "{id}",
			}}},
			Inputs: []string{"base_uri"},
			Handler: func(ctx context.Context, args toolkit.Args) (string, error) {
				addr, err := deployer.DeployMultiToken(ctx, args.String("base_uri"))
				if err != nil {
					return fmt.Sprintf("Error deploying multi-token contract: %v", err), nil
				}
				return fmt.Sprintf("Successfully deployed multi-token contract at address:%s", addr), nil
			},
		},
		{
			Name:        "get_token_metadata",
			Description: tokenMetadataPrompt,
			Schema: toolkit.Schema{Fields: []toolkit.Field{{
				Name:        "token_address",
				Type:        toolkit.FieldString,
				Description: "Contract address of the ERC-20 token",
				Example:     "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
				Required:    true,
			}}},
			Inputs: []string{"token_address"},
			Handler: func(ctx context.Context, args toolkit.Args) (string, error) {
				return market.TokenMetadata(ctx, args.String("token_address")), nil
			},
		},
		{
			Name:        "get_token_pairs",
			Description: tokenPairsPrompt,
			Schema: toolkit.Schema{Fields: []toolkit.Field{{
				Name:        "token_address",
				Type:        toolkit.FieldString,
				Description: "Contract address of the ERC-20 token to find trading pairs",
				Example:     "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
				Required:    true,
			}}},
			Inputs: []string{"token_address"},
			Handler: func(ctx context.Context, args toolkit.Args) (string, error) {
				return market.TokenPairs(ctx, args.String("token_address")), nil
			},
		},
		{
			Name:        "get_wallet_tokens",
			Description: walletTokensPrompt,
			Schema: toolkit.Schema{Fields: []toolkit.Field{{
				Name:        "wallet_address",
				Type:        toolkit.FieldString,
				Description: "Wallet address",
				Example:     "0x0dc74cabcfb00ab5fdeef60088685a71fef97003",
				Required:    true,
			}}},
			Inputs: []string{"wallet_address"},
			Handler: func(ctx context.Context, args toolkit.Args) (string, error) {
				return market.WalletTokens(ctx, args.String("wallet_address")), nil
			},
		},
		{
			Name:        "get_token_details",
			Description: tokenDetailsPrompt,
			Schema: toolkit.Schema{Fields: []toolkit.Field{{
				Name:        "token_address",
				Type:        toolkit.FieldString,
				Description: "The contract address of the ERC-20 token to retrieve details for",
				Example:     "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
				Required:    true,
			}}},
			Inputs: []string{"token_address"},
			Handler: func(ctx context.Context, args toolkit.Args) (string, error) {
				return market.TokenDetails(ctx, args.String("token_address")), nil
			},
		},
		{
			Name:        "get_wallet_nfts",
			Description: walletNFTsPrompt,
			Schema: toolkit.Schema{Fields: []toolkit.Field{{
				Name:        "wallet_address",
				Type:        toolkit.FieldString,
				Description: "The wallet address to retrieve NFTs for",
				Example:     "0x742d35Cc6634C0532925a3b844Bc454e4438f44e",
				Required:    true,
			}}},
			Inputs: []string{"wallet_address"},
			Handler: func(ctx context.Context, args toolkit.Args) (string, error) {
				return market.WalletNFTs(ctx, args.String("wallet_address")), nil
			},
		},
		{
			Name:        "get_trending_tokens",
			Description: trendingTokensPrompt,
			Schema: toolkit.Schema{Fields: []toolkit.Field{
				{
					Name:        "security_score",
					Type:        toolkit.FieldInt,
					Description: "Minimum security score for tokens",
					Default:     toolkit.IntPtr(80),
					Min:         toolkit.IntPtr(0),
					Max:         toolkit.IntPtr(100),
				},
				{
					Name:        "min_market_cap",
					Type:        toolkit.FieldInt,
					Description: "Minimum market cap for tokens",
					Default:     toolkit.IntPtr(100000),
					Min:         toolkit.IntPtr(0),
				},
			}},
			Inputs: []string{"security_score", "min_market_cap"},
			Handler: func(ctx context.Context, args toolkit.Args) (string, error) {
				return market.TrendingTokens(ctx, args.Int("security_score"), args.Int("min_market_cap")), nil
			},
		},
		{
			Name:        "get_wallet_details",
			Description: walletDetailsPrompt,
			Schema:      toolkit.Schema{},
			Handler: func(ctx context.Context, args toolkit.Args) (string, error) {
				return w.Details(), nil
			},
		},
		{
			Name:        "get_wallet_pnl",
			Description: walletPnLPrompt,
			Schema: toolkit.Schema{Fields: []toolkit.Field{{
				Name:        "wallet_address",
				Type:        toolkit.FieldString,
				Description: "The wallet address to calculate PnL for",
				Example:     "0x742d35Cc6634C0532925a3b844Bc454e4438f44e",
				Required:    true,
			}}},
			Inputs: []string{"wallet_address"},
			Handler: func(ctx context.Context, args toolkit.Args) (string, error) {
				return market.WalletPnL(ctx, args.String("wallet_address")), nil
			},
		},
	}

	for _, def := range defs {
		if err := reg.Register(def); err != nil {
			return fmt.Errorf("register %s: %w", def.Name, err)
		}
	}
	return nil
}
