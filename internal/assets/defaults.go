package assets

import (
	"github.com/aman-zulfiqar/multichain-swap/internal/constants"
	"github.com/aman-zulfiqar/multichain-swap/internal/models"
)

const (
	twLogos    = "https://raw.githubusercontent.com/trustwallet/assets/master/blockchains/"
	ethLogo    = twLogos + "ethereum/info/logo.png"
	usdcLogo   = twLogos + "ethereum/assets/0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48/logo.png"
	usdtLogo   = twLogos + "ethereum/assets/0xdAC17F958D2ee523a2206206994597C13D831ec7/logo.png"
	wethLogo   = twLogos + "ethereum/assets/0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2/logo.png"
	solanaLogo = twLogos + "solana/info/logo.png"
	suiLogo    = twLogos + "sui/info/logo.png"
)

func nativeETH(chainID string) models.Asset {
	return models.Asset{
		Address:  constants.NativeTokenSentinel,
		Symbol:   "ETH",
		Name:     "Ethereum",
		Decimals: 18,
		ChainID:  chainID,
		LogoURL:  ethLogo,
		IsNative: true,
	}
}

func token(chainID, address, symbol, name string, decimals int, logo string) models.Asset {
	return models.Asset{
		Address:  address,
		Symbol:   symbol,
		Name:     name,
		Decimals: decimals,
		ChainID:  chainID,
		LogoURL:  logo,
	}
}

// DefaultSeed is the built-in token catalog.
func DefaultSeed() map[string][]models.Asset {
	return map[string][]models.Asset{
		"ethereum": {
			nativeETH("ethereum"),
			token("ethereum", "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", "USDC", "USD Coin", 6, usdcLogo),
			token("ethereum", "0xdAC17F958D2ee523a2206206994597C13D831ec7", "USDT", "Tether USD", 6, usdtLogo),
			token("ethereum", "0x6B175474E89094C44Da98b954EedeAC495271d0F", "DAI", "Dai Stablecoin", 18,
				twLogos+"ethereum/assets/0x6B175474E89094C44Da98b954EedeAC495271d0F/logo.png"),
			token("ethereum", "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599", "WBTC", "Wrapped BTC", 8,
				twLogos+"ethereum/assets/0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599/logo.png"),
			token("ethereum", "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", "WETH", "Wrapped Ether", 18, wethLogo),
		},
		"arbitrum": {
			nativeETH("arbitrum"),
			token("arbitrum", "0xaf88d065e77c8cC2239327C5EDb3A432268e5831", "USDC", "USD Coin", 6, usdcLogo),
			token("arbitrum", "0xFd086bC7CD5C481DCC9C85ebE478A1C0b69FCbb9", "USDT", "Tether USD", 6, usdtLogo),
			token("arbitrum", "0x912CE59144191C1204E64559FE8253a0e49E6548", "ARB", "Arbitrum", 18, twLogos+"arbitrum/info/logo.png"),
			token("arbitrum", "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1", "WETH", "Wrapped Ether", 18, wethLogo),
		},
		"optimism": {
			nativeETH("optimism"),
			token("optimism", "0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85", "USDC", "USD Coin", 6, usdcLogo),
			token("optimism", "0x94b008aA00579c1307B0EF2c499aD98a8ce58e58", "USDT", "Tether USD", 6, usdtLogo),
			token("optimism", "0x4200000000000000000000000000000000000042", "OP", "Optimism", 18, twLogos+"optimism/info/logo.png"),
			token("optimism", "0x4200000000000000000000000000000000000006", "WETH", "Wrapped Ether", 18, wethLogo),
		},
		"base": {
			nativeETH("base"),
			token("base", "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", "USDC", "USD Coin", 6, usdcLogo),
			token("base", "0x4200000000000000000000000000000000000006", "WETH", "Wrapped Ether", 18, wethLogo),
		},
		"linea": {
			nativeETH("linea"),
			token("linea", "0x176211869cA2b568f2A7D4EE941E073a821EE1ff", "USDC", "USD Coin", 6, usdcLogo),
			token("linea", "0xe5D7C2a44FfDDf6b295A15c148167daaAf5Cf34f", "WETH", "Wrapped Ether", 18, wethLogo),
		},
		"solana": {
			{
				Address:  "So11111111111111111111111111111111111111112",
				Symbol:   "SOL",
				Name:     "Solana",
				Decimals: 9,
				ChainID:  "solana",
				LogoURL:  solanaLogo,
				IsNative: true,
			},
			token("solana", "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", "USDC", "USD Coin", 6, usdcLogo),
			token("solana", "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB", "USDT", "Tether USD", 6, usdtLogo),
			token("solana", "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN", "JUP", "Jupiter", 6, "https://static.jup.ag/jup/icon.png"),
		},
		"sui": {
			{
				Address:  "0x2::sui::SUI",
				Symbol:   "SUI",
				Name:     "Sui",
				Decimals: 9,
				ChainID:  "sui",
				LogoURL:  suiLogo,
				IsNative: true,
			},
			token("sui", "0x5d4b302506645c37ff133b98c4b50a5ae14841659738d6d733d59d0d217a93bf::coin::COIN", "USDC", "USD Coin", 6, usdcLogo),
		},
	}
}
