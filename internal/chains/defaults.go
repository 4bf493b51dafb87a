package chains

import (
	"github.com/aman-zulfiqar/multichain-swap/internal/constants"
	"github.com/aman-zulfiqar/multichain-swap/internal/models"
)

const logoBase = "https://raw.githubusercontent.com/trustwallet/assets/master/blockchains/"

func ethNative() models.NativeAsset {
	return models.NativeAsset{
		Symbol:   "ETH",
		Name:     "Ethereum",
		Decimals: 18,
		Address:  constants.NativeTokenSentinel,
		LogoURL:  logoBase + "ethereum/info/logo.png",
	}
}

func evmChain(id string, chainID int64, name, explorer string) models.Chain {
	return models.Chain{
		ID:          id,
		ChainID:     chainID,
		Name:        name,
		Symbol:      "ETH",
		Decimals:    18,
		RPCURL:      constants.RPCURLs[id],
		ExplorerURL: explorer,
		LogoURL:     logoBase + id + "/info/logo.png",
		Family:      models.FamilyEVM,
		NativeToken: ethNative(),
	}
}

// DefaultChains is the fixed table of supported chains.
func DefaultChains() []models.Chain {
	return []models.Chain{
		evmChain("ethereum", 1, "Ethereum", "https://etherscan.io"),
		evmChain("arbitrum", 42161, "Arbitrum One", "https://arbiscan.io"),
		evmChain("optimism", 10, "Optimism", "https://optimistic.etherscan.io"),
		evmChain("base", 8453, "Base", "https://basescan.org"),
		evmChain("linea", 59144, "Linea", "https://lineascan.build"),
		{
			ID:          "solana",
			ChainID:     "solana-mainnet",
			Name:        "Solana",
			Symbol:      "SOL",
			Decimals:    9,
			RPCURL:      constants.RPCURLs["solana"],
			ExplorerURL: "https://solscan.io",
			LogoURL:     logoBase + "solana/info/logo.png",
			Family:      models.FamilySolana,
			NativeToken: models.NativeAsset{
				Symbol:   "SOL",
				Name:     "Solana",
				Decimals: 9,
				Address:  "So11111111111111111111111111111111111111112",
				LogoURL:  logoBase + "solana/info/logo.png",
			},
		},
		{
			ID:          "sui",
			ChainID:     "sui-mainnet",
			Name:        "Sui",
			Symbol:      "SUI",
			Decimals:    9,
			RPCURL:      constants.RPCURLs["sui"],
			ExplorerURL: "https://suiscan.xyz",
			LogoURL:     logoBase + "sui/info/logo.png",
			Family:      models.FamilySui,
			NativeToken: models.NativeAsset{
				Symbol:   "SUI",
				Name:     "Sui",
				Decimals: 9,
				Address:  "0x2::sui::SUI",
				LogoURL:  logoBase + "sui/info/logo.png",
			},
		},
	}
}

// Default returns a directory seeded with DefaultChains.
func Default(opts ...Option) *Directory {
	return NewDirectory(DefaultChains(), opts...)
}
