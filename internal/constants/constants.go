package constants

import "time"

// Protocol fee
const (
	// FeePercent is the platform fee fraction applied to every sell amount (8 bps).
	FeePercent = 0.0008
	// FeeScale is the fixed-point denominator used when applying FeePercent.
	FeeScale = 1_000_000
)

// Fee collection wallets per chain family. Every EVM chain shares one wallet.
const (
	FeeWalletEVM    = "0xBB9aFDf086B0d33421086b1D464DaEA1CB197D7E"
	FeeWalletSolana = "HeNZH4vEc2htjYSPU9drniGkjbm9h1LotSKkVnb3VWed"
	FeeWalletSui    = "0xb493de737f46082a2020ab1f6f06dbb07be074b67b6fb152a4eb169cbbba01ac"
)

// NativeTokenSentinel is the pseudo-address used for native gas assets on EVM chains.
const NativeTokenSentinel = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"

// Quote defaults
const (
	DefaultSlippageBps  = 50
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// Default RPC endpoints by internal chain id
var RPCURLs = map[string]string{
	"ethereum": "https://eth.llamarpc.com",
	"arbitrum": "https://arb1.arbitrum.io/rpc",
	"optimism": "https://mainnet.optimism.io",
	"base":     "https://mainnet.base.org",
	"linea":    "https://rpc.linea.build",
	"solana":   "https://api.mainnet-beta.solana.com",
	"sui":      "https://fullnode.mainnet.sui.io",
}

// 0x swap API base URLs keyed by numeric EVM chain id
var ZeroXAPIURLs = map[int64]string{
	1:     "https://api.0x.org",
	42161: "https://arbitrum.api.0x.org",
	10:    "https://optimism.api.0x.org",
	8453:  "https://base.api.0x.org",
	59144: "https://linea.api.0x.org",
}

// JupiterAPIURL is the default Jupiter quote endpoint.
const JupiterAPIURL = "https://quote-api.jup.ag/v6"

// Redis keys
const (
	RedisKeyLedgerSnapshot = "ledger:snapshot"
)

// Redis Pub/Sub channels
const (
	PubSubChannelSwaps        = "swaps:recorded"
	PubSubChannelChainPrefix  = "swaps:chain:"
	PubSubChannelWalletPrefix = "swaps:wallet:"
)

// Upstream timeouts
const (
	UpstreamTimeout = 12 * time.Second
	RPCCallTimeout  = 8 * time.Second
)
