package models

// Family is the account-model classification of a chain. It decides which
// pricing strategy and which fee wallet apply.
type Family string

const (
	FamilyEVM    Family = "evm"
	FamilySolana Family = "solana"
	FamilySui    Family = "sui"
)

// Valid reports whether f is one of the known families.
func (f Family) Valid() bool {
	switch f {
	case FamilyEVM, FamilySolana, FamilySui:
		return true
	}
	return false
}

// NativeAsset describes the gas asset embedded in a chain definition.
type NativeAsset struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
	Address  string `json:"address"`
	LogoURL  string `json:"logoUrl"`
}

// Chain is an immutable supported-chain definition.
//
// ChainID holds either a numeric EVM chain id (int64) or a symbolic network
// name such as "solana-mainnet".
type Chain struct {
	ID          string      `json:"id"`
	ChainID     any         `json:"chainId"`
	Name        string      `json:"name"`
	Symbol      string      `json:"symbol"`
	Decimals    int         `json:"decimals"`
	RPCURL      string      `json:"rpcUrl"`
	ExplorerURL string      `json:"explorerUrl"`
	LogoURL     string      `json:"logoUrl"`
	Family      Family      `json:"type"`
	IsTestnet   bool        `json:"isTestnet"`
	NativeToken NativeAsset `json:"nativeToken"`
}

// NumericChainID returns the EVM chain id when the chain has one.
func (c Chain) NumericChainID() (int64, bool) {
	switch v := c.ChainID.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	}
	return 0, false
}
