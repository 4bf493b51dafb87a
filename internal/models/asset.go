package models

// Asset is a token known to the service on a single chain.
type Asset struct {
	Address   string `json:"address"`
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	Decimals  int    `json:"decimals"`
	ChainID   string `json:"chainId"`
	LogoURL   string `json:"logoUrl"`
	IsNative  bool   `json:"isNative,omitempty"`
	UserAdded bool   `json:"isUserAdded,omitempty"`
}
