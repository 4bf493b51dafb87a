package models

// FeeCalculation is the protocol fee split for one input amount.
// FeeAmount + NetAmount always equals InputAmount.
type FeeCalculation struct {
	InputAmount string  `json:"inputAmount"`
	FeeAmount   string  `json:"feeAmount"`
	FeePercent  float64 `json:"feePercent"`
	NetAmount   string  `json:"netAmount"`
	FeeWallet   string  `json:"feeWallet"`
	ChainType   Family  `json:"chainType"`
}

// Quote is the normalized pricing response, produced fresh per request.
//
// A non-empty Error on an otherwise complete quote means "priced but not
// executable"; it is not a failure.
type Quote struct {
	ChainID     string         `json:"chainId"`
	SellToken   Asset          `json:"sellToken"`
	BuyToken    Asset          `json:"buyToken"`
	SellAmount  string         `json:"sellAmount"`
	BuyAmount   string         `json:"buyAmount"`
	Price       string         `json:"price"`
	PriceImpact string         `json:"priceImpact"`
	Fee         FeeCalculation `json:"fee"`

	EstimatedGas string   `json:"estimatedGas,omitempty"`
	Route        string   `json:"route"`
	Sources      []string `json:"sources"`

	// Execution fields, only set by live EVM aggregators.
	AllowanceTarget string `json:"allowanceTarget,omitempty"`
	To              string `json:"to,omitempty"`
	Data            string `json:"data,omitempty"`
	Value           string `json:"value,omitempty"`

	Error string `json:"error,omitempty"`
}
