// ============================================================================
// models/swap.go
// ============================================================================
package models

// SwapStatus is the lifecycle state of a recorded swap.
type SwapStatus string

const (
	SwapPending SwapStatus = "pending"
	SwapSuccess SwapStatus = "success"
	SwapFailed  SwapStatus = "failed"
)

func (s SwapStatus) Valid() bool {
	return s == SwapPending || s == SwapSuccess || s == SwapFailed
}

// TokenLeg is the snapshot of one side of a swap at record time.
type TokenLeg struct {
	Address         string `json:"address"`
	Symbol          string `json:"symbol"`
	Amount          string `json:"amount"` // raw integer, base units
	AmountFormatted string `json:"amountFormatted"`
}

// SwapRecord is one ledger entry. Status and TxHash are the only fields
// mutated after creation.
type SwapRecord struct {
	ID            string     `json:"id"`
	WalletAddress string     `json:"walletAddress"`
	ChainID       string     `json:"chainId"`
	Timestamp     int64      `json:"timestamp"` // unix millis
	FromToken     TokenLeg   `json:"fromToken"`
	ToToken       TokenLeg   `json:"toToken"`
	FeeAmount     string     `json:"feeAmount"`
	FeeFormatted  string     `json:"feeFormatted"`
	TxHash        string     `json:"txHash,omitempty"`
	Status        SwapStatus `json:"status"`
}
