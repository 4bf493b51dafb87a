package server

import (
	"time"

	"github.com/aman-zulfiqar/multichain-swap/internal/ledger"
	"github.com/aman-zulfiqar/multichain-swap/internal/models"
)

// Envelope is the uniform response body
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Details any    `json:"details,omitempty"` // dev mode only
}

// HealthResponse represents the health check payload
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

// ValidateTokenRequest asks whether address is a usable token on chainId
type ValidateTokenRequest struct {
	ChainID string `json:"chainId"`
	Address string `json:"address"`
}

// CalculateFeeRequest previews the fee split for an amount
type CalculateFeeRequest struct {
	Amount    string        `json:"amount"`   // base units
	Decimals  *int          `json:"decimals"` // required, may be 0
	ChainType models.Family `json:"chainType"`
}

// RecordSwapRequest is the body of POST /api/swap/record. Token legs are
// pointers so a missing leg can be told apart from an empty one.
type RecordSwapRequest struct {
	WalletAddress string            `json:"walletAddress"`
	ChainID       string            `json:"chainId"`
	FromToken     *models.TokenLeg  `json:"fromToken"`
	ToToken       *models.TokenLeg  `json:"toToken"`
	FeeAmount     string            `json:"feeAmount"`
	FeeFormatted  string            `json:"feeFormatted"`
	TxHash        string            `json:"txHash"`
	Status        models.SwapStatus `json:"status"`
}

func (r RecordSwapRequest) toRecord() ledger.NewRecord {
	return ledger.NewRecord{
		WalletAddress: r.WalletAddress,
		ChainID:       r.ChainID,
		FromToken:     *r.FromToken,
		ToToken:       *r.ToToken,
		FeeAmount:     r.FeeAmount,
		FeeFormatted:  r.FeeFormatted,
		TxHash:        r.TxHash,
		Status:        r.Status,
	}
}

// UpdateStatusRequest is the body of PATCH /api/swap/record/:id/status
type UpdateStatusRequest struct {
	WalletAddress string            `json:"walletAddress"`
	Status        models.SwapStatus `json:"status"`
	TxHash        string            `json:"txHash,omitempty"`
}

// UpdateStatusResponse reports whether the record was found
type UpdateStatusResponse struct {
	Updated bool `json:"updated"`
}

// FlagUpsertRequest represents a request to create or update a flag
type FlagUpsertRequest struct {
	Key   string `json:"key"`
	Value bool   `json:"value"`
}

// FlagUpdateRequest represents a request to update an existing flag
type FlagUpdateRequest struct {
	Value bool `json:"value"`
}

// AIAskRequest represents a natural language question about recorded swaps
type AIAskRequest struct {
	Question string `json:"question"`
}

// AIAskResponse represents the response from an AI query
type AIAskResponse struct {
	SQL    string `json:"sql"`
	Answer string `json:"answer"`
	Rows   int    `json:"rows"`
	TookMs int64  `json:"tookMs"`
}
