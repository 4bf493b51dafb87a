package quote

import (
	"context"

	"github.com/aman-zulfiqar/multichain-swap/internal/models"
)

// Request is a quote request as received from callers.
type Request struct {
	ChainID     string `json:"chainId"`
	SellToken   string `json:"sellToken"`
	BuyToken    string `json:"buyToken"`
	SellAmount  string `json:"sellAmount"` // base units
	SlippageBps *int   `json:"slippageBps,omitempty"`
	UserAddress string `json:"userAddress,omitempty"`
}

// PriceInput is everything a Strategy needs to price one request. Fee holds
// the split of the gross sell amount; only Fee.NetAmount may be priced.
type PriceInput struct {
	Chain       models.Chain
	Sell        models.Asset
	Buy         models.Asset
	SellAmount  string
	Fee         models.FeeCalculation
	SlippageBps int
	UserAddress string
}

// Strategy prices a request for one chain family. Implementations recover
// from upstream failures themselves; a returned error is a hard failure.
type Strategy interface {
	Price(ctx context.Context, in PriceInput) (models.Quote, error)
}

type ChainDirectory interface {
	Get(id string) (models.Chain, bool)
}

type AssetDirectory interface {
	Find(chainID, address string) (models.Asset, bool)
	DiscoverOnChain(ctx context.Context, chain models.Chain, address string) (models.Asset, bool)
}

type FeeEngine interface {
	Compute(inputAmount string, decimals int, family models.Family) (models.FeeCalculation, error)
}

// Switches gates live pricing per family. Missing keys use def.
type Switches interface {
	Enabled(ctx context.Context, key string, def bool) bool
}

// LiveSwitchKey is the switch consulted before calling a family's live aggregator.
func LiveSwitchKey(f models.Family) string {
	return "pricing." + string(f) + ".live"
}

func liveEnabled(ctx context.Context, s Switches, f models.Family) bool {
	if s == nil {
		return true
	}
	return s.Enabled(ctx, LiveSwitchKey(f), true)
}
