package quote

import (
	"context"
	"errors"
	"strings"

	"github.com/aman-zulfiqar/multichain-swap/internal/constants"
	"github.com/aman-zulfiqar/multichain-swap/internal/fees"
	"github.com/aman-zulfiqar/multichain-swap/internal/models"
	"github.com/sirupsen/logrus"
)

// Deps are the collaborators of an Aggregator.
type Deps struct {
	Chains     ChainDirectory
	Assets     AssetDirectory
	Fees       FeeEngine
	Strategies map[models.Family]Strategy
	Logger     *logrus.Logger
}

// Aggregator resolves a quote request and dispatches it to the pricing
// strategy of the chain's family. Quotes are never cached or retried.
type Aggregator struct {
	chains     ChainDirectory
	assets     AssetDirectory
	fees       FeeEngine
	strategies map[models.Family]Strategy
	logger     *logrus.Logger
}

func NewAggregator(d Deps) *Aggregator {
	if d.Logger == nil {
		d.Logger = logrus.New()
	}
	strategies := make(map[models.Family]Strategy, len(d.Strategies))
	for f, s := range d.Strategies {
		strategies[f] = s
	}
	return &Aggregator{
		chains:     d.Chains,
		assets:     d.Assets,
		fees:       d.Fees,
		strategies: strategies,
		logger:     d.Logger,
	}
}

// DefaultStrategies wires one strategy per family. A nil zx or jup (untyped
// nil) makes that family always use mock pricing.
func DefaultStrategies(zx ZeroXQuoter, jup JupiterQuoter, sw Switches, logger *logrus.Logger) map[models.Family]Strategy {
	mock := NewMockPricer()
	return map[models.Family]Strategy{
		models.FamilyEVM:    &EVMStrategy{Client: zx, Mock: mock, Switches: sw, Logger: logger},
		models.FamilySolana: &SolanaStrategy{Client: jup, Mock: mock, Switches: sw, Logger: logger},
		models.FamilySui:    &SuiStrategy{Mock: mock},
	}
}

// GetQuote prices req. Resolution and input failures return *Error; upstream
// failures never surface.
func (a *Aggregator) GetQuote(ctx context.Context, req Request) (models.Quote, error) {
	chain, ok := a.chains.Get(req.ChainID)
	if !ok {
		return models.Quote{}, newError(ErrUnsupportedChain, "Unsupported chain: %s", req.ChainID)
	}

	sell, sellOK := a.assets.Find(chain.ID, strings.TrimSpace(req.SellToken))
	buy, buyOK := a.assets.Find(chain.ID, strings.TrimSpace(req.BuyToken))
	if !sellOK || !buyOK {
		return models.Quote{}, newError(ErrTokenNotFound, "Token not found")
	}

	slippage := constants.DefaultSlippageBps
	if req.SlippageBps != nil {
		slippage = *req.SlippageBps
	}
	if slippage < 0 || slippage > 10000 {
		return models.Quote{}, newError(ErrValidationFailed, "slippageBps must be between 0 and 10000")
	}

	fc, err := a.fees.Compute(req.SellAmount, sell.Decimals, chain.Family)
	if err != nil {
		if errors.Is(err, fees.ErrMalformedAmount) {
			return models.Quote{}, newError(ErrMalformedAmount, "Invalid sellAmount: %q", req.SellAmount)
		}
		return models.Quote{}, err
	}

	strategy, ok := a.strategies[chain.Family]
	if !ok {
		return models.Quote{}, newError(ErrUnsupportedChainFamily, "Unsupported chain type: %s", chain.Family)
	}

	q, err := strategy.Price(ctx, PriceInput{
		Chain:       chain,
		Sell:        sell,
		Buy:         buy,
		SellAmount:  fc.InputAmount,
		Fee:         fc,
		SlippageBps: slippage,
		UserAddress: strings.TrimSpace(req.UserAddress),
	})
	if err != nil {
		return models.Quote{}, err
	}

	a.logger.WithFields(logrus.Fields{
		"chain":      chain.ID,
		"sell":       sell.Symbol,
		"buy":        buy.Symbol,
		"sellAmount": fc.InputAmount,
		"buyAmount":  q.BuyAmount,
		"route":      q.Route,
	}).Debug("quote priced")

	return q, nil
}

// ValidateToken returns the known asset for address, or for EVM chains the
// result of on-chain discovery. The bool reports presence.
func (a *Aggregator) ValidateToken(ctx context.Context, chainID, address string) (models.Asset, bool, error) {
	chain, ok := a.chains.Get(chainID)
	if !ok {
		return models.Asset{}, false, newError(ErrUnsupportedChain, "Unsupported chain: %s", chainID)
	}

	address = strings.TrimSpace(address)
	if asset, ok := a.assets.Find(chain.ID, address); ok {
		return asset, true, nil
	}
	if chain.Family != models.FamilyEVM {
		return models.Asset{}, false, nil
	}

	asset, ok := a.assets.DiscoverOnChain(ctx, chain, address)
	return asset, ok, nil
}
