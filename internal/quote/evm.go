package quote

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/aman-zulfiqar/multichain-swap/internal/constants"
	"github.com/aman-zulfiqar/multichain-swap/internal/models"
	"github.com/aman-zulfiqar/multichain-swap/internal/zerox"
	"github.com/sirupsen/logrus"
)

// ZeroXQuoter is the subset of the 0x client used for EVM pricing.
type ZeroXQuoter interface {
	Supports(chainID int64) bool
	Quote(ctx context.Context, req zerox.QuoteRequest) (*zerox.QuoteResponse, error)
}

// EVMStrategy prices through 0x when an endpoint exists for the chain and
// falls back to mock pricing otherwise.
type EVMStrategy struct {
	Client   ZeroXQuoter
	Mock     *MockPricer
	Switches Switches
	Logger   *logrus.Logger
}

func (s *EVMStrategy) Price(ctx context.Context, in PriceInput) (models.Quote, error) {
	chainID, ok := in.Chain.NumericChainID()
	if !ok || s.Client == nil || !s.Client.Supports(chainID) {
		return s.Mock.Quote(in, evmMockLabels)
	}
	if !liveEnabled(ctx, s.Switches, models.FamilyEVM) {
		return s.Mock.Quote(in, evmMockLabels)
	}

	q, err := s.live(ctx, chainID, in)
	if err != nil {
		logger(s.Logger).WithFields(logrus.Fields{
			"chain":  in.Chain.ID,
			"family": models.FamilyEVM,
			"source": "0x",
		}).WithError(err).Warn("live quote failed, using mock pricing")
		return s.Mock.Quote(in, evmMockLabels)
	}
	return q, nil
}

func (s *EVMStrategy) live(ctx context.Context, chainID int64, in PriceInput) (models.Quote, error) {
	res, err := s.Client.Quote(ctx, zerox.QuoteRequest{
		ChainID:      chainID,
		SellToken:    evmTokenAddress(in.Sell),
		BuyToken:     evmTokenAddress(in.Buy),
		SellAmount:   in.Fee.NetAmount,
		SlippageBps:  in.SlippageBps,
		TakerAddress: in.UserAddress,
	})
	if err != nil {
		return models.Quote{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if _, ok := new(big.Int).SetString(res.BuyAmount, 10); !ok {
		return models.Quote{}, fmt.Errorf("%w: non-integer buyAmount %q", ErrUpstreamUnavailable, res.BuyAmount)
	}

	sources := res.ActiveSources()
	route := strings.Join(sources, " -> ")
	if route == "" {
		route = "Direct"
	}

	return models.Quote{
		ChainID:         in.Chain.ID,
		SellToken:       in.Sell,
		BuyToken:        in.Buy,
		SellAmount:      in.SellAmount,
		BuyAmount:       res.BuyAmount,
		Price:           orDefault(res.Price, "0"),
		PriceImpact:     orDefault(res.EstimatedPriceImpact, "0"),
		Fee:             in.Fee,
		EstimatedGas:    orDefault(res.EstimatedGas, orDefault(res.Gas, evmMockLabels.EstimatedGas)),
		Route:           route,
		Sources:         sources,
		AllowanceTarget: res.AllowanceTarget,
		To:              res.To,
		Data:            res.Data,
		Value:           res.Value,
	}, nil
}

// evmTokenAddress substitutes the native sentinel for gas-asset legs.
func evmTokenAddress(a models.Asset) string {
	if a.IsNative {
		return constants.NativeTokenSentinel
	}
	return a.Address
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func logger(l *logrus.Logger) *logrus.Logger {
	if l == nil {
		return logrus.StandardLogger()
	}
	return l
}
