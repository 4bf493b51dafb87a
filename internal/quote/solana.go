package quote

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/aman-zulfiqar/multichain-swap/internal/jupiter"
	"github.com/aman-zulfiqar/multichain-swap/internal/models"
	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
)

// JupiterQuoter is the subset of the Jupiter client used for Solana pricing.
type JupiterQuoter interface {
	Quote(ctx context.Context, req jupiter.QuoteRequest) (*jupiter.QuoteResponse, error)
}

// SolanaStrategy prices through Jupiter and falls back to mock pricing.
type SolanaStrategy struct {
	Client   JupiterQuoter
	Mock     *MockPricer
	Switches Switches
	Logger   *logrus.Logger
}

func (s *SolanaStrategy) Price(ctx context.Context, in PriceInput) (models.Quote, error) {
	if s.Client == nil || !liveEnabled(ctx, s.Switches, models.FamilySolana) {
		return s.Mock.Quote(in, solanaMockLabels)
	}

	q, err := s.live(ctx, in)
	if err != nil {
		logger(s.Logger).WithFields(logrus.Fields{
			"chain":  in.Chain.ID,
			"family": models.FamilySolana,
			"source": "jupiter",
		}).WithError(err).Warn("live quote failed, using mock pricing")
		return s.Mock.Quote(in, solanaMockLabels)
	}
	return q, nil
}

func (s *SolanaStrategy) live(ctx context.Context, in PriceInput) (models.Quote, error) {
	inputMint, err := mintAddress(in.Sell)
	if err != nil {
		return models.Quote{}, err
	}
	outputMint, err := mintAddress(in.Buy)
	if err != nil {
		return models.Quote{}, err
	}

	slippage := in.SlippageBps
	res, err := s.Client.Quote(ctx, jupiter.QuoteRequest{
		InputMint:   inputMint,
		OutputMint:  outputMint,
		Amount:      in.Fee.NetAmount,
		SlippageBps: &slippage,
	})
	if err != nil {
		return models.Quote{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	out, ok := new(big.Int).SetString(res.OutAmount, 10)
	if !ok {
		return models.Quote{}, fmt.Errorf("%w: non-integer outAmount %q", ErrUpstreamUnavailable, res.OutAmount)
	}
	net, ok := new(big.Int).SetString(in.Fee.NetAmount, 10)
	if !ok {
		return models.Quote{}, newError(ErrMalformedAmount, "invalid net amount %q", in.Fee.NetAmount)
	}

	route := strings.Join(res.RouteLabels(), " -> ")
	if route == "" {
		route = solanaMockLabels.Route
	}

	return models.Quote{
		ChainID:     in.Chain.ID,
		SellToken:   in.Sell,
		BuyToken:    in.Buy,
		SellAmount:  in.SellAmount,
		BuyAmount:   out.String(),
		Price:       impliedPrice(out, net),
		PriceImpact: orDefault(res.PriceImpactPct, "0"),
		Fee:         in.Fee,
		Route:       route,
		Sources:     []string{"Jupiter"},
	}, nil
}

// mintAddress returns the mint to quote for a, using wrapped SOL for the
// native asset.
func mintAddress(a models.Asset) (string, error) {
	if a.IsNative {
		return solana.SolMint.String(), nil
	}
	pk, err := solana.PublicKeyFromBase58(a.Address)
	if err != nil {
		return "", fmt.Errorf("%w: invalid mint %q: %v", ErrUpstreamUnavailable, a.Address, err)
	}
	return pk.String(), nil
}
